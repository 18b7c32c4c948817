// Package issues provides the issue type used for warnings and errors in
// generation results.
package issues

import (
	"fmt"

	"github.com/erraggy/oasmcp/internal/severity"
)

// Issue represents a single problem found during a generation run.
type Issue struct {
	// Path is the JSON path to the problematic field (e.g., "paths./pets.get")
	Path string `json:"path,omitempty"`
	// Message is a human-readable description of the issue
	Message string `json:"message"`
	// Severity indicates the severity level of the issue
	Severity severity.Severity `json:"severity"`
	// Unit is the generation unit the issue belongs to (empty for run-level issues)
	Unit string `json:"unit,omitempty"`
}

// Warning creates a warning issue.
func Warning(path, format string, args ...any) Issue {
	return Issue{Path: path, Message: fmt.Sprintf(format, args...), Severity: severity.SeverityWarning}
}

// Error creates an error issue.
func Error(path, format string, args ...any) Issue {
	return Issue{Path: path, Message: fmt.Sprintf(format, args...), Severity: severity.SeverityError}
}

// InUnit returns a copy of the issue attributed to the named unit.
func (i Issue) InUnit(unit string) Issue {
	i.Unit = unit
	return i
}

// String returns a formatted string representation of the issue.
// Uses different symbols based on severity level:
// - "✗" for Error severity
// - "⚠" for Warning severity
// - "ℹ" for Info severity
func (i Issue) String() string {
	var symbol string
	switch i.Severity {
	case severity.SeverityError:
		symbol = "✗"
	case severity.SeverityWarning:
		symbol = "⚠"
	case severity.SeverityInfo:
		symbol = "ℹ"
	default:
		symbol = "?"
	}

	prefix := symbol
	if i.Unit != "" {
		prefix += " [" + i.Unit + "]"
	}
	if i.Path == "" {
		return fmt.Sprintf("%s %s", prefix, i.Message)
	}
	return fmt.Sprintf("%s %s: %s", prefix, i.Path, i.Message)
}

// Messages returns the bare messages of the given issues, in order.
func Messages(list []Issue) []string {
	out := make([]string, len(list))
	for i, is := range list {
		out[i] = is.Message
	}
	return out
}
