// Package severity provides the severity levels attached to issues reported
// during a generation run.
//
// Levels are ordered from least to most severe: Info < Warning < Error.
// Warnings never fail a run; errors fail the unit (or the run) they belong to.
package severity

import "fmt"

// Severity indicates the severity level of an issue.
type Severity int

const (
	// SeverityInfo indicates informational messages about processing choices.
	SeverityInfo Severity = iota

	// SeverityWarning indicates a non-fatal anomaly such as a missing OAuth
	// scheme or an approximated type translation.
	SeverityWarning

	// SeverityError indicates a fatal problem for a unit or for the whole run.
	SeverityError
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler so issues serialize with
// readable levels in JSON output.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Severity) UnmarshalText(text []byte) error {
	switch string(text) {
	case "info":
		*s = SeverityInfo
	case "warning":
		*s = SeverityWarning
	case "error":
		*s = SeverityError
	default:
		return fmt.Errorf("severity: unknown level %q", text)
	}
	return nil
}
