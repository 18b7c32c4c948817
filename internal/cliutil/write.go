// Package cliutil provides utilities for CLI operations.
package cliutil

import (
	"fmt"
	"io"
	"os"

	"github.com/erraggy/oasmcp/internal/issues"
)

// Writef writes formatted output to the writer.
// If the write fails, it logs to stderr (useful for debugging).
func Writef(w io.Writer, format string, args ...any) {
	if _, err := fmt.Fprintf(w, format, args...); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "write error: %v\n", err)
	}
}

// WriteIssues writes a header with the issue count followed by one indented
// line per issue. Nothing is written for an empty list.
func WriteIssues(w io.Writer, header string, list []issues.Issue) {
	if len(list) == 0 {
		return
	}
	Writef(w, "%s (%d):\n", header, len(list))
	for _, is := range list {
		Writef(w, "  %s\n", is.String())
	}
}
