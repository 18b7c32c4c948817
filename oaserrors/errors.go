// Package oaserrors provides structured error types for oasmcp.
//
// These error types enable programmatic error handling via errors.Is() and
// errors.As(), allowing callers to distinguish a specification that could not
// be reached from one that could be read but is not a valid OpenAPI document.
//
// # Error Categories
//
//   - SourceError: file or network failures while fetching a specification
//   - ParseError: YAML/JSON decoding failures
//   - ValidationError: meta-schema violations in an otherwise decodable document
//   - ReferenceError: $ref resolution failures and circular references
//   - EmptyUnitError: a generation unit produced no tools
//   - ConfigError: invalid configuration or input options
//
// ParseError and ValidationError both match ErrSpecInvalid, so callers that
// only care about "bad input" need a single check:
//
//	gen, err := generator.GenerateWithOptions(ctx, generator.WithSource("api.yaml"))
//	if errors.Is(err, oaserrors.ErrSpecInvalid) {
//	    // reject the input
//	}
package oaserrors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrSourceUnreachable indicates the specification could not be read.
	ErrSourceUnreachable = errors.New("source unreachable")

	// ErrSpecInvalid indicates the specification is not a valid OpenAPI document.
	ErrSpecInvalid = errors.New("spec invalid")

	// ErrParse indicates a decoding failure occurred.
	ErrParse = errors.New("parse error")

	// ErrValidation indicates a meta-schema validation failure.
	ErrValidation = errors.New("validation error")

	// ErrReference indicates a reference resolution failure.
	ErrReference = errors.New("reference error")

	// ErrCircularReference indicates a circular $ref was detected.
	ErrCircularReference = errors.New("circular reference")

	// ErrEmptyUnit indicates a generation unit yielded zero tools.
	ErrEmptyUnit = errors.New("empty unit")

	// ErrConfig indicates an invalid configuration.
	ErrConfig = errors.New("configuration error")
)

// SourceError represents a failure to read a specification from a file or URL.
type SourceError struct {
	// Source is the file path or URL that was requested
	Source string
	// StatusCode is the HTTP status for remote sources (0 if not applicable)
	StatusCode int
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *SourceError) Error() string {
	msg := "source unreachable"
	if e.Source != "" {
		msg += ": " + e.Source
	}
	if e.StatusCode > 0 {
		msg += fmt.Sprintf(" (HTTP %d)", e.StatusCode)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *SourceError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *SourceError) Is(target error) bool {
	return target == ErrSourceUnreachable
}

// ParseError represents a failure to decode a specification document.
type ParseError struct {
	// Path is the file path or source identifier
	Path string
	// Line is the line number where the error occurred (0 if unknown)
	Line int
	// Message describes the parsing failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ParseError) Error() string {
	msg := "parse error"
	if e.Path != "" {
		msg += " in " + e.Path
	}
	if e.Line > 0 {
		msg += fmt.Sprintf(" at line %d", e.Line)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse || target == ErrSpecInvalid
}

// Violation is a single meta-schema violation.
type Violation struct {
	// Path is the JSON path of the offending value (e.g., "paths./pets.get")
	Path string
	// Message describes the violation
	Message string
}

// ValidationError represents a document that decoded but is not valid OpenAPI.
type ValidationError struct {
	// Source identifies the document
	Source string
	// Version is the declared openapi version, if any
	Version string
	// Violations lists every problem found, in discovery order
	Violations []Violation
	// Cause is the underlying validator error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString("validation error")
	if e.Source != "" {
		b.WriteString(" in ")
		b.WriteString(e.Source)
	}
	switch len(e.Violations) {
	case 0:
	case 1:
		b.WriteString(": ")
		writeViolation(&b, e.Violations[0])
	default:
		fmt.Fprintf(&b, ": %d violations, first: ", len(e.Violations))
		writeViolation(&b, e.Violations[0])
	}
	if e.Cause != nil && len(e.Violations) == 0 {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

func writeViolation(b *strings.Builder, v Violation) {
	if v.Path != "" {
		b.WriteString(v.Path)
		b.WriteString(": ")
	}
	b.WriteString(v.Message)
}

// Unwrap returns the underlying cause for error chaining.
func (e *ValidationError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation || target == ErrSpecInvalid
}

// ReferenceError represents a failure to resolve a $ref.
type ReferenceError struct {
	// Ref is the reference string that failed to resolve
	Ref string
	// IsCircular is true if this error is due to a circular reference
	IsCircular bool
	// Message provides additional context about the failure
	Message string
}

// Error returns a human-readable error message.
func (e *ReferenceError) Error() string {
	msg := "reference error"
	if e.IsCircular {
		msg = "circular reference"
	}
	if e.Ref != "" {
		msg += ": " + e.Ref
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *ReferenceError) Is(target error) bool {
	if target == ErrReference {
		return true
	}
	return e.IsCircular && target == ErrCircularReference
}

// EmptyUnitError reports a generation unit that yielded no tools.
// It is fatal to that unit only.
type EmptyUnitError struct {
	// Unit is the generation unit name
	Unit string
}

// Error returns a human-readable error message.
func (e *EmptyUnitError) Error() string {
	if e.Unit == "" {
		return "No valid operations found in spec"
	}
	return fmt.Sprintf("No valid operations found in spec (unit %s)", e.Unit)
}

// Is reports whether target matches this error type.
func (e *EmptyUnitError) Is(target error) bool {
	return target == ErrEmptyUnit
}

// ConfigError represents an invalid configuration option.
type ConfigError struct {
	// Option is the name of the offending option
	Option string
	// Value is the invalid value (optional)
	Value any
	// Message describes why the configuration is invalid
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ConfigError) Error() string {
	msg := "configuration error"
	if e.Option != "" {
		msg += ": " + e.Option
	}
	if e.Value != nil {
		msg += fmt.Sprintf("=%v", e.Value)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}
