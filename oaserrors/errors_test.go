package oaserrors

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceError(t *testing.T) {
	err := &SourceError{Source: "https://example.com/api.yaml", StatusCode: 404}
	assert.Equal(t, "source unreachable: https://example.com/api.yaml (HTTP 404)", err.Error())
	assert.ErrorIs(t, err, ErrSourceUnreachable)
	assert.NotErrorIs(t, err, ErrSpecInvalid)

	wrapped := &SourceError{Source: "missing.yaml", Cause: fs.ErrNotExist}
	assert.ErrorIs(t, wrapped, fs.ErrNotExist)
	assert.Contains(t, wrapped.Error(), "file does not exist")
}

func TestParseErrorMatchesSpecInvalid(t *testing.T) {
	err := fmt.Errorf("parser: %w", &ParseError{Path: "api.yaml", Line: 3, Message: "bad indent"})

	assert.ErrorIs(t, err, ErrParse)
	assert.ErrorIs(t, err, ErrSpecInvalid)
	assert.NotErrorIs(t, err, ErrSourceUnreachable)
	assert.Equal(t, "parser: parse error in api.yaml at line 3: bad indent", err.Error())
}

func TestValidationError(t *testing.T) {
	tests := []struct {
		name string
		err  *ValidationError
		want string
	}{
		{
			name: "no violations",
			err:  &ValidationError{Source: "a.yaml"},
			want: "validation error in a.yaml",
		},
		{
			name: "single violation",
			err: &ValidationError{Violations: []Violation{
				{Path: "info", Message: "missing title"},
			}},
			want: "validation error: info: missing title",
		},
		{
			name: "many violations",
			err: &ValidationError{Violations: []Violation{
				{Path: "info", Message: "missing title"},
				{Message: "missing paths"},
			}},
			want: "validation error: 2 violations, first: info: missing title",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
			assert.ErrorIs(t, tt.err, ErrValidation)
			assert.ErrorIs(t, tt.err, ErrSpecInvalid)
		})
	}
}

func TestEmptyUnitError(t *testing.T) {
	err := error(&EmptyUnitError{Unit: "petstore-2"})
	assert.ErrorIs(t, err, ErrEmptyUnit)
	assert.Contains(t, err.Error(), "No valid operations found in spec")

	var target *EmptyUnitError
	require.True(t, errors.As(err, &target))
	assert.Equal(t, "petstore-2", target.Unit)
}

func TestConfigError(t *testing.T) {
	err := &ConfigError{Option: "MaxOperations", Value: 0, Message: "must be positive"}
	assert.Equal(t, "configuration error: MaxOperations=0: must be positive", err.Error())
	assert.ErrorIs(t, err, ErrConfig)
}

func TestReferenceError(t *testing.T) {
	err := &ReferenceError{Ref: "#/components/schemas/Pet", Message: "not found"}
	assert.Equal(t, "reference error: #/components/schemas/Pet: not found", err.Error())
	assert.ErrorIs(t, err, ErrReference)
	assert.NotErrorIs(t, err, ErrCircularReference)

	circular := &ReferenceError{Ref: "#/components/schemas/Node", IsCircular: true}
	assert.Equal(t, "circular reference: #/components/schemas/Node", circular.Error())
	assert.ErrorIs(t, circular, ErrCircularReference)
	assert.ErrorIs(t, circular, ErrReference)
}
