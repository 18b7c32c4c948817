// Package options provides shared helpers for the functional options used
// across oasmcp packages.
package options

import (
	"github.com/erraggy/oasmcp/oaserrors"
)

// Apply runs each option against cfg, stopping at the first error.
// Nil options are skipped.
func Apply[T any, O ~func(*T) error](cfg *T, opts ...O) error {
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(cfg); err != nil {
			return err
		}
	}
	return nil
}

// ValidateSingleInputSource ensures exactly one input source is specified.
// sources is a variadic list of booleans indicating whether each source is set.
// The returned error is an *oaserrors.ConfigError carrying noSourceMsg or
// multiSourceMsg.
func ValidateSingleInputSource(noSourceMsg, multiSourceMsg string, sources ...bool) error {
	sourceCount := 0
	for _, hasSource := range sources {
		if hasSource {
			sourceCount++
		}
	}

	switch {
	case sourceCount == 0:
		return &oaserrors.ConfigError{Option: "source", Message: noSourceMsg}
	case sourceCount > 1:
		return &oaserrors.ConfigError{Option: "source", Value: sourceCount, Message: multiSourceMsg}
	default:
		return nil
	}
}
