package generator

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/erraggy/oasmcp/internal/options"
	"github.com/erraggy/oasmcp/oaserrors"
	"github.com/erraggy/oasmcp/parser"
)

// Option is a function that configures a generation run
type Option func(*generateConfig) error

// generateConfig holds configuration for a generation run
type generateConfig struct {
	// Input source (exactly one must be set)
	source *string
	doc    *parser.Document

	ctx        context.Context
	cfg        Config
	emitter    Emitter
	checker    OutputChecker
	httpClient *http.Client
	logger     parser.Logger
}

// GenerateWithOptions runs a generation configured by functional options.
// The error is non-nil only for invalid options; generation problems are
// reported in the Result.
//
// Example:
//
//	result, err := generator.GenerateWithOptions(
//	    generator.WithSource("openapi.yaml"),
//	    generator.WithCategory("finance"),
//	    generator.WithDryRun(true),
//	)
func GenerateWithOptions(opts ...Option) (*Result, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("generator: invalid options: %w", err)
	}

	g := New()
	g.Emitter = cfg.emitter
	g.Checker = cfg.checker
	g.HTTPClient = cfg.httpClient
	g.Logger = cfg.logger

	if cfg.doc != nil {
		return g.GenerateDocument(cfg.ctx, cfg.cfg, cfg.doc), nil
	}
	return g.Generate(cfg.ctx, cfg.cfg), nil
}

// applyOptions applies option functions and validates configuration
func applyOptions(opts ...Option) (*generateConfig, error) {
	cfg := &generateConfig{
		ctx: context.Background(),
		cfg: DefaultConfig(""),
	}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}
	if err := options.ValidateSingleInputSource(
		"generator: must specify an input source (use WithSource or WithDocument)",
		"generator: must specify exactly one input source",
		cfg.source != nil, cfg.doc != nil,
	); err != nil {
		return nil, err
	}
	if cfg.source != nil {
		cfg.cfg.Source = *cfg.source
	}
	return cfg, nil
}

// WithSource specifies a file path or URL as the input source
func WithSource(source string) Option {
	return func(cfg *generateConfig) error {
		cfg.source = &source
		return nil
	}
}

// WithDocument specifies an already parsed document as the input source
func WithDocument(doc *parser.Document) Option {
	return func(cfg *generateConfig) error {
		if doc == nil {
			return &oaserrors.ConfigError{Option: "document", Message: "must not be nil"}
		}
		cfg.doc = doc
		return nil
	}
}

// WithConfig replaces the whole run configuration. Options applied
// afterwards still override individual fields. Source is ignored; use
// WithSource.
func WithConfig(c Config) Option {
	return func(cfg *generateConfig) error {
		cfg.cfg = c
		return nil
	}
}

// WithContext sets the context for fetching and emission
func WithContext(ctx context.Context) Option {
	return func(cfg *generateConfig) error {
		if ctx == nil {
			return &oaserrors.ConfigError{Option: "context", Message: "must not be nil"}
		}
		cfg.ctx = ctx
		return nil
	}
}

// WithOutputDir overrides the output location
func WithOutputDir(dir string) Option {
	return func(cfg *generateConfig) error {
		cfg.cfg.OutputDir = dir
		return nil
	}
}

// WithCategory overrides category inference
func WithCategory(label string) Option {
	return func(cfg *generateConfig) error {
		cfg.cfg.Category = label
		return nil
	}
}

// WithForceSplit partitions by tag even under the operation ceiling
func WithForceSplit(enabled bool) Option {
	return func(cfg *generateConfig) error {
		cfg.cfg.ForceSplit = enabled
		return nil
	}
}

// WithIncludeTests enables or disables the integration test artifact
// Default: true
func WithIncludeTests(enabled bool) Option {
	return func(cfg *generateConfig) error {
		cfg.cfg.IncludeTests = enabled
		return nil
	}
}

// WithValidateOutput enables or disables the output check
// Default: true
func WithValidateOutput(enabled bool) Option {
	return func(cfg *generateConfig) error {
		cfg.cfg.ValidateOutput = enabled
		return nil
	}
}

// WithDryRun computes artifact paths without writing
func WithDryRun(enabled bool) Option {
	return func(cfg *generateConfig) error {
		cfg.cfg.DryRun = enabled
		return nil
	}
}

// WithMaxOperations sets the operation ceiling per unit
// Default: 100
func WithMaxOperations(n int) Option {
	return func(cfg *generateConfig) error {
		if n <= 0 {
			return &oaserrors.ConfigError{Option: "max_operations", Value: n, Message: "must be positive"}
		}
		cfg.cfg.MaxOperations = n
		return nil
	}
}

// WithFetchTimeout bounds remote source fetches
// Default: 30s
func WithFetchTimeout(d time.Duration) Option {
	return func(cfg *generateConfig) error {
		if d <= 0 {
			return &oaserrors.ConfigError{Option: "fetch_timeout", Value: d, Message: "must be positive"}
		}
		cfg.cfg.FetchTimeout = d
		return nil
	}
}

// WithValidationTimeout bounds the output check
// Default: 60s
func WithValidationTimeout(d time.Duration) Option {
	return func(cfg *generateConfig) error {
		if d <= 0 {
			return &oaserrors.ConfigError{Option: "validation_timeout", Value: d, Message: "must be positive"}
		}
		cfg.cfg.ValidationTimeout = d
		return nil
	}
}

// WithConcurrency bounds how many partitions are built at once
func WithConcurrency(n int) Option {
	return func(cfg *generateConfig) error {
		cfg.cfg.Concurrency = n
		return nil
	}
}

// WithEmitter sets the artifact emitter
func WithEmitter(e Emitter) Option {
	return func(cfg *generateConfig) error {
		cfg.emitter = e
		return nil
	}
}

// WithOutputChecker sets the post-emission checker
func WithOutputChecker(c OutputChecker) Option {
	return func(cfg *generateConfig) error {
		cfg.checker = c
		return nil
	}
}

// WithHTTPClient sets the client for remote sources
func WithHTTPClient(client *http.Client) Option {
	return func(cfg *generateConfig) error {
		cfg.httpClient = client
		return nil
	}
}

// WithLogger sets the structured logger
func WithLogger(l parser.Logger) Option {
	return func(cfg *generateConfig) error {
		cfg.logger = l
		return nil
	}
}
