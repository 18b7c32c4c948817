package parser

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/erraggy/oasmcp"
	"github.com/erraggy/oasmcp/internal/options"
)

// Option is a function that configures a parse operation
type Option func(*parseConfig) error

// parseConfig holds configuration for a parse operation
type parseConfig struct {
	// Input source (exactly one must be set)
	filePath *string
	reader   io.Reader
	bytes    []byte

	ctx        context.Context
	sourceName string
	userAgent  string
	httpClient *http.Client
	timeout    time.Duration
	maxSize    int64
	logger     Logger
}

// ParseWithOptions parses an OpenAPI document using functional options.
//
// Example:
//
//	doc, err := parser.ParseWithOptions(
//	    parser.WithFilePath("https://example.com/openapi.json"),
//	    parser.WithTimeout(10*time.Second),
//	)
func ParseWithOptions(opts ...Option) (*Document, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("parser: invalid options: %w", err)
	}

	p := &Parser{
		UserAgent:  cfg.userAgent,
		HTTPClient: cfg.httpClient,
		Timeout:    cfg.timeout,
		MaxSize:    cfg.maxSize,
		Logger:     cfg.logger,
	}

	var doc *Document
	switch {
	case cfg.filePath != nil:
		doc, err = p.ParseContext(cfg.ctx, *cfg.filePath)
	case cfg.reader != nil:
		doc, err = p.ParseReader(cfg.reader)
	default:
		name := cfg.sourceName
		if name == "" {
			name = "ParseBytes." + string(detectFormatFromContent(cfg.bytes))
		}
		doc, err = p.ParseBytes(cfg.bytes, name)
	}
	if err != nil {
		return nil, err
	}
	if cfg.sourceName != "" {
		doc.SourcePath = cfg.sourceName
	}
	return doc, nil
}

// applyOptions applies option functions and validates configuration
func applyOptions(opts ...Option) (*parseConfig, error) {
	cfg := &parseConfig{
		ctx:       context.Background(),
		userAgent: oasmcp.UserAgent(),
		timeout:   DefaultTimeout,
		maxSize:   DefaultMaxSize,
	}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	if err := options.ValidateSingleInputSource(
		"parser: must specify an input source (use WithFilePath, WithReader, or WithBytes)",
		"parser: must specify exactly one input source",
		cfg.filePath != nil, cfg.reader != nil, cfg.bytes != nil,
	); err != nil {
		return nil, err
	}
	return cfg, nil
}

// WithFilePath specifies a file path or URL as the input source
func WithFilePath(path string) Option {
	return func(cfg *parseConfig) error {
		cfg.filePath = &path
		return nil
	}
}

// WithReader specifies an io.Reader as the input source
func WithReader(r io.Reader) Option {
	return func(cfg *parseConfig) error {
		if r == nil {
			return fmt.Errorf("parser: reader cannot be nil")
		}
		cfg.reader = r
		return nil
	}
}

// WithBytes specifies a byte slice as the input source
func WithBytes(data []byte) Option {
	return func(cfg *parseConfig) error {
		if data == nil {
			return fmt.Errorf("parser: bytes cannot be nil")
		}
		cfg.bytes = data
		return nil
	}
}

// WithSourceName overrides the SourcePath recorded on the result.
func WithSourceName(name string) Option {
	return func(cfg *parseConfig) error {
		cfg.sourceName = name
		return nil
	}
}

// WithContext sets the context used for remote fetches.
func WithContext(ctx context.Context) Option {
	return func(cfg *parseConfig) error {
		if ctx == nil {
			return fmt.Errorf("parser: context cannot be nil")
		}
		cfg.ctx = ctx
		return nil
	}
}

// WithUserAgent sets the User-Agent for remote fetches.
func WithUserAgent(ua string) Option {
	return func(cfg *parseConfig) error {
		cfg.userAgent = ua
		return nil
	}
}

// WithHTTPClient sets the HTTP client used for remote fetches.
func WithHTTPClient(client *http.Client) Option {
	return func(cfg *parseConfig) error {
		cfg.httpClient = client
		return nil
	}
}

// WithTimeout bounds each remote fetch. The timeout must be positive.
func WithTimeout(d time.Duration) Option {
	return func(cfg *parseConfig) error {
		if d <= 0 {
			return fmt.Errorf("parser: timeout must be positive, got %s", d)
		}
		cfg.timeout = d
		return nil
	}
}

// WithMaxSize sets the maximum document size in bytes.
func WithMaxSize(size int64) Option {
	return func(cfg *parseConfig) error {
		if size <= 0 {
			return fmt.Errorf("parser: max size must be positive, got %d", size)
		}
		cfg.maxSize = size
		return nil
	}
}

// WithLogger sets the structured logger.
func WithLogger(l Logger) Option {
	return func(cfg *parseConfig) error {
		cfg.logger = l
		return nil
	}
}
