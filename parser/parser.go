// Package parser loads OpenAPI 3.x documents from files, URLs, readers and
// byte slices into an ordered Node tree and a typed, read-only Document view.
//
// Both YAML and JSON are accepted and normalized to the same shape. Object key
// order is preserved, so anything derived from path or field order is
// deterministic across runs.
//
// Basic usage:
//
//	doc, err := parser.ParseWithOptions(parser.WithFilePath("openapi.yaml"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(doc.Info.Title, len(doc.Paths))
//
// Parsing does not validate the document against the OpenAPI meta-schema;
// see the validator package for that step.
package parser

import (
	"context"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/erraggy/oasmcp"
	"github.com/erraggy/oasmcp/oaserrors"
)

const (
	// DefaultTimeout bounds remote fetches when no timeout is configured.
	DefaultTimeout = 30 * time.Second
	// DefaultMaxSize bounds the size of a source document (10 MiB).
	DefaultMaxSize int64 = 10 << 20
)

// Parser loads OpenAPI documents.
type Parser struct {
	// UserAgent is sent when fetching remote documents.
	// Defaults to "oasmcp/<version>".
	UserAgent string
	// HTTPClient is used for remote documents. When nil a client with
	// Timeout is created per fetch.
	HTTPClient *http.Client
	// Timeout bounds each remote fetch. Default: 30s.
	Timeout time.Duration
	// MaxSize is the maximum document size in bytes. Default: 10 MiB.
	MaxSize int64
	// Logger is the structured logger for debug output.
	// If nil, logging is disabled (default).
	Logger Logger
}

// New creates a new Parser instance with default settings
func New() *Parser {
	return &Parser{
		UserAgent: oasmcp.UserAgent(),
		Timeout:   DefaultTimeout,
		MaxSize:   DefaultMaxSize,
	}
}

func (p *Parser) log() Logger {
	return OrNop(p.Logger)
}

func (p *Parser) userAgent() string {
	if p.UserAgent == "" {
		return oasmcp.UserAgent()
	}
	return p.UserAgent
}

func (p *Parser) maxSize() int64 {
	if p.MaxSize <= 0 {
		return DefaultMaxSize
	}
	return p.MaxSize
}

// Parse parses an OpenAPI document from a file path or URL.
func (p *Parser) Parse(specPath string) (*Document, error) {
	return p.ParseContext(context.Background(), specPath)
}

// ParseContext parses an OpenAPI document from a file path or URL.
// For URLs (http:// or https://), the content is fetched under ctx and the
// configured timeout. Read failures are reported as *oaserrors.SourceError.
func (p *Parser) ParseContext(ctx context.Context, specPath string) (*Document, error) {
	var (
		data   []byte
		format SourceFormat
		err    error
	)
	start := time.Now()

	if IsURL(specPath) {
		var contentType string
		data, contentType, err = p.fetchURL(ctx, specPath)
		if err != nil {
			p.log().Warn("fetch failed", "url", specPath, "error", err)
			return nil, err
		}
		format = detectFormatFromURL(specPath, contentType)
	} else {
		data, err = p.readFile(specPath)
		if err != nil {
			return nil, err
		}
		format = detectFormatFromPath(specPath)
	}
	p.log().Debug("loaded source", "source", specPath, "bytes", len(data), "elapsed", time.Since(start))

	doc, err := p.decode(data, specPath)
	if err != nil {
		return nil, err
	}
	if format != SourceFormatUnknown {
		doc.SourceFormat = format
	}
	return doc, nil
}

func (p *Parser) readFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &oaserrors.SourceError{Source: path, Cause: err}
	}
	defer func() {
		_ = f.Close()
	}()

	data, err := readLimited(f, p.maxSize())
	if err != nil {
		return nil, &oaserrors.SourceError{Source: path, Cause: err}
	}
	return data, nil
}

// ParseReader parses an OpenAPI document from an io.Reader.
// The SourcePath of the result is "ParseReader.yaml" or "ParseReader.json".
func (p *Parser) ParseReader(r io.Reader) (*Document, error) {
	data, err := readLimited(r, p.maxSize())
	if err != nil {
		return nil, &oaserrors.SourceError{Source: "reader", Cause: err}
	}
	return p.ParseBytes(data, "ParseReader."+string(detectFormatFromContent(data)))
}

// ParseBytes parses an OpenAPI document from bytes. source names the document
// in errors and in the result's SourcePath.
func (p *Parser) ParseBytes(data []byte, source string) (*Document, error) {
	if int64(len(data)) > p.maxSize() {
		return nil, &oaserrors.SourceError{Source: source, Cause: errTooLarge}
	}
	return p.decode(data, source)
}

func (p *Parser) decode(data []byte, source string) (*Document, error) {
	root, err := DecodeNode(data, source)
	if err != nil {
		return nil, err
	}
	doc, err := NewDocument(root, source)
	if err != nil {
		return nil, err
	}
	doc.SourceFormat = detectFormatFromContent(data)
	for _, w := range doc.Warnings {
		p.log().Warn("document warning", "source", source, "warning", w)
	}
	p.log().Debug("decoded document",
		"source", source,
		"openapi", doc.OpenAPI,
		"paths", len(doc.Paths),
	)
	return doc, nil
}
