package parser

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/erraggy/oasmcp/internal/httputil"
	"github.com/erraggy/oasmcp/oaserrors"
)

// SourceFormat represents the serialization of a source document.
type SourceFormat string

const (
	// SourceFormatYAML indicates the source was in YAML format
	SourceFormatYAML SourceFormat = "yaml"
	// SourceFormatJSON indicates the source was in JSON format
	SourceFormatJSON SourceFormat = "json"
	// SourceFormatUnknown indicates the source format could not be determined
	SourceFormatUnknown SourceFormat = "unknown"
)

// detectFormatFromPath detects the source format from a file path
func detectFormatFromPath(path string) SourceFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return SourceFormatJSON
	case ".yaml", ".yml":
		return SourceFormatYAML
	default:
		return SourceFormatUnknown
	}
}

// detectFormatFromContent attempts to detect the format from the content bytes.
// JSON starts with '{' or '[', anything else is treated as YAML.
func detectFormatFromContent(data []byte) SourceFormat {
	trimmed := bytes.TrimLeft(data, " \t\n\r\ufeff")
	if len(trimmed) == 0 {
		return SourceFormatUnknown
	}
	if trimmed[0] == '{' || trimmed[0] == '[' {
		return SourceFormatJSON
	}
	return SourceFormatYAML
}

// detectFormatFromURL detects the format from the URL path, then the Content-Type header.
func detectFormatFromURL(urlStr, contentType string) SourceFormat {
	if u, err := url.Parse(urlStr); err == nil && u.Path != "" {
		if format := detectFormatFromPath(u.Path); format != SourceFormatUnknown {
			return format
		}
	}

	switch mediaType := httputil.MediaType(contentType); {
	case httputil.IsJSONMediaType(mediaType):
		return SourceFormatJSON
	case strings.Contains(mediaType, "yaml"):
		return SourceFormatYAML
	default:
		return SourceFormatUnknown
	}
}

// IsURL reports whether the location is an http or https URL with a host.
func IsURL(location string) bool {
	if !strings.HasPrefix(location, "http://") && !strings.HasPrefix(location, "https://") {
		return false
	}
	u, err := url.Parse(location)
	return err == nil && u.Host != ""
}

// fetchURL fetches content from a URL and returns the bytes and Content-Type header.
func (p *Parser) fetchURL(ctx context.Context, urlStr string) ([]byte, string, error) {
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client := p.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, "", &oaserrors.SourceError{Source: urlStr, Cause: err}
	}
	req.Header.Set("User-Agent", p.userAgent())
	req.Header.Set("Accept", "application/json, application/yaml;q=0.9, */*;q=0.8")

	resp, err := client.Do(req)
	if err != nil {
		return nil, "", &oaserrors.SourceError{Source: urlStr, Cause: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, "", &oaserrors.SourceError{Source: urlStr, StatusCode: resp.StatusCode}
	}

	data, err := readLimited(resp.Body, p.maxSize())
	if err != nil {
		return nil, "", &oaserrors.SourceError{Source: urlStr, Cause: err}
	}
	return data, resp.Header.Get("Content-Type"), nil
}

var errTooLarge = errors.New("document exceeds maximum size")

// readLimited reads at most limit bytes, failing when r has more.
func readLimited(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("parser: failed to read: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("parser: %w (%d bytes)", errTooLarge, limit)
	}
	return data, nil
}
