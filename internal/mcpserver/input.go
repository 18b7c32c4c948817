package mcpserver

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/erraggy/oasmcp/parser"
	"github.com/erraggy/oasmcp/validator"
)

// specInput represents the three ways an OAS document can be provided to a tool.
// Exactly one of File, URL, or Content must be set.
type specInput struct {
	File    string `json:"file,omitempty"    jsonschema:"Path to an OAS file on disk"`
	URL     string `json:"url,omitempty"     jsonschema:"URL to fetch an OAS document from"`
	Content string `json:"content,omitempty" jsonschema:"Inline OAS document content (JSON or YAML)"`
}

// specCacheStore provides a session-scoped cache of parsed and validated
// documents. File inputs are keyed by (absolutePath, modTime), content inputs
// by a SHA-256 hash and URL inputs by the URL string. Each input kind has its
// own TTL; expired entries are dropped by the caches' own reapers.
type specCacheStore struct {
	once    sync.Once
	file    *expirable.LRU[string, *parser.Document]
	url     *expirable.LRU[string, *parser.Document]
	content *expirable.LRU[string, *parser.Document]
}

var specCache = &specCacheStore{}

func (c *specCacheStore) init() {
	c.once.Do(func() {
		c.file = expirable.NewLRU[string, *parser.Document](cfg.CacheMaxSize, nil, cfg.CacheFileTTL)
		c.url = expirable.NewLRU[string, *parser.Document](cfg.CacheMaxSize, nil, cfg.CacheURLTTL)
		c.content = expirable.NewLRU[string, *parser.Document](cfg.CacheMaxSize, nil, cfg.CacheContentTTL)
	})
}

// bucket returns the cache for the kind of key.
func (c *specCacheStore) bucket(key string) *expirable.LRU[string, *parser.Document] {
	c.init()
	switch {
	case strings.HasPrefix(key, "file:"):
		return c.file
	case strings.HasPrefix(key, "url:"):
		return c.url
	default:
		return c.content
	}
}

func (c *specCacheStore) get(key string) (*parser.Document, bool) {
	return c.bucket(key).Get(key)
}

func (c *specCacheStore) put(key string, doc *parser.Document) {
	c.bucket(key).Add(key, doc)
}

// reset clears all cached entries. Used in tests.
func (c *specCacheStore) reset() {
	c.init()
	c.file.Purge()
	c.url.Purge()
	c.content.Purge()
}

// size returns the number of cached entries.
func (c *specCacheStore) size() int {
	c.init()
	return c.file.Len() + c.url.Len() + c.content.Len()
}

// makeCacheKey creates a cache key for the given spec input, or "" when the
// input cannot be cached.
func makeCacheKey(s specInput) string {
	switch {
	case s.File != "":
		absPath, err := filepath.Abs(s.File)
		if err != nil {
			return ""
		}
		info, err := os.Stat(absPath)
		if err != nil {
			return "" // Can't stat, don't cache.
		}
		return fmt.Sprintf("file:%s:%d", absPath, info.ModTime().UnixNano())
	case s.Content != "":
		h := sha256.Sum256([]byte(s.Content))
		return fmt.Sprintf("content:%s", hex.EncodeToString(h[:]))
	case s.URL != "":
		return fmt.Sprintf("url:%s", s.URL)
	default:
		return ""
	}
}

// resolve loads and validates the document from whichever input was
// provided, using the cache for repeated inputs. Only valid documents are
// cached.
func (s specInput) resolve(ctx context.Context) (*parser.Document, error) {
	count := 0
	for _, set := range []bool{s.File != "", s.URL != "", s.Content != ""} {
		if set {
			count++
		}
	}
	if count != 1 {
		return nil, fmt.Errorf("exactly one of file, url, or content must be provided (got %d)", count)
	}
	if s.File != "" && parser.IsURL(s.File) {
		return nil, fmt.Errorf("file input %q is a URL; use the url input instead", s.File)
	}

	if s.Content != "" && int64(len(s.Content)) > cfg.MaxInlineSize {
		return nil, fmt.Errorf("inline content size %d bytes exceeds maximum %d bytes; use file input instead, or set OASMCP_MAX_INLINE_SIZE to increase",
			len(s.Content), cfg.MaxInlineSize)
	}

	var key string
	if cfg.CacheEnabled {
		key = makeCacheKey(s)
	}
	if key != "" {
		if cached, ok := specCache.get(key); ok {
			return cached, nil
		}
	}

	opts := []parser.Option{parser.WithContext(ctx), parser.WithTimeout(30 * time.Second)}
	switch {
	case s.File != "":
		opts = append(opts, parser.WithFilePath(s.File))
	case s.URL != "":
		opts = append(opts, parser.WithFilePath(s.URL))
		if !cfg.AllowPrivateIPs {
			opts = append(opts, parser.WithHTTPClient(newSafeHTTPClient()))
		}
	case s.Content != "":
		opts = append(opts, parser.WithReader(strings.NewReader(s.Content)), parser.WithSourceName("content"))
	}

	doc, err := parser.ParseWithOptions(opts...)
	if err != nil {
		return nil, err
	}
	if err := validator.Validate(doc); err != nil {
		return nil, err
	}

	if key != "" {
		specCache.put(key, doc)
	}
	return doc, nil
}
