package parser

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/oasmcp/oaserrors"
)

func TestParseFile(t *testing.T) {
	doc, err := New().Parse("testdata/petstore.yaml")
	require.NoError(t, err)

	assert.Equal(t, "3.0.3", doc.OpenAPI)
	assert.Equal(t, "Swagger Petstore", doc.Info.Title)
	assert.Equal(t, "1.0.0", doc.Info.Version)
	assert.Equal(t, SourceFormatYAML, doc.SourceFormat)
	assert.Equal(t, "testdata/petstore.yaml", doc.SourcePath)
	assert.Equal(t, "https://petstore.example.com/v1", doc.ServerURL())
	assert.Empty(t, doc.Warnings)

	var paths []string
	for _, p := range doc.Paths {
		paths = append(paths, p.Path)
	}
	assert.Equal(t, []string{"/pets", "/pets/{petId}", "/store/orders"}, paths, "paths keep document order")

	limit, ok := doc.Info.Extension("x-ratelimit-limit").Int()
	require.True(t, ok)
	assert.Equal(t, 120, limit)
}

func TestParseFileOrderJSON(t *testing.T) {
	doc, err := ParseWithOptions(WithFilePath("testdata/minimal.json"))
	require.NoError(t, err)
	assert.Equal(t, SourceFormatJSON, doc.SourceFormat)
	require.Len(t, doc.Paths, 2)
	assert.Equal(t, "/z", doc.Paths[0].Path)
	assert.Equal(t, "/a", doc.Paths[1].Path)
}

func TestParseMissingFile(t *testing.T) {
	_, err := New().Parse("testdata/does-not-exist.yaml")
	require.Error(t, err)
	assert.ErrorIs(t, err, oaserrors.ErrSourceUnreachable)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseURL(t *testing.T) {
	body, err := os.ReadFile("testdata/petstore.yaml")
	require.NoError(t, err)

	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		switch r.URL.Path {
		case "/spec":
			w.Header().Set("Content-Type", "application/yaml")
			_, _ = w.Write(body)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	doc, err := ParseWithOptions(WithFilePath(srv.URL+"/spec"), WithUserAgent("oasmcp-test/1"))
	require.NoError(t, err)
	assert.Equal(t, "Swagger Petstore", doc.Info.Title)
	assert.Equal(t, SourceFormatYAML, doc.SourceFormat)
	assert.Equal(t, "oasmcp-test/1", gotUA)

	_, err = ParseWithOptions(WithFilePath(srv.URL + "/missing.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, oaserrors.ErrSourceUnreachable)
	assert.Contains(t, err.Error(), "HTTP 404")
}

func TestParseURLTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	_, err := ParseWithOptions(WithFilePath(srv.URL), WithTimeout(50*time.Millisecond))
	require.Error(t, err)
	assert.ErrorIs(t, err, oaserrors.ErrSourceUnreachable)
}

func TestParseURLCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().ParseContext(ctx, "http://127.0.0.1:1/spec.yaml")
	assert.ErrorIs(t, err, oaserrors.ErrSourceUnreachable)
}

func TestParseReaderAndBytes(t *testing.T) {
	doc, err := ParseWithOptions(WithReader(strings.NewReader(`{"openapi":"3.0.0","info":{"title":"R","version":"1"},"paths":{}}`)))
	require.NoError(t, err)
	assert.Equal(t, "ParseReader.json", doc.SourcePath)
	assert.Equal(t, SourceFormatJSON, doc.SourceFormat)

	doc, err = ParseWithOptions(
		WithBytes([]byte("openapi: 3.1.0\ninfo: {title: B, version: '1'}\npaths: {}\n")),
		WithSourceName("inline.yaml"),
	)
	require.NoError(t, err)
	assert.Equal(t, "inline.yaml", doc.SourcePath)
	assert.Equal(t, "3.1.0", doc.OpenAPI)
}

func TestParseMaxSize(t *testing.T) {
	_, err := ParseWithOptions(WithBytes(make([]byte, 64)), WithMaxSize(16))
	require.Error(t, err)
	assert.ErrorIs(t, err, oaserrors.ErrSourceUnreachable)
}

func TestParseWithOptionsErrors(t *testing.T) {
	tests := []struct {
		name    string
		opts    []Option
		wantErr string
	}{
		{name: "no source", opts: nil, wantErr: "must specify an input source"},
		{name: "two sources", opts: []Option{WithFilePath("a.yaml"), WithBytes([]byte("{}"))}, wantErr: "exactly one"},
		{name: "nil reader", opts: []Option{WithReader(nil)}, wantErr: "reader cannot be nil"},
		{name: "bad timeout", opts: []Option{WithFilePath("a.yaml"), WithTimeout(0)}, wantErr: "timeout must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseWithOptions(tt.opts...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseRejectsNonObjectRoot(t *testing.T) {
	_, err := ParseWithOptions(WithBytes([]byte("- a\n- b\n")))
	require.Error(t, err)
	assert.ErrorIs(t, err, oaserrors.ErrSpecInvalid)
	assert.Contains(t, err.Error(), "must be an object, got array")
}

func TestUnquotedVersion(t *testing.T) {
	doc, err := ParseWithOptions(WithBytes([]byte("openapi: 3.1\ninfo: {title: T, version: 2}\npaths: {}\n")))
	require.NoError(t, err)
	assert.Equal(t, "3.1", doc.OpenAPI)
	assert.Equal(t, "2", doc.Info.Version)
}

func TestIsURL(t *testing.T) {
	assert.True(t, IsURL("https://example.com/api.yaml"))
	assert.True(t, IsURL("http://localhost:8080"))
	assert.False(t, IsURL("https://"))
	assert.False(t, IsURL("ftp://example.com/api.yaml"))
	assert.False(t, IsURL("./api.yaml"))
}

func TestDetectFormat(t *testing.T) {
	assert.Equal(t, SourceFormatJSON, detectFormatFromPath("A.JSON"))
	assert.Equal(t, SourceFormatYAML, detectFormatFromPath("a.yml"))
	assert.Equal(t, SourceFormatUnknown, detectFormatFromPath("a.txt"))

	assert.Equal(t, SourceFormatJSON, detectFormatFromContent([]byte("  \n{")))
	assert.Equal(t, SourceFormatYAML, detectFormatFromContent([]byte("openapi: 3.0.0")))
	assert.Equal(t, SourceFormatUnknown, detectFormatFromContent(nil))

	assert.Equal(t, SourceFormatJSON, detectFormatFromURL("https://x/spec", "application/json; charset=utf-8"))
	assert.Equal(t, SourceFormatYAML, detectFormatFromURL("https://x/spec", "application/x-yaml"))
	assert.Equal(t, SourceFormatYAML, detectFormatFromURL("https://x/spec.yaml", "application/json"))
	assert.Equal(t, SourceFormatUnknown, detectFormatFromURL("https://x/spec", "text/plain"))
}
