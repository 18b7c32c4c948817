package mcpserver

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/oasmcp/oaserrors"
)

const petstoreFile = "../../parser/testdata/petstore.yaml"

func TestSpecInput_ResolveFile(t *testing.T) {
	specCache.reset()
	doc, err := specInput{File: petstoreFile}.resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Swagger Petstore", doc.Info.Title)
}

func TestSpecInput_ResolveContent(t *testing.T) {
	specCache.reset()
	doc, err := specInput{Content: testSpecYAML}.resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "3.0.3", doc.OpenAPI)
	assert.Equal(t, 1, specCache.size())
}

func TestSpecInput_ResolveSourceCount(t *testing.T) {
	for _, input := range []specInput{{}, {File: "foo.yaml", Content: "bar"}} {
		_, err := input.resolve(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "exactly one of file, url, or content must be provided")
	}
}

func TestSpecInput_ResolveInvalid(t *testing.T) {
	specCache.reset()
	_, err := specInput{Content: "swagger: '2.0'\ninfo: {title: t, version: '1'}\npaths: {}\n"}.resolve(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, oaserrors.ErrSpecInvalid))
	assert.Zero(t, specCache.size(), "invalid documents are not cached")

	_, err = specInput{File: "/nonexistent/path.yaml"}.resolve(context.Background())
	assert.True(t, errors.Is(err, oaserrors.ErrSourceUnreachable))
}

func TestSpecInput_InlineSizeLimit(t *testing.T) {
	saved := cfg.MaxInlineSize
	cfg.MaxInlineSize = 16
	t.Cleanup(func() { cfg.MaxInlineSize = saved })

	_, err := specInput{Content: strings.Repeat("x", 17)}.resolve(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds maximum")
}

func TestSpecCache_HitOnSameFile(t *testing.T) {
	specCache.reset()
	input := specInput{File: petstoreFile}

	doc1, err := input.resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, specCache.size())

	doc2, err := input.resolve(context.Background())
	require.NoError(t, err)
	assert.Same(t, doc1, doc2, "expected same pointer from cache hit")
}

func TestSpecCache_MissOnModifiedFile(t *testing.T) {
	specCache.reset()
	path := filepath.Join(t.TempDir(), "spec.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testSpecYAML), 0o600))

	doc1, err := specInput{File: path}.resolve(context.Background())
	require.NoError(t, err)

	modified := strings.Replace(testSpecYAML, "Pet Store", "Pet Shop", 1)
	require.NoError(t, os.WriteFile(path, []byte(modified), 0o600))
	later := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(path, later, later))

	doc2, err := specInput{File: path}.resolve(context.Background())
	require.NoError(t, err)
	assert.NotSame(t, doc1, doc2)
	assert.Equal(t, "Pet Shop", doc2.Info.Title)
}

func TestSpecInput_ResolveURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write([]byte(testSpecYAML))
	}))
	t.Cleanup(srv.Close)
	specCache.reset()

	// httptest listens on loopback, which the safe client refuses.
	_, err := specInput{URL: srv.URL + "/openapi.yaml"}.resolve(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "blocked")

	cfg.AllowPrivateIPs = true
	t.Cleanup(func() { cfg.AllowPrivateIPs = false })
	doc, err := specInput{URL: srv.URL + "/openapi.yaml"}.resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Pet Store", doc.Info.Title)
}

func TestSpecInput_FileRejectsURL(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits++
		_, _ = w.Write([]byte(testSpecYAML))
	}))
	t.Cleanup(srv.Close)
	specCache.reset()

	_, err := specInput{File: srv.URL + "/openapi.yaml"}.resolve(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "use the url input instead")
	assert.Zero(t, hits, "file inputs never reach the network")
	assert.Zero(t, specCache.size())
}

func TestMakeCacheKey(t *testing.T) {
	assert.Empty(t, makeCacheKey(specInput{}))
	assert.Empty(t, makeCacheKey(specInput{File: "/nonexistent/file.yaml"}))
	assert.Equal(t, "url:https://example.com/a.yaml", makeCacheKey(specInput{URL: "https://example.com/a.yaml"}))
	assert.True(t, strings.HasPrefix(makeCacheKey(specInput{Content: "x"}), "content:"))
}
