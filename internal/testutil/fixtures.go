// Package testutil provides OpenAPI fixtures shared by the oasmcp tests.
package testutil

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"go.yaml.in/yaml/v4"

	"github.com/erraggy/oasmcp/parser"
)

// PetstorePath returns the absolute path of parser/testdata/petstore.yaml.
// The fixture declares five tool operations over two tags, an oauth2
// authorization-code scheme and an x-ratelimit-limit of 120.
func PetstorePath(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot locate testutil source file")
	}
	return filepath.Join(filepath.Dir(file), "..", "..", "parser", "testdata", "petstore.yaml")
}

// LoadPetstore parses the petstore fixture.
func LoadPetstore(t testing.TB) *parser.Document {
	t.Helper()
	doc, err := parser.New().Parse(PetstorePath(t))
	if err != nil {
		t.Fatalf("Failed to parse petstore fixture: %v", err)
	}
	return doc
}

// ParseSpec parses an inline document recorded as spec.yaml.
func ParseSpec(t testing.TB, src string) *parser.Document {
	t.Helper()
	doc, err := parser.New().ParseBytes([]byte(src), "spec.yaml")
	if err != nil {
		t.Fatalf("Failed to parse document: %v", err)
	}
	return doc
}

// WriteTempSpec writes document text to openapi.yaml in a temporary
// directory and returns its path.
func WriteTempSpec(t testing.TB, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "openapi.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write temporary spec: %v", err)
	}
	return path
}

// WriteTempYAML marshals doc to YAML and writes it to a temporary file.
// Returns the path to the temporary file.
func WriteTempYAML(t testing.TB, doc any) string {
	t.Helper()
	data, err := yaml.Marshal(doc)
	if err != nil {
		t.Fatalf("Failed to marshal document to YAML: %v", err)
	}
	return WriteTempSpec(t, string(data))
}
