package testutil

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/oasmcp/parser"
)

func TestLoadPetstore(t *testing.T) {
	assert.FileExists(t, PetstorePath(t))
	doc := LoadPetstore(t)
	assert.Equal(t, "Swagger Petstore", doc.Info.Title)
	assert.Equal(t, 5, doc.OperationCount(parser.ToolMethods))
}

func TestParseSpec(t *testing.T) {
	doc := ParseSpec(t, "openapi: 3.1.0\ninfo: {title: T, version: '1'}\npaths: {}\n")
	assert.Equal(t, "3.1.0", doc.OpenAPI)
	assert.Equal(t, "spec.yaml", doc.SourcePath)
}

func TestWriteTempYAML(t *testing.T) {
	path := WriteTempYAML(t, map[string]any{
		"openapi": "3.0.3",
		"info":    map[string]any{"title": "Written", "version": "1"},
		"paths":   map[string]any{},
	})
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "title: Written")

	doc, err := parser.New().Parse(path)
	require.NoError(t, err)
	assert.Equal(t, "Written", doc.Info.Title)
}
