package toolset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMCPTool(t *testing.T) {
	tools, _ := New().Extract(parse(t, pullRequests))
	require.Len(t, tools, 1)

	tool, err := tools[0].MCPTool()
	require.NoError(t, err)
	assert.Equal(t, "createPullRequest", tool.Name)
	assert.Equal(t, "Create a pull request", tool.Description)

	schema, err := tools[0].InputSchema.JSONSchema()
	require.NoError(t, err)
	assert.Equal(t, "object", schema.Type)
	assert.Equal(t, []string{"owner", "repo", "title", "head", "base"}, schema.Required)
	assert.Len(t, schema.Properties, 6)
	assert.Equal(t, "boolean", schema.Properties["draft"].Type)
	assert.Equal(t, schema, tool.InputSchema)

	require.NotNil(t, tool.Annotations)
	assert.False(t, tool.Annotations.ReadOnlyHint)
	require.NotNil(t, tool.Annotations.DestructiveHint)
	assert.False(t, *tool.Annotations.DestructiveHint)
	assert.Equal(t, "POST /repos/{owner}/{repo}/pulls", tool.Annotations.Title)
}

func TestMCPToolAnnotations(t *testing.T) {
	get, err := Tool{Name: "a", Method: "GET", Path: "/a"}.MCPTool()
	require.NoError(t, err)
	assert.True(t, get.Annotations.ReadOnlyHint)
	assert.True(t, get.Annotations.IdempotentHint)
	assert.Nil(t, get.Annotations.DestructiveHint)

	del, err := Tool{Name: "b", Method: "DELETE", Path: "/b"}.MCPTool()
	require.NoError(t, err)
	require.NotNil(t, del.Annotations.DestructiveHint)
	assert.True(t, *del.Annotations.DestructiveHint)
}

func TestInputSchemaNodeEmpty(t *testing.T) {
	var s InputSchema
	data, err := s.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"object","properties":{},"required":[]}`, string(data))
}
