package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/oasmcp/oaserrors"
)

func TestDecodeNodeYAMLAndJSONAgree(t *testing.T) {
	yamlSrc := `
b: 1
a:
  - true
  - null
  - "2"
  - 2.5
c: text
`
	jsonSrc := `{"b": 1, "a": [true, null, "2", 2.5], "c": "text"}`

	fromYAML, err := DecodeNode([]byte(yamlSrc), "a.yaml")
	require.NoError(t, err)
	fromJSON, err := DecodeNode([]byte(jsonSrc), "a.json")
	require.NoError(t, err)

	y, err := fromYAML.MarshalJSON()
	require.NoError(t, err)
	j, err := fromJSON.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, string(j), string(y))
	assert.Equal(t, `{"b":1,"a":[true,null,"2",2.5],"c":"text"}`, string(y))
}

func TestDecodeNodeScalars(t *testing.T) {
	n, err := DecodeNode([]byte(`
quoted: "123"
int: 42
float: 1.5
yes: true
nil: ~
date: 2024-01-02
inf: .inf
`), "s.yaml")
	require.NoError(t, err)

	assert.Equal(t, KindString, n.Get("quoted").Kind)
	assert.Equal(t, KindNumber, n.Get("int").Kind)
	assert.Equal(t, "42", n.Get("int").Scalar)
	assert.Equal(t, KindNumber, n.Get("float").Kind)
	assert.Equal(t, KindBool, n.Get("yes").Kind)
	assert.Equal(t, KindNull, n.Get("nil").Kind)
	assert.Equal(t, KindString, n.Get("date").Kind)
	assert.Equal(t, "2024-01-02", n.Get("date").Scalar)
	assert.Equal(t, KindString, n.Get("inf").Kind, "non-finite numbers cannot be represented as JSON numbers")
}

func TestDecodeNodeAliasesAndMerge(t *testing.T) {
	n, err := DecodeNode([]byte(`
base: &base
  type: string
  description: shared
item:
  <<: *base
  description: overridden
ref: *base
`), "alias.yaml")
	require.NoError(t, err)

	item := n.Get("item")
	assert.Equal(t, []string{"description", "type"}, item.Keys())
	assert.Equal(t, "overridden", item.Get("description").Text())
	assert.Equal(t, "string", item.Get("type").Text())
	assert.Equal(t, "shared", n.Get("ref").Get("description").Text())
}

func TestDecodeNodeErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantMsg string
	}{
		{name: "empty", input: "", wantMsg: "document is empty"},
		{name: "whitespace", input: "   \n", wantMsg: "document is empty"},
		{name: "malformed", input: "a: [1, 2", wantMsg: "failed to parse"},
		{name: "complex key", input: "? [a, b]\n: value\n", wantMsg: "mapping keys must be scalars"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeNode([]byte(tt.input), "bad.yaml")
			require.Error(t, err)
			assert.ErrorIs(t, err, oaserrors.ErrParse)
			assert.ErrorIs(t, err, oaserrors.ErrSpecInvalid)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestDecodeNodeRecordsLines(t *testing.T) {
	n, err := DecodeNode([]byte(strings.Join([]string{"a: 1", "b:", "  c: 2"}, "\n")), "l.yaml")
	require.NoError(t, err)
	assert.Equal(t, 1, n.Get("a").Line)
	assert.Equal(t, 3, n.Get("b").Get("c").Line)
}
