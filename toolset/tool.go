package toolset

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/oasmcp/parser"
)

// Tool is the descriptor of one callable adapter tool, derived from a single
// OpenAPI operation.
type Tool struct {
	// Name is unique within its generation unit.
	Name string `json:"name"`
	// Description is never empty.
	Description string `json:"description"`
	// Method is the uppercase HTTP method.
	Method string `json:"method"`
	// Path is the path template, e.g. /repos/{owner}/{repo}.
	Path string `json:"path"`
	// OperationID is the operationId as declared, possibly empty.
	OperationID string      `json:"operation_id,omitempty"`
	InputSchema InputSchema `json:"input_schema"`
	// OutputType is a TypeScript type expression for the success response.
	OutputType string `json:"output_type"`
	Deprecated bool   `json:"deprecated,omitempty"`
}

// Property is one named input of a tool.
type Property struct {
	Name string
	// Schema is the JSON Schema of the input, with local references inlined.
	Schema *parser.Node
}

// InputSchema is the unified object schema of a tool's inputs. Properties
// keep insertion order and Required holds each name once.
type InputSchema struct {
	Properties []Property
	Required   []string
}

// Property returns the schema of the named input.
func (s InputSchema) Property(name string) (*parser.Node, bool) {
	for _, p := range s.Properties {
		if p.Name == name {
			return p.Schema, true
		}
	}
	return nil, false
}

// Names returns the property names in order.
func (s InputSchema) Names() []string {
	names := make([]string, len(s.Properties))
	for i, p := range s.Properties {
		names[i] = p.Name
	}
	return names
}

// IsRequired reports whether name is a required input.
func (s InputSchema) IsRequired(name string) bool {
	for _, r := range s.Required {
		if r == name {
			return true
		}
	}
	return false
}

// set adds or replaces a property. A replaced property keeps its position.
func (s *InputSchema) set(name string, schema *parser.Node) {
	for i, p := range s.Properties {
		if p.Name == name {
			s.Properties[i].Schema = schema
			return
		}
	}
	s.Properties = append(s.Properties, Property{Name: name, Schema: schema})
}

func (s *InputSchema) require(name string) {
	if !s.IsRequired(name) {
		s.Required = append(s.Required, name)
	}
}

// Node renders the schema as an ordered JSON Schema object.
func (s InputSchema) Node() *parser.Node {
	props := make([]parser.Field, len(s.Properties))
	for i, p := range s.Properties {
		props[i] = parser.Field{Key: p.Name, Value: p.Schema}
	}
	required := make([]*parser.Node, len(s.Required))
	for i, r := range s.Required {
		required[i] = parser.NewString(r)
	}
	return parser.NewObject(
		parser.Field{Key: "type", Value: parser.NewString("object")},
		parser.Field{Key: "properties", Value: parser.NewObject(props...)},
		parser.Field{Key: "required", Value: parser.NewArray(required...)},
	)
}

// MarshalJSON encodes the schema with property order preserved.
func (s InputSchema) MarshalJSON() ([]byte, error) {
	return s.Node().MarshalJSON()
}

// JSONSchema converts the input schema to a jsonschema-go schema.
func (s InputSchema) JSONSchema() (*jsonschema.Schema, error) {
	data, err := s.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var out jsonschema.Schema
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MCPTool converts the descriptor to an MCP tool definition.
func (t Tool) MCPTool() (*mcp.Tool, error) {
	schema, err := t.InputSchema.JSONSchema()
	if err != nil {
		return nil, fmt.Errorf("toolset: input schema of %s: %w", t.Name, err)
	}
	annotations := &mcp.ToolAnnotations{
		Title:          t.Method + " " + t.Path,
		ReadOnlyHint:   t.Method == http.MethodGet,
		IdempotentHint: t.Method == http.MethodGet || t.Method == http.MethodPut || t.Method == http.MethodDelete,
	}
	if t.Method != http.MethodGet {
		destructive := t.Method == http.MethodDelete
		annotations.DestructiveHint = &destructive
	}
	return &mcp.Tool{
		Name:        t.Name,
		Description: t.Description,
		InputSchema: schema,
		Annotations: annotations,
	}, nil
}
