package mcpserver

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/oasmcp/toolset"
)

type extractToolsInput struct {
	Spec   specInput `json:"spec"             jsonschema:"The OAS document to extract tools from"`
	Offset int       `json:"offset,omitempty" jsonschema:"Skip the first N tools"`
	Limit  int       `json:"limit,omitempty"  jsonschema:"Maximum number of tools to return (default: OASMCP_LIST_LIMIT or 100)"`
	Schema bool      `json:"schema,omitempty" jsonschema:"Include each tool's full input JSON schema"`
}

type toolSummary struct {
	Name        string          `json:"name"`
	Method      string          `json:"method"`
	Path        string          `json:"path"`
	Description string          `json:"description"`
	Inputs      []string        `json:"inputs,omitempty"`
	Required    []string        `json:"required,omitempty"`
	OutputType  string          `json:"output_type"`
	Deprecated  bool            `json:"deprecated,omitempty"`
	InputSchema json.RawMessage `json:"input_schema,omitempty"`
}

type extractToolsOutput struct {
	Total    int           `json:"total"`
	Returned int           `json:"returned"`
	Tools    []toolSummary `json:"tools"`
	Warnings []string      `json:"warnings,omitempty"`
}

func handleExtractTools(ctx context.Context, _ *mcp.CallToolRequest, input extractToolsInput) (*mcp.CallToolResult, extractToolsOutput, error) {
	doc, err := input.Spec.resolve(ctx)
	if err != nil {
		return errResult(err), extractToolsOutput{}, nil
	}

	tools, found := toolset.New().Extract(doc)
	page := paginate(tools, input.Offset, input.Limit)

	output := extractToolsOutput{
		Total:    len(tools),
		Returned: len(page),
		Tools:    make([]toolSummary, 0, len(page)),
		Warnings: issueStrings(found),
	}
	for _, t := range page {
		s := toolSummary{
			Name:        t.Name,
			Method:      t.Method,
			Path:        t.Path,
			Description: t.Description,
			Inputs:      t.InputSchema.Names(),
			Required:    t.InputSchema.Required,
			OutputType:  t.OutputType,
			Deprecated:  t.Deprecated,
		}
		if input.Schema {
			raw, err := json.Marshal(t.InputSchema)
			if err != nil {
				return errResult(err), extractToolsOutput{}, nil
			}
			s.InputSchema = raw
		}
		output.Tools = append(output.Tools, s)
	}
	return nil, output, nil
}
