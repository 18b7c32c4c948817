package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/oasmcp/category"
	"github.com/erraggy/oasmcp/oauth"
	"github.com/erraggy/oasmcp/parser"
	"github.com/erraggy/oasmcp/partition"
	"github.com/erraggy/oasmcp/ratelimit"
)

type inspectInput struct {
	Spec specInput `json:"spec" jsonschema:"The OAS document to inspect"`
}

type inspectOutput struct {
	OpenAPI           string            `json:"openapi"`
	Title             string            `json:"title"`
	Version           string            `json:"version"`
	Format            string            `json:"format"`
	BaseURL           string            `json:"base_url,omitempty"`
	Category          string            `json:"category"`
	OperationCount    int               `json:"operation_count"`
	WouldSplit        bool              `json:"would_split"`
	OAuth             *oauth.Config     `json:"oauth,omitempty"`
	RateLimit         ratelimit.Profile `json:"rate_limit"`
	RateLimitDeclared bool              `json:"rate_limit_declared"`
	Warnings          []string          `json:"warnings,omitempty"`
}

func handleInspect(ctx context.Context, _ *mcp.CallToolRequest, input inspectInput) (*mcp.CallToolResult, inspectOutput, error) {
	doc, err := input.Spec.resolve(ctx)
	if err != nil {
		return errResult(err), inspectOutput{}, nil
	}

	output := inspectOutput{
		OpenAPI:        doc.OpenAPI,
		Title:          doc.Info.Title,
		Version:        doc.Info.Version,
		Format:         string(doc.SourceFormat),
		BaseURL:        doc.ServerURL(),
		Category:       category.New(category.DefaultTable()).Infer(doc),
		OperationCount: doc.OperationCount(parser.ToolMethods),
		Warnings:       doc.Warnings,
	}
	output.WouldSplit = output.OperationCount > cfg.MaxOperations
	if oc, ok := oauth.Extract(doc); ok {
		output.OAuth = &oc
	}
	output.RateLimit, output.RateLimitDeclared = ratelimit.New().Extract(doc)
	return nil, output, nil
}

type inferCategoryInput struct {
	Spec        *specInput `json:"spec,omitempty"        jsonschema:"The OAS document whose info title and description are scored"`
	Title       string     `json:"title,omitempty"       jsonschema:"API title, used when spec is omitted"`
	Description string     `json:"description,omitempty" jsonschema:"API description, used when spec is omitted"`
}

type categoryScore struct {
	Label string `json:"label"`
	Score int    `json:"score"`
}

type inferCategoryOutput struct {
	Category string          `json:"category"`
	Scores   []categoryScore `json:"scores"`
}

func handleInferCategory(ctx context.Context, _ *mcp.CallToolRequest, input inferCategoryInput) (*mcp.CallToolResult, inferCategoryOutput, error) {
	title, desc := input.Title, input.Description
	if input.Spec != nil {
		doc, err := input.Spec.resolve(ctx)
		if err != nil {
			return errResult(err), inferCategoryOutput{}, nil
		}
		title, desc = doc.Info.Title, doc.Info.Description
	}

	inf := category.New(category.DefaultTable())
	output := inferCategoryOutput{Category: inf.InferText(title, desc)}
	for _, s := range inf.Scores(title, desc) {
		if s.Score > 0 {
			output.Scores = append(output.Scores, categoryScore{Label: s.Label, Score: s.Score})
		}
	}
	return nil, output, nil
}

type partitionInput struct {
	Spec          specInput `json:"spec"                     jsonschema:"The OAS document to partition"`
	MaxOperations int       `json:"max_operations,omitempty" jsonschema:"Operation ceiling before splitting (default: OASMCP_MAX_OPERATIONS or 100)"`
	Force         bool      `json:"force,omitempty"          jsonschema:"Split by tag even under the ceiling"`
}

type partitionGroup struct {
	Tag            string `json:"tag"`
	Title          string `json:"title"`
	OperationCount int    `json:"operation_count"`
}

type partitionOutput struct {
	Split          bool             `json:"split"`
	OperationCount int              `json:"operation_count"`
	Untagged       int              `json:"untagged,omitempty"`
	Groups         []partitionGroup `json:"groups,omitempty"`
}

func handlePartition(ctx context.Context, _ *mcp.CallToolRequest, input partitionInput) (*mcp.CallToolResult, partitionOutput, error) {
	doc, err := input.Spec.resolve(ctx)
	if err != nil {
		return errResult(err), partitionOutput{}, nil
	}

	p := partition.New()
	p.MaxOperations = cfg.MaxOperations
	if input.MaxOperations > 0 {
		p.MaxOperations = input.MaxOperations
	}
	p.Force = input.Force

	docs, plan, err := p.PartitionPlan(doc)
	if err != nil {
		return errResult(err), partitionOutput{}, nil
	}
	output := partitionOutput{
		Split:          plan.Split,
		OperationCount: plan.Total,
		Untagged:       plan.Untagged,
	}
	if plan.Split {
		for i, g := range plan.Groups {
			output.Groups = append(output.Groups, partitionGroup{
				Tag:            g.Tag,
				Title:          docs[i].Info.Title,
				OperationCount: len(g.Operations),
			})
		}
	}
	return nil, output, nil
}
