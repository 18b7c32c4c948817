// Package mcpserver implements an MCP (Model Context Protocol) server
// that exposes oasmcp generation capabilities as MCP tools over stdio.
package mcpserver

import (
	"context"
	"regexp"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/oasmcp"
	"github.com/erraggy/oasmcp/internal/issues"
)

const serverInstructions = `oasmcp MCP server: turns OpenAPI 3.x documents into MCP adapter tool descriptors and TypeScript adapter source trees.

Configuration: All defaults are configurable via OASMCP_* environment variables set in your MCP client config.

Key settings:
- OASMCP_OUTPUT_DIR (default: integrations/<category>/<name>) - base output location for generate; s3://bucket/prefix writes to object storage
- OASMCP_MAX_OPERATIONS (default: 100) - operation ceiling before a document is split by tag
- OASMCP_VALIDATE_OUTPUT (default: false) - run the TypeScript compiler over generated adapters
- OASMCP_CACHE_ENABLED (default: true) - disable document caching entirely
- OASMCP_CACHE_FILE_TTL (default: 15m) / OASMCP_CACHE_URL_TTL (default: 5m) - cache TTLs
- OASMCP_S3_ENDPOINT, OASMCP_S3_ACCESS_KEY, OASMCP_S3_SECRET_KEY - object storage credentials

Workflow: use inspect first, then extract_tools or partition to preview, then generate with dry_run=true before writing.`

// Run starts the MCP server over stdio and blocks until the client disconnects
// or the context is cancelled.
// The configuration is reloaded first so variables set after package load,
// such as those from a .env file, take effect.
func Run(ctx context.Context) error {
	cfg = loadConfig()
	server := mcp.NewServer(
		&mcp.Implementation{Name: "oasmcp", Version: oasmcp.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerAllTools(server)
	return server.Run(ctx, &mcp.StdioTransport{})
}

func registerAllTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "inspect",
		Description: "Summarize an OpenAPI 3.x document as the generator sees it: title, version, inferred category, operation count, whether it would be split, OAuth configuration and rate-limit profile.",
	}, handleInspect)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "extract_tools",
		Description: "Extract the MCP tool descriptors an adapter would expose for an OpenAPI document: name, method, path, description, input JSON schema and TypeScript output type. Use offset/limit to paginate large APIs.",
	}, handleExtractTools)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "partition",
		Description: "Preview how an OpenAPI document is split into generation units by first tag. Documents under max_operations are not split unless force is set.",
	}, handlePartition)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "infer_category",
		Description: "Infer the catalog category of an API from its title and description by keyword scoring. Pass a spec, or title/description directly.",
	}, handleInferCategory)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "generate",
		Description: "Generate TypeScript MCP adapter source trees from an OpenAPI document. Large documents are split by tag. Requires output_dir unless dry_run is set. Returns output paths, warnings and errors.",
	}, handleGenerate)
}

// paginate applies offset/limit pagination to a slice, returning the
// requested page. A non-positive limit defaults to cfg.ListLimit.
func paginate[T any](items []T, offset, limit int) []T {
	if limit <= 0 {
		limit = cfg.ListLimit
	}
	if limit > cfg.MaxLimit {
		limit = cfg.MaxLimit
	}
	if offset < 0 || offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end < offset || end > len(items) { // overflow or beyond slice
		end = len(items)
	}
	return items[offset:end]
}

// sanitizeError strips absolute filesystem paths from error messages
// to prevent leaking internal directory structure to MCP clients.
var pathPattern = regexp.MustCompile(`(?:/(?:home|tmp|var|Users|etc|opt|usr|private|root|mnt|srv|run|snap|nix)[a-zA-Z0-9._/-]*)`)

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return pathPattern.ReplaceAllString(err.Error(), "<path>")
}

// errResult creates an MCP error result from an error.
func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: sanitizeError(err)}},
	}
}

// issueStrings renders issues for tool output.
func issueStrings(list []issues.Issue) []string {
	if len(list) == 0 {
		return nil
	}
	out := make([]string, len(list))
	for i, is := range list {
		out[i] = is.String()
	}
	return out
}
