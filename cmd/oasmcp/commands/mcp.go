package commands

import (
	"github.com/spf13/cobra"

	"github.com/erraggy/oasmcp/internal/mcpserver"
)

func newMCPCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the generator as MCP tools over stdio",
		Long: `Start an MCP server on stdin/stdout exposing the inspect, extract_tools,
partition, infer_category and generate tools. Server defaults are read from
OASMCP_* environment variables (a .env file in the working directory is
loaded first).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a.logger.Info("starting mcp server")
			return mcpserver.Run(cmd.Context())
		},
	}
}
