package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/erraggy/oasmcp"
	"github.com/erraggy/oasmcp/parser"
)

// app carries state shared by every command of one invocation.
type app struct {
	logLevel  string
	logFormat string
	zap       *zap.Logger
	logger    parser.Logger
}

// NewRootCmd builds the oasmcp command tree.
func NewRootCmd() *cobra.Command {
	a := &app{logger: parser.NopLogger{}}

	root := &cobra.Command{
		Use:           "oasmcp",
		Short:         "Generate MCP tool adapters from OpenAPI 3.x documents",
		Long:          "oasmcp turns an OpenAPI 3.x document into one or more MCP server adapters: tool descriptors, auth and rate-limit metadata, and a TypeScript source tree per unit.",
		Version:       oasmcp.Version(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			l, err := newLogger(cmd.ErrOrStderr(), a.logLevel, a.logFormat)
			if err != nil {
				return err
			}
			a.zap = l
			a.logger = NewZapAdapter(l)
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if a.zap != nil {
				_ = a.zap.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	root.PersistentFlags().StringVar(&a.logFormat, "log-format", LogFormatConsole, "log format: console, json")

	root.AddCommand(
		newGenerateCmd(a),
		newInspectCmd(a),
		newMCPCmd(a),
		newVersionCmd(),
	)
	return root
}

// Execute runs the CLI until completion or an interrupt signal.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return NewRootCmd().ExecuteContext(ctx)
}
