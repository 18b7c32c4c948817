package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/erraggy/oasmcp/emitter"
	"github.com/erraggy/oasmcp/generator"
	"github.com/erraggy/oasmcp/internal/cliutil"
	"github.com/erraggy/oasmcp/partition"
)

// GenerateFlags contains flags for the generate command
type GenerateFlags struct {
	Output            string
	Category          string
	ForceSplit        bool
	NoTests           bool
	NoValidate        bool
	DryRun            bool
	MaxOperations     int
	Concurrency       int
	Format            string
	FetchTimeout      string
	ValidationTimeout string
}

type generateUnit struct {
	Name      string `json:"name"`
	Title     string `json:"title"`
	Category  string `json:"category"`
	Tools     int    `json:"tools"`
	OutputDir string `json:"output_dir"`
	OAuth     bool   `json:"oauth"`
}

type generateSummary struct {
	RunID          string         `json:"run_id"`
	Success        bool           `json:"success"`
	UnitCount      int            `json:"unit_count"`
	OperationCount int            `json:"operation_count"`
	Units          []generateUnit `json:"units"`
	OutputPaths    []string       `json:"output_paths"`
	Warnings       []string       `json:"warnings"`
	Errors         []string       `json:"errors"`
}

func newGenerateCmd(a *app) *cobra.Command {
	flags := &GenerateFlags{}
	cmd := &cobra.Command{
		Use:   "generate [flags] <file|url|->",
		Short: "Generate MCP adapters from an OpenAPI document",
		Long: `Generate one MCP adapter per unit from an OpenAPI 3.x document.

Documents with more operations than --max-operations are split by their first
operation tag. Each unit is written to <output>/<unit name>, or to
integrations/<category>/<unit name> when --output is not set. An
s3://bucket/prefix output is written to object storage using the
OASMCP_S3_ENDPOINT, OASMCP_S3_ACCESS_KEY and OASMCP_S3_SECRET_KEY settings.`,
		Example: `  oasmcp generate petstore.yaml
  oasmcp generate --output ./adapters --category finance https://example.com/openapi.json
  oasmcp generate --dry-run --format json github.yaml
  oasmcp generate --dry-run --format txtar petstore.yaml > adapters.txtar
  cat openapi.yaml | oasmcp generate --output ./adapters -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, a, flags, args[0])
		},
	}

	f := cmd.Flags()
	f.StringVarP(&flags.Output, "output", "o", "", "base output location (directory or s3://bucket/prefix)")
	f.StringVarP(&flags.Category, "category", "c", "", "category label (default: inferred from the document)")
	f.BoolVar(&flags.ForceSplit, "force-split", false, "split by tag even under the operation ceiling")
	f.BoolVar(&flags.NoTests, "no-tests", false, "don't write tests/integration.test.ts")
	f.BoolVar(&flags.NoValidate, "no-validate", false, "don't compile the generated adapters with tsc")
	f.BoolVar(&flags.DryRun, "dry-run", false, "compute output paths without writing")
	f.IntVar(&flags.MaxOperations, "max-operations", partition.DefaultMaxOperations, "operation ceiling before splitting")
	f.IntVar(&flags.Concurrency, "concurrency", 0, "units built at once (0 = one per CPU)")
	f.StringVar(&flags.Format, "format", FormatText, "output format: text, json, txtar (rendered sources)")
	f.StringVar(&flags.FetchTimeout, "fetch-timeout", generator.DefaultFetchTimeout.String(), "timeout for remote documents")
	f.StringVar(&flags.ValidationTimeout, "validation-timeout", generator.DefaultValidationTimeout.String(), "timeout for the tsc check")
	return cmd
}

func runGenerate(cmd *cobra.Command, a *app, flags *GenerateFlags, source string) error {
	if err := ValidateOutputFormat(flags.Format, FormatText, FormatJSON, FormatTxtar); err != nil {
		return err
	}
	fetchTimeout, err := parseDuration("fetch-timeout", flags.FetchTimeout)
	if err != nil {
		return err
	}
	validationTimeout, err := parseDuration("validation-timeout", flags.ValidationTimeout)
	if err != nil {
		return err
	}

	sink, err := emitter.SinkFor(flags.Output, minioConfigFromEnv())
	if err != nil {
		return err
	}
	em := emitter.New(sink)
	em.Logger = a.logger

	opts := []generator.Option{
		generator.WithContext(cmd.Context()),
		generator.WithEmitter(em),
		generator.WithLogger(a.logger),
		generator.WithOutputDir(flags.Output),
		generator.WithCategory(flags.Category),
		generator.WithForceSplit(flags.ForceSplit),
		generator.WithIncludeTests(!flags.NoTests),
		generator.WithValidateOutput(!flags.NoValidate),
		generator.WithDryRun(flags.DryRun),
		generator.WithMaxOperations(flags.MaxOperations),
		generator.WithConcurrency(flags.Concurrency),
		generator.WithFetchTimeout(fetchTimeout),
		generator.WithValidationTimeout(validationTimeout),
	}
	if !flags.NoValidate {
		checker := emitter.NewTSChecker()
		checker.Logger = a.logger
		opts = append(opts, generator.WithOutputChecker(checker))
	}

	if source == StdinFilePath {
		doc, err := loadDocument(cmd.Context(), source, cmd.InOrStdin(), fetchTimeout, a.logger)
		if err != nil {
			return err
		}
		opts = append(opts, generator.WithDocument(doc))
	} else {
		opts = append(opts, generator.WithSource(source))
	}

	result, err := generator.GenerateWithOptions(opts...)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch flags.Format {
	case FormatJSON:
		if err := OutputStructured(out, summarize(result), FormatJSON); err != nil {
			return err
		}
	case FormatTxtar:
		archive, err := emitter.Archive(result.Units, !flags.NoTests)
		if err != nil {
			return err
		}
		cliutil.Writef(out, "%s", archive)
		cliutil.WriteIssues(cmd.ErrOrStderr(), "Warnings", result.Warnings)
		cliutil.WriteIssues(cmd.ErrOrStderr(), "Errors", result.Errors)
	default:
		writeGenerateText(out, result, flags.DryRun)
	}

	if !result.Success {
		return fmt.Errorf("generation failed with %d error(s)", len(result.Errors))
	}
	return nil
}

func summarize(result *generator.Result) generateSummary {
	s := generateSummary{
		RunID:          result.RunID,
		Success:        result.Success,
		UnitCount:      result.UnitCount,
		OperationCount: result.OperationCount,
		Units:          []generateUnit{},
		OutputPaths:    result.OutputPaths,
		Warnings:       cliIssueStrings(result.Warnings),
		Errors:         cliIssueStrings(result.Errors),
	}
	for _, u := range result.Units {
		s.Units = append(s.Units, generateUnit{
			Name:      u.Name,
			Title:     u.Title,
			Category:  u.Category,
			Tools:     len(u.Tools),
			OutputDir: u.OutputDir,
			OAuth:     u.OAuth != nil,
		})
	}
	if s.OutputPaths == nil {
		s.OutputPaths = []string{}
	}
	return s
}

func writeGenerateText(w io.Writer, result *generator.Result, dryRun bool) {
	cliutil.Writef(w, "Run %s: %d operation(s), %d unit(s)\n", result.RunID, result.OperationCount, result.UnitCount)
	for _, u := range result.Units {
		auth := "no oauth"
		if u.OAuth != nil {
			auth = "oauth " + u.OAuth.FlowType
		}
		cliutil.Writef(w, "  %s [%s] %d tool(s), %s -> %s\n", u.Name, u.Category, len(u.Tools), auth, u.OutputDir)
	}
	if len(result.OutputPaths) > 0 {
		verb := "Wrote"
		if dryRun {
			verb = "Would write"
		}
		cliutil.Writef(w, "%s %d file(s):\n", verb, len(result.OutputPaths))
		for _, p := range result.OutputPaths {
			cliutil.Writef(w, "  %s\n", p)
		}
	}
	cliutil.WriteIssues(w, "Warnings", result.Warnings)
	cliutil.WriteIssues(w, "Errors", result.Errors)
	if result.Success {
		cliutil.Writef(w, "✓ Generation succeeded in %s\n", result.Duration.Round(time.Millisecond))
	} else {
		cliutil.Writef(w, "✗ Generation failed\n")
	}
}
