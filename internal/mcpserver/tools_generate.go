package mcpserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/oasmcp/emitter"
	"github.com/erraggy/oasmcp/generator"
)

type generateInput struct {
	Spec          specInput `json:"spec"                     jsonschema:"The OAS document to generate adapters from"`
	OutputDir     string    `json:"output_dir,omitempty"     jsonschema:"Base output location; each unit is written to a subdirectory. Local path or s3://bucket/prefix"`
	Category      string    `json:"category,omitempty"       jsonschema:"Category label overriding inference"`
	ForceSplit    bool      `json:"force_split,omitempty"    jsonschema:"Split by tag even under the operation ceiling"`
	MaxOperations int       `json:"max_operations,omitempty" jsonschema:"Operation ceiling before splitting"`
	NoTests       bool      `json:"no_tests,omitempty"       jsonschema:"Skip tests/integration.test.ts"`
	DryRun        bool      `json:"dry_run,omitempty"        jsonschema:"Compute output paths without writing"`
	Validate      *bool     `json:"validate,omitempty"       jsonschema:"Compile generated adapters with tsc (default: OASMCP_VALIDATE_OUTPUT)"`
}

type unitSummary struct {
	Name      string `json:"name"`
	Title     string `json:"title"`
	Category  string `json:"category"`
	ToolCount int    `json:"tool_count"`
	OutputDir string `json:"output_dir"`
	OAuth     bool   `json:"oauth"`
}

type generateOutput struct {
	Success        bool          `json:"success"`
	RunID          string        `json:"run_id"`
	UnitCount      int           `json:"unit_count"`
	OperationCount int           `json:"operation_count"`
	Units          []unitSummary `json:"units,omitempty"`
	OutputPaths    []string      `json:"output_paths,omitempty"`
	Warnings       []string      `json:"warnings,omitempty"`
	Errors         []string      `json:"errors,omitempty"`
}

func handleGenerate(ctx context.Context, _ *mcp.CallToolRequest, input generateInput) (*mcp.CallToolResult, generateOutput, error) {
	outputDir := input.OutputDir
	if outputDir == "" {
		outputDir = cfg.OutputDir
	}
	if outputDir == "" && !input.DryRun {
		return errResult(fmt.Errorf("output_dir is required unless dry_run is set")), generateOutput{}, nil
	}

	doc, err := input.Spec.resolve(ctx)
	if err != nil {
		return errResult(err), generateOutput{}, nil
	}

	sink, err := outputSink(outputDir)
	if err != nil {
		return errResult(err), generateOutput{}, nil
	}

	validate := cfg.ValidateOutput
	if input.Validate != nil {
		validate = *input.Validate
	}
	maxOps := cfg.MaxOperations
	if input.MaxOperations > 0 {
		maxOps = input.MaxOperations
	}

	opts := []generator.Option{
		generator.WithDocument(doc),
		generator.WithContext(ctx),
		generator.WithEmitter(emitter.New(sink)),
		generator.WithOutputDir(outputDir),
		generator.WithCategory(input.Category),
		generator.WithForceSplit(input.ForceSplit),
		generator.WithMaxOperations(maxOps),
		generator.WithIncludeTests(!input.NoTests),
		generator.WithDryRun(input.DryRun),
		generator.WithValidateOutput(validate),
		generator.WithConcurrency(cfg.Concurrency),
	}
	if validate {
		opts = append(opts, generator.WithOutputChecker(emitter.NewTSChecker()))
	}

	result, err := generator.GenerateWithOptions(opts...)
	if err != nil {
		return errResult(err), generateOutput{}, nil
	}

	output := generateOutput{
		Success:        result.Success,
		RunID:          result.RunID,
		UnitCount:      result.UnitCount,
		OperationCount: result.OperationCount,
		OutputPaths:    result.OutputPaths,
		Warnings:       issueStrings(result.Warnings),
		Errors:         issueStrings(result.Errors),
	}
	for _, u := range result.Units {
		output.Units = append(output.Units, unitSummary{
			Name:      u.Name,
			Title:     u.Title,
			Category:  u.Category,
			ToolCount: len(u.Tools),
			OutputDir: u.OutputDir,
			OAuth:     u.OAuth != nil,
		})
	}
	return nil, output, nil
}

// outputSink returns the sink for an output location. Remote locations need
// the OASMCP_S3_* settings.
func outputSink(location string) (emitter.Sink, error) {
	return emitter.SinkFor(location, emitter.MinioConfig{
		Endpoint:  cfg.S3Endpoint,
		Region:    cfg.S3Region,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		UseSSL:    cfg.S3UseSSL,
	})
}
