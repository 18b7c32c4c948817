package commands

import (
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/erraggy/oasmcp/category"
	"github.com/erraggy/oasmcp/internal/cliutil"
	"github.com/erraggy/oasmcp/oauth"
	"github.com/erraggy/oasmcp/parser"
	"github.com/erraggy/oasmcp/partition"
	"github.com/erraggy/oasmcp/ratelimit"
	"github.com/erraggy/oasmcp/toolset"
	"github.com/erraggy/oasmcp/validator"
)

// InspectFlags contains flags for the inspect command
type InspectFlags struct {
	Format        string
	Tools         bool
	MaxOperations int
	ForceSplit    bool
	Timeout       string
}

type inspectTool struct {
	Name        string `json:"name"        yaml:"name"`
	Method      string `json:"method"      yaml:"method"`
	Path        string `json:"path"        yaml:"path"`
	Description string `json:"description" yaml:"description"`
	OutputType  string `json:"output_type" yaml:"output_type"`
}

type inspectGroup struct {
	Tag        string `json:"tag"        yaml:"tag"`
	Operations int    `json:"operations" yaml:"operations"`
}

type inspectAuth struct {
	Scheme   string   `json:"scheme"    yaml:"scheme"`
	FlowType string   `json:"flow_type" yaml:"flow_type"`
	AuthURL  string   `json:"auth_url,omitempty"  yaml:"auth_url,omitempty"`
	TokenURL string   `json:"token_url,omitempty" yaml:"token_url,omitempty"`
	Scopes   []string `json:"scopes"    yaml:"scopes"`
}

type inspectRateLimit struct {
	RequestsPerMinute int  `json:"requests_per_minute" yaml:"requests_per_minute"`
	RequestsPerHour   int  `json:"requests_per_hour"   yaml:"requests_per_hour"`
	Burst             int  `json:"burst"               yaml:"burst"`
	Declared          bool `json:"declared"            yaml:"declared"`
}

type inspectReport struct {
	OpenAPI        string           `json:"openapi"         yaml:"openapi"`
	Title          string           `json:"title"           yaml:"title"`
	Version        string           `json:"version"         yaml:"version"`
	BaseURL        string           `json:"base_url"        yaml:"base_url"`
	Category       string           `json:"category"        yaml:"category"`
	OperationCount int              `json:"operation_count" yaml:"operation_count"`
	Split          bool             `json:"split"           yaml:"split"`
	Groups         []inspectGroup   `json:"groups,omitempty" yaml:"groups,omitempty"`
	OAuth          *inspectAuth     `json:"oauth,omitempty"  yaml:"oauth,omitempty"`
	RateLimit      inspectRateLimit `json:"rate_limit"      yaml:"rate_limit"`
	Tools          []inspectTool    `json:"tools,omitempty"  yaml:"tools,omitempty"`
	Warnings       []string         `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

func newInspectCmd(a *app) *cobra.Command {
	flags := &InspectFlags{}
	cmd := &cobra.Command{
		Use:   "inspect [flags] <file|url|->",
		Short: "Show what the generator would build from a document",
		Long: `Validate an OpenAPI 3.x document and report the metadata the generator
derives from it: inferred category, base URL, OAuth flow, rate-limit profile
and, when the document exceeds the operation ceiling, the tag groups it would
be split into.`,
		Example: `  oasmcp inspect petstore.yaml
  oasmcp inspect --tools --format yaml https://example.com/openapi.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd, a, flags, args[0])
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.Format, "format", FormatText, "output format: text, json, yaml")
	f.BoolVar(&flags.Tools, "tools", false, "list the extracted tools")
	f.IntVar(&flags.MaxOperations, "max-operations", partition.DefaultMaxOperations, "operation ceiling before splitting")
	f.BoolVar(&flags.ForceSplit, "force-split", false, "show the tag groups even under the ceiling")
	f.StringVar(&flags.Timeout, "timeout", "30s", "timeout for remote documents")
	return cmd
}

func runInspect(cmd *cobra.Command, a *app, flags *InspectFlags, source string) error {
	if err := ValidateOutputFormat(flags.Format, FormatText, FormatJSON, FormatYAML); err != nil {
		return err
	}
	timeout, err := parseDuration("timeout", flags.Timeout)
	if err != nil {
		return err
	}

	doc, err := loadDocument(cmd.Context(), source, cmd.InOrStdin(), timeout, a.logger)
	if err != nil {
		return err
	}
	if err := validator.Validate(doc); err != nil {
		return err
	}

	report, err := buildInspectReport(doc, flags)
	if err != nil {
		return err
	}
	if flags.Format != FormatText {
		return OutputStructured(cmd.OutOrStdout(), report, flags.Format)
	}
	writeInspectText(cmd.OutOrStdout(), report)
	return nil
}

func buildInspectReport(doc *parser.Document, flags *InspectFlags) (inspectReport, error) {
	r := inspectReport{
		OpenAPI:        doc.OpenAPI,
		Title:          doc.Info.Title,
		Version:        doc.Info.Version,
		BaseURL:        doc.ServerURL(),
		Category:       category.New(category.DefaultTable()).Infer(doc),
		OperationCount: doc.OperationCount(parser.ToolMethods),
		Warnings:       slices.Clone(doc.Warnings),
	}

	p := partition.New()
	p.MaxOperations = flags.MaxOperations
	p.Force = flags.ForceSplit
	plan, err := p.Plan(doc)
	if err != nil {
		return r, err
	}
	r.Split = plan.Split
	if plan.Split {
		for _, g := range plan.Groups {
			r.Groups = append(r.Groups, inspectGroup{Tag: g.Tag, Operations: len(g.Operations)})
		}
	}

	if oc, ok := oauth.Extract(doc); ok {
		r.OAuth = &inspectAuth{
			Scheme:   oc.Scheme,
			FlowType: oc.FlowType,
			AuthURL:  oc.AuthURL,
			TokenURL: oc.TokenURL,
			Scopes:   oc.ScopeNames(),
		}
	}
	profile, declared := ratelimit.New().Extract(doc)
	r.RateLimit = inspectRateLimit{
		RequestsPerMinute: profile.RequestsPerMinute,
		RequestsPerHour:   profile.RequestsPerHour,
		Burst:             profile.Burst,
		Declared:          declared,
	}

	if flags.Tools {
		tools, found := toolset.New().Extract(doc)
		for _, t := range tools {
			r.Tools = append(r.Tools, inspectTool{
				Name:        t.Name,
				Method:      t.Method,
				Path:        t.Path,
				Description: t.Description,
				OutputType:  t.OutputType,
			})
		}
		for _, is := range found {
			r.Warnings = append(r.Warnings, is.String())
		}
	}
	return r, nil
}

func writeInspectText(w io.Writer, r inspectReport) {
	cliutil.Writef(w, "%s %s (OpenAPI %s)\n", r.Title, r.Version, r.OpenAPI)
	if r.BaseURL != "" {
		cliutil.Writef(w, "Base URL:   %s\n", r.BaseURL)
	}
	cliutil.Writef(w, "Category:   %s\n", r.Category)
	cliutil.Writef(w, "Operations: %d\n", r.OperationCount)
	if r.OAuth != nil {
		cliutil.Writef(w, "OAuth:      %s (%s)", r.OAuth.FlowType, r.OAuth.Scheme)
		if len(r.OAuth.Scopes) > 0 {
			cliutil.Writef(w, " scopes: %s", strings.Join(r.OAuth.Scopes, ", "))
		}
		cliutil.Writef(w, "\n")
	} else {
		cliutil.Writef(w, "OAuth:      none\n")
	}
	source := "default"
	if r.RateLimit.Declared {
		source = "declared"
	}
	cliutil.Writef(w, "Rate limit: %d/min, %d/hour, burst %d (%s)\n",
		r.RateLimit.RequestsPerMinute, r.RateLimit.RequestsPerHour, r.RateLimit.Burst, source)
	if r.Split {
		cliutil.Writef(w, "Split into %d unit(s):\n", len(r.Groups))
		for i, g := range r.Groups {
			cliutil.Writef(w, "  %d. %s (%d operation(s))\n", i+1, g.Tag, g.Operations)
		}
	}
	if len(r.Tools) > 0 {
		cliutil.Writef(w, "Tools (%d):\n", len(r.Tools))
		for _, t := range r.Tools {
			cliutil.Writef(w, "  %-30s %-6s %s -> %s\n", t.Name, t.Method, t.Path, t.OutputType)
		}
	}
	if len(r.Warnings) > 0 {
		cliutil.Writef(w, "Warnings (%d):\n", len(r.Warnings))
		for _, warn := range r.Warnings {
			cliutil.Writef(w, "  %s\n", warn)
		}
	}
}
