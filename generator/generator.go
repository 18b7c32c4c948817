package generator

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/erraggy/oasmcp/category"
	"github.com/erraggy/oasmcp/internal/issues"
	"github.com/erraggy/oasmcp/internal/naming"
	"github.com/erraggy/oasmcp/internal/severity"
	"github.com/erraggy/oasmcp/oaserrors"
	"github.com/erraggy/oasmcp/oauth"
	"github.com/erraggy/oasmcp/parser"
	"github.com/erraggy/oasmcp/partition"
	"github.com/erraggy/oasmcp/ratelimit"
	"github.com/erraggy/oasmcp/toolset"
	"github.com/erraggy/oasmcp/validator"
)

const (
	defaultTitle   = "Unknown API"
	defaultVersion = "1.0.0"
)

// Warning texts recorded for every unit missing the corresponding metadata.
const (
	WarnNoOAuth     = "No OAuth configuration found - API key auth may be required"
	WarnNoRateLimit = "No rate limit information found - using defaults"
)

// Unit is the model of one generated adapter.
type Unit struct {
	// Index is the partition index, starting at 0.
	Index int `json:"index"`
	// Name is the slug of the title, suffixed -N when the source was split.
	Name        string `json:"name"`
	Category    string `json:"category"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Version     string `json:"version"`
	// BaseURL is the first server URL, or empty.
	BaseURL string `json:"base_url"`
	// OAuth is nil when no supported OAuth2 flow is declared.
	OAuth *oauth.Config `json:"oauth,omitempty"`
	// RateLimit is always set; RateLimitDeclared reports whether the
	// document signalled it.
	RateLimit         ratelimit.Profile `json:"rate_limit"`
	RateLimitDeclared bool              `json:"rate_limit_declared"`
	Tools             []toolset.Tool    `json:"tools"`
	// OutputDir is where the unit's artifacts are written.
	OutputDir string `json:"output_dir"`
	// Document is the partition the unit was built from.
	Document *parser.Document `json:"-"`
}

// EmitOptions are passed to the Emitter for each unit.
type EmitOptions struct {
	OutputDir    string
	IncludeTests bool
	DryRun       bool
}

// Emitter renders and stores the artifacts of a unit, returning their paths.
// With DryRun set it returns the paths without writing.
type Emitter interface {
	Emit(ctx context.Context, u *Unit, opts EmitOptions) ([]string, error)
}

// OutputChecker inspects emitted artifacts, such as compiling them.
// Returned issues are sorted into the run's warnings and errors by severity.
type OutputChecker interface {
	Check(ctx context.Context, dir string, timeout time.Duration) []issues.Issue
}

// Result is the outcome of a generation run.
type Result struct {
	// RunID identifies the run in logs.
	RunID       string         `json:"run_id"`
	Success     bool           `json:"success"`
	OutputPaths []string       `json:"output_paths"`
	Warnings    []issues.Issue `json:"warnings"`
	Errors      []issues.Issue `json:"errors"`
	// UnitCount is the number of partitions attempted.
	UnitCount int `json:"unit_count"`
	// OperationCount is the number of tool operations in the source document.
	OperationCount int `json:"operation_count"`
	// Units holds the models that were built, in partition order.
	Units []*Unit `json:"units"`
	// Duration is the wall time of the run.
	Duration time.Duration `json:"duration"`

	errs []error
}

// Err returns the typed errors behind Errors joined together, or nil.
// Use errors.Is with the oaserrors sentinels to classify a failure.
func (r *Result) Err() error {
	return errors.Join(r.errs...)
}

func (r *Result) fail(err error) {
	r.errs = append(r.errs, err)
	r.Errors = append(r.Errors, issues.Error("", "Generation failed: %v", err))
}

// Generator runs generations. Create instances with New; the exported
// fields may be replaced before the first run.
type Generator struct {
	// Validator checks documents before anything else runs.
	Validator *validator.Validator
	// Categories is the taxonomy used when no category is configured.
	Categories category.Table
	// RateLimits extracts rate-limit profiles.
	RateLimits *ratelimit.Extractor
	// Tools extracts tool descriptors.
	Tools *toolset.Extractor
	// Emitter writes unit artifacts. When nil, units are built but nothing
	// is emitted.
	Emitter Emitter
	// Checker inspects emitted artifacts when Config.ValidateOutput is set.
	Checker OutputChecker
	// HTTPClient fetches remote sources. Nil uses a default client.
	HTTPClient *http.Client
	// Logger is the structured logger. If nil, logging is disabled.
	Logger parser.Logger
}

// New creates a Generator with the default taxonomy and extractors.
func New() *Generator {
	return &Generator{
		Validator:  validator.New(),
		Categories: category.DefaultTable(),
		RateLimits: ratelimit.New(),
		Tools:      toolset.New(),
	}
}

// Generate loads cfg.Source and runs the generation. Start from
// DefaultConfig; a zero Config fails validation. It never returns nil.
func (g *Generator) Generate(ctx context.Context, cfg Config) *Result {
	start := time.Now()
	res := &Result{RunID: uuid.NewString()}
	log := parser.OrNop(g.Logger).With("run_id", res.RunID)

	if err := cfg.Validate(); err != nil {
		res.fail(err)
		return res.finish(start)
	}

	log.Info("loading source", "source", cfg.Source)
	opts := []parser.Option{
		parser.WithFilePath(cfg.Source),
		parser.WithContext(ctx),
		parser.WithTimeout(cfg.FetchTimeout),
		parser.WithLogger(log),
	}
	if g.HTTPClient != nil {
		opts = append(opts, parser.WithHTTPClient(g.HTTPClient))
	}
	doc, err := parser.ParseWithOptions(opts...)
	if err != nil {
		log.Error("source could not be loaded", "error", err)
		res.fail(err)
		return res.finish(start)
	}
	return g.run(ctx, cfg, doc, res, log).finish(start)
}

// GenerateDocument runs the generation over an already loaded document.
// cfg.Source is only used for reporting and may be empty.
func (g *Generator) GenerateDocument(ctx context.Context, cfg Config, doc *parser.Document) *Result {
	start := time.Now()
	res := &Result{RunID: uuid.NewString()}
	log := parser.OrNop(g.Logger).With("run_id", res.RunID)

	if cfg.Source == "" {
		cfg.Source = doc.SourcePath
	}
	if err := cfg.Validate(); err != nil {
		res.fail(err)
		return res.finish(start)
	}
	return g.run(ctx, cfg, doc, res, log).finish(start)
}

func (r *Result) finish(start time.Time) *Result {
	r.Success = len(r.Errors) == 0
	r.Duration = time.Since(start)
	return r
}

func (g *Generator) run(ctx context.Context, cfg Config, doc *parser.Document, res *Result, log parser.Logger) *Result {
	v := g.Validator
	if v == nil {
		v = validator.New()
	}
	checked := v.ValidateDocument(doc)
	if err := checked.Err(); err != nil {
		log.Error("source is not a valid OpenAPI document", "error", err)
		res.fail(err)
		return res
	}
	res.Warnings = append(res.Warnings, checked.Warnings...)
	for _, w := range doc.Warnings {
		res.Warnings = append(res.Warnings, issues.Warning("", "%s", w))
	}

	label := cfg.Category
	if label == "" {
		label = category.New(g.Categories).Infer(doc)
	}
	log.Debug("category selected", "category", label, "inferred", cfg.Category == "")

	splitter := &partition.Partitioner{MaxOperations: cfg.MaxOperations, Force: cfg.ForceSplit}
	docs, plan, err := splitter.PartitionPlan(doc)
	if err != nil {
		res.fail(err)
		return res
	}
	res.OperationCount = plan.Total
	res.UnitCount = len(docs)
	if len(docs) > 1 {
		res.Warnings = append(res.Warnings, issues.Warning("",
			"API has %d operations, splitting into %d servers", plan.Total, len(docs)))
	}
	if plan.Split && plan.Untagged > 0 {
		res.Warnings = append(res.Warnings, issues.Warning("",
			"%d operations without tags grouped under %q", plan.Untagged, partition.DefaultTag))
	}

	outcomes := make([]unitOutcome, len(docs))
	limit := cfg.Concurrency
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	var eg errgroup.Group
	eg.SetLimit(limit)
	for i, sub := range docs {
		eg.Go(func() error {
			outcomes[i] = g.buildUnit(ctx, cfg, sub, i, len(docs), label, log)
			return nil
		})
	}
	_ = eg.Wait()

	for _, o := range outcomes {
		res.OutputPaths = append(res.OutputPaths, o.paths...)
		res.Warnings = append(res.Warnings, o.warnings...)
		res.Errors = append(res.Errors, o.errors...)
		res.errs = append(res.errs, o.errs...)
		if o.unit != nil {
			res.Units = append(res.Units, o.unit)
		}
	}
	log.Info("generation finished",
		"units", res.UnitCount,
		"operations", res.OperationCount,
		"warnings", len(res.Warnings),
		"errors", len(res.Errors))
	return res
}

type unitOutcome struct {
	unit     *Unit
	paths    []string
	warnings []issues.Issue
	errors   []issues.Issue
	errs     []error
}

func (o *unitOutcome) warn(name, format string, args ...any) {
	o.warnings = append(o.warnings, issues.Warning("", format, args...).InUnit(name))
}

func (o *unitOutcome) fail(name string, err error, format string, args ...any) {
	o.errs = append(o.errs, err)
	o.errors = append(o.errors, issues.Error("", format, args...).InUnit(name))
}

func (o *unitOutcome) add(name string, found []issues.Issue) {
	for _, is := range found {
		is = is.InUnit(name)
		if is.Severity >= severity.SeverityError {
			o.errors = append(o.errors, is)
			o.errs = append(o.errs, errors.New(is.String()))
			continue
		}
		o.warnings = append(o.warnings, is)
	}
}

// UnitName returns the name of partition index out of total for a title.
func UnitName(title string, index, total int) string {
	name := naming.Slug(title)
	if total > 1 {
		name = fmt.Sprintf("%s-%d", name, index+1)
	}
	return name
}

func (g *Generator) buildUnit(ctx context.Context, cfg Config, doc *parser.Document, index, total int, label string, log parser.Logger) (out unitOutcome) {
	title := doc.Info.Title
	if title == "" {
		title = defaultTitle
	}
	name := UnitName(title, index, total)
	log = log.With("unit", name)

	defer func() {
		if r := recover(); r != nil {
			log.Error("unit generation panicked", "panic", r)
			out.unit = nil
			out.fail(name, fmt.Errorf("generator: unit %s: panic: %v", name, r), "Server generation failed: panic: %v", r)
		}
	}()

	if err := ctx.Err(); err != nil {
		out.fail(name, err, "Server generation failed: %v", err)
		return out
	}

	version := doc.Info.Version
	if version == "" {
		version = defaultVersion
	}
	u := &Unit{
		Index:       index,
		Name:        name,
		Category:    label,
		Title:       title,
		Description: doc.Info.Description,
		Version:     version,
		BaseURL:     doc.ServerURL(),
		OutputDir:   cfg.UnitDir(label, name),
		Document:    doc,
	}

	if oc, ok := oauth.Extract(doc); ok {
		u.OAuth = &oc
	} else {
		out.warn(name, WarnNoOAuth)
	}

	extractor := g.RateLimits
	if extractor == nil {
		extractor = ratelimit.New()
	}
	u.RateLimit, u.RateLimitDeclared = extractor.Extract(doc)
	if !u.RateLimitDeclared {
		out.warn(name, WarnNoRateLimit)
	}

	tools := g.Tools
	if tools == nil {
		tools = toolset.New()
	}
	var found []issues.Issue
	u.Tools, found = tools.Extract(doc)
	out.add(name, found)
	if len(u.Tools) == 0 {
		err := &oaserrors.EmptyUnitError{Unit: name}
		log.Warn("unit has no operations")
		out.fail(name, err, "%s", (&oaserrors.EmptyUnitError{}).Error())
		return out
	}
	out.unit = u
	log.Debug("unit built", "tools", len(u.Tools), "oauth", u.OAuth != nil)

	if g.Emitter == nil {
		return out
	}
	paths, err := g.Emitter.Emit(ctx, u, EmitOptions{
		OutputDir:    u.OutputDir,
		IncludeTests: cfg.IncludeTests,
		DryRun:       cfg.DryRun,
	})
	out.paths = paths
	if err != nil {
		log.Error("emission failed", "error", err)
		out.fail(name, err, "Server generation failed: %v", err)
		return out
	}

	if cfg.ValidateOutput && !cfg.DryRun && g.Checker != nil {
		out.add(name, g.Checker.Check(ctx, u.OutputDir, cfg.ValidationTimeout))
	}
	return out
}
