package emitter

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/erraggy/oasmcp/generator"
	"github.com/erraggy/oasmcp/internal/naming"
	"github.com/erraggy/oasmcp/parser"
	"github.com/erraggy/oasmcp/toolset"
	"github.com/erraggy/oasmcp/typegen"
)

// Artifact paths relative to a unit directory, in emission order.
const (
	IndexFile    = "src/index.ts"
	PackageFile  = "package.json"
	TSConfigFile = "tsconfig.json"
	TestFile     = "tests/integration.test.ts"
)

// File is one rendered artifact.
type File struct {
	// Name is the slash-separated path relative to the unit directory.
	Name    string
	Content []byte
}

// TemplateEmitter renders units with the embedded templates and stores them
// through a Sink. It implements generator.Emitter.
type TemplateEmitter struct {
	Sink   Sink
	Logger parser.Logger
}

var _ generator.Emitter = (*TemplateEmitter)(nil)

// New returns a TemplateEmitter writing through sink. A nil sink writes to
// the local filesystem.
func New(sink Sink) *TemplateEmitter {
	if sink == nil {
		sink = DirSink{}
	}
	return &TemplateEmitter{Sink: sink}
}

// Emit renders u and writes its files under opts.OutputDir. It returns the
// artifact locations in emission order; with DryRun set nothing is written.
func (e *TemplateEmitter) Emit(ctx context.Context, u *generator.Unit, opts generator.EmitOptions) ([]string, error) {
	files, err := Render(u, opts.IncludeTests)
	if err != nil {
		return nil, err
	}
	dir := opts.OutputDir
	if dir == "" {
		dir = u.OutputDir
	}
	log := parser.OrNop(e.Logger).With("unit", u.Name)

	paths := make([]string, 0, len(files))
	for _, f := range files {
		loc := Join(dir, f.Name)
		if !opts.DryRun {
			if err := e.Sink.WriteFile(ctx, loc, f.Content); err != nil {
				return paths, err
			}
			log.Debug("wrote artifact", "path", loc, "bytes", len(f.Content))
		}
		paths = append(paths, loc)
	}
	return paths, nil
}

// Render produces the artifacts of u without storing them.
func Render(u *generator.Unit, includeTests bool) ([]File, error) {
	if u == nil {
		return nil, fmt.Errorf("emitter: nil unit")
	}
	data, err := newServerData(u)
	if err != nil {
		return nil, err
	}

	plan := []struct{ name, tmpl string }{
		{IndexFile, "index.ts.tmpl"},
		{PackageFile, "package.json.tmpl"},
		{TSConfigFile, "tsconfig.json.tmpl"},
	}
	if includeTests {
		plan = append(plan, struct{ name, tmpl string }{TestFile, "integration.test.ts.tmpl"})
	}

	files := make([]File, 0, len(plan))
	for _, p := range plan {
		content, err := executeTemplate(p.tmpl, data)
		if err != nil {
			return nil, err
		}
		files = append(files, File{Name: p.name, Content: content})
	}
	return files, nil
}

// serverData is the template view of a unit.
type serverData struct {
	*generator.Unit
	ClientName string
	Tools      []toolData
}

// toolData is the template view of a tool.
type toolData struct {
	toolset.Tool
	// Member is the client method declaration name, Access the expression
	// that calls it on a client value.
	Member string
	Access string
	// ParamsType is the TypeScript type of the method's params argument.
	ParamsType string
	PathParams []string
	// SchemaJSON is the input schema rendered at the TOOLS array indentation.
	SchemaJSON string
	// Body sends params as the request body instead of the query string.
	Body bool
}

var (
	pathParamPattern = regexp.MustCompile(`\{(\w+)\}`)
	tsIdentPattern   = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)
)

func newServerData(u *generator.Unit) (*serverData, error) {
	translator := typegen.New()
	data := &serverData{
		Unit:       u,
		ClientName: clientName(u.Title),
		Tools:      make([]toolData, 0, len(u.Tools)),
	}
	for _, t := range u.Tools {
		schemaJSON, err := json.MarshalIndent(t.InputSchema, "    ", "  ")
		if err != nil {
			return nil, fmt.Errorf("emitter: input schema of %s: %w", t.Name, err)
		}
		td := toolData{
			Tool:       t,
			Member:     t.Name,
			Access:     "." + t.Name,
			ParamsType: translator.Translate(parser.DecodeSchema(t.InputSchema.Node()), 1),
			SchemaJSON: string(schemaJSON),
			Body:       hasBody(t.Method),
		}
		if !tsIdentPattern.MatchString(t.Name) {
			td.Member = tsString(t.Name)
			td.Access = "[" + tsString(t.Name) + "]"
		}
		for _, m := range pathParamPattern.FindAllStringSubmatch(t.Path, -1) {
			if _, ok := t.InputSchema.Property(m[1]); ok {
				td.PathParams = append(td.PathParams, m[1])
			}
		}
		data.Tools = append(data.Tools, td)
	}
	return data, nil
}

func hasBody(method string) bool {
	switch method {
	case "POST", "PUT", "PATCH":
		return true
	}
	return false
}

// clientName derives the API client class name from a title.
func clientName(title string) string {
	name := strings.Map(func(r rune) rune {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			return r
		}
		return -1
	}, naming.ToPascalCase(title))
	if name == "" || unicode.IsDigit(rune(name[0])) {
		name = "Api" + name
	}
	return name + "Client"
}
