// Package toolset turns the operations of an OpenAPI document into tool
// descriptors: a unique name, a description, a unified input schema and a
// TypeScript output type per operation.
//
// Operations are visited path by path in document order and, within a path,
// in parser.ToolMethods order. That order decides which operation keeps a
// contested name.
package toolset

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/erraggy/oasmcp/internal/httputil"
	"github.com/erraggy/oasmcp/internal/issues"
	"github.com/erraggy/oasmcp/internal/naming"
	"github.com/erraggy/oasmcp/internal/pathutil"
	"github.com/erraggy/oasmcp/parser"
	"github.com/erraggy/oasmcp/typegen"
)

// MaxDescriptionLength bounds tool descriptions, in runes.
const MaxDescriptionLength = 500

// maxInlineDepth bounds reference inlining in input schemas.
const maxInlineDepth = 32

var pathParamPattern = regexp.MustCompile(`\{(\w+)\}`)

// actionPrefix maps methods to the verb of synthesized names.
var actionPrefix = map[string]string{
	parser.MethodGet:    "get",
	parser.MethodPost:   "create",
	parser.MethodPut:    "update",
	parser.MethodPatch:  "update",
	parser.MethodDelete: "delete",
}

// Extractor builds tool descriptors. Create instances with New.
type Extractor struct {
	// MaxDescriptionLength bounds descriptions, in runes. Zero or less
	// means the package MaxDescriptionLength.
	MaxDescriptionLength int
	// ResolveRefs enables $ref resolution in input schemas and output types.
	ResolveRefs bool
}

// New creates an Extractor with the default limits and reference resolution on.
func New() *Extractor {
	return &Extractor{MaxDescriptionLength: MaxDescriptionLength, ResolveRefs: true}
}

// Extract returns one tool per tool-method operation of doc, plus warnings for
// renamed duplicates, omitted request bodies and approximated types.
func (e *Extractor) Extract(doc *parser.Document) ([]Tool, []issues.Issue) {
	run := &extraction{
		e:     e,
		doc:   doc,
		taken: make(map[string]string),
	}
	if e.ResolveRefs {
		run.types = typegen.New(typegen.WithResolver(doc))
	} else {
		run.types = typegen.New()
	}

	var tools []Tool
	for _, entry := range doc.Paths {
		for _, method := range parser.ToolMethods {
			op := entry.Item.Operation(method)
			if op == nil {
				continue
			}
			tools = append(tools, run.tool(entry.Path, entry.Item, method, op))
		}
	}
	return tools, run.issues
}

type extraction struct {
	e     *Extractor
	doc   *parser.Document
	types *typegen.Translator
	// taken maps assigned names to the "METHOD path" that holds them.
	taken  map[string]string
	issues []issues.Issue
}

func (x *extraction) warn(path, format string, args ...any) {
	x.issues = append(x.issues, issues.Warning(path, format, args...))
}

func (x *extraction) tool(path string, item *parser.PathItem, method string, op *parser.Operation) Tool {
	at := pathutil.Operation(path, method)
	t := Tool{
		Method:      strings.ToUpper(method),
		Path:        path,
		OperationID: op.OperationID,
		Deprecated:  op.Deprecated,
	}
	t.Name = x.uniqueName(at, t, ToolName(method, path, op.OperationID))
	t.Description = x.description(t, op)
	t.InputSchema = x.inputSchema(at, path, item, op)
	t.OutputType = x.outputType(at, op)
	return t
}

// ToolName returns the tool name for an operation before de-duplication:
// the sanitized operationId, or a name synthesized from the method and the
// trailing literal path segments.
func ToolName(method, path, operationID string) string {
	if name := naming.SanitizeToolName(operationID); name != "" {
		return name
	}

	prefix, ok := actionPrefix[strings.ToLower(method)]
	if !ok {
		prefix = strings.ToLower(method)
	}
	literals := literalSegments(path)
	if len(literals) == 0 {
		return prefix + "Resource"
	}
	if len(literals) > 2 {
		literals = literals[len(literals)-2:]
	}
	var b strings.Builder
	b.WriteString(prefix)
	for _, seg := range literals {
		b.WriteString(naming.ToPascalCase(seg))
	}
	return naming.SanitizeToolName(b.String())
}

func literalSegments(path string) []string {
	var out []string
	for _, seg := range strings.Split(path, "/") {
		if seg == "" || strings.HasPrefix(seg, "{") {
			continue
		}
		out = append(out, seg)
	}
	return out
}

// uniqueName assigns name to t, or a qualified variant when another tool
// already holds it. The first variant appends the path parameters
// (ByOwnerByRepo) or, for parameter-less paths, the literal segments; after
// that a numeric suffix is added.
func (x *extraction) uniqueName(at string, t Tool, name string) string {
	owner := t.Method + " " + t.Path
	if _, used := x.taken[name]; !used {
		x.taken[name] = owner
		return name
	}

	candidate := ""
	if suffix := qualifier(t.Path); suffix != "" {
		candidate = withSuffix(name, suffix)
	}
	for n := 2; ; n++ {
		if _, used := x.taken[candidate]; candidate != "" && !used {
			break
		}
		candidate = withSuffix(name, "_"+strconv.Itoa(n))
	}
	x.warn(at, "tool name %q already used by %s; renamed to %q", name, x.taken[name], candidate)
	x.taken[candidate] = owner
	return candidate
}

func qualifier(path string) string {
	var b strings.Builder
	if params := pathParamPattern.FindAllStringSubmatch(path, -1); len(params) > 0 {
		for _, m := range params {
			b.WriteString("By")
			b.WriteString(naming.ToPascalCase(m[1]))
		}
		return b.String()
	}
	for _, seg := range literalSegments(path) {
		b.WriteString(naming.ToPascalCase(seg))
	}
	return b.String()
}

func withSuffix(name, suffix string) string {
	n := naming.MaxToolNameLength - len([]rune(suffix))
	if n <= 0 {
		return naming.Truncate(suffix, naming.MaxToolNameLength)
	}
	return naming.Truncate(name, n) + suffix
}

func (x *extraction) description(t Tool, op *parser.Operation) string {
	limit := x.e.MaxDescriptionLength
	if limit <= 0 {
		limit = MaxDescriptionLength
	}
	for _, candidate := range []string{op.Summary, op.Description} {
		if text := strings.Join(strings.Fields(candidate), " "); text != "" {
			return naming.Truncate(text, limit)
		}
	}
	return naming.Truncate(t.Method+" "+t.Path, limit)
}

// inputSchema merges declared parameters, undeclared path-template
// parameters and the JSON object request body, in that order. Body
// properties replace parameters of the same name.
func (x *extraction) inputSchema(at, path string, item *parser.PathItem, op *parser.Operation) InputSchema {
	var s InputSchema
	for _, p := range mergeParameters(item.Parameters, op.Parameters) {
		if p.Name == "" {
			continue
		}
		s.set(p.Name, x.parameterSchema(p))
		if p.Required {
			s.require(p.Name)
		}
	}

	for _, m := range pathParamPattern.FindAllStringSubmatch(path, -1) {
		name := m[1]
		if _, declared := s.Property(name); declared {
			continue
		}
		s.set(name, parser.NewObject(
			parser.Field{Key: "type", Value: parser.NewString("string")},
			parser.Field{Key: "description", Value: parser.NewString("Path parameter: " + name)},
		))
		s.require(name)
	}

	if op.RequestBody == nil {
		return s
	}
	media := parser.JSONMedia(op.RequestBody.Content)
	if media == nil || media.Schema == nil {
		if len(op.RequestBody.Content) > 0 {
			x.warn(at+".requestBody", "request body has no JSON schema; omitted from input schema")
		}
		return s
	}
	body := media.Schema
	if x.e.ResolveRefs {
		body = x.doc.ResolveSchema(body)
	}
	if body == nil || body.Type() != "object" {
		x.warn(at+".requestBody", "request body is not a JSON object; omitted from input schema")
		return s
	}
	for _, prop := range body.Properties {
		s.set(prop.Name, x.inline(prop.Schema.Node))
	}
	for _, name := range body.Required {
		s.require(name)
	}
	return s
}

// mergeParameters overlays operation parameters on path-level ones, matching
// on name and location.
func mergeParameters(pathLevel, opLevel []*parser.Parameter) []*parser.Parameter {
	merged := append([]*parser.Parameter(nil), pathLevel...)
	for _, p := range opLevel {
		replaced := false
		for i, existing := range merged {
			if existing.Name == p.Name && existing.In == p.In {
				merged[i] = p
				replaced = true
				break
			}
		}
		if !replaced {
			merged = append(merged, p)
		}
	}
	return merged
}

// parameterSchema is the parameter's schema (string when absent) with the
// parameter description set.
func (x *extraction) parameterSchema(p *parser.Parameter) *parser.Node {
	var fields []parser.Field
	schemaDescription := ""
	if p.Schema != nil {
		inlined := x.inline(p.Schema.Node)
		for _, f := range inlined.Fields {
			if f.Key == "description" {
				schemaDescription = f.Value.Text()
				continue
			}
			fields = append(fields, f)
		}
	} else {
		fields = append(fields, parser.Field{Key: "type", Value: parser.NewString("string")})
	}
	description := p.Description
	if description == "" {
		description = schemaDescription
	}
	fields = append(fields, parser.Field{Key: "description", Value: parser.NewString(description)})
	return parser.NewObject(fields...)
}

// inline returns a copy of a schema node with local references replaced by
// their targets. Cycles and over-deep chains become the empty schema.
func (x *extraction) inline(n *parser.Node) *parser.Node {
	if !x.e.ResolveRefs {
		if n == nil {
			return parser.NewObject()
		}
		return n
	}
	out := x.inlineNode(n, make(map[string]bool), 0)
	if !out.IsObject() {
		return parser.NewObject()
	}
	return out
}

func (x *extraction) inlineNode(n *parser.Node, active map[string]bool, depth int) *parser.Node {
	if n == nil {
		return nil
	}
	if depth > maxInlineDepth {
		return parser.NewObject()
	}
	switch n.Kind {
	case parser.KindObject:
		if ref, ok := n.Get("$ref").StringValue(); ok {
			if active[ref] {
				return parser.NewObject()
			}
			target, err := x.doc.Lookup(ref)
			if err != nil {
				return parser.NewObject()
			}
			active[ref] = true
			defer delete(active, ref)
			return x.inlineNode(target, active, depth+1)
		}
		fields := make([]parser.Field, len(n.Fields))
		for i, f := range n.Fields {
			fields[i] = parser.Field{Key: f.Key, Value: x.inlineNode(f.Value, active, depth+1)}
		}
		return parser.NewObject(fields...)
	case parser.KindArray:
		items := make([]*parser.Node, len(n.Items))
		for i, item := range n.Items {
			items[i] = x.inlineNode(item, active, depth+1)
		}
		return parser.NewArray(items...)
	default:
		return n
	}
}

// outputType translates the first success response with a non-empty JSON
// schema.
func (x *extraction) outputType(at string, op *parser.Operation) string {
	for _, code := range httputil.SuccessStatusCodes {
		resp := op.Response(code)
		if resp == nil {
			continue
		}
		media := parser.JSONMedia(resp.Content)
		if media == nil || media.Schema == nil || media.Schema.Node.Len() == 0 {
			continue
		}
		out, notes := x.types.TranslateNoted(media.Schema, 0)
		prefix := at + ".responses." + code + ".schema"
		for _, n := range notes {
			n.Path = prefix + "." + n.Path
			x.issues = append(x.issues, n)
		}
		return out
	}
	return typegen.Any
}
