// Package typegen translates JSON Schema fragments into TypeScript type
// expressions.
//
// Translation is total: shapes it does not recognize degrade to "any"
// instead of failing. Depth only affects indentation of object literals.
//
//	t := typegen.New(typegen.WithResolver(doc))
//	ts := t.Translate(schema, 0)
package typegen

import (
	"encoding/json"
	"regexp"
	"slices"
	"strings"

	"github.com/erraggy/oasmcp/internal/issues"
	"github.com/erraggy/oasmcp/internal/pathutil"
	"github.com/erraggy/oasmcp/parser"
)

// Any is the untyped fallback expression.
const Any = "any"

// DefaultIndent is the indentation added per nesting level.
const DefaultIndent = "  "

var identifierPattern = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// Resolver follows schema references. *parser.Document implements it.
type Resolver interface {
	ResolveSchema(s *parser.Schema) *parser.Schema
}

// Translator converts schemas to TypeScript. The zero value is usable and
// translates references to "any".
type Translator struct {
	resolver Resolver
	indent   string
}

// Option configures a Translator.
type Option func(*Translator)

// WithResolver enables $ref resolution through r.
func WithResolver(r Resolver) Option {
	return func(t *Translator) { t.resolver = r }
}

// WithIndent overrides the per-level indentation.
func WithIndent(indent string) Option {
	return func(t *Translator) { t.indent = indent }
}

// New creates a Translator.
func New(opts ...Option) *Translator {
	t := &Translator{indent: DefaultIndent}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Translate returns the TypeScript expression for s at the given depth.
func (t *Translator) Translate(s *parser.Schema, depth int) string {
	out, _ := t.TranslateNoted(s, depth)
	return out
}

// TranslateNoted is Translate that also reports the approximations it made:
// allOf reduced to its first branch, and unresolved or circular references.
// Issue paths are relative to s.
func (t *Translator) TranslateNoted(s *parser.Schema, depth int) (string, []issues.Issue) {
	w := &walk{t: t, active: make(map[string]bool)}
	return w.translate(s, depth, ""), w.notes
}

type walk struct {
	t      *Translator
	active map[string]bool
	notes  []issues.Issue
}

func (w *walk) note(path, format string, args ...any) {
	w.notes = append(w.notes, issues.Warning(path, format, args...))
}

func (w *walk) translate(s *parser.Schema, depth int, path string) string {
	if s == nil {
		return Any
	}
	if s.Ref != "" {
		return w.reference(s, depth, path)
	}

	out := w.base(s, depth, path)
	if out != Any && out != "null" && s.AllowsNull() {
		out += " | null"
	}
	return out
}

func (w *walk) reference(s *parser.Schema, depth int, path string) string {
	if w.t.resolver == nil {
		return Any
	}
	if w.active[s.Ref] {
		w.note(pathutil.Join(path, "$ref"), "circular reference %s translated as any", s.Ref)
		return Any
	}
	target := w.t.resolver.ResolveSchema(s)
	if target == nil {
		w.note(pathutil.Join(path, "$ref"), "unresolved reference %s translated as any", s.Ref)
		return Any
	}
	w.active[s.Ref] = true
	defer delete(w.active, s.Ref)
	return w.translate(target, depth, path)
}

func (w *walk) base(s *parser.Schema, depth int, path string) string {
	if types := s.NonNullTypes(); len(types) > 1 {
		if out := w.multiType(s, types, depth, path); out != "" {
			return out
		}
	} else if out, ok := w.typed(s, s.Type(), depth, path); ok {
		return out
	}

	switch {
	case len(s.OneOf) > 0:
		return w.union(s.OneOf, depth, pathutil.Join(path, "oneOf"))
	case len(s.AnyOf) > 0:
		return w.union(s.AnyOf, depth, pathutil.Join(path, "anyOf"))
	case len(s.AllOf) > 0:
		if len(s.AllOf) > 1 {
			w.note(pathutil.Join(path, "allOf"), "allOf with %d branches approximated by its first branch", len(s.AllOf))
		}
		return w.translate(s.AllOf[0], depth, pathutil.Join(path, "allOf[0]"))
	}
	return Any
}

// multiType joins the translation of each type of an OAS 3.1 type array.
// Unknown types are skipped and duplicate branches collapse.
func (w *walk) multiType(s *parser.Schema, types []string, depth int, path string) string {
	parts := make([]string, 0, len(types))
	for _, typ := range types {
		out, ok := w.typed(s, typ, depth, path)
		if !ok || slices.Contains(parts, out) {
			continue
		}
		parts = append(parts, out)
	}
	return strings.Join(parts, " | ")
}

func (w *walk) typed(s *parser.Schema, typ string, depth int, path string) (string, bool) {
	switch typ {
	case "object":
		return w.object(s, depth, path), true
	case "array":
		return "Array<" + w.translate(s.Items, depth, pathutil.Join(path, "items")) + ">", true
	case "string":
		if len(s.Enum) > 0 {
			return enumUnion(s.Enum), true
		}
		return "string", true
	case "integer", "number":
		return "number", true
	case "boolean":
		return "boolean", true
	case "null":
		return "null", true
	}
	return "", false
}

func (w *walk) object(s *parser.Schema, depth int, path string) string {
	if len(s.Properties) == 0 {
		value := Any
		if s.AdditionalProperties != nil {
			value = w.translate(s.AdditionalProperties, depth, pathutil.Join(path, "additionalProperties"))
		}
		return "Record<string, " + value + ">"
	}

	indent := strings.Repeat(w.t.indent, depth)
	var b strings.Builder
	b.WriteString("{\n")
	for _, p := range s.Properties {
		b.WriteString(indent)
		b.WriteString(w.t.indent)
		b.WriteString(propertyName(p.Name))
		if !s.IsRequired(p.Name) {
			b.WriteByte('?')
		}
		b.WriteString(": ")
		b.WriteString(w.translate(p.Schema, depth+1, pathutil.Join(path, "properties."+p.Name)))
		b.WriteString(";\n")
	}
	b.WriteString(indent)
	b.WriteByte('}')
	return b.String()
}

func (w *walk) union(branches []*parser.Schema, depth int, path string) string {
	parts := make([]string, len(branches))
	for i, branch := range branches {
		parts[i] = w.translate(branch, depth, path)
	}
	return strings.Join(parts, " | ")
}

func enumUnion(values []*parser.Node) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		lit, err := json.Marshal(v)
		if err != nil {
			continue
		}
		parts = append(parts, string(lit))
	}
	if len(parts) == 0 {
		return "string"
	}
	return strings.Join(parts, " | ")
}

func propertyName(name string) string {
	if identifierPattern.MatchString(name) {
		return name
	}
	quoted, _ := json.Marshal(name)
	return string(quoted)
}
