package emitter

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"text/template"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var (
	templatesOnce sync.Once
	templates     *template.Template
	templatesErr  error
)

// templateFuncs provides custom functions for templates
var templateFuncs = template.FuncMap{
	"ts":      tsString,
	"tsList":  tsList,
	"comment": commentText,
	"brace":   func(name string) string { return "{" + name + "}" },
}

func getTemplates() (*template.Template, error) {
	templatesOnce.Do(func() {
		templates, templatesErr = template.New("").
			Funcs(templateFuncs).
			Option("missingkey=error").
			ParseFS(templateFS, "templates/*.tmpl")
	})
	return templates, templatesErr
}

// executeTemplate executes a template by name
func executeTemplate(name string, data any) ([]byte, error) {
	tmpl, err := getTemplates()
	if err != nil {
		return nil, fmt.Errorf("emitter: parse templates: %w", err)
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("emitter: render %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// tsString returns s as a double-quoted TypeScript string literal.
func tsString(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	// Encoding a string cannot fail.
	_ = enc.Encode(s)
	return strings.TrimSuffix(buf.String(), "\n")
}

// tsList returns a TypeScript array literal of strings.
func tsList(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = tsString(s)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

// commentText makes s safe inside a /* */ comment on one line.
func commentText(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	return strings.ReplaceAll(s, "*/", "*\\/")
}
