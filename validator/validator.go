// Package validator checks that a parsed document is a structurally valid
// OpenAPI 3.0.x or 3.1.x document before any other processing happens.
//
// Validation runs in two passes. The raw tree is first checked against an
// embedded structural meta-schema using github.com/google/jsonschema-go, and
// then version-specific rules the meta-schema cannot express are applied
// (supported version range, required paths, path parameters marked required,
// security scheme types that only exist in 3.1).
//
//	doc, err := parser.ParseWithOptions(parser.WithFilePath("api.yaml"))
//	if err != nil {
//	    return err
//	}
//	if err := validator.Validate(doc); err != nil {
//	    // err matches oaserrors.ErrSpecInvalid
//	}
package validator

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/erraggy/oasmcp/internal/issues"
	"github.com/erraggy/oasmcp/internal/pathutil"
	"github.com/erraggy/oasmcp/oaserrors"
	"github.com/erraggy/oasmcp/parser"
)

//go:embed metaschema.json
var metaSchemaJSON []byte

var (
	metaOnce     sync.Once
	metaResolved *jsonschema.Resolved
	metaErr      error
)

// supportedVersion matches OpenAPI 3.0.x and 3.1.x, with optional pre-release suffix.
var supportedVersion = regexp.MustCompile(`^3\.[01]\.\d+(-[0-9A-Za-z.-]+)?$`)

func metaSchema() (*jsonschema.Resolved, error) {
	metaOnce.Do(func() {
		var s jsonschema.Schema
		if err := json.Unmarshal(metaSchemaJSON, &s); err != nil {
			metaErr = fmt.Errorf("validator: invalid embedded meta-schema: %w", err)
			return
		}
		metaResolved, metaErr = s.Resolve(&jsonschema.ResolveOptions{})
		if metaErr != nil {
			metaErr = fmt.Errorf("validator: cannot resolve embedded meta-schema: %w", metaErr)
		}
	})
	return metaResolved, metaErr
}

// Result contains the outcome of validating a document.
type Result struct {
	// Valid is true if no errors were found (warnings are allowed)
	Valid bool
	// Version is the declared openapi version
	Version string
	// Errors contains all validation errors, in discovery order
	Errors []issues.Issue
	// Warnings contains non-fatal findings such as duplicate operation IDs
	Warnings []issues.Issue
	// SourcePath identifies the validated document
	SourcePath string
}

// Err converts an invalid result into an *oaserrors.ValidationError.
// It returns nil for valid results.
func (r *Result) Err() error {
	if r.Valid {
		return nil
	}
	violations := make([]oaserrors.Violation, len(r.Errors))
	for i, e := range r.Errors {
		violations[i] = oaserrors.Violation{Path: e.Path, Message: e.Message}
	}
	return &oaserrors.ValidationError{Source: r.SourcePath, Version: r.Version, Violations: violations}
}

// Validator validates OpenAPI documents.
type Validator struct {
	// IncludeWarnings determines whether non-fatal findings are reported
	IncludeWarnings bool
	// Logger is the structured logger for debug output
	Logger parser.Logger
}

// New creates a new Validator instance with default settings
func New() *Validator {
	return &Validator{IncludeWarnings: true}
}

// Validate validates doc with default settings and returns an error matching
// oaserrors.ErrSpecInvalid when it is not a valid OpenAPI 3.0/3.1 document.
func Validate(doc *parser.Document) error {
	return New().ValidateDocument(doc).Err()
}

// ValidateDocument validates a parsed document and reports every problem found.
func (v *Validator) ValidateDocument(doc *parser.Document) *Result {
	res := &Result{SourcePath: doc.SourcePath, Version: doc.OpenAPI}
	log := parser.OrNop(v.Logger)

	schema, err := metaSchema()
	if err != nil {
		res.Errors = append(res.Errors, issues.Error("", "%v", err))
		return res
	}
	if err := schema.Validate(doc.Root.Interface()); err != nil {
		res.Errors = append(res.Errors, issues.Error("", "%v", err))
	}

	v.checkVersion(doc, res)
	v.checkOperations(doc, res)
	v.checkSecuritySchemes(doc, res)

	res.Valid = len(res.Errors) == 0
	if !v.IncludeWarnings {
		res.Warnings = nil
	}
	log.Debug("validated document",
		"source", doc.SourcePath,
		"valid", res.Valid,
		"errors", len(res.Errors),
		"warnings", len(res.Warnings),
	)
	return res
}

func (v *Validator) checkVersion(doc *parser.Document, res *Result) {
	switch {
	case doc.OpenAPI == "":
		res.Errors = append(res.Errors, issues.Error("openapi", "missing openapi version"))
		return
	case !supportedVersion.MatchString(doc.OpenAPI):
		res.Errors = append(res.Errors, issues.Error("openapi",
			"unsupported OpenAPI version %q (expected 3.0.x or 3.1.x)", doc.OpenAPI))
		return
	}

	root := doc.Root
	if is30(doc.OpenAPI) {
		if !root.Get("paths").IsObject() {
			res.Errors = append(res.Errors, issues.Error("paths", "paths is required in OpenAPI 3.0"))
		}
		return
	}
	if !root.Has("paths") && !root.Has("components") && !root.Has("webhooks") {
		res.Errors = append(res.Errors, issues.Error("",
			"OpenAPI 3.1 documents must declare at least one of paths, components or webhooks"))
	}
}

func (v *Validator) checkOperations(doc *parser.Document, res *Result) {
	seenIDs := make(map[string]string)
	requireResponses := is30(doc.OpenAPI)

	for _, entry := range doc.Paths {
		for _, p := range entry.Item.Parameters {
			checkPathParameter(pathutil.Join(pathutil.PathItem(entry.Path), "parameters"), p, res)
		}

		for _, method := range parser.PathItemMethods {
			op := entry.Item.Operation(method)
			if op == nil {
				continue
			}
			at := pathutil.Operation(entry.Path, method)

			if requireResponses && !op.Node.Get("responses").IsObject() {
				res.Errors = append(res.Errors, issues.Error(at, "responses is required"))
			}
			for _, p := range op.Parameters {
				checkPathParameter(pathutil.Join(at, "parameters"), p, res)
			}
			if op.OperationID != "" {
				if first, dup := seenIDs[op.OperationID]; dup {
					res.Warnings = append(res.Warnings, issues.Warning(at,
						"duplicate operationId %q (first used at %s)", op.OperationID, first))
				} else {
					seenIDs[op.OperationID] = at
				}
			}
		}

		if len(pathutil.TemplateParams(entry.Path)) == 0 && strings.ContainsAny(entry.Path, "{}") {
			res.Warnings = append(res.Warnings, issues.Warning(pathutil.PathItem(entry.Path), "unbalanced path template braces"))
		}
	}
}

// checkSecuritySchemes applies the scheme rules that differ between 3.0 and 3.1.
func (v *Validator) checkSecuritySchemes(doc *parser.Document, res *Result) {
	if !is30(doc.OpenAPI) {
		return
	}
	for _, named := range doc.Components.SecuritySchemes {
		if named.Scheme != nil && named.Scheme.Type == "mutualTLS" {
			res.Errors = append(res.Errors, issues.Error(
				pathutil.Join(pathutil.Join("components.securitySchemes", named.Name), "type"),
				"security scheme type mutualTLS requires OpenAPI 3.1"))
		}
	}
}

func checkPathParameter(at string, p *parser.Parameter, res *Result) {
	if p.In == "path" && !p.Required {
		res.Errors = append(res.Errors, issues.Error(at,
			"path parameter %q must be marked required", p.Name))
	}
}

func is30(version string) bool {
	return strings.HasPrefix(version, "3.0.")
}
