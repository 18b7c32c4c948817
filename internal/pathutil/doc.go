// Package pathutil builds the locations used across oasmcp: issue paths into
// an OpenAPI document, local component references, and sanitized output
// file paths.
//
// # Issue Paths
//
// Issue paths are dot-joined field names starting at the document root:
//
//	pathutil.Operation("/pets/{petId}", "get")  // "paths./pets/{petId}.get"
//	pathutil.Join(at, "parameters")             // "paths./pets/{petId}.get.parameters"
//
// # Reference Builders
//
// Local references to reusable components:
//
//	ref := pathutil.SchemaRef("Pet")           // "#/components/schemas/Pet"
//	name, ok := pathutil.SchemaName(ref)       // "Pet", true
//
// # Output Path Sanitization
//
// [SanitizeOutputPath] cleans output file paths and rejects symlinks:
//
//	safe, err := pathutil.SanitizeOutputPath(location)
//	if err != nil {
//	    return err
//	}
package pathutil
