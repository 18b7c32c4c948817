// Package oasmcp turns OpenAPI 3.x documents into MCP (Model Context Protocol)
// server adapters.
//
// A generation run loads one OpenAPI document, validates it, and derives from
// it one or more generation units. Each unit carries an inferred category, the
// API's base URL, its OAuth2 configuration, a rate-limit profile and one tool
// descriptor per operation. An emitter then renders every unit as a
// TypeScript MCP server source tree.
//
// # Overview
//
// The library consists of these packages:
//
//   - parser: Load OpenAPI documents from files, URLs, readers or bytes
//   - validator: Check documents against the OpenAPI 3.0/3.1 structure
//   - category: Infer a category label from the document's title and description
//   - toolset: Extract MCP tool descriptors from operations
//   - typegen: Translate schemas into TypeScript type expressions
//   - oauth: Extract the OAuth2 flow an adapter should drive
//   - ratelimit: Derive the request budget an adapter should enforce
//   - partition: Split large documents by primary tag
//   - generator: Orchestrate a run and report the result
//   - emitter: Render and store adapter source trees, locally or in S3
//
// The oasmcp command (cmd/oasmcp) exposes the generator on the command line
// and as an MCP server over stdio.
//
// # Quick Start
//
// Generate adapters for a document:
//
//	result, err := generator.GenerateWithOptions(
//	    generator.WithSource("openapi.yaml"),
//	    generator.WithEmitter(emitter.New(emitter.DirSink{})),
//	    generator.WithOutputDir("adapters"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, w := range result.Warnings {
//	    fmt.Println(w)
//	}
//	if !result.Success {
//	    log.Fatal(result.Err())
//	}
//
// Inspect the tools of a document without generating anything:
//
//	doc, err := parser.ParseWithOptions(parser.WithFilePath("openapi.yaml"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := validator.Validate(doc); err != nil {
//	    log.Fatal(err)
//	}
//	tools, found := toolset.New().Extract(doc)
//
// # Splitting
//
// Documents with more than generator.Config.MaxOperations tool operations
// (100 by default) are split into one unit per primary tag, in the order tags
// are first met. Split units are named after the source title and their tag,
// suffixed with their 1-based position: "github---repos-1".
//
// # Errors
//
// Library errors are typed and match the sentinels of package oaserrors
// through errors.Is:
//
//	if errors.Is(result.Err(), oaserrors.ErrSourceUnreachable) {
//	    // retry later
//	}
package oasmcp
