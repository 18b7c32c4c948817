// Package generator orchestrates a generation run: it loads and validates an
// OpenAPI document, picks the category, partitions oversized documents by
// tag and builds one Unit per partition, then hands each unit to an Emitter.
//
// A run always produces a Result. Unreachable or invalid sources abort the
// run with a single error; failures inside one partition, including panics,
// are recorded against that unit while its siblings still run.
//
// # Usage
//
//	result, err := generator.GenerateWithOptions(
//	    generator.WithSource("https://api.example.com/openapi.json"),
//	    generator.WithOutputDir("out"),
//	    generator.WithEmitter(emitter.New(emitter.DirSink{})),
//	)
//	if err != nil {
//	    log.Fatal(err) // invalid options only
//	}
//	for _, w := range result.Warnings {
//	    fmt.Println(w)
//	}
//
// Partitions are built concurrently, bounded by Config.Concurrency. Results
// are aggregated in partition order regardless of completion order, so
// output paths, warnings, errors and unit numbering are deterministic.
package generator
