// Package emitter renders generation units into TypeScript MCP adapter
// source trees.
//
// A TemplateEmitter implements generator.Emitter. Each unit becomes one
// directory holding src/index.ts, package.json, tsconfig.json and, when
// tests are requested, tests/integration.test.ts. Files are stored through
// a Sink: DirSink writes to the local filesystem and MinioSink writes to an
// S3-compatible bucket addressed as s3://bucket/prefix. Router picks between
// the two by location.
//
// # Usage
//
//	remote, err := emitter.NewMinioSink(emitter.MinioConfig{
//	    Endpoint:  "localhost:9000",
//	    AccessKey: os.Getenv("OASMCP_S3_ACCESS_KEY"),
//	    SecretKey: os.Getenv("OASMCP_S3_SECRET_KEY"),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	g := generator.New()
//	g.Emitter = emitter.New(emitter.Router{Local: emitter.DirSink{}, Remote: remote})
//	g.Checker = emitter.NewTSChecker()
//
// TSChecker implements generator.OutputChecker by running the TypeScript
// compiler over an emitted directory. A missing toolchain or missing
// node_modules is reported as a warning rather than an error.
package emitter
