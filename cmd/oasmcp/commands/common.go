// Package commands provides the cobra command tree of the oasmcp CLI.
package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"go.yaml.in/yaml/v4"

	"github.com/erraggy/oasmcp/emitter"
	"github.com/erraggy/oasmcp/internal/cliutil"
	"github.com/erraggy/oasmcp/internal/issues"
	"github.com/erraggy/oasmcp/parser"
)

// Output format constants
const (
	FormatText  = "text"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
	FormatTxtar = "txtar"
)

// StdinFilePath is the special file path used to indicate reading from stdin.
const StdinFilePath = "-"

// ValidateOutputFormat returns an error unless format is one of allowed.
func ValidateOutputFormat(format string, allowed ...string) error {
	for _, a := range allowed {
		if format == a {
			return nil
		}
	}
	return fmt.Errorf("invalid format '%s'. Valid formats: %v", format, allowed)
}

// OutputStructured writes data to w in the specified format (json or yaml).
func OutputStructured(w io.Writer, data any, format string) error {
	var out []byte
	var err error

	switch format {
	case FormatJSON:
		out, err = json.MarshalIndent(data, "", "  ")
	case FormatYAML:
		out, err = yaml.Marshal(data)
	default:
		return fmt.Errorf("invalid format for structured output: %s", format)
	}
	if err != nil {
		return fmt.Errorf("marshaling to %s: %w", format, err)
	}

	cliutil.Writef(w, "%s\n", out)
	return nil
}

// loadDocument parses source, reading stdin when source is StdinFilePath.
func loadDocument(ctx context.Context, source string, stdin io.Reader, timeout time.Duration, log parser.Logger) (*parser.Document, error) {
	opts := []parser.Option{
		parser.WithContext(ctx),
		parser.WithTimeout(timeout),
		parser.WithLogger(log),
	}
	if source == StdinFilePath {
		opts = append(opts, parser.WithReader(stdin), parser.WithSourceName("stdin"))
	} else {
		opts = append(opts, parser.WithFilePath(source))
	}
	return parser.ParseWithOptions(opts...)
}

// minioConfigFromEnv reads object storage settings from OASMCP_S3_*.
func minioConfigFromEnv() emitter.MinioConfig {
	useSSL := true
	if v := os.Getenv("OASMCP_S3_USE_SSL"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			useSSL = b
		}
	}
	return emitter.MinioConfig{
		Endpoint:      os.Getenv("OASMCP_S3_ENDPOINT"),
		Region:        os.Getenv("OASMCP_S3_REGION"),
		AccessKey:     os.Getenv("OASMCP_S3_ACCESS_KEY"),
		SecretKey:     os.Getenv("OASMCP_S3_SECRET_KEY"),
		UseSSL:        useSSL,
		CreateBuckets: true,
	}
}

// parseDuration parses a duration flag value, naming the flag on failure.
func parseDuration(flag, value string) (time.Duration, error) {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid --%s '%s': %w", flag, value, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid --%s '%s': must be positive", flag, value)
	}
	return d, nil
}

func cliIssueStrings(list []issues.Issue) []string {
	out := make([]string, len(list))
	for i, is := range list {
		out[i] = is.String()
	}
	return out
}
