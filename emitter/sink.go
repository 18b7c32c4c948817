package emitter

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/erraggy/oasmcp/internal/fileutil"
	"github.com/erraggy/oasmcp/internal/pathutil"
)

// Sink stores emitted files.
type Sink interface {
	// WriteFile stores content at location, creating parents as needed.
	WriteFile(ctx context.Context, location string, content []byte) error
}

// DirSink writes files to the local filesystem.
type DirSink struct {
	// Perm is the file mode of written files; zero means fileutil.SourceMode.
	Perm os.FileMode
}

// WriteFile implements Sink.
func (s DirSink) WriteFile(ctx context.Context, location string, content []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if IsRemote(location) {
		return fmt.Errorf("emitter: %s is not a local path", location)
	}
	target, err := pathutil.SanitizeOutputPath(location)
	if err != nil {
		return err
	}
	return fileutil.WriteFile(target, content, s.Perm)
}

// Router sends remote locations to Remote and everything else to Local.
type Router struct {
	Local  Sink
	Remote Sink
}

// WriteFile implements Sink.
func (r Router) WriteFile(ctx context.Context, location string, content []byte) error {
	if IsRemote(location) {
		if r.Remote == nil {
			return fmt.Errorf("emitter: no remote sink configured for %s", location)
		}
		return r.Remote.WriteFile(ctx, location, content)
	}
	if r.Local == nil {
		return DirSink{}.WriteFile(ctx, location, content)
	}
	return r.Local.WriteFile(ctx, location, content)
}

// IsRemote reports whether location is a scheme-qualified URL such as
// s3://bucket/key.
func IsRemote(location string) bool {
	scheme, _, ok := strings.Cut(location, "://")
	return ok && scheme != "" && !strings.ContainsAny(scheme, `/\`)
}

// Join appends slash-separated elements to a location. Remote locations
// are joined with forward slashes, local ones with the OS separator.
func Join(location string, elem ...string) string {
	if scheme, rest, ok := strings.Cut(location, "://"); ok && IsRemote(location) {
		return scheme + "://" + path.Join(append([]string{rest}, elem...)...)
	}
	parts := []string{location}
	for _, e := range elem {
		parts = append(parts, filepath.FromSlash(e))
	}
	return filepath.Join(parts...)
}

// splitBucket splits s3://bucket/key into its bucket and object key.
func splitBucket(location string) (bucket, key string, err error) {
	rest, ok := strings.CutPrefix(location, "s3://")
	if !ok {
		return "", "", fmt.Errorf("emitter: unsupported location %q (want s3://bucket/key)", location)
	}
	bucket, key, _ = strings.Cut(rest, "/")
	key = strings.TrimLeft(key, "/")
	if bucket == "" || key == "" {
		return "", "", fmt.Errorf("emitter: location %q needs both a bucket and a key", location)
	}
	return bucket, key, nil
}

// SinkFor returns the sink for an output location: a DirSink for local
// paths, or a Router with a MinioSink built from remote for s3:// locations.
func SinkFor(location string, remote MinioConfig) (Sink, error) {
	if !IsRemote(location) {
		return DirSink{}, nil
	}
	s, err := NewMinioSink(remote)
	if err != nil {
		return nil, err
	}
	return Router{Local: DirSink{}, Remote: s}, nil
}
