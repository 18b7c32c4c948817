package emitter

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/oasmcp/internal/issues"
	"github.com/erraggy/oasmcp/internal/severity"
)

// unitDir creates a unit directory holding a tsconfig and, optionally,
// node_modules.
func unitDir(t *testing.T, withModules bool) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, TSConfigFile), []byte("{}"), 0o600))
	if withModules {
		require.NoError(t, os.Mkdir(filepath.Join(dir, "node_modules"), 0o755))
	}
	return dir
}

func TestTSCheckerPrerequisites(t *testing.T) {
	checker := NewTSChecker()
	ctx := context.Background()

	found := checker.Check(ctx, t.TempDir(), time.Second)
	require.Len(t, found, 1)
	assert.Equal(t, severity.SeverityError, found[0].Severity)
	assert.Equal(t, MsgNoTSConfig, found[0].Message)

	found = checker.Check(ctx, unitDir(t, false), time.Second)
	require.Len(t, found, 1)
	assert.Equal(t, severity.SeverityWarning, found[0].Severity)
	assert.Equal(t, MsgNoNodeModules, found[0].Message)

	found = checker.Check(ctx, "s3://bucket/api", time.Second)
	assert.Equal(t, []string{MsgRemoteNotChecked}, issues.Messages(found))

	missing := &TSChecker{Command: []string{"oasmcp-no-such-compiler"}}
	found = missing.Check(ctx, unitDir(t, true), time.Second)
	assert.Equal(t, []string{MsgNoCompiler}, issues.Messages(found))
}

func TestTSCheckerRuns(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses a POSIX shell")
	}
	ctx := context.Background()

	ok := &TSChecker{Command: []string{"sh", "-c", "exit 0"}}
	assert.Empty(t, ok.Check(ctx, unitDir(t, true), time.Second))

	failing := &TSChecker{Command: []string{"sh", "-c", "echo 'src/index.ts(3,7): error TS2322' >&2; exit 2"}}
	found := failing.Check(ctx, unitDir(t, true), time.Second)
	require.Len(t, found, 1)
	assert.Equal(t, severity.SeverityError, found[0].Severity)
	assert.Equal(t, MsgCompileFailed+"src/index.ts(3,7): error TS2322", found[0].Message)

	stdout := &TSChecker{Command: []string{"sh", "-c", "echo 'error TS5058'; exit 1"}}
	found = stdout.Check(ctx, unitDir(t, true), time.Second)
	assert.Equal(t, []string{MsgCompileFailed + "error TS5058"}, issues.Messages(found))

	slow := &TSChecker{Command: []string{"sleep", "5"}}
	found = slow.Check(ctx, unitDir(t, true), 50*time.Millisecond)
	assert.Equal(t, []string{MsgCompileTimeout}, issues.Messages(found))
}
