package fileutil

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "api", "src", "index.ts")

	require.NoError(t, WriteFile(target, []byte("export {};\n"), 0))

	got, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "export {};\n", string(got))

	if runtime.GOOS != "windows" {
		info, err := os.Stat(target)
		require.NoError(t, err)
		assert.Equal(t, SourceMode, info.Mode().Perm())
	}
}

func TestWriteFile_Overwrites(t *testing.T) {
	target := filepath.Join(t.TempDir(), "package.json")
	require.NoError(t, WriteFile(target, []byte("old"), SourceMode))
	require.NoError(t, WriteFile(target, []byte("new"), SourceMode))

	got, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "new", string(got))
}

func TestWriteFile_ParentIsFile(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "api")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), SourceMode))

	err := WriteFile(filepath.Join(blocker, "src", "index.ts"), []byte("x"), 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create directory")
}
