// Package fileutil holds the file modes and write helpers shared by the
// local output paths.
package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
)

// SourceMode is the mode of emitted adapter sources, which build tools
// and other users need to read.
const SourceMode os.FileMode = 0o644

// DirMode is the mode of directories created for emitted adapters.
const DirMode os.FileMode = 0o755

// WriteFile writes content to target, creating missing parent directories
// with DirMode. A zero perm means SourceMode.
func WriteFile(target string, content []byte, perm os.FileMode) error {
	if perm == 0 {
		perm = SourceMode
	}
	if err := os.MkdirAll(filepath.Dir(target), DirMode); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(target, content, perm); err != nil {
		return fmt.Errorf("failed to write file %s: %w", target, err)
	}
	return nil
}
