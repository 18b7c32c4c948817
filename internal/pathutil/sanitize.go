package pathutil

import (
	"fmt"
	"os"
	"path/filepath"
)

// SanitizeOutputPath cleans an output file path and returns it in absolute
// form. The target may not exist yet; when it does, it must be a regular
// file. Symlinks and directories are rejected so an emitted file never
// replaces something outside the output tree.
func SanitizeOutputPath(path string) (string, error) {
	abs, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("pathutil: cannot resolve absolute path: %w", err)
	}

	info, err := os.Lstat(abs)
	switch {
	case os.IsNotExist(err):
		return abs, nil
	case err != nil:
		return "", fmt.Errorf("pathutil: cannot stat path: %w", err)
	case info.Mode()&os.ModeSymlink != 0:
		return "", fmt.Errorf("pathutil: refusing to write to symlink: %s", abs)
	case info.IsDir():
		return "", fmt.Errorf("pathutil: %s is a directory", abs)
	}
	return abs, nil
}
