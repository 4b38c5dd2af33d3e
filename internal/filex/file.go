// Package filex holds small filesystem helpers.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnsureParentDir creates the directory that will hold path, with perm,
// and returns it.
func EnsureParentDir(path string, perm os.FileMode) (string, error) {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return dir, nil
	}

	if err := os.MkdirAll(dir, perm); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	return dir, nil
}

// WriteFile writes data to path, creating missing parent directories.
func WriteFile(path string, data []byte, perm os.FileMode) error {
	if _, err := EnsureParentDir(path, 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, perm)
}
