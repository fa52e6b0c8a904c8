// Package pathutil provides path checks shared by the file-backed modules.
package pathutil

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrInvalidPath is wrapped by every error ValidateTablePath returns.
var ErrInvalidPath = errors.New("invalid table path")

// ValidateTablePath checks a table file path before any I/O happens.
// The path must be non-empty, free of NUL bytes, must not name a directory
// (trailing separator) and must not contain a ".." segment. Segments are
// checked before cleaning so "data/../../etc/x" cannot slip through.
func ValidateTablePath(path string) error {
	if path == "" {
		return fmt.Errorf("%w: empty", ErrInvalidPath)
	}
	if strings.ContainsRune(path, 0) {
		return fmt.Errorf("%w: %q contains a NUL byte", ErrInvalidPath, path)
	}

	normalized := filepath.ToSlash(path)
	if strings.HasSuffix(normalized, "/") {
		return fmt.Errorf("%w: %q names a directory", ErrInvalidPath, path)
	}
	for _, segment := range strings.Split(normalized, "/") {
		if segment == ".." {
			return fmt.Errorf("%w: %q contains path traversal", ErrInvalidPath, path)
		}
	}
	return nil
}
