// Package fileutil provides file and path utility functions.
package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Sentinel errors for file utility operations.
var (
	ErrExtensionEmpty         = errors.New("extension cannot be empty")
	ErrExtensionPathTraversal = errors.New("extension contains path separator or null byte")
)

// WriteTempFile writes content to a fresh temp file named with the
// given extension. The cleanup function removes the file; callers must
// invoke it once the file has been consumed.
func WriteTempFile(content, extension string) (path string, cleanup func(), err error) {
	if err := ValidateExtension(extension); err != nil {
		return "", nil, err
	}

	f, err := os.CreateTemp("", "mdpress-*."+extension)
	if err != nil {
		return "", nil, fmt.Errorf("creating temp file: %w", err)
	}
	path = f.Name()
	remove := func() { _ = os.Remove(path) }

	if _, err := f.WriteString(content); err != nil {
		_ = f.Close()
		remove()
		return "", nil, fmt.Errorf("writing temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		remove()
		return "", nil, fmt.Errorf("closing temp file: %w", err)
	}
	return path, remove, nil
}

// ValidateExtension rejects extensions that could escape the temp
// directory or smuggle a second name past CreateTemp.
func ValidateExtension(extension string) error {
	switch {
	case extension == "":
		return ErrExtensionEmpty
	case strings.ContainsAny(extension, "/\\\x00"):
		return ErrExtensionPathTraversal
	default:
		return nil
	}
}

// FileExists reports whether path names an existing regular file.
// Directories do not count.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// ResolvePath joins a relative path onto base. Absolute paths and empty
// strings pass through unchanged. Theme files use this to resolve font,
// stylesheet and template references against the theme's own directory
// rather than the working directory.
func ResolvePath(base, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if base == "" {
		return path
	}
	return filepath.Join(base, path)
}

// IsFilePath reports whether s looks like a path rather than a bare
// name. Anything carrying a path separator counts, so "corporate" is a
// name while "./corporate.css" and "themes/corporate" are paths.
func IsFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// IsYAMLFile reports whether the path carries a YAML file extension.
func IsYAMLFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// IsURL reports whether s is an http or https URL. Scheme matching is
// case-sensitive on purpose; lowercase is what config files contain.
func IsURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
