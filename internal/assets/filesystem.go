package assets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FilesystemLoader serves assets from a directory tree laid out like the
// embedded set: stylesheets under css/, component templates under
// templates/. Lookups never leave the root, even through symlinks.
type FilesystemLoader struct {
	root string
}

// NewFilesystemLoader opens basePath as an asset root. The path must
// name a readable directory; it is resolved to a real absolute path up
// front so every later containment check compares like with like.
func NewFilesystemLoader(basePath string) (*FilesystemLoader, error) {
	if basePath == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidBasePath)
	}

	root, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}
	if real, err := filepath.EvalSymlinks(root); err == nil {
		root = real
	}

	switch info, err := os.Stat(root); {
	case os.IsNotExist(err):
		return nil, fmt.Errorf("%w: directory does not exist: %s", ErrInvalidBasePath, root)
	case err != nil:
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	case !info.IsDir():
		return nil, fmt.Errorf("%w: not a directory: %s", ErrInvalidBasePath, root)
	}

	// Probe readability now rather than on first lookup.
	if _, err := os.ReadDir(root); err != nil {
		return nil, fmt.Errorf("%w: cannot read directory: %v", ErrInvalidBasePath, err)
	}

	return &FilesystemLoader{root: root}, nil
}

// LoadStylesheet returns the contents of {root}/css/{name}.css.
func (f *FilesystemLoader) LoadStylesheet(name string) (string, error) {
	return f.read(filepath.Join("css", name+".css"), name, ErrStylesheetNotFound)
}

// LoadTemplate returns the contents of {root}/templates/{name}.html.tmpl.
func (f *FilesystemLoader) LoadTemplate(name string) (string, error) {
	return f.read(filepath.Join("templates", name+".html.tmpl"), name, ErrTemplateNotFound)
}

func (f *FilesystemLoader) read(relPath, name string, notFound error) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}

	path := filepath.Join(f.root, relPath)
	if err := f.ensureWithinRoot(path); err != nil {
		return "", err
	}

	content, err := os.ReadFile(path) // #nosec G304 -- path checked against the root above
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %q", notFound, name)
		}
		return "", fmt.Errorf("%w: %v", ErrAssetRead, err)
	}

	return string(content), nil
}

// ensureWithinRoot rejects any path that resolves outside the asset
// root. Symlinks are followed first, so a link planted inside the tree
// cannot reach files beyond it.
func (f *FilesystemLoader) ensureWithinRoot(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("%w: cannot resolve path", ErrPathTraversal)
	}

	// A missing file cannot be resolved; keep the cleaned path and let
	// the read report not-found after the prefix check passes.
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		abs = real
	}

	// The trailing separator keeps /base/path from matching /base/pathx.
	if !strings.HasPrefix(abs, f.root+string(filepath.Separator)) {
		return fmt.Errorf("%w: path escapes base directory", ErrPathTraversal)
	}

	return nil
}

var _ Loader = (*FilesystemLoader)(nil)
