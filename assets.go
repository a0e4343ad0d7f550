package mdpress

import (
	"errors"

	"github.com/avoll/go-mdpress/internal/assets"
)

// Names of the bundled assets every conversion loads.
const (
	// BaseStylesheet is the typography and print baseline.
	BaseStylesheet = "base"

	// ComponentsStylesheet styles the bundled custom-block components.
	ComponentsStylesheet = "components"
)

// AssetLoader is the contract for loading the CSS stylesheets and
// component templates a conversion needs. Implementations may read from
// the filesystem, object storage, a database, or anything else.
//
// Loaders report unknown names with errors wrapping ErrStylesheetNotFound
// or ErrTemplateNotFound; the converter then falls back to the embedded
// copy of that asset. Any other error aborts the load.
type AssetLoader interface {
	// LoadStylesheet loads a CSS stylesheet by name, without the .css
	// extension.
	LoadStylesheet(name string) (string, error)

	// LoadTemplate loads a component template by name, without the
	// .html.tmpl extension.
	LoadTemplate(name string) (string, error)
}

// NewAssetLoader creates an AssetLoader reading from basePath with
// fallback to the embedded assets. If basePath is empty, only embedded
// assets are served.
//
// The basePath directory should contain:
//   - css/{name}.css for stylesheets
//   - templates/{name}.html.tmpl for component templates
//
// Returns ErrInvalidAssetPath if basePath is set but not a valid,
// readable directory.
func NewAssetLoader(basePath string) (AssetLoader, error) {
	resolver, err := assets.NewResolver(basePath)
	if err != nil {
		return nil, convertAssetError(err)
	}
	return &assetLoaderAdapter{resolver: resolver}, nil
}

// assetLoaderAdapter wraps the internal resolver to return public error
// sentinels.
type assetLoaderAdapter struct {
	resolver *assets.Resolver
}

func (a *assetLoaderAdapter) LoadStylesheet(name string) (string, error) {
	content, err := a.resolver.LoadStylesheet(name)
	if err != nil {
		return "", convertAssetError(err)
	}
	return content, nil
}

func (a *assetLoaderAdapter) LoadTemplate(name string) (string, error) {
	content, err := a.resolver.LoadTemplate(name)
	if err != nil {
		return "", convertAssetError(err)
	}
	return content, nil
}

// customAssetLoader adapts a caller-supplied AssetLoader to the internal
// loader interface, translating public not-found sentinels into their
// internal counterparts so the resolver's fallback logic recognizes them.
type customAssetLoader struct {
	pub AssetLoader
}

func (a *customAssetLoader) LoadStylesheet(name string) (string, error) {
	content, err := a.pub.LoadStylesheet(name)
	if err != nil {
		return "", internalAssetError(err)
	}
	return content, nil
}

func (a *customAssetLoader) LoadTemplate(name string) (string, error) {
	content, err := a.pub.LoadTemplate(name)
	if err != nil {
		return "", internalAssetError(err)
	}
	return content, nil
}

// convertAssetError maps internal asset errors to public errors.
func convertAssetError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, assets.ErrStylesheetNotFound):
		return wrapError(ErrStylesheetNotFound, err)
	case errors.Is(err, assets.ErrTemplateNotFound):
		return wrapError(ErrTemplateNotFound, err)
	case errors.Is(err, assets.ErrInvalidBasePath):
		return wrapError(ErrInvalidAssetPath, err)
	case errors.Is(err, assets.ErrPathTraversal):
		return wrapError(ErrInvalidAssetPath, err)
	case errors.Is(err, assets.ErrInvalidAssetName):
		return wrapError(ErrInvalidAssetPath, err)
	default:
		return err
	}
}

// internalAssetError maps public not-found sentinels back to internal
// ones. Other errors pass through untouched and abort the load.
func internalAssetError(err error) error {
	switch {
	case errors.Is(err, ErrStylesheetNotFound):
		return wrapError(assets.ErrStylesheetNotFound, err)
	case errors.Is(err, ErrTemplateNotFound):
		return wrapError(assets.ErrTemplateNotFound, err)
	default:
		return err
	}
}

// wrapError creates a new error that wraps the original with a sentinel.
// The resulting error preserves the original message via Error() and
// supports errors.Is() matching against the sentinel via Unwrap().
func wrapError(sentinel, original error) error {
	return &wrappedAssetError{sentinel: sentinel, original: original}
}

type wrappedAssetError struct {
	sentinel error
	original error
}

func (e *wrappedAssetError) Error() string {
	return e.original.Error()
}

// Unwrap returns the sentinel for errors.Is() matching. The original
// error's chain is not exposed; internal sentinels stay internal.
func (e *wrappedAssetError) Unwrap() error {
	return e.sentinel
}
