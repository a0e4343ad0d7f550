package assets

import (
	"errors"
)

// Resolver chains an optional custom loader in front of the embedded
// assets. A custom hit wins; only a not-found result falls through to
// the bundled set, so user directories can override single assets
// without copying the rest.
type Resolver struct {
	custom   Loader // nil when no custom source is configured
	embedded Loader
}

// NewResolver builds a Resolver rooted at customBasePath. An empty path
// means embedded assets only; a non-empty path must name a valid asset
// directory.
func NewResolver(customBasePath string) (*Resolver, error) {
	r := &Resolver{embedded: NewEmbeddedLoader()}

	if customBasePath != "" {
		fsLoader, err := NewFilesystemLoader(customBasePath)
		if err != nil {
			return nil, err
		}
		r.custom = fsLoader
	}

	return r, nil
}

// NewResolverWithLoader chains an arbitrary caller-supplied loader in
// front of the embedded assets.
func NewResolverWithLoader(custom Loader) *Resolver {
	return &Resolver{
		custom:   custom,
		embedded: NewEmbeddedLoader(),
	}
}

// LoadStylesheet resolves a stylesheet through the chain.
func (r *Resolver) LoadStylesheet(name string) (string, error) {
	return r.resolve(func(l Loader) (string, error) {
		return l.LoadStylesheet(name)
	})
}

// LoadTemplate resolves a component template through the chain.
func (r *Resolver) LoadTemplate(name string) (string, error) {
	return r.resolve(func(l Loader) (string, error) {
		return l.LoadTemplate(name)
	})
}

// resolve tries the custom loader first. Validation and I/O errors stop
// the chain; a silently broken custom directory would otherwise be
// indistinguishable from a missing asset.
func (r *Resolver) resolve(load func(Loader) (string, error)) (string, error) {
	if r.custom != nil {
		content, err := load(r.custom)
		switch {
		case err == nil:
			return content, nil
		case errors.Is(err, ErrStylesheetNotFound), errors.Is(err, ErrTemplateNotFound):
			// fall through to the embedded set
		default:
			return "", err
		}
	}
	return load(r.embedded)
}

// HasCustomLoader reports whether a custom source sits in the chain.
func (r *Resolver) HasCustomLoader() bool {
	return r.custom != nil
}

var _ Loader = (*Resolver)(nil)
