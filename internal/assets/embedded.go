package assets

import (
	"embed"
	"fmt"
)

//go:embed css/*.css
var stylesheets embed.FS

//go:embed templates/*.html.tmpl
var templates embed.FS

// Names of the bundled stylesheets.
const (
	// BaseStylesheetName is the typography and print baseline injected
	// into every document.
	BaseStylesheetName = "base"

	// ComponentsStylesheetName styles the bundled custom-block components.
	ComponentsStylesheetName = "components"
)

// EmbeddedLoader loads assets compiled into the binary.
// Implements the Loader interface.
type EmbeddedLoader struct{}

// NewEmbeddedLoader creates an EmbeddedLoader.
func NewEmbeddedLoader() *EmbeddedLoader {
	return &EmbeddedLoader{}
}

// LoadStylesheet loads a bundled CSS stylesheet by name.
// The name should not include the .css extension.
func (e *EmbeddedLoader) LoadStylesheet(name string) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}

	content, err := stylesheets.ReadFile("css/" + name + ".css")
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrStylesheetNotFound, name)
	}

	return string(content), nil
}

// LoadTemplate loads a bundled component template by name.
// The name should not include the .html.tmpl extension.
func (e *EmbeddedLoader) LoadTemplate(name string) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}

	content, err := templates.ReadFile("templates/" + name + ".html.tmpl")
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrTemplateNotFound, name)
	}

	return string(content), nil
}

// BaseCSS returns the bundled base stylesheet. It is embedded at build
// time, so failure to read it is a programming error.
func BaseCSS() string {
	css, err := NewEmbeddedLoader().LoadStylesheet(BaseStylesheetName)
	if err != nil {
		panic(fmt.Sprintf("assets: bundled base stylesheet missing: %v", err))
	}
	return css
}

// ComponentsCSS returns the bundled component stylesheet.
func ComponentsCSS() string {
	css, err := NewEmbeddedLoader().LoadStylesheet(ComponentsStylesheetName)
	if err != nil {
		panic(fmt.Sprintf("assets: bundled component stylesheet missing: %v", err))
	}
	return css
}

// Compile-time interface check.
var _ Loader = (*EmbeddedLoader)(nil)
