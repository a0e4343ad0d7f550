package mdpress

import (
	"time"

	"github.com/avoll/go-mdpress/theme"
)

// Input contains the parameters for one conversion job.
type Input struct {
	// Markdown is the document source (required).
	Markdown string

	// Theme controls page setup, fonts, element styles, components and
	// page headers/footers. Nil uses theme.Default().
	Theme *theme.Theme

	// Title overrides the title extracted from the document's first
	// heading. It feeds the <title> element and the {document_title}
	// header/footer variable.
	Title string

	// Author is emitted as <meta name="author"> metadata.
	Author string

	// Date is the value for the {date} variable and the date metadata.
	// Accepts "auto", "auto:FORMAT" (e.g. "auto:DD/MM/YYYY"), a preset
	// such as "auto:iso", or literal text. Empty uses the current date.
	Date string

	// BaseDir resolves relative image and link paths in the Markdown.
	// Empty leaves relative paths untouched.
	BaseDir string

	// ExtraCSS is appended after all theme CSS, so it overrides
	// everything in the cascade.
	ExtraCSS string

	// HTMLOnly skips PDF rendering; Result.PDF stays nil.
	HTMLOnly bool
}

// Result holds the output of one conversion.
type Result struct {
	// PDF is the rendered document. Nil in HTMLOnly mode and when
	// rendering failed; the other fields are still populated then.
	PDF []byte

	// HTML is the complete styled document handed to the renderer.
	HTML string

	// CSS is the combined stylesheet injected into HTML, kept separate
	// for debugging and for Paged-Media renderers other than Chrome.
	CSS string

	// Warnings are non-fatal diagnostics in pipeline order: malformed
	// blocks, unknown header/footer variables, unreadable stylesheets,
	// component template failures.
	Warnings []string
}

// ComponentConfig configures a custom block component registered with
// WithComponent.
type ComponentConfig struct {
	// Template is html/template source rendering the block. It receives
	// .Name, .Icon, .Content, .Attributes, .Flags, .CSSClasses and
	// .DataAttributes. Empty means the component renders through the
	// generic container element.
	Template string

	// Icon is exposed to the template, typically an emoji.
	Icon string

	// Defaults are attribute values applied when a block does not set
	// them itself.
	Defaults map[string]string
}

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds internal configuration for Converter.
type converterConfig struct {
	timeout     time.Duration
	browserPath string
	keepBrowser bool
	assetPath   string
	assetLoader AssetLoader
	components  map[string]ComponentConfig
}

// defaultTimeout is used when no timeout is specified.
const defaultTimeout = 30 * time.Second

// WithTimeout sets the per-conversion rendering timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("mdpress: WithTimeout duration must be positive")
	}
	return func(c *Converter) {
		c.cfg.timeout = d
	}
}

// WithBrowserPath renders with the Chrome or Chromium binary at path
// instead of rod's managed download. Takes precedence over the
// MDPRESS_BROWSER and ROD_BROWSER_BIN environment variables.
func WithBrowserPath(path string) Option {
	return func(c *Converter) {
		c.cfg.browserPath = path
	}
}

// WithKeepBrowser leaves the browser process running after Close,
// for inspecting rendered pages. By default Close kills the process
// group so no Chromium helpers outlive the converter.
func WithKeepBrowser() Option {
	return func(c *Converter) {
		c.cfg.keepBrowser = true
	}
}

// WithAssetPath loads bundled stylesheets and component templates from
// dir first, falling back to the embedded copies for anything missing.
// The directory should contain css/{name}.css and
// templates/{name}.html.tmpl files.
func WithAssetPath(dir string) Option {
	return func(c *Converter) {
		c.cfg.assetPath = dir
	}
}

// WithAssetLoader supplies a custom asset source, tried before the
// embedded assets. Takes precedence over WithAssetPath. See AssetLoader
// for the not-found fallback contract.
func WithAssetLoader(loader AssetLoader) Option {
	return func(c *Converter) {
		c.cfg.assetLoader = loader
	}
}

// WithComponent registers a custom block component, overriding any
// bundled or theme-configured component with the same name. The
// template is parsed during NewConverter; a parse failure fails
// construction with ErrTemplateParse.
func WithComponent(name string, cfg ComponentConfig) Option {
	return func(c *Converter) {
		if c.cfg.components == nil {
			c.cfg.components = make(map[string]ComponentConfig)
		}
		c.cfg.components[name] = cfg
	}
}
