package mdpress

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"maps"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/avoll/go-mdpress/internal/assets"
	"github.com/avoll/go-mdpress/internal/blocks"
	"github.com/avoll/go-mdpress/internal/css"
	"github.com/avoll/go-mdpress/internal/hints"
	"github.com/avoll/go-mdpress/internal/pagemedia"
	"github.com/avoll/go-mdpress/internal/pipeline"
	"github.com/avoll/go-mdpress/theme"
)

// Compile-time interface implementation checks.
// These ensure implementations satisfy their interfaces at compile time,
// catching signature mismatches before runtime.
var (
	_ pipeline.MarkdownPreprocessor = (*pipeline.CommonMarkPreprocessor)(nil)
	_ pipeline.HTMLConverter        = (*pipeline.GoldmarkConverter)(nil)
	_ pipeline.CSSInjector          = (*pipeline.CSSInjection)(nil)
	_ pipeline.TitleInjector        = (*pipeline.TitleInjection)(nil)
	_ pipeline.MetaInjector         = (*pipeline.MetaInjection)(nil)
	_ pipeline.PathRewriter         = (*pipeline.RelativePathRewriter)(nil)
	_ pdfConverter                  = (*rodConverter)(nil)
	_ pdfRenderer                   = (*rodRenderer)(nil)
)

// Converter orchestrates the Markdown-to-PDF conversion pipeline.
// Create with NewConverter, run jobs with Convert, and Close when done.
// A Converter is safe for sequential reuse; for parallel jobs use a
// ServicePool, one browser per worker.
type Converter struct {
	cfg    converterConfig
	assets assets.Loader

	preprocessor  pipeline.MarkdownPreprocessor
	htmlConverter func(*blocks.Registry) pipeline.HTMLConverter
	cssInjector   pipeline.CSSInjector
	titleInjector pipeline.TitleInjector
	metaInjector  pipeline.MetaInjector
	pathRewriter  pipeline.PathRewriter
	pdfConverter  pdfConverter

	// components holds templates registered via WithComponent, parsed
	// once at construction.
	components map[string]blocks.ComponentConfig

	// now is injectable for date-sensitive tests.
	now func() time.Time
}

// NewConverter creates a Converter with default configuration.
// Use options to customize behavior (e.g. WithTimeout, WithBrowserPath,
// WithComponent). Returns an error if the asset path is invalid or a
// registered component template does not parse.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		cfg:           converterConfig{timeout: defaultTimeout},
		preprocessor:  &pipeline.CommonMarkPreprocessor{},
		cssInjector:   &pipeline.CSSInjection{},
		titleInjector: &pipeline.TitleInjection{},
		metaInjector:  &pipeline.MetaInjection{},
		pathRewriter:  &pipeline.RelativePathRewriter{},
		now:           time.Now,
	}
	c.htmlConverter = func(registry *blocks.Registry) pipeline.HTMLConverter {
		return pipeline.NewGoldmarkConverter(registry)
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.cfg.assetLoader != nil {
		c.assets = assets.NewResolverWithLoader(&customAssetLoader{pub: c.cfg.assetLoader})
	} else {
		resolver, err := assets.NewResolver(c.cfg.assetPath)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
		}
		c.assets = resolver
	}

	// Parse registered component templates up front so a broken template
	// fails construction, not every conversion.
	if len(c.cfg.components) > 0 {
		c.components = make(map[string]blocks.ComponentConfig, len(c.cfg.components))
		for name, cfg := range c.cfg.components {
			component := blocks.ComponentConfig{Icon: cfg.Icon, Defaults: cfg.Defaults}
			if cfg.Template != "" {
				parsed, err := template.New(name).Parse(cfg.Template)
				if err != nil {
					return nil, fmt.Errorf("%w: component %q: %v", ErrTemplateParse, name, err)
				}
				component.Template = parsed
			}
			c.components[name] = component
		}
	}

	// Create PDF converter if not injected (e.g. by tests).
	if c.pdfConverter == nil {
		c.pdfConverter = newRodConverter(c.cfg)
	}

	return c, nil
}

// Convert runs the full pipeline and returns the result containing the
// PDF, the assembled HTML, the combined CSS, and any warnings collected
// along the way. The context is used for cancellation and timeout.
//
// When PDF rendering fails, the returned Result still carries the
// assembled HTML and CSS alongside the error, so callers can inspect
// what would have been printed.
//
// Recovers from internal panics to prevent crashes from propagating to
// callers.
func (c *Converter) Convert(ctx context.Context, input Input) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			result, err = nil, fmt.Errorf("internal error: %v", r)
		}
	}()

	if err := c.validateInput(input); err != nil {
		return nil, err
	}

	t := input.Theme
	if t == nil {
		t = theme.Default()
	}

	// Resolve "auto" date syntax before any work; a malformed format is
	// an input error, not a render failure.
	date := ""
	if input.Date != "" {
		date, err = ResolveDate(input.Date, c.now())
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	}

	res := &Result{}

	// Preprocess markdown.
	mdContent := c.preprocessor.PreprocessMarkdown(ctx, input.Markdown)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	// Build the per-job component registry and convert to HTML.
	registry, registryWarnings := c.buildRegistry(t)
	res.Warnings = append(res.Warnings, registryWarnings...)

	htmlContent, conversionWarnings, err := c.htmlConverter(registry).ToHTML(ctx, mdContent)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMarkdownConversion, err)
	}
	res.Warnings = append(res.Warnings, conversionWarnings...)

	// Rewrite relative paths to absolute file:// URLs so images resolve
	// from the browser's temp-file working directory.
	if input.BaseDir != "" {
		htmlContent, err = c.pathRewriter.RewritePaths(ctx, htmlContent, input.BaseDir)
		if err != nil {
			return nil, fmt.Errorf("%w: rewriting asset paths: %v", ErrHTMLInjection, err)
		}
	}

	// Convert highlight placeholders to <mark> tags. This completes the
	// ==text== feature started in preprocessing; done after Goldmark to
	// avoid needing html.WithUnsafe().
	htmlContent = pipeline.ConvertMarkPlaceholders(htmlContent)

	// Extract document metadata, then apply explicit overrides.
	docCtx := pagemedia.ExtractContext(htmlContent, c.now())
	if input.Title != "" {
		docCtx.Title = input.Title
	}
	if input.Author != "" {
		docCtx.Author = input.Author
	}
	if date != "" {
		docCtx.Date = date
	}

	// Generate and combine CSS.
	resolver := pagemedia.NewResolver()
	cssContent, cssWarnings, err := c.assembleCSS(t, resolver, docCtx, input.ExtraCSS)
	if err != nil {
		return nil, err
	}
	res.Warnings = append(res.Warnings, cssWarnings...)
	res.CSS = cssContent

	// Assemble the final document.
	htmlContent = c.cssInjector.InjectCSS(ctx, htmlContent, cssContent)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	htmlContent = c.titleInjector.InjectTitle(ctx, htmlContent, docCtx.Title)
	htmlContent = c.metaInjector.InjectMeta(ctx, htmlContent, pipeline.DocumentMeta{
		Author: docCtx.Author,
		Date:   docCtx.Date,
	})
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	res.HTML = htmlContent

	if input.HTMLOnly {
		return res, nil
	}

	// Render PDF. The partially filled result is returned even on
	// failure so the assembled document stays available for diagnosis.
	pdfBytes, err := c.pdfConverter.ToPDF(ctx, htmlContent, buildPrintOptions(t, resolver, docCtx))
	if err != nil {
		return res, c.renderError(ctx, err)
	}
	res.PDF = pdfBytes

	return res, nil
}

// Close releases resources (headless Chrome browser).
func (c *Converter) Close() error {
	if c.pdfConverter != nil {
		return c.pdfConverter.Close()
	}
	return nil
}

// validateInput checks that required fields are present.
//
// This is a TRUST BOUNDARY for direct library users who build Input
// manually. CLI users have their input validated earlier at config load
// time. Both paths converge here.
func (c *Converter) validateInput(input Input) error {
	if input.Markdown == "" {
		return fmt.Errorf("%w: markdown content is empty", ErrInvalidInput)
	}
	return nil
}

// buildRegistry assembles the component registry for one job: bundled
// components first, theme components over them, then components
// registered through WithComponent. Template failures degrade to
// fallback rendering with a warning instead of aborting the job.
func (c *Converter) buildRegistry(t *theme.Theme) (*blocks.Registry, []string) {
	registry := blocks.NewRegistry()
	var warnings []string

	for _, def := range assets.DefaultComponents() {
		// The loader serves custom overrides of bundled templates; on
		// any failure the embedded source still applies.
		source := def.Template
		if custom, err := c.assets.LoadTemplate(def.Name); err == nil {
			source = custom
		}
		cfg := blocks.ComponentConfig{Icon: def.Icon}
		if parsed, err := template.New(def.Name).Parse(source); err != nil {
			warnings = append(warnings, fmt.Sprintf(
				"component %s: template parse failed, using fallback rendering: %v", def.Name, err))
		} else {
			cfg.Template = parsed
		}
		registry.Register(def.Name, cfg)
	}

	for _, name := range slices.Sorted(maps.Keys(t.Components)) {
		component := t.Components[name]
		cfg := blocks.ComponentConfig{
			Icon:     component.DefaultIcon,
			Defaults: component.DefaultAttributes,
		}
		switch {
		case component.Template != "":
			source, err := os.ReadFile(component.Template) // #nosec G304 -- template paths come from the user's theme
			if err != nil {
				warnings = append(warnings, fmt.Sprintf(
					"component %s: could not read template %s, using fallback rendering: %v",
					name, component.Template, err))
			} else if parsed, perr := template.New(name).Parse(string(source)); perr != nil {
				warnings = append(warnings, fmt.Sprintf(
					"component %s: template parse failed, using fallback rendering: %v", name, perr))
			} else {
				cfg.Template = parsed
			}
		default:
			// A theme may restyle a bundled component (icon, defaults)
			// without replacing its template.
			if existing, ok := registry.Lookup(name); ok {
				cfg.Template = existing.Template
			}
		}
		registry.Register(name, cfg)
	}

	for _, name := range slices.Sorted(maps.Keys(c.components)) {
		registry.Register(name, c.components[name])
	}

	return registry, warnings
}

// assembleCSS builds the combined stylesheet in cascade order: base
// typography, syntax highlighting, generated theme CSS, the theme's
// external stylesheets, component styling, then extra CSS last so it
// overrides everything.
func (c *Converter) assembleCSS(t *theme.Theme, resolver *pagemedia.Resolver, docCtx *pagemedia.Context, extraCSS string) (string, []string, error) {
	var parts []string
	var warnings []string

	base, err := c.assets.LoadStylesheet(assets.BaseStylesheetName)
	if err != nil {
		return "", nil, fmt.Errorf("%w: loading base stylesheet: %v", ErrCSSGeneration, err)
	}
	parts = append(parts, base)

	highlight, err := pipeline.HighlightCSS()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrCSSGeneration, err)
	}
	parts = append(parts, highlight)

	generator := css.NewGenerator(t, resolver, docCtx)

	themeCSS, generateWarnings := generator.Generate()
	warnings = append(warnings, generateWarnings...)
	parts = append(parts, themeCSS)

	external, loadWarnings := generator.LoadStylesheets()
	warnings = append(warnings, loadWarnings...)
	if external != "" {
		parts = append(parts, external)
	}

	components, err := c.assets.LoadStylesheet(assets.ComponentsStylesheetName)
	if err != nil {
		return "", nil, fmt.Errorf("%w: loading component stylesheet: %v", ErrCSSGeneration, err)
	}
	parts = append(parts, components)

	if extraCSS != "" {
		parts = append(parts, extraCSS)
	}

	return strings.Join(parts, "\n\n"), warnings, nil
}

// buildPrintOptions derives the renderer options from the theme: page
// geometry plus the resolved default header and footer. Unknown-variable
// warnings are not re-collected here; CSS generation already reported
// them for the same templates.
func buildPrintOptions(t *theme.Theme, resolver *pagemedia.Resolver, docCtx *pagemedia.Context) *pdfOptions {
	opts := &pdfOptions{Page: t.Page}
	if hf, ok := t.Headers["default"]; ok && !hf.Empty() {
		opts.Header = resolveMarginBox(hf, resolver, docCtx)
	}
	if hf, ok := t.Footers["default"]; ok && !hf.Empty() {
		opts.Footer = resolveMarginBox(hf, resolver, docCtx)
	}
	return opts
}

// resolveMarginBox resolves one header/footer config into renderer-ready
// segments.
func resolveMarginBox(hf theme.HeaderFooter, resolver *pagemedia.Resolver, docCtx *pagemedia.Context) *marginBoxContent {
	left, _ := resolver.Resolve(hf.Left, docCtx)
	center, _ := resolver.Resolve(hf.Center, docCtx)
	right, _ := resolver.Resolve(hf.Right, docCtx)
	return &marginBoxContent{
		Left:       left,
		Center:     center,
		Right:      right,
		FontFamily: hf.FontFamily,
		FontSize:   hf.FontSize,
		Color:      hf.Color,
	}
}

// renderError classifies a renderer failure, mapping deadline expiry to
// ErrTimeout.
func (c *Converter) renderError(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("%w: %v%s", ErrTimeout, err, hints.ForTimeout())
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return fmt.Errorf("%w: %v", ErrPDFConversion, err)
}
