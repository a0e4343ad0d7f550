// Package mdpress converts Markdown documents into themed PDFs using
// headless Chrome.
//
// # Quick Start
//
// Create a converter, convert markdown, and close when done:
//
//	conv, err := mdpress.NewConverter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer conv.Close()
//
//	result, err := conv.Convert(ctx, mdpress.Input{
//	    Markdown: "# Hello\n\nWorld",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("output.pdf", result.PDF, 0644)
//
// The result also carries the assembled HTML (result.HTML), the combined
// stylesheet (result.CSS) and any warnings collected during the run. Use
// Input.HTMLOnly to skip PDF rendering.
//
// # Themes
//
// Visual output is driven by a YAML theme describing page setup, fonts,
// per-element styles, custom block components and page headers/footers:
//
//	t, validation, err := theme.Load("corporate.yaml")
//	if err != nil {
//	    log.Fatalf("%v\n%s", err, validation.Summary())
//	}
//	result, err := conv.Convert(ctx, mdpress.Input{
//	    Markdown: content,
//	    Theme:    t,
//	    Title:    "Quarterly Report",
//	    Date:     "auto:MMMM YYYY",
//	})
//
// The theme compiles to a CSS Paged Media stylesheet: @page rules with
// margin boxes for headers and footers, @font-face declarations, and
// per-element style rules. Header and footer templates may reference
// {page_number}, {total_pages}, {section_title}, {document_title},
// {date} and {year}.
//
// # Custom Blocks
//
// Markdown may contain fenced component blocks:
//
//	::: tip_box color="blue"
//	Check the **generated HTML** when a theme misbehaves.
//	:::
//
// Components render through html/template files configured in the theme,
// through the bundled templates (tip_box, attention_box, magic_secret),
// or through templates registered with WithComponent. A block whose
// component has no template renders as a generic container div.
//
// # Conversion Pipeline
//
// The conversion process follows these stages:
//
//  1. Markdown preprocessing (line normalization, ==highlight== syntax)
//  2. Markdown to HTML conversion via Goldmark (GFM, syntax highlighting,
//     custom block components)
//  3. Theme compilation to CSS and metadata extraction
//  4. HTML assembly (stylesheet, title, author/date metadata)
//  5. PDF rendering via headless Chrome (go-rod)
//
// # Configuration
//
// Use functional options to customize the converter:
//
//	conv, err := mdpress.NewConverter(
//	    mdpress.WithTimeout(2 * time.Minute),
//	    mdpress.WithBrowserPath("/usr/bin/chromium"),
//	    mdpress.WithAssetPath("/path/to/custom/assets"),
//	)
//
// # Parallel Processing
//
// For batch conversion, use ServicePool to manage multiple browser
// instances:
//
//	pool := mdpress.NewServicePool(mdpress.ResolvePoolSize(0))
//	defer pool.Close()
//
//	conv, err := pool.Acquire()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer pool.Release(conv)
//	result, err := conv.Convert(ctx, input)
//
// # Browser Requirements
//
// PDF generation requires Chrome or Chromium. The go-rod library
// automatically downloads a managed Chromium on first run. Set
// MDPRESS_BROWSER (or ROD_BROWSER_BIN) to use an installed binary, and
// ROD_NO_SANDBOX=1 for containers and CI environments.
package mdpress
