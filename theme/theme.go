// Package theme defines the document theme model: page geometry, font
// declarations, element styles, custom component configuration, and page
// header/footer content.
//
// A Theme is built once per conversion job from a YAML document, validated
// up front (every problem reported in one pass, never just the first), and
// read-only for the rest of the pipeline. Nothing in this package mutates
// a Theme after Build returns, so a single Theme is safe to share across
// concurrent jobs.
package theme

import "errors"

// Sentinel errors for theme operations.
var (
	ErrThemeNotFound   = errors.New("theme file not found")
	ErrThemeParse      = errors.New("failed to parse theme")
	ErrThemeValidation = errors.New("theme validation failed")
)

// Defaults applied by Build for omitted fields.
const (
	DefaultPageSize    = "A4"
	DefaultOrientation = "portrait"
	DefaultMargin      = "2cm"
	DefaultFontSize    = "11pt"
	DefaultFontColor   = "#333333"

	DefaultHeaderFooterFontSize = "9pt"
	DefaultHeaderFooterColor    = "#666666"
	DefaultLineColor            = "#cccccc" // header/footer separator line
)

// DefaultFontFamily returns the body font stack used when the theme
// declares none. A fresh slice is returned so callers cannot alias the
// default into a shared Theme.
func DefaultFontFamily() []string {
	return []string{"Open Sans", "Arial", "sans-serif"}
}

// DefaultHeaderFooterFontFamily returns the font stack for page headers
// and footers that declare none.
func DefaultHeaderFooterFontFamily() []string {
	return []string{"Open Sans", "sans-serif"}
}

// Font is a body font: family stack, size, and color.
type Font struct {
	Family []string
	Size   string
	Color  string
}

// Margin holds the four page margins as CSS lengths.
type Margin struct {
	Top    string
	Right  string
	Bottom string
	Left   string
}

// UniformMargin returns a Margin with all four sides set to length.
func UniformMargin(length string) Margin {
	return Margin{Top: length, Right: length, Bottom: length, Left: length}
}

// PageSetup describes page geometry and base typography.
type PageSetup struct {
	Size        string // "A4", "A3", "A5", "Letter", "Legal", "Tabloid"
	Orientation string // "portrait" or "landscape"
	Margin      Margin
	DefaultFont Font
}

// FontDeclaration maps a font family name to its variant files. At least
// one variant must be declared; variants left empty emit no @font-face rule.
type FontDeclaration struct {
	Name       string
	Normal     string
	Bold       string
	Italic     string
	BoldItalic string
}

// FontVariant is one declared style variant of a FontDeclaration.
type FontVariant struct {
	Style string // "normal", "bold", "italic" or "bold_italic"
	Path  string
}

// Variants lists the variants that declare a file, in fixed order:
// normal, bold, italic, bold_italic. CSS generation and file checks both
// iterate this so @font-face output stays deterministic.
func (f FontDeclaration) Variants() []FontVariant {
	all := []FontVariant{
		{Style: "normal", Path: f.Normal},
		{Style: "bold", Path: f.Bold},
		{Style: "italic", Path: f.Italic},
		{Style: "bold_italic", Path: f.BoldItalic},
	}
	var declared []FontVariant
	for _, v := range all {
		if v.Path != "" {
			declared = append(declared, v)
		}
	}
	return declared
}

// Component configures rendering for one custom block name.
type Component struct {
	Template          string            // path to an html/template file; empty means fallback rendering
	DefaultIcon       string            // icon text exposed to the template context
	DefaultAttributes map[string]string // defaults merged under block attributes
}

// HeaderFooter is the content of one named page header or footer. Left,
// Center and Right may contain {variable} placeholders resolved by the
// page processor at CSS generation time.
type HeaderFooter struct {
	Left          string
	Center        string
	Right         string
	FontFamily    []string
	FontSize      string
	Color         string
	LineSeparator bool
	LineColor     string
}

// Empty reports whether all three content slots are blank. Empty
// headers and footers emit no margin boxes.
func (h HeaderFooter) Empty() bool {
	return h.Left == "" && h.Center == "" && h.Right == ""
}

// Theme is the complete theme model for one conversion job. Built once
// by Build or Load, read-only afterwards.
type Theme struct {
	Page        PageSetup
	Fonts       []FontDeclaration
	Stylesheets []string
	Styles      map[string]map[string]string
	Components  map[string]Component
	Headers     map[string]HeaderFooter
	Footers     map[string]HeaderFooter

	// Dir is the directory of the theme file. Relative font, stylesheet
	// and template paths resolve against it, never against the working
	// directory or the Markdown file's directory. Empty for the built-in
	// default theme.
	Dir string
}

// Default returns the built-in theme: A4 portrait, 2cm margins, a neutral
// sans-serif body, no custom styles and empty default header/footer slots.
func Default() *Theme {
	return &Theme{
		Page: PageSetup{
			Size:        DefaultPageSize,
			Orientation: DefaultOrientation,
			Margin:      UniformMargin(DefaultMargin),
			DefaultFont: Font{
				Family: DefaultFontFamily(),
				Size:   DefaultFontSize,
				Color:  DefaultFontColor,
			},
		},
		Styles:     map[string]map[string]string{},
		Components: map[string]Component{},
		Headers:    map[string]HeaderFooter{"default": defaultHeaderFooter()},
		Footers:    map[string]HeaderFooter{"default": defaultHeaderFooter()},
	}
}

// defaultHeaderFooter returns an empty header/footer with the documented
// typography defaults. The "default" name always has one so the CSS
// generator never needs a nil check.
func defaultHeaderFooter() HeaderFooter {
	return HeaderFooter{
		FontFamily: DefaultHeaderFooterFontFamily(),
		FontSize:   DefaultHeaderFooterFontSize,
		Color:      DefaultHeaderFooterColor,
		LineColor:  DefaultLineColor,
	}
}
