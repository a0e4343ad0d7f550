package css

// Notes:
// - Layout assertions collapse whitespace first so they check CSS
//   structure, not indentation
// - Themes are mostly hand-built from theme.Default() so each test
//   controls exactly one aspect; the raw-config path goes through
//   theme.Build in the page-and-styles test

import (
	"strings"
	"testing"

	"github.com/avoll/go-mdpress/internal/pagemedia"
	"github.com/avoll/go-mdpress/theme"
)

// collapse reduces all whitespace runs to single spaces.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// testGenerator wraps a theme with a fresh resolver and a fixed
// document context.
func testGenerator(t *theme.Theme) *Generator {
	ctx := &pagemedia.Context{
		Title: "Annual Review",
		Date:  "March 2026",
		Year:  "2026",
	}
	return NewGenerator(t, pagemedia.NewResolver(), ctx)
}

// ---------------------------------------------------------------------------
// Page rules
// ---------------------------------------------------------------------------

func TestGenerate_DefaultTheme(t *testing.T) {
	t.Parallel()

	css, warnings := testGenerator(theme.Default()).Generate()

	if got := strings.Count(css, "@page {"); got != 1 {
		t.Errorf("base @page count = %d, want exactly 1\n%s", got, css)
	}
	flat := collapse(css)
	if !strings.Contains(flat, "@page { size: A4; margin: 2cm; }") {
		t.Errorf("missing page rule in:\n%s", css)
	}
	if !strings.Contains(flat, `body { font-family: "Open Sans", "Arial", "sans-serif"; font-size: 11pt; color: #333333; }`) {
		t.Errorf("missing body rule in:\n%s", css)
	}
	if strings.Contains(css, "@font-face") {
		t.Error("default theme should declare no font faces")
	}
	if len(warnings) != 0 {
		t.Errorf("warnings = %v, want none", warnings)
	}
}

func TestGenerate_PageAndStyles(t *testing.T) {
	t.Parallel()

	th, err := theme.Build(map[string]any{
		"page_setup": map[string]any{"size": "A4", "margin": "2cm"},
		"styles": map[string]any{
			"h1": map[string]any{"color": "#112233", "font_size": "24pt"},
		},
	})
	if err != nil {
		t.Fatalf("setup: %v", err)
	}

	css, _ := testGenerator(th).Generate()
	flat := collapse(css)

	if !strings.Contains(flat, "@page { size: A4; margin: 2cm; }") {
		t.Errorf("missing page rule in:\n%s", css)
	}
	if !strings.Contains(flat, "h1 { color: #112233; font-size: 24pt; }") {
		t.Errorf("missing h1 rule in:\n%s", css)
	}
}

func TestGenerate_LandscapeAndMargins(t *testing.T) {
	t.Parallel()

	th := theme.Default()
	th.Page.Size = "Letter"
	th.Page.Orientation = "landscape"
	th.Page.Margin = theme.Margin{Top: "1cm", Right: "2cm", Bottom: "3cm", Left: "4cm"}

	css, _ := testGenerator(th).Generate()
	flat := collapse(css)

	if !strings.Contains(flat, "size: Letter landscape;") {
		t.Errorf("missing landscape size in:\n%s", css)
	}
	if !strings.Contains(flat, "margin: 1cm 2cm 3cm 4cm;") {
		t.Errorf("missing four-sided margin in:\n%s", css)
	}
}

func TestGenerate_HeaderFooterBoxes(t *testing.T) {
	t.Parallel()

	th := theme.Default()
	header := th.Headers["default"]
	header.Center = "{section_title}"
	th.Headers["default"] = header

	footer := th.Footers["default"]
	footer.Left = "{document_title}"
	footer.Right = "Page {page_number} of {total_pages}"
	footer.LineSeparator = true
	th.Footers["default"] = footer

	css, warnings := testGenerator(th).Generate()
	if len(warnings) != 0 {
		t.Fatalf("warnings = %v, want none", warnings)
	}
	flat := collapse(css)

	if !strings.Contains(flat, "@top-center { content: string(section-title);") {
		t.Errorf("missing top-center box in:\n%s", css)
	}
	if !strings.Contains(flat, `@bottom-left { content: "Annual Review";`) {
		t.Errorf("missing resolved document title in:\n%s", css)
	}
	if !strings.Contains(flat, `@bottom-right { content: "Page " counter(page) " of " counter(pages);`) {
		t.Errorf("missing page counter content in:\n%s", css)
	}
	if !strings.Contains(flat, `font-family: "Open Sans", "sans-serif"; font-size: 9pt; color: #666666;`) {
		t.Errorf("missing header/footer typography in:\n%s", css)
	}

	// The footer line separator lands on the bottom-center box even
	// though that slot has no content.
	if !strings.Contains(flat, "@bottom-center { border-top: 1px solid #cccccc; padding-top: 5px; }") {
		t.Errorf("missing separator box in:\n%s", css)
	}

	// Section title capture scaffolding emitted exactly once.
	if got := strings.Count(css, "string-set: section-title content();"); got != 1 {
		t.Errorf("string-set count = %d, want 1\n%s", got, css)
	}

	// Everything still merges into the single base @page rule.
	if got := strings.Count(css, "@page {"); got != 1 {
		t.Errorf("base @page count = %d, want exactly 1\n%s", got, css)
	}
}

func TestGenerate_HeaderLineSeparator(t *testing.T) {
	t.Parallel()

	th := theme.Default()
	header := th.Headers["default"]
	header.Center = "{document_title}"
	header.LineSeparator = true
	header.LineColor = "#aabbcc"
	th.Headers["default"] = header

	css, _ := testGenerator(th).Generate()
	flat := collapse(css)

	// Content and separator share one top-center box.
	want := `@top-center { content: "Annual Review"; font-family: "Open Sans", "sans-serif"; ` +
		`font-size: 9pt; color: #666666; border-bottom: 1px solid #aabbcc; padding-bottom: 5px; }`
	if !strings.Contains(flat, want) {
		t.Errorf("missing merged top-center box in:\n%s", css)
	}
}

func TestGenerate_NamedPages(t *testing.T) {
	t.Parallel()

	th := theme.Default()
	chapter := theme.HeaderFooter{
		Center:     "{section_title}",
		FontFamily: theme.DefaultHeaderFooterFontFamily(),
		FontSize:   theme.DefaultHeaderFooterFontSize,
		Color:      theme.DefaultHeaderFooterColor,
	}
	th.Headers["chapter"] = chapter

	css, _ := testGenerator(th).Generate()

	if !strings.Contains(css, "@page chapter {") {
		t.Errorf("missing named page rule in:\n%s", css)
	}
	if !strings.Contains(collapse(css), ".page-chapter { page: chapter; }") {
		t.Errorf("missing opt-in class in:\n%s", css)
	}
	if got := strings.Count(css, "@page {"); got != 1 {
		t.Errorf("base @page count = %d, want exactly 1\n%s", got, css)
	}
}

func TestGenerate_EmptyNamedPageSkipped(t *testing.T) {
	t.Parallel()

	th := theme.Default()
	th.Headers["blank"] = theme.HeaderFooter{FontSize: "9pt"}

	css, _ := testGenerator(th).Generate()

	if strings.Contains(css, "@page blank") {
		t.Errorf("empty named page should emit nothing:\n%s", css)
	}
}

func TestGenerate_UnknownVariableWarning(t *testing.T) {
	t.Parallel()

	th := theme.Default()
	footer := th.Footers["default"]
	footer.Center = "made by {company}"
	th.Footers["default"] = footer

	css, warnings := testGenerator(th).Generate()

	if len(warnings) != 1 {
		t.Fatalf("warnings = %v, want one", warnings)
	}
	want := `page_footers.default.center: unknown variable "company"`
	if warnings[0] != want {
		t.Errorf("warning = %q, want %q", warnings[0], want)
	}
	// The token stays in the output verbatim.
	if !strings.Contains(css, `"made by {company}"`) {
		t.Errorf("missing verbatim token in:\n%s", css)
	}
}

// ---------------------------------------------------------------------------
// Element rules
// ---------------------------------------------------------------------------

func TestGenerate_ElementRules(t *testing.T) {
	t.Parallel()

	th := theme.Default()
	th.Styles = map[string]map[string]string{
		"p":          {"text_align": "justify"},
		"code_block": {"background_color": "#f5f5f5", "font_size": "10pt"},
		"h2":         {"border_radius": "4px"},
	}

	css, _ := testGenerator(th).Generate()
	flat := collapse(css)

	if !strings.Contains(flat, "pre code { background-color: #f5f5f5; font-size: 10pt; }") {
		t.Errorf("missing code_block rule in:\n%s", css)
	}
	if !strings.Contains(flat, "p { text-align: justify; }") {
		t.Errorf("missing p rule in:\n%s", css)
	}
	if !strings.Contains(flat, "h2 { border-radius: 4px; }") {
		t.Errorf("missing h2 rule in:\n%s", css)
	}

	// Selectors are emitted in sorted order.
	if strings.Index(css, "h2 {") > strings.Index(css, "p {") {
		t.Errorf("element rules not sorted:\n%s", css)
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	t.Parallel()

	th := theme.Default()
	th.Styles = map[string]map[string]string{
		"h1": {"color": "#112233", "font_size": "24pt", "margin_top": "2em"},
		"h2": {"color": "#223344"},
		"p":  {"line_height": "1.5"},
	}
	th.Headers["appendix"] = theme.HeaderFooter{Center: "{year}"}

	first, _ := testGenerator(th).Generate()
	for range 10 {
		again, _ := testGenerator(th).Generate()
		if again != first {
			t.Fatal("Generate() output differs between runs")
		}
	}
}
