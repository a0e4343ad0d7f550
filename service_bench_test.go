//go:build bench

package mdpress

import (
	"context"
	"strings"
	"testing"

	"github.com/avoll/go-mdpress/internal/pagemedia"
	"github.com/avoll/go-mdpress/theme"
)

// benchPDFConverter is a mock for benchmarking without actual browser.
type benchPDFConverter struct{}

func (m *benchPDFConverter) ToPDF(ctx context.Context, htmlContent string, opts *pdfOptions) ([]byte, error) {
	// Return a mock PDF (minimal valid PDF header)
	return []byte("%PDF-1.4\n"), nil
}

func (m *benchPDFConverter) Close() error {
	return nil
}

// newBenchConverter creates a Converter with mock PDF converter for
// benchmarking.
func newBenchConverter(b *testing.B, opts ...Option) *Converter {
	b.Helper()
	c, err := NewConverter(opts...)
	if err != nil {
		b.Fatal(err)
	}
	c.pdfConverter = &benchPDFConverter{}
	return c
}

// benchTheme returns a theme exercising styles, headers and footers.
func benchTheme() *theme.Theme {
	th := theme.Default()
	th.Styles = map[string]map[string]string{
		"h1": {"page-break-before": "always", "color": "#1a1a2e"},
		"p":  {"orphans": "3", "widows": "3"},
	}
	header := th.Headers["default"]
	header.Right = "{document_title}"
	th.Headers["default"] = header
	footer := th.Footers["default"]
	footer.Left = "{date}"
	footer.Center = "Page {page_number} of {total_pages}"
	footer.LineSeparator = true
	th.Footers["default"] = footer
	return th
}

// BenchmarkConverterConvert benchmarks the full conversion pipeline.
// Uses mock PDF converter to isolate pipeline performance from browser.
func BenchmarkConverterConvert(b *testing.B) {
	conv := newBenchConverter(b)
	defer conv.Close()

	ctx := context.Background()

	inputs := []struct {
		name  string
		input Input
	}{
		{
			name: "minimal",
			input: Input{
				Markdown: "# Hello\n\nWorld",
			},
		},
		{
			name: "with_extra_css",
			input: Input{
				Markdown: generateBenchmarkMarkdown(10),
				ExtraCSS: strings.Repeat(".class { color: red; }\n", 50),
			},
		},
		{
			name: "with_theme",
			input: Input{
				Markdown: generateBenchmarkMarkdown(10),
				Theme:    benchTheme(),
			},
		},
		{
			name: "with_metadata",
			input: Input{
				Markdown: generateBenchmarkMarkdown(10),
				Title:    "Benchmark Document",
				Author:   "Bench Author",
				Date:     "auto:long",
			},
		},
		{
			name: "full_features",
			input: Input{
				Markdown: generateBenchmarkMarkdown(20),
				Theme:    benchTheme(),
				ExtraCSS: strings.Repeat(".class { color: red; }\n", 20),
				Title:    "Comprehensive Technical Guide",
				Author:   "Bench Author",
				Date:     "auto:iso",
			},
		},
	}

	for _, input := range inputs {
		b.Run(input.name, func(b *testing.B) {
			b.ReportAllocs()
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				result, err := conv.Convert(ctx, input.input)
				if err != nil {
					b.Fatal(err)
				}
				_ = result
			}
		})
	}
}

// BenchmarkConverterConvertBySize benchmarks conversion scaling with
// document size.
func BenchmarkConverterConvertBySize(b *testing.B) {
	conv := newBenchConverter(b)
	defer conv.Close()

	ctx := context.Background()
	sizes := []int{5, 10, 25, 50, 100}

	for _, size := range sizes {
		input := Input{
			Markdown: generateBenchmarkMarkdown(size),
			Theme:    benchTheme(),
			ExtraCSS: strings.Repeat(".class { color: red; }\n", 20),
		}

		b.Run(sizeName(size), func(b *testing.B) {
			b.ReportAllocs()
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				result, err := conv.Convert(ctx, input)
				if err != nil {
					b.Fatal(err)
				}
				_ = result
			}
		})
	}
}

func sizeName(size int) string {
	switch size {
	case 5:
		return "sections_5"
	case 10:
		return "sections_10"
	case 25:
		return "sections_25"
	case 50:
		return "sections_50"
	case 100:
		return "sections_100"
	default:
		return "sections_n"
	}
}

// BenchmarkConverterConvertParallel benchmarks concurrent conversions.
func BenchmarkConverterConvertParallel(b *testing.B) {
	conv := newBenchConverter(b)
	defer conv.Close()

	ctx := context.Background()
	input := Input{
		Markdown: generateBenchmarkMarkdown(20),
		Theme:    benchTheme(),
		ExtraCSS: strings.Repeat(".class { color: red; }\n", 20),
	}

	b.ReportAllocs()
	b.ResetTimer()

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			result, err := conv.Convert(ctx, input)
			if err != nil {
				b.Fatal(err)
			}
			_ = result
		}
	})
}

// BenchmarkValidateInput benchmarks input validation.
func BenchmarkValidateInput(b *testing.B) {
	conv := newBenchConverter(b)
	defer conv.Close()

	inputs := []struct {
		name  string
		input Input
	}{
		{"minimal", Input{Markdown: "# Test"}},
		{"with_theme", Input{
			Markdown: "# Test",
			Theme:    benchTheme(),
		}},
		{"with_extra_css", Input{
			Markdown: "# Test",
			ExtraCSS: ".class { color: red; }",
		}},
		{"full", Input{
			Markdown: "# Test",
			Theme:    benchTheme(),
			ExtraCSS: ".class { color: red; }",
			Title:    "Doc",
			Author:   "Author",
			Date:     "auto:iso",
			BaseDir:  "/tmp",
		}},
	}

	for _, input := range inputs {
		b.Run(input.name, func(b *testing.B) {
			b.ReportAllocs()
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				err := conv.validateInput(input.input)
				_ = err
			}
		})
	}
}

// BenchmarkBuildRegistry benchmarks per-job component registry assembly.
func BenchmarkBuildRegistry(b *testing.B) {
	conv := newBenchConverter(b,
		WithComponent("note", ComponentConfig{
			Template: `<aside class="note">{{.Content}}</aside>`,
			Icon:     "📝",
		}),
	)
	defer conv.Close()

	themes := []struct {
		name  string
		theme *theme.Theme
	}{
		{"default", theme.Default()},
		{"with_components", func() *theme.Theme {
			th := theme.Default()
			th.Components = map[string]theme.Component{
				"tip_box":      {DefaultIcon: "🔧", DefaultAttributes: map[string]string{"color": "green"}},
				"callout":      {DefaultIcon: "📣"},
				"side_note":    {DefaultIcon: "✏️"},
				"warning_note": {DefaultIcon: "⚠️"},
			}
			return th
		}()},
	}

	for _, tt := range themes {
		b.Run(tt.name, func(b *testing.B) {
			b.ReportAllocs()
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				registry, warnings := conv.buildRegistry(tt.theme)
				_, _ = registry, warnings
			}
		})
	}
}

// BenchmarkAssembleCSS benchmarks stylesheet assembly.
func BenchmarkAssembleCSS(b *testing.B) {
	conv := newBenchConverter(b)
	defer conv.Close()

	docCtx := &pagemedia.Context{
		Title: "Benchmark Document",
		Date:  "January 2026",
		Year:  "2026",
	}

	themes := []struct {
		name     string
		theme    *theme.Theme
		extraCSS string
	}{
		{"default", theme.Default(), ""},
		{"themed", benchTheme(), ""},
		{"themed_with_extra", benchTheme(), strings.Repeat(".class { color: red; }\n", 50)},
	}

	for _, tt := range themes {
		b.Run(tt.name, func(b *testing.B) {
			b.ReportAllocs()
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				resolver := pagemedia.NewResolver()
				css, warnings, err := conv.assembleCSS(tt.theme, resolver, docCtx, tt.extraCSS)
				if err != nil {
					b.Fatal(err)
				}
				_, _ = css, warnings
			}
		})
	}
}

// BenchmarkBuildPrintOptions benchmarks renderer option derivation.
func BenchmarkBuildPrintOptions(b *testing.B) {
	docCtx := &pagemedia.Context{
		Title: "Benchmark Document",
		Date:  "January 2026",
		Year:  "2026",
	}

	themes := []struct {
		name  string
		theme *theme.Theme
	}{
		{"empty_boxes", theme.Default()},
		{"with_header_footer", benchTheme()},
	}

	for _, tt := range themes {
		b.Run(tt.name, func(b *testing.B) {
			b.ReportAllocs()
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				resolver := pagemedia.NewResolver()
				opts := buildPrintOptions(tt.theme, resolver, docCtx)
				_ = opts
			}
		})
	}
}

// Helper function for generating benchmark markdown
func generateBenchmarkMarkdown(sections int) string {
	var sb strings.Builder
	sb.WriteString("# Document Title\n\n")
	sb.WriteString("Introduction paragraph with **bold** and *italic* text.\n\n")

	for i := 0; i < sections; i++ {
		level := (i % 3) + 1
		sb.WriteString(strings.Repeat("#", level+1))
		sb.WriteString(" Section ")
		sb.WriteString(string(rune('A' + (i % 26))))
		sb.WriteString("\n\n")
		sb.WriteString("This is a paragraph with some content. ")
		sb.WriteString("It includes [links](https://example.com) and `inline code`.\n\n")

		sb.WriteString("- Item one\n")
		sb.WriteString("- Item two\n")
		sb.WriteString("- Item three\n\n")

		if i%3 == 0 {
			sb.WriteString("```go\nfunc main() {\n    fmt.Println(\"Hello\")\n}\n```\n\n")
		}

		if i%5 == 0 {
			sb.WriteString("| A | B | C |\n|---|---|---|\n| 1 | 2 | 3 |\n\n")
		}

		if i%7 == 0 {
			sb.WriteString(":::tip_box title=\"Tip\"\nBlock content with **markdown**.\n:::\n\n")
		}
	}

	return sb.String()
}
