//go:build integration

package mdpress

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/avoll/go-mdpress/internal/blocks"
	"github.com/avoll/go-mdpress/internal/pipeline"
	"github.com/avoll/go-mdpress/theme"
)

func TestNewConverter_Wiring(t *testing.T) {
	conv, err := NewConverter()
	if err != nil {
		t.Fatalf("NewConverter() error = %v", err)
	}
	defer conv.Close()

	if conv.preprocessor == nil {
		t.Error("preprocessor is nil")
	}
	if _, ok := conv.preprocessor.(*pipeline.CommonMarkPreprocessor); !ok {
		t.Errorf("preprocessor type = %T, want *pipeline.CommonMarkPreprocessor", conv.preprocessor)
	}

	if conv.htmlConverter == nil {
		t.Fatal("htmlConverter factory is nil")
	}
	htmlConv := conv.htmlConverter(blocks.NewRegistry())
	if _, ok := htmlConv.(*pipeline.GoldmarkConverter); !ok {
		t.Errorf("htmlConverter type = %T, want *pipeline.GoldmarkConverter", htmlConv)
	}

	if conv.cssInjector == nil {
		t.Error("cssInjector is nil")
	}
	if _, ok := conv.cssInjector.(*pipeline.CSSInjection); !ok {
		t.Errorf("cssInjector type = %T, want *pipeline.CSSInjection", conv.cssInjector)
	}

	if conv.pdfConverter == nil {
		t.Error("pdfConverter is nil")
	}
	// pdfConverter is already *rodConverter (concrete type), type assertion not needed
}

func TestConverter_Convert_Integration(t *testing.T) {
	conv := acquireConverter(t)

	ctx := context.Background()
	input := Input{
		Markdown: "# Hello\n\nWorld",
	}

	result, err := conv.Convert(ctx, input)
	if err != nil {
		t.Fatalf("Convert() failed: %v", err)
	}

	// Verify PDF bytes
	if !bytes.HasPrefix(result.PDF, []byte("%PDF-")) {
		t.Error("output does not have PDF magic bytes")
	}

	if len(result.PDF) < 100 {
		t.Error("PDF data suspiciously small")
	}
}

func TestConverter_WriteToFile_Integration(t *testing.T) {
	conv := acquireConverter(t)

	ctx := context.Background()
	input := Input{
		Markdown: "# Hello\n\nWorld",
	}

	result, err := conv.Convert(ctx, input)
	if err != nil {
		t.Fatalf("Convert() failed: %v", err)
	}

	outputPath := filepath.Join(t.TempDir(), "out.pdf")
	err = os.WriteFile(outputPath, result.PDF, 0644)
	if err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	info, err := os.Stat(outputPath)
	if err != nil {
		t.Fatalf("PDF not created: %v", err)
	}
	if info.Size() == 0 {
		t.Error("PDF file is empty")
	}
}

func TestConverter_PageSetup_Integration(t *testing.T) {
	// Test various page setups to ensure they don't crash and produce
	// valid PDF output
	tests := []struct {
		name        string
		size        string
		orientation string
		margin      theme.Margin
	}{
		{
			name:        "default",
			size:        "A4",
			orientation: "portrait",
			margin:      theme.UniformMargin("2cm"),
		},
		{
			name:        "letter portrait",
			size:        "Letter",
			orientation: "portrait",
			margin:      theme.UniformMargin("2cm"),
		},
		{
			name:        "a4 narrow margins",
			size:        "A4",
			orientation: "portrait",
			margin:      theme.UniformMargin("1cm"),
		},
		{
			name:        "a4 landscape",
			size:        "A4",
			orientation: "landscape",
			margin:      theme.UniformMargin("1cm"),
		},
		{
			name:        "a5 portrait",
			size:        "A5",
			orientation: "portrait",
			margin:      theme.UniformMargin("1.5cm"),
		},
		{
			name:        "legal portrait",
			size:        "Legal",
			orientation: "portrait",
			margin:      theme.UniformMargin("1in"),
		},
		{
			name:        "legal landscape",
			size:        "Legal",
			orientation: "landscape",
			margin:      theme.UniformMargin("1in"),
		},
		{
			name:        "tabloid landscape",
			size:        "Tabloid",
			orientation: "landscape",
			margin:      theme.UniformMargin("2cm"),
		},
		{
			name:        "asymmetric margins",
			size:        "A4",
			orientation: "portrait",
			margin:      theme.Margin{Top: "3cm", Right: "2cm", Bottom: "3cm", Left: "2.5cm"},
		},
	}

	conv := acquireConverter(t)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			th := theme.Default()
			th.Page.Size = tt.size
			th.Page.Orientation = tt.orientation
			th.Page.Margin = tt.margin

			ctx := context.Background()
			input := Input{
				Markdown: "# Page Setup Test\n\nThis is a test document.",
				Theme:    th,
			}

			result, err := conv.Convert(ctx, input)
			if err != nil {
				t.Fatalf("Convert() failed: %v", err)
			}

			// Verify PDF magic bytes
			if !bytes.HasPrefix(result.PDF, []byte("%PDF-")) {
				t.Error("output does not have PDF magic bytes")
			}

			// Ensure PDF is not suspiciously small
			if len(result.PDF) < 100 {
				t.Errorf("PDF data suspiciously small: %d bytes", len(result.PDF))
			}
		})
	}
}

func TestConverter_StyleOverrides_Integration(t *testing.T) {
	// Test various element style configurations to ensure they produce
	// valid PDF output
	tests := []struct {
		name   string
		styles map[string]map[string]string
	}{
		{
			name:   "nil uses defaults",
			styles: nil,
		},
		{
			name:   "empty map uses defaults",
			styles: map[string]map[string]string{},
		},
		{
			name: "custom orphans and widows",
			styles: map[string]map[string]string{
				"p": {"orphans": "3", "widows": "4"},
			},
		},
		{
			name: "page break before h1",
			styles: map[string]map[string]string{
				"h1": {"page-break-before": "always"},
			},
		},
		{
			name: "page break before h2",
			styles: map[string]map[string]string{
				"h2": {"page-break-before": "always"},
			},
		},
		{
			name: "keep headings with content",
			styles: map[string]map[string]string{
				"h1": {"page-break-after": "avoid"},
				"h2": {"page-break-after": "avoid"},
				"h3": {"page-break-after": "avoid"},
			},
		},
		{
			name: "full configuration",
			styles: map[string]map[string]string{
				"h1": {"page-break-before": "always", "color": "#1a1a2e"},
				"h2": {"page-break-after": "avoid"},
				"p":  {"orphans": "3", "widows": "3", "text-align": "justify"},
			},
		},
	}

	conv := acquireConverter(t)

	// Markdown with multiple headings to exercise break styles
	markdown := `# Chapter 1

This is the first chapter with some content.

## Section 1.1

Some content in section 1.1.

### Subsection 1.1.1

Details in subsection.

# Chapter 2

This is the second chapter.

## Section 2.1

More content here.
`

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			th := theme.Default()
			if tt.styles != nil {
				th.Styles = tt.styles
			}

			ctx := context.Background()
			input := Input{
				Markdown: markdown,
				Theme:    th,
			}

			result, err := conv.Convert(ctx, input)
			if err != nil {
				t.Fatalf("Convert() failed: %v", err)
			}

			// Verify PDF magic bytes
			if !bytes.HasPrefix(result.PDF, []byte("%PDF-")) {
				t.Error("output does not have PDF magic bytes")
			}

			// Ensure PDF is not suspiciously small
			if len(result.PDF) < 100 {
				t.Errorf("PDF data suspiciously small: %d bytes", len(result.PDF))
			}
		})
	}
}

func TestConverter_CombinedFeatures_Integration(t *testing.T) {
	conv := acquireConverter(t)

	th := theme.Default()
	th.Page.Margin = theme.UniformMargin("2.5cm")
	th.Styles = map[string]map[string]string{
		"h1": {"page-break-before": "always"},
		"p":  {"orphans": "3", "widows": "3"},
	}
	header := th.Headers["default"]
	header.Right = "{document_title}"
	th.Headers["default"] = header
	footer := th.Footers["default"]
	footer.Center = "Page {page_number} of {total_pages}"
	footer.LineSeparator = true
	th.Footers["default"] = footer

	ctx := context.Background()
	input := Input{
		Markdown: "# Combined Test\n\n## Section One\n\nContent here.\n\n## Section Two\n\nMore content.",
		Theme:    th,
		ExtraCSS: "body { font-family: sans-serif; }",
		Author:   "Integration Suite",
		Date:     "auto:iso",
	}

	result, err := conv.Convert(ctx, input)
	if err != nil {
		t.Fatalf("Convert() failed: %v", err)
	}

	if !bytes.HasPrefix(result.PDF, []byte("%PDF-")) {
		t.Error("output does not have PDF magic bytes")
	}

	if len(result.PDF) < 100 {
		t.Errorf("PDF data suspiciously small: %d bytes", len(result.PDF))
	}
}
