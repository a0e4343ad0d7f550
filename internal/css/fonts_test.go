package css

// Notes:
// - @font-face rules must appear for every declared variant whether or
//   not the file exists; missing files degrade at render time
// - Absolute font paths use t.TempDir so the file URL assertion holds
//   on any platform

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/avoll/go-mdpress/theme"
)

func TestGenerate_FontFaces(t *testing.T) {
	t.Parallel()

	th := theme.Default()
	th.Fonts = []theme.FontDeclaration{
		{Name: "Roboto", Normal: "fonts/roboto.ttf", Bold: "fonts/roboto-bold.ttf"},
		{Name: "Lora", Italic: "fonts/lora-italic.otf"},
	}

	css, _ := testGenerator(th).Generate()

	// One rule per declared variant.
	declared := 0
	for _, decl := range th.Fonts {
		declared += len(decl.Variants())
	}
	if got := strings.Count(css, "@font-face"); got != declared {
		t.Errorf("@font-face count = %d, want %d\n%s", got, declared, css)
	}

	flat := collapse(css)
	checks := []string{
		`@font-face { font-family: "Roboto"; src: url("fonts/roboto.ttf") format("truetype"); font-weight: normal; font-style: normal; }`,
		`@font-face { font-family: "Roboto"; src: url("fonts/roboto-bold.ttf") format("truetype"); font-weight: bold; font-style: normal; }`,
		`@font-face { font-family: "Lora"; src: url("fonts/lora-italic.otf") format("opentype"); font-weight: normal; font-style: italic; }`,
	}
	for _, want := range checks {
		if !strings.Contains(flat, want) {
			t.Errorf("missing rule %q in:\n%s", want, css)
		}
	}

	// Font faces come before the page rule.
	if strings.Index(css, "@font-face") > strings.Index(css, "@page") {
		t.Errorf("@font-face should precede @page:\n%s", css)
	}
}

func TestFontFace_Variants(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		variant    theme.FontVariant
		wantWeight string
		wantStyle  string
		wantFormat string
	}{
		{"normal ttf", theme.FontVariant{Style: "normal", Path: "a.ttf"}, "normal", "normal", "truetype"},
		{"bold ttf", theme.FontVariant{Style: "bold", Path: "a.ttf"}, "bold", "normal", "truetype"},
		{"italic otf", theme.FontVariant{Style: "italic", Path: "a.otf"}, "normal", "italic", "opentype"},
		{"bold italic woff2", theme.FontVariant{Style: "bold_italic", Path: "a.woff2"}, "bold", "italic", "woff2"},
		{"woff format", theme.FontVariant{Style: "normal", Path: "a.woff"}, "normal", "normal", "woff"},
		{"uppercase extension", theme.FontVariant{Style: "normal", Path: "a.TTF"}, "normal", "normal", "truetype"},
		{"unknown extension defaults to truetype", theme.FontVariant{Style: "normal", Path: "a.font"}, "normal", "normal", "truetype"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rule := fontFace("Test", tt.variant)

			if !strings.Contains(rule, "font-weight: "+tt.wantWeight+";") {
				t.Errorf("rule = %q, want weight %s", rule, tt.wantWeight)
			}
			if !strings.Contains(rule, "font-style: "+tt.wantStyle+";") {
				t.Errorf("rule = %q, want style %s", rule, tt.wantStyle)
			}
			if !strings.Contains(rule, `format("`+tt.wantFormat+`")`) {
				t.Errorf("rule = %q, want format %s", rule, tt.wantFormat)
			}
		})
	}
}

func TestFontURL(t *testing.T) {
	t.Parallel()

	t.Run("absolute path becomes file URL", func(t *testing.T) {
		t.Parallel()

		abs := filepath.Join(t.TempDir(), "fonts", "roboto.ttf")
		got := fontURL(abs)

		if !strings.HasPrefix(got, "file://") {
			t.Errorf("fontURL(%q) = %q, want file:// prefix", abs, got)
		}
		if !strings.HasSuffix(got, "/fonts/roboto.ttf") {
			t.Errorf("fontURL(%q) = %q, want path suffix", abs, got)
		}
	})

	t.Run("relative path passes through", func(t *testing.T) {
		t.Parallel()

		if got := fontURL("fonts/roboto.ttf"); got != "fonts/roboto.ttf" {
			t.Errorf("fontURL = %q, want unchanged", got)
		}
	})
}
