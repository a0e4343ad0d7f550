package css

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/avoll/go-mdpress/theme"
)

// fontFormats maps font file extensions to CSS format() hints.
var fontFormats = map[string]string{
	".ttf":   "truetype",
	".otf":   "opentype",
	".woff":  "woff",
	".woff2": "woff2",
}

// fontFaces emits one @font-face rule per declared variant, in
// declaration order. Rules are emitted whether or not the file exists
// on disk; theme loading already warned about missing files and the
// renderer falls back to a system font.
func (g *Generator) fontFaces() []string {
	var faces []string
	for _, decl := range g.theme.Fonts {
		for _, v := range decl.Variants() {
			faces = append(faces, fontFace(decl.Name, v))
		}
	}
	return faces
}

// fontFace builds a single @font-face rule. The bold and bold_italic
// variants set font-weight, italic and bold_italic set font-style.
func fontFace(name string, v theme.FontVariant) string {
	weight, style := "normal", "normal"
	switch v.Style {
	case "bold":
		weight = "bold"
	case "italic":
		style = "italic"
	case "bold_italic":
		weight, style = "bold", "italic"
	}

	format, ok := fontFormats[strings.ToLower(filepath.Ext(v.Path))]
	if !ok {
		format = "truetype"
	}

	return fmt.Sprintf(`@font-face {
  font-family: %s;
  src: url(%s) format(%q);
  font-weight: %s;
  font-style: %s;
}`, cssString(name), cssString(fontURL(v.Path)), format, weight, style)
}

// fontURL converts a local font path to a URL the browser can load.
// Absolute paths become file:// URLs; anything else passes through with
// slashes normalized.
func fontURL(path string) string {
	if filepath.IsAbs(path) {
		u := url.URL{Scheme: "file", Path: filepath.ToSlash(path)}
		return u.String()
	}
	return filepath.ToSlash(path)
}
