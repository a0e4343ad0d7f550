package theme

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/avoll/go-mdpress/internal/fileutil"
)

// Build assembles a Theme from a raw configuration mapping, applying the
// documented defaults for every omitted field. Run Validate first and only
// Build when the result has no errors; Build itself rejects only
// structurally impossible input and silently skips values the validator
// already reported.
func Build(raw map[string]any) (*Theme, error) {
	t := Default()
	for key, value := range raw {
		var err error
		switch key {
		case "page_setup":
			err = buildPageSetup(t, value)
		case "fonts":
			err = buildFonts(t, value)
		case "stylesheets":
			err = buildStylesheets(t, value)
		case "styles":
			err = buildStyles(t, value)
		case "custom_components":
			err = buildComponents(t, value)
		case "page_headers":
			t.Headers, err = buildHeaderFooters("page_headers", value)
		case "page_footers":
			t.Footers, err = buildHeaderFooters("page_footers", value)
		}
		if err != nil {
			return nil, err
		}
	}
	ensureDefaultEntry(t.Headers)
	ensureDefaultEntry(t.Footers)
	return t, nil
}

// NormalizeMargin expands a raw margin value into four explicit sides.
// A single length applies to all sides. A mapping fills any missing side
// with the 2cm default, not with one of the declared sides. Normalizing
// an already-complete mapping returns it unchanged.
func NormalizeMargin(value any) Margin {
	switch v := value.(type) {
	case string:
		if v != "" {
			return UniformMargin(v)
		}
	case map[string]any:
		m := UniformMargin(DefaultMargin)
		if s, ok := v["top"].(string); ok && s != "" {
			m.Top = s
		}
		if s, ok := v["right"].(string); ok && s != "" {
			m.Right = s
		}
		if s, ok := v["bottom"].(string); ok && s != "" {
			m.Bottom = s
		}
		if s, ok := v["left"].(string); ok && s != "" {
			m.Left = s
		}
		return m
	}
	return UniformMargin(DefaultMargin)
}

// ResolvePaths resolves relative font, stylesheet and template paths
// against dir, the directory holding the theme file. Theme paths are
// theme-relative; resolving against the working directory or the Markdown
// file's directory would make a theme break depending on where it is
// invoked from.
func (t *Theme) ResolvePaths(dir string) {
	if dir == "" {
		return
	}
	t.Dir = dir
	for i := range t.Fonts {
		f := &t.Fonts[i]
		f.Normal = fileutil.ResolvePath(dir, f.Normal)
		f.Bold = fileutil.ResolvePath(dir, f.Bold)
		f.Italic = fileutil.ResolvePath(dir, f.Italic)
		f.BoldItalic = fileutil.ResolvePath(dir, f.BoldItalic)
	}
	for i := range t.Stylesheets {
		t.Stylesheets[i] = fileutil.ResolvePath(dir, t.Stylesheets[i])
	}
	for name, comp := range t.Components {
		if comp.Template != "" {
			comp.Template = fileutil.ResolvePath(dir, comp.Template)
			t.Components[name] = comp
		}
	}
}

func buildPageSetup(t *Theme, value any) error {
	m, ok := value.(map[string]any)
	if !ok {
		return fmt.Errorf("%w: page_setup must be a mapping", ErrThemeValidation)
	}
	if s, ok := m["size"].(string); ok && s != "" {
		t.Page.Size = s
	}
	if s, ok := m["orientation"].(string); ok && s != "" {
		t.Page.Orientation = s
	}
	if v, ok := m["margin"]; ok {
		t.Page.Margin = NormalizeMargin(v)
	}
	if font, ok := m["default_font"].(map[string]any); ok {
		if family := fontFamilyList(font["family"]); len(family) > 0 {
			t.Page.DefaultFont.Family = family
		}
		if s, ok := font["size"].(string); ok && s != "" {
			t.Page.DefaultFont.Size = s
		}
		if s, ok := font["color"].(string); ok && s != "" {
			t.Page.DefaultFont.Color = s
		}
	}
	return nil
}

func buildFonts(t *Theme, value any) error {
	list, ok := value.([]any)
	if !ok {
		return fmt.Errorf("%w: fonts must be a list", ErrThemeValidation)
	}
	for _, entry := range list {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		var decl FontDeclaration
		decl.Name, _ = m["name"].(string)
		decl.Normal, _ = m["normal"].(string)
		decl.Bold, _ = m["bold"].(string)
		decl.Italic, _ = m["italic"].(string)
		decl.BoldItalic, _ = m["bold_italic"].(string)
		if decl.Name == "" || len(decl.Variants()) == 0 {
			continue
		}
		t.Fonts = append(t.Fonts, decl)
	}
	return nil
}

func buildStylesheets(t *Theme, value any) error {
	list, ok := value.([]any)
	if !ok {
		return fmt.Errorf("%w: stylesheets must be a list", ErrThemeValidation)
	}
	for _, entry := range list {
		if s, ok := entry.(string); ok && strings.TrimSpace(s) != "" {
			t.Stylesheets = append(t.Stylesheets, s)
		}
	}
	return nil
}

func buildStyles(t *Theme, value any) error {
	m, ok := value.(map[string]any)
	if !ok {
		return fmt.Errorf("%w: styles must be a mapping", ErrThemeValidation)
	}
	for element, rawProps := range m {
		props, ok := rawProps.(map[string]any)
		if !ok {
			continue
		}
		bag := make(map[string]string, len(props))
		for prop, v := range props {
			// Font family stacks may be lists; they land in the bag as a
			// ready CSS value since bag values are CSS value text.
			if prop == "font_family" {
				if family := fontFamilyList(v); len(family) > 0 {
					bag[prop] = quotedFamilies(family)
				}
				continue
			}
			if text, ok := scalarText(v); ok {
				bag[prop] = text
			}
		}
		if len(bag) > 0 {
			t.Styles[element] = bag
		}
	}
	return nil
}

func buildComponents(t *Theme, value any) error {
	m, ok := value.(map[string]any)
	if !ok {
		return fmt.Errorf("%w: custom_components must be a mapping", ErrThemeValidation)
	}
	for name, rawCfg := range m {
		cfg, ok := rawCfg.(map[string]any)
		if !ok {
			continue
		}
		var comp Component
		comp.Template, _ = cfg["template"].(string)
		comp.DefaultIcon, _ = cfg["default_icon"].(string)
		if attrs, ok := cfg["default_attributes"].(map[string]any); ok {
			comp.DefaultAttributes = make(map[string]string, len(attrs))
			for k, v := range attrs {
				if text, ok := scalarText(v); ok {
					comp.DefaultAttributes[k] = text
				}
			}
		}
		t.Components[name] = comp
	}
	return nil
}

func buildHeaderFooters(section string, value any) (map[string]HeaderFooter, error) {
	m, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s must be a mapping", ErrThemeValidation, section)
	}
	out := make(map[string]HeaderFooter, len(m)+1)
	for name, rawCfg := range m {
		cfg, ok := rawCfg.(map[string]any)
		if !ok {
			continue
		}
		hf := defaultHeaderFooter()
		hf.Left, _ = cfg["left"].(string)
		hf.Center, _ = cfg["center"].(string)
		hf.Right, _ = cfg["right"].(string)
		if family := fontFamilyList(cfg["font_family"]); len(family) > 0 {
			hf.FontFamily = family
		}
		if s, ok := cfg["font_size"].(string); ok && s != "" {
			hf.FontSize = s
		}
		if s, ok := cfg["color"].(string); ok && s != "" {
			hf.Color = s
		}
		if b, ok := cfg["line_separator"].(bool); ok {
			hf.LineSeparator = b
		}
		if s, ok := cfg["line_color"].(string); ok && s != "" {
			hf.LineColor = s
		}
		out[name] = hf
	}
	return out, nil
}

// ensureDefaultEntry guarantees a "default" header/footer exists so the
// CSS generator can always address the base @page rule.
func ensureDefaultEntry(m map[string]HeaderFooter) {
	if _, ok := m["default"]; !ok {
		m["default"] = defaultHeaderFooter()
	}
}

// quotedFamilies serializes a font family stack as a CSS value,
// each name double-quoted and comma-joined.
func quotedFamilies(families []string) string {
	quoted := make([]string, len(families))
	for i, f := range families {
		quoted[i] = strconv.Quote(f)
	}
	return strings.Join(quoted, ", ")
}

// fontFamilyList accepts either a single family name or a list of names.
func fontFamilyList(value any) []string {
	switch v := value.(type) {
	case string:
		if strings.TrimSpace(v) != "" {
			return []string{v}
		}
	case []any:
		var out []string
		for _, item := range v {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// scalarText renders a YAML scalar as text. Style values like
// "line_height: 1.5" arrive as floats and still belong in the CSS
// property bag verbatim. Mappings, lists and empty values report false.
func scalarText(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case bool:
		return strconv.FormatBool(s), true
	case int:
		return strconv.Itoa(s), true
	case int64:
		return strconv.FormatInt(s, 10), true
	case uint64:
		return strconv.FormatUint(s, 10), true
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64), true
	}
	return "", false
}
