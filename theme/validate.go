package theme

import (
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strings"

	"github.com/avoll/go-mdpress/internal/hints"
)

// IssueKind classifies a validation issue.
type IssueKind string

const (
	KindError   IssueKind = "error"
	KindWarning IssueKind = "warning"
)

// Issue is a single validation finding at a dotted path in the theme tree,
// e.g. "page_setup.margin.top" or "fonts[2].name".
type Issue struct {
	Path       string
	Message    string
	Kind       IssueKind
	Suggestion string // optional fix hint, empty when none applies
}

// String formats the issue for terminal display.
func (i Issue) String() string {
	s := i.Path + ": " + i.Message
	if i.Suggestion != "" {
		s += "\n  hint: " + i.Suggestion
	}
	return s
}

// ValidationResult aggregates every issue found in one validation pass.
// Errors block the load; warnings never do unless the caller promotes them.
type ValidationResult struct {
	Errors   []Issue
	Warnings []Issue
}

// OK reports whether the configuration can be built into a Theme.
func (r *ValidationResult) OK() bool {
	return len(r.Errors) == 0
}

// PromoteWarnings reclassifies every warning as an error. Strict mode
// callers use this to make advisory findings block the job.
func (r *ValidationResult) PromoteWarnings() {
	for _, w := range r.Warnings {
		w.Kind = KindError
		r.Errors = append(r.Errors, w)
	}
	r.Warnings = nil
}

// Summary is a one-line account of the result, used for error wrapping.
func (r *ValidationResult) Summary() string {
	switch {
	case len(r.Errors) == 1:
		return r.Errors[0].Path + ": " + r.Errors[0].Message
	case len(r.Errors) > 1:
		return fmt.Sprintf("%d errors, first at %s", len(r.Errors), r.Errors[0].Path)
	case len(r.Warnings) > 0:
		return fmt.Sprintf("%d warnings", len(r.Warnings))
	}
	return "ok"
}

func (r *ValidationResult) addError(path, message, suggestion string) {
	r.Errors = append(r.Errors, Issue{Path: path, Message: message, Kind: KindError, Suggestion: suggestion})
}

func (r *ValidationResult) addWarning(path, message, suggestion string) {
	r.Warnings = append(r.Warnings, Issue{Path: path, Message: message, Kind: KindWarning, Suggestion: suggestion})
}

// Schema tables. The theme schema is closed: unknown keys are errors
// everywhere except inside the open maps (styles.<element> property bags,
// custom_components.<name>, page_headers/<name>, page_footers/<name>)
// where the key itself is user-chosen.
var (
	validTopLevelKeys = []string{
		"page_setup", "fonts", "stylesheets", "styles",
		"custom_components", "page_headers", "page_footers",
	}

	validPageSizes = []string{"A4", "A3", "A5", "Letter", "Legal", "Tabloid"}

	// Markdown elements accepted under styles. code_block targets fenced
	// code (pre code) while code targets inline code spans.
	validStyleElements = []string{
		"h1", "h2", "h3", "h4", "h5", "h6",
		"p", "ul", "ol", "li", "blockquote",
		"a", "strong", "em", "code", "pre", "code_block",
		"table", "th", "td", "img", "hr",
	}

	pageLengthUnits  = []string{"cm", "mm", "in", "pt", "px"}
	styleLengthUnits = []string{"cm", "mm", "in", "pt", "px", "em", "rem", "%"}
	fontSizeUnits    = []string{"pt", "px", "em", "rem"}
)

var (
	hexColorRE    = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
	pageLengthRE  = regexp.MustCompile(`^\d+(\.\d+)?(cm|mm|in|pt|px)$`)
	styleLengthRE = regexp.MustCompile(`^\d+(\.\d+)?(cm|mm|in|pt|px|em|rem|%)$`)
	fontSizeRE    = regexp.MustCompile(`^\d+(\.\d+)?(pt|px|em|rem)$`)
	identifierRE  = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

// Style properties whose values carry extra validation. Anything else
// under styles.<element> passes through with only a scalar check, since
// the property bag is open.
var (
	colorProperties = map[string]bool{
		"color":            true,
		"background_color": true,
		"line_color":       true,
	}
	lengthProperties = map[string]bool{
		"font_size":      true,
		"border_radius":  true,
		"margin":         true,
		"margin_top":     true,
		"margin_bottom":  true,
		"margin_left":    true,
		"margin_right":   true,
		"padding":        true,
		"padding_top":    true,
		"padding_bottom": true,
		"padding_left":   true,
		"padding_right":  true,
	}
	// margin and padding accept up to four space-separated lengths.
	shorthandProperties = map[string]bool{"margin": true, "padding": true}
)

// maxRecommendedComponents is the point where a theme starts to feel like
// a template library; beyond it a warning nudges users to split themes.
const maxRecommendedComponents = 10

// Validate walks raw against the theme schema and aggregates every problem
// found. It never stops at the first issue, so a user sees all of them in
// one pass. Callers must reject the configuration when OK reports false;
// warnings are advisory unless promoted.
func Validate(raw map[string]any) *ValidationResult {
	res := &ValidationResult{}
	for _, key := range slices.Sorted(maps.Keys(raw)) {
		value := raw[key]
		switch key {
		case "page_setup":
			validatePageSetup(res, value)
		case "fonts":
			validateFonts(res, value)
		case "stylesheets":
			validateStylesheets(res, value)
		case "styles":
			validateStyles(res, value)
		case "custom_components":
			validateComponents(res, value)
		case "page_headers":
			validateHeaderFooters(res, "page_headers", value)
		case "page_footers":
			validateHeaderFooters(res, "page_footers", value)
		default:
			res.addError(key, fmt.Sprintf("unknown top-level key %q", key),
				hints.SuggestTopLevelKey(validTopLevelKeys))
		}
	}
	return res
}

func validatePageSetup(res *ValidationResult, value any) {
	m, ok := value.(map[string]any)
	if !ok {
		res.addError("page_setup", "must be a mapping", "")
		return
	}
	for _, key := range slices.Sorted(maps.Keys(m)) {
		v := m[key]
		path := "page_setup." + key
		switch key {
		case "size":
			s, isStr := v.(string)
			if !isStr || !slices.Contains(validPageSizes, s) {
				res.addError(path, fmt.Sprintf("invalid page size %s", describeValue(v)),
					hints.SuggestPageSize(validPageSizes))
			}
		case "orientation":
			s, isStr := v.(string)
			if !isStr || (s != "portrait" && s != "landscape") {
				res.addError(path, fmt.Sprintf("invalid orientation %s", describeValue(v)),
					hints.SuggestOrientation())
			}
		case "margin":
			validateMargin(res, path, v)
		case "default_font":
			validateDefaultFont(res, path, v)
		default:
			res.addError(path, fmt.Sprintf("unknown key %q", key), "")
		}
	}
}

func validateMargin(res *ValidationResult, path string, value any) {
	switch v := value.(type) {
	case string:
		if !validPageLength(v) {
			res.addError(path, fmt.Sprintf("invalid margin %q", v),
				hints.SuggestLength(pageLengthUnits))
		}
	case map[string]any:
		for _, side := range slices.Sorted(maps.Keys(v)) {
			sidePath := path + "." + side
			switch side {
			case "top", "right", "bottom", "left":
				s, isStr := v[side].(string)
				if !isStr || !validPageLength(s) {
					res.addError(sidePath, fmt.Sprintf("invalid margin %s", describeValue(v[side])),
						hints.SuggestLength(pageLengthUnits))
				}
			default:
				res.addError(sidePath, fmt.Sprintf("unknown key %q", side),
					hints.SuggestMarginShape())
			}
		}
	default:
		res.addError(path, "must be a length or a mapping of sides",
			hints.SuggestMarginShape())
	}
}

func validateDefaultFont(res *ValidationResult, path string, value any) {
	m, ok := value.(map[string]any)
	if !ok {
		res.addError(path, "must be a mapping", "")
		return
	}
	for _, key := range slices.Sorted(maps.Keys(m)) {
		v := m[key]
		keyPath := path + "." + key
		switch key {
		case "family":
			validateFontFamily(res, keyPath, v)
		case "size":
			validateFontSize(res, keyPath, v)
		case "color":
			validateColor(res, keyPath, v)
		default:
			res.addError(keyPath, fmt.Sprintf("unknown key %q", key), "")
		}
	}
}

func validateFonts(res *ValidationResult, value any) {
	list, ok := value.([]any)
	if !ok {
		res.addError("fonts", "must be a list", "")
		return
	}
	seen := make(map[string]bool, len(list))
	for i, entry := range list {
		path := fmt.Sprintf("fonts[%d]", i)
		m, ok := entry.(map[string]any)
		if !ok {
			res.addError(path, "must be a mapping", "")
			continue
		}
		name, _ := m["name"].(string)
		switch {
		case name == "":
			res.addError(path+".name", "font name is required", "")
		case seen[name]:
			res.addError(path+".name", fmt.Sprintf("duplicate font name %q", name),
				"font names must be unique")
		default:
			seen[name] = true
		}
		declared := 0
		for _, key := range slices.Sorted(maps.Keys(m)) {
			v := m[key]
			keyPath := path + "." + key
			switch key {
			case "name":
				// checked above
			case "normal", "bold", "italic", "bold_italic":
				s, isStr := v.(string)
				if !isStr || s == "" {
					res.addError(keyPath, "must be a font file path", "")
					continue
				}
				declared++
			default:
				res.addError(keyPath, fmt.Sprintf("unknown key %q", key), "")
			}
		}
		if declared == 0 && name != "" {
			res.addError(path, fmt.Sprintf("font %q must declare at least one variant file", name),
				"set one of normal, bold, italic, bold_italic")
		}
	}
}

func validateStylesheets(res *ValidationResult, value any) {
	list, ok := value.([]any)
	if !ok {
		res.addError("stylesheets", "must be a list", "")
		return
	}
	for i, entry := range list {
		if s, isStr := entry.(string); !isStr || strings.TrimSpace(s) == "" {
			res.addError(fmt.Sprintf("stylesheets[%d]", i), "must be a file path", "")
		}
	}
}

func validateStyles(res *ValidationResult, value any) {
	m, ok := value.(map[string]any)
	if !ok {
		res.addError("styles", "must be a mapping", "")
		return
	}
	for _, element := range slices.Sorted(maps.Keys(m)) {
		path := "styles." + element
		if !slices.Contains(validStyleElements, element) {
			res.addError(path, fmt.Sprintf("unknown element %q", element),
				hints.SuggestStyleElement(validStyleElements))
			continue
		}
		props, ok := m[element].(map[string]any)
		if !ok {
			res.addError(path, "must be a mapping of CSS properties", "")
			continue
		}
		validateStyleProperties(res, path, props)
	}
}

func validateStyleProperties(res *ValidationResult, path string, props map[string]any) {
	for _, prop := range slices.Sorted(maps.Keys(props)) {
		v := props[prop]
		propPath := path + "." + prop
		if !identifierRE.MatchString(prop) {
			res.addError(propPath, fmt.Sprintf("invalid property name %q", prop),
				hints.SuggestIdentifier())
			continue
		}
		switch {
		case prop == "font_family":
			validateFontFamily(res, propPath, v)
		case colorProperties[prop]:
			validateColor(res, propPath, v)
		case shorthandProperties[prop]:
			validateShorthand(res, propPath, v)
		case lengthProperties[prop]:
			validateStyleLength(res, propPath, v)
		default:
			if _, ok := scalarText(v); !ok {
				res.addError(propPath, "must be a scalar value", "")
			}
		}
	}
}

func validateComponents(res *ValidationResult, value any) {
	m, ok := value.(map[string]any)
	if !ok {
		res.addError("custom_components", "must be a mapping", "")
		return
	}
	if len(m) > maxRecommendedComponents {
		res.addWarning("custom_components",
			fmt.Sprintf("%d components declared, more than the recommended maximum of %d",
				len(m), maxRecommendedComponents),
			"consider consolidating similar components")
	}
	for _, name := range slices.Sorted(maps.Keys(m)) {
		path := "custom_components." + name
		if !identifierRE.MatchString(name) {
			res.addError(path, fmt.Sprintf("invalid component name %q", name),
				hints.SuggestIdentifier())
			continue
		}
		cfg, ok := m[name].(map[string]any)
		if !ok {
			res.addError(path, "must be a mapping", "")
			continue
		}
		for _, key := range slices.Sorted(maps.Keys(cfg)) {
			v := cfg[key]
			keyPath := path + "." + key
			switch key {
			case "template", "default_icon":
				if s, isStr := v.(string); !isStr || s == "" {
					res.addError(keyPath, "must be a non-empty string", "")
				}
			case "default_attributes":
				validateDefaultAttributes(res, keyPath, v)
			default:
				res.addError(keyPath, fmt.Sprintf("unknown key %q", key), "")
			}
		}
	}
}

func validateDefaultAttributes(res *ValidationResult, path string, value any) {
	attrs, ok := value.(map[string]any)
	if !ok {
		res.addError(path, "must be a mapping", "")
		return
	}
	for _, attr := range slices.Sorted(maps.Keys(attrs)) {
		attrPath := path + "." + attr
		if !identifierRE.MatchString(attr) {
			res.addError(attrPath, fmt.Sprintf("invalid attribute name %q", attr),
				hints.SuggestIdentifier())
			continue
		}
		if _, ok := scalarText(attrs[attr]); !ok {
			res.addError(attrPath, "must be a scalar value", "")
		}
	}
}

func validateHeaderFooters(res *ValidationResult, section string, value any) {
	m, ok := value.(map[string]any)
	if !ok {
		res.addError(section, "must be a mapping", "")
		return
	}
	for _, name := range slices.Sorted(maps.Keys(m)) {
		path := section + "." + name
		// Non-default names become CSS named-page selectors, so they must
		// be safe identifiers.
		if !identifierRE.MatchString(name) {
			res.addError(path, fmt.Sprintf("invalid name %q", name), hints.SuggestIdentifier())
			continue
		}
		cfg, ok := m[name].(map[string]any)
		if !ok {
			res.addError(path, "must be a mapping", "")
			continue
		}
		for _, key := range slices.Sorted(maps.Keys(cfg)) {
			v := cfg[key]
			keyPath := path + "." + key
			switch key {
			case "left", "center", "right":
				if _, isStr := v.(string); !isStr {
					res.addError(keyPath, "must be a string", "")
				}
			case "font_family":
				validateFontFamily(res, keyPath, v)
			case "font_size":
				validateFontSize(res, keyPath, v)
			case "color", "line_color":
				validateColor(res, keyPath, v)
			case "line_separator":
				if _, isBool := v.(bool); !isBool {
					res.addError(keyPath, "must be true or false", "")
				}
			default:
				res.addError(keyPath, fmt.Sprintf("unknown key %q", key), "")
			}
		}
	}
}

func validateFontFamily(res *ValidationResult, path string, value any) {
	switch v := value.(type) {
	case string:
		if strings.TrimSpace(v) == "" {
			res.addError(path, "font family cannot be empty", "")
		}
	case []any:
		if len(v) == 0 {
			res.addError(path, "font family list cannot be empty", "")
		}
		for i, item := range v {
			if s, isStr := item.(string); !isStr || strings.TrimSpace(s) == "" {
				res.addError(fmt.Sprintf("%s[%d]", path, i), "must be a non-empty string", "")
			}
		}
	default:
		res.addError(path, "must be a string or a list of strings", "")
	}
}

func validateFontSize(res *ValidationResult, path string, value any) {
	s, isStr := value.(string)
	if !isStr || !fontSizeRE.MatchString(s) {
		res.addError(path, fmt.Sprintf("invalid font size %s", describeValue(value)),
			hints.SuggestLength(fontSizeUnits))
	}
}

func validateColor(res *ValidationResult, path string, value any) {
	s, isStr := value.(string)
	if !isStr || !hexColorRE.MatchString(s) {
		res.addError(path, fmt.Sprintf("invalid color %s", describeValue(value)),
			hints.SuggestColor())
	}
}

func validateStyleLength(res *ValidationResult, path string, value any) {
	s, isStr := value.(string)
	if !isStr || !validStyleLength(s) {
		res.addError(path, fmt.Sprintf("invalid length %s", describeValue(value)),
			hints.SuggestLength(styleLengthUnits))
	}
}

func validateShorthand(res *ValidationResult, path string, value any) {
	s, isStr := value.(string)
	if !isStr {
		res.addError(path, fmt.Sprintf("invalid length %s", describeValue(value)),
			hints.SuggestLength(styleLengthUnits))
		return
	}
	parts := strings.Fields(s)
	if len(parts) == 0 || len(parts) > 4 {
		res.addError(path, fmt.Sprintf("shorthand %q must have between one and four values", s), "")
		return
	}
	for _, part := range parts {
		if !validStyleLength(part) {
			res.addError(path, fmt.Sprintf("invalid length %q in %q", part, s),
				hints.SuggestLength(styleLengthUnits))
		}
	}
}

// validPageLength accepts page margin lengths: "0" or <number><unit> with
// a physical or pixel unit. Relative units make no sense for page margins.
func validPageLength(s string) bool {
	return s == "0" || pageLengthRE.MatchString(s)
}

// validStyleLength additionally accepts em, rem and percentages, which are
// fine inside the document flow.
func validStyleLength(s string) bool {
	return s == "0" || styleLengthRE.MatchString(s)
}

// describeValue renders a raw YAML value for an error message.
func describeValue(v any) string {
	switch v.(type) {
	case nil:
		return "empty value"
	case map[string]any:
		return "mapping"
	case []any:
		return "list"
	}
	return fmt.Sprintf("%q", fmt.Sprint(v))
}
