// Package css generates the stylesheet that drives PDF layout from a
// theme: @font-face declarations, CSS Paged Media @page rules with
// header and footer margin boxes, and per-element style rules.
//
// Generation is deterministic and does no I/O, so a failed render can
// always regenerate. Reading external stylesheet files is the separate
// LoadStylesheets step.
package css

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/avoll/go-mdpress/internal/pagemedia"
	"github.com/avoll/go-mdpress/theme"
)

// Generator builds CSS for one conversion job. The resolver and
// document context supply header/footer variable resolution.
type Generator struct {
	theme    *theme.Theme
	resolver *pagemedia.Resolver
	ctx      *pagemedia.Context
}

// NewGenerator creates a Generator over a built theme.
func NewGenerator(t *theme.Theme, resolver *pagemedia.Resolver, ctx *pagemedia.Context) *Generator {
	return &Generator{theme: t, resolver: resolver, ctx: ctx}
}

// Generate emits the theme stylesheet in fixed order: @font-face rules,
// @page rules (base rule first, then named pages), the section title
// capture scaffolding when a header or footer references it, body
// typography, then element style rules sorted by selector. Warnings
// report unknown header/footer variables and never abort generation.
func (g *Generator) Generate() (string, []string) {
	var parts []string

	parts = append(parts, g.fontFaces()...)

	pages, usesSectionTitle, warnings := g.pageRules()
	parts = append(parts, pages...)

	if usesSectionTitle {
		parts = append(parts, sectionTitleScaffold)
	}

	parts = append(parts, g.bodyRule())
	parts = append(parts, g.elementRules()...)

	return strings.Join(parts, "\n\n"), warnings
}

// sectionTitleScaffold captures each H1's text into the section-title
// named string, which string(section-title) reads back in margin boxes.
// Without it the renderer resolves the variable to empty text.
const sectionTitleScaffold = `h1 {
  string-set: section-title content();
}`

// bodyRule emits base typography from the theme's default font.
func (g *Generator) bodyRule() string {
	font := g.theme.Page.DefaultFont
	return fmt.Sprintf("body {\n  font-family: %s;\n  font-size: %s;\n  color: %s;\n}",
		fontFamilyValue(font.Family), font.Size, font.Color)
}

// elementRules emits one rule per styles entry, selectors sorted so
// output is stable across runs.
func (g *Generator) elementRules() []string {
	var rules []string
	for _, element := range slices.Sorted(maps.Keys(g.theme.Styles)) {
		rules = append(rules, elementRule(element, g.theme.Styles[element]))
	}
	return rules
}

// selectorFor maps a style element name to its CSS selector. Names are
// CSS element selectors already, except code_block which targets fenced
// code rendered as <code> inside <pre>.
func selectorFor(element string) string {
	if element == "code_block" {
		return "pre code"
	}
	return element
}

// elementRule serializes one property bag, properties sorted, semantic
// names converted underscore to hyphen.
func elementRule(element string, props map[string]string) string {
	var b strings.Builder
	b.WriteString(selectorFor(element))
	b.WriteString(" {\n")
	for _, prop := range slices.Sorted(maps.Keys(props)) {
		fmt.Fprintf(&b, "  %s: %s;\n", strings.ReplaceAll(prop, "_", "-"), props[prop])
	}
	b.WriteString("}")
	return b.String()
}

// cssString renders s as a double-quoted CSS string, escaping quotes,
// backslashes and newlines.
func cssString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	s = strings.ReplaceAll(s, "\n", `\A `)
	return `"` + s + `"`
}

// fontFamilyValue serializes a font family stack, each name quoted.
func fontFamilyValue(families []string) string {
	quoted := make([]string, len(families))
	for i, f := range families {
		quoted[i] = cssString(f)
	}
	return strings.Join(quoted, ", ")
}
