package css

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/avoll/go-mdpress/internal/pagemedia"
	"github.com/avoll/go-mdpress/theme"
)

// pageRules emits the base @page rule followed by one @page rule per
// named header/footer configuration, with a .page-<name> class after
// each named rule so HTML content can opt into it. The bool result
// reports whether any slot referenced {section_title}, which tells
// Generate to emit the capture scaffolding.
func (g *Generator) pageRules() ([]string, bool, []string) {
	var blocks []string
	var warnings []string
	usesSectionTitle := false

	for _, name := range g.pageNames() {
		header := g.theme.Headers[name]
		footer := g.theme.Footers[name]

		// A named page with no content has nothing to declare. The base
		// rule always emits: it carries size and margin.
		if name != "default" && header.Empty() && footer.Empty() {
			continue
		}

		block, uses, warns := g.pageRule(name, header, footer)
		blocks = append(blocks, block)
		usesSectionTitle = usesSectionTitle || uses
		warnings = append(warnings, warns...)

		if name != "default" {
			blocks = append(blocks, fmt.Sprintf(".page-%s {\n  page: %s;\n}", name, name))
		}
	}

	return blocks, usesSectionTitle, warnings
}

// pageNames returns "default" first, then the remaining header and
// footer names sorted.
func (g *Generator) pageNames() []string {
	set := map[string]bool{"default": true}
	for name := range g.theme.Headers {
		set[name] = true
	}
	for name := range g.theme.Footers {
		set[name] = true
	}

	names := []string{"default"}
	for _, name := range slices.Sorted(maps.Keys(set)) {
		if name != "default" {
			names = append(names, name)
		}
	}
	return names
}

// pageRule builds one @page block. The base rule carries size and
// margin; named rules only add margin boxes and inherit the rest per
// the CSS Paged Media cascade.
func (g *Generator) pageRule(name string, header, footer theme.HeaderFooter) (string, bool, []string) {
	var sections []string
	var warnings []string
	usesSectionTitle := false

	if name == "default" {
		sections = append(sections, fmt.Sprintf("  size: %s;\n  margin: %s;",
			pageSize(g.theme.Page), marginValue(g.theme.Page.Margin)))
	}

	appendBoxes := func(section string, hf theme.HeaderFooter, top bool) {
		if hf.Empty() {
			return
		}
		boxes, uses, warns := g.marginBoxes(section, name, hf, top)
		sections = append(sections, boxes...)
		usesSectionTitle = usesSectionTitle || uses
		warnings = append(warnings, warns...)
	}
	appendBoxes("page_headers", header, true)
	appendBoxes("page_footers", footer, false)

	selector := "@page"
	if name != "default" {
		selector += " " + name
	}
	return selector + " {\n" + strings.Join(sections, "\n\n") + "\n}", usesSectionTitle, warnings
}

// marginBoxes emits the margin box blocks for one header (top true) or
// footer (top false). The line separator renders as a border on the
// center box, with or without content there. Warnings carry the config
// path, e.g. "page_footers.default.center".
func (g *Generator) marginBoxes(section, name string, hf theme.HeaderFooter, top bool) ([]string, bool, []string) {
	prefix := "@bottom-"
	if top {
		prefix = "@top-"
	}
	slots := []struct {
		key      string
		template string
	}{
		{"left", hf.Left},
		{"center", hf.Center},
		{"right", hf.Right},
	}

	separator := ""
	if hf.LineSeparator {
		if top {
			separator = fmt.Sprintf("    border-bottom: 1px solid %s;\n    padding-bottom: 5px;\n", hf.LineColor)
		} else {
			separator = fmt.Sprintf("    border-top: 1px solid %s;\n    padding-top: 5px;\n", hf.LineColor)
		}
	}

	var blocks []string
	var warnings []string
	usesSectionTitle := false

	for _, s := range slots {
		isCenter := s.key == "center"
		if s.template == "" && !(isCenter && separator != "") {
			continue
		}

		var b strings.Builder
		fmt.Fprintf(&b, "  %s%s {\n", prefix, s.key)
		if s.template != "" {
			segments, warns := g.resolver.Resolve(s.template, g.ctx)
			for _, w := range warns {
				warnings = append(warnings, fmt.Sprintf("%s.%s.%s: %s", section, name, s.key, w))
			}
			usesSectionTitle = usesSectionTitle || pagemedia.References(segments, "section_title")

			fmt.Fprintf(&b, "    content: %s;\n", pagemedia.ContentValue(segments))
			fmt.Fprintf(&b, "    font-family: %s;\n", fontFamilyValue(hf.FontFamily))
			fmt.Fprintf(&b, "    font-size: %s;\n", hf.FontSize)
			fmt.Fprintf(&b, "    color: %s;\n", hf.Color)
		}
		if isCenter {
			b.WriteString(separator)
		}
		b.WriteString("  }")
		blocks = append(blocks, b.String())
	}

	return blocks, usesSectionTitle, warnings
}

// pageSize renders the @page size value; landscape is appended per CSS
// Paged Media, portrait being the default.
func pageSize(p theme.PageSetup) string {
	if p.Orientation == "landscape" {
		return p.Size + " landscape"
	}
	return p.Size
}

// marginValue collapses a uniform margin to a single value, otherwise
// emits all four sides in top right bottom left order.
func marginValue(m theme.Margin) string {
	if m.Top == m.Right && m.Top == m.Bottom && m.Top == m.Left {
		return m.Top
	}
	return fmt.Sprintf("%s %s %s %s", m.Top, m.Right, m.Bottom, m.Left)
}
