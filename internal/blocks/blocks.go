// Package blocks extends goldmark with the custom component syntax:
//
//	:::tip_box color="blue" compact
//	Any **Markdown** content, including nested components.
//	:::
//
// A component renders through the template registered for its name when
// the theme provides one, and otherwise through a generic container, so
// any name works with zero configuration. Content is captured raw at
// parse time and converted recursively at render time. Malformed input
// degrades to literal text instead of failing the document.
package blocks

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

// Extension wires the component parser and renderer into a goldmark
// instance. Build it per document, since the registry comes from the
// theme and warnings accumulate on it.
type Extension struct {
	renderer *nodeRenderer
}

var _ goldmark.Extender = (*Extension)(nil)

// NewExtension creates the extension around a component registry.
func NewExtension(registry *Registry) *Extension {
	return &Extension{renderer: &nodeRenderer{registry: registry}}
}

// Extend implements goldmark.Extender.
func (e *Extension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithBlockParsers(
		util.Prioritized(defaultBlockParser, 799),
	))
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(e.renderer, 500),
	))
}

// SetMarkdown hands the extension the converter used for inner block
// content. It is a separate step because the goldmark instance cannot
// exist before the extension it includes; pass the same instance the
// extension was registered on to let components nest.
func (e *Extension) SetMarkdown(md goldmark.Markdown) {
	e.renderer.md = md
}

// TakeWarnings returns the warnings collected since the last call and
// resets the list. Call it after each document conversion.
func (e *Extension) TakeWarnings() []string {
	w := e.renderer.warnings
	e.renderer.warnings = nil
	return w
}
