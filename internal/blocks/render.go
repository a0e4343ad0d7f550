package blocks

import (
	"bytes"
	"fmt"
	"html"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

// nodeRenderer renders Block nodes to HTML. Rendering never fails the
// document: template errors fall back to the generic container and
// anything unparseable degrades to literal text.
type nodeRenderer struct {
	registry *Registry

	// md converts inner block content, making components nest. Set via
	// Extension.SetMarkdown after the goldmark instance exists.
	md goldmark.Markdown

	warnings []string
}

var _ renderer.NodeRenderer = (*nodeRenderer)(nil)

// RegisterFuncs implements renderer.NodeRenderer.
func (r *nodeRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindBlock, r.renderBlock)
}

func (r *nodeRenderer) renderBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	block := node.(*Block)

	if !block.Closed {
		r.warn("component %q: missing closing ::: fence, keeping literal text", block.Name)
		writeLiteral(w, block, source)
		return ast.WalkContinue, nil
	}

	content := r.renderContent(block, source)
	attrs := r.registry.MergedAttributes(block.Name, block.Attrs)

	if cfg, ok := r.registry.Lookup(block.Name); ok && cfg.Template != nil {
		rendered, err := r.renderTemplate(cfg, block, attrs, content)
		if err == nil {
			w.WriteString(rendered)
			return ast.WalkContinue, nil
		}
		r.warn("component %q: template render failed, using fallback: %v", block.Name, err)
	}

	writeFallback(w, block, attrs, content)
	return ast.WalkContinue, nil
}

// renderContent converts the captured lines back through Markdown after
// stripping their common indentation.
func (r *nodeRenderer) renderContent(block *Block, source []byte) template.HTML {
	raw := dedent(rawLines(block, source))
	if len(raw) == 0 {
		return ""
	}
	if r.md == nil {
		return template.HTML("<p>" + html.EscapeString(string(raw)) + "</p>\n")
	}
	var buf bytes.Buffer
	if err := r.md.Convert(raw, &buf); err != nil {
		r.warn("component %q: content conversion failed: %v", block.Name, err)
		return template.HTML("<p>" + html.EscapeString(string(raw)) + "</p>\n")
	}
	return template.HTML(buf.String())
}

func (r *nodeRenderer) renderTemplate(cfg ComponentConfig, block *Block, attrs map[string]string, content template.HTML) (string, error) {
	ctx := Context{
		Name:           block.Name,
		Content:        content,
		Attributes:     attrs,
		Flags:          block.Flags,
		Icon:           cfg.Icon,
		CSSClasses:     cssClasses(block.Name, attrs),
		DataAttributes: dataAttributes(attrs),
	}
	var buf bytes.Buffer
	if err := cfg.Template.Execute(&buf, ctx); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (r *nodeRenderer) warn(format string, args ...any) {
	r.warnings = append(r.warnings, fmt.Sprintf(format, args...))
}

// writeFallback emits the generic container that works for any
// component name: a div carrying the name as a class and the attributes
// as data-* pairs.
func writeFallback(w util.BufWriter, block *Block, attrs map[string]string, content template.HTML) {
	w.WriteString(`<div class="custom-block `)
	w.WriteString(html.EscapeString(block.Name))
	w.WriteString(`"`)
	w.WriteString(string(fallbackDataAttributes(attrs)))
	if len(block.Flags) > 0 {
		w.WriteString(` data-args="`)
		w.WriteString(html.EscapeString(strings.Join(block.Flags, " ")))
		w.WriteString(`"`)
	}
	w.WriteString(">\n")
	w.WriteString(string(content))
	w.WriteString("</div>\n")
}

// writeLiteral reproduces an unclosed block as the text the author
// wrote, fence line included.
func writeLiteral(w util.BufWriter, block *Block, source []byte) {
	text := strings.TrimRight(string(block.opener.Value(source)), "\n")
	if raw := strings.TrimRight(string(rawLines(block, source)), "\n"); raw != "" {
		text += "\n" + raw
	}
	w.WriteString("<p>")
	w.WriteString(html.EscapeString(text))
	w.WriteString("</p>\n")
}

// rawLines reassembles the captured source lines of a block.
func rawLines(block *Block, source []byte) []byte {
	var buf bytes.Buffer
	for i := 0; i < block.Lines().Len(); i++ {
		s := block.Lines().At(i)
		buf.Write(s.Value(source))
	}
	return buf.Bytes()
}

// dedent strips the common leading indentation of all non-blank lines,
// so indented block content does not turn into a code block when parsed
// again. The result is trimmed of surrounding blank space.
func dedent(raw []byte) []byte {
	lines := strings.Split(string(raw), "\n")

	minIndent := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		indent := len(line) - len(strings.TrimLeft(line, " \t"))
		if minIndent < 0 || indent < minIndent {
			minIndent = indent
		}
	}

	if minIndent > 0 {
		for i, line := range lines {
			if len(line) >= minIndent {
				lines[i] = line[minIndent:]
			} else {
				lines[i] = strings.TrimLeft(line, " \t")
			}
		}
	}

	return []byte(strings.TrimSpace(strings.Join(lines, "\n")))
}
