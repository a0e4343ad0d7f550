package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/avoll/go-mdpress/internal/blocks"
)

// ErrHTMLConversion indicates HTML conversion failed.
var ErrHTMLConversion = errors.New("HTML conversion failed")

// highlightStyle is the chroma style used for fenced code blocks.
// The converter emits class-based markup; HighlightCSS generates the
// matching stylesheet so the rendered document stays self-contained.
const highlightStyle = "github"

// htmlTemplate wraps Goldmark's fragment output in a complete HTML5 document.
// The placeholder title is replaced later by TitleInjection.
const htmlTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Document</title>
</head>
<body>
%s
</body>
</html>`

// HTMLConverter abstracts Markdown to HTML conversion.
// Warnings report recoverable component problems (unclosed fences,
// template failures) without failing the conversion.
type HTMLConverter interface {
	ToHTML(ctx context.Context, content string) (htmlDoc string, warnings []string, err error)
}

// GoldmarkConverter converts Markdown to HTML using goldmark (pure Go).
// Custom ::: component blocks are parsed and rendered through the
// registry supplied at construction time.
type GoldmarkConverter struct {
	md     goldmark.Markdown
	blocks *blocks.Extension
}

// NewGoldmarkConverter creates a GoldmarkConverter with GFM extensions,
// syntax highlighting, and custom component block support backed by registry.
func NewGoldmarkConverter(registry *blocks.Registry) *GoldmarkConverter {
	if registry == nil {
		registry = blocks.NewRegistry()
	}

	ext := blocks.NewExtension(registry)
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,      // Tables, strikethrough, autolinks, task lists
			extension.Footnote, // [^1] footnotes
			highlighting.NewHighlighting(
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(true), // CSS classes for smaller HTML and external stylesheet control
				),
			),
			ext,
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(), // Generate IDs for headings (anchors and section lookup)
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(), // Treat newlines as <br>
			html.WithXHTML(),     // Self-closing tags
			// Note: WithUnsafe() intentionally NOT used for security.
			// The ==highlight== feature uses placeholders converted after Goldmark.
		),
	)

	// Component bodies are re-parsed as markdown through the same instance,
	// so the extension learns about it only after construction.
	ext.SetMarkdown(md)

	return &GoldmarkConverter{md: md, blocks: ext}
}

// ToHTML converts Markdown content to a standalone HTML5 document.
// Supports context cancellation via goroutine + select pattern since
// Goldmark doesn't natively support context.
func (c *GoldmarkConverter) ToHTML(ctx context.Context, content string) (string, []string, error) {
	// Fast path: check context before starting
	if err := ctx.Err(); err != nil {
		return "", nil, err
	}

	type result struct {
		html     string
		warnings []string
		err      error
	}

	done := make(chan result, 1)

	go func() {
		var buf bytes.Buffer
		if err := c.md.Convert([]byte(content), &buf); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrHTMLConversion, err)}
			return
		}
		// Drain warnings inside the goroutine so a timed-out conversion
		// cannot leak them into the next document.
		done <- result{
			html:     fmt.Sprintf(htmlTemplate, buf.String()),
			warnings: c.blocks.TakeWarnings(),
		}
	}()

	select {
	case <-ctx.Done():
		return "", nil, ctx.Err()
	case r := <-done:
		return r.html, r.warnings, r.err
	}
}

// HighlightCSS returns the stylesheet for the code highlighting classes
// emitted by the converter. It belongs near the front of the CSS cascade
// so theme rules can still override individual token colors.
func HighlightCSS() (string, error) {
	formatter := chromahtml.New(chromahtml.WithClasses(true))

	var buf bytes.Buffer
	if err := formatter.WriteCSS(&buf, styles.Get(highlightStyle)); err != nil {
		return "", fmt.Errorf("generating highlight CSS: %w", err)
	}
	return buf.String(), nil
}
