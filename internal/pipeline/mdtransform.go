package pipeline

import (
	"context"
	"regexp"
	"strings"
)

// Highlight placeholders sit in the Unicode Private Use Area so they
// cannot collide with document text, and Goldmark passes them through
// untouched. ConvertMarkPlaceholders swaps them for <mark> tags once
// the HTML exists, which keeps WithUnsafe off.
const (
	MarkStartPlaceholder = ""
	MarkEndPlaceholder   = ""
)

// lineEndings folds Windows and old-Mac endings into plain \n. The
// two-byte pattern is listed first so \r\n never becomes \n\n.
var lineEndings = strings.NewReplacer("\r\n", "\n", "\r", "\n")

var (
	// Runs of three or more newlines collapse to a single blank line.
	blankRunRE = regexp.MustCompile(`\n{3,}`)

	// ==text== highlight spans, non-greedy so adjacent spans stay apart.
	highlightRE = regexp.MustCompile(`==(.*?)==`)
)

// MarkdownPreprocessor normalizes raw Markdown before conversion.
type MarkdownPreprocessor interface {
	PreprocessMarkdown(ctx context.Context, content string) string
}

// CommonMarkPreprocessor prepares input for the CommonMark converter:
// it normalizes line endings, rewrites ==highlight== spans to
// placeholders and collapses excess blank lines.
type CommonMarkPreprocessor struct{}

// PreprocessMarkdown runs the normalization steps in order. A canceled
// context returns the content untouched; the converter surfaces the
// cancellation itself.
func (p *CommonMarkPreprocessor) PreprocessMarkdown(ctx context.Context, content string) string {
	if ctx.Err() != nil {
		return content
	}

	content = lineEndings.Replace(content)
	content = highlightRE.ReplaceAllString(content, MarkStartPlaceholder+"$1"+MarkEndPlaceholder)
	return blankRunRE.ReplaceAllString(content, "\n\n")
}

// ConvertMarkPlaceholders rewrites the placeholder runes to <mark>
// tags. Called on the rendered HTML as the second half of the
// ==highlight== feature.
func ConvertMarkPlaceholders(content string) string {
	return strings.ReplaceAll(
		strings.ReplaceAll(content, MarkStartPlaceholder, "<mark>"),
		MarkEndPlaceholder, "</mark>",
	)
}
