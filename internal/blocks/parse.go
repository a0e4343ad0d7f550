package blocks

import (
	"regexp"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

var (
	// fenceOpenPattern matches ":::name" with an optional attribute
	// list, e.g. `:::tip_box color="blue" compact`.
	fenceOpenPattern = regexp.MustCompile(`^[ \t]{0,3}:::(\w+)(?:[ \t]+(.*))?$`)

	// fenceClosePattern matches a bare ":::" terminator line.
	fenceClosePattern = regexp.MustCompile(`^[ \t]*:::$`)
)

// blockParser parses ":::name ... :::" fences into Block nodes.
type blockParser struct{}

var defaultBlockParser = &blockParser{}

var _ parser.BlockParser = (*blockParser)(nil)

func (p *blockParser) Trigger() []byte {
	return []byte{':'}
}

func (p *blockParser) Open(parent ast.Node, reader text.Reader, pc parser.Context) (ast.Node, parser.State) {
	line, segment := reader.PeekLine()
	m := fenceOpenPattern.FindSubmatch(util.TrimRightSpace(line))
	if m == nil {
		return nil, parser.NoChildren
	}

	attrs, flags, err := parseAttributes(string(m[2]))
	if err != nil {
		// Malformed attributes: leave the line to the paragraph parser.
		return nil, parser.NoChildren
	}

	node := NewBlock(string(m[1]))
	node.Attrs = attrs
	node.Flags = flags
	node.opener = segment
	reader.Advance(segment.Len() - 1)
	return node, parser.NoChildren
}

func (p *blockParser) Continue(node ast.Node, reader text.Reader, pc parser.Context) parser.State {
	block := node.(*Block)
	line, segment := reader.PeekLine()
	trimmed := util.TrimRightSpace(line)

	if fenceClosePattern.Match(trimmed) && block.depth == 0 {
		block.Closed = true
		newline := 1
		if len(line) > 0 && line[len(line)-1] != '\n' {
			newline = 0
		}
		reader.Advance(segment.Len() - newline)
		return parser.Close
	}

	// Track nesting so an inner block's terminator does not close the
	// outer block. Both lines stay in the raw content and are resolved
	// when the content is parsed again. Only openers the recursive
	// parse would accept count, so depth stays balanced.
	switch {
	case fenceClosePattern.Match(trimmed):
		block.depth--
	case opensBlock(trimmed):
		block.depth++
	}

	block.Lines().Append(segment)
	reader.Advance(segment.Len() - 1)
	return parser.Continue | parser.NoChildren
}

func (p *blockParser) Close(node ast.Node, reader text.Reader, pc parser.Context) {
}

// opensBlock reports whether a content line would start a nested block
// when parsed again, attribute validity included.
func opensBlock(trimmed []byte) bool {
	m := fenceOpenPattern.FindSubmatch(trimmed)
	if m == nil {
		return false
	}
	_, _, err := parseAttributes(string(m[2]))
	return err == nil
}

func (p *blockParser) CanInterruptParagraph() bool {
	return true
}

func (p *blockParser) CanAcceptIndentedLine() bool {
	return false
}
