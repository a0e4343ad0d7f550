package blocks

import (
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// KindBlock is the AST node kind for custom component blocks.
var KindBlock = ast.NewNodeKind("CustomBlock")

// Block is a parsed custom component block. Content lines are captured
// raw; the renderer decides whether to run them through Markdown again.
type Block struct {
	ast.BaseBlock

	// Name is the component name from the opening fence.
	Name string

	// Attrs holds key="value" attributes from the opening fence.
	Attrs map[string]string

	// Flags holds bare attribute words in source order. A flag is
	// distinct from an attribute with an empty value.
	Flags []string

	// Closed reports whether the terminating fence was seen. Unclosed
	// blocks render as literal text instead of a component.
	Closed bool

	// opener is the source range of the opening fence line, kept so an
	// unclosed block can reproduce its original text verbatim.
	opener text.Segment

	// depth tracks nested openers while scanning content, so an inner
	// block's closing fence does not terminate the outer block.
	depth int
}

// NewBlock creates a Block for the named component.
func NewBlock(name string) *Block {
	return &Block{Name: name, Attrs: map[string]string{}}
}

// Kind implements ast.Node.
func (n *Block) Kind() ast.NodeKind { return KindBlock }

// IsRaw tells goldmark not to parse the captured lines as Markdown;
// the renderer handles content conversion itself.
func (n *Block) IsRaw() bool { return true }

// Dump implements ast.Node.
func (n *Block) Dump(source []byte, level int) {
	m := map[string]string{
		"Name": n.Name,
	}
	ast.DumpHelper(n, source, level, m, nil)
}
