package pipeline

import (
	"context"
	"net/url"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/avoll/go-mdpress/internal/fileutil"
)

// PathRewriter resolves relative asset references in rendered HTML.
type PathRewriter interface {
	RewritePaths(ctx context.Context, htmlContent, baseDir string) (string, error)
}

// rewritableAttr names the attribute to resolve per element. Only
// images and links are rewritten: media elements are useless in print,
// srcset is out of scope and script sources stay untouched on purpose.
var rewritableAttr = map[string]string{
	"img": "src",
	"a":   "href",
}

// RelativePathRewriter turns relative img src and a href paths into
// absolute file:// URLs. The rendered HTML is loaded into the browser
// from a temp file, so document-relative references would otherwise
// dangle. URLs, anchors, data URIs, absolute paths and anything
// resolving outside the document directory pass through unchanged.
type RelativePathRewriter struct{}

// RewritePaths resolves relative paths in htmlContent against baseDir.
// An empty baseDir disables rewriting.
func (r *RelativePathRewriter) RewritePaths(ctx context.Context, htmlContent, baseDir string) (string, error) {
	if baseDir == "" {
		return htmlContent, nil
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	base, err := filepath.Abs(baseDir)
	if err != nil {
		return "", err
	}

	root, fragment, err := parseDocument(htmlContent)
	if err != nil {
		return "", err
	}

	// Depth-first walk over the whole tree; visit order is irrelevant
	// since nodes are rewritten independently.
	stack := []*html.Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if n.Type == html.ElementNode {
			if attr, ok := rewritableAttr[n.Data]; ok {
				rewriteNodeAttr(n, attr, base)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			stack = append(stack, c)
		}
	}

	return renderDocument(root, fragment)
}

// rewriteNodeAttr replaces attr with a file:// URL when it holds a
// relative path that stays inside base.
func rewriteNodeAttr(n *html.Node, attr, base string) {
	for i := range n.Attr {
		if n.Attr[i].Key != attr {
			continue
		}
		if resolved, ok := resolveRelative(n.Attr[i].Val, base); ok {
			n.Attr[i].Val = resolved
		}
	}
}

// resolveRelative maps a document-relative path to a file:// URL.
// It reports false for values that must not be rewritten: empty
// strings, URLs, data URIs, protocol-relative references, anchors,
// absolute paths and paths that climb out of base.
func resolveRelative(val, base string) (string, bool) {
	switch {
	case val == "",
		fileutil.IsURL(val),
		strings.HasPrefix(val, "file://"),
		strings.HasPrefix(val, "data:"),
		strings.HasPrefix(val, "//"),
		strings.HasPrefix(val, "#"),
		filepath.IsAbs(val):
		return "", false
	}

	abs := filepath.Join(base, val)
	if !containsPath(base, abs) {
		return "", false
	}

	// url.URL percent-encodes spaces and reserved characters, and
	// ToSlash normalizes Windows separators.
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
	return u.String(), true
}

// containsPath reports whether abs sits at or below dir.
func containsPath(dir, abs string) bool {
	dir = filepath.Clean(dir)
	if !strings.HasSuffix(dir, string(filepath.Separator)) {
		dir += string(filepath.Separator)
	}
	return strings.HasPrefix(filepath.Clean(abs)+string(filepath.Separator), dir)
}

// parseDocument parses content as a full document when it opens with a
// doctype or <html> tag, and as a body fragment otherwise. The fragment
// flag tells renderDocument to skip the implicit wrapper elements.
func parseDocument(content string) (*html.Node, bool, error) {
	head := strings.ToLower(strings.TrimSpace(content))
	if strings.HasPrefix(head, "<!doctype") || strings.HasPrefix(head, "<html") {
		doc, err := html.Parse(strings.NewReader(content))
		return doc, false, err
	}

	body := &html.Node{Type: html.ElementNode, DataAtom: atom.Body, Data: "body"}
	nodes, err := html.ParseFragment(strings.NewReader(content), body)
	if err != nil {
		return nil, true, err
	}

	root := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		root.AppendChild(n)
	}
	return root, true, nil
}

// renderDocument serializes the tree. Fragments render child by child
// so no <html><body> wrapper appears around them.
func renderDocument(root *html.Node, fragment bool) (string, error) {
	var buf strings.Builder

	if !fragment {
		err := html.Render(&buf, root)
		return buf.String(), err
	}

	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}
