package pagemedia

import (
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strings"
)

// SegmentKind distinguishes literal text from CSS expressions in a
// resolved header/footer template.
type SegmentKind int

const (
	// SegmentLiteral is plain text, quoted and escaped when serialized.
	SegmentLiteral SegmentKind = iota
	// SegmentExpression is a raw CSS fragment such as counter(page),
	// emitted without quoting.
	SegmentExpression
)

// Segment is one piece of a resolved template. Variable records the
// source variable name when the segment came from a {variable} token;
// it is empty for plain text runs and for unknown tokens kept verbatim.
type Segment struct {
	Kind     SegmentKind
	Text     string
	Variable string
}

// VariableFunc produces the segment for one template variable.
type VariableFunc func(ctx *Context) Segment

// variablePattern matches {variable_name} tokens in templates.
var variablePattern = regexp.MustCompile(`\{([^}]+)\}`)

// Resolver substitutes {variable} tokens in header/footer templates.
//
// Page-dependent variables (page_number, total_pages, section_title)
// resolve to CSS expressions the renderer evaluates per page; document
// metadata (document_title, date, year) resolves to literal text.
// Register extends the builtin set with custom variables.
//
// Configure a Resolver before use; Register is not safe to call
// concurrently with Resolve.
type Resolver struct {
	vars map[string]VariableFunc
}

// NewResolver creates a Resolver with the builtin variables registered.
func NewResolver() *Resolver {
	r := &Resolver{vars: make(map[string]VariableFunc)}

	r.Register("page_number", func(*Context) Segment {
		return Segment{Kind: SegmentExpression, Text: "counter(page)"}
	})
	r.Register("total_pages", func(*Context) Segment {
		return Segment{Kind: SegmentExpression, Text: "counter(pages)"}
	})
	r.Register("section_title", func(*Context) Segment {
		return Segment{Kind: SegmentExpression, Text: "string(section-title)"}
	})
	r.Register("document_title", func(ctx *Context) Segment {
		return Segment{Kind: SegmentLiteral, Text: ctx.Title}
	})
	r.Register("date", func(ctx *Context) Segment {
		return Segment{Kind: SegmentLiteral, Text: ctx.Date}
	})
	r.Register("year", func(ctx *Context) Segment {
		return Segment{Kind: SegmentLiteral, Text: ctx.Year}
	})

	return r
}

// Register adds or replaces a variable resolver. The name is the bare
// variable name without braces.
func (r *Resolver) Register(name string, fn VariableFunc) {
	r.vars[name] = fn
}

// Names returns the registered variable names in alphabetical order.
func (r *Resolver) Names() []string {
	return slices.Sorted(maps.Keys(r.vars))
}

// Resolve splits template into segments, substituting each known
// {variable} token. Whitespace around the variable name is ignored.
// Unknown variables stay in the output verbatim and produce a warning
// instead of failing the job.
func (r *Resolver) Resolve(template string, ctx *Context) ([]Segment, []string) {
	if template == "" {
		return nil, nil
	}

	var segments []Segment
	var warnings []string

	last := 0
	for _, loc := range variablePattern.FindAllStringSubmatchIndex(template, -1) {
		if run := template[last:loc[0]]; run != "" {
			segments = append(segments, Segment{Kind: SegmentLiteral, Text: run})
		}
		last = loc[1]

		token := template[loc[0]:loc[1]]
		name := strings.TrimSpace(template[loc[2]:loc[3]])

		fn, ok := r.vars[name]
		if !ok {
			segments = append(segments, Segment{Kind: SegmentLiteral, Text: token})
			warnings = append(warnings, fmt.Sprintf("unknown variable %q", name))
			continue
		}

		seg := fn(ctx)
		seg.Variable = name
		segments = append(segments, seg)
	}
	if run := template[last:]; run != "" {
		segments = append(segments, Segment{Kind: SegmentLiteral, Text: run})
	}

	return segments, warnings
}

// References reports whether any segment came from the named variable.
func References(segments []Segment, name string) bool {
	for _, seg := range segments {
		if seg.Variable == name {
			return true
		}
	}
	return false
}

// ContentValue serializes segments as a CSS content property value.
// Literals become escaped double-quoted strings, with adjacent literals
// coalesced into one; expressions are emitted raw. The pieces are
// space-joined per CSS content concatenation rules. An empty segment
// list yields `""`.
func ContentValue(segments []Segment) string {
	var parts []string
	var lit strings.Builder

	flush := func() {
		if lit.Len() > 0 {
			parts = append(parts, quoteCSSString(lit.String()))
			lit.Reset()
		}
	}

	for _, seg := range segments {
		switch seg.Kind {
		case SegmentExpression:
			flush()
			parts = append(parts, seg.Text)
		default:
			lit.WriteString(seg.Text)
		}
	}
	flush()

	if len(parts) == 0 {
		return `""`
	}
	return strings.Join(parts, " ")
}

// quoteCSSString wraps s in double quotes, escaping quotes, backslashes
// and newlines per CSS string syntax.
func quoteCSSString(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\A `)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
