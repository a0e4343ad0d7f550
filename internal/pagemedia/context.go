// Package pagemedia resolves header and footer template variables into
// CSS Paged Media content values.
//
// Theme header and footer text may reference variables like
// {page_number} or {section_title}. Page numbers and section titles are
// only known once the PDF renderer lays out pages, so those variables
// resolve to CSS counter() and string() expressions evaluated at layout
// time. Dates and document metadata are known up front and resolve to
// literal text. A resolved template is a sequence of Segment values, a
// tagged union of the two cases, serialized by ContentValue.
package pagemedia

import (
	"html"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/avoll/go-mdpress/internal/dateutil"
)

// Context carries the per-document values available to header and
// footer variables. Build one per conversion job with ExtractContext.
type Context struct {
	Title    string    // first H1 text, falling back to the <title> element
	Author   string    // <meta name="author"> content
	Date     string    // display date, "August 2026" style
	Year     string    // four-digit year
	Sections []Section // top-level H1 sections in document order
}

// Section is one top-level heading of the document. The running
// {section_title} header resolves per page at layout time; the section
// list is for callers that need the document outline up front.
type Section struct {
	Title string
	ID    string // heading anchor id, may be empty
}

// Patterns for metadata extraction. Headings may carry id attributes
// and inline markup; both are handled.
var (
	firstH1Pattern    = regexp.MustCompile(`(?is)<h1[^>]*>(.*?)</h1>`)
	h1IDPattern       = regexp.MustCompile(`(?i)<h1[^>]*\bid=["']([^"']*)["']`)
	titleTagPattern   = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	authorMetaPattern = regexp.MustCompile(`(?i)<meta\s+name=["']author["']\s+content=["']([^"']*)["']`)
	htmlTagPattern    = regexp.MustCompile(`<[^>]*>`)
)

// displayDateLayout is the Go time layout for the {date} variable.
// The shared format constant is fixed, so conversion cannot fail.
var displayDateLayout = func() string {
	layout, err := dateutil.ParseDateFormat(dateutil.DisplayDateFormat)
	if err != nil {
		return "January 2006"
	}
	return layout
}()

// ExtractContext pulls document metadata out of rendered HTML.
// The title comes from the first H1 with non-empty text, falling back
// to the <title> element. now supplies the clock for {date} and {year}
// so callers can pin it in tests.
func ExtractContext(htmlContent string, now time.Time) *Context {
	ctx := &Context{
		Date: now.Format(displayDateLayout),
		Year: strconv.Itoa(now.Year()),
	}

	for _, m := range firstH1Pattern.FindAllStringSubmatch(htmlContent, -1) {
		title := stripHTMLTags(m[1])
		if title == "" {
			continue
		}
		section := Section{Title: title}
		if id := h1IDPattern.FindStringSubmatch(m[0]); id != nil {
			section.ID = id[1]
		}
		ctx.Sections = append(ctx.Sections, section)
	}

	if len(ctx.Sections) > 0 {
		ctx.Title = ctx.Sections[0].Title
	} else if m := titleTagPattern.FindStringSubmatch(htmlContent); m != nil {
		ctx.Title = stripHTMLTags(m[1])
	}
	if m := authorMetaPattern.FindStringSubmatch(htmlContent); m != nil {
		ctx.Author = strings.TrimSpace(m[1])
	}

	return ctx
}

// stripHTMLTags removes HTML tags from a string, decodes HTML entities,
// and trims whitespace. Decoding is needed so the text is not
// double-encoded when it is later escaped into CSS or HTML output.
func stripHTMLTags(s string) string {
	s = htmlTagPattern.ReplaceAllString(s, "")
	s = html.UnescapeString(s)
	return strings.TrimSpace(s)
}
