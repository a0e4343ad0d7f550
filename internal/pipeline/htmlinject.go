package pipeline

import (
	"context"
	"html"
	"regexp"
	"strings"
)

// CSSInjector defines the contract for CSS injection into HTML.
type CSSInjector interface {
	InjectCSS(ctx context.Context, htmlContent, cssContent string) string
}

// CSSInjection injects CSS as a <style> block into HTML content.
type CSSInjection struct{}

// InjectCSS inserts a <style> block into HTML content.
// Tries </head> first, then <body>, then prepends to the HTML.
// CSS content is sanitized to prevent injection attacks.
func (s *CSSInjection) InjectCSS(ctx context.Context, htmlContent, cssContent string) string {
	if cssContent == "" {
		return htmlContent
	}

	// Check for cancellation
	if ctx.Err() != nil {
		return htmlContent
	}

	sanitizedCSS := sanitizeCSS(cssContent)
	styleBlock := "<style>" + sanitizedCSS + "</style>"
	lowerHTML := strings.ToLower(htmlContent)

	// Try inserting before </head>
	if idx := strings.Index(lowerHTML, "</head>"); idx != -1 {
		return htmlContent[:idx] + styleBlock + htmlContent[idx:]
	}

	// Try inserting after <body>
	if idx := strings.Index(lowerHTML, "<body"); idx != -1 {
		// Find the closing > of <body...>
		closeIdx := strings.Index(htmlContent[idx:], ">")
		if closeIdx != -1 {
			insertPos := idx + closeIdx + 1
			return htmlContent[:insertPos] + styleBlock + htmlContent[insertPos:]
		}
	}

	// Fallback: prepend
	return styleBlock + htmlContent
}

// sanitizeCSS escapes sequences that could break out of a <style> block.
// Prevents CSS injection by escaping </style> and similar closing sequences.
func sanitizeCSS(css string) string {
	// Escape </ sequences to prevent closing the style tag prematurely
	return strings.ReplaceAll(css, "</", `<\/`)
}

// titleTagPattern matches the document <title> element, attributes included.
var titleTagPattern = regexp.MustCompile(`(?is)<title[^>]*>.*?</title>`)

// TitleInjector defines the contract for setting the document title.
type TitleInjector interface {
	InjectTitle(ctx context.Context, htmlContent, title string) string
}

// TitleInjection replaces the document <title> with the resolved title.
// The title ends up in the PDF metadata, so the placeholder left by the
// HTML shell must be swapped before rendering.
type TitleInjection struct{}

// InjectTitle sets the document title. An existing <title> element is
// replaced; otherwise one is inserted before </head>. An empty title
// leaves the content unchanged.
func (t *TitleInjection) InjectTitle(ctx context.Context, htmlContent, title string) string {
	if title == "" {
		return htmlContent
	}

	// Check for cancellation
	if ctx.Err() != nil {
		return htmlContent
	}

	titleTag := "<title>" + html.EscapeString(title) + "</title>"

	if loc := titleTagPattern.FindStringIndex(htmlContent); loc != nil {
		return htmlContent[:loc[0]] + titleTag + htmlContent[loc[1]:]
	}

	// No title element: insert one before </head>
	if idx := strings.Index(strings.ToLower(htmlContent), "</head>"); idx != -1 {
		return htmlContent[:idx] + titleTag + htmlContent[idx:]
	}

	// No head either: a title outside <head> is meaningless, leave as is
	return htmlContent
}

// DocumentMeta holds document metadata for injection into the HTML head.
type DocumentMeta struct {
	Author string
	Date   string
}

// MetaInjector defines the contract for metadata tag injection.
type MetaInjector interface {
	InjectMeta(ctx context.Context, htmlContent string, meta DocumentMeta) string
}

// MetaInjection adds <meta> tags for document metadata.
type MetaInjection struct{}

// InjectMeta inserts meta tags for the fields set in meta before </head>.
// Content without a head section is returned unchanged, as is a call
// where every metadata field is empty.
func (m *MetaInjection) InjectMeta(ctx context.Context, htmlContent string, meta DocumentMeta) string {
	// Check for cancellation
	if ctx.Err() != nil {
		return htmlContent
	}

	var tags strings.Builder
	if meta.Author != "" {
		tags.WriteString(`<meta name="author" content="` + html.EscapeString(meta.Author) + `">`)
	}
	if meta.Date != "" {
		tags.WriteString(`<meta name="date" content="` + html.EscapeString(meta.Date) + `">`)
	}
	if tags.Len() == 0 {
		return htmlContent
	}

	if idx := strings.Index(strings.ToLower(htmlContent), "</head>"); idx != -1 {
		return htmlContent[:idx] + tags.String() + htmlContent[idx:]
	}

	return htmlContent
}
