// Package pipeline implements the Markdown-to-HTML conversion stages.
//
// A document flows through the stages in order:
//   - Markdown preprocessing (line normalization, ==highlight== syntax)
//   - Markdown to HTML conversion via Goldmark, including custom
//     ::: component blocks and syntax highlighting
//   - CSS injection into the HTML head
//   - Document title and metadata injection
//   - Relative asset path rewriting for browser rendering
//
// PDF generation is handled separately by the root mdpress package using
// headless Chrome (go-rod). This separation keeps the pipeline focused on
// document structure and content, while PDF rendering handles page layout,
// margins, and browser-based rendering concerns.
package pipeline
