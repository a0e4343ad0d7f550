package mdpress

import (
	"context"
	"fmt"
	"html"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/avoll/go-mdpress/internal/fileutil"
	"github.com/avoll/go-mdpress/internal/hints"
	"github.com/avoll/go-mdpress/internal/pagemedia"
	"github.com/avoll/go-mdpress/internal/process"
	"github.com/avoll/go-mdpress/theme"
)

// pdfConverter abstracts HTML to PDF conversion to allow different backends.
type pdfConverter interface {
	ToPDF(ctx context.Context, htmlContent string, opts *pdfOptions) ([]byte, error)
	Close() error
}

// pdfRenderer abstracts PDF rendering from an HTML file to enable testing without a browser.
type pdfRenderer interface {
	RenderFromFile(ctx context.Context, filePath string, opts *pdfOptions) ([]byte, error)
}

// pdfOptions carries the theme-derived print settings for one job.
type pdfOptions struct {
	Page   theme.PageSetup
	Header *marginBoxContent // nil when the default header is empty
	Footer *marginBoxContent
}

// marginBoxContent is one resolved header or footer: its three content
// slots as segments plus the typography the box renders with.
type marginBoxContent struct {
	Left, Center, Right []pagemedia.Segment
	FontFamily          []string
	FontSize            string
	Color               string
}

// paperDimensions maps page size names to portrait width and height in
// inches, the unit PagePrintToPDF expects.
var paperDimensions = map[string][2]float64{
	"a3":      {11.69, 16.54},
	"a4":      {8.27, 11.69},
	"a5":      {5.83, 8.27},
	"letter":  {8.5, 11},
	"legal":   {8.5, 14},
	"tabloid": {11, 17},
}

// defaultMarginInches matches the theme default of 2cm.
const defaultMarginInches = 0.79

// cssLengthPattern matches "<number><unit>" page lengths.
var cssLengthPattern = regexp.MustCompile(`^([0-9]+(?:\.[0-9]+)?)(cm|mm|in|pt|px)$`)

// rodRenderer implements pdfRenderer using go-rod.
// Rod automatically downloads Chromium on first run if no binary is
// configured or found.
type rodRenderer struct {
	browser     *rod.Browser
	launch      *launcher.Launcher
	timeout     time.Duration
	browserPath string
	keepBrowser bool
}

// newRodRenderer creates a rodRenderer from converter configuration.
func newRodRenderer(cfg converterConfig) *rodRenderer {
	return &rodRenderer{
		timeout:     cfg.timeout,
		browserPath: cfg.browserPath,
		keepBrowser: cfg.keepBrowser,
	}
}

// ensureBrowser lazily launches and connects to the browser.
func (r *rodRenderer) ensureBrowser() error {
	if r.browser != nil {
		return nil
	}

	l := launcher.New()

	// Explicit path first, then environment, then rod's managed download.
	bin := r.browserPath
	if bin == "" {
		bin = os.Getenv("MDPRESS_BROWSER")
	}
	if bin == "" {
		bin = os.Getenv("ROD_BROWSER_BIN")
	}
	if bin != "" {
		if !fileutil.FileExists(bin) {
			return fmt.Errorf("%w: %s%s", ErrBrowserNotFound, bin, hints.ForBrowserConnect())
		}
		l = l.Bin(bin)
	}

	// Sandboxing fails in CI and most containers.
	if os.Getenv("CI") == "true" || os.Getenv("ROD_NO_SANDBOX") == "1" || bin != "" {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v%s", ErrBrowserConnect, err, hints.ForBrowserConnect())
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		return fmt.Errorf("%w: %v%s", ErrBrowserConnect, err, hints.ForBrowserConnect())
	}

	r.launch = l
	r.browser = browser
	return nil
}

// Close disconnects from the browser and kills its process group unless
// keepBrowser is set. The hard kill prevents orphaned Chromium helper
// processes when the websocket close does not reap them.
func (r *rodRenderer) Close() error {
	if r.browser == nil {
		return nil
	}

	err := r.browser.Close()
	r.browser = nil

	if r.launch != nil {
		if !r.keepBrowser {
			process.KillTree(r.launch.PID())
		}
		r.launch = nil
	}
	return err
}

// RenderFromFile opens a local HTML file in headless Chrome and renders it to PDF.
// Returns explicit errors instead of panicking when browser operations fail.
func (r *rodRenderer) RenderFromFile(ctx context.Context, filePath string, opts *pdfOptions) ([]byte, error) {
	// Check context before starting
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := r.ensureBrowser(); err != nil {
		return nil, err
	}

	page, err := r.browser.Page(proto.TargetCreateTarget{URL: "file://" + filePath})
	if err != nil {
		return nil, fmt.Errorf("%w: creating page: %v", ErrPDFConversion, err)
	}
	defer page.Close()

	// Wait for page load with the renderer timeout, tightened by any
	// context deadline.
	timeout := r.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return nil, context.DeadlineExceeded
		}
	}

	if err := page.Timeout(timeout).WaitLoad(); err != nil {
		return nil, fmt.Errorf("%w: loading page: %v", ErrPDFConversion, err)
	}

	// Check context after page load
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reader, err := page.PDF(buildPrintToPDF(opts))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFConversion, err)
	}

	pdfBuf, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrPDFConversion, err)
	}

	return pdfBuf, nil
}

// buildPrintToPDF constructs proto.PagePrintToPDF from the theme-derived
// options. PreferCSSPageSize lets the generated @page rule win where the
// renderer honors it; the explicit paper and margin values cover the rest.
func buildPrintToPDF(opts *pdfOptions) *proto.PagePrintToPDF {
	page := theme.Default().Page
	var header, footer *marginBoxContent
	if opts != nil {
		page = opts.Page
		header = opts.Header
		footer = opts.Footer
	}

	width, height := paperSize(page.Size)
	marginLeft := marginInches(page.Margin.Left)
	marginRight := marginInches(page.Margin.Right)

	pdfOpts := &proto.PagePrintToPDF{
		Landscape:         strings.EqualFold(page.Orientation, "landscape"),
		PaperWidth:        floatPtr(width),
		PaperHeight:       floatPtr(height),
		MarginTop:         floatPtr(marginInches(page.Margin.Top)),
		MarginBottom:      floatPtr(marginInches(page.Margin.Bottom)),
		MarginLeft:        floatPtr(marginLeft),
		MarginRight:       floatPtr(marginRight),
		PrintBackground:   true,
		PreferCSSPageSize: true,
	}

	// Chrome cannot evaluate Paged Media margin boxes, so any default
	// header/footer content is translated to Chrome's native print
	// templates instead. Both templates must be set once the flag is on,
	// or Chrome falls back to its own date/title furniture.
	if header != nil || footer != nil {
		pdfOpts.DisplayHeaderFooter = true
		pdfOpts.HeaderTemplate = marginBoxTemplate(header, marginLeft, marginRight)
		pdfOpts.FooterTemplate = marginBoxTemplate(footer, marginLeft, marginRight)
	}

	return pdfOpts
}

// paperSize returns the portrait dimensions for a page size name,
// defaulting to A4 for anything unknown.
func paperSize(name string) (width, height float64) {
	if dims, ok := paperDimensions[strings.ToLower(name)]; ok {
		return dims[0], dims[1]
	}
	dims := paperDimensions["a4"]
	return dims[0], dims[1]
}

// marginInches converts a CSS page length to inches, falling back to
// the default margin for values the pattern does not recognize. A bare
// "0" is a valid unitless length and converts to zero.
func marginInches(length string) float64 {
	length = strings.TrimSpace(length)
	if length == "0" {
		return 0
	}
	m := cssLengthPattern.FindStringSubmatch(length)
	if m == nil {
		return defaultMarginInches
	}
	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return defaultMarginInches
	}
	switch m[2] {
	case "cm":
		return value / 2.54
	case "mm":
		return value / 25.4
	case "pt":
		return value / 72
	case "px":
		return value / 96
	default: // in
		return value
	}
}

// marginBoxTemplate renders one header or footer as a Chrome print
// template: a flex row with left, center and right cells padded to the
// page margins.
func marginBoxTemplate(box *marginBoxContent, padLeft, padRight float64) string {
	if box == nil {
		return "<span></span>"
	}

	fontSize := box.FontSize
	if fontSize == "" {
		fontSize = theme.DefaultHeaderFooterFontSize
	}
	color := box.Color
	if color == "" {
		color = theme.DefaultHeaderFooterColor
	}

	style := fmt.Sprintf(
		"font-size:%s;color:%s;font-family:%s;width:100%%;display:flex;justify-content:space-between;padding:0 %.2fin 0 %.2fin;",
		fontSize, color, inlineFontFamily(box.FontFamily), padRight, padLeft)

	return fmt.Sprintf(
		`<div style="%s"><span>%s</span><span style="text-align:center">%s</span><span style="text-align:right">%s</span></div>`,
		style, segmentsHTML(box.Left), segmentsHTML(box.Center), segmentsHTML(box.Right))
}

// segmentsHTML translates resolved segments into Chrome's native print
// template markup. Literals are escaped text; the page-dependent CSS
// expressions map to Chrome's placeholder spans. Expressions with no
// Chrome equivalent are dropped.
func segmentsHTML(segments []pagemedia.Segment) string {
	var b strings.Builder
	for _, seg := range segments {
		if seg.Kind == pagemedia.SegmentLiteral {
			b.WriteString(html.EscapeString(seg.Text))
			continue
		}
		switch seg.Text {
		case "counter(page)":
			b.WriteString(`<span class="pageNumber"></span>`)
		case "counter(pages)":
			b.WriteString(`<span class="totalPages"></span>`)
		case "string(section-title)":
			// Chrome has no running-string support; its document title
			// placeholder is the closest stand-in.
			b.WriteString(`<span class="title"></span>`)
		}
	}
	return b.String()
}

// inlineFontFamily serializes a font stack for an inline style attribute,
// quoting multi-word names with single quotes.
func inlineFontFamily(families []string) string {
	if len(families) == 0 {
		families = theme.DefaultHeaderFooterFontFamily()
	}
	quoted := make([]string, 0, len(families))
	for _, f := range families {
		f = strings.ReplaceAll(f, `"`, "")
		if strings.Contains(f, " ") {
			f = "'" + f + "'"
		}
		quoted = append(quoted, f)
	}
	return strings.Join(quoted, ",")
}

// floatPtr returns a pointer to a float64 value.
func floatPtr(v float64) *float64 {
	return &v
}

// rodConverter converts HTML to PDF using headless Chrome via go-rod.
type rodConverter struct {
	renderer *rodRenderer
}

// newRodConverter creates a rodConverter with the production renderer.
func newRodConverter(cfg converterConfig) *rodConverter {
	return &rodConverter{
		renderer: newRodRenderer(cfg),
	}
}

// ToPDF writes the HTML to a temp file and renders it, so relative
// file:// asset URLs and large documents behave the same as user files.
func (c *rodConverter) ToPDF(ctx context.Context, htmlContent string, opts *pdfOptions) ([]byte, error) {
	tmpPath, cleanup, err := fileutil.WriteTempFile(htmlContent, "html")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFConversion, err)
	}
	defer cleanup()

	return c.renderer.RenderFromFile(ctx, tmpPath, opts)
}

// Close releases browser resources.
func (c *rodConverter) Close() error {
	if c.renderer != nil {
		return c.renderer.Close()
	}
	return nil
}
