package cv2pdf

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/alnah/go-cv2pdf/internal/dateutil"
)

// pdfConverter abstracts HTML to PDF conversion to allow different backends.
type pdfConverter interface {
	ToPDF(ctx context.Context, htmlContent string, opts *pdfOptions) ([]byte, error)
	Close() error
}

// pdfOptions holds resolved layout options shared by every backend.
type pdfOptions struct {
	Page   *PageSettings // never nil
	Footer *footerData   // nil = no footer
}

// footerData is a Footer with its date resolved and defaults applied.
type footerData struct {
	Text     string
	Position string
	FontSize int
	Line     bool
}

// Paper dimensions in inches, portrait.
var paperSizes = map[string]struct{ width, height float64 }{
	PageSizeA4:     {8.27, 11.69},
	PageSizeLetter: {8.5, 11},
	PageSizeLegal:  {8.5, 14},
}

const cmPerInch = 2.54

// footerFontFamily is the font stack for Chrome footers.
const footerFontFamily = "'Helvetica Neue', Arial, sans-serif"

func cmToInches(cm float64) float64 {
	return cm / cmPerInch
}

// paperDimensions returns width and height in inches for the page size.
// Chrome applies the orientation itself.
func paperDimensions(p *PageSettings) (width, height float64) {
	dims, ok := paperSizes[strings.ToLower(p.Size)]
	if !ok {
		dims = paperSizes[PageSizeA4]
	}
	return dims.width, dims.height
}

func isLandscape(p *PageSettings) bool {
	return strings.EqualFold(p.Orientation, OrientationLandscape)
}

// newPDFOptions applies page defaults and resolves the footer date.
func newPDFOptions(page *PageSettings, footer *Footer, now time.Time) (*pdfOptions, error) {
	if page == nil {
		page = DefaultPageSettings()
	}
	fd, err := toFooterData(footer, now)
	if err != nil {
		return nil, err
	}
	return &pdfOptions{Page: page, Footer: fd}, nil
}

// toFooterData converts the public Footer type. The resolved date and the
// text are joined with " - ". A footer with neither is dropped.
func toFooterData(f *Footer, now time.Time) (*footerData, error) {
	if f == nil {
		return nil, nil
	}

	date, err := dateutil.ResolveDate(f.Date, now)
	if err != nil {
		return nil, fmt.Errorf("footer date: %w", err)
	}

	var parts []string
	for _, p := range []string{date, f.Text} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return nil, nil
	}

	position := strings.ToLower(f.Position)
	if position == "" {
		position = "right"
	}
	size := f.FontSize
	if size == 0 {
		size = DefaultFooterFontSize
	}

	return &footerData{
		Text:     strings.Join(parts, " - "),
		Position: position,
		FontSize: size,
		Line:     f.Line,
	}, nil
}

// buildFooterTemplate generates an HTML template for Chrome's native footer.
// [page] and [topage] become the pageNumber and totalPages placeholders.
// Horizontal padding follows the page margins so the footer lines up with
// the content.
func buildFooterTemplate(data *footerData, margins Margins) string {
	if data == nil {
		return "<span></span>"
	}

	content := html.EscapeString(data.Text)
	content = strings.ReplaceAll(content, TokenPage, `<span class="pageNumber"></span>`)
	content = strings.ReplaceAll(content, TokenToPage, `<span class="totalPages"></span>`)

	rule := ""
	if data.Line {
		rule = " border-top: 0.5pt solid #888; padding-top: 3pt;"
	}

	return fmt.Sprintf(
		`<div style="width: 100%%; box-sizing: border-box; padding: 0 %.2fcm 0 %.2fcm; font-size: %dpt; font-family: %s; color: #555;">`+
			`<div style="text-align: %s;%s">%s</div></div>`,
		margins.Left, margins.Right, data.FontSize, footerFontFamily, data.Position, rule, content)
}

// chromeLayout is pdfOptions in the units of Chrome's Page.printToPDF:
// inches, with an empty footer template meaning no header or footer.
type chromeLayout struct {
	landscape                bool
	width, height            float64
	top, right, bottom, left float64
	footer                   string
}

// emptyHeader suppresses Chrome's default title and URL header.
const emptyHeader = "<span></span>"

func newChromeLayout(opts *pdfOptions) chromeLayout {
	pg := DefaultPageSettings()
	var footer *footerData
	if opts != nil {
		if opts.Page != nil {
			pg = opts.Page
		}
		footer = opts.Footer
	}

	width, height := paperDimensions(pg)
	m := pg.Margins
	l := chromeLayout{
		landscape: isLandscape(pg),
		width:     width,
		height:    height,
		top:       cmToInches(m.Top),
		right:     cmToInches(m.Right),
		bottom:    cmToInches(m.Bottom),
		left:      cmToInches(m.Left),
	}
	if footer != nil {
		l.footer = buildFooterTemplate(footer, m)
	}
	return l
}

// newPDFConverter creates the converter for the configured backend.
// Browsers and executables are only touched on the first ToPDF call.
func newPDFConverter(cfg converterConfig) (pdfConverter, error) {
	switch cfg.backend {
	case "", BackendRod:
		return newRodConverter(cfg.timeout), nil
	case BackendChromedp:
		return newChromedpConverter(cfg.timeout), nil
	case BackendWkhtmltopdf:
		return newWkhtmltopdfConverter(cfg.wkhtmltopdfPath, cfg.timeout), nil
	}
	return nil, cfg.backend.Validate()
}
