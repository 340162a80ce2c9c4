package cv2pdf

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/alnah/go-cv2pdf/internal/fileutil"
)

var _ pdfConverter = (*chromedpConverter)(nil)

// chromedpConverter renders PDFs with a headless Chrome driven by chromedp.
// The browser starts on the first ToPDF call and is reused until Close.
type chromedpConverter struct {
	timeout time.Duration

	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
}

func newChromedpConverter(timeout time.Duration) *chromedpConverter {
	return &chromedpConverter{timeout: timeout}
}

// ensureBrowser starts Chrome eagerly so launch failures map to
// ErrBrowserConnect rather than a page error.
func (c *chromedpConverter) ensureBrowser() error {
	if c.browserCtx != nil {
		return nil
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("no-first-run", true),
	)
	if bin := os.Getenv(browserBinEnv); bin != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(bin))
	}
	if disableSandbox() {
		allocOpts = append(allocOpts, chromedp.NoSandbox)
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	c.allocCancel = allocCancel
	c.browserCtx = browserCtx
	c.browserCancel = browserCancel
	return nil
}

// ToPDF loads the HTML from a temp file in a new tab and prints it.
func (c *chromedpConverter) ToPDF(ctx context.Context, htmlContent string, opts *pdfOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := c.ensureBrowser(); err != nil {
		return nil, err
	}

	tmpPath, cleanup, err := fileutil.WriteTempFile(htmlContent, "html")
	if err != nil {
		return nil, err
	}
	defer cleanup()

	tabCtx, tabCancel := chromedp.NewContext(c.browserCtx)
	defer tabCancel()

	// The tab lives under the browser context; the caller's ctx only bounds
	// this conversion.
	tabCtx, timeoutCancel := context.WithTimeout(tabCtx, c.timeout)
	defer timeoutCancel()
	stop := context.AfterFunc(ctx, tabCancel)
	defer stop()

	if err := chromedp.Run(tabCtx,
		chromedp.Navigate("file://"+tmpPath),
		chromedp.WaitReady("body", chromedp.ByQuery),
	); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	var buf []byte
	if err := chromedp.Run(tabCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		buf, _, err = buildChromedpParams(opts).Do(ctx)
		return err
	})); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}

	return buf, nil
}

// buildChromedpParams builds the cdproto print call.
func buildChromedpParams(opts *pdfOptions) *page.PrintToPDFParams {
	l := newChromeLayout(opts)
	params := page.PrintToPDF().
		WithPaperWidth(l.width).
		WithPaperHeight(l.height).
		WithMarginTop(l.top).
		WithMarginRight(l.right).
		WithMarginBottom(l.bottom).
		WithMarginLeft(l.left).
		WithLandscape(l.landscape).
		WithPrintBackground(true)

	if l.footer != "" {
		params = params.
			WithDisplayHeaderFooter(true).
			WithHeaderTemplate(emptyHeader).
			WithFooterTemplate(l.footer)
	}
	return params
}

// Close stops the browser. Close is idempotent.
func (c *chromedpConverter) Close() error {
	if c.browserCtx == nil {
		return nil
	}
	c.browserCancel()
	c.allocCancel()
	c.browserCtx = nil
	return nil
}
