package cv2pdf

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-cv2pdf/internal/fileutil"
	"github.com/alnah/go-cv2pdf/internal/process"
)

// browserBinEnv names a pre-installed Chrome binary. Both Chrome backends
// honor it.
const browserBinEnv = "ROD_BROWSER_BIN"

// noSandboxEnv set to "1" disables the Chrome sandbox.
const noSandboxEnv = "ROD_NO_SANDBOX"

// disableSandbox reports whether Chrome must run without its sandbox:
// in CI, with a pre-installed binary (Docker images), or on request.
func disableSandbox() bool {
	return os.Getenv("CI") == "true" ||
		os.Getenv(browserBinEnv) != "" ||
		os.Getenv(noSandboxEnv) == "1"
}

// pdfRenderer prints a local HTML file. rodConverter delegates to it so
// tests can run without a browser.
type pdfRenderer interface {
	RenderFromFile(ctx context.Context, filePath string, opts *pdfOptions) ([]byte, error)
}

var _ pdfRenderer = (*rodRenderer)(nil)

// rodRenderer drives headless Chrome through go-rod. Without
// ROD_BROWSER_BIN, rod downloads a Chromium build on first use.
type rodRenderer struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	timeout  time.Duration
}

func newRodRenderer(timeout time.Duration) *rodRenderer {
	return &rodRenderer{timeout: timeout}
}

// connect launches Chrome once and keeps it for later résumés.
func (r *rodRenderer) connect() error {
	if r.browser != nil {
		return nil
	}

	l := launcher.New().NoSandbox(disableSandbox())
	if bin := os.Getenv(browserBinEnv); bin != "" {
		l = l.Bin(bin)
	}
	controlURL, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	r.launcher = l

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		r.killLauncher()
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	r.browser = browser
	return nil
}

// Close disconnects and then kills the Chrome process group, which also
// takes down renderer and GPU helpers.
func (r *rodRenderer) Close() error {
	var err error
	if r.browser != nil {
		err = r.browser.Close()
		r.browser = nil
	}
	r.killLauncher()
	return err
}

func (r *rodRenderer) killLauncher() {
	if r.launcher == nil {
		return
	}
	if pid := r.launcher.PID(); pid > 0 {
		process.KillProcessGroup(pid)
	}
	r.launcher.Kill()
	r.launcher = nil
}

// RenderFromFile opens filePath in a new tab and prints it. The tab is
// bound to ctx, and loading is further bounded by the renderer timeout.
func (r *rodRenderer) RenderFromFile(ctx context.Context, filePath string, opts *pdfOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := r.connect(); err != nil {
		return nil, err
	}

	tab, err := r.browser.Page(proto.TargetCreateTarget{URL: "file://" + filePath})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer tab.Close()
	tab = tab.Context(ctx)

	if err := tab.Timeout(r.timeout).WaitLoad(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	stream, err := tab.PDF(buildRodPDFOptions(opts))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}
	pdf, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
	}
	return pdf, nil
}

// buildRodPDFOptions builds the rod print call.
func buildRodPDFOptions(opts *pdfOptions) *proto.PagePrintToPDF {
	l := newChromeLayout(opts)
	req := &proto.PagePrintToPDF{
		Landscape:       l.landscape,
		PaperWidth:      &l.width,
		PaperHeight:     &l.height,
		MarginTop:       &l.top,
		MarginRight:     &l.right,
		MarginBottom:    &l.bottom,
		MarginLeft:      &l.left,
		PrintBackground: true,
	}
	if l.footer != "" {
		req.DisplayHeaderFooter = true
		req.HeaderTemplate = emptyHeader
		req.FooterTemplate = l.footer
	}
	return req
}

// rodConverter is the default backend.
type rodConverter struct {
	renderer pdfRenderer
	closer   io.Closer
}

func newRodConverter(timeout time.Duration) *rodConverter {
	r := newRodRenderer(timeout)
	return &rodConverter{renderer: r, closer: r}
}

// ToPDF goes through a temp file so that file:// asset URLs resolve the
// same way they do when the résumé is opened from disk.
func (c *rodConverter) ToPDF(ctx context.Context, htmlContent string, opts *pdfOptions) ([]byte, error) {
	path, cleanup, err := fileutil.WriteTempFile(htmlContent, "html")
	if err != nil {
		return nil, err
	}
	defer cleanup()

	return c.renderer.RenderFromFile(ctx, path, opts)
}

func (c *rodConverter) Close() error {
	if c.closer == nil {
		return nil
	}
	return c.closer.Close()
}
