package cv2pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-cv2pdf/internal/fileutil"
	"github.com/alnah/go-cv2pdf/internal/process"
)

// defaultWkhtmltopdf is looked up on PATH when no executable is configured.
const defaultWkhtmltopdf = "wkhtmltopdf"

// commandRunner abstracts command execution to enable testing without real subprocesses.
type commandRunner interface {
	Run(ctx context.Context, name string, args ...string) (stdout string, stderr string, err error)
}

// execRunner implements commandRunner using os/exec. The command runs in its
// own process group, killed as a whole when ctx is done.
type execRunner struct{}

func (r *execRunner) Run(ctx context.Context, name string, args ...string) (string, string, error) {
	cmd := exec.Command(name, args...) // #nosec G204 -- executable is user-configured
	process.SetProcessGroup(cmd)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	// A missing executable fails here with exec.ErrNotFound or os.ErrNotExist.
	if err := cmd.Start(); err != nil {
		return "", "", err
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	select {
	case err := <-done:
		return stdout.String(), stderr.String(), err
	case <-ctx.Done():
		process.KillProcessGroup(cmd.Process.Pid)
		<-done
		return stdout.String(), stderr.String(), ctx.Err()
	}
}

var _ pdfConverter = (*wkhtmltopdfConverter)(nil)

// wkhtmltopdfConverter renders PDFs with the wkhtmltopdf executable.
type wkhtmltopdfConverter struct {
	path    string
	timeout time.Duration
	runner  commandRunner
}

func newWkhtmltopdfConverter(path string, timeout time.Duration) *wkhtmltopdfConverter {
	return &wkhtmltopdfConverter{path: path, timeout: timeout, runner: &execRunner{}}
}

// executable returns the configured path or the default name.
func (c *wkhtmltopdfConverter) executable() string {
	if c.path != "" {
		return c.path
	}
	return defaultWkhtmltopdf
}

// ToPDF writes the HTML to a temp file and lets wkhtmltopdf render it to a
// second temp file, which is read back.
func (c *wkhtmltopdfConverter) ToPDF(ctx context.Context, htmlContent string, opts *pdfOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	exe := c.executable()

	inPath, cleanupIn, err := fileutil.WriteTempFile(htmlContent, "html")
	if err != nil {
		return nil, err
	}
	defer cleanupIn()

	outDir, err := os.MkdirTemp("", "cv2pdf-wk-")
	if err != nil {
		return nil, fmt.Errorf("creating temp dir: %w", err)
	}
	defer func() { _ = os.RemoveAll(outDir) }()
	outPath := filepath.Join(outDir, "out.pdf")

	runCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	args := append(buildWkhtmltopdfArgs(opts), inPath, outPath)
	_, stderr, err := c.runner.Run(runCtx, exe, args...)
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) || errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrExecutableNotFound, exe)
		}
		if ctxErr := runCtx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: wkhtmltopdf: %v: %s", ErrPDFGeneration, err, strings.TrimSpace(stderr))
	}

	pdf, err := os.ReadFile(outPath) // #nosec G304 -- path built in our temp dir
	if err != nil {
		return nil, fmt.Errorf("%w: reading wkhtmltopdf output: %v", ErrPDFGeneration, err)
	}
	return pdf, nil
}

// Close is a no-op: each conversion runs its own process.
func (c *wkhtmltopdfConverter) Close() error {
	return nil
}

// buildWkhtmltopdfArgs translates the layout options to command-line flags.
// wkhtmltopdf expands [page] and [topage] itself.
func buildWkhtmltopdfArgs(opts *pdfOptions) []string {
	page := DefaultPageSettings()
	var footer *footerData
	if opts != nil {
		if opts.Page != nil {
			page = opts.Page
		}
		footer = opts.Footer
	}

	args := []string{
		"--quiet",
		"--encoding", "UTF-8",
		"--enable-local-file-access",
		"--page-size", wkPageSize(page.Size),
		"--orientation", wkOrientation(page.Orientation),
		"--margin-top", cm(page.Margins.Top),
		"--margin-right", cm(page.Margins.Right),
		"--margin-bottom", cm(page.Margins.Bottom),
		"--margin-left", cm(page.Margins.Left),
	}

	if footer != nil {
		args = append(args, "--footer-"+footer.Position, footer.Text)
		if footer.Line {
			args = append(args, "--footer-line")
		}
		args = append(args, "--footer-font-size", strconv.Itoa(footer.FontSize))
	}
	return args
}

func wkPageSize(size string) string {
	switch strings.ToLower(size) {
	case PageSizeLetter:
		return "Letter"
	case PageSizeLegal:
		return "Legal"
	}
	return "A4"
}

func wkOrientation(o string) string {
	if strings.EqualFold(o, OrientationLandscape) {
		return "Landscape"
	}
	return "Portrait"
}

func cm(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "cm"
}
