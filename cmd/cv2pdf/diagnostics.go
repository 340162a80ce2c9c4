package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	cv2pdf "github.com/alnah/go-cv2pdf"
	"github.com/alnah/go-cv2pdf/internal/assets"
	"github.com/alnah/go-cv2pdf/internal/config"
	"github.com/alnah/go-cv2pdf/internal/hints"
)

// defaultWkhtmltopdfName is reported when no wkhtmltopdf path is configured.
const defaultWkhtmltopdfName = "wkhtmltopdf"

// printDiagnostic writes the human-readable explanation of err to w.
// cfg may be nil when the failure happened before the config was loaded.
func printDiagnostic(w io.Writer, err error, cfg *config.Config) {
	fmt.Fprintln(w, describeError(err, cfg))
}

// describeError maps a build failure to a diagnostic naming its likely cause.
func describeError(err error, cfg *config.Config) string {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	var extractErr *cv2pdf.ExtractionError
	switch {
	case errors.Is(err, cv2pdf.ErrSourceNotFound):
		return fmt.Sprintf("Error: Could not find '%s'.", cfg.Source)

	case errors.As(err, &extractErr):
		var b strings.Builder
		fmt.Fprintf(&b, "Error: Could not parse HTML. Did the structure of '%s' change?\n", cfg.Source)
		b.WriteString("Details:")
		for _, p := range extractErr.Problems {
			b.WriteString("\n  - " + p)
		}
		b.WriteString(hints.ForExtraction(cfg.Extraction.Strategy))
		return b.String()

	case errors.Is(err, cv2pdf.ErrExtraction):
		return fmt.Sprintf("Error: Could not parse HTML. Did the structure of '%s' change?\nDetails: %v%s",
			cfg.Source, err, hints.ForExtraction(cfg.Extraction.Strategy))

	case errors.Is(err, cv2pdf.ErrTemplateLoad):
		msg := fmt.Sprintf("Error: Could not load template. %v", err)
		if errors.Is(err, assets.ErrTemplateNotFound) {
			msg += hints.ForAssetNotFound("template", assets.TemplateNames())
		}
		return msg

	case errors.Is(err, cv2pdf.ErrTemplateRender):
		return fmt.Sprintf("Error: Could not render template. %v", err)

	case errors.Is(err, cv2pdf.ErrStyleNotFound):
		return fmt.Sprintf("Error: %v%s", err, hints.ForAssetNotFound("style", assets.StyleNames()))

	case errors.Is(err, cv2pdf.ErrExecutableNotFound):
		path := cfg.Backend.WkhtmltopdfPath
		expected := path
		if expected == "" {
			expected = defaultWkhtmltopdfName
		}
		return fmt.Sprintf("Error: Could not find the wkhtmltopdf executable at '%s'.\n"+
			"Please make sure it is installed and the configured path is correct.%s",
			expected, hints.ForWkhtmltopdf(path))

	case errors.Is(err, cv2pdf.ErrBrowserConnect):
		return fmt.Sprintf("Error: Could not start headless Chrome. %v%s", err, hints.ForBrowserConnect())

	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Sprintf("Error: Could not build PDF in time. %v%s", err, hints.ForTimeout())

	case errors.Is(err, cv2pdf.ErrPDFGeneration),
		errors.Is(err, cv2pdf.ErrPageCreate),
		errors.Is(err, cv2pdf.ErrPageLoad):
		return fmt.Sprintf("Error: Could not build PDF. %v", err)

	case errors.Is(err, cv2pdf.ErrWritePDF), errors.Is(err, ErrWriteHTML):
		return fmt.Sprintf("Error: %v%s", err, hints.ForOutputDirectory())

	case errors.Is(err, config.ErrConfigNotFound):
		return fmt.Sprintf("Error: %v%s", err, hints.ForConfigNotFound(config.SearchPaths(config.DefaultName)))
	}

	return fmt.Sprintf("Error: %v", err)
}
