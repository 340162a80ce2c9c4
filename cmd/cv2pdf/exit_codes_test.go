package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	cv2pdf "github.com/alnah/go-cv2pdf"
	"github.com/alnah/go-cv2pdf/internal/config"
)

func TestExitCodeFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"unexpected", errors.New("boom"), ExitGeneral},
		{"extraction", &cv2pdf.ExtractionError{Problems: []string{"summary: not found"}}, ExitGeneral},
		{"template render", fmt.Errorf("render: %w", cv2pdf.ErrTemplateRender), ExitGeneral},
		{"browser connect", fmt.Errorf("pdf: %w", cv2pdf.ErrBrowserConnect), ExitBrowser},
		{"page load", cv2pdf.ErrPageLoad, ExitBrowser},
		{"pdf generation", cv2pdf.ErrPDFGeneration, ExitBrowser},
		{"wkhtmltopdf missing", fmt.Errorf("%w: /opt/wk", cv2pdf.ErrExecutableNotFound), ExitBrowser},
		{"source missing", fmt.Errorf("%w: index.html", cv2pdf.ErrSourceNotFound), ExitIO},
		{"write pdf", cv2pdf.ErrWritePDF, ExitIO},
		{"write html", ErrWriteHTML, ExitIO},
		{"appendix", ErrReadAppendix, ExitIO},
		{"permission", fmt.Errorf("open: %w", os.ErrPermission), ExitIO},
		{"usage", ErrUsage, ExitUsage},
		{"config missing", config.ErrConfigNotFound, ExitUsage},
		{"config parse", config.ErrConfigParse, ExitUsage},
		{"config value", fmt.Errorf("invalid configuration: %w", config.ErrInvalidValue), ExitUsage},
		{"empty source", cv2pdf.ErrEmptySource, ExitUsage},
		{"backend", cv2pdf.ErrInvalidBackend, ExitUsage},
		{"strategy", cv2pdf.ErrInvalidStrategy, ExitUsage},
		{"style", cv2pdf.ErrStyleNotFound, ExitUsage},
		{"margin", cv2pdf.ErrInvalidMargin, ExitUsage},
		{"timeout", context.DeadlineExceeded, ExitGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := exitCodeFor(tt.err); got != tt.want {
				t.Errorf("exitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
