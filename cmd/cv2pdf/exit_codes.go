package main

import (
	"errors"
	"os"

	cv2pdf "github.com/alnah/go-cv2pdf"
	"github.com/alnah/go-cv2pdf/internal/assets"
	"github.com/alnah/go-cv2pdf/internal/config"
)

// Exit codes for the cv2pdf CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful build
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied
	ExitBrowser = 4 // Rendering backend errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Backend errors (exit 4)
	if errors.Is(err, cv2pdf.ErrBrowserConnect) ||
		errors.Is(err, cv2pdf.ErrPageCreate) ||
		errors.Is(err, cv2pdf.ErrPageLoad) ||
		errors.Is(err, cv2pdf.ErrPDFGeneration) ||
		errors.Is(err, cv2pdf.ErrExecutableNotFound) {
		return ExitBrowser
	}

	// I/O errors (exit 3)
	if errors.Is(err, cv2pdf.ErrSourceNotFound) ||
		errors.Is(err, cv2pdf.ErrWritePDF) ||
		errors.Is(err, ErrReadAppendix) ||
		errors.Is(err, ErrWriteHTML) ||
		errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, cv2pdf.ErrEmptySource) ||
		errors.Is(err, cv2pdf.ErrInvalidPageSize) ||
		errors.Is(err, cv2pdf.ErrInvalidOrientation) ||
		errors.Is(err, cv2pdf.ErrInvalidMargin) ||
		errors.Is(err, cv2pdf.ErrInvalidFooterPosition) ||
		errors.Is(err, cv2pdf.ErrInvalidFooterFontSize) ||
		errors.Is(err, cv2pdf.ErrInvalidBackend) ||
		errors.Is(err, cv2pdf.ErrInvalidStrategy) ||
		errors.Is(err, cv2pdf.ErrInvalidAssetPath) ||
		errors.Is(err, cv2pdf.ErrStyleNotFound) ||
		errors.Is(err, assets.ErrTemplateNotFound) {
		return ExitUsage
	}

	return ExitGeneral
}
