package cv2pdf

import (
	"errors"

	"github.com/alnah/go-cv2pdf/internal/assets"
	"github.com/alnah/go-cv2pdf/internal/extract"
	"github.com/alnah/go-cv2pdf/internal/pipeline"
)

// Sentinel errors for library operations.
var (
	ErrSourceNotFound = errors.New("source page not found")
	ErrEmptySource    = errors.New("source page is empty")
	ErrTemplateLoad   = errors.New("failed to load template")
	ErrPDFGeneration  = errors.New("PDF generation failed")
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrWritePDF       = errors.New("failed to write PDF")

	// ErrExecutableNotFound indicates the wkhtmltopdf binary is missing.
	ErrExecutableNotFound = errors.New("wkhtmltopdf executable not found")

	// Errors shared with internal packages, so errors.Is works across layers.
	ErrExtraction      = extract.ErrExtraction
	ErrInvalidStrategy = extract.ErrInvalidStrategy
	ErrTemplateRender  = pipeline.ErrTemplateRender
	ErrHTMLConversion  = pipeline.ErrHTMLConversion
	ErrStyleNotFound   = assets.ErrStyleNotFound

	// Page settings validation errors.
	ErrInvalidPageSize    = errors.New("invalid page size")
	ErrInvalidOrientation = errors.New("invalid orientation")
	ErrInvalidMargin      = errors.New("invalid margin")

	// Footer validation errors.
	ErrInvalidFooterPosition = errors.New("invalid footer position")
	ErrInvalidFooterFontSize = errors.New("invalid footer font size")

	// Converter option errors.
	ErrInvalidBackend   = errors.New("invalid backend")
	ErrInvalidAssetPath = errors.New("invalid asset path")
)
