package cv2pdf

import (
	"fmt"
	"strings"
	"time"
)

// Page size constants.
const (
	PageSizeA4     = "a4"
	PageSizeLetter = "letter"
	PageSizeLegal  = "legal"
)

// Orientation constants.
const (
	OrientationPortrait  = "portrait"
	OrientationLandscape = "landscape"
)

// Margin bounds and defaults in centimeters.
const (
	MinMargin = 0.0
	MaxMargin = 10.0

	DefaultMarginTop    = 2.0
	DefaultMarginRight  = 1.5
	DefaultMarginBottom = 2.0
	DefaultMarginLeft   = 1.5
)

// Footer defaults.
const (
	DefaultFooterText     = "Page [page] of [topage]"
	DefaultFooterFontSize = 8
	MinFooterFontSize     = 6
	MaxFooterFontSize     = 24
)

// Footer text tokens replaced by the page number and the page count.
const (
	TokenPage   = "[page]"
	TokenToPage = "[topage]"
)

// Margins in centimeters.
type Margins struct {
	Top, Right, Bottom, Left float64
}

// PageSettings configures PDF page dimensions.
type PageSettings struct {
	Size        string // "a4", "letter", "legal"
	Orientation string // "portrait", "landscape"
	Margins     Margins
}

// DefaultPageSettings returns A4 portrait with 2cm/1.5cm margins.
func DefaultPageSettings() *PageSettings {
	return &PageSettings{
		Size:        PageSizeA4,
		Orientation: OrientationPortrait,
		Margins: Margins{
			Top:    DefaultMarginTop,
			Right:  DefaultMarginRight,
			Bottom: DefaultMarginBottom,
			Left:   DefaultMarginLeft,
		},
	}
}

// Validate checks that page settings are valid.
// Returns nil if p is nil (nil means use defaults).
// Does not mutate - uses case-insensitive comparison.
func (p *PageSettings) Validate() error {
	if p == nil {
		return nil
	}

	switch strings.ToLower(p.Size) {
	case PageSizeA4, PageSizeLetter, PageSizeLegal:
	default:
		return fmt.Errorf("%w: %q (must be a4, letter, or legal)", ErrInvalidPageSize, p.Size)
	}

	switch strings.ToLower(p.Orientation) {
	case OrientationPortrait, OrientationLandscape:
	default:
		return fmt.Errorf("%w: %q (must be portrait or landscape)", ErrInvalidOrientation, p.Orientation)
	}

	sides := []struct {
		name  string
		value float64
	}{
		{"top", p.Margins.Top},
		{"right", p.Margins.Right},
		{"bottom", p.Margins.Bottom},
		{"left", p.Margins.Left},
	}
	for _, s := range sides {
		if s.value < MinMargin || s.value > MaxMargin {
			return fmt.Errorf("%w: %s %.2fcm (must be between %.0f and %.0f)", ErrInvalidMargin, s.name, s.value, MinMargin, MaxMargin)
		}
	}

	return nil
}

// Footer configures the PDF page footer.
type Footer struct {
	Text     string // [page] and [topage] are replaced per page
	Date     string // literal, "auto" or "auto:FORMAT"; shown before Text
	Position string // "left", "center", "right" (default: "right")
	FontSize int    // points; 0 means DefaultFooterFontSize
	Line     bool   // rule above the footer
}

// DefaultFooter returns "Page [page] of [topage]" right aligned, 8pt, with
// a separator line.
func DefaultFooter() *Footer {
	return &Footer{
		Text:     DefaultFooterText,
		Position: "right",
		FontSize: DefaultFooterFontSize,
		Line:     true,
	}
}

// Validate checks that footer settings are valid.
// Returns nil if f is nil (nil means no footer).
func (f *Footer) Validate() error {
	if f == nil {
		return nil
	}
	switch strings.ToLower(f.Position) {
	case "", "left", "center", "right":
	default:
		return fmt.Errorf("%w: %q (must be left, center, or right)", ErrInvalidFooterPosition, f.Position)
	}
	if f.FontSize != 0 && (f.FontSize < MinFooterFontSize || f.FontSize > MaxFooterFontSize) {
		return fmt.Errorf("%w: %d (must be between %d and %d)", ErrInvalidFooterFontSize, f.FontSize, MinFooterFontSize, MaxFooterFontSize)
	}
	return nil
}

// Input contains conversion parameters.
type Input struct {
	HTML       []byte // portfolio page; read from SourcePath when nil
	SourcePath string // portfolio page file
	BaseDir    string // base for relative asset paths; defaults to SourcePath's directory

	Name      string     // displayed name; when empty the page's name element is read
	Strategy  Strategy   // empty means StrategyAuto
	Selectors *Selectors // nil = DefaultSelectors
	Headings  *Headings  // nil = DefaultHeadings

	CSS      string // appended after the converter style
	Appendix string // Markdown rendered after the résumé sections
	HTMLOnly bool   // skip PDF generation

	Page   *PageSettings // nil = DefaultPageSettings
	Footer *Footer       // nil = no footer
}

// ConvertResult holds the output of a conversion.
type ConvertResult struct {
	Record *Record
	HTML   []byte
	PDF    []byte // nil when Input.HTMLOnly is set
}

// Backend names a PDF renderer.
type Backend string

// Supported backends.
const (
	BackendRod         Backend = "rod"
	BackendChromedp    Backend = "chromedp"
	BackendWkhtmltopdf Backend = "wkhtmltopdf"
)

// Backends lists the supported backends.
func Backends() []Backend {
	return []Backend{BackendRod, BackendChromedp, BackendWkhtmltopdf}
}

// Validate checks that b names a supported backend. Empty means BackendRod.
func (b Backend) Validate() error {
	switch b {
	case "", BackendRod, BackendChromedp, BackendWkhtmltopdf:
		return nil
	}
	return fmt.Errorf("%w: %q (must be rod, chromedp, or wkhtmltopdf)", ErrInvalidBackend, string(b))
}

// Stage identifies a conversion step reported to a progress callback.
type Stage int

// Conversion stages, in order.
const (
	StageRead Stage = iota
	StageExtract
	StageTemplate
	StageRender
	StagePDF
)

func (s Stage) String() string {
	switch s {
	case StageRead:
		return "read"
	case StageExtract:
		return "extract"
	case StageTemplate:
		return "template"
	case StageRender:
		return "render"
	case StagePDF:
		return "pdf"
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// ProgressFunc receives each stage as it starts. detail is the source path
// for StageRead, the template for StageTemplate and the backend for StagePDF.
type ProgressFunc func(stage Stage, detail string)

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds internal configuration for Converter.
type converterConfig struct {
	timeout         time.Duration
	backend         Backend
	templateInput   string
	styleInput      string
	assetPath       string
	wkhtmltopdfPath string
	resolvedStyle   string
	progress        ProgressFunc
}

// defaultTimeout is used when no timeout is specified.
const defaultTimeout = 30 * time.Second

// WithTimeout sets the PDF rendering timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("cv2pdf: WithTimeout duration must be positive")
	}
	return func(c *Converter) {
		c.cfg.timeout = d
	}
}

// WithBackend selects the PDF renderer. NewConverter rejects unknown names.
func WithBackend(b Backend) Option {
	return func(c *Converter) {
		c.cfg.backend = b
	}
}

// WithTemplate sets the résumé template: an embedded or asset-path template
// name, or a file path.
func WithTemplate(nameOrPath string) Option {
	return func(c *Converter) {
		c.cfg.templateInput = nameOrPath
	}
}

// WithStyle sets the stylesheet: a style name, a file path, or raw CSS.
func WithStyle(style string) Option {
	return func(c *Converter) {
		c.cfg.styleInput = style
	}
}

// WithAssetPath sets a directory whose styles/ and templates/ override the
// embedded assets.
func WithAssetPath(dir string) Option {
	return func(c *Converter) {
		c.cfg.assetPath = dir
	}
}

// WithWkhtmltopdfPath sets the wkhtmltopdf executable. Empty means look it
// up on PATH.
func WithWkhtmltopdfPath(path string) Option {
	return func(c *Converter) {
		c.cfg.wkhtmltopdfPath = path
	}
}

// WithProgress registers a callback invoked at the start of each stage.
func WithProgress(fn ProgressFunc) Option {
	return func(c *Converter) {
		c.cfg.progress = fn
	}
}
