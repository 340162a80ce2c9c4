// Package config loads and validates the cv2pdf YAML configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/alnah/go-cv2pdf/internal/extract"
	"github.com/alnah/go-cv2pdf/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// DefaultName is the config name looked up when none is given.
const DefaultName = "cv2pdf"

// Field length limits.
const (
	MaxPathLength  = 4096
	MaxNameLength  = 100
	MaxTextLength  = 500
	MaxDateLength  = 50
	MaxLabelLength = 100
)

// Default layout, taken from the portfolio's original print settings.
const (
	DefaultBackend      = "rod"
	DefaultTimeout      = "30s"
	DefaultPageSize     = "a4"
	DefaultOrientation  = "portrait"
	DefaultMarginTop    = 2.0
	DefaultMarginRight  = 1.5
	DefaultMarginBottom = 2.0
	DefaultMarginLeft   = 1.5
	DefaultFooterText   = "Page [page] of [topage]"
	DefaultFooterSize   = 8
	DefaultFooterPos    = "right"
)

// Config holds all configuration for a résumé build.
type Config struct {
	Source     string           `yaml:"source" validate:"max=4096"`
	Output     string           `yaml:"output" validate:"max=4096"`
	Template   string           `yaml:"template" validate:"max=4096"`
	Style      string           `yaml:"style" validate:"max=4096"`
	Name       string           `yaml:"name" validate:"max=100"`
	BaseDir    string           `yaml:"base_dir" validate:"max=4096"`
	Appendix   string           `yaml:"appendix" validate:"max=4096"`
	Assets     AssetsConfig     `yaml:"assets"`
	Backend    BackendConfig    `yaml:"backend"`
	Extraction ExtractionConfig `yaml:"extraction"`
	Page       PageConfig       `yaml:"page"`
	Footer     FooterConfig     `yaml:"footer"`
}

// AssetsConfig points at a directory overriding embedded templates and styles.
type AssetsConfig struct {
	BasePath string `yaml:"base_path" validate:"max=4096"` // empty = embedded assets only
}

// BackendConfig selects the PDF renderer.
type BackendConfig struct {
	Name            string `yaml:"name" validate:"omitempty,oneof=rod chromedp wkhtmltopdf"`
	Timeout         string `yaml:"timeout"`
	WkhtmltopdfPath string `yaml:"wkhtmltopdf_path" validate:"max=4096"`
}

// TimeoutDuration parses Timeout. Empty means DefaultTimeout.
func (b BackendConfig) TimeoutDuration() (time.Duration, error) {
	s := b.Timeout
	if s == "" {
		s = DefaultTimeout
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%w: backend.timeout: %v", ErrInvalidValue, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: backend.timeout: must be positive, got %s", ErrInvalidValue, s)
	}
	return d, nil
}

// ExtractionConfig controls how the portfolio page is read.
type ExtractionConfig struct {
	Strategy  string            `yaml:"strategy" validate:"omitempty,oneof=auto id heuristic"`
	Selectors extract.Selectors `yaml:"selectors"`
	Headings  extract.Headings  `yaml:"headings"`
}

// PageConfig defines PDF page settings. Margins are in centimeters.
type PageConfig struct {
	Size        string  `yaml:"size" validate:"omitempty,oneof=a4 letter legal"`
	Orientation string  `yaml:"orientation" validate:"omitempty,oneof=portrait landscape"`
	Margins     Margins `yaml:"margins"`
}

// Margins in centimeters.
type Margins struct {
	Top    float64 `yaml:"top" validate:"gte=0,lte=10"`
	Right  float64 `yaml:"right" validate:"gte=0,lte=10"`
	Bottom float64 `yaml:"bottom" validate:"gte=0,lte=10"`
	Left   float64 `yaml:"left" validate:"gte=0,lte=10"`
}

// FooterConfig defines the page footer. Text accepts [page] and [topage].
type FooterConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Text     string `yaml:"text" validate:"max=500"`
	Line     bool   `yaml:"line"`
	FontSize int    `yaml:"font_size" validate:"omitempty,gte=6,lte=24"`
	Position string `yaml:"position" validate:"omitempty,oneof=left center right"`
	Date     string `yaml:"date" validate:"max=50"` // literal, "auto" or "auto:FORMAT"
}

// DefaultConfig returns the settings the portfolio was originally printed with.
func DefaultConfig() *Config {
	return &Config{
		Backend: BackendConfig{
			Name:    DefaultBackend,
			Timeout: DefaultTimeout,
		},
		Extraction: ExtractionConfig{
			Strategy:  string(extract.StrategyAuto),
			Selectors: extract.DefaultSelectors(),
			Headings:  extract.DefaultHeadings(),
		},
		Page: PageConfig{
			Size:        DefaultPageSize,
			Orientation: DefaultOrientation,
			Margins: Margins{
				Top:    DefaultMarginTop,
				Right:  DefaultMarginRight,
				Bottom: DefaultMarginBottom,
				Left:   DefaultMarginLeft,
			},
		},
		Footer: FooterConfig{
			Enabled:  true,
			Text:     DefaultFooterText,
			Line:     true,
			FontSize: DefaultFooterSize,
			Position: DefaultFooterPos,
		},
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks enumerations, ranges and field lengths. Enumerated values
// are lower-cased first. Called by LoadConfig, but available for configs
// built in code.
func (c *Config) Validate() error {
	c.Backend.Name = strings.ToLower(c.Backend.Name)
	c.Extraction.Strategy = strings.ToLower(c.Extraction.Strategy)
	c.Page.Size = strings.ToLower(c.Page.Size)
	c.Page.Orientation = strings.ToLower(c.Page.Orientation)
	c.Footer.Position = strings.ToLower(c.Footer.Position)

	if err := validate.Struct(c); err != nil {
		return translate(err)
	}
	if _, err := c.Backend.TimeoutDuration(); err != nil {
		return err
	}
	if err := validateSelectors(c.Extraction.Selectors); err != nil {
		return err
	}
	return validateHeadings(c.Extraction.Headings)
}

// translate converts the first validator failure into a sentinel error
// naming the YAML path of the field.
func translate(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}
	fe := verrs[0]
	field := fieldPath(fe.Namespace())

	switch fe.Tag() {
	case "max":
		if s, ok := fe.Value().(string); ok {
			return fmt.Errorf("%w: %s (%d chars, max %s)", ErrFieldTooLong, field, len(s), fe.Param())
		}
	case "oneof":
		return fmt.Errorf("%w: %s: %q (must be one of %s)", ErrInvalidValue, field, fe.Value(),
			strings.ReplaceAll(fe.Param(), " ", ", "))
	case "gte", "lte":
		return fmt.Errorf("%w: %s: %v out of range (%s %s)", ErrInvalidValue, field, fe.Value(), fe.Tag(), fe.Param())
	}
	return fmt.Errorf("%w: %s failed %q", ErrInvalidValue, field, fe.Tag())
}

// fieldPath drops the root struct name: "Config.page.size" -> "page.size".
func fieldPath(namespace string) string {
	_, rest, found := strings.Cut(namespace, ".")
	if !found {
		return namespace
	}
	return rest
}

type namedField struct {
	key, value string
}

func validateSelectors(s extract.Selectors) error {
	return validateFields("extraction.selectors.", []namedField{
		{"name", s.Name}, {"title", s.Title}, {"email", s.Email},
		{"linkedin", s.LinkedIn}, {"github", s.GitHub}, {"website", s.Website},
		{"summary", s.Summary}, {"projects", s.Projects}, {"experience", s.Experience},
		{"education", s.Education}, {"skills", s.Skills}, {"achievements", s.Achievements},
	})
}

func validateHeadings(h extract.Headings) error {
	return validateFields("extraction.headings.", []namedField{
		{"experience", h.Experience}, {"education", h.Education},
		{"skills", h.Skills}, {"achievements", h.Achievements},
	})
}

func validateFields(prefix string, fields []namedField) error {
	for _, f := range fields {
		if err := validateFieldLength(prefix+f.key, f.value, MaxLabelLength); err != nil {
			return err
		}
	}
	return nil
}

func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise it's searched as NAME.yaml or NAME.yml in the current directory,
// then in the user config directory under go-cv2pdf/.
// Keys absent from the file keep their DefaultConfig value.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !isFilePath(nameOrPath) {
		var err error
		if configPath, err = resolveConfigPath(nameOrPath); err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// SearchPaths returns the files tried for a bare config name, in order:
// the working directory, then the user config directory.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, "go-cv2pdf", name+ext))
		}
	}
	return paths
}

// resolveConfigPath returns the first existing file of SearchPaths.
func resolveConfigPath(name string) (string, error) {
	paths := SearchPaths(name)
	for _, p := range paths {
		if fileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(paths, ", "))
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
