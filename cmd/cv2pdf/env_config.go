package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/alnah/go-cv2pdf/internal/config"
)

// envFile is read from the working directory before the environment is
// consulted. Variables already set in the environment win.
const envFile = ".env"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath      string // CV2PDF_CONFIG: config file name or path
	Source          string // CV2PDF_SOURCE: portfolio page
	Output          string // CV2PDF_OUTPUT: output PDF
	Name            string // CV2PDF_NAME: name shown on the résumé
	Style           string // CV2PDF_STYLE: style name or path
	Template        string // CV2PDF_TEMPLATE: template name or path
	Backend         string // CV2PDF_BACKEND: rod, chromedp, wkhtmltopdf
	Timeout         string // CV2PDF_TIMEOUT: PDF generation timeout
	WkhtmltopdfPath string // CV2PDF_WKHTMLTOPDF_PATH: wkhtmltopdf executable
	PageSize        string // CV2PDF_PAGE_SIZE: a4, letter, legal
}

// knownEnvVars lists valid CV2PDF_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"CV2PDF_CONFIG":           true,
	"CV2PDF_SOURCE":           true,
	"CV2PDF_OUTPUT":           true,
	"CV2PDF_NAME":             true,
	"CV2PDF_STYLE":            true,
	"CV2PDF_TEMPLATE":         true,
	"CV2PDF_BACKEND":          true,
	"CV2PDF_TIMEOUT":          true,
	"CV2PDF_WKHTMLTOPDF_PATH": true,
	"CV2PDF_PAGE_SIZE":        true,
	"CV2PDF_CONTAINER":        true,
}

// loadDotEnv loads envFile into the process environment. A missing file is
// not an error.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// loadEnvConfig reads configuration from environment variables.
func loadEnvConfig() *envConfig {
	return &envConfig{
		ConfigPath:      os.Getenv("CV2PDF_CONFIG"),
		Source:          os.Getenv("CV2PDF_SOURCE"),
		Output:          os.Getenv("CV2PDF_OUTPUT"),
		Name:            os.Getenv("CV2PDF_NAME"),
		Style:           os.Getenv("CV2PDF_STYLE"),
		Template:        os.Getenv("CV2PDF_TEMPLATE"),
		Backend:         os.Getenv("CV2PDF_BACKEND"),
		Timeout:         os.Getenv("CV2PDF_TIMEOUT"),
		WkhtmltopdfPath: os.Getenv("CV2PDF_WKHTMLTOPDF_PATH"),
		PageSize:        os.Getenv("CV2PDF_PAGE_SIZE"),
	}
}

// warnUnknownEnvVars logs warnings for unrecognized CV2PDF_* variables.
// Helps catch typos like CV2PDF_BAKEND.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, "CV2PDF_") {
			name, _, _ := strings.Cut(env, "=")
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig applies environment variable values to config.
// A value is only set when the config file left the field at its default.
// This ensures: CLI flags > config file > env vars > defaults
// (CLI flags are applied later via mergeFlags).
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	def := config.DefaultConfig()

	setIfDefault(&cfg.Source, def.Source, env.Source)
	setIfDefault(&cfg.Output, def.Output, env.Output)
	setIfDefault(&cfg.Name, def.Name, env.Name)
	setIfDefault(&cfg.Style, def.Style, env.Style)
	setIfDefault(&cfg.Template, def.Template, env.Template)
	setIfDefault(&cfg.Backend.Name, def.Backend.Name, env.Backend)
	setIfDefault(&cfg.Backend.Timeout, def.Backend.Timeout, env.Timeout)
	setIfDefault(&cfg.Backend.WkhtmltopdfPath, def.Backend.WkhtmltopdfPath, env.WkhtmltopdfPath)
	setIfDefault(&cfg.Page.Size, def.Page.Size, env.PageSize)
}

func setIfDefault(field *string, def, value string) {
	if value != "" && *field == def {
		*field = value
	}
}
