package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	cv2pdf "github.com/alnah/go-cv2pdf"
	"github.com/alnah/go-cv2pdf/internal/config"
	"github.com/alnah/go-cv2pdf/internal/fileutil"
)

// Sentinel errors for CLI operations.
var (
	ErrUsage        = errors.New("invalid usage")
	ErrReadAppendix = errors.New("failed to read appendix")
	ErrWriteHTML    = errors.New("failed to write HTML file")
)

// defaultSource is the portfolio page read when neither an argument, the
// config nor CV2PDF_SOURCE names one.
const defaultSource = "index.html"

// filePermissions is rw-r--r--: owner read+write, others read.
const filePermissions = 0o644

// runBuild extracts the résumé from the portfolio page and writes the PDF.
func runBuild(ctx context.Context, positionalArgs []string, flags *buildFlags, env *Environment) error {
	cfg, err := loadConfig(flags.common.config, env)
	if err != nil {
		return err
	}

	mergeBuildFlags(flags, cfg)
	if err := setSource(positionalArgs, cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	input, err := buildInput(cfg, flags.outputMode.htmlOnly)
	if err != nil {
		return err
	}

	output := resolveOutputPath(cfg)
	progress := newProgressPrinter(env.Stdout, flags.common.quiet, output)

	opts, err := converterOptions(cfg, progress.report)
	if err != nil {
		return err
	}

	conv, err := env.NewConverter(opts...)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := conv.Close(); cerr != nil {
			env.Logger.Warn().Err(cerr).Msg("closing converter")
		}
	}()

	start := env.Now()
	env.Logger.Debug().
		Str("source", cfg.Source).
		Str("output", output).
		Str("backend", cfg.Backend.Name).
		Msg("build started")

	if flags.outputMode.htmlOnly {
		res, err := conv.Convert(ctx, input)
		if err != nil {
			return err
		}
		htmlOut := htmlPath(output)
		if err := writeHTML(htmlOut, res.HTML); err != nil {
			return err
		}
		progress.done("Success! HTML created.")
		env.Logger.Debug().Str("html", htmlOut).Dur("elapsed", env.Now().Sub(start)).Msg("build finished")
		return nil
	}

	res, err := conv.ConvertFile(ctx, input, output)
	if err != nil {
		return err
	}
	if flags.outputMode.html {
		if err := writeHTML(htmlPath(output), res.HTML); err != nil {
			return err
		}
	}

	progress.done("Success! PDF created.")
	env.Logger.Debug().
		Int("bytes", len(res.PDF)).
		Dur("elapsed", env.Now().Sub(start)).
		Msg("build finished")
	return nil
}

// loadConfig loads the config file, then applies CV2PDF_* variables.
// Without --config, CV2PDF_CONFIG is used, then an optional cv2pdf.yaml
// found by name. The result is stored in env.Config for diagnostics.
func loadConfig(flagConfig string, env *Environment) (*config.Config, error) {
	envCfg := loadEnvConfig()

	name := flagConfig
	if name == "" {
		name = envCfg.ConfigPath
	}

	var cfg *config.Config
	switch {
	case name != "":
		loaded, err := config.LoadConfig(name)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	default:
		loaded, err := config.LoadConfig(config.DefaultName)
		switch {
		case err == nil:
			cfg = loaded
		case errors.Is(err, config.ErrConfigNotFound):
			cfg = config.DefaultConfig()
		default:
			return nil, fmt.Errorf("loading config: %w", err)
		}
	}

	applyEnvConfig(envCfg, cfg)
	env.Config = cfg
	return cfg, nil
}

// mergeBuildFlags merges CLI flags into config. CLI flags take precedence.
func mergeBuildFlags(flags *buildFlags, cfg *config.Config) {
	mergeSourceFlags(&flags.source, cfg)

	if flags.output != "" {
		cfg.Output = flags.output
	}

	// Assets
	if flags.assets.template != "" {
		cfg.Template = flags.assets.template
	}
	if flags.assets.style != "" {
		cfg.Style = flags.assets.style
	}
	if flags.assets.assetPath != "" {
		cfg.Assets.BasePath = flags.assets.assetPath
	}
	if flags.assets.appendix != "" {
		cfg.Appendix = flags.assets.appendix
	}

	// Backend
	if flags.backend.name != "" {
		cfg.Backend.Name = flags.backend.name
	}
	if flags.backend.timeout != "" {
		cfg.Backend.Timeout = flags.backend.timeout
	}
	if flags.backend.wkhtmltopdfPath != "" {
		cfg.Backend.WkhtmltopdfPath = flags.backend.wkhtmltopdfPath
	}

	// Page
	if flags.page.size != "" {
		cfg.Page.Size = flags.page.size
	}
	if flags.page.orientation != "" {
		cfg.Page.Orientation = flags.page.orientation
	}
	if flags.page.margin != unsetFloat {
		cfg.Page.Margins = config.Margins{
			Top:    flags.page.margin,
			Right:  flags.page.margin,
			Bottom: flags.page.margin,
			Left:   flags.page.margin,
		}
	}

	// Footer
	if flags.footer.disabled {
		cfg.Footer.Enabled = false
	}
	if flags.footer.text != "" {
		cfg.Footer.Text = flags.footer.text
	}
	if flags.footer.position != "" {
		cfg.Footer.Position = flags.footer.position
	}
	if flags.footer.date != "" {
		cfg.Footer.Date = flags.footer.date
	}
	if flags.footer.fontSize != 0 {
		cfg.Footer.FontSize = flags.footer.fontSize
	}
	if flags.footer.noLine {
		cfg.Footer.Line = false
	}
}

// mergeSourceFlags merges the source flags shared by build and extract.
func mergeSourceFlags(f *sourceFlags, cfg *config.Config) {
	if f.name != "" {
		cfg.Name = f.name
	}
	if f.baseDir != "" {
		cfg.BaseDir = f.baseDir
	}
	if f.strategy != "" {
		cfg.Extraction.Strategy = f.strategy
	}
}

// setSource applies the positional source argument, falling back to
// defaultSource.
func setSource(args []string, cfg *config.Config) error {
	if len(args) > 1 {
		return fmt.Errorf("%w: expected at most one source page, got %d", ErrUsage, len(args))
	}
	if len(args) == 1 {
		cfg.Source = args[0]
	}
	if cfg.Source == "" {
		cfg.Source = defaultSource
	}
	return nil
}

// extractionInput converts the source and extraction settings to an Input.
func extractionInput(cfg *config.Config) cv2pdf.Input {
	selectors := cfg.Extraction.Selectors
	headings := cfg.Extraction.Headings

	return cv2pdf.Input{
		SourcePath: cfg.Source,
		BaseDir:    cfg.BaseDir,
		Name:       cfg.Name,
		Strategy:   cv2pdf.Strategy(cfg.Extraction.Strategy),
		Selectors:  &selectors,
		Headings:   &headings,
	}
}

// buildInput converts a validated config to a library Input.
func buildInput(cfg *config.Config, htmlOnly bool) (cv2pdf.Input, error) {
	input := extractionInput(cfg)
	input.HTMLOnly = htmlOnly
	input.Page = &cv2pdf.PageSettings{
		Size:        cfg.Page.Size,
		Orientation: cfg.Page.Orientation,
		Margins: cv2pdf.Margins{
			Top:    cfg.Page.Margins.Top,
			Right:  cfg.Page.Margins.Right,
			Bottom: cfg.Page.Margins.Bottom,
			Left:   cfg.Page.Margins.Left,
		},
	}

	if cfg.Footer.Enabled {
		input.Footer = &cv2pdf.Footer{
			Text:     cfg.Footer.Text,
			Date:     cfg.Footer.Date,
			Position: cfg.Footer.Position,
			FontSize: cfg.Footer.FontSize,
			Line:     cfg.Footer.Line,
		}
	}

	if cfg.Appendix != "" {
		data, err := os.ReadFile(cfg.Appendix) // #nosec G304 -- user-provided path
		if err != nil {
			return cv2pdf.Input{}, fmt.Errorf("%w: %v", ErrReadAppendix, err)
		}
		input.Appendix = string(data)
	}

	return input, nil
}

// converterOptions maps the config to library options.
func converterOptions(cfg *config.Config, progress cv2pdf.ProgressFunc) ([]cv2pdf.Option, error) {
	timeout, err := cfg.Backend.TimeoutDuration()
	if err != nil {
		return nil, err
	}

	opts := []cv2pdf.Option{
		cv2pdf.WithBackend(cv2pdf.Backend(cfg.Backend.Name)),
		cv2pdf.WithTimeout(timeout),
		cv2pdf.WithProgress(progress),
	}
	if cfg.Template != "" {
		opts = append(opts, cv2pdf.WithTemplate(cfg.Template))
	}
	if cfg.Style != "" {
		opts = append(opts, cv2pdf.WithStyle(cfg.Style))
	}
	if cfg.Assets.BasePath != "" {
		opts = append(opts, cv2pdf.WithAssetPath(cfg.Assets.BasePath))
	}
	if cfg.Backend.WkhtmltopdfPath != "" {
		opts = append(opts, cv2pdf.WithWkhtmltopdfPath(cfg.Backend.WkhtmltopdfPath))
	}
	return opts, nil
}

// resolveOutputPath returns the configured output, or a file next to the
// source page: NAME_CV.pdf when a name is configured, cv.pdf otherwise.
func resolveOutputPath(cfg *config.Config) string {
	if cfg.Output != "" {
		return cfg.Output
	}

	base := "cv.pdf"
	if name := strings.Join(strings.Fields(cfg.Name), "_"); name != "" {
		base = name + "_CV.pdf"
	}
	return filepath.Join(filepath.Dir(cfg.Source), base)
}

// htmlPath returns the HTML file written next to a PDF output path.
func htmlPath(pdfPath string) string {
	return strings.TrimSuffix(pdfPath, filepath.Ext(pdfPath)) + ".html"
}

func writeHTML(path string, html []byte) error {
	if err := fileutil.WriteFileAtomic(path, html, filePermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteHTML, err)
	}
	return nil
}

// progressPrinter prints one line per conversion stage.
type progressPrinter struct {
	w      io.Writer
	quiet  bool
	output string
}

func newProgressPrinter(w io.Writer, quiet bool, output string) *progressPrinter {
	return &progressPrinter{w: w, quiet: quiet, output: output}
}

func (p *progressPrinter) report(stage cv2pdf.Stage, detail string) {
	if p.quiet {
		return
	}
	switch stage {
	case cv2pdf.StageRead:
		fmt.Fprintf(p.w, "Reading '%s'...\n", detail)
	case cv2pdf.StageExtract:
		fmt.Fprintln(p.w, "Scraping data from HTML...")
	case cv2pdf.StageTemplate:
		fmt.Fprintf(p.w, "Loading template '%s'...\n", detail)
	case cv2pdf.StageRender:
		fmt.Fprintln(p.w, "Injecting data into template...")
	case cv2pdf.StagePDF:
		fmt.Fprintf(p.w, "Generating '%s'...\n", p.output)
	}
}

func (p *progressPrinter) done(msg string) {
	if !p.quiet {
		fmt.Fprintln(p.w, msg)
	}
}
