package cv2pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"github.com/alnah/go-cv2pdf/internal/assets"
	"github.com/alnah/go-cv2pdf/internal/extract"
	"github.com/alnah/go-cv2pdf/internal/fileutil"
	"github.com/alnah/go-cv2pdf/internal/markup"
	"github.com/alnah/go-cv2pdf/internal/pipeline"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.AppendixRenderer = (*pipeline.MarkdownAppendix)(nil)
	_ pipeline.StyleInjector    = pipeline.HeadStyle{}
	_ pipeline.ResumeRenderer   = (*pipeline.TemplateRenderer)(nil)
	_ pdfConverter              = (*rodConverter)(nil)
	_ pdfConverter              = (*chromedpConverter)(nil)
	_ pdfConverter              = (*wkhtmltopdfConverter)(nil)
)

// Converter orchestrates the portfolio-to-PDF pipeline.
// Create with NewConverter, use Convert or ConvertFile, and Close when done.
// A Converter is not safe for concurrent use.
type Converter struct {
	cfg           converterConfig
	assetLoader   assets.Loader
	appendix      pipeline.AppendixRenderer
	styles        pipeline.StyleInjector
	pdfConverter  pdfConverter
	now           func() time.Time
}

// NewConverter creates a Converter. Defaults: rod backend, embedded
// "default" template and style, 30s timeout.
// Returns error if an option is invalid or the style cannot be loaded.
// No browser or process is started until the first PDF is rendered.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		cfg:           converterConfig{timeout: defaultTimeout, backend: BackendRod},
		assetLoader:   assets.Embedded{},
		appendix:      pipeline.NewMarkdownAppendix(),
		styles:        pipeline.HeadStyle{},
		now:           time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	if err := c.cfg.backend.Validate(); err != nil {
		return nil, err
	}

	if c.cfg.assetPath != "" {
		resolver, err := assets.NewResolver(c.cfg.assetPath)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
		}
		c.assetLoader = resolver
	}

	if err := c.resolveStyle(); err != nil {
		return nil, err
	}

	pdf, err := newPDFConverter(c.cfg)
	if err != nil {
		return nil, err
	}
	c.pdfConverter = pdf

	return c, nil
}

// Extract reads the source page and returns its Record without rendering.
func (c *Converter) Extract(ctx context.Context, input Input) (*Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.report(StageRead, input.SourcePath)
	page, err := readSource(input)
	if err != nil {
		return nil, err
	}

	c.report(StageExtract, string(input.Strategy))
	return extract.ExtractReader(bytes.NewReader(page), toExtractOptions(input))
}

// Convert runs the full pipeline and returns the Record, the rendered HTML
// and, unless input.HTMLOnly is set, the PDF.
// Nothing is rendered unless extraction succeeds completely.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (c *Converter) Convert(ctx context.Context, input Input) (result *ConvertResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	if err := validateInput(input); err != nil {
		return nil, err
	}

	record, err := c.Extract(ctx, input)
	if err != nil {
		return nil, err
	}

	templateName := c.templateName()
	c.report(StageTemplate, templateName)
	renderer, err := c.loadTemplate(templateName)
	if err != nil {
		return nil, err
	}

	c.report(StageRender, "")
	var appendix template.HTML
	if input.Appendix != "" {
		appendix, err = c.appendix.RenderAppendix(ctx, input.Appendix)
		if err != nil {
			return nil, fmt.Errorf("converting appendix: %w", err)
		}
	}

	htmlContent, err := renderer.Render(ctx, toResumeData(record, appendix))
	if err != nil {
		return nil, err
	}

	// Converter style first, user CSS last so it can override.
	cssContent := c.cfg.resolvedStyle
	if input.CSS != "" {
		cssContent += "\n" + input.CSS
	}
	htmlContent = c.styles.InjectStyle(ctx, htmlContent, cssContent)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	if baseDir := resolveBaseDir(input); baseDir != "" {
		htmlContent, err = pipeline.RewriteRelativePaths(htmlContent, baseDir)
		if err != nil {
			return nil, fmt.Errorf("rewriting relative paths: %w", err)
		}
	}

	res := &ConvertResult{
		Record: record,
		HTML:   []byte(htmlContent),
	}

	if input.HTMLOnly {
		return res, nil
	}

	pdfOpts, err := newPDFOptions(input.Page, input.Footer, c.now())
	if err != nil {
		return nil, err
	}

	c.report(StagePDF, string(c.backend()))
	pdfBytes, err := c.pdfConverter.ToPDF(ctx, htmlContent, pdfOpts)
	if err != nil {
		return nil, fmt.Errorf("converting to PDF: %w", err)
	}
	if len(pdfBytes) == 0 {
		return nil, fmt.Errorf("%w: renderer returned no data", ErrPDFGeneration)
	}

	res.PDF = pdfBytes
	return res, nil
}

// ConvertFile converts input and writes the PDF to outputPath. The file is
// written atomically: on any failure outputPath is left untouched.
// input.HTMLOnly is ignored.
func (c *Converter) ConvertFile(ctx context.Context, input Input, outputPath string) (*ConvertResult, error) {
	input.HTMLOnly = false

	res, err := c.Convert(ctx, input)
	if err != nil {
		return nil, err
	}

	if err := fileutil.WriteFileAtomic(outputPath, res.PDF, 0o644); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWritePDF, err)
	}
	return res, nil
}

// Close releases backend resources (headless Chrome browser).
func (c *Converter) Close() error {
	if c.pdfConverter != nil {
		return c.pdfConverter.Close()
	}
	return nil
}

func (c *Converter) report(stage Stage, detail string) {
	if c.cfg.progress != nil {
		c.cfg.progress(stage, detail)
	}
}

func (c *Converter) backend() Backend {
	if c.cfg.backend == "" {
		return BackendRod
	}
	return c.cfg.backend
}

func (c *Converter) templateName() string {
	if c.cfg.templateInput == "" {
		return assets.DefaultTemplateName
	}
	return c.cfg.templateInput
}

// loadTemplate resolves a template name or file path and parses it.
// Both missing and malformed templates are ErrTemplateLoad.
func (c *Converter) loadTemplate(nameOrPath string) (*pipeline.TemplateRenderer, error) {
	var content string
	if fileutil.IsFilePath(nameOrPath) {
		data, err := os.ReadFile(nameOrPath) // #nosec G304 -- user-provided path
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrTemplateLoad, nameOrPath, err)
		}
		content = string(data)
	} else {
		var err error
		content, err = c.assetLoader.Load(assets.Template, nameOrPath)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %w", ErrTemplateLoad, nameOrPath, err)
		}
	}

	renderer, err := pipeline.NewTemplateRenderer(filepath.Base(nameOrPath), content)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTemplateLoad, err)
	}
	return renderer, nil
}

// resolveStyle resolves the style input (name, path, or CSS content) to CSS
// content. An empty input selects the default embedded style.
func (c *Converter) resolveStyle() error {
	input := c.cfg.styleInput
	if input == "" {
		input = assets.DefaultStyleName
	}

	if fileutil.IsFilePath(input) {
		content, err := os.ReadFile(input) // #nosec G304 -- user-provided path
		if err != nil {
			return fmt.Errorf("loading style file %q: %w", input, err)
		}
		c.cfg.resolvedStyle = string(content)
		return nil
	}

	if fileutil.IsCSS(input) {
		c.cfg.resolvedStyle = input
		return nil
	}

	css, err := c.assetLoader.Load(assets.Style, input)
	if err != nil {
		return fmt.Errorf("loading style %q: %w", input, err)
	}
	c.cfg.resolvedStyle = css
	return nil
}

// validateInput checks the per-conversion settings before any work is done.
//
// This is a TRUST BOUNDARY for direct library users who build Input manually.
// CLI users have their settings validated earlier by Config.Validate().
func validateInput(input Input) error {
	if input.HTML == nil && input.SourcePath == "" {
		return ErrEmptySource
	}
	if err := input.Strategy.Validate(); err != nil {
		return err
	}
	if err := input.Page.Validate(); err != nil {
		return err
	}
	return input.Footer.Validate()
}

// readSource returns input.HTML, or the content of input.SourcePath.
func readSource(input Input) ([]byte, error) {
	if input.HTML != nil {
		if len(bytes.TrimSpace(input.HTML)) == 0 {
			return nil, ErrEmptySource
		}
		return input.HTML, nil
	}
	if input.SourcePath == "" {
		return nil, ErrEmptySource
	}

	data, err := os.ReadFile(input.SourcePath) // #nosec G304 -- user-provided path
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, input.SourcePath)
		}
		return nil, fmt.Errorf("reading source: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptySource, input.SourcePath)
	}
	return data, nil
}

// resolveBaseDir returns the directory relative assets resolve against.
func resolveBaseDir(input Input) string {
	if input.BaseDir != "" {
		return input.BaseDir
	}
	if input.SourcePath != "" {
		return filepath.Dir(input.SourcePath)
	}
	return ""
}

// toExtractOptions converts Input to internal extract.Options.
func toExtractOptions(input Input) extract.Options {
	opts := extract.DefaultOptions()
	opts.Name = input.Name
	if input.Strategy != "" {
		opts.Strategy = input.Strategy
	}
	if input.Selectors != nil {
		opts.Selectors = *input.Selectors
	}
	if input.Headings != nil {
		opts.Headings = *input.Headings
	}
	return opts
}

// toResumeData converts a Record to the template data. Markup fields are
// normalized again before being trusted as template.HTML; normalization is
// idempotent, so records built by hand get the same guarantee.
func toResumeData(r *Record, appendix template.HTML) *pipeline.ResumeData {
	projects := make([]pipeline.ProjectData, len(r.Projects))
	for i, p := range r.Projects {
		projects[i] = pipeline.ProjectData{
			Title:   p.Title,
			Details: trusted(p.Details),
		}
	}

	experience := make([]pipeline.ExperienceData, len(r.Experience))
	for i, e := range r.Experience {
		experience[i] = pipeline.ExperienceData{
			Title:    e.Title,
			Employer: trusted(e.Employer),
			Duration: trusted(e.Duration),
		}
	}

	education := make([]pipeline.EducationData, len(r.Education))
	for i, e := range r.Education {
		education[i] = pipeline.EducationData(e)
	}

	return &pipeline.ResumeData{
		Name:  r.Name,
		Title: r.Title,
		Contact: pipeline.ContactData{
			Email:    r.Contact.Email,
			LinkedIn: r.Contact.LinkedIn,
			GitHub:   r.Contact.GitHub,
			Website:  r.Contact.Website,
		},
		Summary:      r.Summary,
		Projects:     projects,
		Experience:   experience,
		Education:    education,
		Skills:       r.Skills,
		Achievements: r.Achievements,
		Appendix:     appendix,
		Fields:       r.Map(),
	}
}

func trusted(s string) template.HTML {
	return template.HTML(markup.NormalizeString(s)) // #nosec G203 -- reduced to <b> and <br/>
}
