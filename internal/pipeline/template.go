package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"
)

// Sentinel errors for résumé templates.
var (
	ErrTemplateParse  = errors.New("template parsing failed")
	ErrTemplateRender = errors.New("template rendering failed")
)

// ResumeData is the value passed to the résumé template.
// Fields typed template.HTML carry normalized markup (<b> and <br/> only)
// and are emitted without escaping.
type ResumeData struct {
	Name         string
	Title        string
	Contact      ContactData
	Summary      string
	Projects     []ProjectData
	Experience   []ExperienceData
	Education    []EducationData
	Skills       []string
	Achievements []string
	Appendix     template.HTML

	// Fields is the record as a map keyed by lower-case field name, for
	// templates written as {{index .Fields "name"}}.
	Fields map[string]any
}

// ContactData holds the contact links.
type ContactData struct {
	Email    string
	LinkedIn string
	GitHub   string
	Website  string
}

// ProjectData is one project entry.
type ProjectData struct {
	Title   string
	Details template.HTML
}

// ExperienceData is one work history row.
type ExperienceData struct {
	Title    string
	Employer template.HTML
	Duration template.HTML
}

// EducationData is one education row.
type EducationData struct {
	Institution   string
	Qualification string
	Year          string
}

// ResumeRenderer defines the contract for rendering résumé data to HTML.
type ResumeRenderer interface {
	Render(ctx context.Context, data *ResumeData) (string, error)
}

// TemplateRenderer renders ResumeData with an html/template.
type TemplateRenderer struct {
	tmpl *template.Template
}

var templateFuncs = template.FuncMap{
	"join":  strings.Join,
	"upper": strings.ToUpper,
}

// NewTemplateRenderer parses tmplContent. Returns ErrTemplateParse if the
// template is empty or does not parse.
func NewTemplateRenderer(name, tmplContent string) (*TemplateRenderer, error) {
	if strings.TrimSpace(tmplContent) == "" {
		return nil, fmt.Errorf("%w: %s: empty template", ErrTemplateParse, name)
	}

	tmpl, err := template.New(name).Funcs(templateFuncs).Option("missingkey=error").Parse(tmplContent)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTemplateParse, err)
	}
	return &TemplateRenderer{tmpl: tmpl}, nil
}

// Render executes the template. Nothing is returned on partial output.
func (r *TemplateRenderer) Render(ctx context.Context, data *ResumeData) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if data == nil {
		return "", fmt.Errorf("%w: no data", ErrTemplateRender)
	}

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: %v", ErrTemplateRender, err)
	}
	return buf.String(), nil
}

var _ ResumeRenderer = (*TemplateRenderer)(nil)
