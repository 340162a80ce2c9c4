package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// ErrHTMLConversion indicates the Markdown appendix could not be converted.
var ErrHTMLConversion = errors.New("HTML conversion failed")

// AppendixRenderer turns the Markdown appendix into the fragment exposed to
// templates as .Appendix.
type AppendixRenderer interface {
	RenderAppendix(ctx context.Context, markdown string) (template.HTML, error)
}

// MarkdownAppendix renders GitHub-flavoured Markdown with goldmark.
// Definition lists suit references and publications. Raw HTML is dropped.
type MarkdownAppendix struct {
	md goldmark.Markdown
}

func NewMarkdownAppendix() *MarkdownAppendix {
	return &MarkdownAppendix{md: goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.DefinitionList,
			extension.Typographer,
		),
		goldmark.WithRendererOptions(html.WithXHTML()),
	)}
}

var lineEndings = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// RenderAppendix converts markdown. goldmark ignores contexts, so the
// conversion runs aside and ctx only bounds the wait.
func (a *MarkdownAppendix) RenderAppendix(ctx context.Context, markdown string) (template.HTML, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var (
		buf  bytes.Buffer
		done = make(chan error, 1)
	)
	go func() {
		done <- a.md.Convert([]byte(lineEndings.Replace(markdown)), &buf)
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case err := <-done:
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrHTMLConversion, err)
		}
		return template.HTML(buf.String()), nil // #nosec G203 -- raw HTML disabled in the renderer
	}
}
