package pipeline

import (
	"context"
	"strings"
)

// StyleInjector places a stylesheet into a rendered résumé.
type StyleInjector interface {
	InjectStyle(ctx context.Context, doc, css string) string
}

// HeadStyle inserts the stylesheet as the last element of <head>.
// Documents without a head get it right after the <body> tag, bare
// fragments get it first.
type HeadStyle struct{}

func (HeadStyle) InjectStyle(ctx context.Context, doc, css string) string {
	if css == "" || ctx.Err() != nil {
		return doc
	}

	at := styleOffset(doc)

	var b strings.Builder
	b.Grow(len(doc) + len(css) + len("<style>\n\n</style>"))
	b.WriteString(doc[:at])
	b.WriteString("<style>\n")
	// "</" would let the stylesheet close its own element.
	b.WriteString(strings.ReplaceAll(css, "</", `<\/`))
	b.WriteString("\n</style>")
	b.WriteString(doc[at:])
	return b.String()
}

func styleOffset(doc string) int {
	lower := strings.ToLower(doc)
	if i := strings.Index(lower, "</head>"); i >= 0 {
		return i
	}
	if i := strings.Index(lower, "<body"); i >= 0 {
		if end := strings.IndexByte(doc[i:], '>'); end >= 0 {
			return i + end + 1
		}
	}
	return 0
}
