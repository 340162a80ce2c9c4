// Package markup reduces rich-text HTML fragments to the small tag vocabulary
// accepted by the résumé templates: <b>...</b> and <br/>.
//
// Normalization works on parsed nodes rather than on the serialized string,
// so nested or unclosed wrapper tags are handled by the HTML5 parser before
// any rewriting happens.
package markup

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Break is the canonical line-break marker in normalized output.
const Break = "<br/>"

// Join separators used by fields that collapse line breaks to a single line.
const (
	SepComma  = ", "
	SepDash   = " - "
	SepBullet = " • "
)

// dropped elements are removed together with their content.
var dropped = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Template: true,
}

// Normalize returns the inner content of n reduced to the restricted
// vocabulary. The enclosing element of n itself is never emitted.
//
//   - strong and b become <b>...</b> with every attribute removed
//   - br becomes <br/>
//   - span and any other element is unwrapped, keeping its content
//   - script, style, noscript and template are removed with their content
//   - comments are removed
//   - whitespace runs collapse to one space and the result is trimmed
//
// A nil node yields "".
func Normalize(n *html.Node) string {
	if n == nil {
		return ""
	}

	var buf strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeNode(&buf, c)
	}
	return strings.TrimSpace(collapseSpace(buf.String()))
}

// NormalizeString parses s as a body fragment and normalizes it.
// Output of Normalize and NormalizeString is a fixed point:
// NormalizeString(NormalizeString(s)) == NormalizeString(s).
func NormalizeString(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}

	body := &html.Node{Type: html.ElementNode, DataAtom: atom.Body, Data: "body"}
	nodes, err := html.ParseFragment(strings.NewReader(s), body)
	if err != nil {
		// The HTML5 fragment parser only fails on reader errors, which a
		// strings.Reader never returns. Fall back to escaped text.
		return strings.TrimSpace(collapseSpace(html.EscapeString(s)))
	}

	container := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		container.AppendChild(n)
	}
	return Normalize(container)
}

// JoinBreaks collapses a normalized fragment to one line by replacing each
// <br/> with sep. Parts are trimmed and empty parts are dropped, so
// "Acme<br/><br/> London" joined with ", " gives "Acme, London".
func JoinBreaks(s, sep string) string {
	parts := strings.Split(s, Break)
	kept := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

func writeNode(buf *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		buf.WriteString(html.EscapeString(n.Data))
	case html.ElementNode:
		writeElement(buf, n)
	case html.DocumentNode:
		writeChildren(buf, n)
	}
	// Comments, doctypes and raw nodes are dropped.
}

func writeElement(buf *strings.Builder, n *html.Node) {
	switch {
	case dropped[n.DataAtom]:
		return
	case n.DataAtom == atom.Br:
		buf.WriteString(Break)
	case n.DataAtom == atom.Strong || n.DataAtom == atom.B:
		buf.WriteString("<b>")
		writeChildren(buf, n)
		buf.WriteString("</b>")
	default:
		writeChildren(buf, n)
	}
}

func writeChildren(buf *strings.Builder, n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeNode(buf, c)
	}
}

// collapseSpace folds runs of HTML whitespace into a single space.
func collapseSpace(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	inSpace := false
	for _, r := range s {
		switch r {
		case ' ', '\t', '\n', '\r', '\f':
			if !inSpace {
				b.WriteByte(' ')
				inSpace = true
			}
		default:
			inSpace = false
			b.WriteRune(r)
		}
	}
	return b.String()
}
