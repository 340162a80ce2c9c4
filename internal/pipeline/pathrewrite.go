package pipeline

import (
	"net/url"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// urlAttrs lists the elements whose URL is rewritten, with the attribute
// holding it. script[src] is left alone.
var urlAttrs = []struct{ selector, attr string }{
	{"img[src]", "src"},
	{"link[href]", "href"},
	{"a[href]", "href"},
}

// RewriteRelativePaths turns relative img, link and anchor URLs into
// file:// URLs under baseDir, so the renderer finds a portfolio photo or
// stylesheet although it loads the résumé from a temp file. An empty
// baseDir leaves the HTML unchanged.
func RewriteRelativePaths(htmlContent, baseDir string) (string, error) {
	if baseDir == "" {
		return htmlContent, nil
	}
	root, err := filepath.Abs(baseDir)
	if err != nil {
		return "", err
	}

	tree, isFragment, err := parseHTML(htmlContent)
	if err != nil {
		return "", err
	}

	doc := goquery.NewDocumentFromNode(tree)
	for _, ua := range urlAttrs {
		doc.Find(ua.selector).Each(func(_ int, s *goquery.Selection) {
			if u, ok := localFileURL(s.AttrOr(ua.attr, ""), root); ok {
				s.SetAttr(ua.attr, u)
			}
		})
	}

	return renderHTML(tree, isFragment)
}

// parseHTML parses a full document, or a fragment in body context.
func parseHTML(content string) (*html.Node, bool, error) {
	trimmed := strings.TrimSpace(content)

	lower := strings.ToLower(trimmed)
	if strings.HasPrefix(lower, "<!doctype") || strings.HasPrefix(lower, "<html") {
		doc, err := html.Parse(strings.NewReader(content))
		return doc, false, err
	}

	body := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Body,
		Data:     "body",
	}
	nodes, err := html.ParseFragment(strings.NewReader(content), body)
	if err != nil {
		return nil, true, err
	}

	container := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		container.AppendChild(n)
	}

	return container, true, nil
}

// renderHTML renders the document; fragments render without a wrapper.
func renderHTML(doc *html.Node, isFragment bool) (string, error) {
	var buf strings.Builder

	if isFragment {
		for c := doc.FirstChild; c != nil; c = c.NextSibling {
			if err := html.Render(&buf, c); err != nil {
				return "", err
			}
		}
		return buf.String(), nil
	}

	if err := html.Render(&buf, doc); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// localFileURL resolves ref against root. URLs with a scheme, fragments,
// absolute and protocol-relative paths, and paths leaving root are refused.
func localFileURL(ref, root string) (string, bool) {
	if ref == "" || strings.HasPrefix(ref, "#") || strings.HasPrefix(ref, "//") || filepath.IsAbs(ref) {
		return "", false
	}
	if u, err := url.Parse(ref); err != nil || u.Scheme != "" {
		return "", false
	}
	abs := filepath.Join(root, ref)
	if !isPathUnderDir(abs, root) {
		return "", false
	}
	return pathToFileURL(abs), true
}

// isPathUnderDir checks if absPath is under dir (prevents path traversal).
func isPathUnderDir(absPath, dir string) bool {
	cleanPath := filepath.Clean(absPath)
	cleanDir := filepath.Clean(dir)

	if !strings.HasSuffix(cleanDir, string(filepath.Separator)) {
		cleanDir += string(filepath.Separator)
	}

	return strings.HasPrefix(cleanPath+string(filepath.Separator), cleanDir)
}

// pathToFileURL converts an absolute path to a file:// URL.
func pathToFileURL(absPath string) string {
	u := url.URL{
		Scheme: "file",
		Path:   filepath.ToSlash(absPath),
	}
	return u.String()
}
