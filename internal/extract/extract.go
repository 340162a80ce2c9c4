// Package extract reads a résumé Record out of a portfolio HTML page.
//
// Two addressing strategies are supported:
//
//   - Identifier lookup finds each field by a stable element id such as
//     #cv-title or #cv-experience. It survives reordering and restyling of
//     the surrounding markup.
//   - Heuristic lookup follows the page conventions: the span after the
//     header h1, icon classes in the contact list, and the table or list
//     that follows an h3 with an exact heading text. It breaks as soon as
//     headings, classes or section order change.
//
// StrategyAuto tries the identifier for each field first and falls back to
// the heuristic. All missing required elements are reported together in a
// single *ExtractionError; no partial Record is ever returned.
package extract

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/alnah/go-cv2pdf/internal/markup"
)

// ErrExtraction indicates the page does not have the expected structure.
var ErrExtraction = errors.New("résumé structure not found")

// ErrInvalidStrategy indicates an unknown addressing strategy.
var ErrInvalidStrategy = errors.New("invalid extraction strategy")

// Strategy selects how fields are located in the page.
type Strategy string

// Supported strategies.
const (
	StrategyAuto      Strategy = "auto"
	StrategyID        Strategy = "id"
	StrategyHeuristic Strategy = "heuristic"
)

// Validate checks that s names a known strategy. Empty means StrategyAuto.
func (s Strategy) Validate() error {
	switch s {
	case "", StrategyAuto, StrategyID, StrategyHeuristic:
		return nil
	}
	return fmt.Errorf("%w: %q (must be auto, id, or heuristic)", ErrInvalidStrategy, string(s))
}

// Selectors holds the identifier selectors used by StrategyID and
// StrategyAuto. An empty selector disables identifier lookup for the field.
type Selectors struct {
	Name         string `yaml:"name"`
	Title        string `yaml:"title"`
	Email        string `yaml:"email"`
	LinkedIn     string `yaml:"linkedin"`
	GitHub       string `yaml:"github"`
	Website      string `yaml:"website"`
	Summary      string `yaml:"summary"`
	Projects     string `yaml:"projects"`
	Experience   string `yaml:"experience"`
	Education    string `yaml:"education"`
	Skills       string `yaml:"skills"`
	Achievements string `yaml:"achievements"`
}

// DefaultSelectors returns the cv-* element ids.
func DefaultSelectors() Selectors {
	return Selectors{
		Name:         "#cv-name",
		Title:        "#cv-title",
		Email:        "#cv-email",
		LinkedIn:     "#cv-linkedin",
		GitHub:       "#cv-github",
		Website:      "#cv-website",
		Summary:      "#cv-summary",
		Projects:     "#cv-projects",
		Experience:   "#cv-experience",
		Education:    "#cv-education",
		Skills:       "#cv-skills",
		Achievements: "#cv-achievements",
	}
}

// Headings holds the exact, case-sensitive h3 texts the heuristic strategy
// looks for inside the about section.
type Headings struct {
	Experience   string `yaml:"experience"`
	Education    string `yaml:"education"`
	Skills       string `yaml:"skills"`
	Achievements string `yaml:"achievements"`
}

// DefaultHeadings returns the portfolio's section headings.
func DefaultHeadings() Headings {
	return Headings{
		Experience:   "Experience",
		Education:    "Formal education",
		Skills:       "Top 10 skills",
		Achievements: "Recent achievements",
	}
}

// Heuristic selectors for the portfolio layout.
const (
	headerSelector   = "div.container"
	contactSelector  = "article#contact ul.icons"
	aboutSelector    = "article#about"
	projectsSelector = "article#projects"
	emailIcon        = "a.fa-envelope"
	linkedInIcon     = "a.fa-linkedin"
	gitHubIcon       = "a.fa-github"
	websiteIcon      = "a.fa-globe"
)

// minTableCells is the number of td cells every data row must carry.
const minTableCells = 3

// Options configures extraction.
type Options struct {
	Strategy  Strategy
	Name      string // displayed name; when empty the Name selector is read
	Selectors Selectors
	Headings  Headings
}

// DefaultOptions returns identifier-first options with default selectors.
func DefaultOptions() Options {
	return Options{
		Strategy:  StrategyAuto,
		Selectors: DefaultSelectors(),
		Headings:  DefaultHeadings(),
	}
}

// ExtractionError lists every required element that could not be found.
type ExtractionError struct {
	Problems []string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("%v: %s", ErrExtraction, strings.Join(e.Problems, "; "))
}

func (e *ExtractionError) Unwrap() error {
	return ErrExtraction
}

// ExtractReader parses r as HTML and extracts the Record.
func ExtractReader(r io.Reader, opts Options) (*Record, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	return Extract(doc, opts)
}

// Extract reads the Record from a parsed document.
func Extract(doc *goquery.Document, opts Options) (*Record, error) {
	if doc == nil {
		return nil, &ExtractionError{Problems: []string{"document: nil"}}
	}
	if err := opts.Strategy.Validate(); err != nil {
		return nil, err
	}
	if opts.Strategy == "" {
		opts.Strategy = StrategyAuto
	}

	e := &extractor{doc: doc, opts: opts}
	rec := &Record{
		Name:    e.name(),
		Title:   e.title(),
		Contact: e.contact(),
		Summary: e.summary(),
	}
	rec.Projects = e.projects()
	rec.Experience = e.experience()
	rec.Education = e.education()
	rec.Skills = e.list("skills", opts.Selectors.Skills, opts.Headings.Skills)
	rec.Achievements = e.list("achievements", opts.Selectors.Achievements, opts.Headings.Achievements)

	if len(e.problems) > 0 {
		return nil, &ExtractionError{Problems: e.problems}
	}
	return rec, nil
}

// heuristicFunc locates a field by page convention. It returns the match
// (possibly empty) and a description of the path it followed.
type heuristicFunc func() (*goquery.Selection, string)

type extractor struct {
	doc      *goquery.Document
	opts     Options
	problems []string
}

func (e *extractor) fail(field, format string, args ...any) {
	e.problems = append(e.problems, field+": "+fmt.Sprintf(format, args...))
}

func (e *extractor) useID() bool {
	return e.opts.Strategy == StrategyAuto || e.opts.Strategy == StrategyID
}

func (e *extractor) useHeuristic() bool {
	return e.opts.Strategy == StrategyAuto || e.opts.Strategy == StrategyHeuristic
}

// find tries the identifier selector, then the heuristic, according to the
// strategy. It returns nil and the list of paths tried when nothing matched.
func (e *extractor) find(selector string, heuristic heuristicFunc) (*goquery.Selection, []string) {
	var tried []string

	if e.useID() && selector != "" {
		if s := e.doc.Find(selector).First(); s.Length() > 0 {
			return s, nil
		}
		tried = append(tried, selector)
	}

	if e.useHeuristic() && heuristic != nil {
		s, path := heuristic()
		if s != nil && s.Length() > 0 {
			return s, nil
		}
		tried = append(tried, path)
	}

	return nil, tried
}

// require is find for mandatory fields: a miss is recorded as a problem.
func (e *extractor) require(field, selector string, heuristic heuristicFunc) *goquery.Selection {
	s, tried := e.find(selector, heuristic)
	if s == nil {
		if len(tried) == 0 {
			e.fail(field, "no lookup enabled for strategy %q", string(e.opts.Strategy))
		} else {
			e.fail(field, "not found (tried %s)", strings.Join(tried, ", "))
		}
	}
	return s
}

func (e *extractor) name() string {
	if e.opts.Name != "" {
		return e.opts.Name
	}
	if sel := e.opts.Selectors.Name; sel != "" {
		if s := e.doc.Find(sel).First(); s.Length() > 0 {
			if name := text(s); name != "" {
				return name
			}
		}
	}
	e.fail("name", "no configured name and no %s element", orNone(e.opts.Selectors.Name))
	return ""
}

func (e *extractor) title() string {
	s := e.require("title", e.opts.Selectors.Title, func() (*goquery.Selection, string) {
		h1 := e.doc.Find(headerSelector).First().Find("h1").First()
		return h1.NextAllFiltered("span").First(), headerSelector + " h1 ~ span"
	})
	if s == nil {
		return ""
	}
	return text(s)
}

func (e *extractor) contact() Contact {
	icons := func(class string) heuristicFunc {
		return func() (*goquery.Selection, string) {
			return e.doc.Find(contactSelector).First().Find(class).First(), contactSelector + " " + class
		}
	}

	c := Contact{
		Email:    stripScheme(e.href("email", e.opts.Selectors.Email, icons(emailIcon))),
		LinkedIn: e.href("linkedin", e.opts.Selectors.LinkedIn, icons(linkedInIcon)),
		GitHub:   e.href("github", e.opts.Selectors.GitHub, icons(gitHubIcon)),
	}

	if s, _ := e.find(e.opts.Selectors.Website, icons(websiteIcon)); s != nil {
		c.Website = strings.TrimSpace(s.AttrOr("href", ""))
	}
	return c
}

// href returns the href of a required anchor.
func (e *extractor) href(field, selector string, heuristic heuristicFunc) string {
	s := e.require(field, selector, heuristic)
	if s == nil {
		return ""
	}
	v, ok := s.Attr("href")
	if !ok || strings.TrimSpace(v) == "" {
		e.fail(field, "anchor has no href")
		return ""
	}
	return strings.TrimSpace(v)
}

func (e *extractor) summary() string {
	s := e.require("summary", e.opts.Selectors.Summary, func() (*goquery.Selection, string) {
		return e.doc.Find(aboutSelector).First().Find("blockquote").First(), aboutSelector + " blockquote"
	})
	if s == nil {
		return ""
	}
	return text(s)
}

func (e *extractor) projects() []Project {
	container := e.require("projects", e.opts.Selectors.Projects, func() (*goquery.Selection, string) {
		return e.doc.Find(projectsSelector).First(), projectsSelector
	})
	if container == nil {
		return nil
	}

	projects := []Project{}
	container.Find("h3").Each(func(_ int, h *goquery.Selection) {
		projects = append(projects, Project{
			Title:   text(h),
			Details: markup.Normalize(node(h.NextAllFiltered("p").First())),
		})
	})
	return projects
}

func (e *extractor) experience() []Experience {
	rows, ok := e.tableRows("experience", e.opts.Selectors.Experience, e.opts.Headings.Experience)
	if !ok {
		return nil
	}

	out := make([]Experience, 0, len(rows))
	for _, cells := range rows {
		out = append(out, Experience{
			Title:    text(cells.Eq(0)),
			Employer: markup.JoinBreaks(markup.Normalize(node(cells.Eq(1))), markup.SepComma),
			Duration: markup.JoinBreaks(markup.Normalize(node(cells.Eq(2))), markup.SepDash),
		})
	}
	return out
}

func (e *extractor) education() []Education {
	rows, ok := e.tableRows("education", e.opts.Selectors.Education, e.opts.Headings.Education)
	if !ok {
		return nil
	}

	out := make([]Education, 0, len(rows))
	for _, cells := range rows {
		out = append(out, Education{
			Institution:   text(cells.Eq(0)),
			Qualification: text(cells.Eq(1)),
			Year:          text(cells.Eq(2)),
		})
	}
	return out
}

// tableRows locates a table and returns the td cells of each tbody row.
// Rows without td cells (th-only header rows) are skipped; rows with fewer
// than minTableCells cells are a structural error.
func (e *extractor) tableRows(field, selector, heading string) ([]*goquery.Selection, bool) {
	s := e.require(field, selector, e.afterHeading(heading, "table"))
	if s == nil {
		return nil, false
	}

	table := s
	if goquery.NodeName(s) != "table" {
		table = s.Find("table").First()
		if table.Length() == 0 {
			e.fail(field, "%s contains no table", selector)
			return nil, false
		}
	}

	tbody := table.ChildrenFiltered("tbody").First()
	if tbody.Length() == 0 {
		e.fail(field, "table has no tbody")
		return nil, false
	}

	rows := []*goquery.Selection{}
	valid := true
	tbody.ChildrenFiltered("tr").Each(func(i int, tr *goquery.Selection) {
		cells := tr.ChildrenFiltered("td")
		switch n := cells.Length(); {
		case n == 0:
			return
		case n < minTableCells:
			e.fail(field, "row %d has %d cells, want %d", i+1, n, minTableCells)
			valid = false
		default:
			rows = append(rows, cells)
		}
	})
	return rows, valid
}

func (e *extractor) list(field, selector, heading string) []string {
	s := e.require(field, selector, e.afterHeading(heading, "ul"))
	if s == nil {
		return nil
	}

	list := s
	if name := goquery.NodeName(s); name != "ul" && name != "ol" {
		list = s.Find("ul, ol").First()
		if list.Length() == 0 {
			e.fail(field, "%s contains no list", selector)
			return nil
		}
	}

	items := []string{}
	list.ChildrenFiltered("li").Each(func(_ int, li *goquery.Selection) {
		items = append(items, text(li))
	})
	return items
}

// afterHeading returns a heuristic that finds the h3 in the about section
// whose text equals heading exactly, then the next tag element after it in
// document order.
func (e *extractor) afterHeading(heading, tag string) heuristicFunc {
	return func() (*goquery.Selection, string) {
		path := fmt.Sprintf("%s h3 %q -> next %s", aboutSelector, heading, tag)
		if heading == "" {
			return nil, path
		}

		h := e.doc.Find(aboutSelector).First().Find("h3").FilterFunction(func(_ int, s *goquery.Selection) bool {
			return s.Text() == heading
		}).First()
		if h.Length() == 0 {
			return nil, path
		}

		next := findNext(h.Get(0), tag)
		if next == nil {
			return nil, path
		}
		return e.doc.FindNodes(next), path
	}
}

// findNext walks the tree in document order from n and returns the first
// element named tag, searching n's descendants first.
func findNext(n *html.Node, tag string) *html.Node {
	for cur := nextNode(n); cur != nil; cur = nextNode(cur) {
		if cur.Type == html.ElementNode && cur.Data == tag {
			return cur
		}
	}
	return nil
}

func nextNode(n *html.Node) *html.Node {
	if n.FirstChild != nil {
		return n.FirstChild
	}
	for ; n != nil; n = n.Parent {
		if n.NextSibling != nil {
			return n.NextSibling
		}
	}
	return nil
}

// text returns the selection's text, trimmed with inner whitespace runs
// collapsed to single spaces.
func text(s *goquery.Selection) string {
	return strings.Join(strings.Fields(s.Text()), " ")
}

// node returns the first node of s, or nil for an empty selection.
func node(s *goquery.Selection) *html.Node {
	if s == nil || s.Length() == 0 {
		return nil
	}
	return s.Get(0)
}

// stripScheme removes a leading URI scheme ("mailto:") and any query part.
func stripScheme(href string) string {
	if i := strings.IndexByte(href, ':'); i > 0 && isScheme(href[:i]) {
		href = strings.TrimPrefix(href[i+1:], "//")
	}
	if i := strings.IndexByte(href, '?'); i >= 0 {
		href = href[:i]
	}
	return strings.TrimSpace(href)
}

// isScheme reports whether s is a valid URI scheme (RFC 3986 section 3.1).
func isScheme(s string) bool {
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && (r >= '0' && r <= '9' || r == '+' || r == '-' || r == '.'):
		default:
			return false
		}
	}
	return s != ""
}

func orNone(s string) string {
	if s == "" {
		return "name selector"
	}
	return s
}
