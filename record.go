package cv2pdf

import "github.com/alnah/go-cv2pdf/internal/extract"

// Record is the structured résumé read from the portfolio page.
type Record = extract.Record

// Record components.
type (
	Contact    = extract.Contact
	Project    = extract.Project
	Experience = extract.Experience
	Education  = extract.Education
)

// ExtractionError lists every required element missing from the page.
// It wraps ErrExtraction.
type ExtractionError = extract.ExtractionError

// Strategy selects how résumé fields are located in the page.
type Strategy = extract.Strategy

// Supported strategies.
const (
	StrategyAuto      = extract.StrategyAuto
	StrategyID        = extract.StrategyID
	StrategyHeuristic = extract.StrategyHeuristic
)

// Selectors are the CSS selectors of the identifier strategy.
type Selectors = extract.Selectors

// Headings are the exact h3 texts of the heuristic strategy.
type Headings = extract.Headings

// DefaultSelectors returns the #cv-* identifiers.
func DefaultSelectors() Selectors { return extract.DefaultSelectors() }

// DefaultHeadings returns the portfolio's section headings.
func DefaultHeadings() Headings { return extract.DefaultHeadings() }
