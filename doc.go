// Package cv2pdf turns a portfolio web page into a formatted PDF résumé.
//
// # Quick Start
//
// Create a converter, convert the page, and close when done:
//
//	conv, err := cv2pdf.NewConverter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer conv.Close()
//
//	_, err = conv.ConvertFile(ctx, cv2pdf.Input{
//	    SourcePath: "index.html",
//	    Name:       "Ada Lovelace",
//	    Footer:     cv2pdf.DefaultFooter(),
//	}, "assets/cv.pdf")
//
// The result holds the extracted Record, the rendered HTML and the PDF
// bytes. Use Input.HTMLOnly with Convert to skip PDF generation, or
// Converter.Extract to read the Record alone.
//
// # Conversion Pipeline
//
//  1. Read the page (Input.HTML or Input.SourcePath)
//  2. Extract a Record: identifier lookup (#cv-title, #cv-experience, ...),
//     heading heuristics, or both (StrategyAuto, the default)
//  3. Normalize inline markup to <b> and <br/>
//  4. Render the html/template with the Record and optional Markdown appendix
//  5. Inject CSS and rewrite relative asset paths to file:// URLs
//  6. Render the PDF with the configured backend
//
// Extraction is all or nothing: every missing element is reported in one
// *ExtractionError and no HTML or PDF is produced.
//
// # Templates
//
// Templates receive a ResumeData value: .Name, .Title, .Contact.Email,
// .Projects (.Title, .Details), .Experience (.Title, .Employer, .Duration),
// .Education (.Institution, .Qualification, .Year), .Skills, .Achievements
// and .Appendix. .Fields holds the same record as a map with lower-case keys.
//
// # Backends
//
// BackendRod (default) and BackendChromedp drive headless Chrome. go-rod
// downloads a managed Chromium on first run. BackendWkhtmltopdf runs the
// wkhtmltopdf executable (WithWkhtmltopdfPath, else looked up on PATH).
//
// Set ROD_BROWSER_BIN to use a pre-installed Chrome with either Chrome
// backend; the sandbox is disabled when it is set or when CI=true.
//
// Footer text accepts [page] and [topage] on every backend.
package cv2pdf
