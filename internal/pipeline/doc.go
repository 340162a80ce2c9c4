// Package pipeline implements the HTML stages between extraction and PDF
// rendering:
//   - résumé template rendering with html/template
//   - Markdown appendix rendering with goldmark
//   - stylesheet injection into the rendered document
//   - rewriting relative asset paths to file:// URLs
//
// PDF generation is handled by the root cv2pdf package, which owns page
// layout, margins and the footer.
package pipeline
