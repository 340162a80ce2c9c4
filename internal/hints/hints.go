// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"strings"

	"github.com/alnah/go-cv2pdf/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForBrowserConnect returns hints for headless Chrome connection errors.
func ForBrowserConnect() string {
	var hints []string

	inCI := os.Getenv("CI") != "" ||
		os.Getenv("GITHUB_ACTIONS") != "" ||
		os.Getenv("GITLAB_CI") != "" ||
		os.Getenv("JENKINS_URL") != ""

	if (inCI || IsInContainer()) && os.Getenv("ROD_NO_SANDBOX") != "1" {
		hints = append(hints, "set ROD_NO_SANDBOX=1 for Docker/CI")
	}

	if os.Getenv("ROD_BROWSER_BIN") == "" {
		hints = append(hints, "set ROD_BROWSER_BIN to use custom Chrome")
	}

	hints = append(hints, "or use --backend wkhtmltopdf")

	return formatHints(hints)
}

// ForTimeout returns a hint about increasing the timeout.
func ForTimeout() string {
	return format("pages with remote fonts or images may need a larger --timeout")
}

// ForConfigNotFound suggests --config, or creating the user config file
// when one of the searched paths is under ~/.config/go-cv2pdf.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/cv2pdf.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(p, ".config/go-cv2pdf") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForAssetNotFound lists the available built-in assets of a kind
// ("style", "template").
func ForAssetNotFound(kind string, available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available " + kind + "s: " + strings.Join(available, ", ") + "; or pass a file path")
}

// ForExtraction returns hints for a page whose structure was not recognized.
func ForExtraction(strategy string) string {
	var hints []string
	switch strategy {
	case "id":
		hints = append(hints, `mark each section with an id such as id="cv-experience"`)
	case "heuristic":
		hints = append(hints, "check the section headings match extraction.headings in the config")
	default:
		hints = append(hints, `add id="cv-..." attributes to the page or adjust extraction.headings`)
	}
	hints = append(hints, "run 'cv2pdf extract' to inspect what is found")
	return formatHints(hints)
}

// ForWkhtmltopdf returns hints when the wkhtmltopdf executable is missing.
func ForWkhtmltopdf(path string) string {
	if path == "" {
		return format("install wkhtmltopdf (https://wkhtmltopdf.org) or set backend.wkhtmltopdf_path")
	}
	return format("install wkhtmltopdf or fix backend.wkhtmltopdf_path (currently " + path + ")")
}

func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
