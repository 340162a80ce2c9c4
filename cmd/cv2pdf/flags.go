package main

import (
	"os"

	flag "github.com/spf13/pflag"
)

// unsetFloat marks a float flag that was not given. Margins and other
// float settings are never negative.
const unsetFloat = -1.0

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// sourceFlags holds flags describing the portfolio page and the person.
type sourceFlags struct {
	name     string
	baseDir  string
	strategy string
}

// assetFlags holds template and style flags.
type assetFlags struct {
	template  string
	style     string
	assetPath string
	appendix  string
}

// backendFlags holds PDF renderer flags.
type backendFlags struct {
	name            string
	timeout         string
	wkhtmltopdfPath string
}

// pageFlags holds page layout flags.
type pageFlags struct {
	size        string
	orientation string
	margin      float64
}

// footerFlags holds footer-related flags.
type footerFlags struct {
	text     string
	position string
	date     string
	fontSize int
	noLine   bool
	disabled bool
}

// outputFlags holds output mode flags.
type outputFlags struct {
	html     bool
	htmlOnly bool
}

// buildFlags holds all flags of the build command.
type buildFlags struct {
	common     commonFlags
	output     string
	source     sourceFlags
	assets     assetFlags
	backend    backendFlags
	page       pageFlags
	footer     footerFlags
	outputMode outputFlags
}

// extractFlags holds all flags of the extract command.
type extractFlags struct {
	common commonFlags
	output string
	source sourceFlags
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logs and stage timings")
}

// addSourceFlags adds source page flags to a FlagSet.
func addSourceFlags(fs *flag.FlagSet, f *sourceFlags) {
	fs.StringVar(&f.name, "name", "", "name shown on the résumé")
	fs.StringVar(&f.baseDir, "base-dir", "", "base directory for relative assets")
	fs.StringVar(&f.strategy, "strategy", "", "extraction strategy: auto, id, heuristic")
}

// addAssetFlags adds template and style flags to a FlagSet.
func addAssetFlags(fs *flag.FlagSet, f *assetFlags) {
	fs.StringVarP(&f.template, "template", "t", "", "template name or file path")
	fs.StringVar(&f.style, "style", "", "style name or CSS file path")
	fs.StringVar(&f.assetPath, "asset-path", "", "directory overriding built-in assets")
	fs.StringVar(&f.appendix, "appendix", "", "Markdown file appended to the résumé")
}

// addBackendFlags adds renderer flags to a FlagSet.
func addBackendFlags(fs *flag.FlagSet, f *backendFlags) {
	fs.StringVarP(&f.name, "backend", "b", "", "PDF backend: rod, chromedp, wkhtmltopdf")
	fs.StringVar(&f.timeout, "timeout", "", "PDF generation timeout (e.g., 30s, 2m)")
	fs.StringVar(&f.wkhtmltopdfPath, "wkhtmltopdf-path", "", "wkhtmltopdf executable")
}

// addPageFlags adds page layout flags to a FlagSet.
func addPageFlags(fs *flag.FlagSet, f *pageFlags) {
	fs.StringVarP(&f.size, "page-size", "p", "", "page size: a4, letter, legal")
	fs.StringVar(&f.orientation, "orientation", "", "orientation: portrait, landscape")
	fs.Float64Var(&f.margin, "margin", unsetFloat, "margin on every side in cm (0-10)")
}

// addFooterFlags adds footer flags to a FlagSet.
func addFooterFlags(fs *flag.FlagSet, f *footerFlags) {
	fs.StringVar(&f.text, "footer-text", "", "footer text ([page], [topage] are replaced)")
	fs.StringVar(&f.position, "footer-position", "", "footer position: left, center, right")
	fs.StringVar(&f.date, "footer-date", "", "footer date: auto, auto:FORMAT, or literal")
	fs.IntVar(&f.fontSize, "footer-font-size", 0, "footer font size in points (6-24)")
	fs.BoolVar(&f.noLine, "no-footer-line", false, "omit the line above the footer")
	fs.BoolVar(&f.disabled, "no-footer", false, "disable footer")
}

// addOutputFlags adds output mode flags to a FlagSet.
func addOutputFlags(fs *flag.FlagSet, f *outputFlags) {
	fs.BoolVar(&f.html, "html", false, "write HTML alongside PDF")
	fs.BoolVar(&f.htmlOnly, "html-only", false, "write HTML only, skip PDF")
}

// parseBuildFlags parses build command flags and returns positional args.
func parseBuildFlags(args []string) (*buildFlags, []string, error) {
	fs := flag.NewFlagSet("build", flag.ContinueOnError)
	f := &buildFlags{}

	fs.StringVarP(&f.output, "output", "o", "", "output PDF file")

	addCommonFlags(fs, &f.common)
	addSourceFlags(fs, &f.source)
	addAssetFlags(fs, &f.assets)
	addBackendFlags(fs, &f.backend)
	addPageFlags(fs, &f.page)
	addFooterFlags(fs, &f.footer)
	addOutputFlags(fs, &f.outputMode)

	fs.Usage = func() { printBuildUsage(os.Stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	return f, fs.Args(), nil
}

// parseExtractFlags parses extract command flags and returns positional args.
func parseExtractFlags(args []string) (*extractFlags, []string, error) {
	fs := flag.NewFlagSet("extract", flag.ContinueOnError)
	f := &extractFlags{}

	fs.StringVarP(&f.output, "output", "o", "", "write YAML to a file instead of stdout")

	addCommonFlags(fs, &f.common)
	addSourceFlags(fs, &f.source)

	fs.Usage = func() { printExtractUsage(os.Stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	return f, fs.Args(), nil
}
