package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/alnah/go-cv2pdf/internal/assets"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: cv2pdf [command] [flags] [source]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  build      Build the PDF résumé from a portfolio page (default)")
	fmt.Fprintln(w, "  extract    Print the résumé found in a portfolio page as YAML")
	fmt.Fprintln(w, "  doctor     Check the PDF backends and environment")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'cv2pdf help <command>' for details on a specific command.")
}

// printBuildUsage prints usage for the build command.
func printBuildUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: cv2pdf build [source] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Build a PDF résumé from a portfolio HTML page.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintf(w, "  source    Portfolio page (default: config source, or %s)\n", defaultSource)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>         Output PDF (default: NAME_CV.pdf or cv.pdf next to source)")
	fmt.Fprintln(w, "  -c, --config <name>         Config file name or path")
	fmt.Fprintln(w, "      --name <s>              Name shown on the résumé")
	fmt.Fprintln(w, "      --base-dir <dir>        Base directory for relative assets")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Extraction:")
	fmt.Fprintln(w, "      --strategy <s>          auto, id, heuristic")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Template and style:")
	fmt.Fprintf(w, "  -t, --template <s>          Template name or file (built-in: %s)\n", strings.Join(assets.TemplateNames(), ", "))
	fmt.Fprintf(w, "      --style <s>             Style name or CSS file (built-in: %s)\n", strings.Join(assets.StyleNames(), ", "))
	fmt.Fprintln(w, "      --asset-path <dir>      Directory overriding built-in assets")
	fmt.Fprintln(w, "      --appendix <file>       Markdown appended to the résumé")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Backend:")
	fmt.Fprintln(w, "  -b, --backend <s>           rod (default), chromedp, wkhtmltopdf")
	fmt.Fprintln(w, "      --timeout <d>           PDF generation timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w, "      --wkhtmltopdf-path <p>  wkhtmltopdf executable")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Page:")
	fmt.Fprintln(w, "  -p, --page-size <s>         a4 (default), letter, legal")
	fmt.Fprintln(w, "      --orientation <s>       portrait (default), landscape")
	fmt.Fprintln(w, "      --margin <cm>           Margin on every side (0-10)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Footer:")
	fmt.Fprintln(w, "      --footer-text <s>       Text; [page] and [topage] are replaced")
	fmt.Fprintln(w, "      --footer-position <s>   left, center, right (default)")
	fmt.Fprintln(w, "      --footer-date <s>       Date: \"auto\", \"auto:FORMAT\", or literal")
	fmt.Fprintln(w, "                              Tokens: YYYY, YY, MMMM, MMM, MM, M, DD, D")
	fmt.Fprintln(w, "                              Presets: iso, european, us, long, month")
	fmt.Fprintln(w, "      --footer-font-size <n>  Font size in points (6-24)")
	fmt.Fprintln(w, "      --no-footer-line        Omit the line above the footer")
	fmt.Fprintln(w, "      --no-footer             Disable footer")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "      --html                  Write HTML alongside PDF")
	fmt.Fprintln(w, "      --html-only             Write HTML only, skip PDF")
	fmt.Fprintln(w, "  -q, --quiet                 Only show errors")
	fmt.Fprintln(w, "  -v, --verbose               Show debug logs and timings")
}

// printExtractUsage prints usage for the extract command.
func printExtractUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: cv2pdf extract [source] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Print the résumé found in a portfolio page as YAML. Nothing is rendered.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -o, --output <path>         Write YAML to a file instead of stdout")
	fmt.Fprintln(w, "  -c, --config <name>         Config file name or path")
	fmt.Fprintln(w, "      --name <s>              Name shown on the résumé")
	fmt.Fprintln(w, "      --strategy <s>          auto, id, heuristic")
	fmt.Fprintln(w, "  -q, --quiet                 Only show errors")
	fmt.Fprintln(w, "  -v, --verbose               Show debug logs")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case cmdBuild:
		printBuildUsage(env.Stdout)
	case cmdExtract:
		printExtractUsage(env.Stdout)
	case cmdDoctor:
		fmt.Fprintln(env.Stdout, "Usage: cv2pdf doctor [--json]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Check Chrome, wkhtmltopdf and the environment.")
	case cmdVersion:
		fmt.Fprintln(env.Stdout, "Usage: cv2pdf version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case cmdHelp:
		fmt.Fprintln(env.Stdout, "Usage: cv2pdf help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
