package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	cv2pdf "github.com/alnah/go-cv2pdf"
	"github.com/alnah/go-cv2pdf/internal/config"
)

// ---------------------------------------------------------------------------
// TestMergeBuildFlags - CLI flags override config values
// ---------------------------------------------------------------------------

func TestMergeBuildFlags(t *testing.T) {
	t.Parallel()

	t.Run("unset flags keep config", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		cfg.Name = "From Config"
		mergeBuildFlags(&buildFlags{page: pageFlags{margin: unsetFloat}}, cfg)

		want := config.DefaultConfig()
		want.Name = "From Config"
		if cfg.Name != want.Name || cfg.Page != want.Page || cfg.Footer != want.Footer || cfg.Backend != want.Backend {
			t.Errorf("config changed without flags: %+v", cfg)
		}
	})

	t.Run("flags win", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		cfg.Name = "From Config"
		flags := &buildFlags{
			output:  "out/cv.pdf",
			source:  sourceFlags{name: "From Flag", baseDir: "site", strategy: "id"},
			assets:  assetFlags{template: "t.html", style: "compact", assetPath: "assets", appendix: "more.md"},
			backend: backendFlags{name: "chromedp", timeout: "1m", wkhtmltopdfPath: "/opt/wk"},
			page:    pageFlags{size: "letter", orientation: "landscape", margin: 1},
			footer:  footerFlags{text: "[page]", position: "center", date: "auto", fontSize: 10, noLine: true},
		}
		mergeBuildFlags(flags, cfg)

		checks := []struct {
			field, got, want string
		}{
			{"Output", cfg.Output, "out/cv.pdf"},
			{"Name", cfg.Name, "From Flag"},
			{"BaseDir", cfg.BaseDir, "site"},
			{"Strategy", cfg.Extraction.Strategy, "id"},
			{"Template", cfg.Template, "t.html"},
			{"Style", cfg.Style, "compact"},
			{"Assets.BasePath", cfg.Assets.BasePath, "assets"},
			{"Appendix", cfg.Appendix, "more.md"},
			{"Backend.Name", cfg.Backend.Name, "chromedp"},
			{"Backend.Timeout", cfg.Backend.Timeout, "1m"},
			{"Backend.WkhtmltopdfPath", cfg.Backend.WkhtmltopdfPath, "/opt/wk"},
			{"Page.Size", cfg.Page.Size, "letter"},
			{"Page.Orientation", cfg.Page.Orientation, "landscape"},
			{"Footer.Text", cfg.Footer.Text, "[page]"},
			{"Footer.Position", cfg.Footer.Position, "center"},
			{"Footer.Date", cfg.Footer.Date, "auto"},
		}
		for _, c := range checks {
			if c.got != c.want {
				t.Errorf("%s = %q, want %q", c.field, c.got, c.want)
			}
		}

		if cfg.Page.Margins != (config.Margins{Top: 1, Right: 1, Bottom: 1, Left: 1}) {
			t.Errorf("Margins = %+v, want 1cm on every side", cfg.Page.Margins)
		}
		if cfg.Footer.FontSize != 10 {
			t.Errorf("Footer.FontSize = %d, want 10", cfg.Footer.FontSize)
		}
		if cfg.Footer.Line {
			t.Error("--no-footer-line should clear Footer.Line")
		}
		if !cfg.Footer.Enabled {
			t.Error("footer should stay enabled without --no-footer")
		}
	})

	t.Run("zero margin is a value", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		mergeBuildFlags(&buildFlags{page: pageFlags{margin: 0}}, cfg)
		if cfg.Page.Margins != (config.Margins{}) {
			t.Errorf("Margins = %+v, want zero", cfg.Page.Margins)
		}
	})

	t.Run("no footer", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		mergeBuildFlags(&buildFlags{page: pageFlags{margin: unsetFloat}, footer: footerFlags{disabled: true}}, cfg)
		if cfg.Footer.Enabled {
			t.Error("--no-footer should disable the footer")
		}
	})
}

// ---------------------------------------------------------------------------
// TestSetSource - Positional argument and default source
// ---------------------------------------------------------------------------

func TestSetSource(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		args       []string
		configured string
		want       string
		wantErr    error
	}{
		{"argument wins", []string{"site/index.html"}, "other.html", "site/index.html", nil},
		{"config used", nil, "portfolio.html", "portfolio.html", nil},
		{"default", nil, "", defaultSource, nil},
		{"too many", []string{"a.html", "b.html"}, "", "", ErrUsage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := config.DefaultConfig()
			cfg.Source = tt.configured
			err := setSource(tt.args, cfg)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cfg.Source != tt.want {
				t.Errorf("Source = %q, want %q", cfg.Source, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestBuildInput - Config to library Input
// ---------------------------------------------------------------------------

func TestBuildInput(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		cfg.Source = "index.html"
		cfg.Name = "Jane Doe"

		input, err := buildInput(cfg, false)
		if err != nil {
			t.Fatalf("buildInput() error: %v", err)
		}

		if input.SourcePath != "index.html" || input.Name != "Jane Doe" {
			t.Errorf("source/name = %q/%q", input.SourcePath, input.Name)
		}
		if input.Strategy != cv2pdf.StrategyAuto {
			t.Errorf("Strategy = %q, want auto", input.Strategy)
		}
		if input.Selectors == nil || *input.Selectors != cv2pdf.DefaultSelectors() {
			t.Errorf("Selectors = %+v, want defaults", input.Selectors)
		}
		if input.Headings == nil || *input.Headings != cv2pdf.DefaultHeadings() {
			t.Errorf("Headings = %+v, want defaults", input.Headings)
		}
		if *input.Page != *cv2pdf.DefaultPageSettings() {
			t.Errorf("Page = %+v, want %+v", input.Page, cv2pdf.DefaultPageSettings())
		}
		if input.Footer == nil || *input.Footer != *cv2pdf.DefaultFooter() {
			t.Errorf("Footer = %+v, want %+v", input.Footer, cv2pdf.DefaultFooter())
		}
		if input.HTMLOnly || input.Appendix != "" {
			t.Errorf("HTMLOnly/Appendix = %v/%q, want unset", input.HTMLOnly, input.Appendix)
		}
	})

	t.Run("footer disabled", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		cfg.Footer.Enabled = false
		input, err := buildInput(cfg, true)
		if err != nil {
			t.Fatalf("buildInput() error: %v", err)
		}
		if input.Footer != nil {
			t.Errorf("Footer = %+v, want nil", input.Footer)
		}
		if !input.HTMLOnly {
			t.Error("HTMLOnly should be set")
		}
	})

	t.Run("appendix read", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "more.md")
		if err := os.WriteFile(path, []byte("## Talks\n"), 0o600); err != nil {
			t.Fatal(err)
		}
		cfg := config.DefaultConfig()
		cfg.Appendix = path

		input, err := buildInput(cfg, false)
		if err != nil {
			t.Fatalf("buildInput() error: %v", err)
		}
		if input.Appendix != "## Talks\n" {
			t.Errorf("Appendix = %q", input.Appendix)
		}
	})

	t.Run("appendix missing", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		cfg.Appendix = filepath.Join(t.TempDir(), "missing.md")

		_, err := buildInput(cfg, false)
		if !errors.Is(err, ErrReadAppendix) {
			t.Fatalf("error = %v, want ErrReadAppendix", err)
		}
		if exitCodeFor(err) != ExitIO {
			t.Errorf("exit code = %d, want %d", exitCodeFor(err), ExitIO)
		}
	})
}

// ---------------------------------------------------------------------------
// TestConverterOptions - Options build a working converter
// ---------------------------------------------------------------------------

func TestConverterOptions(t *testing.T) {
	t.Parallel()

	t.Run("valid config", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		cfg.Style = "compact"
		cfg.Backend.Name = "wkhtmltopdf"
		cfg.Backend.WkhtmltopdfPath = "/opt/wkhtmltopdf"

		opts, err := converterOptions(cfg, nil)
		if err != nil {
			t.Fatalf("converterOptions() error: %v", err)
		}
		conv, err := cv2pdf.NewConverter(opts...)
		if err != nil {
			t.Fatalf("NewConverter() error: %v", err)
		}
		_ = conv.Close()
	})

	t.Run("unknown style", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		cfg.Style = "brutalist"

		opts, err := converterOptions(cfg, nil)
		if err != nil {
			t.Fatalf("converterOptions() error: %v", err)
		}
		_, err = cv2pdf.NewConverter(opts...)
		if !errors.Is(err, cv2pdf.ErrStyleNotFound) {
			t.Fatalf("error = %v, want ErrStyleNotFound", err)
		}
	})

	t.Run("bad timeout", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		cfg.Backend.Timeout = "soon"

		_, err := converterOptions(cfg, nil)
		if !errors.Is(err, config.ErrInvalidValue) {
			t.Fatalf("error = %v, want ErrInvalidValue", err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestResolveOutputPath - Explicit or derived output
// ---------------------------------------------------------------------------

func TestResolveOutputPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name, source, output, person, want string
	}{
		{"explicit", "site/index.html", "cv/out.pdf", "Jane Doe", "cv/out.pdf"},
		{"from name", "site/index.html", "", "Jane  Q. Doe", filepath.Join("site", "Jane_Q._Doe_CV.pdf")},
		{"no name", "index.html", "", "", "cv.pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := config.DefaultConfig()
			cfg.Source, cfg.Output, cfg.Name = tt.source, tt.output, tt.person
			if got := resolveOutputPath(cfg); got != tt.want {
				t.Errorf("resolveOutputPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHTMLPath(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"cv.pdf":          "cv.html",
		"out/Jane_CV.pdf": "out/Jane_CV.html",
		"resume":          "resume.html",
	}
	for in, want := range tests {
		if got := htmlPath(in); got != want {
			t.Errorf("htmlPath(%q) = %q, want %q", in, got, want)
		}
	}
}

// ---------------------------------------------------------------------------
// TestProgressPrinter - One line per stage
// ---------------------------------------------------------------------------

func TestProgressPrinter(t *testing.T) {
	t.Parallel()

	t.Run("all stages", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		p := newProgressPrinter(&buf, false, "assets/Jane_CV.pdf")
		p.report(cv2pdf.StageRead, "index.html")
		p.report(cv2pdf.StageExtract, "auto")
		p.report(cv2pdf.StageTemplate, "default")
		p.report(cv2pdf.StageRender, "")
		p.report(cv2pdf.StagePDF, "rod")
		p.done("Success! PDF created.")

		want := strings.Join([]string{
			"Reading 'index.html'...",
			"Scraping data from HTML...",
			"Loading template 'default'...",
			"Injecting data into template...",
			"Generating 'assets/Jane_CV.pdf'...",
			"Success! PDF created.",
		}, "\n") + "\n"
		if buf.String() != want {
			t.Errorf("output =\n%s\nwant\n%s", buf.String(), want)
		}
	})

	t.Run("quiet", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		p := newProgressPrinter(&buf, true, "cv.pdf")
		p.report(cv2pdf.StageRead, "index.html")
		p.done("Success! PDF created.")
		if buf.Len() != 0 {
			t.Errorf("quiet output = %q, want empty", buf.String())
		}
	})
}

// ---------------------------------------------------------------------------
// TestRunBuild - Converter errors and HTML output
// ---------------------------------------------------------------------------

func TestRunBuild_ConverterError(t *testing.T) {
	isolate(t)

	conv := &mockConverter{err: cv2pdf.ErrBrowserConnect}
	env, stdout, _ := testEnv(conv)
	flags := &buildFlags{page: pageFlags{margin: unsetFloat}}

	err := runBuild(t.Context(), []string{"index.html"}, flags, env)
	if !errors.Is(err, cv2pdf.ErrBrowserConnect) {
		t.Fatalf("error = %v, want ErrBrowserConnect", err)
	}
	if strings.Contains(stdout.String(), "Success") {
		t.Error("success must not be reported on failure")
	}
	if !conv.closed {
		t.Error("converter should be closed on failure")
	}
}

func TestRunBuild_StoresConfig(t *testing.T) {
	isolate(t)

	conv := &mockConverter{}
	env, _, _ := testEnv(conv)
	flags := &buildFlags{page: pageFlags{margin: unsetFloat}, source: sourceFlags{name: "Jane Doe"}}

	if err := runBuild(t.Context(), []string{"site.html"}, flags, env); err != nil {
		t.Fatalf("runBuild() error: %v", err)
	}
	if env.Config == nil || env.Config.Source != "site.html" {
		t.Errorf("env.Config should hold the resolved config, got %+v", env.Config)
	}
	if conv.input.Name != "Jane Doe" {
		t.Errorf("Input.Name = %q, want %q", conv.input.Name, "Jane Doe")
	}
}

// ---------------------------------------------------------------------------
// TestLoadConfig - Config file discovery and env overrides
// ---------------------------------------------------------------------------

func TestLoadConfig_Discovery(t *testing.T) {
	dir := isolate(t)

	env, _, _ := testEnv(&mockConverter{})
	cfg, err := loadConfig("", env)
	if err != nil {
		t.Fatalf("loadConfig() without any file error: %v", err)
	}
	if cfg.Backend.Name != config.DefaultBackend {
		t.Errorf("Backend = %q, want default", cfg.Backend.Name)
	}

	if err := os.WriteFile(filepath.Join(dir, "cv2pdf.yaml"), []byte("name: Found Default\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err = loadConfig("", env)
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	if cfg.Name != "Found Default" {
		t.Errorf("Name = %q, want cv2pdf.yaml to be picked up", cfg.Name)
	}
	if env.Config != cfg {
		t.Error("env.Config should point at the loaded config")
	}
}

func TestLoadConfig_EnvConfigPath(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "work.yaml")
	if err := os.WriteFile(path, []byte("name: From Env Path\npage:\n  size: letter\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CV2PDF_CONFIG", path)
	t.Setenv("CV2PDF_PAGE_SIZE", "legal")
	t.Setenv("CV2PDF_BACKEND", "chromedp")

	env, _, _ := testEnv(&mockConverter{})
	cfg, err := loadConfig("", env)
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	if cfg.Name != "From Env Path" {
		t.Errorf("Name = %q", cfg.Name)
	}
	if cfg.Page.Size != "letter" {
		t.Errorf("Page.Size = %q, config file should win over CV2PDF_PAGE_SIZE", cfg.Page.Size)
	}
	if cfg.Backend.Name != "chromedp" {
		t.Errorf("Backend.Name = %q, CV2PDF_BACKEND should fill a default value", cfg.Backend.Name)
	}
}

func TestLoadConfig_Missing(t *testing.T) {
	isolate(t)

	env, _, _ := testEnv(&mockConverter{})
	_, err := loadConfig("nowhere", env)
	if !errors.Is(err, config.ErrConfigNotFound) {
		t.Fatalf("error = %v, want ErrConfigNotFound", err)
	}
	if exitCodeFor(err) != ExitUsage {
		t.Errorf("exit code = %d, want %d", exitCodeFor(err), ExitUsage)
	}
}
