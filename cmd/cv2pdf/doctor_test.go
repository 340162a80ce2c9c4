package main

// Notes:
// - diagnose runs against fake probes; only runDoctorCmd touches the real
//   machine, and its test asserts on shape alone.
// - The temp directory and /.dockerenv checks still read the real system.

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

// fakeProbes builds probes from a fixed machine description.
func fakeProbes(chrome string, wkhtmltopdf string, env map[string]string) probes {
	return probes{
		chrome: func() (string, bool) { return chrome, chrome != "" },
		lookPath: func(file string) (string, error) {
			if wkhtmltopdf == "" {
				return "", errors.New("not found")
			}
			return wkhtmltopdf, nil
		},
		version: func(path string) (string, error) { return "v1 " + path, nil },
		getenv:  func(key string) string { return env[key] },
	}
}

// ---------------------------------------------------------------------------
// TestDiagnose_Backends - Readiness per --backend value
// ---------------------------------------------------------------------------

func TestDiagnose_Backends(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		chrome      string
		wkhtmltopdf string
		env         map[string]string
		wantReady   map[string]bool
		wantStatus  string
		wantMessage string
	}{
		{
			name:        "everything installed",
			chrome:      "/usr/bin/chromium",
			wkhtmltopdf: "/usr/bin/wkhtmltopdf",
			wantReady:   map[string]bool{"rod": true, "chromedp": true, "wkhtmltopdf": true},
			wantStatus:  statusReady,
		},
		{
			name:       "chrome only",
			chrome:     "/usr/bin/chromium",
			wantReady:  map[string]bool{"rod": true, "chromedp": true, "wkhtmltopdf": false},
			wantStatus: statusReady,
		},
		{
			name:        "wkhtmltopdf only",
			wkhtmltopdf: "/usr/bin/wkhtmltopdf",
			wantReady:   map[string]bool{"rod": false, "chromedp": false, "wkhtmltopdf": true},
			wantStatus:  statusWarnings,
			wantMessage: `Backend "rod" is unavailable; use --backend wkhtmltopdf`,
		},
		{
			name:        "wkhtmltopdf selected and present",
			wkhtmltopdf: "/usr/bin/wkhtmltopdf",
			env:         map[string]string{"CV2PDF_BACKEND": "wkhtmltopdf"},
			wantReady:   map[string]bool{"rod": false, "chromedp": false, "wkhtmltopdf": true},
			wantStatus:  statusReady,
		},
		{
			name:        "nothing installed",
			wantReady:   map[string]bool{"rod": false, "chromedp": false, "wkhtmltopdf": false},
			wantStatus:  statusErrors,
			wantMessage: "No PDF backend available",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			// Keep the sandbox warning out of the status.
			env := map[string]string{"ROD_NO_SANDBOX": "1"}
			for k, v := range tt.env {
				env[k] = v
			}
			r := diagnose(fakeProbes(tt.chrome, tt.wkhtmltopdf, env))

			for _, b := range r.Backends {
				if want, ok := tt.wantReady[b.Name]; !ok || b.Ready != want {
					t.Errorf("backend %s ready = %v, want %v", b.Name, b.Ready, want)
				}
			}
			if r.Status != tt.wantStatus {
				t.Errorf("Status = %q, want %q (warnings %v, errors %v)", r.Status, tt.wantStatus, r.Warnings, r.Errors)
			}
			if tt.wantMessage != "" {
				all := strings.Join(append(r.Warnings, r.Errors...), "\n")
				if !strings.Contains(all, tt.wantMessage) {
					t.Errorf("messages %q should contain %q", all, tt.wantMessage)
				}
			}
		})
	}
}

func TestDiagnose_VersionAndBinary(t *testing.T) {
	t.Parallel()

	r := diagnose(fakeProbes("/opt/chrome", "/opt/wk", nil))

	want := map[string]backendStatus{
		"rod":         {Name: "rod", Ready: true, Binary: "/opt/chrome", Version: "v1 /opt/chrome"},
		"chromedp":    {Name: "chromedp", Ready: true, Binary: "/opt/chrome", Version: "v1 /opt/chrome"},
		"wkhtmltopdf": {Name: "wkhtmltopdf", Ready: true, Binary: "/opt/wk", Version: "v1 /opt/wk"},
	}
	if len(r.Backends) != len(want) {
		t.Fatalf("len(Backends) = %d, want %d", len(r.Backends), len(want))
	}
	for _, b := range r.Backends {
		if b != want[b.Name] {
			t.Errorf("backend = %+v, want %+v", b, want[b.Name])
		}
	}
}

func TestDiagnose_WkhtmltopdfPathFromEnv(t *testing.T) {
	t.Parallel()

	var looked string
	p := fakeProbes("", "", map[string]string{"CV2PDF_WKHTMLTOPDF_PATH": "/opt/wk/bin/wkhtmltopdf"})
	p.lookPath = func(file string) (string, error) {
		looked = file
		return "", errors.New("not found")
	}

	diagnose(p)
	if looked != "/opt/wk/bin/wkhtmltopdf" {
		t.Errorf("looked up %q, want the configured path", looked)
	}
}

func TestDiagnose_MissingBrowserBin(t *testing.T) {
	t.Parallel()

	p := fakeProbes("", "/usr/bin/wkhtmltopdf", nil)
	p.chrome = func() (string, bool) { return "/nowhere/chrome", false }

	r := diagnose(p)
	if !strings.Contains(strings.Join(r.Warnings, "\n"), "ROD_BROWSER_BIN points to a missing file: /nowhere/chrome") {
		t.Errorf("Warnings = %v, want the missing ROD_BROWSER_BIN", r.Warnings)
	}
}

func TestDiagnose_VersionFailure(t *testing.T) {
	t.Parallel()

	p := fakeProbes("/usr/bin/chromium", "", nil)
	p.version = func(string) (string, error) { return "", errors.New("exit status 1") }

	r := diagnose(p)
	if !strings.Contains(strings.Join(r.Warnings, "\n"), "Could not get Chrome version") {
		t.Errorf("Warnings = %v, want a version warning", r.Warnings)
	}
}

// ---------------------------------------------------------------------------
// TestDiagnose_Environment - Container, CI and sandbox detection
// ---------------------------------------------------------------------------

func TestDiagnose_Environment(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		env         map[string]string
		wantCI      bool
		wantSandbox bool
		wantWarning bool
	}{
		{"workstation", nil, false, true, false},
		{"ci runner", map[string]string{"CI": "true"}, true, false, false},
		{"github actions keeps sandbox", map[string]string{"GITHUB_ACTIONS": "true"}, true, true, true},
		{"container with sandbox", map[string]string{"CV2PDF_CONTAINER": "1"}, false, true, true},
		{"container without sandbox", map[string]string{"CV2PDF_CONTAINER": "1", "ROD_NO_SANDBOX": "1"}, false, false, false},
		{"custom browser", map[string]string{"ROD_BROWSER_BIN": "/opt/chrome"}, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := diagnose(fakeProbes("/usr/bin/chromium", "/usr/bin/wkhtmltopdf", tt.env))

			if r.Env.CI != tt.wantCI {
				t.Errorf("CI = %v, want %v", r.Env.CI, tt.wantCI)
			}
			if r.Env.Sandbox != tt.wantSandbox {
				t.Errorf("Sandbox = %v, want %v", r.Env.Sandbox, tt.wantSandbox)
			}
			gotWarning := strings.Contains(strings.Join(r.Warnings, "\n"), "Set ROD_NO_SANDBOX=1")
			// /.dockerenv on the test machine also counts as a container.
			if tt.wantWarning && !gotWarning {
				t.Errorf("Warnings = %v, want the sandbox warning", r.Warnings)
			}
		})
	}
}

func TestIsContainer_Env(t *testing.T) {
	t.Parallel()

	tests := []struct {
		env  map[string]string
		hint string
	}{
		{map[string]string{"CV2PDF_CONTAINER": "1"}, "CV2PDF_CONTAINER=1"},
	}

	for _, tt := range tests {
		ok, hint := isContainer(func(k string) string { return tt.env[k] })
		if !ok || hint != tt.hint {
			t.Errorf("isContainer() = %v, %q; want true, %q", ok, hint, tt.hint)
		}
	}
}

// ---------------------------------------------------------------------------
// TestPrintDoctorReport - Human output
// ---------------------------------------------------------------------------

func TestPrintDoctorReport(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status string
		want   string
	}{
		{statusReady, "Status: Ready to build"},
		{statusWarnings, "Status: Ready with warnings"},
		{statusErrors, "Status: Not ready (see errors above)"},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			printDoctorReport(&buf, &doctorReport{
				Status: tt.status,
				Backends: []backendStatus{
					{Name: "rod", Ready: true, Binary: "/usr/bin/chromium", Version: "Chromium 120"},
					{Name: "wkhtmltopdf"},
				},
				Env:      envInfo{OS: "linux", Arch: "amd64", TempWritable: true},
				Warnings: []string{"careful"},
				Errors:   []string{"broken"},
			})
			out := buf.String()

			for _, want := range []string{
				tt.want,
				"[OK] rod          /usr/bin/chromium (Chromium 120)",
				"[--] wkhtmltopdf  not found",
				"Platform:       linux/amd64",
				"Chrome sandbox: disabled",
				"Temp directory: writable",
				"[WARN] careful",
				"[ERROR] broken",
			} {
				if !strings.Contains(out, want) {
					t.Errorf("output should contain %q, got:\n%s", want, out)
				}
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestRunDoctorCmd - Real machine, shape only
// ---------------------------------------------------------------------------

func TestRunDoctorCmd_JSON(t *testing.T) {
	t.Parallel()

	env, stdout, _ := testEnv(&mockConverter{})
	code := runDoctorCmd([]string{"--json"}, env)

	var r doctorReport
	if err := json.Unmarshal(stdout.Bytes(), &r); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, stdout.String())
	}
	if len(r.Backends) != 3 {
		t.Errorf("len(backends) = %d, want 3", len(r.Backends))
	}
	wantCode := ExitSuccess
	if r.Status == statusErrors {
		wantCode = ExitGeneral
	}
	if code != wantCode {
		t.Errorf("exit code = %d, want %d for status %q", code, wantCode, r.Status)
	}
}

func TestRunDoctorCmd_Human(t *testing.T) {
	t.Parallel()

	env, stdout, _ := testEnv(&mockConverter{})
	runDoctorCmd(nil, env)

	for _, section := range []string{"cv2pdf doctor", "Backends", "Environment", "Status:"} {
		if !strings.Contains(stdout.String(), section) {
			t.Errorf("output should contain %q, got:\n%s", section, stdout.String())
		}
	}
}
