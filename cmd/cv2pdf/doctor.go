package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/go-rod/rod/lib/launcher"

	cv2pdf "github.com/alnah/go-cv2pdf"
)

// Report status values.
const (
	statusReady    = "ready"
	statusWarnings = "warnings"
	statusErrors   = "errors"
)

// doctorReport is what `cv2pdf doctor --json` prints.
type doctorReport struct {
	Status   string          `json:"status"`
	Backends []backendStatus `json:"backends"`
	Env      envInfo         `json:"environment"`
	Warnings []string        `json:"warnings,omitempty"`
	Errors   []string        `json:"errors,omitempty"`
}

// backendStatus tells whether one --backend value can render.
type backendStatus struct {
	Name    string `json:"name"`
	Ready   bool   `json:"ready"`
	Binary  string `json:"binary,omitempty"`
	Version string `json:"version,omitempty"`
}

type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
	Sandbox       bool   `json:"chrome_sandbox"`
	TempWritable  bool   `json:"temp_writable"`
}

// probes finds executables. Tests replace them.
type probes struct {
	chrome   func() (string, bool)
	lookPath func(file string) (string, error)
	version  func(path string) (string, error)
	getenv   func(key string) string
}

func systemProbes() probes {
	return probes{
		chrome: func() (string, bool) {
			if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
				if _, err := os.Stat(bin); err != nil {
					return bin, false
				}
				return bin, true
			}
			return launcher.LookPath()
		},
		lookPath: exec.LookPath,
		version: func(path string) (string, error) {
			out, err := exec.Command(path, "--version").Output() // #nosec G204 -- detected executable
			return strings.TrimSpace(string(out)), err
		},
		getenv: os.Getenv,
	}
}

// runDoctorCmd prints the report. It exits 1 only when no backend can
// render.
func runDoctorCmd(args []string, env *Environment) int {
	report := diagnose(systemProbes())

	if len(args) > 0 && args[0] == "--json" {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(report)
	} else {
		printDoctorReport(env.Stdout, report)
	}

	if report.Status == statusErrors {
		return ExitGeneral
	}
	return ExitSuccess
}

func diagnose(p probes) *doctorReport {
	r := &doctorReport{Env: envInfo{OS: runtime.GOOS, Arch: runtime.GOARCH}}

	chrome, chromeOK := p.chrome()
	if !chromeOK && chrome != "" {
		r.warn("ROD_BROWSER_BIN points to a missing file: %s", chrome)
	}
	var chromeVersion string
	if chromeOK {
		chromeVersion = r.version(p, "Chrome", chrome)
	}
	for _, b := range []cv2pdf.Backend{cv2pdf.BackendRod, cv2pdf.BackendChromedp} {
		s := backendStatus{Name: string(b), Ready: chromeOK}
		if chromeOK {
			s.Binary, s.Version = chrome, chromeVersion
		}
		r.Backends = append(r.Backends, s)
	}

	wk := backendStatus{Name: string(cv2pdf.BackendWkhtmltopdf)}
	name := p.getenv("CV2PDF_WKHTMLTOPDF_PATH")
	if name == "" {
		name = defaultWkhtmltopdfName
	}
	if path, err := p.lookPath(name); err == nil {
		wk.Ready, wk.Binary = true, path
		wk.Version = r.version(p, "wkhtmltopdf", path)
	}
	r.Backends = append(r.Backends, wk)

	r.checkBackends(p.getenv("CV2PDF_BACKEND"))
	r.checkEnvironment(p.getenv)
	r.checkTempDir()

	switch {
	case len(r.Errors) > 0:
		r.Status = statusErrors
	case len(r.Warnings) > 0:
		r.Status = statusWarnings
	default:
		r.Status = statusReady
	}
	return r
}

func (r *doctorReport) warn(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

func (r *doctorReport) fail(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *doctorReport) version(p probes, label, path string) string {
	v, err := p.version(path)
	if err != nil {
		r.warn("Could not get %s version: %v", label, err)
	}
	return v
}

func (r *doctorReport) ready(name string) bool {
	for _, b := range r.Backends {
		if b.Name == name {
			return b.Ready
		}
	}
	return false
}

// checkBackends fails when nothing can render and warns when the selected
// backend (CV2PDF_BACKEND, else rod) cannot.
func (r *doctorReport) checkBackends(selected string) {
	var usable []string
	for _, b := range r.Backends {
		if b.Ready {
			usable = append(usable, b.Name)
		}
	}
	if len(usable) == 0 {
		r.fail("No PDF backend available. Install Chrome or set ROD_BROWSER_BIN, or install wkhtmltopdf")
		return
	}

	if selected == "" {
		selected = string(cv2pdf.BackendRod)
	}
	if !r.ready(selected) {
		r.warn("Backend %q is unavailable; use --backend %s", selected, usable[0])
	}
}

func (r *doctorReport) checkEnvironment(getenv func(string) string) {
	r.Env.Container, r.Env.ContainerHint = isContainer(getenv)
	for _, v := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"} {
		if getenv(v) != "" {
			r.Env.CI = true
			break
		}
	}

	// Same rule the Chrome backends apply at launch.
	r.Env.Sandbox = getenv("CI") != "true" && getenv("ROD_BROWSER_BIN") == "" && getenv("ROD_NO_SANDBOX") != "1"
	if r.ready(string(cv2pdf.BackendRod)) && r.Env.Sandbox && (r.Env.Container || r.Env.CI) {
		r.warn("Container/CI detected but Chrome sandbox enabled. Set ROD_NO_SANDBOX=1")
	}
}

// isContainer returns the first container signal found.
func isContainer(getenv func(string) string) (bool, string) {
	if getenv("CV2PDF_CONTAINER") == "1" {
		return true, "CV2PDF_CONTAINER=1"
	}
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true, "/.dockerenv"
	}
	if v := getenv("container"); v != "" {
		return true, "container=" + v
	}
	if getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// checkTempDir verifies the directory used for atomic writes and browser
// profiles.
func (r *doctorReport) checkTempDir() {
	f, err := os.CreateTemp("", "cv2pdf-doctor-*")
	if err != nil {
		r.fail("Temp directory not writable: %s", os.TempDir())
		return
	}
	name := f.Name()
	_ = f.Close()
	_ = os.Remove(name)
	r.Env.TempWritable = true
}

func printDoctorReport(w io.Writer, r *doctorReport) {
	fmt.Fprintln(w, "cv2pdf doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Backends")
	for _, b := range r.Backends {
		switch {
		case !b.Ready:
			fmt.Fprintf(w, "  [--] %-12s not found\n", b.Name)
		case b.Version != "":
			fmt.Fprintf(w, "  [OK] %-12s %s (%s)\n", b.Name, b.Binary, b.Version)
		default:
			fmt.Fprintf(w, "  [OK] %-12s %s\n", b.Name, b.Binary)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  Platform:       %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintf(w, "  Container:      detected (%s)\n", r.Env.ContainerHint)
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  CI:             detected")
	}
	fmt.Fprintf(w, "  Chrome sandbox: %s\n", onOff(r.Env.Sandbox))
	if r.Env.TempWritable {
		fmt.Fprintln(w, "  Temp directory: writable")
	} else {
		fmt.Fprintln(w, "  Temp directory: NOT writable")
	}
	fmt.Fprintln(w)

	for _, warn := range r.Warnings {
		fmt.Fprintf(w, "[WARN] %s\n", warn)
	}
	for _, err := range r.Errors {
		fmt.Fprintf(w, "[ERROR] %s\n", err)
	}
	if len(r.Warnings)+len(r.Errors) > 0 {
		fmt.Fprintln(w)
	}

	switch r.Status {
	case statusReady:
		fmt.Fprintln(w, "Status: Ready to build")
	case statusWarnings:
		fmt.Fprintln(w, "Status: Ready with warnings")
	case statusErrors:
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}

func onOff(b bool) string {
	if b {
		return "enabled"
	}
	return "disabled"
}
