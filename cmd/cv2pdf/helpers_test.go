package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	cv2pdf "github.com/alnah/go-cv2pdf"
)

// ---------------------------------------------------------------------------
// Test Infrastructure - Mock converter and environment
// ---------------------------------------------------------------------------

// fakePDF is what mockConverter writes for a PDF.
var fakePDF = []byte("%PDF-1.4 mock")

// mockConverter records calls and returns canned results.
type mockConverter struct {
	record     *cv2pdf.Record
	err        error
	input      cv2pdf.Input
	outputPath string
	closed     bool
}

func (m *mockConverter) Extract(_ context.Context, input cv2pdf.Input) (*cv2pdf.Record, error) {
	m.input = input
	if m.err != nil {
		return nil, m.err
	}
	return m.record, nil
}

func (m *mockConverter) Convert(_ context.Context, input cv2pdf.Input) (*cv2pdf.ConvertResult, error) {
	m.input = input
	if m.err != nil {
		return nil, m.err
	}
	res := &cv2pdf.ConvertResult{Record: m.record, HTML: []byte("<html>mock</html>")}
	if !input.HTMLOnly {
		res.PDF = fakePDF
	}
	return res, nil
}

func (m *mockConverter) ConvertFile(ctx context.Context, input cv2pdf.Input, outputPath string) (*cv2pdf.ConvertResult, error) {
	m.outputPath = outputPath
	res, err := m.Convert(ctx, input)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(outputPath, res.PDF, 0o600); err != nil {
		return nil, err
	}
	return res, nil
}

func (m *mockConverter) Close() error {
	m.closed = true
	return nil
}

// testEnv returns an Environment writing to buffers. With conv nil the real
// library converter is built.
func testEnv(conv *mockConverter) (*Environment, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	env := DefaultEnv()
	env.Stdout = &stdout
	env.Stderr = &stderr
	env.Now = func() time.Time { return time.Date(2025, 3, 7, 9, 0, 0, 0, time.UTC) }
	if conv != nil {
		env.NewConverter = func(...cv2pdf.Option) (Converter, error) { return conv, nil }
	}
	return env, &stdout, &stderr
}

// isolate runs the test in an empty working directory with no CV2PDF_*
// variables, so no stray config or .env is picked up. Tests calling it
// cannot run in parallel.
func isolate(t *testing.T) string {
	t.Helper()

	for _, name := range []string{
		"CV2PDF_CONFIG", "CV2PDF_SOURCE", "CV2PDF_OUTPUT", "CV2PDF_NAME",
		"CV2PDF_STYLE", "CV2PDF_TEMPLATE", "CV2PDF_BACKEND", "CV2PDF_TIMEOUT",
		"CV2PDF_WKHTMLTOPDF_PATH", "CV2PDF_PAGE_SIZE",
	} {
		t.Setenv(name, "")
	}

	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

// copyFixture copies testdata/name into dir and returns the new path.
func copyFixture(t *testing.T, dir, name string) string {
	t.Helper()

	data, err := os.ReadFile(filepath.Join(testdataDir, name))
	if err != nil {
		t.Fatalf("reading fixture: %v", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

// testdataDir is resolved before any test changes the working directory.
var testdataDir, _ = filepath.Abs("testdata")
