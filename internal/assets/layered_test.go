package assets

import (
	"errors"
	"strings"
	"testing"
)

// stubLoader returns a fixed result for every asset.
type stubLoader struct {
	content string
	err     error
	calls   int
}

func (s *stubLoader) Load(Kind, string) (string, error) {
	s.calls++
	return s.content, s.err
}

func TestNewResolver(t *testing.T) {
	t.Parallel()

	t.Run("no directory", func(t *testing.T) {
		t.Parallel()

		r, err := NewResolver("")
		if err != nil {
			t.Fatalf("NewResolver() error = %v", err)
		}
		if len(r) != 1 {
			t.Errorf("len(layers) = %d, want 1", len(r))
		}
	})

	t.Run("directory overrides one asset", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		writeAsset(t, root, "styles", "default.css", "/* mine */")

		r, err := NewResolver(root)
		if err != nil {
			t.Fatalf("NewResolver() error = %v", err)
		}

		css, err := r.Load(Style, DefaultStyleName)
		if err != nil || css != "/* mine */" {
			t.Errorf("Load(style default) = %q, %v; want the override", css, err)
		}

		css, err = r.Load(Style, "compact")
		if err != nil || !strings.Contains(css, ".cv-header") {
			t.Errorf("Load(style compact) = %q, %v; want the built-in", css, err)
		}

		tmpl, err := r.Load(Template, DefaultTemplateName)
		if err != nil || !strings.Contains(tmpl, "{{.Name}}") {
			t.Errorf("Load(template default) error = %v; want the built-in", err)
		}
	})

	t.Run("invalid directory", func(t *testing.T) {
		t.Parallel()

		if _, err := NewResolver("/nonexistent/cv2pdf/assets"); !errors.Is(err, ErrInvalidDir) {
			t.Errorf("NewResolver() error = %v, want ErrInvalidDir", err)
		}
	})
}

func TestLayered_Load(t *testing.T) {
	t.Parallel()

	t.Run("first hit wins", func(t *testing.T) {
		t.Parallel()

		first := &stubLoader{content: "first"}
		second := &stubLoader{content: "second"}

		got, err := Layered{first, second}.Load(Style, "x")
		if err != nil || got != "first" {
			t.Errorf("Load() = %q, %v; want first", got, err)
		}
		if second.calls != 0 {
			t.Errorf("second layer called %d times, want 0", second.calls)
		}
	})

	t.Run("not found falls through", func(t *testing.T) {
		t.Parallel()

		first := &stubLoader{err: ErrStyleNotFound}
		second := &stubLoader{content: "second"}

		got, err := Layered{first, second}.Load(Style, "x")
		if err != nil || got != "second" {
			t.Errorf("Load() = %q, %v; want second", got, err)
		}
	})

	t.Run("other errors stop the search", func(t *testing.T) {
		t.Parallel()

		for _, stop := range []error{ErrInvalidName, ErrRead, ErrOutsideDir} {
			second := &stubLoader{content: "second"}
			_, err := Layered{&stubLoader{err: stop}, second}.Load(Template, "x")
			if !errors.Is(err, stop) {
				t.Errorf("Load() error = %v, want %v", err, stop)
			}
			if second.calls != 0 {
				t.Errorf("%v: second layer consulted", stop)
			}
		}
	})

	t.Run("all layers miss", func(t *testing.T) {
		t.Parallel()

		_, err := Layered{&stubLoader{err: ErrTemplateNotFound}}.Load(Template, "x")
		if !errors.Is(err, ErrTemplateNotFound) {
			t.Errorf("Load() error = %v, want ErrTemplateNotFound", err)
		}
	})

	t.Run("no layers", func(t *testing.T) {
		t.Parallel()

		_, err := Layered{}.Load(Style, "x")
		if !errors.Is(err, ErrStyleNotFound) {
			t.Errorf("Load() error = %v, want ErrStyleNotFound", err)
		}
	})
}
