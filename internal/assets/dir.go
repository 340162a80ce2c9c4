package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Dir loads assets from a directory laid out like the embedded tree.
type Dir struct {
	root string
}

// OpenDir checks that root is a readable directory and returns a loader
// for it. Symlinks in root are resolved once so containment checks compare
// real paths.
func OpenDir(root string) (*Dir, error) {
	if root == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidDir)
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDir, err)
	}
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		abs = real
	}

	_, err = os.ReadDir(abs)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("%w: directory does not exist: %s", ErrInvalidDir, abs)
	case err != nil:
		return nil, fmt.Errorf("%w: %v", ErrInvalidDir, err)
	}
	return &Dir{root: abs}, nil
}

func (d *Dir) Load(kind Kind, name string) (string, error) {
	if err := ValidateName(name); err != nil {
		return "", err
	}

	file := filepath.Join(d.root, kind.dir(), name+kind.ext())
	if err := d.contain(file); err != nil {
		return "", err
	}

	content, err := os.ReadFile(file) // #nosec G304 -- name validated, path contained
	if errors.Is(err, fs.ErrNotExist) {
		return "", kind.notFound(name)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRead, err)
	}
	return string(content), nil
}

// contain rejects files whose resolved path is not below root. A missing
// file keeps its unresolved path and fails later as not found.
func (d *Dir) contain(file string) error {
	if real, err := filepath.EvalSymlinks(file); err == nil {
		file = real
	}
	if !strings.HasPrefix(file, d.root+string(filepath.Separator)) {
		return fmt.Errorf("%w: %s", ErrOutsideDir, file)
	}
	return nil
}

var _ Loader = (*Dir)(nil)
