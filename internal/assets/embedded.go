package assets

import (
	"embed"
	"io/fs"
	"path"
	"sort"
	"strings"
)

//go:embed styles/*.css templates/*.html
var embedded embed.FS

// Embedded loads the assets compiled into the binary.
type Embedded struct{}

func (Embedded) Load(kind Kind, name string) (string, error) {
	if err := ValidateName(name); err != nil {
		return "", err
	}
	content, err := embedded.ReadFile(path.Join(kind.dir(), name+kind.ext()))
	if err != nil {
		return "", kind.notFound(name)
	}
	return string(content), nil
}

// Names lists the embedded assets of a kind, sorted.
func Names(kind Kind) []string {
	matches, err := fs.Glob(embedded, kind.dir()+"/*"+kind.ext())
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, strings.TrimSuffix(path.Base(m), kind.ext()))
	}
	sort.Strings(names)
	return names
}

var _ Loader = Embedded{}
