package assets

import (
	"errors"
	"fmt"
	"strings"
)

// Built-in asset names.
const (
	DefaultTemplateName = "default"
	DefaultStyleName    = "default"
)

var (
	ErrStyleNotFound    = errors.New("style not found")
	ErrTemplateNotFound = errors.New("template not found")
	ErrInvalidName      = errors.New("invalid asset name")
	ErrInvalidDir       = errors.New("invalid asset directory")
	ErrRead             = errors.New("failed to read asset")
	ErrOutsideDir       = errors.New("asset path escapes directory")
)

// Kind selects the asset family: its subdirectory, extension and
// not-found error.
type Kind int

const (
	Style Kind = iota
	Template
)

func (k Kind) String() string {
	if k == Template {
		return "template"
	}
	return "style"
}

func (k Kind) dir() string {
	if k == Template {
		return "templates"
	}
	return "styles"
}

func (k Kind) ext() string {
	if k == Template {
		return ".html"
	}
	return ".css"
}

func (k Kind) notFound(name string) error {
	if k == Template {
		return fmt.Errorf("%w: %q", ErrTemplateNotFound, name)
	}
	return fmt.Errorf("%w: %q", ErrStyleNotFound, name)
}

// IsNotFound reports whether err means the asset does not exist, as opposed
// to an invalid name or an unreadable file.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrStyleNotFound) || errors.Is(err, ErrTemplateNotFound)
}

// ValidateName rejects empty names and names containing a separator or a
// dot, which rules out traversal and extension tricks alike.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidName)
	}
	if strings.ContainsAny(name, `/\.`) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// Loader returns the content of one asset.
type Loader interface {
	Load(kind Kind, name string) (string, error)
}
