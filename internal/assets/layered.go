package assets

// Layered tries each loader in order. Only not-found errors fall through
// to the next layer; an invalid name or a read failure is returned as is.
type Layered []Loader

// NewResolver returns the built-in assets, overlaid by dir when dir is set.
func NewResolver(dir string) (Layered, error) {
	if dir == "" {
		return Layered{Embedded{}}, nil
	}
	custom, err := OpenDir(dir)
	if err != nil {
		return nil, err
	}
	return Layered{custom, Embedded{}}, nil
}

func (l Layered) Load(kind Kind, name string) (string, error) {
	err := kind.notFound(name)
	for _, loader := range l {
		var content string
		content, err = loader.Load(kind, name)
		if err == nil || !IsNotFound(err) {
			return content, err
		}
	}
	return "", err
}

var _ Loader = Layered(nil)
