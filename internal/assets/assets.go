package assets

// LoadStyle loads a built-in CSS style by name.
func LoadStyle(name string) (string, error) {
	return Embedded{}.Load(Style, name)
}

// LoadTemplate loads a built-in HTML template by name.
func LoadTemplate(name string) (string, error) {
	return Embedded{}.Load(Template, name)
}

// StyleNames lists the built-in styles.
func StyleNames() []string { return Names(Style) }

// TemplateNames lists the built-in templates.
func TemplateNames() []string { return Names(Template) }
