package extract

// Record is the structured résumé read from a portfolio page.
// Sequence fields keep document order.
type Record struct {
	Name         string       `yaml:"name"`
	Title        string       `yaml:"title"`
	Contact      Contact      `yaml:"contact"`
	Summary      string       `yaml:"summary"`
	Projects     []Project    `yaml:"projects"`
	Experience   []Experience `yaml:"experience"`
	Education    []Education  `yaml:"education"`
	Skills       []string     `yaml:"skills"`
	Achievements []string     `yaml:"achievements"`
}

// Contact holds the contact channels. Website is optional.
type Contact struct {
	Email    string `yaml:"email"`
	LinkedIn string `yaml:"linkedin"`
	GitHub   string `yaml:"github"`
	Website  string `yaml:"website,omitempty"`
}

// Project is one portfolio project. Details carries normalized markup.
type Project struct {
	Title   string `yaml:"title"`
	Details string `yaml:"details"`
}

// Experience is one work history row. Employer and Duration are normalized
// markup collapsed to a single line.
type Experience struct {
	Title    string `yaml:"title"`
	Employer string `yaml:"employer"`
	Duration string `yaml:"duration"`
}

// Education is one formal education row.
type Education struct {
	Institution   string `yaml:"institution"`
	Qualification string `yaml:"qualification"`
	Year          string `yaml:"year"`
}

// Map returns the record as a mapping of named fields, the shape consumed
// by templates that index fields by name.
func (r *Record) Map() map[string]any {
	contact := map[string]string{
		"email":    r.Contact.Email,
		"linkedin": r.Contact.LinkedIn,
		"github":   r.Contact.GitHub,
	}
	if r.Contact.Website != "" {
		contact["website"] = r.Contact.Website
	}

	projects := make([]map[string]string, len(r.Projects))
	for i, p := range r.Projects {
		projects[i] = map[string]string{"title": p.Title, "details": p.Details}
	}

	experience := make([]map[string]string, len(r.Experience))
	for i, e := range r.Experience {
		experience[i] = map[string]string{"title": e.Title, "employer": e.Employer, "duration": e.Duration}
	}

	education := make([]map[string]string, len(r.Education))
	for i, e := range r.Education {
		education[i] = map[string]string{"institution": e.Institution, "qualification": e.Qualification, "year": e.Year}
	}

	return map[string]any{
		"name":         r.Name,
		"title":        r.Title,
		"contact":      contact,
		"summary":      r.Summary,
		"projects":     projects,
		"experience":   experience,
		"education":    education,
		"skills":       append([]string(nil), r.Skills...),
		"achievements": append([]string(nil), r.Achievements...),
	}
}
