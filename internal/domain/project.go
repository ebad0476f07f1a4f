package domain

// ProjectDetails holds presentation-only project content.
type ProjectDetails struct {
	Images []string `json:"images,omitempty" yaml:"images"`
}

// Project is a portfolio project.
type Project struct {
	ID           string         `json:"id" yaml:"id" validate:"required"`
	Title        string         `json:"title" yaml:"title" validate:"required"`
	Category     string         `json:"category,omitempty" yaml:"category"`
	Info         Body           `json:"projectInfo" yaml:"projectInfo"`
	Technologies Technologies   `json:"technologies,omitempty" yaml:"technologies"`
	Industry     string         `json:"industry,omitempty" yaml:"industry"`
	Client       string         `json:"client,omitempty" yaml:"client"`
	Date         string         `json:"date,omitempty" yaml:"date"`
	URLs         []Link         `json:"urls,omitempty" yaml:"urls" validate:"dive"`
	Details      ProjectDetails `json:"details" yaml:"details"`
}

// ValidateProject validates a Project instance
func ValidateProject(p *Project) error {
	if p == nil {
		return NewDomainErrorWithCause(ErrCodeValidation, ErrInvalidRecord.Message, errNilRecord("project"))
	}
	return validateRecord("project", p.ID, p)
}
