package domain

// Link is an external link shown on a card, e.g. a repository or a video.
type Link struct {
	Name string `json:"name" yaml:"name" validate:"required"`
	Icon string `json:"icon,omitempty" yaml:"icon"`
	URL  string `json:"link" yaml:"link" validate:"required"`
}

// ExperienceDetails holds the long-form content of an experience entry.
type ExperienceDetails struct {
	Description []string `json:"description" yaml:"description"`
	Images      []string `json:"images,omitempty" yaml:"images"`
	Skills      []string `json:"skills,omitempty" yaml:"skills"`
	Location    string   `json:"location,omitempty" yaml:"location"`
}

// Experience is a job or research position.
type Experience struct {
	ID          string            `json:"id" yaml:"id" validate:"required"`
	Company     string            `json:"company" yaml:"company" validate:"required"`
	Role        string            `json:"role" yaml:"role" validate:"required"`
	Period      string            `json:"period,omitempty" yaml:"period"`
	Description string            `json:"description,omitempty" yaml:"description"`
	Client      string            `json:"client,omitempty" yaml:"client"`
	Industry    string            `json:"industry,omitempty" yaml:"industry"`
	URLs        []Link            `json:"urls,omitempty" yaml:"urls" validate:"dive"`
	Details     ExperienceDetails `json:"details" yaml:"details"`
}

// ValidateExperience validates an Experience instance
func ValidateExperience(e *Experience) error {
	if e == nil {
		return NewDomainErrorWithCause(ErrCodeValidation, ErrInvalidRecord.Message, errNilRecord("experience"))
	}
	return validateRecord("experience", e.ID, e)
}
