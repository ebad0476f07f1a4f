package domain

// SkillCategory groups skills under a heading, e.g. "Languages".
type SkillCategory struct {
	Category string   `json:"category" yaml:"category" validate:"required"`
	Skills   []string `json:"skills" yaml:"skills"`
}

// Profile holds the person-level data the corpus is about.
type Profile struct {
	Name     string          `json:"name" yaml:"name" validate:"required"`
	Headline string          `json:"headline,omitempty" yaml:"headline"`
	Phone    string          `json:"phone,omitempty" yaml:"phone"`
	Email    string          `json:"email,omitempty" yaml:"email" validate:"omitempty,email"`
	LinkedIn string          `json:"linkedin,omitempty" yaml:"linkedin"`
	GitHub   string          `json:"github,omitempty" yaml:"github"`
	Website  string          `json:"website,omitempty" yaml:"website"`
	Location string          `json:"location,omitempty" yaml:"location"`
	Skills   []SkillCategory `json:"skills,omitempty" yaml:"skills" validate:"dive"`
}

// ValidateProfile validates a Profile instance
func ValidateProfile(p *Profile) error {
	if p == nil {
		return NewDomainErrorWithCause(ErrCodeValidation, ErrInvalidRecord.Message, errNilRecord("profile"))
	}
	return validateRecord("profile", "", p)
}
