package domain

import "fmt"

// Education is a degree or school entry.
type Education struct {
	ID          string   `json:"id" yaml:"id" validate:"required"`
	Institution string   `json:"institution" yaml:"institution" validate:"required"`
	Degree      string   `json:"degree" yaml:"degree" validate:"required"`
	Period      string   `json:"period,omitempty" yaml:"period"`
	StartYear   int      `json:"startYear,omitempty" yaml:"startYear"`
	EndYear     int      `json:"endYear,omitempty" yaml:"endYear" validate:"omitempty,gtefield=StartYear"`
	GPA         string   `json:"gpa,omitempty" yaml:"gpa"`
	Location    string   `json:"location,omitempty" yaml:"location"`
	Logo        string   `json:"logo,omitempty" yaml:"logo"`
	Image       string   `json:"image,omitempty" yaml:"image"`
	Images      []string `json:"images,omitempty" yaml:"images"`
	Description []string `json:"description" yaml:"description"`
	Coursework  []string `json:"coursework,omitempty" yaml:"coursework"`
}

// AllImages returns Images, or the legacy single Image as a one-element list.
func (e *Education) AllImages() []string {
	if len(e.Images) > 0 {
		out := make([]string, len(e.Images))
		copy(out, e.Images)
		return out
	}
	if e.Image != "" {
		return []string{e.Image}
	}
	return []string{}
}

// DateRange returns Period, or a range built from the start and end years.
// An open-ended entry reads "2021 - Present".
func (e *Education) DateRange() string {
	if e.Period != "" {
		return e.Period
	}
	if e.StartYear == 0 {
		return ""
	}
	if e.EndYear == 0 {
		return fmt.Sprintf("%d - Present", e.StartYear)
	}
	return fmt.Sprintf("%d - %d", e.StartYear, e.EndYear)
}

// ValidateEducation validates an Education instance
func ValidateEducation(e *Education) error {
	if e == nil {
		return NewDomainErrorWithCause(ErrCodeValidation, ErrInvalidRecord.Message, errNilRecord("education"))
	}
	return validateRecord("education", e.ID, e)
}
