package service

import (
	"fmt"
	"strings"

	"github.com/cloo-solutions/folio/internal/domain"
	"github.com/cloo-solutions/folio/internal/ranking"
)

// CorpusReader is the read-only view of the corpus the services need.
type CorpusReader interface {
	Profile() domain.Profile
	Experiences() []domain.Experience
	Projects() []domain.Project
	Education() []domain.Education
	Experience(id string) (domain.Experience, bool)
	Project(id string) (domain.Project, bool)
	EducationByID(id string) (domain.Education, bool)
}

const contextDelimiter = "\n---\n"

// experienceText is the text an experience is scored against.
func experienceText(e domain.Experience) string {
	return ranking.NormalizeText(e.Company, e.Role, e.Description, e.Details)
}

func projectText(p domain.Project) string {
	return ranking.NormalizeText(p.Title, p.Info.Strings(), []string(p.Technologies), p.Industry)
}

func educationText(e domain.Education) string {
	return ranking.NormalizeText(e.Institution, e.Degree, e.Description, e.Coursework)
}

// ExperiencesContext serializes every experience into "ID: ...\nCompany: ..."
// blocks joined by a "---" line, the shape the generative prompts expect.
func ExperiencesContext(exps []domain.Experience) string {
	blocks := make([]string, 0, len(exps))
	for _, e := range exps {
		var b strings.Builder
		fmt.Fprintf(&b, "ID: %s\n", e.ID)
		fmt.Fprintf(&b, "Company: %s\n", e.Company)
		fmt.Fprintf(&b, "Role: %s\n", e.Role)
		fmt.Fprintf(&b, "Period: %s\n", e.Period)
		fmt.Fprintf(&b, "Description: %s\n", e.Description)
		fmt.Fprintf(&b, "Details: %s\n", strings.Join(e.Details.Description, " "))
		fmt.Fprintf(&b, "Location: %s\n", e.Details.Location)
		fmt.Fprintf(&b, "Skills: %s\n", strings.Join(e.Details.Skills, ", "))
		fmt.Fprintf(&b, "Images: %s\n", orNone(strings.Join(e.Details.Images, ", ")))
		blocks = append(blocks, b.String())
	}
	return strings.Join(blocks, contextDelimiter)
}

// ProjectsContext serializes every project for the generative prompts.
func ProjectsContext(projects []domain.Project) string {
	blocks := make([]string, 0, len(projects))
	for _, p := range projects {
		names := make([]string, 0, len(p.URLs))
		for _, u := range p.URLs {
			names = append(names, u.Name)
		}

		var b strings.Builder
		fmt.Fprintf(&b, "ID: %s\n", p.ID)
		fmt.Fprintf(&b, "Title: %s\n", p.Title)
		fmt.Fprintf(&b, "Category: %s\n", p.Category)
		fmt.Fprintf(&b, "Info: %s\n", p.Info.Join(" "))
		fmt.Fprintf(&b, "Technologies: %s\n", p.Technologies)
		fmt.Fprintf(&b, "Industry: %s\n", p.Industry)
		fmt.Fprintf(&b, "Client: %s\n", p.Client)
		fmt.Fprintf(&b, "Date: %s\n", p.Date)
		fmt.Fprintf(&b, "Images: %s\n", orNone(strings.Join(p.Details.Images, ", ")))
		fmt.Fprintf(&b, "URLs: %s\n", strings.Join(names, ", "))
		blocks = append(blocks, b.String())
	}
	return strings.Join(blocks, contextDelimiter)
}

// EducationContext serializes every education entry for the generative prompts.
func EducationContext(education []domain.Education) string {
	blocks := make([]string, 0, len(education))
	for _, e := range education {
		coursework := strings.Join(e.Coursework, ", ")
		if coursework == "" {
			coursework = "N/A"
		}

		var b strings.Builder
		fmt.Fprintf(&b, "ID: %s\n", e.ID)
		fmt.Fprintf(&b, "Institution: %s\n", e.Institution)
		fmt.Fprintf(&b, "Degree: %s\n", e.Degree)
		fmt.Fprintf(&b, "Period: %s\n", e.DateRange())
		fmt.Fprintf(&b, "GPA: %s\n", e.GPA)
		fmt.Fprintf(&b, "Location: %s\n", e.Location)
		fmt.Fprintf(&b, "Description: %s\n", strings.Join(e.Description, " "))
		fmt.Fprintf(&b, "Coursework: %s\n", coursework)
		blocks = append(blocks, b.String())
	}
	return strings.Join(blocks, contextDelimiter)
}

// FormatHistory renders prior turns as alternating "[User]: " and
// "[Assistant]: " lines, starting with the user. Order is preserved.
func FormatHistory(history []string) string {
	lines := make([]string, len(history))
	for i, h := range history {
		speaker := "User"
		if i%2 == 1 {
			speaker = "Assistant"
		}
		lines[i] = fmt.Sprintf("[%s]: %s", speaker, h)
	}
	return strings.Join(lines, "\n")
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
