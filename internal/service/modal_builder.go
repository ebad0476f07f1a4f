package service

import (
	"fmt"
	"strings"

	"github.com/cloo-solutions/folio/internal/domain"
)

const (
	// DefaultResumeLink is where the resume card points when no link is configured.
	DefaultResumeLink = "/resume.pdf"

	resumeModalID    = "resume"
	resumeTitle      = "Download Resume (PDF)"
	resumeBody       = "A tailored resume is ready. Click to download the latest PDF."
	resumeLinkLabel  = "Download Resume"
	summaryTitle     = "How I match your needs"
	summaryLead      = "I've selected these relevant highlights:"
	summaryNoResults = "• Check out my resume for a complete overview"
)

// ModalBuilder projects corpus records into response cards. It never
// modifies the records it reads.
type ModalBuilder struct {
	corpus     CorpusReader
	resumeLink string
	uuidGen    UUIDGenerator
}

// NewModalBuilder creates a ModalBuilder. An empty resumeLink means DefaultResumeLink.
func NewModalBuilder(corpus CorpusReader, resumeLink string) *ModalBuilder {
	if resumeLink == "" {
		resumeLink = DefaultResumeLink
	}
	return &ModalBuilder{
		corpus:     corpus,
		resumeLink: resumeLink,
		uuidGen:    &DefaultUUIDGenerator{},
	}
}

// Experience builds the card for an experience, or false when the id is unknown.
func (b *ModalBuilder) Experience(id string) (domain.Modal, bool) {
	e, ok := b.corpus.Experience(id)
	if !ok {
		return domain.Modal{}, false
	}

	body := domain.Paragraphs(e.Details.Description...)
	if body.IsZero() {
		body = domain.Text(e.Description)
	}
	client := e.Client
	if client == "" {
		client = e.Company
	}

	return domain.Modal{
		ID:           "experience-" + e.ID,
		Type:         domain.ModalTypeExperience,
		Title:        fmt.Sprintf("%s — %s", e.Role, e.Company),
		Body:         body,
		Images:       copyStrings(e.Details.Images),
		Technologies: copyStrings(e.Details.Skills),
		Role:         e.Role,
		Company:      e.Company,
		Client:       client,
		Industry:     e.Industry,
		Date:         e.Period,
		URLs:         modalLinks(e.URLs),
		SourceIDs:    []string{e.ID},
	}, true
}

// Project builds the card for a project, or false when the id is unknown.
func (b *ModalBuilder) Project(id string) (domain.Modal, bool) {
	p, ok := b.corpus.Project(id)
	if !ok {
		return domain.Modal{}, false
	}

	return domain.Modal{
		ID:           "project-" + p.ID,
		Type:         domain.ModalTypeProject,
		Title:        p.Title,
		Body:         p.Info,
		Images:       copyStrings(p.Details.Images),
		Technologies: copyStrings(p.Technologies),
		Client:       p.Client,
		Industry:     p.Industry,
		Date:         p.Date,
		URLs:         modalLinks(p.URLs),
		SourceIDs:    []string{p.ID},
	}, true
}

// Education builds the card for an education entry, or false when the id is unknown.
func (b *ModalBuilder) Education(id string) (domain.Modal, bool) {
	e, ok := b.corpus.EducationByID(id)
	if !ok {
		return domain.Modal{}, false
	}

	return domain.Modal{
		ID:           "education-" + e.ID,
		Type:         domain.ModalTypeEducation,
		Title:        fmt.Sprintf("%s — %s", e.Degree, e.Institution),
		Body:         domain.Paragraphs(e.Description...),
		Images:       copyStrings(e.AllImages()),
		Technologies: copyStrings(e.Coursework),
		Client:       e.Institution,
		Date:         e.DateRange(),
		SourceIDs:    []string{e.ID},
	}, true
}

// Resume builds the static resume download card.
func (b *ModalBuilder) Resume() domain.Modal {
	return domain.Modal{
		ID:        resumeModalID,
		Type:      domain.ModalTypeResume,
		Title:     resumeTitle,
		Body:      domain.Text(resumeBody),
		LinkHref:  b.resumeLink,
		LinkLabel: resumeLinkLabel,
	}
}

// Summary builds the card that explains the selection. It quotes message and
// lists the titles of picked, skipping other summaries.
func (b *ModalBuilder) Summary(message string, picked []domain.Modal) domain.Modal {
	bullets := make([]string, 0, len(picked))
	for _, m := range picked {
		if m.Type == domain.ModalTypeSummary {
			continue
		}
		bullets = append(bullets, "• "+m.Title)
	}

	list := strings.Join(bullets, "\n")
	if list == "" {
		list = summaryNoResults
	}

	return domain.Modal{
		ID:    "summary-" + b.uuidGen.NewString(),
		Type:  domain.ModalTypeSummary,
		Title: summaryTitle,
		Body: domain.Paragraphs(
			fmt.Sprintf("Based on your query: \"%s\"", message),
			summaryLead,
			list,
		),
	}
}

func copyStrings(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func modalLinks(links []domain.Link) []domain.ModalLink {
	if len(links) == 0 {
		return nil
	}
	return domain.LinksFrom(links)
}
