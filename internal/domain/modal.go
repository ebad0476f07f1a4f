package domain

import (
	"fmt"
	"strings"
)

// ModalType identifies the kind of card in a response.
type ModalType string

const (
	ModalTypeExperience ModalType = "experience"
	ModalTypeProject    ModalType = "project"
	ModalTypeEducation  ModalType = "education"
	ModalTypeResume     ModalType = "resume"
	ModalTypeSummary    ModalType = "summary"
)

// IsValid checks if the ModalType is valid
func (t ModalType) IsValid() bool {
	switch t {
	case ModalTypeExperience, ModalTypeProject, ModalTypeEducation, ModalTypeResume, ModalTypeSummary:
		return true
	}
	return false
}

// ParseModalType parses a modal type case-insensitively ("Experience" and
// "experience" are the same type).
func ParseModalType(s string) (ModalType, error) {
	t := ModalType(strings.ToLower(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", fmt.Errorf("unknown modal type %q", s)
	}
	return t, nil
}

// ModalLink is a link rendered on a card.
type ModalLink struct {
	Name string `json:"name"`
	Icon string `json:"icon,omitempty"`
	Link string `json:"link"`
}

// Modal is a single result card returned to the caller. Empty optional
// fields are omitted from the wire format.
type Modal struct {
	ID           string      `json:"id"`
	Type         ModalType   `json:"type"`
	Title        string      `json:"title,omitempty"`
	Body         Body        `json:"body"`
	Reasoning    string      `json:"reasoning,omitempty"`
	Images       []string    `json:"images,omitempty"`
	LinkHref     string      `json:"linkHref,omitempty"`
	LinkLabel    string      `json:"linkLabel,omitempty"`
	SourceIDs    []string    `json:"sourceIds,omitempty"`
	Technologies []string    `json:"technologies,omitempty"`
	Client       string      `json:"client,omitempty"`
	Industry     string      `json:"industry,omitempty"`
	Date         string      `json:"date,omitempty"`
	Role         string      `json:"role,omitempty"`
	Company      string      `json:"company,omitempty"`
	URLs         []ModalLink `json:"urls,omitempty"`
}

// ValidateModal checks the minimum shape a card needs to be rendered.
func ValidateModal(m *Modal) error {
	if m == nil {
		return fmt.Errorf("modal cannot be nil")
	}
	if strings.TrimSpace(m.ID) == "" {
		return fmt.Errorf("modal ID is required")
	}
	if !m.Type.IsValid() {
		return fmt.Errorf("modal %q has invalid type %q", m.ID, m.Type)
	}
	if m.Type != ModalTypeSummary && strings.TrimSpace(m.Title) == "" {
		return fmt.Errorf("modal %q Title is required", m.ID)
	}
	if m.Body.IsZero() {
		return fmt.Errorf("modal %q Body is required", m.ID)
	}
	if m.Type == ModalTypeSummary && m.Reasoning != "" {
		return fmt.Errorf("summary modal %q cannot carry reasoning", m.ID)
	}
	return nil
}

// LinksFrom converts corpus links to card links.
func LinksFrom(links []Link) []ModalLink {
	out := make([]ModalLink, 0, len(links))
	for _, l := range links {
		out = append(out, ModalLink{Name: l.Name, Icon: l.Icon, Link: l.URL})
	}
	return out
}
