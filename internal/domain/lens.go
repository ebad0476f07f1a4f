package domain

import (
	"fmt"
	"strings"
)

// Lens is the audience framing a visitor picked. It only affects the
// generative path; heuristic ranking ignores it.
type Lens string

const (
	LensNone         Lens = "none"
	LensRecruiter    Lens = "recruiter"
	LensCollaborator Lens = "collaborator"
	LensResearcher   Lens = "researcher"
	LensFounder      Lens = "founder"
)

var lensContexts = map[Lens]string{
	LensNone:         "",
	LensRecruiter:    "Context: I am a recruiter evaluating this candidate for a role. Focus on impact, ownership and the experience most relevant to hiring.",
	LensCollaborator: "Context: I am a potential collaborator. Focus on technical depth, tools used and how this person works with a team.",
	LensResearcher:   "Context: I am a researcher. Focus on research experience, methods, publications and academic background.",
	LensFounder:      "Context: I am a startup founder. Focus on shipping end-to-end products, speed of execution and breadth across the stack.",
}

// Lenses lists every lens in display order.
func Lenses() []Lens {
	return []Lens{LensNone, LensRecruiter, LensCollaborator, LensResearcher, LensFounder}
}

// IsValid checks if the Lens is valid
func (l Lens) IsValid() bool {
	_, ok := lensContexts[l]
	return ok
}

// Context returns the prompt prefix for the lens. LensNone has none.
func (l Lens) Context() string {
	return lensContexts[l]
}

// Apply prefixes the message with the lens context.
func (l Lens) Apply(message string) string {
	ctx := l.Context()
	if ctx == "" {
		return message
	}
	return ctx + "\n" + message
}

// ParseLens parses a lens name. The empty string means LensNone.
func ParseLens(s string) (Lens, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return LensNone, nil
	}
	l := Lens(s)
	if !l.IsValid() {
		return "", NewDomainErrorWithCause(ErrCodeValidation, ErrInvalidLens.Message, fmt.Errorf("unknown lens %q", s))
	}
	return l, nil
}
