package service

import (
	"github.com/cloo-solutions/folio/internal/domain"
	"github.com/cloo-solutions/folio/internal/ranking"
)

// Response size bounds. The summary card counts against the cap.
const (
	DefaultResponseCap = 4
	MinResponseCap     = 2
	MaxResponseCap     = 8
)

// SelectionPolicy controls which kind fills the slot after the experience card.
type SelectionPolicy struct {
	// PreferProjects picks the top project before the top education entry.
	// When false education is tried first and projects are the fallback.
	PreferProjects bool
}

// DefaultSelectionPolicy returns the default policy: projects over education.
func DefaultSelectionPolicy() SelectionPolicy {
	return SelectionPolicy{PreferProjects: true}
}

// Ranking holds the per-kind ranking of one message.
type Ranking struct {
	Tokens      []string
	Experiences []ranking.Scored[domain.Experience]
	Projects    []ranking.Scored[domain.Project]
	Education   []ranking.Scored[domain.Education]
}

// Assembler produces the deterministic heuristic answer.
type Assembler struct {
	corpus  CorpusReader
	builder *ModalBuilder
	cap     int
	policy  SelectionPolicy
}

// NewAssembler creates an Assembler. responseCap is clamped to [MinResponseCap, MaxResponseCap];
// zero means DefaultResponseCap.
func NewAssembler(corpus CorpusReader, builder *ModalBuilder, responseCap int, policy SelectionPolicy) *Assembler {
	return &Assembler{
		corpus:  corpus,
		builder: builder,
		cap:     clampCap(responseCap),
		policy:  policy,
	}
}

func clampCap(n int) int {
	switch {
	case n == 0:
		return DefaultResponseCap
	case n < MinResponseCap:
		return MinResponseCap
	case n > MaxResponseCap:
		return MaxResponseCap
	}
	return n
}

// Cap returns the effective response cap.
func (a *Assembler) Cap() int {
	return a.cap
}

// Rank scores every corpus record against the message.
func (a *Assembler) Rank(message string) Ranking {
	tokens := ranking.Tokenize(message)
	return Ranking{
		Tokens:      tokens,
		Experiences: ranking.RankScored(a.corpus.Experiences(), tokens, experienceText),
		Projects:    ranking.RankScored(a.corpus.Projects(), tokens, projectText),
		Education:   ranking.RankScored(a.corpus.Education(), tokens, educationText),
	}
}

// Assemble builds the heuristic answer: a summary card followed by the resume
// card, the best experience, and the best project or education entry, bounded
// by the cap.
func (a *Assembler) Assemble(message string) []domain.Modal {
	r := a.Rank(message)

	candidates := []domain.Modal{a.builder.Resume()}

	if len(r.Experiences) > 0 {
		if m, ok := a.builder.Experience(r.Experiences[0].Item.ID); ok {
			candidates = append(candidates, m)
		}
	}

	if m, ok := a.secondary(r); ok {
		candidates = append(candidates, m)
	}

	if len(candidates) > a.cap-1 {
		candidates = candidates[:a.cap-1]
	}

	out := make([]domain.Modal, 0, len(candidates)+1)
	out = append(out, a.builder.Summary(message, candidates))
	return append(out, candidates...)
}

func (a *Assembler) secondary(r Ranking) (domain.Modal, bool) {
	project := func() (domain.Modal, bool) {
		if len(r.Projects) == 0 {
			return domain.Modal{}, false
		}
		return a.builder.Project(r.Projects[0].Item.ID)
	}
	education := func() (domain.Modal, bool) {
		if len(r.Education) == 0 {
			return domain.Modal{}, false
		}
		return a.builder.Education(r.Education[0].Item.ID)
	}

	first, second := project, education
	if !a.policy.PreferProjects {
		first, second = education, project
	}
	if m, ok := first(); ok {
		return m, true
	}
	return second()
}
