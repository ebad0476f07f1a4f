package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloo-solutions/folio/internal/domain"
)

func newTestAssembler(t *testing.T, responseCap int, policy SelectionPolicy) *Assembler {
	t.Helper()
	store := newTestStore(t)
	b := NewModalBuilder(store, "")
	b.uuidGen = fixedUUID("fixed")
	return NewAssembler(store, b, responseCap, policy)
}

func modalIDs(modals []domain.Modal) []string {
	ids := make([]string, len(modals))
	for i, m := range modals {
		ids[i] = m.ID
	}
	return ids
}

func TestAssembler_ComputerVisionExample(t *testing.T) {
	a := newTestAssembler(t, DefaultResponseCap, DefaultSelectionPolicy())
	query := "I worked on computer vision robotics projects"

	r := a.Rank(query)
	require.NotEmpty(t, r.Experiences)
	assert.Equal(t, "vision-lab", r.Experiences[0].Item.ID)
	assert.GreaterOrEqual(t, r.Experiences[0].Score, 2)
	for _, s := range r.Experiences {
		assert.NotZero(t, s.Score)
	}

	modals := a.Assemble(query)
	assert.Equal(t, []string{"summary-fixed", "resume", "experience-vision-lab", "project-robot-arm"}, modalIDs(modals))

	summary := modals[0]
	assert.Equal(t, domain.ModalTypeSummary, summary.Type)
	assert.Contains(t, summary.Body.Join("\n"), "computer vision robotics projects")
	assert.Equal(t, "• Download Resume (PDF)\n• Research Assistant — Perception Lab\n• Robot Arm", summary.Body.Strings()[2])
}

func TestAssembler_NoMatches(t *testing.T) {
	a := newTestAssembler(t, DefaultResponseCap, DefaultSelectionPolicy())

	for _, query := range []string{"zzz qqq", "hi to me", "¿¿??"} {
		t.Run(query, func(t *testing.T) {
			r := a.Rank(query)
			assert.Empty(t, r.Experiences)
			assert.Empty(t, r.Projects)
			assert.Empty(t, r.Education)

			modals := a.Assemble(query)
			require.Len(t, modals, 2)
			assert.Equal(t, domain.ModalTypeSummary, modals[0].Type)
			assert.Equal(t, domain.ModalTypeResume, modals[1].Type)
		})
	}
}

func TestAssembler_CapBound(t *testing.T) {
	queries := []string{
		"computer vision robotics projects",
		"payment reconciliation",
		"robotics team automation",
		"nothing matches here",
	}

	for responseCap := MinResponseCap; responseCap <= MaxResponseCap; responseCap++ {
		a := newTestAssembler(t, responseCap, DefaultSelectionPolicy())
		for _, q := range queries {
			modals := a.Assemble(q)
			assert.LessOrEqual(t, len(modals), responseCap, "cap %d query %q", responseCap, q)
			assert.Equal(t, domain.ModalTypeSummary, modals[0].Type)
			assert.Equal(t, domain.ModalTypeResume, modals[1].Type)

			seen := map[string]bool{}
			for _, m := range modals {
				assert.False(t, seen[m.ID], "duplicate id %s", m.ID)
				seen[m.ID] = true
				require.NoError(t, domain.ValidateModal(&m))
			}
		}
	}
}

func TestAssembler_SmallCapKeepsResume(t *testing.T) {
	a := newTestAssembler(t, 2, DefaultSelectionPolicy())

	modals := a.Assemble("computer vision robotics projects")
	assert.Equal(t, []string{"summary-fixed", "resume"}, modalIDs(modals))
	assert.Equal(t, "• Download Resume (PDF)", modals[0].Body.Strings()[2])
}

func TestAssembler_CapClamped(t *testing.T) {
	assert.Equal(t, DefaultResponseCap, newTestAssembler(t, 0, DefaultSelectionPolicy()).Cap())
	assert.Equal(t, MinResponseCap, newTestAssembler(t, 1, DefaultSelectionPolicy()).Cap())
	assert.Equal(t, MaxResponseCap, newTestAssembler(t, 50, DefaultSelectionPolicy()).Cap())
}

func TestAssembler_SelectionPolicy(t *testing.T) {
	// "vision" matches the project, "robotics" matches the education entry.
	query := "vision robotics"

	projects := newTestAssembler(t, DefaultResponseCap, SelectionPolicy{PreferProjects: true})
	ids := modalIDs(projects.Assemble(query))
	assert.Contains(t, ids, "project-robot-arm")
	assert.NotContains(t, ids, "education-uni")

	education := newTestAssembler(t, DefaultResponseCap, SelectionPolicy{PreferProjects: false})
	ids = modalIDs(education.Assemble(query))
	assert.Contains(t, ids, "education-uni")
	assert.NotContains(t, ids, "project-robot-arm")
}

func TestAssembler_FallsBackToEducation(t *testing.T) {
	a := newTestAssembler(t, DefaultResponseCap, DefaultSelectionPolicy())

	ids := modalIDs(a.Assemble("industrial automation coursework"))
	assert.Contains(t, ids, "education-uni")
	for _, id := range ids {
		assert.False(t, strings.HasPrefix(id, "project-"))
	}
}

func TestAssembler_Deterministic(t *testing.T) {
	a := newTestAssembler(t, DefaultResponseCap, DefaultSelectionPolicy())
	first := a.Assemble("python robotics")
	second := a.Assemble("python robotics")
	assert.Equal(t, first, second)
}
