package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloo-solutions/folio/internal/domain"
)

func TestModalBuilder_Experience(t *testing.T) {
	b := newTestBuilder(t)

	m, ok := b.Experience("vision-lab")
	require.True(t, ok)
	assert.Equal(t, "experience-vision-lab", m.ID)
	assert.Equal(t, domain.ModalTypeExperience, m.Type)
	assert.Equal(t, "Research Assistant — Perception Lab", m.Title)
	assert.Equal(t, []string{"Built a grasp detector.", "Ported the stack to ROS2."}, m.Body.Strings())
	assert.Equal(t, []string{"Python", "OpenCV"}, m.Technologies)
	assert.Equal(t, []string{"/img/lab-1.jpg"}, m.Images)
	assert.Equal(t, "Research Assistant", m.Role)
	assert.Equal(t, "Perception Lab", m.Company)
	assert.Equal(t, "Perception Lab", m.Client, "client falls back to company")
	assert.Equal(t, "Research", m.Industry)
	assert.Equal(t, "2024 - Present", m.Date)
	assert.Equal(t, []domain.ModalLink{{Name: "Lab", Icon: "globe", Link: "https://example.org/lab"}}, m.URLs)
	assert.Equal(t, []string{"vision-lab"}, m.SourceIDs)
	require.NoError(t, domain.ValidateModal(&m))

	m, ok = b.Experience("payments")
	require.True(t, ok)
	assert.Equal(t, "Ledger Bank", m.Client)
	assert.Empty(t, m.Industry)
	assert.Nil(t, m.Images)
	assert.Nil(t, m.URLs)

	_, ok = b.Experience("missing")
	assert.False(t, ok)
}

func TestModalBuilder_Project(t *testing.T) {
	b := newTestBuilder(t)

	m, ok := b.Project("robot-arm")
	require.True(t, ok)
	assert.Equal(t, "project-robot-arm", m.ID)
	assert.Equal(t, domain.ModalTypeProject, m.Type)
	assert.Equal(t, "Robot Arm", m.Title)
	assert.True(t, m.Body.IsList())
	assert.Equal(t, "pick and place with vision", m.Body.First())
	assert.Len(t, m.Technologies, 6)
	assert.Equal(t, "RoboCup team", m.Client)
	assert.Equal(t, "2023", m.Date)
	assert.Equal(t, []string{"robot-arm"}, m.SourceIDs)

	m, ok = b.Project("site")
	require.True(t, ok)
	assert.False(t, m.Body.IsList())
	assert.Nil(t, m.Technologies)

	_, ok = b.Project("vision-lab")
	assert.False(t, ok)

	_, ok = b.Project("missing")
	assert.False(t, ok)
}

func TestModalBuilder_Education(t *testing.T) {
	b := newTestBuilder(t)

	m, ok := b.Education("uni")
	require.True(t, ok)
	assert.Equal(t, "education-uni", m.ID)
	assert.Equal(t, "B.S. Mechatronics — State University", m.Title)
	assert.Equal(t, []string{"/img/uni.jpg"}, m.Images)
	assert.Equal(t, "2021 - Present", m.Date)
	assert.Equal(t, "State University", m.Client)
	assert.Equal(t, []string{"Industrial Automation", "Databases"}, m.Technologies)
	assert.Equal(t, []string{"uni"}, m.SourceIDs)

	_, ok = b.Education("missing")
	assert.False(t, ok)
}

func TestModalBuilder_DoesNotShareCorpusSlices(t *testing.T) {
	b := newTestBuilder(t)

	m, _ := b.Experience("vision-lab")
	m.Technologies[0] = "changed"
	m.Images[0] = "changed"

	again, _ := b.Experience("vision-lab")
	assert.Equal(t, "Python", again.Technologies[0])
	assert.Equal(t, "/img/lab-1.jpg", again.Images[0])
}

func TestModalBuilder_Resume(t *testing.T) {
	m := newTestBuilder(t).Resume()
	assert.Equal(t, "resume", m.ID)
	assert.Equal(t, domain.ModalTypeResume, m.Type)
	assert.Equal(t, "Download Resume (PDF)", m.Title)
	assert.Equal(t, "A tailored resume is ready. Click to download the latest PDF.", m.Body.String())
	assert.Equal(t, DefaultResumeLink, m.LinkHref)
	assert.Equal(t, "Download Resume", m.LinkLabel)

	custom := NewModalBuilder(newTestStore(t), "https://cdn.example.com/cv.pdf").Resume()
	assert.Equal(t, "https://cdn.example.com/cv.pdf", custom.LinkHref)
}

func TestModalBuilder_Summary(t *testing.T) {
	b := newTestBuilder(t)

	t.Run("lists picked titles", func(t *testing.T) {
		picked := []domain.Modal{
			b.Resume(),
			{ID: "summary-old", Type: domain.ModalTypeSummary, Title: "Old summary"},
			{ID: "project-x", Type: domain.ModalTypeProject, Title: "Robot Arm"},
		}

		m := b.Summary("robots please", picked)
		assert.Equal(t, "summary-fixed", m.ID)
		assert.Equal(t, domain.ModalTypeSummary, m.Type)
		assert.Equal(t, "How I match your needs", m.Title)
		assert.Equal(t, []string{
			`Based on your query: "robots please"`,
			"I've selected these relevant highlights:",
			"• Download Resume (PDF)\n• Robot Arm",
		}, m.Body.Strings())
		assert.Empty(t, m.Reasoning)
	})

	t.Run("nothing picked", func(t *testing.T) {
		m := b.Summary("hello", nil)
		body := m.Body.Strings()
		require.Len(t, body, 3)
		assert.Equal(t, "• Check out my resume for a complete overview", body[2])
	})

	t.Run("default generator gives distinct ids", func(t *testing.T) {
		fresh := NewModalBuilder(newTestStore(t), "")
		a := fresh.Summary("q", nil)
		c := fresh.Summary("q", nil)
		assert.NotEqual(t, a.ID, c.ID)
		assert.Contains(t, a.ID, "summary-")
	})
}
