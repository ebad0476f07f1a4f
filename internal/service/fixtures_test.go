package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cloo-solutions/folio/internal/corpus"
	"github.com/cloo-solutions/folio/internal/domain"
)

type fixedUUID string

func (f fixedUUID) NewString() string {
	return string(f)
}

func testDocument() corpus.Document {
	return corpus.Document{
		Profile: domain.Profile{
			Name:     "Test Person",
			Headline: "Robotics engineer.",
			Email:    "test@example.com",
			Location: "Monterrey, Mexico",
			Skills: []domain.SkillCategory{
				{Category: "Languages", Skills: []string{"Go", "Python"}},
			},
		},
		Experiences: []domain.Experience{
			{
				ID:          "vision-lab",
				Company:     "Perception Lab",
				Role:        "Research Assistant",
				Period:      "2024 - Present",
				Description: "computer vision algorithms for robotic perception",
				Industry:    "Research",
				URLs:        []domain.Link{{Name: "Lab", Icon: "globe", URL: "https://example.org/lab"}},
				Details: domain.ExperienceDetails{
					Description: []string{"Built a grasp detector.", "Ported the stack to ROS2."},
					Images:      []string{"/img/lab-1.jpg"},
					Skills:      []string{"Python", "OpenCV"},
					Location:    "Monterrey",
				},
			},
			{
				ID:          "payments",
				Company:     "Ledger",
				Role:        "Backend Engineer",
				Client:      "Ledger Bank",
				Description: "payment reconciliation services",
				Details: domain.ExperienceDetails{
					Description: []string{"Wrote reconciliation jobs.", "Added retries.", "Cut costs.", "Mentored interns.", "Ran on-call."},
				},
			},
		},
		Projects: []domain.Project{
			{
				ID:           "robot-arm",
				Title:        "Robot Arm",
				Info:         domain.Paragraphs("pick and place with vision", "second paragraph"),
				Technologies: domain.Technologies{"Python", "ROS2", "MoveIt", "OpenCV", "PyTorch", "Docker"},
				Client:       "RoboCup team",
				Date:         "2023",
				Details:      domain.ProjectDetails{Images: []string{"/img/arm.jpg"}},
			},
			{
				ID:    "site",
				Title: "Marketing Site",
				Info:  domain.Text("landing pages for small businesses"),
			},
		},
		Education: []domain.Education{
			{
				ID:          "uni",
				Institution: "State University",
				Degree:      "B.S. Mechatronics",
				StartYear:   2021,
				Image:       "/img/uni.jpg",
				Description: []string{"robotics team captain"},
				Coursework:  []string{"Industrial Automation", "Databases"},
			},
		},
	}
}

func newTestStore(t *testing.T) *corpus.Store {
	t.Helper()
	store, err := corpus.New(testDocument())
	require.NoError(t, err)
	return store
}

func newTestBuilder(t *testing.T) *ModalBuilder {
	t.Helper()
	b := NewModalBuilder(newTestStore(t), "")
	b.uuidGen = fixedUUID("fixed")
	return b
}
