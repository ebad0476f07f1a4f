package generative

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloo-solutions/folio/internal/domain"
)

const validResponse = `{
  "modals": [
    {"id": "summary-1", "type": "Summary", "title": "Why these", "body": "Robotics focus.", "reasoning": "should be dropped"},
    {"id": "experience-autonomy-lab", "type": "Experience", "title": "Robotics Research Assistant", "body": ["Grasp detection.", "ROS2 port."],
     "reasoning": "Vision work", "technologies": ["Python", "ROS2"], "company": "Autonomous Systems Lab", "client": null,
     "urls": [{"name": "Lab", "icon": "globe", "link": "https://example.org"}]},
    {"id": "resume", "type": "resume", "title": "Resume", "body": "Download it.", "linkHref": "/resume.pdf", "linkLabel": "Download"}
  ]
}`

func TestParseModals(t *testing.T) {
	modals, err := ParseModals(validResponse)
	require.NoError(t, err)
	require.Len(t, modals, 3)

	assert.Equal(t, domain.ModalTypeSummary, modals[0].Type)
	assert.Empty(t, modals[0].Reasoning)

	exp := modals[1]
	assert.Equal(t, domain.ModalTypeExperience, exp.Type)
	assert.True(t, exp.Body.IsList())
	assert.Equal(t, []string{"Grasp detection.", "ROS2 port."}, exp.Body.Strings())
	assert.Equal(t, "Vision work", exp.Reasoning)
	assert.Equal(t, []string{"Python", "ROS2"}, exp.Technologies)
	assert.Empty(t, exp.Client)
	assert.Equal(t, []domain.ModalLink{{Name: "Lab", Icon: "globe", Link: "https://example.org"}}, exp.URLs)

	assert.Equal(t, "/resume.pdf", modals[2].LinkHref)

	for i := range modals {
		assert.NoError(t, domain.ValidateModal(&modals[i]))
	}
}

func TestParseModals_CodeFence(t *testing.T) {
	modals, err := ParseModals("```json\n" + validResponse + "\n```")
	require.NoError(t, err)
	assert.Len(t, modals, 3)
}

func TestParseModals_Invalid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", "   "},
		{"not json", "Sure! Here are some cards."},
		{"missing modals", `{"cards": []}`},
		{"empty modals", `{"modals": []}`},
		{"missing body", `{"modals": [{"id": "x", "type": "project", "title": "X"}]}`},
		{"empty body list", `{"modals": [{"id": "x", "type": "project", "title": "X", "body": []}]}`},
		{"unknown type", `{"modals": [{"id": "x", "type": "award", "title": "X", "body": "b"}]}`},
		{"wrong field type", `{"modals": [{"id": "x", "type": "project", "title": "X", "body": "b", "images": "one.jpg"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseModals(tt.raw)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrDelegateInvalidOutput)
		})
	}
}

func TestValidateResponse_ReportsFields(t *testing.T) {
	err := ValidateResponse(`{"modals": [{"type": "project", "body": "b"}]}`)
	require.Error(t, err)

	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
	require.NotEmpty(t, schemaErr.Errors)
	assert.Contains(t, schemaErr.Error(), "id")
}

func TestCleanJSONBlock(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", ` {"a":1} `, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"fence without newline", "```{\"a\":1}```", `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanJSONBlock(tt.in))
		})
	}
}
