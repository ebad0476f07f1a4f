package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModalTypeConstants(t *testing.T) {
	tests := []struct {
		name     string
		typeVal  ModalType
		expected string
	}{
		{"Experience", ModalTypeExperience, "experience"},
		{"Project", ModalTypeProject, "project"},
		{"Education", ModalTypeEducation, "education"},
		{"Resume", ModalTypeResume, "resume"},
		{"Summary", ModalTypeSummary, "summary"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, string(tt.typeVal))
			assert.True(t, tt.typeVal.IsValid())
		})
	}
}

func TestParseModalType(t *testing.T) {
	got, err := ParseModalType("Experience")
	require.NoError(t, err)
	assert.Equal(t, ModalTypeExperience, got)

	got, err = ParseModalType(" summary ")
	require.NoError(t, err)
	assert.Equal(t, ModalTypeSummary, got)

	_, err = ParseModalType("blog")
	assert.Error(t, err)
}

func TestModal_MarshalJSON_OmitsEmptyOptionals(t *testing.T) {
	m := Modal{
		ID:    "resume",
		Type:  ModalTypeResume,
		Title: "Download Resume (PDF)",
		Body:  Text("A tailored resume is ready."),
	}

	data, err := json.Marshal(m)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))

	assert.Len(t, raw, 4)
	for _, key := range []string{"reasoning", "images", "client", "industry", "date", "role", "company", "urls", "technologies"} {
		_, present := raw[key]
		assert.False(t, present, "unexpected key %s", key)
	}
	for _, v := range raw {
		assert.NotNil(t, v)
	}
}

func TestValidateModal(t *testing.T) {
	tests := []struct {
		name    string
		modal   *Modal
		wantErr bool
	}{
		{"valid", &Modal{ID: "project-a", Type: ModalTypeProject, Title: "A", Body: Text("b")}, false},
		{"summary without title", &Modal{ID: "summary-1", Type: ModalTypeSummary, Body: Paragraphs("x")}, false},
		{"missing id", &Modal{Type: ModalTypeProject, Title: "A", Body: Text("b")}, true},
		{"bad type", &Modal{ID: "x", Type: "blog", Title: "A", Body: Text("b")}, true},
		{"missing title", &Modal{ID: "x", Type: ModalTypeProject, Body: Text("b")}, true},
		{"empty body", &Modal{ID: "x", Type: ModalTypeProject, Title: "A"}, true},
		{"summary with reasoning", &Modal{ID: "s", Type: ModalTypeSummary, Body: Text("b"), Reasoning: "why"}, true},
		{"nil", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateModal(tt.modal)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLinksFrom(t *testing.T) {
	links := LinksFrom([]Link{{Name: "GitHub", Icon: "github", URL: "https://github.com/x"}})
	require.Len(t, links, 1)
	assert.Equal(t, ModalLink{Name: "GitHub", Icon: "github", Link: "https://github.com/x"}, links[0])

	assert.NotNil(t, LinksFrom(nil))
}
