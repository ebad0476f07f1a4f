package domain

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Body holds either a single block of text or an ordered list of paragraphs.
// It keeps the shape it was created with so it serializes back the same way.
type Body struct {
	text       string
	paragraphs []string
	list       bool
}

// Text creates a single-string body.
func Text(s string) Body {
	return Body{text: s}
}

// Paragraphs creates a list body. A nil list still marshals as [].
func Paragraphs(p ...string) Body {
	out := make([]string, len(p))
	copy(out, p)
	return Body{paragraphs: out, list: true}
}

// IsList reports whether the body is a paragraph list.
func (b Body) IsList() bool {
	return b.list
}

// IsZero reports whether the body carries no text at all.
func (b Body) IsZero() bool {
	if b.list {
		for _, p := range b.paragraphs {
			if strings.TrimSpace(p) != "" {
				return false
			}
		}
		return true
	}
	return strings.TrimSpace(b.text) == ""
}

// Strings returns the body as paragraphs. A single-string body yields one
// element, or none when empty.
func (b Body) Strings() []string {
	if b.list {
		out := make([]string, len(b.paragraphs))
		copy(out, b.paragraphs)
		return out
	}
	if b.text == "" {
		return nil
	}
	return []string{b.text}
}

// First returns the first paragraph, or the whole text for a single-string body.
func (b Body) First() string {
	if b.list {
		if len(b.paragraphs) == 0 {
			return ""
		}
		return b.paragraphs[0]
	}
	return b.text
}

// Join flattens the body into one string.
func (b Body) Join(sep string) string {
	if b.list {
		return strings.Join(b.paragraphs, sep)
	}
	return b.text
}

func (b Body) String() string {
	return b.Join(" ")
}

// MarshalJSON implements json.Marshaler
func (b Body) MarshalJSON() ([]byte, error) {
	if b.list {
		if b.paragraphs == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(b.paragraphs)
	}
	return json.Marshal(b.text)
}

// UnmarshalJSON implements json.Unmarshaler
func (b *Body) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*b = Text(s)
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("body must be a string or a list of strings: %w", err)
	}
	*b = Paragraphs(list...)
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler
func (b *Body) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		*b = Text(value.Value)
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := value.Decode(&list); err != nil {
			return err
		}
		*b = Paragraphs(list...)
		return nil
	default:
		return fmt.Errorf("line %d: body must be a string or a list of strings", value.Line)
	}
}

// MarshalYAML implements yaml.Marshaler
func (b Body) MarshalYAML() (interface{}, error) {
	if b.list {
		return b.paragraphs, nil
	}
	return b.text, nil
}

// Technologies is an ordered list of technology names. Corpus files may store
// it as a comma-separated string; it is split and trimmed on load.
type Technologies []string

// ParseTechnologies splits a comma-separated list, trimming whitespace and
// dropping empty entries.
func ParseTechnologies(s string) Technologies {
	parts := strings.Split(s, ",")
	out := make(Technologies, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// UnmarshalJSON implements json.Unmarshaler
func (t *Technologies) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = ParseTechnologies(s)
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("technologies must be a string or a list of strings: %w", err)
	}
	*t = Technologies(list)
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler
func (t *Technologies) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		*t = ParseTechnologies(value.Value)
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := value.Decode(&list); err != nil {
			return err
		}
		*t = Technologies(list)
		return nil
	default:
		return fmt.Errorf("line %d: technologies must be a string or a list of strings", value.Line)
	}
}

// String renders the list the way it is written in corpus files.
func (t Technologies) String() string {
	return strings.Join(t, ", ")
}
