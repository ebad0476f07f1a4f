package domain

import "strings"

// Query is a visitor question with its conversation history.
type Query struct {
	Message string
	History []string
	Lens    Lens
}

// NewQuery creates a validated Query. The message must be non-empty after
// trimming; an empty lens means LensNone.
func NewQuery(message string, history []string, lens string) (Query, error) {
	l, err := ParseLens(lens)
	if err != nil {
		return Query{}, err
	}
	q := Query{
		Message: message,
		History: append([]string(nil), history...),
		Lens:    l,
	}
	if err := ValidateQuery(q); err != nil {
		return Query{}, err
	}
	return q, nil
}

// ValidateQuery validates a Query instance
func ValidateQuery(q Query) error {
	if strings.TrimSpace(q.Message) == "" {
		return ErrInvalidRequest
	}
	if q.Lens != "" && !q.Lens.IsValid() {
		return ErrInvalidLens
	}
	return nil
}
