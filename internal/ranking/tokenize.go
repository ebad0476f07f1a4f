// Package ranking scores corpus text against a visitor query and orders
// records by relevance. Matching is plain substring containment on lowercase
// text; there is no stemming, stopword list or term weighting.
package ranking

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"unicode"
)

// MinTokenLength is the shortest query token that contributes to a score.
const MinTokenLength = 3

// Tokenize lowercases the message, turns every character outside [a-z0-9]
// and whitespace into a space, and splits on whitespace.
func Tokenize(message string) []string {
	lower := strings.ToLower(message)
	cleaned := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || unicode.IsSpace(r) {
			return r
		}
		return ' '
	}, lower)
	return strings.Fields(cleaned)
}

// Score counts the tokens of at least MinTokenLength characters that appear
// anywhere in text. A token repeated in the query counts each time.
func Score(text string, tokens []string) int {
	lower := strings.ToLower(text)
	score := 0
	for _, token := range tokens {
		if len(token) < MinTokenLength {
			continue
		}
		if strings.Contains(lower, token) {
			score++
		}
	}
	return score
}

// NormalizeText flattens values into one newline-joined string. Slices and
// arrays are flattened in order, maps by sorted key, structs by field order;
// nil values become empty strings.
func NormalizeText(values ...any) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		parts = append(parts, normalizeValue(reflect.ValueOf(v)))
	}
	return strings.Join(parts, "\n")
}

func normalizeValue(v reflect.Value) string {
	if !v.IsValid() {
		return ""
	}

	if v.CanInterface() {
		if s, ok := v.Interface().(fmt.Stringer); ok && v.Kind() != reflect.Slice {
			if (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) && v.IsNil() {
				return ""
			}
			return s.String()
		}
	}

	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			return ""
		}
		return normalizeValue(v.Elem())
	case reflect.String:
		return v.String()
	case reflect.Slice, reflect.Array:
		if v.Kind() == reflect.Slice && v.IsNil() {
			return ""
		}
		parts := make([]string, v.Len())
		for i := 0; i < v.Len(); i++ {
			parts[i] = normalizeValue(v.Index(i))
		}
		return strings.Join(parts, "\n")
	case reflect.Map:
		if v.IsNil() {
			return ""
		}
		keys := v.MapKeys()
		sort.Slice(keys, func(i, j int) bool {
			return fmt.Sprint(keys[i].Interface()) < fmt.Sprint(keys[j].Interface())
		})
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = normalizeValue(v.MapIndex(k))
		}
		return strings.Join(parts, "\n")
	case reflect.Struct:
		parts := make([]string, 0, v.NumField())
		for i := 0; i < v.NumField(); i++ {
			if !v.Type().Field(i).IsExported() {
				continue
			}
			parts = append(parts, normalizeValue(v.Field(i)))
		}
		return strings.Join(parts, "\n")
	case reflect.Bool, reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return fmt.Sprint(v.Interface())
	default:
		return ""
	}
}
