package ranking

import "sort"

// Scored pairs an item with its relevance score.
type Scored[T any] struct {
	Item  T
	Score int
}

// RankScored scores every item, drops zero scores and sorts the rest by
// descending score. Items with equal scores keep their input order.
func RankScored[T any](items []T, tokens []string, text func(T) string) []Scored[T] {
	scored := make([]Scored[T], 0, len(items))
	for _, item := range items {
		score := Score(text(item), tokens)
		if score <= 0 {
			continue
		}
		scored = append(scored, Scored[T]{Item: item, Score: score})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored
}

// Rank returns the items RankScored keeps, without their scores.
func Rank[T any](items []T, tokens []string, text func(T) string) []T {
	scored := RankScored(items, tokens, text)
	out := make([]T, len(scored))
	for i, s := range scored {
		out[i] = s.Item
	}
	return out
}
