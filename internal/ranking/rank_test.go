package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	id   string
	text string
}

func recordText(r record) string { return r.text }

func TestRank_OrdersByScoreAndDropsZero(t *testing.T) {
	items := []record{
		{"none", "marketing copy"},
		{"one", "robotics"},
		{"three", "computer vision robotics"},
		{"two", "computer vision"},
	}
	tokens := Tokenize("computer vision robotics")

	ranked := Rank(items, tokens, recordText)

	ids := make([]string, len(ranked))
	for i, r := range ranked {
		ids[i] = r.id
	}
	assert.Equal(t, []string{"three", "two", "one"}, ids)
}

func TestRank_StableTies(t *testing.T) {
	items := []record{
		{"first", "golang services"},
		{"second", "golang tooling"},
		{"third", "golang cli"},
	}

	ranked := Rank(items, []string{"golang"}, recordText)

	require.Len(t, ranked, 3)
	assert.Equal(t, "first", ranked[0].id)
	assert.Equal(t, "second", ranked[1].id)
	assert.Equal(t, "third", ranked[2].id)
}

func TestRank_NoMatches(t *testing.T) {
	items := []record{{"a", "robotics"}, {"b", "vision"}}

	assert.Empty(t, Rank(items, Tokenize("hi ok no"), recordText))
	assert.Empty(t, Rank(items, nil, recordText))
	assert.Empty(t, Rank([]record{}, Tokenize("robotics"), recordText))
}

func TestRankScored_StrictlyDescending(t *testing.T) {
	items := []record{
		{"a", "alpha"},
		{"b", "alpha beta gamma"},
		{"c", "alpha beta"},
		{"d", "delta"},
		{"e", "beta gamma"},
	}

	scored := RankScored(items, Tokenize("alpha beta gamma"), recordText)

	require.NotEmpty(t, scored)
	for i, s := range scored {
		assert.Positive(t, s.Score)
		if i > 0 {
			assert.GreaterOrEqual(t, scored[i-1].Score, s.Score)
		}
	}
	assert.Equal(t, "b", scored[0].Item.id)
	assert.Equal(t, 3, scored[0].Score)
	// c and e tie at 2; c comes first in the input.
	assert.Equal(t, "c", scored[1].Item.id)
	assert.Equal(t, "e", scored[2].Item.id)
}

func TestRank_DoesNotMutateInput(t *testing.T) {
	items := []record{{"a", "x"}, {"b", "golang"}}
	_ = Rank(items, []string{"golang"}, recordText)
	assert.Equal(t, "a", items[0].id)
}
