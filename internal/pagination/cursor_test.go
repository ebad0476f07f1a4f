package pagination

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeCursor(t *testing.T) {
	ts := time.Date(2025, 3, 14, 15, 9, 26, 535000000, time.UTC)
	token := EncodeCursor(Cursor{LastID: "abc-123", CreatedAt: ts})
	require.NotEmpty(t, token)

	c, err := DecodeCursor(token)
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, "abc-123", c.LastID)
	assert.True(t, ts.Equal(c.CreatedAt))
}

func TestEncodeCursor_EmptyID(t *testing.T) {
	assert.Empty(t, EncodeCursor(Cursor{CreatedAt: time.Now()}))
}

func TestDecodeCursor_Empty(t *testing.T) {
	c, err := DecodeCursor("")
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestDecodeCursor_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{"not base64", "%%%"},
		{"no separator", "bm9zZXBhcmF0b3I"},
		{"bad timestamp", "aWR8bm90LWEtdGltZQ"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeCursor(tt.token)
			assert.ErrorIs(t, err, ErrInvalidCursor)
		})
	}
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, DefaultLimit, ClampLimit(0))
	assert.Equal(t, DefaultLimit, ClampLimit(-5))
	assert.Equal(t, 7, ClampLimit(7))
	assert.Equal(t, MaxLimit, ClampLimit(MaxLimit+1))
}

type row struct {
	id string
	at time.Time
}

func rowKey(r row) Cursor { return Cursor{LastID: r.id, CreatedAt: r.at} }

func TestNewPage(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	rows := []row{{"c", now}, {"b", now.Add(-time.Minute)}, {"a", now.Add(-2 * time.Minute)}}

	t.Run("has more", func(t *testing.T) {
		page := NewPage(rows, 2, rowKey)
		require.Len(t, page.Items, 2)
		assert.True(t, page.HasMore)

		c, err := DecodeCursor(page.Cursor)
		require.NoError(t, err)
		assert.Equal(t, "b", c.LastID)
	})

	t.Run("last page", func(t *testing.T) {
		page := NewPage(rows, 3, rowKey)
		assert.Len(t, page.Items, 3)
		assert.False(t, page.HasMore)
		assert.Empty(t, page.Cursor)
	})

	t.Run("empty", func(t *testing.T) {
		page := NewPage[row](nil, 3, rowKey)
		assert.NotNil(t, page.Items)
		assert.Empty(t, page.Items)
	})
}
