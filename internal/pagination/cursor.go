package pagination

import (
	"encoding/base64"
	"errors"
	"strings"
	"time"
)

// DefaultLimit is used when a caller asks for a non-positive page size.
const DefaultLimit = 20

// MaxLimit bounds a single page.
const MaxLimit = 200

// Cursor marks the last row of a page, ordered by (CreatedAt DESC, ID DESC).
type Cursor struct {
	LastID    string
	CreatedAt time.Time
}

// Page is one page of a keyset-paginated listing.
type Page[T any] struct {
	Items   []T    `json:"items"`
	Cursor  string `json:"cursor,omitempty"`
	HasMore bool   `json:"has_more"`
}

var ErrInvalidCursor = errors.New("invalid cursor format")

// ClampLimit maps a requested page size into [1, MaxLimit].
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// EncodeCursor returns an opaque token for c. An empty id yields "".
func EncodeCursor(c Cursor) string {
	if c.LastID == "" {
		return ""
	}
	raw := c.LastID + "|" + c.CreatedAt.UTC().Format(time.RFC3339Nano)
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// DecodeCursor parses a token produced by EncodeCursor. An empty token means
// "first page" and yields a nil cursor.
func DecodeCursor(token string) (*Cursor, error) {
	if token == "" {
		return nil, nil
	}

	decoded, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, ErrInvalidCursor
	}

	id, ts, ok := strings.Cut(string(decoded), "|")
	if !ok || id == "" {
		return nil, ErrInvalidCursor
	}

	createdAt, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return nil, ErrInvalidCursor
	}

	return &Cursor{LastID: id, CreatedAt: createdAt}, nil
}

// NewPage builds a page from rows fetched with LIMIT limit+1. The extra row,
// when present, only signals that another page exists.
func NewPage[T any](rows []T, limit int, key func(T) Cursor) *Page[T] {
	page := &Page[T]{Items: rows}
	if len(rows) > limit {
		page.Items = rows[:limit]
		page.HasMore = true
	}
	if page.Items == nil {
		page.Items = []T{}
	}
	if page.HasMore {
		page.Cursor = EncodeCursor(key(page.Items[len(page.Items)-1]))
	}
	return page
}
