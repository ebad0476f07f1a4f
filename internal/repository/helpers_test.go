package repository

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cloo-solutions/folio/internal/pagination"
	"github.com/cloo-solutions/folio/internal/service"
)

func entryIDs(entries []service.AnalyticsEntry) []string {
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ID)
	}
	return ids
}

func cursorOf(t *testing.T, token string) *pagination.Cursor {
	t.Helper()
	c, err := pagination.DecodeCursor(token)
	require.NoError(t, err)
	require.NotNil(t, c)
	return c
}
