package handlers

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cloo-solutions/folio/internal/corpus"
)

func defaultCorpus(t *testing.T) *corpus.Store {
	t.Helper()
	store, err := corpus.Default()
	require.NoError(t, err)
	return store
}
