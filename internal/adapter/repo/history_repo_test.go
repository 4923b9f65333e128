package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryListByOwner(t *testing.T) {
	at := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	exec := &stubExecutor{rows: [][]any{
		{"h2", userID, "g2", "second", "https://img/2", at},
		{"h1", userID, "g1", "first", "https://img/1", at.Add(-time.Minute)},
	}}

	entries, err := NewHistoryRepository(exec).ListByOwner(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "second", entries[0].Prompt)
	assert.Equal(t, "https://img/1", entries[1].ImageURL)
}

func TestHistoryListQueryError(t *testing.T) {
	_, err := NewHistoryRepository(&stubExecutor{err: errors.New("down")}).ListByOwner(context.Background(), userID)
	assert.Error(t, err)
}
