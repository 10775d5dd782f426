// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/vault-sync/pkg/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(types.HistoryConfig{DataDir: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordAndRuns(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	started := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	docs := []Document{
		{Name: "a.md", Status: types.StatusSynced, OutputPath: "/site/a.md", Images: 1},
		{Name: "b.md", Status: types.StatusFailed, Error: "boom"},
	}

	runID, err := s.Record(ctx, started, 1, 1, docs)
	require.NoError(t, err)
	assert.Positive(t, runID)

	runs, err := s.Runs(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, runID, runs[0].ID)
	assert.Equal(t, 1, runs[0].Synced)
	assert.Equal(t, 1, runs[0].Failed)
	assert.True(t, runs[0].StartedAt.Equal(started))
}

func TestRuns_NewestFirstAndLimited(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := s.Record(ctx, time.Now(), i, 0, nil)
		require.NoError(t, err)
	}

	runs, err := s.Runs(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Greater(t, runs[0].ID, runs[1].ID)
	assert.Equal(t, 2, runs[0].Synced)
}

func TestRunDocuments(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	docs := []Document{
		{Name: "a.md", Status: types.StatusSynced, OutputPath: "/site/a.md", Images: 2},
		{Name: "b.md", Status: types.StatusFailed, Error: "reading note b.md: gone"},
	}
	runID, err := s.Record(ctx, time.Now(), 1, 1, docs)
	require.NoError(t, err)

	got, err := s.RunDocuments(ctx, runID)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "a.md", got[0].Name)
	assert.Equal(t, types.StatusSynced, got[0].Status)
	assert.Equal(t, 2, got[0].Images)
	assert.Equal(t, "reading note b.md: gone", got[1].Error)

	// Unknown runs list nothing.
	none, err := s.RunDocuments(ctx, runID+99)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestNewStore_Reopens(t *testing.T) {
	dir := t.TempDir()
	cfg := types.HistoryConfig{DataDir: dir}

	s, err := NewStore(cfg)
	require.NoError(t, err)
	_, err = s.Record(context.Background(), time.Now(), 1, 0, nil)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = NewStore(cfg)
	require.NoError(t, err)
	defer s.Close()

	runs, err := s.Runs(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}
