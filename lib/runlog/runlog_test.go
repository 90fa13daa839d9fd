package runlog

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestOpenDBUncreatableDirectory(t *testing.T) {
	// a regular file where a parent directory should go
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0666))

	_, err := OpenDB(filepath.Join(blocker, "nested", "ledger.db"))
	require.ErrorContains(t, err, "create ledger dir")
}

func TestRecordAndHistory(t *testing.T) {
	db, err := OpenDB(":memory:")
	require.NoError(t, err)
	defer db.Close()
	store := NewStore(db)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	started := time.Now().Add(-time.Minute).Truncate(time.Second)
	finished := time.Now().Truncate(time.Second)
	err = store.Record(ctx, Run{
		Version:    "2026-08-29",
		StartedAt:  started,
		FinishedAt: finished,
		Collections: []CollectionResult{
			{Collection: "items", Pages: 3, Records: 137, Duration: time.Second * 8},
			{Collection: "quests", Pages: 1, Records: 12, Partial: true, RateLimited: 2, Duration: time.Second},
		},
	})
	require.NoError(t, err)

	err = store.Record(ctx, Run{
		Version:    "2026-08-30",
		StartedAt:  started.Add(time.Hour),
		FinishedAt: finished.Add(time.Hour),
		Collections: []CollectionResult{
			{Collection: "items", Pages: 3, Records: 140, Duration: time.Second * 7},
		},
	})
	require.NoError(t, err)

	runs, err := store.History(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	// newest first
	require.Equal(t, "2026-08-30", runs[0].Version)
	require.Equal(t, "2026-08-29", runs[1].Version)

	require.Len(t, runs[1].Collections, 2)
	quests := runs[1].Collections[1]
	require.Equal(t, "quests", quests.Collection)
	require.True(t, quests.Partial)
	require.Equal(t, 2, quests.RateLimited)
	require.Equal(t, time.Second, quests.Duration)

	require.True(t, runs[1].StartedAt.Equal(started))
}

func TestHistoryLimit(t *testing.T) {
	db, err := OpenDB(":memory:")
	require.NoError(t, err)
	defer db.Close()
	store := NewStore(db)

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		require.NoError(t, store.Record(ctx, Run{
			Version:    "v",
			StartedAt:  time.Now(),
			FinishedAt: time.Now(),
		}))
	}

	runs, err := store.History(ctx, 3)
	require.NoError(t, err)
	require.Len(t, runs, 3)
}
