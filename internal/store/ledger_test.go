package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestLedger(t *testing.T) *Ledger {
	t.Helper()
	l, err := Open(filepath.Join(t.TempDir(), "out", FileName))
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })
	return l
}

func TestRecordAndRecent(t *testing.T) {
	ctx := context.Background()
	l := openTestLedger(t)
	run := NewRunID()
	base := time.Date(2025, 7, 31, 10, 0, 0, 0, time.UTC)

	require.NoError(t, l.Record(ctx, Entry{
		RunID: run, Source: "https://youtube.com/@c", VideoURL: "https://youtu.be/a",
		Folder: "Creator", Status: StatusSucceeded, Path: "out/Creator/A.txt",
		Duration: 1500 * time.Millisecond, At: base,
	}))
	require.NoError(t, l.Record(ctx, Entry{
		RunID: run, Source: "https://youtube.com/@c", VideoURL: "https://youtu.be/b",
		Folder: "Creator", Status: StatusFailed, Error: "download failed", At: base.Add(time.Second),
	}))

	entries, err := l.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "https://youtu.be/b", entries[0].VideoURL)
	assert.Equal(t, StatusFailed, entries[0].Status)
	assert.Equal(t, "download failed", entries[0].Error)

	assert.Equal(t, StatusSucceeded, entries[1].Status)
	assert.Equal(t, 1500*time.Millisecond, entries[1].Duration)
	assert.True(t, base.Equal(entries[1].At))
	assert.Equal(t, run, entries[1].RunID)
}

func TestRecentLimit(t *testing.T) {
	ctx := context.Background()
	l := openTestLedger(t)

	for i := 0; i < 5; i++ {
		require.NoError(t, l.Record(ctx, Entry{RunID: "r", Source: "s", VideoURL: "v", Status: StatusSucceeded}))
	}

	entries, err := l.Recent(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestOpenIsIdempotent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), FileName)

	l, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, l.Record(ctx, Entry{RunID: "r", Source: "s", VideoURL: "v", Status: StatusSucceeded}))
	require.NoError(t, l.Close())

	l, err = Open(path)
	require.NoError(t, err)
	defer l.Close()

	entries, err := l.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestNewRunID(t *testing.T) {
	a, b := NewRunID(), NewRunID()
	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
}

func TestDefaultPath(t *testing.T) {
	assert.Equal(t, filepath.Join("output", ".transcriber.db"), DefaultPath("output"))
}
