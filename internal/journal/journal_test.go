package journal

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ottkit/streamd/internal/stream"
)

func openTestJournal(t *testing.T) (*Journal, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "journal.db")
	j, err := Open(path, DefaultConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = j.Close() })
	return j, path
}

func TestJournalRecordAndHistory(t *testing.T) {
	j, _ := openTestJournal(t)
	ctx := context.Background()

	require.NoError(t, j.Record(ctx, "s1", stream.TypeRelay, stream.StateConfigured))
	require.NoError(t, j.Record(ctx, "s1", stream.TypeRelay, stream.StateRunning))
	require.NoError(t, j.Record(ctx, "s1", stream.TypeRelay, stream.StateStopping))
	require.NoError(t, j.Record(ctx, "s1", stream.TypeRelay, stream.StateCleanedUp))
	require.NoError(t, j.Record(ctx, "s2", stream.TypeEncode, stream.StateConfigured))

	entries, err := j.History(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, entries, 4)

	wantStates := []stream.State{
		stream.StateConfigured,
		stream.StateRunning,
		stream.StateStopping,
		stream.StateCleanedUp,
	}
	for i, e := range entries {
		assert.Equal(t, "s1", e.StreamID)
		assert.Equal(t, stream.TypeRelay, e.StreamType)
		assert.Equal(t, wantStates[i], e.State)
		assert.False(t, e.At.IsZero())
	}
}

func TestJournalHistoryEmpty(t *testing.T) {
	j, _ := openTestJournal(t)

	entries, err := j.History(context.Background(), "unknown")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestVerifyIntegrity(t *testing.T) {
	j, path := openTestJournal(t)
	require.NoError(t, j.Record(context.Background(), "s1", stream.TypeRelay, stream.StateRunning))

	problems, err := VerifyIntegrity(path, VerifyQuick)
	require.NoError(t, err)
	assert.Nil(t, problems)

	problems, err = VerifyIntegrity(path, VerifyFull)
	require.NoError(t, err)
	assert.Nil(t, problems)
}

func TestOpenRejectsNonDatabaseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	require.NoError(t, os.WriteFile(path, []byte("not a sqlite database"), 0o644))

	_, err := Open(path, DefaultConfig())
	require.Error(t, err)
}
