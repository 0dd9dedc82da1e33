package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Coxless/wtenv/internal/task"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func finishedTask(id string, endedAt time.Time) task.ClaudeTask {
	return task.ClaudeTask{
		SessionID:      id,
		WorkingArea:    "/repo/feature-a",
		Status:         task.StatusCompleted,
		StartedAt:      endedAt.Add(-10 * time.Minute),
		LastActivity:   "Session completed",
		LastActivityAt: endedAt,
		EventCount:     12,
		Ended:          true,
	}
}

func TestRecordTasksSkipsRunningSessions(t *testing.T) {
	store := openTestStore(t)

	ended := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	running := task.ClaudeTask{
		SessionID:   "running",
		WorkingArea: "/repo/feature-b",
		Status:      task.StatusInProgress,
		EventCount:  3,
	}

	require.NoError(t, store.RecordTasks([]task.ClaudeTask{finishedTask("done", ended), running}))

	entries, err := store.Recent(10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "done", entries[0].SessionID)
	assert.Equal(t, "completed", entries[0].Status)
	assert.Equal(t, ended, entries[0].EndedAt)
}

func TestRecordTasksIsIdempotent(t *testing.T) {
	store := openTestStore(t)

	ended := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	tasks := []task.ClaudeTask{finishedTask("s1", ended)}

	require.NoError(t, store.RecordTasks(tasks))
	require.NoError(t, store.RecordTasks(tasks))

	entries, err := store.Recent(10)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestRecordTasksArchivesEndedWithoutTerminalStatus(t *testing.T) {
	store := openTestStore(t)

	// SessionEnd seen but the last explicit status was in_progress.
	tk := finishedTask("s1", time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC))
	tk.Status = task.StatusInProgress

	require.NoError(t, store.RecordTasks([]task.ClaudeTask{tk}))

	entries, err := store.Recent(10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "in_progress", entries[0].Status)
}

func TestRecentOrdersByEndTime(t *testing.T) {
	store := openTestStore(t)

	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, store.RecordTasks([]task.ClaudeTask{
		finishedTask("oldest", base),
		finishedTask("newest", base.Add(2*time.Hour)),
		finishedTask("middle", base.Add(time.Hour)),
	}))

	entries, err := store.Recent(2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "newest", entries[0].SessionID)
	assert.Equal(t, "middle", entries[1].SessionID)
}

func TestReopenKeepsEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.RecordTasks([]task.ClaudeTask{
		finishedTask("s1", time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)),
	}))
	require.NoError(t, store.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	entries, err := reopened.Recent(10)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
