package task

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFoldsSessionsFromDir(t *testing.T) {
	dir := t.TempDir()
	writeLog(t, dir, "s1.jsonl",
		`{"timestamp":"2026-08-01T10:00:00Z","session_id":"s1","event":"SessionStart","message":"Session started","cwd":"/repo/feature-a"}`,
		`garbage line`,
		`{"timestamp":"2026-08-01T10:00:10Z","session_id":"s1","event":"PostToolUse","tool":"Bash","status":"in_progress","message":"Executed: go vet ./...","cwd":"/repo/feature-a"}`,
	)
	writeLog(t, dir, "s2.jsonl",
		`{"timestamp":"2026-08-01T11:00:00Z","session_id":"s2","event":"SessionStart","message":"Session started","cwd":"/repo/feature-b"}`,
		`{"timestamp":"2026-08-01T11:05:00Z","session_id":"s2","event":"SessionEnd","status":"completed","message":"Session completed","cwd":"/repo/feature-b"}`,
	)

	m, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 2, m.Len())

	s1, ok := m.Get("s1")
	require.True(t, ok)
	assert.Equal(t, StatusInProgress, s1.Status)
	assert.Equal(t, 2, s1.EventCount)

	s2, ok := m.Get("s2")
	require.True(t, ok)
	assert.True(t, s2.Ended)
}

func TestLoadMissingDir(t *testing.T) {
	m, err := Load(t.TempDir() + "/absent")
	require.NoError(t, err)
	assert.Equal(t, 0, m.Len())
}

func TestAllSortsByRecency(t *testing.T) {
	m := NewManager()
	m.Fold(makeEvent("old", KindSessionStart, StatusUnspecified, 0))
	m.Fold(makeEvent("new", KindSessionStart, StatusUnspecified, time.Hour))

	all := m.All()
	require.Len(t, all, 2)
	assert.Equal(t, "new", all[0].SessionID)
	assert.Equal(t, "old", all[1].SessionID)
}

func TestActiveExcludesEndedAndSingleEvent(t *testing.T) {
	m := NewManager()

	// Announced only: never active.
	m.Fold(makeEvent("announce", KindSessionStart, StatusUnspecified, 0))

	// Worked, then ended.
	m.Fold(makeEvent("done", KindSessionStart, StatusUnspecified, 0))
	m.Fold(makeEvent("done", KindSessionEnd, StatusCompleted, time.Minute))

	// Actually working.
	m.Fold(makeEvent("busy", KindSessionStart, StatusUnspecified, 0))
	m.Fold(makeEvent("busy", KindPostToolUse, StatusInProgress, time.Minute))

	active := m.Active()
	require.Len(t, active, 1)
	assert.Equal(t, "busy", active[0].SessionID)
}

func TestLatestByWorkingArea(t *testing.T) {
	m := NewManager()

	old := makeEvent("s-old", KindSessionStart, StatusUnspecified, 0)
	m.Fold(old)
	m.Fold(makeEvent("s-old", KindSessionEnd, StatusCompleted, time.Minute))

	recent := makeEvent("s-new", KindSessionStart, StatusUnspecified, time.Hour)
	m.Fold(recent)
	m.Fold(makeEvent("s-new", KindPostToolUse, StatusInProgress, time.Hour+time.Minute))

	other := makeEvent("s-other", KindSessionStart, StatusUnspecified, 30*time.Minute)
	other.Cwd = "/repo/feature-b"
	m.Fold(other)

	latest := m.LatestByWorkingArea()
	require.Len(t, latest, 2, "one row per working area")
	assert.Equal(t, "s-new", latest[0].SessionID, "the newest session wins its area")
	assert.Equal(t, "s-other", latest[1].SessionID)
}

func TestForWorkingArea(t *testing.T) {
	m := NewManager()
	m.Fold(makeEvent("s1", KindSessionStart, StatusUnspecified, 0))

	sub := makeEvent("s2", KindSessionStart, StatusUnspecified, time.Minute)
	sub.Cwd = "/repo/feature-a/pkg"
	m.Fold(sub)

	sibling := makeEvent("s3", KindSessionStart, StatusUnspecified, 2*time.Minute)
	sibling.Cwd = "/repo/feature-a-backup"
	m.Fold(sibling)

	got := m.ForWorkingArea("/repo/feature-a")
	require.Len(t, got, 2)
	assert.Equal(t, "s2", got[0].SessionID)
	assert.Equal(t, "s1", got[1].SessionID)
}

func TestStatusCounts(t *testing.T) {
	m := NewManager()
	m.Fold(makeEvent("s1", KindSessionStart, StatusUnspecified, 0))
	m.Fold(makeEvent("s2", KindSessionStart, StatusInProgress, 0))
	m.Fold(makeEvent("s3", KindSessionStart, StatusInProgress, 0))

	counts := m.StatusCounts()
	assert.Equal(t, 1, counts[StatusStarting])
	assert.Equal(t, 2, counts[StatusInProgress])
}
