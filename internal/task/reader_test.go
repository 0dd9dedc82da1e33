package task

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeLog(t *testing.T, dir, name string, lines ...string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
	return path
}

func TestReadSessionSkipsCorruptLines(t *testing.T) {
	path := writeLog(t, t.TempDir(), "s1.jsonl",
		`{"timestamp":"2026-08-01T10:00:00Z","session_id":"s1","event":"SessionStart","message":"Session started","cwd":"/w"}`,
		`this is not json`,
		`{"timestamp":"2026-08-01T10:00:05Z","session_id":"s1","event":"PostToolUse","tool":"Edit","status":"in_progress","message":"Edited file: main.go","cwd":"/w"}`,
	)

	events, skipped, err := ReadSession(path)
	require.NoError(t, err)
	assert.Equal(t, 1, skipped)
	require.Len(t, events, 2)
	assert.Equal(t, KindSessionStart, events[0].Kind)
	assert.Equal(t, KindPostToolUse, events[1].Kind)
}

func TestReadSessionSkipsIncompleteLines(t *testing.T) {
	path := writeLog(t, t.TempDir(), "s1.jsonl",
		`{"timestamp":"2026-08-01T10:00:00Z","event":"SessionStart","message":"no session id","cwd":"/w"}`,
		`{"session_id":"s1","event":"SessionStart","message":"no timestamp","cwd":"/w"}`,
	)

	events, skipped, err := ReadSession(path)
	require.NoError(t, err)
	assert.Empty(t, events)
	assert.Equal(t, 2, skipped)
}

func TestReadSessionAllGarbageIsNotFatal(t *testing.T) {
	path := writeLog(t, t.TempDir(), "s1.jsonl", "{{{", "", "nope")

	events, skipped, err := ReadSession(path)
	require.NoError(t, err, "an unusable log yields zero events, not an error")
	assert.Empty(t, events)
	assert.Equal(t, 2, skipped, "blank lines do not count as skipped")
}

func TestReadSessionMissingFile(t *testing.T) {
	_, _, err := ReadSession(filepath.Join(t.TempDir(), "absent.jsonl"))
	assert.Error(t, err)
}

func TestListSessions(t *testing.T) {
	dir := t.TempDir()
	writeLog(t, dir, "a.jsonl", "{}")
	writeLog(t, dir, "b.jsonl", "{}")
	writeLog(t, dir, "errors.log", "oops")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.jsonl"), 0o755))

	paths, err := ListSessions(dir)
	require.NoError(t, err)
	require.Len(t, paths, 2)
	assert.Equal(t, "a.jsonl", filepath.Base(paths[0]))
	assert.Equal(t, "b.jsonl", filepath.Base(paths[1]))
}

func TestListSessionsMissingDir(t *testing.T) {
	paths, err := ListSessions(filepath.Join(t.TempDir(), "absent"))
	require.NoError(t, err)
	assert.Empty(t, paths)
}
