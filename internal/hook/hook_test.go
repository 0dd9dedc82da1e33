package hook

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Coxless/wtenv/internal/task"
)

var testNow = time.Date(2026, 8, 1, 10, 0, 0, 123456000, time.UTC)

func TestBuildEventDerivations(t *testing.T) {
	cases := []struct {
		name       string
		in         Input
		wantKind   task.Kind
		wantStatus task.Status
		wantMsg    string
	}{
		{
			name:       "session start carries no status",
			in:         Input{SessionID: "s1", HookEventName: "SessionStart", Cwd: "/w"},
			wantKind:   task.KindSessionStart,
			wantStatus: task.StatusUnspecified,
			wantMsg:    "Session started",
		},
		{
			name:       "stop means waiting for user",
			in:         Input{SessionID: "s1", HookEventName: "Stop"},
			wantKind:   task.KindStop,
			wantStatus: task.StatusWaitingUser,
			wantMsg:    "Waiting for user response",
		},
		{
			name:       "session end completes",
			in:         Input{SessionID: "s1", HookEventName: "SessionEnd"},
			wantKind:   task.KindSessionEnd,
			wantStatus: task.StatusCompleted,
			wantMsg:    "Session completed",
		},
		{
			name:       "prompt submission is progress",
			in:         Input{SessionID: "s1", HookEventName: "UserPromptSubmit"},
			wantKind:   task.KindUserPromptSubmit,
			wantStatus: task.StatusInProgress,
			wantMsg:    "Prompt submitted",
		},
		{
			name:       "edit tool names the file",
			in:         Input{SessionID: "s1", HookEventName: "PostToolUse", ToolName: "Edit", ToolInput: ToolInput{FilePath: "/repo/src/main.go"}},
			wantKind:   task.KindPostToolUse,
			wantStatus: task.StatusInProgress,
			wantMsg:    "Edited file: main.go",
		},
		{
			name:       "notification passes its message through",
			in:         Input{SessionID: "s1", HookEventName: "Notification", Message: "Permission needed"},
			wantKind:   task.KindNotification,
			wantStatus: task.StatusUnspecified,
			wantMsg:    "Permission needed",
		},
		{
			name:       "unknown hook event",
			in:         Input{SessionID: "s1", HookEventName: "SomethingNew"},
			wantKind:   task.KindUnknown,
			wantStatus: task.StatusUnspecified,
			wantMsg:    "Unknown event",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ev := BuildEvent(tc.in, testNow)
			assert.Equal(t, tc.wantKind, ev.Kind)
			assert.Equal(t, tc.wantStatus, ev.Status)
			assert.Equal(t, tc.wantMsg, ev.Message)
			assert.Equal(t, testNow, ev.Timestamp.Time)
		})
	}
}

func TestBuildEventLongBashCommandIsTruncated(t *testing.T) {
	cmd := strings.Repeat("x", 80)
	ev := BuildEvent(Input{
		SessionID:     "s1",
		HookEventName: "PostToolUse",
		ToolName:      "Bash",
		ToolInput:     ToolInput{Command: cmd},
	}, testNow)
	assert.Equal(t, "Executed: "+cmd[:50]+"...", ev.Message)
}

func TestBuildEventGeneratesSessionID(t *testing.T) {
	ev := BuildEvent(Input{HookEventName: "SessionStart"}, testNow)
	assert.NotEmpty(t, ev.SessionID, "events without a session id still need a log file")
}

func TestRunAppendsReadableEvents(t *testing.T) {
	logDir := t.TempDir()
	payloads := []string{
		`{"session_id":"s1","hook_event_name":"SessionStart","cwd":"/repo/feature-a"}`,
		`{"session_id":"s1","hook_event_name":"PostToolUse","tool_name":"Write","tool_input":{"file_path":"/repo/feature-a/x.go"},"cwd":"/repo/feature-a"}`,
		`{"session_id":"s1","hook_event_name":"SessionEnd","cwd":"/repo/feature-a"}`,
	}

	for i, payload := range payloads {
		_, err := Run(strings.NewReader(payload), logDir, testNow.Add(time.Duration(i)*time.Second))
		require.NoError(t, err)
	}

	events, skipped, err := task.ReadSession(filepath.Join(logDir, "s1.jsonl"))
	require.NoError(t, err)
	assert.Zero(t, skipped, "everything the hook writes must parse back")
	require.Len(t, events, 3)

	assert.Equal(t, task.KindSessionStart, events[0].Kind)
	assert.Equal(t, task.StatusUnspecified, events[0].Status)
	assert.Equal(t, "Created file: x.go", events[1].Message)
	assert.Equal(t, task.StatusInProgress, events[1].Status)
	assert.Equal(t, task.KindSessionEnd, events[2].Kind)
	assert.Equal(t, task.StatusCompleted, events[2].Status)
}

func TestRunRejectsUndecodablePayload(t *testing.T) {
	_, err := Run(strings.NewReader("not json"), t.TempDir(), testNow)
	assert.Error(t, err)
}
