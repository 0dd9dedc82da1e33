// Package hook is the writer side of the session event log: it turns a
// Claude Code hook payload into one JSONL record. Installed as a hook
// command, it must never fail the surrounding session, so errors land in an
// errors.log next to the session logs instead of propagating.
package hook

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/Coxless/wtenv/internal/task"
)

// Input is the hook payload Claude Code delivers on stdin. Only the fields
// wtenv consumes are declared; everything else is ignored.
type Input struct {
	SessionID     string    `json:"session_id"`
	HookEventName string    `json:"hook_event_name"`
	ToolName      string    `json:"tool_name"`
	ToolInput     ToolInput `json:"tool_input"`
	Message       string    `json:"message"`
	Cwd           string    `json:"cwd"`
}

// ToolInput carries the tool parameters used for message derivation.
type ToolInput struct {
	FilePath string `json:"file_path"`
	Command  string `json:"command"`
}

// Run parses a hook payload and appends the derived event to the session's
// log in logDir. Returns the event for the caller's benefit (the CLI prints
// a confirmation on SessionStart).
func Run(stdin io.Reader, logDir string, now time.Time) (task.Event, error) {
	var in Input
	if err := json.NewDecoder(stdin).Decode(&in); err != nil {
		return task.Event{}, fmt.Errorf("decode hook payload: %w", err)
	}

	ev := BuildEvent(in, now)
	if err := Append(logDir, ev); err != nil {
		return ev, err
	}
	return ev, nil
}

// BuildEvent derives the log record from a hook payload. A payload without a
// session id gets a generated one so the event is still attributable.
func BuildEvent(in Input, now time.Time) task.Event {
	sessionID := in.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	kind := task.ParseKind(in.HookEventName)
	return task.Event{
		Timestamp: task.Timestamp{Time: now.UTC()},
		SessionID: sessionID,
		Kind:      kind,
		Tool:      in.ToolName,
		Status:    deriveStatus(kind),
		Message:   deriveMessage(in, kind),
		Cwd:       in.Cwd,
	}
}

// deriveStatus maps a lifecycle event to the status it signals. SessionStart
// and Notification carry no status: a session that has only announced itself
// is not busy, and a notification changes nothing by itself.
func deriveStatus(kind task.Kind) task.Status {
	switch kind {
	case task.KindStop:
		return task.StatusWaitingUser
	case task.KindSessionEnd:
		return task.StatusCompleted
	case task.KindPostToolUse, task.KindUserPromptSubmit:
		return task.StatusInProgress
	default:
		return task.StatusUnspecified
	}
}

// deriveMessage builds the human-readable event message: file basenames for
// file tools, a truncated preview for shell commands.
func deriveMessage(in Input, kind task.Kind) string {
	switch kind {
	case task.KindSessionStart:
		return "Session started"
	case task.KindSessionEnd:
		return "Session completed"
	case task.KindStop:
		return "Waiting for user response"
	case task.KindUserPromptSubmit:
		return "Prompt submitted"
	case task.KindNotification:
		if in.Message != "" {
			return in.Message
		}
		return "Notification"
	case task.KindPostToolUse:
		return toolMessage(in)
	default:
		return "Unknown event"
	}
}

func toolMessage(in Input) string {
	base := filepath.Base(in.ToolInput.FilePath)
	if in.ToolInput.FilePath == "" {
		base = "unknown"
	}
	switch in.ToolName {
	case "Write":
		return "Created file: " + base
	case "Edit":
		return "Edited file: " + base
	case "Read":
		return "Read file: " + base
	case "Bash":
		cmd := in.ToolInput.Command
		if len(cmd) > 50 {
			cmd = cmd[:50] + "..."
		}
		return "Executed: " + cmd
	default:
		return "Used tool: " + in.ToolName
	}
}

// Append writes one JSONL record to the session's log file in logDir.
func Append(logDir string, ev task.Event) error {
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}

	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	path := filepath.Join(logDir, ev.SessionID+".jsonl")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open session log: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("append event: %w", err)
	}
	return nil
}

// LogError appends a hook failure to errors.log in logDir. Best effort.
func LogError(logDir string, hookErr error) {
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return
	}
	f, err := os.OpenFile(filepath.Join(logDir, "errors.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return
	}
	defer f.Close()
	fmt.Fprintf(f, "%s: %v\n", time.Now().UTC().Format(time.RFC3339), hookErr)
}
