// Package task reads the append-only session event logs written by Claude
// Code hooks and folds them into a current status per session.
//
// The writer is an uncoordinated external process, so everything on the
// reading side is defensive: unknown event kinds and statuses map to
// explicit unknown values instead of failing, and timestamps accept
// flexible precision.
package task

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Status is the coarse session status signalled by hook events.
type Status string

const (
	// StatusUnspecified means the event carried no status change. It never
	// appears on a folded task, only on events.
	StatusUnspecified Status = ""
	// StatusStarting is the initial state of a session whose first event
	// carried no explicit status: the session exists but has not signalled
	// real activity yet.
	StatusStarting    Status = "starting"
	StatusInProgress  Status = "in_progress"
	StatusWaitingUser Status = "waiting_user"
	StatusCompleted   Status = "completed"
	StatusError       Status = "error"
)

// knownStatuses maps the wire values to statuses. Anything else is treated
// as unspecified so writers can add statuses without breaking old readers.
var knownStatuses = map[string]Status{
	"starting":     StatusStarting,
	"in_progress":  StatusInProgress,
	"waiting_user": StatusWaitingUser,
	"completed":    StatusCompleted,
	"error":        StatusError,
}

// ParseStatus maps a wire value to a Status; unknown values are unspecified.
func ParseStatus(s string) Status {
	if st, ok := knownStatuses[strings.ToLower(strings.TrimSpace(s))]; ok {
		return st
	}
	return StatusUnspecified
}

// UnmarshalJSON accepts any string (or null) without failing the line.
func (s *Status) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		*s = StatusUnspecified
		return nil
	}
	*s = ParseStatus(raw)
	return nil
}

// Terminal reports whether the status ends a session for display purposes.
func (s Status) Terminal() bool { return s == StatusCompleted }

// Description returns a human-readable status label.
func (s Status) Description() string {
	switch s {
	case StatusStarting:
		return "Starting"
	case StatusInProgress:
		return "In Progress"
	case StatusWaitingUser:
		return "Waiting for User"
	case StatusCompleted:
		return "Completed"
	case StatusError:
		return "Error"
	default:
		return "Unknown"
	}
}

// Kind is the lifecycle category of a task event.
type Kind string

const (
	KindUnknown          Kind = "Unknown"
	KindSessionStart     Kind = "SessionStart"
	KindUserPromptSubmit Kind = "UserPromptSubmit"
	KindPostToolUse      Kind = "PostToolUse"
	KindStop             Kind = "Stop"
	KindSessionEnd       Kind = "SessionEnd"
	KindNotification     Kind = "Notification"
)

var knownKinds = map[string]Kind{
	"SessionStart":     KindSessionStart,
	"UserPromptSubmit": KindUserPromptSubmit,
	"PostToolUse":      KindPostToolUse,
	"Stop":             KindStop,
	"SessionEnd":       KindSessionEnd,
	"Notification":     KindNotification,
}

// ParseKind maps a wire value to a Kind; unknown values are KindUnknown.
func ParseKind(s string) Kind {
	if k, ok := knownKinds[strings.TrimSpace(s)]; ok {
		return k
	}
	return KindUnknown
}

// UnmarshalJSON accepts any string without failing the line.
func (k *Kind) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		*k = KindUnknown
		return nil
	}
	*k = ParseKind(raw)
	return nil
}

// timestampLayouts are tried in order. The hook writes RFC3339 with
// microseconds, but older writers omitted the zone suffix.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

// Timestamp is a time.Time that parses with flexible precision.
type Timestamp struct {
	time.Time
}

// UnmarshalJSON parses the timestamp, trying each accepted layout. An
// unparseable timestamp is an error: a line without a usable timestamp
// cannot be folded and is skipped by the reader.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("timestamp is not a string: %w", err)
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			t.Time = parsed.UTC()
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp %q", raw)
}

// MarshalJSON writes RFC3339 with sub-second precision, matching the hook.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.UTC().Format(time.RFC3339Nano))
}

// Event is one JSONL record from a session log.
type Event struct {
	Timestamp Timestamp `json:"timestamp"`
	SessionID string    `json:"session_id"`
	Kind      Kind      `json:"event"`
	Tool      string    `json:"tool,omitempty"`
	Status    Status    `json:"status,omitempty"`
	Message   string    `json:"message"`
	Cwd       string    `json:"cwd"`
}

// valid reports whether the event carries the minimum needed for folding.
func (e Event) valid() bool {
	return e.SessionID != "" && !e.Timestamp.IsZero()
}
