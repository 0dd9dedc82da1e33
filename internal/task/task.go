package task

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// maxActivityLen bounds the last-activity summary shown in lists.
const maxActivityLen = 64

// ClaudeTask is the folded state of one coding-assistant session, derived
// from its events in file order.
type ClaudeTask struct {
	SessionID      string
	WorkingArea    string
	Status         Status
	StartedAt      time.Time
	LastActivity   string
	LastActivityAt time.Time
	EventCount     int
	// Ended is set once a SessionEnd event was seen, regardless of the
	// status that event carried.
	Ended bool
	// ToolCounts tallies tool usage across the session.
	ToolCounts map[string]int
}

// newTask creates a task from the first event of a session. A first event
// without an explicit status yields StatusStarting, not in-progress: a
// session that has only announced itself is not busy yet.
func newTask(ev Event) *ClaudeTask {
	status := ev.Status
	if status == StatusUnspecified {
		status = StatusStarting
	}
	t := &ClaudeTask{
		SessionID:      ev.SessionID,
		WorkingArea:    ev.Cwd,
		Status:         status,
		StartedAt:      ev.Timestamp.Time,
		LastActivity:   activityDescription(ev),
		LastActivityAt: ev.Timestamp.Time,
		EventCount:     1,
		ToolCounts:     make(map[string]int),
	}
	if ev.Tool != "" {
		t.ToolCounts[ev.Tool]++
	}
	if ev.Kind == KindSessionEnd {
		t.Ended = true
	}
	return t
}

// apply folds one subsequent event. Activity updates unconditionally; status
// only when the event carries an explicit value.
func (t *ClaudeTask) apply(ev Event) {
	t.EventCount++
	t.LastActivity = activityDescription(ev)
	t.LastActivityAt = ev.Timestamp.Time
	if ev.Cwd != "" {
		t.WorkingArea = ev.Cwd
	}
	if ev.Status != StatusUnspecified {
		t.Status = ev.Status
	}
	if ev.Tool != "" {
		t.ToolCounts[ev.Tool]++
	}
	if ev.Kind == KindSessionEnd {
		t.Ended = true
	}
}

// Active reports whether the task belongs in "active" listings: not ended,
// non-terminal status, and at least one event beyond session creation. A
// session that only ever announced itself has not started for display
// purposes.
func (t *ClaudeTask) Active() bool {
	return !t.Ended && !t.Status.Terminal() && t.EventCount > 1
}

// Duration returns the span from the first to the most recent event.
func (t *ClaudeTask) Duration() time.Duration {
	return t.LastActivityAt.Sub(t.StartedAt)
}

// DurationString formats Duration compactly: "42s", "3m 10s", "2h 05m".
func (t *ClaudeTask) DurationString() string {
	secs := int64(t.Duration().Seconds())
	switch {
	case secs < 60:
		return fmt.Sprintf("%ds", secs)
	case secs < 3600:
		return fmt.Sprintf("%dm %02ds", secs/60, secs%60)
	default:
		return fmt.Sprintf("%dh %02dm", secs/3600, (secs%3600)/60)
	}
}

// InWorkingArea reports whether the task belongs to the given working area:
// the task's recorded directory is the area itself or a descendant of it.
func (t *ClaudeTask) InWorkingArea(area string) bool {
	return PathWithin(t.WorkingArea, area)
}

// activityDescription derives the last-activity summary for an event. The
// writer's message is preferred when it says something; otherwise the kind
// and tool are used. Bounded length either way.
func activityDescription(ev Event) string {
	msg := strings.TrimSpace(ev.Message)
	if msg == "" || msg == "Unknown event" {
		if ev.Tool != "" {
			msg = fmt.Sprintf("%s (%s)", ev.Kind, ev.Tool)
		} else {
			msg = string(ev.Kind)
		}
	}
	return truncate(msg, maxActivityLen)
}

// truncate shortens a string to maxLen, appending "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// PathWithin reports whether path equals root or lies underneath it. Both
// sides are canonicalized when possible; if either side cannot be resolved
// (path no longer exists), it falls back to comparing cleaned paths. The
// comparison is always component-wise: a raw string prefix would wrongly
// match sibling directories like "feature" and "feature-backup".
func PathWithin(path, root string) bool {
	if path == "" || root == "" {
		return false
	}
	cPath, errP := canonicalize(path)
	cRoot, errR := canonicalize(root)
	if errP == nil && errR == nil {
		return componentsPrefix(cPath, cRoot)
	}
	return componentsPrefix(filepath.Clean(path), filepath.Clean(root))
}

// canonicalize resolves a path to an absolute, symlink-free form. Fails when
// the path does not exist.
func canonicalize(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}

// componentsPrefix reports whether every component of root matches the
// corresponding leading component of path.
func componentsPrefix(path, root string) bool {
	pc := strings.Split(path, string(filepath.Separator))
	rc := strings.Split(root, string(filepath.Separator))
	if len(pc) < len(rc) {
		return false
	}
	for i := range rc {
		if pc[i] != rc[i] {
			return false
		}
	}
	return true
}
