package task

import (
	"sort"

	"github.com/charmbracelet/log"
)

// Manager holds the folded tasks of every session found in the log
// directory, keyed by session id. It owns no file handles: each Load is a
// fresh scan, so a refresh always reflects persisted truth.
type Manager struct {
	tasks map[string]*ClaudeTask
}

// NewManager returns an empty manager.
func NewManager() *Manager {
	return &Manager{tasks: make(map[string]*ClaudeTask)}
}

// Load scans dir and folds every session log. A missing directory yields an
// empty manager; an unreadable individual file is warned about and skipped.
func Load(dir string) (*Manager, error) {
	m := NewManager()

	paths, err := ListSessions(dir)
	if err != nil {
		return m, err
	}
	for _, path := range paths {
		events, _, err := ReadSession(path)
		if err != nil {
			log.Warn("failed to read session log", "path", path, "err", err)
			continue
		}
		for _, ev := range events {
			m.Fold(ev)
		}
	}
	return m, nil
}

// Fold routes one event to its session's task, creating the task on the
// session's first event.
func (m *Manager) Fold(ev Event) {
	if t, ok := m.tasks[ev.SessionID]; ok {
		t.apply(ev)
		return
	}
	m.tasks[ev.SessionID] = newTask(ev)
}

// Get returns the task for a session id. Terminal tasks stay queryable.
func (m *Manager) Get(sessionID string) (*ClaudeTask, bool) {
	t, ok := m.tasks[sessionID]
	return t, ok
}

// All returns every task, most recently active first.
func (m *Manager) All() []*ClaudeTask {
	out := make([]*ClaudeTask, 0, len(m.tasks))
	for _, t := range m.tasks {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].LastActivityAt.After(out[j].LastActivityAt)
	})
	return out
}

// Active returns the tasks that count as running for display purposes.
func (m *Manager) Active() []*ClaudeTask {
	var out []*ClaudeTask
	for _, t := range m.All() {
		if t.Active() {
			out = append(out, t)
		}
	}
	return out
}

// ForWorkingArea returns the tasks associated with a working area, most
// recently active first.
func (m *Manager) ForWorkingArea(area string) []*ClaudeTask {
	var out []*ClaudeTask
	for _, t := range m.All() {
		if t.InWorkingArea(area) {
			out = append(out, t)
		}
	}
	return out
}

// LatestByWorkingArea returns the most recently active task per working
// area, most recent first. This is the dashboard's row set: one line per
// area regardless of how many sessions have run there.
func (m *Manager) LatestByWorkingArea() []*ClaudeTask {
	seen := make(map[string]bool)
	var out []*ClaudeTask
	for _, t := range m.All() {
		if t.WorkingArea == "" || seen[t.WorkingArea] {
			continue
		}
		seen[t.WorkingArea] = true
		out = append(out, t)
	}
	return out
}

// StatusCounts tallies tasks by current status.
func (m *Manager) StatusCounts() map[Status]int {
	counts := make(map[Status]int)
	for _, t := range m.tasks {
		counts[t.Status]++
	}
	return counts
}

// Len returns the number of known sessions.
func (m *Manager) Len() int { return len(m.tasks) }
