// Package monitor merges the process registry, the task state tracker, and
// the working-area status list into one immutable snapshot for presentation.
package monitor

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/Coxless/wtenv/internal/registry"
	"github.com/Coxless/wtenv/internal/task"
	"github.com/Coxless/wtenv/internal/worktree"
)

// Snapshot is a point-in-time merge of all sources. Slices hold copies;
// rendering a snapshot never observes later mutation.
type Snapshot struct {
	TakenAt   time.Time
	Processes []registry.Record
	Tasks     []task.ClaudeTask
	Areas     []worktree.Status
}

// ActiveTasks returns the tasks that count as running.
func (s Snapshot) ActiveTasks() []task.ClaudeTask {
	var out []task.ClaudeTask
	for _, t := range s.Tasks {
		if t.Active() {
			out = append(out, t)
		}
	}
	return out
}

// TasksFor returns the tasks associated with a working area.
func (s Snapshot) TasksFor(area string) []task.ClaudeTask {
	var out []task.ClaudeTask
	for _, t := range s.Tasks {
		if t.InWorkingArea(area) {
			out = append(out, t)
		}
	}
	return out
}

// ProcessesFor returns the registered processes running inside a working area.
func (s Snapshot) ProcessesFor(area string) []registry.Record {
	var out []registry.Record
	for _, p := range s.Processes {
		if task.PathWithin(p.WorkingArea, area) {
			out = append(out, p)
		}
	}
	return out
}

// Monitor owns the sub-sources and produces snapshots on demand. Either the
// store or the provider may be nil (outside a repository); the corresponding
// slice is simply empty.
type Monitor struct {
	store    *registry.Store
	logDir   string
	provider worktree.Provider
}

// New returns a monitor over the given sources.
func New(store *registry.Store, logDir string, provider worktree.Provider) *Monitor {
	return &Monitor{store: store, logDir: logDir, provider: provider}
}

// Snapshot re-reads every source and merges the results. A failing
// sub-source degrades to empty with a warning; one bad input never aborts
// the whole view. Safe to call repeatedly: each call recomputes from
// persisted truth.
func (m *Monitor) Snapshot() Snapshot {
	snap := Snapshot{TakenAt: time.Now()}

	if m.store != nil {
		recs, err := m.store.List("")
		if err != nil {
			log.Warn("process registry unavailable", "err", err)
		} else {
			snap.Processes = recs
		}
	}

	mgr, err := task.Load(m.logDir)
	if err != nil {
		log.Warn("task log directory unavailable", "dir", m.logDir, "err", err)
	}
	for _, t := range mgr.All() {
		snap.Tasks = append(snap.Tasks, copyTask(t))
	}

	if m.provider != nil {
		areas, err := m.provider.Status()
		if err != nil {
			log.Warn("working-area status unavailable", "err", err)
		} else {
			snap.Areas = areas
		}
	}

	return snap
}

// copyTask deep-copies a task so snapshots stay immutable across refreshes.
func copyTask(t *task.ClaudeTask) task.ClaudeTask {
	cp := *t
	cp.ToolCounts = make(map[string]int, len(t.ToolCounts))
	for k, v := range t.ToolCounts {
		cp.ToolCounts[k] = v
	}
	return cp
}
