// Package ui is the live dashboard: one row per working area, merged from
// the activity monitor's snapshots, refreshed on a timer or on demand.
package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Coxless/wtenv/internal/monitor"
	"github.com/Coxless/wtenv/internal/registry"
	"github.com/Coxless/wtenv/internal/task"
	"github.com/Coxless/wtenv/internal/worktree"
)

// Recorder receives each snapshot's tasks, e.g. to archive finished
// sessions. May be nil.
type Recorder func(tasks []task.ClaudeTask)

// row is one dashboard line: a working area with whatever the snapshot
// knows about it. Task and Area may each be nil when only the other source
// mentioned the path.
type row struct {
	Path  string
	Task  *task.ClaudeTask
	Area  *worktree.Status
	Procs []registry.Record
}

type snapshotMsg monitor.Snapshot

type tickMsg time.Time

// Model is the bubbletea model for the dashboard.
type Model struct {
	mon      *monitor.Monitor
	interval time.Duration
	record   Recorder

	snap   monitor.Snapshot
	rows   []row
	cursor int
	width  int
	height int
	loaded bool
}

// New returns a dashboard over the given monitor.
func New(mon *monitor.Monitor, interval time.Duration, record Recorder) Model {
	return Model{mon: mon, interval: interval, record: record}
}

// Init takes the first snapshot and starts the refresh timer.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.refreshCmd(), m.tickCmd())
}

// refreshCmd snapshots in a command so I/O never blocks key handling.
func (m Model) refreshCmd() tea.Cmd {
	mon, record := m.mon, m.record
	return func() tea.Msg {
		snap := mon.Snapshot()
		if record != nil {
			record(snap.Tasks)
		}
		return snapshotMsg(snap)
	}
}

func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles keys, refresh timer ticks, and completed snapshots.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "j", "down":
			if m.cursor < len(m.rows)-1 {
				m.cursor++
			} else if len(m.rows) > 0 {
				m.cursor = 0
			}
			return m, nil
		case "k", "up":
			if m.cursor > 0 {
				m.cursor--
			} else if len(m.rows) > 0 {
				m.cursor = len(m.rows) - 1
			}
			return m, nil
		case "r":
			return m, m.refreshCmd()
		}
		return m, nil

	case tickMsg:
		return m, tea.Batch(m.refreshCmd(), m.tickCmd())

	case snapshotMsg:
		m.snap = monitor.Snapshot(msg)
		m.rows = buildRows(m.snap)
		m.loaded = true
		if m.cursor >= len(m.rows) {
			m.cursor = max(0, len(m.rows)-1)
		}
		return m, nil
	}
	return m, nil
}

// buildRows merges the snapshot into one row per working area: area
// statuses first (repository order), then areas known only from task logs
// or registry entries.
func buildRows(snap monitor.Snapshot) []row {
	var rows []row
	index := make(map[string]int)

	for i := range snap.Areas {
		area := &snap.Areas[i]
		index[area.Path] = len(rows)
		rows = append(rows, row{Path: area.Path, Area: area})
	}

	// Latest task per area; tasks are sorted most recent first. A path can
	// fall under several rows when areas nest (the repository root contains
	// its worktrees), so the deepest matching row wins.
	for i := range snap.Tasks {
		t := &snap.Tasks[i]
		if t.WorkingArea == "" {
			continue
		}
		if j := deepestMatch(rows, t.WorkingArea, func(r row) bool { return r.Task == nil }); j >= 0 {
			rows[j].Task = t
			continue
		}
		if _, ok := index[t.WorkingArea]; !ok {
			index[t.WorkingArea] = len(rows)
			rows = append(rows, row{Path: t.WorkingArea, Task: t})
		}
	}

	for _, p := range snap.Processes {
		if j := deepestMatch(rows, p.WorkingArea, nil); j >= 0 {
			rows[j].Procs = append(rows[j].Procs, p)
			continue
		}
		rows = append(rows, row{Path: p.WorkingArea, Procs: []registry.Record{p}})
	}

	return rows
}

// deepestMatch returns the index of the row with the longest path that
// contains p and passes the eligibility check, or -1. A nil check accepts
// every row.
func deepestMatch(rows []row, p string, eligible func(row) bool) int {
	best := -1
	for j := range rows {
		if eligible != nil && !eligible(rows[j]) {
			continue
		}
		if !task.PathWithin(p, rows[j].Path) {
			continue
		}
		if best < 0 || len(rows[j].Path) > len(rows[best].Path) {
			best = j
		}
	}
	return best
}

// Run starts the dashboard in the alternate screen.
func Run(mon *monitor.Monitor, interval time.Duration, record Recorder) error {
	_, err := tea.NewProgram(New(mon, interval, record), tea.WithAltScreen()).Run()
	return err
}
