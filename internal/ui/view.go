package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/Coxless/wtenv/internal/task"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#22D3EE"))
	headerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Background(lipgloss.Color("#374151"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	labelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#22D3EE"))
	boxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)

	statusStyles = map[task.Status]lipgloss.Style{
		task.StatusStarting:    lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF")),
		task.StatusInProgress:  lipgloss.NewStyle().Foreground(lipgloss.Color("#3B82F6")),
		task.StatusWaitingUser: lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B")),
		task.StatusCompleted:   lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")),
		task.StatusError:       lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")),
	}
)

func statusStyle(s task.Status) lipgloss.Style {
	if st, ok := statusStyles[s]; ok {
		return st
	}
	return dimStyle
}

// View renders the dashboard: title, one line per working area, a details
// box for the selection, and a key hint footer.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("wtenv · working area monitor"))
	b.WriteString("\n\n")

	if !m.loaded {
		b.WriteString(dimStyle.Render("loading..."))
		b.WriteString("\n")
		return b.String()
	}

	if len(m.rows) == 0 {
		b.WriteString(dimStyle.Render("No working areas, sessions, or processes found.\n"))
		b.WriteString(dimStyle.Render("Session tracking requires the wtenv hook to be installed."))
		b.WriteString("\n")
	}

	for i, r := range m.rows {
		line := m.renderRow(r)
		if i == m.cursor {
			line = selectedStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.renderDetails())
	b.WriteString("\n")

	active := len(m.snap.ActiveTasks())
	footer := fmt.Sprintf("Active: %d | Areas: %d | Processes: %d | refreshed %s | j/k move · r refresh · q quit",
		active, len(m.rows), len(m.snap.Processes), humanize.Time(m.snap.TakenAt))
	b.WriteString(headerStyle.Render(footer))
	b.WriteString("\n")
	return b.String()
}

// renderRow builds one list line: status marker, area name, task state,
// duration, process count.
func (m Model) renderRow(r row) string {
	name := filepath.Base(r.Path)
	if r.Area != nil && r.Area.Branch != "" {
		name = r.Area.Branch
	}

	state := dimStyle.Render("no session")
	dur := ""
	if r.Task != nil {
		state = statusStyle(r.Task.Status).Render(r.Task.Status.Description())
		dur = dimStyle.Render(" " + r.Task.DurationString())
	}

	procs := ""
	if n := len(r.Procs); n > 0 {
		procs = dimStyle.Render(fmt.Sprintf(" [%d proc]", n))
	}

	dirty := ""
	if r.Area != nil && r.Area.Dirty() {
		dirty = statusStyles[task.StatusWaitingUser].Render(" *")
	}

	return fmt.Sprintf("%-28s %-18s%s%s%s", truncate(name, 28), state, dur, procs, dirty)
}

// renderDetails shows the selected row's full information.
func (m Model) renderDetails() string {
	if m.cursor >= len(m.rows) {
		return boxStyle.Render(dimStyle.Render("nothing selected"))
	}
	r := m.rows[m.cursor]

	var lines []string
	lines = append(lines, labelStyle.Render("Directory: ")+shortenHome(r.Path))

	if r.Area != nil {
		lines = append(lines, labelStyle.Render("Branch:    ")+r.Area.Branch)
		gitLine := r.Area.StateText()
		if r.Area.Ahead > 0 || r.Area.Behind > 0 {
			gitLine += fmt.Sprintf("  (↑%d ↓%d)", r.Area.Ahead, r.Area.Behind)
		}
		lines = append(lines, labelStyle.Render("Git:       ")+gitLine)
	}

	if r.Task != nil {
		t := r.Task
		lines = append(lines, labelStyle.Render("Session:   ")+truncate(t.SessionID, 36))
		lines = append(lines, labelStyle.Render("Status:    ")+statusStyle(t.Status).Render(t.Status.Description()))
		lines = append(lines, labelStyle.Render("Duration:  ")+t.DurationString())
		lines = append(lines, labelStyle.Render("Activity:  ")+t.LastActivity+dimStyle.Render(" ("+humanize.Time(t.LastActivityAt)+")"))
	} else {
		lines = append(lines, dimStyle.Render("no coding-assistant session recorded"))
	}

	for _, p := range r.Procs {
		lines = append(lines, labelStyle.Render("Process:   ")+
			fmt.Sprintf("%s %s", truncate(p.Command, 40), dimStyle.Render(fmt.Sprintf("(pid %d, %s)", p.PID, humanize.Time(p.StartedAt)))))
	}

	return boxStyle.Render(strings.Join(lines, "\n"))
}

// truncate shortens a string to maxLen, appending "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// shortenHome replaces the user's home directory prefix with "~".
func shortenHome(path string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if strings.HasPrefix(path, home) {
		return "~" + path[len(home):]
	}
	return path
}
