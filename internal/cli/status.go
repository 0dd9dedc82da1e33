package cli

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/Coxless/wtenv/internal/history"
	"github.com/Coxless/wtenv/internal/monitor"
	"github.com/Coxless/wtenv/internal/task"
	"github.com/Coxless/wtenv/internal/worktree"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "One-shot overview of all working areas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, root, err := registryStore()
			if err != nil {
				return err
			}

			mon := monitor.New(store, taskLogDir(), worktree.NewGitProvider(root))
			snap := mon.Snapshot()
			archiveFinished(snap.Tasks)

			if len(snap.Areas) == 0 {
				fmt.Println(warnStyle.Render("No working areas found."))
				return nil
			}

			fmt.Printf("%s %s\n\n",
				boldStyle.Render("Working Areas"),
				dimStyle.Render(fmt.Sprintf("(%d areas, %d processes, %d active sessions)",
					len(snap.Areas), len(snap.Processes), len(snap.ActiveTasks()))))

			for _, area := range snap.Areas {
				printArea(snap, area)
			}
			return nil
		},
	}
}

func printArea(snap monitor.Snapshot, area worktree.Status) {
	branch := area.Branch
	if branch == "" {
		branch = "(detached)"
	}
	main := ""
	if area.IsMain {
		main = dimStyle.Render(" [main]")
	}
	fmt.Printf("%s%s %s\n", boldStyle.Render(branch), main, dimStyle.Render(shortenHome(area.Path)))

	state := area.StateText()
	if area.Dirty() {
		state = warnStyle.Render(state)
	} else {
		state = successStyle.Render(state)
	}
	sync := ""
	if area.Ahead > 0 || area.Behind > 0 {
		sync = dimStyle.Render(fmt.Sprintf("  ↑%d ↓%d", area.Ahead, area.Behind))
	}
	fmt.Printf("  %s %s%s\n", dimStyle.Render("Git:"), state, sync)

	for _, p := range snap.ProcessesFor(area.Path) {
		fmt.Printf("  %s %s %s\n", dimStyle.Render("Proc:"), truncate(p.Command, 48),
			dimStyle.Render(fmt.Sprintf("(pid %d, %s)", p.PID, humanize.Time(p.StartedAt))))
	}

	if tasks := snap.TasksFor(area.Path); len(tasks) > 0 {
		t := tasks[0]
		fmt.Printf("  %s %s · %s %s\n", dimStyle.Render("Task:"),
			t.Status.Description(), truncate(t.LastActivity, 48),
			dimStyle.Render("("+humanize.Time(t.LastActivityAt)+")"))
	}
	fmt.Println()
}

// archiveFinished records terminal sessions in the history database. Best
// effort: the overview must not depend on the archive being writable.
func archiveFinished(tasks []task.ClaudeTask) {
	hs, err := history.Open(historyPath())
	if err != nil {
		log.Debug("history archive unavailable", "err", err)
		return
	}
	defer hs.Close()
	if err := hs.RecordTasks(tasks); err != nil {
		log.Debug("failed to archive sessions", "err", err)
	}
}
