package cli

import (
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/Coxless/wtenv/internal/history"
	"github.com/Coxless/wtenv/internal/monitor"
	"github.com/Coxless/wtenv/internal/registry"
	"github.com/Coxless/wtenv/internal/task"
	"github.com/Coxless/wtenv/internal/ui"
	"github.com/Coxless/wtenv/internal/worktree"
)

func newUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ui",
		Short: "Live dashboard of working areas, sessions, and processes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Outside a repository the dashboard still runs, showing
			// sessions from the shared log directory only.
			var store *registry.Store
			var provider worktree.Provider
			if s, root, err := registryStore(); err == nil {
				store = s
				provider = worktree.NewGitProvider(root)
			} else {
				log.Warn("not inside a repository, showing sessions only", "err", err)
			}

			mon := monitor.New(store, taskLogDir(), provider)

			var recorder ui.Recorder
			if hs, err := history.Open(historyPath()); err == nil {
				defer hs.Close()
				recorder = func(tasks []task.ClaudeTask) {
					if err := hs.RecordTasks(tasks); err != nil {
						log.Debug("failed to archive sessions", "err", err)
					}
				}
			} else {
				log.Warn("history archive unavailable", "err", err)
			}

			return ui.Run(mon, cfg.RefreshInterval(), recorder)
		},
	}
}
