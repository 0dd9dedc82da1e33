package cli

import (
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Coxless/wtenv/internal/registry"
	"github.com/Coxless/wtenv/internal/worktree"
)

func newRunCmd() *cobra.Command {
	var area string

	cmd := &cobra.Command{
		Use:   "run [--area path] -- command [args...]",
		Short: "Start a command in a working area and register it",
		Long:  "Starts a detached command inside a working area and records it in the\nprocess registry so ps, kill, and the dashboard can see it.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, root, err := registryStore()
			if err != nil {
				return err
			}

			if area == "" {
				area = root
			}
			abs, err := filepath.Abs(area)
			if err != nil {
				return fmt.Errorf("resolve working area: %w", err)
			}

			child := exec.Command(args[0], args[1:]...)
			child.Dir = abs
			if err := child.Start(); err != nil {
				return fmt.Errorf("start command: %w", err)
			}
			pid := child.Process.Pid
			if err := child.Process.Release(); err != nil {
				return fmt.Errorf("detach command: %w", err)
			}

			rec := registry.Record{
				PID:         pid,
				Command:     strings.Join(args, " "),
				Branch:      worktree.CurrentBranch(abs),
				WorkingArea: abs,
				StartedAt:   time.Now().UTC(),
				Cwd:         abs,
			}
			if err := store.Register(rec); err != nil {
				return errors.Join(fmt.Errorf("command started (pid %d) but registration failed", pid), err)
			}

			fmt.Printf("%s started %s %s\n",
				successStyle.Render("✓"),
				boldStyle.Render(rec.Command),
				dimStyle.Render(fmt.Sprintf("(pid %d in %s)", pid, shortenHome(abs))))
			return nil
		},
	}

	cmd.Flags().StringVar(&area, "area", "", "working area to run in (default: repository root)")
	return cmd
}
