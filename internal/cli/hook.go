package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Coxless/wtenv/internal/hook"
	"github.com/Coxless/wtenv/internal/task"
)

func newHookCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hook",
		Short: "Record a Claude Code hook event (reads the payload from stdin)",
		Long:  "Installed as a Claude Code hook command. Appends one event to the\nsession's progress log. Never fails the surrounding session: errors are\nlogged to errors.log in the log directory.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ev, err := hook.Run(os.Stdin, taskLogDir(), time.Now())
			if err != nil {
				hook.LogError(taskLogDir(), err)
				return nil
			}
			// Hook stdout on SessionStart is surfaced to the session as
			// context, confirming tracking is in place.
			if ev.Kind == task.KindSessionStart {
				fmt.Print("✓ wtenv task tracking initialized")
			}
			return nil
		},
	}
}
