package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Coxless/wtenv/internal/registry"
)

func newKillCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "kill [pid|filter]",
		Short: "Stop registered processes",
		Long: "Sends a termination request to matching live processes and removes them\n" +
			"from the registry. Termination is best effort: a process that ignores\n" +
			"the signal is dropped from the registry anyway and re-checked on the\n" +
			"next listing.\n\n" +
			"Examples:\n" +
			"  wtenv kill 12345       # stop one PID\n" +
			"  wtenv kill feature-a   # stop processes of one working area\n" +
			"  wtenv kill --all       # stop everything",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !all && len(args) == 0 {
				return errors.New("specify a PID, a filter, or --all")
			}

			store, _, err := registryStore()
			if err != nil {
				return err
			}

			target := registry.KillTarget{All: all}
			if !all && len(args) > 0 {
				if pid, err := strconv.Atoi(args[0]); err == nil {
					target.PID = pid
				} else {
					target.Filter = args[0]
				}
			}

			results, err := store.Kill(target)
			if err != nil {
				return err
			}
			if len(results) == 0 {
				fmt.Println(dimStyle.Render("No matching running processes."))
				return nil
			}

			stopped := 0
			for _, res := range results {
				label := fmt.Sprintf("PID %d (%s)", res.Record.PID, truncate(res.Record.Command, 32))
				switch {
				case res.SignalErr != nil:
					fmt.Printf("  %s %s: %v\n", errorStyle.Render("✗"), label, res.SignalErr)
				case !res.Terminated:
					fmt.Printf("  %s %s %s\n", warnStyle.Render("•"), label, dimStyle.Render("signalled, still running"))
					stopped++
				default:
					fmt.Printf("  %s %s\n", successStyle.Render("✓"), label)
					stopped++
				}
			}
			fmt.Printf("\n%s\n", successStyle.Render(fmt.Sprintf("Stopped %d of %d processes", stopped, len(results))))
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "stop all registered processes")
	return cmd
}
