package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newPsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ps [filter]",
		Short: "List running processes across working areas",
		Long:  "Lists registered processes that are still alive. The optional filter\nmatches a PID, a branch name, a working-area path, or a command substring.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, err := registryStore()
			if err != nil {
				return err
			}

			filter := ""
			if len(args) > 0 {
				filter = args[0]
			}

			recs, err := store.List(filter)
			if err != nil {
				return err
			}
			if len(recs) == 0 {
				if filter != "" {
					fmt.Println(dimStyle.Render("No running processes match " + filter + "."))
				} else {
					fmt.Println(dimStyle.Render("No running processes."))
				}
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "BRANCH\tPID\tCOMMAND\tAREA\tSTARTED")
			for _, r := range recs {
				branch := r.Branch
				if branch == "" {
					branch = "-"
				}
				fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\n",
					branch, r.PID, truncate(r.Command, 40),
					shortenHome(r.WorkingArea), humanize.Time(r.StartedAt))
			}
			w.Flush()

			noun := "processes"
			if len(recs) == 1 {
				noun = "process"
			}
			fmt.Printf("\n%s %d %s\n", dimStyle.Render("Total:"), len(recs), noun)
			return nil
		},
	}
}
