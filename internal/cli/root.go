// Package cli wires the wtenv subcommands. Argument parsing and output
// styling live here; all behavior belongs to the internal packages.
package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/Coxless/wtenv/internal/config"
	"github.com/Coxless/wtenv/internal/history"
	"github.com/Coxless/wtenv/internal/registry"
	"github.com/Coxless/wtenv/internal/task"
	"github.com/Coxless/wtenv/internal/worktree"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	boldStyle    = lipgloss.NewStyle().Bold(true)
)

var cfg config.Config

// Execute runs the CLI and prints any terminal error.
func Execute() error {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error: "+err.Error()))
		return err
	}
	return nil
}

func newRootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:           "wtenv",
		Version:       "0.1.0",
		Short:         "Activity monitor for git worktree working areas",
		Long:          "wtenv tracks external processes and coding-assistant sessions across\nthe working areas (worktrees) of a repository.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			var err error
			cfg, err = config.Load()
			if err != nil {
				log.Warn("failed to load config, using defaults", "err", err)
				cfg = config.Default()
			}
			level := cfg.LogLevel
			if verbose {
				level = "debug"
			}
			if lv, err := log.ParseLevel(level); err == nil {
				log.SetLevel(lv)
			}
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging (includes pruned registry entries)")

	cmd.AddCommand(
		newPsCmd(),
		newKillCmd(),
		newRunCmd(),
		newStatusCmd(),
		newUICmd(),
		newHistoryCmd(),
		newHookCmd(),
	)
	return cmd
}

// registryStore resolves the per-repository registry file. Fails outside a
// git repository; that is the one fatal error class in this tool.
func registryStore() (*registry.Store, string, error) {
	root, err := worktree.RepoRoot()
	if err != nil {
		return nil, "", err
	}
	return registry.NewStore(filepath.Join(root, ".worktree", "processes.json")), root, nil
}

func taskLogDir() string {
	if cfg.TaskLogDir != "" {
		return cfg.TaskLogDir
	}
	return task.DefaultLogDir()
}

func historyPath() string {
	if cfg.HistoryPath != "" {
		return cfg.HistoryPath
	}
	return history.DefaultPath()
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
