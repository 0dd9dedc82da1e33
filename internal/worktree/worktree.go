// Package worktree is a thin git wrapper supplying the per-working-area
// status list the monitor consumes. Creation and removal of working areas
// belong to other tooling; this package only observes.
package worktree

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Status describes one working area of the repository.
type Status struct {
	Path           string
	Branch         string
	Commit         string
	IsMain         bool
	ModifiedFiles  int
	UntrackedFiles int
	Ahead          int
	Behind         int
}

// Dirty reports whether the area has uncommitted changes.
func (s Status) Dirty() bool {
	return s.ModifiedFiles > 0 || s.UntrackedFiles > 0
}

// StateText returns a short human-readable summary of the area's state.
func (s Status) StateText() string {
	switch {
	case s.Dirty():
		return fmt.Sprintf("Modified (%d files)", s.ModifiedFiles+s.UntrackedFiles)
	case s.Ahead > 0:
		return fmt.Sprintf("Ahead %d", s.Ahead)
	case s.Behind > 0:
		return fmt.Sprintf("Behind %d", s.Behind)
	default:
		return "Clean"
	}
}

// Provider supplies the working-area status list. The monitor treats it as
// an external collaborator and degrades to an empty list when it fails.
type Provider interface {
	Status() ([]Status, error)
}

// GitProvider lists working areas and their state by shelling out to git.
type GitProvider struct {
	repoRoot string
}

// NewGitProvider returns a provider rooted at the given repository.
func NewGitProvider(repoRoot string) *GitProvider {
	return &GitProvider{repoRoot: repoRoot}
}

// Status enumerates working areas via `git worktree list --porcelain` and
// enriches each with dirty counts and ahead/behind against its upstream.
// Per-area enrichment failures degrade to zero counts, not errors.
func (g *GitProvider) Status() ([]Status, error) {
	out, err := git(g.repoRoot, "worktree", "list", "--porcelain")
	if err != nil {
		return nil, fmt.Errorf("git worktree list: %w", err)
	}

	var statuses []Status
	for i, block := range strings.Split(strings.TrimSpace(out), "\n\n") {
		st := parseWorktreeBlock(block)
		if st.Path == "" {
			continue
		}
		st.IsMain = i == 0
		st.ModifiedFiles, st.UntrackedFiles = dirtyCounts(st.Path)
		st.Ahead, st.Behind = aheadBehind(st.Path)
		statuses = append(statuses, st)
	}
	return statuses, nil
}

// parseWorktreeBlock parses one porcelain block:
//
//	worktree /path
//	HEAD <sha>
//	branch refs/heads/name
func parseWorktreeBlock(block string) Status {
	var st Status
	for _, line := range strings.Split(block, "\n") {
		switch {
		case strings.HasPrefix(line, "worktree "):
			st.Path = strings.TrimPrefix(line, "worktree ")
		case strings.HasPrefix(line, "HEAD "):
			st.Commit = strings.TrimPrefix(line, "HEAD ")
		case strings.HasPrefix(line, "branch "):
			st.Branch = strings.TrimPrefix(strings.TrimPrefix(line, "branch "), "refs/heads/")
		}
	}
	return st
}

// dirtyCounts counts modified and untracked files from `git status --porcelain`.
func dirtyCounts(path string) (modified, untracked int) {
	out, err := git(path, "status", "--porcelain")
	if err != nil {
		return 0, 0
	}
	for _, line := range strings.Split(out, "\n") {
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "??") {
			untracked++
		} else {
			modified++
		}
	}
	return modified, untracked
}

// aheadBehind compares HEAD against its upstream. Areas without an upstream
// report 0/0.
func aheadBehind(path string) (ahead, behind int) {
	out, err := git(path, "rev-list", "--left-right", "--count", "HEAD...@{upstream}")
	if err != nil {
		return 0, 0
	}
	fields := strings.Fields(out)
	if len(fields) != 2 {
		return 0, 0
	}
	ahead, _ = strconv.Atoi(fields[0])
	behind, _ = strconv.Atoi(fields[1])
	return ahead, behind
}

// RepoRoot returns the top-level directory of the enclosing repository.
func RepoRoot() (string, error) {
	out, err := git("", "rev-parse", "--show-toplevel")
	if err != nil {
		return "", fmt.Errorf("not inside a git repository: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// CurrentBranch returns the checked-out branch of a working area, or "" for
// a detached HEAD.
func CurrentBranch(path string) string {
	out, err := git(path, "branch", "--show-current")
	if err != nil {
		return ""
	}
	return strings.TrimSpace(out)
}

// git runs a git subcommand, optionally in dir, returning stdout.
func git(dir string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	if dir != "" {
		cmd.Dir = dir
	}
	out, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return string(out), nil
}
