package worktree

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseWorktreeBlock(t *testing.T) {
	block := "worktree /repo/.worktrees/feature-a\nHEAD 0123456789abcdef\nbranch refs/heads/feature-a"

	st := parseWorktreeBlock(block)
	assert.Equal(t, "/repo/.worktrees/feature-a", st.Path)
	assert.Equal(t, "0123456789abcdef", st.Commit)
	assert.Equal(t, "feature-a", st.Branch)
}

func TestParseWorktreeBlockDetachedHead(t *testing.T) {
	block := "worktree /repo\nHEAD 0123456789abcdef\ndetached"

	st := parseWorktreeBlock(block)
	assert.Equal(t, "/repo", st.Path)
	assert.Empty(t, st.Branch)
}

func TestParseWorktreeBlockEmpty(t *testing.T) {
	st := parseWorktreeBlock("")
	assert.Empty(t, st.Path)
}

func TestDirty(t *testing.T) {
	assert.False(t, Status{}.Dirty())
	assert.True(t, Status{ModifiedFiles: 1}.Dirty())
	assert.True(t, Status{UntrackedFiles: 2}.Dirty())
}

func TestStateText(t *testing.T) {
	assert.Equal(t, "Clean", Status{}.StateText())
	assert.Equal(t, "Modified (3 files)", Status{ModifiedFiles: 2, UntrackedFiles: 1}.StateText())
	assert.Equal(t, "Ahead 2", Status{Ahead: 2}.StateText())
	assert.Equal(t, "Behind 1", Status{Behind: 1}.StateText())
	assert.Equal(t, "Modified (1 files)", Status{ModifiedFiles: 1, Ahead: 4}.StateText(),
		"dirtiness outranks divergence")
}
