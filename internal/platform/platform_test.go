package platform

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSeesOwnProcess(t *testing.T) {
	plat := Default()
	require.NotNil(t, plat)

	pid := os.Getpid()
	assert.True(t, plat.PIDExists(pid))
	assert.False(t, plat.PIDExists(1<<22+7), "an absurd pid is not running")
}

func TestCmdlineOfOwnProcess(t *testing.T) {
	line := Default().Cmdline(os.Getpid())
	assert.NotEmpty(t, line)
}
