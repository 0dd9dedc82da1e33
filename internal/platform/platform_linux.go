//go:build linux

package platform

import (
	"fmt"
	"os"
	"strings"
	"syscall"
)

// Compile-time interface check.
var _ Platform = (*linuxPlatform)(nil)

type linuxPlatform struct{}

func init() { P = &linuxPlatform{} }

// PIDExists checks for /proc/{pid}. A stat succeeds for zombies too, which
// is fine: a zombie still occupies the PID and must not be treated as free.
func (l *linuxPlatform) PIDExists(pid int) bool {
	if pid <= 0 {
		return false
	}
	_, err := os.Stat(fmt.Sprintf("/proc/%d", pid))
	return err == nil
}

// Cmdline reads /proc/{pid}/cmdline. The file is null-delimited; arguments
// are rejoined with spaces.
func (l *linuxPlatform) Cmdline(pid int) string {
	data, err := os.ReadFile(fmt.Sprintf("/proc/%d/cmdline", pid))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(strings.ReplaceAll(string(data), "\x00", " "))
}

// Cwd returns the current working directory of a process by reading the
// /proc/{pid}/cwd symlink.
func (l *linuxPlatform) Cwd(pid int) string {
	link, err := os.Readlink(fmt.Sprintf("/proc/%d/cwd", pid))
	if err != nil {
		return ""
	}
	return link
}

// Terminate sends SIGTERM. On linux os.FindProcess always succeeds, so the
// signal call is where a dead PID surfaces as ESRCH.
func (l *linuxPlatform) Terminate(pid int) error {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return err
	}
	return proc.Signal(syscall.SIGTERM)
}
