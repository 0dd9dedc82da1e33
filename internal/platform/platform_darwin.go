//go:build darwin

package platform

import (
	"os"
	"os/exec"
	"strconv"
	"strings"
	"syscall"
)

// Compile-time interface check.
var _ Platform = (*darwinPlatform)(nil)

type darwinPlatform struct{}

func init() { P = &darwinPlatform{} }

// PIDExists runs `ps -o pid= -p PID` and reports whether ps found the process.
func (d *darwinPlatform) PIDExists(pid int) bool {
	if pid <= 0 {
		return false
	}
	out, err := exec.Command("ps", "-o", "pid=", "-p", strconv.Itoa(pid)).Output()
	if err != nil {
		return false
	}
	return strings.TrimSpace(string(out)) != ""
}

// Cmdline runs `ps -o command= -p PID` and returns the full command line.
func (d *darwinPlatform) Cmdline(pid int) string {
	out, err := exec.Command("ps", "-o", "command=", "-p", strconv.Itoa(pid)).Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}

// Cwd runs `lsof -a -p PID -d cwd -Fn` and returns the working directory.
func (d *darwinPlatform) Cwd(pid int) string {
	out, err := exec.Command("lsof", "-a", "-p", strconv.Itoa(pid), "-d", "cwd", "-Fn").Output()
	if err != nil {
		return ""
	}
	// lsof -Fn outputs lines prefixed with a field character; "n" lines
	// contain the file name.
	for _, line := range strings.Split(string(out), "\n") {
		if strings.HasPrefix(line, "n/") {
			return line[1:]
		}
	}
	return ""
}

// Terminate sends SIGTERM.
func (d *darwinPlatform) Terminate(pid int) error {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return err
	}
	return proc.Signal(syscall.SIGTERM)
}
