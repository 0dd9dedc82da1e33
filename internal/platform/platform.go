package platform

// Platform abstracts OS-specific process-table introspection. The registry
// uses it to revalidate persisted PIDs against live processes, so every
// method must tolerate the process disappearing between calls.
type Platform interface {
	// PIDExists reports whether a process with the given PID is present
	// in the OS process table.
	PIDExists(pid int) bool
	// Cmdline returns the full command line of a process, or "" when it
	// cannot be read (process gone, permissions, platform limitation).
	Cmdline(pid int) string
	// Cwd returns the current working directory of a process, or "".
	Cwd(pid int) string
	// Terminate sends a termination request (SIGTERM) to a process.
	Terminate(pid int) error
}

// P is the platform-specific implementation, initialised by an init() in
// the platform_linux.go or platform_darwin.go file.
var P Platform

// Default returns the platform implementation for the current OS.
func Default() Platform { return P }
