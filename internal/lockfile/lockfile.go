// Package lockfile provides a small advisory file lock used to serialize
// registry writes between independent wtenv processes.
package lockfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Coxless/wtenv/internal/platform"
)

// ErrLocked is returned when another live process holds the lock.
var ErrLocked = errors.New("lock held by another process")

// Lockfile is a file-based advisory lock. The file contains the owning PID
// and an acquisition timestamp; a lock whose owner is no longer in the
// process table is stale and may be taken over.
type Lockfile struct {
	path   string
	plat   platform.Platform
	locked bool
}

// New returns a lock at path using the default platform for staleness checks.
func New(path string) *Lockfile {
	return &Lockfile{path: path, plat: platform.Default()}
}

// NewWithPlatform returns a lock using the given platform. Used by tests.
func NewWithPlatform(path string, plat platform.Platform) *Lockfile {
	return &Lockfile{path: path, plat: plat}
}

// TryAcquire attempts to take the lock without blocking. A stale lockfile
// (owner PID gone, or unreadable content) is removed and retried once.
func (l *Lockfile) TryAcquire() error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("create lock directory: %w", err)
	}

	if err := l.create(); err == nil {
		return nil
	} else if !os.IsExist(err) {
		return fmt.Errorf("create lockfile: %w", err)
	}

	stale, owner := l.isStale()
	if !stale {
		return fmt.Errorf("%w (pid %d)", ErrLocked, owner)
	}

	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove stale lockfile: %w", err)
	}
	if err := l.create(); err != nil {
		if os.IsExist(err) {
			return ErrLocked
		}
		return fmt.Errorf("create lockfile after stale takeover: %w", err)
	}
	return nil
}

// create writes the lockfile exclusively with this process's PID.
func (l *Lockfile) create() error {
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	content := fmt.Sprintf("%d\n%s\n", os.Getpid(), time.Now().Format(time.RFC3339))
	if _, err := f.WriteString(content); err != nil {
		os.Remove(l.path)
		return fmt.Errorf("write lockfile: %w", err)
	}
	l.locked = true
	return nil
}

// isStale reports whether the existing lockfile belongs to a dead process.
// Unreadable or malformed content counts as stale.
func (l *Lockfile) isStale() (bool, int) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return true, 0
	}
	lines := strings.SplitN(strings.TrimSpace(string(data)), "\n", 2)
	pid, err := strconv.Atoi(strings.TrimSpace(lines[0]))
	if err != nil || pid <= 0 {
		return true, 0
	}
	return !l.plat.PIDExists(pid), pid
}

// Release removes the lockfile if this instance holds it.
func (l *Lockfile) Release() error {
	if !l.locked {
		return nil
	}
	l.locked = false
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove lockfile: %w", err)
	}
	return nil
}
