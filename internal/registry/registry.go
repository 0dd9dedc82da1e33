// Package registry persists the processes wtenv has spawned on behalf of
// working areas and revalidates them against the live OS process table.
//
// The persisted file is advisory: independent wtenv processes append to it
// and PIDs get reused by the OS, so every read re-checks liveness and prunes
// dead entries before anything is surfaced as "running".
package registry

import (
	"encoding/json"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Coxless/wtenv/internal/platform"
)

// Record describes one external process spawned inside a working area.
// Unknown fields in the persisted file are ignored on read by construction.
type Record struct {
	PID         int       `json:"pid"`
	Command     string    `json:"command"`
	Branch      string    `json:"branch,omitempty"`
	WorkingArea string    `json:"working_area"`
	StartedAt   time.Time `json:"started_at"`
	Cwd         string    `json:"cwd,omitempty"`
}

// Uptime returns the time elapsed since the process was registered.
func (r Record) Uptime() time.Duration {
	return time.Since(r.StartedAt)
}

// Matches reports whether the record matches a filter string: a literal PID,
// or a substring of the working-area path, the branch, or the command.
func (r Record) Matches(filter string) bool {
	if filter == "" {
		return true
	}
	if pid, err := strconv.Atoi(filter); err == nil && pid == r.PID {
		return true
	}
	return strings.Contains(r.WorkingArea, filter) ||
		strings.Contains(r.Branch, filter) ||
		strings.Contains(r.Command, filter)
}

// Alive reports whether the record still refers to a running process. The
// PID must exist, and when the live command line is readable it must still
// contain the recorded command's binary name, so a reused PID running
// something unrelated is not mistaken for ours. An unreadable command line
// never fails the check.
func (r Record) Alive(plat platform.Platform) bool {
	if !plat.PIDExists(r.PID) {
		return false
	}
	live := plat.Cmdline(r.PID)
	fields := strings.Fields(r.Command)
	if live == "" || len(fields) == 0 {
		return true
	}
	argv0 := fields[0]
	if i := strings.LastIndexByte(argv0, '/'); i >= 0 {
		argv0 = argv0[i+1:]
	}
	if argv0 == "" {
		return true
	}
	return strings.Contains(live, argv0)
}

// Registry is the persisted set of records, keyed by PID.
type Registry struct {
	Records []Record `json:"processes"`
}

// Load reads a registry file. A missing file is an empty registry; a
// malformed file degrades to an empty registry with a warning, so a writer
// replacing the file mid-read cannot take the monitor down.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Registry{}, nil
		}
		return &Registry{}, err
	}

	var reg Registry
	if err := json.Unmarshal(data, &reg); err != nil {
		log.Warn("registry file is malformed, treating as empty", "path", path, "err", err)
		return &Registry{}, nil
	}
	return &reg, nil
}

// Upsert adds a record, replacing any existing record with the same PID.
func (reg *Registry) Upsert(rec Record) {
	for i, r := range reg.Records {
		if r.PID == rec.PID {
			reg.Records[i] = rec
			return
		}
	}
	reg.Records = append(reg.Records, rec)
}

// Remove deletes the record with the given PID and reports whether one existed.
func (reg *Registry) Remove(pid int) bool {
	for i, r := range reg.Records {
		if r.PID == pid {
			reg.Records = append(reg.Records[:i], reg.Records[i+1:]...)
			return true
		}
	}
	return false
}

// Prune drops every record that no longer refers to a live process and
// returns how many were dropped. Dead entries are never surfaced to callers.
func (reg *Registry) Prune(plat platform.Platform) int {
	kept := reg.Records[:0]
	pruned := 0
	for _, r := range reg.Records {
		if r.Alive(plat) {
			kept = append(kept, r)
		} else {
			pruned++
			log.Debug("pruning dead registry entry", "pid", r.PID, "command", r.Command)
		}
	}
	reg.Records = kept
	return pruned
}

// Filter returns the records matching the filter string. An empty filter
// matches everything. The returned slice is a copy.
func (reg *Registry) Filter(filter string) []Record {
	var out []Record
	for _, r := range reg.Records {
		if r.Matches(filter) {
			out = append(out, r)
		}
	}
	return out
}
