package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Coxless/wtenv/internal/lockfile"
	"github.com/Coxless/wtenv/internal/platform"
)

// killGrace is how long Kill waits after signalling before re-checking
// liveness for reporting. Termination is not guaranteed; the next read
// self-corrects if the process survived.
const killGrace = 150 * time.Millisecond

// Store binds a registry file path to a platform. Every operation reloads
// from disk; no state is carried between calls, so concurrent wtenv
// invocations always act on persisted truth.
type Store struct {
	path  string
	plat  platform.Platform
	grace time.Duration
}

// NewStore returns a store for the registry file at path.
func NewStore(path string) *Store {
	return &Store{path: path, plat: platform.Default(), grace: killGrace}
}

// NewStoreWithPlatform returns a store with an injected platform. Used by tests.
func NewStoreWithPlatform(path string, plat platform.Platform) *Store {
	return &Store{path: path, plat: plat, grace: 0}
}

// Path returns the registry file path.
func (s *Store) Path() string { return s.path }

// Register upserts a record keyed by PID and persists immediately. The
// working-area path is recorded as given, whether or not it exists.
func (s *Store) Register(rec Record) error {
	reg, err := Load(s.path)
	if err != nil {
		return fmt.Errorf("load registry: %w", err)
	}
	reg.Upsert(rec)
	return s.save(reg)
}

// List returns all records matching the optional filter, after pruning dead
// entries. The file is rewritten only when pruning removed something, which
// keeps repeated listings idempotent.
func (s *Store) List(filter string) ([]Record, error) {
	reg, err := Load(s.path)
	if err != nil {
		return nil, fmt.Errorf("load registry: %w", err)
	}
	if reg.Prune(s.plat) > 0 {
		if err := s.save(reg); err != nil {
			return nil, err
		}
	}
	return reg.Filter(filter), nil
}

// KillTarget selects which registry entries Kill acts on: a literal PID, a
// filter string (working area, branch, or command substring), or everything.
type KillTarget struct {
	PID    int
	Filter string
	All    bool
}

// KillResult reports the outcome for one entry.
type KillResult struct {
	Record     Record
	SignalErr  error // error from issuing the termination request
	Terminated bool  // process gone after the grace wait (best effort)
}

// Kill sends a termination request to every live matching entry and reports
// per-entry outcomes. Entries are removed from the persisted registry once
// the request has been issued, whether or not the process died in time: the
// next liveness check self-corrects if it survived.
func (s *Store) Kill(target KillTarget) ([]KillResult, error) {
	reg, err := Load(s.path)
	if err != nil {
		return nil, fmt.Errorf("load registry: %w", err)
	}
	reg.Prune(s.plat)

	var selected []Record
	for _, r := range reg.Records {
		switch {
		case target.All:
			selected = append(selected, r)
		case target.PID != 0 && r.PID == target.PID:
			selected = append(selected, r)
		case target.PID == 0 && target.Filter != "" && r.Matches(target.Filter):
			selected = append(selected, r)
		}
	}

	results := make([]KillResult, 0, len(selected))
	for _, r := range selected {
		res := KillResult{Record: r}
		res.SignalErr = s.plat.Terminate(r.PID)
		reg.Remove(r.PID)
		results = append(results, res)
	}

	if len(results) > 0 && s.grace > 0 {
		time.Sleep(s.grace)
	}
	for i := range results {
		results[i].Terminated = !s.plat.PIDExists(results[i].Record.PID)
	}

	if err := s.save(reg); err != nil {
		return results, err
	}
	return results, nil
}

// save writes the registry atomically (temp file + rename) under an advisory
// lock, so two wtenv processes cannot interleave partial writes.
func (s *Store) save(reg *Registry) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create registry directory: %w", err)
	}

	lock := lockfile.NewWithPlatform(s.path+".lock", s.plat)
	if err := lock.TryAcquire(); err != nil {
		return fmt.Errorf("lock registry: %w", err)
	}
	defer lock.Release()

	data, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return fmt.Errorf("encode registry: %w", err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(dir, ".processes-*.json")
	if err != nil {
		return fmt.Errorf("create temp registry file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write registry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close registry file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace registry file: %w", err)
	}
	return nil
}
