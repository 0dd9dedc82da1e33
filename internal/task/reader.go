package task

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// ReadSession reads one session log and returns its valid events in file
// order plus the number of skipped lines. Each line is parsed independently:
// a corrupted or truncated line is warned about and skipped, never allowed
// to invalidate the rest of the file. Zero valid events is an empty result,
// not an error.
func ReadSession(path string) ([]Event, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	var events []Event
	skipped := 0
	lineNum := 0

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 256*1024), 1024*1024)
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		var ev Event
		if err := json.Unmarshal([]byte(line), &ev); err != nil {
			skipped++
			log.Warn("skipping invalid session log line", "path", path, "line", lineNum, "err", err)
			continue
		}
		if !ev.valid() {
			skipped++
			log.Warn("skipping incomplete session log line", "path", path, "line", lineNum)
			continue
		}
		events = append(events, ev)
	}
	if err := scanner.Err(); err != nil {
		// Partial reads still count: return what was parsed.
		log.Warn("session log read stopped early", "path", path, "err", err)
	}

	if skipped > 0 {
		log.Warn("session log had unparseable lines", "path", path, "skipped", skipped, "loaded", len(events))
	}
	return events, skipped, nil
}

// ListSessions returns the session log files in dir, one per session. A
// missing directory means no sessions, not an error.
func ListSessions(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".jsonl") {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	return paths, nil
}

// DefaultLogDir is the shared session log location written by the Claude
// Code hook, common to all repositories.
func DefaultLogDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".claude", "task-progress")
	}
	return filepath.Join(home, ".claude", "task-progress")
}
