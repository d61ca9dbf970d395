// Package storage persists a completed download run to disk. Collision
// avoidance happens at the directory level: a run claims a fresh directory
// and owns every file inside it, so pre-existing data from earlier runs is
// never overwritten.
package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/andrew-pyle/chronam/pkg/errors"
	"github.com/andrew-pyle/chronam/pkg/logger"
)

// Entry is one (output key, issue text) pair to persist
type Entry struct {
	Key  string
	Text string
}

// ReserveDirectory creates a directory for this run's output. If baseName
// is taken it tries "{baseName} (copy n)" for increasing n until a name is
// free, up to maxAttempts suffixes. The creation itself is the reservation:
// losing a race to a concurrent writer surfaces as a retry with the next n,
// never as a silent overwrite.
func ReserveDirectory(baseName string, maxAttempts int) (string, error) {
	for n := 0; n <= maxAttempts; n++ {
		name := baseName
		if n > 0 {
			name = fmt.Sprintf("%s (copy %d)", baseName, n)
		}

		err := os.Mkdir(name, 0755)
		if err == nil {
			return name, nil
		}
		if !os.IsExist(err) {
			return "", &errors.Error{
				Type:    errors.ErrorTypeDirectoryReservation,
				Message: err.Error(),
				URL:     name,
			}
		}
	}

	return "", errors.NewDirectoryReservation(baseName, maxAttempts)
}

// Manager writes assembled issues into a reserved directory
type Manager struct {
	dir    string
	logger logger.Logger
}

// NewManager creates a Manager over an existing directory, normally one
// just returned by ReserveDirectory.
func NewManager(dir string, log logger.Logger) (*Manager, error) {
	if log == nil {
		log = logger.GetLogger()
	}

	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("output directory not available: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("output path %q is not a directory", dir)
	}

	return &Manager{dir: dir, logger: log}, nil
}

// Dir returns the directory the manager writes into
func (m *Manager) Dir() string {
	return m.dir
}

// Persist writes one "<key>.txt" file per entry into the managed directory
// and returns the number of files written. Identically-named files inside
// this directory are overwritten; the directory itself was claimed fresh by
// ReserveDirectory. On a write failure the files already written stay on
// disk and the error carries the failing path.
func (m *Manager) Persist(entries []Entry) (int, error) {
	count := 0
	for _, entry := range entries {
		path := filepath.Join(m.dir, entry.Key+".txt")
		if err := os.WriteFile(path, []byte(entry.Text), 0644); err != nil {
			m.logger.ErrorWithFields("failed to write issue file", map[string]interface{}{
				"path":    path,
				"written": count,
				"error":   err.Error(),
			})
			return count, errors.NewFileWrite(path, err)
		}
		count++

		m.logger.DebugWithFields("issue file written", map[string]interface{}{
			"path": path,
			"size": len(entry.Text),
		})
	}

	return count, nil
}
