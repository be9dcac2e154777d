// Package filestore persists tasks and lists as JSON files guarded by a
// cross-process file lock.
package filestore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"go.uber.org/zap"

	"github.com/tgienger/tasklist/internal/models"
)

const (
	TasksFile = "tasks.json"
	ListsFile = "lists.json"
	lockFile  = ".tasklist.lock"
)

// Store keeps one JSON file per collection inside a directory
type Store struct {
	dir    string
	flk    *flock.Flock
	logger *zap.Logger
}

// New creates the directory if needed and returns a Store rooted there
func New(dir string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &Store{
		dir:    dir,
		flk:    flock.New(filepath.Join(dir, lockFile)),
		logger: logger,
	}, nil
}

// Dir returns the directory holding the collection files
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) GetTasks() ([]models.TaskRecord, error) {
	return readCollection[models.TaskRecord](s, TasksFile)
}

func (s *Store) SaveTasks(tasks []models.TaskRecord) error {
	return s.writeCollection(TasksFile, tasks)
}

func (s *Store) GetLists() ([]models.ListRecord, error) {
	return readCollection[models.ListRecord](s, ListsFile)
}

func (s *Store) SaveLists(lists []models.ListRecord) error {
	return s.writeCollection(ListsFile, lists)
}

// ClearAll removes both collection files
func (s *Store) ClearAll() error {
	if err := s.flk.Lock(); err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}
	defer func() { _ = s.flk.Unlock() }()

	for _, name := range []string{TasksFile, ListsFile} {
		err := os.Remove(filepath.Join(s.dir, name))
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}

// readCollection returns nil when the file is missing or does not hold a
// JSON array of records. The latter is logged.
func readCollection[T any](s *Store, name string) ([]T, error) {
	if err := s.flk.RLock(); err != nil {
		return nil, fmt.Errorf("failed to acquire read lock: %w", err)
	}
	defer func() { _ = s.flk.Unlock() }()

	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}

	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		s.logger.Warn("ignoring unreadable collection file",
			zap.String("file", name),
			zap.Error(err),
		)
		return nil, nil
	}
	return records, nil
}

// writeCollection writes to a temp file and renames it over the target so
// readers never see a partial file.
func (s *Store) writeCollection(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	if err := s.flk.Lock(); err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}
	defer func() { _ = s.flk.Unlock() }()

	path := filepath.Join(s.dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace %s: %w", name, err)
	}
	return nil
}
