package db

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/tgienger/tasklist/internal/models"
)

const (
	tasksCollection = "tasks"
	listsCollection = "lists"
)

// GetTasks returns the stored task records, or nil when none were saved
func (db *DB) GetTasks() ([]models.TaskRecord, error) {
	return load[models.TaskRecord](db, tasksCollection)
}

// SaveTasks replaces the stored task records
func (db *DB) SaveTasks(tasks []models.TaskRecord) error {
	return db.save(tasksCollection, tasks)
}

// GetLists returns the stored list records, or nil when none were saved
func (db *DB) GetLists() ([]models.ListRecord, error) {
	return load[models.ListRecord](db, listsCollection)
}

// SaveLists replaces the stored list records
func (db *DB) SaveLists(lists []models.ListRecord) error {
	return db.save(listsCollection, lists)
}

// ClearAll deletes both collections. Settings are kept.
func (db *DB) ClearAll() error {
	_, err := db.Exec("DELETE FROM collections WHERE name IN (?, ?)", tasksCollection, listsCollection)
	return err
}

// load decodes the named collection. A missing row yields nil, and so
// does a row that is not a valid JSON array of records, which is logged.
func load[T any](db *DB, name string) ([]T, error) {
	var data string
	err := db.QueryRow("SELECT data FROM collections WHERE name = ?", name).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}

	var records []T
	if err := json.Unmarshal([]byte(data), &records); err != nil {
		db.logger.Warn("ignoring unreadable collection",
			zap.String("collection", name),
			zap.Error(err),
		)
		return nil, nil
	}
	return records, nil
}

func (db *DB) save(name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = db.Exec(`
		INSERT INTO collections (name, data) VALUES (?, ?)
		ON CONFLICT(name) DO UPDATE SET data = excluded.data, updated_at = CURRENT_TIMESTAMP
	`, name, string(data))
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}
