// Package store holds the in-memory task and list collections and keeps
// them synchronized with a persistence Gateway.
package store

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/tgienger/tasklist/internal/models"
)

var (
	ErrTaskNotFound = errors.New("task not found")
	ErrListNotFound = errors.New("list not found")

	// ErrNotPersisted wraps gateway write failures. The in-memory change
	// it reports has already been applied.
	ErrNotPersisted = errors.New("change applied in memory but not persisted")
)

// DataStore is the single owner of the task and list collections.
// It is safe for concurrent use; every method holds the store lock for
// its whole find, mutate and persist sequence.
type DataStore struct {
	mu      sync.Mutex
	gateway Gateway
	logger  *zap.Logger
	now     func() time.Time

	tasks []models.Task
	lists []models.TaskList
}

// Option configures a DataStore
type Option func(*DataStore)

// WithClock replaces time.Now for the Today filter and sample data
func WithClock(now func() time.Time) Option {
	return func(s *DataStore) {
		s.now = now
	}
}

// New creates a DataStore and loads both collections from the gateway
func New(gateway Gateway, logger *zap.Logger, opts ...Option) (*DataStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &DataStore{
		gateway: gateway,
		logger:  logger,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.LoadAll(); err != nil {
		return nil, err
	}
	return s, nil
}

// LoadAll replaces the in-memory collections with the persisted ones
func (s *DataStore) LoadAll() error {
	taskRecords, err := s.gateway.GetTasks()
	if err != nil {
		return fmt.Errorf("failed to load tasks: %w", err)
	}
	listRecords, err := s.gateway.GetLists()
	if err != nil {
		return fmt.Errorf("failed to load lists: %w", err)
	}

	tasks := make([]models.Task, 0, len(taskRecords))
	for _, r := range taskRecords {
		tasks = append(tasks, models.TaskFromRecord(r))
	}
	lists := make([]models.TaskList, 0, len(listRecords))
	for _, r := range listRecords {
		lists = append(lists, models.ListFromRecord(r))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = tasks
	s.lists = lists

	s.logger.Debug("loaded collections", zap.Int("tasks", len(tasks)), zap.Int("lists", len(lists)))
	return nil
}

// -----------------------------------------------------------------------------
// Persistence
// -----------------------------------------------------------------------------

func (s *DataStore) persistTasks() error {
	records := make([]models.TaskRecord, len(s.tasks))
	for i, t := range s.tasks {
		records[i] = t.Record()
	}
	if err := s.gateway.SaveTasks(records); err != nil {
		s.logger.Error("failed to save tasks", zap.Int("count", len(records)), zap.Error(err))
		return fmt.Errorf("%w: %w", ErrNotPersisted, err)
	}
	return nil
}

func (s *DataStore) persistLists() error {
	records := make([]models.ListRecord, len(s.lists))
	for i, l := range s.lists {
		records[i] = l.Record()
	}
	if err := s.gateway.SaveLists(records); err != nil {
		s.logger.Error("failed to save lists", zap.Int("count", len(records)), zap.Error(err))
		return fmt.Errorf("%w: %w", ErrNotPersisted, err)
	}
	return nil
}

// -----------------------------------------------------------------------------
// Tasks
// -----------------------------------------------------------------------------

// AddTask appends a task and persists the task collection
func (s *DataStore) AddTask(task models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks = append(s.tasks, task.Clone())
	return s.persistTasks()
}

// SaveTask replaces the stored task with the same ID and persists.
// A task that is not in the collection is not written.
func (s *DataStore) SaveTask(task models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.taskIndex(task.ID)
	if i < 0 {
		return ErrTaskNotFound
	}
	s.tasks[i] = task.Clone()
	return s.persistTasks()
}

// UpdateTask applies fn to the stored task and persists the result.
// The returned task reflects the change even when err wraps ErrNotPersisted.
func (s *DataStore) UpdateTask(id string, fn func(*models.Task)) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.taskIndex(id)
	if i < 0 {
		return nil, ErrTaskNotFound
	}
	fn(&s.tasks[i])
	s.tasks[i] = s.tasks[i].Clone()

	updated := s.tasks[i].Clone()
	return &updated, s.persistTasks()
}

// RemoveTask removes the task with the given ID.
// It reports false, without writing, when no such task exists.
func (s *DataStore) RemoveTask(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.taskIndex(id)
	if i < 0 {
		return false, nil
	}
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	return true, s.persistTasks()
}

// RemoveTasksByListID removes every task in a list and returns how many
// were removed. The collection is written once, and only if it changed.
func (s *DataStore) RemoveTasksByListID(listID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.tasks[:0]
	for _, t := range s.tasks {
		if t.ListID != listID {
			kept = append(kept, t)
		}
	}
	removed := len(s.tasks) - len(kept)
	clear(s.tasks[len(kept):])
	s.tasks = kept

	if removed == 0 {
		return 0, nil
	}
	return removed, s.persistTasks()
}

func (s *DataStore) taskIndex(id string) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// GetTaskByID returns a copy of the task with the given ID
func (s *DataStore) GetTaskByID(id string) (models.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.taskIndex(id)
	if i < 0 {
		return models.Task{}, false
	}
	return s.tasks[i].Clone(), true
}

// GetAllTasks returns every task in insertion order
func (s *DataStore) GetAllTasks() []models.Task {
	return s.filterTasks(func(models.Task) bool { return true })
}

// GetTasksDueToday returns tasks due within the current local calendar day,
// both ends inclusive
func (s *DataStore) GetTasksDueToday() []models.Task {
	start, end := dayBounds(s.now())
	return s.filterTasks(func(t models.Task) bool {
		return t.DueBetween(start, end)
	})
}

// GetFlaggedTasks returns flagged tasks
func (s *DataStore) GetFlaggedTasks() []models.Task {
	return s.filterTasks(func(t models.Task) bool { return t.Flagged })
}

// GetTasksByListID returns the tasks belonging to a list
func (s *DataStore) GetTasksByListID(listID string) []models.Task {
	return s.filterTasks(func(t models.Task) bool { return t.ListID == listID })
}

func (s *DataStore) filterTasks(keep func(models.Task) bool) []models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks := make([]models.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if keep(t) {
			tasks = append(tasks, t.Clone())
		}
	}
	return tasks
}

// dayBounds returns the first and last instant of now's local calendar day
func dayBounds(now time.Time) (time.Time, time.Time) {
	now = now.Local()
	y, m, d := now.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, time.Local)
	end := time.Date(y, m, d, 23, 59, 59, 999999999, time.Local)
	return start, end
}

// -----------------------------------------------------------------------------
// Lists
// -----------------------------------------------------------------------------

// AddList appends a list and persists the list collection
func (s *DataStore) AddList(list models.TaskList) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lists = append(s.lists, list)
	return s.persistLists()
}

// SaveList replaces the stored list with the same ID and persists.
func (s *DataStore) SaveList(list models.TaskList) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.listIndex(list.ID)
	if i < 0 {
		return ErrListNotFound
	}
	s.lists[i] = list
	return s.persistLists()
}

// UpdateList applies fn to the stored list and persists the result.
func (s *DataStore) UpdateList(id string, fn func(*models.TaskList)) (*models.TaskList, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.listIndex(id)
	if i < 0 {
		return nil, ErrListNotFound
	}
	fn(&s.lists[i])

	updated := s.lists[i]
	return &updated, s.persistLists()
}

// RemoveList removes the list with the given ID. Tasks in the list are
// left alone; cascading is the caller's job.
func (s *DataStore) RemoveList(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.listIndex(id)
	if i < 0 {
		return false, nil
	}
	s.lists = append(s.lists[:i], s.lists[i+1:]...)
	return true, s.persistLists()
}

func (s *DataStore) listIndex(id string) int {
	for i := range s.lists {
		if s.lists[i].ID == id {
			return i
		}
	}
	return -1
}

// GetListByID returns the list with the given ID
func (s *DataStore) GetListByID(id string) (models.TaskList, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.listIndex(id)
	if i < 0 {
		return models.TaskList{}, false
	}
	return s.lists[i], true
}

// GetListByName returns the first list whose name matches, ignoring case
func (s *DataStore) GetListByName(name string) (models.TaskList, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, l := range s.lists {
		if strings.EqualFold(l.Name, name) {
			return l, true
		}
	}
	return models.TaskList{}, false
}

// GetAllLists returns every list in insertion order
func (s *DataStore) GetAllLists() []models.TaskList {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.TaskList{}, s.lists...)
}

// ListCount returns the number of lists
func (s *DataStore) ListCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.lists)
}

// -----------------------------------------------------------------------------
// Bootstrap
// -----------------------------------------------------------------------------

// InitializeWithSampleDataIfNeeded seeds an empty store with the default
// list and two example tasks. It reports whether anything was added.
func (s *DataStore) InitializeWithSampleDataIfNeeded() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.lists) > 0 {
		return false, nil
	}

	list := *models.NewDefaultList()
	now := s.now()
	tomorrow := now.Add(24 * time.Hour)

	s.lists = append(s.lists, list)
	s.tasks = append(s.tasks,
		*models.NewTask(models.NewTaskID(), "Buy groceries", &tomorrow, list.ID),
		*models.NewTask(models.NewTaskID(), "Call mom", &now, list.ID),
	)
	s.logger.Info("seeded sample data", zap.String("list_id", list.ID))

	return true, errors.Join(s.persistLists(), s.persistTasks())
}

// ClearAll erases both persisted collections and empties the store
func (s *DataStore) ClearAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.gateway.ClearAll(); err != nil {
		return fmt.Errorf("failed to clear storage: %w", err)
	}
	s.tasks = nil
	s.lists = nil
	return nil
}
