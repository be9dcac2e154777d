// Package controller enforces the task and list business rules on top of
// the DataStore and announces every change on an event publisher.
package controller

import (
	"errors"

	"github.com/tgienger/tasklist/internal/event"
	"github.com/tgienger/tasklist/internal/models"
	"github.com/tgienger/tasklist/internal/store"
)

var (
	ErrEmptyTitle        = errors.New("task title is required")
	ErrEmptyListName     = errors.New("list name is required")
	ErrDuplicateListName = errors.New("a list with that name already exists")
	ErrLastList          = errors.New("cannot delete the last list")
)

// Publisher receives change notifications. *event.Bus implements it.
type Publisher interface {
	Publish(event.Event)
}

type nopPublisher struct{}

func (nopPublisher) Publish(event.Event) {}

// TaskStore is the part of the DataStore the task controller uses
type TaskStore interface {
	AddTask(task models.Task) error
	UpdateTask(id string, fn func(*models.Task)) (*models.Task, error)
	RemoveTask(id string) (bool, error)
	RemoveTasksByListID(listID string) (int, error)
	GetTaskByID(id string) (models.Task, bool)
	GetAllTasks() []models.Task
	GetTasksDueToday() []models.Task
	GetFlaggedTasks() []models.Task
	GetTasksByListID(listID string) []models.Task
}

// ListStore is the part of the DataStore the list controller uses
type ListStore interface {
	AddList(list models.TaskList) error
	UpdateList(id string, fn func(*models.TaskList)) (*models.TaskList, error)
	RemoveList(id string) (bool, error)
	GetListByID(id string) (models.TaskList, bool)
	GetListByName(name string) (models.TaskList, bool)
	GetAllLists() []models.TaskList
	ListCount() int
}

var (
	_ TaskStore = (*store.DataStore)(nil)
	_ ListStore = (*store.DataStore)(nil)
	_ Publisher = (*event.Bus)(nil)
)

// applied reports whether a store call changed in-memory state, which is
// the case on success and when only the persistence write failed.
func applied(err error) bool {
	return err == nil || errors.Is(err, store.ErrNotPersisted)
}
