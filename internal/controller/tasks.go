package controller

import (
	"errors"
	"strings"
	"time"

	"github.com/tgienger/tasklist/internal/event"
	"github.com/tgienger/tasklist/internal/models"
	"github.com/tgienger/tasklist/internal/store"
)

// TaskInput holds the user-editable fields of a task.
// Zero values mean "not provided" and fall back to the task defaults.
type TaskInput struct {
	Title    string
	DueDate  *time.Time
	ListID   string // empty resolves to the default list
	Notes    string
	Flagged  bool
	Priority models.Priority
}

// DefaultListResolver supplies the list for tasks created without one
type DefaultListResolver interface {
	DefaultListID() (string, error)
}

// TaskController owns the task rules
type TaskController struct {
	store TaskStore
	lists DefaultListResolver
	pub   Publisher
}

// NewTaskController creates a task controller. pub may be nil.
func NewTaskController(s TaskStore, lists DefaultListResolver, pub Publisher) *TaskController {
	if pub == nil {
		pub = nopPublisher{}
	}
	return &TaskController{store: s, lists: lists, pub: pub}
}

// CreateTask adds a task, placing it in the default list when in.ListID is empty
func (c *TaskController) CreateTask(in TaskInput) (*models.Task, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, ErrEmptyTitle
	}

	listID, listErr := c.resolveListID(in.ListID)
	if !applied(listErr) {
		return nil, listErr
	}

	task := models.NewTask(models.NewTaskID(), title, in.DueDate, listID).
		SetNotes(in.Notes).
		SetFlagged(in.Flagged).
		SetPriority(priorityOrDefault(in.Priority))

	err := c.store.AddTask(*task)
	if applied(err) {
		c.pub.Publish(event.NewTaskCreatedEvent(*task))
	}
	return task, errors.Join(listErr, err)
}

// UpdateTask overwrites every editable field of a task from in
func (c *TaskController) UpdateTask(id string, in TaskInput) (*models.Task, error) {
	if _, ok := c.store.GetTaskByID(id); !ok {
		return nil, store.ErrTaskNotFound
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, ErrEmptyTitle
	}

	listID, listErr := c.resolveListID(in.ListID)
	if !applied(listErr) {
		return nil, listErr
	}

	task, err := c.store.UpdateTask(id, func(t *models.Task) {
		t.SetTitle(title).
			SetDueDate(in.DueDate).
			SetListID(listID).
			SetNotes(in.Notes).
			SetFlagged(in.Flagged).
			SetPriority(priorityOrDefault(in.Priority))
	})
	if task != nil && applied(err) {
		c.pub.Publish(event.NewTaskUpdatedEvent(*task))
	}
	return task, errors.Join(listErr, err)
}

// DeleteTask removes a task, reporting false when it does not exist
func (c *TaskController) DeleteTask(id string) (bool, error) {
	removed, err := c.store.RemoveTask(id)
	if removed {
		c.pub.Publish(event.NewTaskDeletedEvent(id))
	}
	return removed, err
}

// ToggleTaskCompletion flips a task between done and not done
func (c *TaskController) ToggleTaskCompletion(id string) (*models.Task, error) {
	return c.mutate(id, (*models.Task).ToggleComplete)
}

// ToggleTaskFlag flips the flag on a task
func (c *TaskController) ToggleTaskFlag(id string) (*models.Task, error) {
	return c.mutate(id, func(t *models.Task) *models.Task {
		return t.SetFlagged(!t.Flagged)
	})
}

func (c *TaskController) mutate(id string, fn func(*models.Task) *models.Task) (*models.Task, error) {
	task, err := c.store.UpdateTask(id, func(t *models.Task) { fn(t) })
	if task != nil && applied(err) {
		c.pub.Publish(event.NewTaskUpdatedEvent(*task))
	}
	return task, err
}

// DeleteTasksByListID removes every task in a list. Its signature matches
// CascadeFunc so it can be passed straight to ListController.DeleteList.
func (c *TaskController) DeleteTasksByListID(listID string) (int, error) {
	return c.store.RemoveTasksByListID(listID)
}

func (c *TaskController) GetTaskByID(id string) (models.Task, bool) {
	return c.store.GetTaskByID(id)
}

func (c *TaskController) GetAllTasks() []models.Task {
	return c.store.GetAllTasks()
}

func (c *TaskController) GetTasksDueToday() []models.Task {
	return c.store.GetTasksDueToday()
}

func (c *TaskController) GetFlaggedTasks() []models.Task {
	return c.store.GetFlaggedTasks()
}

func (c *TaskController) GetTasksByListID(listID string) []models.Task {
	return c.store.GetTasksByListID(listID)
}

func (c *TaskController) resolveListID(listID string) (string, error) {
	if listID != "" {
		return listID, nil
	}
	return c.lists.DefaultListID()
}

func priorityOrDefault(p models.Priority) models.Priority {
	if p == "" {
		return models.PriorityNormal
	}
	return p
}
