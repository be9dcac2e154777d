// Package event carries change notifications from the controllers to
// whoever renders tasks and lists, without either side importing the other.
package event

import (
	"time"

	"github.com/tgienger/tasklist/internal/models"
)

// Event type names published by the controllers
const (
	TypeTaskCreated = "task:created"
	TypeTaskUpdated = "task:updated"
	TypeTaskDeleted = "task:deleted"
	TypeListCreated = "list:created"
	TypeListUpdated = "list:updated"
	TypeListDeleted = "list:deleted"
)

// Event is implemented by everything published on a Bus
type Event interface {
	// EventType returns the "entity:action" name of the event
	EventType() string
	Timestamp() time.Time
}

type baseEvent struct {
	eventType string
	timestamp time.Time
}

func (e baseEvent) EventType() string    { return e.eventType }
func (e baseEvent) Timestamp() time.Time { return e.timestamp }

func newBaseEvent(eventType string) baseEvent {
	return baseEvent{eventType: eventType, timestamp: time.Now()}
}

// TaskCreatedEvent is published after a task is added
type TaskCreatedEvent struct {
	baseEvent
	Task models.Task
}

func NewTaskCreatedEvent(task models.Task) TaskCreatedEvent {
	return TaskCreatedEvent{baseEvent: newBaseEvent(TypeTaskCreated), Task: task}
}

// TaskUpdatedEvent is published after a task is edited, toggled or flagged
type TaskUpdatedEvent struct {
	baseEvent
	Task models.Task
}

func NewTaskUpdatedEvent(task models.Task) TaskUpdatedEvent {
	return TaskUpdatedEvent{baseEvent: newBaseEvent(TypeTaskUpdated), Task: task}
}

// TaskDeletedEvent is published after a single task is removed
type TaskDeletedEvent struct {
	baseEvent
	TaskID string
}

func NewTaskDeletedEvent(taskID string) TaskDeletedEvent {
	return TaskDeletedEvent{baseEvent: newBaseEvent(TypeTaskDeleted), TaskID: taskID}
}

// ListCreatedEvent is published after a list is added
type ListCreatedEvent struct {
	baseEvent
	List models.TaskList
}

func NewListCreatedEvent(list models.TaskList) ListCreatedEvent {
	return ListCreatedEvent{baseEvent: newBaseEvent(TypeListCreated), List: list}
}

// ListUpdatedEvent is published after a list is renamed or its icon changes
type ListUpdatedEvent struct {
	baseEvent
	List models.TaskList
}

func NewListUpdatedEvent(list models.TaskList) ListUpdatedEvent {
	return ListUpdatedEvent{baseEvent: newBaseEvent(TypeListUpdated), List: list}
}

// ListDeletedEvent is published after a list and its tasks are removed
type ListDeletedEvent struct {
	baseEvent
	ListID       string
	TasksRemoved int
}

func NewListDeletedEvent(listID string, tasksRemoved int) ListDeletedEvent {
	return ListDeletedEvent{baseEvent: newBaseEvent(TypeListDeleted), ListID: listID, TasksRemoved: tasksRemoved}
}
