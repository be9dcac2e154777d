package models

import (
	"strings"
	"time"
)

// Priority is the urgency of a task
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
)

// Priorities returns the valid priorities from lowest to highest
func Priorities() []Priority {
	return []Priority{PriorityLow, PriorityNormal, PriorityHigh}
}

// ParsePriority matches s case-insensitively against the known priorities.
func ParsePriority(s string) (Priority, bool) {
	for _, p := range Priorities() {
		if strings.EqualFold(strings.TrimSpace(s), string(p)) {
			return p, true
		}
	}
	return "", false
}

// Task represents a single to-do item
type Task struct {
	ID        string
	Title     string
	DueDate   *time.Time // nil when the task has no due date
	ListID    string
	Notes     string
	Flagged   bool
	Priority  Priority
	Completed bool
}

// NewTask creates a task with default notes, flag, priority and completion state
func NewTask(id, title string, dueDate *time.Time, listID string) *Task {
	return &Task{
		ID:       id,
		Title:    title,
		DueDate:  dueDate,
		ListID:   listID,
		Priority: PriorityNormal,
	}
}

func (t *Task) SetTitle(title string) *Task {
	t.Title = title
	return t
}

func (t *Task) SetDueDate(dueDate *time.Time) *Task {
	t.DueDate = dueDate
	return t
}

func (t *Task) SetListID(listID string) *Task {
	t.ListID = listID
	return t
}

func (t *Task) SetNotes(notes string) *Task {
	t.Notes = notes
	return t
}

func (t *Task) SetFlagged(flagged bool) *Task {
	t.Flagged = flagged
	return t
}

func (t *Task) SetPriority(priority Priority) *Task {
	t.Priority = priority
	return t
}

// ToggleComplete flips the completion state
func (t *Task) ToggleComplete() *Task {
	t.Completed = !t.Completed
	return t
}

// Clone returns a copy that shares no memory with t
func (t Task) Clone() Task {
	if t.DueDate != nil {
		due := *t.DueDate
		t.DueDate = &due
	}
	return t
}

// DueBetween reports whether the task is due within [start, end]
func (t Task) DueBetween(start, end time.Time) bool {
	if t.DueDate == nil {
		return false
	}
	return !t.DueDate.Before(start) && !t.DueDate.After(end)
}

// TaskRecord is the serialized form of a Task
type TaskRecord struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	DueDate   *Timestamp `json:"dueDate"`
	ListID    string     `json:"listId"`
	Notes     string     `json:"notes"`
	Flagged   bool       `json:"flagged"`
	Priority  string     `json:"priority"`
	Completed bool       `json:"completed"`
}

// Record converts the task to its serialized form
func (t Task) Record() TaskRecord {
	r := TaskRecord{
		ID:        t.ID,
		Title:     t.Title,
		ListID:    t.ListID,
		Notes:     t.Notes,
		Flagged:   t.Flagged,
		Priority:  string(t.Priority),
		Completed: t.Completed,
	}
	if t.DueDate != nil {
		ts := Timestamp(*t.DueDate)
		r.DueDate = &ts
	}
	return r
}

// TaskFromRecord rebuilds a task, applying defaults for missing fields
func TaskFromRecord(r TaskRecord) Task {
	t := Task{
		ID:        r.ID,
		Title:     r.Title,
		ListID:    r.ListID,
		Notes:     r.Notes,
		Flagged:   r.Flagged,
		Priority:  Priority(r.Priority),
		Completed: r.Completed,
	}
	if t.Priority == "" {
		t.Priority = PriorityNormal
	}
	if r.DueDate != nil {
		due := r.DueDate.Time()
		t.DueDate = &due
	}
	return t
}
