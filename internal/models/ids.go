package models

import "github.com/google/uuid"

// NewTaskID returns a random, collision-resistant task id
func NewTaskID() string {
	return "task-" + uuid.NewString()
}

// NewListID returns a random, collision-resistant list id
func NewListID() string {
	return "list-" + uuid.NewString()
}
