package domain

import (
	"errors"
	"time"
)

// ErrTaskNotFound covers both a task that does not exist and a task owned by
// someone else. Ownership mismatches are reported as not-found on purpose so
// non-owners cannot probe for a task's existence.
var ErrTaskNotFound = errors.New("task not found")

// Task is a single to-do item belonging to exactly one user.
type Task struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	Owner       string    `json:"owner"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
