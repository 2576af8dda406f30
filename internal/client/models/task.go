// Package models defines the data records exchanged with the task service
// and the canonical vocabulary for their enumerated fields.
package models

import "time"

// Status is the lifecycle state of a task. The canonical vocabulary is
// English; anything else arriving from the server is coerced at the
// ingestion boundary, never propagated.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// DefaultStatus is the safe fallback for out-of-range status values.
const DefaultStatus = StatusPending

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Priority is the urgency of a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// DefaultPriority is the safe fallback for out-of-range priority values.
const DefaultPriority = PriorityMedium

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Task is a single task record. ID, CreatedAt and Owner are assigned by
// the server and immutable afterwards.
type Task struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      Status     `json:"status"`
	Priority    Priority   `json:"priority"`
	CreatedAt   time.Time  `json:"createdAt"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Owner       int64      `json:"owner"`
}

// Normalize coerces out-of-range enum values to their safe defaults.
// It reports whether anything had to be coerced, so read paths can log
// the anomaly. This is the single coercion point for server payloads;
// caller-supplied values go through Valid instead and are rejected.
func (t *Task) Normalize() bool {
	coerced := false
	if !t.Status.Valid() {
		t.Status = DefaultStatus
		coerced = true
	}
	if !t.Priority.Valid() {
		t.Priority = DefaultPriority
		coerced = true
	}
	return coerced
}

// Clone returns a deep copy of the task.
func (t Task) Clone() Task {
	c := t
	if t.DueDate != nil {
		due := *t.DueDate
		c.DueDate = &due
	}
	return c
}

// CloneTasks returns a deep copy of the slice.
func CloneTasks(tasks []Task) []Task {
	if tasks == nil {
		return nil
	}
	out := make([]Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}

// TaskDraft is the client-supplied payload for creating a task.
type TaskDraft struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      Status     `json:"status"`
	Priority    Priority   `json:"priority"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
}

// TaskPatch is a partial update; nil fields are left untouched.
type TaskPatch struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Status      *Status    `json:"status,omitempty"`
	Priority    *Priority  `json:"priority,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
}
