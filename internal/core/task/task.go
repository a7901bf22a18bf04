// Package task defines the task record domain model.
package task

import (
	"errors"
	"fmt"
	"strings"

	"github.com/colonyops/tasktracker/internal/core/calendar"
)

var (
	// ErrNotFound is returned when a task ID does not exist.
	ErrNotFound = errors.New("task not found")
	// ErrInvalidStatus is returned when status text does not name a known status.
	ErrInvalidStatus = errors.New("invalid task status")
)

// Status represents the lifecycle state of a task.
type Status uint8

const (
	StatusTodo Status = iota
	StatusInProgress
	StatusDone
)

// legacyInProgress is how older task files spelled in-progress.
const legacyInProgress = "in-progess"

var statusText = [...]string{
	StatusTodo:       "todo",
	StatusInProgress: "in-progress",
	StatusDone:       "done",
}

// Statuses returns every status in display order.
func Statuses() []Status {
	return []Status{StatusTodo, StatusInProgress, StatusDone}
}

// String returns the canonical text of the status.
func (s Status) String() string {
	if int(s) < len(statusText) {
		return statusText[s]
	}
	return fmt.Sprintf("status(%d)", uint8(s))
}

// IsValid reports whether s is one of the defined statuses.
func (s Status) IsValid() bool {
	return int(s) < len(statusText)
}

// ParseStatus maps status text to a Status, ignoring case and surrounding
// whitespace. Unknown text returns ErrInvalidStatus.
func ParseStatus(text string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "todo":
		return StatusTodo, nil
	case "in-progress", legacyInProgress:
		return StatusInProgress, nil
	case "done":
		return StatusDone, nil
	default:
		return StatusTodo, fmt.Errorf("%w %q: must be one of todo, in-progress, done", ErrInvalidStatus, text)
	}
}

// ParseStatusOrDefault maps status text to a Status, falling back to
// StatusTodo for unknown text.
func ParseStatusOrDefault(text string) Status {
	s, err := ParseStatus(text)
	if err != nil {
		return StatusTodo
	}
	return s
}

// Task is a single tracked item.
type Task struct {
	Description string
	Status      Status
	CreatedAt   calendar.Timestamp
	UpdatedAt   calendar.Timestamp
}

// New returns a todo task stamped with now.
func New(description string, now calendar.Timestamp) Task {
	return Task{
		Description: description,
		Status:      StatusTodo,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// SetDescription replaces the description and refreshes UpdatedAt.
func (t *Task) SetDescription(description string, now calendar.Timestamp) {
	t.Description = description
	t.UpdatedAt = now
}

// SetStatus changes the status and refreshes UpdatedAt.
func (t *Task) SetStatus(status Status, now calendar.Timestamp) {
	t.Status = status
	t.UpdatedAt = now
}

// Entry pairs a task with its ID.
type Entry struct {
	ID   uint32
	Task Task
}

// ListFilter controls which tasks List returns.
type ListFilter struct {
	Status *Status // nil means all statuses
	Match  string  // glob matched against the description; empty means all
}

// WithStatus returns a filter selecting a single status.
func WithStatus(s Status) ListFilter {
	return ListFilter{Status: &s}
}
