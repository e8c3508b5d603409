package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"taskapi/pkg/optional"
)

type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
)

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusTodo, StatusInProgress, StatusDone:
		return Status(s), nil
	default:
		return "", fmt.Errorf("invalid status: %s", s)
	}
}

func (s Status) Done() bool {
	return s == StatusDone
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func ParsePriority(s string) (Priority, error) {
	switch Priority(s) {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return Priority(s), nil
	default:
		return "", fmt.Errorf("invalid priority: %s", s)
	}
}

// Task is the single resource this API manages. ID is the store serial and
// UUID the random identifier; which one is exposed to clients depends on the
// active profile. Completed mirrors Status so both surfaces stay consistent.
type Task struct {
	ID          int64
	UUID        uuid.UUID
	Title       string
	Description *string
	Status      Status
	Completed   bool
	Priority    Priority
	DueDate     *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TaskPatch carries a partial update. Only fields the caller explicitly
// supplied are set; an explicit null clears a nullable field.
type TaskPatch struct {
	Title       optional.Field[string]
	Description optional.Field[string]
	Status      optional.Field[Status]
	Completed   optional.Field[bool]
	Priority    optional.Field[Priority]
	DueDate     optional.Field[time.Time]
}

func (p TaskPatch) Empty() bool {
	return !p.Title.IsSet() &&
		!p.Description.IsSet() &&
		!p.Status.IsSet() &&
		!p.Completed.IsSet() &&
		!p.Priority.IsSet() &&
		!p.DueDate.IsSet()
}

// Changes maps the supplied fields to their column values, keeping the
// status and completed columns in sync whichever one the caller used.
// The updated_at column is owned by the repository, not added here.
func (p TaskPatch) Changes() map[string]any {
	changes := map[string]any{}

	if title, ok := p.Title.Value(); ok {
		changes["title"] = title
	}

	if p.Description.IsSet() {
		if description, ok := p.Description.Value(); ok {
			changes["description"] = description
		} else {
			changes["description"] = nil
		}
	}

	if status, ok := p.Status.Value(); ok {
		changes["status"] = string(status)
		changes["completed"] = status.Done()
	}

	if completed, ok := p.Completed.Value(); ok {
		changes["completed"] = completed

		if completed {
			changes["status"] = string(StatusDone)
		} else {
			changes["status"] = string(StatusTodo)
		}
	}

	if priority, ok := p.Priority.Value(); ok {
		changes["priority"] = string(priority)
	}

	if p.DueDate.IsSet() {
		if dueDate, ok := p.DueDate.Value(); ok {
			changes["due_date"] = dueDate
		} else {
			changes["due_date"] = nil
		}
	}

	return changes
}

// ListFilter is the pagination window plus the optional equality predicate
// over the completion state.
type ListFilter struct {
	Skip      int
	Limit     int
	Completed *bool
	Status    *Status
}
