package factory

import (
	"time"

	fab "github.com/Goldziher/fabricator"
	"github.com/google/uuid"

	"taskapi/internal/core/domain"
)

// NewTask builds a task with generated values, overridable per field. The
// defaults form a valid record so most tests only set the fields they assert.
// Build honors a single override map, so the defaults and every caller map
// are merged before the call.
func NewTask(customData ...map[string]any) domain.Task {
	instance := fab.New(domain.Task{})

	now := time.Now().UTC().Truncate(time.Second)

	merged := map[string]any{
		"ID":        int64(0),
		"UUID":      uuid.New(),
		"Status":    domain.StatusTodo,
		"Completed": false,
		"Priority":  domain.PriorityMedium,
		"DueDate":   (*time.Time)(nil),
		"CreatedAt": now,
		"UpdatedAt": now,
	}

	for _, data := range customData {
		for field, value := range data {
			merged[field] = value
		}
	}

	return instance.Build(merged)
}
