package validation

import (
	"time"

	"taskapi/internal/core/domain"
	"taskapi/pkg/optional"
)

// applyExtendedFields validates status, priority and due_date on the create
// path and writes the accepted values onto the task. Under the classic
// profile these fields are rejected outright.
func (r *Rules) applyExtendedFields(task *domain.Task, rawStatus, rawPriority, rawDueDate optional.Field[string], completedSet bool) domain.ValidationErrors {
	var violations domain.ValidationErrors

	if !r.profile.Extended {
		for field, f := range map[string]optional.Field[string]{
			"status":   rawStatus,
			"priority": rawPriority,
			"due_date": rawDueDate,
		} {
			if f.IsSet() {
				violations = append(violations, domain.FieldViolation{Field: field, Message: "is not enabled for this deployment"})
			}
		}

		return violations
	}

	if rawStatus.IsSet() {
		if status, ok := rawStatus.Value(); !ok {
			violations = append(violations, domain.FieldViolation{Field: "status", Message: "must not be null"})
		} else if parsed, err := domain.ParseStatus(status); err != nil {
			violations = append(violations, domain.FieldViolation{Field: "status", Message: "must be one of todo, in_progress, done"})
		} else {
			task.Status = parsed
			task.Completed = parsed.Done()
		}

		if completedSet {
			violations = append(violations, domain.FieldViolation{Field: "completed", Message: "conflicts with status"})
		}
	}

	if rawPriority.IsSet() {
		if priority, ok := rawPriority.Value(); !ok {
			violations = append(violations, domain.FieldViolation{Field: "priority", Message: "must not be null"})
		} else if parsed, err := domain.ParsePriority(priority); err != nil {
			violations = append(violations, domain.FieldViolation{Field: "priority", Message: "must be one of low, medium, high"})
		} else {
			task.Priority = parsed
		}
	}

	if dueDate, ok := rawDueDate.Value(); ok {
		parsed, err := ParseDueDate(dueDate)

		switch {
		case err != nil:
			violations = append(violations, domain.FieldViolation{Field: "due_date", Message: "must be a valid timestamp"})
		case parsed.Before(r.now().UTC()):
			violations = append(violations, domain.FieldViolation{Field: "due_date", Message: "must not be in the past"})
		default:
			task.DueDate = &parsed
		}
	}

	return violations
}

// patchExtendedFields validates status, priority and due_date on the update
// path. The past check on due_date runs only when the payload carries the
// field; updating unrelated fields never re-validates a stored due date.
func (r *Rules) patchExtendedFields(rawStatus, rawPriority, rawDueDate optional.Field[string]) (domain.TaskPatch, domain.ValidationErrors) {
	var violations domain.ValidationErrors
	var patch domain.TaskPatch

	if !r.profile.Extended {
		for field, f := range map[string]optional.Field[string]{
			"status":   rawStatus,
			"priority": rawPriority,
			"due_date": rawDueDate,
		} {
			if f.IsSet() {
				violations = append(violations, domain.FieldViolation{Field: field, Message: "is not enabled for this deployment"})
			}
		}

		return patch, violations
	}

	if rawStatus.IsSet() {
		if status, ok := rawStatus.Value(); !ok {
			violations = append(violations, domain.FieldViolation{Field: "status", Message: "must not be null"})
		} else if parsed, err := domain.ParseStatus(status); err != nil {
			violations = append(violations, domain.FieldViolation{Field: "status", Message: "must be one of todo, in_progress, done"})
		} else {
			patch.Status = optional.Some(parsed)
		}
	}

	if rawPriority.IsSet() {
		if priority, ok := rawPriority.Value(); !ok {
			violations = append(violations, domain.FieldViolation{Field: "priority", Message: "must not be null"})
		} else if parsed, err := domain.ParsePriority(priority); err != nil {
			violations = append(violations, domain.FieldViolation{Field: "priority", Message: "must be one of low, medium, high"})
		} else {
			patch.Priority = optional.Some(parsed)
		}
	}

	if rawDueDate.IsSet() {
		if dueDate, ok := rawDueDate.Value(); !ok {
			patch.DueDate = optional.Null[time.Time]()
		} else if parsed, err := ParseDueDate(dueDate); err != nil {
			violations = append(violations, domain.FieldViolation{Field: "due_date", Message: "must be a valid timestamp"})
		} else if parsed.Before(r.now().UTC()) {
			violations = append(violations, domain.FieldViolation{Field: "due_date", Message: "must not be in the past"})
		} else {
			patch.DueDate = optional.Some(parsed)
		}
	}

	return patch, violations
}
