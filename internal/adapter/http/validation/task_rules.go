package validation

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"taskapi/internal/core/domain"
	"taskapi/internal/core/model/request"
	"taskapi/pkg/optional"
)

// due dates without a zone are interpreted as UTC before comparison.
var dueDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

const (
	defaultSkip  = 0
	defaultLimit = 100
	maxLimit     = 1000
)

// Rules normalizes and constrains task payloads under one profile. Every
// violated field is collected so a single rejection reports all of them.
type Rules struct {
	profile domain.Profile
	now     func() time.Time
}

func NewRules(profile domain.Profile) *Rules {
	return &Rules{profile: profile, now: time.Now}
}

// ValidateCreate turns a create payload into a normalized task or fails with
// every offending field. Defaults: status todo, priority medium.
func (r *Rules) ValidateCreate(req request.TaskCreateRequest) (domain.Task, error) {
	var violations domain.ValidationErrors

	task := domain.Task{
		Status:   domain.StatusTodo,
		Priority: domain.PriorityMedium,
	}

	title := strings.TrimSpace(req.Title)

	if msg := CheckVar(title, "required"); msg != "" {
		violations = append(violations, domain.FieldViolation{Field: "title", Message: msg})
	} else if msg := CheckVar(title, fmt.Sprintf("max=%d", r.profile.TitleMaxLen)); msg != "" {
		violations = append(violations, domain.FieldViolation{Field: "title", Message: msg})
	}

	task.Title = title

	if description, ok := req.Description.Value(); ok {
		description = strings.TrimSpace(description)

		if msg := CheckVar(description, fmt.Sprintf("max=%d", r.profile.DescriptionMaxLen)); msg != "" {
			violations = append(violations, domain.FieldViolation{Field: "description", Message: msg})
		}

		task.Description = &description
	}

	if req.Completed.IsSet() {
		if completed, ok := req.Completed.Value(); ok {
			task.Completed = completed

			if completed {
				task.Status = domain.StatusDone
			}
		} else {
			violations = append(violations, domain.FieldViolation{Field: "completed", Message: "must not be null"})
		}
	}

	violations = append(violations, r.applyExtendedFields(&task, req.Status, req.Priority, req.DueDate, req.Completed.IsSet())...)

	if len(violations) > 0 {
		return domain.Task{}, violations
	}

	return task, nil
}

// ValidatePatch turns an update payload into a partial field set. Fields
// absent from the payload stay absent; the trimming and bound rules match
// the create path exactly.
func (r *Rules) ValidatePatch(req request.TaskUpdateRequest) (domain.TaskPatch, error) {
	var violations domain.ValidationErrors
	var patch domain.TaskPatch

	if req.Title.IsSet() {
		if req.Title.IsNull() {
			violations = append(violations, domain.FieldViolation{Field: "title", Message: "must not be null"})
		} else {
			title, _ := req.Title.Value()
			title = strings.TrimSpace(title)

			if msg := CheckVar(title, "required"); msg != "" {
				violations = append(violations, domain.FieldViolation{Field: "title", Message: msg})
			} else if msg := CheckVar(title, fmt.Sprintf("max=%d", r.profile.TitleMaxLen)); msg != "" {
				violations = append(violations, domain.FieldViolation{Field: "title", Message: msg})
			}

			patch.Title = optional.Some(title)
		}
	}

	if req.Description.IsSet() {
		if description, ok := req.Description.Value(); ok {
			description = strings.TrimSpace(description)

			if msg := CheckVar(description, fmt.Sprintf("max=%d", r.profile.DescriptionMaxLen)); msg != "" {
				violations = append(violations, domain.FieldViolation{Field: "description", Message: msg})
			}

			patch.Description = optional.Some(description)
		} else {
			patch.Description = optional.Null[string]()
		}
	}

	if req.Completed.IsSet() {
		if completed, ok := req.Completed.Value(); ok {
			patch.Completed = optional.Some(completed)
		} else {
			violations = append(violations, domain.FieldViolation{Field: "completed", Message: "must not be null"})
		}
	}

	if r.profile.Extended && req.Status.IsSet() && req.Completed.IsSet() {
		violations = append(violations, domain.FieldViolation{Field: "completed", Message: "conflicts with status"})
	}

	extended, extViolations := r.patchExtendedFields(req.Status, req.Priority, req.DueDate)
	violations = append(violations, extViolations...)
	patch.Status = extended.Status
	patch.Priority = extended.Priority
	patch.DueDate = extended.DueDate

	if len(violations) > 0 {
		return domain.TaskPatch{}, violations
	}

	return patch, nil
}

// ValidateListQuery checks pagination and filter parameters, applying the
// skip=0 / limit=100 defaults for absent values.
func (r *Rules) ValidateListQuery(rawSkip, rawLimit, rawCompleted, rawStatus string) (domain.ListFilter, error) {
	var violations domain.ValidationErrors

	filter := domain.ListFilter{Skip: defaultSkip, Limit: defaultLimit}

	if rawSkip != "" {
		skip, err := strconv.Atoi(rawSkip)

		if err != nil || skip < 0 {
			violations = append(violations, domain.FieldViolation{Field: "skip", Message: "must be an integer greater than or equal to 0"})
		} else {
			filter.Skip = skip
		}
	}

	if rawLimit != "" {
		limit, err := strconv.Atoi(rawLimit)

		if err != nil || limit < 1 || limit > maxLimit {
			violations = append(violations, domain.FieldViolation{Field: "limit", Message: fmt.Sprintf("must be an integer between 1 and %d", maxLimit)})
		} else {
			filter.Limit = limit
		}
	}

	if rawCompleted != "" {
		completed, err := strconv.ParseBool(rawCompleted)

		if err != nil {
			violations = append(violations, domain.FieldViolation{Field: "completed", Message: "must be true or false"})
		} else {
			filter.Completed = &completed
		}
	}

	if rawStatus != "" {
		if !r.profile.Extended {
			violations = append(violations, domain.FieldViolation{Field: "status", Message: "is not enabled for this deployment"})
		} else if status, err := domain.ParseStatus(rawStatus); err != nil {
			violations = append(violations, domain.FieldViolation{Field: "status", Message: "must be one of todo, in_progress, done"})
		} else {
			filter.Status = &status
		}
	}

	if len(violations) > 0 {
		return domain.ListFilter{}, violations
	}

	return filter, nil
}

// ParseDueDate resolves a due date input to UTC. Inputs without zone
// information are taken as UTC.
func ParseDueDate(raw string) (time.Time, error) {
	for _, layout := range dueDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}

	return time.Time{}, fmt.Errorf("invalid timestamp: %s", raw)
}
