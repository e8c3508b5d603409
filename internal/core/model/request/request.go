package request

import "taskapi/pkg/optional"

// TaskCreateRequest is the create payload. Title is the only required field;
// everything else has documented defaults. The due date travels as a string
// so timezone-naive inputs can be interpreted as UTC during validation.
type TaskCreateRequest struct {
	Title       string                 `json:"title"`
	Description optional.Field[string] `json:"description"`
	Status      optional.Field[string] `json:"status"`
	Completed   optional.Field[bool]   `json:"completed"`
	Priority    optional.Field[string] `json:"priority"`
	DueDate     optional.Field[string] `json:"due_date"`
}

// TaskUpdateRequest is the PATCH payload. Every field is optional; a field
// absent from the body leaves the stored value untouched, while an explicit
// null clears a nullable field.
type TaskUpdateRequest struct {
	Title       optional.Field[string] `json:"title"`
	Description optional.Field[string] `json:"description"`
	Status      optional.Field[string] `json:"status"`
	Completed   optional.Field[bool]   `json:"completed"`
	Priority    optional.Field[string] `json:"priority"`
	DueDate     optional.Field[string] `json:"due_date"`
}
