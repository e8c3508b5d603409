package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrTaskNotFound is the defined negative outcome of a lookup. Callers check
// it with errors.Is and map it to a 404; it never represents a fault.
var ErrTaskNotFound = errors.New("task not found")

// FieldViolation describes one rejected field.
type FieldViolation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors aggregates every violated field of a request so a single
// rejection reports all of them.
type ValidationErrors []FieldViolation

func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))

	for _, fv := range v {
		parts = append(parts, fmt.Sprintf("%s: %s", fv.Field, fv.Message))
	}

	return "validation failed: " + strings.Join(parts, "; ")
}

// AsValidationErrors unwraps err into ValidationErrors when possible.
func AsValidationErrors(err error) (ValidationErrors, bool) {
	var verrs ValidationErrors

	if errors.As(err, &verrs) {
		return verrs, true
	}

	return nil, false
}
