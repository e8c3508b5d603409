package response

import (
	"time"

	"taskapi/internal/core/domain"
)

// TaskResponse is the outbound representation of a task. The extended
// fields are omitted under the classic profile.
type TaskResponse struct {
	ID          any        `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Completed   bool       `json:"completed"`
	Status      string     `json:"status,omitempty"`
	Priority    string     `json:"priority,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func NewTaskResponse(t domain.Task, profile domain.Profile) TaskResponse {
	resp := TaskResponse{
		ID:          profile.PublicID(t),
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}

	if profile.Extended {
		resp.Status = string(t.Status)
		resp.Priority = string(t.Priority)
		resp.DueDate = t.DueDate
	}

	return resp
}

func NewTaskListResponse(tasks []domain.Task, profile domain.Profile) []TaskResponse {
	data := make([]TaskResponse, 0, len(tasks))

	for _, t := range tasks {
		data = append(data, NewTaskResponse(t, profile))
	}

	return data
}

// HealthResponse is the liveness probe body.
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Error    string `json:"error,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ResponseError struct {
	Code    string            `json:"code"`
	Errors  []ValidationError `json:"errors"`
	Details any               `json:"details,omitempty"`
}

type ErrorResponse struct {
	Error ResponseError `json:"error"`
}
