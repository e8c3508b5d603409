package port

import (
	"context"

	"taskapi/internal/core/domain"
)

// TaskRepository is the persistence gateway. Every mutation runs inside one
// transaction scoped to the call: commit on success, rollback on any fault
// or context cancellation. A lookup miss is reported as
// domain.ErrTaskNotFound, never as a store fault.
type TaskRepository interface {
	Create(ctx context.Context, task domain.Task) (domain.Task, error)
	Get(ctx context.Context, ref domain.TaskRef) (domain.Task, error)
	List(ctx context.Context, filter domain.ListFilter) ([]domain.Task, error)
	Update(ctx context.Context, ref domain.TaskRef, patch domain.TaskPatch) (domain.Task, error)
	Delete(ctx context.Context, ref domain.TaskRef) error
	Ping(ctx context.Context) error
}

type TaskService interface {
	Create(ctx context.Context, task domain.Task) (domain.Task, error)
	Get(ctx context.Context, ref domain.TaskRef) (domain.Task, error)
	List(ctx context.Context, filter domain.ListFilter) ([]domain.Task, error)
	Update(ctx context.Context, ref domain.TaskRef, patch domain.TaskPatch) (domain.Task, error)
	Delete(ctx context.Context, ref domain.TaskRef) error
	CheckStore(ctx context.Context) error
}
