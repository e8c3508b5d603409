package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	"taskapi/internal/core/domain"
	"taskapi/internal/core/port"
	"taskapi/internal/shared"
)

type TaskService struct {
	repo    port.TaskRepository
	logger  *otelzap.Logger
	metrics *shared.AppMetrics
}

func NewTaskService(repo port.TaskRepository, logger *otelzap.Logger, metrics *shared.AppMetrics) *TaskService {
	return &TaskService{
		repo:    repo,
		logger:  logger,
		metrics: metrics,
	}
}

// Create persists a normalized task. Both timestamps are set to the same
// instant so created_at equals updated_at on a fresh record.
func (ts *TaskService) Create(ctx context.Context, task domain.Task) (domain.Task, error) {
	now := time.Now().UTC()

	task.UUID = uuid.New()
	task.CreatedAt = now
	task.UpdatedAt = now

	created, err := ts.repo.Create(ctx, task)

	if err != nil {
		ts.logError(ctx, "Failed to create task", err, zap.String("title", task.Title))
		ts.count("create", err)
		return domain.Task{}, err
	}

	ts.count("create", nil)

	return created, nil
}

func (ts *TaskService) Get(ctx context.Context, ref domain.TaskRef) (domain.Task, error) {
	task, err := ts.repo.Get(ctx, ref)

	ts.count("get", err)

	return task, err
}

func (ts *TaskService) List(ctx context.Context, filter domain.ListFilter) ([]domain.Task, error) {
	tasks, err := ts.repo.List(ctx, filter)

	if err != nil {
		ts.logError(ctx, "Failed to list tasks", err, zap.Int("skip", filter.Skip), zap.Int("limit", filter.Limit))
		ts.count("list", err)
		return nil, err
	}

	ts.count("list", nil)

	return tasks, nil
}

// Update applies a partial field set. An empty patch is a legal no-op: the
// stored record is returned as is and updated_at is not refreshed.
func (ts *TaskService) Update(ctx context.Context, ref domain.TaskRef, patch domain.TaskPatch) (domain.Task, error) {
	if patch.Empty() {
		return ts.repo.Get(ctx, ref)
	}

	updated, err := ts.repo.Update(ctx, ref, patch)

	ts.count("update", err)

	return updated, err
}

func (ts *TaskService) Delete(ctx context.Context, ref domain.TaskRef) error {
	err := ts.repo.Delete(ctx, ref)

	ts.count("delete", err)

	return err
}

// CheckStore backs the health probe.
func (ts *TaskService) CheckStore(ctx context.Context) error {
	return ts.repo.Ping(ctx)
}

func (ts *TaskService) count(operation string, err error) {
	if ts.metrics == nil {
		return
	}

	ts.metrics.RecordTaskOperation(operation, err)
}

func (ts *TaskService) logError(ctx context.Context, msg string, err error, fields ...zap.Field) {
	if ts.logger == nil {
		return
	}

	ts.logger.Ctx(ctx).Error(msg, append(fields, zap.Error(err))...)
}
