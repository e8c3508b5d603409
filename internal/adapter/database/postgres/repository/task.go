package repository

import (
	"context"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"taskapi/internal/adapter/database/postgres"
	"taskapi/internal/core/domain"
	"taskapi/internal/core/port"
	"taskapi/internal/shared"
)

const tasksTable = "tasks"

const taskColumns = "id, uuid, title, description, status, completed, priority, due_date, created_at, updated_at"

type TaskRepository struct {
	db      *postgres.DB
	metrics *shared.AppMetrics
}

func NewTaskRepository(db *postgres.DB, metrics *shared.AppMetrics) port.TaskRepository {
	return &TaskRepository{db: db, metrics: metrics}
}

func (tr *TaskRepository) Create(ctx context.Context, task domain.Task) (domain.Task, error) {
	ctx, span := shared.CreateChildSpan(ctx, "db.task.Create", []attribute.KeyValue{
		attribute.String("db.table", tasksTable),
		attribute.String("db.operation", "INSERT"),
		attribute.String("task.uuid", task.UUID.String()),
	})
	defer span.End()

	query, args, err := tr.db.QueryBuilder.Insert(tasksTable).
		Columns("uuid", "title", "description", "status", "completed", "priority", "due_date", "created_at", "updated_at").
		Values(task.UUID.String(), task.Title, task.Description, string(task.Status), task.Completed, string(task.Priority), task.DueDate, task.CreatedAt, task.UpdatedAt).
		Suffix("RETURNING " + taskColumns).
		ToSql()

	if err != nil {
		return domain.Task{}, tr.fail(span, "create", err)
	}

	tx, err := tr.db.Begin(ctx)

	if err != nil {
		return domain.Task{}, tr.fail(span, "create", err)
	}

	defer tx.Rollback(ctx)

	created, err := scanTask(tx.QueryRow(ctx, query, args...))

	if err != nil {
		return domain.Task{}, tr.fail(span, "create", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Task{}, tr.fail(span, "create", err)
	}

	tr.record("create", nil)

	return created, nil
}

func (tr *TaskRepository) Get(ctx context.Context, ref domain.TaskRef) (domain.Task, error) {
	query, args, err := tr.db.QueryBuilder.Select(taskColumns).
		From(tasksTable).
		Where(sq.Eq{ref.Column(): ref.Value()}).
		Limit(1).
		ToSql()

	if err != nil {
		tr.record("get", err)
		return domain.Task{}, err
	}

	task, err := scanTask(tr.db.QueryRow(ctx, query, args...))

	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Task{}, domain.ErrTaskNotFound
	}

	tr.record("get", err)

	return task, err
}

func (tr *TaskRepository) List(ctx context.Context, filter domain.ListFilter) ([]domain.Task, error) {
	ctx, span := shared.CreateChildSpan(ctx, "db.task.List", []attribute.KeyValue{
		attribute.String("db.table", tasksTable),
		attribute.String("db.operation", "SELECT"),
		attribute.Int("pagination.skip", filter.Skip),
		attribute.Int("pagination.limit", filter.Limit),
	})
	defer span.End()

	builder := tr.db.QueryBuilder.Select(taskColumns).
		From(tasksTable).
		OrderBy("id ASC").
		Offset(uint64(filter.Skip)).
		Limit(uint64(filter.Limit))

	if filter.Completed != nil {
		builder = builder.Where(sq.Eq{"completed": *filter.Completed})
	}

	if filter.Status != nil {
		builder = builder.Where(sq.Eq{"status": string(*filter.Status)})
	}

	query, args, err := builder.ToSql()

	if err != nil {
		return nil, tr.fail(span, "list", err)
	}

	rows, err := tr.db.Query(ctx, query, args...)

	if err != nil {
		return nil, tr.fail(span, "list", err)
	}

	defer rows.Close()

	tasks := []domain.Task{}

	for rows.Next() {
		task, err := scanTask(rows)

		if err != nil {
			return nil, tr.fail(span, "list", err)
		}

		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		return nil, tr.fail(span, "list", err)
	}

	span.SetAttributes(attribute.Int("db.rows_returned", len(tasks)))
	tr.record("list", nil)

	return tasks, nil
}

func (tr *TaskRepository) Update(ctx context.Context, ref domain.TaskRef, patch domain.TaskPatch) (domain.Task, error) {
	ctx, span := shared.CreateChildSpan(ctx, "db.task.Update", []attribute.KeyValue{
		attribute.String("db.table", tasksTable),
		attribute.String("db.operation", "UPDATE"),
		attribute.String("task.ref", ref.String()),
	})
	defer span.End()

	changes := patch.Changes()

	if len(changes) == 0 {
		return tr.Get(ctx, ref)
	}

	changes["updated_at"] = time.Now().UTC()

	query, args, err := tr.db.QueryBuilder.Update(tasksTable).
		SetMap(changes).
		Where(sq.Eq{ref.Column(): ref.Value()}).
		Suffix("RETURNING " + taskColumns).
		ToSql()

	if err != nil {
		return domain.Task{}, tr.fail(span, "update", err)
	}

	tx, err := tr.db.Begin(ctx)

	if err != nil {
		return domain.Task{}, tr.fail(span, "update", err)
	}

	defer tx.Rollback(ctx)

	updated, err := scanTask(tx.QueryRow(ctx, query, args...))

	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Task{}, domain.ErrTaskNotFound
	}

	if err != nil {
		return domain.Task{}, tr.fail(span, "update", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Task{}, tr.fail(span, "update", err)
	}

	tr.record("update", nil)

	return updated, nil
}

func (tr *TaskRepository) Delete(ctx context.Context, ref domain.TaskRef) error {
	ctx, span := shared.CreateChildSpan(ctx, "db.task.Delete", []attribute.KeyValue{
		attribute.String("db.table", tasksTable),
		attribute.String("db.operation", "DELETE"),
		attribute.String("task.ref", ref.String()),
	})
	defer span.End()

	query, args, err := tr.db.QueryBuilder.Delete(tasksTable).
		Where(sq.Eq{ref.Column(): ref.Value()}).
		ToSql()

	if err != nil {
		return tr.fail(span, "delete", err)
	}

	tx, err := tr.db.Begin(ctx)

	if err != nil {
		return tr.fail(span, "delete", err)
	}

	defer tx.Rollback(ctx)

	result, err := tx.Exec(ctx, query, args...)

	if err != nil {
		return tr.fail(span, "delete", err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return tr.fail(span, "delete", err)
	}

	tr.record("delete", nil)

	return nil
}

func (tr *TaskRepository) Ping(ctx context.Context) error {
	return tr.db.Pool.Ping(ctx)
}

func scanTask(row pgx.Row) (domain.Task, error) {
	var task domain.Task
	var uuidStr string
	var status, priority string

	err := row.Scan(
		&task.ID,
		&uuidStr,
		&task.Title,
		&task.Description,
		&status,
		&task.Completed,
		&priority,
		&task.DueDate,
		&task.CreatedAt,
		&task.UpdatedAt,
	)

	if err != nil {
		return domain.Task{}, err
	}

	parsed, err := uuid.Parse(uuidStr)

	if err != nil {
		return domain.Task{}, err
	}

	task.UUID = parsed
	task.Status = domain.Status(status)
	task.Priority = domain.Priority(priority)

	return task, nil
}

func (tr *TaskRepository) record(operation string, err error) {
	if tr.metrics != nil && !errors.Is(err, domain.ErrTaskNotFound) {
		tr.metrics.RecordDatabaseOperation(operation, err)
	}
}

func (tr *TaskRepository) fail(span trace.Span, operation string, err error) error {
	shared.AddSpanError(span, err)
	tr.record(operation, err)

	return err
}
