package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"taskapi/internal/adapter/database/sqlite"
	"taskapi/internal/core/domain"
	"taskapi/internal/core/port"
	"taskapi/internal/shared"
)

const tasksTable = "tasks"

type TaskRepository struct {
	db      *sqlite.DB
	scanner *sqlite.Scanner
	metrics *shared.AppMetrics
}

func NewTaskRepository(db *sqlite.DB, metrics *shared.AppMetrics) port.TaskRepository {
	return &TaskRepository{
		db:      db,
		scanner: sqlite.NewScanner(),
		metrics: metrics,
	}
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
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
		ToSql()

	if err != nil {
		return domain.Task{}, tr.fail(span, "create", err)
	}

	tx, err := tr.db.BeginTx(ctx, nil)

	if err != nil {
		return domain.Task{}, tr.fail(span, "create", err)
	}

	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, query, args...)

	if err != nil {
		return domain.Task{}, tr.fail(span, "create", err)
	}

	id, err := result.LastInsertId()

	if err != nil {
		return domain.Task{}, tr.fail(span, "create", err)
	}

	if err := tx.Commit(); err != nil {
		return domain.Task{}, tr.fail(span, "create", err)
	}

	tr.record("create", nil)

	return tr.Get(ctx, domain.SerialRef(id))
}

func (tr *TaskRepository) Get(ctx context.Context, ref domain.TaskRef) (domain.Task, error) {
	task, err := tr.getOne(ctx, tr.db, ref)

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

	builder := tr.db.QueryBuilder.Select("*").
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

	rows, err := tr.db.QueryContext(ctx, query, args...)

	if err != nil {
		return nil, tr.fail(span, "list", err)
	}

	defer rows.Close()

	tasks := []domain.Task{}

	if err := tr.scanner.ScanRowsToSlice(rows, &tasks); err != nil {
		return nil, tr.fail(span, "list", err)
	}

	span.SetAttributes(attribute.Int("db.rows_returned", len(tasks)))
	tr.record("list", nil)

	return tasks, nil
}

// Update resolves the target, then writes exactly the supplied fields plus a
// fresh updated_at, all inside one transaction. A row that vanishes between
// the resolve and the write surfaces as the not-found outcome, not a fault.
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

	tx, err := tr.db.BeginTx(ctx, nil)

	if err != nil {
		return domain.Task{}, tr.fail(span, "update", err)
	}

	defer tx.Rollback()

	if _, err := tr.getOne(ctx, tx, ref); err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			return domain.Task{}, err
		}

		return domain.Task{}, tr.fail(span, "update", err)
	}

	query, args, err := tr.db.QueryBuilder.Update(tasksTable).
		SetMap(changes).
		Where(sq.Eq{ref.Column(): ref.Value()}).
		ToSql()

	if err != nil {
		return domain.Task{}, tr.fail(span, "update", err)
	}

	result, err := tx.ExecContext(ctx, query, args...)

	if err != nil {
		return domain.Task{}, tr.fail(span, "update", err)
	}

	affected, err := result.RowsAffected()

	if err != nil {
		return domain.Task{}, tr.fail(span, "update", err)
	}

	if affected == 0 {
		// Concurrent delete between resolve and write.
		return domain.Task{}, domain.ErrTaskNotFound
	}

	if err := tx.Commit(); err != nil {
		return domain.Task{}, tr.fail(span, "update", err)
	}

	tr.record("update", nil)

	return tr.Get(ctx, ref)
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

	tx, err := tr.db.BeginTx(ctx, nil)

	if err != nil {
		return tr.fail(span, "delete", err)
	}

	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, query, args...)

	if err != nil {
		return tr.fail(span, "delete", err)
	}

	affected, err := result.RowsAffected()

	if err != nil {
		return tr.fail(span, "delete", err)
	}

	if affected == 0 {
		return domain.ErrTaskNotFound
	}

	if err := tx.Commit(); err != nil {
		return tr.fail(span, "delete", err)
	}

	tr.record("delete", nil)

	return nil
}

func (tr *TaskRepository) Ping(ctx context.Context) error {
	return tr.db.PingContext(ctx)
}

func (tr *TaskRepository) getOne(ctx context.Context, q querier, ref domain.TaskRef) (domain.Task, error) {
	query, args, err := tr.db.QueryBuilder.Select("*").
		From(tasksTable).
		Where(sq.Eq{ref.Column(): ref.Value()}).
		Limit(1).
		ToSql()

	if err != nil {
		return domain.Task{}, err
	}

	rows, err := q.QueryContext(ctx, query, args...)

	if err != nil {
		return domain.Task{}, err
	}

	defer rows.Close()

	var task domain.Task

	if err := tr.scanner.ScanRowToStruct(rows, &task); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Task{}, domain.ErrTaskNotFound
		}

		return domain.Task{}, err
	}

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
