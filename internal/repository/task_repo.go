package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/PradyunT/catapult-project/internal/model"
	"github.com/PradyunT/catapult-project/pkg/metrics"
)

type TaskRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewTaskRepository(db *pgxpool.Pool, logger *zap.Logger) *TaskRepository {
	return &TaskRepository{db: db, logger: logger}
}

func (r *TaskRepository) List(ctx context.Context) ([]model.Task, error) {
	start := time.Now()
	defer func() { metrics.RecordDBQueryDuration("list", "tasks", time.Since(start)) }()

	query := `
        SELECT id, title, description, due_date, repeated, completed, category, priority, space_id, created_at
        FROM tasks
        ORDER BY due_date ASC
    `
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.logger.Error("Failed to query tasks", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	return scanTasks(rows)
}

// ListDueBetween returns tasks with due_date in [from, to), ordered by due date.
func (r *TaskRepository) ListDueBetween(ctx context.Context, from, to time.Time) ([]model.Task, error) {
	start := time.Now()
	defer func() { metrics.RecordDBQueryDuration("list_due_between", "tasks", time.Since(start)) }()

	query := `
        SELECT id, title, description, due_date, repeated, completed, category, priority, space_id, created_at
        FROM tasks
        WHERE due_date >= $1 AND due_date < $2
        ORDER BY due_date ASC
    `
	rows, err := r.db.Query(ctx, query, from, to)
	if err != nil {
		r.logger.Error("Failed to query tasks by due range",
			zap.Error(err),
			zap.Time("from", from),
			zap.Time("to", to),
		)
		return nil, err
	}
	defer rows.Close()

	return scanTasks(rows)
}

func (r *TaskRepository) Insert(ctx context.Context, in model.TaskInput) (model.Task, error) {
	start := time.Now()
	defer func() { metrics.RecordDBQueryDuration("insert", "tasks", time.Since(start)) }()

	if in.Priority == "" {
		in.Priority = model.PriorityNormal
	}

	t := model.Task{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Description: in.Description,
		DueDate:     in.DueDate,
		Repeated:    in.Repeated,
		Completed:   in.Completed,
		Category:    in.Category,
		Priority:    in.Priority,
		SpaceID:     in.SpaceID,
	}

	query := `
        INSERT INTO tasks (id, title, description, due_date, repeated, completed, category, priority, space_id)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING created_at
    `
	err := r.db.QueryRow(ctx, query,
		t.ID,
		t.Title,
		t.Description,
		t.DueDate,
		t.Repeated,
		t.Completed,
		t.Category,
		t.Priority,
		t.SpaceID,
	).Scan(&t.CreatedAt)
	if err != nil {
		r.logger.Error("Failed to insert task",
			zap.Error(err),
			zap.String("title", t.Title),
		)
		return model.Task{}, err
	}

	r.logger.Info("Task inserted successfully",
		zap.String("task_id", t.ID),
		zap.String("title", t.Title),
	)
	return t, nil
}

// BulkInsert inserts scraped tasks in one batch and returns the new IDs.
func (r *TaskRepository) BulkInsert(ctx context.Context, tasks []model.Task) ([]string, error) {
	start := time.Now()
	defer func() { metrics.RecordDBQueryDuration("bulk_insert", "tasks", time.Since(start)) }()

	if len(tasks) == 0 {
		return nil, nil
	}

	batch := &pgx.Batch{}
	ids := make([]string, len(tasks))
	query := `
        INSERT INTO tasks (id, title, description, due_date, repeated, completed, category, priority, space_id)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
    `
	for i, t := range tasks {
		if t.ID == "" {
			t.ID = uuid.NewString()
		}
		if t.Priority == "" {
			t.Priority = model.PriorityNormal
		}
		ids[i] = t.ID
		batch.Queue(query,
			t.ID, t.Title, t.Description, t.DueDate,
			t.Repeated, t.Completed, t.Category, t.Priority, t.SpaceID,
		)
	}

	results := r.db.SendBatch(ctx, batch)
	defer results.Close()

	for range tasks {
		if _, err := results.Exec(); err != nil {
			r.logger.Error("Failed to bulk insert tasks",
				zap.Error(err),
				zap.Int("task_count", len(tasks)),
			)
			return nil, err
		}
	}

	r.logger.Info("Tasks bulk inserted successfully", zap.Int("count", len(tasks)))
	return ids, nil
}

func (r *TaskRepository) Update(ctx context.Context, id string, in model.TaskInput) (model.Task, error) {
	start := time.Now()
	defer func() { metrics.RecordDBQueryDuration("update", "tasks", time.Since(start)) }()

	query := `
        UPDATE tasks
        SET title = $2, description = $3, due_date = $4, repeated = $5,
            completed = $6, category = $7, priority = $8, space_id = $9
        WHERE id = $1
        RETURNING id, title, description, due_date, repeated, completed, category, priority, space_id, created_at
    `
	var t model.Task
	err := r.db.QueryRow(ctx, query,
		id, in.Title, in.Description, in.DueDate,
		in.Repeated, in.Completed, in.Category, in.Priority, in.SpaceID,
	).Scan(
		&t.ID, &t.Title, &t.Description, &t.DueDate,
		&t.Repeated, &t.Completed, &t.Category, &t.Priority, &t.SpaceID, &t.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to update task",
			zap.Error(err),
			zap.String("task_id", id),
		)
		return model.Task{}, err
	}

	r.logger.Info("Task updated successfully", zap.String("task_id", id))
	return t, nil
}

func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	start := time.Now()
	defer func() { metrics.RecordDBQueryDuration("delete", "tasks", time.Since(start)) }()

	result, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete task",
			zap.Error(err),
			zap.String("task_id", id),
		)
		return err
	}

	r.logger.Info("Task deleted",
		zap.String("task_id", id),
		zap.Int64("rows_affected", result.RowsAffected()),
	)
	return nil
}

func scanTasks(rows pgx.Rows) ([]model.Task, error) {
	tasks := []model.Task{}
	for rows.Next() {
		var t model.Task
		if err := rows.Scan(
			&t.ID,
			&t.Title,
			&t.Description,
			&t.DueDate,
			&t.Repeated,
			&t.Completed,
			&t.Category,
			&t.Priority,
			&t.SpaceID,
			&t.CreatedAt,
		); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}
