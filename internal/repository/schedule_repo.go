package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/PradyunT/catapult-project/internal/model"
	"github.com/PradyunT/catapult-project/pkg/metrics"
)

type ScheduleRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewScheduleRepository(db *pgxpool.Pool, logger *zap.Logger) *ScheduleRepository {
	return &ScheduleRepository{db: db, logger: logger}
}

func (r *ScheduleRepository) List(ctx context.Context) ([]model.ScheduleItem, error) {
	start := time.Now()
	defer func() { metrics.RecordDBQueryDuration("list", "schedule", time.Since(start)) }()

	query := `
        SELECT id, task_id, title, start_time, end_time, date, notes, created_at
        FROM schedule
        ORDER BY start_time ASC
    `
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.logger.Error("Failed to query schedule items", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	items := []model.ScheduleItem{}
	for rows.Next() {
		var it model.ScheduleItem
		if err := rows.Scan(&it.ID, &it.TaskID, &it.Title, &it.StartTime, &it.EndTime, &it.Date, &it.Notes, &it.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *ScheduleRepository) ListForDate(ctx context.Context, date string) ([]model.ScheduleItem, error) {
	start := time.Now()
	defer func() { metrics.RecordDBQueryDuration("list_for_date", "schedule", time.Since(start)) }()

	query := `
        SELECT id, task_id, title, start_time, end_time, date, notes, created_at
        FROM schedule
        WHERE date = $1
        ORDER BY start_time ASC
    `
	rows, err := r.db.Query(ctx, query, date)
	if err != nil {
		r.logger.Error("Failed to query schedule for date",
			zap.Error(err),
			zap.String("date", date),
		)
		return nil, err
	}
	defer rows.Close()

	items := []model.ScheduleItem{}
	for rows.Next() {
		var it model.ScheduleItem
		if err := rows.Scan(&it.ID, &it.TaskID, &it.Title, &it.StartTime, &it.EndTime, &it.Date, &it.Notes, &it.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *ScheduleRepository) Insert(ctx context.Context, in model.ScheduleInput) (model.ScheduleItem, error) {
	start := time.Now()
	defer func() { metrics.RecordDBQueryDuration("insert", "schedule", time.Since(start)) }()

	it := model.ScheduleItem{
		ID:        uuid.NewString(),
		TaskID:    in.TaskID,
		Title:     in.Title,
		StartTime: in.StartTime,
		EndTime:   in.EndTime,
		Date:      in.Date,
		Notes:     in.Notes,
	}

	query := `
        INSERT INTO schedule (id, task_id, title, start_time, end_time, date, notes)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING created_at
    `
	err := r.db.QueryRow(ctx, query,
		it.ID, it.TaskID, it.Title, it.StartTime, it.EndTime, it.Date, it.Notes,
	).Scan(&it.CreatedAt)
	if err != nil {
		r.logger.Error("Failed to insert schedule item",
			zap.Error(err),
			zap.String("title", it.Title),
		)
		return model.ScheduleItem{}, err
	}

	r.logger.Info("Schedule item inserted successfully",
		zap.String("schedule_id", it.ID),
		zap.String("date", it.Date),
	)
	return it, nil
}

func (r *ScheduleRepository) Update(ctx context.Context, id string, in model.ScheduleInput) (model.ScheduleItem, error) {
	start := time.Now()
	defer func() { metrics.RecordDBQueryDuration("update", "schedule", time.Since(start)) }()

	query := `
        UPDATE schedule
        SET task_id = $2, title = $3, start_time = $4, end_time = $5, date = $6, notes = $7
        WHERE id = $1
        RETURNING id, task_id, title, start_time, end_time, date, notes, created_at
    `
	var it model.ScheduleItem
	err := r.db.QueryRow(ctx, query,
		id, in.TaskID, in.Title, in.StartTime, in.EndTime, in.Date, in.Notes,
	).Scan(&it.ID, &it.TaskID, &it.Title, &it.StartTime, &it.EndTime, &it.Date, &it.Notes, &it.CreatedAt)
	if err != nil {
		r.logger.Error("Failed to update schedule item",
			zap.Error(err),
			zap.String("schedule_id", id),
		)
		return model.ScheduleItem{}, err
	}

	r.logger.Info("Schedule item updated successfully", zap.String("schedule_id", id))
	return it, nil
}

func (r *ScheduleRepository) Delete(ctx context.Context, id string) error {
	start := time.Now()
	defer func() { metrics.RecordDBQueryDuration("delete", "schedule", time.Since(start)) }()

	result, err := r.db.Exec(ctx, `DELETE FROM schedule WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete schedule item",
			zap.Error(err),
			zap.String("schedule_id", id),
		)
		return err
	}

	r.logger.Info("Schedule item deleted",
		zap.String("schedule_id", id),
		zap.Int64("rows_affected", result.RowsAffected()),
	)
	return nil
}
