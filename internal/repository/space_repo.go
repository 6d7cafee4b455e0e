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

type SpaceRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewSpaceRepository(db *pgxpool.Pool, logger *zap.Logger) *SpaceRepository {
	return &SpaceRepository{db: db, logger: logger}
}

func (r *SpaceRepository) List(ctx context.Context) ([]model.Space, error) {
	start := time.Now()
	defer func() { metrics.RecordDBQueryDuration("list", "spaces", time.Since(start)) }()

	query := `
        SELECT id, title, description, color, created_at
        FROM spaces
        ORDER BY title ASC
    `
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.logger.Error("Failed to query spaces", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	spaces := []model.Space{}
	for rows.Next() {
		var s model.Space
		if err := rows.Scan(&s.ID, &s.Title, &s.Description, &s.Color, &s.CreatedAt); err != nil {
			return nil, err
		}
		spaces = append(spaces, s)
	}
	return spaces, rows.Err()
}

func (r *SpaceRepository) GetByID(ctx context.Context, id string) (model.Space, error) {
	start := time.Now()
	defer func() { metrics.RecordDBQueryDuration("get", "spaces", time.Since(start)) }()

	query := `
        SELECT id, title, description, color, created_at
        FROM spaces
        WHERE id = $1
    `
	var s model.Space
	err := r.db.QueryRow(ctx, query, id).Scan(&s.ID, &s.Title, &s.Description, &s.Color, &s.CreatedAt)
	if err != nil {
		r.logger.Error("Failed to get space",
			zap.Error(err),
			zap.String("space_id", id),
		)
		return model.Space{}, err
	}
	return s, nil
}

func (r *SpaceRepository) Insert(ctx context.Context, in model.SpaceInput) (model.Space, error) {
	start := time.Now()
	defer func() { metrics.RecordDBQueryDuration("insert", "spaces", time.Since(start)) }()

	s := model.Space{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Description: in.Description,
		Color:       in.Color,
	}

	query := `
        INSERT INTO spaces (id, title, description, color)
        VALUES ($1, $2, $3, $4)
        RETURNING created_at
    `
	if err := r.db.QueryRow(ctx, query, s.ID, s.Title, s.Description, s.Color).Scan(&s.CreatedAt); err != nil {
		r.logger.Error("Failed to insert space",
			zap.Error(err),
			zap.String("title", s.Title),
		)
		return model.Space{}, err
	}

	r.logger.Info("Space inserted successfully",
		zap.String("space_id", s.ID),
		zap.String("title", s.Title),
	)
	return s, nil
}

func (r *SpaceRepository) Update(ctx context.Context, id string, in model.SpaceInput) (model.Space, error) {
	start := time.Now()
	defer func() { metrics.RecordDBQueryDuration("update", "spaces", time.Since(start)) }()

	query := `
        UPDATE spaces
        SET title = $2, description = $3, color = $4
        WHERE id = $1
        RETURNING id, title, description, color, created_at
    `
	var s model.Space
	err := r.db.QueryRow(ctx, query, id, in.Title, in.Description, in.Color).
		Scan(&s.ID, &s.Title, &s.Description, &s.Color, &s.CreatedAt)
	if err != nil {
		r.logger.Error("Failed to update space",
			zap.Error(err),
			zap.String("space_id", id),
		)
		return model.Space{}, err
	}

	r.logger.Info("Space updated successfully", zap.String("space_id", id))
	return s, nil
}

func (r *SpaceRepository) Delete(ctx context.Context, id string) error {
	start := time.Now()
	defer func() { metrics.RecordDBQueryDuration("delete", "spaces", time.Since(start)) }()

	result, err := r.db.Exec(ctx, `DELETE FROM spaces WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete space",
			zap.Error(err),
			zap.String("space_id", id),
		)
		return err
	}

	r.logger.Info("Space deleted",
		zap.String("space_id", id),
		zap.Int64("rows_affected", result.RowsAffected()),
	)
	return nil
}

// TaskCount returns the number of tasks attached to a space.
func (r *SpaceRepository) TaskCount(ctx context.Context, id string) (int, error) {
	start := time.Now()
	defer func() { metrics.RecordDBQueryDuration("task_count", "spaces", time.Since(start)) }()

	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM tasks WHERE space_id = $1`, id).Scan(&count)
	if err != nil {
		r.logger.Error("Failed to count tasks for space",
			zap.Error(err),
			zap.String("space_id", id),
		)
		return 0, err
	}
	return count, nil
}
