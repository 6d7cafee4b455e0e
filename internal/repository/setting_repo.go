package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/PradyunT/catapult-project/internal/model"
	"github.com/PradyunT/catapult-project/pkg/metrics"
)

type SettingRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewSettingRepository(db *pgxpool.Pool, logger *zap.Logger) *SettingRepository {
	return &SettingRepository{db: db, logger: logger}
}

func (r *SettingRepository) Get(ctx context.Context, key string) (model.Setting, error) {
	start := time.Now()
	defer func() { metrics.RecordDBQueryDuration("get", "system_settings", time.Since(start)) }()

	query := `
        SELECT key, value, updated_at
        FROM system_settings
        WHERE key = $1
    `
	var s model.Setting
	err := r.db.QueryRow(ctx, query, key).Scan(&s.Key, &s.Value, &s.UpdatedAt)
	if err != nil {
		r.logger.Error("Failed to get setting",
			zap.Error(err),
			zap.String("key", key),
		)
		return model.Setting{}, err
	}
	return s, nil
}

func (r *SettingRepository) Upsert(ctx context.Context, key string, value json.RawMessage) (model.Setting, error) {
	start := time.Now()
	defer func() { metrics.RecordDBQueryDuration("upsert", "system_settings", time.Since(start)) }()

	query := `
        INSERT INTO system_settings (key, value, updated_at)
        VALUES ($1, $2, NOW())
        ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
        RETURNING key, value, updated_at
    `
	var s model.Setting
	err := r.db.QueryRow(ctx, query, key, value).Scan(&s.Key, &s.Value, &s.UpdatedAt)
	if err != nil {
		r.logger.Error("Failed to upsert setting",
			zap.Error(err),
			zap.String("key", key),
		)
		return model.Setting{}, err
	}

	r.logger.Info("Setting upserted successfully", zap.String("key", key))
	return s, nil
}
