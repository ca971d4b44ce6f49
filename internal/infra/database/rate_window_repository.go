package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/xavierca1/lead-intake/internal/entity"
)

// RateWindowRepository shares rate-limit windows between instances. A hit
// is a single upsert, so the row lock orders concurrent attempts.
type RateWindowRepository struct {
	DB *sql.DB
}

func NewRateWindowRepository(db *sql.DB) *RateWindowRepository {
	return &RateWindowRepository{DB: db}
}

func (r *RateWindowRepository) Hit(ctx context.Context, key string, now time.Time, window time.Duration) (entity.RateWindow, error) {
	query := `
		INSERT INTO rate_limit_windows (key, attempts, reset_at)
		VALUES ($1, 1, $2)
		ON CONFLICT (key)
		DO UPDATE SET
			attempts = CASE WHEN rate_limit_windows.reset_at <= $3 THEN 1 ELSE rate_limit_windows.attempts + 1 END,
			reset_at = CASE WHEN rate_limit_windows.reset_at <= $3 THEN EXCLUDED.reset_at ELSE rate_limit_windows.reset_at END
		RETURNING attempts, reset_at
	`
	var w entity.RateWindow
	err := r.DB.QueryRowContext(ctx, query, key, now.Add(window), now).Scan(&w.Attempts, &w.ResetAt)
	if err != nil {
		return entity.RateWindow{}, fmt.Errorf("hit rate window: %w", err)
	}
	return w, nil
}

func (r *RateWindowRepository) Sweep(ctx context.Context, now time.Time) (int, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM rate_limit_windows WHERE reset_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("sweep rate windows: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}
