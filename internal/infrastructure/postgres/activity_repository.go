package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/echobloom/echobloom-backend/internal/domain/entity"
	"github.com/echobloom/echobloom-backend/internal/domain/repository"
)

type activityRepository struct {
	pool *pgxpool.Pool
}

// NewActivityRepository builds the pgx-backed activity store.
func NewActivityRepository(pool *pgxpool.Pool) repository.ActivityRepository {
	return &activityRepository{pool: pool}
}

func (r *activityRepository) Create(ctx context.Context, a *entity.Activity) error {
	const q = `
		INSERT INTO activities (id, user_id, kind, duration_seconds, note, completed_at)
		VALUES ($1, $2, $3, $4, $5, now())
		RETURNING completed_at`
	err := r.pool.QueryRow(ctx, q, a.ID, a.UserID, a.Kind, a.DurationSeconds, a.Note).
		Scan(&a.CompletedAt)
	if err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}

func (r *activityRepository) ListSince(ctx context.Context, userID string, since time.Time) ([]*entity.Activity, error) {
	const q = `
		SELECT id, user_id, kind, duration_seconds, note, completed_at
		FROM activities WHERE user_id = $1 AND completed_at >= $2
		ORDER BY completed_at ASC`
	rows, err := r.pool.Query(ctx, q, userID, since)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	defer rows.Close()

	var out []*entity.Activity
	for rows.Next() {
		var a entity.Activity
		if err := rows.Scan(&a.ID, &a.UserID, &a.Kind, &a.DurationSeconds, &a.Note, &a.CompletedAt); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}

func (r *activityRepository) CountByKind(ctx context.Context, userID string) (map[string]int, error) {
	const q = `SELECT kind, count(*) FROM activities WHERE user_id = $1 GROUP BY kind`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("count activities: %w", err)
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var (
			kind string
			n    int
		)
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, fmt.Errorf("scan activity count: %w", err)
		}
		counts[kind] = n
	}
	return counts, rows.Err()
}
