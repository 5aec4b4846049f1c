package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/echobloom/echobloom-backend/internal/domain/entity"
	"github.com/echobloom/echobloom-backend/internal/domain/repository"
)

const echoColumns = `id, user_id, content, audio_url, seed_type, mood_score,
	emotion_tags, response, growth_stage, analysis_pending, created_at`

type echoRepository struct {
	pool *pgxpool.Pool
}

// NewEchoRepository builds the pgx-backed echo store.
func NewEchoRepository(pool *pgxpool.Pool) repository.EchoRepository {
	return &echoRepository{pool: pool}
}

func (r *echoRepository) Create(ctx context.Context, e *entity.Echo) error {
	const q = `
		INSERT INTO echoes (id, user_id, content, audio_url, seed_type, mood_score,
			emotion_tags, response, growth_stage, analysis_pending, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now())
		RETURNING created_at`
	err := r.pool.QueryRow(ctx, q,
		e.ID, e.UserID, e.Content, e.AudioURL, e.SeedType, e.MoodScore,
		e.EmotionTags, e.Response, e.GrowthStage, e.AnalysisPending,
	).Scan(&e.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert echo: %w", err)
	}
	return nil
}

func (r *echoRepository) GetByID(ctx context.Context, id string) (*entity.Echo, error) {
	q := `SELECT ` + echoColumns + ` FROM echoes WHERE id = $1`
	e, err := scanEcho(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *echoRepository) ListRecent(ctx context.Context, userID string, limit int) ([]*entity.Echo, error) {
	q := `SELECT ` + echoColumns + ` FROM echoes
		WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`
	rows, err := r.pool.Query(ctx, q, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list echoes: %w", err)
	}
	defer rows.Close()
	return collectEchoes(rows)
}

func (r *echoRepository) ListSince(ctx context.Context, userID string, since time.Time) ([]*entity.Echo, error) {
	q := `SELECT ` + echoColumns + ` FROM echoes
		WHERE user_id = $1 AND created_at >= $2 ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, q, userID, since)
	if err != nil {
		return nil, fmt.Errorf("list echoes since: %w", err)
	}
	defer rows.Close()
	return collectEchoes(rows)
}

func (r *echoRepository) CountByStage(ctx context.Context, userID string) (map[string]int, error) {
	const q = `SELECT growth_stage, count(*) FROM echoes WHERE user_id = $1 GROUP BY growth_stage`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("count echoes by stage: %w", err)
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var (
			stage string
			n     int
		)
		if err := rows.Scan(&stage, &n); err != nil {
			return nil, fmt.Errorf("scan stage count: %w", err)
		}
		counts[stage] = n
	}
	return counts, rows.Err()
}

func (r *echoRepository) UpdateAnalysis(ctx context.Context, id string, moodScore float64, tags []string, response, stage string) error {
	const q = `
		UPDATE echoes SET mood_score = $2, emotion_tags = $3, response = $4,
			growth_stage = $5, analysis_pending = false
		WHERE id = $1`
	tag, err := r.pool.Exec(ctx, q, id, moodScore, tags, response, stage)
	if err != nil {
		return fmt.Errorf("update echo analysis: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *echoRepository) Latest(ctx context.Context, userID string) (*entity.Echo, error) {
	q := `SELECT ` + echoColumns + ` FROM echoes
		WHERE user_id = $1 ORDER BY created_at DESC LIMIT 1`
	return scanEcho(r.pool.QueryRow(ctx, q, userID))
}

func scanEcho(row pgx.Row) (*entity.Echo, error) {
	var e entity.Echo
	err := row.Scan(
		&e.ID, &e.UserID, &e.Content, &e.AudioURL, &e.SeedType, &e.MoodScore,
		&e.EmotionTags, &e.Response, &e.GrowthStage, &e.AnalysisPending, &e.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan echo: %w", err)
	}
	return &e, nil
}

func collectEchoes(rows pgx.Rows) ([]*entity.Echo, error) {
	var out []*entity.Echo
	for rows.Next() {
		e, err := scanEcho(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
