package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/echobloom/echobloom-backend/internal/domain/entity"
	"github.com/echobloom/echobloom-backend/internal/domain/repository"
)

type fusionRepository struct {
	pool *pgxpool.Pool
}

// NewFusionRepository builds the pgx-backed fusion log.
func NewFusionRepository(pool *pgxpool.Pool) repository.FusionRepository {
	return &fusionRepository{pool: pool}
}

func (r *fusionRepository) Create(ctx context.Context, f *entity.Fusion) error {
	result, err := json.Marshal(f.Result)
	if err != nil {
		return fmt.Errorf("marshal fusion result: %w", err)
	}
	const q = `
		INSERT INTO fusions (id, user_id, emotion_a, emotion_b, result, created_at)
		VALUES ($1, $2, $3, $4, $5, now())
		RETURNING created_at`
	err = r.pool.QueryRow(ctx, q, f.ID, f.UserID, f.EmotionA, f.EmotionB, result).
		Scan(&f.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert fusion: %w", err)
	}
	return nil
}

func (r *fusionRepository) ListRecent(ctx context.Context, userID string, limit int) ([]*entity.Fusion, error) {
	const q = `
		SELECT id, user_id, emotion_a, emotion_b, result, created_at
		FROM fusions WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`
	rows, err := r.pool.Query(ctx, q, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list fusions: %w", err)
	}
	defer rows.Close()

	var out []*entity.Fusion
	for rows.Next() {
		var (
			f   entity.Fusion
			raw []byte
		)
		if err := rows.Scan(&f.ID, &f.UserID, &f.EmotionA, &f.EmotionB, &raw, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan fusion: %w", err)
		}
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &f.Result); err != nil {
				return nil, fmt.Errorf("unmarshal fusion result: %w", err)
			}
		}
		out = append(out, &f)
	}
	return out, rows.Err()
}

type affirmationRepository struct {
	pool *pgxpool.Pool
}

// NewAffirmationRepository builds the pgx-backed affirmation vault.
func NewAffirmationRepository(pool *pgxpool.Pool) repository.AffirmationRepository {
	return &affirmationRepository{pool: pool}
}

func (r *affirmationRepository) Create(ctx context.Context, a *entity.Affirmation) error {
	weaving, err := json.Marshal(a.Weaving)
	if err != nil {
		return fmt.Errorf("marshal weaving: %w", err)
	}
	const q = `
		INSERT INTO affirmations (id, user_id, echo_id, weaving, created_at)
		VALUES ($1, $2, $3, $4, now())
		RETURNING created_at`
	err = r.pool.QueryRow(ctx, q, a.ID, a.UserID, a.EchoID, weaving).Scan(&a.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert affirmation: %w", err)
	}
	return nil
}

func (r *affirmationRepository) ListRecent(ctx context.Context, userID string, limit int) ([]*entity.Affirmation, error) {
	const q = `
		SELECT id, user_id, echo_id, weaving, created_at
		FROM affirmations WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`
	rows, err := r.pool.Query(ctx, q, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list affirmations: %w", err)
	}
	defer rows.Close()

	var out []*entity.Affirmation
	for rows.Next() {
		var (
			a   entity.Affirmation
			raw []byte
		)
		if err := rows.Scan(&a.ID, &a.UserID, &a.EchoID, &raw, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan affirmation: %w", err)
		}
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &a.Weaving); err != nil {
				return nil, fmt.Errorf("unmarshal weaving: %w", err)
			}
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}
