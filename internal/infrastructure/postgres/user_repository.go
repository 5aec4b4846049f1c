package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/echobloom/echobloom-backend/internal/domain/entity"
	"github.com/echobloom/echobloom-backend/internal/domain/repository"
)

// ErrNotFound is returned when a row does not exist.
var ErrNotFound = errors.New("record not found")

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository builds the pgx-backed user store.
func NewUserRepository(pool *pgxpool.Pool) repository.UserRepository {
	return &userRepository{pool: pool}
}

func (r *userRepository) Create(ctx context.Context, u *entity.User) error {
	const q = `
		INSERT INTO users (id, email, password, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, now(), now())
		RETURNING created_at, updated_at`
	err := r.pool.QueryRow(ctx, q, u.ID, u.Email, u.Password, u.Name).
		Scan(&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	const q = `
		SELECT id, email, password, name, created_at, updated_at
		FROM users WHERE email = $1`
	return r.scanOne(ctx, q, email)
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	const q = `
		SELECT id, email, password, name, created_at, updated_at
		FROM users WHERE id = $1`
	return r.scanOne(ctx, q, id)
}

func (r *userRepository) scanOne(ctx context.Context, q string, arg any) (*entity.User, error) {
	var u entity.User
	err := r.pool.QueryRow(ctx, q, arg).
		Scan(&u.ID, &u.Email, &u.Password, &u.Name, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select user: %w", err)
	}
	return &u, nil
}

type profileRepository struct {
	pool *pgxpool.Pool
}

// NewProfileRepository builds the pgx-backed profile store.
func NewProfileRepository(pool *pgxpool.Pool) repository.ProfileRepository {
	return &profileRepository{pool: pool}
}

func (r *profileRepository) Create(ctx context.Context, p *entity.Profile) error {
	prefs, err := json.Marshal(orEmptyMap(p.RitualPreferences))
	if err != nil {
		return fmt.Errorf("marshal ritual preferences: %w", err)
	}
	const q = `
		INSERT INTO user_profiles (
			user_id, total_echoes, current_streak, longest_streak, mood_average,
			wellness_score, achievements, weekly_active_days, monthly_reflections,
			gratitude_count, ritual_preferences, mood_trend_direction, last_active, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, now(), now())
		RETURNING last_active, created_at`
	err = r.pool.QueryRow(ctx, q,
		p.UserID, p.TotalEchoes, p.CurrentStreak, p.LongestStreak, p.MoodAverage,
		p.WellnessScore, p.Achievements, p.WeeklyActiveDays, p.MonthlyReflections,
		p.GratitudeCount, prefs, p.MoodTrendDirection,
	).Scan(&p.LastActive, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert profile: %w", err)
	}
	return nil
}

func (r *profileRepository) GetByUserID(ctx context.Context, userID string) (*entity.Profile, error) {
	const q = `
		SELECT user_id, total_echoes, current_streak, longest_streak, mood_average,
		       wellness_score, achievements, weekly_active_days, monthly_reflections,
		       gratitude_count, ritual_preferences, mood_trend_direction, last_active, created_at
		FROM user_profiles WHERE user_id = $1`
	var (
		p     entity.Profile
		prefs []byte
	)
	err := r.pool.QueryRow(ctx, q, userID).Scan(
		&p.UserID, &p.TotalEchoes, &p.CurrentStreak, &p.LongestStreak, &p.MoodAverage,
		&p.WellnessScore, &p.Achievements, &p.WeeklyActiveDays, &p.MonthlyReflections,
		&p.GratitudeCount, &prefs, &p.MoodTrendDirection, &p.LastActive, &p.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select profile: %w", err)
	}
	if len(prefs) > 0 {
		if err := json.Unmarshal(prefs, &p.RitualPreferences); err != nil {
			return nil, fmt.Errorf("unmarshal ritual preferences: %w", err)
		}
	}
	if p.RitualPreferences == nil {
		p.RitualPreferences = map[string]any{}
	}
	return &p, nil
}

func (r *profileRepository) Update(ctx context.Context, p *entity.Profile) error {
	prefs, err := json.Marshal(orEmptyMap(p.RitualPreferences))
	if err != nil {
		return fmt.Errorf("marshal ritual preferences: %w", err)
	}
	const q = `
		UPDATE user_profiles SET
			total_echoes = $2, current_streak = $3, longest_streak = $4, mood_average = $5,
			wellness_score = $6, achievements = $7, weekly_active_days = $8,
			monthly_reflections = $9, gratitude_count = $10, ritual_preferences = $11,
			mood_trend_direction = $12, last_active = now()
		WHERE user_id = $1`
	tag, err := r.pool.Exec(ctx, q,
		p.UserID, p.TotalEchoes, p.CurrentStreak, p.LongestStreak, p.MoodAverage,
		p.WellnessScore, p.Achievements, p.WeeklyActiveDays, p.MonthlyReflections,
		p.GratitudeCount, prefs, p.MoodTrendDirection,
	)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *profileRepository) UpdatePreferences(ctx context.Context, userID string, prefs map[string]any) error {
	raw, err := json.Marshal(orEmptyMap(prefs))
	if err != nil {
		return fmt.Errorf("marshal ritual preferences: %w", err)
	}
	const q = `UPDATE user_profiles SET ritual_preferences = $2, last_active = now() WHERE user_id = $1`
	tag, err := r.pool.Exec(ctx, q, userID, raw)
	if err != nil {
		return fmt.Errorf("update preferences: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func orEmptyMap(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}
