package repository

import (
	"context"
	"time"

	"github.com/echobloom/echobloom-backend/internal/domain/entity"
)

// EchoRepository persists journal entries.
type EchoRepository interface {
	Create(ctx context.Context, e *entity.Echo) error
	GetByID(ctx context.Context, id string) (*entity.Echo, error)
	// ListRecent returns the newest echoes for a user, newest first.
	ListRecent(ctx context.Context, userID string, limit int) ([]*entity.Echo, error)
	// ListSince returns echoes created at or after the cutoff, oldest first.
	ListSince(ctx context.Context, userID string, since time.Time) ([]*entity.Echo, error)
	CountByStage(ctx context.Context, userID string) (map[string]int, error)
	// UpdateAnalysis stores the worker's verdict for one echo.
	UpdateAnalysis(ctx context.Context, id string, moodScore float64, tags []string, response, stage string) error
	Latest(ctx context.Context, userID string) (*entity.Echo, error)
}

// ActivityRepository persists completed wellness sessions.
type ActivityRepository interface {
	Create(ctx context.Context, a *entity.Activity) error
	ListSince(ctx context.Context, userID string, since time.Time) ([]*entity.Activity, error)
	CountByKind(ctx context.Context, userID string) (map[string]int, error)
}
