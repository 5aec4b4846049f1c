package repository

import (
	"context"

	"github.com/echobloom/echobloom-backend/internal/domain/entity"
)

// FusionRepository keeps the emotion-alchemy experiment log.
type FusionRepository interface {
	Create(ctx context.Context, f *entity.Fusion) error
	ListRecent(ctx context.Context, userID string, limit int) ([]*entity.Fusion, error)
}

// AffirmationRepository keeps the gardener's woven affirmation vault.
type AffirmationRepository interface {
	Create(ctx context.Context, a *entity.Affirmation) error
	ListRecent(ctx context.Context, userID string, limit int) ([]*entity.Affirmation, error)
}
