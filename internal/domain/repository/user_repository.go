package repository

import (
	"context"

	"github.com/echobloom/echobloom-backend/internal/domain/entity"
)

// UserRepository persists gardener accounts.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByID(ctx context.Context, id string) (*entity.User, error)
}

// ProfileRepository persists the aggregate wellness state per gardener.
type ProfileRepository interface {
	Create(ctx context.Context, p *entity.Profile) error
	GetByUserID(ctx context.Context, userID string) (*entity.Profile, error)
	Update(ctx context.Context, p *entity.Profile) error
	UpdatePreferences(ctx context.Context, userID string, prefs map[string]any) error
}
