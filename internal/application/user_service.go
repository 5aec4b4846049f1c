package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/echobloom/echobloom-backend/internal/domain/entity"
	"github.com/echobloom/echobloom-backend/internal/domain/repository"
	"github.com/echobloom/echobloom-backend/internal/infrastructure/postgres"
	"github.com/echobloom/echobloom-backend/pkg/helpers"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrSessionExpired     = errors.New("session expired")
)

// Session is the server-side login record kept in Redis.
type Session struct {
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// TokenPair carries freshly minted access and refresh tokens.
type TokenPair struct {
	SessionID  string
	Access     string
	AccessExp  time.Time
	Refresh    string
	RefreshExp time.Time
}

func sessionKey(sessionID string) string {
	return "user:session:" + sessionID
}

// UserService handles accounts, login sessions and ritual preferences.
type UserService struct {
	users    repository.UserRepository
	profiles repository.ProfileRepository
	rdb      *redis.Client
	jwt      *helpers.JWTManager
	log      *logrus.Logger
}

func NewUserService(
	users repository.UserRepository,
	profiles repository.ProfileRepository,
	rdb *redis.Client,
	jwt *helpers.JWTManager,
	log *logrus.Logger,
) *UserService {
	return &UserService{users: users, profiles: profiles, rdb: rdb, jwt: jwt, log: log}
}

// Register creates the account plus an empty wellness profile.
func (s *UserService) Register(ctx context.Context, email, password, name string) (*entity.User, error) {
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, postgres.ErrNotFound) {
		return nil, err
	}

	hash, err := helpers.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &entity.User{
		ID:       uuid.NewString(),
		Email:    email,
		Password: hash,
		Name:     name,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}

	p := &entity.Profile{
		UserID:             u.ID,
		WellnessScore:      50,
		Achievements:       []string{},
		RitualPreferences:  map[string]any{},
		MoodTrendDirection: entity.TrendStable,
	}
	if err := s.profiles.Create(ctx, p); err != nil {
		return nil, err
	}

	s.log.WithField("user_id", u.ID).Info("gardener registered")
	return u, nil
}

// Login verifies credentials, opens a Redis session and mints tokens.
func (s *UserService) Login(ctx context.Context, email, password string) (*entity.User, *TokenPair, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, postgres.ErrNotFound) {
		return nil, nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, nil, err
	}
	if err := helpers.VerifyPassword(u.Password, password); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := s.openSession(ctx, u.ID)
	if err != nil {
		return nil, nil, err
	}
	return u, pair, nil
}

// Refresh rotates both tokens for an existing session.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.jwt.ParseRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrSessionExpired
	}

	var sess Session
	found, err := helpers.RedisGetJSON(ctx, s.rdb, sessionKey(claims.SessionID), &sess)
	if err != nil {
		return nil, err
	}
	if !found || sess.UserID != claims.UserID {
		return nil, ErrSessionExpired
	}

	access, accessExp, err := s.jwt.GenerateAccessToken(claims.UserID, claims.SessionID)
	if err != nil {
		return nil, err
	}
	refresh, refreshExp, err := s.jwt.GenerateRefreshToken(claims.UserID, claims.SessionID)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		SessionID:  claims.SessionID,
		Access:     access,
		AccessExp:  accessExp,
		Refresh:    refresh,
		RefreshExp: refreshExp,
	}, nil
}

// Logout drops the Redis session.
func (s *UserService) Logout(ctx context.Context, sessionID string) error {
	return helpers.RedisDel(ctx, s.rdb, sessionKey(sessionID))
}

// SessionUser resolves a session ID back to its owner, if the session lives.
func (s *UserService) SessionUser(ctx context.Context, sessionID string) (string, error) {
	var sess Session
	found, err := helpers.RedisGetJSON(ctx, s.rdb, sessionKey(sessionID), &sess)
	if err != nil {
		return "", err
	}
	if !found {
		return "", ErrSessionExpired
	}
	return sess.UserID, nil
}

// Me returns the account and its wellness profile.
func (s *UserService) Me(ctx context.Context, userID string) (*entity.User, *entity.Profile, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	p, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return u, p, nil
}

// UpdatePreferences replaces the gardener's ritual preferences.
func (s *UserService) UpdatePreferences(ctx context.Context, userID string, prefs map[string]any) error {
	return s.profiles.UpdatePreferences(ctx, userID, prefs)
}

func (s *UserService) openSession(ctx context.Context, userID string) (*TokenPair, error) {
	sessionID := uuid.NewString()
	sess := Session{UserID: userID, CreatedAt: time.Now().UTC()}
	if err := helpers.RedisSetJSON(ctx, s.rdb, sessionKey(sessionID), sess, s.jwt.RefreshTTL); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	access, accessExp, err := s.jwt.GenerateAccessToken(userID, sessionID)
	if err != nil {
		return nil, err
	}
	refresh, refreshExp, err := s.jwt.GenerateRefreshToken(userID, sessionID)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		SessionID:  sessionID,
		Access:     access,
		AccessExp:  accessExp,
		Refresh:    refresh,
		RefreshExp: refreshExp,
	}, nil
}
