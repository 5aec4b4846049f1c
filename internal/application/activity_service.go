package application

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/echobloom/echobloom-backend/internal/domain/entity"
	"github.com/echobloom/echobloom-backend/internal/domain/repository"
)

var ErrUnknownActivityKind = errors.New("unknown activity kind")

// ActivityStats summarizes the gardener's wellness sessions.
type ActivityStats struct {
	TotalSessions int            `json:"total_sessions"`
	ByKind        map[string]int `json:"by_kind"`
	ThisWeek      int            `json:"this_week"`
	MinutesTotal  int            `json:"minutes_total"`
}

// ActivityService records completed wellness sessions.
type ActivityService struct {
	activities repository.ActivityRepository
	profiles   repository.ProfileRepository
	log        *logrus.Logger
}

func NewActivityService(
	activities repository.ActivityRepository,
	profiles repository.ProfileRepository,
	log *logrus.Logger,
) *ActivityService {
	return &ActivityService{activities: activities, profiles: profiles, log: log}
}

// Record stores a finished session. Gratitude sessions bump the profile's
// gratitude counter.
func (s *ActivityService) Record(ctx context.Context, userID, kind string, durationSeconds int, note string) (*entity.Activity, error) {
	valid := false
	for _, k := range entity.ActivityKinds {
		if k == kind {
			valid = true
			break
		}
	}
	if !valid {
		return nil, ErrUnknownActivityKind
	}

	a := &entity.Activity{
		ID:              uuid.NewString(),
		UserID:          userID,
		Kind:            kind,
		DurationSeconds: durationSeconds,
		Note:            note,
	}
	if err := s.activities.Create(ctx, a); err != nil {
		return nil, err
	}

	if kind == entity.ActivityGratitude {
		if p, err := s.profiles.GetByUserID(ctx, userID); err == nil {
			p.GratitudeCount++
			if err := s.profiles.Update(ctx, p); err != nil {
				s.log.WithError(err).Warn("gratitude counter update failed")
			}
		}
	}
	return a, nil
}

// Stats aggregates the gardener's session history.
func (s *ActivityService) Stats(ctx context.Context, userID string) (*ActivityStats, error) {
	byKind, err := s.activities.CountByKind(ctx, userID)
	if err != nil {
		return nil, err
	}

	weekAgo := time.Now().UTC().AddDate(0, 0, -7)
	recent, err := s.activities.ListSince(ctx, userID, weekAgo)
	if err != nil {
		return nil, err
	}

	allTime, err := s.activities.ListSince(ctx, userID, time.Time{})
	if err != nil {
		return nil, err
	}

	total, seconds := 0, 0
	for _, n := range byKind {
		total += n
	}
	for _, a := range allTime {
		seconds += a.DurationSeconds
	}

	return &ActivityStats{
		TotalSessions: total,
		ByKind:        byKind,
		ThisWeek:      len(recent),
		MinutesTotal:  seconds / 60,
	}, nil
}
