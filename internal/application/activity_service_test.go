package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/echobloom/echobloom-backend/internal/domain/entity"
)

func TestRecordRejectsUnknownKind(t *testing.T) {
	svc := NewActivityService(&activityRepoStub{}, &profileRepoStub{}, testLogger())
	_, err := svc.Record(context.Background(), "u1", "yoga", 300, "")
	assert.ErrorIs(t, err, ErrUnknownActivityKind)
}

func TestRecordStoresSession(t *testing.T) {
	repo := &activityRepoStub{}
	svc := NewActivityService(repo, &profileRepoStub{}, testLogger())

	a, err := svc.Record(context.Background(), "u1", entity.ActivityBreathing, 300, "box breathing")
	require.NoError(t, err)
	assert.NotEmpty(t, a.ID)
	assert.Equal(t, entity.ActivityBreathing, a.Kind)
	require.Len(t, repo.created, 1)
}

func TestRecordGratitudeBumpsCounter(t *testing.T) {
	profiles := &profileRepoStub{profile: &entity.Profile{UserID: "u1", GratitudeCount: 2}}
	svc := NewActivityService(&activityRepoStub{}, profiles, testLogger())

	_, err := svc.Record(context.Background(), "u1", entity.ActivityGratitude, 120, "")
	require.NoError(t, err)
	require.NotNil(t, profiles.updated)
	assert.Equal(t, 3, profiles.updated.GratitudeCount)
}

func TestStats(t *testing.T) {
	now := time.Now().UTC()
	repo := &activityRepoStub{
		byKind: map[string]int{"breathing": 3, "gratitude": 2},
		activities: []*entity.Activity{
			{Kind: "breathing", DurationSeconds: 300, CompletedAt: now.AddDate(0, 0, -1)},
			{Kind: "breathing", DurationSeconds: 300, CompletedAt: now.AddDate(0, 0, -3)},
			{Kind: "gratitude", DurationSeconds: 120, CompletedAt: now.AddDate(0, 0, -20)},
		},
	}
	svc := NewActivityService(repo, &profileRepoStub{}, testLogger())

	stats, err := svc.Stats(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 5, stats.TotalSessions)
	assert.Equal(t, 2, stats.ThisWeek)
	assert.Equal(t, 12, stats.MinutesTotal)
	assert.Equal(t, 3, stats.ByKind["breathing"])
}
