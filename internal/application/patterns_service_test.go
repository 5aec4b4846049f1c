package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/echobloom/echobloom-backend/internal/domain/entity"
)

func newPatternsService(echoes *echoRepoStub, profiles *profileRepoStub) *PatternsService {
	insights := NewInsightService(echoes, &activityRepoStub{}, testLogger())
	return NewPatternsService(insights, profiles, failingGen(), testLogger())
}

// weeklyPattern plants lowMood echoes on one weekday and highMood echoes the
// day before, for the given number of weeks back from today.
func weeklyPattern(weeks int, lowMood, highMood float64) []*entity.Echo {
	now := time.Now().UTC()
	var out []*entity.Echo
	for i := 0; i < weeks; i++ {
		out = append(out,
			echoAt(now.AddDate(0, 0, -7*i), lowMood),
			echoAt(now.AddDate(0, 0, -7*i-1), highMood),
		)
	}
	return out
}

func TestPredictNeedsTwoWeeksOfData(t *testing.T) {
	repo := &echoRepoStub{echoes: weeklyPattern(3, -0.5, 0.3)}
	svc := newPatternsService(repo, &profileRepoStub{})

	result, err := svc.Predict(context.Background(), "u1")
	require.NoError(t, err)
	assert.False(t, result.HasPredictions)
	assert.Equal(t, 6, result.EchoCount)
	assert.Equal(t, minEchoesForPrediction, result.MinRequired)
	assert.Contains(t, result.Message, "2 weeks")
}

func TestPredictNoChallengingDays(t *testing.T) {
	repo := &echoRepoStub{echoes: weeklyPattern(8, 0.2, 0.4)}
	svc := newPatternsService(repo, &profileRepoStub{})

	result, err := svc.Predict(context.Background(), "u1")
	require.NoError(t, err)
	assert.False(t, result.HasPredictions)
	assert.Contains(t, result.Message, "varied")
	require.NotNil(t, result.PatternAnalysis)
}

func TestPredictBuildsShieldStories(t *testing.T) {
	repo := &echoRepoStub{echoes: weeklyPattern(8, -0.5, 0.4)}
	profiles := &profileRepoStub{profile: &entity.Profile{UserID: "u1", WellnessScore: 45}}
	svc := newPatternsService(repo, profiles)

	result, err := svc.Predict(context.Background(), "u1")
	require.NoError(t, err)
	assert.True(t, result.HasPredictions)
	require.Len(t, result.Predictions, 1)

	p := result.Predictions[0]
	lowDay := time.Now().UTC().Weekday().String()
	assert.Equal(t, lowDay, p.PredictedDay)
	assert.Equal(t, lowDay, p.NextDate.Weekday().String())
	assert.False(t, p.Generated)
	assert.Equal(t, "Dawn Weave for "+lowDay, p.ShieldStory.Title)
	require.Len(t, p.ShieldStory.MicroRituals, 3)
	assert.Equal(t, 1.0, p.Confidence)
}

func TestNextOccurrence(t *testing.T) {
	svc := newPatternsService(&echoRepoStub{}, &profileRepoStub{})
	thursday := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return thursday }

	t.Run("upcoming weekday", func(t *testing.T) {
		next := svc.nextOccurrence("Monday")
		assert.Equal(t, time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC), next)
	})

	t.Run("today rolls a full week", func(t *testing.T) {
		next := svc.nextOccurrence("Thursday")
		assert.Equal(t, time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC), next)
	})
}

func TestDawnDrawer(t *testing.T) {
	repo := &echoRepoStub{echoes: weeklyPattern(8, -0.5, 0.4)}
	profiles := &profileRepoStub{profile: &entity.Profile{UserID: "u1", WellnessScore: 45}}
	svc := newPatternsService(repo, profiles)

	alerts, message, err := svc.DawnDrawer(context.Background(), "u1")
	require.NoError(t, err)
	assert.Empty(t, message)
	require.Len(t, alerts, 1)
	assert.Equal(t, 7, alerts[0].DaysAway)
	assert.False(t, alerts[0].IsUrgent)
	assert.Contains(t, alerts[0].AlertMessage, "7 days away")
}
