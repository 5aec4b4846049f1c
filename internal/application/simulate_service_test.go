package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/echobloom/echobloom-backend/internal/domain/entity"
)

func TestCalculateTrajectory(t *testing.T) {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)

	t.Run("empty garden", func(t *testing.T) {
		tr := CalculateTrajectory(nil, nil, now)
		assert.Equal(t, "neutral", tr.Trend)
		assert.Zero(t, tr.EchoCount)
	})

	t.Run("improving against the older window", func(t *testing.T) {
		// Newest 14 at 0.4, older 14 at 0.0.
		var scores []float64
		for i := 0; i < 14; i++ {
			scores = append(scores, 0.4)
		}
		for i := 0; i < 14; i++ {
			scores = append(scores, 0.0)
		}
		tr := CalculateTrajectory(moodEchoes(scores...), nil, now)
		assert.Equal(t, "improving", tr.Trend)
		assert.InDelta(t, 0.4, tr.BaselineMood, 1e-9)
		assert.Equal(t, 1.0, tr.Consistency)
		assert.Equal(t, 28, tr.EchoCount)
	})

	t.Run("stable with few echoes", func(t *testing.T) {
		tr := CalculateTrajectory(moodEchoes(0.2, 0.1, 0.3), nil, now)
		assert.Equal(t, "stable", tr.Trend)
		assert.InDelta(t, 3.0/14, tr.Consistency, 1e-9)
	})

	t.Run("activity frequency counts last seven days", func(t *testing.T) {
		activities := []*entity.Activity{
			{Kind: "breathing", CompletedAt: now.AddDate(0, 0, -2)},
			{Kind: "journal", CompletedAt: now.AddDate(0, 0, -6)},
			{Kind: "gratitude", CompletedAt: now.AddDate(0, 0, -10)},
		}
		tr := CalculateTrajectory(moodEchoes(0.1, 0.1, 0.1), activities, now)
		assert.Equal(t, 2, tr.ActivityFrequency)
	})
}

func TestFuturesFallback(t *testing.T) {
	repo := &echoRepoStub{echoes: moodEchoes(0.1, 0.2, -0.1)}
	profiles := &profileRepoStub{profile: &entity.Profile{UserID: "u1", WellnessScore: 55}}
	svc := NewSimulateService(repo, &activityRepoStub{}, profiles, failingGen(), testLogger())

	result, err := svc.Futures(context.Background(), "u1", "What if I journal every morning?", 30)
	require.NoError(t, err)
	assert.False(t, result.Generated)
	require.Len(t, result.Simulations.Scenarios, 3)
	assert.Equal(t, "pessimistic", result.Simulations.Scenarios[0].Type)
	assert.Equal(t, -8, result.Simulations.Scenarios[0].WellnessDelta)
	assert.Equal(t, 7, result.Simulations.Scenarios[1].WellnessDelta)
	assert.Equal(t, 18, result.Simulations.Scenarios[2].WellnessDelta)
	assert.NotEmpty(t, result.Simulations.SuggestedFirstStep)
	assert.Equal(t, "What if I journal every morning?", result.WhatIfScenario)
}

func TestSuggestedScenariosDefaults(t *testing.T) {
	svc := NewSimulateService(&echoRepoStub{}, &activityRepoStub{}, &profileRepoStub{}, failingGen(), testLogger())

	suggestions, err := svc.SuggestedScenarios(context.Background(), "u1")
	require.NoError(t, err)
	assert.Len(t, suggestions.Suggestions, 3)
	assert.NotEmpty(t, suggestions.Note)
}

func TestSuggestedScenariosLowMood(t *testing.T) {
	echoes := moodEchoes(-0.4, -0.3, -0.5, -0.2)
	for _, e := range echoes {
		e.EmotionTags = []string{"Anxiety"}
	}
	svc := NewSimulateService(&echoRepoStub{echoes: echoes}, &activityRepoStub{}, &profileRepoStub{}, failingGen(), testLogger())

	suggestions, err := svc.SuggestedScenarios(context.Background(), "u1")
	require.NoError(t, err)
	assert.NotEmpty(t, suggestions.Suggestions)
	assert.LessOrEqual(t, len(suggestions.Suggestions), 6)
	assert.NotNil(t, suggestions.BasedOn)
}
