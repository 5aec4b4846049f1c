package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/echobloom/echobloom-backend/internal/domain/entity"
)

func TestAnalyzeMoodPattern(t *testing.T) {
	tests := []struct {
		name        string
		scores      []float64
		wantType    string
		wantNeeds   bool
		wantSev     int
		wantLowDays int
	}{
		{
			name:     "fewer than three echoes",
			scores:   []float64{-0.5, -0.6},
			wantType: PatternInsufficientData,
		},
		{
			name:        "three low days trigger declining trend",
			scores:      []float64{-0.3, 0.1, -0.4, -0.5, 0.2},
			wantType:    PatternDecliningTrend,
			wantNeeds:   true,
			wantSev:     3,
			wantLowDays: 3,
		},
		{
			name:        "severity capped at five",
			scores:      []float64{-0.5, -0.5, -0.5, -0.5, -0.5, -0.5, -0.5},
			wantType:    PatternDecliningTrend,
			wantNeeds:   true,
			wantSev:     5,
			wantLowDays: 7,
		},
		{
			name:        "three low days among four echoes",
			scores:      []float64{-0.4, -0.4, -0.1, -0.4},
			wantType:    PatternDecliningTrend,
			wantNeeds:   true,
			wantSev:     3,
			wantLowDays: 3,
		},
		{
			name:      "low average with two low days is persistent low",
			scores:    []float64{-0.8, -0.8, -0.1, 0.05, 0.05},
			wantType:  PatternPersistentLow,
			wantNeeds: true,
			wantSev:   3,
		},
		{
			name:      "recent drop against a calm period",
			scores:    []float64{-0.5, -0.15, -0.15, 0.5, 0.5, 0.5, 0.5},
			wantType:  PatternSuddenDrop,
			wantNeeds: true,
			wantSev:   4,
		},
		{
			name:     "steady positive garden is stable",
			scores:   []float64{0.3, 0.2, 0.4, 0.1, 0.3},
			wantType: PatternStable,
		},
		{
			name:     "only newest seven echoes count",
			scores:   []float64{0.3, 0.2, 0.4, 0.1, 0.3, 0.2, 0.1, -0.9, -0.9, -0.9},
			wantType: PatternStable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := AnalyzeMoodPattern(moodEchoes(tt.scores...))
			assert.Equal(t, tt.wantType, p.PatternType)
			assert.Equal(t, tt.wantNeeds, p.NeedsIntervention)
			if tt.wantSev > 0 {
				assert.Equal(t, tt.wantSev, p.Severity)
			}
			if tt.wantLowDays > 0 {
				assert.Equal(t, tt.wantLowDays, p.LowMoodDays)
			}
		})
	}
}

func TestCheckPatternsThriving(t *testing.T) {
	echoes := &echoRepoStub{echoes: moodEchoes(0.4, 0.3, 0.5, 0.2)}
	profiles := &profileRepoStub{profile: &entity.Profile{UserID: "u1", WellnessScore: 50}}
	svc := NewWhispererService(echoes, profiles, failingGen(), testLogger())

	check, err := svc.CheckPatterns(context.Background(), "u1")
	require.NoError(t, err)
	assert.False(t, check.NeedsIntervention)
	assert.Nil(t, check.Nudge)
	assert.Contains(t, check.Message, "thriving")
}

func TestCheckPatternsFallbackNudge(t *testing.T) {
	echoes := &echoRepoStub{echoes: moodEchoes(-0.5, -0.5, -0.5, -0.5)}
	profiles := &profileRepoStub{profile: &entity.Profile{UserID: "u1", WellnessScore: 50}}
	svc := NewWhispererService(echoes, profiles, failingGen(), testLogger())

	check, err := svc.CheckPatterns(context.Background(), "u1")
	require.NoError(t, err)
	assert.True(t, check.NeedsIntervention)
	require.NotNil(t, check.Nudge)
	require.Len(t, check.Nudge.Suggestions, 2)
	assert.Equal(t, "Breathing Exercise", check.Nudge.Suggestions[0].Title)
	assert.Equal(t, "Gratitude Practice", check.Nudge.Suggestions[1].Title)
	assert.NotEmpty(t, check.Nudge.Affirmation)
}
