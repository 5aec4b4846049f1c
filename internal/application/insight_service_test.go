package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/echobloom/echobloom-backend/internal/domain/entity"
)

func echoAt(day time.Time, mood float64, tags ...string) *entity.Echo {
	return &entity.Echo{
		ID:          "e-" + day.Format("20060102"),
		UserID:      "u1",
		Content:     "entry",
		MoodScore:   mood,
		EmotionTags: tags,
		CreatedAt:   day,
	}
}

func TestAnalyzeDayPatterns(t *testing.T) {
	// Mondays trend low, Fridays high. Single-sample days are ignored.
	monday := time.Date(2026, 8, 3, 12, 0, 0, 0, time.UTC)
	friday := time.Date(2026, 8, 7, 12, 0, 0, 0, time.UTC)
	tuesday := time.Date(2026, 8, 4, 12, 0, 0, 0, time.UTC)

	echoes := []*entity.Echo{
		echoAt(monday, -0.4),
		echoAt(monday.AddDate(0, 0, 7), -0.2),
		echoAt(monday.AddDate(0, 0, 14), -0.6),
		echoAt(friday, 0.5),
		echoAt(friday.AddDate(0, 0, 7), 0.3),
		echoAt(tuesday, -0.9),
	}

	analysis := AnalyzeDayPatterns(echoes)

	require.True(t, analysis.HasPatterns)
	require.Len(t, analysis.ChallengingDays, 1)
	cd := analysis.ChallengingDays[0]
	assert.Equal(t, "Monday", cd.Day)
	assert.Equal(t, -0.4, cd.AvgMood)
	assert.Equal(t, 3, cd.SampleSize)
	assert.InDelta(t, 0.6, cd.Confidence, 1e-9)

	// Tuesday has one sample only
	_, ok := analysis.DayPatterns["Tuesday"]
	assert.False(t, ok)

	mondayStats := analysis.DayPatterns["Monday"]
	assert.Equal(t, -0.6, mondayStats.MinMood)
	assert.Equal(t, -0.2, mondayStats.MaxMood)
	assert.Equal(t, 3, mondayStats.Count)
}

func TestAnalyzeDayPatternsConfidenceCap(t *testing.T) {
	monday := time.Date(2026, 8, 3, 12, 0, 0, 0, time.UTC)
	var echoes []*entity.Echo
	for i := 0; i < 8; i++ {
		echoes = append(echoes, echoAt(monday.AddDate(0, 0, 7*i), -0.5))
	}

	analysis := AnalyzeDayPatterns(echoes)
	require.Len(t, analysis.ChallengingDays, 1)
	assert.Equal(t, 1.0, analysis.ChallengingDays[0].Confidence)
}

func TestRollingTrend(t *testing.T) {
	tests := []struct {
		name   string
		scores []float64 // oldest first
		want   string
	}{
		{"too few echoes", []float64{-0.9, 0.9}, entity.TrendStable},
		{"improving", []float64{-0.4, -0.3, 0.2, 0.3}, entity.TrendImproving},
		{"declining", []float64{0.4, 0.3, -0.2, -0.3}, entity.TrendDeclining},
		{"flat", []float64{0.1, 0.1, 0.15, 0.1}, entity.TrendStable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			echoes := make([]*entity.Echo, len(tt.scores))
			base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
			for i, s := range tt.scores {
				echoes[i] = echoAt(base.AddDate(0, 0, i), s)
			}
			assert.Equal(t, tt.want, RollingTrend(echoes))
		})
	}
}

func TestCorrelateActivities(t *testing.T) {
	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	// Breathing count rises with mood across four days: perfect correlation.
	echoes := []*entity.Echo{
		echoAt(base, -0.4),
		echoAt(base.AddDate(0, 0, 1), -0.1),
		echoAt(base.AddDate(0, 0, 2), 0.2),
		echoAt(base.AddDate(0, 0, 3), 0.5),
	}
	var activities []*entity.Activity
	for day := 0; day < 4; day++ {
		for n := 0; n <= day; n++ {
			activities = append(activities, &entity.Activity{
				ID:          "a",
				UserID:      "u1",
				Kind:        entity.ActivityBreathing,
				CompletedAt: base.AddDate(0, 0, day),
			})
		}
	}

	links := CorrelateActivities(echoes, activities)
	require.Len(t, links, 1)
	assert.Equal(t, entity.ActivityBreathing, links[0].Kind)
	assert.Equal(t, 1.0, links[0].Correlation)
	assert.Equal(t, 4, links[0].SampleDays)
}

func TestCorrelateActivitiesSkipsSmallSamples(t *testing.T) {
	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	echoes := []*entity.Echo{
		echoAt(base, -0.4),
		echoAt(base.AddDate(0, 0, 1), 0.4),
	}
	activities := []*entity.Activity{
		{ID: "a", UserID: "u1", Kind: entity.ActivityJournal, CompletedAt: base},
	}

	links := CorrelateActivities(echoes, activities)
	assert.Empty(t, links)
}

func TestInsightOverview(t *testing.T) {
	base := time.Now().UTC().AddDate(0, 0, -6)
	echoes := &echoRepoStub{echoes: []*entity.Echo{
		echoAt(base, -0.2, "Sadness"),
		echoAt(base.AddDate(0, 0, 1), -0.1, "Anxiety"),
		echoAt(base.AddDate(0, 0, 2), 0.2, "Hope"),
		echoAt(base.AddDate(0, 0, 3), 0.4, "Joy", "Hope"),
	}}
	svc := NewInsightService(echoes, &activityRepoStub{}, testLogger())

	overview, err := svc.Overview(context.Background(), "u1", 30)
	require.NoError(t, err)
	assert.Equal(t, 4, overview.EchoCount)
	assert.InDelta(t, 0.08, overview.AvgMood, 1e-9)
	assert.Equal(t, entity.TrendImproving, overview.MoodTrend)
	assert.Equal(t, 2, overview.EmotionFrequencies["Hope"])
	assert.Equal(t, []string{"Hope", "Anxiety", "Joy"}, overview.TopEmotions)
}
