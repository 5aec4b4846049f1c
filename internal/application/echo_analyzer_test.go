package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/echobloom/echobloom-backend/internal/domain/entity"
	"github.com/echobloom/echobloom-backend/internal/infrastructure/postgres"
)

func scoringGen(mood float64, tags ...string) *genStub {
	return &genStub{fn: func(_ context.Context, _ string, out any) error {
		*(out.(*echoAnalysis)) = echoAnalysis{
			MoodScore:   mood,
			EmotionTags: tags,
			Response:    "Thank you for trusting the garden with this.",
		}
		return nil
	}}
}

func freshProfile() *profileRepoStub {
	return &profileRepoStub{profile: &entity.Profile{
		UserID:             "u1",
		WellnessScore:      50,
		Achievements:       []string{},
		RitualPreferences:  map[string]any{},
		MoodTrendDirection: entity.TrendStable,
		LastActive:         time.Now().UTC(),
	}}
}

func TestAnalyzeFirstEchoStartsStreak(t *testing.T) {
	repo := &echoRepoStub{echoes: moodEchoes(0), byStage: map[string]int{"bloom": 1}}
	profiles := freshProfile()
	a := NewEchoAnalyzer(repo, profiles, scoringGen(0.5, "Joy"), nil, "echoes", testLogger())

	echo, err := a.Analyze(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, 0.5, echo.MoodScore)
	assert.Equal(t, entity.StageBloom, echo.GrowthStage)
	assert.False(t, echo.AnalysisPending)

	p := profiles.updated
	require.NotNil(t, p)
	assert.Equal(t, 1, p.CurrentStreak)
	assert.Equal(t, 1, p.LongestStreak)
	assert.Equal(t, 1, p.TotalEchoes)
	assert.Equal(t, 1, p.WeeklyActiveDays)
	assert.Equal(t, 1, p.MonthlyReflections)
	assert.Equal(t, 75, p.WellnessScore)
	assert.Contains(t, p.Achievements, "first_bloom")
}

func TestAnalyzeStreakAcrossDays(t *testing.T) {
	// One echo per day for the last three days, newest first.
	repo := &echoRepoStub{echoes: moodEchoes(0.1, 0.2, 0.3), byStage: map[string]int{"sprout": 3}}
	profiles := freshProfile()
	a := NewEchoAnalyzer(repo, profiles, scoringGen(0.1, "Calm"), nil, "echoes", testLogger())

	_, err := a.Analyze(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, 3, profiles.updated.CurrentStreak)
	assert.Equal(t, 3, profiles.updated.LongestStreak)
	assert.Equal(t, 3, profiles.updated.WeeklyActiveDays)
}

func TestAnalyzeStreakResetsAfterGap(t *testing.T) {
	now := time.Now().UTC()
	echoes := []*entity.Echo{
		{ID: "a", UserID: "u1", Content: "back again", CreatedAt: now},
		{ID: "b", UserID: "u1", Content: "a while ago", CreatedAt: now.AddDate(0, 0, -3)},
		{ID: "c", UserID: "u1", Content: "and before", CreatedAt: now.AddDate(0, 0, -4)},
	}
	repo := &echoRepoStub{echoes: echoes, byStage: map[string]int{"sprout": 3}}
	profiles := freshProfile()
	profiles.profile.LongestStreak = 5
	a := NewEchoAnalyzer(repo, profiles, scoringGen(0.1, "Calm"), nil, "echoes", testLogger())

	_, err := a.Analyze(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, 1, profiles.updated.CurrentStreak)
	// A shorter window run never lowers the record.
	assert.Equal(t, 5, profiles.updated.LongestStreak)
}

func TestAnalyzeWeekStreakEarnsBadge(t *testing.T) {
	scores := []float64{0, 0, 0, 0, 0, 0, 0}
	repo := &echoRepoStub{echoes: moodEchoes(scores...), byStage: map[string]int{"sprout": 7}}
	profiles := freshProfile()
	a := NewEchoAnalyzer(repo, profiles, scoringGen(0.1, "Calm"), nil, "echoes", testLogger())

	_, err := a.Analyze(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, 7, profiles.updated.CurrentStreak)
	assert.Contains(t, profiles.updated.Achievements, "week_warrior")
}

func TestAnalyzeIsIdempotent(t *testing.T) {
	repo := &echoRepoStub{echoes: moodEchoes(0), byStage: map[string]int{"bloom": 1}}
	profiles := freshProfile()
	a := NewEchoAnalyzer(repo, profiles, scoringGen(0.5, "Joy"), nil, "echoes", testLogger())

	_, err := a.Analyze(context.Background(), "a")
	require.NoError(t, err)
	_, err = a.Analyze(context.Background(), "a")
	require.NoError(t, err)

	// A redelivered job recomputes the same aggregates instead of stacking.
	assert.Equal(t, 1, profiles.updated.TotalEchoes)
	assert.Equal(t, 1, profiles.updated.CurrentStreak)
	assert.Equal(t, 1, profiles.updated.LongestStreak)
}

func TestAnalyzeMissingEcho(t *testing.T) {
	a := NewEchoAnalyzer(&echoRepoStub{}, freshProfile(), failingGen(), nil, "echoes", testLogger())
	_, err := a.Analyze(context.Background(), "gone")
	assert.ErrorIs(t, err, postgres.ErrNotFound)
}

func TestAnalyzeFallbackOnModelFailure(t *testing.T) {
	repo := &echoRepoStub{echoes: moodEchoes(0), byStage: map[string]int{"sprout": 1}}
	a := NewEchoAnalyzer(repo, freshProfile(), failingGen(), nil, "echoes", testLogger())

	echo, err := a.Analyze(context.Background(), "a")
	require.NoError(t, err)
	assert.Zero(t, echo.MoodScore)
	assert.Equal(t, []string{"Reflective"}, echo.EmotionTags)
	assert.NotEmpty(t, echo.Response)
	assert.Equal(t, entity.StageSprout, echo.GrowthStage)
}

func TestPlantingStreaks(t *testing.T) {
	now := time.Now().UTC()
	window := []*entity.Echo{
		{CreatedAt: now},
		{CreatedAt: now.AddDate(0, 0, -1)},
		{CreatedAt: now.AddDate(0, 0, -3)},
		{CreatedAt: now.AddDate(0, 0, -4)},
		{CreatedAt: now.AddDate(0, 0, -5)},
	}

	current, longest := plantingStreaks(window, now)
	assert.Equal(t, 2, current)
	assert.Equal(t, 3, longest)

	current, longest = plantingStreaks(nil, now)
	assert.Zero(t, current)
	assert.Zero(t, longest)
}
