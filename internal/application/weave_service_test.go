package application

import (
	"context"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/echobloom/echobloom-backend/internal/domain/entity"
)

func TestAggregateEchoes(t *testing.T) {
	base := time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC)
	long := strings.Repeat("a", 150)

	echoes := []*entity.Echo{
		{ID: "1", Content: long, MoodScore: -0.5, EmotionTags: []string{"Sadness"}, CreatedAt: base},
		{ID: "2", Content: "quiet day", MoodScore: 0.1, EmotionTags: []string{"Calm"}, CreatedAt: base.AddDate(0, 0, 1)},
		{ID: "3", Content: "good news arrived", MoodScore: 0.6, EmotionTags: []string{"Joy"}, CreatedAt: base.AddDate(0, 0, 2)},
	}

	data := AggregateEchoes(echoes)

	require.True(t, data.HasData)
	assert.Equal(t, 3, data.EchoCount)
	require.Len(t, data.MoodJourney, 3)
	assert.Equal(t, long[:100]+"...", data.MoodJourney[0].ContentPreview)
	assert.Equal(t, "quiet day", data.MoodJourney[1].ContentPreview)

	// Only |mood| > 0.3 qualifies as a key moment.
	require.Len(t, data.KeyMoments, 2)
	assert.Equal(t, "valley", data.KeyMoments[0].Type)
	assert.Equal(t, "peak", data.KeyMoments[1].Type)
	assert.Len(t, data.KeyMoments[0].Snippet, 80)

	assert.Equal(t, "growth", data.NarrativeArc.JourneyType)
	assert.InDelta(t, 1.1, data.NarrativeArc.EmotionalRange, 1e-9)
}

func TestAggregateEchoesMultibyteContent(t *testing.T) {
	base := time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC)
	long := strings.Repeat("é", 150)

	echoes := []*entity.Echo{
		{ID: "1", Content: long, MoodScore: -0.5, EmotionTags: []string{"Sadness"}, CreatedAt: base},
	}
	data := AggregateEchoes(echoes)

	require.Len(t, data.MoodJourney, 1)
	preview := data.MoodJourney[0].ContentPreview
	assert.Equal(t, strings.Repeat("é", 100)+"...", preview)
	assert.True(t, utf8.ValidString(preview))

	require.Len(t, data.KeyMoments, 1)
	snippet := data.KeyMoments[0].Snippet
	assert.Equal(t, 80, utf8.RuneCountInString(snippet))
	assert.True(t, utf8.ValidString(snippet))
}

func TestAggregateEchoesChallengeJourney(t *testing.T) {
	base := time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC)
	echoes := []*entity.Echo{
		{ID: "1", Content: "hopeful start", MoodScore: 0.4, CreatedAt: base},
		{ID: "2", Content: "hard landing", MoodScore: -0.4, CreatedAt: base.AddDate(0, 0, 1)},
	}
	data := AggregateEchoes(echoes)
	assert.Equal(t, "challenge", data.NarrativeArc.JourneyType)
}

func TestAggregateEchoesKeyMomentsCap(t *testing.T) {
	base := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	var echoes []*entity.Echo
	for i := 0; i < 8; i++ {
		echoes = append(echoes, &entity.Echo{
			ID: "e", Content: "big day", MoodScore: 0.8, CreatedAt: base.AddDate(0, 0, i),
		})
	}
	data := AggregateEchoes(echoes)
	assert.Len(t, data.KeyMoments, 5)
}

func TestAggregateEchoesEmpty(t *testing.T) {
	data := AggregateEchoes(nil)
	assert.False(t, data.HasData)
	assert.Zero(t, data.EchoCount)
}

func TestCreateTaleNotReady(t *testing.T) {
	repo := &echoRepoStub{echoes: moodEchoes(0.1, 0.2)}
	svc := NewWeaveService(repo, &affirmationRepoStub{}, failingGen(), testLogger())

	result, err := svc.CreateTale(context.Background(), "u1", 7)
	require.NoError(t, err)
	assert.False(t, result.Ready)
	assert.Nil(t, result.Tale)
	assert.NotEmpty(t, result.Suggestion)
}

func TestCreateTaleFallback(t *testing.T) {
	repo := &echoRepoStub{echoes: moodEchoes(-0.4, 0.1, 0.5)}
	svc := NewWeaveService(repo, &affirmationRepoStub{}, failingGen(), testLogger())

	result, err := svc.CreateTale(context.Background(), "u1", 7)
	require.NoError(t, err)
	assert.True(t, result.Ready)
	assert.False(t, result.Generated)
	require.NotNil(t, result.Tale)
	assert.Equal(t, "The Garden of Tender Seasons", result.Tale.Title)
}

func TestCreateAffirmationOwnership(t *testing.T) {
	repo := &echoRepoStub{echoes: []*entity.Echo{
		{ID: "e1", UserID: "someone-else", Content: "a hard day", MoodScore: -0.6},
	}}
	svc := NewWeaveService(repo, &affirmationRepoStub{}, failingGen(), testLogger())

	_, err := svc.CreateAffirmation(context.Background(), "u1", "e1")
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestCreateAffirmationFallbackAndVault(t *testing.T) {
	repo := &echoRepoStub{echoes: []*entity.Echo{
		{ID: "e1", UserID: "u1", Content: "a hard day", MoodScore: -0.6, EmotionTags: []string{"Sadness"}},
	}}
	vault := &affirmationRepoStub{}
	svc := NewWeaveService(repo, vault, failingGen(), testLogger())

	result, err := svc.CreateAffirmation(context.Background(), "u1", "e1")
	require.NoError(t, err)
	assert.False(t, result.Generated)
	assert.Equal(t, "The Tender Alchemy", result.Weaving.Title)
	require.Len(t, vault.saved, 1)
	assert.Equal(t, "e1", vault.saved[0].EchoID)
}

func TestCheckForAffirmation(t *testing.T) {
	low := &echoRepoStub{echoes: []*entity.Echo{
		{ID: "e1", UserID: "u1", MoodScore: -0.5, EmotionTags: []string{"Grief"}},
	}}
	svc := NewWeaveService(low, &affirmationRepoStub{}, failingGen(), testLogger())

	check, err := svc.CheckForAffirmation(context.Background(), "u1")
	require.NoError(t, err)
	assert.True(t, check.NeedsAffirmation)
	assert.Equal(t, "e1", check.EchoID)

	calm := &echoRepoStub{echoes: []*entity.Echo{
		{ID: "e2", UserID: "u1", MoodScore: 0.2},
	}}
	svc = NewWeaveService(calm, &affirmationRepoStub{}, failingGen(), testLogger())
	check, err = svc.CheckForAffirmation(context.Background(), "u1")
	require.NoError(t, err)
	assert.False(t, check.NeedsAffirmation)
}
