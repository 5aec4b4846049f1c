package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func taggedEchoes(tagSets ...[]string) *echoRepoStub {
	echoes := moodEchoes(make([]float64, len(tagSets))...)
	for i, tags := range tagSets {
		echoes[i].EmotionTags = tags
	}
	return &echoRepoStub{echoes: echoes}
}

func TestEmotionPalette(t *testing.T) {
	require.Len(t, EmotionPalette, 16)
	names := map[string]bool{}
	for _, e := range EmotionPalette {
		assert.NotEmpty(t, e.Name)
		assert.NotEmpty(t, e.Color)
		assert.NotEmpty(t, e.Description)
		names[e.Name] = true
	}
	assert.True(t, names["Joy"])
	assert.True(t, names["Loneliness"])
}

func TestSuggestedPairsTensions(t *testing.T) {
	tests := []struct {
		name     string
		repo     *echoRepoStub
		wantPair [2]string
	}{
		{
			name:     "joy with sadness",
			repo:     taggedEchoes([]string{"Joy"}, []string{"Sadness"}, []string{"Joy"}),
			wantPair: [2]string{"Joy", "Sadness"},
		},
		{
			name:     "anger masking sadness",
			repo:     taggedEchoes([]string{"Anger"}, []string{"Sadness"}, []string{"Anger"}),
			wantPair: [2]string{"Anger", "Sadness"},
		},
		{
			name:     "anxiety beside excitement",
			repo:     taggedEchoes([]string{"Anxiety"}, []string{"Excitement"}),
			wantPair: [2]string{"Anxiety", "Excitement"},
		},
		{
			name:     "gratitude in grief",
			repo:     taggedEchoes([]string{"Gratitude"}, []string{"Grief"}),
			wantPair: [2]string{"Gratitude", "Grief"},
		},
		{
			name:     "shame against pride",
			repo:     taggedEchoes([]string{"Shame"}, []string{"Pride"}),
			wantPair: [2]string{"Shame", "Pride"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewAlchemyService(tt.repo, &fusionRepoStub{}, failingGen(), testLogger())
			pairs, top, err := svc.SuggestedPairs(context.Background(), "u1")
			require.NoError(t, err)
			require.NotEmpty(t, pairs)
			assert.Equal(t, tt.wantPair[0], pairs[0].Emotion1)
			assert.Equal(t, tt.wantPair[1], pairs[0].Emotion2)
			assert.NotEmpty(t, top)
		})
	}
}

func TestSuggestedPairsComplementFallback(t *testing.T) {
	repo := taggedEchoes([]string{"Fear"}, []string{"Fear"})
	svc := NewAlchemyService(repo, &fusionRepoStub{}, failingGen(), testLogger())

	pairs, _, err := svc.SuggestedPairs(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	assert.Equal(t, "Fear", pairs[0].Emotion1)
	assert.Equal(t, "Excitement", pairs[0].Emotion2)
}

func TestSuggestedPairsEmptyGarden(t *testing.T) {
	svc := NewAlchemyService(&echoRepoStub{}, &fusionRepoStub{}, failingGen(), testLogger())
	pairs, top, err := svc.SuggestedPairs(context.Background(), "u1")
	require.NoError(t, err)
	assert.Empty(t, pairs)
	assert.Empty(t, top)
}

func TestSuggestedPairsCap(t *testing.T) {
	repo := taggedEchoes(
		[]string{"Joy", "Sadness"},
		[]string{"Anger", "Sadness"},
		[]string{"Gratitude", "Sadness"},
		[]string{"Joy", "Gratitude"},
	)
	svc := NewAlchemyService(repo, &fusionRepoStub{}, failingGen(), testLogger())

	pairs, _, err := svc.SuggestedPairs(context.Background(), "u1")
	require.NoError(t, err)
	assert.LessOrEqual(t, len(pairs), 3)
}

func TestFuseFallbackPersistsHistory(t *testing.T) {
	repo := taggedEchoes([]string{"Joy"}, []string{"Sadness"})
	fusions := &fusionRepoStub{}
	svc := NewAlchemyService(repo, fusions, failingGen(), testLogger())

	result, err := svc.Fuse(context.Background(), "u1", "Joy", "Sadness")
	require.NoError(t, err)
	assert.False(t, result.Generated)
	assert.Equal(t, "Complex Wholeness", result.Fusion.FusionName)

	require.Len(t, fusions.fusions, 1)
	assert.Equal(t, "Joy", fusions.fusions[0].EmotionA)
	assert.Equal(t, "Sadness", fusions.fusions[0].EmotionB)
}
