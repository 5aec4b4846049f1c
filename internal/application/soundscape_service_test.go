package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/echobloom/echobloom-backend/internal/domain/entity"
)

func TestAnalyzeGardenMood(t *testing.T) {
	echoes := moodEchoes(0.5, -0.5, 0.2)
	echoes[0].EmotionTags = []string{"Joy", "Hope"}
	echoes[1].EmotionTags = []string{"Sadness"}
	echoes[2].EmotionTags = []string{"Joy"}

	mood := AnalyzeGardenMood(echoes, map[string]int{"seed": 2, "bloom": 3})

	assert.InDelta(t, 0.07, mood.OverallMood, 1e-9)
	assert.Equal(t, []string{"Joy", "Hope", "Sadness"}, mood.DominantEmotions)
	assert.Equal(t, 5, mood.GardenDensity)
	assert.Equal(t, 2, mood.PlantDiversity)
	assert.InDelta(t, 0.4, mood.EmotionalIntensity, 1e-9)
}

func TestAnalyzeGardenMoodEmpty(t *testing.T) {
	mood := AnalyzeGardenMood(nil, nil)
	assert.Zero(t, mood.OverallMood)
	assert.Empty(t, mood.DominantEmotions)
	assert.NotNil(t, mood.DominantEmotions)
}

func TestFallbackSoundscapeBands(t *testing.T) {
	tests := []struct {
		name      string
		mood      float64
		wantTone  string
		wantDrone float64
		wantSound string
	}{
		{"low mood gets grounding rain", -0.6, "Grounding embrace", 80, "rain"},
		{"neutral mood gets balanced stream", 0.0, "Calm presence", 100, "stream"},
		{"elevated mood gets bright birdsong", 0.6, "Luminous flow", 120, "birds"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := FallbackSoundscape(tt.mood)
			assert.Equal(t, tt.wantTone, cfg.EmotionalTone)
			assert.Equal(t, tt.wantDrone, cfg.BaseDrone.Frequency)
			require.Len(t, cfg.NatureSounds, 1)
			assert.Equal(t, tt.wantSound, cfg.NatureSounds[0].Type)
			assert.NotEmpty(t, cfg.TherapeuticIntent)
		})
	}
}

func TestFallbackSoundscapeShimmerToggles(t *testing.T) {
	low := FallbackSoundscape(-0.5)
	require.NotNil(t, low.HighShimmer.Enabled)
	assert.False(t, *low.HighShimmer.Enabled)

	high := FallbackSoundscape(0.5)
	require.NotNil(t, high.HighShimmer.Enabled)
	assert.True(t, *high.HighShimmer.Enabled)
	assert.Equal(t, 1200.0, high.HighShimmer.Frequency)
}

func TestGenerateFallsBackWhenModelFails(t *testing.T) {
	repo := &echoRepoStub{
		echoes:  moodEchoes(-0.5, -0.6, -0.4),
		byStage: map[string]int{"seed": 3},
	}
	svc := NewSoundscapeService(repo, failingGen(), testLogger())

	result, err := svc.Generate(context.Background(), "u1", 5)
	require.NoError(t, err)
	assert.False(t, result.Generated)
	assert.Equal(t, "Grounding embrace", result.AudioConfig.EmotionalTone)
	assert.Contains(t, result.Message, "3 recent reflections")
}

func TestGenerateRequiresEchoes(t *testing.T) {
	svc := NewSoundscapeService(&echoRepoStub{}, failingGen(), testLogger())
	_, err := svc.Generate(context.Background(), "u1", 5)
	assert.ErrorIs(t, err, ErrNoEchoes)
}

func TestCurrentMoodBands(t *testing.T) {
	tests := []struct {
		name      string
		mood      float64
		wantStyle string
	}{
		{"low", -0.5, "Grounding & Warm"},
		{"neutral", 0.1, "Balanced & Meditative"},
		{"elevated", 0.5, "Bright & Uplifting"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &echoRepoStub{echoes: []*entity.Echo{{
				ID: "e1", UserID: "u1", MoodScore: tt.mood, EmotionTags: []string{"Hope"},
			}}}
			svc := NewSoundscapeService(repo, failingGen(), testLogger())

			mood, err := svc.CurrentMood(context.Background(), "u1")
			require.NoError(t, err)
			assert.True(t, mood.HasData)
			assert.Equal(t, tt.wantStyle, mood.SoundscapeStyle)
			assert.Equal(t, "Hope", mood.DominantEmotion)
		})
	}
}

func TestCurrentMoodEmptyGarden(t *testing.T) {
	svc := NewSoundscapeService(&echoRepoStub{}, failingGen(), testLogger())
	mood, err := svc.CurrentMood(context.Background(), "u1")
	require.NoError(t, err)
	assert.False(t, mood.HasData)
	assert.NotEmpty(t, mood.Message)
}
