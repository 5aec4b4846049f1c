package application

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/echobloom/echobloom-backend/internal/domain/entity"
)

func TestAvgMood(t *testing.T) {
	assert.Zero(t, avgMood(nil))
	assert.InDelta(t, 0.2, avgMood(moodEchoes(0.1, 0.3)), 1e-9)
	assert.InDelta(t, -0.1, avgMood(moodEchoes(-0.4, 0.2, -0.1)), 1e-9)
}

func TestMoodVariance(t *testing.T) {
	assert.Zero(t, moodVariance(nil))
	assert.Zero(t, moodVariance(moodEchoes(0.5)))
	assert.Zero(t, moodVariance(moodEchoes(0.3, 0.3, 0.3)))
	assert.InDelta(t, 0.25, moodVariance(moodEchoes(0.5, -0.5)), 1e-9)
}

func TestTopEmotions(t *testing.T) {
	echoes := []*entity.Echo{
		{EmotionTags: []string{"Joy", "Hope"}},
		{EmotionTags: []string{"Joy"}},
		{EmotionTags: []string{"Anxiety", "Hope"}},
		{EmotionTags: []string{"Joy"}},
	}

	assert.Equal(t, []string{"Joy", "Hope", "Anxiety"}, topEmotions(echoes, 3))
	assert.Equal(t, []string{"Joy"}, topEmotions(echoes, 1))
	assert.Empty(t, topEmotions(nil, 3))
}

func TestTopEmotionsTieBreak(t *testing.T) {
	echoes := []*entity.Echo{
		{EmotionTags: []string{"Calm"}},
		{EmotionTags: []string{"Anger"}},
	}
	assert.Equal(t, []string{"Anger", "Calm"}, topEmotions(echoes, 2))
}

func TestRounding(t *testing.T) {
	assert.Equal(t, 0.67, round2(2.0/3))
	assert.Equal(t, -0.13, round2(-0.125))
	assert.Equal(t, 0.667, round3(2.0/3))
	assert.Equal(t, 0.1, round3(0.1))
}
