package application

import (
	"errors"
	"math"
	"sort"

	"github.com/echobloom/echobloom-backend/internal/domain/entity"
)

// ErrForbidden marks access to another gardener's data.
var ErrForbidden = errors.New("resource belongs to another user")

func avgMood(echoes []*entity.Echo) float64 {
	if len(echoes) == 0 {
		return 0
	}
	var sum float64
	for _, e := range echoes {
		sum += e.MoodScore
	}
	return sum / float64(len(echoes))
}

func moodVariance(echoes []*entity.Echo) float64 {
	if len(echoes) < 2 {
		return 0
	}
	avg := avgMood(echoes)
	var sum float64
	for _, e := range echoes {
		d := e.MoodScore - avg
		sum += d * d
	}
	return sum / float64(len(echoes))
}

func countEmotions(echoes []*entity.Echo) map[string]int {
	counts := map[string]int{}
	for _, e := range echoes {
		for _, tag := range e.EmotionTags {
			counts[tag]++
		}
	}
	return counts
}

// topEmotions returns the n most frequent emotion tags, most frequent first.
// Ties break alphabetically so results stay deterministic.
func topEmotions(echoes []*entity.Echo, n int) []string {
	counts := countEmotions(echoes)
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if counts[names[i]] != counts[names[j]] {
			return counts[names[i]] > counts[names[j]]
		}
		return names[i] < names[j]
	})
	if len(names) > n {
		names = names[:n]
	}
	return names
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
