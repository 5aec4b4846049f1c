package application

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/echobloom/echobloom-backend/internal/domain/entity"
	"github.com/echobloom/echobloom-backend/internal/domain/repository"
)

// DayStats are the per-weekday mood aggregates.
type DayStats struct {
	AvgMood float64 `json:"avg_mood"`
	Count   int     `json:"count"`
	MinMood float64 `json:"min_mood"`
	MaxMood float64 `json:"max_mood"`
}

// ChallengingDay is a weekday that historically trends low.
type ChallengingDay struct {
	Day        string  `json:"day"`
	AvgMood    float64 `json:"avg_mood"`
	Confidence float64 `json:"confidence"`
	SampleSize int     `json:"sample_size"`
}

// DayPatternAnalysis bundles the weekday breakdown with the flagged days.
type DayPatternAnalysis struct {
	DayPatterns     map[string]DayStats `json:"day_patterns"`
	ChallengingDays []ChallengingDay    `json:"challenging_days"`
	HasPatterns     bool                `json:"has_patterns"`
}

// ActivityCorrelation links an activity kind to mood movement on days it was done.
type ActivityCorrelation struct {
	Kind        string  `json:"kind"`
	Correlation float64 `json:"correlation"`
	SampleDays  int     `json:"sample_days"`
}

// InsightOverview is the analytics dashboard payload.
type InsightOverview struct {
	EchoCount          int                   `json:"echo_count"`
	AvgMood            float64               `json:"avg_mood"`
	MoodTrend          string                `json:"mood_trend"`
	DayPatterns        map[string]DayStats   `json:"day_patterns"`
	EmotionFrequencies map[string]int        `json:"emotion_frequencies"`
	TopEmotions        []string              `json:"top_emotions"`
	ActivityLinks      []ActivityCorrelation `json:"activity_mood_links"`
}

// InsightService computes the analytics heuristics over echo history.
type InsightService struct {
	echoes     repository.EchoRepository
	activities repository.ActivityRepository
	log        *logrus.Logger
}

func NewInsightService(
	echoes repository.EchoRepository,
	activities repository.ActivityRepository,
	log *logrus.Logger,
) *InsightService {
	return &InsightService{echoes: echoes, activities: activities, log: log}
}

// Overview builds the full analytics payload over the given period.
func (s *InsightService) Overview(ctx context.Context, userID string, days int) (*InsightOverview, error) {
	if days <= 0 {
		days = 30
	}
	since := time.Now().UTC().AddDate(0, 0, -days)

	echoes, err := s.echoes.ListSince(ctx, userID, since)
	if err != nil {
		return nil, err
	}
	activities, err := s.activities.ListSince(ctx, userID, since)
	if err != nil {
		return nil, err
	}

	pattern := AnalyzeDayPatterns(echoes)
	return &InsightOverview{
		EchoCount:          len(echoes),
		AvgMood:            round2(avgMood(echoes)),
		MoodTrend:          RollingTrend(echoes),
		DayPatterns:        pattern.DayPatterns,
		EmotionFrequencies: countEmotions(echoes),
		TopEmotions:        topEmotions(echoes, 3),
		ActivityLinks:      CorrelateActivities(echoes, activities),
	}, nil
}

// DayPatterns analyzes the last 60 days of echoes per weekday.
func (s *InsightService) DayPatterns(ctx context.Context, userID string) (*DayPatternAnalysis, []*entity.Echo, error) {
	since := time.Now().UTC().AddDate(0, 0, -60)
	echoes, err := s.echoes.ListSince(ctx, userID, since)
	if err != nil {
		return nil, nil, err
	}
	analysis := AnalyzeDayPatterns(echoes)
	return &analysis, echoes, nil
}

// AnalyzeDayPatterns groups echoes by weekday and flags days whose average
// mood sits below -0.1 with at least 2 samples. Confidence tops out at 5
// samples.
func AnalyzeDayPatterns(echoes []*entity.Echo) DayPatternAnalysis {
	byDay := map[string][]float64{}
	for _, e := range echoes {
		day := e.CreatedAt.Weekday().String()
		byDay[day] = append(byDay[day], e.MoodScore)
	}

	patterns := map[string]DayStats{}
	var challenging []ChallengingDay
	for day, scores := range byDay {
		if len(scores) < 2 {
			continue
		}
		sum, lo, hi := 0.0, scores[0], scores[0]
		for _, v := range scores {
			sum += v
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
		avg := sum / float64(len(scores))
		patterns[day] = DayStats{
			AvgMood: round2(avg),
			Count:   len(scores),
			MinMood: round2(lo),
			MaxMood: round2(hi),
		}
		if avg < -0.1 {
			challenging = append(challenging, ChallengingDay{
				Day:        day,
				AvgMood:    round2(avg),
				Confidence: math.Min(float64(len(scores))/5, 1.0),
				SampleSize: len(scores),
			})
		}
	}

	sort.Slice(challenging, func(i, j int) bool {
		return challenging[i].AvgMood < challenging[j].AvgMood
	})
	return DayPatternAnalysis{
		DayPatterns:     patterns,
		ChallengingDays: challenging,
		HasPatterns:     len(challenging) > 0,
	}
}

// RollingTrend compares the newest half of the period against the older half.
// Echoes must be ordered oldest first.
func RollingTrend(echoes []*entity.Echo) string {
	if len(echoes) < 4 {
		return entity.TrendStable
	}
	half := len(echoes) / 2
	older, newer := echoes[:half], echoes[half:]
	oldAvg, newAvg := avgMood(older), avgMood(newer)
	switch {
	case newAvg > oldAvg+0.1:
		return entity.TrendImproving
	case newAvg < oldAvg-0.1:
		return entity.TrendDeclining
	default:
		return entity.TrendStable
	}
}

// CorrelateActivities computes, per activity kind, the Pearson correlation
// between daily session counts and daily average mood. Kinds with fewer than
// 3 overlapping days are skipped.
func CorrelateActivities(echoes []*entity.Echo, activities []*entity.Activity) []ActivityCorrelation {
	moodByDate := map[string][]float64{}
	for _, e := range echoes {
		d := e.CreatedAt.UTC().Format("2006-01-02")
		moodByDate[d] = append(moodByDate[d], e.MoodScore)
	}
	if len(moodByDate) == 0 {
		return []ActivityCorrelation{}
	}

	countsByKind := map[string]map[string]int{}
	for _, a := range activities {
		d := a.CompletedAt.UTC().Format("2006-01-02")
		if countsByKind[a.Kind] == nil {
			countsByKind[a.Kind] = map[string]int{}
		}
		countsByKind[a.Kind][d]++
	}

	dates := make([]string, 0, len(moodByDate))
	for d := range moodByDate {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	var out []ActivityCorrelation
	for _, kind := range entity.ActivityKinds {
		counts := countsByKind[kind]
		if counts == nil {
			continue
		}
		var xs, ys []float64
		for _, d := range dates {
			scores := moodByDate[d]
			sum := 0.0
			for _, v := range scores {
				sum += v
			}
			xs = append(xs, float64(counts[d]))
			ys = append(ys, sum/float64(len(scores)))
		}
		if len(xs) < 3 {
			continue
		}
		r := pearson(xs, ys)
		if math.IsNaN(r) {
			continue
		}
		out = append(out, ActivityCorrelation{
			Kind:        kind,
			Correlation: round2(r),
			SampleDays:  len(xs),
		})
	}
	if out == nil {
		out = []ActivityCorrelation{}
	}
	return out
}

func pearson(xs, ys []float64) float64 {
	n := float64(len(xs))
	var sumX, sumY float64
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
	}
	meanX, meanY := sumX/n, sumY/n

	var cov, varX, varY float64
	for i := range xs {
		dx, dy := xs[i]-meanX, ys[i]-meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}
	if varX == 0 || varY == 0 {
		return math.NaN()
	}
	return cov / math.Sqrt(varX*varY)
}
