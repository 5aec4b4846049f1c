package entity

import "time"

// Mood trend directions tracked on the profile.
const (
	TrendImproving = "improving"
	TrendDeclining = "declining"
	TrendStable    = "stable"
)

// Profile carries the gardener's aggregate wellness state.
type Profile struct {
	UserID             string
	TotalEchoes        int
	CurrentStreak      int
	LongestStreak      int
	MoodAverage        float64 // -1..1
	WellnessScore      int     // 0..100
	Achievements       []string
	WeeklyActiveDays   int
	MonthlyReflections int
	GratitudeCount     int
	RitualPreferences  map[string]any
	MoodTrendDirection string
	LastActive         time.Time
	CreatedAt          time.Time
}

// ClampWellness keeps a wellness score inside 0..100.
func ClampWellness(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// ClampMood keeps a mood score inside -1..1.
func ClampMood(score float64) float64 {
	if score < -1 {
		return -1
	}
	if score > 1 {
		return 1
	}
	return score
}
