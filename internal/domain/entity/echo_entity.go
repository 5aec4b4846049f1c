package entity

import "time"

// Growth stages of a planted echo, derived from its analyzed mood score.
const (
	StageSeed   = "seed"
	StageSprout = "sprout"
	StageBloom  = "bloom"
)

// Echo is a single journal entry. MoodScore and EmotionTags are filled by the
// analysis worker; until then AnalysisPending is true.
type Echo struct {
	ID              string
	UserID          string
	Content         string
	AudioURL        string
	SeedType        string
	MoodScore       float64 // -1..1
	EmotionTags     []string
	Response        string // AI empathy reply
	GrowthStage     string
	AnalysisPending bool
	CreatedAt       time.Time
}

// StageForMood maps an analyzed mood score to a growth stage.
func StageForMood(score float64) string {
	switch {
	case score > 0.3:
		return StageBloom
	case score > -0.1:
		return StageSprout
	default:
		return StageSeed
	}
}
