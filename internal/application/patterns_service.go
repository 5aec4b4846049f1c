package application

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/echobloom/echobloom-backend/internal/ai"
	"github.com/echobloom/echobloom-backend/internal/domain/repository"
)

// Prediction thresholds: at least this many echoes over the lookback window
// before day-of-week patterns mean anything.
const minEchoesForPrediction = 14

// MicroRitual is one small protective action inside a shield story.
type MicroRitual struct {
	Time   string `json:"time"`
	Action string `json:"action"`
	Why    string `json:"why"`
}

// ShieldStory is the protective narrative for one predicted challenging day.
type ShieldStory struct {
	Title        string        `json:"title"`
	Story        string        `json:"story"`
	MicroRituals []MicroRitual `json:"micro_rituals"`
	Affirmation  string        `json:"affirmation"`
	Metaphor     string        `json:"metaphor"`
}

// DayPrediction wraps a shield story with its forecast metadata.
type DayPrediction struct {
	Generated    bool        `json:"generated"`
	ShieldStory  ShieldStory `json:"shield_story"`
	PredictedDay string      `json:"predicted_day"`
	NextDate     time.Time   `json:"next_date"`
	Confidence   float64     `json:"confidence"`
}

// PredictionResult is the full forecast response.
type PredictionResult struct {
	HasPredictions  bool                `json:"has_predictions"`
	Message         string              `json:"message,omitempty"`
	EchoCount       int                 `json:"echoes_count,omitempty"`
	MinRequired     int                 `json:"min_required,omitempty"`
	Predictions     []DayPrediction     `json:"predictions,omitempty"`
	PatternAnalysis *DayPatternAnalysis `json:"pattern_analysis,omitempty"`
	Timestamp       time.Time           `json:"timestamp"`
}

// DawnAlert is a prediction landing within the next week.
type DawnAlert struct {
	DayPrediction
	DaysAway     int    `json:"days_away"`
	IsUrgent     bool   `json:"is_urgent"`
	AlertMessage string `json:"alert_message"`
}

// PatternsService forecasts challenging days and weaves shield stories.
type PatternsService struct {
	insights *InsightService
	profiles repository.ProfileRepository
	gen      ai.Generator
	log      *logrus.Logger
	now      func() time.Time
}

func NewPatternsService(
	insights *InsightService,
	profiles repository.ProfileRepository,
	gen ai.Generator,
	log *logrus.Logger,
) *PatternsService {
	return &PatternsService{
		insights: insights,
		profiles: profiles,
		gen:      gen,
		log:      log,
		now:      time.Now,
	}
}

// Predict flags weekdays that historically trend low and generates a shield
// story for the worst two.
func (s *PatternsService) Predict(ctx context.Context, userID string) (*PredictionResult, error) {
	analysis, echoes, err := s.insights.DayPatterns(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := &PredictionResult{Timestamp: s.now().UTC()}
	if len(echoes) < minEchoesForPrediction {
		result.Message = "Keep planting echoes! We need at least 2 weeks of data to detect patterns."
		result.EchoCount = len(echoes)
		result.MinRequired = minEchoesForPrediction
		return result, nil
	}
	if !analysis.HasPatterns {
		result.Message = "Your mood patterns are beautifully varied! No consistent challenging days detected."
		result.PatternAnalysis = analysis
		return result, nil
	}

	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	challenging := analysis.ChallengingDays
	if len(challenging) > 2 {
		challenging = challenging[:2]
	}
	for _, day := range challenging {
		result.Predictions = append(result.Predictions, s.shieldStoryFor(ctx, day, profile.WellnessScore))
	}
	result.HasPredictions = true
	result.PatternAnalysis = analysis
	return result, nil
}

// DawnDrawer filters predictions down to the coming 7 days.
func (s *PatternsService) DawnDrawer(ctx context.Context, userID string) ([]DawnAlert, string, error) {
	result, err := s.Predict(ctx, userID)
	if err != nil {
		return nil, "", err
	}
	if !result.HasPredictions {
		return []DawnAlert{}, result.Message, nil
	}

	now := s.now()
	horizon := now.AddDate(0, 0, 7)
	alerts := []DawnAlert{}
	for _, p := range result.Predictions {
		if p.NextDate.Before(now) || p.NextDate.After(horizon) {
			continue
		}
		daysAway := daysBetween(now, p.NextDate)
		plural := "s"
		if daysAway == 1 {
			plural = ""
		}
		alerts = append(alerts, DawnAlert{
			DayPrediction: p,
			DaysAway:      daysAway,
			IsUrgent:      daysAway <= 1,
			AlertMessage:  fmt.Sprintf("%s is %d day%s away", p.PredictedDay, daysAway, plural),
		})
	}
	return alerts, "", nil
}

// nextOccurrence returns the next calendar date of the named weekday. A match
// on today rolls forward a full week.
func (s *PatternsService) nextOccurrence(day string) time.Time {
	target := weekdayIndex(day)
	now := s.now()
	ahead := (target - int(now.Weekday()) + 7) % 7
	if ahead == 0 {
		ahead = 7
	}
	return now.AddDate(0, 0, ahead)
}

func weekdayIndex(day string) int {
	for i := time.Sunday; i <= time.Saturday; i++ {
		if i.String() == day {
			return int(i)
		}
	}
	return 0
}

const shieldStoryPrompt = `You are a compassionate storyteller in a wellness journaling app, creating "Dawn Weaves" - protective stories for challenging days.

USER CONTEXT:
- Predicted challenging day: %s
- Historical mood pattern: %.2f (negative scale)
- Prediction confidence: %d%%
- Next occurrence: %s
- User wellness score: %d

TASK: Create a brief, empowering "shield story" to help the user prepare for %s.

STORY ELEMENTS:
1. Acknowledge the pattern without judgment
2. Reframe %s as an opportunity for gentle self-care
3. Offer 2-3 micro-rituals specific to common %s challenges
4. End with a hopeful metaphor (dawn/sunrise theme)

TONE: Warm, poetic, empowering. Like a wise friend's letter.

FORMAT AS JSON:
{
  "title": "Dawn Weave for [Day]",
  "story": "2-3 paragraph narrative (150-200 words)",
  "micro_rituals": [
    {
      "time": "morning|afternoon|evening",
      "action": "Specific 2-minute ritual",
      "why": "Brief reason (1 sentence)"
    }
  ],
  "affirmation": "One empowering sentence to carry through the day",
  "metaphor": "Closing nature/dawn metaphor (1 sentence)"
}

Keep it brief, actionable, and deeply empathetic.`

func (s *PatternsService) shieldStoryFor(ctx context.Context, day ChallengingDay, wellnessScore int) DayPrediction {
	nextDate := s.nextOccurrence(day.Day)
	prompt := fmt.Sprintf(shieldStoryPrompt,
		day.Day, day.AvgMood, int(day.Confidence*100), nextDate.Format("January 02, 2006"),
		wellnessScore, day.Day, day.Day, day.Day,
	)

	var story ShieldStory
	if err := s.gen.GenerateJSON(ctx, prompt, &story); err != nil || story.Story == "" {
		if err != nil {
			s.log.WithError(err).Warn("shield story generation failed, using fallback")
		}
		return DayPrediction{
			ShieldStory:  fallbackShieldStory(day.Day),
			PredictedDay: day.Day,
			NextDate:     nextDate,
			Confidence:   day.Confidence,
		}
	}
	return DayPrediction{
		Generated:    true,
		ShieldStory:  story,
		PredictedDay: day.Day,
		NextDate:     nextDate,
		Confidence:   day.Confidence,
	}
}

func fallbackShieldStory(day string) ShieldStory {
	return ShieldStory{
		Title: fmt.Sprintf("Dawn Weave for %s", day),
		Story: fmt.Sprintf("I've noticed %ss tend to be heavier for you. That's not a weakness, it's wisdom your body is sharing. This %s, you have permission to move slower, rest deeper, and ask for what you need. Your garden doesn't judge the clouds; it knows every season has purpose.", day, day),
		MicroRituals: []MicroRitual{
			{
				Time:   "morning",
				Action: "Start your day 10 minutes earlier for gentle stretching",
				Why:    "Eases tension before the day begins",
			},
			{
				Time:   "afternoon",
				Action: "Step outside for 3 deep breaths of fresh air",
				Why:    "Resets your nervous system mid-day",
			},
			{
				Time:   "evening",
				Action: "Write down one thing that didn't go wrong",
				Why:    "Shifts focus to resilience over struggle",
			},
		},
		Affirmation: fmt.Sprintf("I am allowed to have hard %ss, and I'm learning to hold myself through them.", day),
		Metaphor:    "Even the dawn takes time to unfold, first a whisper of light, then a full bloom of sky.",
	}
}
