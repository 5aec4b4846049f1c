package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/echobloom/echobloom-backend/internal/ai"
	"github.com/echobloom/echobloom-backend/internal/domain/entity"
	"github.com/echobloom/echobloom-backend/internal/domain/repository"
)

// Trajectory is the baseline extracted from recent behavior.
type Trajectory struct {
	BaselineMood      float64 `json:"baseline_mood"`
	Trend             string  `json:"trend"`
	ActivityFrequency int     `json:"activity_frequency"`
	EchoCount         int     `json:"echo_count"`
	Consistency       float64 `json:"consistency"`
}

// Scenario is one projected future garden state.
type Scenario struct {
	Type           string   `json:"type"`
	Title          string   `json:"title"`
	GardenState    string   `json:"garden_state"`
	WellnessDelta  int      `json:"wellness_delta"`
	MoodPrediction float64  `json:"mood_prediction"`
	KeyOutcomes    []string `json:"key_outcomes"`
	EmotionalTone  string   `json:"emotional_tone"`
	GentleWarning  string   `json:"gentle_warning,omitempty"`
	Encouragement  string   `json:"encouragement,omitempty"`
	Inspiration    string   `json:"inspiration,omitempty"`
}

// SimulationSet bundles the three scenario projections.
type SimulationSet struct {
	Scenarios          []Scenario `json:"scenarios"`
	SuggestedFirstStep string     `json:"suggested_first_step"`
}

// SimulationResult is the full what-if response.
type SimulationResult struct {
	Generated      bool          `json:"generated"`
	Simulations    SimulationSet `json:"simulations"`
	WhatIfScenario string        `json:"what_if_scenario"`
	BaselineState  Trajectory    `json:"baseline_state"`
	Timestamp      time.Time     `json:"timestamp"`
}

// ScenarioSuggestions are what-if prompts tailored to recent patterns.
type ScenarioSuggestions struct {
	Suggestions []string       `json:"suggestions"`
	Note        string         `json:"note,omitempty"`
	BasedOn     map[string]any `json:"based_on,omitempty"`
}

// SimulateService projects future garden states from what-if scenarios.
type SimulateService struct {
	echoes     repository.EchoRepository
	activities repository.ActivityRepository
	profiles   repository.ProfileRepository
	gen        ai.Generator
	log        *logrus.Logger
}

func NewSimulateService(
	echoes repository.EchoRepository,
	activities repository.ActivityRepository,
	profiles repository.ProfileRepository,
	gen ai.Generator,
	log *logrus.Logger,
) *SimulateService {
	return &SimulateService{
		echoes:     echoes,
		activities: activities,
		profiles:   profiles,
		gen:        gen,
		log:        log,
	}
}

// CalculateTrajectory derives the baseline from the newest-first echo list and
// the recent activity log.
func CalculateTrajectory(echoes []*entity.Echo, activities []*entity.Activity, now time.Time) Trajectory {
	if len(echoes) == 0 {
		return Trajectory{Trend: "neutral"}
	}

	recent := echoes
	if len(recent) > 14 {
		recent = recent[:14]
	}
	var older []*entity.Echo
	if len(echoes) > 14 {
		older = echoes[14:]
		if len(older) > 14 {
			older = older[:14]
		}
	}

	recentAvg := avgMood(recent)
	olderAvg := recentAvg
	if len(older) > 0 {
		olderAvg = avgMood(older)
	}

	trend := "stable"
	if recentAvg > olderAvg+0.1 {
		trend = "improving"
	} else if recentAvg < olderAvg-0.1 {
		trend = "declining"
	}

	weekAgo := now.AddDate(0, 0, -7)
	freq := 0
	for _, a := range activities {
		if !a.CompletedAt.Before(weekAgo) {
			freq++
		}
	}

	return Trajectory{
		BaselineMood:      recentAvg,
		Trend:             trend,
		ActivityFrequency: freq,
		EchoCount:         len(echoes),
		Consistency:       float64(len(recent)) / 14,
	}
}

const simulationPrompt = `You are a compassionate future-self simulator in a wellness journaling app.

USER'S CURRENT STATE:
- Baseline mood: %.2f
- Trend: %s
- Activity frequency: %d per week
- Wellness score: %d
- Echo consistency: %.0f%%

WHAT-IF SCENARIO: %q

TASK: Generate 3 future garden states (%d days from now) based on this scenario:
1. Pessimistic - If things go poorly/they abandon the change
2. Realistic - Most likely outcome with moderate effort
3. Optimistic - If they fully commit to the change

Be honest but compassionate. Avoid toxic positivity.

FORMAT AS JSON:
{
  "scenarios": [
    {
      "type": "pessimistic",
      "title": "Short title (3-5 words)",
      "garden_state": "Visual description of garden appearance (2-3 sentences)",
      "wellness_delta": -10,
      "mood_prediction": -0.2,
      "key_outcomes": ["Outcome 1", "Outcome 2", "Outcome 3"],
      "emotional_tone": "Word describing emotional state",
      "gentle_warning": "Compassionate 1-sentence caution"
    },
    {
      "type": "realistic",
      "title": "Short title",
      "garden_state": "Visual garden description",
      "wellness_delta": 5,
      "mood_prediction": 0.1,
      "key_outcomes": ["...", "...", "..."],
      "emotional_tone": "...",
      "encouragement": "Supportive 1-sentence note"
    },
    {
      "type": "optimistic",
      "title": "Short title",
      "garden_state": "Visual garden description",
      "wellness_delta": 20,
      "mood_prediction": 0.3,
      "key_outcomes": ["...", "...", "..."],
      "emotional_tone": "...",
      "inspiration": "Aspirational 1-sentence vision"
    }
  ],
  "suggested_first_step": "One concrete micro-action to start (1 sentence)"
}

Base predictions on behavioral science, not wishful thinking.`

// Futures projects pessimistic, realistic and optimistic outcomes for a
// what-if scenario.
func (s *SimulateService) Futures(ctx context.Context, userID, whatIf string, timeframeDays int) (*SimulationResult, error) {
	if timeframeDays <= 0 {
		timeframeDays = 30
	}

	echoes, err := s.echoes.ListRecent(ctx, userID, 30)
	if err != nil {
		return nil, err
	}
	activities, err := s.activities.ListSince(ctx, userID, time.Now().UTC().AddDate(0, 0, -30))
	if err != nil {
		return nil, err
	}
	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	trajectory := CalculateTrajectory(echoes, activities, time.Now().UTC())
	prompt := fmt.Sprintf(simulationPrompt,
		trajectory.BaselineMood, trajectory.Trend, trajectory.ActivityFrequency,
		profile.WellnessScore, trajectory.Consistency*100, whatIf, timeframeDays,
	)

	result := &SimulationResult{
		WhatIfScenario: whatIf,
		BaselineState:  trajectory,
		Timestamp:      time.Now().UTC(),
	}
	var set SimulationSet
	if err := s.gen.GenerateJSON(ctx, prompt, &set); err != nil || len(set.Scenarios) < 3 {
		if err != nil {
			s.log.WithError(err).Warn("simulation generation failed, using fallback")
		}
		result.Simulations = fallbackSimulations(whatIf)
		return result, nil
	}
	result.Generated = true
	result.Simulations = set
	return result, nil
}

func fallbackSimulations(whatIf string) SimulationSet {
	return SimulationSet{
		Scenarios: []Scenario{
			{
				Type:           "pessimistic",
				Title:          "The Withering Garden",
				GardenState:    fmt.Sprintf("Your garden shows signs of neglect. Without following through on '%s', familiar patterns return. Flowers that were budding close their petals. The soil grows harder, less receptive to new seeds.", whatIf),
				WellnessDelta:  -8,
				MoodPrediction: -0.15,
				KeyOutcomes: []string{
					"Return to old coping patterns",
					"Decreased motivation over time",
					"Missed opportunity for growth",
				},
				EmotionalTone: "resigned",
				GentleWarning: "Not following through isn't failure. It's information about what you need to change.",
			},
			{
				Type:           "realistic",
				Title:          "The Growing Garden",
				GardenState:    fmt.Sprintf("Your garden adapts to '%s' with steady progress. Some days are easier than others. New flowers bloom alongside old ones. The garden learns your rhythm, growing at its own pace.", whatIf),
				WellnessDelta:  7,
				MoodPrediction: 0.12,
				KeyOutcomes: []string{
					"Gradual mood improvement",
					"Increased self-awareness",
					"Building sustainable habits",
				},
				EmotionalTone: "hopeful",
				Encouragement: "Progress doesn't have to be perfect to be real.",
			},
			{
				Type:           "optimistic",
				Title:          "The Thriving Garden",
				GardenState:    fmt.Sprintf("Your garden flourishes beyond expectation. '%s' becomes second nature. Flowers bloom in colors you didn't know existed. The soil is rich, every seed finds purchase. Other gardeners stop to admire your growth.", whatIf),
				WellnessDelta:  18,
				MoodPrediction: 0.28,
				KeyOutcomes: []string{
					"Significant wellness improvement",
					"Positive habit momentum",
					"Inspiring your support network",
				},
				EmotionalTone: "empowered",
				Inspiration:   "This future is possible when you meet yourself with consistency and compassion.",
			},
		},
		SuggestedFirstStep: fmt.Sprintf("Start with just 5 minutes today of '%s' without judgment. Small roots grow deep gardens.", whatIf),
	}
}

// SuggestedScenarios proposes what-if prompts from the gardener's patterns.
func (s *SimulateService) SuggestedScenarios(ctx context.Context, userID string) (*ScenarioSuggestions, error) {
	echoes, err := s.echoes.ListRecent(ctx, userID, 10)
	if err != nil {
		return nil, err
	}
	if len(echoes) == 0 {
		return &ScenarioSuggestions{
			Suggestions: []string{
				"I start journaling every morning",
				"I practice gratitude daily",
				"I commit to weekly therapy check-ins",
			},
			Note: "Default suggestions - plant more echoes for personalized scenarios",
		}, nil
	}

	avg := avgMood(echoes)
	lowerTags := map[string]bool{}
	for _, e := range echoes {
		for _, tag := range e.EmotionTags {
			lowerTags[strings.ToLower(tag)] = true
		}
	}

	var suggestions []string
	if avg < -0.1 {
		suggestions = append(suggestions,
			"I schedule weekly therapy or support group sessions",
			"I practice self-compassion exercises daily",
		)
	}
	if lowerTags["anxiety"] {
		suggestions = append(suggestions,
			"I commit to 10 minutes of breathwork each morning",
			"I limit social media to 30 minutes per day",
		)
	}
	if lowerTags["gratitude"] {
		suggestions = append(suggestions, "I write 3 gratitudes every night before bed")
	}
	suggestions = append(suggestions,
		"I start a creative hobby (art, music, writing)",
		"I build a morning routine that nourishes me",
		"I reach out to a friend weekly for connection",
	)
	if len(suggestions) > 6 {
		suggestions = suggestions[:6]
	}

	top := topEmotions(echoes, 1)
	dominant := "neutral"
	if len(top) > 0 {
		dominant = top[0]
	}
	return &ScenarioSuggestions{
		Suggestions: suggestions,
		BasedOn: map[string]any{
			"echo_count":       len(echoes),
			"dominant_emotion": dominant,
			"avg_mood":         round2(avg),
		},
	}, nil
}
