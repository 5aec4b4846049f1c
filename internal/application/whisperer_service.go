package application

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/echobloom/echobloom-backend/internal/ai"
	"github.com/echobloom/echobloom-backend/internal/domain/entity"
	"github.com/echobloom/echobloom-backend/internal/domain/repository"
)

// Pattern types the whisperer can detect.
const (
	PatternInsufficientData = "insufficient_data"
	PatternStable           = "stable"
	PatternDecliningTrend   = "declining_trend"
	PatternPersistentLow    = "persistent_low"
	PatternSuddenDrop       = "sudden_drop"
)

// MoodPattern is the verdict of the low-mood pattern scan.
type MoodPattern struct {
	NeedsIntervention bool       `json:"needs_intervention"`
	PatternType       string     `json:"pattern_type"`
	Severity          int        `json:"severity"`
	LowMoodDays       int        `json:"low_mood_days"`
	AvgMood           float64    `json:"avg_mood"`
	RecentEmotions    [][]string `json:"recent_emotions"`
}

// NudgeSuggestion is one supportive action inside a whisperer nudge.
type NudgeSuggestion struct {
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// Nudge is the proactive check-in shown when a pattern needs intervention.
type Nudge struct {
	Message     string            `json:"message"`
	RescueTier  string            `json:"rescue_tier"`
	Suggestions []NudgeSuggestion `json:"suggestions"`
	Affirmation string            `json:"affirmation"`
}

// WhispererCheck is the full response of the pattern check.
type WhispererCheck struct {
	NeedsIntervention bool        `json:"needs_intervention"`
	Pattern           MoodPattern `json:"pattern"`
	Nudge             *Nudge      `json:"nudge,omitempty"`
	Severity          int         `json:"severity,omitempty"`
	Message           string      `json:"message,omitempty"`
	Timestamp         time.Time   `json:"timestamp"`
}

// FoodItem is one entry in the mood-food basket.
type FoodItem struct {
	Name    string `json:"name"`
	Emoji   string `json:"emoji"`
	Benefit string `json:"benefit"`
	Science string `json:"science"`
}

// FoodBasket is the nutrition suggestion payload.
type FoodBasket struct {
	BasketTheme string     `json:"basket_theme"`
	Foods       []FoodItem `json:"foods"`
	Ritual      string     `json:"ritual"`
}

// WhispererService watches for concerning mood patterns and nudges gently.
type WhispererService struct {
	echoes   repository.EchoRepository
	profiles repository.ProfileRepository
	gen      ai.Generator
	log      *logrus.Logger
}

func NewWhispererService(
	echoes repository.EchoRepository,
	profiles repository.ProfileRepository,
	gen ai.Generator,
	log *logrus.Logger,
) *WhispererService {
	return &WhispererService{echoes: echoes, profiles: profiles, gen: gen, log: log}
}

// AnalyzeMoodPattern scans the newest-first echo list for concerning shapes.
// Only the newest 7 entries count.
func AnalyzeMoodPattern(echoes []*entity.Echo) MoodPattern {
	if len(echoes) < 3 {
		return MoodPattern{PatternType: PatternInsufficientData}
	}

	recent := echoes
	if len(recent) > 7 {
		recent = recent[:7]
	}
	scores := make([]float64, len(recent))
	lowDays := 0
	var sum float64
	for i, e := range recent {
		scores[i] = e.MoodScore
		sum += e.MoodScore
		if e.MoodScore < -0.2 {
			lowDays++
		}
	}
	avg := sum / float64(len(scores))

	p := MoodPattern{
		PatternType: PatternStable,
		LowMoodDays: lowDays,
		AvgMood:     avg,
	}
	switch {
	case lowDays >= 3:
		p.NeedsIntervention = true
		p.PatternType = PatternDecliningTrend
		p.Severity = int(math.Min(float64(lowDays), 5))
	case avg < -0.3:
		p.NeedsIntervention = true
		p.PatternType = PatternPersistentLow
		p.Severity = 3
	default:
		recentAvg := (scores[0] + scores[1] + scores[2]) / 3
		if recentAvg < -0.2 && recentAvg < avg-0.3 {
			p.NeedsIntervention = true
			p.PatternType = PatternSuddenDrop
			p.Severity = 4
		}
	}

	for i := 0; i < len(recent) && i < 3; i++ {
		p.RecentEmotions = append(p.RecentEmotions, recent[i].EmotionTags)
	}
	return p
}

// CheckPatterns scans the last 7 days and returns a nudge when needed.
func (s *WhispererService) CheckPatterns(ctx context.Context, userID string) (*WhispererCheck, error) {
	since := time.Now().UTC().AddDate(0, 0, -7)
	echoes, err := s.echoes.ListSince(ctx, userID, since)
	if err != nil {
		return nil, err
	}
	// Pattern analysis wants newest first.
	reversed := make([]*entity.Echo, len(echoes))
	for i, e := range echoes {
		reversed[len(echoes)-1-i] = e
	}

	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	pattern := AnalyzeMoodPattern(reversed)
	check := &WhispererCheck{
		NeedsIntervention: pattern.NeedsIntervention,
		Pattern:           pattern,
		Timestamp:         time.Now().UTC(),
	}
	if !pattern.NeedsIntervention {
		check.Message = "Your garden is thriving! Keep nurturing those seeds. \U0001F338"
		return check, nil
	}

	check.Severity = pattern.Severity
	check.Nudge = s.generateNudge(ctx, pattern, profile)
	return check, nil
}

const nudgePrompt = `You are the Garden Whisperer, a gentle AI companion in a wellness journaling app.

USER CONTEXT:
- Pattern detected: %s
- Severity level: %d/5
- Recent emotions: %s
- Wellness score: %d

TASK: Generate a warm, proactive nudge to support the user. Follow these tiers:

RESCUE TIERS:
1. Quick (Severity 1-2): Gentle reminder + mood-food suggestion
2. Medium (Severity 3): Activity recommendation + encouragement
3. Deep (Severity 4-5): Compassionate check-in + sojourn suggestion

TONE: Empathetic, non-judgmental, conversational. Like a wise friend.

FORMAT YOUR RESPONSE AS JSON:
{
  "message": "2-3 sentence warm check-in",
  "rescue_tier": "quick|medium|deep",
  "suggestions": [
    {
      "type": "food|activity|sojourn",
      "title": "Short title",
      "description": "1 sentence description",
      "icon": "emoji"
    }
  ],
  "affirmation": "One empowering sentence"
}

Keep it brief, actionable, and hopeful.`

func (s *WhispererService) generateNudge(ctx context.Context, pattern MoodPattern, profile *entity.Profile) *Nudge {
	var emotions []string
	for _, tags := range pattern.RecentEmotions {
		emotions = append(emotions, tags...)
	}
	prompt := fmt.Sprintf(nudgePrompt, pattern.PatternType, pattern.Severity, strings.Join(emotions, ", "), profile.WellnessScore)

	var nudge Nudge
	if err := s.gen.GenerateJSON(ctx, prompt, &nudge); err != nil || nudge.Message == "" {
		if err != nil {
			s.log.WithError(err).Warn("nudge generation failed, using fallback")
		}
		return fallbackNudge()
	}
	return &nudge
}

func fallbackNudge() *Nudge {
	return &Nudge{
		Message:    "I've noticed your garden could use some extra care. You're not alone in this. \U0001F33F",
		RescueTier: "medium",
		Suggestions: []NudgeSuggestion{
			{
				Type:        "activity",
				Title:       "Breathing Exercise",
				Description: "5 minutes of guided breathing to ground yourself",
				Icon:        "\U0001F32C️",
			},
			{
				Type:        "activity",
				Title:       "Gratitude Practice",
				Description: "Name 3 small things that brought you comfort today",
				Icon:        "\U0001F64F",
			},
		},
		Affirmation: "Your feelings are valid, and small steps create big growth.",
	}
}

const foodBasketPrompt = `You are a nutrition-wellness expert in a mental wellness app.

USER'S RECENT EMOTIONAL STATE:
- Dominant emotions: %s

TASK: Suggest 4-5 mood-boosting foods/drinks with scientific backing.

FORMAT AS JSON:
{
  "basket_theme": "Uplifting theme name (e.g., 'Sunshine Basket', 'Grounding Greens')",
  "foods": [
    {
      "name": "Food name",
      "emoji": "emoji",
      "benefit": "How it helps mood (1 sentence)",
      "science": "Brief nutritional fact (e.g., 'Rich in omega-3s')"
    }
  ],
  "ritual": "Simple preparation ritual (2 sentences, mindful approach)"
}

Focus on accessible, comforting foods. Be warm and encouraging.`

// MoodFoodBasket builds nutrition suggestions from recent emotions.
func (s *WhispererService) MoodFoodBasket(ctx context.Context, userID string) (*FoodBasket, bool, error) {
	echoes, err := s.echoes.ListRecent(ctx, userID, 5)
	if err != nil {
		return nil, false, err
	}

	emotions := topEmotions(echoes, 3)
	label := "neutral"
	if len(emotions) > 0 {
		label = strings.Join(emotions, ", ")
	}

	var basket FoodBasket
	if err := s.gen.GenerateJSON(ctx, fmt.Sprintf(foodBasketPrompt, label), &basket); err != nil || len(basket.Foods) == 0 {
		if err != nil {
			s.log.WithError(err).Warn("food basket generation failed, using fallback")
		}
		return fallbackFoodBasket(), false, nil
	}
	return &basket, true, nil
}

func fallbackFoodBasket() *FoodBasket {
	return &FoodBasket{
		BasketTheme: "Comfort Basket",
		Foods: []FoodItem{
			{
				Name:    "Dark Chocolate",
				Emoji:   "\U0001F36B",
				Benefit: "Boosts serotonin and dopamine for instant mood lift",
				Science: "Rich in flavonoids and magnesium",
			},
			{
				Name:    "Chamomile Tea",
				Emoji:   "\U0001F375",
				Benefit: "Calms anxiety and promotes restful presence",
				Science: "Contains apigenin, a natural relaxant",
			},
			{
				Name:    "Blueberries",
				Emoji:   "\U0001FAD0",
				Benefit: "Supports brain health and reduces stress",
				Science: "High in antioxidants and vitamin C",
			},
			{
				Name:    "Almonds",
				Emoji:   "\U0001F330",
				Benefit: "Stabilizes mood and energy levels",
				Science: "Packed with magnesium and vitamin E",
			},
		},
		Ritual: "Set aside 10 quiet minutes. Prepare your chosen food mindfully, noticing colors and aromas. Eat slowly, savoring each bite as an act of self-care.",
	}
}
