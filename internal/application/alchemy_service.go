package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/echobloom/echobloom-backend/internal/ai"
	"github.com/echobloom/echobloom-backend/internal/domain/entity"
	"github.com/echobloom/echobloom-backend/internal/domain/repository"
)

// EmotionToken is one draggable emotion in the alchemy lab palette.
type EmotionToken struct {
	Name        string `json:"name"`
	Color       string `json:"color"`
	Description string `json:"description"`
}

// EmotionPalette lists the emotions available for fusion experiments.
var EmotionPalette = []EmotionToken{
	{Name: "Joy", Color: "from-yellow-400 to-orange-400", Description: "Bright, expansive, warm"},
	{Name: "Sadness", Color: "from-blue-500 to-indigo-600", Description: "Deep, heavy, reflective"},
	{Name: "Anger", Color: "from-red-500 to-red-700", Description: "Hot, intense, energizing"},
	{Name: "Fear", Color: "from-purple-600 to-gray-700", Description: "Sharp, alerting, protective"},
	{Name: "Disgust", Color: "from-green-700 to-yellow-700", Description: "Repelling, boundary-setting"},
	{Name: "Curiosity", Color: "from-sky-400 to-teal-400", Description: "Light, seeking, open"},
	{Name: "Shame", Color: "from-gray-600 to-gray-800", Description: "Shrinking, hidden, heavy"},
	{Name: "Pride", Color: "from-purple-400 to-pink-400", Description: "Uplifting, confident, shining"},
	{Name: "Envy", Color: "from-green-600 to-emerald-700", Description: "Yearning, comparing, reaching"},
	{Name: "Gratitude", Color: "from-pink-300 to-rose-400", Description: "Warm, open, tender"},
	{Name: "Anxiety", Color: "from-yellow-600 to-red-600", Description: "Buzzing, racing, urgent"},
	{Name: "Calm", Color: "from-blue-300 to-green-300", Description: "Soft, steady, grounded"},
	{Name: "Excitement", Color: "from-orange-400 to-pink-500", Description: "Sparking, forward, alive"},
	{Name: "Loneliness", Color: "from-indigo-700 to-blue-800", Description: "Hollow, aching, distant"},
	{Name: "Love", Color: "from-pink-400 to-red-400", Description: "Radiant, connecting, full"},
	{Name: "Confusion", Color: "from-purple-500 to-gray-500", Description: "Foggy, uncertain, swirling"},
}

// FusionOutcome is the generated complex emotional state.
type FusionOutcome struct {
	FusionName         string `json:"fusion_name"`
	FusionDescription  string `json:"fusion_description"`
	VisualMetaphor     string `json:"visual_metaphor"`
	AlchemicalFormula  string `json:"alchemical_formula"`
	WhenThisAppears    string `json:"when_this_appears"`
	TherapeuticInsight string `json:"therapeutic_insight"`
	ColorPalette       string `json:"color_palette"`
	Texture            string `json:"texture"`
	MovementQuality    string `json:"movement_quality"`
}

// FusionResponse wraps a fusion outcome with its metadata.
type FusionResponse struct {
	Generated    bool          `json:"generated"`
	Fusion       FusionOutcome `json:"fusion"`
	EmotionsUsed []string      `json:"emotions_used"`
	CreatedAt    time.Time     `json:"created_at"`
}

// SuggestedPair is a recommended emotion pairing to explore.
type SuggestedPair struct {
	Emotion1 string `json:"emotion1"`
	Emotion2 string `json:"emotion2"`
	Reason   string `json:"reason"`
}

// AlchemyService runs the emotion fusion lab.
type AlchemyService struct {
	echoes  repository.EchoRepository
	fusions repository.FusionRepository
	gen     ai.Generator
	log     *logrus.Logger
}

func NewAlchemyService(
	echoes repository.EchoRepository,
	fusions repository.FusionRepository,
	gen ai.Generator,
	log *logrus.Logger,
) *AlchemyService {
	return &AlchemyService{echoes: echoes, fusions: fusions, gen: gen, log: log}
}

const fusionPrompt = `You are an emotional alchemy guide in a wellness app's experimental lab for exploring complex emotional states.

THE FUSION REQUEST:
Emotion 1: %s
Emotion 2: %s
%s
YOUR TASK: Generate a creative, therapeutic "emotion fusion" that:
1. COMBINES these emotions into a new, named complex emotional state
2. EXPLORES how these emotions interact (do they conflict? complement? transform each other?)
3. VALIDATES the complexity (emotions rarely exist in isolation)
4. Uses VIVID, METAPHORICAL language (like describing an alchemical experiment)

FUSION PHILOSOPHY:
- Emotions are not "good" or "bad" - they're information
- Complex emotions deserve creative names (e.g., "bitter nostalgia", "fierce tenderness")
- Fusion should feel like discovering something that was always there but unnamed
- Use sensory metaphors: textures, temperatures, colors, movements

FORMAT AS JSON:
{
  "fusion_name": "2-4 word poetic name (capitalize each word)",
  "fusion_description": "2-3 sentence description of this complex state (80-120 words)",
  "visual_metaphor": "What this fusion looks like as a garden element (1-2 sentences, vivid imagery)",
  "alchemical_formula": "Poetic equation showing the transformation",
  "when_this_appears": "When you might experience this fusion in real life (1 sentence)",
  "therapeutic_insight": "What this fusion teaches you about yourself (1-2 sentences)",
  "color_palette": "Describe the colors this fusion would have",
  "texture": "Physical texture descriptor",
  "movement_quality": "How this emotion moves"
}

Make it poetic, therapeutic, and deeply validating of emotional complexity.`

// Fuse generates a fusion of two emotions, personalized by recent echoes, and
// records the experiment.
func (s *AlchemyService) Fuse(ctx context.Context, userID, emotion1, emotion2 string) (*FusionResponse, error) {
	contextText := s.userContext(ctx, userID)
	prompt := fmt.Sprintf(fusionPrompt, emotion1, emotion2, contextText)

	resp := &FusionResponse{
		EmotionsUsed: []string{emotion1, emotion2},
		CreatedAt:    time.Now().UTC(),
	}
	var outcome FusionOutcome
	if err := s.gen.GenerateJSON(ctx, prompt, &outcome); err != nil || outcome.FusionName == "" {
		if err != nil {
			s.log.WithError(err).Warn("fusion generation failed, using fallback")
		}
		resp.Fusion = fallbackFusion(emotion1, emotion2)
	} else {
		resp.Generated = true
		resp.Fusion = outcome
	}

	fusion := &entity.Fusion{
		ID:       uuid.NewString(),
		UserID:   userID,
		EmotionA: emotion1,
		EmotionB: emotion2,
		Result: map[string]any{
			"fusion_name":         resp.Fusion.FusionName,
			"fusion_description":  resp.Fusion.FusionDescription,
			"visual_metaphor":     resp.Fusion.VisualMetaphor,
			"alchemical_formula":  resp.Fusion.AlchemicalFormula,
			"when_this_appears":   resp.Fusion.WhenThisAppears,
			"therapeutic_insight": resp.Fusion.TherapeuticInsight,
			"color_palette":       resp.Fusion.ColorPalette,
			"texture":             resp.Fusion.Texture,
			"movement_quality":    resp.Fusion.MovementQuality,
		},
	}
	if err := s.fusions.Create(ctx, fusion); err != nil {
		s.log.WithError(err).Warn("fusion history save failed")
	}
	return resp, nil
}

func (s *AlchemyService) userContext(ctx context.Context, userID string) string {
	echoes, err := s.echoes.ListRecent(ctx, userID, 10)
	if err != nil || len(echoes) == 0 {
		return "\n"
	}
	avg := avgMood(echoes)
	trend := "balanced"
	if avg > 0.2 {
		trend = "positive"
	} else if avg < -0.2 {
		trend = "challenging"
	}
	common := topEmotions(echoes, 3)
	return fmt.Sprintf("\nUSER CONTEXT:\n- Recent mood trend: %s\n- Common emotions: %s\n", trend, strings.Join(common, ", "))
}

func fallbackFusion(emotion1, emotion2 string) FusionOutcome {
	lower1, lower2 := strings.ToLower(emotion1), strings.ToLower(emotion2)
	return FusionOutcome{
		FusionName:         "Complex Wholeness",
		FusionDescription:  fmt.Sprintf("When %s meets %s, they create a space where both can exist without canceling each other out. This is the emotional reality of being human: holding multiple truths at once, like a garden that contains both withering and blooming in the same moment.", lower1, lower2),
		VisualMetaphor:     "A tree whose branches hold both autumn leaves falling and spring buds emerging, proving that transitions contain multitudes.",
		AlchemicalFormula:  fmt.Sprintf("%s + %s = The Courage to Feel Everything", emotion1, emotion2),
		WhenThisAppears:    fmt.Sprintf("This fusion appears when life asks you to hold %s and %s simultaneously, refusing to choose one emotional truth over another.", lower1, lower2),
		TherapeuticInsight: "Your capacity to feel complex, seemingly contradictory emotions is not confusion. It is wisdom. You are large enough to contain multitudes.",
		ColorPalette:       "Swirling gradients where opposing colors meet but don't merge, creating new hues at their borders",
		Texture:            "Like silk and sandpaper woven together, contradictory yet somehow cohesive",
		MovementQuality:    "A double helix spiraling, two forces orbiting each other without colliding",
	}
}

// SuggestedPairs recommends emotion pairings reflecting tensions in recent echoes.
func (s *AlchemyService) SuggestedPairs(ctx context.Context, userID string) ([]SuggestedPair, []string, error) {
	echoes, err := s.echoes.ListRecent(ctx, userID, 15)
	if err != nil {
		return nil, nil, err
	}
	if len(echoes) == 0 {
		return []SuggestedPair{}, nil, nil
	}

	top := topEmotions(echoes, 4)
	has := func(name string) bool {
		for _, e := range top {
			if e == name {
				return true
			}
		}
		return false
	}

	var suggestions []SuggestedPair
	if has("Joy") && has("Sadness") {
		suggestions = append(suggestions, SuggestedPair{
			Emotion1: "Joy", Emotion2: "Sadness",
			Reason: "You've been experiencing both - explore how they coexist",
		})
	}
	if has("Anger") && (has("Sadness") || has("Fear")) {
		second := "Fear"
		if has("Sadness") {
			second = "Sadness"
		}
		suggestions = append(suggestions, SuggestedPair{
			Emotion1: "Anger", Emotion2: second,
			Reason: "Anger often masks other feelings - discover what's beneath",
		})
	}
	if has("Anxiety") && has("Excitement") {
		suggestions = append(suggestions, SuggestedPair{
			Emotion1: "Anxiety", Emotion2: "Excitement",
			Reason: "These feel similar physically - explore their edge",
		})
	}
	if has("Gratitude") {
		for _, sad := range []string{"Sadness", "Loneliness", "Grief"} {
			if has(sad) {
				suggestions = append(suggestions, SuggestedPair{
					Emotion1: "Gratitude", Emotion2: sad,
					Reason: "Bittersweet moments hold both - name what you're feeling",
				})
				break
			}
		}
	}
	if has("Shame") && has("Pride") {
		suggestions = append(suggestions, SuggestedPair{
			Emotion1: "Shame", Emotion2: "Pride",
			Reason: "You're holding contradictory self-views - explore the tension",
		})
	}

	if len(suggestions) == 0 && len(top) > 0 {
		complements := map[string]string{
			"Joy":     "Sadness",
			"Anger":   "Curiosity",
			"Fear":    "Excitement",
			"Sadness": "Gratitude",
			"Anxiety": "Calm",
			"Shame":   "Pride",
		}
		most := top[0]
		complement, ok := complements[most]
		if !ok {
			complement = "Curiosity"
		}
		suggestions = append(suggestions, SuggestedPair{
			Emotion1: most, Emotion2: complement,
			Reason: fmt.Sprintf("You've been feeling %s often - explore it through a different lens", strings.ToLower(most)),
		})
	}

	if len(suggestions) > 3 {
		suggestions = suggestions[:3]
	}
	return suggestions, top, nil
}

// History returns the gardener's saved fusion experiments.
func (s *AlchemyService) History(ctx context.Context, userID string, limit int) ([]*entity.Fusion, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.fusions.ListRecent(ctx, userID, limit)
}
