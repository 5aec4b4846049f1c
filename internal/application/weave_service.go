package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/echobloom/echobloom-backend/internal/ai"
	"github.com/echobloom/echobloom-backend/internal/domain/entity"
	"github.com/echobloom/echobloom-backend/internal/domain/repository"
	"github.com/echobloom/echobloom-backend/internal/infrastructure/postgres"
)

// Tale generation needs at least this many echoes in the window.
const minEchoesForTale = 3

// Affirmations auto-trigger below this mood score.
const affirmationMoodThreshold = -0.2

// MoodJourneyEntry is one stop in the week's emotional path.
type MoodJourneyEntry struct {
	Date           string  `json:"date"`
	Mood           float64 `json:"mood"`
	ContentPreview string  `json:"content_preview"`
}

// KeyMoment is a notably high or low echo.
type KeyMoment struct {
	Type     string   `json:"type"`
	Emotions []string `json:"emotions"`
	Snippet  string   `json:"snippet"`
}

// NarrativeArc summarizes the week's emotional shape.
type NarrativeArc struct {
	AvgMood        float64 `json:"avg_mood"`
	EmotionalRange float64 `json:"emotional_range"`
	JourneyType    string  `json:"journey_type"`
}

// NarrativeData is the aggregated raw material for a tale.
type NarrativeData struct {
	HasData          bool               `json:"has_data"`
	EchoCount        int                `json:"echo_count"`
	DominantEmotions []string           `json:"dominant_emotions"`
	MoodJourney      []MoodJourneyEntry `json:"mood_journey"`
	KeyMoments       []KeyMoment        `json:"key_moments"`
	NarrativeArc     NarrativeArc       `json:"narrative_arc"`
}

// Tale is the generated therapeutic fable.
type Tale struct {
	Title            string `json:"title"`
	Fable            string `json:"fable"`
	Moral            string `json:"moral"`
	GardenMetaphor   string `json:"garden_metaphor"`
	ReflectionPrompt string `json:"reflection_prompt"`
}

// TaleResult wraps a tale with its source data.
type TaleResult struct {
	Ready         bool           `json:"ready"`
	Generated     bool           `json:"generated"`
	Tale          *Tale          `json:"tale,omitempty"`
	NarrativeData *NarrativeData `json:"narrative_data,omitempty"`
	Message       string         `json:"message,omitempty"`
	Suggestion    string         `json:"suggestion,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
}

// Weaving is the generated affirmation poem.
type Weaving struct {
	Title                   string `json:"title"`
	Affirmation             string `json:"affirmation"`
	MantraLine              string `json:"mantra_line"`
	EmotionalAcknowledgment string `json:"emotional_acknowledgment"`
	GardenMetaphor          string `json:"garden_metaphor"`
	VoiceGuidance           string `json:"voice_guidance"`
}

// AffirmationResult wraps a weaving with its source echo.
type AffirmationResult struct {
	Generated bool         `json:"generated"`
	Weaving   Weaving      `json:"affirmation"`
	Echo      *entity.Echo `json:"original_echo"`
	CreatedAt time.Time    `json:"created_at"`
}

// AffirmationCheck tells the client whether to offer a weaving.
type AffirmationCheck struct {
	NeedsAffirmation bool     `json:"needs_affirmation"`
	EchoID           string   `json:"echo_id,omitempty"`
	MoodScore        float64  `json:"mood_score,omitempty"`
	EmotionTags      []string `json:"emotion_tags,omitempty"`
	Message          string   `json:"message"`
}

// WeaveService turns echoes into tales and affirmation weavings.
type WeaveService struct {
	echoes       repository.EchoRepository
	affirmations repository.AffirmationRepository
	gen          ai.Generator
	log          *logrus.Logger
}

func NewWeaveService(
	echoes repository.EchoRepository,
	affirmations repository.AffirmationRepository,
	gen ai.Generator,
	log *logrus.Logger,
) *WeaveService {
	return &WeaveService{echoes: echoes, affirmations: affirmations, gen: gen, log: log}
}

// AggregateEchoes condenses an oldest-first echo list into narrative data.
func AggregateEchoes(echoes []*entity.Echo) NarrativeData {
	if len(echoes) == 0 {
		return NarrativeData{}
	}

	data := NarrativeData{HasData: true, EchoCount: len(echoes)}
	for _, e := range echoes {
		preview := e.Content
		// Cuts land on rune boundaries so multi-byte content stays valid UTF-8.
		if utf8.RuneCountInString(preview) > 100 {
			preview = string([]rune(preview)[:100]) + "..."
		}
		data.MoodJourney = append(data.MoodJourney, MoodJourneyEntry{
			Date:           e.CreatedAt.Format("Monday, January 02"),
			Mood:           e.MoodScore,
			ContentPreview: preview,
		})

		if e.MoodScore > 0.3 || e.MoodScore < -0.3 {
			kind := "valley"
			if e.MoodScore > 0.3 {
				kind = "peak"
			}
			snippet := e.Content
			if utf8.RuneCountInString(snippet) > 80 {
				snippet = string([]rune(snippet)[:80])
			}
			data.KeyMoments = append(data.KeyMoments, KeyMoment{
				Type:     kind,
				Emotions: e.EmotionTags,
				Snippet:  snippet,
			})
		}
	}
	if len(data.KeyMoments) > 5 {
		data.KeyMoments = data.KeyMoments[:5]
	}

	data.DominantEmotions = topEmotions(echoes, 3)

	var lo, hi float64 = echoes[0].MoodScore, echoes[0].MoodScore
	for _, e := range echoes {
		if e.MoodScore < lo {
			lo = e.MoodScore
		}
		if e.MoodScore > hi {
			hi = e.MoodScore
		}
	}
	journey := "challenge"
	if echoes[len(echoes)-1].MoodScore > echoes[0].MoodScore {
		journey = "growth"
	}
	data.NarrativeArc = NarrativeArc{
		AvgMood:        avgMood(echoes),
		EmotionalRange: hi - lo,
		JourneyType:    journey,
	}
	return data
}

const talePrompt = `You are a narrative therapist crafting a therapeutic fable for a wellness journaling app.

USER'S WEEK SUMMARY:
- Echoes shared: %d
- Dominant emotions: %s
- Journey type: %s
- Emotional range: %.2f
- Average mood: %.2f

KEY MOMENTS FROM THEIR WEEK:
%s

TASK: Craft a short fable (400-600 words) that:
1. Mirrors their emotional journey through nature metaphors
2. Transforms challenges into growth narratives
3. Validates all emotions without toxic positivity
4. Ends with gentle hope and self-compassion

STYLE:
- Whimsical yet wise
- Use "the gardener" as the protagonist (representing the user)
- Include sensory details (sounds, textures, colors)
- Weave in their dominant emotions as garden elements

FORMAT AS JSON:
{
  "title": "Poetic 3-5 word title",
  "fable": "Full 400-600 word narrative in paragraphs",
  "moral": "One sentence distilled wisdom",
  "garden_metaphor": "What their week's garden looked like (2 sentences)",
  "reflection_prompt": "Gentle question to ponder (1 sentence)"
}

Make it deeply personal to their journey, not generic. This is narrative therapy.`

// CreateTale weaves the period's echoes into a fable.
func (s *WeaveService) CreateTale(ctx context.Context, userID string, days int) (*TaleResult, error) {
	data, count, err := s.narrativeData(ctx, userID, days)
	if err != nil {
		return nil, err
	}
	result := &TaleResult{CreatedAt: time.Now().UTC()}
	if count < minEchoesForTale {
		result.Message = fmt.Sprintf("Need at least %d echoes to weave a tale. You have %d.", minEchoesForTale, count)
		result.Suggestion = "Keep planting echoes this week, and return for your story!"
		return result, nil
	}

	moments := make([]string, 0, 3)
	for i, m := range data.KeyMoments {
		if i == 3 {
			break
		}
		moments = append(moments, fmt.Sprintf("%d. %s: %s", i+1, capitalize(m.Type), m.Snippet))
	}
	prompt := fmt.Sprintf(talePrompt,
		data.EchoCount, strings.Join(data.DominantEmotions, ", "),
		data.NarrativeArc.JourneyType, data.NarrativeArc.EmotionalRange, data.NarrativeArc.AvgMood,
		strings.Join(moments, "\n"),
	)

	result.Ready = true
	result.NarrativeData = data
	var tale Tale
	if err := s.gen.GenerateJSON(ctx, prompt, &tale); err != nil || tale.Fable == "" {
		if err != nil {
			s.log.WithError(err).Warn("tale generation failed, using fallback")
		}
		fallback := fallbackTale(data)
		result.Tale = &fallback
		return result, nil
	}
	result.Generated = true
	result.Tale = &tale
	return result, nil
}

// PreviewData reports whether enough material exists for a tale.
func (s *WeaveService) PreviewData(ctx context.Context, userID string, days int) (*NarrativeData, bool, error) {
	data, count, err := s.narrativeData(ctx, userID, days)
	if err != nil {
		return nil, false, err
	}
	return data, count >= minEchoesForTale, nil
}

func (s *WeaveService) narrativeData(ctx context.Context, userID string, days int) (*NarrativeData, int, error) {
	if days <= 0 {
		days = 7
	}
	since := time.Now().UTC().AddDate(0, 0, -days)
	echoes, err := s.echoes.ListSince(ctx, userID, since)
	if err != nil {
		return nil, 0, err
	}
	data := AggregateEchoes(echoes)
	return &data, len(echoes), nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}

func fallbackTale(data *NarrativeData) Tale {
	emotions := strings.Join(data.DominantEmotions, ", ")
	first := "mixed"
	if len(data.DominantEmotions) > 0 {
		first = data.DominantEmotions[0]
	}
	return Tale{
		Title: "The Garden of Tender Seasons",
		Fable: fmt.Sprintf(`Once, there was a gardener who tended a peculiar plot of land where emotions bloomed like flowers. This week, the garden had seen %d new seeds planted, each one carrying a feeling: %s.

The gardener walked through rows of %s blooms, some petals bright and open, others curled tight against storms they'd weathered. The garden never apologized for its seasons. When clouds gathered, the garden didn't pretend to be sunny. When frost came, it didn't force spring.

There were days the gardener knelt in the soil, hands deep in earth that held both joy and sorrow. They learned that trying to pull out the sad flowers only disturbed the roots of the happy ones. Everything was connected, everything belonged.

One evening, as twilight painted the garden in soft purples and golds, the gardener noticed something: even on the hardest days, they had kept showing up. Even when blooms wilted, new seeds were already forming. The garden taught them that growth isn't always upward. Sometimes it's deeper, quieter, rooting down through dark soil to find nutrients the surface never knew existed.

The gardener realized their week was not a problem to fix but a story to honor. Every emotion had earned its place in the garden. And in that acceptance, something shifted. The garden didn't change, but the gardener's relationship to it softened.

As stars emerged, the gardener whispered to their garden: "Thank you for teaching me that I don't have to bloom in every season to still be growing."`, data.EchoCount, emotions, first),
		Moral:            "A garden's worth is not in constant blooming, but in honest seasons.",
		GardenMetaphor:   fmt.Sprintf("Your week's garden held %d diverse seeds, creating a landscape of %s. It was neither perfectly sunny nor endlessly stormy. It was truthfully, beautifully yours.", data.EchoCount, emotions),
		ReflectionPrompt: "What would change if you saw your emotions as seasons your garden is meant to experience, rather than problems to solve?",
	}
}

const affirmationPrompt = `You are an empathetic alchemy guide in a wellness app, practicing "Affirmation Weaving" - a therapeutic technique that transmutes difficult emotions into resilience mantras.

THE USER'S VENT:
%q

EMOTIONAL STATE:
- Mood score: %.2f (negative scale)
- Dominant emotions: %s

YOUR TASK: Transform this difficult moment into an "Affirmation Weaving" - a poetic mantra that:
1. VALIDATES the pain/struggle (no toxic positivity)
2. REFRAMES it through a growth/resilience lens
3. EMPOWERS the user with self-compassion
4. Uses POETIC, MEMORABLE language (like spoken word poetry)

STYLE GUIDELINES:
- 2-4 short stanzas (total 60-120 words)
- Use metaphors from nature, alchemy, or weaving
- Rhythm that feels like a gentle chant or affirmation
- Balance acknowledgment of pain with gentle hope

FORMAT AS JSON:
{
  "title": "2-4 word poetic title",
  "affirmation": "The full mantra/poem (60-120 words, in 2-4 stanzas)",
  "mantra_line": "One powerful sentence to repeat (10-15 words max)",
  "emotional_acknowledgment": "1 sentence validating their struggle",
  "garden_metaphor": "What this difficult moment is creating in their garden (1-2 sentences)",
  "voice_guidance": "Suggested tone for voice reading: 'gentle', 'grounding', 'empowering', or 'soothing'"
}

Remember: This is not about denying pain. It's about honoring it while offering a thread of resilience to hold onto.`

// CreateAffirmation weaves a mantra from a difficult echo and saves it to the
// vault.
func (s *WeaveService) CreateAffirmation(ctx context.Context, userID, echoID string) (*AffirmationResult, error) {
	echo, err := s.echoes.GetByID(ctx, echoID)
	if err != nil {
		return nil, err
	}
	if echo.UserID != userID {
		return nil, ErrForbidden
	}

	emotions := strings.Join(echo.EmotionTags, ", ")
	prompt := fmt.Sprintf(affirmationPrompt, echo.Content, echo.MoodScore, emotions)

	result := &AffirmationResult{Echo: echo, CreatedAt: time.Now().UTC()}
	var weaving Weaving
	if err := s.gen.GenerateJSON(ctx, prompt, &weaving); err != nil || weaving.Affirmation == "" {
		if err != nil {
			s.log.WithError(err).Warn("affirmation generation failed, using fallback")
		}
		result.Weaving = fallbackWeaving(emotions)
	} else {
		result.Generated = true
		result.Weaving = weaving
	}

	saved := &entity.Affirmation{
		ID:     uuid.NewString(),
		UserID: userID,
		EchoID: echoID,
		Weaving: map[string]any{
			"title":                    result.Weaving.Title,
			"affirmation":              result.Weaving.Affirmation,
			"mantra_line":              result.Weaving.MantraLine,
			"emotional_acknowledgment": result.Weaving.EmotionalAcknowledgment,
			"garden_metaphor":          result.Weaving.GardenMetaphor,
			"voice_guidance":           result.Weaving.VoiceGuidance,
		},
	}
	if err := s.affirmations.Create(ctx, saved); err != nil {
		s.log.WithError(err).Warn("affirmation vault save failed")
	}
	return result, nil
}

func fallbackWeaving(emotions string) Weaving {
	ack := "What you're experiencing is real and valid."
	if emotions != "" {
		ack = fmt.Sprintf("What you're experiencing with %s is real and valid.", emotions)
	}
	return Weaving{
		Title: "The Tender Alchemy",
		Affirmation: `I see you, heavy feeling.
You are not my enemy.
You are information,
a messenger from the parts of me
that need listening.

I do not have to transform you right now.
I do not have to fix or force or flee.
I can simply say:
"I am here. I am feeling this.
And I am still whole."

Even in this difficulty,
I am weaving resilience
with each breath I choose to take.`,
		MantraLine:              "I honor what I feel, and I am still whole.",
		EmotionalAcknowledgment: ack,
		GardenMetaphor:          "This difficult emotion is like compost in your garden, transforming what feels broken into nutrients for future growth.",
		VoiceGuidance:           "gentle",
	}
}

// Vault lists the gardener's saved weavings.
func (s *WeaveService) Vault(ctx context.Context, userID string, limit int) ([]*entity.Affirmation, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.affirmations.ListRecent(ctx, userID, limit)
}

// CheckForAffirmation reports whether the latest echo qualifies for a weaving.
func (s *WeaveService) CheckForAffirmation(ctx context.Context, userID string) (*AffirmationCheck, error) {
	echo, err := s.echoes.Latest(ctx, userID)
	if errors.Is(err, postgres.ErrNotFound) {
		return &AffirmationCheck{Message: "No echoes yet"}, nil
	}
	if err != nil {
		return nil, err
	}

	if echo.MoodScore < affirmationMoodThreshold {
		return &AffirmationCheck{
			NeedsAffirmation: true,
			EchoID:           echo.ID,
			MoodScore:        echo.MoodScore,
			EmotionTags:      echo.EmotionTags,
			Message:          "This moment deserves gentle support",
		}, nil
	}
	return &AffirmationCheck{
		EchoID:      echo.ID,
		MoodScore:   echo.MoodScore,
		EmotionTags: echo.EmotionTags,
		Message:     "No affirmation needed right now",
	}, nil
}
