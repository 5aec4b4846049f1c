package application

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/echobloom/echobloom-backend/internal/ai"
	"github.com/echobloom/echobloom-backend/internal/domain/entity"
	"github.com/echobloom/echobloom-backend/internal/domain/repository"
	"github.com/echobloom/echobloom-backend/internal/infrastructure/postgres"
)

// ErrNoEchoes signals that a feature needs at least one planted echo.
var ErrNoEchoes = errors.New("no echoes planted yet")

// GardenMood are the metrics driving soundscape synthesis.
type GardenMood struct {
	OverallMood        float64  `json:"overall_mood"`
	MoodVariance       float64  `json:"mood_variance"`
	DominantEmotions   []string `json:"dominant_emotions"`
	GardenDensity      int      `json:"garden_density"`
	PlantDiversity     int      `json:"plant_diversity"`
	EmotionalIntensity float64  `json:"emotional_intensity"`
}

// Oscillator is one Web Audio oscillator layer.
type Oscillator struct {
	Frequency float64 `json:"frequency"`
	Type      string  `json:"type"`
	Gain      float64 `json:"gain"`
	Detune    float64 `json:"detune"`
	Enabled   *bool   `json:"enabled,omitempty"`
}

// RhythmPulse is the LFO modulation layer.
type RhythmPulse struct {
	Frequency float64 `json:"frequency"`
	Depth     float64 `json:"depth"`
	Enabled   bool    `json:"enabled"`
}

// AudioFilter is the output filter stage.
type AudioFilter struct {
	Type      string  `json:"type"`
	Frequency float64 `json:"frequency"`
	Q         float64 `json:"q"`
}

// Reverb is the spatial effect stage.
type Reverb struct {
	Wetness float64 `json:"wetness"`
	Decay   float64 `json:"decay"`
}

// NatureSound is one sampled ambience layer.
type NatureSound struct {
	Type   string  `json:"type"`
	Volume float64 `json:"volume"`
	Reason string  `json:"reason,omitempty"`
}

// AudioConfig is the full Web Audio parameter set the client synthesizes from.
type AudioConfig struct {
	BaseDrone         Oscillator    `json:"base_drone"`
	HarmonicPad       Oscillator    `json:"harmonic_pad"`
	HighShimmer       Oscillator    `json:"high_shimmer"`
	RhythmPulse       RhythmPulse   `json:"rhythm_pulse"`
	Filter            AudioFilter   `json:"filter"`
	Reverb            Reverb        `json:"reverb"`
	NatureSounds      []NatureSound `json:"nature_sounds"`
	EmotionalTone     string        `json:"emotional_tone"`
	TherapeuticIntent string        `json:"therapeutic_intent"`
}

// SoundscapeResult bundles the audio config with the garden metrics it came from.
type SoundscapeResult struct {
	Generated   bool        `json:"generated"`
	AudioConfig AudioConfig `json:"audio_config"`
	GardenState GardenMood  `json:"garden_state"`
	Timestamp   time.Time   `json:"timestamp"`
	Message     string      `json:"message"`
}

// SoundscapePreset is a curated starting point.
type SoundscapePreset struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	MoodRange   [2]float64     `json:"mood_range"`
	Preview     map[string]any `json:"preview"`
}

// CurrentMoodSound is the quick mood probe for the play button.
type CurrentMoodSound struct {
	HasData         bool    `json:"has_data"`
	CurrentMood     float64 `json:"current_mood,omitempty"`
	DominantEmotion string  `json:"dominant_emotion,omitempty"`
	SoundscapeStyle string  `json:"soundscape_style,omitempty"`
	Suggestion      string  `json:"suggestion,omitempty"`
	Message         string  `json:"message,omitempty"`
}

// SoundscapeService turns garden state into Web Audio synthesis parameters.
type SoundscapeService struct {
	echoes repository.EchoRepository
	gen    ai.Generator
	log    *logrus.Logger
}

func NewSoundscapeService(echoes repository.EchoRepository, gen ai.Generator, log *logrus.Logger) *SoundscapeService {
	return &SoundscapeService{echoes: echoes, gen: gen, log: log}
}

// AnalyzeGardenMood condenses recent echoes and plant counts into metrics.
func AnalyzeGardenMood(echoes []*entity.Echo, plantsByStage map[string]int) GardenMood {
	if len(echoes) == 0 {
		return GardenMood{DominantEmotions: []string{}}
	}

	var intensity float64
	for _, e := range echoes {
		intensity += math.Abs(e.MoodScore)
	}
	total := 0
	for _, n := range plantsByStage {
		total += n
	}

	return GardenMood{
		OverallMood:        round2(avgMood(echoes)),
		MoodVariance:       round3(moodVariance(echoes)),
		DominantEmotions:   topEmotions(echoes, 3),
		GardenDensity:      total,
		PlantDiversity:     len(plantsByStage),
		EmotionalIntensity: round2(intensity / float64(len(echoes))),
	}
}

const soundscapePrompt = `You are a therapeutic soundscape designer specializing in procedural audio generation.

Based on this user's wellness garden state, generate Web Audio API parameters for a soothing ambient soundscape:

Garden Metrics:
- Overall Mood: %.2f (-1.0 to 1.0, where -1 is low, 1 is elevated)
- Mood Variance: %.3f (emotional stability, lower = more stable)
- Dominant Emotions: %s
- Garden Density: %d plants
- Plant Diversity: %d types
- Emotional Intensity: %.2f

Design Philosophy:
- Low mood (-1.0 to -0.3): Grounding, slower tempos, warm bass drones, gentle nature sounds
- Neutral mood (-0.3 to 0.3): Balanced, soft pads, ambient textures, meditative tones
- Elevated mood (0.3 to 1.0): Uplifting, brighter harmonics, crystalline tones, birdsong
- High variance: More dynamic modulation, varied rhythms
- Low variance: Steady drones, consistent textures

Generate a JSON object with these Web Audio API parameters:

{
  "base_drone": {"frequency": <40-200 Hz, lower for low mood>, "type": "<sine|triangle|sawtooth>", "gain": <0.1-0.3>, "detune": <-10 to 10>},
  "harmonic_pad": {"frequency": <200-600 Hz, higher for elevated mood>, "type": "<sine|triangle>", "gain": <0.05-0.2>, "detune": <-5 to 5>},
  "high_shimmer": {"frequency": <800-2000 Hz>, "type": "sine", "gain": <0.02-0.1>, "detune": <-3 to 3>, "enabled": <true if mood > 0.2>},
  "rhythm_pulse": {"frequency": <1-3 Hz>, "depth": <0.1-0.5, higher for high variance>, "enabled": <true if variance > 0.2>},
  "filter": {"type": "lowpass", "frequency": <500-3000 Hz>, "q": <0.5-2.0>},
  "reverb": {"wetness": <0.2-0.6>, "decay": <2-8 seconds>},
  "nature_sounds": [{"type": "<rain|wind|birds|stream|forest>", "volume": <0.1-0.4>, "reason": "<Why this sound fits the mood>"}],
  "emotional_tone": "<1-2 words describing the soundscape>",
  "therapeutic_intent": "<1 sentence explaining the healing purpose>"
}

Important:
- Ensure all frequencies are physiologically calming (avoid dissonance)
- Lower frequencies for grounding, higher for uplift
- Return ONLY valid JSON, no markdown, no explanation.`

// Generate builds a soundscape from the gardener's recent echoes.
func (s *SoundscapeService) Generate(ctx context.Context, userID string, includeRecent int) (*SoundscapeResult, error) {
	if includeRecent <= 0 || includeRecent > 20 {
		includeRecent = 5
	}
	echoes, err := s.echoes.ListRecent(ctx, userID, includeRecent)
	if err != nil {
		return nil, err
	}
	if len(echoes) == 0 {
		return nil, ErrNoEchoes
	}
	plants, err := s.echoes.CountByStage(ctx, userID)
	if err != nil {
		return nil, err
	}

	mood := AnalyzeGardenMood(echoes, plants)
	prompt := fmt.Sprintf(soundscapePrompt,
		mood.OverallMood, mood.MoodVariance, strings.Join(mood.DominantEmotions, ", "),
		mood.GardenDensity, mood.PlantDiversity, mood.EmotionalIntensity,
	)

	result := &SoundscapeResult{GardenState: mood, Timestamp: time.Now().UTC()}
	var cfg AudioConfig
	if err := s.gen.GenerateJSON(ctx, prompt, &cfg); err != nil || cfg.EmotionalTone == "" {
		if err != nil {
			s.log.WithError(err).Warn("soundscape generation failed, using fallback")
		}
		cfg = FallbackSoundscape(mood.OverallMood)
	} else {
		result.Generated = true
	}
	result.AudioConfig = cfg
	result.Message = fmt.Sprintf("Generated %s soundscape based on %d recent reflections", cfg.EmotionalTone, len(echoes))
	return result, nil
}

func boolPtr(b bool) *bool { return &b }

// FallbackSoundscape is the safe default parameter set per mood band.
func FallbackSoundscape(mood float64) AudioConfig {
	switch {
	case mood < -0.3:
		return AudioConfig{
			BaseDrone:   Oscillator{Frequency: 80, Type: "sine", Gain: 0.25},
			HarmonicPad: Oscillator{Frequency: 240, Type: "triangle", Gain: 0.12, Detune: -3},
			HighShimmer: Oscillator{Type: "sine", Enabled: boolPtr(false)},
			RhythmPulse: RhythmPulse{},
			Filter:      AudioFilter{Type: "lowpass", Frequency: 800, Q: 1.0},
			Reverb:      Reverb{Wetness: 0.4, Decay: 5},
			NatureSounds: []NatureSound{
				{Type: "rain", Volume: 0.25, Reason: "Grounding and comforting for difficult moments"},
			},
			EmotionalTone:     "Grounding embrace",
			TherapeuticIntent: "This soundscape offers a warm sonic anchor to help you feel held and safe.",
		}
	case mood > 0.3:
		return AudioConfig{
			BaseDrone:   Oscillator{Frequency: 120, Type: "sine", Gain: 0.2, Detune: 2},
			HarmonicPad: Oscillator{Frequency: 480, Type: "sine", Gain: 0.15, Detune: 3},
			HighShimmer: Oscillator{Frequency: 1200, Type: "sine", Gain: 0.08, Enabled: boolPtr(true)},
			RhythmPulse: RhythmPulse{Frequency: 2, Depth: 0.3, Enabled: true},
			Filter:      AudioFilter{Type: "lowpass", Frequency: 2400, Q: 0.8},
			Reverb:      Reverb{Wetness: 0.5, Decay: 6},
			NatureSounds: []NatureSound{
				{Type: "birds", Volume: 0.3, Reason: "Celebrating your positive energy with uplifting birdsong"},
			},
			EmotionalTone:     "Luminous flow",
			TherapeuticIntent: "This soundscape mirrors and amplifies your elevated state with bright, crystalline tones.",
		}
	default:
		return AudioConfig{
			BaseDrone:   Oscillator{Frequency: 100, Type: "sine", Gain: 0.22},
			HarmonicPad: Oscillator{Frequency: 360, Type: "triangle", Gain: 0.13},
			HighShimmer: Oscillator{Frequency: 900, Type: "sine", Gain: 0.05, Enabled: boolPtr(true)},
			RhythmPulse: RhythmPulse{Frequency: 1.5, Depth: 0.2, Enabled: false},
			Filter:      AudioFilter{Type: "lowpass", Frequency: 1500, Q: 1.0},
			Reverb:      Reverb{Wetness: 0.45, Decay: 4},
			NatureSounds: []NatureSound{
				{Type: "stream", Volume: 0.2, Reason: "Gentle flow to maintain your equilibrium"},
			},
			EmotionalTone:     "Calm presence",
			TherapeuticIntent: "This soundscape supports your balanced state with gentle, meditative textures.",
		}
	}
}

// Presets returns the curated soundscapes.
func (s *SoundscapeService) Presets() []SoundscapePreset {
	return []SoundscapePreset{
		{
			Name:        "Grounding Rain",
			Description: "Deep bass drones with gentle rain - for centering and stability",
			MoodRange:   [2]float64{-1.0, -0.3},
			Preview: map[string]any{
				"base_drone":    map[string]any{"frequency": 80, "type": "sine", "gain": 0.25},
				"nature_sounds": []map[string]any{{"type": "rain", "volume": 0.3}},
			},
		},
		{
			Name:        "Forest Meditation",
			Description: "Balanced pads with forest ambience - for contemplation",
			MoodRange:   [2]float64{-0.3, 0.3},
			Preview: map[string]any{
				"base_drone":    map[string]any{"frequency": 100, "type": "sine", "gain": 0.22},
				"nature_sounds": []map[string]any{{"type": "forest", "volume": 0.25}},
			},
		},
		{
			Name:        "Crystal Dawn",
			Description: "Bright harmonics with birdsong - for elevated energy",
			MoodRange:   [2]float64{0.3, 1.0},
			Preview: map[string]any{
				"harmonic_pad":  map[string]any{"frequency": 480, "type": "sine", "gain": 0.15},
				"high_shimmer":  map[string]any{"frequency": 1200, "type": "sine", "gain": 0.08, "enabled": true},
				"nature_sounds": []map[string]any{{"type": "birds", "volume": 0.3}},
			},
		},
		{
			Name:        "Ocean Breath",
			Description: "Slow wave-like modulation - for breathwork and relaxation",
			MoodRange:   [2]float64{-0.5, 0.5},
			Preview: map[string]any{
				"base_drone":    map[string]any{"frequency": 90, "type": "sine", "gain": 0.23},
				"rhythm_pulse":  map[string]any{"frequency": 0.3, "depth": 0.4, "enabled": true},
				"nature_sounds": []map[string]any{{"type": "stream", "volume": 0.25}},
			},
		},
	}
}

// CurrentMood probes the latest echo to label the soundscape style.
func (s *SoundscapeService) CurrentMood(ctx context.Context, userID string) (*CurrentMoodSound, error) {
	echo, err := s.echoes.Latest(ctx, userID)
	if errors.Is(err, postgres.ErrNotFound) {
		return &CurrentMoodSound{Message: "No echoes yet - plant your first reflection to unlock soundscapes"}, nil
	}
	if err != nil {
		return nil, err
	}

	style, suggestion := "Balanced & Meditative", "Your garden hums with calm equilibrium"
	if echo.MoodScore < -0.3 {
		style, suggestion = "Grounding & Warm", "Your garden calls for deep, anchoring tones"
	} else if echo.MoodScore > 0.3 {
		style, suggestion = "Bright & Uplifting", "Your garden radiates with crystalline energy"
	}

	dominant := "neutral"
	if len(echo.EmotionTags) > 0 {
		dominant = echo.EmotionTags[0]
	}
	return &CurrentMoodSound{
		HasData:         true,
		CurrentMood:     round2(echo.MoodScore),
		DominantEmotion: dominant,
		SoundscapeStyle: style,
		Suggestion:      suggestion,
	}, nil
}
