package application

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/echobloom/echobloom-backend/internal/ai"
	"github.com/echobloom/echobloom-backend/internal/domain/entity"
	"github.com/echobloom/echobloom-backend/internal/domain/repository"
)

// AnalysisJob is the queue message asking the worker to analyze one echo.
type AnalysisJob struct {
	EchoID string `json:"echo_id"`
	UserID string `json:"user_id"`
}

// echoAnalysis is the LLM verdict for a single journal entry.
type echoAnalysis struct {
	MoodScore   float64  `json:"mood_score"`
	EmotionTags []string `json:"emotion_tags"`
	Response    string   `json:"response"`
}

// EchoAnalyzer scores an echo's mood, writes the empathy reply, refreshes the
// profile aggregates and indexes the echo for seed search. The HTTP layer uses
// it inline when no queue is configured; the worker uses it for queued jobs.
type EchoAnalyzer struct {
	echoes   repository.EchoRepository
	profiles repository.ProfileRepository
	gen      ai.Generator
	es       *elasticsearch.Client
	esIndex  string
	log      *logrus.Logger
}

func NewEchoAnalyzer(
	echoes repository.EchoRepository,
	profiles repository.ProfileRepository,
	gen ai.Generator,
	es *elasticsearch.Client,
	esIndex string,
	log *logrus.Logger,
) *EchoAnalyzer {
	return &EchoAnalyzer{
		echoes:   echoes,
		profiles: profiles,
		gen:      gen,
		es:       es,
		esIndex:  esIndex,
		log:      log,
	}
}

const analysisPrompt = `You are an empathetic companion in a mental wellness journaling app.

THE USER'S JOURNAL ENTRY:
%q

TASK:
1. Score the emotional tone from -1.0 (very low) to 1.0 (very elevated).
2. Name 1-3 emotions present in the entry.
3. Write a warm, validating 2-3 sentence reply. No advice unless asked. No toxic positivity.

FORMAT AS JSON:
{
  "mood_score": <number between -1.0 and 1.0>,
  "emotion_tags": ["Emotion", ...],
  "response": "2-3 sentence empathetic reply"
}`

// Analyze runs the full pipeline for one echo.
func (a *EchoAnalyzer) Analyze(ctx context.Context, echoID string) (*entity.Echo, error) {
	echo, err := a.echoes.GetByID(ctx, echoID)
	if err != nil {
		return nil, err
	}

	verdict := a.score(ctx, echo.Content)
	verdict.MoodScore = entity.ClampMood(verdict.MoodScore)
	stage := entity.StageForMood(verdict.MoodScore)

	if err := a.echoes.UpdateAnalysis(ctx, echo.ID, verdict.MoodScore, verdict.EmotionTags, verdict.Response, stage); err != nil {
		return nil, err
	}
	echo.MoodScore = verdict.MoodScore
	echo.EmotionTags = verdict.EmotionTags
	echo.Response = verdict.Response
	echo.GrowthStage = stage
	echo.AnalysisPending = false

	if err := a.refreshProfile(ctx, echo.UserID); err != nil {
		a.log.WithError(err).WithField("user_id", echo.UserID).Warn("profile refresh failed")
	}
	a.indexEcho(ctx, echo)

	return echo, nil
}

func (a *EchoAnalyzer) score(ctx context.Context, content string) echoAnalysis {
	var verdict echoAnalysis
	err := a.gen.GenerateJSON(ctx, fmt.Sprintf(analysisPrompt, content), &verdict)
	if err == nil && verdict.Response != "" {
		return verdict
	}
	if err != nil {
		a.log.WithError(err).Warn("llm echo analysis failed, using neutral fallback")
	}
	return echoAnalysis{
		MoodScore:   0,
		EmotionTags: []string{"Reflective"},
		Response:    "Thank you for sharing this. Your words have been planted in the garden, and they matter. Take a moment to breathe and be gentle with yourself.",
	}
}

// refreshProfile recomputes the wellness aggregates from stored echoes. Every
// field is derived from the echo history rather than incremented, so a
// redelivered analysis job cannot double count and the result does not depend
// on last_active writes from unrelated endpoints.
func (a *EchoAnalyzer) refreshProfile(ctx context.Context, userID string) error {
	p, err := a.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}

	recent, err := a.echoes.ListRecent(ctx, userID, 30)
	if err != nil {
		return err
	}
	if len(recent) == 0 {
		return nil
	}

	counts, err := a.echoes.CountByStage(ctx, userID)
	if err != nil {
		return err
	}
	total := 0
	for _, n := range counts {
		total += n
	}

	now := time.Now().UTC()
	window, err := a.echoes.ListSince(ctx, userID, now.AddDate(0, 0, -90))
	if err != nil {
		return err
	}

	var sum float64
	for _, e := range recent {
		sum += e.MoodScore
	}
	avg := sum / float64(len(recent))

	p.TotalEchoes = total
	p.MoodAverage = avg
	p.WellnessScore = entity.ClampWellness(int((avg + 1) / 2 * 100))
	p.MoodTrendDirection = trendDirection(recent)

	current, longest := plantingStreaks(window, recent[0].CreatedAt)
	p.CurrentStreak = current
	// longest_streak stays monotone even when the run predates the window.
	if longest > p.LongestStreak {
		p.LongestStreak = longest
	}
	p.WeeklyActiveDays = activePlantingDays(window, now, 7)
	p.MonthlyReflections = echoesSince(window, now.AddDate(0, 0, -30))
	p.Achievements = achievementsFor(p)

	return a.profiles.Update(ctx, p)
}

// plantingStreaks derives the consecutive-day planting runs from the echo
// window. The current run is anchored at the newest echo's day, so the first
// echo of an account starts a streak of 1.
func plantingStreaks(window []*entity.Echo, newest time.Time) (current, longest int) {
	days := map[time.Time]bool{}
	for _, e := range window {
		days[dateOf(e.CreatedAt)] = true
	}
	if len(days) == 0 {
		return 0, 0
	}

	for d := dateOf(newest); days[d]; d = d.AddDate(0, 0, -1) {
		current++
	}

	for d := range days {
		if days[d.AddDate(0, 0, -1)] {
			continue // not the start of a run
		}
		run := 0
		for e := d; days[e]; e = e.AddDate(0, 0, 1) {
			run++
		}
		if run > longest {
			longest = run
		}
	}
	return current, longest
}

// activePlantingDays counts distinct days with at least one echo inside the
// trailing n-day window ending today.
func activePlantingDays(window []*entity.Echo, now time.Time, n int) int {
	cutoff := dateOf(now).AddDate(0, 0, -(n - 1))
	seen := map[time.Time]bool{}
	for _, e := range window {
		if d := dateOf(e.CreatedAt); !d.Before(cutoff) {
			seen[d] = true
		}
	}
	return len(seen)
}

func echoesSince(window []*entity.Echo, cutoff time.Time) int {
	n := 0
	for _, e := range window {
		if !e.CreatedAt.Before(cutoff) {
			n++
		}
	}
	return n
}

// achievementsFor derives the milestone badges from the refreshed aggregates.
// Thresholds only ever rise with the stats, so earned badges never disappear.
func achievementsFor(p *entity.Profile) []string {
	earned := []string{}
	if p.TotalEchoes >= 1 {
		earned = append(earned, "first_bloom")
	}
	if p.LongestStreak >= 7 {
		earned = append(earned, "week_warrior")
	}
	if p.TotalEchoes >= 30 {
		earned = append(earned, "deep_roots")
	}
	if p.LongestStreak >= 30 {
		earned = append(earned, "moon_cycle")
	}
	return earned
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// trendDirection compares the newest half of the window against the older half.
func trendDirection(recent []*entity.Echo) string {
	if len(recent) < 4 {
		return entity.TrendStable
	}
	half := len(recent) / 2
	newer, older := recent[:half], recent[half:]

	avgOf := func(es []*entity.Echo) float64 {
		var s float64
		for _, e := range es {
			s += e.MoodScore
		}
		return s / float64(len(es))
	}
	newAvg, oldAvg := avgOf(newer), avgOf(older)
	switch {
	case newAvg > oldAvg+0.1:
		return entity.TrendImproving
	case newAvg < oldAvg-0.1:
		return entity.TrendDeclining
	default:
		return entity.TrendStable
	}
}

func daysBetween(a, b time.Time) int {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return int(time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC).
		Sub(time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)).Hours() / 24)
}

// indexEcho mirrors the analyzed echo into Elasticsearch for seed search.
// Search stays best-effort: indexing failures are logged, never returned.
func (a *EchoAnalyzer) indexEcho(ctx context.Context, echo *entity.Echo) {
	if a.es == nil {
		return
	}
	doc := map[string]any{
		"user_id":      echo.UserID,
		"content":      echo.Content,
		"seed_type":    echo.SeedType,
		"mood_score":   echo.MoodScore,
		"emotion_tags": echo.EmotionTags,
		"growth_stage": echo.GrowthStage,
		"created_at":   echo.CreatedAt,
	}
	body, err := json.Marshal(doc)
	if err != nil {
		a.log.WithError(err).Warn("marshal echo for indexing")
		return
	}
	req := esapi.IndexRequest{
		Index:      a.esIndex,
		DocumentID: echo.ID,
		Body:       bytes.NewReader(body),
	}
	res, err := req.Do(ctx, a.es)
	if err != nil {
		a.log.WithError(err).Warn("index echo")
		return
	}
	defer res.Body.Close()
	if res.IsError() {
		a.log.WithField("status", res.StatusCode).Warn("index echo rejected")
	}
}
