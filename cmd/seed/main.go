package main

import (
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/echobloom/echobloom-backend/config"
	"github.com/echobloom/echobloom-backend/pkg/helpers"
)

// seedEcho is one pre-analyzed journal entry for the demo garden.
type seedEcho struct {
	daysAgo  int
	content  string
	seedType string
	mood     float64
	tags     []string
	stage    string
}

var demoEchoes = []seedEcho{
	{13, "Started the week feeling scattered, too many tabs open in my head.", "random", -0.3, []string{"Anxiety", "Overwhelm"}, "seed"},
	{12, "Morning walk before work. Small thing, but it helped.", "gratitude", 0.4, []string{"Calm", "Gratitude"}, "bloom"},
	{11, "Presentation went sideways and I kept replaying it all evening.", "worry", -0.5, []string{"Shame", "Frustration"}, "seed"},
	{10, "Talked it through with Sam. It was never as bad as it felt.", "random", 0.2, []string{"Relief", "Connection"}, "sprout"},
	{9, "Quiet day. Nothing remarkable, and that was fine.", "random", 0.05, []string{"Calm"}, "sprout"},
	{8, "Grateful for the rain on the window while I read.", "gratitude", 0.5, []string{"Gratitude", "Peace"}, "bloom"},
	{7, "Sunday dread showed up early this week.", "worry", -0.35, []string{"Anxiety"}, "seed"},
	{6, "Set three small goals for the week instead of ten. Felt lighter.", "intention", 0.3, []string{"Hope", "Clarity"}, "sprout"},
	{5, "Finished the draft I had been avoiding for a month.", "random", 0.6, []string{"Pride", "Relief"}, "bloom"},
	{4, "Skipped lunch, snapped at a coworker, apologized after.", "random", -0.25, []string{"Frustration", "Regret"}, "seed"},
	{3, "Called mom. We laughed about the old garden photos.", "gratitude", 0.55, []string{"Joy", "Connection"}, "bloom"},
	{2, "Tried the breathing exercise before the standup. It took the edge off.", "intention", 0.15, []string{"Calm", "Hope"}, "sprout"},
	{1, "Long day, but I noticed the sunset on the way home.", "random", 0.25, []string{"Gratitude", "Calm"}, "sprout"},
	{0, "Feeling cautiously optimistic about the week ahead.", "intention", 0.35, []string{"Hope"}, "bloom"},
}

type seedActivity struct {
	daysAgo  int
	kind     string
	duration int
	note     string
}

var demoActivities = []seedActivity{
	{12, "breathing", 300, "box breathing after lunch"},
	{10, "journal", 600, ""},
	{8, "gratitude", 180, "three good things"},
	{6, "breathing", 240, ""},
	{4, "grounding", 300, "5-4-3-2-1 before the call"},
	{3, "gratitude", 200, ""},
	{1, "breathing", 300, "evening wind-down"},
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	email := "gardener@echobloom.dev"
	password := "bloom12345"
	name := "Demo Gardener"
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	userID := uuid.NewString()
	err = db.QueryRow(`
		INSERT INTO users (id, email, password, name)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`, userID, email, hash, name).Scan(&userID)
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("seeded gardener: id=%s email=%s password=%s\n", userID, email, password)

	if _, err := db.Exec(`
		INSERT INTO user_profiles (user_id, total_echoes, current_streak, longest_streak, mood_average, wellness_score, gratitude_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id) DO UPDATE SET
			total_echoes = EXCLUDED.total_echoes,
			current_streak = EXCLUDED.current_streak,
			longest_streak = EXCLUDED.longest_streak,
			mood_average = EXCLUDED.mood_average,
			wellness_score = EXCLUDED.wellness_score,
			gratitude_count = EXCLUDED.gratitude_count
	`, userID, len(demoEchoes), 14, 14, avgMood(), wellnessScore(), 3); err != nil {
		log.Fatalf("failed to seed profile: %v", err)
	}

	now := time.Now()
	for _, e := range demoEchoes {
		createdAt := now.AddDate(0, 0, -e.daysAgo)
		if _, err := db.Exec(`
			INSERT INTO echoes (id, user_id, content, seed_type, mood_score, emotion_tags, response, growth_stage, created_at)
			VALUES ($1, $2, $3, $4, $5, $6::text[], $7, $8, $9)
		`, uuid.NewString(), userID, e.content, e.seedType, e.mood, pgArray(e.tags),
			"Thank you for sharing this moment with your garden.", e.stage, createdAt); err != nil {
			log.Fatalf("failed to seed echo: %v", err)
		}
	}
	fmt.Printf("planted %d echoes\n", len(demoEchoes))

	for _, a := range demoActivities {
		completedAt := now.AddDate(0, 0, -a.daysAgo)
		if _, err := db.Exec(`
			INSERT INTO activities (id, user_id, kind, duration_seconds, note, completed_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, uuid.NewString(), userID, a.kind, a.duration, a.note, completedAt); err != nil {
			log.Fatalf("failed to seed activity: %v", err)
		}
	}
	fmt.Printf("recorded %d activities\n", len(demoActivities))
}

// pgArray renders a Postgres array literal. Tags contain no commas or quotes.
func pgArray(items []string) string {
	return "{" + strings.Join(items, ",") + "}"
}

func avgMood() float64 {
	var sum float64
	for _, e := range demoEchoes {
		sum += e.mood
	}
	return sum / float64(len(demoEchoes))
}

func wellnessScore() int {
	score := int((avgMood() + 1) / 2 * 100)
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}
