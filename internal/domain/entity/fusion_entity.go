package entity

import "time"

// Fusion is a saved emotion-alchemy experiment.
type Fusion struct {
	ID        string
	UserID    string
	EmotionA  string
	EmotionB  string
	Result    map[string]any
	CreatedAt time.Time
}

// Affirmation is a saved weaving generated from a difficult echo.
type Affirmation struct {
	ID        string
	UserID    string
	EchoID    string
	Weaving   map[string]any
	CreatedAt time.Time
}
