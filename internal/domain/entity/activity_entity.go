package entity

import "time"

// Activity kinds mirror the wellness rituals the client offers.
const (
	ActivityBreathing = "breathing"
	ActivityJournal   = "journal"
	ActivityGratitude = "gratitude"
	ActivityGrounding = "grounding"
)

// ActivityKinds lists every accepted kind.
var ActivityKinds = []string{ActivityBreathing, ActivityJournal, ActivityGratitude, ActivityGrounding}

// Activity is one completed wellness session.
type Activity struct {
	ID              string
	UserID          string
	Kind            string
	DurationSeconds int
	Note            string
	CompletedAt     time.Time
}
