// Package drops runs the card drop pipeline: the per-chat message counter
// that fires drops, the ephemeral catch windows, and catch resolution.
// models.go holds the window record and the outcome types.
package drops

import (
	"time"

	"card-collection-bot/internal/features/missions"
	"card-collection-bot/internal/store"
)

// window is the ephemeral per-chat record of the currently droppable card.
// It lives only in process memory: a drop nobody caught before a restart
// is simply forgotten.
type window struct {
	cardID    string
	match     string // lower-cased card name
	createdAt time.Time
}

// Drop describes a card that just dropped into a chat.
type Drop struct {
	ChatID int64
	CardID string
	Card   store.Card
}

// Outcome classifies a catch attempt.
type Outcome int

const (
	// OutcomeNoActiveDrop — no window, or the window expired.
	OutcomeNoActiveDrop Outcome = iota
	// OutcomeWrongGuess — window live but the name did not match.
	OutcomeWrongGuess
	// OutcomeCaught — first correct guess; card and coins awarded.
	OutcomeCaught
)

// CatchResult is the full result of a successful (or failed) catch.
type CatchResult struct {
	Outcome Outcome
	CardID  string
	Card    store.Card
	Coins   int64
	// Missions completed by this catch, possibly several at once.
	Completed []missions.Mission
}
