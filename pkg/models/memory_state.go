package models

import "time"

// Difficulty bounds and the stability floor used across the engine.
const (
	MinDifficulty = 1.0
	MaxDifficulty = 10.0
	MinStability  = 0.1
)

// MemoryState tracks what a user remembers about a single content node.
// Energy is the 0..1 mastery currency that propagation moves around the
// graph; stability and difficulty drive the spaced-repetition schedule.
// Records are created lazily on first review, never ahead of time.
type MemoryState struct {
	UserID       string    `json:"user_id" db:"user_id"`
	NodeID       string    `json:"node_id" db:"node_id"`
	Stability    float64   `json:"stability" db:"stability"`   // days
	Difficulty   float64   `json:"difficulty" db:"difficulty"` // 1..10
	Energy       float64   `json:"energy" db:"energy"`         // 0..1
	LastReviewed time.Time `json:"last_reviewed" db:"last_reviewed"`
	Due          time.Time `json:"due" db:"due"`
	ReviewCount  int       `json:"review_count" db:"review_count"`
}

// NewMemoryState returns the default state a node has before its first
// review: zero energy, seed stability, immediately due.
func NewMemoryState(userID, nodeID string, now time.Time) MemoryState {
	return MemoryState{
		UserID:       userID,
		NodeID:       nodeID,
		Stability:    MinStability,
		Difficulty:   5.0,
		Energy:       0,
		LastReviewed: now,
		Due:          now,
	}
}

// ClampEnergy bounds e into the legal [0, 1] energy range.
func ClampEnergy(e float64) float64 {
	if e < 0 {
		return 0
	}
	if e > 1 {
		return 1
	}
	return e
}
