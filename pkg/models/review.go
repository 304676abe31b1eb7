package models

import "time"

// ReviewRecord is an append-only log entry for a single graded review.
type ReviewRecord struct {
	ID         string      `json:"id" db:"id"`
	UserID     string      `json:"user_id" db:"user_id"`
	NodeID     string      `json:"node_id" db:"node_id"`
	Grade      ReviewGrade `json:"grade" db:"grade"`
	ReviewedAt time.Time   `json:"reviewed_at" db:"reviewed_at"`
	PrevEnergy float64     `json:"prev_energy" db:"prev_energy"`
	NewEnergy  float64     `json:"new_energy" db:"new_energy"`
}
