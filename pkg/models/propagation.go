package models

import "time"

// Reasons recorded on propagation details.
const (
	ReasonDependency  = "dependency"
	ReasonKnowledge   = "knowledge"
	ReasonMissingNode = "missing_node"
)

// PropagationDetail is one result of a propagation run: the energy delta
// credited to a target, how many hops from the source it sits, and why.
// A ReasonMissingNode detail is a warning: the edge pointed at a node the
// content store does not know, and no delta was applied.
type PropagationDetail struct {
	TargetID string  `json:"target_id" db:"target_id"`
	Delta    float64 `json:"delta" db:"delta"`
	Hops     int     `json:"hops" db:"hops"`
	Reason   string  `json:"reason" db:"reason"`
}

// PropagationEvent is the append-only audit log of one propagation run.
// Scheduling logic never reads it back; it exists for debugging.
type PropagationEvent struct {
	ID         string              `json:"id" db:"id"`
	UserID     string              `json:"user_id" db:"user_id"`
	SourceID   string              `json:"source_id" db:"source_id"`
	OccurredAt time.Time           `json:"occurred_at" db:"occurred_at"`
	Details    []PropagationDetail `json:"details" db:"-"`
}
