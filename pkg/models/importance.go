package models

// ImportanceScore holds the two precomputed structural scores of a node.
// Influence is global importance (centrality-derived); Foundational is
// prerequisite importance. Read-only content data.
type ImportanceScore struct {
	NodeID       string  `json:"node_id" db:"node_id"`
	Influence    float64 `json:"influence" db:"influence"`
	Foundational float64 `json:"foundational" db:"foundational"`
}
