package models

// EdgeKind describes the relationship an edge encodes.
type EdgeKind string

const (
	// EdgeDependency means the source must be known before the target
	// can be learned.
	EdgeDependency EdgeKind = "dependency"
	// EdgeKnowledge means knowing the source informs the target.
	EdgeKnowledge EdgeKind = "knowledge"
)

// DistKind selects how an edge weight is specified.
type DistKind string

const (
	DistConstant DistKind = "constant"
	DistNormal   DistKind = "normal"
	DistBeta     DistKind = "beta"
)

// Edge is an immutable, directed, weighted link between two content nodes.
// Multiple edges may target the same node (convergent paths).
type Edge struct {
	SourceID string   `json:"source_id" db:"source_id"`
	TargetID string   `json:"target_id" db:"target_id"`
	Kind     EdgeKind `json:"kind" db:"kind"`
	Dist     DistKind `json:"dist" db:"dist"`
	Param1   float64  `json:"param1" db:"param1"`
	Param2   float64  `json:"param2" db:"param2"`
}

// EffectiveWeight returns the propagation strength of the edge: the
// expected value of its weight distribution, clamped to [0, 1].
// Constant and Normal use Param1 directly (Param2 is the variance of a
// Normal edge and does not shift its mean). Beta uses a/(a+b).
func (e Edge) EffectiveWeight() float64 {
	var w float64
	switch e.Dist {
	case DistBeta:
		if e.Param1+e.Param2 > 0 {
			w = e.Param1 / (e.Param1 + e.Param2)
		}
	default:
		// Constant and Normal: Param1 is the mean.
		w = e.Param1
	}
	if w < 0 {
		return 0
	}
	if w > 1 {
		return 1
	}
	return w
}
