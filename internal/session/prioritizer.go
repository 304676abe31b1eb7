package session

import (
	"sort"
	"time"

	"github.com/iqrahapp/iqrah-mobile-sub001/pkg/models"
)

// ScoreWeights are the coefficients of the session priority formula.
type ScoreWeights struct {
	Due   float64 `json:"due"`   // weight of days overdue
	Need  float64 `json:"need"`  // weight of the energy gap (1 - energy)
	Yield float64 `json:"yield"` // weight of the structural importance term
}

// DefaultWeights favor catching up on overdue items, then weak items.
func DefaultWeights() ScoreWeights {
	return ScoreWeights{Due: 1.0, Need: 2.0, Yield: 1.5}
}

// Prioritizer ranks due memory states into a study session. It is
// stateless; scope filtering (e.g. "only this chapter") is the caller's
// job before items reach it.
type Prioritizer struct{}

// New creates a prioritizer.
func New() *Prioritizer {
	return &Prioritizer{}
}

// Score computes the priority of a single state:
//
//	w.Due*max(0, daysOverdue) + w.Need*max(0, 1-energy) + w.Yield*importanceTerm
//
// In high-yield mode the importance term is the node's influence score,
// otherwise its foundational score. A node with no importance entry
// contributes 0. Items not yet due contribute 0 overdue days, so they
// never outrank equally weighted due items.
func (p *Prioritizer) Score(state models.MemoryState, imp models.ImportanceScore, w ScoreWeights, now time.Time, highYield bool) float64 {
	overdue := now.Sub(state.Due).Hours() / 24.0
	if overdue < 0 {
		overdue = 0
	}
	need := 1 - state.Energy
	if need < 0 {
		need = 0
	}
	importance := imp.Foundational
	if highYield {
		importance = imp.Influence
	}
	return w.Due*overdue + w.Need*need + w.Yield*importance
}

// BuildSession returns up to limit node ids ordered by descending score.
// Ties break by node id ascending so the ordering is reproducible.
func (p *Prioritizer) BuildSession(due []models.MemoryState, importance map[string]models.ImportanceScore, w ScoreWeights, now time.Time, limit int, highYield bool) []string {
	type scored struct {
		nodeID string
		score  float64
	}

	items := make([]scored, 0, len(due))
	for _, state := range due {
		items = append(items, scored{
			nodeID: state.NodeID,
			score:  p.Score(state, importance[state.NodeID], w, now, highYield),
		})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].score != items[j].score {
			return items[i].score > items[j].score
		}
		return items[i].nodeID < items[j].nodeID
	})

	if limit >= 0 && len(items) > limit {
		items = items[:limit]
	}

	nodeIDs := make([]string, len(items))
	for i, it := range items {
		nodeIDs[i] = it.nodeID
	}
	return nodeIDs
}
