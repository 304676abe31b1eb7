package propagation

import (
	"fmt"

	"github.com/iqrahapp/iqrah-mobile-sub001/pkg/models"
)

// GraphReader is the synchronous view of the content graph the engine
// traverses. It must be fully materialized (or backed by cheap lookups):
// the engine performs no interleaved I/O of its own.
type GraphReader interface {
	EdgesFrom(nodeID string) ([]models.Edge, error)
	HasNode(nodeID string) (bool, error)
}

// Config bounds a propagation run.
type Config struct {
	// MinThreshold is the smallest |delta| worth propagating further.
	// Contributions below it are still credited to their direct target
	// but the target is not expanded.
	MinThreshold float64
	// MaxVisited caps how many nodes one run may expand, as a safety
	// valve against pathological weight configurations.
	MaxVisited int
	// Per-edge-kind gates.
	IncludeDependency bool
	IncludeKnowledge  bool
}

// DefaultConfig returns the gates wide open with a 0.01 cutoff.
func DefaultConfig() Config {
	return Config{
		MinThreshold:      0.01,
		MaxVisited:        10000,
		IncludeDependency: true,
		IncludeKnowledge:  true,
	}
}

// Engine spreads an energy delta from a reviewed node across the graph
// along typed, weighted edges. It is stateless and returns raw deltas;
// clamping the resulting energies into [0, 1] is the caller's job, since
// the engine never reads target energies during traversal.
type Engine struct {
	cfg Config
}

// New creates an engine with the given config.
func New(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// frame is one pending expansion on the explicit work-stack.
type frame struct {
	nodeID string
	delta  float64
	hops   int
}

// Propagate walks the graph from source carrying delta and returns the
// aggregated per-node energy deltas plus the per-contribution audit trail.
//
// The traversal is iterative depth-first with an explicit stack, so a 50k
// node graph cannot blow the call stack. Each node is expanded at most
// once per run (first expansion wins), but it may still be credited from
// several convergent paths before that; convergent deltas are summed.
// The source node is excluded from its own output. Edges whose target the
// content store does not know are skipped with a warning detail.
func (e *Engine) Propagate(g GraphReader, source string, delta float64) (map[string]float64, []models.PropagationDetail, error) {
	result := make(map[string]float64)
	var details []models.PropagationDetail

	visited := make(map[string]bool)
	stack := []frame{{nodeID: source, delta: delta}}

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if visited[cur.nodeID] {
			continue
		}
		if len(visited) >= e.cfg.MaxVisited {
			break
		}
		visited[cur.nodeID] = true

		edges, err := g.EdgesFrom(cur.nodeID)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read edges from %s: %w", cur.nodeID, err)
		}

		for _, edge := range edges {
			if !e.kindEnabled(edge.Kind) {
				continue
			}

			ok, err := g.HasNode(edge.TargetID)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to check node %s: %w", edge.TargetID, err)
			}
			if !ok {
				details = append(details, models.PropagationDetail{
					TargetID: edge.TargetID,
					Hops:     cur.hops + 1,
					Reason:   models.ReasonMissingNode,
				})
				continue
			}

			childDelta := cur.delta * edge.EffectiveWeight()
			if childDelta == 0 {
				continue
			}
			// A path returning to the source never credits it.
			if edge.TargetID == source {
				continue
			}

			result[edge.TargetID] += childDelta
			details = append(details, models.PropagationDetail{
				TargetID: edge.TargetID,
				Delta:    childDelta,
				Hops:     cur.hops + 1,
				Reason:   reasonForKind(edge.Kind),
			})

			// Below the threshold the target keeps its direct credit
			// but is not expanded further.
			if abs(childDelta) < e.cfg.MinThreshold {
				continue
			}
			if !visited[edge.TargetID] {
				stack = append(stack, frame{
					nodeID: edge.TargetID,
					delta:  childDelta,
					hops:   cur.hops + 1,
				})
			}
		}
	}

	return result, details, nil
}

func (e *Engine) kindEnabled(kind models.EdgeKind) bool {
	switch kind {
	case models.EdgeDependency:
		return e.cfg.IncludeDependency
	case models.EdgeKnowledge:
		return e.cfg.IncludeKnowledge
	default:
		return false
	}
}

func reasonForKind(kind models.EdgeKind) string {
	if kind == models.EdgeDependency {
		return models.ReasonDependency
	}
	return models.ReasonKnowledge
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
