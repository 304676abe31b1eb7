package propagation

import (
	"errors"
	"math"
	"testing"

	"github.com/iqrahapp/iqrah-mobile-sub001/pkg/models"
)

// fakeGraph is an in-memory GraphReader.
type fakeGraph struct {
	edges   map[string][]models.Edge
	missing map[string]bool
	err     error
}

func (g *fakeGraph) EdgesFrom(nodeID string) ([]models.Edge, error) {
	if g.err != nil {
		return nil, g.err
	}
	return g.edges[nodeID], nil
}

func (g *fakeGraph) HasNode(nodeID string) (bool, error) {
	return !g.missing[nodeID], nil
}

func constEdge(source, target string, weight float64) models.Edge {
	return models.Edge{
		SourceID: source,
		TargetID: target,
		Kind:     models.EdgeKnowledge,
		Dist:     models.DistConstant,
		Param1:   weight,
	}
}

func graph(edges ...models.Edge) *fakeGraph {
	g := &fakeGraph{edges: make(map[string][]models.Edge), missing: make(map[string]bool)}
	for _, e := range edges {
		g.edges[e.SourceID] = append(g.edges[e.SourceID], e)
	}
	return g
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestPropagateNoEdges(t *testing.T) {
	e := New(DefaultConfig())
	result, details, err := e.Propagate(graph(), "a", 0.2)
	if err != nil {
		t.Fatalf("Propagate: %v", err)
	}
	if len(result) != 0 {
		t.Errorf("expected empty result, got %v", result)
	}
	if len(details) != 0 {
		t.Errorf("expected no details, got %v", details)
	}
}

func TestPropagateSingleEdge(t *testing.T) {
	e := New(DefaultConfig())
	result, details, err := e.Propagate(graph(constEdge("a", "b", 0.5)), "a", 0.2)
	if err != nil {
		t.Fatalf("Propagate: %v", err)
	}
	if len(result) != 1 || !almostEqual(result["b"], 0.1) {
		t.Errorf("expected {b: 0.1}, got %v", result)
	}
	if len(details) != 1 || details[0].Hops != 1 || details[0].Reason != models.ReasonKnowledge {
		t.Errorf("unexpected details %v", details)
	}
}

func TestPropagateCycleTerminates(t *testing.T) {
	e := New(DefaultConfig())
	g := graph(constEdge("a", "b", 0.5), constEdge("b", "a", 0.5))
	result, _, err := e.Propagate(g, "a", 0.4)
	if err != nil {
		t.Fatalf("Propagate: %v", err)
	}
	if !almostEqual(result["b"], 0.2) {
		t.Errorf("b should get 0.2, got %f", result["b"])
	}
	// The source never credits itself, even from a returning path.
	if _, ok := result["a"]; ok {
		t.Errorf("source should be excluded from its own output, got %v", result)
	}
}

func TestPropagateConvergentPathsSum(t *testing.T) {
	e := New(DefaultConfig())
	g := graph(
		constEdge("a", "b", 0.5),
		constEdge("a", "c", 0.5),
		constEdge("b", "x", 0.4),
		constEdge("c", "x", 0.4),
	)
	result, _, err := e.Propagate(g, "a", 1.0)
	if err != nil {
		t.Fatalf("Propagate: %v", err)
	}
	// x is credited from both paths: 0.5*0.4 + 0.5*0.4.
	if !almostEqual(result["x"], 0.4) {
		t.Errorf("x should aggregate 0.4, got %f", result["x"])
	}
}

func TestPropagateThresholdCutoff(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinThreshold = 0.04
	e := New(cfg)
	g := graph(
		constEdge("a", "b", 0.5),
		constEdge("b", "c", 0.5),
		constEdge("c", "d", 0.5),
	)
	result, _, err := e.Propagate(g, "a", 0.1)
	if err != nil {
		t.Fatalf("Propagate: %v", err)
	}
	// b: 0.05 expands; c: 0.025 is credited but stops the walk.
	if !almostEqual(result["b"], 0.05) || !almostEqual(result["c"], 0.025) {
		t.Errorf("unexpected deltas %v", result)
	}
	if _, ok := result["d"]; ok {
		t.Errorf("d beyond the cutoff should get nothing, got %v", result)
	}
}

func TestPropagateEdgeKindGates(t *testing.T) {
	cfg := DefaultConfig()
	cfg.IncludeDependency = false
	e := New(cfg)
	dep := constEdge("a", "b", 0.5)
	dep.Kind = models.EdgeDependency
	g := graph(dep, constEdge("a", "c", 0.5))
	result, _, err := e.Propagate(g, "a", 0.2)
	if err != nil {
		t.Fatalf("Propagate: %v", err)
	}
	if _, ok := result["b"]; ok {
		t.Errorf("gated dependency edge should be skipped, got %v", result)
	}
	if !almostEqual(result["c"], 0.1) {
		t.Errorf("knowledge edge should still apply, got %v", result)
	}
}

func TestPropagateMissingNodeSkipped(t *testing.T) {
	e := New(DefaultConfig())
	g := graph(constEdge("a", "ghost", 0.5), constEdge("a", "b", 0.5))
	g.missing["ghost"] = true
	result, details, err := e.Propagate(g, "a", 0.2)
	if err != nil {
		t.Fatalf("Propagate: %v", err)
	}
	if _, ok := result["ghost"]; ok {
		t.Errorf("missing node should get no delta, got %v", result)
	}
	var warned bool
	for _, d := range details {
		if d.TargetID == "ghost" && d.Reason == models.ReasonMissingNode {
			warned = true
		}
	}
	if !warned {
		t.Errorf("expected a missing-node warning detail, got %v", details)
	}
}

func TestPropagateMaxVisitedCap(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxVisited = 3
	e := New(cfg)
	// A same-weight chain that the threshold alone would not stop.
	g := graph(
		constEdge("n0", "n1", 1.0),
		constEdge("n1", "n2", 1.0),
		constEdge("n2", "n3", 1.0),
		constEdge("n3", "n4", 1.0),
		constEdge("n4", "n5", 1.0),
	)
	result, _, err := e.Propagate(g, "n0", 0.5)
	if err != nil {
		t.Fatalf("Propagate: %v", err)
	}
	if len(result) > cfg.MaxVisited {
		t.Errorf("cap exceeded: %d nodes credited", len(result))
	}
}

func TestPropagateBetaWeight(t *testing.T) {
	e := New(DefaultConfig())
	beta := models.Edge{
		SourceID: "a", TargetID: "b",
		Kind: models.EdgeKnowledge, Dist: models.DistBeta,
		Param1: 2, Param2: 2,
	}
	result, _, err := e.Propagate(graph(beta), "a", 0.2)
	if err != nil {
		t.Fatalf("Propagate: %v", err)
	}
	if !almostEqual(result["b"], 0.1) {
		t.Errorf("beta(2,2) has mean 0.5, expected 0.1, got %f", result["b"])
	}
}

func TestPropagateStoreError(t *testing.T) {
	e := New(DefaultConfig())
	g := graph(constEdge("a", "b", 0.5))
	g.err = errors.New("disk gone")
	if _, _, err := e.Propagate(g, "a", 0.2); err == nil {
		t.Fatal("expected store error to surface")
	}
}
