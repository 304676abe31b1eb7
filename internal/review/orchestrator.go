package review

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/iqrahapp/iqrah-mobile-sub001/internal/propagation"
	"github.com/iqrahapp/iqrah-mobile-sub001/internal/session"
	"github.com/iqrahapp/iqrah-mobile-sub001/internal/spaced_repetition"
	"github.com/iqrahapp/iqrah-mobile-sub001/pkg/models"
)

// Orchestrator composes the scheduler, the propagation engine and the
// session prioritizer over the storage ports. It is the only component
// that performs I/O; the three algorithm packages stay pure.
//
// Reviews are serialized: propagation reads and writes overlapping
// memory states, so at most one review per orchestrator is in flight.
type Orchestrator struct {
	mu sync.Mutex

	fsrs        *spaced_repetition.FSRS
	engine      *propagation.Engine
	prioritizer *session.Prioritizer
	weights     session.ScoreWeights

	states StateStore
	graph  GraphStore
	tx     TxRunner

	logger *zap.Logger
}

// New wires an orchestrator from its collaborators.
func New(fsrs *spaced_repetition.FSRS, engine *propagation.Engine, prioritizer *session.Prioritizer, weights session.ScoreWeights, states StateStore, graph GraphStore, tx TxRunner, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		fsrs:        fsrs,
		engine:      engine,
		prioritizer: prioritizer,
		weights:     weights,
		states:      states,
		graph:       graph,
		tx:          tx,
		logger:      logger,
	}
}

// boundGraph adapts the ctx-aware GraphStore port to the synchronous
// view the propagation engine traverses.
type boundGraph struct {
	ctx   context.Context
	store GraphStore
}

func (b boundGraph) EdgesFrom(nodeID string) ([]models.Edge, error) {
	return b.store.EdgesFrom(b.ctx, nodeID)
}

func (b boundGraph) HasNode(nodeID string) (bool, error) {
	return b.store.HasNode(b.ctx, nodeID)
}

// ProcessReview grades a node for a user: it applies the FSRS update,
// propagates the energy delta through the graph, and persists the graded
// state, every touched neighbor state and both audit records in a single
// transaction. On any storage failure nothing is persisted.
//
// The memory state is created lazily: a node reviewed for the first time
// starts from the default state before grading.
func (o *Orchestrator) ProcessReview(ctx context.Context, userID, nodeID string, grade models.ReviewGrade, now time.Time) (*models.MemoryState, error) {
	if !grade.IsValid() {
		return nil, fmt.Errorf("invalid review grade: %d", int(grade))
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	state, err := o.getOrDefault(ctx, userID, nodeID, now)
	if err != nil {
		return nil, err
	}

	newState, delta := o.fsrs.ApplyReview(state, grade, now)

	deltas, details, err := o.engine.Propagate(boundGraph{ctx: ctx, store: o.graph}, nodeID, delta)
	if err != nil {
		return nil, fmt.Errorf("propagation from %s failed: %w", nodeID, err)
	}

	// Apply each aggregated delta to the target's current energy and
	// clamp the result; the engine returns raw deltas on purpose.
	targets := make([]string, 0, len(deltas))
	for target := range deltas {
		targets = append(targets, target)
	}
	sort.Strings(targets)

	updated := make([]models.MemoryState, 0, len(targets))
	for _, target := range targets {
		ts, err := o.getOrDefault(ctx, userID, target, now)
		if err != nil {
			return nil, err
		}
		ts.Energy = models.ClampEnergy(ts.Energy + deltas[target])
		updated = append(updated, ts)
	}

	record := models.ReviewRecord{
		ID:         uuid.NewString(),
		UserID:     userID,
		NodeID:     nodeID,
		Grade:      grade,
		ReviewedAt: now,
		PrevEnergy: state.Energy,
		NewEnergy:  newState.Energy,
	}
	event := models.PropagationEvent{
		ID:         uuid.NewString(),
		UserID:     userID,
		SourceID:   nodeID,
		OccurredAt: now,
		Details:    details,
	}

	err = o.tx.WithinTx(ctx, func(s Stores) error {
		if err := s.SaveMemoryState(ctx, newState); err != nil {
			return err
		}
		for _, ts := range updated {
			if err := s.SaveMemoryState(ctx, ts); err != nil {
				return err
			}
		}
		if err := s.LogReview(ctx, record); err != nil {
			return err
		}
		return s.LogPropagation(ctx, event)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to persist review of %s: %w", nodeID, err)
	}

	o.logger.Info("review processed",
		zap.String("user_id", userID),
		zap.String("node_id", nodeID),
		zap.String("grade", grade.String()),
		zap.Float64("energy_delta", delta),
		zap.Int("propagated", len(updated)),
	)

	return &newState, nil
}

// GetSession ranks the user's due items into a study session of at most
// limit nodes. A non-nil scope keeps only node ids it accepts, applied
// before ranking. In high-yield mode structurally influential nodes are
// favored over prerequisite ones.
func (o *Orchestrator) GetSession(ctx context.Context, userID string, limit int, scope func(nodeID string) bool, highYield bool, now time.Time) ([]string, error) {
	due, err := o.states.GetDueStates(ctx, userID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to load due states: %w", err)
	}

	if scope != nil {
		filtered := due[:0]
		for _, state := range due {
			if scope(state.NodeID) {
				filtered = append(filtered, state)
			}
		}
		due = filtered
	}

	nodeIDs := make([]string, len(due))
	for i, state := range due {
		nodeIDs[i] = state.NodeID
	}
	importance, err := o.graph.ImportanceScores(ctx, nodeIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load importance scores: %w", err)
	}

	return o.prioritizer.BuildSession(due, importance, o.weights, now, limit, highYield), nil
}

// DueCount reports how many items the user has due at or before now.
// The reminder job uses it to decide whether to ping the user.
func (o *Orchestrator) DueCount(ctx context.Context, userID string, now time.Time) (int, error) {
	due, err := o.states.GetDueStates(ctx, userID, now)
	if err != nil {
		return 0, fmt.Errorf("failed to load due states: %w", err)
	}
	return len(due), nil
}

func (o *Orchestrator) getOrDefault(ctx context.Context, userID, nodeID string, now time.Time) (models.MemoryState, error) {
	state, err := o.states.GetMemoryState(ctx, userID, nodeID)
	if err != nil {
		return models.MemoryState{}, fmt.Errorf("failed to load state for %s: %w", nodeID, err)
	}
	if state == nil {
		return models.NewMemoryState(userID, nodeID, now), nil
	}
	return *state, nil
}
