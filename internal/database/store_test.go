package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iqrahapp/iqrah-mobile-sub001/internal/review"
	"github.com/iqrahapp/iqrah-mobile-sub001/pkg/models"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	db, err := sqlx.Connect("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	// One connection, or the pool would see separate :memory: databases.
	db.SetMaxOpenConns(1)
	require.NoError(t, initializeSchema(db))
	return NewStore(db)
}

func TestMemoryStateRoundTrip(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	now := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)

	got, err := store.GetMemoryState(ctx, "u1", "n1")
	require.NoError(t, err)
	assert.Nil(t, got, "unreviewed node should have no state")

	state := models.NewMemoryState("u1", "n1", now)
	state.Energy = 0.3
	state.Stability = 2.5
	require.NoError(t, store.SaveMemoryState(ctx, state))

	got, err = store.GetMemoryState(ctx, "u1", "n1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 0.3, got.Energy)
	assert.Equal(t, 2.5, got.Stability)

	// Upsert overwrites in place.
	state.Energy = 0.6
	state.ReviewCount = 1
	require.NoError(t, store.SaveMemoryState(ctx, state))
	got, err = store.GetMemoryState(ctx, "u1", "n1")
	require.NoError(t, err)
	assert.Equal(t, 0.6, got.Energy)
	assert.Equal(t, 1, got.ReviewCount)
}

func TestGetDueStates(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	now := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)

	overdue := models.NewMemoryState("u1", "overdue", now.Add(-48*time.Hour))
	future := models.NewMemoryState("u1", "future", now)
	future.Due = now.Add(72 * time.Hour)
	other := models.NewMemoryState("u2", "overdue", now.Add(-48*time.Hour))
	for _, s := range []models.MemoryState{overdue, future, other} {
		require.NoError(t, store.SaveMemoryState(ctx, s))
	}

	due, err := store.GetDueStates(ctx, "u1", now)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, "overdue", due[0].NodeID)
}

func TestGraphRepository(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	require.NoError(t, store.UpsertNode(ctx, models.Node{ID: "a", Kind: models.NodeVerse}))
	require.NoError(t, store.UpsertNode(ctx, models.Node{ID: "b", Kind: models.NodeWordInstance}))
	require.NoError(t, store.InsertEdge(ctx, models.Edge{
		SourceID: "a", TargetID: "b",
		Kind: models.EdgeKnowledge, Dist: models.DistConstant, Param1: 0.5,
	}))
	require.NoError(t, store.UpsertImportance(ctx, models.ImportanceScore{
		NodeID: "a", Influence: 0.8, Foundational: 0.2,
	}))

	ok, err := store.HasNode(ctx, "a")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = store.HasNode(ctx, "ghost")
	require.NoError(t, err)
	assert.False(t, ok)

	edges, err := store.EdgesFrom(ctx, "a")
	require.NoError(t, err)
	require.Len(t, edges, 1)
	assert.Equal(t, "b", edges[0].TargetID)
	assert.Equal(t, 0.5, edges[0].EffectiveWeight())

	scores, err := store.ImportanceScores(ctx, []string{"a", "b"})
	require.NoError(t, err)
	require.Contains(t, scores, "a")
	assert.Equal(t, 0.8, scores["a"].Influence)
	assert.NotContains(t, scores, "b")
}

func TestWithinTxRollsBackOnError(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	now := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)

	err := store.WithinTx(ctx, func(s review.Stores) error {
		state := models.NewMemoryState("u1", "n1", now)
		if err := s.SaveMemoryState(ctx, state); err != nil {
			return err
		}
		return errors.New("boom")
	})
	require.Error(t, err)

	got, err := store.GetMemoryState(ctx, "u1", "n1")
	require.NoError(t, err)
	assert.Nil(t, got, "rolled back state must not be visible")
}

func TestWithinTxCommitsLogs(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	now := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)

	err := store.WithinTx(ctx, func(s review.Stores) error {
		if err := s.LogReview(ctx, models.ReviewRecord{
			ID: "r1", UserID: "u1", NodeID: "n1",
			Grade: models.GradeGood, ReviewedAt: now,
			PrevEnergy: 0.2, NewEnergy: 0.5,
		}); err != nil {
			return err
		}
		return s.LogPropagation(ctx, models.PropagationEvent{
			ID: "p1", UserID: "u1", SourceID: "n1", OccurredAt: now,
			Details: []models.PropagationDetail{
				{TargetID: "n2", Delta: 0.15, Hops: 1, Reason: models.ReasonKnowledge},
			},
		})
	})
	require.NoError(t, err)

	events, err := store.RecentPropagations(ctx, "u1", 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Len(t, events[0].Details, 1)
	assert.Equal(t, "n2", events[0].Details[0].TargetID)
	assert.InDelta(t, 0.15, events[0].Details[0].Delta, 1e-9)
}
