package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/iqrahapp/iqrah-mobile-sub001/pkg/models"
)

// StateRepository handles database operations for memory states. It runs
// against either a live connection or a transaction, whichever it is
// constructed with.
type StateRepository struct {
	db sqlx.ExtContext
}

// NewStateRepository creates a new repository instance.
func NewStateRepository(db sqlx.ExtContext) *StateRepository {
	return &StateRepository{db: db}
}

// GetMemoryState returns the state for (user, node), or (nil, nil) if the
// node has never been reviewed.
func (r *StateRepository) GetMemoryState(ctx context.Context, userID, nodeID string) (*models.MemoryState, error) {
	var state models.MemoryState
	err := sqlx.GetContext(ctx, r.db, &state,
		"SELECT * FROM memory_states WHERE user_id = $1 AND node_id = $2", userID, nodeID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get memory state: %w", err)
	}
	return &state, nil
}

// GetDueStates returns every state of the user due at or before the given
// time, earliest due first.
func (r *StateRepository) GetDueStates(ctx context.Context, userID string, before time.Time) ([]models.MemoryState, error) {
	var states []models.MemoryState
	err := sqlx.SelectContext(ctx, r.db, &states,
		"SELECT * FROM memory_states WHERE user_id = $1 AND due <= $2 ORDER BY due ASC, node_id ASC",
		userID, before)
	if err != nil {
		return nil, fmt.Errorf("failed to get due states: %w", err)
	}
	return states, nil
}

// SaveMemoryState upserts a memory state. Both sqlite and postgres accept
// the same ON CONFLICT clause here.
func (r *StateRepository) SaveMemoryState(ctx context.Context, state models.MemoryState) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO memory_states (
			user_id, node_id, stability, difficulty, energy,
			last_reviewed, due, review_count
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id, node_id) DO UPDATE SET
			stability = EXCLUDED.stability,
			difficulty = EXCLUDED.difficulty,
			energy = EXCLUDED.energy,
			last_reviewed = EXCLUDED.last_reviewed,
			due = EXCLUDED.due,
			review_count = EXCLUDED.review_count`,
		state.UserID,
		state.NodeID,
		state.Stability,
		state.Difficulty,
		state.Energy,
		state.LastReviewed,
		state.Due,
		state.ReviewCount,
	)
	if err != nil {
		return fmt.Errorf("failed to save memory state: %w", err)
	}
	return nil
}
