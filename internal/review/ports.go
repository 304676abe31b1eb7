package review

import (
	"context"
	"time"

	"github.com/iqrahapp/iqrah-mobile-sub001/pkg/models"
)

// StateStore reads and writes per-user memory states.
type StateStore interface {
	// GetMemoryState returns the state for (user, node), or (nil, nil)
	// when the node has never been reviewed.
	GetMemoryState(ctx context.Context, userID, nodeID string) (*models.MemoryState, error)
	// GetDueStates returns every state of the user due at or before the
	// given time.
	GetDueStates(ctx context.Context, userID string, before time.Time) ([]models.MemoryState, error)
	SaveMemoryState(ctx context.Context, state models.MemoryState) error
}

// GraphStore reads the immutable content graph.
type GraphStore interface {
	EdgesFrom(ctx context.Context, nodeID string) ([]models.Edge, error)
	HasNode(ctx context.Context, nodeID string) (bool, error)
	ImportanceScores(ctx context.Context, nodeIDs []string) (map[string]models.ImportanceScore, error)
}

// EventLog appends to the review and propagation audit logs.
type EventLog interface {
	LogReview(ctx context.Context, rec models.ReviewRecord) error
	LogPropagation(ctx context.Context, ev models.PropagationEvent) error
}

// Stores bundles the write-side ports as seen from inside a transaction.
type Stores interface {
	StateStore
	EventLog
}

// TxRunner runs fn against transaction-bound stores. If fn returns an
// error the transaction rolls back and nothing is persisted; a failed
// review must not leave the scheduler update behind without its
// propagated side effects.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(Stores) error) error
}
