package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/iqrahapp/iqrah-mobile-sub001/internal/review"
)

// Store bundles the repositories into the ports the review orchestrator
// consumes, including the transactional boundary.
type Store struct {
	db *sqlx.DB
	*StateRepository
	*GraphRepository
	*LogRepository
}

// NewStore creates a store over an open connection.
func NewStore(db *sqlx.DB) *Store {
	return &Store{
		db:              db,
		StateRepository: NewStateRepository(db),
		GraphRepository: NewGraphRepository(db),
		LogRepository:   NewLogRepository(db),
	}
}

// txStores exposes transaction-bound repositories as review.Stores.
type txStores struct {
	*StateRepository
	*LogRepository
}

// WithinTx runs fn against transaction-bound stores. The transaction is
// rolled back if fn fails, so a review either persists completely or not
// at all.
func (s *Store) WithinTx(ctx context.Context, fn func(review.Stores) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	stores := &txStores{
		StateRepository: NewStateRepository(tx),
		LogRepository:   NewLogRepository(tx),
	}
	if err := fn(stores); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
