package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/iqrahapp/iqrah-mobile-sub001/pkg/models"
)

// LogRepository appends to the review and propagation audit logs.
type LogRepository struct {
	db sqlx.ExtContext
}

// NewLogRepository creates a new repository instance.
func NewLogRepository(db sqlx.ExtContext) *LogRepository {
	return &LogRepository{db: db}
}

// LogReview appends one review record.
func (r *LogRepository) LogReview(ctx context.Context, rec models.ReviewRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO review_log (id, user_id, node_id, grade, reviewed_at, prev_energy, new_energy)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rec.ID, rec.UserID, rec.NodeID, int(rec.Grade), rec.ReviewedAt, rec.PrevEnergy, rec.NewEnergy)
	if err != nil {
		return fmt.Errorf("failed to log review: %w", err)
	}
	return nil
}

// LogPropagation appends one propagation event with its details.
func (r *LogRepository) LogPropagation(ctx context.Context, ev models.PropagationEvent) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO propagation_log (id, user_id, source_id, occurred_at)
		VALUES ($1, $2, $3, $4)`,
		ev.ID, ev.UserID, ev.SourceID, ev.OccurredAt)
	if err != nil {
		return fmt.Errorf("failed to log propagation event: %w", err)
	}
	for _, d := range ev.Details {
		_, err := r.db.ExecContext(ctx, `
			INSERT INTO propagation_log_details (event_id, target_id, delta, hops, reason)
			VALUES ($1, $2, $3, $4, $5)`,
			ev.ID, d.TargetID, d.Delta, d.Hops, d.Reason)
		if err != nil {
			return fmt.Errorf("failed to log propagation detail: %w", err)
		}
	}
	return nil
}

// RecentPropagations returns the latest propagation events for a user,
// details included, newest first. Debugging aid; scheduling logic never
// reads these rows.
func (r *LogRepository) RecentPropagations(ctx context.Context, userID string, limit int) ([]models.PropagationEvent, error) {
	var events []models.PropagationEvent
	err := sqlx.SelectContext(ctx, r.db, &events, `
		SELECT id, user_id, source_id, occurred_at FROM propagation_log
		WHERE user_id = $1 ORDER BY occurred_at DESC LIMIT $2`,
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get propagation events: %w", err)
	}
	for i := range events {
		var details []models.PropagationDetail
		err := sqlx.SelectContext(ctx, r.db, &details, `
			SELECT target_id, delta, hops, reason FROM propagation_log_details
			WHERE event_id = $1`, events[i].ID)
		if err != nil {
			return nil, fmt.Errorf("failed to get propagation details: %w", err)
		}
		events[i].Details = details
	}
	return events, nil
}
