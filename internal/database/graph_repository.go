package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/iqrahapp/iqrah-mobile-sub001/pkg/models"
)

// GraphRepository handles database operations for the content graph:
// nodes, edges and precomputed importance scores. The graph is immutable
// at runtime; writes only happen through the importer.
type GraphRepository struct {
	db sqlx.ExtContext
}

// NewGraphRepository creates a new repository instance.
func NewGraphRepository(db sqlx.ExtContext) *GraphRepository {
	return &GraphRepository{db: db}
}

// EdgesFrom returns all outgoing edges of a node.
func (r *GraphRepository) EdgesFrom(ctx context.Context, nodeID string) ([]models.Edge, error) {
	var edges []models.Edge
	err := sqlx.SelectContext(ctx, r.db, &edges,
		"SELECT * FROM edges WHERE source_id = $1", nodeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get edges from %s: %w", nodeID, err)
	}
	return edges, nil
}

// HasNode reports whether the content store knows the node.
func (r *GraphRepository) HasNode(ctx context.Context, nodeID string) (bool, error) {
	var count int
	err := sqlx.GetContext(ctx, r.db, &count,
		"SELECT COUNT(*) FROM nodes WHERE id = $1", nodeID)
	if err != nil {
		return false, fmt.Errorf("failed to check node %s: %w", nodeID, err)
	}
	return count > 0, nil
}

// ImportanceScores returns the importance scores for the given nodes.
// Nodes without a row are simply absent from the result map.
func (r *GraphRepository) ImportanceScores(ctx context.Context, nodeIDs []string) (map[string]models.ImportanceScore, error) {
	scores := make(map[string]models.ImportanceScore, len(nodeIDs))
	if len(nodeIDs) == 0 {
		return scores, nil
	}

	query, args, err := sqlx.In("SELECT * FROM importance_scores WHERE node_id IN (?)", nodeIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to build importance query: %w", err)
	}
	query = r.db.Rebind(query)

	var rows []models.ImportanceScore
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get importance scores: %w", err)
	}
	for _, row := range rows {
		scores[row.NodeID] = row
	}
	return scores, nil
}

// UpsertNode inserts or replaces a content node. Used by the importer.
func (r *GraphRepository) UpsertNode(ctx context.Context, node models.Node) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO nodes (id, kind) VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET kind = EXCLUDED.kind`,
		node.ID, node.Kind)
	if err != nil {
		return fmt.Errorf("failed to upsert node %s: %w", node.ID, err)
	}
	return nil
}

// InsertEdge appends a content edge. Used by the importer.
func (r *GraphRepository) InsertEdge(ctx context.Context, edge models.Edge) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO edges (source_id, target_id, kind, dist, param1, param2)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		edge.SourceID, edge.TargetID, edge.Kind, edge.Dist, edge.Param1, edge.Param2)
	if err != nil {
		return fmt.Errorf("failed to insert edge %s -> %s: %w", edge.SourceID, edge.TargetID, err)
	}
	return nil
}

// UpsertImportance inserts or replaces a node's importance scores. Used
// by the importer.
func (r *GraphRepository) UpsertImportance(ctx context.Context, score models.ImportanceScore) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO importance_scores (node_id, influence, foundational)
		VALUES ($1, $2, $3)
		ON CONFLICT (node_id) DO UPDATE SET
			influence = EXCLUDED.influence,
			foundational = EXCLUDED.foundational`,
		score.NodeID, score.Influence, score.Foundational)
	if err != nil {
		return fmt.Errorf("failed to upsert importance for %s: %w", score.NodeID, err)
	}
	return nil
}
