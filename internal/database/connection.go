package database

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Connect opens the database selected by the DB_TYPE environment variable
// ("sqlite", the offline-first default, or "postgres" with DATABASE_URL)
// and bootstraps the schema.
func Connect() (*sqlx.DB, error) {
	dbType := os.Getenv("DB_TYPE")
	if dbType == "" {
		dbType = "sqlite"
	}

	var db *sqlx.DB
	var err error

	switch dbType {
	case "sqlite":
		dataDir := os.Getenv("DATA_DIR")
		if dataDir == "" {
			dataDir = "data"
		}
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
		db, err = sqlx.Connect("sqlite3", filepath.Join(dataDir, "iqrah.db"))
		if err != nil {
			return nil, fmt.Errorf("failed to connect to sqlite: %w", err)
		}
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
		// SQLite doesn't support multiple writers.
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	case "postgres":
		dsn := os.Getenv("DATABASE_URL")
		if dsn == "" {
			return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
		}
		db, err = sqlx.Connect("postgres", dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported DB_TYPE: %q", dbType)
	}

	if err := initializeSchema(db); err != nil {
		return nil, err
	}
	return db, nil
}

// initializeSchema creates the content and user tables if they don't
// exist. Content tables (nodes, edges, importance_scores) are filled by
// the importer; user tables are written through the review ports.
func initializeSchema(db *sqlx.DB) error {
	statements := []struct {
		name string
		sql  string
	}{
		{"nodes", `
			CREATE TABLE IF NOT EXISTS nodes (
				id TEXT PRIMARY KEY,
				kind TEXT NOT NULL
			)
		`},
		{"edges", `
			CREATE TABLE IF NOT EXISTS edges (
				source_id TEXT NOT NULL,
				target_id TEXT NOT NULL,
				kind TEXT NOT NULL,
				dist TEXT NOT NULL,
				param1 REAL NOT NULL DEFAULT 0,
				param2 REAL NOT NULL DEFAULT 0
			)
		`},
		{"edges_source_idx", `
			CREATE INDEX IF NOT EXISTS idx_edges_source ON edges(source_id)
		`},
		{"importance_scores", `
			CREATE TABLE IF NOT EXISTS importance_scores (
				node_id TEXT PRIMARY KEY,
				influence REAL NOT NULL DEFAULT 0,
				foundational REAL NOT NULL DEFAULT 0
			)
		`},
		{"memory_states", `
			CREATE TABLE IF NOT EXISTS memory_states (
				user_id TEXT NOT NULL,
				node_id TEXT NOT NULL,
				stability REAL NOT NULL,
				difficulty REAL NOT NULL,
				energy REAL NOT NULL,
				last_reviewed TIMESTAMP NOT NULL,
				due TIMESTAMP NOT NULL,
				review_count INTEGER NOT NULL DEFAULT 0,
				PRIMARY KEY (user_id, node_id)
			)
		`},
		{"memory_states_due_idx", `
			CREATE INDEX IF NOT EXISTS idx_memory_states_due ON memory_states(user_id, due)
		`},
		{"review_log", `
			CREATE TABLE IF NOT EXISTS review_log (
				id TEXT PRIMARY KEY,
				user_id TEXT NOT NULL,
				node_id TEXT NOT NULL,
				grade INTEGER NOT NULL,
				reviewed_at TIMESTAMP NOT NULL,
				prev_energy REAL NOT NULL,
				new_energy REAL NOT NULL
			)
		`},
		{"propagation_log", `
			CREATE TABLE IF NOT EXISTS propagation_log (
				id TEXT PRIMARY KEY,
				user_id TEXT NOT NULL,
				source_id TEXT NOT NULL,
				occurred_at TIMESTAMP NOT NULL
			)
		`},
		{"propagation_log_details", `
			CREATE TABLE IF NOT EXISTS propagation_log_details (
				event_id TEXT NOT NULL,
				target_id TEXT NOT NULL,
				delta REAL NOT NULL,
				hops INTEGER NOT NULL,
				reason TEXT NOT NULL,
				FOREIGN KEY (event_id) REFERENCES propagation_log(id)
			)
		`},
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt.sql); err != nil {
			return fmt.Errorf("failed to create %s: %w", stmt.name, err)
		}
	}
	return nil
}
