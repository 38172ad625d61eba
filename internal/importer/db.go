package importer

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"github.com/nearby-rouen/nearby/internal/repository"
)

// DB wraps the SQLite connection import-data writes to
type DB struct {
	conn *sql.DB
}

// Connect opens (or creates) the dataset at dbPath for a bulk import
func Connect(ctx context.Context, dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Imports are a single sequential writer
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)
	conn.SetConnMaxLifetime(time.Hour)

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Bulk load PRAGMAs, durability is irrelevant until the import succeeds
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = OFF",
		"PRAGMA cache_size = -512000", // 512MB
		"PRAGMA temp_store = MEMORY",
		"PRAGMA secure_delete = FALSE",
	}
	for _, pragma := range pragmas {
		if _, err := conn.ExecContext(ctx, pragma); err != nil {
			log.Warn().Err(err).Str("pragma", pragma).Msg("failed to set pragma")
		}
	}

	log.Info().Str("path", dbPath).Msg("connected to SQLite database")
	return &DB{conn: conn}, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// Conn returns the underlying database connection
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// EnsureSchema creates tables if they don't exist
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.conn.ExecContext(ctx, repository.Schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	log.Debug().Msg("database schema ensured")
	return nil
}

// Optimize refreshes query planner statistics once the import is done
func (db *DB) Optimize(ctx context.Context) error {
	for _, stmt := range []string{"PRAGMA analysis_limit = 40000", "PRAGMA optimize", "PRAGMA wal_checkpoint(TRUNCATE)"} {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to run %s: %w", stmt, err)
		}
	}
	return nil
}

// withTx runs fn in a transaction, committing only if it succeeds
func (db *DB) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
