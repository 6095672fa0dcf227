package persist

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/dayflow/dayflow/internal/behavior"
	"github.com/dayflow/dayflow/internal/pattern"
)

// PostgresStore persists both collections as JSON documents in
// Postgres, for deployments where the app syncs state across devices.
// Each collection occupies a single row keyed by name so saves stay
// atomic replacements, matching the file store's semantics.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens (or reuses) a connection and ensures the
// schema exists.
func NewPostgresStore(db *sql.DB) (*PostgresStore, error) {
	s := &PostgresStore{db: db}
	if err := s.initSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

// OpenPostgresStore connects with the given DSN and builds a store.
func OpenPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to reach postgres: %w", err)
	}
	return NewPostgresStore(db)
}

func (s *PostgresStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS behavior_collections (
		name TEXT PRIMARY KEY,
		payload JSONB NOT NULL,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

const (
	collectionEvents   = "events"
	collectionPatterns = "patterns"
)

// SaveEvents replaces the persisted event history.
func (s *PostgresStore) SaveEvents(ctx context.Context, events []behavior.Event) error {
	return s.saveCollection(ctx, collectionEvents, events)
}

// LoadEvents reads the persisted event history. No row yields an empty
// slice.
func (s *PostgresStore) LoadEvents(ctx context.Context) ([]behavior.Event, error) {
	var events []behavior.Event
	if err := s.loadCollection(ctx, collectionEvents, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// SavePatterns replaces the persisted pattern set.
func (s *PostgresStore) SavePatterns(ctx context.Context, patterns []pattern.Pattern) error {
	return s.saveCollection(ctx, collectionPatterns, patterns)
}

// LoadPatterns reads the persisted pattern set. No row yields an empty
// slice.
func (s *PostgresStore) LoadPatterns(ctx context.Context) ([]pattern.Pattern, error) {
	var patterns []pattern.Pattern
	if err := s.loadCollection(ctx, collectionPatterns, &patterns); err != nil {
		return nil, err
	}
	return patterns, nil
}

func (s *PostgresStore) saveCollection(ctx context.Context, name string, v interface{}) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", name, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO behavior_collections (name, payload, updated_at)
		VALUES ($1, $2, CURRENT_TIMESTAMP)
		ON CONFLICT (name) DO UPDATE
		SET payload = EXCLUDED.payload, updated_at = CURRENT_TIMESTAMP
	`, name, payload)
	return err
}

func (s *PostgresStore) loadCollection(ctx context.Context, name string, v interface{}) error {
	var payload []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT payload FROM behavior_collections WHERE name = $1", name).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal(payload, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
