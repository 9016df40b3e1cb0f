package dictionary

import (
	"context"
	"fmt"

	"comment-tool/internal/textutil"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	createTableSQL = `CREATE TABLE IF NOT EXISTS comment_translations (
	hash       TEXT PRIMARY KEY,
	source     TEXT NOT NULL,
	translated TEXT NOT NULL DEFAULT ''
)`
	selectAllSQL = `SELECT source, translated FROM comment_translations`
	insertSQL    = `INSERT INTO comment_translations (hash, source, translated)
VALUES ($1, $2, $3)
ON CONFLICT (hash) DO NOTHING`
)

// PostgresStore keeps the mapping in a PostgreSQL table so several checkouts
// can share one dictionary. Rows are keyed by the SHA-256 of the comment text.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a store on an open pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Connect opens a pool for databaseURL, verifies it and ensures the schema.
func Connect(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect PostgreSQL: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping PostgreSQL: %w", err)
	}

	s := NewPostgresStore(pool)
	if err := s.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the pool.
func (s *PostgresStore) Close() { s.pool.Close() }

// Location describes the backing database.
func (s *PostgresStore) Location() string {
	cfg := s.pool.Config().ConnConfig
	return fmt.Sprintf("postgres://%s:%d/%s", cfg.Host, cfg.Port, cfg.Database)
}

// EnsureSchema creates the dictionary table.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, createTableSQL); err != nil {
		return fmt.Errorf("create dictionary table: %w", err)
	}
	return nil
}

// Load reads every row into a mapping.
func (s *PostgresStore) Load(ctx context.Context) (map[string]string, error) {
	rows, err := s.pool.Query(ctx, selectAllSQL)
	if err != nil {
		return nil, fmt.Errorf("query dictionary: %w", err)
	}

	type row struct {
		Source     string
		Translated string
	}
	all, err := pgx.CollectRows(rows, pgx.RowToStructByPos[row])
	if err != nil {
		return nil, fmt.Errorf("scan dictionary: %w", err)
	}

	entries := make(map[string]string, len(all))
	for _, r := range all {
		entries[r.Source] = r.Translated
	}
	return entries, nil
}

// Save inserts every entry that is not stored yet. Existing rows, including
// translations entered directly in the database, are left untouched.
func (s *PostgresStore) Save(ctx context.Context, entries map[string]string) error {
	if len(entries) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for source, translated := range entries {
		batch.Queue(insertSQL, textutil.Hash(source), source, translated)
	}

	if err := s.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert dictionary entries: %w", err)
	}
	return nil
}
