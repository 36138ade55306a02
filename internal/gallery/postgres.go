package gallery

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

// PostgresStore persists galleries in PostgreSQL with pgvector. Several named
// galleries can share one database; records are ordered by insertion id so
// matching stays deterministic.
type PostgresStore struct {
	pool *pgxpool.Pool
	name string
}

// Connect creates a connection pool to PostgreSQL.
func Connect(ctx context.Context, url string) (*pgxpool.Pool, error) {
	if url == "" {
		return nil, fmt.Errorf("DATABASE_URL not set")
	}

	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Test connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}

// Migrate creates the pgvector extension and the gallery_records table.
func Migrate(ctx context.Context, pool *pgxpool.Pool, dim int) error {
	_, err := pool.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS vector")
	if err != nil {
		return fmt.Errorf("failed to create vector extension: %w", err)
	}

	createTable := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS gallery_records (
			id           BIGSERIAL PRIMARY KEY,
			gallery      VARCHAR(255) NOT NULL,
			identity     VARCHAR(255) NOT NULL,
			embedding    vector(%d) NOT NULL,
			source       VARCHAR(1024) NOT NULL DEFAULT '',
			model        VARCHAR(255) NOT NULL,
			dim          INTEGER NOT NULL,
			created_at   TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)
	`, dim)

	_, err = pool.Exec(ctx, createTable)
	if err != nil {
		return fmt.Errorf("failed to create gallery_records table: %w", err)
	}

	_, err = pool.Exec(ctx, `
		CREATE INDEX IF NOT EXISTS idx_gallery_records_gallery
		ON gallery_records (gallery, id)
	`)
	if err != nil {
		return fmt.Errorf("failed to create gallery index: %w", err)
	}

	return nil
}

// NewPostgresStore creates a store for the named gallery.
func NewPostgresStore(pool *pgxpool.Pool, name string) *PostgresStore {
	return &PostgresStore{pool: pool, name: name}
}

// Save replaces the named gallery's records in one transaction, so a failed
// save never leaves a half-written gallery.
func (s *PostgresStore) Save(ctx context.Context, g *Gallery) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, "DELETE FROM gallery_records WHERE gallery = $1", s.name)
	if err != nil {
		return err
	}

	for _, rec := range g.Records {
		vec := pgvector.NewVector(rec.Embedding)
		_, err = tx.Exec(ctx, `
			INSERT INTO gallery_records (gallery, identity, embedding, source, model, dim, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, s.name, rec.Identity, vec, rec.Source, g.Model, g.Dim, rec.CreatedAt)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// Load reads the named gallery in insertion order and verifies the model.
func (s *PostgresStore) Load(ctx context.Context, model string) (*Gallery, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT identity, embedding, source, model, dim, created_at
		FROM gallery_records
		WHERE gallery = $1
		ORDER BY id
	`, s.name)
	if err != nil {
		return nil, fmt.Errorf("failed to load gallery %q: %w", s.name, err)
	}
	defer rows.Close()

	g := &Gallery{Model: model}
	for rows.Next() {
		var rec Record
		var vec pgvector.Vector
		var recModel string
		var dim int
		if err := rows.Scan(&rec.Identity, &vec, &rec.Source, &recModel, &dim, &rec.CreatedAt); err != nil {
			return nil, err
		}
		if recModel != model {
			return nil, fmt.Errorf("%w: gallery has %q, configured %q", ErrIncompatibleModel, recModel, model)
		}
		rec.Embedding = vec.Slice()
		g.Records = append(g.Records, rec)
		g.Dim = dim
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return g, nil
}
