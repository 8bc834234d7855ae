// Package postgres provides a PostgreSQL implementation of VersionLookup.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"usdl-offering/db"
)

// uniqueViolation is the SQLSTATE raised on a duplicate key.
const uniqueViolation = "23505"

// Store implements db.VersionLookup using PostgreSQL.
type Store struct {
	db *sql.DB
}

var _ db.VersionLookup = (*Store)(nil)

func NewStore(sqlDB *sql.DB) *Store {
	return &Store{db: sqlDB}
}

// Open connects to the database named by dsn.
func Open(dsn string) (*Store, error) {
	sqlDB, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}
	return NewStore(sqlDB), nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// EnsureSchema creates the offering_versions table if missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS offering_versions (
			id UUID PRIMARY KEY,
			organization TEXT NOT NULL,
			name TEXT NOT NULL,
			version TEXT NOT NULL,
			hash TEXT NOT NULL,
			open BOOLEAN NOT NULL DEFAULT FALSE,
			recorded_at TIMESTAMPTZ NOT NULL,
			UNIQUE (organization, name, version)
		)
	`
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create offering_versions: %w", err)
	}
	return nil
}

func (s *Store) HasPriorVersion(ctx context.Context, organization, name string) (bool, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT EXISTS (SELECT 1 FROM offering_versions WHERE organization = $1 AND name = $2)",
		db.NormalizeName(organization), db.NormalizeName(name))

	var exists bool
	if err := row.Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to look up offering versions: %w", err)
	}
	return exists, nil
}

func (s *Store) RecordVersion(ctx context.Context, v db.OfferingVersion) error {
	query := `
		INSERT INTO offering_versions (id, organization, name, version, hash, open, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(ctx, query,
		v.ID.String(),
		db.NormalizeName(v.Organization),
		db.NormalizeName(v.Name),
		v.Version,
		v.Hash,
		v.Open,
		v.RecordedAt,
	)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return db.ErrVersionExists
	}
	if err != nil {
		return fmt.Errorf("failed to record offering version: %w", err)
	}
	return nil
}
