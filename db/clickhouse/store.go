// Package clickhouse provides ClickHouse implementation of VersionLookup
// Keeps an append-only history of published offering versions
package clickhouse

import (
	"context"
	"fmt"
	"net"
	"strconv"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"usdl-offering/db"
)

// Config holds ClickHouse connection configuration
type Config struct {
	Host     string
	Port     int
	Database string
	Username string
	Password string
	Debug    bool
}

// DefaultConfig returns default development configuration
func DefaultConfig() *Config {
	return &Config{
		Host:     "localhost",
		Port:     9000,
		Database: "offerings",
		Username: "default",
		Password: "",
		Debug:    false,
	}
}

// ConfigFromAddr returns the default configuration pointed at a host:port address
func ConfigFromAddr(addr string) (*Config, error) {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, fmt.Errorf("invalid ClickHouse address %q: %w", addr, err)
	}
	p, err := strconv.Atoi(port)
	if err != nil {
		return nil, fmt.Errorf("invalid ClickHouse port %q: %w", port, err)
	}
	cfg := DefaultConfig()
	cfg.Host = host
	cfg.Port = p
	return cfg, nil
}

// conn is the subset of clickhouse.Conn the store uses.
type conn interface {
	Exec(ctx context.Context, query string, args ...any) error
	QueryRow(ctx context.Context, query string, args ...any) driver.Row
	Ping(ctx context.Context) error
	Close() error
}

// Store implements db.VersionLookup using ClickHouse
type Store struct {
	conn conn
}

var _ db.VersionLookup = (*Store)(nil)

// NewStore creates a new ClickHouse version store
func NewStore(cfg *Config) (*Store, error) {
	c, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
		},
		Debug: cfg.Debug,
		Settings: clickhouse.Settings{
			"max_execution_time": 60,
		},
		Compression: &clickhouse.Compression{
			Method: clickhouse.CompressionLZ4,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ClickHouse: %w", err)
	}
	return &Store{conn: c}, nil
}

// Ping checks database connectivity
func (s *Store) Ping(ctx context.Context) error {
	return s.conn.Ping(ctx)
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.conn.Close()
}

// EnsureSchema creates the offering_versions table if missing
func (s *Store) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS offering_versions (
			id UUID,
			organization String,
			name String,
			version String,
			hash String,
			open UInt8,
			recorded_at DateTime64(3)
		) ENGINE = MergeTree
		ORDER BY (organization, name, recorded_at)
	`
	if err := s.conn.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create offering_versions: %w", err)
	}
	return nil
}

// HasPriorVersion reports whether any version of the offering was recorded
func (s *Store) HasPriorVersion(ctx context.Context, organization, name string) (bool, error) {
	query := `
		SELECT count()
		FROM offering_versions
		WHERE organization = ? AND name = ?
	`
	var count uint64
	if err := s.conn.QueryRow(ctx, query, db.NormalizeName(organization), db.NormalizeName(name)).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to count offering versions: %w", err)
	}
	return count > 0, nil
}

// RecordVersion inserts a published offering version
func (s *Store) RecordVersion(ctx context.Context, v db.OfferingVersion) error {
	query := `
		SELECT count()
		FROM offering_versions
		WHERE organization = ? AND name = ? AND version = ?
	`
	var count uint64
	if err := s.conn.QueryRow(ctx, query, db.NormalizeName(v.Organization), db.NormalizeName(v.Name), v.Version).Scan(&count); err != nil {
		return fmt.Errorf("failed to look up offering version: %w", err)
	}
	if count > 0 {
		return db.ErrVersionExists
	}

	insert := `
		INSERT INTO offering_versions (
			id, organization, name, version, hash, open, recorded_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	err := s.conn.Exec(ctx, insert,
		v.ID,
		db.NormalizeName(v.Organization),
		db.NormalizeName(v.Name),
		v.Version,
		v.Hash,
		boolToUInt8(v.Open),
		v.RecordedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record offering version: %w", err)
	}
	return nil
}

func boolToUInt8(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
