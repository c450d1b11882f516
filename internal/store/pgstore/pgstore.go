// Package pgstore is the PostgreSQL repository for hosted deployments.
package pgstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // postgres driver

	"leadhub-engine/internal/domain"
	"leadhub-engine/internal/match"
)

type Store struct {
	db  *sqlx.DB
	now func() time.Time
}

var (
	_ domain.Repository = (*Store)(nil)
	_ match.Source      = (*Store)(nil)
)

// Open connects to dsn and pings it.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return &Store{db: db, now: func() time.Time { return time.Now().UTC() }}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Migrate creates the tables when missing. Existing tables, including
// ones provisioned by earlier deployments, are left as they are.
func (s *Store) Migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS property_listings (
  id SERIAL PRIMARY KEY,
` + textColumns(domain.ListingColumns) + `,
  created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`,
		`CREATE TABLE IF NOT EXISTS comments (
  id SERIAL PRIMARY KEY,
  property_listing_id INTEGER REFERENCES property_listings(id) ON DELETE CASCADE,
  comment TEXT NOT NULL,
  created_by VARCHAR(255),
  created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`,
		`CREATE TABLE IF NOT EXISTS buyer_requirements (
  id SERIAL PRIMARY KEY,
` + textColumns(domain.RequirementColumns) + `,
  created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`,
		`CREATE INDEX IF NOT EXISTS idx_property_listings_email ON property_listings(email)`,
		`CREATE INDEX IF NOT EXISTS idx_property_listings_property_code ON property_listings(property_code)`,
		`CREATE INDEX IF NOT EXISTS idx_property_listings_emirate ON property_listings(emirate)`,
		`CREATE INDEX IF NOT EXISTS idx_property_listings_created_at ON property_listings(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_comments_property_listing_id ON comments(property_listing_id)`,
		`CREATE INDEX IF NOT EXISTS idx_buyer_requirements_email ON buyer_requirements(email)`,
		`CREATE INDEX IF NOT EXISTS idx_buyer_requirements_emirate ON buyer_requirements(emirate)`,
		`CREATE INDEX IF NOT EXISTS idx_buyer_requirements_status ON buyer_requirements(status)`,
		`CREATE INDEX IF NOT EXISTS idx_buyer_requirements_created_at ON buyer_requirements(created_at)`,
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate postgres: %w", err)
		}
	}
	return tx.Commit()
}

func textColumns(cols []string) string {
	lines := make([]string, 0, len(cols))
	for _, c := range cols {
		lines = append(lines, "  "+c+" TEXT NOT NULL DEFAULT ''")
	}
	return strings.Join(lines, ",\n")
}

// namedInsert builds "INSERT ... VALUES (:col, ...) RETURNING id".
func namedInsert(table string, cols []string) string {
	named := make([]string, 0, len(cols))
	for _, c := range cols {
		named = append(named, ":"+c)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING id",
		table, strings.Join(cols, ", "), strings.Join(named, ", "))
}

func (s *Store) insertReturningID(ctx context.Context, query string, arg any) (int64, error) {
	stmt, err := s.db.PrepareNamedContext(ctx, query)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	var id int64
	if err := stmt.GetContext(ctx, &id, arg); err != nil {
		return 0, err
	}
	return id, nil
}
