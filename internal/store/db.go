package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"leadhub-engine/internal/domain"
	"leadhub-engine/internal/match"
)

// stored timestamps are fixed-width UTC so text order is time order
const timeLayout = "2006-01-02T15:04:05.000000Z07:00"

// Store is the SQLite repository used by a single local engine.
type Store struct {
	Pool *sql.DB

	now func() time.Time
}

var (
	_ domain.Repository = (*Store)(nil)
	_ match.Source      = (*Store)(nil)
)

func Open(path string) (*Store, error) {
	// modernc sqlite uses DSN like: file:foo.db?_pragma=busy_timeout(5000)
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)", path)

	pool, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	pool.SetMaxOpenConns(1) // sqlite typically wants 1 writer
	pool.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := pool.PingContext(ctx); err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	return &Store{Pool: pool, now: func() time.Time { return time.Now().UTC() }}, nil
}

func (s *Store) Close() error {
	if s == nil || s.Pool == nil {
		return nil
	}
	return s.Pool.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.Pool.PingContext(ctx)
}

// Maintain folds the WAL back into the main database file.
func (s *Store) Maintain(ctx context.Context) error {
	if _, err := s.Pool.ExecContext(ctx, `PRAGMA wal_checkpoint(FULL);`); err != nil {
		return fmt.Errorf("wal checkpoint: %w", err)
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		// rows written by hand or older tools
		t, _ = time.Parse(time.RFC3339Nano, s)
	}
	return t.UTC()
}

type scanner interface {
	Scan(dest ...any) error
}
