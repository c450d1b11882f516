package store

import (
	"database/sql"
	"fmt"
	"strings"

	"leadhub-engine/internal/domain"
)

const schemaVersion = 1

func Migrate(db *sql.DB) error {

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var v int
	if err := tx.QueryRow(`PRAGMA user_version;`).Scan(&v); err != nil {
		return err
	}

	if v >= schemaVersion {
		return tx.Commit()
	}

	// ---- Schema v1: tables ----

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS property_listings (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
` + textColumns(domain.ListingColumns) + `,
  created_at TEXT NOT NULL
);`,
		`CREATE TABLE IF NOT EXISTS comments (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  property_listing_id INTEGER REFERENCES property_listings(id) ON DELETE CASCADE,
  comment TEXT NOT NULL,
  created_by TEXT,
  created_at TEXT NOT NULL
);`,
		`CREATE TABLE IF NOT EXISTS buyer_requirements (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
` + textColumns(domain.RequirementColumns) + `,
  created_at TEXT NOT NULL,
  updated_at TEXT NOT NULL
);`,

		// ---- Schema v1: indexes ----

		`CREATE INDEX IF NOT EXISTS idx_property_listings_email ON property_listings(email);`,
		`CREATE INDEX IF NOT EXISTS idx_property_listings_property_code ON property_listings(property_code);`,
		`CREATE INDEX IF NOT EXISTS idx_property_listings_emirate ON property_listings(emirate);`,
		`CREATE INDEX IF NOT EXISTS idx_property_listings_created_at ON property_listings(created_at);`,
		`CREATE INDEX IF NOT EXISTS idx_comments_property_listing_id ON comments(property_listing_id);`,
		`CREATE INDEX IF NOT EXISTS idx_buyer_requirements_email ON buyer_requirements(email);`,
		`CREATE INDEX IF NOT EXISTS idx_buyer_requirements_emirate ON buyer_requirements(emirate);`,
		`CREATE INDEX IF NOT EXISTS idx_buyer_requirements_status ON buyer_requirements(status);`,
		`CREATE INDEX IF NOT EXISTS idx_buyer_requirements_created_at ON buyer_requirements(created_at);`,
	}
	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("migrate v%d: %w", schemaVersion, err)
		}
	}

	if _, err := tx.Exec(fmt.Sprintf(`PRAGMA user_version = %d;`, schemaVersion)); err != nil {
		return err
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

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
