package store

import (
	"context"
	"errors"
	"fmt"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"leadhub-engine/internal/domain"
)

func (s *Store) InsertComment(ctx context.Context, c *domain.Comment) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = s.now()
	}
	var createdBy any
	if !c.CreatedBy.IsBlank() {
		createdBy = string(c.CreatedBy)
	}
	res, err := s.Pool.ExecContext(ctx, `
INSERT INTO comments(property_listing_id, comment, created_by, created_at)
VALUES(?,?,?,?);`,
		c.PropertyListingID, c.Comment, createdBy, formatTime(c.CreatedAt))
	if isForeignKeyViolation(err) {
		return fmt.Errorf("insert comment: listing %d: %w", *c.PropertyListingID, domain.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}
	c.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}
	return nil
}

func (s *Store) ListComments(ctx context.Context, listingID *int64) ([]domain.Comment, error) {
	query := `SELECT id, property_listing_id, comment, created_by, created_at FROM comments`
	var args []any
	if listingID != nil {
		query += ` WHERE property_listing_id = ?`
		args = append(args, *listingID)
	}
	query += ` ORDER BY created_at DESC, id DESC;`

	rows, err := s.Pool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query comments: %w", err)
	}
	defer rows.Close()

	out := []domain.Comment{}
	for rows.Next() {
		var c domain.Comment
		var created string
		if err := rows.Scan(&c.ID, &c.PropertyListingID, &c.Comment, &c.CreatedBy, &created); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		c.CreatedAt = parseTime(created)
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func isForeignKeyViolation(err error) bool {
	var se *sqlite.Error
	return errors.As(err, &se) && se.Code() == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY
}
