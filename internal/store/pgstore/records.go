package pgstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"leadhub-engine/internal/domain"
)

const foreignKeyViolation pq.ErrorCode = "23503"

var (
	requirementSelect = `SELECT id, ` + strings.Join(domain.RequirementColumns, ", ") +
		`, created_at, updated_at FROM buyer_requirements`
	requirementInsert = namedInsert("buyer_requirements",
		append(append([]string{}, domain.RequirementColumns...), "created_at", "updated_at"))
)

func (s *Store) InsertRequirement(ctx context.Context, r *domain.BuyerRequirement) error {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = s.now()
	}
	if r.UpdatedAt.IsZero() {
		r.UpdatedAt = r.CreatedAt
	}
	id, err := s.insertReturningID(ctx, requirementInsert, r)
	if err != nil {
		return fmt.Errorf("insert buyer requirement: %w", err)
	}
	r.ID = id
	return nil
}

func (s *Store) ListRequirements(ctx context.Context) ([]domain.BuyerRequirement, error) {
	out := []domain.BuyerRequirement{}
	if err := s.db.SelectContext(ctx, &out, requirementSelect+` ORDER BY created_at DESC, id DESC`); err != nil {
		return nil, fmt.Errorf("query buyer requirements: %w", err)
	}
	return out, nil
}

func (s *Store) InsertComment(ctx context.Context, c *domain.Comment) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = s.now()
	}
	var createdBy any
	if !c.CreatedBy.IsBlank() {
		createdBy = string(c.CreatedBy)
	}
	err := s.db.QueryRowxContext(ctx, s.db.Rebind(`
INSERT INTO comments (property_listing_id, comment, created_by, created_at)
VALUES (?, ?, ?, ?) RETURNING id`),
		c.PropertyListingID, c.Comment, createdBy, c.CreatedAt).Scan(&c.ID)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == foreignKeyViolation {
		return fmt.Errorf("insert comment: listing %d: %w", *c.PropertyListingID, domain.ErrNotFound)
	}
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
	query += ` ORDER BY created_at DESC, id DESC`

	out := []domain.Comment{}
	if err := s.db.SelectContext(ctx, &out, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("query comments: %w", err)
	}
	return out, nil
}
