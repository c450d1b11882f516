package store

import (
	"context"
	"fmt"
	"strings"

	"leadhub-engine/internal/domain"
)

var (
	requirementSelect = `SELECT id, ` + strings.Join(domain.RequirementColumns, ", ") +
		`, created_at, updated_at FROM buyer_requirements`
	requirementInsert = `INSERT INTO buyer_requirements (` + strings.Join(domain.RequirementColumns, ", ") +
		`, created_at, updated_at) VALUES (` + placeholders(len(domain.RequirementColumns)+2) + `);`
)

func (s *Store) InsertRequirement(ctx context.Context, r *domain.BuyerRequirement) error {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = s.now()
	}
	if r.UpdatedAt.IsZero() {
		r.UpdatedAt = r.CreatedAt
	}
	fields := r.Fields()
	args := make([]any, 0, len(fields)+2)
	for _, f := range fields {
		args = append(args, string(*f))
	}
	args = append(args, formatTime(r.CreatedAt), formatTime(r.UpdatedAt))

	res, err := s.Pool.ExecContext(ctx, requirementInsert, args...)
	if err != nil {
		return fmt.Errorf("insert buyer requirement: %w", err)
	}
	r.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert buyer requirement: %w", err)
	}
	return nil
}

func (s *Store) ListRequirements(ctx context.Context) ([]domain.BuyerRequirement, error) {
	rows, err := s.Pool.QueryContext(ctx, requirementSelect+` ORDER BY created_at DESC, id DESC;`)
	if err != nil {
		return nil, fmt.Errorf("query buyer requirements: %w", err)
	}
	defer rows.Close()

	out := []domain.BuyerRequirement{}
	for rows.Next() {
		var r domain.BuyerRequirement
		var created, updated string
		fields := r.Fields()
		dest := make([]any, 0, len(fields)+3)
		dest = append(dest, &r.ID)
		for _, f := range fields {
			dest = append(dest, f)
		}
		dest = append(dest, &created, &updated)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan buyer requirement: %w", err)
		}
		r.CreatedAt = parseTime(created)
		r.UpdatedAt = parseTime(updated)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
