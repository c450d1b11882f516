package store

import (
	"context"
	"fmt"
	"strings"

	"leadhub-engine/internal/domain"
	"leadhub-engine/internal/match"
)

var (
	listingSelect = `SELECT id, ` + strings.Join(domain.ListingColumns, ", ") + `, created_at FROM property_listings`
	listingInsert = `INSERT INTO property_listings (` + strings.Join(domain.ListingColumns, ", ") +
		`, created_at) VALUES (` + placeholders(len(domain.ListingColumns)+1) + `);`
)

func (s *Store) InsertListing(ctx context.Context, l *domain.Listing) error {
	if l.CreatedAt.IsZero() {
		l.CreatedAt = s.now()
	}
	fields := l.Fields()
	args := make([]any, 0, len(fields)+1)
	for _, f := range fields {
		args = append(args, string(*f))
	}
	args = append(args, formatTime(l.CreatedAt))

	res, err := s.Pool.ExecContext(ctx, listingInsert, args...)
	if err != nil {
		return fmt.Errorf("insert listing: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert listing: %w", err)
	}
	l.ID = id
	return nil
}

func (s *Store) ListListings(ctx context.Context, q domain.ListingQuery) ([]domain.Listing, error) {
	q = q.Normalize()

	query := listingSelect
	var args []any
	if q.Search != "" {
		pattern := "%" + escapeLike(strings.ToLower(q.Search)) + "%"
		conds := make([]string, 0, len(domain.ListingSearchColumns))
		for _, col := range domain.ListingSearchColumns {
			conds = append(conds, "lower("+col+") LIKE ? ESCAPE '\\'")
			args = append(args, pattern)
		}
		query += " WHERE " + strings.Join(conds, " OR ")
	}
	// SortBy/Order are whitelisted by Normalize
	query += fmt.Sprintf(" ORDER BY %s %s, id %s;", q.SortBy, q.Order, q.Order)

	return s.queryListings(ctx, query, args...)
}

func (s *Store) DeleteListings(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	args := make([]any, 0, len(ids))
	for _, id := range ids {
		args = append(args, id)
	}
	res, err := s.Pool.ExecContext(ctx,
		`DELETE FROM property_listings WHERE id IN (`+placeholders(len(ids))+`);`, args...)
	if err != nil {
		return 0, fmt.Errorf("delete listings: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// MatchCandidates reads the listings the plan's pushdown admits, newest
// first.
func (s *Store) MatchCandidates(ctx context.Context, plan match.Plan) ([]domain.Listing, error) {
	where, args, limit := plan.Pushdown()
	query := listingSelect
	if where != "" {
		query += " WHERE " + where
	}
	query += " ORDER BY created_at DESC, id DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	return s.queryListings(ctx, query+";", args...)
}

func (s *Store) queryListings(ctx context.Context, query string, args ...any) ([]domain.Listing, error) {
	rows, err := s.Pool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query listings: %w", err)
	}
	defer rows.Close()

	out := []domain.Listing{}
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanListing(sc scanner) (domain.Listing, error) {
	var l domain.Listing
	var created string
	fields := l.Fields()
	dest := make([]any, 0, len(fields)+2)
	dest = append(dest, &l.ID)
	for _, f := range fields {
		dest = append(dest, f)
	}
	dest = append(dest, &created)
	if err := sc.Scan(dest...); err != nil {
		return domain.Listing{}, fmt.Errorf("scan listing: %w", err)
	}
	l.CreatedAt = parseTime(created)
	return l, nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
