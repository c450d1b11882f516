package pgstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"leadhub-engine/internal/domain"
	"leadhub-engine/internal/match"
)

var (
	listingSelect = `SELECT id, ` + strings.Join(domain.ListingColumns, ", ") + `, created_at FROM property_listings`
	listingInsert = namedInsert("property_listings", append(append([]string{}, domain.ListingColumns...), "created_at"))
)

func (s *Store) InsertListing(ctx context.Context, l *domain.Listing) error {
	if l.CreatedAt.IsZero() {
		l.CreatedAt = s.now()
	}
	id, err := s.insertReturningID(ctx, listingInsert, l)
	if err != nil {
		return fmt.Errorf("insert listing: %w", err)
	}
	l.ID = id
	return nil
}

func (s *Store) ListListings(ctx context.Context, q domain.ListingQuery) ([]domain.Listing, error) {
	q = q.Normalize()
	query, args := listingListQuery(q)

	out := []domain.Listing{}
	if err := s.db.SelectContext(ctx, &out, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("query listings: %w", err)
	}
	return out, nil
}

// listingListQuery expects a normalized query; it uses ? placeholders.
func listingListQuery(q domain.ListingQuery) (string, []any) {
	query := listingSelect
	var args []any
	if q.Search != "" {
		pattern := "%" + escapeLike(q.Search) + "%"
		conds := make([]string, 0, len(domain.ListingSearchColumns))
		for _, col := range domain.ListingSearchColumns {
			conds = append(conds, col+" ILIKE ?")
			args = append(args, pattern)
		}
		query += " WHERE " + strings.Join(conds, " OR ")
	}
	query += fmt.Sprintf(" ORDER BY %s %s, id %s", q.SortBy, q.Order, q.Order)
	return query, args
}

func (s *Store) DeleteListings(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	query, args, err := sqlx.In(`DELETE FROM property_listings WHERE id IN (?)`, ids)
	if err != nil {
		return 0, fmt.Errorf("delete listings: %w", err)
	}
	res, err := s.db.ExecContext(ctx, s.db.Rebind(query), args...)
	if err != nil {
		return 0, fmt.Errorf("delete listings: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

func (s *Store) MatchCandidates(ctx context.Context, plan match.Plan) ([]domain.Listing, error) {
	query, args := matchQuery(plan)
	out := []domain.Listing{}
	if err := s.db.SelectContext(ctx, &out, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("query match candidates: %w", err)
	}
	return out, nil
}

func matchQuery(plan match.Plan) (string, []any) {
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
	return query, args
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
