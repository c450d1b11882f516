// Package memstore keeps everything in process memory. It backs tests and
// throwaway demo runs; nothing survives a restart.
package memstore

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"leadhub-engine/internal/domain"
	"leadhub-engine/internal/match"
)

var (
	_ domain.Repository = (*Store)(nil)
	_ match.Source      = (*Store)(nil)
)

type Store struct {
	mu sync.RWMutex

	listings     []domain.Listing
	requirements []domain.BuyerRequirement
	comments     []domain.Comment

	nextListing     int64
	nextRequirement int64
	nextComment     int64

	// Now stamps records inserted without a created_at.
	Now func() time.Time
}

func New() *Store {
	return &Store{Now: func() time.Time { return time.Now().UTC() }}
}

func (s *Store) Ping(context.Context) error { return nil }
func (s *Store) Close() error               { return nil }

func (s *Store) InsertListing(_ context.Context, l *domain.Listing) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if l.CreatedAt.IsZero() {
		l.CreatedAt = s.Now()
	}
	s.nextListing++
	l.ID = s.nextListing
	s.listings = append(s.listings, *l)
	return nil
}

func (s *Store) ListListings(_ context.Context, q domain.ListingQuery) ([]domain.Listing, error) {
	q = q.Normalize()
	needle := strings.ToLower(q.Search)

	s.mu.RLock()
	out := []domain.Listing{}
	for _, l := range s.listings {
		if needle == "" || containsAny(l.SearchText(), needle) {
			out = append(out, l)
		}
	}
	s.mu.RUnlock()

	key := sortKey(q.SortBy)
	slices.SortStableFunc(out, func(a, b domain.Listing) int {
		c := key(a, b)
		if c == 0 {
			c = cmp.Compare(a.ID, b.ID)
		}
		if q.Order == "DESC" {
			return -c
		}
		return c
	})
	return out, nil
}

func containsAny(values []string, needle string) bool {
	for _, v := range values {
		if strings.Contains(strings.ToLower(v), needle) {
			return true
		}
	}
	return false
}

func sortKey(col string) func(a, b domain.Listing) int {
	switch col {
	case "id":
		return func(a, b domain.Listing) int { return cmp.Compare(a.ID, b.ID) }
	case "email":
		return func(a, b domain.Listing) int { return strings.Compare(string(a.Email), string(b.Email)) }
	case "agent_name":
		return func(a, b domain.Listing) int { return strings.Compare(string(a.AgentName), string(b.AgentName)) }
	}
	return func(a, b domain.Listing) int { return a.CreatedAt.Compare(b.CreatedAt) }
}

func (s *Store) DeleteListings(_ context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	before := len(s.listings)
	s.listings = slices.DeleteFunc(s.listings, func(l domain.Listing) bool {
		return slices.Contains(ids, l.ID)
	})
	s.comments = slices.DeleteFunc(s.comments, func(c domain.Comment) bool {
		return c.PropertyListingID != nil && slices.Contains(ids, *c.PropertyListingID)
	})
	return int64(before - len(s.listings)), nil
}

// MatchCandidates returns a snapshot of every listing, newest first with
// ties broken by id DESC like the SQL stores. The engine does all the
// filtering.
func (s *Store) MatchCandidates(_ context.Context, _ match.Plan) ([]domain.Listing, error) {
	s.mu.RLock()
	out := slices.Clone(s.listings)
	s.mu.RUnlock()

	slices.SortFunc(out, func(a, b domain.Listing) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	return out, nil
}

func (s *Store) InsertRequirement(_ context.Context, r *domain.BuyerRequirement) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.CreatedAt.IsZero() {
		r.CreatedAt = s.Now()
	}
	if r.UpdatedAt.IsZero() {
		r.UpdatedAt = r.CreatedAt
	}
	s.nextRequirement++
	r.ID = s.nextRequirement
	s.requirements = append(s.requirements, *r)
	return nil
}

func (s *Store) ListRequirements(context.Context) ([]domain.BuyerRequirement, error) {
	s.mu.RLock()
	out := slices.Clone(s.requirements)
	s.mu.RUnlock()

	if out == nil {
		out = []domain.BuyerRequirement{}
	}
	slices.SortStableFunc(out, func(a, b domain.BuyerRequirement) int {
		return cmp.Or(b.CreatedAt.Compare(a.CreatedAt), cmp.Compare(b.ID, a.ID))
	})
	return out, nil
}

func (s *Store) InsertComment(_ context.Context, c *domain.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.PropertyListingID != nil {
		id := *c.PropertyListingID
		if !slices.ContainsFunc(s.listings, func(l domain.Listing) bool { return l.ID == id }) {
			return domain.ErrNotFound
		}
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = s.Now()
	}
	s.nextComment++
	c.ID = s.nextComment

	stored := *c
	if c.PropertyListingID != nil {
		id := *c.PropertyListingID
		stored.PropertyListingID = &id
	}
	s.comments = append(s.comments, stored)
	return nil
}

func (s *Store) ListComments(_ context.Context, listingID *int64) ([]domain.Comment, error) {
	s.mu.RLock()
	out := []domain.Comment{}
	for _, c := range s.comments {
		if listingID != nil && (c.PropertyListingID == nil || *c.PropertyListingID != *listingID) {
			continue
		}
		out = append(out, c)
	}
	s.mu.RUnlock()

	slices.SortStableFunc(out, func(a, b domain.Comment) int {
		return cmp.Or(b.CreatedAt.Compare(a.CreatedAt), cmp.Compare(b.ID, a.ID))
	})
	return out, nil
}
