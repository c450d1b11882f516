package domain

import (
	"context"
	"strings"
)

// ListingQuery drives the admin dashboard list.
type ListingQuery struct {
	Search string
	SortBy string // id | email | created_at | name
	Order  string // ASC | DESC
}

// whitelist sort columns; "name" is what the dashboard sends for the agent
var listingSortColumns = map[string]string{
	"id":         "id",
	"email":      "email",
	"created_at": "created_at",
	"name":       "agent_name",
}

// Normalize resolves SortBy to a real column and Order to ASC or DESC.
// Unknown values fall back to newest first.
func (q ListingQuery) Normalize() ListingQuery {
	out := q
	out.Search = strings.TrimSpace(q.Search)
	out.SortBy = listingSortColumns[strings.ToLower(strings.TrimSpace(q.SortBy))]
	if out.SortBy == "" {
		out.SortBy = "created_at"
	}
	if strings.EqualFold(strings.TrimSpace(q.Order), "ASC") {
		out.Order = "ASC"
	} else {
		out.Order = "DESC"
	}
	return out
}

type ListingRepository interface {
	InsertListing(ctx context.Context, l *Listing) error
	ListListings(ctx context.Context, q ListingQuery) ([]Listing, error)
	// DeleteListings removes the listings and their comments and reports
	// how many listings were removed.
	DeleteListings(ctx context.Context, ids []int64) (int64, error)
}

type RequirementRepository interface {
	InsertRequirement(ctx context.Context, r *BuyerRequirement) error
	ListRequirements(ctx context.Context) ([]BuyerRequirement, error)
}

type CommentRepository interface {
	InsertComment(ctx context.Context, c *Comment) error
	// ListComments returns comments newest first; a nil listingID lists all.
	ListComments(ctx context.Context, listingID *int64) ([]Comment, error)
}

// Repository is everything the HTTP surface needs from a store.
type Repository interface {
	ListingRepository
	RequirementRepository
	CommentRepository
	Ping(ctx context.Context) error
	Close() error
}
