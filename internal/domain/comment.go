package domain

import (
	"strings"
	"time"
)

// Comment is an admin note, optionally attached to a listing.
type Comment struct {
	ID                int64     `json:"id" db:"id"`
	PropertyListingID *int64    `json:"property_listing_id" db:"property_listing_id"`
	Comment           string    `json:"comment" db:"comment"`
	CreatedBy         Text      `json:"created_by" db:"created_by"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
}

func (c *Comment) Validate() error {
	if strings.TrimSpace(c.Comment) == "" {
		return ErrCommentRequired
	}
	return nil
}
