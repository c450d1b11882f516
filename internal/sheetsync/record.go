// Package sheetsync mirrors stored listings and buyer requirements into
// Google Sheets after the fact. Delivery is best effort: failures are
// logged and counted, never reported to the submitter.
package sheetsync

import (
	"context"
	"errors"
	"time"

	"leadhub-engine/internal/domain"
)

type Kind string

const (
	KindListing     Kind = "listing"
	KindRequirement Kind = "requirement"
)

// Record is one stored row waiting to be mirrored.
type Record struct {
	Kind        Kind
	Listing     *domain.Listing
	Requirement *domain.BuyerRequirement
}

func ListingRecord(l domain.Listing) Record {
	return Record{Kind: KindListing, Listing: &l}
}

func RequirementRecord(r domain.BuyerRequirement) Record {
	return Record{Kind: KindRequirement, Requirement: &r}
}

// ErrNotConfigured is returned by a sink that has nowhere to send a kind.
var ErrNotConfigured = errors.New("sink not configured")

type Sink interface {
	Name() string
	Send(ctx context.Context, rec Record) error
}

// Row flattens the record for spreadsheet append: id, created_at, then the
// stored columns in schema order.
func (r Record) Row() []any {
	var created time.Time
	var id int64
	var fields []*domain.Text
	switch r.Kind {
	case KindListing:
		if r.Listing == nil {
			return nil
		}
		id, created, fields = r.Listing.ID, r.Listing.CreatedAt, r.Listing.Fields()
	case KindRequirement:
		if r.Requirement == nil {
			return nil
		}
		id, created, fields = r.Requirement.ID, r.Requirement.CreatedAt, r.Requirement.Fields()
	default:
		return nil
	}
	row := make([]any, 0, len(fields)+2)
	row = append(row, id, created.UTC().Format(time.RFC3339))
	for _, f := range fields {
		row = append(row, string(*f))
	}
	return row
}
