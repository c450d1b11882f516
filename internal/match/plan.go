package match

import (
	"strings"

	"leadhub-engine/internal/domain"
)

// Listing purposes, plus the buyer-side "Buy" label that maps onto Sale.
const (
	PurposeSale = "Sale"
	PurposeRent = "Rent"
	PurposeBoth = "Both"
	PurposeBuy  = "Buy"
)

// MaxResults caps every match result.
const MaxResults = 50

// ListingPurpose maps a requirement purpose onto the listing vocabulary.
func ListingPurpose(requirement string) string {
	if requirement == PurposeBuy {
		return PurposeSale
	}
	return requirement
}

type predicate struct {
	name string
	// where/args are set when a SQL store can evaluate the predicate itself.
	where string
	args  []any
	keep  func(l *domain.Listing) bool
}

// Plan is the compiled form of a buyer requirement: the conjunction of the
// predicates whose requirement fields were supplied and usable.
type Plan struct {
	preds []predicate
}

// NewPlan compiles req. Fields that are blank or cannot be parsed leave
// their predicate out.
func NewPlan(req domain.BuyerRequirement) Plan {
	var p Plan

	if emirate := req.Emirate.Trimmed(); emirate != "" {
		p.preds = append(p.preds, predicate{
			name:  "emirate",
			where: "emirate = ?",
			args:  []any{emirate},
			keep:  func(l *domain.Listing) bool { return string(l.Emirate) == emirate },
		})
	}

	purpose := req.Purpose.Trimmed()
	if purpose != "" {
		want := ListingPurpose(purpose)
		p.preds = append(p.preds, predicate{
			name:  "purpose",
			where: "(purpose = ? OR purpose = ?)",
			args:  []any{want, PurposeBoth},
			keep:  func(l *domain.Listing) bool { return purposeIs(l, want) },
		})
	}

	if want := ParseRoomCount(req.Bedrooms.String()); want.Known() {
		p.preds = append(p.preds, predicate{
			name: "bedrooms",
			keep: func(l *domain.Listing) bool {
				return ParseRoomCount(l.Bedrooms.String()).Satisfies(want)
			},
		})
	}

	// bathrooms have no studio form
	if want := ParseRoomCount(req.Bathrooms.String()); want.Known() && want.Kind != RoomStudio {
		p.preds = append(p.preds, predicate{
			name: "bathrooms",
			keep: func(l *domain.Listing) bool {
				return ParseRoomCount(l.Bathrooms.String()).Satisfies(want)
			},
		})
	}

	minSize, hasMin := ParseBound(req.MinSizeSqft.String())
	maxSize, hasMax := ParseBound(req.MaxSizeSqft.String())
	if hasMin || hasMax {
		p.preds = append(p.preds, predicate{
			name: "size",
			keep: func(l *domain.Listing) bool {
				size, ok := ParseLooseInteger(l.SizeSqft.String())
				if !ok {
					return false
				}
				if hasMin && size < minSize {
					return false
				}
				return !hasMax || size <= maxSize
			},
		})
	}

	lo, okLo := ParseBound(req.MinBudget.String())
	hi, okHi := ParseBound(req.MaxBudget.String())
	if okLo && okHi {
		var price func(l *domain.Listing) domain.Text
		var want string
		switch purpose {
		case PurposeBuy:
			price = func(l *domain.Listing) domain.Text { return l.SalePrice }
			want = PurposeSale
		case PurposeRent:
			price = func(l *domain.Listing) domain.Text { return l.AskingRent }
			want = PurposeRent
		}
		// any other purpose leaves budget unchecked
		if price != nil {
			p.preds = append(p.preds, predicate{
				name: "budget",
				keep: func(l *domain.Listing) bool {
					if !purposeIs(l, want) {
						return false
					}
					v, ok := ParseLooseInteger(price(l).String())
					return ok && v >= lo && v <= hi
				},
			})
		}
	}

	return p
}

func purposeIs(l *domain.Listing, want string) bool {
	got := string(l.Purpose)
	return got == want || got == PurposeBoth
}

// Keep reports whether l satisfies every predicate of the plan.
func (p Plan) Keep(l *domain.Listing) bool {
	for _, pr := range p.preds {
		if !pr.keep(l) {
			return false
		}
	}
	return true
}

// Active names the predicates in evaluation order.
func (p Plan) Active() []string {
	names := make([]string, 0, len(p.preds))
	for _, pr := range p.preds {
		names = append(names, pr.name)
	}
	return names
}

// Pushdown returns what a SQL store can evaluate on its own: a WHERE
// fragment with ? placeholders and the values bound to them. Column names
// are constants; requirement values only ever travel as args. limit is
// MaxResults when no predicate is left for Keep to evaluate, else 0.
func (p Plan) Pushdown() (where string, args []any, limit int) {
	var clauses []string
	pending := false
	for _, pr := range p.preds {
		if pr.where == "" {
			pending = true
			continue
		}
		clauses = append(clauses, pr.where)
		args = append(args, pr.args...)
	}
	if !pending {
		limit = MaxResults
	}
	return strings.Join(clauses, " AND "), args, limit
}
