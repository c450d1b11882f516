package match

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"leadhub-engine/internal/domain"
)

func TestNewPlan_ActivePredicates(t *testing.T) {
	tests := []struct {
		name string
		req  domain.BuyerRequirement
		want []string
	}{
		{"empty", domain.BuyerRequirement{}, []string{}},
		{"location only", domain.BuyerRequirement{Emirate: "Dubai"}, []string{"emirate"}},
		{
			"full",
			domain.BuyerRequirement{
				Emirate: "Dubai", Purpose: "Rent", Bedrooms: "2", Bathrooms: "2",
				MinSizeSqft: "800", MinBudget: "50000", MaxBudget: "100000",
			},
			[]string{"emirate", "purpose", "bedrooms", "bathrooms", "size", "budget"},
		},
		{"one budget bound", domain.BuyerRequirement{Purpose: "Buy", MinBudget: "1"}, []string{"purpose"}},
		{"budget without buy or rent", domain.BuyerRequirement{MinBudget: "1", MaxBudget: "2"}, []string{}},
		{"whitespace is blank", domain.BuyerRequirement{Emirate: "  ", Bedrooms: " "}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewPlan(tt.req).Active())
		})
	}
}

func TestPlan_PushdownBindsValues(t *testing.T) {
	p := NewPlan(domain.BuyerRequirement{Emirate: "Dubai' OR '1'='1", Purpose: "Buy"})

	where, args, limit := p.Pushdown()

	assert.Equal(t, "emirate = ? AND (purpose = ? OR purpose = ?)", where)
	assert.Equal(t, []any{"Dubai' OR '1'='1", PurposeSale, PurposeBoth}, args)
	assert.Equal(t, MaxResults, limit)
}

func TestPlan_PushdownWithoutLimitWhenGoFilteringRemains(t *testing.T) {
	p := NewPlan(domain.BuyerRequirement{Emirate: "Dubai", Bedrooms: "2"})

	where, args, limit := p.Pushdown()

	assert.Equal(t, "emirate = ?", where)
	assert.Equal(t, []any{"Dubai"}, args)
	assert.Zero(t, limit)
}

func TestPlan_PushdownEmpty(t *testing.T) {
	where, args, limit := NewPlan(domain.BuyerRequirement{}).Pushdown()

	assert.Empty(t, where)
	assert.Empty(t, args)
	assert.Equal(t, MaxResults, limit)
}

func TestListingPurpose(t *testing.T) {
	assert.Equal(t, PurposeSale, ListingPurpose("Buy"))
	assert.Equal(t, PurposeRent, ListingPurpose("Rent"))
	assert.Equal(t, "Lease", ListingPurpose("Lease"))
}
