package pgstore

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leadhub-engine/internal/domain"
	"leadhub-engine/internal/match"
)

func TestNamedInsert(t *testing.T) {
	got := namedInsert("comments", []string{"comment", "created_by"})
	assert.Equal(t, "INSERT INTO comments (comment, created_by) VALUES (:comment, :created_by) RETURNING id", got)
}

func TestListingInsertCoversEveryColumn(t *testing.T) {
	for _, col := range domain.ListingColumns {
		assert.Contains(t, listingInsert, ":"+col)
	}
	assert.Contains(t, listingInsert, ":created_at")
}

func TestListingListQuery(t *testing.T) {
	query, args := listingListQuery(domain.ListingQuery{Search: "100%", SortBy: "name", Order: "asc"}.Normalize())

	assert.Contains(t, query, "property_code ILIKE ?")
	assert.Contains(t, query, "email ILIKE ?")
	assert.True(t, strings.HasSuffix(query, "ORDER BY agent_name ASC, id ASC"))
	require.Len(t, args, len(domain.ListingSearchColumns))
	assert.Equal(t, `%100\%%`, args[0])
}

func TestMatchQuery(t *testing.T) {
	query, args := matchQuery(match.NewPlan(domain.BuyerRequirement{Emirate: "Dubai", Purpose: "Rent"}))

	assert.Contains(t, query, "WHERE emirate = ? AND (purpose = ? OR purpose = ?)")
	assert.True(t, strings.HasSuffix(query, "LIMIT ?"))
	assert.Equal(t, []any{"Dubai", "Rent", "Both", match.MaxResults}, args)

	query, args = matchQuery(match.NewPlan(domain.BuyerRequirement{Bedrooms: "2"}))
	assert.NotContains(t, query, "WHERE")
	assert.NotContains(t, query, "LIMIT")
	assert.Empty(t, args)
}

// Runs against a real server only when LEADHUB_TEST_DATABASE_URL is set.
func TestStore_Postgres(t *testing.T) {
	dsn := os.Getenv("LEADHUB_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("LEADHUB_TEST_DATABASE_URL not set")
	}
	ctx := context.Background()

	s, err := Open(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.Migrate(ctx))

	l := domain.Listing{Email: "pg@example.com", Purpose: "Rent", Emirate: "Ajman", Bedrooms: "2", AskingRent: "40000"}
	require.NoError(t, s.InsertListing(ctx, &l))
	require.NotZero(t, l.ID)
	t.Cleanup(func() { _, _ = s.DeleteListings(ctx, []int64{l.ID}) })

	c := domain.Comment{PropertyListingID: &l.ID, Comment: "pg comment"}
	require.NoError(t, s.InsertComment(ctx, &c))

	got, err := s.ListComments(ctx, &l.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)

	matches, err := match.NewEngine(s, nil).Run(ctx, domain.BuyerRequirement{
		Emirate: "Ajman", Purpose: "Rent", MinBudget: "30000", MaxBudget: "50000",
	})
	require.NoError(t, err)
	var found bool
	for _, m := range matches {
		found = found || m.ID == l.ID
	}
	assert.True(t, found)

	n, err := s.DeleteListings(ctx, []int64{l.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err = s.ListComments(ctx, &l.ID)
	require.NoError(t, err)
	assert.Empty(t, got)
}
