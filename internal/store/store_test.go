package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leadhub-engine/internal/domain"
	"leadhub-engine/internal/match"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "leadhub.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, Migrate(s.Pool))

	clock := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return s
}

func insertListing(t *testing.T, s *Store, l domain.Listing) domain.Listing {
	t.Helper()
	require.NoError(t, s.InsertListing(context.Background(), &l))
	return l
}

func TestMigrate_Idempotent(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, Migrate(s.Pool))

	var v int
	require.NoError(t, s.Pool.QueryRow(`PRAGMA user_version;`).Scan(&v))
	assert.Equal(t, schemaVersion, v)
}

func TestStore_InsertAndListListings(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := insertListing(t, s, domain.Listing{Email: "a@example.com", Emirate: "Dubai", Bedrooms: "2", SalePrice: "1,200,000"})
	b := insertListing(t, s, domain.Listing{Email: "b@example.com", Emirate: "Sharjah"})

	assert.NotZero(t, a.ID)
	assert.Greater(t, b.ID, a.ID)
	assert.False(t, a.CreatedAt.IsZero())

	got, err := s.ListListings(ctx, domain.ListingQuery{})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, b.ID, got[0].ID, "newest first by default")
	assert.Equal(t, domain.Text("1,200,000"), got[1].SalePrice)
	assert.Equal(t, a.CreatedAt, got[1].CreatedAt)
}

func TestStore_ListListings_SearchAndSort(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertListing(t, s, domain.Listing{Email: "z@example.com", PropertyCode: "DXB-100", AgentName: "Omar"})
	insertListing(t, s, domain.Listing{Email: "a@example.com", BuildingName: "Marina 50%", AgentName: "Lina"})
	insertListing(t, s, domain.Listing{Email: "m@example.com", AreaCommunity: "JVC", AgentName: "Adam"})

	got, err := s.ListListings(ctx, domain.ListingQuery{Search: "dxb"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, domain.Text("DXB-100"), got[0].PropertyCode)

	// LIKE wildcards in the search box are literal
	got, err = s.ListListings(ctx, domain.ListingQuery{Search: "50%"})
	require.NoError(t, err)
	require.Len(t, got, 1)

	got, err = s.ListListings(ctx, domain.ListingQuery{Search: "%"})
	require.NoError(t, err)
	require.Len(t, got, 1)

	got, err = s.ListListings(ctx, domain.ListingQuery{SortBy: "email", Order: "ASC"})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, domain.Text("a@example.com"), got[0].Email)
	assert.Equal(t, domain.Text("z@example.com"), got[2].Email)

	got, err = s.ListListings(ctx, domain.ListingQuery{SortBy: "name", Order: "asc"})
	require.NoError(t, err)
	assert.Equal(t, domain.Text("Adam"), got[0].AgentName)
}

func TestStore_DeleteListingsCascadesComments(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := insertListing(t, s, domain.Listing{Email: "a@example.com"})
	b := insertListing(t, s, domain.Listing{Email: "b@example.com"})

	require.NoError(t, s.InsertComment(ctx, &domain.Comment{PropertyListingID: &a.ID, Comment: "viewing booked"}))
	require.NoError(t, s.InsertComment(ctx, &domain.Comment{PropertyListingID: &b.ID, Comment: "keys with agent"}))

	n, err := s.DeleteListings(ctx, []int64{a.ID, 9999})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	all, err := s.ListComments(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "keys with agent", all[0].Comment)

	n, err = s.DeleteListings(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestStore_Comments(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	l := insertListing(t, s, domain.Listing{Email: "a@example.com"})

	first := domain.Comment{PropertyListingID: &l.ID, Comment: "first", CreatedBy: "admin"}
	require.NoError(t, s.InsertComment(ctx, &first))
	loose := domain.Comment{Comment: "general note"}
	require.NoError(t, s.InsertComment(ctx, &loose))
	second := domain.Comment{PropertyListingID: &l.ID, Comment: "second"}
	require.NoError(t, s.InsertComment(ctx, &second))

	got, err := s.ListComments(ctx, &l.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "second", got[0].Comment)
	assert.Equal(t, domain.Text("admin"), got[1].CreatedBy)
	require.NotNil(t, got[1].PropertyListingID)
	assert.Equal(t, l.ID, *got[1].PropertyListingID)

	all, err := s.ListComments(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Nil(t, all[1].PropertyListingID)

	missing := int64(9999)
	err = s.InsertComment(ctx, &domain.Comment{PropertyListingID: &missing, Comment: "orphan"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_Requirements(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	r1 := domain.BuyerRequirement{Name: "Sara", Email: "s@example.com", Status: domain.RequirementStatusNew}
	r2 := domain.BuyerRequirement{Name: "Ali", Email: "a@example.com", MoveInDate: "2025-09-01"}
	require.NoError(t, s.InsertRequirement(ctx, &r1))
	require.NoError(t, s.InsertRequirement(ctx, &r2))

	got, err := s.ListRequirements(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, domain.Text("Ali"), got[0].Name)
	assert.Equal(t, domain.Text("2025-09-01"), got[0].MoveInDate)
	assert.Equal(t, domain.Text("New"), got[1].Status)
	assert.Equal(t, got[1].CreatedAt, got[1].UpdatedAt)
}

func TestStore_MatchCandidatesWithEngine(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertListing(t, s, domain.Listing{Email: "1@x", Purpose: "Rent", Emirate: "Dubai", Bedrooms: "2", Bathrooms: "2", AskingRent: "85000"})
	insertListing(t, s, domain.Listing{Email: "2@x", Purpose: "Rent", Emirate: "Abu Dhabi", Bedrooms: "3", Bathrooms: "2", AskingRent: "90000"})
	want := insertListing(t, s, domain.Listing{Email: "3@x", Purpose: "Both", Emirate: "Dubai", Bedrooms: "3+", Bathrooms: "3", AskingRent: "AED 99,000"})
	insertListing(t, s, domain.Listing{Email: "4@x", Purpose: "Sale", Emirate: "Dubai", Bedrooms: "4", Bathrooms: "3", SalePrice: "90000"})

	engine := match.NewEngine(s, nil)
	got, err := engine.Run(ctx, domain.BuyerRequirement{
		Purpose: "Rent", Emirate: "Dubai", Bedrooms: "2", Bathrooms: "2",
		MinBudget: "50000", MaxBudget: "100000",
	})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, want.ID, got[0].ID)
	assert.Equal(t, domain.Text("1@x"), got[1].Email)
}

func TestStore_MatchCandidatesPushdownLimit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < match.MaxResults+5; i++ {
		insertListing(t, s, domain.Listing{Email: "x@example.com", Emirate: "Dubai"})
	}

	got, err := s.MatchCandidates(ctx, match.NewPlan(domain.BuyerRequirement{Emirate: "Dubai"}))
	require.NoError(t, err)
	assert.Len(t, got, match.MaxResults)

	got, err = s.MatchCandidates(ctx, match.NewPlan(domain.BuyerRequirement{Emirate: "Dubai", Bedrooms: "1"}))
	require.NoError(t, err)
	assert.Len(t, got, match.MaxResults+5)
}

func TestStore_PingAndMaintain(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	assert.NoError(t, s.Ping(ctx))
	assert.NoError(t, s.Maintain(ctx))
}
