package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gharbazaar/internal/domain/listing"
	"gharbazaar/internal/infra/storage/memory"
)

type seedOptions struct {
	id        string
	typ       listing.Type
	details   listing.Details
	rent      int64
	sale      int64
	city      string
	locality  string
	lat, lng  float64
	amenities []string
	photos    int
	createdAt time.Time
	premium   *listing.Premium
}

func seed(t *testing.T, repo *memory.ListingRepository, opts seedOptions) *listing.Listing {
	t.Helper()
	if opts.typ == "" {
		opts.typ = listing.TypeRent
	}
	if opts.details == nil {
		opts.details = &listing.ResidentialDetails{BHKType: "2BHK", Bathrooms: 2, FurnishType: "SEMI_FURNISHED", BuiltUpAreaSqft: 900}
	}
	if opts.city == "" {
		opts.city = "Agra"
	}
	if opts.locality == "" {
		opts.locality = "Kamla Nagar"
	}
	if opts.photos == 0 {
		opts.photos = 1
	}
	if opts.rent == 0 && opts.sale == 0 {
		opts.rent = 15000
	}
	now := opts.createdAt
	if now.IsZero() {
		now = time.Now()
	}

	location := listing.Location{City: opts.city, Locality: opts.locality}
	if opts.lat != 0 || opts.lng != 0 {
		location.Coordinates = &listing.Coordinates{Lat: opts.lat, Lng: opts.lng}
	}

	l, err := listing.New(listing.CreateParams{
		ID:        listing.ID(opts.id),
		Owner:     "owner-1",
		Type:      opts.typ,
		Category:  "apartment",
		Title:     "listing " + opts.id,
		Details:   opts.details,
		Pricing:   listing.Pricing{RentAmount: opts.rent, SaleAmount: opts.sale},
		Location:  location,
		Contact:   listing.Contact{Phone: "+919876543210"},
		Amenities: opts.amenities,
		Now:       now,
	})
	require.NoError(t, err)
	for i := 0; i < opts.photos; i++ {
		l.AddPhoto("https://cdn.example.com/x.jpg", opts.id+"-p", now)
	}
	require.NoError(t, l.Publish(now))
	l.CreatedAt = now
	if opts.premium != nil {
		require.NoError(t, l.GrantPremium(opts.premium.PlanName, opts.premium.StartDate, opts.premium.EndDate, opts.premium.BoostRank))
	}
	require.NoError(t, repo.Save(context.Background(), l))
	return l
}

func ids(result listing.SearchResult) []string {
	out := make([]string, 0, len(result.Items))
	for _, l := range result.Items {
		out = append(out, string(l.ID))
	}
	return out
}

func TestSearch_BudgetFilterTargetsRentForRentListings(t *testing.T) {
	repo := memory.NewListingRepository()
	seed(t, repo, seedOptions{id: "cheap", rent: 8000})
	seed(t, repo, seedOptions{id: "mid", rent: 15000})
	seed(t, repo, seedOptions{id: "pricey", rent: 40000})
	// A sale listing whose sale amount falls in range must not leak into a
	// rent-scoped search.
	seed(t, repo, seedOptions{id: "sale", typ: listing.TypeSell, sale: 15000, rent: 0})

	result, err := repo.Search(context.Background(), listing.Query{
		Type:       listing.TypeRent,
		PublicOnly: true,
		MinBudget:  10000,
		MaxBudget:  20000,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"mid"}, ids(result))
}

func TestSearch_UnscopedBudgetMatchesEitherAmount(t *testing.T) {
	repo := memory.NewListingRepository()
	seed(t, repo, seedOptions{id: "rental", rent: 15000})
	seed(t, repo, seedOptions{id: "sale", typ: listing.TypeSell, sale: 15000, rent: 0})
	seed(t, repo, seedOptions{id: "outside", rent: 90000})

	result, err := repo.Search(context.Background(), listing.Query{
		PublicOnly: true,
		MinBudget:  10000,
		MaxBudget:  20000,
		Sort:       listing.SortPriceLow,
	})
	require.NoError(t, err)
	assert.Len(t, result.Items, 2)
	assert.Equal(t, int64(2), result.Total)
}

func TestSearch_PublicOnlyFloorExcludesNonActiveAndDeleted(t *testing.T) {
	repo := memory.NewListingRepository()
	active := seed(t, repo, seedOptions{id: "active"})
	blocked := seed(t, repo, seedOptions{id: "blocked"})
	require.NoError(t, blocked.Block(time.Now()))
	require.NoError(t, repo.Save(context.Background(), blocked))
	deleted := seed(t, repo, seedOptions{id: "deleted"})
	deleted.SoftDelete(time.Now(), "owner-1")
	require.NoError(t, repo.Save(context.Background(), deleted))

	result, err := repo.Search(context.Background(), listing.Query{PublicOnly: true})
	require.NoError(t, err)
	assert.Equal(t, []string{string(active.ID)}, ids(result))

	// Even an explicit status list cannot resurface drafts or deleted rows
	// on the public surface.
	result, err = repo.Search(context.Background(), listing.Query{
		PublicOnly: true,
		Statuses:   []listing.Status{listing.StatusBlocked},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{string(active.ID)}, ids(result))
}

func TestSearch_SoftDeletedNeverSurface(t *testing.T) {
	repo := memory.NewListingRepository()
	l := seed(t, repo, seedOptions{id: "gone"})
	l.SoftDelete(time.Now(), "owner-1")
	require.NoError(t, repo.Save(context.Background(), l))

	result, err := repo.Search(context.Background(), listing.Query{Owner: "owner-1"})
	require.NoError(t, err)
	assert.Empty(t, result.Items)
}

func TestSearch_PremiumTiebreakPrefix(t *testing.T) {
	repo := memory.NewListingRepository()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	window := &listing.Premium{PlanName: "spotlight", StartDate: base, EndDate: base.AddDate(0, 1, 0)}

	seed(t, repo, seedOptions{id: "plain-new", createdAt: base.Add(48 * time.Hour)})
	seed(t, repo, seedOptions{id: "plain-old", createdAt: base})
	lowBoost := *window
	lowBoost.BoostRank = 1
	seed(t, repo, seedOptions{id: "premium-low", createdAt: base, premium: &lowBoost})
	highBoost := *window
	highBoost.BoostRank = 9
	seed(t, repo, seedOptions{id: "premium-high", createdAt: base.Add(-time.Hour), premium: &highBoost})

	result, err := repo.Search(context.Background(), listing.Query{PublicOnly: true, Sort: listing.SortNewest})
	require.NoError(t, err)
	assert.Equal(t, []string{"premium-high", "premium-low", "plain-new", "plain-old"}, ids(result))
}

func TestSearch_LocationBoundsFilter(t *testing.T) {
	repo := memory.NewListingRepository()
	seed(t, repo, seedOptions{id: "inside", lat: 27.18, lng: 78.02})
	seed(t, repo, seedOptions{id: "outside", lat: 28.61, lng: 77.21})
	seed(t, repo, seedOptions{id: "no-coords"})

	result, err := repo.Search(context.Background(), listing.Query{
		PublicOnly: true,
		Bounds:     &listing.Bounds{MinLat: 27.0, MaxLat: 27.3, MinLng: 77.9, MaxLng: 78.2},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"inside"}, ids(result))
}

func TestSearch_TextFallbackMatchesCityOrLocality(t *testing.T) {
	repo := memory.NewListingRepository()
	seed(t, repo, seedOptions{id: "by-city", city: "Agra", locality: "Sikandra"})
	seed(t, repo, seedOptions{id: "by-locality", city: "Mathura", locality: "Kamla Nagar"})
	seed(t, repo, seedOptions{id: "neither", city: "Delhi", locality: "Saket"})

	result, err := repo.Search(context.Background(), listing.Query{
		PublicOnly:   true,
		CityText:     "agra",
		LocalityText: "kamla",
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"by-city", "by-locality"}, ids(result))
}

func TestSearch_AmenitiesRequireAll(t *testing.T) {
	repo := memory.NewListingRepository()
	seed(t, repo, seedOptions{id: "both", amenities: []string{"Lift", "Parking", "Gym"}})
	seed(t, repo, seedOptions{id: "one", amenities: []string{"lift"}})

	result, err := repo.Search(context.Background(), listing.Query{
		PublicOnly: true,
		Amenities:  []string{"lift", "parking"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"both"}, ids(result))
}

func TestSearch_AreaFilterUsesClassifiedDetailField(t *testing.T) {
	repo := memory.NewListingRepository()
	seed(t, repo, seedOptions{id: "small", details: &listing.ResidentialDetails{BHKType: "1BHK", Bathrooms: 1, BuiltUpAreaSqft: 450}})
	seed(t, repo, seedOptions{id: "large", details: &listing.ResidentialDetails{BHKType: "3BHK", Bathrooms: 3, BuiltUpAreaSqft: 1600}})

	result, err := repo.Search(context.Background(), listing.Query{
		Type:         listing.TypeRent,
		PropertyType: listing.PropertyResidential,
		PublicOnly:   true,
		MinArea:      1000,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"large"}, ids(result))
}

func TestSearch_HotDealsRequirePremium(t *testing.T) {
	repo := memory.NewListingRepository()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	seed(t, repo, seedOptions{id: "plain"})
	seed(t, repo, seedOptions{id: "deal", premium: &listing.Premium{
		PlanName: "boost", StartDate: base, EndDate: base.AddDate(1, 0, 0), BoostRank: 1,
	}})

	result, err := repo.Search(context.Background(), listing.Query{PublicOnly: true, HotDeals: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"deal"}, ids(result))
}

func TestSearch_DistanceSortOrdersByProximity(t *testing.T) {
	repo := memory.NewListingRepository()
	seed(t, repo, seedOptions{id: "near", lat: 27.19, lng: 78.02})
	seed(t, repo, seedOptions{id: "far", lat: 27.28, lng: 78.15})
	seed(t, repo, seedOptions{id: "nearest", lat: 27.18, lng: 78.02})

	center := &listing.Coordinates{Lat: 27.18, Lng: 78.02}
	result, err := repo.Search(context.Background(), listing.Query{
		PublicOnly: true,
		Bounds:     &listing.Bounds{MinLat: 27.0, MaxLat: 27.4, MinLng: 77.9, MaxLng: 78.3},
		Center:     center,
		Sort:       listing.SortDistance,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"nearest", "near", "far"}, ids(result))
}

func TestSearch_PriceSortAndPagination(t *testing.T) {
	repo := memory.NewListingRepository()
	seed(t, repo, seedOptions{id: "a", rent: 30000})
	seed(t, repo, seedOptions{id: "b", rent: 10000})
	seed(t, repo, seedOptions{id: "c", rent: 20000})

	result, err := repo.Search(context.Background(), listing.Query{
		Type:       listing.TypeRent,
		PublicOnly: true,
		Sort:       listing.SortPriceLow,
		Page:       1,
		Limit:      2,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c"}, ids(result))
	assert.Equal(t, int64(3), result.Total)

	result, err = repo.Search(context.Background(), listing.Query{
		Type:       listing.TypeRent,
		PublicOnly: true,
		Sort:       listing.SortPriceLow,
		Page:       2,
		Limit:      2,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, ids(result))

	// Past the last page is empty, not an error.
	result, err = repo.Search(context.Background(), listing.Query{
		Type:       listing.TypeRent,
		PublicOnly: true,
		Page:       9,
		Limit:      2,
	})
	require.NoError(t, err)
	assert.Empty(t, result.Items)
	assert.Equal(t, int64(3), result.Total)
}

func TestByID_NotFound(t *testing.T) {
	repo := memory.NewListingRepository()
	_, err := repo.ByID(context.Background(), "missing")
	assert.ErrorIs(t, err, listing.ErrNotFound)
}

func TestExpirePremium_ClearsLapsedWindows(t *testing.T) {
	repo := memory.NewListingRepository()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	lapsed := seed(t, repo, seedOptions{id: "lapsed", premium: &listing.Premium{
		PlanName: "boost", StartDate: base, EndDate: base.AddDate(0, 0, 7), BoostRank: 2,
	}})
	current := seed(t, repo, seedOptions{id: "current", premium: &listing.Premium{
		PlanName: "boost", StartDate: base, EndDate: base.AddDate(1, 0, 0), BoostRank: 2,
	}})

	cleared, err := repo.ExpirePremium(context.Background(), base.AddDate(0, 0, 30))
	require.NoError(t, err)
	assert.Equal(t, int64(1), cleared)
	assert.False(t, lapsed.IsPremium)
	assert.Nil(t, lapsed.Premium)
	assert.True(t, current.IsPremium)
}
