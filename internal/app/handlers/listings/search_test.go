package listings_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	listingapp "gharbazaar/internal/app/handlers/listings"
	"gharbazaar/internal/domain/listing"
	"gharbazaar/internal/geo"
	"gharbazaar/internal/infra/storage/memory"
)

type fakeGeocoder struct {
	places []geo.Place
	err    error
}

func (f *fakeGeocoder) Search(context.Context, string, string, int) ([]geo.Place, error) {
	return f.places, f.err
}

func publishedListing(t *testing.T, repo *memory.ListingRepository, id string, lat, lng float64, city, locality string) *listing.Listing {
	t.Helper()
	l, err := listing.New(listing.CreateParams{
		ID:       listing.ID(id),
		Owner:    "owner-1",
		Type:     listing.TypeRent,
		Category: "apartment",
		Details:  &listing.ResidentialDetails{BHKType: "2BHK", Bathrooms: 2},
		Pricing:  listing.Pricing{RentAmount: 15000},
		Location: listing.Location{
			City:        city,
			Locality:    locality,
			Coordinates: &listing.Coordinates{Lat: lat, Lng: lng},
		},
		Contact: listing.Contact{Phone: "+919876543210"},
		Now:     time.Now(),
	})
	require.NoError(t, err)
	l.AddPhoto("https://cdn.example.com/1.jpg", id+"-p1", time.Now())
	require.NoError(t, l.Publish(time.Now()))
	require.NoError(t, repo.Save(context.Background(), l))
	return l
}

func TestSearchHandler_ResolvedPlaceConstrainsAndEchoes(t *testing.T) {
	repo := memory.NewListingRepository()
	publishedListing(t, repo, "in-agra", 27.18, 78.02, "Agra", "Kamla Nagar")
	publishedListing(t, repo, "in-delhi", 28.61, 77.21, "Delhi", "Saket")

	geocoder := &fakeGeocoder{places: []geo.Place{{
		DisplayName: "Agra, Uttar Pradesh, India",
		City:        "Agra",
		State:       "Uttar Pradesh",
		Lat:         27.18,
		Lng:         78.02,
	}}}
	handler := &listingapp.SearchHandler{Repo: repo, Resolver: geo.NewResolver(geocoder, nil)}

	resp, err := handler.Handle(context.Background(), listingapp.SearchQuery{City: "Agra"})
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "in-agra", resp.Results[0].ID)

	require.NotNil(t, resp.ResolvedLocation)
	assert.Equal(t, "Agra", resp.ResolvedLocation.City)
	assert.Equal(t, geo.DefaultRadiusKm, resp.ResolvedLocation.RadiusKm)
	assert.Equal(t, 1, resp.Pagination.Page)
	assert.Equal(t, int64(1), resp.Pagination.TotalCount)
}

func TestSearchHandler_GeocodeFailureDegradesToText(t *testing.T) {
	repo := memory.NewListingRepository()
	publishedListing(t, repo, "in-agra", 27.18, 78.02, "Agra", "Kamla Nagar")
	publishedListing(t, repo, "in-delhi", 28.61, 77.21, "Delhi", "Saket")

	geocoder := &fakeGeocoder{err: errors.New("nominatim down")}
	handler := &listingapp.SearchHandler{Repo: repo, Resolver: geo.NewResolver(geocoder, nil)}

	resp, err := handler.Handle(context.Background(), listingapp.SearchQuery{City: "Agra"})
	require.NoError(t, err, "a geocoding outage must not fail the search")
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "in-agra", resp.Results[0].ID)
	assert.Nil(t, resp.ResolvedLocation, "nothing resolved, nothing echoed")
}

func TestSearchHandler_DirectCoordinates(t *testing.T) {
	repo := memory.NewListingRepository()
	publishedListing(t, repo, "near", 27.19, 78.02, "Agra", "Kamla Nagar")
	publishedListing(t, repo, "far", 28.61, 77.21, "Delhi", "Saket")

	lat, lng := 27.18, 78.02
	handler := &listingapp.SearchHandler{Repo: repo, Resolver: geo.NewResolver(nil, nil)}

	resp, err := handler.Handle(context.Background(), listingapp.SearchQuery{
		Lat: &lat, Lng: &lng, RadiusKm: 10, Sort: "distance",
	})
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "near", resp.Results[0].ID)
	require.NotNil(t, resp.ResolvedLocation)
	assert.Equal(t, 10.0, resp.ResolvedLocation.RadiusKm)
}

func TestSearchHandler_NoLocationReturnsEverythingActive(t *testing.T) {
	repo := memory.NewListingRepository()
	publishedListing(t, repo, "a", 27.18, 78.02, "Agra", "Kamla Nagar")
	publishedListing(t, repo, "b", 28.61, 77.21, "Delhi", "Saket")

	handler := &listingapp.SearchHandler{Repo: repo, Resolver: geo.NewResolver(nil, nil)}
	resp, err := handler.Handle(context.Background(), listingapp.SearchQuery{})
	require.NoError(t, err)
	assert.Len(t, resp.Results, 2)
	assert.Nil(t, resp.ResolvedLocation)
}

func TestSearchHandler_GetHidesNonPublicListings(t *testing.T) {
	repo := memory.NewListingRepository()
	l := publishedListing(t, repo, "vis", 27.18, 78.02, "Agra", "Kamla Nagar")

	handler := &listingapp.SearchHandler{Repo: repo, Resolver: geo.NewResolver(nil, nil)}

	view, err := handler.Get(context.Background(), "vis")
	require.NoError(t, err)
	assert.Equal(t, "vis", view.ID)

	require.NoError(t, l.Block(time.Now()))
	require.NoError(t, repo.Save(context.Background(), l))
	_, err = handler.Get(context.Background(), "vis")
	assert.ErrorIs(t, err, listing.ErrNotFound)

	_, err = handler.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, listing.ErrNotFound)
}
