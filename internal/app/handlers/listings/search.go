package listings

import (
	"context"

	"gharbazaar/internal/app/dto"
	"gharbazaar/internal/domain/listing"
	"gharbazaar/internal/geo"
)

// SearchQuery is the flat parameter set of one public search request.
type SearchQuery struct {
	ListingType  string
	PropertyType string
	Category     string

	Lat      *float64
	Lng      *float64
	RadiusKm float64
	City     string
	Locality string

	MinBudget int64
	MaxBudget int64
	MinArea   float64
	MaxArea   float64

	BHKTypes         []string
	FurnishTypes     []string
	TenantPrefs      []string
	RoomSharingTypes []string
	PGFor            []string
	Amenities        []string

	WithImages bool
	HotDeals   bool

	Sort  string
	Page  int
	Limit int
}

// SearchHandler resolves the location input, compiles the store query and
// executes it. A search never fails for anything short of a store error:
// geocoding trouble degrades to text matching, bad pagination is normalized.
type SearchHandler struct {
	Repo     listing.Repository
	Resolver *geo.Resolver
}

func (h *SearchHandler) Handle(ctx context.Context, q SearchQuery) (dto.SearchResponse, error) {
	resolution := h.Resolver.Resolve(ctx, geo.Input{
		Lat:      q.Lat,
		Lng:      q.Lng,
		RadiusKm: q.RadiusKm,
		City:     q.City,
		Locality: q.Locality,
	})

	query := listing.Query{
		Type:             listing.Type(q.ListingType),
		PropertyType:     listing.PropertyType(q.PropertyType),
		Category:         q.Category,
		PublicOnly:       true,
		MinBudget:        q.MinBudget,
		MaxBudget:        q.MaxBudget,
		MinArea:          q.MinArea,
		MaxArea:          q.MaxArea,
		BHKTypes:         q.BHKTypes,
		FurnishTypes:     q.FurnishTypes,
		TenantPrefs:      q.TenantPrefs,
		RoomSharingTypes: q.RoomSharingTypes,
		PGFor:            q.PGFor,
		Amenities:        q.Amenities,
		WithImages:       q.WithImages,
		HotDeals:         q.HotDeals,
		Sort:             listing.SortKey(q.Sort),
		Page:             q.Page,
		Limit:            q.Limit,
	}

	switch resolution.Kind {
	case geo.ResolvedDirect, geo.ResolvedPlace:
		box := resolution.Box
		query.Bounds = &listing.Bounds{
			MinLat: box.MinLat,
			MaxLat: box.MaxLat,
			MinLng: box.MinLng,
			MaxLng: box.MaxLng,
		}
		query.Center = &listing.Coordinates{Lat: resolution.Center.Lat, Lng: resolution.Center.Lng}
	case geo.TextFallback:
		query.CityText = q.City
		query.LocalityText = q.Locality
	}

	query = query.Normalized()
	result, err := h.Repo.Search(ctx, query)
	if err != nil {
		return dto.SearchResponse{}, err
	}

	radius := q.RadiusKm
	if radius <= 0 {
		radius = geo.DefaultRadiusKm
	}
	return dto.MapSearch(result, query.Page, query.Limit, resolution, radius), nil
}

// Get returns one publicly visible listing. Drafts, moderated listings and
// soft-deleted listings read as not found.
func (h *SearchHandler) Get(ctx context.Context, id string) (dto.ListingView, error) {
	l, err := h.Repo.ByID(ctx, listing.ID(id))
	if err != nil {
		return dto.ListingView{}, err
	}
	if l.IsDeleted || l.Status != listing.StatusActive {
		return dto.ListingView{}, listing.ErrNotFound
	}
	return dto.MapListing(l), nil
}
