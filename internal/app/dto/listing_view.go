package dto

import (
	"time"

	"gharbazaar/internal/domain/listing"
	"gharbazaar/internal/geo"
)

// ListingView is the outward shape of a listing.
type ListingView struct {
	ID           string          `json:"id"`
	OwnerID      string          `json:"owner_id"`
	ListingType  string          `json:"listing_type"`
	PropertyType string          `json:"property_type,omitempty"`
	Category     string          `json:"property_category,omitempty"`
	Status       string          `json:"status"`
	Title        string          `json:"title,omitempty"`
	Description  string          `json:"description,omitempty"`
	Details      any             `json:"details,omitempty"`
	Pricing      PricingView     `json:"pricing"`
	Location     LocationView    `json:"location"`
	Contact      *ContactView    `json:"contact,omitempty"`
	Photos       []PhotoView     `json:"photos,omitempty"`
	PrimaryPhoto string          `json:"primary_photo,omitempty"`
	Amenities    []string        `json:"amenities,omitempty"`
	Preferences  []string        `json:"preferences,omitempty"`
	Score        int             `json:"listing_score"`
	Grade        string          `json:"listing_grade"`
	IsPremium    bool            `json:"is_premium"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

type PricingView struct {
	RentAmount  int64 `json:"rent_amount,omitempty"`
	SaleAmount  int64 `json:"sale_amount,omitempty"`
	Deposit     int64 `json:"deposit,omitempty"`
	Maintenance int64 `json:"maintenance,omitempty"`
}

type LocationView struct {
	City        string   `json:"city,omitempty"`
	Locality    string   `json:"locality,omitempty"`
	Society     string   `json:"society,omitempty"`
	Landmark    string   `json:"landmark,omitempty"`
	Lat         *float64 `json:"lat,omitempty"`
	Lng         *float64 `json:"lng,omitempty"`
}

type ContactView struct {
	Phone string `json:"phone,omitempty"`
}

type PhotoView struct {
	URL        string `json:"url"`
	StorageKey string `json:"storage_key"`
	IsPrimary  bool   `json:"is_primary"`
}

// Pagination is 1-based.
type Pagination struct {
	Page       int   `json:"page"`
	TotalPages int   `json:"total_pages"`
	TotalCount int64 `json:"total_count"`
}

// ResolvedLocation echoes what the geocoding step settled on, for UI display
// ("showing results near ...").
type ResolvedLocation struct {
	DisplayName string  `json:"display_name,omitempty"`
	City        string  `json:"city,omitempty"`
	State       string  `json:"state,omitempty"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	RadiusKm    float64 `json:"radius_km,omitempty"`
}

type SearchResponse struct {
	Results          []ListingView     `json:"results"`
	Pagination       Pagination        `json:"pagination"`
	ResolvedLocation *ResolvedLocation `json:"resolved_location,omitempty"`
}

type ScoreResult struct {
	Score int    `json:"score"`
	Grade string `json:"grade"`
}

// MapListing converts an entity for public consumption. The phone is
// withheld when the owner opted out of showing it.
func MapListing(l *listing.Listing) ListingView {
	view := ListingView{
		ID:           string(l.ID),
		OwnerID:      string(l.Owner),
		ListingType:  string(l.Type),
		PropertyType: string(l.PropertyType),
		Category:     l.Category,
		Status:       string(l.Status),
		Title:        l.Title,
		Description:  l.Description,
		Details:      detailsView(l.Details),
		Pricing: PricingView{
			RentAmount:  l.Pricing.RentAmount,
			SaleAmount:  l.Pricing.SaleAmount,
			Deposit:     l.Pricing.Deposit,
			Maintenance: l.Pricing.Maintenance,
		},
		Location: LocationView{
			City:     l.Location.City,
			Locality: l.Location.Locality,
			Society:  l.Location.Society,
			Landmark: l.Location.Landmark,
		},
		Amenities:   l.Amenities,
		Preferences: l.Preferences,
		Score:       l.Score,
		Grade:       string(l.Grade),
		IsPremium:   l.IsPremium,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
	if l.Location.Coordinates != nil {
		lat, lng := l.Location.Coordinates.Lat, l.Location.Coordinates.Lng
		view.Location.Lat, view.Location.Lng = &lat, &lng
	}
	if !l.Contact.HidePhone && l.Contact.Phone != "" {
		view.Contact = &ContactView{Phone: l.Contact.Phone}
	}
	for _, p := range l.Photos {
		view.Photos = append(view.Photos, PhotoView{URL: p.URL, StorageKey: p.StorageKey, IsPrimary: p.IsPrimary})
	}
	if primary := l.PrimaryPhoto(); primary != nil {
		view.PrimaryPhoto = primary.URL
	}
	return view
}

type ResidentialDetailsView struct {
	BHKType          string  `json:"bhk_type,omitempty"`
	Bathrooms        int     `json:"bathrooms,omitempty"`
	Balconies        int     `json:"balconies,omitempty"`
	FurnishType      string  `json:"furnish_type,omitempty"`
	TenantPreference string  `json:"tenant_preference,omitempty"`
	BuiltUpAreaSqft  float64 `json:"builtup_area_sqft,omitempty"`
	Floor            int     `json:"floor,omitempty"`
	TotalFloors      int     `json:"total_floors,omitempty"`
}

type PlotDetailsView struct {
	PlotArea   float64 `json:"plot_area,omitempty"`
	PlotLength float64 `json:"plot_length,omitempty"`
	PlotWidth  float64 `json:"plot_width,omitempty"`
}

type CommercialDetailsView struct {
	ConstructionStatus string           `json:"construction_status,omitempty"`
	FurnishType        string           `json:"furnish_type,omitempty"`
	BuiltUpAreaSqft    float64          `json:"builtup_area_sqft,omitempty"`
	Plot               *PlotDetailsView `json:"plot_details,omitempty"`
}

type PGDetailsView struct {
	PGName          string `json:"pg_name,omitempty"`
	PGFor           string `json:"pg_for,omitempty"`
	RoomSharingType string `json:"room_sharing_type,omitempty"`
	FurnishType     string `json:"furnish_type,omitempty"`
	MealsIncluded   bool   `json:"meals_included,omitempty"`
}

type CoLivingDetailsView struct {
	Name            string `json:"name,omitempty"`
	Gender          string `json:"gender,omitempty"`
	Occupation      string `json:"occupation,omitempty"`
	RoomSharingType string `json:"room_sharing_type,omitempty"`
}

func detailsView(d listing.Details) any {
	switch v := d.(type) {
	case *listing.ResidentialDetails:
		return &ResidentialDetailsView{
			BHKType:          v.BHKType,
			Bathrooms:        v.Bathrooms,
			Balconies:        v.Balconies,
			FurnishType:      v.FurnishType,
			TenantPreference: v.TenantPreference,
			BuiltUpAreaSqft:  v.BuiltUpAreaSqft,
			Floor:            v.Floor,
			TotalFloors:      v.TotalFloors,
		}
	case *listing.CommercialDetails:
		view := &CommercialDetailsView{
			ConstructionStatus: v.ConstructionStatus,
			FurnishType:        v.FurnishType,
			BuiltUpAreaSqft:    v.BuiltUpAreaSqft,
		}
		if v.Plot != nil {
			view.Plot = &PlotDetailsView{PlotArea: v.Plot.PlotArea, PlotLength: v.Plot.PlotLength, PlotWidth: v.Plot.PlotWidth}
		}
		return view
	case *listing.PGDetails:
		return &PGDetailsView{
			PGName:          v.PGName,
			PGFor:           v.PGFor,
			RoomSharingType: v.RoomSharingType,
			FurnishType:     v.FurnishType,
			MealsIncluded:   v.MealsIncluded,
		}
	case *listing.CoLivingDetails:
		return &CoLivingDetailsView{
			Name:            v.Name,
			Gender:          v.Gender,
			Occupation:      v.Occupation,
			RoomSharingType: v.RoomSharingType,
		}
	default:
		return nil
	}
}

// MapSearch assembles a result page.
func MapSearch(result listing.SearchResult, page, limit int, resolution geo.Resolution, radiusKm float64) SearchResponse {
	views := make([]ListingView, 0, len(result.Items))
	for _, item := range result.Items {
		views = append(views, MapListing(item))
	}
	totalPages := 0
	if limit > 0 {
		totalPages = int((result.Total + int64(limit) - 1) / int64(limit))
	}
	resp := SearchResponse{
		Results: views,
		Pagination: Pagination{
			Page:       page,
			TotalPages: totalPages,
			TotalCount: result.Total,
		},
	}
	switch resolution.Kind {
	case geo.ResolvedPlace:
		resp.ResolvedLocation = &ResolvedLocation{
			DisplayName: resolution.Place.DisplayName,
			City:        resolution.Place.City,
			State:       resolution.Place.State,
			Lat:         resolution.Center.Lat,
			Lng:         resolution.Center.Lng,
			RadiusKm:    radiusKm,
		}
	case geo.ResolvedDirect:
		resp.ResolvedLocation = &ResolvedLocation{
			Lat:      resolution.Center.Lat,
			Lng:      resolution.Center.Lng,
			RadiusKm: radiusKm,
		}
	}
	return resp
}
