package mongo

import (
	"time"

	"gharbazaar/internal/domain/listing"
)

// listingDocument is the persisted shape of a listing. The detail union is
// flattened into four optional sub-documents; exactly one is non-nil for a
// well-formed record.
type listingDocument struct {
	ID           string              `bson:"_id"`
	OwnerID      string              `bson:"owner_id"`
	ListingType  string              `bson:"listing_type"`
	PropertyType string              `bson:"property_type,omitempty"`
	Category     string              `bson:"property_category,omitempty"`
	Status       string              `bson:"status"`
	Title        string              `bson:"title,omitempty"`
	Description  string              `bson:"description,omitempty"`
	Residential  *residentialDoc     `bson:"residential_details,omitempty"`
	Commercial   *commercialDoc      `bson:"commercial_details,omitempty"`
	PG           *pgDoc              `bson:"pg_details,omitempty"`
	CoLiving     *coLivingDoc        `bson:"co_living_details,omitempty"`
	Pricing      pricingDoc          `bson:"pricing"`
	Location     locationDoc         `bson:"location"`
	Contact      contactDoc          `bson:"contact"`
	Photos       []photoDoc          `bson:"photos,omitempty"`
	Amenities    []string            `bson:"amenities,omitempty"`
	Preferences  []string            `bson:"preferences,omitempty"`
	Score        int                 `bson:"listing_score"`
	Grade        string              `bson:"listing_grade"`
	IsPremium    bool                `bson:"is_premium"`
	Premium      *premiumDoc         `bson:"premium,omitempty"`
	IsDeleted    bool                `bson:"is_deleted"`
	DeletedAt    int64               `bson:"deleted_at,omitempty"`
	DeletedBy    string              `bson:"deleted_by,omitempty"`
	Version      int64               `bson:"version"`
	CreatedAt    int64               `bson:"created_at"`
	UpdatedAt    int64               `bson:"updated_at"`
}

type residentialDoc struct {
	BHKType          string  `bson:"bhk_type,omitempty"`
	Bathrooms        int     `bson:"bathrooms,omitempty"`
	Balconies        int     `bson:"balconies,omitempty"`
	FurnishType      string  `bson:"furnish_type,omitempty"`
	TenantPreference string  `bson:"tenant_preference,omitempty"`
	BuiltUpAreaSqft  float64 `bson:"builtup_area_sqft,omitempty"`
	Floor            int     `bson:"floor,omitempty"`
	TotalFloors      int     `bson:"total_floors,omitempty"`
}

type commercialDoc struct {
	ConstructionStatus string   `bson:"construction_status,omitempty"`
	FurnishType        string   `bson:"furnish_type,omitempty"`
	BuiltUpAreaSqft    float64  `bson:"builtup_area_sqft,omitempty"`
	Plot               *plotDoc `bson:"plot,omitempty"`
}

type plotDoc struct {
	PlotArea   float64 `bson:"plot_area,omitempty"`
	PlotLength float64 `bson:"plot_length,omitempty"`
	PlotWidth  float64 `bson:"plot_width,omitempty"`
}

type pgDoc struct {
	PGName          string `bson:"pg_name,omitempty"`
	PGFor           string `bson:"pg_for,omitempty"`
	RoomSharingType string `bson:"room_sharing_type,omitempty"`
	FurnishType     string `bson:"furnish_type,omitempty"`
	MealsIncluded   bool   `bson:"meals_included,omitempty"`
}

type coLivingDoc struct {
	Name            string `bson:"name,omitempty"`
	Gender          string `bson:"gender,omitempty"`
	Occupation      string `bson:"occupation,omitempty"`
	RoomSharingType string `bson:"room_sharing_type,omitempty"`
}

type pricingDoc struct {
	RentAmount  int64 `bson:"rent_amount,omitempty"`
	SaleAmount  int64 `bson:"sale_amount,omitempty"`
	Deposit     int64 `bson:"deposit,omitempty"`
	Maintenance int64 `bson:"maintenance,omitempty"`
}

type locationDoc struct {
	City        string          `bson:"city,omitempty"`
	Locality    string          `bson:"locality,omitempty"`
	Society     string          `bson:"society,omitempty"`
	Landmark    string          `bson:"landmark,omitempty"`
	Coordinates *coordinatesDoc `bson:"coordinates,omitempty"`
}

type coordinatesDoc struct {
	Lat float64 `bson:"lat"`
	Lng float64 `bson:"lng"`
}

type contactDoc struct {
	Phone     string `bson:"phone,omitempty"`
	HidePhone bool   `bson:"hide_phone,omitempty"`
}

type photoDoc struct {
	URL        string `bson:"url"`
	StorageKey string `bson:"storage_key"`
	IsPrimary  bool   `bson:"is_primary,omitempty"`
}

type premiumDoc struct {
	StartDate int64  `bson:"start_date"`
	EndDate   int64  `bson:"end_date"`
	PlanName  string `bson:"plan_name,omitempty"`
	BoostRank int    `bson:"boost_rank,omitempty"`
}

func newListingDocument(l *listing.Listing) listingDocument {
	doc := listingDocument{
		ID:           string(l.ID),
		OwnerID:      string(l.Owner),
		ListingType:  string(l.Type),
		PropertyType: string(l.PropertyType),
		Category:     l.Category,
		Status:       string(l.Status),
		Title:        l.Title,
		Description:  l.Description,
		Pricing: pricingDoc{
			RentAmount:  l.Pricing.RentAmount,
			SaleAmount:  l.Pricing.SaleAmount,
			Deposit:     l.Pricing.Deposit,
			Maintenance: l.Pricing.Maintenance,
		},
		Location: locationDoc{
			City:     l.Location.City,
			Locality: l.Location.Locality,
			Society:  l.Location.Society,
			Landmark: l.Location.Landmark,
		},
		Contact:     contactDoc{Phone: l.Contact.Phone, HidePhone: l.Contact.HidePhone},
		Amenities:   l.Amenities,
		Preferences: l.Preferences,
		Score:       l.Score,
		Grade:       string(l.Grade),
		IsPremium:   l.IsPremium,
		IsDeleted:   l.IsDeleted,
		DeletedBy:   l.DeletedBy,
		Version:     l.Version,
		CreatedAt:   l.CreatedAt.UnixMilli(),
		UpdatedAt:   l.UpdatedAt.UnixMilli(),
	}
	if l.Location.Coordinates != nil {
		doc.Location.Coordinates = &coordinatesDoc{Lat: l.Location.Coordinates.Lat, Lng: l.Location.Coordinates.Lng}
	}
	if !l.DeletedAt.IsZero() {
		doc.DeletedAt = l.DeletedAt.UnixMilli()
	}
	if l.Premium != nil {
		doc.Premium = &premiumDoc{
			StartDate: l.Premium.StartDate.UnixMilli(),
			EndDate:   l.Premium.EndDate.UnixMilli(),
			PlanName:  l.Premium.PlanName,
			BoostRank: l.Premium.BoostRank,
		}
	}
	for _, p := range l.Photos {
		doc.Photos = append(doc.Photos, photoDoc{URL: p.URL, StorageKey: p.StorageKey, IsPrimary: p.IsPrimary})
	}
	switch d := l.Details.(type) {
	case *listing.ResidentialDetails:
		doc.Residential = &residentialDoc{
			BHKType:          d.BHKType,
			Bathrooms:        d.Bathrooms,
			Balconies:        d.Balconies,
			FurnishType:      d.FurnishType,
			TenantPreference: d.TenantPreference,
			BuiltUpAreaSqft:  d.BuiltUpAreaSqft,
			Floor:            d.Floor,
			TotalFloors:      d.TotalFloors,
		}
	case *listing.CommercialDetails:
		doc.Commercial = &commercialDoc{
			ConstructionStatus: d.ConstructionStatus,
			FurnishType:        d.FurnishType,
			BuiltUpAreaSqft:    d.BuiltUpAreaSqft,
		}
		if d.Plot != nil {
			doc.Commercial.Plot = &plotDoc{PlotArea: d.Plot.PlotArea, PlotLength: d.Plot.PlotLength, PlotWidth: d.Plot.PlotWidth}
		}
	case *listing.PGDetails:
		doc.PG = &pgDoc{
			PGName:          d.PGName,
			PGFor:           d.PGFor,
			RoomSharingType: d.RoomSharingType,
			FurnishType:     d.FurnishType,
			MealsIncluded:   d.MealsIncluded,
		}
	case *listing.CoLivingDetails:
		doc.CoLiving = &coLivingDoc{
			Name:            d.Name,
			Gender:          d.Gender,
			Occupation:      d.Occupation,
			RoomSharingType: d.RoomSharingType,
		}
	}
	return doc
}

func (d listingDocument) toEntity() *listing.Listing {
	l := &listing.Listing{
		ID:           listing.ID(d.ID),
		Owner:        listing.OwnerID(d.OwnerID),
		Type:         listing.Type(d.ListingType),
		PropertyType: listing.PropertyType(d.PropertyType),
		Category:     d.Category,
		Status:       listing.Status(d.Status),
		Title:        d.Title,
		Description:  d.Description,
		Pricing: listing.Pricing{
			RentAmount:  d.Pricing.RentAmount,
			SaleAmount:  d.Pricing.SaleAmount,
			Deposit:     d.Pricing.Deposit,
			Maintenance: d.Pricing.Maintenance,
		},
		Location: listing.Location{
			City:     d.Location.City,
			Locality: d.Location.Locality,
			Society:  d.Location.Society,
			Landmark: d.Location.Landmark,
		},
		Contact:     listing.Contact{Phone: d.Contact.Phone, HidePhone: d.Contact.HidePhone},
		Amenities:   d.Amenities,
		Preferences: d.Preferences,
		Score:       d.Score,
		Grade:       listing.Grade(d.Grade),
		IsPremium:   d.IsPremium,
		IsDeleted:   d.IsDeleted,
		DeletedBy:   d.DeletedBy,
		Version:     d.Version,
		CreatedAt:   timestampToTime(d.CreatedAt),
		UpdatedAt:   timestampToTime(d.UpdatedAt),
	}
	if d.Location.Coordinates != nil {
		l.Location.Coordinates = &listing.Coordinates{Lat: d.Location.Coordinates.Lat, Lng: d.Location.Coordinates.Lng}
	}
	if d.DeletedAt != 0 {
		l.DeletedAt = timestampToTime(d.DeletedAt)
	}
	if d.Premium != nil {
		l.Premium = &listing.Premium{
			StartDate: timestampToTime(d.Premium.StartDate),
			EndDate:   timestampToTime(d.Premium.EndDate),
			PlanName:  d.Premium.PlanName,
			BoostRank: d.Premium.BoostRank,
		}
	}
	for _, p := range d.Photos {
		l.Photos = append(l.Photos, listing.Photo{URL: p.URL, StorageKey: p.StorageKey, IsPrimary: p.IsPrimary})
	}
	switch {
	case d.Residential != nil:
		l.Details = &listing.ResidentialDetails{
			BHKType:          d.Residential.BHKType,
			Bathrooms:        d.Residential.Bathrooms,
			Balconies:        d.Residential.Balconies,
			FurnishType:      d.Residential.FurnishType,
			TenantPreference: d.Residential.TenantPreference,
			BuiltUpAreaSqft:  d.Residential.BuiltUpAreaSqft,
			Floor:            d.Residential.Floor,
			TotalFloors:      d.Residential.TotalFloors,
		}
	case d.Commercial != nil:
		det := &listing.CommercialDetails{
			ConstructionStatus: d.Commercial.ConstructionStatus,
			FurnishType:        d.Commercial.FurnishType,
			BuiltUpAreaSqft:    d.Commercial.BuiltUpAreaSqft,
		}
		if d.Commercial.Plot != nil {
			det.Plot = &listing.PlotDetails{
				PlotArea:   d.Commercial.Plot.PlotArea,
				PlotLength: d.Commercial.Plot.PlotLength,
				PlotWidth:  d.Commercial.Plot.PlotWidth,
			}
		}
		l.Details = det
	case d.PG != nil:
		l.Details = &listing.PGDetails{
			PGName:          d.PG.PGName,
			PGFor:           d.PG.PGFor,
			RoomSharingType: d.PG.RoomSharingType,
			FurnishType:     d.PG.FurnishType,
			MealsIncluded:   d.PG.MealsIncluded,
		}
	case d.CoLiving != nil:
		l.Details = &listing.CoLivingDetails{
			Name:            d.CoLiving.Name,
			Gender:          d.CoLiving.Gender,
			Occupation:      d.CoLiving.Occupation,
			RoomSharingType: d.CoLiving.RoomSharingType,
		}
	}
	return l
}

func timestampToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
