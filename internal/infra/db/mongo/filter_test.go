package mongo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"gharbazaar/internal/domain/listing"
)

func TestCompileFilter_PublicFloor(t *testing.T) {
	filter := compileFilter(listing.Query{PublicOnly: true}.Normalized())
	assert.Equal(t, string(listing.StatusActive), filter["status"])
	assert.Equal(t, false, filter["is_deleted"])
}

func TestCompileFilter_PublicFloorIgnoresStatusList(t *testing.T) {
	filter := compileFilter(listing.Query{
		PublicOnly: true,
		Statuses:   []listing.Status{listing.StatusBlocked},
	}.Normalized())
	assert.Equal(t, string(listing.StatusActive), filter["status"])
}

func TestCompileFilter_StatusListWithoutPublicFloor(t *testing.T) {
	filter := compileFilter(listing.Query{
		Statuses: []listing.Status{listing.StatusDraft, listing.StatusActive},
	}.Normalized())
	assert.Equal(t, bson.M{"$in": []string{"DRAFT", "ACTIVE"}}, filter["status"])
	assert.Equal(t, false, filter["is_deleted"])
}

func TestCompileFilter_BudgetFieldPerType(t *testing.T) {
	rent := compileFilter(listing.Query{Type: listing.TypeRent, MinBudget: 10000, MaxBudget: 20000}.Normalized())
	assert.Equal(t, bson.M{"$gte": 10000.0, "$lte": 20000.0}, rent[fieldRentAmount])
	assert.NotContains(t, rent, fieldSaleAmount)

	sale := compileFilter(listing.Query{Type: listing.TypeSell, MaxBudget: 5000000}.Normalized())
	assert.Equal(t, bson.M{"$lte": 5000000.0}, sale[fieldSaleAmount])

	pg := compileFilter(listing.Query{Type: listing.TypePG, MinBudget: 5000}.Normalized())
	assert.Equal(t, bson.M{"$gte": 5000.0}, pg[fieldRentAmount])
}

func TestCompileFilter_UntypedBudgetBecomesOr(t *testing.T) {
	filter := compileFilter(listing.Query{MinBudget: 10000}.Normalized())
	or, ok := filter["$or"].([]bson.M)
	require.True(t, ok, "either-amount budget must compile to a single $or group")
	require.Len(t, or, 2)
	assert.Contains(t, or, bson.M{fieldRentAmount: bson.M{"$gte": 10000.0}})
	assert.Contains(t, or, bson.M{fieldSaleAmount: bson.M{"$gte": 10000.0}})
}

func TestCompileFilter_OrGroupsDoNotClobberEachOther(t *testing.T) {
	// Untyped budget and a cross-variant furnish facet each need their own
	// disjunction; both must survive under $and.
	filter := compileFilter(listing.Query{
		MinBudget:    10000,
		FurnishTypes: []string{"FURNISHED"},
	}.Normalized())
	assert.NotContains(t, filter, "$or")
	ands, ok := filter["$and"].([]bson.M)
	require.True(t, ok)
	require.Len(t, ands, 2)
	for _, clause := range ands {
		assert.Contains(t, clause, "$or")
	}
}

func TestCompileFilter_BoundsBecomeCoordinateRanges(t *testing.T) {
	filter := compileFilter(listing.Query{
		Bounds: &listing.Bounds{MinLat: 27.0, MaxLat: 27.3, MinLng: 77.9, MaxLng: 78.2},
	}.Normalized())
	assert.Equal(t, bson.M{"$gte": 27.0, "$lte": 27.3}, filter["location.coordinates.lat"])
	assert.Equal(t, bson.M{"$gte": 77.9, "$lte": 78.2}, filter["location.coordinates.lng"])
	assert.NotContains(t, filter, "location.city")
}

func TestCompileFilter_TextFallbackUsesEscapedRegex(t *testing.T) {
	filter := compileFilter(listing.Query{CityText: "Agra (Cantt)"}.Normalized())
	regex, ok := filter["location.city"].(primitive.Regex)
	require.True(t, ok)
	assert.Equal(t, "i", regex.Options)
	assert.Equal(t, `Agra \(Cantt\)`, regex.Pattern)
}

func TestCompileFilter_CityAndLocalityTextIsDisjunctive(t *testing.T) {
	filter := compileFilter(listing.Query{CityText: "Agra", LocalityText: "Kamla Nagar"}.Normalized())
	or, ok := filter["$or"].([]bson.M)
	require.True(t, ok)
	assert.Len(t, or, 2)
}

func TestCompileFilter_AreaTargetsClassifiedDetailPath(t *testing.T) {
	res := compileFilter(listing.Query{
		Type:         listing.TypeRent,
		PropertyType: listing.PropertyResidential,
		MinArea:      800,
	}.Normalized())
	assert.Equal(t, bson.M{"$gte": 800.0}, res[fieldResidentialArea])

	com := compileFilter(listing.Query{
		Type:         listing.TypeSell,
		PropertyType: listing.PropertyCommercial,
		MinArea:      800,
	}.Normalized())
	assert.Equal(t, bson.M{"$gte": 800.0}, com[fieldCommercialArea])

	// No classification, no area predicate.
	none := compileFilter(listing.Query{Type: listing.TypePG, MinArea: 800}.Normalized())
	assert.NotContains(t, none, fieldResidentialArea)
	assert.NotContains(t, none, fieldCommercialArea)
}

func TestCompileFilter_FacetsAndFlags(t *testing.T) {
	filter := compileFilter(listing.Query{
		BHKTypes:   []string{"2BHK", "3BHK"},
		PGFor:      []string{"MALE"},
		Amenities:  []string{"lift", "parking"},
		WithImages: true,
		HotDeals:   true,
	}.Normalized())
	assert.Equal(t, bson.M{"$in": []string{"2BHK", "3BHK"}}, filter["residential_details.bhk_type"])
	assert.Equal(t, bson.M{"$in": []string{"MALE"}}, filter["pg_details.pg_for"])
	assert.Equal(t, bson.M{"$all": []string{"lift", "parking"}}, filter["amenities"])
	assert.Equal(t, bson.M{"$exists": true}, filter["photos.0"])
	assert.Equal(t, true, filter["is_premium"])
}

func TestSortSpec_PremiumPrefixAlwaysLeads(t *testing.T) {
	for _, key := range []listing.SortKey{listing.SortNewest, listing.SortPriceLow, listing.SortScore, listing.SortOldest} {
		spec := sortSpec(listing.Query{Sort: key}.Normalized())
		require.GreaterOrEqual(t, len(spec), 4)
		assert.Equal(t, bson.E{Key: "is_premium", Value: -1}, spec[0])
		assert.Equal(t, bson.E{Key: "premium.boost_rank", Value: -1}, spec[1])
		assert.Equal(t, bson.E{Key: "_id", Value: 1}, spec[len(spec)-1])
	}
}

func TestSortSpec_PriceFieldFollowsType(t *testing.T) {
	spec := sortSpec(listing.Query{Type: listing.TypeSell, Sort: listing.SortPriceHigh}.Normalized())
	assert.Equal(t, bson.E{Key: fieldSaleAmount, Value: -1}, spec[2])

	spec = sortSpec(listing.Query{Type: listing.TypeRent, Sort: listing.SortPriceLow}.Normalized())
	assert.Equal(t, bson.E{Key: fieldRentAmount, Value: 1}, spec[2])
}

func TestListingDocument_RoundTripsTheDetailUnion(t *testing.T) {
	created := time.Date(2026, 2, 10, 8, 30, 0, 0, time.UTC)
	l, err := listing.New(listing.CreateParams{
		ID:       "l-doc-1",
		Owner:    "u-1",
		Type:     listing.TypeSell,
		Category: "shop",
		Title:    "Corner retail unit",
		Details: &listing.CommercialDetails{
			ConstructionStatus: "READY",
			BuiltUpAreaSqft:    1400,
			Plot:               &listing.PlotDetails{PlotArea: 1800, PlotLength: 60, PlotWidth: 30},
		},
		Pricing:  listing.Pricing{SaleAmount: 7500000},
		Location: listing.Location{City: "Agra", Locality: "Sadar Bazaar", Coordinates: &listing.Coordinates{Lat: 27.16, Lng: 78.01}},
		Contact:  listing.Contact{Phone: "+911234567890", HidePhone: true},
		Now:      created,
	})
	require.NoError(t, err)
	l.AddPhoto("https://cdn.example.com/shop.jpg", "shop-1", created)
	require.NoError(t, l.GrantPremium("spotlight", created, created.AddDate(0, 1, 0), 4))

	doc := newListingDocument(l)
	require.NotNil(t, doc.Commercial)
	assert.Nil(t, doc.Residential)
	assert.Nil(t, doc.PG)

	got := doc.toEntity()
	assert.Equal(t, l.ID, got.ID)
	assert.Equal(t, l.PropertyType, got.PropertyType)
	details, ok := got.Details.(*listing.CommercialDetails)
	require.True(t, ok)
	require.NotNil(t, details.Plot)
	assert.Equal(t, 1800.0, details.Plot.PlotArea)
	assert.Equal(t, created, got.CreatedAt)
	require.NotNil(t, got.Premium)
	assert.Equal(t, 4, got.Premium.BoostRank)
	assert.True(t, got.Contact.HidePhone)
	require.Len(t, got.Photos, 1)
	assert.True(t, got.Photos[0].IsPrimary)
}
