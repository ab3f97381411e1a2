package mongo

import (
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"gharbazaar/internal/domain/listing"
)

// Pricing and area paths per the budget field table. Keeping these next to
// the compiler makes the type-to-field mapping auditable in one place; a
// wrong path here silently filters everything out.
const (
	fieldRentAmount      = "pricing.rent_amount"
	fieldSaleAmount      = "pricing.sale_amount"
	fieldResidentialArea = "residential_details.builtup_area_sqft"
	fieldCommercialArea  = "commercial_details.builtup_area_sqft"
)

// compileFilter translates a normalized query into the find predicate.
// Disjunctive clauses (text fallback, cross-variant facets, either-amount
// budget) are collected as separate $or groups and joined under $and so they
// never clobber each other.
func compileFilter(q listing.Query) bson.M {
	filter := bson.M{}
	var orGroups [][]bson.M

	if q.PublicOnly {
		filter["status"] = string(listing.StatusActive)
	} else if len(q.Statuses) > 0 {
		statuses := make([]string, 0, len(q.Statuses))
		for _, s := range q.Statuses {
			statuses = append(statuses, string(s))
		}
		filter["status"] = bson.M{"$in": statuses}
	}
	filter["is_deleted"] = false

	if q.Type != "" {
		filter["listing_type"] = string(q.Type)
	}
	if q.PropertyType != "" {
		filter["property_type"] = string(q.PropertyType)
	}
	if q.Category != "" {
		filter["property_category"] = q.Category
	}
	if q.Owner != "" {
		filter["owner_id"] = string(q.Owner)
	}

	orGroups = append(orGroups, locationClauses(filter, q)...)
	orGroups = append(orGroups, budgetClauses(filter, q)...)
	applyArea(filter, q)
	orGroups = append(orGroups, facetClauses(filter, q)...)

	if q.WithImages {
		filter["photos.0"] = bson.M{"$exists": true}
	}
	if q.HotDeals {
		filter["is_premium"] = true
	}

	switch len(orGroups) {
	case 0:
	case 1:
		filter["$or"] = orGroups[0]
	default:
		ands := make([]bson.M, 0, len(orGroups))
		for _, group := range orGroups {
			ands = append(ands, bson.M{"$or": group})
		}
		filter["$and"] = ands
	}
	return filter
}

func locationClauses(filter bson.M, q listing.Query) [][]bson.M {
	if q.Bounds != nil {
		filter["location.coordinates.lat"] = bson.M{"$gte": q.Bounds.MinLat, "$lte": q.Bounds.MaxLat}
		filter["location.coordinates.lng"] = bson.M{"$gte": q.Bounds.MinLng, "$lte": q.Bounds.MaxLng}
		return nil
	}
	// Degraded mode: case-insensitive substring match on the raw text.
	var clauses []bson.M
	if q.CityText != "" {
		clauses = append(clauses, bson.M{"location.city": caseInsensitive(q.CityText)})
	}
	if q.LocalityText != "" {
		clauses = append(clauses, bson.M{"location.locality": caseInsensitive(q.LocalityText)})
	}
	switch len(clauses) {
	case 0:
		return nil
	case 1:
		for k, v := range clauses[0] {
			filter[k] = v
		}
		return nil
	default:
		return [][]bson.M{clauses}
	}
}

func budgetClauses(filter bson.M, q listing.Query) [][]bson.M {
	budget := rangeDoc(float64(q.MinBudget), float64(q.MaxBudget))
	if budget == nil {
		return nil
	}
	switch listing.BudgetField(q.Type) {
	case listing.AmountRent:
		filter[fieldRentAmount] = budget
	case listing.AmountSale:
		filter[fieldSaleAmount] = budget
	case listing.AmountEither:
		return [][]bson.M{{
			{fieldRentAmount: budget},
			{fieldSaleAmount: budget},
		}}
	}
	return nil
}

func applyArea(filter bson.M, q listing.Query) {
	area := rangeDoc(q.MinArea, q.MaxArea)
	if area == nil {
		return
	}
	switch listing.AreaFieldFor(q.Type, q.PropertyType) {
	case listing.AreaResidential:
		filter[fieldResidentialArea] = area
	case listing.AreaCommercial:
		filter[fieldCommercialArea] = area
	}
}

// facetClauses compiles categorical filters as set membership. Values are
// passed through as literals: validating them against an enum is the
// caller's business, not the compiler's. Facets whose field lives on more
// than one detail variant become an $or across those variants.
func facetClauses(filter bson.M, q listing.Query) [][]bson.M {
	addIn(filter, "residential_details.bhk_type", q.BHKTypes)
	addIn(filter, "residential_details.tenant_preference", q.TenantPrefs)
	addIn(filter, "pg_details.pg_for", q.PGFor)
	if len(q.Amenities) > 0 {
		filter["amenities"] = bson.M{"$all": q.Amenities}
	}

	var groups [][]bson.M
	if len(q.RoomSharingTypes) > 0 {
		groups = append(groups, []bson.M{
			{"pg_details.room_sharing_type": bson.M{"$in": q.RoomSharingTypes}},
			{"co_living_details.room_sharing_type": bson.M{"$in": q.RoomSharingTypes}},
		})
	}
	if len(q.FurnishTypes) > 0 {
		groups = append(groups, []bson.M{
			{"residential_details.furnish_type": bson.M{"$in": q.FurnishTypes}},
			{"commercial_details.furnish_type": bson.M{"$in": q.FurnishTypes}},
			{"pg_details.furnish_type": bson.M{"$in": q.FurnishTypes}},
		})
	}
	return groups
}

func addIn(filter bson.M, field string, values []string) {
	if len(values) == 0 {
		return
	}
	filter[field] = bson.M{"$in": values}
}

func rangeDoc(min, max float64) bson.M {
	doc := bson.M{}
	if min > 0 {
		doc["$gte"] = min
	}
	if max > 0 {
		doc["$lte"] = max
	}
	if len(doc) == 0 {
		return nil
	}
	return doc
}

func caseInsensitive(text string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(text), Options: "i"}
}

// sortSpec builds the canonical ordering: the premium/boost tiebreak prefix
// always comes first so paid listings rank deterministically above organic
// ones, then the requested key.
func sortSpec(q listing.Query) bson.D {
	spec := bson.D{
		{Key: "is_premium", Value: -1},
		{Key: "premium.boost_rank", Value: -1},
	}
	switch q.Sort {
	case listing.SortPriceLow:
		spec = append(spec, bson.E{Key: budgetSortField(q.Type), Value: 1})
	case listing.SortPriceHigh:
		spec = append(spec, bson.E{Key: budgetSortField(q.Type), Value: -1})
	case listing.SortOldest:
		spec = append(spec, bson.E{Key: "created_at", Value: 1})
	case listing.SortScore:
		spec = append(spec, bson.E{Key: "listing_score", Value: -1})
	default:
		spec = append(spec, bson.E{Key: "created_at", Value: -1})
	}
	// Stable final tiebreak for listings equal on everything else.
	spec = append(spec, bson.E{Key: "_id", Value: 1})
	return spec
}

func budgetSortField(t listing.Type) string {
	if listing.BudgetField(t) == listing.AmountSale {
		return fieldSaleAmount
	}
	return fieldRentAmount
}
