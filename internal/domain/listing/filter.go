package listing

import "strings"

// SortKey defines a supported result ordering. Whatever the caller asks for,
// the store always applies the premium/boost tiebreak prefix first so paid
// listings float to the top deterministically.
type SortKey string

const (
	SortPriceLow  SortKey = "price_low"
	SortPriceHigh SortKey = "price_high"
	SortNewest    SortKey = "newest"
	SortOldest    SortKey = "oldest"
	SortScore     SortKey = "score"
	SortDistance  SortKey = "distance"

	DefaultLimit = 20
)

// Bounds is a rectangular lat/lng window, the store-facing form of a
// resolved location.
type Bounds struct {
	MinLat float64
	MaxLat float64
	MinLng float64
	MaxLng float64
}

func (b Bounds) Contains(c Coordinates) bool {
	return c.Lat >= b.MinLat && c.Lat <= b.MaxLat && c.Lng >= b.MinLng && c.Lng <= b.MaxLng
}

// Query is the transient parameter bag for one search request. Numeric
// ranges are inclusive with either bound optional; zero means unbounded on
// that side. Location carries at most one of Bounds (resolved coordinates)
// or the raw city/locality text used for the degraded substring fallback.
type Query struct {
	Type         Type
	PropertyType PropertyType
	Category     string

	Owner    OwnerID
	Statuses []Status
	// PublicOnly forces the non-overridable status=ACTIVE, isDeleted=false
	// floor for public-facing search.
	PublicOnly bool

	Bounds       *Bounds
	Center       *Coordinates
	CityText     string
	LocalityText string

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

	Sort  SortKey
	Page  int
	Limit int
}

// Normalized returns a sanitized copy: 1-based page, clamped limit, a valid
// sort key. A distance sort without resolved coordinates degrades to the
// default ordering.
func (q Query) Normalized() Query {
	n := q
	n.Category = strings.TrimSpace(n.Category)
	n.CityText = strings.TrimSpace(n.CityText)
	n.LocalityText = strings.TrimSpace(n.LocalityText)
	if n.MinBudget < 0 {
		n.MinBudget = 0
	}
	if n.MaxBudget < 0 {
		n.MaxBudget = 0
	}
	if n.MinArea < 0 {
		n.MinArea = 0
	}
	if n.MaxArea < 0 {
		n.MaxArea = 0
	}
	if n.Page <= 0 {
		n.Page = 1
	}
	if n.Limit <= 0 {
		n.Limit = DefaultLimit
	}
	switch n.Sort {
	case SortPriceLow, SortPriceHigh, SortNewest, SortOldest, SortScore:
	case SortDistance:
		if n.Center == nil {
			n.Sort = SortNewest
		}
	default:
		n.Sort = SortNewest
	}
	return n
}

// Offset converts the 1-based page to a store skip count.
func (q Query) Offset() int {
	page := q.Page
	if page <= 0 {
		page = 1
	}
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	return (page - 1) * limit
}

// AmountField names the pricing field a budget range applies to. Getting
// this mapping wrong silently filters everything out, so it is part of the
// contract rather than a store detail.
type AmountField int

const (
	// AmountEither matches a listing when either its rent or sale amount
	// falls in range; used when the search is not scoped to one type.
	AmountEither AmountField = iota
	AmountRent
	AmountSale
)

var budgetFieldByType = map[Type]AmountField{
	TypeRent:     AmountRent,
	TypeSell:     AmountSale,
	TypePG:       AmountRent,
	TypeCoLiving: AmountRent,
}

// BudgetField selects the pricing field a budget filter targets for the
// given listing type.
func BudgetField(t Type) AmountField {
	if f, ok := budgetFieldByType[t]; ok {
		return f
	}
	return AmountEither
}

// AreaField names the area field an area range applies to.
type AreaField int

const (
	AreaNone AreaField = iota
	AreaResidential
	AreaCommercial
)

// AreaFieldFor selects the detail-record area field for the classification;
// PG and co-living listings have no area filter.
func AreaFieldFor(t Type, pt PropertyType) AreaField {
	if t != TypeRent && t != TypeSell {
		return AreaNone
	}
	switch pt {
	case PropertyCommercial:
		return AreaCommercial
	case PropertyResidential:
		return AreaResidential
	default:
		return AreaNone
	}
}

// SearchResult wraps one page of hits with the total match count.
type SearchResult struct {
	Items []*Listing
	Total int64
}
