package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"gharbazaar/internal/domain/listing"
)

// ErrListingNotFound is returned when a listing cannot be located in memory.
var ErrListingNotFound = fmt.Errorf("memory: %w", listing.ErrNotFound)

// ListingRepository keeps listings in memory. It mirrors the Mongo
// repository's search semantics so tests and the demo storage mode behave
// the same as production.
type ListingRepository struct {
	mu    sync.RWMutex
	items map[listing.ID]*listing.Listing
}

func NewListingRepository() *ListingRepository {
	return &ListingRepository{items: make(map[listing.ID]*listing.Listing)}
}

func (r *ListingRepository) ByID(ctx context.Context, id listing.ID) (*listing.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.items[id]
	if !ok {
		return nil, ErrListingNotFound
	}
	return l, nil
}

func (r *ListingRepository) Save(ctx context.Context, l *listing.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	l.Version++
	r.items[l.ID] = l
	return nil
}

func (r *ListingRepository) Search(ctx context.Context, q listing.Query) (listing.SearchResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	q = q.Normalized()
	matches := make([]*listing.Listing, 0, len(r.items))
	for _, l := range r.items {
		select {
		case <-ctx.Done():
			return listing.SearchResult{}, ctx.Err()
		default:
		}
		if matchListing(l, q) {
			matches = append(matches, l)
		}
	}

	sortMatches(matches, q)

	total := int64(len(matches))
	start := q.Offset()
	if start > len(matches) {
		start = len(matches)
	}
	end := start + q.Limit
	if end > len(matches) {
		end = len(matches)
	}
	return listing.SearchResult{Items: matches[start:end], Total: total}, nil
}

func matchListing(l *listing.Listing, q listing.Query) bool {
	if l.IsDeleted {
		return false
	}
	if q.PublicOnly {
		if l.Status != listing.StatusActive {
			return false
		}
	} else if len(q.Statuses) > 0 && !statusIncluded(l.Status, q.Statuses) {
		return false
	}
	if q.Type != "" && l.Type != q.Type {
		return false
	}
	if q.PropertyType != "" && l.PropertyType != q.PropertyType {
		return false
	}
	if q.Category != "" && !strings.EqualFold(l.Category, q.Category) {
		return false
	}
	if q.Owner != "" && l.Owner != q.Owner {
		return false
	}
	if !matchLocation(l, q) {
		return false
	}
	if !matchBudget(l, q) {
		return false
	}
	if !matchArea(l, q) {
		return false
	}
	if !matchFacets(l, q) {
		return false
	}
	if q.WithImages && len(l.Photos) == 0 {
		return false
	}
	if q.HotDeals && !l.IsPremium {
		return false
	}
	return true
}

func matchLocation(l *listing.Listing, q listing.Query) bool {
	if q.Bounds != nil {
		return l.Location.Coordinates != nil && q.Bounds.Contains(*l.Location.Coordinates)
	}
	if q.CityText == "" && q.LocalityText == "" {
		return true
	}
	if q.CityText != "" && containsFold(l.Location.City, q.CityText) {
		return true
	}
	if q.LocalityText != "" && containsFold(l.Location.Locality, q.LocalityText) {
		return true
	}
	return false
}

func matchBudget(l *listing.Listing, q listing.Query) bool {
	if q.MinBudget <= 0 && q.MaxBudget <= 0 {
		return true
	}
	switch listing.BudgetField(q.Type) {
	case listing.AmountRent:
		return inRange(l.Pricing.RentAmount, q.MinBudget, q.MaxBudget)
	case listing.AmountSale:
		return inRange(l.Pricing.SaleAmount, q.MinBudget, q.MaxBudget)
	default:
		return inRange(l.Pricing.RentAmount, q.MinBudget, q.MaxBudget) ||
			inRange(l.Pricing.SaleAmount, q.MinBudget, q.MaxBudget)
	}
}

func matchArea(l *listing.Listing, q listing.Query) bool {
	if q.MinArea <= 0 && q.MaxArea <= 0 {
		return true
	}
	switch listing.AreaFieldFor(q.Type, q.PropertyType) {
	case listing.AreaResidential:
		d, ok := l.Details.(*listing.ResidentialDetails)
		return ok && inRangeF(d.BuiltUpAreaSqft, q.MinArea, q.MaxArea)
	case listing.AreaCommercial:
		d, ok := l.Details.(*listing.CommercialDetails)
		return ok && inRangeF(d.BuiltUpAreaSqft, q.MinArea, q.MaxArea)
	default:
		return true
	}
}

func matchFacets(l *listing.Listing, q listing.Query) bool {
	res, _ := l.Details.(*listing.ResidentialDetails)
	com, _ := l.Details.(*listing.CommercialDetails)
	pg, _ := l.Details.(*listing.PGDetails)
	col, _ := l.Details.(*listing.CoLivingDetails)

	if len(q.BHKTypes) > 0 && (res == nil || !memberOf(res.BHKType, q.BHKTypes)) {
		return false
	}
	if len(q.TenantPrefs) > 0 && (res == nil || !memberOf(res.TenantPreference, q.TenantPrefs)) {
		return false
	}
	if len(q.PGFor) > 0 && (pg == nil || !memberOf(pg.PGFor, q.PGFor)) {
		return false
	}
	if len(q.RoomSharingTypes) > 0 {
		ok := (pg != nil && memberOf(pg.RoomSharingType, q.RoomSharingTypes)) ||
			(col != nil && memberOf(col.RoomSharingType, q.RoomSharingTypes))
		if !ok {
			return false
		}
	}
	if len(q.FurnishTypes) > 0 {
		ok := (res != nil && memberOf(res.FurnishType, q.FurnishTypes)) ||
			(com != nil && memberOf(com.FurnishType, q.FurnishTypes)) ||
			(pg != nil && memberOf(pg.FurnishType, q.FurnishTypes))
		if !ok {
			return false
		}
	}
	if len(q.Amenities) > 0 && !containsAll(l.Amenities, q.Amenities) {
		return false
	}
	return true
}

func sortMatches(matches []*listing.Listing, q listing.Query) {
	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		// Premium tiebreak prefix: premium first, then higher boost rank.
		if a.IsPremium != b.IsPremium {
			return a.IsPremium
		}
		if a.IsPremium && b.IsPremium {
			ra, rb := boostRank(a), boostRank(b)
			if ra != rb {
				return ra > rb
			}
		}
		switch q.Sort {
		case listing.SortPriceLow:
			return amountFor(a, q.Type) < amountFor(b, q.Type)
		case listing.SortPriceHigh:
			return amountFor(a, q.Type) > amountFor(b, q.Type)
		case listing.SortOldest:
			return a.CreatedAt.Before(b.CreatedAt)
		case listing.SortScore:
			return a.Score > b.Score
		case listing.SortDistance:
			if q.Center != nil {
				return distanceSq(a, *q.Center) < distanceSq(b, *q.Center)
			}
			return a.CreatedAt.After(b.CreatedAt)
		default:
			return a.CreatedAt.After(b.CreatedAt)
		}
	})
}

func (r *ListingRepository) ExpirePremium(ctx context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var cleared int64
	for _, l := range r.items {
		if l.IsPremium && l.Premium != nil && l.Premium.EndDate.Before(now) {
			l.IsPremium = false
			l.Premium = nil
			l.UpdatedAt = now.UTC()
			cleared++
		}
	}
	return cleared, nil
}

func boostRank(l *listing.Listing) int {
	if l.Premium == nil {
		return 0
	}
	return l.Premium.BoostRank
}

func amountFor(l *listing.Listing, t listing.Type) int64 {
	if listing.BudgetField(t) == listing.AmountSale {
		return l.Pricing.SaleAmount
	}
	return l.Pricing.RentAmount
}

func distanceSq(l *listing.Listing, center listing.Coordinates) float64 {
	if l.Location.Coordinates == nil {
		return 1e18
	}
	dLat := l.Location.Coordinates.Lat - center.Lat
	dLng := l.Location.Coordinates.Lng - center.Lng
	return dLat*dLat + dLng*dLng
}

func inRange(v, min, max int64) bool {
	if v <= 0 {
		return false
	}
	if min > 0 && v < min {
		return false
	}
	if max > 0 && v > max {
		return false
	}
	return true
}

func inRangeF(v, min, max float64) bool {
	if v <= 0 {
		return false
	}
	if min > 0 && v < min {
		return false
	}
	if max > 0 && v > max {
		return false
	}
	return true
}

func memberOf(value string, set []string) bool {
	for _, s := range set {
		if strings.EqualFold(value, s) {
			return true
		}
	}
	return false
}

func containsAll(values, required []string) bool {
	index := make(map[string]struct{}, len(values))
	for _, v := range values {
		index[strings.ToLower(strings.TrimSpace(v))] = struct{}{}
	}
	for _, req := range required {
		if _, ok := index[strings.ToLower(strings.TrimSpace(req))]; !ok {
			return false
		}
	}
	return true
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func statusIncluded(s listing.Status, allowed []listing.Status) bool {
	for _, candidate := range allowed {
		if s == candidate {
			return true
		}
	}
	return false
}

var _ listing.Repository = (*ListingRepository)(nil)
