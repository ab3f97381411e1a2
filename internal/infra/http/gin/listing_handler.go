package ginserver

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	gin "github.com/gin-gonic/gin"

	listingapp "gharbazaar/internal/app/handlers/listings"
	"gharbazaar/internal/domain/listing"
)

// ListingHandler wires the public search surface to HTTP.
type ListingHandler struct {
	App *listingapp.SearchHandler
}

// Catalog search. Every filter arrives as a query parameter; nothing here is
// required, an empty query returns the newest active listings.
func (h ListingHandler) Search(c *gin.Context) {
	if h.App == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "search unavailable"})
		return
	}
	query := listingapp.SearchQuery{
		ListingType:      c.Query("listing_type"),
		PropertyType:     c.Query("property_type"),
		Category:         c.Query("property_category"),
		Lat:              parseFloatPtr(c.Query("lat")),
		Lng:              parseFloatPtr(c.Query("lng")),
		RadiusKm:         parseFloat(c.Query("radius_km")),
		City:             c.Query("city"),
		Locality:         c.Query("locality"),
		MinBudget:        parseInt64(c.Query("min_budget")),
		MaxBudget:        parseInt64(c.Query("max_budget")),
		MinArea:          parseFloat(c.Query("min_area")),
		MaxArea:          parseFloat(c.Query("max_area")),
		BHKTypes:         splitCSV(c.Query("bhk_types")),
		FurnishTypes:     splitCSV(c.Query("furnish_types")),
		TenantPrefs:      splitCSV(c.Query("tenant_preferences")),
		RoomSharingTypes: splitCSV(c.Query("room_sharing_types")),
		PGFor:            splitCSV(c.Query("pg_for")),
		Amenities:        splitCSV(c.Query("amenities")),
		WithImages:       parseBool(c.Query("with_images")),
		HotDeals:         parseBool(c.Query("hot_deals")),
		Sort:             c.Query("sort"),
		Page:             parseInt(c.Query("page")),
		Limit:            parseInt(c.Query("limit")),
	}
	result, err := h.App.Handle(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// Get returns one publicly visible listing.
func (h ListingHandler) Get(c *gin.Context) {
	if h.App == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "search unavailable"})
		return
	}
	listingID := strings.TrimSpace(c.Param("id"))
	if listingID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "listing id is required"})
		return
	}
	result, err := h.App.Get(c.Request.Context(), listingID)
	if err != nil {
		if errors.Is(err, listing.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "listing not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ ListingHTTP = ListingHandler{}

func splitCSV(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func parseInt(raw string) int {
	value, _ := strconv.Atoi(strings.TrimSpace(raw))
	if value < 0 {
		return 0
	}
	return value
}

func parseInt64(raw string) int64 {
	value, _ := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if value < 0 {
		return 0
	}
	return value
}

func parseFloat(raw string) float64 {
	value, _ := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if value < 0 {
		return 0
	}
	return value
}

func parseFloatPtr(raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &value
}

func parseBool(raw string) bool {
	value, _ := strconv.ParseBool(strings.TrimSpace(raw))
	return value
}
