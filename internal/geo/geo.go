// Package geo resolves free-text or direct-coordinate location input into a
// rectangular search window, degrading to substring text matching when the
// geocoding collaborator cannot help.
package geo

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// kmPerDegree is the planar approximation used to convert a radius into a
// degree window: 111 km per degree of latitude. Fine at city scale, wrong at
// country scale; that trade-off is deliberate.
const kmPerDegree = 111.0

// DefaultRadiusKm is applied when a place name resolves but the caller gave
// no radius.
const DefaultRadiusKm = 15.0

type Point struct {
	Lat float64
	Lng float64
}

type BoundingBox struct {
	MinLat float64
	MaxLat float64
	MinLng float64
	MaxLng float64
}

// BoxAround builds a square window of ±radiusKm/111 degrees around p.
func BoxAround(p Point, radiusKm float64) BoundingBox {
	if radiusKm <= 0 {
		radiusKm = DefaultRadiusKm
	}
	delta := radiusKm / kmPerDegree
	return BoundingBox{
		MinLat: p.Lat - delta,
		MaxLat: p.Lat + delta,
		MinLng: p.Lng - delta,
		MaxLng: p.Lng + delta,
	}
}

// Place is one geocoding hit.
type Place struct {
	DisplayName string  `json:"display_name"`
	City        string  `json:"city"`
	Locality    string  `json:"locality"`
	State       string  `json:"state"`
	Country     string  `json:"country"`
	PostalCode  string  `json:"postal_code"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	PlaceID     string  `json:"place_id"`
}

// Geocoder is the external collaborator boundary. Implementations must
// tolerate zero results and carry a bounded timeout of their own.
type Geocoder interface {
	Search(ctx context.Context, query, countryCode string, limit int) ([]Place, error)
}

// Input is the location portion of a search request. Modes are tried in
// order: direct coordinates, place text, nothing.
type Input struct {
	Lat         *float64
	Lng         *float64
	RadiusKm    float64
	City        string
	Locality    string
	CountryCode string
}

// ResolutionKind tags the outcome of a resolve attempt.
type ResolutionKind int

const (
	// NoLocation means no constraint was requested.
	NoLocation ResolutionKind = iota
	// ResolvedDirect means the caller supplied coordinates.
	ResolvedDirect
	// ResolvedPlace means the geocoder turned place text into coordinates.
	ResolvedPlace
	// TextFallback means geocoding failed or found nothing and the search
	// should substring-match the raw city/locality text instead. This is a
	// degraded mode, not an error.
	TextFallback
)

// Resolution is the tagged result the filter compiler branches on.
type Resolution struct {
	Kind   ResolutionKind
	Center Point
	Box    BoundingBox
	// Place echoes the resolved location back to the caller for display.
	Place *Place
	// Reason records why a text fallback was taken.
	Reason string
}

// Resolver turns search location input into a Resolution. A nil geocoder
// always yields the text fallback for place queries.
type Resolver struct {
	geocoder Geocoder
	logger   *slog.Logger
}

func NewResolver(geocoder Geocoder, logger *slog.Logger) *Resolver {
	return &Resolver{geocoder: geocoder, logger: logger}
}

// Resolve never returns an error: a collaborator failure must not abort the
// search it serves.
func (r *Resolver) Resolve(ctx context.Context, in Input) Resolution {
	if in.Lat != nil && in.Lng != nil {
		center := Point{Lat: *in.Lat, Lng: *in.Lng}
		return Resolution{
			Kind:   ResolvedDirect,
			Center: center,
			Box:    BoxAround(center, in.RadiusKm),
		}
	}

	city := strings.TrimSpace(in.City)
	locality := strings.TrimSpace(in.Locality)
	if city == "" && locality == "" {
		return Resolution{Kind: NoLocation}
	}

	if r.geocoder == nil {
		return Resolution{Kind: TextFallback, Reason: "geocoder not configured"}
	}

	query := placeQuery(city, locality)
	country := in.CountryCode
	if country == "" {
		country = "in"
	}
	places, err := r.geocoder.Search(ctx, query, country, 1)
	if err != nil {
		if r.logger != nil {
			r.logger.Warn("geocoding failed, using text fallback", "query", query, "error", err)
		}
		return Resolution{Kind: TextFallback, Reason: err.Error()}
	}
	if len(places) == 0 {
		if r.logger != nil {
			r.logger.Info("geocoding found nothing, using text fallback", "query", query)
		}
		return Resolution{Kind: TextFallback, Reason: "no geocoding results"}
	}

	place := places[0]
	center := Point{Lat: place.Lat, Lng: place.Lng}
	radius := in.RadiusKm
	if radius <= 0 {
		radius = DefaultRadiusKm
	}
	return Resolution{
		Kind:   ResolvedPlace,
		Center: center,
		Box:    BoxAround(center, radius),
		Place:  &place,
	}
}

func placeQuery(city, locality string) string {
	if locality != "" && city != "" {
		return fmt.Sprintf("%s, %s, India", locality, city)
	}
	if locality != "" {
		return fmt.Sprintf("%s, India", locality)
	}
	return fmt.Sprintf("%s, India", city)
}
