package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultNominatimBase = "https://nominatim.openstreetmap.org"

// NominatimClient queries the OpenStreetMap Nominatim search API. Calls are
// bounded by the HTTP client timeout; a slow or failing upstream surfaces as
// an error the resolver downgrades to the text fallback.
type NominatimClient struct {
	baseURL   string
	userAgent string
	client    *http.Client
	logger    *slog.Logger

	// cache is optional. When set, resolved queries are kept for cacheTTL so
	// repeated searches for the same place skip the network round trip.
	cache    *redis.Client
	cacheTTL time.Duration
}

type NominatimOption func(*NominatimClient)

// WithCache enables the Redis result cache.
func WithCache(rdb *redis.Client, ttl time.Duration) NominatimOption {
	return func(c *NominatimClient) {
		c.cache = rdb
		c.cacheTTL = ttl
	}
}

func NewNominatimClient(baseURL, userAgent string, timeout time.Duration, logger *slog.Logger, opts ...NominatimOption) *NominatimClient {
	if baseURL == "" {
		baseURL = defaultNominatimBase
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	c := &NominatimClient{
		baseURL:   baseURL,
		userAgent: userAgent,
		client:    &http.Client{Timeout: timeout},
		logger:    logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type nominatimHit struct {
	PlaceID     json.Number `json:"place_id"`
	DisplayName string      `json:"display_name"`
	Lat         string      `json:"lat"`
	Lon         string      `json:"lon"`
	Address     struct {
		City     string `json:"city"`
		Town     string `json:"town"`
		Village  string `json:"village"`
		Suburb   string `json:"suburb"`
		State    string `json:"state"`
		Country  string `json:"country"`
		Postcode string `json:"postcode"`
	} `json:"address"`
}

// Search implements the Geocoder collaborator interface.
func (c *NominatimClient) Search(ctx context.Context, query, countryCode string, limit int) ([]Place, error) {
	if limit <= 0 {
		limit = 1
	}
	cacheKey := fmt.Sprintf("geo:%s:%s:%d", countryCode, query, limit)
	if places, ok := c.cachedPlaces(ctx, cacheKey); ok {
		return places, nil
	}

	params := url.Values{
		"q":              []string{query},
		"format":         []string{"json"},
		"limit":          []string{strconv.Itoa(limit)},
		"addressdetails": []string{"1"},
	}
	if countryCode != "" {
		params.Set("countrycodes", countryCode)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search", nil)
	if err != nil {
		return nil, fmt.Errorf("geo: build request: %w", err)
	}
	req.URL.RawQuery = params.Encode()
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geo: nominatim request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geo: nominatim status %d", resp.StatusCode)
	}

	var hits []nominatimHit
	if err := json.NewDecoder(resp.Body).Decode(&hits); err != nil {
		return nil, fmt.Errorf("geo: decode response: %w", err)
	}

	places := make([]Place, 0, len(hits))
	for _, hit := range hits {
		lat, latErr := strconv.ParseFloat(hit.Lat, 64)
		lng, lngErr := strconv.ParseFloat(hit.Lon, 64)
		if latErr != nil || lngErr != nil {
			continue
		}
		places = append(places, Place{
			DisplayName: hit.DisplayName,
			City:        firstNonEmpty(hit.Address.City, hit.Address.Town, hit.Address.Village),
			Locality:    hit.Address.Suburb,
			State:       hit.Address.State,
			Country:     hit.Address.Country,
			PostalCode:  hit.Address.Postcode,
			Lat:         lat,
			Lng:         lng,
			PlaceID:     hit.PlaceID.String(),
		})
	}

	c.storePlaces(ctx, cacheKey, places)
	return places, nil
}

func (c *NominatimClient) cachedPlaces(ctx context.Context, key string) ([]Place, bool) {
	if c.cache == nil {
		return nil, false
	}
	raw, err := c.cache.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	var places []Place
	if err := json.Unmarshal(raw, &places); err != nil {
		return nil, false
	}
	return places, true
}

func (c *NominatimClient) storePlaces(ctx context.Context, key string, places []Place) {
	if c.cache == nil {
		return
	}
	raw, err := json.Marshal(places)
	if err != nil {
		return
	}
	if err := c.cache.Set(ctx, key, raw, c.cacheTTL).Err(); err != nil && c.logger != nil {
		c.logger.Warn("geocode cache write failed", "key", key, "error", err)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

var _ Geocoder = (*NominatimClient)(nil)
