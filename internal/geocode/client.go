// Package geocode resolves Taiwanese street addresses to coordinates
// through a Nominatim-compatible endpoint, with cache and centroid
// fallbacks so a lookup always answers within the request deadline.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/land-resolver/app/models"
	"github.com/land-resolver/app/services"
	"github.com/land-resolver/internal/normalizer"
	"github.com/land-resolver/internal/parser"
)

// ErrNoMatch means every tier of the fallback chain came up empty.
var ErrNoMatch = errors.New("geocode: no match")

// Precision levels, strongest first.
const (
	PrecisionExact    = "exact"
	PrecisionRoad     = "road"
	PrecisionDistrict = "district"
)

// Client queries the upstream geocoder. Lookup order: cache (door key,
// then road key), upstream door query, upstream road query, district or
// city centroid. Upstream calls share one bounded timeout; there are no
// retries.
type Client struct {
	httpClient *http.Client
	baseURL    string
	cache      services.GeoCache
	norm       *normalizer.Normalizer
	parser     *parser.Parser
	logger     *zap.Logger
}

func NewClient(baseURL string, timeout time.Duration, cache services.GeoCache, norm *normalizer.Normalizer, p *parser.Parser, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		cache:      cache,
		norm:       norm,
		parser:     p,
		logger:     logger,
	}
}

// Geocode resolves one address. districtHint supplies the 區 when the
// address itself has none.
func (c *Client) Geocode(ctx context.Context, address, districtHint string) (*models.GeocodeResult, error) {
	normalized := c.norm.Normalize(address)
	parsed, err := c.parser.Parse(normalized, districtHint)
	if err != nil {
		return nil, fmt.Errorf("geocode %q: %w", address, err)
	}

	doorKey := buildDoorKey(parsed)
	roadKey := buildRoadKey(parsed)

	// Cache first, door key then road key.
	if result, ok := c.cacheGet(ctx, doorKey); ok {
		return result, nil
	}
	if result, ok := c.cacheGet(ctx, roadKey); ok {
		return result, nil
	}

	// Upstream door-level query.
	if doorKey != "" {
		if result, err := c.queryUpstream(ctx, doorKey); err == nil {
			result.Precision = PrecisionExact
			c.cacheSet(ctx, doorKey, result)
			return result, nil
		} else if ctx.Err() != nil {
			return c.centroidFallback(parsed)
		}
	}

	// Upstream road-level query.
	if roadKey != "" {
		if result, err := c.queryUpstream(ctx, roadKey); err == nil {
			result.Precision = PrecisionRoad
			c.cacheSet(ctx, roadKey, result)
			return result, nil
		} else if ctx.Err() != nil {
			return c.centroidFallback(parsed)
		}
	}

	return c.centroidFallback(parsed)
}

func (c *Client) cacheGet(ctx context.Context, key string) (*models.GeocodeResult, bool) {
	if key == "" || c.cache == nil {
		return nil, false
	}
	result, found, err := c.cache.Get(ctx, key)
	if err != nil {
		c.logger.Warn("geocode cache lookup failed", zap.Error(err), zap.String("key", key))
		return nil, false
	}
	return result, found
}

func (c *Client) cacheSet(ctx context.Context, key string, result *models.GeocodeResult) {
	if key == "" || c.cache == nil {
		return
	}
	if err := c.cache.Set(ctx, key, result); err != nil {
		c.logger.Warn("geocode cache write failed", zap.Error(err), zap.String("key", key))
	}
}

type nominatimResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

func (c *Client) queryUpstream(ctx context.Context, query string) (*models.GeocodeResult, error) {
	if c.baseURL == "" {
		return nil, ErrNoMatch
	}
	u := fmt.Sprintf("%s?q=%s&format=json&limit=1&countrycodes=tw", c.baseURL, url.QueryEscape(query))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("upstream geocode failed", zap.Error(err), zap.String("query", query))
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("upstream status %d", resp.StatusCode)
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("decode upstream response: %w", err)
	}
	if len(results) == 0 {
		return nil, ErrNoMatch
	}

	lat, latErr := strconv.ParseFloat(results[0].Lat, 64)
	lng, lngErr := strconv.ParseFloat(results[0].Lon, 64)
	if latErr != nil || lngErr != nil {
		return nil, fmt.Errorf("bad coordinates %q/%q", results[0].Lat, results[0].Lon)
	}
	return &models.GeocodeResult{Lat: lat, Lng: lng}, nil
}

// centroidFallback answers from the static centroid table.
func (c *Client) centroidFallback(parsed models.ParsedAddress) (*models.GeocodeResult, error) {
	if center, ok := districtCentroid(parsed.CountyCity, parsed.District); ok {
		return &models.GeocodeResult{Lat: center.lat, Lng: center.lng, Precision: PrecisionDistrict}, nil
	}
	if center, ok := cityCentroid(parsed.CountyCity); ok {
		return &models.GeocodeResult{Lat: center.lat, Lng: center.lng, Precision: PrecisionDistrict}, nil
	}
	return nil, ErrNoMatch
}

// buildDoorKey is city+district+street+lane+alley+number, floors and
// sub-numbers stripped. Keying on the base door keeps every floor of a
// building on one cache entry.
func buildDoorKey(p models.ParsedAddress) string {
	if p.Street == "" || p.Number == "" {
		return ""
	}
	key := p.CountyCity + p.District + p.Street
	if p.Lane != "" {
		key += p.Lane + "巷"
	}
	if p.Alley != "" {
		key += p.Alley + "弄"
	}
	return key + p.Number + "號"
}

// buildRoadKey is city+district+street.
func buildRoadKey(p models.ParsedAddress) string {
	if p.Street == "" {
		return ""
	}
	return p.CountyCity + p.District + p.Street
}
