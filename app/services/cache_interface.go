package services

import (
	"context"

	"github.com/land-resolver/app/models"
)

// CacheStats summarizes one cache tier.
type CacheStats struct {
	HitRate    float64 `json:"hit_rate"`
	TotalHits  int64   `json:"total_hits"`
	TotalMiss  int64   `json:"total_miss"`
	TotalItems int64   `json:"total_items"`
}

// GeoCache stores geocoding results keyed by normalized address. Road
// level entries share the same keyspace under a road-only key, so a
// fallback lookup is just another Get.
type GeoCache interface {
	Get(ctx context.Context, key string) (*models.GeocodeResult, bool, error)

	Set(ctx context.Context, key string, result *models.GeocodeResult) error

	Delete(ctx context.Context, key string) error

	Clear(ctx context.Context) error

	GetStats(ctx context.Context) (*CacheStats, error)

	Close() error
}
