package services

import (
	"context"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/land-resolver/app/models"
)

// MemoryCacheService is the in-process L1 geocode cache. Size-bounded
// LRU; eviction is the only expiry, geocode results do not go stale.
type MemoryCacheService struct {
	cache *lru.Cache[string, *models.GeocodeResult]

	hits   int64
	misses int64
}

// NewMemoryCacheService builds an LRU cache holding up to size entries.
func NewMemoryCacheService(size int) (*MemoryCacheService, error) {
	cache, err := lru.New[string, *models.GeocodeResult](size)
	if err != nil {
		return nil, err
	}
	return &MemoryCacheService{cache: cache}, nil
}

func (mcs *MemoryCacheService) Get(ctx context.Context, key string) (*models.GeocodeResult, bool, error) {
	if result, ok := mcs.cache.Get(key); ok {
		atomic.AddInt64(&mcs.hits, 1)
		return result, true, nil
	}
	atomic.AddInt64(&mcs.misses, 1)
	return nil, false, nil
}

func (mcs *MemoryCacheService) Set(ctx context.Context, key string, result *models.GeocodeResult) error {
	mcs.cache.Add(key, result)
	return nil
}

func (mcs *MemoryCacheService) Delete(ctx context.Context, key string) error {
	mcs.cache.Remove(key)
	return nil
}

func (mcs *MemoryCacheService) Clear(ctx context.Context) error {
	mcs.cache.Purge()
	return nil
}

func (mcs *MemoryCacheService) GetStats(ctx context.Context) (*CacheStats, error) {
	hits := atomic.LoadInt64(&mcs.hits)
	misses := atomic.LoadInt64(&mcs.misses)
	stats := &CacheStats{
		TotalHits:  hits,
		TotalMiss:  misses,
		TotalItems: int64(mcs.cache.Len()),
	}
	if total := hits + misses; total > 0 {
		stats.HitRate = float64(hits) / float64(total)
	}
	return stats, nil
}

func (mcs *MemoryCacheService) Close() error {
	return nil
}
