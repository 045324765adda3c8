package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/land-resolver/app/models"
)

// HybridCacheService layers the in-process LRU (L1) over Redis (L2).
// Reads fall through L1 to L2 and promote hits back up; a broken Redis
// degrades the service to memory-only instead of failing lookups.
type HybridCacheService struct {
	memCache   *MemoryCacheService
	redisCache *RedisCacheService
	logger     *zap.Logger
}

func NewHybridCacheService(memCache *MemoryCacheService, redisCache *RedisCacheService, logger *zap.Logger) *HybridCacheService {
	return &HybridCacheService{
		memCache:   memCache,
		redisCache: redisCache,
		logger:     logger,
	}
}

func (hcs *HybridCacheService) Get(ctx context.Context, key string) (*models.GeocodeResult, bool, error) {
	result, found, err := hcs.memCache.Get(ctx, key)
	if err == nil && found {
		return result, true, nil
	}

	result, found, err = hcs.redisCache.Get(ctx, key)
	if err != nil {
		hcs.logger.Warn("redis lookup failed, memory-only", zap.Error(err))
		return nil, false, nil
	}
	if !found {
		return nil, false, nil
	}

	// Promote to L1 so the next lookup stays in-process.
	if err := hcs.memCache.Set(ctx, key, result); err != nil {
		hcs.logger.Warn("L1 promote failed", zap.Error(err), zap.String("key", key))
	}
	return result, true, nil
}

func (hcs *HybridCacheService) Set(ctx context.Context, key string, result *models.GeocodeResult) error {
	if err := hcs.memCache.Set(ctx, key, result); err != nil {
		return err
	}

	// L2 write happens off the request path.
	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := hcs.redisCache.Set(bgCtx, key, result); err != nil {
			hcs.logger.Warn("L2 write failed", zap.Error(err), zap.String("key", key))
		}
	}()
	return nil
}

func (hcs *HybridCacheService) Delete(ctx context.Context, key string) error {
	errCh := make(chan error, 2)
	go func() { errCh <- hcs.memCache.Delete(ctx, key) }()
	go func() { errCh <- hcs.redisCache.Delete(ctx, key) }()

	var errs []error
	for i := 0; i < 2; i++ {
		if err := <-errCh; err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("delete errors: %v", errs)
	}
	return nil
}

func (hcs *HybridCacheService) Clear(ctx context.Context) error {
	errCh := make(chan error, 2)
	go func() { errCh <- hcs.memCache.Clear(ctx) }()
	go func() { errCh <- hcs.redisCache.Clear(ctx) }()

	var errs []error
	for i := 0; i < 2; i++ {
		if err := <-errCh; err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("clear errors: %v", errs)
	}
	hcs.logger.Info("hybrid geocode cache cleared")
	return nil
}

// GetStats combines both tiers; if one tier errors the other's numbers
// are returned alone.
func (hcs *HybridCacheService) GetStats(ctx context.Context) (*CacheStats, error) {
	memStats, memErr := hcs.memCache.GetStats(ctx)
	redisStats, redisErr := hcs.redisCache.GetStats(ctx)

	if memErr != nil && redisErr != nil {
		return nil, fmt.Errorf("both cache tiers failed: %v, %v", memErr, redisErr)
	}

	combined := &CacheStats{}
	switch {
	case memErr == nil && redisErr == nil:
		combined.TotalHits = memStats.TotalHits + redisStats.TotalHits
		combined.TotalMiss = memStats.TotalMiss + redisStats.TotalMiss
		combined.TotalItems = memStats.TotalItems + redisStats.TotalItems
		if total := combined.TotalHits + combined.TotalMiss; total > 0 {
			combined.HitRate = float64(combined.TotalHits) / float64(total)
		}
	case memErr == nil:
		*combined = *memStats
	default:
		*combined = *redisStats
	}
	return combined, nil
}

func (hcs *HybridCacheService) Close() error {
	errCh := make(chan error, 2)
	go func() { errCh <- hcs.memCache.Close() }()
	go func() { errCh <- hcs.redisCache.Close() }()

	var errs []error
	for i := 0; i < 2; i++ {
		if err := <-errCh; err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
