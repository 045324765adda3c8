package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/land-resolver/app/responses"
	"github.com/land-resolver/app/services"
	"github.com/land-resolver/internal/store"
)

// AdminController serves stats and offline maintenance.
type AdminController struct {
	store        *store.Store
	cacheService services.GeoCache
	logger       *zap.Logger
	startTime    time.Time
}

func NewAdminController(st *store.Store, cacheService services.GeoCache, logger *zap.Logger) *AdminController {
	return &AdminController{
		store:        st,
		cacheService: cacheService,
		logger:       logger,
		startTime:    time.Now(),
	}
}

// GetStats handles GET /v1/admin/stats.
func (ac *AdminController) GetStats(c *gin.Context) {
	stats, err := ac.store.GetStats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, responses.ErrorResponse{
			Error:   "STATS_ERROR",
			Message: err.Error(),
		})
		return
	}

	resp := responses.AdminStatsResponse{
		TotalRecords:      stats.TotalRecords,
		UniqueAddresses:   stats.UniqueAddresses,
		UniqueCommunities: stats.UniqueCommunities,
		Geocoded:          stats.Geocoded,
		UptimeSeconds:     int64(time.Since(ac.startTime).Seconds()),
	}
	if ac.cacheService != nil {
		if cacheStats, err := ac.cacheService.GetStats(c.Request.Context()); err == nil {
			resp.CacheHitRate = cacheStats.HitRate
		}
	}
	c.JSON(http.StatusOK, resp)
}

// RebuildFTS handles POST /v1/admin/fts/rebuild.
func (ac *AdminController) RebuildFTS(c *gin.Context) {
	startTime := time.Now()
	if err := ac.store.RebuildFTS(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, responses.ErrorResponse{
			Error:   "FTS_REBUILD_ERROR",
			Message: err.Error(),
		})
		return
	}
	ac.logger.Info("fts rebuild requested via api", zap.Duration("elapsed", time.Since(startTime)))
	c.JSON(http.StatusOK, responses.SuccessResponse{
		Success: true,
		Message: "fts index rebuilt",
	})
}

// Analyze handles POST /v1/admin/analyze.
func (ac *AdminController) Analyze(c *gin.Context) {
	if err := ac.store.Analyze(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, responses.ErrorResponse{
			Error:   "ANALYZE_ERROR",
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, responses.SuccessResponse{
		Success: true,
		Message: "analyze completed",
	})
}

// Vacuum handles POST /v1/admin/vacuum.
func (ac *AdminController) Vacuum(c *gin.Context) {
	if err := ac.store.Vacuum(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, responses.ErrorResponse{
			Error:   "VACUUM_ERROR",
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, responses.SuccessResponse{
		Success: true,
		Message: "vacuum completed",
	})
}

// InvalidateCache handles POST /v1/admin/cache/invalidate.
func (ac *AdminController) InvalidateCache(c *gin.Context) {
	if ac.cacheService == nil {
		c.JSON(http.StatusOK, responses.SuccessResponse{
			Success: true,
			Message: "no cache configured",
		})
		return
	}
	if err := ac.cacheService.Clear(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, responses.ErrorResponse{
			Error:   "CACHE_ERROR",
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, responses.SuccessResponse{
		Success: true,
		Message: "geocode cache cleared",
	})
}
