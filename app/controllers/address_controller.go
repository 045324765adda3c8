package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/land-resolver/app/requests"
	"github.com/land-resolver/app/responses"
	"github.com/land-resolver/internal/geocode"
	"github.com/land-resolver/internal/normalizer"
	"github.com/land-resolver/internal/resolver"
)

// AddressController serves address resolution and geocoding.
type AddressController struct {
	resolver  *resolver.Resolver
	geocoder  *geocode.Client
	norm      *normalizer.Normalizer
	logger    *zap.Logger
	startTime time.Time
}

func NewAddressController(r *resolver.Resolver, g *geocode.Client, norm *normalizer.Normalizer, logger *zap.Logger) *AddressController {
	return &AddressController{
		resolver:  r,
		geocoder:  g,
		norm:      norm,
		logger:    logger,
		startTime: time.Now(),
	}
}

// ResolveAddress handles POST /v1/addresses/resolve.
func (ac *AddressController) ResolveAddress(c *gin.Context) {
	var req requests.ResolveAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, responses.ErrorResponse{
			Error:   "INVALID_REQUEST",
			Message: err.Error(),
		})
		return
	}

	startTime := time.Now()
	results, err := ac.resolver.Resolve(c.Request.Context(), req.Address, resolver.Options{
		Limit:      req.Limit,
		Exhaustive: req.Exhaustive,
	})
	if err != nil {
		ac.logger.Error("resolve failed", zap.String("address", req.Address), zap.Error(err))
		c.JSON(http.StatusInternalServerError, responses.ErrorResponse{
			Error:   "RESOLVE_ERROR",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, responses.ResolveAddressResponse{
		Query:            req.Address,
		Normalized:       ac.norm.NormalizeQuery(req.Address),
		Results:          results,
		ProcessingTimeMs: time.Since(startTime).Milliseconds(),
	})
}

// GeocodeAddress handles POST /v1/addresses/geocode.
func (ac *AddressController) GeocodeAddress(c *gin.Context) {
	var req requests.GeocodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, responses.ErrorResponse{
			Error:   "INVALID_REQUEST",
			Message: err.Error(),
		})
		return
	}

	result, err := ac.geocoder.Geocode(c.Request.Context(), req.Address, req.District)
	if err != nil {
		status := http.StatusInternalServerError
		code := "GEOCODE_ERROR"
		if err == geocode.ErrNoMatch {
			status = http.StatusNotFound
			code = "NO_MATCH"
		}
		c.JSON(status, responses.ErrorResponse{
			Error:   code,
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, responses.GeocodeResponse{
		Address:   req.Address,
		Lat:       result.Lat,
		Lng:       result.Lng,
		Precision: result.Precision,
	})
}

// HealthCheck handles GET /health.
func (ac *AddressController) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, responses.HealthCheckResponse{
		Status:    "healthy",
		Timestamp: time.Now().Format(time.RFC3339),
		Uptime:    time.Since(ac.startTime).String(),
		Version:   "1.0.0",
		Services: map[string]string{
			"resolver": "healthy",
			"database": "healthy",
		},
	})
}
