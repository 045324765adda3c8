package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/land-resolver/app/requests"
	"github.com/land-resolver/app/responses"
	"github.com/land-resolver/internal/community"
	"github.com/land-resolver/internal/resolver"
)

// CommunityController serves community keyword search and
// address→community resolution.
type CommunityController struct {
	matcher  *community.Matcher
	resolver *resolver.Resolver
	logger   *zap.Logger
}

func NewCommunityController(m *community.Matcher, r *resolver.Resolver, logger *zap.Logger) *CommunityController {
	return &CommunityController{matcher: m, resolver: r, logger: logger}
}

// Search handles GET /v1/communities/search?q=&top_n=.
func (cc *CommunityController) Search(c *gin.Context) {
	keyword := c.Query("q")
	if keyword == "" {
		c.JSON(http.StatusBadRequest, responses.ErrorResponse{
			Error:   "MISSING_KEYWORD",
			Message: "query parameter q is required",
		})
		return
	}
	topN, _ := strconv.Atoi(c.Query("top_n"))

	startTime := time.Now()
	results := cc.matcher.Search(keyword, topN)
	c.JSON(http.StatusOK, responses.CommunitySearchResponse{
		Keyword:          keyword,
		Results:          results,
		ProcessingTimeMs: time.Since(startTime).Milliseconds(),
	})
}

// Resolve handles POST /v1/communities/resolve.
func (cc *CommunityController) Resolve(c *gin.Context) {
	var req requests.CommunityResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, responses.ErrorResponse{
			Error:   "INVALID_REQUEST",
			Message: err.Error(),
		})
		return
	}

	startTime := time.Now()
	results, err := cc.resolver.ResolveCommunity(c.Request.Context(), req.Address, req.TopN)
	if err != nil {
		cc.logger.Error("community resolve failed", zap.String("address", req.Address), zap.Error(err))
		c.JSON(http.StatusInternalServerError, responses.ErrorResponse{
			Error:   "RESOLVE_ERROR",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, responses.CommunityResolveResponse{
		Address:          req.Address,
		Results:          results,
		ProcessingTimeMs: time.Since(startTime).Milliseconds(),
	})
}
