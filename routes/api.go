package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/land-resolver/app/controllers"
)

// Controllers bundles everything the router mounts.
type Controllers struct {
	Address   *controllers.AddressController
	Community *controllers.CommunityController
	Ingest    *controllers.IngestController
	Admin     *controllers.AdminController
}

// SetupAPIRoutes mounts all /v1 endpoints.
func SetupAPIRoutes(router *gin.Engine, c Controllers) {
	v1 := router.Group("/v1")
	{
		addresses := v1.Group("/addresses")
		{
			addresses.POST("/resolve", c.Address.ResolveAddress)
			addresses.POST("/geocode", c.Address.GeocodeAddress)
		}

		communities := v1.Group("/communities")
		{
			communities.GET("/search", c.Community.Search)
			communities.POST("/resolve", c.Community.Resolve)
		}

		ingest := v1.Group("/ingest")
		{
			ingest.POST("", c.Ingest.Ingest)
			ingest.GET("/jobs/:jobID", c.Ingest.GetJobStatus)
		}

		admin := v1.Group("/admin")
		{
			admin.GET("/stats", c.Admin.GetStats)
			admin.POST("/fts/rebuild", c.Admin.RebuildFTS)
			admin.POST("/analyze", c.Admin.Analyze)
			admin.POST("/vacuum", c.Admin.Vacuum)
			admin.POST("/cache/invalidate", c.Admin.InvalidateCache)
		}

		v1.GET("/health", c.Address.HealthCheck)
	}
}

// SetupHealthRoutes mounts the root-level probes.
func SetupHealthRoutes(router *gin.Engine, c Controllers) {
	router.GET("/health", c.Address.HealthCheck)
	router.GET("/ready", c.Address.HealthCheck)
	router.GET("/live", c.Address.HealthCheck)
}

// SetupAllRoutes wires middleware, web pages and API routes.
func SetupAllRoutes(router *gin.Engine, c Controllers) {
	setupMiddleware(router)

	SetupWebRoutes(router)
	SetupHealthRoutes(router, c)
	SetupAPIRoutes(router, c)

	router.NoRoute(func(ctx *gin.Context) {
		ctx.JSON(404, gin.H{
			"error":  "Route not found",
			"path":   ctx.Request.URL.Path,
			"method": ctx.Request.Method,
		})
	})
}

func setupMiddleware(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
}
