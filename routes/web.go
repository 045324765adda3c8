package routes

import (
	"github.com/gin-gonic/gin"
)

// SetupWebRoutes mounts the human-facing index pages.
func SetupWebRoutes(router *gin.Engine) {
	web := router.Group("/")
	{
		web.GET("/", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"message": "Land Transaction Address Resolver",
				"version": "1.0.0",
				"docs":    "/docs",
			})
		})

		web.GET("/docs", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"api": "Land Resolver API v1",
				"endpoints": map[string]string{
					"resolve":           "POST /v1/addresses/resolve",
					"geocode":           "POST /v1/addresses/geocode",
					"community_search":  "GET /v1/communities/search?q=",
					"community_resolve": "POST /v1/communities/resolve",
					"ingest":            "POST /v1/ingest",
					"job_status":        "GET /v1/ingest/jobs/:jobID",
					"stats":             "GET /v1/admin/stats",
					"health":            "GET /health",
				},
			})
		})
	}
}
