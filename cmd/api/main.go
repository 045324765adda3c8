package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/land-resolver/app/config"
	"github.com/land-resolver/app/controllers"
	"github.com/land-resolver/app/services"
	"github.com/land-resolver/internal/community"
	"github.com/land-resolver/internal/geocode"
	"github.com/land-resolver/internal/ingest"
	"github.com/land-resolver/internal/normalizer"
	"github.com/land-resolver/internal/parser"
	"github.com/land-resolver/internal/resolver"
	"github.com/land-resolver/internal/store"
	"github.com/land-resolver/routes"
)

func main() {
	configPath := os.Getenv("LAND_CONFIG")
	if configPath == "" {
		configPath = "config/app.yaml"
	}
	if err := config.Load(configPath); err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := initLogger()
	defer logger.Sync()

	logger.Info("starting land resolver service",
		zap.String("db", config.C.Database.Path),
		zap.Int("port", config.C.Server.Port))

	st, err := store.Open(config.C.Database.Path, logger)
	if err != nil {
		logger.Fatal("open store", zap.Error(err))
	}
	defer st.Close()

	norm := normalizer.NewNormalizer()
	p := parser.NewParser(norm)
	disamb := parser.NewDisambiguator(st, logger)

	addressResolver := resolver.New(st, p, norm, disamb, logger)

	matcher := community.NewMatcher(st, logger)
	if err := matcher.Refresh(context.Background()); err != nil {
		logger.Warn("community snapshot load failed", zap.Error(err))
	}

	enricher := ingest.NewEnricher(st, norm, p, disamb, config.C.Ingest.BatchSize, logger)
	ingestService := services.NewIngestService(enricher, matcher, logger)

	geoCache := initGeoCache(logger)
	geocoder := geocode.NewClient(config.C.Geocode.URL, config.GeocodeTimeout(), geoCache, norm, p, logger)

	addressController := controllers.NewAddressController(addressResolver, geocoder, norm, logger)
	communityController := controllers.NewCommunityController(matcher, addressResolver, logger)
	ingestController := controllers.NewIngestController(ingestService, logger)
	adminController := controllers.NewAdminController(st, geoCache, logger)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	routes.SetupAllRoutes(router, routes.Controllers{
		Address:   addressController,
		Community: communityController,
		Ingest:    ingestController,
		Admin:     adminController,
	})

	srv := &http.Server{
		Addr:    ":" + strconv.Itoa(config.C.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("http server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
	if geoCache != nil {
		geoCache.Close()
	}
	logger.Info("server exited")
}

// initGeoCache builds the hybrid cache when Redis is configured, the
// plain memory LRU otherwise.
func initGeoCache(logger *zap.Logger) services.GeoCache {
	memCache, err := services.NewMemoryCacheService(config.C.Geocode.CacheSize)
	if err != nil {
		logger.Fatal("init memory cache", zap.Error(err))
	}

	if config.C.Redis.URL == "" {
		logger.Info("redis not configured, memory-only geocode cache")
		return memCache
	}

	redisCache, err := services.NewRedisCacheService(config.C.Redis.URL, config.RedisTTL(), logger)
	if err != nil {
		logger.Warn("redis unavailable, memory-only geocode cache", zap.Error(err))
		return memCache
	}
	return services.NewHybridCacheService(memCache, redisCache, logger)
}

func initLogger() *zap.Logger {
	var cfg zap.Config
	if os.Getenv("APP_ENV") == "production" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}
	logger, err := cfg.Build()
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	return logger
}
