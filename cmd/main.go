package main

import (
	"context"
	"fmt"
	"os"

	"github.com/huskygraph/huskygraph-backend/internal/app"
	redisclient "github.com/huskygraph/huskygraph-backend/internal/clients/redis"
	"github.com/huskygraph/huskygraph-backend/internal/db"
	"github.com/huskygraph/huskygraph-backend/internal/handlers"
	"github.com/huskygraph/huskygraph-backend/internal/logger"
	"github.com/huskygraph/huskygraph-backend/internal/matching"
	"github.com/huskygraph/huskygraph-backend/internal/observability"
	"github.com/huskygraph/huskygraph-backend/internal/repos"
	"github.com/huskygraph/huskygraph-backend/internal/scrape"
	"github.com/huskygraph/huskygraph-backend/internal/server"
	"github.com/huskygraph/huskygraph-backend/internal/services"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Config
	log.Info("Loading configuration...")
	cfg := app.LoadConfig(log)

	// Tracing
	shutdownOTel := observability.InitOTel(context.Background(), log, observability.OtelConfig{
		ServiceName: "huskygraph-backend",
		Environment: os.Getenv("APP_ENV"),
		Version:     os.Getenv("APP_VERSION"),
	})
	if shutdownOTel != nil {
		defer shutdownOTel(context.Background())
	}

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	// Cache (optional)
	var cache services.Cache
	if redisCache, err := redisclient.NewCache(log); err != nil {
		log.Warn("Redis cache disabled", "error", err)
	} else {
		cache = redisCache
		defer redisCache.Close()
	}

	// Repos
	log.Info("Setting up repos...")
	dogRepo := repos.NewDogRepo(thePG, log)
	mergeLogRepo := repos.NewMergeLogRepo(thePG, log)
	personRepo := repos.NewPersonRepo(thePG, log)
	titleRepo := repos.NewTitleRepo(thePG, log)
	litterRepo := repos.NewLitterRepo(thePG, log)
	medicalRepo := repos.NewMedicalRecordRepo(thePG, log)

	// Matching
	matcher := matching.NewMatcher(dogRepo, cfg.MatchThreshold, log)

	// Services
	log.Info("Setting up services...")
	dogService := services.NewDogService(thePG, dogRepo, mergeLogRepo, cache, cfg.CacheTTL, log)
	ingestService := services.NewIngestService(dogRepo, litterRepo, personRepo, titleRepo, medicalRepo, matcher, cfg.IngestMaxDepth, cache, log)

	var scrapers []services.SourceScraper
	if catalog, err := app.LoadSourceCatalog(cfg.SourcesFile); err != nil {
		log.Warn("Source catalog unavailable, refresh disabled", "error", err)
	} else {
		for _, src := range catalog.Sources {
			scrapers = append(scrapers, scrape.NewHTTPScraper(src, catalog.UserAgents, log))
		}
	}
	refreshService := services.NewRefreshService(scrapers, ingestService, cache, log)

	// Handlers
	log.Info("Setting up handlers...")
	dogHandler := handlers.NewDogHandler(dogService)
	pedigreeHandler := handlers.NewPedigreeHandler(dogService, cfg.COIMaxGenerations)
	ingestHandler := handlers.NewIngestHandler(ingestService, refreshService)
	medicalHandler := handlers.NewMedicalRecordHandler(ingestService, medicalRepo)

	// Router
	router := server.NewRouter(server.RouterConfig{
		AllowOrigins:    cfg.AllowOrigins,
		DogHandler:      dogHandler,
		PedigreeHandler: pedigreeHandler,
		IngestHandler:   ingestHandler,
		MedicalHandler:  medicalHandler,
	})

	log.Info("Server listening", "addr", cfg.ListenAddr)
	if err := router.Run(cfg.ListenAddr); err != nil {
		log.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
