package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"skillscope/internal/api"
	"skillscope/internal/api/handlers"
	"skillscope/internal/embedding"
	"skillscope/internal/intelligence"
	"skillscope/internal/repository"
	"skillscope/internal/service"
	"skillscope/internal/taxonomy"
	"skillscope/pkg/config"
	"skillscope/pkg/logger"
	"skillscope/pkg/postgres"

	"go.uber.org/zap"
)

// @title Skillscope API
// @version 1.0
// @description Semantic skill extraction and career intelligence over the ESCO taxonomy

// @host localhost:8080
// @BasePath /api/v1

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	if err := logger.Init(cfg.Logger.Level); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	appLogger := logger.Get()
	appLogger.Info("Starting skillscope service")

	ctx := context.Background()

	// Load taxonomy dataset
	dataset, err := taxonomy.Load(cfg.Taxonomy.DatasetDir, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to load taxonomy dataset", zap.Error(err))
	}
	graph := taxonomy.NewGraph(dataset)
	appLogger.Info("Taxonomy loaded",
		zap.String("version", cfg.Taxonomy.DatasetVersion),
		zap.Int("skills", len(dataset.Skills)),
		zap.Int("occupations", len(dataset.Occupations)),
	)

	// Embedding client and versioned snapshot store
	embedder := embedding.NewClient(&cfg.Embedding, appLogger)
	store := embedding.NewStore(cfg.Embedding.CacheDir, cfg.Taxonomy.DatasetVersion, cfg.Embedding.BatchSize, embedder, appLogger)

	// Warm the taxonomy snapshots before accepting traffic so the first
	// request does not pay the build cost.
	if _, err := store.GetOrBuild(ctx, "skills", graph.SkillEntities()); err != nil {
		appLogger.Fatal("Failed to prepare skill embeddings", zap.Error(err))
	}
	if _, err := store.GetOrBuild(ctx, "occupations", graph.OccupationEntities()); err != nil {
		appLogger.Fatal("Failed to prepare occupation embeddings", zap.Error(err))
	}

	// Optional report persistence
	var reportRepo *repository.ReportRepository
	if cfg.Database.ReportStore {
		db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
		if err != nil {
			appLogger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer db.Close()
		reportRepo = repository.NewReportRepository(db, appLogger)
	} else {
		appLogger.Info("Report storage disabled, reports are not persisted")
	}

	// Optional best-effort context enrichment
	var contextService *service.ContextService
	if cfg.GigaChat.Enabled {
		contextService, err = service.NewContextService(&cfg.GigaChat, appLogger)
		if err != nil {
			appLogger.Fatal("Failed to initialize context service", zap.Error(err))
		}
	} else {
		appLogger.Info("Context enrichment disabled")
	}

	engine := intelligence.NewEngine(graph, intelligence.Config{
		EssentialWeight:  cfg.Intelligence.EssentialWeight,
		OptionalWeight:   cfg.Intelligence.OptionalWeight,
		CoverageFloor:    cfg.Intelligence.CoverageFloor,
		GapThreshold:     cfg.Intelligence.GapThreshold,
		LowEffortMax:     cfg.Intelligence.LowEffortMax,
		MediumEffortMax:  cfg.Intelligence.MediumEffortMax,
		StrongMatchScore: cfg.Intelligence.StrongMatchScore,
		TopOpportunities: cfg.Intelligence.TopOpportunities,
	})

	pdfService := service.NewPDFService(appLogger)
	extractionService := service.NewExtractionService(
		graph, store, embedder, &cfg.Matching, engine, contextService, pdfService, appLogger,
	)

	// Initialize handlers
	analysisHandler := handlers.NewAnalysisHandler(extractionService, reportRepo, appLogger)
	taxonomyHandler := handlers.NewTaxonomyHandler(graph, appLogger)
	healthHandler := handlers.NewHealthHandler(graph, cfg.Taxonomy.DatasetVersion, cfg.Embedding.ModelID)

	// Setup router
	app := api.SetupRouter(analysisHandler, taxonomyHandler, healthHandler)

	// Start server
	go func() {
		addr := ":" + cfg.Server.Port
		appLogger.Info("Server starting", zap.String("address", addr))
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	if err := app.Shutdown(); err != nil {
		appLogger.Error("Server shutdown error", zap.Error(err))
	}
}
