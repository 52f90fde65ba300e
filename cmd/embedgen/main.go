package main

import (
	"context"
	"log"

	"skillscope/internal/embedding"
	"skillscope/internal/taxonomy"
	"skillscope/pkg/config"
	"skillscope/pkg/logger"

	"go.uber.org/zap"
)

// embedgen builds the versioned taxonomy embedding snapshots offline so
// a deployment can ship with warm caches instead of paying the build
// cost on first boot.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Logger.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	appLogger := logger.Get()

	ctx := context.Background()

	dataset, err := taxonomy.Load(cfg.Taxonomy.DatasetDir, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to load taxonomy dataset", zap.Error(err))
	}
	graph := taxonomy.NewGraph(dataset)

	embedder := embedding.NewClient(&cfg.Embedding, appLogger)
	store := embedding.NewStore(cfg.Embedding.CacheDir, cfg.Taxonomy.DatasetVersion, cfg.Embedding.BatchSize, embedder, appLogger)

	fingerprint := embedding.Fingerprint(cfg.Embedding.ModelID)
	appLogger.Info("Building embedding snapshots",
		zap.String("model", cfg.Embedding.ModelID),
		zap.String("fingerprint", fingerprint),
		zap.String("dataset_version", cfg.Taxonomy.DatasetVersion),
		zap.String("cache_dir", cfg.Embedding.CacheDir),
	)

	for entityType, entities := range map[string][]embedding.Entity{
		"skills":      graph.SkillEntities(),
		"occupations": graph.OccupationEntities(),
	} {
		snap, err := store.GetOrBuild(ctx, entityType, entities)
		if err != nil {
			appLogger.Fatal("Failed to build snapshot",
				zap.String("entity_type", entityType),
				zap.Error(err),
			)
		}
		appLogger.Info("Snapshot ready",
			zap.String("entity_type", entityType),
			zap.String("file", embedding.CacheFilename(entityType, fingerprint, cfg.Taxonomy.DatasetVersion)),
			zap.Int("entities", snap.Len()),
			zap.Int("dim", snap.Dim),
		)
	}
}
