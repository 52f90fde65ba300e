package embedding

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Entity is one taxonomy entry to embed: its stable URI and the text
// fed to the model (description, falling back to labels).
type Entity struct {
	URI  string
	Text string
}

// Store manages versioned embedding snapshots. Snapshots are built
// lazily per (entity type, model fingerprint, dataset version), persisted
// as immutable artifacts, and shared read-only once loaded. Concurrent
// requests for the same fingerprint join a single in-flight build.
type Store struct {
	cacheDir       string
	datasetVersion string
	batchSize      int
	embedder       Embedder
	logger         *zap.Logger

	group singleflight.Group

	mu        sync.RWMutex
	snapshots map[string]*Snapshot
}

func NewStore(cacheDir, datasetVersion string, batchSize int, embedder Embedder, logger *zap.Logger) *Store {
	if batchSize <= 0 {
		batchSize = 64
	}
	return &Store{
		cacheDir:       cacheDir,
		datasetVersion: datasetVersion,
		batchSize:      batchSize,
		embedder:       embedder,
		logger:         logger,
		snapshots:      make(map[string]*Snapshot),
	}
}

// CacheFilename is the artifact name for one (entity type, fingerprint,
// dataset version) triple.
func CacheFilename(entityType, fingerprint, datasetVersion string) string {
	return fmt.Sprintf("%s_embeddings_%s_%s.json", entityType, fingerprint, datasetVersion)
}

// GetOrBuild returns the snapshot for the given entity type, loading it
// from disk or regenerating it through the embedder when no compatible
// artifact exists. At most one regeneration per fingerprint is in flight
// at any time; concurrent callers share its result.
func (s *Store) GetOrBuild(ctx context.Context, entityType string, entities []Entity) (*Snapshot, error) {
	fingerprint := Fingerprint(s.embedder.ModelID())
	key := CacheFilename(entityType, fingerprint, s.datasetVersion)

	s.mu.RLock()
	snap, ok := s.snapshots[key]
	s.mu.RUnlock()
	if ok {
		return snap, nil
	}

	result, err, _ := s.group.Do(key, func() (interface{}, error) {
		// A concurrent caller may have finished while we waited.
		s.mu.RLock()
		cached, ok := s.snapshots[key]
		s.mu.RUnlock()
		if ok {
			return cached, nil
		}

		snap, err := s.loadOrBuild(ctx, entityType, fingerprint, entities)
		if err != nil {
			return nil, err
		}

		s.mu.Lock()
		s.snapshots[key] = snap
		s.mu.Unlock()
		return snap, nil
	})
	if err != nil {
		return nil, err
	}

	return result.(*Snapshot), nil
}

func (s *Store) loadOrBuild(ctx context.Context, entityType, fingerprint string, entities []Entity) (*Snapshot, error) {
	s.warnLegacyArtifacts(entityType, fingerprint)

	path := filepath.Join(s.cacheDir, CacheFilename(entityType, fingerprint, s.datasetVersion))
	if _, err := os.Stat(path); err == nil {
		snap, err := LoadSnapshot(path)
		switch {
		case err == nil && snap.Dim == s.embedder.Dimension():
			s.logger.Info("Embedding cache loaded",
				zap.String("entity_type", entityType),
				zap.String("fingerprint", fingerprint),
				zap.Int("entities", snap.Len()),
			)
			return snap, nil
		case err == nil:
			s.logger.Warn("Embedding cache dimension mismatch, regenerating",
				zap.String("entity_type", entityType),
				zap.Int("cache_dim", snap.Dim),
				zap.Int("model_dim", s.embedder.Dimension()),
			)
		case errors.Is(err, ErrDimensionMismatch):
			s.logger.Warn("Embedding cache dimension mismatch, regenerating",
				zap.String("entity_type", entityType), zap.Error(err))
		default:
			s.logger.Warn("Embedding cache unreadable, regenerating",
				zap.String("entity_type", entityType), zap.Error(err))
		}
	}

	return s.build(ctx, entityType, fingerprint, entities)
}

func (s *Store) build(ctx context.Context, entityType, fingerprint string, entities []Entity) (*Snapshot, error) {
	s.logger.Info("Generating embeddings",
		zap.String("entity_type", entityType),
		zap.String("model", s.embedder.ModelID()),
		zap.Int("entities", len(entities)),
	)
	start := time.Now()

	ids := make([]string, len(entities))
	matrix := make([][]float32, 0, len(entities))

	for i, e := range entities {
		ids[i] = e.URI
	}

	for offset := 0; offset < len(entities); offset += s.batchSize {
		end := offset + s.batchSize
		if end > len(entities) {
			end = len(entities)
		}

		texts := make([]string, 0, end-offset)
		for _, e := range entities[offset:end] {
			texts = append(texts, e.Text)
		}

		vectors, err := s.embedder.Embed(ctx, texts)
		if err != nil {
			return nil, fmt.Errorf("failed to embed %s batch at offset %d: %w", entityType, offset, err)
		}
		for _, v := range vectors {
			matrix = append(matrix, Normalize(v))
		}
	}

	snap := &Snapshot{
		EntityType:     entityType,
		ModelID:        s.embedder.ModelID(),
		Fingerprint:    fingerprint,
		DatasetVersion: s.datasetVersion,
		Dim:            s.embedder.Dimension(),
		IDs:            ids,
		Matrix:         matrix,
		CreatedAt:      time.Now().UTC(),
	}

	if err := os.MkdirAll(s.cacheDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache dir: %w", err)
	}
	path := filepath.Join(s.cacheDir, CacheFilename(entityType, fingerprint, s.datasetVersion))
	if err := snap.Save(path); err != nil {
		return nil, err
	}

	s.logger.Info("Embedding cache written",
		zap.String("entity_type", entityType),
		zap.String("file", filepath.Base(path)),
		zap.Duration("took", time.Since(start)),
	)

	return snap, nil
}

// warnLegacyArtifacts reports unversioned cache files left by earlier
// layouts. They are never reused, only logged as a migration notice.
func (s *Store) warnLegacyArtifacts(entityType, fingerprint string) {
	legacy := []string{
		filepath.Join(s.cacheDir, fmt.Sprintf("%s_embeddings.json", entityType)),
		filepath.Join(s.cacheDir, fmt.Sprintf("%s_embeddings_%s.json", entityType, fingerprint)),
	}
	for _, path := range legacy {
		if _, err := os.Stat(path); err == nil {
			s.logger.Warn("Ignoring legacy embedding cache without dataset version",
				zap.String("file", filepath.Base(path)),
				zap.String("model", s.embedder.ModelID()),
			)
		}
	}
}
