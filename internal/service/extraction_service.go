package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"skillscope/internal/chunker"
	"skillscope/internal/embedding"
	"skillscope/internal/intelligence"
	"skillscope/internal/matcher"
	"skillscope/internal/models"
	"skillscope/internal/taxonomy"
	"skillscope/pkg/config"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	entitySkills      = "skills"
	entityOccupations = "occupations"
)

// ExtractionService runs the full pipeline: chunk the input, embed the
// chunks, match them against the taxonomy, and derive career
// intelligence from the matched skills. Context enrichment is strictly
// best effort; its failure never fails a request.
type ExtractionService struct {
	chunker  *chunker.Chunker
	graph    *taxonomy.Graph
	store    *embedding.Store
	embedder embedding.Embedder
	matching *config.MatchingConfig
	engine   *intelligence.Engine
	context  *ContextService
	pdf      *PDFService
	logger   *zap.Logger
}

func NewExtractionService(
	graph *taxonomy.Graph,
	store *embedding.Store,
	embedder embedding.Embedder,
	matching *config.MatchingConfig,
	engine *intelligence.Engine,
	contextService *ContextService,
	pdfService *PDFService,
	logger *zap.Logger,
) *ExtractionService {
	return &ExtractionService{
		chunker:  chunker.New(),
		graph:    graph,
		store:    store,
		embedder: embedder,
		matching: matching,
		engine:   engine,
		context:  contextService,
		pdf:      pdfService,
		logger:   logger,
	}
}

// MatchOptions overrides the configured matching parameters for a
// single request. Nil fields keep the configured defaults.
type MatchOptions struct {
	SkillsThreshold      *float64
	OccupationsThreshold *float64
	MaxResults           *int
}

func (o *MatchOptions) resolve(cfg *config.MatchingConfig) (skills, occupations float64, maxResults int) {
	skills, occupations, maxResults = cfg.SkillsThreshold, cfg.OccupationsThreshold, cfg.MaxResults
	if o == nil {
		return
	}
	if o.SkillsThreshold != nil {
		skills = *o.SkillsThreshold
	}
	if o.OccupationsThreshold != nil {
		occupations = *o.OccupationsThreshold
	}
	if o.MaxResults != nil {
		maxResults = *o.MaxResults
	}
	return
}

// Extract matches the input text against the skill and occupation
// taxonomies. Input that produces no chunks yields an empty result, not
// an error.
func (s *ExtractionService) Extract(ctx context.Context, text string, opts *MatchOptions) (*models.ExtractionResult, error) {
	result := &models.ExtractionResult{
		Skills:      []models.MatchResult{},
		Occupations: []models.MatchResult{},
	}

	chunks := s.chunker.Chunk(text)
	result.ChunkCount = len(chunks)
	if len(chunks) == 0 {
		s.logger.Info("Input produced no chunks, skipping extraction")
		return result, nil
	}

	skillSnap, err := s.store.GetOrBuild(ctx, entitySkills, s.graph.SkillEntities())
	if err != nil {
		return nil, fmt.Errorf("failed to load skill embeddings: %w", err)
	}
	occupationSnap, err := s.store.GetOrBuild(ctx, entityOccupations, s.graph.OccupationEntities())
	if err != nil {
		return nil, fmt.Errorf("failed to load occupation embeddings: %w", err)
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}
	vectors, err := s.embedder.Embed(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("failed to embed chunks: %w", err)
	}
	for i := range vectors {
		embedding.Normalize(vectors[i])
	}

	skillsThreshold, occupationsThreshold, maxResults := opts.resolve(s.matching)
	if skills := matcher.Match(chunks, vectors, skillSnap, s.graph.SkillNames(),
		skillsThreshold, maxResults); skills != nil {
		result.Skills = skills
	}
	if occupations := matcher.Match(chunks, vectors, occupationSnap, s.graph.OccupationNames(),
		occupationsThreshold, maxResults); occupations != nil {
		result.Occupations = occupations
	}

	s.logger.Info("Extraction completed",
		zap.Int("chunks", len(chunks)),
		zap.Int("skills", len(result.Skills)),
		zap.Int("occupations", len(result.Occupations)),
	)

	return result, nil
}

// Analyze runs extraction and the full career intelligence suite, then
// attaches best-effort context annotations. When the context
// collaborator fails or times out, the report is returned with Partial
// set instead of an error.
func (s *ExtractionService) Analyze(ctx context.Context, text string) (*models.AnalysisReport, error) {
	extraction, err := s.Extract(ctx, text, nil)
	if err != nil {
		return nil, err
	}

	userSkills := make(map[string]struct{}, len(extraction.Skills))
	for _, m := range extraction.Skills {
		userSkills[m.URI] = struct{}{}
	}

	opportunities := s.engine.CareerOpportunities(userSkills)

	report := &models.AnalysisReport{
		ID:                  uuid.New(),
		Extraction:          *extraction,
		JobMatches:          s.engine.JobMatches(userSkills),
		CareerOpportunities: opportunities,
		SkillGapAnalysis:    s.engine.SkillGaps(userSkills, opportunities),
		CreatedAt:           time.Now().UTC(),
	}

	if s.context != nil && len(extraction.Skills) > 0 {
		annotations, err := s.context.Annotate(ctx, text, extraction.Skills)
		if err != nil {
			s.logger.Warn("Context enrichment failed, returning base report",
				zap.String("report_id", report.ID.String()),
				zap.Error(err),
			)
			report.Partial = true
		} else {
			report.ContextAnnotations = annotations
		}
	}

	return report, nil
}

// AnalyzePDF extracts text from an uploaded PDF and analyzes it.
func (s *ExtractionService) AnalyzePDF(ctx context.Context, reader io.Reader) (*models.AnalysisReport, error) {
	if s.pdf == nil {
		return nil, fmt.Errorf("PDF extraction is not configured")
	}
	text, err := s.pdf.ExtractText(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to extract text from PDF: %w", err)
	}
	return s.Analyze(ctx, text)
}
