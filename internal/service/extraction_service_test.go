package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"skillscope/internal/embedding"
	"skillscope/internal/intelligence"
	"skillscope/internal/models"
	"skillscope/internal/taxonomy"
	"skillscope/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubEmbedder maps lowercased text to fixed unit vectors. Unknown text
// embeds to the zero vector, which matches nothing.
type stubEmbedder struct {
	vectors map[string][]float32
	calls   int
}

func (e *stubEmbedder) ModelID() string { return "stub-model" }
func (e *stubEmbedder) Dimension() int  { return 4 }

func (e *stubEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	e.calls++
	out := make([][]float32, len(texts))
	for i, text := range texts {
		if v, ok := e.vectors[strings.ToLower(strings.TrimSpace(text))]; ok {
			out[i] = append([]float32(nil), v...)
		} else {
			out[i] = make([]float32, 4)
		}
	}
	return out, nil
}

type stubGenerator struct {
	response string
	err      error
	blocking bool
}

func (g *stubGenerator) Generate(ctx context.Context, _ string) (string, error) {
	if g.blocking {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return g.response, g.err
}

func testGraph() *taxonomy.Graph {
	ds := &taxonomy.Dataset{
		Skills: []models.Skill{
			{URI: "s/python", Name: "python", Categories: []string{"digital"}},
			{URI: "s/ml", Name: "machine learning", Categories: []string{"digital"}},
			{URI: "s/welding", Name: "welding"},
		},
		Occupations: []models.Occupation{
			{URI: "o/data-engineer", Name: "data engineer"},
		},
		Relations: []models.Relation{
			{OccupationURI: "o/data-engineer", SkillURI: "s/python", Essentiality: models.EssentialityEssential},
			{OccupationURI: "o/data-engineer", SkillURI: "s/ml", Essentiality: models.EssentialityEssential},
			{OccupationURI: "o/data-engineer", SkillURI: "s/welding", Essentiality: models.EssentialityOptional},
		},
	}
	return taxonomy.NewGraph(ds)
}

func testEmbedder() *stubEmbedder {
	return &stubEmbedder{vectors: map[string][]float32{
		"python":           {1, 0, 0, 0},
		"machine learning": {0, 1, 0, 0},
		"welding":          {0, 0, 1, 0},
		"data engineer":    {0, 0, 0, 1},
		// Related to python but below the 0.6 skills threshold.
		"django": {0.5, 0.5, 0.5, 0.5},
	}}
}

func newTestService(t *testing.T, contextService *ContextService) (*ExtractionService, *stubEmbedder) {
	t.Helper()

	embedder := testEmbedder()
	graph := testGraph()
	store := embedding.NewStore(t.TempDir(), "v1.2.0", 64, embedder, zap.NewNop())
	matching := &config.MatchingConfig{
		SkillsThreshold:      0.6,
		OccupationsThreshold: 0.55,
		MaxResults:           10,
	}
	engine := intelligence.NewEngine(graph, intelligence.DefaultConfig())

	svc := NewExtractionService(graph, store, embedder, matching, engine, contextService, NewPDFService(zap.NewNop()), zap.NewNop())
	return svc, embedder
}

func newTestContext(gen generator, timeout time.Duration) *ContextService {
	return &ContextService{gen: gen, timeout: timeout, logger: zap.NewNop()}
}

func TestExtractReturnsSkillsAboveThreshold(t *testing.T) {
	svc, _ := newTestService(t, nil)

	result, err := svc.Extract(context.Background(), "Python, Django, AWS, machine learning", nil)
	require.NoError(t, err)

	// AWS is below the minimum chunk length and django stays below the
	// similarity threshold, so only two skills survive.
	require.Len(t, result.Skills, 2)
	assert.Equal(t, "s/python", result.Skills[0].URI)
	assert.Equal(t, "python", result.Skills[0].Name)
	assert.InDelta(t, 1.0, result.Skills[0].Similarity, 1e-6)
	assert.Equal(t, "Python", result.Skills[0].MatchedChunk)
	assert.Equal(t, "s/ml", result.Skills[1].URI)
	assert.InDelta(t, 1.0, result.Skills[1].Similarity, 1e-6)
	assert.Equal(t, 3, result.ChunkCount)
	assert.Empty(t, result.Occupations)
}

func TestExtractEmptyInput(t *testing.T) {
	svc, embedder := newTestService(t, nil)

	result, err := svc.Extract(context.Background(), "   \n\t ", nil)
	require.NoError(t, err)

	assert.Equal(t, 0, result.ChunkCount)
	assert.NotNil(t, result.Skills)
	assert.Empty(t, result.Skills)
	assert.NotNil(t, result.Occupations)
	assert.Empty(t, result.Occupations)
	assert.Zero(t, embedder.calls)
}

func TestExtractMatchesOccupations(t *testing.T) {
	svc, _ := newTestService(t, nil)

	result, err := svc.Extract(context.Background(), "Data engineer, Python", nil)
	require.NoError(t, err)

	require.Len(t, result.Occupations, 1)
	assert.Equal(t, "o/data-engineer", result.Occupations[0].URI)
	assert.Equal(t, "Data engineer", result.Occupations[0].MatchedChunk)
	require.Len(t, result.Skills, 1)
	assert.Equal(t, "s/python", result.Skills[0].URI)
}

func TestExtractHonorsPerRequestOverrides(t *testing.T) {
	svc, _ := newTestService(t, nil)

	// Lowering the skills threshold lets the weaker django vector
	// through; capping max results to one keeps only the best match.
	threshold := 0.4
	result, err := svc.Extract(context.Background(), "Python, Django", &MatchOptions{
		SkillsThreshold: &threshold,
	})
	require.NoError(t, err)
	require.Len(t, result.Skills, 3)

	limit := 1
	result, err = svc.Extract(context.Background(), "Python, Django", &MatchOptions{
		SkillsThreshold: &threshold,
		MaxResults:      &limit,
	})
	require.NoError(t, err)
	require.Len(t, result.Skills, 1)
	assert.Equal(t, "s/python", result.Skills[0].URI)
}

func TestAnalyzeProducesCareerIntelligence(t *testing.T) {
	svc, _ := newTestService(t, nil)

	report, err := svc.Analyze(context.Background(), "Python, machine learning")
	require.NoError(t, err)

	assert.False(t, report.Partial)
	assert.Nil(t, report.ContextAnnotations)
	assert.NotZero(t, report.ID)
	assert.False(t, report.CreatedAt.IsZero())

	require.Len(t, report.JobMatches, 1)
	m := report.JobMatches[0]
	assert.Equal(t, "data engineer", m.Name)
	assert.InDelta(t, 1.0, m.Coverage.Essential, 1e-9)
	assert.InDelta(t, 0.0, m.Coverage.Optional, 1e-9)
	assert.InDelta(t, 0.7, m.MatchScore, 1e-9)

	// Nothing essential is missing, so no opportunity either.
	assert.Empty(t, report.CareerOpportunities)
	assert.Equal(t, 2, report.SkillGapAnalysis.CurrentCategories["digital"])
}

func TestAnalyzeContextFailureMarksPartial(t *testing.T) {
	contextService := newTestContext(&stubGenerator{err: fmt.Errorf("upstream unavailable")}, time.Second)
	svc, _ := newTestService(t, contextService)

	report, err := svc.Analyze(context.Background(), "Python, machine learning")
	require.NoError(t, err)

	assert.True(t, report.Partial)
	assert.Nil(t, report.ContextAnnotations)
	require.Len(t, report.JobMatches, 1)
}

func TestAnalyzeContextTimeoutMarksPartial(t *testing.T) {
	contextService := newTestContext(&stubGenerator{blocking: true}, 20*time.Millisecond)
	svc, _ := newTestService(t, contextService)

	report, err := svc.Analyze(context.Background(), "Python, machine learning")
	require.NoError(t, err)

	assert.True(t, report.Partial)
	assert.Nil(t, report.ContextAnnotations)
	require.Len(t, report.JobMatches, 1)
}

func TestAnalyzeAttachesFilteredAnnotations(t *testing.T) {
	response := `{
		"skills": [
			{"skill_name": "Python", "proficiency_level": "advanced", "years_experience": "5+"},
			{"skill_name": "kubernetes", "proficiency_level": "expert"}
		],
		"sections": [{"name": "Experience", "items": ["Data platform team"]}]
	}`
	contextService := newTestContext(&stubGenerator{response: response}, time.Second)
	svc, _ := newTestService(t, contextService)

	report, err := svc.Analyze(context.Background(), "Python, machine learning")
	require.NoError(t, err)

	assert.False(t, report.Partial)
	require.NotNil(t, report.ContextAnnotations)
	// kubernetes was never matched, so its annotation is discarded.
	require.Len(t, report.ContextAnnotations.Skills, 1)
	assert.Equal(t, "Python", report.ContextAnnotations.Skills[0].SkillName)
	assert.Equal(t, "advanced", report.ContextAnnotations.Skills[0].ProficiencyLevel)
	require.Len(t, report.ContextAnnotations.Sections, 1)
	assert.Equal(t, "Experience", report.ContextAnnotations.Sections[0].Name)
}

func TestAnalyzeSkipsContextWithoutSkills(t *testing.T) {
	gen := &stubGenerator{response: `{"skills": [], "sections": []}`}
	contextService := newTestContext(gen, time.Second)
	svc, _ := newTestService(t, contextService)

	report, err := svc.Analyze(context.Background(), "   ")
	require.NoError(t, err)

	assert.False(t, report.Partial)
	assert.Nil(t, report.ContextAnnotations)
}

func TestParseAnnotationsToleratesMarkdown(t *testing.T) {
	content := "Here is the result:\n```json\n{\"skills\": [{\"skill_name\": \"python\"}], \"sections\": []}\n```"
	annotations, err := parseAnnotations(content)
	require.NoError(t, err)
	require.Len(t, annotations.Skills, 1)
	assert.Equal(t, "python", annotations.Skills[0].SkillName)
}

func TestParseAnnotationsRejectsNonJSON(t *testing.T) {
	_, err := parseAnnotations("I could not find any context.")
	assert.Error(t, err)
}
