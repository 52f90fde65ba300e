package matcher

import (
	"math"
	"testing"

	"skillscope/internal/embedding"
	"skillscope/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSnapshot() *embedding.Snapshot {
	// Orthonormal rows keep the similarity arithmetic obvious.
	return &embedding.Snapshot{
		EntityType: "skill",
		Dim:        3,
		IDs:        []string{"uri/python", "uri/ml", "uri/welding"},
		Matrix: [][]float32{
			{1, 0, 0},
			{0, 1, 0},
			{0, 0, 1},
		},
	}
}

func testNames() map[string]string {
	return map[string]string{
		"uri/python":  "Python",
		"uri/ml":      "machine learning",
		"uri/welding": "welding",
	}
}

func TestMatchEmptyInput(t *testing.T) {
	assert.Nil(t, Match(nil, nil, testSnapshot(), testNames(), 0.5, 10))
	assert.Nil(t, Match([]models.Chunk{{Text: "x"}}, nil, testSnapshot(), testNames(), 0.5, 10))
}

func TestMatchSelfSimilarity(t *testing.T) {
	snap := testSnapshot()
	chunks := []models.Chunk{{Text: "python"}}
	vectors := [][]float32{{1, 0, 0}}

	results := Match(chunks, vectors, snap, testNames(), 0.9, 10)

	require.Len(t, results, 1)
	assert.Equal(t, "uri/python", results[0].URI)
	assert.InDelta(t, 1.0, results[0].Similarity, 1e-6)
}

func TestMatchThresholdFilters(t *testing.T) {
	snap := testSnapshot()
	chunks := []models.Chunk{{Text: "mixed"}}
	// cos with python row = 0.8, ml row = 0.6, welding row = 0.
	v := []float32{0.8, 0.6, 0}
	vectors := [][]float32{v}

	results := Match(chunks, vectors, snap, testNames(), 0.7, 10)
	require.Len(t, results, 1)
	assert.Equal(t, "uri/python", results[0].URI)

	results = Match(chunks, vectors, snap, testNames(), 0.5, 10)
	require.Len(t, results, 2)
	assert.Equal(t, "uri/python", results[0].URI)
	assert.Equal(t, "uri/ml", results[1].URI)
}

func TestMatchThresholdMonotonicity(t *testing.T) {
	snap := testSnapshot()
	chunks := []models.Chunk{{Text: "a"}, {Text: "b"}}
	vectors := [][]float32{
		{0.9, 0.3, 0.1},
		{0.2, 0.8, 0.5},
	}

	prev := math.MaxInt
	for _, threshold := range []float64{0.0, 0.2, 0.4, 0.6, 0.8, 1.0} {
		count := len(Match(chunks, vectors, snap, testNames(), threshold, 100))
		assert.LessOrEqual(t, count, prev, "raising the threshold must never grow the result set")
		prev = count
	}

	// threshold = 1 keeps only near-identical vectors, and cosine is
	// clamped to 1, so nothing can exceed it.
	assert.Empty(t, Match(chunks, vectors, snap, testNames(), 1.0, 100))
}

func TestMatchAggregatesMaxAcrossChunks(t *testing.T) {
	snap := testSnapshot()
	chunks := []models.Chunk{{Text: "weak python"}, {Text: "strong python"}}
	vectors := [][]float32{
		{0.7, 0, 0},
		{0.95, 0, 0},
	}

	results := Match(chunks, vectors, snap, testNames(), 0.5, 10)

	require.Len(t, results, 1)
	assert.InDelta(t, 0.95, results[0].Similarity, 1e-6)
	assert.Equal(t, "strong python", results[0].MatchedChunk)
}

func TestMatchTieBreakByInsertionOrder(t *testing.T) {
	snap := testSnapshot()
	chunks := []models.Chunk{{Text: "both"}}
	// Identical similarity against python and ml.
	vectors := [][]float32{{0.7, 0.7, 0}}

	results := Match(chunks, vectors, snap, testNames(), 0.5, 10)

	require.Len(t, results, 2)
	assert.Equal(t, "uri/python", results[0].URI)
	assert.Equal(t, "uri/ml", results[1].URI)
}

func TestMatchTruncatesToMaxResults(t *testing.T) {
	snap := testSnapshot()
	chunks := []models.Chunk{{Text: "everything"}}
	vectors := [][]float32{{0.6, 0.7, 0.8}}

	results := Match(chunks, vectors, snap, testNames(), 0.5, 2)

	require.Len(t, results, 2)
	assert.Equal(t, "uri/welding", results[0].URI)
	assert.Equal(t, "uri/ml", results[1].URI)
}

func TestMatchClampsNegativeSimilarity(t *testing.T) {
	snap := testSnapshot()
	chunks := []models.Chunk{{Text: "anti"}}
	vectors := [][]float32{{-1, 0, 0}}

	// A negative cosine clamps to 0 and can never pass a positive
	// threshold.
	assert.Empty(t, Match(chunks, vectors, snap, testNames(), 0.1, 10))
}
