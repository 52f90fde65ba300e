package matcher

import (
	"sort"

	"skillscope/internal/embedding"
	"skillscope/internal/models"
)

// Match scores chunk vectors against a taxonomy snapshot and aggregates
// the results per entity. Vectors and snapshot rows are L2-normalized,
// so the dot product is cosine similarity; values are clamped to [0,1].
//
// For every chunk, entities scoring at or above threshold are kept. Across all
// chunks of one document the maximum similarity per entity wins, along
// with the chunk that produced it. The result is sorted descending by
// similarity, ties broken by taxonomy insertion order, and truncated to
// maxResults. Zero chunks yield an empty result.
func Match(
	chunks []models.Chunk,
	vectors [][]float32,
	snap *embedding.Snapshot,
	names map[string]string,
	threshold float64,
	maxResults int,
) []models.MatchResult {
	if len(chunks) == 0 || len(vectors) == 0 || snap == nil || snap.Len() == 0 {
		return nil
	}

	type best struct {
		similarity float64
		chunk      int
	}
	bestByEntity := make(map[int]best)

	for ci := range vectors {
		if ci >= len(chunks) {
			break
		}
		for ei := 0; ei < snap.Len(); ei++ {
			sim := clamp01(dot(vectors[ci], snap.Row(ei)))
			if sim < threshold {
				continue
			}
			if prev, ok := bestByEntity[ei]; !ok || sim > prev.similarity {
				bestByEntity[ei] = best{similarity: sim, chunk: ci}
			}
		}
	}

	if len(bestByEntity) == 0 {
		return nil
	}

	indices := make([]int, 0, len(bestByEntity))
	for ei := range bestByEntity {
		indices = append(indices, ei)
	}
	// Stable, deterministic ordering: similarity descending, then the
	// entity's position in the taxonomy.
	sort.Slice(indices, func(a, b int) bool {
		ba, bb := bestByEntity[indices[a]], bestByEntity[indices[b]]
		if ba.similarity != bb.similarity {
			return ba.similarity > bb.similarity
		}
		return indices[a] < indices[b]
	})

	if maxResults > 0 && len(indices) > maxResults {
		indices = indices[:maxResults]
	}

	results := make([]models.MatchResult, 0, len(indices))
	for _, ei := range indices {
		b := bestByEntity[ei]
		uri := snap.IDs[ei]
		results = append(results, models.MatchResult{
			URI:          uri,
			Name:         names[uri],
			Similarity:   b.similarity,
			MatchedChunk: chunks[b.chunk].Text,
		})
	}
	return results
}

func dot(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
