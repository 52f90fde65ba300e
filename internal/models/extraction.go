package models

// Chunk is a short text fragment produced from one input document.
// Offset is the rune offset of the fragment's first occurrence in the
// cleaned input, kept for traceability.
type Chunk struct {
	Text   string `json:"text"`
	Offset int    `json:"offset"`
}

// MatchResult is one taxonomy entity matched against the input text.
// Similarity is cosine similarity normalized to [0,1]; MatchedChunk is
// the chunk that produced the best score for this entity.
type MatchResult struct {
	URI          string  `json:"uri"`
	Name         string  `json:"name"`
	Similarity   float64 `json:"similarity"`
	MatchedChunk string  `json:"matched_chunk"`
}

// ExtractionResult groups skill and occupation matches for one document.
type ExtractionResult struct {
	Skills      []MatchResult `json:"skills"`
	Occupations []MatchResult `json:"occupations"`
	ChunkCount  int           `json:"chunk_count"`
}
