package dto

// ExtractRequest carries the raw text to match against the taxonomy.
// The threshold and limit fields override the configured defaults when
// present.
type ExtractRequest struct {
	Text                 string   `json:"text"`
	SkillsThreshold      *float64 `json:"skills_threshold,omitempty"`
	OccupationsThreshold *float64 `json:"occupations_threshold,omitempty"`
	MaxResults           *int     `json:"max_results,omitempty"`
}

// AnalyzeRequest carries the raw CV text for a full analysis.
type AnalyzeRequest struct {
	Text string `json:"text"`
}

type HealthResponse struct {
	Status         string `json:"status"`
	DatasetVersion string `json:"dataset_version"`
	Skills         int    `json:"skills"`
	Occupations    int    `json:"occupations"`
	EmbeddingModel string `json:"embedding_model"`
	Fingerprint    string `json:"fingerprint"`
}

type InfoResponse struct {
	Service   string            `json:"service"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
}
