package embedding

import "context"

// Embedder is the external embedding-model collaborator. The model is a
// black box: text in, fixed-dimension vector out.
type Embedder interface {
	// ModelID identifies the underlying model; it feeds the cache
	// fingerprint.
	ModelID() string
	// Dimension is the declared output dimension of the model.
	Dimension() int
	// Embed returns one vector per input text, in input order.
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}
