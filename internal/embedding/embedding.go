package embedding

import "context"

// Embedder converts text into fixed-dimensionality numeric vectors.
// Embed is batched: one vector per input text, in input order.
type Embedder interface {
	Name() string
	// Dimension returns the vector length, or 0 if not yet known
	// (remote embedders learn it from the first response).
	Dimension() int
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}
