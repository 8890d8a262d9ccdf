package embedding

import "context"

// Embedder turns text into vectors. GetEmbedding is the query-side call,
// BatchEmbedding the document-side one; providers may use different task
// hints for the two.
type Embedder interface {
	GetEmbedding(ctx context.Context, query string) ([]float32, error)
	BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error)
}
