package vectorDB

import (
	"context"

	"cataloguechat/internal/domain/commonModels"
)

// DataProcessor is the vector store boundary. Upserts are idempotent by id:
// re-ingesting the same record/label/index overwrites the prior chunk.
type DataProcessor interface {
	EnsureCollection(ctx context.Context, collectionName string) error
	UpsertBatch(ctx context.Context, collectionName string, ids []string, texts []string, vectors [][]float32, metas []commonModels.ChunkMeta) error
	Search(ctx context.Context, collectionName string, vector []float32, limit int) ([]commonModels.SearchHit, error)
}
