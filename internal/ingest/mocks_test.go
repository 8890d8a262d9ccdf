package ingest

import (
	"context"

	"cataloguechat/internal/domain/commonModels"
)

// mockEmbedder implements embedding.Embedder
type mockEmbedder struct {
	OnBatchEmbedding func(ctx context.Context, chunks []string) ([][]float32, error)
	batchCalls       int
}

func (m *mockEmbedder) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	return []float32{0.1}, nil
}

func (m *mockEmbedder) BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error) {
	m.batchCalls++
	if m.OnBatchEmbedding != nil {
		return m.OnBatchEmbedding(ctx, chunks)
	}
	return make([][]float32, len(chunks)), nil
}

// mockStore implements vectorDB.DataProcessor
type mockStore struct {
	OnUpsertBatch func(ctx context.Context, name string, ids []string, texts []string, vectors [][]float32, metas []commonModels.ChunkMeta) error

	upsertCalls int
	gotIDs      [][]string
	gotTexts    [][]string
	gotMetas    [][]commonModels.ChunkMeta
}

func (m *mockStore) EnsureCollection(ctx context.Context, name string) error {
	return nil
}

func (m *mockStore) UpsertBatch(ctx context.Context, name string, ids []string, texts []string, vectors [][]float32, metas []commonModels.ChunkMeta) error {
	m.upsertCalls++
	m.gotIDs = append(m.gotIDs, append([]string(nil), ids...))
	m.gotTexts = append(m.gotTexts, append([]string(nil), texts...))
	m.gotMetas = append(m.gotMetas, append([]commonModels.ChunkMeta(nil), metas...))
	if m.OnUpsertBatch != nil {
		return m.OnUpsertBatch(ctx, name, ids, texts, vectors, metas)
	}
	return nil
}

func (m *mockStore) Search(ctx context.Context, name string, vector []float32, limit int) ([]commonModels.SearchHit, error) {
	return nil, nil
}
