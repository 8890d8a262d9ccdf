package rag_test

import (
	"context"

	"cataloguechat/internal/domain/commonModels"
)

// MockVectorDB implements vectorDB.DataProcessor
type MockVectorDB struct {
	OnSearch func(ctx context.Context, name string, vector []float32, limit int) ([]commonModels.SearchHit, error)
}

func (m *MockVectorDB) EnsureCollection(ctx context.Context, name string) error {
	return nil
}

func (m *MockVectorDB) UpsertBatch(ctx context.Context, name string, ids []string, texts []string, vectors [][]float32, metas []commonModels.ChunkMeta) error {
	return nil
}

func (m *MockVectorDB) Search(ctx context.Context, name string, vector []float32, limit int) ([]commonModels.SearchHit, error) {
	if m.OnSearch != nil {
		return m.OnSearch(ctx, name, vector, limit)
	}
	return []commonModels.SearchHit{
		{Text: "default context", Score: 0.5, Meta: commonModels.ChunkMeta{Title: "Default", RecordID: "rec"}},
	}, nil
}

// MockEmbedder implements embedding.Embedder
type MockEmbedder struct {
	OnGetEmbedding func(ctx context.Context, text string) ([]float32, error)
}

func (m *MockEmbedder) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	if m.OnGetEmbedding != nil {
		return m.OnGetEmbedding(ctx, query)
	}
	return []float32{0.1, 0.2}, nil
}

func (m *MockEmbedder) BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error) {
	return make([][]float32, len(chunks)), nil
}

// MockLLM implements llm.Provider
type MockLLM struct {
	OnGenerate func(ctx context.Context, systemPrompt string, userPrompt string) (string, error)
}

func (m *MockLLM) Generate(ctx context.Context, systemPrompt string, userPrompt string) (string, error) {
	if m.OnGenerate != nil {
		return m.OnGenerate(ctx, systemPrompt, userPrompt)
	}
	return "mocked llm response", nil
}
