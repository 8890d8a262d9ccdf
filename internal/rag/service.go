package rag

import (
	"context"
	"fmt"
	"time"

	"cataloguechat/internal/config"
	"cataloguechat/internal/domain/commonModels"
	"cataloguechat/internal/metrics"
	"cataloguechat/internal/rag/embedding"
	"cataloguechat/internal/rag/llm"
	"cataloguechat/internal/rag/vectorDB"
	"cataloguechat/pkg/logging"
)

// Service is the public contract of the retrieval pipeline; the handler
// only knows this interface, never the concrete clients behind it.
type Service interface {
	Answer(ctx context.Context, query string, k int) (string, []commonModels.SearchHit, error)
}

type service struct {
	vectorDB    vectorDB.DataProcessor
	llmProvider llm.Provider
	embedder    embedding.Embedder
	collection  string
	logger      *logging.Logger
}

// NewService wires the pipeline. Swapping any client for a mock in tests
// needs no changes here.
func NewService(vector vectorDB.DataProcessor, provider llm.Provider, em embedding.Embedder, collection string) Service {
	return &service{
		vectorDB:    vector,
		llmProvider: provider,
		embedder:    em,
		collection:  collection,
		logger:      logging.NewLogger("RAG Service"),
	}
}

// Answer runs embed -> search -> generate for one question. An empty result
// set still goes to the LLM: it answers from an empty context rather than
// the service inventing a refusal.
func (s *service) Answer(ctx context.Context, query string, k int) (string, []commonModels.SearchHit, error) {
	if k < 1 {
		k = 1
	}

	start := time.Now()
	vector, err := s.embedder.GetEmbedding(ctx, query)
	metrics.CaptureExecutionMetrics("embedding_query", time.Since(start))
	if err != nil {
		return "", nil, fmt.Errorf("query embedding failed: %w", err)
	}

	start = time.Now()
	hits, err := s.vectorDB.Search(ctx, s.collection, vector, k)
	metrics.CaptureExecutionMetrics("vector_search", time.Since(start))
	if err != nil {
		return "", nil, fmt.Errorf("vector search failed: %w", err)
	}
	s.logger.Debug("Search complete", "hits", len(hits), "k", k)

	userPrompt := fmt.Sprintf("Question: %s\n\nContext:\n%s", query, FormatContext(hits))

	start = time.Now()
	answer, err := s.llmProvider.Generate(ctx, config.ModelContext, userPrompt)
	metrics.CaptureExecutionMetrics("llm_generate", time.Since(start))
	if err != nil {
		return "", nil, fmt.Errorf("answer generation failed: %w", err)
	}

	return answer, hits, nil
}
