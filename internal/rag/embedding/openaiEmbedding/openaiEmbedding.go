package openaiEmbedding

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"cataloguechat/internal/rag/embedding"
	"cataloguechat/pkg/logging"
)

// client talks to any OpenAI-compatible embeddings endpoint; in practice
// that is a local Ollama server exposing /v1.
type client struct {
	api    openai.Client
	model  string
	logger *logging.Logger
}

func NewClient(baseURL, apiKey, model string) embedding.Embedder {
	opts := []option.RequestOption{option.WithBaseURL(baseURL)}
	if apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	}
	return &client{
		api:    openai.NewClient(opts...),
		model:  model,
		logger: logging.NewLogger("openai_embedding"),
	}
}

func (c *client) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	vectors, err := c.BatchEmbedding(ctx, []string{query})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (c *client) BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error) {
	if len(chunks) == 0 {
		return nil, nil
	}

	resp, err := c.api.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: chunks},
		Model: openai.EmbeddingModel(c.model),
	})
	if err != nil {
		c.logger.Error("Error getting batch embeddings", "error", err)
		return nil, err
	}
	if len(resp.Data) != len(chunks) {
		return nil, fmt.Errorf("embedding count mismatch: sent %d, got %d", len(chunks), len(resp.Data))
	}

	vectors := make([][]float32, len(chunks))
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= int64(len(chunks)) {
			return nil, fmt.Errorf("embedding index %d out of range for %d inputs", d.Index, len(chunks))
		}
		vec := make([]float32, len(d.Embedding))
		for i, v := range d.Embedding {
			vec[i] = float32(v)
		}
		vectors[int(d.Index)] = vec
	}
	return vectors, nil
}
