package googleEmbedding

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"cataloguechat/internal/config"
	"cataloguechat/internal/rag/embedding"
	"cataloguechat/pkg/logging"
)

var dimension int32 = config.EmbeddingOutputDimensionality

type client struct {
	genAi  *genai.Client
	model  string
	logger *logging.Logger
}

// NewClient builds a gemini embedder. The api key falls back to the
// GEMINI_API_KEY env var inside the genai client when empty.
func NewClient(ctx context.Context, modelName string, apikey string) (embedding.Embedder, error) {
	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apikey})
	if err != nil {
		return nil, fmt.Errorf("google embedding client init failed: %w", err)
	}
	return &client{
		genAi:  c,
		model:  modelName,
		logger: logging.NewLogger("google_embedding"),
	}, nil
}

func (c *client) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	result, err := c.genAi.Models.EmbedContent(ctx, c.model, genai.Text(query), &genai.EmbedContentConfig{
		OutputDimensionality: &dimension,
		TaskType:             "RETRIEVAL_QUERY",
	})
	if err != nil {
		c.logger.Error("Error getting query embedding", "error", err)
		return nil, err
	}
	if len(result.Embeddings) == 0 {
		return nil, errors.New("empty embedding response")
	}
	return result.Embeddings[0].Values, nil
}

func (c *client) BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error) {
	if len(chunks) == 0 {
		return nil, nil
	}

	contents := make([]*genai.Content, 0, len(chunks))
	for _, chunk := range chunks {
		contents = append(contents, &genai.Content{
			Parts: []*genai.Part{{Text: chunk}},
		})
	}

	result, err := c.genAi.Models.EmbedContent(ctx, c.model, contents, &genai.EmbedContentConfig{
		OutputDimensionality: &dimension,
		TaskType:             "RETRIEVAL_DOCUMENT",
	})
	if err != nil {
		// rate-limit errors are worth calling out, the caller still decides
		// whether the run dies (it does: batches are at-most-once)
		if s, ok := status.FromError(err); ok && s.Code() == codes.ResourceExhausted {
			c.logger.Error("Embedding rate limit hit", "error", err)
		} else {
			c.logger.Error("Error getting batch embeddings", "error", err)
		}
		return nil, err
	}

	vectors := make([][]float32, 0, len(result.Embeddings))
	for _, e := range result.Embeddings {
		vectors = append(vectors, e.Values)
	}
	return vectors, nil
}
