package gemini

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"cataloguechat/internal/rag/llm"
	"cataloguechat/pkg/logging"
)

type llmClient struct {
	client    *genai.Client
	modelName string
	logger    *logging.Logger
}

func NewClient(ctx context.Context, modelName string, apikey string) (llm.Provider, error) {
	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apikey})
	if err != nil {
		return nil, fmt.Errorf("gemini client init failed: %w", err)
	}
	return &llmClient{
		client:    c,
		modelName: modelName,
		logger:    logging.NewLogger("llm_gemini"),
	}, nil
}

func (c *llmClient) Generate(ctx context.Context, systemPrompt string, userPrompt string) (string, error) {
	contentConfig := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{
				{Text: systemPrompt},
			},
		},
	}

	result, err := c.client.Models.GenerateContent(
		ctx,
		c.modelName,
		genai.Text(userPrompt),
		contentConfig,
	)
	if err != nil {
		c.logger.Error("Error generating answer", "error", err)
		return "", err
	}
	if result == nil {
		return "", errors.New("empty generation response")
	}
	return result.Text(), nil
}
