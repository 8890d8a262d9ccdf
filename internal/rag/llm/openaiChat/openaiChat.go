package openaiChat

import (
	"context"
	"errors"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"cataloguechat/internal/rag/llm"
	"cataloguechat/pkg/logging"
)

// chatClient targets any OpenAI-compatible chat completion endpoint, such
// as a local Ollama server exposing /v1.
type chatClient struct {
	api    openai.Client
	model  string
	logger *logging.Logger
}

func NewClient(baseURL, apiKey, model string) llm.Provider {
	opts := []option.RequestOption{option.WithBaseURL(baseURL)}
	if apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	}
	return &chatClient{
		api:    openai.NewClient(opts...),
		model:  model,
		logger: logging.NewLogger("llm_openai"),
	}
}

func (c *chatClient) Generate(ctx context.Context, systemPrompt string, userPrompt string) (string, error) {
	resp, err := c.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userPrompt),
		},
	})
	if err != nil {
		c.logger.Error("Error generating answer", "error", err)
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("empty chat completion response")
	}
	return resp.Choices[0].Message.Content, nil
}
