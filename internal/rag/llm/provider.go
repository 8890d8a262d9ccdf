package llm

import "context"

// Provider generates an answer from a system instruction and a user prompt.
type Provider interface {
	Generate(ctx context.Context, systemPrompt string, userPrompt string) (string, error)
}
