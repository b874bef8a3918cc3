// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package inference

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIBackend calls the OpenAI chat completions API as an alternative
// inference provider.
type OpenAIBackend struct {
	Model  string
	client *openai.Client
}

// NewOpenAIBackend builds an OpenAI backend for the given key and model.
func NewOpenAIBackend(apiKey, model string) *OpenAIBackend {
	return &OpenAIBackend{
		Model:  model,
		client: openai.NewClient(apiKey),
	}
}

// Name identifies the backend in logs and cache keys.
func (o *OpenAIBackend) Name() string { return "openai" }

// Generate sends one prompt and returns the model's raw text response.
func (o *OpenAIBackend) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", classifyOpenAIError(err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("OpenAI API returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// classifyOpenAIError marks rate-limit and server-side API errors as
// transient. Anything carrying a 4xx status other than 429 (bad request,
// bad credentials) is permanent. Errors without an API status are network
// failures and retryable.
func classifyOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		wrapped := fmt.Errorf("OpenAI API returned %d: %s", apiErr.HTTPStatusCode, apiErr.Message)
		if apiErr.HTTPStatusCode == 429 || apiErr.HTTPStatusCode >= 500 {
			return Transient(wrapped)
		}
		return wrapped
	}
	return Transient(fmt.Errorf("calling OpenAI API: %w", err))
}
