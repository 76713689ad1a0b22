// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extraction

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/pdiddy/spo-extractor/pkg/types"
)

// OpenAIBackend is the production Completer, talking to the OpenAI
// chat completions API. Temperature is pinned to zero; the SDK's own
// retry layer handles transient transport errors.
type OpenAIBackend struct {
	client openai.Client
	model  openai.ChatModel
	log    *slog.Logger
}

// NewOpenAIBackend builds a backend from the AI configuration.
func NewOpenAIBackend(cfg types.AIConfig, log *slog.Logger) *OpenAIBackend {
	if log == nil {
		log = slog.Default()
	}
	return &OpenAIBackend{
		client: openai.NewClient(
			option.WithAPIKey(cfg.APIKey),
			option.WithMaxRetries(cfg.MaxRetries),
		),
		model: openai.ChatModel(cfg.Model),
		log:   log,
	}
}

// Complete sends one chat completion request and returns the message
// content of the first choice.
func (b *OpenAIBackend) Complete(ctx context.Context, system, user string) (string, error) {
	reqID := uuid.NewString()
	b.log.Debug("openai.request", "request_id", reqID, "model", string(b.model), "prompt_chars", len(user))

	resp, err := b.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		Model:       b.model,
		Temperature: openai.Float(0),
	})
	if err != nil {
		b.log.Warn("openai.request.failed", "request_id", reqID, "error", err)
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}

	content := resp.Choices[0].Message.Content
	b.log.Debug("openai.response", "request_id", reqID, "response_chars", len(content))
	return content, nil
}
