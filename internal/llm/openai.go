package llm

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// openaiModels maps friendly names to OpenAI model IDs.
var openaiModels = map[string]string{
	"gpt-4o":      "gpt-4o",
	"gpt-4o-mini": "gpt-4o-mini",
}

// OpenAIProvider implements Provider using the OpenAI SDK.
type OpenAIProvider struct {
	client *openai.Client
	model  string
}

// NewOpenAIProvider creates a new OpenAI provider.
func NewOpenAIProvider(cfg OpenAIConfig, timeout time.Duration) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}
	cfg.Model = resolveModel(cfg.Model, openaiModels)
	return newOpenAIProviderRaw(cfg, timeout), nil
}

// newOpenAIProviderRaw builds the provider with cfg.Model used verbatim.
func newOpenAIProviderRaw(cfg OpenAIConfig, timeout time.Duration) *OpenAIProvider {
	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}
	config.HTTPClient = &envelopeDoer{
		client: &http.Client{Timeout: timeout},
		schema: chatCompletionSchema,
	}

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(config),
		model:  cfg.Model,
	}
}

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 1 << 20

// chatCompletionSchema is the minimum shape a successful response must have.
var chatCompletionSchema = &Schema{
	Name:        "chat-completion",
	Description: "OpenAI-compatible chat completion response",
	Definition: map[string]any{
		"type":     "object",
		"required": []any{"choices"},
		"properties": map[string]any{
			"choices": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items": map[string]any{
					"type":     "object",
					"required": []any{"message"},
					"properties": map[string]any{
						"message": map[string]any{
							"type":     "object",
							"required": []any{"content"},
							"properties": map[string]any{
								"content": map[string]any{"type": "string"},
							},
						},
					},
				},
			},
		},
	},
}

// envelopeDoer sits between go-openai and the network. Failed responses
// come back as *ErrAPIFailure carrying the verbatim body; successful ones
// must match schema before the SDK decodes them.
type envelopeDoer struct {
	client *http.Client
	schema *Schema
}

func (d *envelopeDoer) Do(req *http.Request) (*http.Response, error) {
	resp, err := d.client.Do(req)
	if err != nil {
		return nil, err
	}
	body := resp.Body
	defer func() { _ = body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &ErrAPIFailure{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	if err := validateResponse(d.schema, raw); err != nil {
		return nil, &ErrUnexpected{Err: err}
	}

	resp.Body = io.NopCloser(bytes.NewReader(raw))
	return resp, nil
}

func (p *OpenAIProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.model,
		Messages:    buildOpenAIMessages(req),
		MaxTokens:   req.MaxTokens,
		Temperature: float32(req.Temperature),
	})
	if err != nil {
		return nil, mapOpenAIError(err)
	}

	if len(resp.Choices) == 0 {
		return nil, &ErrUnexpected{Err: fmt.Errorf("no choices in OpenAI response")}
	}

	model := resp.Model
	if model == "" {
		model = p.model
	}

	return &Response{
		Text: resp.Choices[0].Message.Content,
		Usage: Usage{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
			TotalTokens:  resp.Usage.TotalTokens,
		},
		Model:      model,
		StopReason: mapFinishReason(string(resp.Choices[0].FinishReason)),
	}, nil
}

func (p *OpenAIProvider) ModelID() string {
	return p.model
}

func buildOpenAIMessages(req Request) []openai.ChatCompletionMessage {
	var messages []openai.ChatCompletionMessage

	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}

	for _, m := range req.Messages {
		role := openai.ChatMessageRoleUser
		if m.Role == RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    role,
			Content: m.Content,
		})
	}

	return messages
}

func mapOpenAIError(err error) error {
	var failure *ErrAPIFailure
	if errors.As(err, &failure) {
		return failure
	}
	var unexp *ErrUnexpected
	if errors.As(err, &unexp) {
		return unexp
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode != 0 {
		return &ErrAPIFailure{StatusCode: apiErr.HTTPStatusCode, Body: apiErr.Message, Err: err}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode != 0 {
		return &ErrAPIFailure{StatusCode: reqErr.HTTPStatusCode, Body: reqErr.Error(), Err: err}
	}
	return &ErrUnexpected{Err: err}
}

func mapFinishReason(reason string) string {
	if reason == "length" {
		return "max_tokens"
	}
	return "end"
}
