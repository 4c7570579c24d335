// Package openai implements llm.Provider on top of any endpoint that speaks
// the OpenAI chat completions protocol (OpenAI, litellm, Ollama, vLLM, ...).
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"

	"github.com/avast/retry-go/v4"
	openailib "github.com/sashabaranov/go-openai"

	"github.com/pocketomega/skill-agent/internal/llm"
	"github.com/pocketomega/skill-agent/internal/logger"
	"github.com/pocketomega/skill-agent/internal/prompt"
)

// Client implements llm.Provider.
type Client struct {
	client *openailib.Client
	config *Config
}

var _ llm.Provider = (*Client)(nil)

// NewClient creates a client for config.
func NewClient(config *Config) (*Client, error) {
	if config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	clientConfig := openailib.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	return &Client{
		client: openailib.NewClientWithConfig(clientConfig),
		config: config,
	}, nil
}

// NewClientFromEnv creates a client using environment variables.
func NewClientFromEnv() (*Client, error) {
	config, err := NewConfigFromEnv()
	if err != nil {
		return nil, fmt.Errorf("load llm config from env: %w", err)
	}
	return NewClient(config)
}

// Config returns the client's configuration.
func (c *Client) Config() *Config {
	return c.config
}

// Name returns the provider name.
func (c *Client) Name() string {
	return fmt.Sprintf("openai-compatible (%s)", c.config.Model)
}

// Chat sends req with function calling enabled whenever tools are present.
// Rate limits, 5xx responses and transport errors are retried with
// exponential backoff; other API errors fail immediately.
func (c *Client) Chat(ctx context.Context, req llm.ChatRequest) (llm.Message, error) {
	if len(req.Messages) == 0 {
		return llm.Message{}, fmt.Errorf("no messages to send")
	}

	apiReq := c.buildRequest(req)
	log := logger.G(ctx).WithField("model", c.config.Model)

	attempts := 0
	resp, err := retry.DoWithData(
		func() (openailib.ChatCompletionResponse, error) {
			attempts++
			return c.client.CreateChatCompletion(ctx, apiReq)
		},
		retry.Attempts(uint(c.config.MaxRetries+1)),
		retry.Delay(c.config.RetryDelay),
		retry.MaxDelay(c.config.MaxDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.RetryIf(isRetryable),
		retry.LastErrorOnly(true),
		retry.Context(ctx),
		retry.OnRetry(func(n uint, err error) {
			log.WithError(err).WithField("attempt", n+1).Warn("retrying chat completion")
		}),
	)
	if err != nil {
		return llm.Message{}, fmt.Errorf("chat completion failed after %d attempt(s): %w", attempts, err)
	}
	if len(resp.Choices) == 0 {
		return llm.Message{}, fmt.Errorf("no choices returned from LLM")
	}

	log.WithField("prompt_tokens", resp.Usage.PromptTokens).
		WithField("completion_tokens", resp.Usage.CompletionTokens).
		Debug("chat completion done")

	return fromAPIMessage(resp.Choices[0].Message), nil
}

func (c *Client) buildRequest(req llm.ChatRequest) openailib.ChatCompletionRequest {
	msgs := make([]openailib.ChatCompletionMessage, 0, len(req.Messages)+1)
	if req.System.IsPresent() {
		msgs = append(msgs, systemMessage(req.System))
	}
	for _, m := range req.Messages {
		msgs = append(msgs, toAPIMessage(m))
	}

	apiReq := openailib.ChatCompletionRequest{
		Model:    c.config.Model,
		Messages: msgs,
	}
	if c.config.Temperature != nil {
		apiReq.Temperature = *c.config.Temperature
		// go-openai omits a zero temperature, which leaves the server default.
		if apiReq.Temperature == 0 {
			apiReq.Temperature = math.SmallestNonzeroFloat32
		}
	}
	if c.config.MaxTokens > 0 {
		apiReq.MaxTokens = c.config.MaxTokens
	}
	for _, def := range req.Tools {
		apiReq.Tools = append(apiReq.Tools, openailib.Tool{
			Type: openailib.ToolTypeFunction,
			Function: &openailib.FunctionDefinition{
				Name:        def.Name,
				Description: def.Description,
				Parameters:  def.Parameters,
			},
		})
	}
	return apiReq
}

// systemMessage sends a single-segment prompt as plain content, which every
// compatible endpoint accepts, and multiple segments as text parts.
func systemMessage(sp prompt.SystemPrompt) openailib.ChatCompletionMessage {
	segs := sp.Segments()
	if len(segs) <= 1 {
		return openailib.ChatCompletionMessage{Role: openailib.ChatMessageRoleSystem, Content: sp.Text()}
	}
	parts := make([]openailib.ChatMessagePart, len(segs))
	for i, s := range segs {
		parts[i] = openailib.ChatMessagePart{Type: openailib.ChatMessagePartTypeText, Text: s.Text}
	}
	return openailib.ChatCompletionMessage{Role: openailib.ChatMessageRoleSystem, MultiContent: parts}
}

func toAPIMessage(m llm.Message) openailib.ChatCompletionMessage {
	out := openailib.ChatCompletionMessage{
		Role:       m.Role,
		Content:    m.Content,
		ToolCallID: m.ToolCallID,
	}
	if m.Role == llm.RoleTool {
		out.Name = m.Name
	}
	for _, tc := range m.ToolCalls {
		out.ToolCalls = append(out.ToolCalls, openailib.ToolCall{
			ID:   tc.ID,
			Type: openailib.ToolTypeFunction,
			Function: openailib.FunctionCall{
				Name:      tc.Name,
				Arguments: string(tc.Arguments),
			},
		})
	}
	return out
}

func fromAPIMessage(m openailib.ChatCompletionMessage) llm.Message {
	out := llm.Message{Role: llm.RoleAssistant, Content: m.Content}
	for _, tc := range m.ToolCalls {
		args := json.RawMessage(tc.Function.Arguments)
		if len(args) == 0 {
			args = json.RawMessage("{}")
		}
		out.ToolCalls = append(out.ToolCalls, llm.ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: args,
		})
	}
	return out
}

func isRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var apiErr *openailib.APIError
	if errors.As(err, &apiErr) {
		return retryableStatus(apiErr.HTTPStatusCode)
	}
	var reqErr *openailib.RequestError
	if errors.As(err, &reqErr) {
		return retryableStatus(reqErr.HTTPStatusCode)
	}
	// Transport-level failure (connection reset, DNS, ...).
	return true
}

func retryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}
