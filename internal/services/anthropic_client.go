package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"chatllm/internal/logger"
	"chatllm/pkg/chattypes"
)

// anthropicMaxTokens caps every Anthropic response; the API requires a limit.
const anthropicMaxTokens = 4096

// AnthropicClient implements LLMClient for Anthropic's Messages API.
// The underlying SDK client is created on first use.
type AnthropicClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	client     *anthropic.Client
}

// NewAnthropicClient creates a new Anthropic client with lazy initialization.
func NewAnthropicClient(apiKey string) *AnthropicClient {
	return &AnthropicClient{apiKey: apiKey}
}

// GetProviderName returns the provider name for this client.
func (c *AnthropicClient) GetProviderName() string {
	return "anthropic"
}

// IsConfigured returns true if the client has a valid API key.
func (c *AnthropicClient) IsConfigured() bool {
	return c.apiKey != ""
}

// SetEndpoint points the client at a custom base URL. A nil httpClient keeps the SDK default.
func (c *AnthropicClient) SetEndpoint(baseURL string, httpClient *http.Client) {
	c.baseURL = baseURL
	c.httpClient = httpClient
	c.client = nil
}

func (c *AnthropicClient) initializeClientIfNeeded() error {
	if c.client != nil {
		return nil
	}
	if c.apiKey == "" {
		return fmt.Errorf("anthropic client not configured: %w", ErrMissingAPIKey)
	}

	options := []option.RequestOption{
		option.WithAPIKey(c.apiKey),
		option.WithMaxRetries(0),
	}
	if c.baseURL != "" {
		options = append(options, option.WithBaseURL(c.baseURL))
	}
	if c.httpClient != nil {
		options = append(options, option.WithHTTPClient(c.httpClient))
	}

	client := anthropic.NewClient(options...)
	c.client = &client

	logger.Debug("Anthropic client initialized", "provider", "anthropic")
	return nil
}

// StreamChatCompletion sends a streaming request to the Messages API.
func (c *AnthropicClient) StreamChatCompletion(ctx context.Context, model string, messages []chattypes.ChatMessage) (<-chan chattypes.StreamChunk, error) {
	logger.Debug("Anthropic StreamChatCompletion starting", "model", model)

	if err := c.initializeClientIfNeeded(); err != nil {
		return nil, err
	}

	converted, system := c.convertMessagesToAnthropic(messages)
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: anthropicMaxTokens,
		Messages:  converted,
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}

	stream := c.client.Messages.NewStreaming(ctx, params)
	responseChan := make(chan chattypes.StreamChunk, 10)

	go func() {
		defer close(responseChan)
		defer func() { _ = stream.Close() }()

		for stream.Next() {
			event := stream.Current()
			switch ev := event.AsAny().(type) {
			case anthropic.ContentBlockDeltaEvent:
				if delta, ok := ev.Delta.AsAny().(anthropic.TextDelta); ok && delta.Text != "" {
					responseChan <- chattypes.StreamChunk{Content: delta.Text}
				}
			}
		}

		var err error
		if streamErr := stream.Err(); streamErr != nil {
			err = fmt.Errorf("anthropic stream failed: %w", streamErr)
		}
		responseChan <- chattypes.StreamChunk{Done: true, Error: err}
	}()

	return responseChan, nil
}

// convertMessagesToAnthropic converts the history to Anthropic format.
// System messages cannot appear in the message list, so they are joined into
// the returned system prompt.
func (c *AnthropicClient) convertMessagesToAnthropic(messages []chattypes.ChatMessage) ([]anthropic.MessageParam, string) {
	out := make([]anthropic.MessageParam, 0, len(messages))
	var system []string

	for _, msg := range messages {
		switch msg.Role {
		case chattypes.RoleUser:
			out = append(out, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
		case chattypes.RoleAssistant:
			out = append(out, anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Content)))
		case chattypes.RoleSystem:
			system = append(system, msg.Content)
		}
	}

	return out, strings.Join(system, "\n\n")
}
