package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"chatllm/internal/logger"
	"chatllm/pkg/chattypes"
)

// GroqBaseURL is the OpenAI-compatible endpoint of Groq.
const GroqBaseURL = "https://api.groq.com/openai/v1"

// OpenAICompatibleClient implements LLMClient for any provider speaking the
// OpenAI Chat Completions API, including Groq and OpenAI itself.
type OpenAICompatibleClient struct {
	providerName string
	apiKey       string
	baseURL      string
	headers      map[string]string
	httpClient   *http.Client
	client       *openai.Client
}

// OpenAICompatibleConfig holds configuration for the OpenAI-compatible client.
type OpenAICompatibleConfig struct {
	ProviderName string
	APIKey       string
	// BaseURL is left to the SDK default when empty.
	BaseURL    string
	Headers    map[string]string
	HTTPClient *http.Client
}

// NewOpenAICompatibleClient creates a client with lazy initialization.
func NewOpenAICompatibleClient(config OpenAICompatibleConfig) *OpenAICompatibleClient {
	headers := make(map[string]string, len(config.Headers))
	for k, v := range config.Headers {
		headers[k] = v
	}

	providerName := config.ProviderName
	if providerName == "" {
		providerName = "openai-compatible"
	}

	return &OpenAICompatibleClient{
		providerName: providerName,
		apiKey:       config.APIKey,
		baseURL:      strings.TrimSuffix(config.BaseURL, "/"),
		headers:      headers,
		httpClient:   config.HTTPClient,
	}
}

// GetProviderName returns the provider name for this client.
func (c *OpenAICompatibleClient) GetProviderName() string {
	return c.providerName
}

// IsConfigured returns true if the client has an API key.
func (c *OpenAICompatibleClient) IsConfigured() bool {
	return c.apiKey != ""
}

func (c *OpenAICompatibleClient) initializeClientIfNeeded() error {
	if c.client != nil {
		return nil
	}
	if !c.IsConfigured() {
		return fmt.Errorf("%s client not configured: %w", c.providerName, ErrMissingAPIKey)
	}

	options := []option.RequestOption{
		option.WithAPIKey(c.apiKey),
		option.WithMaxRetries(0),
	}
	if c.baseURL != "" {
		options = append(options, option.WithBaseURL(c.baseURL+"/"))
	}
	for k, v := range c.headers {
		options = append(options, option.WithHeader(k, v))
	}
	if c.httpClient != nil {
		options = append(options, option.WithHTTPClient(c.httpClient))
	}

	client := openai.NewClient(options...)
	c.client = &client
	logger.Debug("OpenAI-compatible client initialized", "provider", c.providerName, "base_url", c.baseURL)
	return nil
}

// StreamChatCompletion sends a streaming chat completion request.
func (c *OpenAICompatibleClient) StreamChatCompletion(ctx context.Context, model string, messages []chattypes.ChatMessage) (<-chan chattypes.StreamChunk, error) {
	logger.Debug("OpenAI-compatible StreamChatCompletion starting", "provider", c.providerName, "model", model)

	if err := c.initializeClientIfNeeded(); err != nil {
		return nil, err
	}

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(model),
		Messages: c.convertMessages(messages),
	}

	stream := c.client.Chat.Completions.NewStreaming(ctx, params)
	responseChan := make(chan chattypes.StreamChunk, 10)

	go func() {
		defer close(responseChan)
		defer func() { _ = stream.Close() }()

		for stream.Next() {
			chunk := stream.Current()
			if len(chunk.Choices) > 0 && chunk.Choices[0].Delta.Content != "" {
				responseChan <- chattypes.StreamChunk{Content: chunk.Choices[0].Delta.Content}
			}
		}

		var err error
		if streamErr := stream.Err(); streamErr != nil {
			err = fmt.Errorf("%s stream failed: %w", c.providerName, streamErr)
		}
		responseChan <- chattypes.StreamChunk{Done: true, Error: err}
	}()

	return responseChan, nil
}

func (c *OpenAICompatibleClient) convertMessages(messages []chattypes.ChatMessage) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case chattypes.RoleUser:
			out = append(out, openai.UserMessage(msg.Content))
		case chattypes.RoleAssistant:
			out = append(out, openai.AssistantMessage(msg.Content))
		case chattypes.RoleSystem:
			out = append(out, openai.SystemMessage(msg.Content))
		}
	}
	return out
}
