package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"chatllm/internal/logger"
	"chatllm/pkg/chattypes"
)

// GeminiClient implements LLMClient for the Google Gemini API.
// The underlying genai client is created on first use.
type GeminiClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	client     *genai.Client
}

// NewGeminiClient creates a new Gemini client with lazy initialization.
func NewGeminiClient(apiKey string) *GeminiClient {
	return &GeminiClient{apiKey: apiKey}
}

// GetProviderName returns the provider name for this client.
func (c *GeminiClient) GetProviderName() string {
	return "gemini"
}

// IsConfigured returns true if the client has a valid API key.
func (c *GeminiClient) IsConfigured() bool {
	return c.apiKey != ""
}

// SetEndpoint points the client at a custom base URL. A nil httpClient keeps the SDK default.
func (c *GeminiClient) SetEndpoint(baseURL string, httpClient *http.Client) {
	c.baseURL = baseURL
	c.httpClient = httpClient
	c.client = nil
}

func (c *GeminiClient) initializeClientIfNeeded(ctx context.Context) error {
	if c.client != nil {
		return nil
	}
	if c.apiKey == "" {
		return fmt.Errorf("gemini client not configured: %w", ErrMissingAPIKey)
	}

	clientConfig := &genai.ClientConfig{
		APIKey:  c.apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if c.baseURL != "" {
		clientConfig.HTTPOptions.BaseURL = c.baseURL
	}
	if c.httpClient != nil {
		clientConfig.HTTPClient = c.httpClient
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return fmt.Errorf("failed to create Gemini client: %w", err)
	}

	c.client = client
	logger.Debug("Gemini client initialized", "provider", "gemini")
	return nil
}

// StreamChatCompletion sends a streaming generateContent request.
func (c *GeminiClient) StreamChatCompletion(ctx context.Context, model string, messages []chattypes.ChatMessage) (<-chan chattypes.StreamChunk, error) {
	logger.Debug("Gemini StreamChatCompletion starting", "model", model)

	if err := c.initializeClientIfNeeded(ctx); err != nil {
		return nil, err
	}

	contents, system := c.convertMessagesToGemini(messages)
	config := &genai.GenerateContentConfig{}
	if system != "" {
		config.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}

	responseChan := make(chan chattypes.StreamChunk, 10)

	go func() {
		defer close(responseChan)

		var err error
		for resp, streamErr := range c.client.Models.GenerateContentStream(ctx, model, contents, config) {
			if streamErr != nil {
				err = fmt.Errorf("gemini stream failed: %w", streamErr)
				break
			}
			if text := responseText(resp); text != "" {
				responseChan <- chattypes.StreamChunk{Content: text}
			}
		}
		responseChan <- chattypes.StreamChunk{Done: true, Error: err}
	}()

	return responseChan, nil
}

// responseText joins the answer parts of the first candidate, skipping thought parts.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		sb.WriteString(part.Text)
	}
	return sb.String()
}

// convertMessagesToGemini maps the history onto Gemini contents. Assistant
// turns use the "model" role and system messages become the system instruction.
func (c *GeminiClient) convertMessagesToGemini(messages []chattypes.ChatMessage) ([]*genai.Content, string) {
	contents := make([]*genai.Content, 0, len(messages))
	var system []string

	for _, msg := range messages {
		switch msg.Role {
		case chattypes.RoleUser:
			contents = append(contents, &genai.Content{Role: genai.RoleUser, Parts: []*genai.Part{{Text: msg.Content}}})
		case chattypes.RoleAssistant:
			contents = append(contents, &genai.Content{Role: genai.RoleModel, Parts: []*genai.Part{{Text: msg.Content}}})
		case chattypes.RoleSystem:
			system = append(system, msg.Content)
		}
	}

	return contents, strings.Join(system, "\n\n")
}
