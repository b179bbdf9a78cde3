package services

import (
	"fmt"
	"strings"
	"sync"

	"chatllm/internal/logger"
	"chatllm/pkg/chattypes"
)

// ClientFactoryService creates and caches LLM clients per provider and credential.
type ClientFactoryService struct {
	initialized bool
	clients     map[string]chattypes.LLMClient
	mutex       sync.RWMutex
}

// NewClientFactoryService creates a new ClientFactoryService instance.
func NewClientFactoryService() *ClientFactoryService {
	return &ClientFactoryService{
		clients: make(map[string]chattypes.LLMClient),
	}
}

// Name returns the service name "client_factory" for registration.
func (f *ClientFactoryService) Name() string {
	return "client_factory"
}

// Initialize sets up the ClientFactoryService for operation.
func (f *ClientFactoryService) Initialize() error {
	f.initialized = true
	return nil
}

// GetClientForProvider returns the client for provider, creating it on first use.
// An empty baseURL keeps the provider default.
func (f *ClientFactoryService) GetClientForProvider(provider, apiKey, baseURL string) (chattypes.LLMClient, error) {
	if !f.initialized {
		return nil, fmt.Errorf("client factory: %w", ErrNotInitialized)
	}

	provider = strings.ToLower(strings.TrimSpace(provider))
	if provider == "" {
		return nil, fmt.Errorf("provider cannot be empty")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("%w for provider '%s'", ErrMissingAPIKey, provider)
	}

	cacheKey := provider + ":" + baseURL + ":" + apiKey

	f.mutex.RLock()
	if client, exists := f.clients[cacheKey]; exists {
		f.mutex.RUnlock()
		return client, nil
	}
	f.mutex.RUnlock()

	f.mutex.Lock()
	defer f.mutex.Unlock()

	if client, exists := f.clients[cacheKey]; exists {
		return client, nil
	}

	var client chattypes.LLMClient
	switch provider {
	case "groq":
		if baseURL == "" {
			baseURL = GroqBaseURL
		}
		client = NewOpenAICompatibleClient(OpenAICompatibleConfig{ProviderName: provider, APIKey: apiKey, BaseURL: baseURL})
	case "openai":
		client = NewOpenAICompatibleClient(OpenAICompatibleConfig{ProviderName: provider, APIKey: apiKey, BaseURL: baseURL})
	case "anthropic":
		anthropicClient := NewAnthropicClient(apiKey)
		if baseURL != "" {
			anthropicClient.SetEndpoint(baseURL, nil)
		}
		client = anthropicClient
	case "gemini":
		geminiClient := NewGeminiClient(apiKey)
		if baseURL != "" {
			geminiClient.SetEndpoint(baseURL, nil)
		}
		client = geminiClient
	default:
		return nil, fmt.Errorf("%w '%s'. Supported providers: groq, openai, anthropic, gemini", ErrUnknownProvider, provider)
	}

	f.clients[cacheKey] = client
	logger.Debug("Created new provider client", "provider", provider)
	return client, nil
}

// GetCachedClientCount returns the number of cached clients.
func (f *ClientFactoryService) GetCachedClientCount() int {
	f.mutex.RLock()
	defer f.mutex.RUnlock()
	return len(f.clients)
}

// ClearCache removes all cached clients.
func (f *ClientFactoryService) ClearCache() {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.clients = make(map[string]chattypes.LLMClient)
}
