package services

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInitializedFactory(t *testing.T) *ClientFactoryService {
	t.Helper()
	factory := NewClientFactoryService()
	require.NoError(t, factory.Initialize())
	return factory
}

func TestClientFactoryService_Name(t *testing.T) {
	assert.Equal(t, "client_factory", NewClientFactoryService().Name())
}

func TestClientFactoryService_NotInitialized(t *testing.T) {
	_, err := NewClientFactoryService().GetClientForProvider("groq", "key", "")
	assert.ErrorIs(t, err, ErrNotInitialized)
}

func TestClientFactoryService_GetClientForProvider(t *testing.T) {
	tests := []struct {
		provider string
		wantName string
		wantType any
	}{
		{"groq", "groq", &OpenAICompatibleClient{}},
		{"OpenAI", "openai", &OpenAICompatibleClient{}},
		{"anthropic", "anthropic", &AnthropicClient{}},
		{"gemini", "gemini", &GeminiClient{}},
	}

	factory := newInitializedFactory(t)
	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			client, err := factory.GetClientForProvider(tt.provider, "test-key", "")
			require.NoError(t, err)
			assert.IsType(t, tt.wantType, client)
			assert.Equal(t, tt.wantName, client.GetProviderName())
			assert.True(t, client.IsConfigured())
		})
	}
}

func TestClientFactoryService_GroqDefaultsBaseURL(t *testing.T) {
	factory := newInitializedFactory(t)

	client, err := factory.GetClientForProvider("groq", "test-key", "")
	require.NoError(t, err)
	assert.Equal(t, GroqBaseURL, client.(*OpenAICompatibleClient).baseURL)

	custom, err := factory.GetClientForProvider("groq", "test-key", "http://localhost:9999/v1")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9999/v1", custom.(*OpenAICompatibleClient).baseURL)
}

func TestClientFactoryService_Errors(t *testing.T) {
	factory := newInitializedFactory(t)

	_, err := factory.GetClientForProvider("", "key", "")
	assert.Error(t, err)

	_, err = factory.GetClientForProvider("groq", "", "")
	assert.ErrorIs(t, err, ErrMissingAPIKey)

	_, err = factory.GetClientForProvider("cohere", "key", "")
	assert.ErrorIs(t, err, ErrUnknownProvider)
}

func TestClientFactoryService_ClientCaching(t *testing.T) {
	factory := newInitializedFactory(t)

	first, err := factory.GetClientForProvider("groq", "key-1", "")
	require.NoError(t, err)
	second, err := factory.GetClientForProvider("groq", "key-1", "")
	require.NoError(t, err)
	assert.Same(t, first, second)

	_, err = factory.GetClientForProvider("groq", "key-2", "")
	require.NoError(t, err)
	assert.Equal(t, 2, factory.GetCachedClientCount())

	factory.ClearCache()
	assert.Equal(t, 0, factory.GetCachedClientCount())
}

func TestClientFactoryService_ConcurrentAccess(t *testing.T) {
	factory := newInitializedFactory(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := factory.GetClientForProvider("anthropic", "shared", "")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, factory.GetCachedClientCount())
}
