package services

import (
	"context"
	"strings"

	"chatllm/pkg/chattypes"
)

// MockLLMClient is a deterministic LLMClient used by --test-mode runs.
// It echoes the last user message word by word; models listed in thinking
// wrap a short reasoning trace in think markers first.
type MockLLMClient struct {
	thinking map[string]bool
}

// NewMockLLMClient creates a mock client treating the given models as thinking models.
func NewMockLLMClient(thinkingModels ...string) *MockLLMClient {
	thinking := make(map[string]bool, len(thinkingModels))
	for _, m := range thinkingModels {
		thinking[m] = true
	}
	return &MockLLMClient{thinking: thinking}
}

// GetProviderName returns "mock".
func (m *MockLLMClient) GetProviderName() string {
	return "mock"
}

// IsConfigured always returns true.
func (m *MockLLMClient) IsConfigured() bool {
	return true
}

// StreamChatCompletion streams the canned reply for the last user message.
func (m *MockLLMClient) StreamChatCompletion(ctx context.Context, model string, messages []chattypes.ChatMessage) (<-chan chattypes.StreamChunk, error) {
	prompt := ""
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == chattypes.RoleUser {
			prompt = messages[i].Content
			break
		}
	}

	reply := "Echo from " + model + ": " + prompt
	if m.thinking[model] {
		reply = "<think>The user said: " + prompt + "</think>\n" + reply
	}

	words := strings.SplitAfter(reply, " ")
	responseChan := make(chan chattypes.StreamChunk, len(words)+1)
	go func() {
		defer close(responseChan)
		for _, w := range words {
			select {
			case <-ctx.Done():
				responseChan <- chattypes.StreamChunk{Done: true, Error: ctx.Err()}
				return
			default:
			}
			responseChan <- chattypes.StreamChunk{Content: w}
		}
		responseChan <- chattypes.StreamChunk{Done: true}
	}()

	return responseChan, nil
}
