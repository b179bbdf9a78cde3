package services

import (
	"context"
	"fmt"
	"strings"

	"chatllm/internal/logger"
	"chatllm/pkg/chattypes"
)

// LLMService sends conversations to the configured provider client.
// It owns the system prompt and converts stored messages to outbound form.
type LLMService struct {
	initialized  bool
	client       chattypes.LLMClient
	systemPrompt string
}

// NewLLMService creates a new LLMService around client.
func NewLLMService(client chattypes.LLMClient, systemPrompt string) *LLMService {
	return &LLMService{
		client:       client,
		systemPrompt: systemPrompt,
	}
}

// Name returns the service name "llm" for registration.
func (l *LLMService) Name() string {
	return "llm"
}

// Initialize checks that a configured client is available.
func (l *LLMService) Initialize() error {
	logger.ServiceOperation("llm", "initialize", "starting")

	if l.client == nil {
		return fmt.Errorf("llm service: no client configured")
	}
	if !l.client.IsConfigured() {
		return fmt.Errorf("llm service: %w for provider '%s'", ErrMissingAPIKey, l.client.GetProviderName())
	}

	l.initialized = true
	logger.ServiceOperation("llm", "initialize", "completed")
	return nil
}

// ProviderName returns the provider of the underlying client.
func (l *LLMService) ProviderName() string {
	if l.client == nil {
		return ""
	}
	return l.client.GetProviderName()
}

// BuildMessages converts a conversation into the outbound message list,
// prefixed by the system prompt when one is set.
func (l *LLMService) BuildMessages(conv chattypes.Conversation) []chattypes.ChatMessage {
	outbound := conv.Outbound()
	if strings.TrimSpace(l.systemPrompt) == "" {
		return outbound
	}
	messages := make([]chattypes.ChatMessage, 0, len(outbound)+1)
	messages = append(messages, chattypes.ChatMessage{Role: chattypes.RoleSystem, Content: l.systemPrompt})
	return append(messages, outbound...)
}

// Stream starts a streaming completion of conv with model.
func (l *LLMService) Stream(ctx context.Context, model string, conv chattypes.Conversation) (<-chan chattypes.StreamChunk, error) {
	if !l.initialized {
		return nil, fmt.Errorf("llm service: %w", ErrNotInitialized)
	}

	messages := l.BuildMessages(conv)
	logger.Debug("Starting completion stream", "provider", l.client.GetProviderName(), "model", model, "message_count", len(messages))
	return l.client.StreamChatCompletion(ctx, model, messages)
}

// Complete streams a completion and returns the concatenated response.
func (l *LLMService) Complete(ctx context.Context, model string, conv chattypes.Conversation) (string, error) {
	stream, err := l.Stream(ctx, model, conv)
	if err != nil {
		return "", err
	}
	return DrainStream(stream)
}

// DrainStream reads a stream to its Done chunk and returns the concatenated
// content. A stream closed without a Done chunk is treated as complete.
func DrainStream(stream <-chan chattypes.StreamChunk) (string, error) {
	var sb strings.Builder
	for chunk := range stream {
		sb.WriteString(chunk.Content)
		if chunk.Done {
			return sb.String(), chunk.Error
		}
	}
	return sb.String(), nil
}
