// Package chattypes defines LLM-related types and interfaces for chatllm.
// This file contains types for LLM client abstraction and streaming.
package chattypes

import "context"

// ChatMessage is a single {role, text} pair sent to a provider.
type ChatMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// StreamChunk represents a single chunk of streaming response.
// A stream always ends with exactly one chunk whose Done is true; that chunk
// carries the stream error, if any, and no content.
type StreamChunk struct {
	Content string // The text content of this chunk
	Done    bool   // Whether this is the final chunk
	Error   error  // Any error that occurred during streaming
}

// LLMClient defines the interface for LLM provider implementations.
type LLMClient interface {
	// StreamChatCompletion sends a streaming chat completion request.
	// It returns a channel that receives response chunks as they arrive and
	// is closed after the Done chunk.
	StreamChatCompletion(ctx context.Context, model string, messages []ChatMessage) (<-chan StreamChunk, error)

	// GetProviderName returns the name of the LLM provider (e.g., "groq", "anthropic").
	GetProviderName() string

	// IsConfigured returns true if the client has valid configuration and can make requests.
	IsConfigured() bool
}
