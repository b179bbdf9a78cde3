package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatllm/pkg/chattypes"
)

func writeAnthropicEvent(w http.ResponseWriter, event string, payload map[string]any) {
	data, _ := json.Marshal(payload)
	_, _ = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
}

func TestNewAnthropicClient(t *testing.T) {
	client := NewAnthropicClient("test-key")
	assert.Equal(t, "anthropic", client.GetProviderName())
	assert.True(t, client.IsConfigured())
	assert.Nil(t, client.client)

	assert.False(t, NewAnthropicClient("").IsConfigured())
}

func TestAnthropicClient_NotConfigured(t *testing.T) {
	stream, err := NewAnthropicClient("").StreamChatCompletion(context.Background(), "claude-sonnet-4-20250514", nil)
	assert.Nil(t, stream)
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestAnthropicClient_ConvertMessagesToAnthropic(t *testing.T) {
	client := NewAnthropicClient("test-key")

	messages, system := client.convertMessagesToAnthropic([]chattypes.ChatMessage{
		{Role: chattypes.RoleSystem, Content: "Be brief."},
		{Role: chattypes.RoleUser, Content: "Hello"},
		{Role: chattypes.RoleAssistant, Content: "Hi"},
		{Role: chattypes.RoleSystem, Content: "Model changed to claude-opus-4-20250514"},
		{Role: chattypes.RoleUser, Content: "Again"},
	})

	require.Len(t, messages, 3)
	assert.Equal(t, anthropic.MessageParamRoleUser, messages[0].Role)
	assert.Equal(t, anthropic.MessageParamRoleAssistant, messages[1].Role)
	assert.Equal(t, anthropic.MessageParamRoleUser, messages[2].Role)
	assert.Equal(t, "Be brief.\n\nModel changed to claude-opus-4-20250514", system)
}

func TestAnthropicClient_StreamChatCompletion(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, true, body["stream"])
		assert.Equal(t, "claude-sonnet-4-20250514", body["model"])
		assert.NotNil(t, body["system"])

		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		writeAnthropicEvent(w, "message_start", map[string]any{
			"type": "message_start",
			"message": map[string]any{
				"id": "msg_1", "type": "message", "role": "assistant", "model": "claude-sonnet-4-20250514",
				"content": []any{}, "stop_reason": nil, "stop_sequence": nil,
				"usage": map[string]any{"input_tokens": 3, "output_tokens": 0},
			},
		})
		writeAnthropicEvent(w, "content_block_start", map[string]any{
			"type": "content_block_start", "index": 0,
			"content_block": map[string]any{"type": "text", "text": ""},
		})
		for _, text := range []string{"Hello", " from Claude"} {
			writeAnthropicEvent(w, "content_block_delta", map[string]any{
				"type": "content_block_delta", "index": 0,
				"delta": map[string]any{"type": "text_delta", "text": text},
			})
		}
		writeAnthropicEvent(w, "content_block_stop", map[string]any{"type": "content_block_stop", "index": 0})
		writeAnthropicEvent(w, "message_delta", map[string]any{
			"type":  "message_delta",
			"delta": map[string]any{"stop_reason": "end_turn", "stop_sequence": nil},
			"usage": map[string]any{"output_tokens": 4},
		})
		writeAnthropicEvent(w, "message_stop", map[string]any{"type": "message_stop"})
	}))
	defer server.Close()

	client := NewAnthropicClient("test-key")
	client.SetEndpoint(server.URL, server.Client())

	stream, err := client.StreamChatCompletion(context.Background(), "claude-sonnet-4-20250514", []chattypes.ChatMessage{
		{Role: chattypes.RoleSystem, Content: "Be brief."},
		{Role: chattypes.RoleUser, Content: "Hello"},
	})
	require.NoError(t, err)

	parts, streamErr := collectStream(t, stream)
	require.NoError(t, streamErr)
	assert.Equal(t, []string{"Hello", " from Claude"}, parts)
}

func TestAnthropicClient_StreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = fmt.Fprint(w, `{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`)
	}))
	defer server.Close()

	client := NewAnthropicClient("bad-key")
	client.SetEndpoint(server.URL, server.Client())

	stream, err := client.StreamChatCompletion(context.Background(), "claude-sonnet-4-20250514", []chattypes.ChatMessage{
		{Role: chattypes.RoleUser, Content: "Hello"},
	})
	require.NoError(t, err)

	_, streamErr := collectStream(t, stream)
	require.Error(t, streamErr)
	assert.Contains(t, streamErr.Error(), "anthropic stream failed")
}
