package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"chatllm/internal/logger"
	"chatllm/internal/session"
	"chatllm/pkg/chattypes"
	"chatllm/pkg/stringprocessing"
)

// ThinkingStatus is shown while a thinking model's response is collected.
const ThinkingStatus = "Thinking..."

// ThinkingClassifier reports whether a model emits think-marked reasoning.
type ThinkingClassifier interface {
	IsThinking(model string) bool
}

// TurnResult describes one completed prompt turn.
type TurnResult struct {
	// Reply is the assistant message appended for the turn.
	Reply chattypes.Message
	// Err is the client or stream error, if the turn failed.
	Err error
	// ResumedFrom is the archive label the turn resumed, if any.
	ResumedFrom string
	// SyncedLabel is the archive label written back after the turn, if any.
	SyncedLabel string
	// Thinking is true when the model's reply was drained and split instead of streamed.
	Thinking bool
	// Fragments counts the non-empty fragments forwarded to the surface.
	Fragments int
	// Duration is the wall time of the whole turn.
	Duration time.Duration
}

// ChatService runs prompt turns against a conversation store and a surface.
type ChatService struct {
	initialized bool
	llm         *LLMService
	models      ThinkingClassifier
	now         func() time.Time
}

// NewChatService creates a new ChatService instance.
func NewChatService(llm *LLMService, models ThinkingClassifier) *ChatService {
	return &ChatService{
		llm:    llm,
		models: models,
		now:    time.Now,
	}
}

// Name returns the service name "chat" for registration.
func (c *ChatService) Name() string {
	return "chat"
}

// Initialize sets up the ChatService for operation.
func (c *ChatService) Initialize() error {
	if c.llm == nil || c.models == nil {
		return fmt.Errorf("chat service: llm and model services are required")
	}
	c.initialized = true
	return nil
}

// HandlePrompt processes one user prompt: the selected archive entry is
// resumed, the prompt is appended, the model is invoked with the full history
// and the reply is appended and rendered. Thinking models are drained fully
// behind a status line and split into thinking and final parts; other models
// are streamed fragment by fragment.
//
// Client failures never escape: they are shown on the surface and recorded
// as an assistant message starting with "Error: ".
func (c *ChatService) HandlePrompt(ctx context.Context, store *session.Store, surface chattypes.Surface, model, prompt string) TurnResult {
	start := c.now()
	result := TurnResult{Thinking: c.models.IsThinking(model)}

	if !c.initialized {
		result.Err = fmt.Errorf("chat service: %w", ErrNotInitialized)
		result.Reply = c.recordError(store, surface, result.Err)
		return result
	}

	if label, ok := store.ResumeIfArchived(); ok {
		result.ResumedFrom = label
		logger.StoreOperation("resume", label)
	}

	userMsg := store.NewMessage(chattypes.RoleUser, chattypes.PlainText(prompt))
	store.AppendActive(userMsg)
	surface.RenderMessage(userMsg)

	history := store.Active()

	var content chattypes.Content
	if result.Thinking {
		content, result.Err = c.collectThinking(ctx, surface, model, history)
	} else {
		content, result.Fragments, result.Err = c.streamPlain(ctx, surface, model, history)
	}

	if result.Err != nil {
		logger.Error("Prompt turn failed", "model", model, "error", result.Err)
		result.Reply = c.recordError(store, surface, result.Err)
	} else {
		result.Reply = store.NewMessage(chattypes.RoleAssistant, content)
		store.AppendActive(result.Reply)
		if result.Thinking {
			surface.RenderMessage(result.Reply)
		}
	}

	if label, ok := store.SyncArchive(); ok {
		result.SyncedLabel = label
		logger.StoreOperation("sync", label)
	}

	result.Duration = c.now().Sub(start)
	logger.Debug("Prompt turn completed", "model", model, "thinking", result.Thinking, "fragments", result.Fragments, "duration", result.Duration)
	return result
}

func (c *ChatService) collectThinking(ctx context.Context, surface chattypes.Surface, model string, history chattypes.Conversation) (chattypes.Content, error) {
	surface.ShowStatus(ThinkingStatus)
	raw, err := c.llm.Complete(ctx, model, history)
	surface.ClearStatus()
	if err != nil {
		return chattypes.Content{}, err
	}

	split := stringprocessing.SplitThinking(raw)
	return chattypes.ThinkingAndFinal(split.Thinking, split.Final), nil
}

func (c *ChatService) streamPlain(ctx context.Context, surface chattypes.Surface, model string, history chattypes.Conversation) (chattypes.Content, int, error) {
	stream, err := c.llm.Stream(ctx, model, history)
	if err != nil {
		return chattypes.Content{}, 0, err
	}

	var sb strings.Builder
	count := 0
	surface.BeginStream(chattypes.RoleAssistant)
	defer surface.EndStream()

	for chunk := range stream {
		if chunk.Content != "" {
			sb.WriteString(chunk.Content)
			surface.WriteFragment(chunk.Content)
			count++
		}
		if chunk.Done {
			if chunk.Error != nil {
				return chattypes.Content{}, count, chunk.Error
			}
			break
		}
	}

	return chattypes.PlainText(sb.String()), count, nil
}

func (c *ChatService) recordError(store *session.Store, surface chattypes.Surface, err error) chattypes.Message {
	text := "Error: " + err.Error()
	surface.ShowError(text)
	msg := store.NewMessage(chattypes.RoleAssistant, chattypes.PlainText(text))
	store.AppendActive(msg)
	return msg
}
