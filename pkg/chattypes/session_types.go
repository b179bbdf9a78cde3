// Package chattypes defines conversation types for chatllm.
// This file contains the message model kept by the conversation store.
package chattypes

import (
	"fmt"
	"time"
)

// Role identifies the author of a message.
type Role string

// Supported message roles.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// ContentKind discriminates the Content variant.
type ContentKind int

const (
	// ContentPlainText marks content carrying a single text body.
	ContentPlainText ContentKind = iota
	// ContentThinkingAndFinal marks content split into a reasoning trace and a final answer.
	ContentThinkingAndFinal
)

// String returns the wire name of the kind.
func (k ContentKind) String() string {
	switch k {
	case ContentThinkingAndFinal:
		return "thinking_and_final"
	default:
		return "plain_text"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k ContentKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *ContentKind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "plain_text", "":
		*k = ContentPlainText
	case "thinking_and_final":
		*k = ContentThinkingAndFinal
	default:
		return fmt.Errorf("unknown content kind %q", string(b))
	}
	return nil
}

// Content is the body of a message. Kind selects which fields are meaningful:
// Text for ContentPlainText, Thinking and Final for ContentThinkingAndFinal.
type Content struct {
	Kind     ContentKind `json:"kind"`
	Text     string      `json:"text,omitempty"`
	Thinking string      `json:"thinking,omitempty"`
	Final    string      `json:"final,omitempty"`
}

// PlainText builds a ContentPlainText value.
func PlainText(text string) Content {
	return Content{Kind: ContentPlainText, Text: text}
}

// ThinkingAndFinal builds a ContentThinkingAndFinal value.
func ThinkingAndFinal(thinking, final string) Content {
	return Content{Kind: ContentThinkingAndFinal, Thinking: thinking, Final: final}
}

// Outbound returns the text sent back to the model when the message is part of the history.
// Split messages only contribute their final answer.
func (c Content) Outbound() string {
	if c.Kind == ContentThinkingAndFinal {
		return c.Final
	}
	return c.Text
}

// HasThinking reports whether the content carries a non-empty reasoning trace.
func (c Content) HasThinking() bool {
	return c.Kind == ContentThinkingAndFinal && c.Thinking != ""
}

// Message represents a single message in a conversation.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   Content   `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Conversation is an ordered sequence of messages.
type Conversation []Message

// Clone returns an independent copy of the conversation.
// Message values hold no shared references, so copying the slice is a deep copy.
func (c Conversation) Clone() Conversation {
	if c == nil {
		return Conversation{}
	}
	out := make(Conversation, len(c))
	copy(out, c)
	return out
}

// Last returns the final message and true, or a zero Message and false for an empty conversation.
func (c Conversation) Last() (Message, bool) {
	if len(c) == 0 {
		return Message{}, false
	}
	return c[len(c)-1], true
}

// FirstUserMessage returns the first message authored by the user, if any.
func (c Conversation) FirstUserMessage() (Message, bool) {
	for _, m := range c {
		if m.Role == RoleUser {
			return m, true
		}
	}
	return Message{}, false
}

// Outbound converts the conversation into the provider-facing message list.
func (c Conversation) Outbound() []ChatMessage {
	out := make([]ChatMessage, 0, len(c))
	for _, m := range c {
		out = append(out, ChatMessage{Role: m.Role, Content: m.Content.Outbound()})
	}
	return out
}
