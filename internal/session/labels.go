package session

import (
	"time"

	"chatllm/pkg/chattypes"
)

const (
	// LabelPrefixLength is the number of runes of the first user message used in a label.
	LabelPrefixLength = 20

	// LabelTimeFormat is the wall-clock layout appended to labels.
	LabelTimeFormat = "15:04:05"
)

// GenerateLabel derives an archive label from a conversation: the first
// LabelPrefixLength runes of its first user message, " - ", and the time.
// Without a user message the label is the time alone.
func GenerateLabel(conv chattypes.Conversation, at time.Time) string {
	stamp := at.Format(LabelTimeFormat)

	first, ok := conv.FirstUserMessage()
	if !ok {
		return stamp
	}
	return prefixRunes(first.Content.Outbound(), LabelPrefixLength) + " - " + stamp
}

func prefixRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
