package stringprocessing

import "strings"

// Markers delimiting the reasoning trace emitted by thinking models.
const (
	ThinkStartMarker = "<think>"
	ThinkEndMarker   = "</think>"
)

// ThinkingSplit is the result of separating a reasoning trace from the final answer.
type ThinkingSplit struct {
	Thinking string
	Final    string
}

// SplitThinking separates the first <think>...</think> segment of raw from the
// rest of the text. Both parts are trimmed of surrounding whitespace.
//
// Only the first start marker and the first end marker are considered. When
// either marker is missing, or the end marker comes before the start marker,
// Thinking is empty and Final is the trimmed input; an unmatched start marker
// therefore stays in Final verbatim.
func SplitThinking(raw string) ThinkingSplit {
	start := strings.Index(raw, ThinkStartMarker)
	end := strings.Index(raw, ThinkEndMarker)
	if start < 0 || end < 0 || end < start+len(ThinkStartMarker) {
		return ThinkingSplit{Final: strings.TrimSpace(raw)}
	}

	return ThinkingSplit{
		Thinking: strings.TrimSpace(raw[start+len(ThinkStartMarker) : end]),
		Final:    strings.TrimSpace(raw[:start] + raw[end+len(ThinkEndMarker):]),
	}
}
