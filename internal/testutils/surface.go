package testutils

import (
	"strings"
	"sync"

	"chatllm/pkg/chattypes"
)

// SurfaceEvent is one call recorded by a RecordingSurface.
type SurfaceEvent struct {
	Kind    string
	Text    string
	Role    chattypes.Role
	Message chattypes.Message
}

// Surface event kinds.
const (
	EventRender      = "render"
	EventBeginStream = "begin_stream"
	EventFragment    = "fragment"
	EventEndStream   = "end_stream"
	EventStatus      = "status"
	EventClearStatus = "clear_status"
	EventError       = "error"
)

// RecordingSurface implements chattypes.Surface by recording every call.
type RecordingSurface struct {
	mu     sync.Mutex
	Events []SurfaceEvent
}

func (r *RecordingSurface) record(e SurfaceEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Events = append(r.Events, e)
}

func (r *RecordingSurface) RenderMessage(msg chattypes.Message) {
	r.record(SurfaceEvent{Kind: EventRender, Role: msg.Role, Message: msg})
}

func (r *RecordingSurface) BeginStream(role chattypes.Role) {
	r.record(SurfaceEvent{Kind: EventBeginStream, Role: role})
}

func (r *RecordingSurface) WriteFragment(fragment string) {
	r.record(SurfaceEvent{Kind: EventFragment, Text: fragment})
}

func (r *RecordingSurface) EndStream() {
	r.record(SurfaceEvent{Kind: EventEndStream})
}

func (r *RecordingSurface) ShowStatus(text string) {
	r.record(SurfaceEvent{Kind: EventStatus, Text: text})
}

func (r *RecordingSurface) ClearStatus() {
	r.record(SurfaceEvent{Kind: EventClearStatus})
}

func (r *RecordingSurface) ShowError(text string) {
	r.record(SurfaceEvent{Kind: EventError, Text: text})
}

// Kinds returns the recorded event kinds in order.
func (r *RecordingSurface) Kinds() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	kinds := make([]string, len(r.Events))
	for i, e := range r.Events {
		kinds[i] = e.Kind
	}
	return kinds
}

// Fragments returns the recorded fragments joined.
func (r *RecordingSurface) Fragments() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var sb strings.Builder
	for _, e := range r.Events {
		if e.Kind == EventFragment {
			sb.WriteString(e.Text)
		}
	}
	return sb.String()
}

// Count returns how many events of kind were recorded.
func (r *RecordingSurface) Count(kind string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.Events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}
