package server

import "chatllm/pkg/chattypes"

// Browser to server message types.
const (
	MsgPrompt = "prompt"
	MsgNew    = "new"
	MsgSelect = "select"
	MsgModel  = "model"
)

// Server to browser event types.
const (
	EventState       = "state"
	EventHistory     = "history"
	EventMessage     = "message"
	EventStreamStart = "stream_start"
	EventFragment    = "fragment"
	EventStreamEnd   = "stream_end"
	EventStatus      = "status"
	EventStatusClear = "status_clear"
	EventError       = "error"
)

// ClientMessage is a JSON message sent by the browser.
type ClientMessage struct {
	Type  string `json:"type"`
	Text  string `json:"text,omitempty"`
	Label string `json:"label,omitempty"`
	Model string `json:"model,omitempty"`
}

// Event is a JSON event sent to the browser. Only the fields of its type are set.
type Event struct {
	Type string `json:"type"`

	// state
	Models   []string `json:"models,omitempty"`
	Model    string   `json:"model,omitempty"`
	Labels   []string `json:"labels,omitempty"`
	Current  string   `json:"current,omitempty"`
	Provider string   `json:"provider,omitempty"`

	// history
	Messages []chattypes.Message `json:"messages,omitempty"`

	// message
	Message *chattypes.Message `json:"message,omitempty"`

	// stream_start
	Role chattypes.Role `json:"role,omitempty"`

	// fragment, status, error
	Text string `json:"text,omitempty"`
}
