package server

import (
	"sync"
	"time"

	"chatllm/pkg/chattypes"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

const writeWait = 10 * time.Second

// wsSurface implements chattypes.Surface by sending events over one
// WebSocket connection. Write failures are logged once; the read loop notices
// the broken connection.
type wsSurface struct {
	mu      sync.Mutex
	conn    *websocket.Conn
	log     *log.Logger
	metrics *Metrics
	failed  bool
}

var _ chattypes.Surface = (*wsSurface)(nil)

func newWSSurface(conn *websocket.Conn, logger *log.Logger, metrics *Metrics) *wsSurface {
	return &wsSurface{conn: conn, log: logger, metrics: metrics}
}

func (s *wsSurface) send(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failed {
		return
	}
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := s.conn.WriteJSON(ev); err != nil {
		s.failed = true
		s.log.Warn("Failed to send event", "type", ev.Type, "error", err)
	}
}

func (s *wsSurface) RenderMessage(msg chattypes.Message) {
	s.send(Event{Type: EventMessage, Message: &msg})
}

func (s *wsSurface) BeginStream(role chattypes.Role) {
	s.send(Event{Type: EventStreamStart, Role: role})
}

func (s *wsSurface) WriteFragment(fragment string) {
	s.metrics.Fragments.Inc()
	s.send(Event{Type: EventFragment, Text: fragment})
}

func (s *wsSurface) EndStream() {
	s.send(Event{Type: EventStreamEnd})
}

func (s *wsSurface) ShowStatus(text string) {
	s.send(Event{Type: EventStatus, Text: text})
}

func (s *wsSurface) ClearStatus() {
	s.send(Event{Type: EventStatusClear})
}

func (s *wsSurface) ShowError(text string) {
	s.send(Event{Type: EventError, Text: text})
}
