package server

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"chatllm/internal/session"

	"github.com/gorilla/websocket"
)

const maxMessageSize = 64 * 1024

// connection is the state of one browser tab.
type connection struct {
	srv     *Server
	surface *wsSurface
	store   *session.Store
	model   string
	remote  string
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Error("Failed to upgrade connection", "remote", r.RemoteAddr, "error", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxMessageSize)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	s.metrics.Connections.Inc()
	defer s.metrics.Connections.Dec()

	c := &connection{
		srv:     s,
		surface: newWSSurface(conn, s.log, s.metrics),
		store:   s.opts.NewStore(),
		model:   s.opts.Models.DefaultModel(),
		remote:  r.RemoteAddr,
	}
	s.log.Info("Browser connected", "remote", c.remote)

	c.sendState()
	c.sendHistory()

	for {
		var msg ClientMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) && ctx.Err() == nil {
				s.log.Debug("Connection read ended", "remote", c.remote, "error", err)
			}
			break
		}
		c.handle(ctx, msg)
	}

	s.log.Info("Browser disconnected", "remote", c.remote)
}

func (c *connection) handle(ctx context.Context, msg ClientMessage) {
	switch msg.Type {
	case MsgPrompt:
		c.prompt(ctx, msg.Text)
	case MsgNew:
		if label, archived := c.store.StartNew(); archived {
			c.srv.log.Debug("Archived conversation", "label", label, "remote", c.remote)
		}
		c.sendState()
		c.sendHistory()
	case MsgSelect:
		if err := c.store.Select(msg.Label); err != nil {
			c.reject("unknown_label", err)
			return
		}
		c.sendState()
		c.sendHistory()
	case MsgModel:
		model, err := c.srv.opts.Models.Resolve(msg.Model)
		if err != nil {
			c.reject("unknown_model", err)
			return
		}
		if model != c.model {
			c.model = model
			c.store.NoteModelChange(model)
		}
		c.sendState()
		c.sendHistory()
	default:
		c.reject("unknown_type", errors.New("unknown message type "+msg.Type))
	}
}

func (c *connection) prompt(ctx context.Context, text string) {
	if strings.TrimSpace(text) == "" {
		c.reject("empty_prompt", errors.New("prompt cannot be empty"))
		return
	}

	resumed := c.store.IsViewingArchive()
	result := c.srv.opts.Chat.HandlePrompt(ctx, c.store, c.surface, c.model, text)

	outcome := "ok"
	if result.Err != nil {
		outcome = "error"
	}
	c.srv.metrics.Prompts.WithLabelValues(c.model, outcome).Inc()
	c.srv.metrics.TurnDuration.WithLabelValues(c.model).Observe(result.Duration.Seconds())

	if resumed {
		c.sendState()
	}
}

func (c *connection) reject(reason string, err error) {
	c.srv.metrics.ClientErrors.WithLabelValues(reason).Inc()
	c.surface.ShowError("Error: " + err.Error())
}

func (c *connection) sendState() {
	c.surface.send(Event{
		Type:     EventState,
		Models:   c.srv.opts.Models.Models(),
		Model:    c.model,
		Labels:   c.store.Labels(),
		Current:  c.store.CurrentLabel(),
		Provider: c.srv.opts.Models.Provider(),
	})
}

func (c *connection) sendHistory() {
	c.surface.send(Event{Type: EventHistory, Messages: c.store.View()})
}

