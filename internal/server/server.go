// Package server provides the browser surface of chatllm: an embedded
// single-page UI talking to the process over a WebSocket, plus Prometheus
// metrics and a liveness probe.
//
// Every WebSocket connection owns its own conversation store and processes
// its messages sequentially on the connection's read loop.
package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"time"

	"chatllm/internal/logger"
	"chatllm/internal/services"
	"chatllm/internal/session"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

//go:embed static
var staticFS embed.FS

const shutdownTimeout = 5 * time.Second

// Options wires a Server to its collaborators.
type Options struct {
	Addr   string
	Chat   *services.ChatService
	Models *services.ModelService
	// NewStore creates the store of each connection. Defaults to session.New.
	NewStore func() *session.Store
	// Registry receives the server metrics. Defaults to a fresh registry
	// with the Go and process collectors.
	Registry *prometheus.Registry
}

// Server serves the browser surface.
type Server struct {
	opts     Options
	log      *log.Logger
	metrics  *Metrics
	upgrader websocket.Upgrader
	mux      *http.ServeMux
}

// New creates a Server.
func New(opts Options) *Server {
	if opts.NewStore == nil {
		opts.NewStore = session.New
	}
	if opts.Registry == nil {
		opts.Registry = prometheus.NewRegistry()
		opts.Registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	s := &Server{
		opts:    opts,
		log:     logger.NewStyledLogger("Server"),
		metrics: NewMetrics(opts.Registry),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
		mux: http.NewServeMux(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(fmt.Sprintf("embedded static files: %v", err))
	}

	s.mux.Handle("GET /", http.FileServer(http.FS(static)))
	s.mux.HandleFunc("GET /ws", s.handleWebSocket)
	s.mux.Handle("GET /metrics", promhttp.HandlerFor(s.opts.Registry, promhttp.HandlerOpts{}))
	s.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok\n"))
	})
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Metrics returns the server collectors.
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
// Open WebSocket connections are closed when ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("Listening", "addr", s.opts.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	s.log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
