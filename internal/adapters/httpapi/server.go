// Package httpapi serves the watch daemon's dependency status over HTTP and WebSocket.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"go.trai.ch/bowersync/internal/core/domain"
	"go.trai.ch/bowersync/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 5 * time.Second
	writeTimeout      = 5 * time.Second
)

var _ ports.StatusServer = (*Server)(nil)

// EventTypeStatus is the type of the message sent to WebSocket clients.
const EventTypeStatus = "status"

// Event is the WebSocket message pushed to panels.
type Event struct {
	Type   string        `json:"type"`
	Status domain.Status `json:"status"`
}

type client struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *client) send(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Server implements ports.StatusServer.
type Server struct {
	logger   ports.Logger
	metrics  http.Handler
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[*client]struct{}
}

// NewServer creates a server. metrics may be nil, in which case /metrics is not routed.
func NewServer(logger ports.Logger, metrics http.Handler) *Server {
	return &Server{
		logger:  logger,
		metrics: metrics,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     localOrigin,
		},
		clients: make(map[*client]struct{}),
	}
}

// localOrigin accepts requests without an Origin header, from the server's own
// host, or from a loopback address.
func localOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return false
	}
	if u.Host == r.Host {
		return true
	}
	host := u.Hostname()
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

// Router builds the HTTP routes for source.
func (s *Server) Router(source ports.StatusSource) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/status", func(w http.ResponseWriter, _ *http.Request) {
		s.writeJSON(w, source.Status())
	})
	r.Get("/dependencies", func(w http.ResponseWriter, _ *http.Request) {
		s.writeJSON(w, source.Status().Dependencies)
	})
	r.Get("/events", func(w http.ResponseWriter, req *http.Request) {
		s.handleEvents(w, req, source)
	})
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}

	return r
}

// Serve listens on addr and serves until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, addr string, source ports.StatusSource) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return errors.Join(domain.ErrStatusServerFailed, zerr.With(zerr.Wrap(err, "failed to listen"), "addr", addr))
	}

	srv := &http.Server{
		Handler:           s.Router(source),
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	s.logger.Info("serving dependency status on http://" + ln.Addr().String())

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		s.closeClients()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Join(domain.ErrStatusServerFailed, zerr.Wrap(err, "server stopped"))
	case <-ctx.Done():
	}

	s.closeClients()
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Join(domain.ErrStatusServerFailed, zerr.Wrap(err, "failed to shut down"))
	}
	return nil
}

// Publish sends status to every connected WebSocket client.
// Clients that cannot be written to are dropped.
func (s *Server) Publish(status domain.Status) {
	data, err := json.Marshal(Event{Type: EventTypeStatus, Status: status})
	if err != nil {
		s.logger.Error(zerr.Wrap(err, "failed to encode status event"))
		return
	}

	s.mu.RLock()
	clients := make([]*client, 0, len(s.clients))
	for c := range s.clients {
		clients = append(clients, c)
	}
	s.mu.RUnlock()

	for _, c := range clients {
		if err := c.send(data); err != nil {
			s.remove(c)
		}
	}
}

// ClientCount returns the number of connected WebSocket clients.
func (s *Server) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

func (s *Server) handleEvents(w http.ResponseWriter, req *http.Request, source ports.StatusSource) {
	conn, err := s.upgrader.Upgrade(w, req, nil)
	if err != nil {
		return
	}

	c := &client{conn: conn}
	s.mu.Lock()
	s.clients[c] = struct{}{}
	s.mu.Unlock()

	data, err := json.Marshal(Event{Type: EventTypeStatus, Status: source.Status()})
	if err == nil {
		err = c.send(data)
	}
	if err != nil {
		s.remove(c)
		return
	}

	// Reads only detect the client going away.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	s.remove(c)
}

func (s *Server) remove(c *client) {
	s.mu.Lock()
	_, ok := s.clients[c]
	delete(s.clients, c)
	s.mu.Unlock()

	if ok {
		_ = c.conn.Close()
	}
}

func (s *Server) closeClients() {
	s.mu.RLock()
	clients := make([]*client, 0, len(s.clients))
	for c := range s.clients {
		clients = append(clients, c)
	}
	s.mu.RUnlock()

	for _, c := range clients {
		s.remove(c)
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		s.logger.Error(zerr.Wrap(err, "failed to write response"))
	}
}
