// Package viz streams arena snapshots to spectators over websockets.
package viz

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const writeWait = 2 * time.Second

// Hub fans each broadcast out to every connected subscriber. New
// subscribers receive the latest message on connect.
type Hub struct {
	mu          sync.Mutex
	subscribers map[*subscriber]struct{}
	latest      []byte
	sent        uint64

	upgrader websocket.Upgrader
	log      *slog.Logger
}

type subscriber struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (s *subscriber) write(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

// NewHub creates a hub with no subscribers.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		subscribers: make(map[*subscriber]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		log: logger,
	}
}

// Handler routes /ws to the stream and /healthz to a liveness probe.
func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", h.serveWS)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"status":      "ok",
			"subscribers": h.Subscribers(),
			"broadcasts":  h.Broadcasts(),
		})
	})
	return mux
}

func (h *Hub) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	sub := &subscriber{conn: conn}
	h.mu.Lock()
	h.subscribers[sub] = struct{}{}
	latest := h.latest
	h.mu.Unlock()
	h.log.Debug("spectator connected", "remote", r.RemoteAddr)

	if latest != nil {
		if err := sub.write(latest); err != nil {
			h.drop(sub)
			return
		}
	}

	// Spectators never send anything meaningful; reading detects the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			h.drop(sub)
			return
		}
	}
}

func (h *Hub) drop(sub *subscriber) {
	h.mu.Lock()
	_, ok := h.subscribers[sub]
	delete(h.subscribers, sub)
	h.mu.Unlock()
	if ok {
		sub.conn.Close()
		h.log.Debug("spectator disconnected")
	}
}

// Broadcast encodes v as JSON and sends it to every subscriber. Subscribers
// whose write fails are dropped.
func (h *Hub) Broadcast(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshaling broadcast: %w", err)
	}

	h.mu.Lock()
	h.latest = data
	h.sent++
	subs := make([]*subscriber, 0, len(h.subscribers))
	for sub := range h.subscribers {
		subs = append(subs, sub)
	}
	h.mu.Unlock()

	for _, sub := range subs {
		if err := sub.write(data); err != nil {
			h.log.Debug("dropping spectator", "error", err)
			h.drop(sub)
		}
	}
	return nil
}

// Subscribers returns the number of connected spectators.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}

// Broadcasts returns how many messages have been broadcast.
func (h *Hub) Broadcasts() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.sent
}

// Close disconnects every subscriber.
func (h *Hub) Close() {
	h.mu.Lock()
	subs := h.subscribers
	h.subscribers = make(map[*subscriber]struct{})
	h.mu.Unlock()

	for sub := range subs {
		sub.mu.Lock()
		sub.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
			time.Now().Add(writeWait))
		sub.mu.Unlock()
		sub.conn.Close()
	}
}

// Server serves a Hub on a TCP address.
type Server struct {
	hub *Hub
	srv *http.Server
	ln  net.Listener
	log *slog.Logger
}

// Listen binds addr and starts serving hub in the background.
func Listen(addr string, hub *Hub, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listening on %s: %w", addr, err)
	}

	s := &Server{
		hub: hub,
		srv: &http.Server{Handler: hub.Handler(), ReadHeaderTimeout: 5 * time.Second},
		ln:  ln,
		log: logger,
	}
	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("viz server stopped", "error", err)
		}
	}()
	s.log.Info("viz server listening", "addr", ln.Addr().String())
	return s, nil
}

// Addr returns the bound address.
func (s *Server) Addr() string { return s.ln.Addr().String() }

// Shutdown closes the subscribers and stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.Close()
	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down viz server: %w", err)
	}
	return nil
}
