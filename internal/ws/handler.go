package ws

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

const (
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Same model as the MJPEG endpoint: any origin may subscribe.
		return true
	},
}

// TokenValidator validates a bearer token. Satisfied by auth.Authenticator.
type TokenValidator interface {
	IsEnabled() bool
	ValidateTokenString(token string) error
}

// Handler upgrades HTTP requests to occupancy subscriptions.
type Handler struct {
	hub  *OccupancyHub
	auth TokenValidator
}

// NewHandler creates a WebSocket handler. auth may be nil to disable
// token checks.
func NewHandler(hub *OccupancyHub, auth TokenValidator) *Handler {
	return &Handler{hub: hub, auth: auth}
}

// ServeHTTP handles GET /ws/occupancy/{stream_id}.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Path: /ws/occupancy/{stream_id}
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) != 3 || parts[0] != "ws" || parts[1] != "occupancy" || parts[2] == "" {
		http.Error(w, "invalid websocket path", http.StatusBadRequest)
		return
	}
	streamID := parts[2]

	if h.auth != nil && h.auth.IsEnabled() {
		// Browsers cannot set headers on WebSocket upgrades, so the
		// token rides in the query string.
		token := r.URL.Query().Get("token")
		if token == "" {
			token = strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		}
		if err := h.auth.ValidateTokenString(token); err != nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[WS] upgrade failed for stream %s: %v", streamID, err)
		return
	}

	h.hub.Register(streamID, conn)
	go h.readPump(streamID, conn)
}

// readPump drains client messages and keeps the connection alive with
// pings. Subscribers never send application data; anything received is
// discarded.
func (h *Handler) readPump(streamID string, conn *websocket.Conn) {
	defer func() {
		h.hub.Unregister(streamID, conn)
		conn.Close()
	}()

	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
