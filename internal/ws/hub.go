package ws

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// OccupancyHub manages WebSocket connections for real-time occupancy
// streaming, keyed by stream ID.
type OccupancyHub struct {
	clients map[string]map[*websocket.Conn]bool
	mu      sync.RWMutex
}

// NewOccupancyHub creates an empty hub.
func NewOccupancyHub() *OccupancyHub {
	return &OccupancyHub{
		clients: make(map[string]map[*websocket.Conn]bool),
	}
}

// Register adds a connection for a stream.
func (h *OccupancyHub) Register(streamID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[streamID] == nil {
		h.clients[streamID] = make(map[*websocket.Conn]bool)
	}
	h.clients[streamID][conn] = true
	log.Printf("[WS] client registered for stream %s (total: %d)", streamID, len(h.clients[streamID]))
}

// Unregister removes a connection for a stream.
func (h *OccupancyHub) Unregister(streamID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if conns, ok := h.clients[streamID]; ok {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.clients, streamID)
		}
		log.Printf("[WS] client unregistered for stream %s", streamID)
	}
}

// HasClients reports whether any client is subscribed to the stream.
func (h *OccupancyHub) HasClients(streamID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	conns, ok := h.clients[streamID]
	return ok && len(conns) > 0
}

// ClientCount returns the total number of connected clients.
func (h *OccupancyHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	count := 0
	for _, conns := range h.clients {
		count += len(conns)
	}
	return count
}

// BroadcastOccupancy sends a verdict message to the stream's subscribers.
func (h *OccupancyHub) BroadcastOccupancy(streamID string, msg *OccupancyMessage) {
	if !h.HasClients(streamID) {
		return
	}
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("[WS] error marshaling occupancy message: %v", err)
		return
	}
	h.broadcast(streamID, data)
}

// BroadcastCalibration announces a new calibration to subscribers.
func (h *OccupancyHub) BroadcastCalibration(streamID string, msg *CalibrationMessage) {
	if !h.HasClients(streamID) {
		return
	}
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("[WS] error marshaling calibration message: %v", err)
		return
	}
	h.broadcast(streamID, data)
}

func (h *OccupancyHub) broadcast(streamID string, message []byte) {
	h.mu.RLock()
	conns := h.clients[streamID]
	h.mu.RUnlock()

	for conn := range conns {
		conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
			log.Printf("[WS] error sending to client: %v", err)
			h.Unregister(streamID, conn)
			conn.Close()
		}
	}
}
