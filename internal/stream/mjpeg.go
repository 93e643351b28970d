package stream

import (
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
)

// Broadcaster fans annotated JPEG frames out to MJPEG viewers, one
// feed per stream ID. Workers publish frames; HTTP clients subscribe.
type Broadcaster struct {
	feeds map[string]*feed
	mu    sync.RWMutex
}

type feed struct {
	clients   map[chan []byte]bool
	clientsMu sync.RWMutex

	lastFrame []byte
	frameMu   sync.RWMutex
}

// NewBroadcaster creates an empty broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{feeds: make(map[string]*feed)}
}

func (b *Broadcaster) feedFor(streamID string) *feed {
	b.mu.Lock()
	defer b.mu.Unlock()
	f, ok := b.feeds[streamID]
	if !ok {
		f = &feed{clients: make(map[chan []byte]bool)}
		b.feeds[streamID] = f
	}
	return f
}

// Publish stores the frame as the stream's latest and sends it to all
// connected viewers. Slow viewers skip frames rather than block the
// pipeline.
func (b *Broadcaster) Publish(streamID string, jpegFrame []byte) {
	if len(jpegFrame) == 0 {
		return
	}
	f := b.feedFor(streamID)

	f.frameMu.Lock()
	f.lastFrame = jpegFrame
	f.frameMu.Unlock()

	f.clientsMu.RLock()
	for ch := range f.clients {
		select {
		case ch <- jpegFrame:
		default:
		}
	}
	f.clientsMu.RUnlock()
}

// LastFrame returns the most recent frame for a stream, or nil.
func (b *Broadcaster) LastFrame(streamID string) []byte {
	b.mu.RLock()
	f := b.feeds[streamID]
	b.mu.RUnlock()
	if f == nil {
		return nil
	}
	f.frameMu.RLock()
	defer f.frameMu.RUnlock()
	return f.lastFrame
}

// ServeHTTP handles GET /streams/{stream_id}/mjpeg.
func (b *Broadcaster) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) != 3 || parts[0] != "streams" || parts[2] != "mjpeg" || parts[1] == "" {
		http.Error(w, "invalid stream path", http.StatusBadRequest)
		return
	}
	streamID := parts[1]

	b.mu.RLock()
	_, known := b.feeds[streamID]
	b.mu.RUnlock()
	if !known {
		http.Error(w, fmt.Sprintf("stream %s not found", streamID), http.StatusNotFound)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	f := b.feedFor(streamID)
	clientCh := make(chan []byte, 5)
	f.clientsMu.Lock()
	f.clients[clientCh] = true
	f.clientsMu.Unlock()

	defer func() {
		f.clientsMu.Lock()
		delete(f.clients, clientCh)
		f.clientsMu.Unlock()
	}()

	log.Printf("[MJPEG] viewer connected to stream %s", streamID)

	for {
		select {
		case <-r.Context().Done():
			log.Printf("[MJPEG] viewer disconnected from stream %s", streamID)
			return
		case frame := <-clientCh:
			fmt.Fprintf(w, "--frame\r\n")
			fmt.Fprintf(w, "Content-Type: image/jpeg\r\n")
			fmt.Fprintf(w, "Content-Length: %d\r\n\r\n", len(frame))
			w.Write(frame)
			fmt.Fprintf(w, "\r\n")
			flusher.Flush()
		}
	}
}

// SnapshotHandler serves the latest annotated frame as a single JPEG
// at GET /streams/{stream_id}/snapshot.
type SnapshotHandler struct {
	broadcaster *Broadcaster
}

// NewSnapshotHandler creates a snapshot handler.
func NewSnapshotHandler(b *Broadcaster) *SnapshotHandler {
	return &SnapshotHandler{broadcaster: b}
}

func (h *SnapshotHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) != 3 || parts[0] != "streams" || parts[2] != "snapshot" || parts[1] == "" {
		http.Error(w, "invalid stream path", http.StatusBadRequest)
		return
	}
	streamID := parts[1]

	frame := h.broadcaster.LastFrame(streamID)
	if frame == nil {
		http.Error(w, "no frame available", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(frame)))
	w.Write(frame)
}
