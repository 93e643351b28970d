package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"parkwatch/internal/auth"
	"parkwatch/internal/config"
	"parkwatch/internal/database"
	"parkwatch/internal/metrics"
	"parkwatch/internal/middleware"
	"parkwatch/internal/stream"
	"parkwatch/internal/ws"
)

// server bundles everything the HTTP layer serves from.
type server struct {
	cfg           *config.Config
	db            *database.Database
	authenticator *auth.Authenticator
	hub           *ws.OccupancyHub
	metrics       *metrics.Metrics
	broadcaster   *stream.Broadcaster
	manager       *stream.Manager
	logger        *log.Logger
	debug         bool
}

// handleHTTPServer starts the HTTP server and wires the shutdown path
// into the context and error channel.
func handleHTTPServer(ctx context.Context, s *server, wg *sync.WaitGroup, errc chan error) {
	mux := http.NewServeMux()

	requireAuth := middleware.AuthMiddleware(s.authenticator)

	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.Handle("/metrics", s.metrics.Handler())
	mux.HandleFunc("/api/login", s.handleLogin)
	mux.Handle("/api/streams", requireAuth(http.HandlerFunc(s.handleListStreams)))
	mux.Handle("/api/streams/", requireAuth(http.HandlerFunc(s.handleStreamAPI)))
	mux.Handle("/ws/occupancy/", ws.NewHandler(s.hub, s.authenticator))
	mux.Handle("/streams/", s.streamMediaHandler())

	var handler http.Handler = mux
	if s.debug {
		handler = s.logRequests(mux)
	}

	httpSrv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.HTTPPort),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	wg.Add(1)
	go func() {
		defer wg.Done()

		go func() {
			s.logger.Printf("HTTP server listening on %s", httpSrv.Addr)
			errc <- httpSrv.ListenAndServe()
		}()

		<-ctx.Done()
		s.logger.Println("shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		httpSrv.Shutdown(shutdownCtx)
	}()
}

func (s *server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Printf("%s %s (%s)", r.Method, r.URL.Path, time.Since(start))
	})
}

// streamMediaHandler dispatches /streams/{id}/mjpeg and
// /streams/{id}/snapshot.
func (s *server) streamMediaHandler() http.Handler {
	snapshots := stream.NewSnapshotHandler(s.broadcaster)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/snapshot") {
			snapshots.ServeHTTP(w, r)
			return
		}
		s.broadcaster.ServeHTTP(w, r)
	})
}

func (s *server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"clients": s.hub.ClientCount(),
	})
}

func (s *server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error": "invalid request body"}`, http.StatusBadRequest)
		return
	}

	token, expiresAt, err := s.authenticator.Authenticate(req.Username, req.Password)
	if err != nil {
		if err == auth.ErrAuthDisabled {
			http.Error(w, `{"error": "authentication is disabled"}`, http.StatusNotImplemented)
			return
		}
		http.Error(w, `{"error": "invalid credentials"}`, http.StatusUnauthorized)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"token":      token,
		"expires_at": expiresAt,
	})
}

func (s *server) handleListStreams(w http.ResponseWriter, r *http.Request) {
	streams, err := s.db.ListStreams()
	if err != nil {
		s.logger.Printf("listing streams: %v", err)
		http.Error(w, `{"error": "internal error"}`, http.StatusInternalServerError)
		return
	}

	type streamView struct {
		ID        string `json:"id"`
		Name      string `json:"name"`
		Device    string `json:"device"`
		Status    string `json:"status"`
		Threshold int    `json:"threshold,omitempty"`
	}
	out := make([]streamView, 0, len(streams))
	for _, rec := range streams {
		v := streamView{
			ID:     rec.ID,
			Name:   rec.Name,
			Device: rec.Device,
			Status: rec.Status,
		}
		if worker := s.manager.Get(rec.ID); worker != nil {
			v.Threshold = worker.Threshold()
		}
		out = append(out, v)
	}
	writeJSON(w, http.StatusOK, out)
}

// handleStreamAPI dispatches /api/streams/{id}/occupancy and
// /api/streams/{id}/calibrations.
func (s *server) handleStreamAPI(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) != 4 || parts[0] != "api" || parts[1] != "streams" {
		http.Error(w, `{"error": "not found"}`, http.StatusNotFound)
		return
	}
	streamID := parts[2]

	limit := 100
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	switch parts[3] {
	case "occupancy":
		var since *time.Time
		if v := r.URL.Query().Get("since"); v != "" {
			t, err := time.Parse(time.RFC3339, v)
			if err != nil {
				http.Error(w, `{"error": "invalid since timestamp"}`, http.StatusBadRequest)
				return
			}
			since = &t
		}
		snapshots, err := s.db.ListSnapshots(streamID, since, limit)
		if err != nil {
			s.logger.Printf("listing snapshots for %s: %v", streamID, err)
			http.Error(w, `{"error": "internal error"}`, http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, snapshots)

	case "calibrations":
		calibrations, err := s.db.ListCalibrations(streamID, limit)
		if err != nil {
			s.logger.Printf("listing calibrations for %s: %v", streamID, err)
			http.Error(w, `{"error": "internal error"}`, http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, calibrations)

	default:
		http.Error(w, `{"error": "not found"}`, http.StatusNotFound)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
