// Package web exposes the JSON API. Presentation lives in a separate client;
// handlers translate HTTP to service calls and map workflow errors to stable
// error codes.
package web

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"homedex/internal/analysis"
	"homedex/internal/blobstore"
	"homedex/internal/service"
)

type Server struct {
	homes       *service.HomeService
	rooms       *service.RoomService
	coordinator *analysis.Coordinator
	blobs       blobstore.Store
	mux         *http.ServeMux
	logger      *slog.Logger
}

func NewServer(homes *service.HomeService, rooms *service.RoomService, coordinator *analysis.Coordinator, blobs blobstore.Store, logger *slog.Logger) *Server {
	s := &Server{
		homes:       homes,
		rooms:       rooms,
		coordinator: coordinator,
		blobs:       blobs,
		mux:         http.NewServeMux(),
		logger:      logger,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("POST /homes", s.handleCreateHome)
	s.mux.HandleFunc("GET /homes", s.handleListHomes)
	s.mux.HandleFunc("GET /homes/{homeID}", s.handleGetHome)
	s.mux.HandleFunc("PATCH /homes/{homeID}", s.handleUpdateHome)
	s.mux.HandleFunc("DELETE /homes/{homeID}", s.handleDeleteHome)
	s.mux.HandleFunc("DELETE /homes/{homeID}/cover", s.handleRemoveCover)

	s.mux.HandleFunc("POST /homes/{homeID}/rooms", s.handleCreateRoom)
	s.mux.HandleFunc("GET /homes/{homeID}/rooms", s.handleListRooms)
	s.mux.HandleFunc("GET /homes/{homeID}/rooms/{roomID}", s.handleGetRoom)
	s.mux.HandleFunc("PATCH /homes/{homeID}/rooms/{roomID}", s.handleRenameRoom)
	s.mux.HandleFunc("DELETE /homes/{homeID}/rooms/{roomID}", s.handleDeleteRoom)

	s.mux.HandleFunc("POST /homes/{homeID}/rooms/{roomID}/analysis", s.handleRunAnalysis)
	s.mux.HandleFunc("DELETE /homes/{homeID}/rooms/{roomID}/analysis", s.handleClearAnalysis)
	s.mux.HandleFunc("GET /homes/{homeID}/rooms/{roomID}/report.pdf", s.handleReport)

	s.mux.HandleFunc("GET /blobs/{key...}", s.handleGetBlob)
}

// statusRecorder wraps http.ResponseWriter to capture the written status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestLogger(s.logger, s.mux).ServeHTTP(w, r)
}

func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info("starting server", "addr", addr)
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return srv.ListenAndServe()
}

// ownerID extracts the caller identity. Authentication itself is delegated to
// the deployment in front of this service; the trusted proxy sets X-User-ID.
func (s *Server) ownerID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := r.Header.Get("X-User-ID")
	if id == "" {
		writeError(w, http.StatusUnauthorized, "unauthenticated", "missing user identity")
		return "", false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]string{"error": code, "message": message})
}
