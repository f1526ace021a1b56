package web

import (
	"io"
	"net/http"

	"homedex/internal/report"
)

// handleGetBlob serves blobs from the local backend. Retrieval URLs are
// treated as public downloads (parity with hosted object-store URLs), so no
// identity is required here.
func (s *Server) handleGetBlob(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	rc, contentType, err := s.blobs.Get(r.Context(), key)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer func() {
		if err := rc.Close(); err != nil {
			s.logger.Error("failed to close blob reader", "key", key, "error", err)
		}
	}()

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("X-Content-Type-Options", "nosniff")
	if _, err := io.Copy(w, rc); err != nil {
		s.logger.Error("failed to stream blob", "key", key, "error", err)
	}
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	owner, ok := s.ownerID(w, r)
	if !ok {
		return
	}

	home, room, ok := s.requireRoom(w, r, owner)
	if !ok {
		return
	}

	if len(room.ObjectNames) == 0 {
		writeError(w, http.StatusNotFound, "no_results", "room has no analysis results")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+report.Filename(home, room)+`"`)
	if err := report.Render(w, home, room); err != nil {
		s.logger.Error("render report failed", "room_id", room.ID, "error", err)
	}
}
