package web

import (
	"net/http"
	"strings"

	"homedex/internal/domain"
)

const maxRoomNameLen = 200

func (s *Server) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	owner, ok := s.ownerID(w, r)
	if !ok {
		return
	}

	home, ok := s.requireHome(w, r, owner)
	if !ok {
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "room name required")
		return
	}
	if len(name) > maxRoomNameLen {
		writeError(w, http.StatusBadRequest, "bad_request", "room name too long")
		return
	}

	room, err := s.rooms.CreateRoom(r.Context(), home.ID, name)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal", "failed to create room")
		s.logger.Error("create room failed", "home_id", home.ID, "error", err)
		return
	}

	writeJSON(w, http.StatusCreated, toRoomJSON(room))
}

func (s *Server) handleListRooms(w http.ResponseWriter, r *http.Request) {
	owner, ok := s.ownerID(w, r)
	if !ok {
		return
	}

	home, ok := s.requireHome(w, r, owner)
	if !ok {
		return
	}

	rooms, err := s.rooms.ListRooms(r.Context(), home.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal", "failed to list rooms")
		s.logger.Error("list rooms failed", "home_id", home.ID, "error", err)
		return
	}

	out := make([]roomJSON, 0, len(rooms))
	for _, room := range rooms {
		out = append(out, toRoomJSON(room))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetRoom(w http.ResponseWriter, r *http.Request) {
	owner, ok := s.ownerID(w, r)
	if !ok {
		return
	}

	_, room, ok := s.requireRoom(w, r, owner)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, toRoomJSON(room))
}

func (s *Server) handleRenameRoom(w http.ResponseWriter, r *http.Request) {
	owner, ok := s.ownerID(w, r)
	if !ok {
		return
	}

	home, room, ok := s.requireRoom(w, r, owner)
	if !ok {
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" || len(name) > maxRoomNameLen {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid room name")
		return
	}

	updated, err := s.rooms.RenameRoom(r.Context(), home.ID, room.ID, name)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal", "failed to rename room")
		s.logger.Error("rename room failed", "room_id", room.ID, "error", err)
		return
	}

	writeJSON(w, http.StatusOK, toRoomJSON(updated))
}

func (s *Server) handleDeleteRoom(w http.ResponseWriter, r *http.Request) {
	owner, ok := s.ownerID(w, r)
	if !ok {
		return
	}

	home, room, ok := s.requireRoom(w, r, owner)
	if !ok {
		return
	}

	if err := s.rooms.DeleteRoom(r.Context(), home.ID, room.ID); err != nil {
		writeError(w, http.StatusInternalServerError, "internal", "failed to delete room")
		s.logger.Error("delete room failed", "room_id", room.ID, "error", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// requireHome loads the home from the path and enforces ownership. Writes a
// 404 and returns false when it is missing or owned by someone else.
func (s *Server) requireHome(w http.ResponseWriter, r *http.Request, owner string) (*domain.Home, bool) {
	home, err := s.homes.GetHome(r.Context(), owner, r.PathValue("homeID"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal", "failed to get home")
		s.logger.Error("get home failed", "error", err)
		return nil, false
	}
	if home == nil {
		writeError(w, http.StatusNotFound, "not_found", "home not found")
		return nil, false
	}
	return home, true
}

// requireRoom loads the home and room from the path, enforcing ownership.
func (s *Server) requireRoom(w http.ResponseWriter, r *http.Request, owner string) (*domain.Home, *domain.Room, bool) {
	home, ok := s.requireHome(w, r, owner)
	if !ok {
		return nil, nil, false
	}

	room, err := s.rooms.GetRoom(r.Context(), home.ID, r.PathValue("roomID"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal", "failed to get room")
		s.logger.Error("get room failed", "error", err)
		return nil, nil, false
	}
	if room == nil {
		writeError(w, http.StatusNotFound, "not_found", "room not found")
		return nil, nil, false
	}
	return home, room, true
}
