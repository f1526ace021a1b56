package web

import (
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"homedex/internal/service"
)

const maxHomeNameLen = 200

// maxUploadSize bounds the in-memory multipart form budget for a single
// request.
const maxUploadSize = 50 * 1024 * 1024 // 50 MB

func (s *Server) handleCreateHome(w http.ResponseWriter, r *http.Request) {
	owner, ok := s.ownerID(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "failed to parse form")
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "home name required")
		return
	}
	if len(name) > maxHomeNameLen {
		writeError(w, http.StatusBadRequest, "bad_request", "home name too long")
		return
	}
	description := strings.TrimSpace(r.FormValue("description"))

	cover, err := s.readCoverUpload(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	home, err := s.homes.CreateHome(r.Context(), owner, name, description, cover)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal", "failed to create home")
		s.logger.Error("create home failed", "owner_id", owner, "error", err)
		return
	}

	writeJSON(w, http.StatusCreated, toHomeJSON(home))
}

func (s *Server) handleListHomes(w http.ResponseWriter, r *http.Request) {
	owner, ok := s.ownerID(w, r)
	if !ok {
		return
	}

	homes, err := s.homes.ListHomes(r.Context(), owner)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal", "failed to list homes")
		s.logger.Error("list homes failed", "owner_id", owner, "error", err)
		return
	}

	out := make([]homeJSON, 0, len(homes))
	for _, h := range homes {
		out = append(out, toHomeJSON(h))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetHome(w http.ResponseWriter, r *http.Request) {
	owner, ok := s.ownerID(w, r)
	if !ok {
		return
	}

	home, err := s.homes.GetHome(r.Context(), owner, r.PathValue("homeID"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal", "failed to get home")
		s.logger.Error("get home failed", "error", err)
		return
	}
	if home == nil {
		writeError(w, http.StatusNotFound, "not_found", "home not found")
		return
	}

	writeJSON(w, http.StatusOK, toHomeJSON(home))
}

func (s *Server) handleUpdateHome(w http.ResponseWriter, r *http.Request) {
	owner, ok := s.ownerID(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "failed to parse form")
		return
	}

	var name, description *string
	if v, present := formValue(r, "name"); present {
		trimmed := strings.TrimSpace(v)
		if trimmed == "" || len(trimmed) > maxHomeNameLen {
			writeError(w, http.StatusBadRequest, "bad_request", "invalid home name")
			return
		}
		name = &trimmed
	}
	if v, present := formValue(r, "description"); present {
		trimmed := strings.TrimSpace(v)
		description = &trimmed
	}

	cover, err := s.readCoverUpload(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	home, err := s.homes.UpdateHome(r.Context(), owner, r.PathValue("homeID"), name, description, cover)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal", "failed to update home")
		s.logger.Error("update home failed", "error", err)
		return
	}
	if home == nil {
		writeError(w, http.StatusNotFound, "not_found", "home not found")
		return
	}

	writeJSON(w, http.StatusOK, toHomeJSON(home))
}

func (s *Server) handleDeleteHome(w http.ResponseWriter, r *http.Request) {
	owner, ok := s.ownerID(w, r)
	if !ok {
		return
	}

	if err := s.homes.DeleteHome(r.Context(), owner, r.PathValue("homeID")); err != nil {
		if errors.Is(err, service.ErrHomeNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "home not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal", "failed to delete home")
		s.logger.Error("delete home failed", "error", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRemoveCover(w http.ResponseWriter, r *http.Request) {
	owner, ok := s.ownerID(w, r)
	if !ok {
		return
	}

	if err := s.homes.RemoveCoverImage(r.Context(), owner, r.PathValue("homeID")); err != nil {
		if errors.Is(err, service.ErrHomeNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "home not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal", "failed to remove cover image")
		s.logger.Error("remove cover failed", "error", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// readCoverUpload pulls the optional "cover" file out of a parsed multipart
// form and validates it is an accepted image format.
func (s *Server) readCoverUpload(r *http.Request) (*service.CoverUpload, error) {
	file, header, err := r.FormFile("cover")
	if err == http.ErrMissingFile {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer closeWithLog(file, "cover file", s.logger)

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	mimeType, ok := allowedImageMIME(data)
	if !ok {
		return nil, errUnsupportedImage
	}

	return &service.CoverUpload{
		Filename:    header.Filename,
		ContentType: mimeType,
		Data:        data,
	}, nil
}

// formValue reports whether a multipart field was present at all, so PATCH
// can distinguish "leave unchanged" from "set to empty".
func formValue(r *http.Request, key string) (string, bool) {
	if r.MultipartForm == nil {
		return "", false
	}
	vals, ok := r.MultipartForm.Value[key]
	if !ok || len(vals) == 0 {
		return "", false
	}
	return vals[0], true
}

func closeWithLog(f multipart.File, what string, logger *slog.Logger) {
	if err := f.Close(); err != nil {
		logger.Error("failed to close "+what, "error", err)
	}
}
