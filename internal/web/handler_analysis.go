package web

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"homedex/internal/analysis"
)

// maxPhotosPerAnalysis caps how many photos one analysis run accepts.
const maxPhotosPerAnalysis = 10

var errUnsupportedImage = errors.New("unsupported image format")

// allowedImageTypes is the set of MIME types accepted for uploaded photos.
// net/http.DetectContentType handles JPEG, PNG, and GIF via magic-byte
// sniffing. WebP is detected separately because the WHATWG sniff spec (and
// therefore the stdlib) does not include a WebP signature.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

// isWebP reports whether data is a WebP image (RIFF container with "WEBP" at
// offset 8).
func isWebP(data []byte) bool {
	return len(data) >= 12 &&
		string(data[0:4]) == "RIFF" &&
		string(data[8:12]) == "WEBP"
}

// allowedImageMIME returns the detected MIME type and true if the data is an
// accepted image format, or ("", false) otherwise.
func allowedImageMIME(data []byte) (string, bool) {
	if isWebP(data) {
		return "image/webp", true
	}
	mime := http.DetectContentType(data)
	if allowedImageTypes[mime] {
		return mime, true
	}
	return "", false
}

type analysisResponse struct {
	ObjectNames []string  `json:"objectNames"`
	PhotoURLs   []string  `json:"photoUrls"`
	AnalyzedAt  time.Time `json:"analyzedAt"`
}

func (s *Server) handleRunAnalysis(w http.ResponseWriter, r *http.Request) {
	owner, ok := s.ownerID(w, r)
	if !ok {
		return
	}

	home, room, ok := s.requireRoom(w, r, owner)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "failed to parse form")
		return
	}

	var fileHeaders []*multipart.FileHeader
	if r.MultipartForm != nil {
		fileHeaders = r.MultipartForm.File["photos"]
	}
	if len(fileHeaders) > maxPhotosPerAnalysis {
		writeError(w, http.StatusBadRequest, "bad_request", "too many photos")
		return
	}

	photos := make([]analysis.PendingPhoto, 0, len(fileHeaders))
	for _, fh := range fileHeaders {
		photo, err := s.readPendingPhoto(fh)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", err.Error())
			return
		}
		photos = append(photos, *photo)
	}

	result, err := s.coordinator.Run(r.Context(), analysis.Request{
		HomeID: home.ID,
		RoomID: room.ID,
		UserID: owner,
		Photos: photos,
	})
	if err != nil {
		s.writeAnalysisError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, analysisResponse{
		ObjectNames: result.ObjectNames,
		PhotoURLs:   result.PhotoURLs,
		AnalyzedAt:  result.AnalyzedAt,
	})
}

// readPendingPhoto reads one multipart file into a PendingPhoto, rejecting
// anything that does not sniff as an accepted image format.
func (s *Server) readPendingPhoto(fh *multipart.FileHeader) (*analysis.PendingPhoto, error) {
	file, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", fh.Filename, err)
	}
	defer closeWithLog(file, "photo file", s.logger)

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", fh.Filename, err)
	}

	mimeType, ok := allowedImageMIME(data)
	if !ok {
		return nil, errUnsupportedImage
	}

	return &analysis.PendingPhoto{
		Filename:    fh.Filename,
		ContentType: mimeType,
		Data:        data,
	}, nil
}

func (s *Server) handleClearAnalysis(w http.ResponseWriter, r *http.Request) {
	owner, ok := s.ownerID(w, r)
	if !ok {
		return
	}

	home, room, ok := s.requireRoom(w, r, owner)
	if !ok {
		return
	}

	if err := s.rooms.ClearAnalysis(r.Context(), home.ID, room.ID); err != nil {
		writeError(w, http.StatusInternalServerError, "internal", "failed to clear analysis results")
		s.logger.Error("clear analysis failed", "room_id", room.ID, "error", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// writeAnalysisError maps workflow errors to stable codes so the client can
// decide what to do with its pending photos: only a success response clears
// them.
func (s *Server) writeAnalysisError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		validationErr  *analysis.ValidationError
		uploadErr      *analysis.UploadError
		recognitionErr *analysis.RecognitionError
		persistErr     *analysis.PersistError
	)
	switch {
	case errors.As(err, &validationErr):
		writeError(w, http.StatusBadRequest, "validation", validationErr.Reason)
	case errors.Is(err, analysis.ErrAnalysisInProgress):
		writeError(w, http.StatusConflict, "analysis_in_progress", "an analysis is already running for this room")
	case errors.As(err, &uploadErr):
		writeError(w, http.StatusBadGateway, "upload_failed", "failed to upload photos; please retry")
	case errors.As(err, &recognitionErr):
		writeError(w, http.StatusBadGateway, "recognition_failed", "object recognition failed; please retry")
	case errors.As(err, &persistErr):
		writeError(w, http.StatusInternalServerError, "persist_failed", "analysis completed but the result could not be saved")
	default:
		writeError(w, http.StatusInternalServerError, "internal", "analysis failed")
	}
	s.logger.Error("analysis failed", "path", r.URL.Path, "error", err)
}
