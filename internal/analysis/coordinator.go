// Package analysis holds the room-photo-analysis workflow: upload the
// pending photos, run object recognition over them, and reconcile the result
// into the room record.
package analysis

import (
	"bytes"
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"homedex/internal/blobstore"
	"homedex/internal/recognition"
)

// roomAnalysisStore is the subset of store.RoomStore the Coordinator requires.
type roomAnalysisStore interface {
	BeginAnalysis(ctx context.Context, homeID, roomID, runID string) (bool, error)
	CommitAnalysisResult(ctx context.Context, homeID, roomID, runID string, objectNames, photoURLs []string, analyzedAt time.Time) error
	ResetAnalyzing(ctx context.Context, homeID, roomID, runID string) error
}

// PendingPhoto is a locally-held image selected for analysis but not yet
// uploaded. It has no identity beyond its filename and position in the list.
type PendingPhoto struct {
	Filename    string
	ContentType string
	Data        []byte
}

type Request struct {
	HomeID string
	RoomID string
	UserID string
	Photos []PendingPhoto
}

// Result is returned only on success. PhotoURLs match the input photo order;
// ObjectNames are in the order the recognition service produced them.
type Result struct {
	RunID       string
	ObjectNames []string
	PhotoURLs   []string
	AnalyzedAt  time.Time
}

type Coordinator struct {
	rooms      roomAnalysisStore
	blobs      blobstore.Store
	recognizer recognition.Recognizer
	clock      Clock
	logger     *slog.Logger
}

func NewCoordinator(rooms roomAnalysisStore, blobs blobstore.Store, recognizer recognition.Recognizer, clock Clock, logger *slog.Logger) *Coordinator {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Coordinator{
		rooms:      rooms,
		blobs:      blobs,
		recognizer: recognizer,
		clock:      clock,
		logger:     logger,
	}
}

// Run executes one analysis: acquire the room's analyzing flag under a fresh
// run token, upload each photo in order, recognize once over the full URL
// list, and commit the outcome. On any failure after acquisition the flag is
// reset best-effort and photos already uploaded are left in place; their URLs
// are logged so they can be reaped out of band.
//
// After Run returns, the room's analyzing flag is clear unless the reset
// itself failed, in which case the room stays stuck until an explicit clear.
func (c *Coordinator) Run(ctx context.Context, req Request) (*Result, error) {
	if len(req.Photos) == 0 {
		return nil, &ValidationError{Reason: "no photos selected"}
	}
	if req.UserID == "" {
		return nil, &ValidationError{Reason: "missing user id"}
	}

	runID := uuid.NewString()
	acquired, err := c.rooms.BeginAnalysis(ctx, req.HomeID, req.RoomID, runID)
	if err != nil {
		return nil, &PersistError{Err: err}
	}
	if !acquired {
		return nil, ErrAnalysisInProgress
	}

	c.logger.Info("analysis started",
		"home_id", req.HomeID, "room_id", req.RoomID, "run_id", runID, "photos", len(req.Photos))

	// Sequential uploads keep the URL list in input order and bound the
	// concurrent network load.
	photoURLs := make([]string, 0, len(req.Photos))
	for i, photo := range req.Photos {
		key := blobstore.AnalysisPhotoKey(req.UserID, req.RoomID, c.clock.Now(), photo.Filename)
		url, err := c.blobs.Upload(ctx, key, photo.ContentType, bytes.NewReader(photo.Data))
		if err != nil {
			c.logger.Error("photo upload failed",
				"room_id", req.RoomID, "run_id", runID, "photo", photo.Filename, "index", i, "error", err)
			c.abandonUploads(photoURLs, runID)
			c.reset(ctx, req, runID)
			return nil, &UploadError{Filename: photo.Filename, Err: err}
		}
		photoURLs = append(photoURLs, url)
		c.logger.Debug("photo uploaded", "room_id", req.RoomID, "run_id", runID, "url", url)
	}

	// One recognition call per run, never per photo.
	objectNames, err := c.recognizer.Identify(ctx, photoURLs)
	if err != nil {
		c.logger.Error("recognition failed", "room_id", req.RoomID, "run_id", runID, "error", err)
		c.abandonUploads(photoURLs, runID)
		c.reset(ctx, req, runID)
		return nil, &RecognitionError{Err: err}
	}

	analyzedAt := c.clock.Now()
	if err := c.rooms.CommitAnalysisResult(ctx, req.HomeID, req.RoomID, runID, objectNames, photoURLs, analyzedAt); err != nil {
		c.logger.Error("result commit failed", "room_id", req.RoomID, "run_id", runID, "error", err)
		c.abandonUploads(photoURLs, runID)
		// The reset is conditional on the token, so a stale run cannot
		// clear a newer run's flag here.
		c.reset(ctx, req, runID)
		return nil, &PersistError{Err: err}
	}

	c.logger.Info("analysis complete",
		"home_id", req.HomeID, "room_id", req.RoomID, "run_id", runID, "objects", len(objectNames))

	return &Result{
		RunID:       runID,
		ObjectNames: objectNames,
		PhotoURLs:   photoURLs,
		AnalyzedAt:  analyzedAt,
	}, nil
}

// reset clears the analyzing flag after a failed run. Best-effort: a failure
// here is logged, never re-raised, so it cannot mask the original error. If
// it fails the room stays analyzing until an explicit clear.
func (c *Coordinator) reset(ctx context.Context, req Request, runID string) {
	if err := c.rooms.ResetAnalyzing(ctx, req.HomeID, req.RoomID, runID); err != nil {
		c.logger.Error("failed to reset analyzing flag; room requires explicit clear",
			"home_id", req.HomeID, "room_id", req.RoomID, "run_id", runID, "error", err)
	}
}

// abandonUploads logs blobs uploaded by a run that failed before commit.
// They are not deleted; nothing references them and an operator can reap
// them from the log.
func (c *Coordinator) abandonUploads(urls []string, runID string) {
	for _, u := range urls {
		c.logger.Warn("orphaned analysis photo", "run_id", runID, "url", u)
	}
}
