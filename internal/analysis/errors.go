package analysis

import (
	"errors"
	"fmt"
)

// ErrAnalysisInProgress is returned when a run cannot start because another
// run already holds the room's analyzing flag.
var ErrAnalysisInProgress = errors.New("analysis already in progress")

// ValidationError rejects a request before any side effect.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid analysis request: " + e.Reason
}

// UploadError reports a failed photo upload. Uploads that succeeded before
// the failure are not rolled back.
type UploadError struct {
	Filename string
	Err      error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("failed to upload %s: %v", e.Filename, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

// RecognitionError reports a failed object recognition call.
type RecognitionError struct {
	Err error
}

func (e *RecognitionError) Error() string {
	return "object recognition failed: " + e.Err.Error()
}

func (e *RecognitionError) Unwrap() error { return e.Err }

// PersistError reports a failed result commit after recognition succeeded.
// The recognition result is discarded; the caller must re-run the analysis.
type PersistError struct {
	Err error
}

func (e *PersistError) Error() string {
	return "failed to persist analysis result: " + e.Err.Error()
}

func (e *PersistError) Unwrap() error { return e.Err }
