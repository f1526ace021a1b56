package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"homedex/internal/domain"
)

// ErrStaleRun is returned when an analysis-state update carries a run token
// that no longer owns the room. A later run (or an explicit clear) has taken
// over; the stale caller must not touch the record.
var ErrStaleRun = fmt.Errorf("analysis run token is stale")

type RoomStore struct {
	db *sql.DB
}

func NewRoomStore(db *sql.DB) *RoomStore {
	return &RoomStore{db: db}
}

func (s *RoomStore) Create(ctx context.Context, homeID, name string) (*domain.Room, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO rooms (id, home_id, name) VALUES (?, ?, ?)
	`, id, homeID, name)
	if err != nil {
		return nil, fmt.Errorf("failed to create room: %w", err)
	}

	return s.GetByID(ctx, homeID, id)
}

func (s *RoomStore) GetByID(ctx context.Context, homeID, roomID string) (*domain.Room, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, home_id, name, created_at, object_names, is_analyzing, analysis_run_id,
		       last_analyzed_at, analyzed_photo_urls
		FROM rooms WHERE id = ? AND home_id = ?
	`, roomID, homeID)
	return scanRoom(row)
}

func (s *RoomStore) ListByHome(ctx context.Context, homeID string) ([]*domain.Room, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, home_id, name, created_at, object_names, is_analyzing, analysis_run_id,
		       last_analyzed_at, analyzed_photo_urls
		FROM rooms WHERE home_id = ? ORDER BY created_at DESC, id
	`, homeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	defer rows.Close()

	var out []*domain.Room
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, room)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read rooms: %w", err)
	}

	return out, nil
}

func (s *RoomStore) UpdateName(ctx context.Context, homeID, roomID, name string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE rooms SET name = ? WHERE id = ? AND home_id = ?
	`, name, roomID, homeID)
	if err != nil {
		return fmt.Errorf("failed to update room: %w", err)
	}
	return requireRow(result, "room")
}

func (s *RoomStore) Delete(ctx context.Context, homeID, roomID string) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM rooms WHERE id = ? AND home_id = ?
	`, roomID, homeID)
	if err != nil {
		return fmt.Errorf("failed to delete room: %w", err)
	}
	return requireRow(result, "room")
}

func (s *RoomStore) DeleteByHome(ctx context.Context, homeID string) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM rooms WHERE home_id = ?
	`, homeID)
	if err != nil {
		return fmt.Errorf("failed to delete rooms for home: %w", err)
	}
	return nil
}

// BeginAnalysis marks the room as analyzing and records runID as the owning
// token. It is a conditional update: it succeeds only when no analysis is in
// flight. Returns false (with no error) when the room is missing or another
// run already holds the flag.
func (s *RoomStore) BeginAnalysis(ctx context.Context, homeID, roomID, runID string) (bool, error) {
	result, err := s.db.ExecContext(ctx, `
		UPDATE rooms SET is_analyzing = 1, analysis_run_id = ?
		WHERE id = ? AND home_id = ? AND is_analyzing = 0
	`, runID, roomID, homeID)
	if err != nil {
		return false, fmt.Errorf("failed to begin analysis: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected == 1, nil
}

// CommitAnalysisResult persists the outcome of a completed run: object names,
// the photo URLs they were derived from, the analysis timestamp, and the flag
// clear, in a single statement conditional on runID still owning the room.
func (s *RoomStore) CommitAnalysisResult(ctx context.Context, homeID, roomID, runID string, objectNames, photoURLs []string, analyzedAt time.Time) error {
	names, err := json.Marshal(objectNames)
	if err != nil {
		return fmt.Errorf("failed to encode object names: %w", err)
	}
	urls, err := json.Marshal(photoURLs)
	if err != nil {
		return fmt.Errorf("failed to encode photo urls: %w", err)
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE rooms SET object_names = ?, analyzed_photo_urls = ?, last_analyzed_at = ?,
		       is_analyzing = 0, analysis_run_id = ''
		WHERE id = ? AND home_id = ? AND is_analyzing = 1 AND analysis_run_id = ?
	`, string(names), string(urls), analyzedAt.UTC(), roomID, homeID, runID)
	if err != nil {
		return fmt.Errorf("failed to commit analysis result: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrStaleRun
	}
	return nil
}

// ResetAnalyzing clears the analyzing flag after a failed run. Conditional on
// runID so a stale run cannot clear a newer run's flag. Resetting a room that
// is no longer owned is a no-op, not an error.
func (s *RoomStore) ResetAnalyzing(ctx context.Context, homeID, roomID, runID string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE rooms SET is_analyzing = 0, analysis_run_id = ''
		WHERE id = ? AND home_id = ? AND analysis_run_id = ?
	`, roomID, homeID, runID)
	if err != nil {
		return fmt.Errorf("failed to reset analyzing flag: %w", err)
	}
	return nil
}

// ClearAnalysisResult removes the analysis outcome: object names and timestamp
// go back to null, the photo URL list empties, and any in-flight flag is
// cleared. Blob deletion is the caller's responsibility.
func (s *RoomStore) ClearAnalysisResult(ctx context.Context, homeID, roomID string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE rooms SET object_names = NULL, analyzed_photo_urls = '[]', last_analyzed_at = NULL,
		       is_analyzing = 0, analysis_run_id = ''
		WHERE id = ? AND home_id = ?
	`, roomID, homeID)
	if err != nil {
		return fmt.Errorf("failed to clear analysis result: %w", err)
	}
	return requireRow(result, "room")
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRoom(row rowScanner) (*domain.Room, error) {
	room := &domain.Room{}
	var (
		names      sql.NullString
		urls       string
		analyzedAt sql.NullTime
	)
	err := row.Scan(&room.ID, &room.HomeID, &room.Name, &room.CreatedAt, &names,
		&room.IsAnalyzing, &room.AnalysisRunID, &analyzedAt, &urls)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan room: %w", err)
	}

	if names.Valid {
		if err := json.Unmarshal([]byte(names.String), &room.ObjectNames); err != nil {
			return nil, fmt.Errorf("failed to decode object names: %w", err)
		}
	}
	if err := json.Unmarshal([]byte(urls), &room.AnalyzedPhotoURLs); err != nil {
		return nil, fmt.Errorf("failed to decode photo urls: %w", err)
	}
	if room.AnalyzedPhotoURLs == nil {
		room.AnalyzedPhotoURLs = []string{}
	}
	if analyzedAt.Valid {
		t := analyzedAt.Time
		room.LastAnalyzedAt = &t
	}

	return room, nil
}
