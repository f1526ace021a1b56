package service

import (
	"context"
	"fmt"
	"log/slog"

	"homedex/internal/blobstore"
	"homedex/internal/domain"
)

// roomRepository is the subset of store.RoomStore that RoomService requires.
type roomRepository interface {
	Create(ctx context.Context, homeID, name string) (*domain.Room, error)
	GetByID(ctx context.Context, homeID, roomID string) (*domain.Room, error)
	ListByHome(ctx context.Context, homeID string) ([]*domain.Room, error)
	UpdateName(ctx context.Context, homeID, roomID, name string) error
	Delete(ctx context.Context, homeID, roomID string) error
	ClearAnalysisResult(ctx context.Context, homeID, roomID string) error
}

type RoomService struct {
	rooms  roomRepository
	blobs  blobstore.Store
	logger *slog.Logger
}

func NewRoomService(rooms roomRepository, blobs blobstore.Store, logger *slog.Logger) *RoomService {
	return &RoomService{rooms: rooms, blobs: blobs, logger: logger}
}

func (s *RoomService) CreateRoom(ctx context.Context, homeID, name string) (*domain.Room, error) {
	return s.rooms.Create(ctx, homeID, name)
}

func (s *RoomService) GetRoom(ctx context.Context, homeID, roomID string) (*domain.Room, error) {
	return s.rooms.GetByID(ctx, homeID, roomID)
}

func (s *RoomService) ListRooms(ctx context.Context, homeID string) ([]*domain.Room, error) {
	return s.rooms.ListByHome(ctx, homeID)
}

func (s *RoomService) RenameRoom(ctx context.Context, homeID, roomID, name string) (*domain.Room, error) {
	if err := s.rooms.UpdateName(ctx, homeID, roomID, name); err != nil {
		return nil, fmt.Errorf("failed to rename room: %w", err)
	}
	return s.rooms.GetByID(ctx, homeID, roomID)
}

// DeleteRoom removes the room record after deleting its analyzed photo blobs
// (best-effort; blob deletion is idempotent).
func (s *RoomService) DeleteRoom(ctx context.Context, homeID, roomID string) error {
	room, err := s.rooms.GetByID(ctx, homeID, roomID)
	if err != nil {
		return err
	}
	if room == nil {
		return ErrRoomNotFound
	}

	for _, url := range room.AnalyzedPhotoURLs {
		if err := s.blobs.Delete(ctx, url); err != nil {
			s.logger.Error("failed to delete analyzed photo", "room_id", roomID, "url", url, "error", err)
		}
	}

	return s.rooms.Delete(ctx, homeID, roomID)
}

// ClearAnalysis deletes every blob the room's analysis references, then
// clears the result fields so the record holds no object list, no timestamp,
// and an empty photo URL list.
func (s *RoomService) ClearAnalysis(ctx context.Context, homeID, roomID string) error {
	room, err := s.rooms.GetByID(ctx, homeID, roomID)
	if err != nil {
		return err
	}
	if room == nil {
		return ErrRoomNotFound
	}

	for _, url := range room.AnalyzedPhotoURLs {
		if err := s.blobs.Delete(ctx, url); err != nil {
			s.logger.Error("failed to delete analyzed photo", "room_id", roomID, "url", url, "error", err)
		}
	}

	if err := s.rooms.ClearAnalysisResult(ctx, homeID, roomID); err != nil {
		return fmt.Errorf("failed to clear analysis result: %w", err)
	}

	s.logger.Info("analysis cleared", "home_id", homeID, "room_id", roomID, "photos_deleted", len(room.AnalyzedPhotoURLs))
	return nil
}
