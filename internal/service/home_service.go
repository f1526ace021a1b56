package service

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"homedex/internal/analysis"
	"homedex/internal/blobstore"
	"homedex/internal/domain"
)

// homeRepository is the subset of store.HomeStore that HomeService requires.
type homeRepository interface {
	Create(ctx context.Context, id, ownerID, name, description, coverImageURL string) (*domain.Home, error)
	GetByID(ctx context.Context, id string) (*domain.Home, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Home, error)
	Update(ctx context.Context, id, name, description string) error
	SetCoverImageURL(ctx context.Context, id, coverImageURL string) error
	Delete(ctx context.Context, id string) error
}

// roomCascadeRepository is the subset of store.RoomStore that HomeService
// requires for cascade deletion.
type roomCascadeRepository interface {
	ListByHome(ctx context.Context, homeID string) ([]*domain.Room, error)
	DeleteByHome(ctx context.Context, homeID string) error
}

// CoverUpload is a locally-held cover image accompanying a home create or
// update.
type CoverUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

type HomeService struct {
	homes  homeRepository
	rooms  roomCascadeRepository
	blobs  blobstore.Store
	clock  analysis.Clock
	logger *slog.Logger
}

func NewHomeService(homes homeRepository, rooms roomCascadeRepository, blobs blobstore.Store, clock analysis.Clock, logger *slog.Logger) *HomeService {
	if clock == nil {
		clock = analysis.SystemClock{}
	}
	return &HomeService{homes: homes, rooms: rooms, blobs: blobs, clock: clock, logger: logger}
}

// CreateHome creates a home, uploading the cover image first so a failed
// upload leaves no record behind.
func (s *HomeService) CreateHome(ctx context.Context, ownerID, name, description string, cover *CoverUpload) (*domain.Home, error) {
	homeID := uuid.NewString()

	coverURL := ""
	if cover != nil {
		key := blobstore.HomeCoverKey(ownerID, homeID, s.clock.Now(), cover.Filename)
		url, err := s.blobs.Upload(ctx, key, cover.ContentType, bytes.NewReader(cover.Data))
		if err != nil {
			return nil, fmt.Errorf("failed to upload cover image: %w", err)
		}
		coverURL = url
	}

	home, err := s.homes.Create(ctx, homeID, ownerID, name, description, coverURL)
	if err != nil {
		if coverURL != "" {
			if derr := s.blobs.Delete(ctx, coverURL); derr != nil {
				s.logger.Error("failed to roll back cover image", "home_id", homeID, "error", derr)
			}
		}
		return nil, fmt.Errorf("failed to create home: %w", err)
	}

	s.logger.Info("home created", "home_id", home.ID, "owner_id", ownerID)
	return home, nil
}

// GetHome returns the home, or nil when it does not exist or is not owned by
// ownerID.
func (s *HomeService) GetHome(ctx context.Context, ownerID, homeID string) (*domain.Home, error) {
	home, err := s.homes.GetByID(ctx, homeID)
	if err != nil {
		return nil, err
	}
	if home == nil || home.OwnerID != ownerID {
		return nil, nil
	}
	return home, nil
}

func (s *HomeService) ListHomes(ctx context.Context, ownerID string) ([]*domain.Home, error) {
	return s.homes.ListByOwner(ctx, ownerID)
}

// UpdateHome updates name and/or description (nil keeps the current value)
// and optionally replaces the cover image. The previous cover blob is deleted
// best-effort once the new one is uploaded.
func (s *HomeService) UpdateHome(ctx context.Context, ownerID, homeID string, name, description *string, newCover *CoverUpload) (*domain.Home, error) {
	home, err := s.GetHome(ctx, ownerID, homeID)
	if err != nil {
		return nil, err
	}
	if home == nil {
		return nil, nil
	}

	newName := home.Name
	if name != nil {
		newName = *name
	}
	newDescription := home.Description
	if description != nil {
		newDescription = *description
	}
	if err := s.homes.Update(ctx, homeID, newName, newDescription); err != nil {
		return nil, fmt.Errorf("failed to update home: %w", err)
	}

	if newCover != nil {
		if home.CoverImageURL != "" {
			if err := s.blobs.Delete(ctx, home.CoverImageURL); err != nil {
				s.logger.Error("failed to delete old cover image", "home_id", homeID, "error", err)
			}
		}
		key := blobstore.HomeCoverKey(ownerID, homeID, s.clock.Now(), newCover.Filename)
		url, err := s.blobs.Upload(ctx, key, newCover.ContentType, bytes.NewReader(newCover.Data))
		if err != nil {
			return nil, fmt.Errorf("failed to upload cover image: %w", err)
		}
		if err := s.homes.SetCoverImageURL(ctx, homeID, url); err != nil {
			return nil, fmt.Errorf("failed to set cover image: %w", err)
		}
	}

	return s.homes.GetByID(ctx, homeID)
}

// RemoveCoverImage deletes the cover blob (best-effort) and clears the field.
func (s *HomeService) RemoveCoverImage(ctx context.Context, ownerID, homeID string) error {
	home, err := s.GetHome(ctx, ownerID, homeID)
	if err != nil {
		return err
	}
	if home == nil {
		return ErrHomeNotFound
	}
	if home.CoverImageURL == "" {
		return nil
	}

	if err := s.blobs.Delete(ctx, home.CoverImageURL); err != nil {
		s.logger.Error("failed to delete cover image", "home_id", homeID, "error", err)
	}
	return s.homes.SetCoverImageURL(ctx, homeID, "")
}

// DeleteHome cascades: every room's analyzed photo blobs and the cover blob
// are deleted (best-effort), then the room records, then the home record.
// Photos and rooms go before the home so a partial failure never leaves rooms
// without a parent referencing still-stored blobs.
func (s *HomeService) DeleteHome(ctx context.Context, ownerID, homeID string) error {
	home, err := s.GetHome(ctx, ownerID, homeID)
	if err != nil {
		return err
	}
	if home == nil {
		return ErrHomeNotFound
	}

	if home.CoverImageURL != "" {
		if err := s.blobs.Delete(ctx, home.CoverImageURL); err != nil {
			s.logger.Error("failed to delete cover image", "home_id", homeID, "error", err)
		}
	}

	rooms, err := s.rooms.ListByHome(ctx, homeID)
	if err != nil {
		return fmt.Errorf("failed to list rooms: %w", err)
	}
	for _, room := range rooms {
		for _, url := range room.AnalyzedPhotoURLs {
			if err := s.blobs.Delete(ctx, url); err != nil {
				s.logger.Error("failed to delete analyzed photo", "room_id", room.ID, "url", url, "error", err)
			}
		}
	}

	if err := s.rooms.DeleteByHome(ctx, homeID); err != nil {
		return fmt.Errorf("failed to delete rooms: %w", err)
	}
	if err := s.homes.Delete(ctx, homeID); err != nil {
		return fmt.Errorf("failed to delete home: %w", err)
	}

	s.logger.Info("home deleted", "home_id", homeID, "rooms", len(rooms))
	return nil
}
