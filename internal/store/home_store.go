package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"homedex/internal/domain"
)

type HomeStore struct {
	db *sql.DB
}

func NewHomeStore(db *sql.DB) *HomeStore {
	return &HomeStore{db: db}
}

// Create inserts a home under a caller-minted ID. IDs come from the caller
// because cover-image storage keys embed the home ID before the insert runs.
func (s *HomeStore) Create(ctx context.Context, id, ownerID, name, description, coverImageURL string) (*domain.Home, error) {
	if id == "" {
		id = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO homes (id, owner_id, name, description, cover_image_url) VALUES (?, ?, ?, ?, ?)
	`, id, ownerID, name, description, coverImageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create home: %w", err)
	}

	return s.GetByID(ctx, id)
}

func (s *HomeStore) GetByID(ctx context.Context, id string) (*domain.Home, error) {
	home := &domain.Home{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, owner_id, name, description, cover_image_url, created_at FROM homes WHERE id = ?
	`, id).Scan(&home.ID, &home.OwnerID, &home.Name, &home.Description, &home.CoverImageURL, &home.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get home: %w", err)
	}

	return home, nil
}

func (s *HomeStore) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Home, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, owner_id, name, description, cover_image_url, created_at FROM homes
		WHERE owner_id = ? ORDER BY created_at DESC, id
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list homes: %w", err)
	}
	defer rows.Close()

	var homes []*domain.Home
	for rows.Next() {
		home := &domain.Home{}
		if err := rows.Scan(&home.ID, &home.OwnerID, &home.Name, &home.Description, &home.CoverImageURL, &home.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan home: %w", err)
		}
		homes = append(homes, home)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read homes: %w", err)
	}

	return homes, nil
}

func (s *HomeStore) Update(ctx context.Context, id, name, description string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE homes SET name = ?, description = ? WHERE id = ?
	`, name, description, id)
	if err != nil {
		return fmt.Errorf("failed to update home: %w", err)
	}
	return requireRow(result, "home")
}

// SetCoverImageURL records the current cover blob URL; an empty URL clears it.
func (s *HomeStore) SetCoverImageURL(ctx context.Context, id, coverImageURL string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE homes SET cover_image_url = ? WHERE id = ?
	`, coverImageURL, id)
	if err != nil {
		return fmt.Errorf("failed to set cover image: %w", err)
	}
	return requireRow(result, "home")
}

func (s *HomeStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM homes WHERE id = ?
	`, id)
	if err != nil {
		return fmt.Errorf("failed to delete home: %w", err)
	}
	return requireRow(result, "home")
}

func requireRow(result sql.Result, kind string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s not found", kind)
	}
	return nil
}
