package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homedex/internal/db"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	d, err := db.OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, d.Close()) })
	return d
}

func TestHomeStoreCreateAndGet(t *testing.T) {
	s := NewHomeStore(newTestDB(t))
	ctx := context.Background()

	home, err := s.Create(ctx, "", "user-1", "Beach House", "summer place", "")
	require.NoError(t, err)
	assert.NotEmpty(t, home.ID)
	assert.Equal(t, "user-1", home.OwnerID)
	assert.Equal(t, "Beach House", home.Name)
	assert.Equal(t, "summer place", home.Description)
	assert.Empty(t, home.CoverImageURL)
	assert.False(t, home.CreatedAt.IsZero())

	got, err := s.GetByID(ctx, home.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, home.ID, got.ID)
}

func TestHomeStoreCreateWithExplicitID(t *testing.T) {
	s := NewHomeStore(newTestDB(t))

	home, err := s.Create(context.Background(), "home-42", "user-1", "Cabin", "", "")
	require.NoError(t, err)
	assert.Equal(t, "home-42", home.ID)
}

func TestHomeStoreGetMissing(t *testing.T) {
	s := NewHomeStore(newTestDB(t))

	home, err := s.GetByID(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, home)
}

func TestHomeStoreListByOwner(t *testing.T) {
	s := NewHomeStore(newTestDB(t))
	ctx := context.Background()

	_, err := s.Create(ctx, "", "user-1", "First", "", "")
	require.NoError(t, err)
	_, err = s.Create(ctx, "", "user-1", "Second", "", "")
	require.NoError(t, err)
	_, err = s.Create(ctx, "", "user-2", "Other", "", "")
	require.NoError(t, err)

	homes, err := s.ListByOwner(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, homes, 2)
	for _, h := range homes {
		assert.Equal(t, "user-1", h.OwnerID)
	}
}

func TestHomeStoreUpdate(t *testing.T) {
	s := NewHomeStore(newTestDB(t))
	ctx := context.Background()

	home, err := s.Create(ctx, "", "user-1", "Old Name", "old", "")
	require.NoError(t, err)

	require.NoError(t, s.Update(ctx, home.ID, "New Name", "new"))

	got, err := s.GetByID(ctx, home.ID)
	require.NoError(t, err)
	assert.Equal(t, "New Name", got.Name)
	assert.Equal(t, "new", got.Description)
}

func TestHomeStoreSetCoverImageURL(t *testing.T) {
	s := NewHomeStore(newTestDB(t))
	ctx := context.Background()

	home, err := s.Create(ctx, "", "user-1", "House", "", "")
	require.NoError(t, err)

	require.NoError(t, s.SetCoverImageURL(ctx, home.ID, "http://blobs/cover.jpg"))
	got, err := s.GetByID(ctx, home.ID)
	require.NoError(t, err)
	assert.Equal(t, "http://blobs/cover.jpg", got.CoverImageURL)

	// Clearing
	require.NoError(t, s.SetCoverImageURL(ctx, home.ID, ""))
	got, err = s.GetByID(ctx, home.ID)
	require.NoError(t, err)
	assert.Empty(t, got.CoverImageURL)
}

func TestHomeStoreDelete(t *testing.T) {
	s := NewHomeStore(newTestDB(t))
	ctx := context.Background()

	home, err := s.Create(ctx, "", "user-1", "Temp", "", "")
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, home.ID))

	got, err := s.GetByID(ctx, home.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	assert.Error(t, s.Delete(ctx, home.ID))
}
