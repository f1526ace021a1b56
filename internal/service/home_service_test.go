package service

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homedex/internal/db"
	"homedex/internal/store"
)

// stubBlobStore is an in-memory blob store counting deletions.
type stubBlobStore struct {
	saved     map[string][]byte
	deleted   []string
	uploadErr error
}

func newStubBlobStore() *stubBlobStore {
	return &stubBlobStore{saved: make(map[string][]byte)}
}

func (s *stubBlobStore) Upload(_ context.Context, key, _ string, r io.Reader) (string, error) {
	if s.uploadErr != nil {
		return "", s.uploadErr
	}
	data, _ := io.ReadAll(r)
	s.saved[key] = data
	return "http://blobs.test/" + key, nil
}

func (s *stubBlobStore) Get(_ context.Context, _ string) (io.ReadCloser, string, error) {
	return nil, "", errors.New("not implemented")
}

func (s *stubBlobStore) Delete(_ context.Context, urlOrKey string) error {
	s.deleted = append(s.deleted, urlOrKey)
	return nil
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

var testClock = fixedClock{t: time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)}

func newTestStack(t *testing.T) (*sql.DB, *store.HomeStore, *store.RoomStore, *stubBlobStore) {
	t.Helper()
	d, err := db.OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, d.Close()) })
	return d, store.NewHomeStore(d), store.NewRoomStore(d), newStubBlobStore()
}

func TestHomeServiceCreateHome(t *testing.T) {
	_, homes, rooms, blobs := newTestStack(t)
	svc := NewHomeService(homes, rooms, blobs, testClock, slog.Default())

	home, err := svc.CreateHome(context.Background(), "user-1", "Lake House", "by the water", nil)
	require.NoError(t, err)
	assert.NotEmpty(t, home.ID)
	assert.Equal(t, "Lake House", home.Name)
	assert.Empty(t, home.CoverImageURL)
}

func TestHomeServiceCreateHomeWithCover(t *testing.T) {
	_, homes, rooms, blobs := newTestStack(t)
	svc := NewHomeService(homes, rooms, blobs, testClock, slog.Default())

	cover := &CoverUpload{Filename: "front door.jpg", ContentType: "image/jpeg", Data: []byte{0xFF, 0xD8}}
	home, err := svc.CreateHome(context.Background(), "user-1", "Cabin", "", cover)
	require.NoError(t, err)

	assert.Contains(t, home.CoverImageURL, "homeCovers/user-1/"+home.ID+"/")
	assert.Contains(t, home.CoverImageURL, "front_door.jpg")
	assert.Len(t, blobs.saved, 1)
}

func TestHomeServiceGetHomeWrongOwner(t *testing.T) {
	_, homes, rooms, blobs := newTestStack(t)
	svc := NewHomeService(homes, rooms, blobs, testClock, slog.Default())
	ctx := context.Background()

	home, err := svc.CreateHome(ctx, "user-1", "Private", "", nil)
	require.NoError(t, err)

	got, err := svc.GetHome(ctx, "user-2", home.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestHomeServiceUpdateHome(t *testing.T) {
	_, homes, rooms, blobs := newTestStack(t)
	svc := NewHomeService(homes, rooms, blobs, testClock, slog.Default())
	ctx := context.Background()

	home, err := svc.CreateHome(ctx, "user-1", "Old", "old desc", nil)
	require.NoError(t, err)

	name := "New"
	updated, err := svc.UpdateHome(ctx, "user-1", home.ID, &name, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "New", updated.Name)
	assert.Equal(t, "old desc", updated.Description) // untouched
}

func TestHomeServiceReplaceCoverDeletesOldBlob(t *testing.T) {
	_, homes, rooms, blobs := newTestStack(t)
	svc := NewHomeService(homes, rooms, blobs, testClock, slog.Default())
	ctx := context.Background()

	first := &CoverUpload{Filename: "a.jpg", ContentType: "image/jpeg", Data: []byte{0xFF, 0xD8}}
	home, err := svc.CreateHome(ctx, "user-1", "House", "", first)
	require.NoError(t, err)
	oldURL := home.CoverImageURL

	second := &CoverUpload{Filename: "b.jpg", ContentType: "image/jpeg", Data: []byte{0xFF, 0xD8}}
	updated, err := svc.UpdateHome(ctx, "user-1", home.ID, nil, nil, second)
	require.NoError(t, err)

	assert.NotEqual(t, oldURL, updated.CoverImageURL)
	assert.Equal(t, []string{oldURL}, blobs.deleted)
}

func TestHomeServiceRemoveCoverImage(t *testing.T) {
	_, homes, rooms, blobs := newTestStack(t)
	svc := NewHomeService(homes, rooms, blobs, testClock, slog.Default())
	ctx := context.Background()

	cover := &CoverUpload{Filename: "a.jpg", ContentType: "image/jpeg", Data: []byte{0xFF, 0xD8}}
	home, err := svc.CreateHome(ctx, "user-1", "House", "", cover)
	require.NoError(t, err)

	require.NoError(t, svc.RemoveCoverImage(ctx, "user-1", home.ID))

	got, err := svc.GetHome(ctx, "user-1", home.ID)
	require.NoError(t, err)
	assert.Empty(t, got.CoverImageURL)
	assert.Equal(t, []string{home.CoverImageURL}, blobs.deleted)
}

func TestHomeServiceDeleteHomeCascades(t *testing.T) {
	_, homes, roomStore, blobs := newTestStack(t)
	svc := NewHomeService(homes, roomStore, blobs, testClock, slog.Default())
	ctx := context.Background()

	home, err := svc.CreateHome(ctx, "user-1", "Doomed", "", nil)
	require.NoError(t, err)

	// Two rooms, one with analysis results referencing blobs.
	r1, err := roomStore.Create(ctx, home.ID, "Living Room")
	require.NoError(t, err)
	_, err = roomStore.Create(ctx, home.ID, "Kitchen")
	require.NoError(t, err)

	acquired, err := roomStore.BeginAnalysis(ctx, home.ID, r1.ID, "run-1")
	require.NoError(t, err)
	require.True(t, acquired)
	urls := []string{"http://blobs.test/p1.jpg", "http://blobs.test/p2.jpg"}
	require.NoError(t, roomStore.CommitAnalysisResult(ctx, home.ID, r1.ID, "run-1",
		[]string{"sofa", "tv"}, urls, time.Now()))

	require.NoError(t, svc.DeleteHome(ctx, "user-1", home.ID))

	// Every analyzed photo blob was deleted, all rooms gone, home gone.
	assert.ElementsMatch(t, urls, blobs.deleted)
	remaining, err := roomStore.ListByHome(ctx, home.ID)
	require.NoError(t, err)
	assert.Empty(t, remaining)
	got, err := svc.GetHome(ctx, "user-1", home.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestHomeServiceDeleteHomeNotOwned(t *testing.T) {
	_, homes, rooms, blobs := newTestStack(t)
	svc := NewHomeService(homes, rooms, blobs, testClock, slog.Default())
	ctx := context.Background()

	home, err := svc.CreateHome(ctx, "user-1", "Mine", "", nil)
	require.NoError(t, err)

	assert.Error(t, svc.DeleteHome(ctx, "user-2", home.ID))

	got, err := svc.GetHome(ctx, "user-1", home.ID)
	require.NoError(t, err)
	assert.NotNil(t, got)
}
