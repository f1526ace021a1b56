package blobstore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "living_room.jpg", SanitizeFilename("living room.jpg"))
	assert.Equal(t, "photo-1.png", SanitizeFilename("photo-1.png"))
	assert.Equal(t, "abc.jpg", SanitizeFilename("a/b\\c?.jpg"))
	assert.Equal(t, "tabs_and_newlines", SanitizeFilename("tabs\tand\nnewlines"))
	assert.Equal(t, "photo", SanitizeFilename("???"))
}

func TestAnalysisPhotoKey(t *testing.T) {
	ts := time.UnixMilli(1700000000000)
	key := AnalysisPhotoKey("user-1", "room-2", ts, "my photo.jpg")
	assert.Equal(t, "roomAnalysisPhotos/user-1/room-2/1700000000000-my_photo.jpg", key)
}

func TestHomeCoverKey(t *testing.T) {
	ts := time.UnixMilli(1700000000000)
	key := HomeCoverKey("user-1", "home-3", ts, "front door.png")
	assert.Equal(t, "homeCovers/user-1/home-3/1700000000000_front_door.png", key)
}

func TestKeyFromURL(t *testing.T) {
	assert.Equal(t, "roomAnalysisPhotos/u/r/1-a.jpg",
		KeyFromURL("http://localhost:8080/blobs/roomAnalysisPhotos/u/r/1-a.jpg", "blobs"))
	assert.Equal(t, "roomAnalysisPhotos/u/r/1-a.jpg",
		KeyFromURL("http://minio:9000/homedex/roomAnalysisPhotos/u/r/1-a.jpg", "homedex"))
	// Bare keys pass through.
	assert.Equal(t, "roomAnalysisPhotos/u/r/1-a.jpg",
		KeyFromURL("roomAnalysisPhotos/u/r/1-a.jpg", "blobs"))
}
