package blobstore

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"regexp"
	"strings"
	"time"
)

// Store is the blob storage contract. Upload writes the object under key and
// returns a stable retrieval URL. Delete accepts either a retrieval URL or a
// bare key and is idempotent: deleting an absent object succeeds, so cleanup
// races never surface as failures.
type Store interface {
	Upload(ctx context.Context, key, contentType string, r io.Reader) (string, error)
	Get(ctx context.Context, key string) (io.ReadCloser, string, error)
	Delete(ctx context.Context, urlOrKey string) error
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// SanitizeFilename collapses whitespace to underscores and strips everything
// outside [A-Za-z0-9._-].
func SanitizeFilename(name string) string {
	name = strings.Join(strings.Fields(name), "_")
	name = unsafeChars.ReplaceAllString(name, "")
	if name == "" {
		return "photo"
	}
	return name
}

// AnalysisPhotoKey builds the storage key for a room analysis photo. The
// timestamp prefix uniquifies repeated uploads of the same filename.
func AnalysisPhotoKey(userID, roomID string, ts time.Time, filename string) string {
	return fmt.Sprintf("roomAnalysisPhotos/%s/%s/%d-%s", userID, roomID, ts.UnixMilli(), SanitizeFilename(filename))
}

// HomeCoverKey builds the storage key for a home cover image.
func HomeCoverKey(userID, homeID string, ts time.Time, filename string) string {
	return fmt.Sprintf("homeCovers/%s/%s/%d_%s", userID, homeID, ts.UnixMilli(), SanitizeFilename(filename))
}

// KeyFromURL extracts the storage key from a retrieval URL produced by
// Upload. Bare keys pass through unchanged.
func KeyFromURL(urlOrKey, pathPrefix string) string {
	if !strings.Contains(urlOrKey, "://") {
		return strings.TrimPrefix(urlOrKey, "/")
	}
	u, err := url.Parse(urlOrKey)
	if err != nil {
		return urlOrKey
	}
	p := strings.TrimPrefix(u.Path, "/")
	if pathPrefix != "" {
		p = strings.TrimPrefix(p, strings.TrimPrefix(pathPrefix, "/"))
		p = strings.TrimPrefix(p, "/")
	}
	return p
}
