// Package claudeai implements recognition with the Anthropic Messages API.
// The API takes inline images, so each photo URL is fetched and sent as
// base64 rather than by reference.
package claudeai

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/liushuangls/go-anthropic/v2"

	"homedex/internal/recognition"
)

const maxTokens = 1024

// maxImageBytes caps a single fetched photo at the Anthropic inline-image
// limit.
const maxImageBytes = 5 * 1024 * 1024

type Recognizer struct {
	client  *anthropic.Client
	model   string
	fetcher *http.Client
}

func New(apiKey, model string) *Recognizer {
	return &Recognizer{
		client:  anthropic.NewClient(apiKey),
		model:   model,
		fetcher: &http.Client{Timeout: 30 * time.Second},
	}
}

func (r *Recognizer) Identify(ctx context.Context, imageURLs []string) ([]string, error) {
	content := make([]anthropic.MessageContent, 0, len(imageURLs)+1)
	for _, u := range imageURLs {
		data, mediaType, err := r.fetchImage(ctx, u)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch photo %s: %w", u, err)
		}
		content = append(content, anthropic.NewImageMessageContent(
			anthropic.NewMessageContentSource(anthropic.MessagesContentSourceTypeBase64, mediaType, data),
		))
	}
	content = append(content, anthropic.NewTextMessageContent(recognition.IdentifyPrompt))

	resp, err := r.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:     anthropic.Model(r.model),
		MaxTokens: maxTokens,
		Messages: []anthropic.Message{
			{Role: anthropic.RoleUser, Content: content},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to call model: %w", err)
	}

	return recognition.ParseObjectNames(resp.GetFirstContentText()), nil
}

func (r *Recognizer) fetchImage(ctx context.Context, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", err
	}

	resp, err := r.fetcher.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			slog.Error("failed to close photo response body", "url", url, "error", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return nil, "", err
	}
	if len(data) > maxImageBytes {
		return nil, "", fmt.Errorf("photo exceeds %d bytes", maxImageBytes)
	}

	return data, normaliseMIME(http.DetectContentType(data)), nil
}

// normaliseMIME maps detected MIME types to the values the Anthropic API
// accepts. Unknown types are coerced to jpeg as the most universally
// supported lossy fallback.
func normaliseMIME(mimeType string) string {
	switch mimeType {
	case "image/png", "image/gif", "image/webp":
		return mimeType
	default:
		return "image/jpeg"
	}
}
