// Package openai implements recognition with an OpenAI vision-capable chat
// model. Photos are passed by URL, so the blob store's retrieval URLs must be
// resolvable by the API.
package openai

import (
	"context"
	"fmt"

	goopenai "github.com/sashabaranov/go-openai"

	"homedex/internal/recognition"
)

const maxTokens = 1024

type Recognizer struct {
	client *goopenai.Client
	model  string
}

func New(apiKey, model string) *Recognizer {
	return &Recognizer{client: goopenai.NewClient(apiKey), model: model}
}

func (r *Recognizer) Identify(ctx context.Context, imageURLs []string) ([]string, error) {
	parts := make([]goopenai.ChatMessagePart, 0, len(imageURLs)+1)
	parts = append(parts, goopenai.ChatMessagePart{
		Type: goopenai.ChatMessagePartTypeText,
		Text: recognition.IdentifyPrompt,
	})
	for _, u := range imageURLs {
		parts = append(parts, goopenai.ChatMessagePart{
			Type:     goopenai.ChatMessagePartTypeImageURL,
			ImageURL: &goopenai.ChatMessageImageURL{URL: u},
		})
	}

	resp, err := r.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model:     r.model,
		MaxTokens: maxTokens,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleUser, MultiContent: parts},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty completion response")
	}

	return recognition.ParseObjectNames(resp.Choices[0].Message.Content), nil
}
