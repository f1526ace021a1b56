package recognition

import "context"

// IdentifyPrompt is the shared prompt used by all recognition backends.
const IdentifyPrompt = `List every distinct object you can see in these photos of a room.
Respond in plain text with one object name per line and nothing else:
no numbering, no descriptions, no introduction.`

// Recognizer identifies objects across a set of room photos. imageURLs is the
// full ordered photo set for one analysis run; the backend makes a single
// model call per invocation and returns object names in the order the model
// produced them. There are no partial results: any failure is a failure of
// the whole call.
type Recognizer interface {
	Identify(ctx context.Context, imageURLs []string) ([]string, error)
}
