package voice

import "context"

// Synthesizer renders narration text into an MPEG audio stream using
// the persona's voice. One network call, no caching, no retry.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, voiceID string) ([]byte, error)
}
