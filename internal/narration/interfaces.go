package narration

import "context"

// Generator turns a composed prompt into raw narration text. A single
// attempt only: failures propagate to the caller without retry, and
// repeated calls with the same prompt may legitimately differ because
// sampling is not deterministic.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
