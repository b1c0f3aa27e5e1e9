package voice

import (
	"context"
	"fmt"
	"sync/atomic"
)

// MockSynthesizer is a local fallback used when ElevenLabs is not
// configured. The returned bytes are deterministic per input so tests
// can assert on lengths.
type MockSynthesizer struct {
	calls atomic.Int64
}

func NewMockSynthesizer() *MockSynthesizer { return &MockSynthesizer{} }

func (s *MockSynthesizer) Synthesize(ctx context.Context, text, voiceID string) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	s.calls.Add(1)
	return []byte(fmt.Sprintf("mock-mpeg:%s:%s", voiceID, text)), nil
}

// Calls reports how many synthesis calls ran.
func (s *MockSynthesizer) Calls() int64 { return s.calls.Load() }
