package narration

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
)

// MockGenerator provides deterministic local scripts when no
// generation credential is configured.
type MockGenerator struct {
	calls atomic.Int64
}

func NewMockGenerator() *MockGenerator { return &MockGenerator{} }

func (g *MockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}
	g.calls.Add(1)

	first := prompt
	if idx := strings.IndexByte(first, '\n'); idx > 0 {
		first = first[:idx]
	}
	return fmt.Sprintf("Bienvenido a tu sesión de mindfulness. %s Respira profundamente y regresa al presente cuando estés listo.", strings.TrimSpace(first)), nil
}

// Calls reports how many generations ran, for pipeline ordering tests.
func (g *MockGenerator) Calls() int64 { return g.calls.Load() }
