// Package pipeline runs the session-generation sequence: compose a
// prompt from catalog data, generate narration text, synthesize
// speech. Stages are strictly sequential within one run; any stage
// failure aborts the rest and surfaces that stage's error unchanged.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/florecer/florecer/internal/catalog"
	"github.com/florecer/florecer/internal/narration"
	"github.com/florecer/florecer/internal/observability"
	"github.com/florecer/florecer/internal/reliability"
	"github.com/florecer/florecer/internal/script"
	"github.com/florecer/florecer/internal/voice"
)

// Request is the ephemeral per-user-action input. Tags carry 1-2
// entries in the canonical flow; empty is rejected.
type Request struct {
	PersonaID string   `json:"persona_id"`
	Tags      []string `json:"tags"`
}

type Pipeline struct {
	generator   narration.Generator
	synthesizer voice.Synthesizer
	metrics     *observability.Metrics
}

func New(generator narration.Generator, synthesizer voice.Synthesizer, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		generator:   generator,
		synthesizer: synthesizer,
		metrics:     metrics,
	}
}

// RunSession produces a playable AudioResource for the request. No
// concurrency happens inside a run; overlapping runs are independent
// and arbitration between their results belongs to the playback
// controller's generation token, not to the pipeline.
func (p *Pipeline) RunSession(ctx context.Context, req Request) (*AudioResource, error) {
	if strings.TrimSpace(req.PersonaID) == "" {
		p.fail("validate", reliability.ErrValidation)
		return nil, fmt.Errorf("%w: persona is required", reliability.ErrValidation)
	}
	if len(req.Tags) == 0 {
		p.fail("validate", reliability.ErrValidation)
		return nil, fmt.Errorf("%w: at least one tag is required", reliability.ErrValidation)
	}

	start := time.Now()
	prompt, err := script.Compose(req.PersonaID, req.Tags)
	if err != nil {
		p.fail("compose", err)
		return nil, err
	}
	p.metrics.ObserveStageLatency("compose", time.Since(start))

	// Compose succeeded, so the persona is present in the catalog.
	persona, _ := catalog.Persona(req.PersonaID)

	start = time.Now()
	text, err := p.generator.Generate(ctx, prompt)
	if err != nil {
		p.fail("generate", err)
		return nil, err
	}
	p.metrics.ObserveStageLatency("generate", time.Since(start))

	start = time.Now()
	audio, err := p.synthesizer.Synthesize(ctx, text, persona.VoiceID)
	if err != nil {
		p.fail("synthesize", err)
		return nil, err
	}
	p.metrics.ObserveStageLatency("synthesize", time.Since(start))

	p.metrics.PipelineRuns.WithLabelValues("success").Inc()
	p.metrics.NarrationBytes.Observe(float64(len(audio)))
	return newAudioResource(req.PersonaID, req.Tags, audio), nil
}

func (p *Pipeline) fail(stage string, err error) {
	_, code := reliability.Classify(err)
	p.metrics.PipelineRuns.WithLabelValues("error").Inc()
	p.metrics.PipelineStageErrors.WithLabelValues(stage, code).Inc()
}
