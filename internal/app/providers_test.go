package app

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/florecer/florecer/internal/config"
)

func TestResolveProvidersAutoFallsBackToMock(t *testing.T) {
	setup, err := resolveProviders(config.Config{
		NarrationProvider: "auto",
		VoiceProvider:     "auto",
	})
	if err != nil {
		t.Fatalf("resolveProviders() error = %v", err)
	}
	if setup.narrationName != "mock" || setup.voiceName != "mock" {
		t.Fatalf("providers = (%q, %q), want mock without keys", setup.narrationName, setup.voiceName)
	}
}

func TestResolveProvidersAutoPrefersRealBackends(t *testing.T) {
	setup, err := resolveProviders(config.Config{
		NarrationProvider: "auto",
		VoiceProvider:     "auto",
		LLMAPIKey:         "llm-key",
		ElevenLabsAPIKey:  "xi-key",
	})
	if err != nil {
		t.Fatalf("resolveProviders() error = %v", err)
	}
	if setup.narrationName != "openai" || setup.voiceName != "elevenlabs" {
		t.Fatalf("providers = (%q, %q)", setup.narrationName, setup.voiceName)
	}
}

func TestResolveProvidersExplicitRequiresKey(t *testing.T) {
	if _, err := resolveProviders(config.Config{NarrationProvider: "openai", VoiceProvider: "mock"}); err == nil {
		t.Fatal("openai without LLM_API_KEY should fail")
	}
	if _, err := resolveProviders(config.Config{NarrationProvider: "mock", VoiceProvider: "elevenlabs"}); err == nil {
		t.Fatal("elevenlabs without ELEVENLABS_API_KEY should fail")
	}
}

func TestBuildWiresMockStack(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.Config{
		MetricsNamespace:  "test_app_build_" + time.Now().Format("150405000000000"),
		NarrationProvider: "mock",
		VoiceProvider:     "mock",
		SessionTTL:        time.Minute,
		PlayerFullVolume:  80,
	}
	result, err := Build(ctx, cfg, log.New(io.Discard))
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if result.API == nil || result.Sessions == nil || result.Pipeline == nil {
		t.Fatalf("incomplete build result: %+v", result)
	}
	if result.Providers.Narration != "mock" || result.Providers.Voice != "mock" {
		t.Fatalf("providers = %+v", result.Providers)
	}
	if err := result.Cleanup(); err != nil {
		t.Fatalf("Cleanup() error = %v", err)
	}
}
