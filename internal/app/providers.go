package app

import (
	"fmt"
	"strings"

	"github.com/florecer/florecer/internal/config"
	"github.com/florecer/florecer/internal/narration"
	"github.com/florecer/florecer/internal/voice"
)

type providerSetup struct {
	generator     narration.Generator
	synthesizer   voice.Synthesizer
	narrationName string
	voiceName     string
}

// resolveProviders picks narration and voice backends from config. In
// auto mode a missing API key degrades to the mock backend instead of
// failing startup, so the service stays usable for local development.
func resolveProviders(cfg config.Config) (providerSetup, error) {
	setup := providerSetup{}

	narrationMode := strings.ToLower(strings.TrimSpace(cfg.NarrationProvider))
	if narrationMode == "" {
		narrationMode = "auto"
	}
	hasLLMKey := strings.TrimSpace(cfg.LLMAPIKey) != ""

	switch narrationMode {
	case "openai":
		if !hasLLMKey {
			return providerSetup{}, fmt.Errorf("NARRATION_PROVIDER=openai but LLM_API_KEY is not set")
		}
		setup.generator = newOpenAIGenerator(cfg)
		setup.narrationName = "openai"
	case "mock":
		setup.generator = narration.NewMockGenerator()
		setup.narrationName = "mock"
	case "auto":
		if hasLLMKey {
			setup.generator = newOpenAIGenerator(cfg)
			setup.narrationName = "openai"
		} else {
			setup.generator = narration.NewMockGenerator()
			setup.narrationName = "mock"
		}
	default:
		return providerSetup{}, fmt.Errorf("unknown NARRATION_PROVIDER %q", cfg.NarrationProvider)
	}

	voiceMode := strings.ToLower(strings.TrimSpace(cfg.VoiceProvider))
	if voiceMode == "" {
		voiceMode = "auto"
	}
	hasVoiceKey := strings.TrimSpace(cfg.ElevenLabsAPIKey) != ""

	switch voiceMode {
	case "elevenlabs":
		if !hasVoiceKey {
			return providerSetup{}, fmt.Errorf("VOICE_PROVIDER=elevenlabs but ELEVENLABS_API_KEY is not set")
		}
		setup.synthesizer = newElevenLabsSynthesizer(cfg)
		setup.voiceName = "elevenlabs"
	case "mock":
		setup.synthesizer = voice.NewMockSynthesizer()
		setup.voiceName = "mock"
	case "auto":
		if hasVoiceKey {
			setup.synthesizer = newElevenLabsSynthesizer(cfg)
			setup.voiceName = "elevenlabs"
		} else {
			setup.synthesizer = voice.NewMockSynthesizer()
			setup.voiceName = "mock"
		}
	default:
		return providerSetup{}, fmt.Errorf("unknown VOICE_PROVIDER %q", cfg.VoiceProvider)
	}

	return setup, nil
}

func newOpenAIGenerator(cfg config.Config) narration.Generator {
	return narration.NewOpenAIGenerator(narration.OpenAIConfig{
		APIKey:  cfg.LLMAPIKey,
		BaseURL: cfg.LLMAPIURL,
		ModelID: cfg.LLMModelID,
	})
}

func newElevenLabsSynthesizer(cfg config.Config) voice.Synthesizer {
	return voice.NewElevenLabsSynthesizer(voice.ElevenLabsConfig{
		APIKey:  cfg.ElevenLabsAPIKey,
		BaseURL: cfg.ElevenLabsBaseURL,
		ModelID: cfg.ElevenLabsTTSModel,
	})
}
