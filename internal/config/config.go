package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config contains all runtime settings for the meditation service.
type Config struct {
	BindAddr         string
	ShutdownTimeout  time.Duration
	SessionTTL       time.Duration
	MetricsNamespace string

	AllowAnyOrigin bool

	NarrationProvider string
	VoiceProvider     string

	LLMAPIKey  string
	LLMAPIURL  string
	LLMModelID string

	ElevenLabsAPIKey   string
	ElevenLabsBaseURL  string
	ElevenLabsTTSModel string

	PlayerFullVolume int
}

// Load reads environment variables and applies safe defaults.
func Load() (Config, error) {
	cfg := Config{
		BindAddr:           envOrDefault("APP_BIND_ADDR", ":8080"),
		MetricsNamespace:   envOrDefault("APP_METRICS_NAMESPACE", "florecer"),
		AllowAnyOrigin:     false,
		NarrationProvider:  envOrDefault("NARRATION_PROVIDER", "auto"),
		VoiceProvider:      envOrDefault("VOICE_PROVIDER", "auto"),
		LLMAPIKey:          stringsTrimSpace("LLM_API_KEY"),
		LLMAPIURL:          envOrDefault("LLM_API_URL", ""),
		LLMModelID:         envOrDefault("LLM_MODEL_ID", "gpt-4o-mini"),
		ElevenLabsAPIKey:   stringsTrimSpace("ELEVENLABS_API_KEY"),
		ElevenLabsBaseURL:  envOrDefault("ELEVENLABS_BASE_URL", "https://api.elevenlabs.io"),
		ElevenLabsTTSModel: envOrDefault("ELEVENLABS_TTS_MODEL_ID", "eleven_multilingual_v2"),
		PlayerFullVolume:   80,
		ShutdownTimeout:    15 * time.Second,
		SessionTTL:         10 * time.Minute,
	}
	var err error
	cfg.ShutdownTimeout, err = durationFromEnv("APP_SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.SessionTTL, err = durationFromEnv("APP_SESSION_TTL", cfg.SessionTTL)
	if err != nil {
		return Config{}, err
	}
	cfg.AllowAnyOrigin, err = boolFromEnv("APP_ALLOW_ANY_ORIGIN", cfg.AllowAnyOrigin)
	if err != nil {
		return Config{}, err
	}
	cfg.PlayerFullVolume, err = intFromEnv("PLAYER_FULL_VOLUME", cfg.PlayerFullVolume)
	if err != nil {
		return Config{}, err
	}

	if cfg.SessionTTL < 30*time.Second {
		return Config{}, fmt.Errorf("APP_SESSION_TTL must be at least 30s")
	}
	if cfg.PlayerFullVolume < 0 || cfg.PlayerFullVolume > 100 {
		return Config{}, fmt.Errorf("PLAYER_FULL_VOLUME must be within 0-100")
	}
	switch cfg.NarrationProvider {
	case "auto", "openai", "mock":
	default:
		return Config{}, fmt.Errorf("NARRATION_PROVIDER must be auto, openai or mock")
	}
	switch cfg.VoiceProvider {
	case "auto", "elevenlabs", "mock":
	default:
		return Config{}, fmt.Errorf("VOICE_PROVIDER must be auto, elevenlabs or mock")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func stringsTrimSpace(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func durationFromEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := stringsTrimSpace(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return d, nil
}

func intFromEnv(key string, fallback int) (int, error) {
	v := stringsTrimSpace(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return n, nil
}

func boolFromEnv(key string, fallback bool) (bool, error) {
	v := strings.ToLower(stringsTrimSpace(key))
	if v == "" {
		return fallback, nil
	}
	switch v {
	case "1", "true", "t", "yes", "y", "on":
		return true, nil
	case "0", "false", "f", "no", "n", "off":
		return false, nil
	default:
		return false, fmt.Errorf("%s parse error: expected bool", key)
	}
}
