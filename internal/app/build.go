package app

import (
	"context"
	"io"

	"github.com/charmbracelet/log"

	"github.com/florecer/florecer/internal/config"
	"github.com/florecer/florecer/internal/httpapi"
	"github.com/florecer/florecer/internal/observability"
	"github.com/florecer/florecer/internal/pipeline"
	"github.com/florecer/florecer/internal/session"
)

type ProviderInfo struct {
	Narration string
	Voice     string
}

type BuildResult struct {
	Config    config.Config
	API       *httpapi.Server
	Sessions  *session.Manager
	Pipeline  *pipeline.Pipeline
	Metrics   *observability.Metrics
	Providers ProviderInfo

	// Cleanup should be called on shutdown to release external resources.
	Cleanup func() error
}

func Build(ctx context.Context, cfg config.Config, logger *log.Logger) (*BuildResult, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	metrics := observability.NewMetrics(cfg.MetricsNamespace)

	providers, err := resolveProviders(cfg)
	if err != nil {
		return nil, err
	}

	pipe := pipeline.New(providers.generator, providers.synthesizer, metrics)

	sessions := session.NewManager(cfg.SessionTTL)
	sessions.SetExpireHook(func(s *session.Session) {
		metrics.SessionEvents.WithLabelValues("expired").Inc()
		metrics.ActiveSessions.Set(float64(sessions.ActiveCount()))
		logger.Info("session expired", "session_id", s.ID, "persona", s.PersonaID)
	})
	sessions.StartJanitor(ctx, cfg.SessionTTL/10)

	api := httpapi.New(cfg, sessions, pipe, metrics, logger)

	return &BuildResult{
		Config:   cfg,
		API:      api,
		Sessions: sessions,
		Pipeline: pipe,
		Metrics:  metrics,
		Providers: ProviderInfo{
			Narration: providers.narrationName,
			Voice:     providers.voiceName,
		},
		Cleanup: func() error { return nil },
	}, nil
}
