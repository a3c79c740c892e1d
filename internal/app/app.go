package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/juliez0727-gif/steam2025/internal/classify"
	"github.com/juliez0727-gif/steam2025/internal/config"
	"github.com/juliez0727-gif/steam2025/internal/infrastructure/llm"
	"github.com/juliez0727-gif/steam2025/internal/infrastructure/relay"
	"github.com/juliez0727-gif/steam2025/internal/infrastructure/storefront"
	"github.com/juliez0727-gif/steam2025/internal/logging"
	"github.com/juliez0727-gif/steam2025/internal/server"
	"github.com/juliez0727-gif/steam2025/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg    config.Config
	logger *slog.Logger
	server *http.Server
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) *Application {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	relayClient := relay.New(toStrategies(cfg.Relays), nil, baseLogger.With("component", "relay"))
	store := storefront.NewClient(relayClient, baseLogger.With("component", "storefront"), cfg.Scan.MinReviewCount)
	classifier := classify.New(store, baseLogger.With("component", "classifier"))

	pipeline := usecase.NewPipeline(usecase.Deps{
		Scanner:    store,
		Details:    store,
		Classifier: classifier,
		Logger:     baseLogger.With("component", "pipeline"),
	}, cfg.Scan)

	summarizer := llm.NewClient(cfg.LLM)
	api := server.New(pipeline, store, summarizer, baseLogger.With("component", "http"))

	return &Application{
		cfg:    cfg,
		logger: baseLogger,
		server: &http.Server{
			Addr:              cfg.Server.Addr,
			Handler:           api.Router(),
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Run serves the API until ctx is cancelled, then shuts down gracefully.
func (a *Application) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("listening", "addr", a.server.Addr)
		errCh <- a.server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return a.server.Shutdown(shutdownCtx)
	}
}

func toStrategies(cfg []config.RelayConfig) []relay.Strategy {
	strategies := make([]relay.Strategy, 0, len(cfg))
	for _, rc := range cfg {
		strategies = append(strategies, relay.Strategy{
			Name:     rc.Name,
			Endpoint: rc.Endpoint,
			Envelope: rc.Envelope,
		})
	}
	return strategies
}
