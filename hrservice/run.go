// Package hrservice wires configuration, storage, the model provider and the
// HTTP surface into a runnable HR assistant service.
package hrservice

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/hrdesk/hrdesk/internal/agent"
	"github.com/hrdesk/hrdesk/internal/api"
	"github.com/hrdesk/hrdesk/internal/config"
	"github.com/hrdesk/hrdesk/internal/llm"
	"github.com/hrdesk/hrdesk/internal/memory"
	"github.com/hrdesk/hrdesk/internal/platform/logger"
	"github.com/hrdesk/hrdesk/internal/search"
	"github.com/hrdesk/hrdesk/internal/store"
	"github.com/hrdesk/hrdesk/internal/store/postgres"
	"github.com/hrdesk/hrdesk/internal/store/sqlite"
)

// Run starts the HR assistant HTTP server and blocks until shutdown or error.
func Run() error {
	log := logger.New("hrdesk")

	cfg, err := config.New()
	if err != nil {
		log.Error().Err(err).Msg("Failed to load configuration")
		return err
	}

	log.Info().
		Str("db_driver", cfg.DBDriver).
		Int("http_port", cfg.HTTPPort).
		Str("llm_provider", cfg.LLMProvider).
		Str("llm_model", cfg.LLMModel).
		Str("weaviate_url", cfg.WeaviateURL).
		Msg("HR assistant service starting")

	ctx, stop := newServerContext()
	defer stop()

	st, err := newStore(cfg)
	if err != nil {
		log.Error().Err(err).Msg("Store adapter unavailable")
		return err
	}
	defer func() { _ = st.Close() }()

	provider, err := llm.NewProvider(cfg)
	if err != nil {
		log.Error().Err(err).Msg("Model provider unavailable")
		return err
	}

	idx := newPolicyIndex(ctx, cfg, log)

	mem := memory.NewManager(st, cfg.MaxContextLength)
	sup := agent.NewSupervisor(provider, mem, cfg.MaxTokens, log)
	agent.RegisterHRAgents(sup, st, provider, idx, agent.Options{
		MaxTokens:    cfg.MaxTokens,
		Temperature:  cfg.Temperature,
		MaxToolCalls: cfg.MaxToolCalls,
	}, log)

	router := api.NewRouter(api.Deps{Store: st, Memory: mem, Supervisor: sup, Policies: idx})

	server := &http.Server{
		Addr:              cfg.GetHTTPAddr(),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      0, // streaming responses stay open past any fixed deadline
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.HTTPPort).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("Shutting down server")
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctxShutdown); err != nil {
			log.Error().Err(err).Msg("Server forced to shutdown")
			return err
		}
		log.Info().Msg("Server exited")
		return nil
	case err := <-errCh:
		log.Error().Err(err).Msg("HTTP server failed")
		return err
	}
}

// newStore selects the storage backend from configuration.
func newStore(cfg *config.Config) (store.Store, error) {
	switch cfg.DBDriver {
	case "sqlite":
		return sqlite.New(cfg.SQLitePath)
	case "postgres":
		db, err := postgres.Open(cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		return postgres.NewWithDB(db), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}

// newPolicyIndex connects the policy search index when Weaviate is configured.
// The service runs without it; the policy agent reports search as unavailable.
func newPolicyIndex(ctx context.Context, cfg *config.Config, log zerolog.Logger) search.PolicyIndex {
	if cfg.WeaviateURL == "" {
		log.Info().Msg("Policy search disabled: no Weaviate URL configured")
		return nil
	}
	embedder, err := search.NewEmbedder(cfg.EmbedProvider, cfg.OllamaURL, cfg.EmbedModel)
	if err != nil {
		log.Warn().Err(err).Msg("Policy search disabled: embedder unavailable")
		return nil
	}
	idx, err := search.NewPolicyIndex(ctx, cfg.WeaviateURL, embedder)
	if err != nil {
		log.Warn().Err(err).Msg("Policy search disabled: index unavailable")
		return nil
	}
	return idx
}

func newServerContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
