package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/dayflow/dayflow/internal/actionable"
	"github.com/dayflow/dayflow/internal/appstate"
	"github.com/dayflow/dayflow/internal/bus"
	"github.com/dayflow/dayflow/internal/config"
	"github.com/dayflow/dayflow/internal/engine"
	"github.com/dayflow/dayflow/internal/metrics"
	"github.com/dayflow/dayflow/internal/persist"
	"github.com/dayflow/dayflow/internal/telemetry"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the pattern engine with metrics and telemetry",
		Long: `Serve starts the pattern engine with the configured persistence,
cache, and messaging backends, and exposes Prometheus metrics until
interrupted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return serve(cfg)
		},
	}
}

func serve(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.OTLPEndpoint != "" {
		shutdown, err := telemetry.Init(ctx, "dayflow", cfg.OTLPEndpoint)
		if err != nil {
			return fmt.Errorf("failed to init telemetry: %w", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(shutdownCtx); err != nil {
				log.Printf("[Serve] Telemetry shutdown: %v", err)
			}
		}()
	}

	store, closeStore, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	publisher, err := openPublisher(cfg)
	if err != nil {
		return err
	}
	defer publisher.Close()

	m := metrics.New()

	engineCfg := engine.DefaultConfig()
	engineCfg.Capacity = cfg.Engine.Capacity
	engineCfg.DebounceInterval = cfg.Engine.DebounceInterval
	engineCfg.RecommendationTTL = cfg.Engine.RecommendationTTL
	engineCfg.Store = store
	engineCfg.Publisher = publisher
	engineCfg.Metrics = m
	engineCfg.Tracer = telemetry.Tracer

	eng := engine.New(engineCfg)
	eng.Start(ctx)
	defer eng.Stop()

	backend, err := openCacheBackend(ctx, cfg)
	if err != nil {
		return err
	}
	advisor := actionable.NewAdvisor(&actionable.Config{
		Provider:  appstate.StaticProvider{},
		Source:    eng,
		Backend:   backend,
		Publisher: publisher,
		Metrics:   m,
	})
	defer advisor.Stop()

	watcher, err := config.Watch(configPath, func(next *config.Config) {
		log.Printf("[Serve] Config changed; restart to apply engine settings")
	})
	if err != nil {
		log.Printf("[Serve] Config watch disabled: %v", err)
	} else {
		defer watcher.Stop()
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{Addr: cfg.MetricsAddr, Handler: mux}
	go func() {
		log.Printf("[Serve] Metrics listening on %s", cfg.MetricsAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("[Serve] Metrics server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("[Serve] Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func openStore(cfg *config.Config) (persist.Store, func(), error) {
	if cfg.PostgresDSN != "" {
		store, err := persist.OpenPostgresStore(cfg.PostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open postgres store: %w", err)
		}
		return store, func() { store.Close() }, nil
	}

	if err := cfg.EnsureDataDir(); err != nil {
		return nil, nil, err
	}
	store, err := persist.NewFileStore(cfg.DataDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open file store: %w", err)
	}
	return store, func() {}, nil
}

func openPublisher(cfg *config.Config) (bus.Publisher, error) {
	if cfg.NatsURL == "" {
		return bus.NewMemoryBus(), nil
	}
	nb, err := bus.NewNatsBus(bus.NatsConfig{URL: cfg.NatsURL})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return nb, nil
}

func openCacheBackend(ctx context.Context, cfg *config.Config) (actionable.Backend, error) {
	if cfg.RedisAddr == "" {
		return actionable.NewMemoryBackend(cfg.Cache.TTL, cfg.Cache.MaxEntries), nil
	}
	backend, err := actionable.NewRedisBackend(ctx, actionable.RedisConfig{
		Addr:       cfg.RedisAddr,
		TTL:        cfg.Cache.TTL,
		MaxEntries: cfg.Cache.MaxEntries,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return backend, nil
}
