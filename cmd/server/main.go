package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/driftwatch/driftwatch/internal/api"
	"github.com/driftwatch/driftwatch/internal/config"
	"github.com/driftwatch/driftwatch/internal/drift"
	"github.com/driftwatch/driftwatch/internal/fingerprint"
	"github.com/driftwatch/driftwatch/internal/store"
)

const defaultConfigPath = "configs/driftwatch.yaml"

func main() {
	addr := flag.String("addr", "", "HTTP listen address (overrides config)")
	cfgPath := flag.String("config", defaultConfigPath, "Path to YAML config")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	// ── Load config ──────────────────────────────────────────────────────────
	var cfg *config.Config
	loader, err := config.NewLoader(*cfgPath)
	switch {
	case err == nil:
		cfg = loader.Config()
		if err := config.Validate(cfg); err != nil {
			slog.Error("config validation failed", "err", err)
			os.Exit(1)
		}
	case errors.Is(err, os.ErrNotExist) && *cfgPath == defaultConfigPath:
		// No config file is fine at the default path; run on defaults.
		slog.Warn("no config file found, using defaults", "path", *cfgPath)
		cfg = config.Default()
	default:
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	// ── Store ─────────────────────────────────────────────────────────────────
	st := store.Open(cfg.Store.Path, logger)
	slog.Info("store loaded", "path", cfg.Store.Path, "users", len(st.Counts()))

	// ── Scorers ───────────────────────────────────────────────────────────────
	driftScorer := drift.NewScorer(cfg.Scoring)
	fpEngine := fingerprint.NewEngine(cfg.Scoring)

	// ── Hot-reload watcher ────────────────────────────────────────────────────
	if loader != nil {
		loader.OnChange(func(newCfg *config.Config) {
			driftScorer.SwapConfig(newCfg.Scoring)
			fpEngine.SwapConfig(newCfg.Scoring)
			slog.Info("scoring config hot-reloaded",
				"field_weight", newCfg.Scoring.FieldWeight,
				"medium", newCfg.Scoring.MediumThreshold,
				"high", newCfg.Scoring.HighThreshold)
		})
		stopWatch, err := loader.Watch()
		if err != nil {
			slog.Warn("config watcher unavailable (hot-reload disabled)", "err", err)
		} else {
			defer stopWatch()
		}
	}

	// ── HTTP server ───────────────────────────────────────────────────────────
	handler := api.New(st, driftScorer, fpEngine, loader)
	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	// ── Graceful shutdown ─────────────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down…")

	shutCtx, shutCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutCancel()
	_ = srv.Shutdown(shutCtx)
	slog.Info("goodbye")
}
