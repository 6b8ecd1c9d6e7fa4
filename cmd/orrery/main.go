// Package main is the entry point for the Orrery solar-system explorer.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/Faultbox/orrery/internal/config"
	"github.com/Faultbox/orrery/internal/game"
	"github.com/Faultbox/orrery/internal/game/explorer"
	"github.com/Faultbox/orrery/internal/hud"
	"github.com/Faultbox/orrery/internal/logger"
	"github.com/Faultbox/orrery/internal/observability"
	"github.com/Faultbox/orrery/internal/scene"
	"github.com/Faultbox/orrery/internal/selection"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// The terminal host owns stdout, so it logs to file only.
	mode := config.Mode()
	if mode == "tui" {
		err = logger.InitFileOnly(cfg.Logging.Level, cfg.Logging.LogFile)
	} else {
		err = logger.Init(cfg.Logging.Level, cfg.Logging.LogFile)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== Orrery ===", zap.String("mode", mode))
	logger.Sugar.Debugf("Config: %+v", cfg)

	if config.SaveRequested() {
		if err := cfg.Save(); err != nil {
			logger.Error("failed to save config", zap.Error(err))
			logger.Sync()
			os.Exit(1)
		}
		logger.Info("config saved", zap.String("dir", config.ConfigDir()))
		return
	}

	if err := run(cfg, mode, config.Frames()); err != nil {
		logger.Error("explorer error", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}

	logger.Info("explorer closed normally")
}

// app is the host-independent part of a run.
type app struct {
	registry *scene.Registry
	graph    *scene.Graph
	store    *selection.Store
	explorer *explorer.Explorer
	metrics  *observability.FrameCollector
}

func newApp(cfg *config.Config) (*app, error) {
	catalog, err := loadCatalog(cfg.Scene.Catalog)
	if err != nil {
		return nil, err
	}

	reg := scene.NewRegistry()
	graph := scene.NewGraph(reg)
	if err := catalog.Build(reg, graph); err != nil {
		return nil, fmt.Errorf("build scene: %w", err)
	}
	logger.Info("scene built",
		zap.Int("entities", reg.Len()),
		zap.Int("nodes", graph.Len()),
	)

	metrics, err := observability.NewFrameCollector(nil)
	if err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}

	store := selection.NewStore()
	ex, err := explorer.New(explorer.Config{
		Settings: explorerSettings(cfg),
		Entities: reg,
		Scene:    graph,
		Store:    store,
		Logger:   logger.Named("explorer"),
		Metrics:  metrics,
	})
	if err != nil {
		return nil, err
	}

	return &app{
		registry: reg,
		graph:    graph,
		store:    store,
		explorer: ex,
		metrics:  metrics,
	}, nil
}

func loadCatalog(path string) (*scene.Catalog, error) {
	if path == "" {
		return scene.DefaultCatalog()
	}
	logger.Info("loading catalog", zap.String("path", path))
	return scene.LoadCatalog(path)
}

func run(cfg *config.Config, mode string, frames int) error {
	a, err := newApp(cfg)
	if err != nil {
		return err
	}

	metricsSrv := serveMetrics(cfg.Metrics.Listen, a.metrics)
	defer func() {
		if metricsSrv == nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsSrv.Shutdown(ctx)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	switch mode {
	case "window":
		return runWindow(cfg, a, frames)
	case "tui":
		return runTerminal(ctx, cfg, a, frames)
	case "headless":
		return runHeadless(ctx, a, headlessConfig{
			Width:  cfg.Window.Width,
			Height: cfg.Window.Height,
			Frames: frames,
		})
	default:
		return fmt.Errorf("unknown mode %q (want window, tui or headless)", mode)
	}
}

func runWindow(cfg *config.Config, a *app, frames int) error {
	g, err := game.New(game.Config{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		MaxFrames:  frames,
	}, a.explorer, a.registry, a.graph, a.store)
	if err != nil {
		return fmt.Errorf("failed to create window host: %w", err)
	}
	defer g.Close()

	return g.Run()
}

func runTerminal(ctx context.Context, cfg *config.Config, a *app, frames int) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("terminal init: %w", err)
	}
	defer screen.Fini()

	interval := 16 * time.Millisecond
	if cfg.Window.FPSLimit > 0 {
		interval = time.Second / time.Duration(cfg.Window.FPSLimit)
	}

	h := hud.New(screen, a.explorer, a.registry, a.store, logger.Named("hud"))
	err = h.Run(ctx, interval, frames)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func serveMetrics(addr string, collector *observability.FrameCollector) *http.Server {
	if addr == "" || collector == nil {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Warn("metrics server exited", zap.Error(err))
		}
	}()

	logger.Info("serving Prometheus metrics", zap.String("addr", addr))
	return srv
}
