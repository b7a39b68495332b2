package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/NhiLe-Team-Webs/video-be/internal/api"
	"github.com/NhiLe-Team-Webs/video-be/internal/assets"
	"github.com/NhiLe-Team-Webs/video-be/internal/config"
	"github.com/NhiLe-Team-Webs/video-be/internal/db"
	"github.com/NhiLe-Team-Webs/video-be/internal/logging"
	"github.com/NhiLe-Team-Webs/video-be/internal/pipeline"
	"github.com/NhiLe-Team-Webs/video-be/internal/planner"
	"github.com/NhiLe-Team-Webs/video-be/internal/runs"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("fatal error: %v", err)
	}
}

func run() error {
	startTime := time.Now()

	// A .env file is optional; system environment wins either way.
	_ = godotenv.Load()

	cfg, err := config.New()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := os.MkdirAll(cfg.DataDir(), 0755); err != nil {
		return fmt.Errorf("failed to create data dir: %w", err)
	}

	logger := logging.NewLogger(cfg.LogLevel())
	logger.Info("starting videobe server", "version", config.Version, "data_dir", cfg.DataDir())

	pipelineCfg, err := config.LoadPipeline(cfg.PipelineFile())
	if err != nil {
		return fmt.Errorf("failed to load pipeline config: %w", err)
	}

	database, err := db.New(cfg.DBPath(), logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	repo := runs.NewRepository(database.Conn())

	catalogs, err := pipeline.LoadCatalogs(
		config.ResolveAsset(cfg.AssetsDir(), pipelineCfg.Assets.Broll),
		config.ResolveAsset(cfg.AssetsDir(), pipelineCfg.Assets.Sfx),
		config.ResolveAsset(cfg.AssetsDir(), pipelineCfg.Assets.MotionRules),
		config.ResolveAsset(cfg.AssetsDir(), pipelineCfg.Assets.KeywordRules),
	)
	if err != nil {
		return fmt.Errorf("failed to load catalogs: %w", err)
	}

	svc := &pipeline.Service{
		Catalogs:      catalogs,
		Repo:          repo,
		Logger:        logger,
		FPS:           pipelineCfg.FPS,
		MaxHighlights: pipelineCfg.MaxHighlights,
		AvailableSfx:  planner.DiscoverAvailableSfx(cfg.AssetsDir()),
	}

	if cfg.OpenAIAPIKey() != "" {
		model := cfg.OpenAIModel()
		if model == "" {
			model = pipelineCfg.Planner.Model
		}
		client, err := planner.NewClient(planner.Config{
			APIKey:  cfg.OpenAIAPIKey(),
			BaseURL: cfg.OpenAIBaseURL(),
			Model:   model,
		})
		if err != nil {
			return fmt.Errorf("failed to configure planner: %w", err)
		}
		svc.Planner = client
		logger.Info("draft planner enabled", "model", model)
	} else {
		logger.Warn("no API key configured, draft endpoint disabled")
	}

	apiServer := api.NewServer(api.ServerConfig{
		Port:       cfg.Port(),
		Service:    svc,
		Repository: repo,
		Assets:     assets.NewServer(cfg.AssetsDir(), logger),
		Logger:     logger,
		StartTime:  startTime,
		MaxEntries: pipelineCfg.Planner.MaxEntries,
		Version:    config.Version,
	})

	go func() {
		if err := apiServer.Start(); err != nil {
			logger.Error("HTTP server error", "error", err)
		}
	}()

	logger.Info("server ready", "addr", apiServer.Addr())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("received shutdown signal", "signal", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown HTTP server", "error", err)
	}

	logger.Info("shutdown complete")
	return nil
}
