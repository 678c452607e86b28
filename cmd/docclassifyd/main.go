package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/joseph-ayodele/docclassify/internal/app"
	"github.com/joseph-ayodele/docclassify/internal/async"
	"github.com/joseph-ayodele/docclassify/internal/common"
	"github.com/joseph-ayodele/docclassify/internal/ingest"
	"github.com/joseph-ayodele/docclassify/internal/server"
)

func main() {
	cfg := common.LoadConfig()
	logger := app.NewLogger(cfg.LogLevel, os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.Open(ctx, cfg, logger, app.Options{WithStorage: true, WithMetrics: true})
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	queue := async.NewProcessorQueue(a.Processor, logger,
		async.WithWorkers(cfg.Queue.Workers),
		async.WithQueueSize(cfg.Queue.Size),
		async.WithProcessTimeout(cfg.Queue.ProcessTimeout),
	)
	ingestor := ingest.NewFSIngestor(a.Processor, queue, logger)

	if len(cfg.Watch.Dirs) > 0 {
		events, errs, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
			Roots:       cfg.Watch.Dirs,
			InitialScan: true,
			Debounce:    cfg.Watch.Debounce,
			SkipHidden:  true,
			Logger:      logger,
		})
		if err != nil {
			logger.Error("watcher start failed", "dirs", cfg.Watch.Dirs, "error", err)
			os.Exit(1)
		}
		go func() {
			for path := range events {
				if _, err := ingestor.IngestPath(ctx, path); err != nil && !errors.Is(err, context.Canceled) {
					logger.Error("watch ingest failed", "path", path, "error", err)
				}
			}
		}()
		go func() {
			for err := range errs {
				logger.Warn("watcher reported error", "error", err)
			}
		}()
	}

	srv, err := server.New(server.Deps{
		Processor: a.Processor,
		Documents: a.Documents,
		Exporter:  a.Exporter,
		Storage:   a.Storage,
		Ingestor:  ingestor,
		Health:    a.DB,
		Registry:  a.Registry,
		Logger:    logger,
		BodyLimit: cfg.Server.BodyLimit,
		TempDir:   cfg.OCR.ArtifactCacheDir,
	})
	if err != nil {
		logger.Error("server setup failed", "error", err)
		os.Exit(1)
	}

	go func() {
		logger.Info("http serving", "addr", cfg.Server.HTTPAddr)
		if err := srv.Listen(cfg.Server.HTTPAddr); err != nil {
			logger.Error("http serve failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Warn("http shutdown", "error", err)
	}
	queue.Shutdown(shutdownCtx)
	logger.Info("stopped")
}
