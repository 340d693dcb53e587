package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"nidhi/internal/amqp"
	"nidhi/internal/cli"
	"nidhi/internal/sheets"
	gsheet "nidhi/internal/sheets/google"
	"nidhi/internal/sheets/memory"
	"nidhi/internal/worker"
)

func main() {
	logger := cli.Setup("nidhi-worker")
	logger.Info("Starting nidhi-worker")

	cfg := cli.MustConfig(logger)

	repo := cli.MustRepository(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	// Without a spreadsheet the worker still runs, writing summaries to an
	// in-process store. Useful for local development against a real broker.
	var writer sheets.SummaryWriter
	if cfg.GoogleSpreadsheetID != "" {
		client, err := gsheet.NewFromEnv(context.Background())
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}
		writer = client
		logger.Info("Google Sheets client initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		writer = memory.New()
		logger.Info("Google Sheets disabled, using in-memory summary store")
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	syncWorker := worker.NewSyncWorker(repo, writer)

	// Startup resync so a restart converges even if messages were lost.
	if err := syncWorker.SyncCurrentMonth(ctx); err != nil {
		logger.Error("Startup sync failed", "error", err)
	}

	go func() {
		err := amqpClient.ConsumeSummarySync(ctx, func(msg *amqp.SummarySyncMessage) error {
			return syncWorker.HandleSyncMessage(ctx, msg)
		})
		if err != nil && err != context.Canceled {
			logger.Error("Message consumption failed", "error", err)
		}
		cancel()
	}()

	// Periodic fallback for lost messages.
	go func() {
		ticker := time.NewTicker(cfg.SyncInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := syncWorker.SyncCurrentMonth(ctx); err != nil {
					logger.Error("Periodic sync failed", "error", err)
				}
			}
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("Context cancelled")
	}

	cancel()
	logger.Info("Worker shutdown complete")
}
