package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"nidhi/internal/cli"
	"nidhi/internal/navfeed"
)

func main() {
	logger := cli.Setup("nav-worker")
	logger.Info("Starting nav-worker")

	cfg := cli.MustConfig(logger)
	if len(cfg.NAVSchemes) == 0 {
		logger.Error("No NAV schemes configured, set NAV_SCHEMES")
		os.Exit(1)
	}

	repo := cli.MustRepository(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	client := navfeed.NewClient(cfg.NAVBaseURL, logger.WithComponent("navfeed"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())
		cancel()
	}()

	refresh := func() {
		fetchCtx, fetchCancel := context.WithTimeout(ctx, 2*time.Minute)
		defer fetchCancel()

		histories, err := client.FetchAll(fetchCtx, cfg.NAVSchemes)
		if err != nil {
			logger.Error("NAV refresh failed", "error", err)
			return
		}
		for scheme, points := range histories {
			if err := repo.UpsertNAVHistory(fetchCtx, scheme, points); err != nil {
				logger.Error("Failed to store NAV history", "scheme", scheme, "error", err)
			}
		}
		logger.Info("NAV refresh completed", "schemes", len(histories))
	}

	refresh()

	ticker := time.NewTicker(cfg.NAVRefreshInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			logger.Info("nav-worker stopped")
			return
		case <-ticker.C:
			refresh()
		}
	}
}
