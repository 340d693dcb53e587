package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"nidhi/internal/amqp"
	"nidhi/internal/classify"
	"nidhi/internal/cli"
	apphttp "nidhi/internal/http"
)

func main() {
	logger := cli.Setup("nidhi")
	cfg := cli.MustConfig(logger)

	repo := cli.MustRepository(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	table := classify.Default()
	if cfg.ClassifyTable != "" {
		var err error
		table, err = classify.LoadFile(cfg.ClassifyTable)
		if err != nil {
			logger.Error("Failed to load classification table", "error", err, "path", cfg.ClassifyTable)
			os.Exit(1)
		}
		logger.Info("Loaded classification table", "path", cfg.ClassifyTable)
	}

	// AMQP is optional: without a broker, writes still work and the sheet
	// export simply stays stale until the worker's periodic resync.
	var publisher apphttp.Publisher
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("AMQP unavailable, change messages disabled", "error", err)
		} else {
			defer amqpClient.Close()
			publisher = amqpClient
		}
	}

	srv := apphttp.NewServer(":"+cfg.Port, repo, publisher, table, apphttp.Options{
		MonthlyBudget:    cfg.MonthlyBudget,
		AnnualReturnRate: cfg.AnnualReturnRate,
		Logger:           logger.WithComponent("http"),
	})
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting nidhi server", "port", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
