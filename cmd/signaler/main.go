// signaler runs the resilient execution-service client as a daemon: it
// holds the websocket session open, journals inbound traffic to Postgres,
// and exposes Prometheus metrics until SIGINT/SIGTERM.
// Usage: go run ./cmd/signaler --config configs/signaler.local.yaml
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/optionslab/multileg-client/internal/client"
	"github.com/optionslab/multileg-client/internal/config"
	"github.com/optionslab/multileg-client/internal/database"
	"github.com/optionslab/multileg-client/internal/journal"
	"github.com/optionslab/multileg-client/internal/metrics"
	"github.com/optionslab/multileg-client/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/signaler.local.yaml", "path to config file")
	flag.Parse()

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	logger.Info("starting signaler",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	// Load configuration
	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("configuration loaded",
		"url", cfg.Client.URL,
		"journal_enabled", cfg.Journal.Enabled,
	)

	// Handle shutdown signals
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Metrics registry
	registry := prometheus.NewRegistry()
	m := metrics.New("multileg", registry)

	// Connect to database and start the journal if enabled
	var jrnl *journal.Journal
	if cfg.Journal.Enabled {
		logger.Info("connecting to database",
			"host", cfg.Database.Host,
			"port", cfg.Database.Port,
			"database", cfg.Database.Name,
		)
		pool, err := database.Connect(ctx, cfg.Database)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		logger.Info("database connected")

		jrnl = journal.New(journal.Config{
			BatchSize:     cfg.Journal.BatchSize,
			FlushInterval: cfg.Journal.FlushInterval,
		}, pool, logger)
		if err := jrnl.Start(ctx); err != nil {
			logger.Error("failed to start journal", "error", err)
			os.Exit(1)
		}
	}

	// Build the client
	c := client.New(clientConfig(cfg.Client),
		client.WithLogger(logger),
		client.WithMetrics(m),
	)
	if jrnl != nil {
		jrnl.Attach(c)
	}

	if !c.Connect() {
		logger.Error("failed to initiate connection")
		os.Exit(1)
	}

	g, gctx := errgroup.WithContext(ctx)

	// Metrics and health server
	mux := http.NewServeMux()
	mux.Handle(cfg.Metrics.Path, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		stats := c.Stats()
		health := struct {
			Status     string                 `json:"status"`
			Components map[string]interface{} `json:"components"`
		}{
			Status:     "healthy",
			Components: make(map[string]interface{}),
		}
		health.Components["client"] = map[string]interface{}{
			"state":       stats.State.String(),
			"queue_depth": stats.QueueDepth,
			"sent":        stats.Sent,
			"dropped":     stats.Dropped,
		}
		if stats.State != client.StateConnected {
			health.Status = "degraded"
		}
		if jrnl != nil {
			js := jrnl.Stats()
			health.Components["journal"] = map[string]interface{}{
				"recorded":     js.Recorded,
				"rows_written": js.RowsWritten,
				"write_errors": js.WriteErrors,
			}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(health)
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Metrics.Port),
		Handler: mux,
	}

	g.Go(func() error {
		logger.Info("starting metrics server", "port", cfg.Metrics.Port, "path", cfg.Metrics.Path)
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		logger.Info("shutting down...")
		c.Disconnect()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if jrnl != nil {
			if err := jrnl.Stop(shutdownCtx); err != nil {
				logger.Warn("journal shutdown", "error", err)
			}
		}
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("signaler exited", "error", err)
		os.Exit(1)
	}

	logger.Info("signaler stopped")
}

// clientConfig maps the YAML configuration onto the client package config.
func clientConfig(cc config.ClientConfig) client.Config {
	cfg := client.DefaultConfig()
	cfg.URL = cc.URL
	cfg.AuthToken = cc.AuthToken
	cfg.AutoReconnect = !cc.DisableReconnect
	cfg.ReconnectBaseDelay = cc.ReconnectBaseDelay
	cfg.ReconnectMaxDelay = cc.ReconnectMaxDelay
	cfg.ReconnectJitter = cc.ReconnectJitter
	cfg.MaxAttempts = cc.MaxAttempts
	cfg.QueueLimit = cc.QueueLimit
	cfg.HandshakeTimeout = cc.HandshakeTimeout
	cfg.WriteTimeout = cc.WriteTimeout
	cfg.PingInterval = cc.PingInterval
	return cfg
}
