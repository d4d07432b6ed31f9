package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/JonMunkholm/admindash/internal/config"
	"github.com/JonMunkholm/admindash/internal/core"
	_ "github.com/JonMunkholm/admindash/internal/core/tables" // Register all tables
	"github.com/JonMunkholm/admindash/internal/logging"
	"github.com/JonMunkholm/admindash/internal/session"
	"github.com/JonMunkholm/admindash/internal/source"
	"github.com/JonMunkholm/admindash/internal/telemetry"
	"github.com/JonMunkholm/admindash/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging based on config
	logger := logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"source", cfg.Source.Kind,
		"max_concurrent_loads", cfg.Table.MaxConcurrentLoads,
		"rate_limit_enabled", cfg.Rate.Enabled,
		"telemetry_enabled", cfg.Telemetry.Enabled,
	)

	ctx := context.Background()

	shutdownTracing, err := telemetry.Setup(ctx, cfg.Telemetry)
	if err != nil {
		slog.Error("failed to set up tracing", "error", err)
		os.Exit(1)
	}

	// Open the configured record source
	sources, err := source.NewFactory(ctx, cfg.Source, logger)
	if err != nil {
		slog.Error("failed to open record source", "kind", cfg.Source.Kind, "error", err)
		os.Exit(1)
	}
	defer sources.Close()

	// Log registered tables
	slog.Info("tables registered",
		"count", core.TableCount(),
		"groups", len(core.Groups()),
	)
	for _, group := range core.Groups() {
		tables := core.ByGroup(group)
		slog.Debug("table group", "group", group, "tables", len(tables))
	}

	limiter := core.NewLoadLimiter(cfg.Table.MaxConcurrentLoads, cfg.Table.LoadWait)
	sessions := session.NewManager(sources, session.Options{
		TTL:           cfg.Session.TTL,
		SweepInterval: cfg.Session.SweepInterval,
		MaxSessions:   cfg.Session.MaxSessions,
		LoadTimeout:   cfg.Table.LoadTimeout,
		Limiter:       limiter,
		Logger:        logger.With("component", "session"),
	})

	// Create server with config
	server := web.NewServer(sessions, nil, cfg)

	// Create cancellable context for background jobs
	jobCtx, cancelJobs := context.WithCancel(context.Background())
	go sessions.StartJanitor(jobCtx)

	// Graceful shutdown
	done := make(chan struct{})
	go func() {
		defer close(done)

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		// Stop background jobs
		cancelJobs()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		// Wait for in-flight table loads (with timeout)
		if st := limiter.Status(); st.Active > 0 {
			slog.Info("waiting for table loads to complete", "active", st.Active)
			if err := limiter.WaitForDrain(shutdownCtx); err != nil {
				slog.Warn("table loads did not complete in time", "error", err)
			} else {
				slog.Info("all table loads completed")
			}
		}

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
		sessions.Close()

		if err := shutdownTracing(shutdownCtx); err != nil {
			slog.Warn("tracing shutdown error", "error", err)
		}
	}()

	// Start server (uses addr from config internally)
	slog.Info("server starting", "addr", cfg.Server.Addr())
	if err := server.Start(); !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
	<-done
	slog.Info("server stopped")
}
