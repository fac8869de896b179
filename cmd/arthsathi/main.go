// ArthSathi - Financial suitability advice for informal-income households.

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/arthsathi/arthsathi/internal/advisor"
	"github.com/arthsathi/arthsathi/internal/api"
	"github.com/arthsathi/arthsathi/internal/bus"
	"github.com/arthsathi/arthsathi/internal/catalog"
	"github.com/arthsathi/arthsathi/internal/domain"
	"github.com/arthsathi/arthsathi/internal/gemini"
	"github.com/arthsathi/arthsathi/internal/ratelimit"
	"github.com/arthsathi/arthsathi/internal/repository"
)

// Version information (set via ldflags)
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

func main() {
	// A missing .env is fine; configuration can come from the environment.
	_ = godotenv.Load()

	cfg := domain.FromEnv()

	// Initialize structured logger
	logLevel := slog.LevelInfo
	if cfg.Logging.Level == "debug" {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	slog.Info("starting arthsathi",
		"version", Version,
		"commit", Commit,
		"build_date", BuildDate,
	)

	slog.Info("configuration loaded",
		"model", cfg.Gemini.Model,
		"repository", cfg.Repository.Driver,
		"eventbus", cfg.EventBus.Type,
		"rate_limit", cfg.RateLimit.RequestsPerMinute,
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		slog.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Compile the scheme eligibility filter
	filter, err := catalog.NewFilter()
	if err != nil {
		slog.Error("failed to compile eligibility filter", "error", err)
		os.Exit(1)
	}
	slog.Info("scheme catalog loaded", "schemes", catalog.Count())

	// Initialize the Gemini-backed advisor. Without a usable key the server
	// still starts: catalog endpoints work, advisory endpoints answer 503.
	var adv *advisor.Advisor
	if gemini.KeyConfigured(cfg.Gemini.APIKey) {
		client, err := gemini.NewClient(ctx, cfg.Gemini)
		if err != nil {
			slog.Error("failed to initialize gemini client", "error", err)
			os.Exit(1)
		}
		adv = advisor.New(client, time.Duration(cfg.Gemini.RequestTimeout)*time.Second)
		slog.Info("gemini client initialized", "model", cfg.Gemini.Model)
	} else {
		slog.Warn("GEMINI_API_KEY not set; advisory endpoints will answer 503")
	}

	// Initialize the optional audit-trail repository
	var repo domain.Repository
	if cfg.Repository.Driver != "" {
		repo, err = repository.New(cfg.Repository)
		if err != nil {
			slog.Error("failed to initialize repository", "error", err)
			os.Exit(1)
		}
		defer repo.Close()
		slog.Info("repository initialized", "driver", cfg.Repository.Driver)
	}

	// Initialize EventBus
	busImpl, err := bus.New(cfg.EventBus)
	if err != nil {
		slog.Error("failed to initialize event bus", "error", err)
		os.Exit(1)
	}
	defer busImpl.Close()
	slog.Info("event bus initialized", "type", cfg.EventBus.Type)

	// Initialize rate limiter
	limiter, err := ratelimit.New(cfg.RateLimit)
	if err != nil {
		slog.Error("failed to initialize rate limiter", "error", err)
		os.Exit(1)
	}
	defer limiter.Close()

	// Initialize Server
	srv := api.NewServer(cfg.Server, adv, filter, repo, busImpl, limiter, Version)

	// Start Server in goroutine
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	slog.Info("arthsathi is ready",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
	)

	printBanner(cfg, Version, adv != nil)

	// Wait for shutdown signal
	<-ctx.Done()
	slog.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
	}

	slog.Info("arthsathi shutdown complete")
}

func printBanner(cfg *domain.Config, version string, keySet bool) {
	keyStatus := "set"
	if !keySet {
		keyStatus = "NOT SET (add GEMINI_API_KEY to .env)"
	}

	fmt.Println()
	fmt.Println("  ╔═══════════════════════════════════════════╗")
	fmt.Println("  ║              🌾 ARTHSATHI                 ║")
	fmt.Println("  ║    Financial Suitability Platform API     ║")
	fmt.Println("  ║   Advice for every kind of income.        ║")
	fmt.Println("  ╚═══════════════════════════════════════════╝")
	fmt.Println()
	fmt.Printf("  Version:  %s\n", version)
	fmt.Printf("  Server:   http://%s:%d\n", cfg.Server.Host, cfg.Server.Port)
	fmt.Printf("  Model:    %s (key %s)\n", cfg.Gemini.Model, keyStatus)
	fmt.Println()
	fmt.Println("  Endpoints:")
	fmt.Println("    GET  /health                   - Health check")
	fmt.Println("    GET  /api/schemes              - List all schemes")
	fmt.Println("    GET  /api/schemes/{id}         - Get scheme by ID")
	fmt.Println("    POST /api/analyze-profile      - Analyze a financial profile")
	fmt.Println("    POST /api/get-recommendations  - Generate recommendations")
	fmt.Println()
}
