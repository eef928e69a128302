// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/lunyk/kindred/internal/activity"
	"github.com/lunyk/kindred/internal/api"
	"github.com/lunyk/kindred/internal/attrmap"
	"github.com/lunyk/kindred/internal/linksvc"
	"github.com/lunyk/kindred/internal/mcpserver"
	"github.com/lunyk/kindred/internal/render"
	"github.com/lunyk/kindred/internal/sse"
	"github.com/lunyk/kindred/internal/suggest"
	"github.com/lunyk/kindred/internal/templates"
	"github.com/lunyk/kindred/internal/vars"
)

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Initialize structured JSON logger. In MCP mode stdout carries the
	// protocol, so logs go to stderr.
	logOut := os.Stdout
	if app.mcp {
		logOut = os.Stderr
	}
	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("builtin_templates", cfg.Templates.BuiltinDir),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// Ensure template directories exist.
	if err := os.MkdirAll(cfg.Templates.BuiltinDir, 0o755); err != nil {
		return fmt.Errorf("create builtin template dir: %w", err)
	}
	if cfg.Templates.UserDir != "" {
		if err := os.MkdirAll(cfg.Templates.UserDir, 0o755); err != nil {
			return fmt.Errorf("create user template dir: %w", err)
		}
	}

	// Initialize the activity store.
	store, err := activity.Open(cfg.SQLite.Path)
	if err != nil {
		return fmt.Errorf("init activity store: %w", err)
	}
	defer store.Close()

	// Template registry over the two directories.
	registry := templates.NewRegistry(
		templates.NewStore(cfg.Templates.BuiltinDir, cfg.Templates.UserDir),
		cfg.Templates.Enabled, logger)

	// Attribute mapping rules.
	rules, err := attrmap.LoadRules(cfg.Templates.RulesPath)
	if err != nil {
		logger.Warn("loading attribute rules failed", slog.String("error", err.Error()))
	}
	mapper := attrmap.NewMapper(rules, logger)

	// Suggestion provider client.
	client := suggest.NewClient(cfg.Suggest.Endpoint, cfg.Suggest.APIKey,
		cfg.Suggest.Model, cfg.Suggest.Timeout(), logger)
	if !client.Enabled() {
		logger.Info("suggestion provider disabled")
	}

	svc := linksvc.New(registry, mapper, store, client, linksvc.Settings{
		MiddleNames: vars.ParseMiddleNameHandling(cfg.Render.MiddleNames),
		Locale:      cfg.Render.Locale,
		Render: render.Options{
			Compactness:       render.ParseCompactness(cfg.Render.Compactness),
			ShowShortURL:      cfg.Render.ShowShortURL,
			PrefixReplacement: cfg.Render.PrefixReplacement,
		},
		AttributeLinks: cfg.Render.AttributeLinks,
		NoteLinks:      cfg.Render.NoteLinks,
		InternetLinks:  cfg.Render.InternetLinks,
	}, logger)

	watchDirs := []string{cfg.Templates.BuiltinDir, cfg.Templates.UserDir}

	if app.mcp {
		return runMCP(ctx, svc, registry, watchDirs, logger)
	}

	// SSE broker.
	broker := sse.NewBroker(2 * time.Second)
	defer broker.Close()

	apiRouter := api.NewRouter(svc, registry, store,
		cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Start template watcher with SSE callback.
	g.Go(func() error {
		if err := templates.Watch(gCtx, registry, watchDirs, logger, func(kind, file string) {
			broker.PublishTemplateEvent(kind, file)
		}); err != nil {
			logger.Warn("template watcher failed", slog.String("error", err.Error()))
		}
		return nil
	})

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// runMCP serves the MCP stdio transport instead of the HTTP API. The template
// watcher still runs so file edits are picked up between tool calls.
func runMCP(ctx context.Context, svc *linksvc.Service, registry *templates.Registry, watchDirs []string, logger *slog.Logger) error {
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := templates.Watch(gCtx, registry, watchDirs, logger, nil); err != nil {
			logger.Warn("template watcher failed", slog.String("error", err.Error()))
		}
		return nil
	})

	g.Go(func() error {
		logger.Info("Starting MCP server on stdio")
		return mcpserver.New(svc, registry).ServeStdio()
	})

	return g.Wait()
}
