// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package main is the entry point for the NoorShare dashboard.
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/olegiv/noorshare/internal/app"
	"github.com/olegiv/noorshare/internal/config"
	"github.com/olegiv/noorshare/internal/handler"
	"github.com/olegiv/noorshare/internal/i18n"
	"github.com/olegiv/noorshare/internal/logging"
	"github.com/olegiv/noorshare/internal/middleware"
	"github.com/olegiv/noorshare/internal/render"
	"github.com/olegiv/noorshare/internal/session"
	"github.com/olegiv/noorshare/internal/store"
	"github.com/olegiv/noorshare/internal/version"
	"github.com/olegiv/noorshare/web"
)

// Build-time variables injected via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

// loginPurgeInterval is how often expired login attempts are forgotten.
const loginPurgeInterval = 5 * time.Minute

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "NoorShare - daily Hadith sharing dashboard\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  NOOR_SESSION_SECRET    Session encryption key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  NOOR_DB_PATH           SQLite database path (default: ./data/noorshare.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  NOOR_SERVER_PORT       Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  NOOR_ENV               Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  NOOR_ADMIN_PASSWORD    Password of the bootstrap admin (required on first start)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  NOOR_CAPTION_PROVIDER  gemini|openai|none (default: gemini)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  NOOR_CAPTION_API_KEY   API key of the caption provider (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  NOOR_REDIS_URL         Redis URL for the caption cache (optional)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	versionInfo := version.Info{
		Version:   appVersion,
		GitCommit: appGitCommit,
		BuildTime: appBuildTime,
	}
	if *showVersion {
		_, _ = fmt.Printf("noorshare %s\n", versionInfo)
		os.Exit(0)
	}

	if err := run(versionInfo); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run(versionInfo version.Info) error {
	// Load .env files if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	if err := i18n.Init(logger); err != nil {
		return fmt.Errorf("initializing i18n: %w", err)
	}
	slog.Info("i18n system initialized", "languages", i18n.SupportedLanguages)

	// Ensure data directory exists
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o750); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")

	// Upgrade logger to also write WARN and ERROR logs to the event log table
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	logger = slog.New(logging.NewEventLogHandler(textHandler, store.New(db)))
	slog.SetDefault(logger)
	slog.Info("event log integration enabled", "min_level", "warn")

	ctx := context.Background()
	admin := store.Admin{Email: cfg.AdminEmail, Password: cfg.AdminPassword, Name: cfg.AdminName}
	if err := store.Seed(ctx, db, admin, cfg.DoSeed, logger); err != nil {
		return fmt.Errorf("seeding database: %w", err)
	}

	state, err := app.New(ctx, cfg, db, logger, app.Options{})
	if err != nil {
		return fmt.Errorf("building application state: %w", err)
	}
	defer func() {
		if err := state.Close(); err != nil {
			slog.Error("error closing application state", "error", err)
		}
	}()
	slog.Info("application state loaded",
		"hadiths", state.Hadiths.Len(),
		"cache", state.CacheKind,
		"captions", state.Captions.Enabled(),
	)

	sessionManager := session.New(db, cfg.IsDevelopment(), session.CleanupInterval)

	renderer, err := render.New(render.Config{
		TemplatesFS:    web.Templates,
		SessionManager: sessionManager,
		Now:            state.Now,
	})
	if err != nil {
		return fmt.Errorf("loading templates: %w", err)
	}

	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		return fmt.Errorf("getting static fs: %w", err)
	}

	guardCtx, stopGuard := context.WithCancel(ctx)
	defer stopGuard()
	guard := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())
	go guard.Run(guardCtx, loginPurgeInterval)

	r := handler.NewRouter(handler.RouterConfig{
		App:        state,
		Sessions:   sessionManager,
		Renderer:   renderer,
		Guard:      guard,
		Version:    versionInfo,
		Static:     staticFS,
		Logger:     logger,
		RequestLog: true,
	})

	if err := state.Start(); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second, // caption generation can be slow
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env, "version", versionInfo.String())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	}

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
