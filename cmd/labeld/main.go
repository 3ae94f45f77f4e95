package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/eindr/labeld/internal/auth"
	"github.com/eindr/labeld/internal/cache"
	"github.com/eindr/labeld/internal/config"
	"github.com/eindr/labeld/internal/handler"
	"github.com/eindr/labeld/internal/logging"
	"github.com/eindr/labeld/internal/middleware"
	"github.com/eindr/labeld/internal/scheduler"
	"github.com/eindr/labeld/internal/store"
	"github.com/eindr/labeld/internal/version"
)

// Injected at build time via ldflags.
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = usage
	flag.Parse()

	switch {
	case *showHelp:
		flag.Usage()
		os.Exit(0)
	case *showVersion:
		fmt.Printf("labeld %s (commit: %s, built: %s)\n", appVersion, appGitCommit, appBuildTime)
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func usage() {
	out := flag.CommandLine.Output()
	fmt.Fprintf(out, "labeld - multi-language label catalog service\n\n")
	fmt.Fprintf(out, "Usage: %s [options]\n\nOptions:\n", os.Args[0])
	flag.PrintDefaults()
	fmt.Fprint(out, `
Environment Variables:
  LABELD_ADMIN_PASSWORD  Admin password for Basic auth (required, min 12 chars)
  LABELD_ADMIN_EMAIL     Admin email (default: admin@example.com)
  LABELD_DB_PATH         SQLite database path (default: ./data/labeld.db)
  LABELD_SERVER_PORT     Server port (default: 8080)
  LABELD_ENV             Environment: development|production (default: development)
  LABELD_REDIS_URL       Redis URL for distributed caching (optional)
  LABELD_DO_SEED         Seed sample catalog data on startup (default: false)
`)
}

func logLevel(name string) slog.Level {
	switch name {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	level := logLevel(cfg.LogLevel)
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(textHandler))

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}()

	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")

	// From here on WARN and ERROR logs also land in the events table.
	logger := slog.New(logging.NewEventLogHandler(textHandler, db))
	slog.SetDefault(logger)

	if err := store.Seed(context.Background(), db, cfg.DoSeed); err != nil {
		return fmt.Errorf("seeding database: %w", err)
	}

	backend := cache.New(cache.Config{
		RedisURL:        cfg.RedisURL,
		Prefix:          cfg.CachePrefix,
		DefaultTTL:      time.Duration(cfg.CacheTTL) * time.Second,
		MaxSize:         cfg.CacheMaxSize,
		CleanupInterval: time.Minute,
	})
	defer func() {
		if err := backend.Close(); err != nil {
			slog.Error("error closing cache", "error", err)
		}
	}()

	queries := store.New(db)
	labels := cache.NewLabelCache(backend, queries, time.Duration(cfg.CacheTTL)*time.Second)

	rateLimiter := middleware.NewRateLimiter(10, 20)

	sched := scheduler.New(db, logger, labels, rateLimiter, cfg.EventRetentionDays)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}
	defer sched.Stop()

	// The admin password is kept only as an argon2id hash from here on.
	adminHash, err := auth.HashPassword(cfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("hashing admin password: %w", err)
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(rateLimiter.Middleware())

	info := version.Info{Version: appVersion, GitCommit: appGitCommit, BuildTime: appBuildTime}
	h := handler.NewHandler(db, labels)
	health := handler.NewHealthHandler(db, info.Version)
	handler.MountRoutes(r, h, health, middleware.AdminBasicAuth(cfg.AdminEmail, adminHash))

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	select {
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	case <-stop.Done():
	}

	slog.Info("shutting down server...")
	ctx, cancelShutdown := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
