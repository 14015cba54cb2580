package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/erazemk/shareit/internal/api"
	"github.com/erazemk/shareit/internal/config"
	"github.com/erazemk/shareit/internal/db"
	"github.com/erazemk/shareit/internal/logging"
	"github.com/erazemk/shareit/internal/metrics"
	"github.com/erazemk/shareit/internal/service"
	"github.com/erazemk/shareit/internal/store"
)

func main() {
	fs := flag.NewFlagSet("shareit", flag.ContinueOnError)

	var configPath string
	fs.StringVar(&configPath, "config", "", "")
	fs.StringVar(&configPath, "c", "", "")

	// Flag values only win when set explicitly; see fs.Visit below.
	var addr, dsn, logPath, logLevel string
	fs.StringVar(&addr, "addr", "", "")
	fs.StringVar(&addr, "a", "", "")
	fs.StringVar(&dsn, "dsn", "", "")
	fs.StringVar(&dsn, "d", "", "")
	fs.StringVar(&logPath, "log", "", "")
	fs.StringVar(&logPath, "l", "", "")
	fs.StringVar(&logLevel, "log-level", "", "")

	fs.Usage = func() {
		fmt.Fprint(os.Stdout, `Usage: shareit [flags]

Flags:
  -c, -config <path>      YAML config file (default: none)
  -a, -addr <host:port>   listen address (default: :8080)
  -d, -dsn <dsn>          SQLite path or postgres:// URL (default: shareit.sqlite3)
  -l, -log <path>         log file path (default: no file, stdout/stderr only)
  -log-level <level>      debug, info, warn or error (default: info)
  -h, -help               show this help and exit

Settings are also read from .env and SHAREIT_* environment variables.
`)
	}

	if err := fs.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if fs.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "unexpected argument: %s\n", fs.Arg(0))
		fs.Usage()
		os.Exit(1)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "addr", "a":
			cfg.Addr = addr
		case "dsn", "d":
			cfg.DSN = dsn
		case "log", "l":
			cfg.Log = logPath
		case "log-level":
			cfg.LogLevel = logLevel
		}
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	closeLog, err := logging.Setup(level, cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	if err := run(cfg); err != nil {
		slog.Error("server error", "error", err)
		closeLog()
		os.Exit(1)
	}
}

func run(cfg config.Config) error {
	database, dialect, err := db.Open(cfg.DSN)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	if err := db.EnsureSchema(database, dialect); err != nil {
		return fmt.Errorf("ensuring database schema: %w", err)
	}
	slog.Info("database ready", "dialect", dialect)

	st := store.New(database, dialect)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The secret is generated on first run and kept in the database unless
	// configured explicitly.
	jwtSecret := cfg.JWTSecret
	if jwtSecret == "" {
		if jwtSecret, err = st.GetJWTSecret(ctx); err != nil {
			return fmt.Errorf("getting JWT secret: %w", err)
		}
	}

	m := metrics.New()
	services := service.New(st, service.Options{
		Observer:                  m,
		AllowOverlappingApprovals: cfg.AllowOverlappingApprovals,
	})

	if cfg.TrustUserHeader {
		slog.Warn("trusting " + api.UserHeader + " for identity; run behind a gateway that sets it")
	}

	server := &http.Server{
		Addr: cfg.Addr,
		Handler: api.NewRouter(api.Deps{
			Services:        services,
			Store:           st,
			JWTSecret:       jwtSecret,
			TrustUserHeader: cfg.TrustUserHeader,
			Metrics:         m,
			LoginLimiter:    api.NewRateLimiter(ctx, cfg.LoginRate, cfg.LoginBurst),
		}),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		<-ctx.Done()
		slog.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server forced to shutdown", "error", err)
		}
	}()

	slog.Info("server started", "addr", cfg.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	slog.Info("server stopped, closing database")
	return nil
}
