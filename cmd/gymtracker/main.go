package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/claude/gymtracker/internal/catalog"
	"github.com/claude/gymtracker/internal/config"
	"github.com/claude/gymtracker/internal/handoff"
	"github.com/claude/gymtracker/internal/history"
	"github.com/claude/gymtracker/internal/lists"
	gymmcp "github.com/claude/gymtracker/internal/mcp"
	"github.com/claude/gymtracker/internal/server"
	"github.com/claude/gymtracker/internal/session"
	"github.com/claude/gymtracker/internal/storage"
	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"tailscale.com/tsnet"
)

// Version is set at build time via -ldflags.
var Version = "dev"

// kvStore is a history backend that holds a connection or file open.
type kvStore interface {
	history.Store
	io.Closer
}

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	migrateOnly := flag.Bool("migrate-only", false, "run migrations and exit")
	mcpStdio := flag.Bool("mcp-stdio", false, "serve MCP over stdin/stdout instead of HTTP")
	remote := flag.String("remote", "", "with -mcp-stdio, read from a running GymTracker at this base URL")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(Version)
		return
	}

	// stdout carries the MCP protocol in stdio mode
	var logOut io.Writer = os.Stdout
	if *mcpStdio {
		logOut = os.Stderr
	}
	log := slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: slog.LevelInfo}))
	log.Info("GymTracker starting", "version", Version)

	if *mcpStdio && *remote != "" {
		log.Info("mcp stdio starting", "remote", *remote)
		if err := mcpserver.ServeStdio(gymmcp.New(gymmcp.NewHTTPClient(*remote), Version, log)); err != nil {
			log.Error("mcp stdio error", "error", err)
			os.Exit(1)
		}
		return
	}

	// GYMTRACKER_* overrides may come from a local .env file
	if err := godotenv.Load(); err == nil {
		log.Info("loaded .env")
	}

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if *migrateOnly {
		if cfg.History.Backend != config.BackendPostgres {
			log.Info("migrate-only: nothing to migrate", "backend", cfg.History.Backend)
			return
		}
		if err := storage.RunMigrations(cfg.Database.DSN(), "migrations"); err != nil {
			log.Error("migration failed", "error", err)
			os.Exit(1)
		}
		log.Info("migrations applied, exiting")
		return
	}

	// Catalog
	cat := catalog.Default()
	if cfg.Catalog.Path != "" {
		cat, err = catalog.LoadFile(cfg.Catalog.Path)
		if err != nil {
			log.Error("failed to load catalog", "path", cfg.Catalog.Path, "error", err)
			os.Exit(1)
		}
	}
	log.Info("catalog loaded", "muscle_groups", len(cat.MuscleGroups()), "exercises", len(cat.Exercises()))

	// History store
	ctx := context.Background()
	store, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Error("failed to open history store", "backend", cfg.History.Backend, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	hist := history.New(store, log)
	log.Info("history loaded", "backend", cfg.History.Backend, "entries", len(hist.Load(ctx)))

	workouts := lists.NewWorkouts(lists.SampleWorkouts(time.Now()))
	templates := lists.NewTemplates(lists.SampleTemplates())
	mailbox := handoff.NewMailbox()
	sessions := session.NewManager(cat, hist, templates, mailbox, log)
	sessions.SetIdleTTL(cfg.Sessions.IdleTTL)

	mcpSrv := gymmcp.New(gymmcp.NewLocal(cat, hist, workouts, templates), Version, log)
	if *mcpStdio {
		log.Info("mcp stdio starting")
		if err := mcpserver.ServeStdio(mcpSrv); err != nil {
			log.Error("mcp stdio error", "error", err)
			os.Exit(1)
		}
		return
	}

	// Create server
	srv := server.New(server.Deps{
		Catalog:   cat,
		History:   hist,
		Workouts:  workouts,
		Templates: templates,
		Mailbox:   mailbox,
		Sessions:  sessions,
	}, log)
	srv.MountMCP(mcpserver.NewStreamableHTTPServer(mcpSrv), cfg.Server.APIKey)

	// Start server: tsnet or plain HTTP
	var listener net.Listener
	var tsServer *tsnet.Server

	if cfg.Tailscale.Enabled {
		tsServer = &tsnet.Server{
			Hostname: cfg.Tailscale.Hostname,
			Dir:      cfg.Tailscale.StateDir,
		}
		if err := tsServer.Start(); err != nil {
			log.Error("tsnet start failed", "error", err)
			os.Exit(1)
		}
		defer tsServer.Close()

		listener, err = tsServer.Listen("tcp", ":80")
		if err != nil {
			log.Error("tsnet listen failed", "error", err)
			os.Exit(1)
		}
		log.Info("tsnet server starting", "hostname", cfg.Tailscale.Hostname)
	} else {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		listener, err = net.Listen("tcp", addr)
		if err != nil {
			log.Error("listen failed", "addr", addr, "error", err)
			os.Exit(1)
		}
		log.Info("server starting", "addr", addr)
	}

	httpSrv := &http.Server{Handler: srv}

	go func() {
		if err := httpSrv.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("shutting down", "signal", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}
	log.Info("server stopped")
}

// openStore opens the configured history backend. The postgres backend
// applies migrations before connecting.
func openStore(ctx context.Context, cfg *config.Config, log *slog.Logger) (kvStore, error) {
	switch cfg.History.Backend {
	case config.BackendPostgres:
		dsn := cfg.Database.DSN()
		if err := storage.RunMigrations(dsn, "migrations"); err != nil {
			return nil, fmt.Errorf("running migrations: %w", err)
		}
		log.Info("migrations applied")
		db, err := storage.New(ctx, dsn)
		if err != nil {
			return nil, err
		}
		log.Info("database connected", "host", cfg.Database.Host)
		return db, nil
	case config.BackendMemory:
		log.Warn("history is not persisted", "backend", cfg.History.Backend)
		return storage.NewMemory(), nil
	default:
		return storage.OpenSQLite(cfg.History.Path)
	}
}
