// Command streamd is the stream orchestration daemon. It exposes the
// control API, drives worker command dispatch, and journals stream
// lifecycle transitions.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ottkit/streamd/internal/api"
	"github.com/ottkit/streamd/internal/config"
	"github.com/ottkit/streamd/internal/daemon"
	"github.com/ottkit/streamd/internal/fsutil"
	"github.com/ottkit/streamd/internal/journal"
	xlog "github.com/ottkit/streamd/internal/log"
	"github.com/ottkit/streamd/internal/registry"
	"github.com/ottkit/streamd/internal/telemetry"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "streamd:", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to YAML config file")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("streamd", version)
		return nil
	}

	loader := config.Loader{Path: *configPath}
	cfg, err := loader.Load()
	if err != nil {
		return err
	}

	xlog.Configure(xlog.Config{Level: cfg.LogLevel})
	logger := xlog.WithComponent("main")
	logger.Info().
		Str("event", "daemon.starting").
		Str("version", version).
		Msg("starting streamd")

	ctx := context.Background()

	provider, err := telemetry.NewProvider(ctx, cfg.Telemetry, version)
	if err != nil {
		return err
	}
	defer func() {
		if err := provider.Shutdown(context.Background()); err != nil {
			logger.Warn().Err(err).Msg("telemetry shutdown failed")
		}
	}()

	if err := fsutil.EnsureDir(cfg.DataDir); err != nil {
		return err
	}

	jnl, err := journal.Open(filepath.Join(cfg.DataDir, "journal.db"), journal.DefaultConfig())
	if err != nil {
		return err
	}
	defer func() {
		if err := jnl.Close(); err != nil {
			logger.Warn().Err(err).Msg("journal close failed")
		}
	}()

	dispatcher := daemon.NewLogDispatcher(xlog.WithComponent("dispatch"))
	manager := registry.NewManager(dispatcher, jnl, xlog.WithComponent("registry"))

	// Statically configured streams are registered at boot; a bad
	// descriptor is fatal here rather than silently skipped.
	for _, desc := range cfg.Streams {
		if err := manager.Configure(ctx, desc); err != nil {
			return fmt.Errorf("configure stream %q: %w", desc.ID, err)
		}
	}

	if snap, err := daemon.ReadSnapshot(cfg.DataDir); err == nil && len(snap.Running) > 0 {
		logger.Info().
			Strs("streams", snap.Running).
			Time("saved_at", snap.SavedAt).
			Msg("previous shutdown left streams running")
	}

	holder := config.NewHolder(cfg, loader)
	if *configPath != "" {
		if err := holder.StartWatcher(ctx); err != nil {
			logger.Warn().Err(err).Msg("config watcher unavailable")
		}
	}

	server := api.NewServer(manager, jnl, cfg.API)
	app := daemon.New(holder, manager, server.Router(), xlog.WithComponent("daemon"))
	return app.Run(ctx)
}
