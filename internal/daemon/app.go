// Package daemon assembles the streamd process: the control API server,
// the scratch-dir janitor, config reload, and graceful shutdown.
package daemon

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ottkit/streamd/internal/config"
	"github.com/ottkit/streamd/internal/fsutil"
	"github.com/ottkit/streamd/internal/metrics"
	"github.com/ottkit/streamd/internal/registry"
)

const shutdownTimeout = 10 * time.Second

// App runs the daemon's long-lived goroutines and coordinates their
// shutdown.
type App struct {
	holder  *config.Holder
	manager *registry.Manager
	handler http.Handler
	logger  zerolog.Logger

	running atomic.Bool
}

// New assembles an App from its already-constructed parts.
func New(holder *config.Holder, manager *registry.Manager, handler http.Handler, logger zerolog.Logger) *App {
	return &App{
		holder:  holder,
		manager: manager,
		handler: handler,
		logger:  logger,
	}
}

// Run serves until ctx is cancelled or a SIGINT/SIGTERM arrives, then
// shuts down gracefully: the HTTP server drains, and a snapshot of the
// running streams is written to the data dir.
func (a *App) Run(ctx context.Context) error {
	if !a.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer a.running.Store(false)

	cfg := a.holder.Current()
	if cfg.Listen == "" {
		return ErrNoListenAddr
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           a.handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info().
			Str("event", "daemon.listen").
			Str("addr", cfg.Listen).
			Msg("control API listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		a.reloadLoop(ctx)
		return nil
	})

	updates := make(chan config.Config, 1)
	a.holder.RegisterListener(updates)
	g.Go(func() error {
		a.applyLoop(ctx, updates)
		return nil
	})

	if cfg.Janitor.Enabled && cfg.ScratchDir != "" {
		g.Go(func() error {
			a.janitorLoop(ctx, cfg.ScratchDir, cfg.Janitor)
			return nil
		})
	}

	err := g.Wait()

	if snapErr := WriteSnapshot(cfg.DataDir, a.manager.RunningIDs()); snapErr != nil {
		a.logger.Warn().
			Err(snapErr).
			Str("event", "daemon.snapshot_failed").
			Msg("failed to write shutdown snapshot")
	}

	a.logger.Info().Str("event", "daemon.stopped").Msg("daemon stopped")
	return err
}

// reloadLoop re-reads the configuration on SIGHUP.
func (a *App) reloadLoop(ctx context.Context) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			if err := a.holder.Reload(ctx); err != nil {
				a.logger.Error().
					Err(err).
					Str("event", "daemon.reload_failed").
					Msg("config reload failed, keeping previous config")
				continue
			}
			a.logger.Info().Str("event", "daemon.reloaded").Msg("config reloaded")
		}
	}
}

// applyLoop observes config updates from the holder. Listen address
// and janitor settings need a restart to take effect; the update is
// logged so operators can tell what is pending.
func (a *App) applyLoop(ctx context.Context, updates <-chan config.Config) {
	for {
		select {
		case <-ctx.Done():
			return
		case next := <-updates:
			a.logger.Info().
				Str("event", "daemon.config_updated").
				Str("addr", next.Listen).
				Int("streams", len(next.Streams)).
				Msg("config updated; listen and janitor changes apply on restart")
		}
	}
}

// janitorLoop periodically prunes aged files from the scratch dir.
func (a *App) janitorLoop(ctx context.Context, dir string, cfg config.JanitorConfig) {
	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-cfg.MaxAge)
			fsutil.RemoveOldFiles(dir, cutoff, cfg.Pattern, cfg.Recursive)
			metrics.RecordCleanupRun("janitor")
			a.logger.Debug().
				Str("event", "daemon.janitor_run").
				Str("path", dir).
				Time("cutoff", cutoff).
				Msg("scratch dir pruned")
		}
	}
}
