package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dappshell/internal/api"
	"dappshell/internal/appstate"
	"dappshell/internal/connector"
	"dappshell/internal/orchestrator"
	"dappshell/internal/probe"
	"dappshell/internal/retry"
	"dappshell/internal/sinks"
	"dappshell/internal/view"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the page shell and probe the contract whenever it is bound",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repository, err := newRepository(ctx, cfg)
	if err != nil {
		return err
	}
	defer repository.Close()

	backend, err := newBackend(ctx, cfg)
	if err != nil {
		return err
	}
	defer backend.Close()

	shell, err := view.NewShell()
	if err != nil {
		return err
	}

	strategy := retry.NewStrategy(cfg.Retry.Strategy())
	store := appstate.NewStore()

	conn := connector.New(backend, store, strategy, cfg.WatchInterval)
	orch := orchestrator.New([]sinks.Sink{
		sinks.NewLogSink(nil),
		sinks.NewStorageSink(repository),
		sinks.NewMetricsSink(),
	})
	watcher := probe.NewWatcher(store, probe.NewProber(cfg.CallTimeout), orch)
	server := api.NewServer(cfg.HTTPPort, repository, store, shell, api.Info{
		RPCURL:    cfg.RPCURL,
		ChainKind: cfg.ChainKind,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return watcher.Run(gctx) })
	g.Go(func() error { return conn.Run(gctx) })
	g.Go(server.ListenAndServe)
	g.Go(func() error {
		<-gctx.Done()
		slog.Warn("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	slog.Info("dappshell stopped")
	return nil
}
