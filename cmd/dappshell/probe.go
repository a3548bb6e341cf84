package main

import (
	"encoding/json"
	"fmt"
	"os"

	"dappshell/internal/appstate"
	"dappshell/internal/connector"
	"dappshell/internal/orchestrator"
	"dappshell/internal/probe"
	"dappshell/internal/retry"
	"dappshell/internal/sinks"

	"github.com/spf13/cobra"
)

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Bind the contract, run one session probe and print the outcome",
	RunE:  runProbe,
}

func runProbe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

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

	strategy := retry.NewStrategy(cfg.Retry.Strategy())
	store := appstate.NewStore()

	if err := connector.New(backend, store, strategy, cfg.WatchInterval).Connect(ctx); err != nil {
		return err
	}

	outcome, probeErr := probe.NewProber(cfg.CallTimeout).Run(ctx, store.Snapshot())
	if outcome == nil {
		return fmt.Errorf("contract handle absent after connect")
	}

	orch := orchestrator.New([]sinks.Sink{
		sinks.NewLogSink(nil),
		sinks.NewStorageSink(repository),
	})
	if err := orch.Dispatch(ctx, outcome); err != nil {
		return err
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(outcome); err != nil {
		return fmt.Errorf("failed to print outcome: %w", err)
	}

	return probeErr
}
