package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"dappshell/internal/config"
	"dappshell/internal/connector"
	"dappshell/internal/contract/evm"
	"dappshell/internal/contract/soroban"
	"dappshell/internal/storage"
)

// loadConfig loads and validates configuration, then installs the default logger
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(envFiles...)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	slog.Info("Configuration loaded",
		"rpc_url", cfg.RPCURL,
		"chain_kind", cfg.ChainKind,
		"log_level", cfg.LogLevel,
		"storage", storageKind(cfg),
	)
	return cfg, nil
}

// newBackend creates the contract backend for the configured chain kind
func newBackend(ctx context.Context, cfg *config.Config) (connector.Backend, error) {
	switch cfg.ChainKind {
	case config.ChainEVM:
		backend, err := evm.Dial(ctx, evm.Options{
			RPCURL:       cfg.RPCURL,
			ArtifactPath: cfg.ContractArtifact,
			Address:      cfg.ContractAddress,
			From:         cfg.CallerAccount,
		})
		if err != nil {
			return nil, err
		}
		return backend, nil
	case config.ChainSoroban:
		backend, err := soroban.Dial(soroban.Options{
			RPCURL:            cfg.RPCURL,
			ContractID:        cfg.ContractAddress,
			SourceAccount:     cfg.CallerAccount,
			NetworkPassphrase: cfg.NetworkPassphrase,
		})
		if err != nil {
			return nil, err
		}
		return backend, nil
	default:
		return nil, fmt.Errorf("unknown chain kind %q", cfg.ChainKind)
	}
}

// newRepository opens PostgreSQL when DATABASE_URL is set, memory otherwise
func newRepository(ctx context.Context, cfg *config.Config) (storage.Repository, error) {
	if cfg.DatabaseURL == "" {
		return storage.NewMemoryRepository(1000), nil
	}

	repository, err := storage.NewPostgresRepository(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := repository.EnsureSchema(ctx); err != nil {
		repository.Close()
		return nil, err
	}
	slog.Info("Database connected successfully")
	return repository, nil
}

func storageKind(cfg *config.Config) string {
	if cfg.DatabaseURL == "" {
		return "memory"
	}
	return "postgres"
}
