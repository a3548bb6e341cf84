package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"dappshell/internal/retry"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Chain kinds supported by the connector
const (
	ChainEVM     = "evm"
	ChainSoroban = "soroban"
)

type Config struct {
	// RPC endpoint of the node ( JSON-RPC for evm, Stellar RPC for soroban )
	RPCURL string `env:"RPC_URL" envDefault:"http://127.0.0.1:8545"`

	// Chain kind: evm or soroban
	ChainKind string `env:"CHAIN_KIND" envDefault:"evm"`

	// Truffle artifact with the voting contract ABI ( evm only )
	ContractArtifact string `env:"CONTRACT_ARTIFACT" envDefault:"client/src/contracts/Voting.json"`

	// Contract address; for evm it overrides the artifact networks entry
	ContractAddress string `env:"CONTRACT_ADDRESS"`

	// Account calls are simulated from ( 0x... for evm, G... for soroban )
	CallerAccount string `env:"CALLER_ACCOUNT"`

	// Network passphrase ( soroban only )
	NetworkPassphrase string `env:"NETWORK_PASSPHRASE" envDefault:"Test SDF Network ; September 2015"`

	// HTTP port for the page shell and API
	HTTPPort int `env:"HTTP_PORT" envDefault:"8080"`

	// Log level: debug, info, warn, error
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// PostgreSQL URL; empty keeps probe outcomes in memory
	DatabaseURL string `env:"DATABASE_URL"`

	// Timeout of a single remote call attempt
	CallTimeout time.Duration `env:"CALL_TIMEOUT" envDefault:"10s"`

	// Interval at which the connector checks the chain identity
	WatchInterval time.Duration `env:"WATCH_INTERVAL" envDefault:"15s"`

	Retry RetryConfig
}

// RetryConfig holds retry settings for the connector's node calls
type RetryConfig struct {
	Enabled      bool          `env:"RETRY_ENABLED" envDefault:"true"`
	MaxRetries   int           `env:"RETRY_MAX_RETRIES" envDefault:"3"`
	InitialDelay time.Duration `env:"RETRY_INITIAL_DELAY" envDefault:"1s"`
	MaxDelay     time.Duration `env:"RETRY_MAX_DELAY" envDefault:"30s"`
}

// Strategy converts the settings for the retry package
func (r RetryConfig) Strategy() retry.Config {
	return retry.Config{
		Enabled:      r.Enabled,
		MaxRetries:   r.MaxRetries,
		InitialDelay: r.InitialDelay,
		MaxDelay:     r.MaxDelay,
	}
}

// Load reads .env files ( when present ) and the environment
func Load(envFiles ...string) (*Config, error) {
	// A missing .env is not an error, the environment may be set directly
	_ = godotenv.Load(envFiles...)

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.ChainKind = strings.ToLower(strings.TrimSpace(cfg.ChainKind))
	return &cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.RPCURL == "" {
		return fmt.Errorf("RPC_URL is required")
	}

	switch c.ChainKind {
	case ChainEVM:
		if c.ContractArtifact == "" {
			return fmt.Errorf("CONTRACT_ARTIFACT is required for evm")
		}
	case ChainSoroban:
		if c.ContractAddress == "" {
			return fmt.Errorf("CONTRACT_ADDRESS is required for soroban")
		}
		if c.CallerAccount == "" {
			return fmt.Errorf("CALLER_ACCOUNT is required for soroban")
		}
		if c.NetworkPassphrase == "" {
			return fmt.Errorf("NETWORK_PASSPHRASE is required for soroban")
		}
	default:
		return fmt.Errorf("unknown CHAIN_KIND %q", c.ChainKind)
	}

	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("HTTP_PORT %d is out of range", c.HTTPPort)
	}
	if c.CallTimeout < 0 {
		return fmt.Errorf("CALL_TIMEOUT must not be negative")
	}
	if c.WatchInterval <= 0 {
		return fmt.Errorf("WATCH_INTERVAL must be positive")
	}
	if c.Retry.Enabled && c.Retry.MaxRetries < 0 {
		return fmt.Errorf("RETRY_MAX_RETRIES must not be negative")
	}
	return nil
}

// SlogLevel maps LogLevel to a slog level, defaulting to info
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
