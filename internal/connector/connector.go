// Package connector is the setup routine that populates the shared state: it
// connects to the node, binds the voting contract and rebinds it when the
// network changes or a lost connection comes back.
package connector

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"dappshell/internal/appstate"
	"dappshell/internal/contract"
	"dappshell/internal/debug"
	"dappshell/internal/metrics"
	"dappshell/internal/retry"
)

// Backend builds contract handles for one chain kind
type Backend interface {
	// ChainIdentity returns the identity of the network currently served by the node
	ChainIdentity(ctx context.Context) (string, error)

	// Bind returns a handle to the voting contract on chainID
	Bind(ctx context.Context, chainID string) (contract.Handle, error)

	// Account returns the caller account, empty when calls are anonymous
	Account() string

	Close() error
}

// Connector keeps the shared state's contract handle in sync with the node
type Connector struct {
	backend  Backend
	store    *appstate.Store
	strategy retry.Strategy
	interval time.Duration

	chainID   string
	connected bool
}

// New creates a new Connector
func New(backend Backend, store *appstate.Store, strategy retry.Strategy, interval time.Duration) *Connector {
	if strategy == nil {
		strategy = retry.NewNoRetryStrategy()
	}
	return &Connector{
		backend:  backend,
		store:    store,
		strategy: strategy,
		interval: interval,
	}
}

// Connect binds the contract once, retrying transport failures
func (c *Connector) Connect(ctx context.Context) error {
	var chainID string
	var handle contract.Handle

	err := c.strategy.Execute(ctx, "connect", func(ctx context.Context) error {
		id, err := c.backend.ChainIdentity(ctx)
		if err != nil {
			return err
		}
		h, err := c.backend.Bind(ctx, id)
		if err != nil {
			// A missing deployment does not fix itself on retry
			return retry.Permanent(err)
		}
		chainID, handle = id, h
		return nil
	})
	if err != nil {
		metrics.ErrorsTotal.WithLabelValues("connector").Inc()
		return fmt.Errorf("failed to connect: %w", err)
	}

	c.publish(chainID, handle)
	return nil
}

// Run checks the chain identity every interval until ctx is cancelled.
// The first check happens immediately.
func (c *Connector) Run(ctx context.Context) error {
	slog.Info("Connector started", "interval", c.interval)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		c.Check(ctx)

		select {
		case <-ctx.Done():
			slog.Info("Connector stopped")
			return nil
		case <-ticker.C:
		}
	}
}

// Check compares the node's chain identity with the bound one and rebinds on change.
// The connection only counts as lost once the identity poll fails through the strategy.
func (c *Connector) Check(ctx context.Context) {
	var id string
	err := c.strategy.Execute(ctx, "chain_identity", func(ctx context.Context) error {
		var err error
		id, err = c.backend.ChainIdentity(ctx)
		return err
	})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		metrics.ErrorsTotal.WithLabelValues("connector").Inc()
		if c.connected {
			slog.Warn("Lost connection to node, clearing contract handle", "error", err)
			c.connected = false
			c.clear()
		} else {
			slog.Debug("Node still unreachable", "error", err)
		}
		return
	}

	if c.connected && id == c.chainID {
		return
	}

	if c.connected {
		slog.Info("Network changed, rebinding contract", "from", c.chainID, "to", id)
	}

	handle, err := c.backend.Bind(ctx, id)
	if err != nil {
		metrics.ErrorsTotal.WithLabelValues("connector").Inc()
		slog.Error("Failed to bind voting contract", "chain_id", id, "error", err)
		if c.connected {
			c.connected = false
			c.clear()
		}
		return
	}

	c.publish(id, handle)
}

func (c *Connector) publish(chainID string, handle contract.Handle) {
	c.chainID = chainID
	c.connected = true

	state := c.store.SetContract(handle, chainID, c.backend.Account())
	metrics.Binds.Inc()
	metrics.ContractPresent.Set(1)

	slog.Info("Voting contract bound",
		"contract", handle.Address(),
		"chain_id", chainID,
		"generation", state.Generation,
	)
	view := state.View()
	debug.PrintState(&view)
}

func (c *Connector) clear() {
	state := c.store.ClearContract()
	metrics.ContractPresent.Set(0)

	view := state.View()
	debug.PrintState(&view)
}
