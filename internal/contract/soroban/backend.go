package soroban

import (
	"context"
	"fmt"
	"net/http"

	"dappshell/internal/contract"

	rpcclient "github.com/stellar/go/clients/rpcclient"
	protocol "github.com/stellar/go/protocols/rpc"
)

// RPC is the Stellar RPC surface used by Backend
type RPC interface {
	Simulator
	GetHealth(ctx context.Context) (protocol.GetHealthResponse, error)
}

// Backend builds voting contract handles against a Stellar RPC server
type Backend struct {
	rpc               RPC
	contractID        string
	source            string
	networkPassphrase string
}

// Options configures a Backend
type Options struct {
	RPCURL            string
	ContractID        string
	SourceAccount     string
	NetworkPassphrase string
}

// Dial creates an RPC client for opts.RPCURL
func Dial(opts Options) (*Backend, error) {
	if opts.RPCURL == "" {
		return nil, fmt.Errorf("rpc url is required")
	}
	client := rpcclient.NewClient(opts.RPCURL, &http.Client{})
	return NewBackend(client, opts), nil
}

// NewBackend wraps an existing RPC client
func NewBackend(rpc RPC, opts Options) *Backend {
	return &Backend{
		rpc:               rpc,
		contractID:        opts.ContractID,
		source:            opts.SourceAccount,
		networkPassphrase: opts.NetworkPassphrase,
	}
}

// ChainIdentity checks the server is healthy and returns the configured passphrase
func (b *Backend) ChainIdentity(ctx context.Context) (string, error) {
	health, err := b.rpc.GetHealth(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get health from RPC: %w", err)
	}
	if health.Status != "" && health.Status != "healthy" {
		return "", fmt.Errorf("rpc server is %s", health.Status)
	}
	return b.networkPassphrase, nil
}

// Bind returns a handle to the configured contract
func (b *Backend) Bind(ctx context.Context, chainID string) (contract.Handle, error) {
	handle, err := NewHandle(b.contractID, b.source, b.rpc)
	if err != nil {
		return nil, err
	}
	return handle, nil
}

// Account returns the source account simulations are built for
func (b *Backend) Account() string {
	return b.source
}

// Close is a no-op, the RPC client holds no connection of its own
func (b *Backend) Close() error {
	return nil
}
