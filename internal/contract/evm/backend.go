package evm

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"

	"dappshell/internal/contract"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
)

// Client is the node client used by Backend
type Client interface {
	Caller
	NetworkID(ctx context.Context) (*big.Int, error)
	Close()
}

// Backend builds voting contract handles against an Ethereum node
type Backend struct {
	client   Client
	artifact *Artifact
	address  string
	from     common.Address
}

// Options configures a Backend
type Options struct {
	RPCURL string

	// ArtifactPath points at the Truffle artifact holding the ABI
	ArtifactPath string

	// Address overrides the address recorded in the artifact networks
	Address string

	// From is the account calls are simulated from
	From string
}

// Dial connects to the node at opts.RPCURL and loads the artifact
func Dial(ctx context.Context, opts Options) (*Backend, error) {
	artifact, err := LoadArtifact(opts.ArtifactPath)
	if err != nil {
		return nil, err
	}

	client, err := ethclient.DialContext(ctx, opts.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", opts.RPCURL, err)
	}

	return NewBackend(client, artifact, opts.Address, opts.From)
}

// NewBackend wraps an already connected client
func NewBackend(client Client, artifact *Artifact, address, from string) (*Backend, error) {
	if address != "" && !common.IsHexAddress(address) {
		return nil, fmt.Errorf("invalid contract address %q", address)
	}
	if from != "" && !common.IsHexAddress(from) {
		return nil, fmt.Errorf("invalid caller address %q", from)
	}
	return &Backend{
		client:   client,
		artifact: artifact,
		address:  address,
		from:     common.HexToAddress(from),
	}, nil
}

// ChainIdentity returns the network id reported by the node
func (b *Backend) ChainIdentity(ctx context.Context) (string, error) {
	id, err := b.client.NetworkID(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get network id: %w", err)
	}
	return id.String(), nil
}

// Bind resolves the contract address for chainID and returns a handle to it
func (b *Backend) Bind(ctx context.Context, chainID string) (contract.Handle, error) {
	parsed, err := b.artifact.ParsedABI()
	if err != nil {
		return nil, err
	}

	var address common.Address
	if b.address != "" {
		address = common.HexToAddress(b.address)
	} else {
		address, err = b.artifact.AddressFor(chainID)
		if err != nil {
			return nil, err
		}
	}

	slog.Debug("Binding voting contract",
		"contract", b.artifact.ContractName,
		"address", address.Hex(),
		"network_id", chainID,
	)

	handle, err := NewHandle(address, parsed, b.client, b.from)
	if err != nil {
		return nil, err
	}
	return handle, nil
}

// Account returns the caller account, empty when calls are anonymous
func (b *Backend) Account() string {
	if b.from == (common.Address{}) {
		return ""
	}
	return b.from.Hex()
}

// Close closes the node connection
func (b *Backend) Close() error {
	b.client.Close()
	return nil
}
