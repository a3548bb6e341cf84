// Package soroban binds the voting contract on a Soroban network. Read-only calls
// are served by simulating an InvokeHostFunction transaction through Stellar RPC.
package soroban

import (
	"context"
	"fmt"

	"dappshell/internal/contract"

	protocol "github.com/stellar/go/protocols/rpc"
	"github.com/stellar/go/strkey"
	"github.com/stellar/go/txnbuild"
	"github.com/stellar/go/xdr"
)

// Simulator is the part of the Stellar RPC client needed for read-only calls.
// *rpcclient.Client satisfies it.
type Simulator interface {
	SimulateTransaction(ctx context.Context, request protocol.SimulateTransactionRequest) (protocol.SimulateTransactionResponse, error)
}

// Handle is a voting contract bound to a Soroban contract ID
type Handle struct {
	contractID string
	address    xdr.ScAddress
	source     string
	sim        Simulator
}

// NewHandle binds contractID (C...). source is the G... account the simulated
// transaction is built for; it never needs to sign anything.
func NewHandle(contractID, source string, sim Simulator) (*Handle, error) {
	address, err := contractAddress(contractID)
	if err != nil {
		return nil, err
	}
	if !strkey.IsValidEd25519PublicKey(source) {
		return nil, fmt.Errorf("invalid source account %q", source)
	}
	return &Handle{
		contractID: contractID,
		address:    address,
		source:     source,
		sim:        sim,
	}, nil
}

// contractAddress decodes a contract strkey into an ScAddress
func contractAddress(contractID string) (xdr.ScAddress, error) {
	raw, err := strkey.Decode(strkey.VersionByteContract, contractID)
	if err != nil {
		return xdr.ScAddress{}, fmt.Errorf("invalid contract id %q: %w", contractID, err)
	}

	var id xdr.ContractId
	if len(raw) != len(id) {
		return xdr.ScAddress{}, fmt.Errorf("invalid contract id %q: %d bytes", contractID, len(raw))
	}
	copy(id[:], raw)

	return xdr.ScAddress{
		Type:       xdr.ScAddressTypeScAddressTypeContract,
		ContractId: &id,
	}, nil
}

// Address returns the contract strkey
func (h *Handle) Address() string {
	return h.contractID
}

// OpenProposalRegistration simulates open_proposal_registration
func (h *Handle) OpenProposalRegistration(ctx context.Context) (contract.Value, error) {
	val, err := h.call(ctx, contract.MethodOpenProposalRegistration)
	if err != nil {
		return contract.Value{}, err
	}
	return scValToValue(val), nil
}

// CurrentSessionStatus simulates current_session_status and decodes the workflow stage
func (h *Handle) CurrentSessionStatus(ctx context.Context) (contract.Value, error) {
	val, err := h.call(ctx, contract.MethodCurrentSessionStatus)
	if err != nil {
		return contract.Value{}, err
	}

	switch val.Type {
	case xdr.ScValTypeScvU32:
		return contract.StatusValue(uint32(val.MustU32())), nil
	case xdr.ScValTypeScvVec:
		// #[contracttype] unit enums arrive as a single symbol vector
		if vec := val.MustVec(); vec != nil && len(*vec) == 1 && (*vec)[0].Type == xdr.ScValTypeScvSymbol {
			name := string((*vec)[0].MustSym())
			return contract.Value{Raw: name, Display: name}, nil
		}
	case xdr.ScValTypeScvVoid:
		return contract.Value{}, contract.WrapCall(contract.MethodCurrentSessionStatus, fmt.Errorf("no value returned"))
	}
	return scValToValue(val), nil
}

func (h *Handle) call(ctx context.Context, method string) (xdr.ScVal, error) {
	envelope, err := h.buildInvocation(FunctionName(method))
	if err != nil {
		return xdr.ScVal{}, contract.WrapCall(method, err)
	}

	resp, err := h.sim.SimulateTransaction(ctx, protocol.SimulateTransactionRequest{
		Transaction: envelope,
	})
	if err != nil {
		return xdr.ScVal{}, contract.WrapCall(method, err)
	}
	if resp.Error != "" {
		return xdr.ScVal{}, contract.WrapCall(method, fmt.Errorf("%w: %s", contract.ErrReverted, resp.Error))
	}
	if len(resp.Results) == 0 || resp.Results[0].ReturnValueXDR == nil {
		return xdr.ScVal{Type: xdr.ScValTypeScvVoid}, nil
	}

	var val xdr.ScVal
	if err := xdr.SafeUnmarshalBase64(*resp.Results[0].ReturnValueXDR, &val); err != nil {
		return xdr.ScVal{}, contract.WrapCall(method, fmt.Errorf("failed to decode return value: %w", err))
	}
	return val, nil
}

// buildInvocation returns the base64 envelope invoking fn without arguments
func (h *Handle) buildInvocation(fn string) (string, error) {
	op := &txnbuild.InvokeHostFunction{
		HostFunction: xdr.HostFunction{
			Type: xdr.HostFunctionTypeHostFunctionTypeInvokeContract,
			InvokeContract: &xdr.InvokeContractArgs{
				ContractAddress: h.address,
				FunctionName:    xdr.ScSymbol(fn),
				Args:            []xdr.ScVal{},
			},
		},
		SourceAccount: h.source,
	}

	tx, err := txnbuild.NewTransaction(txnbuild.TransactionParams{
		SourceAccount:        &txnbuild.SimpleAccount{AccountID: h.source, Sequence: 0},
		IncrementSequenceNum: true,
		Operations:           []txnbuild.Operation{op},
		BaseFee:              txnbuild.MinBaseFee,
		Preconditions:        txnbuild.Preconditions{TimeBounds: txnbuild.NewInfiniteTimeout()},
	})
	if err != nil {
		return "", fmt.Errorf("failed to build invocation: %w", err)
	}

	envelope, err := tx.Base64()
	if err != nil {
		return "", fmt.Errorf("failed to encode invocation: %w", err)
	}
	return envelope, nil
}
