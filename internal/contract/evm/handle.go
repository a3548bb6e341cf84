package evm

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"dappshell/internal/contract"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
)

// Caller is the part of an Ethereum node client needed for read-only calls.
// *ethclient.Client satisfies it.
type Caller interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error)
}

// Handle is a voting contract bound to an EVM address
type Handle struct {
	address common.Address
	from    common.Address
	abi     abi.ABI
	caller  Caller
}

// NewHandle binds the ABI to address. from is the account calls are simulated from
// and may be the zero address.
func NewHandle(address common.Address, parsed abi.ABI, caller Caller, from common.Address) (*Handle, error) {
	for _, method := range []string{contract.MethodOpenProposalRegistration, contract.MethodCurrentSessionStatus} {
		if _, ok := parsed.Methods[method]; !ok {
			return nil, fmt.Errorf("abi has no method %s", method)
		}
	}
	return &Handle{
		address: address,
		from:    from,
		abi:     parsed,
		caller:  caller,
	}, nil
}

// Address returns the checksummed contract address
func (h *Handle) Address() string {
	return h.address.Hex()
}

// OpenProposalRegistration calls openProposalRegistration.
// The method returns nothing, so the Value is empty on success.
func (h *Handle) OpenProposalRegistration(ctx context.Context) (contract.Value, error) {
	out, err := h.call(ctx, contract.MethodOpenProposalRegistration)
	if err != nil {
		return contract.Value{}, err
	}
	if len(out) == 0 {
		return contract.Value{}, nil
	}
	return contract.Value{Raw: out, Display: fmt.Sprint(out...)}, nil
}

// CurrentSessionStatus calls currentSessionStatus and decodes the workflow enum
func (h *Handle) CurrentSessionStatus(ctx context.Context) (contract.Value, error) {
	out, err := h.call(ctx, contract.MethodCurrentSessionStatus)
	if err != nil {
		return contract.Value{}, err
	}
	if len(out) == 0 {
		return contract.Value{}, contract.WrapCall(contract.MethodCurrentSessionStatus, fmt.Errorf("no outputs returned"))
	}
	return contract.StatusValue(out[0]), nil
}

func (h *Handle) call(ctx context.Context, method string) ([]interface{}, error) {
	input, err := h.abi.Pack(method)
	if err != nil {
		return nil, contract.WrapCall(method, fmt.Errorf("failed to pack call: %w", err))
	}

	msg := ethereum.CallMsg{
		From: h.from,
		To:   &h.address,
		Data: input,
	}

	output, err := h.caller.CallContract(ctx, msg, nil)
	if err != nil {
		if reason, ok := revertReason(err); ok {
			if reason == "" {
				reason = err.Error()
			}
			return nil, contract.WrapCall(method, fmt.Errorf("%w: %s", contract.ErrReverted, reason))
		}
		return nil, contract.WrapCall(method, err)
	}

	if len(output) == 0 && len(h.abi.Methods[method].Outputs) > 0 {
		code, err := h.caller.CodeAt(ctx, h.address, nil)
		if err != nil {
			return nil, contract.WrapCall(method, err)
		}
		if len(code) == 0 {
			return nil, contract.WrapCall(method, contract.ErrNoCode)
		}
		return nil, contract.WrapCall(method, fmt.Errorf("empty return data"))
	}

	values, err := h.abi.Unpack(method, output)
	if err != nil {
		return nil, contract.WrapCall(method, fmt.Errorf("failed to unpack result: %w", err))
	}
	return values, nil
}

// revertReason reports whether err is a revert. The reason is decoded from the
// JSON-RPC error data when the node sends an Error(string) payload.
func revertReason(err error) (string, bool) {
	var dataErr rpc.DataError
	if errors.As(err, &dataErr) {
		if hexData, ok := dataErr.ErrorData().(string); ok {
			data, decodeErr := hexutil.Decode(hexData)
			if decodeErr == nil {
				if reason, unpackErr := abi.UnpackRevert(data); unpackErr == nil {
					return reason, true
				}
			}
			return "", true
		}
	}

	// Nodes that do not return error data
	return "", strings.Contains(strings.ToLower(err.Error()), "execution reverted")
}
