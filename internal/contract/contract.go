// Package contract describes the voting contract handle shared across the application
// and the values its read-only calls return.
package contract

import (
	"context"
	"errors"
	"fmt"
)

// Method names of the voting contract used by the session probe
const (
	MethodOpenProposalRegistration = "openProposalRegistration"
	MethodCurrentSessionStatus     = "currentSessionStatus"
)

var (
	// ErrNoCode is returned when nothing is deployed at the handle address
	ErrNoCode = errors.New("no contract code at address")

	// ErrReverted is returned when the node reports the call reverted
	ErrReverted = errors.New("contract call reverted")
)

// Handle is a capability bound to one deployed voting contract.
// Calls are read-only: they query state and never submit a transaction.
type Handle interface {
	// Address returns the contract address in the chain's native encoding
	Address() string

	// OpenProposalRegistration performs a read-only call of openProposalRegistration
	OpenProposalRegistration(ctx context.Context) (Value, error)

	// CurrentSessionStatus performs a read-only call of currentSessionStatus
	CurrentSessionStatus(ctx context.Context) (Value, error)
}

// Value is a decoded call result
type Value struct {
	Raw     any    `json:"raw,omitempty"`
	Display string `json:"display"`
}

// Empty reports whether the call returned nothing
func (v Value) Empty() bool {
	return v.Raw == nil && v.Display == ""
}

// CallError wraps a failed remote call with the method it targeted
type CallError struct {
	Method string
	Err    error
}

func (e *CallError) Error() string {
	return fmt.Sprintf("%s: %v", e.Method, e.Err)
}

func (e *CallError) Unwrap() error {
	return e.Err
}

// WrapCall returns nil for a nil err, otherwise a *CallError for method
func WrapCall(method string, err error) error {
	if err == nil {
		return nil
	}
	return &CallError{Method: method, Err: err}
}
