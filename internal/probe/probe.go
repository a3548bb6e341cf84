// Package probe runs the session probe: once the shared state carries a contract
// handle, it reads openProposalRegistration and then currentSessionStatus.
package probe

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"dappshell/internal/appstate"
	"dappshell/internal/contract"
	"dappshell/internal/models"
)

// Prober performs the two sequential read-only calls of a probe run.
// Each call is issued once; a rejected call is never re-issued.
type Prober struct {
	callTimeout time.Duration
	now         func() time.Time
}

// NewProber creates a Prober. callTimeout bounds each call, 0 disables it.
func NewProber(callTimeout time.Duration) *Prober {
	return &Prober{
		callTimeout: callTimeout,
		now:         time.Now,
	}
}

// Run probes the contract carried by state.
// It returns nil, nil when the contract is absent. Otherwise the outcome lists
// every call in issue order; the status call is only issued after the
// registration call succeeded. The returned error is the first call failure.
func (p *Prober) Run(ctx context.Context, state appstate.State) (*models.ProbeOutcome, error) {
	if !state.HasContract() {
		return nil, nil
	}
	handle := state.Contract

	outcome := &models.ProbeOutcome{
		Generation:      state.Generation,
		ContractAddress: handle.Address(),
		ChainID:         state.ChainID,
		Account:         state.Account,
		StartedAt:       p.now(),
	}
	defer func() {
		outcome.FinishedAt = p.now()
	}()

	// The registration result is not used, only its settlement matters
	record, _, err := p.invoke(ctx, contract.MethodOpenProposalRegistration, handle.OpenProposalRegistration)
	outcome.Calls = append(outcome.Calls, record)
	if err != nil {
		outcome.Calls = append(outcome.Calls, models.CallRecord{
			Method:    contract.MethodCurrentSessionStatus,
			Result:    models.CallSkipped,
			StartedAt: p.now(),
		})
		outcome.Error = err.Error()
		return outcome, fmt.Errorf("probe generation %d: %w", state.Generation, err)
	}

	record, status, err := p.invoke(ctx, contract.MethodCurrentSessionStatus, handle.CurrentSessionStatus)
	outcome.Calls = append(outcome.Calls, record)
	if err != nil {
		outcome.Error = err.Error()
		return outcome, fmt.Errorf("probe generation %d: %w", state.Generation, err)
	}

	outcome.SessionStatus = status.Display
	return outcome, nil
}

type callFunc func(ctx context.Context) (contract.Value, error)

// invoke issues one call and records its settlement
func (p *Prober) invoke(ctx context.Context, method string, call callFunc) (models.CallRecord, contract.Value, error) {
	record := models.CallRecord{
		Method:    method,
		StartedAt: p.now(),
	}

	if p.callTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.callTimeout)
		defer cancel()
	}

	value, err := call(ctx)

	record.DurationMS = p.now().Sub(record.StartedAt).Milliseconds()
	if err != nil {
		record.Result = models.CallFailed
		record.Error = err.Error()
		slog.Debug("Remote call failed", "method", method, "error", err)
		return record, contract.Value{}, err
	}

	record.Result = models.CallSucceeded
	record.Value = value.Display
	slog.Debug("Remote call settled", "method", method, "value", value.Display)
	return record, value, nil
}
