package probe

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"dappshell/internal/appstate"
	"dappshell/internal/config"
	"dappshell/internal/contract"
	"dappshell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingHandle records calls into a shared log
type recordingHandle struct {
	address string

	mu    sync.Mutex
	calls []string

	// release, when set, holds the registration call until closed
	release      chan struct{}
	registration chan struct{}
	registerErr  error
	statusErr    error
	status       contract.Value
}

func newRecordingHandle(address string) *recordingHandle {
	return &recordingHandle{
		address:      address,
		registration: make(chan struct{}, 16),
		status:       contract.StatusValue(uint8(contract.ProposalsRegistrationStarted)),
	}
}

func (h *recordingHandle) Address() string { return h.address }

func (h *recordingHandle) OpenProposalRegistration(ctx context.Context) (contract.Value, error) {
	h.record(contract.MethodOpenProposalRegistration)
	h.registration <- struct{}{}
	if h.release != nil {
		select {
		case <-h.release:
		case <-ctx.Done():
			return contract.Value{}, ctx.Err()
		}
	}
	return contract.Value{}, h.registerErr
}

func (h *recordingHandle) CurrentSessionStatus(ctx context.Context) (contract.Value, error) {
	h.record(contract.MethodCurrentSessionStatus)
	if h.statusErr != nil {
		return contract.Value{}, h.statusErr
	}
	return h.status, nil
}

func (h *recordingHandle) record(method string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls = append(h.calls, method)
}

func (h *recordingHandle) Calls() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.calls...)
}

func TestProberAbsentContractIssuesNoCalls(t *testing.T) {
	prober := NewProber(time.Second)

	outcome, err := prober.Run(context.Background(), appstate.State{})
	assert.NoError(t, err)
	assert.Nil(t, outcome)
}

func TestProberCallsInOrder(t *testing.T) {
	handle := newRecordingHandle("0xabc")
	prober := NewProber(time.Second)

	outcome, err := prober.Run(context.Background(), appstate.State{
		Contract:   handle,
		ChainID:    "5777",
		Generation: 1,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{
		contract.MethodOpenProposalRegistration,
		contract.MethodCurrentSessionStatus,
	}, handle.Calls())

	assert.True(t, outcome.Succeeded())
	assert.Equal(t, "ProposalsRegistrationStarted", outcome.SessionStatus)
	assert.Equal(t, "0xabc", outcome.ContractAddress)
	assert.Equal(t, uint64(1), outcome.Generation)
	require.Len(t, outcome.Calls, 2)
	assert.Equal(t, models.CallSucceeded, outcome.Calls[0].Result)
	assert.Equal(t, models.CallSucceeded, outcome.Calls[1].Result)
	assert.False(t, outcome.FinishedAt.Before(outcome.StartedAt))
}

func TestProberStatusWaitsForRegistration(t *testing.T) {
	handle := newRecordingHandle("0xabc")
	handle.release = make(chan struct{})
	prober := NewProber(0)

	done := make(chan *models.ProbeOutcome, 1)
	go func() {
		outcome, _ := prober.Run(context.Background(), appstate.State{Contract: handle, Generation: 1})
		done <- outcome
	}()

	<-handle.registration
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, []string{contract.MethodOpenProposalRegistration}, handle.Calls(),
		"status must not be issued while registration is pending")

	close(handle.release)
	outcome := <-done
	require.NotNil(t, outcome)
	assert.Equal(t, []string{
		contract.MethodOpenProposalRegistration,
		contract.MethodCurrentSessionStatus,
	}, handle.Calls())
}

func TestProberRegistrationFailureSkipsStatus(t *testing.T) {
	handle := newRecordingHandle("0xabc")
	handle.registerErr = contract.WrapCall(contract.MethodOpenProposalRegistration, contract.ErrReverted)
	prober := NewProber(time.Second)

	outcome, err := prober.Run(context.Background(), appstate.State{Contract: handle, Generation: 3})
	require.Error(t, err)
	assert.ErrorIs(t, err, contract.ErrReverted)

	assert.Equal(t, []string{contract.MethodOpenProposalRegistration}, handle.Calls())
	require.NotNil(t, outcome)
	assert.False(t, outcome.Succeeded())
	assert.Empty(t, outcome.SessionStatus)
	require.Len(t, outcome.Calls, 2)
	assert.Equal(t, models.CallFailed, outcome.Calls[0].Result)
	assert.Equal(t, models.CallSkipped, outcome.Calls[1].Result)
}

func TestProberStatusFailure(t *testing.T) {
	handle := newRecordingHandle("0xabc")
	handle.statusErr = errors.New("malformed response")
	prober := NewProber(time.Second)

	outcome, err := prober.Run(context.Background(), appstate.State{Contract: handle, Generation: 1})
	require.Error(t, err)
	require.Len(t, outcome.Calls, 2)
	assert.Equal(t, models.CallSucceeded, outcome.Calls[0].Result)
	assert.Equal(t, models.CallFailed, outcome.Calls[1].Result)
	assert.Contains(t, outcome.Error, "malformed response")
}

// flakyHandle fails the first registration attempts with a transport error
type flakyHandle struct {
	*recordingHandle
	failures int
}

func (h *flakyHandle) OpenProposalRegistration(ctx context.Context) (contract.Value, error) {
	h.record(contract.MethodOpenProposalRegistration)
	if h.failures > 0 {
		h.failures--
		return contract.Value{}, errors.New("dial tcp 127.0.0.1:8545: connection refused")
	}
	return contract.Value{}, nil
}

func TestProberDoesNotReissueRejectedRegistration(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	handle := &flakyHandle{recordingHandle: newRecordingHandle("0xabc"), failures: 1}
	prober := NewProber(cfg.CallTimeout)

	outcome, err := prober.Run(context.Background(), appstate.State{Contract: handle, Generation: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")

	assert.Equal(t, []string{contract.MethodOpenProposalRegistration}, handle.Calls())
	require.Len(t, outcome.Calls, 2)
	assert.Equal(t, models.CallFailed, outcome.Calls[0].Result)
	assert.Equal(t, models.CallSkipped, outcome.Calls[1].Result)
	assert.Empty(t, outcome.SessionStatus)
}

func TestProberCancellationAbortsInFlightCall(t *testing.T) {
	handle := newRecordingHandle("0xabc")
	handle.release = make(chan struct{})
	prober := NewProber(0)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-handle.registration
		cancel()
	}()

	outcome, err := prober.Run(ctx, appstate.State{Contract: handle, Generation: 1})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{contract.MethodOpenProposalRegistration}, handle.Calls())
	assert.Equal(t, models.CallSkipped, outcome.Calls[1].Result)
}
