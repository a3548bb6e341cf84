package appstate

import (
	"context"
	"testing"
	"time"

	"dappshell/internal/contract"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubHandle struct{ address string }

func (h *stubHandle) Address() string { return h.address }
func (h *stubHandle) OpenProposalRegistration(ctx context.Context) (contract.Value, error) {
	return contract.Value{}, nil
}
func (h *stubHandle) CurrentSessionStatus(ctx context.Context) (contract.Value, error) {
	return contract.Value{}, nil
}

func TestStoreStartsAbsent(t *testing.T) {
	store := NewStore()

	state := store.Snapshot()
	assert.False(t, state.HasContract())
	assert.Zero(t, state.Generation)
}

func TestSetContractBumpsGenerationForEqualHandles(t *testing.T) {
	store := NewStore()
	handle := &stubHandle{address: "0xabc"}

	first := store.SetContract(handle, "5777", "")
	second := store.SetContract(handle, "5777", "")

	assert.Equal(t, uint64(1), first.Generation)
	assert.Equal(t, uint64(2), second.Generation)
	assert.True(t, second.HasContract())
}

func TestClearContractKeepsGeneration(t *testing.T) {
	store := NewStore()
	store.SetContract(&stubHandle{address: "0xabc"}, "5777", "0xdef")

	cleared := store.ClearContract()
	assert.False(t, cleared.HasContract())
	assert.Equal(t, uint64(1), cleared.Generation)
	assert.Empty(t, cleared.ChainID)
}

func TestSubscriptionReceivesEveryStateInOrder(t *testing.T) {
	store := NewStore()
	sub := store.Subscribe()
	defer sub.Close()

	handle := &stubHandle{address: "0xabc"}
	store.SetContract(handle, "1", "")
	store.ClearContract()
	store.SetContract(handle, "2", "")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	var got []State
	for i := 0; i < 4; i++ {
		state, err := sub.Next(ctx)
		require.NoError(t, err)
		got = append(got, state)
	}

	assert.False(t, got[0].HasContract())
	assert.Equal(t, "1", got[1].ChainID)
	assert.False(t, got[2].HasContract())
	assert.Equal(t, "2", got[3].ChainID)
	assert.Equal(t, uint64(2), got[3].Generation)
	assert.Zero(t, sub.Pending())
}

func TestSubscriptionNextHonorsContext(t *testing.T) {
	store := NewStore()
	sub := store.Subscribe()
	defer sub.Close()

	ctx := context.Background()
	_, err := sub.Next(ctx)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	_, err = sub.Next(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSubscriptionClose(t *testing.T) {
	store := NewStore()
	sub := store.Subscribe()

	done := make(chan error, 1)
	go func() {
		_, _ = sub.Next(context.Background())
		_, err := sub.Next(context.Background())
		done <- err
	}()

	time.Sleep(10 * time.Millisecond)
	sub.Close()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, ErrClosed)
	case <-time.After(time.Second):
		t.Fatal("Next did not return after Close")
	}

	// Publishing after Close must not reach the closed subscription
	store.SetContract(&stubHandle{address: "0xabc"}, "1", "")
	assert.Zero(t, sub.Pending())
}
