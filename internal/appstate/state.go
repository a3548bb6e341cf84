// Package appstate holds the application state shared by the page shell, the
// connector that populates it and the session probe that reacts to it.
package appstate

import (
	"log/slog"
	"sync"
	"time"

	"dappshell/internal/contract"
	"dappshell/internal/models"
)

// State is one published value of the shared state
type State struct {
	// Contract is nil until the connector binds the voting contract
	Contract contract.Handle

	// ChainID identifies the network the handle was bound on
	ChainID string

	// Account is the caller account, empty for anonymous calls
	Account string

	// Generation increases on every SetContract, equal handles included
	Generation uint64

	UpdatedAt time.Time
}

// HasContract reports whether the contract handle is present
func (s State) HasContract() bool {
	return s.Contract != nil
}

// View returns the JSON projection of the state
func (s State) View() models.StateView {
	v := models.StateView{
		ContractPresent: s.HasContract(),
		ChainID:         s.ChainID,
		Account:         s.Account,
		Generation:      s.Generation,
		UpdatedAt:       s.UpdatedAt,
	}
	if s.HasContract() {
		v.ContractAddress = s.Contract.Address()
	}
	return v
}

// Store owns the shared state and fans every change out to subscribers
type Store struct {
	mu          sync.RWMutex
	state       State
	subscribers map[*Subscription]struct{}
	now         func() time.Time
}

// NewStore creates a Store with the contract absent
func NewStore() *Store {
	return &Store{
		subscribers: make(map[*Subscription]struct{}),
		now:         time.Now,
	}
}

// Snapshot returns the current state
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// SetContract publishes h as the current contract handle
func (s *Store) SetContract(h contract.Handle, chainID, account string) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = State{
		Contract:   h,
		ChainID:    chainID,
		Account:    account,
		Generation: s.state.Generation + 1,
		UpdatedAt:  s.now(),
	}

	address := ""
	if h != nil {
		address = h.Address()
	}
	slog.Debug("Shared state updated",
		"generation", s.state.Generation,
		"chain_id", chainID,
		"contract", address,
	)

	s.publishLocked()
	return s.state
}

// ClearContract publishes an absent contract. The generation is kept.
func (s *Store) ClearContract() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Contract == nil {
		return s.state
	}

	s.state = State{
		Generation: s.state.Generation,
		UpdatedAt:  s.now(),
	}
	slog.Debug("Shared state cleared", "generation", s.state.Generation)

	s.publishLocked()
	return s.state
}

// Subscribe registers a subscription starting with the current state
func (s *Store) Subscribe() *Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub := newSubscription(s)
	sub.push(s.state)
	s.subscribers[sub] = struct{}{}
	return sub
}

func (s *Store) unsubscribe(sub *Subscription) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subscribers, sub)
}

func (s *Store) publishLocked() {
	for sub := range s.subscribers {
		sub.push(s.state)
	}
}
