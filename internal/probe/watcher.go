package probe

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"dappshell/internal/appstate"
	"dappshell/internal/models"
)

// Dispatcher receives every probe outcome
type Dispatcher interface {
	Dispatch(ctx context.Context, outcome *models.ProbeOutcome) error
}

// Watcher runs a probe each time the shared state publishes a new contract
// handle. Runs are serialized: a handle published while a run is in flight is
// probed after it finishes.
type Watcher struct {
	store           *appstate.Store
	prober          *Prober
	dispatcher      Dispatcher
	dispatchTimeout time.Duration
}

// NewWatcher creates a Watcher
func NewWatcher(store *appstate.Store, prober *Prober, dispatcher Dispatcher) *Watcher {
	return &Watcher{
		store:           store,
		prober:          prober,
		dispatcher:      dispatcher,
		dispatchTimeout: 10 * time.Second,
	}
}

// Run consumes state changes until ctx is cancelled
func (w *Watcher) Run(ctx context.Context) error {
	sub := w.store.Subscribe()
	defer sub.Close()

	slog.Info("Session probe watching shared state")

	var lastGeneration uint64
	for {
		state, err := sub.Next(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, appstate.ErrClosed) {
				slog.Info("Session probe stopped")
				return nil
			}
			return err
		}

		if !state.HasContract() {
			slog.Debug("Contract handle absent, nothing to probe", "generation", state.Generation)
			continue
		}
		if state.Generation == lastGeneration {
			continue
		}
		lastGeneration = state.Generation

		w.probe(ctx, state)
	}
}

func (w *Watcher) probe(ctx context.Context, state appstate.State) {
	outcome, err := w.prober.Run(ctx, state)
	if err != nil {
		slog.Warn("Session probe failed",
			"generation", state.Generation,
			"contract", state.Contract.Address(),
			"error", err,
		)
	}
	if outcome == nil {
		return
	}

	// Outcomes of a run cut short by shutdown are still recorded
	dispatchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), w.dispatchTimeout)
	defer cancel()

	if err := w.dispatcher.Dispatch(dispatchCtx, outcome); err != nil {
		slog.Error("Failed to dispatch probe outcome",
			"generation", outcome.Generation,
			"error", err,
		)
	}
}
