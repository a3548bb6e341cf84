package debug

import (
	"encoding/json"
	"log/slog"

	"dappshell/internal/models"
)

// PrintProbeOutcome prints the probe outcome in JSON format
func PrintProbeOutcome(outcome *models.ProbeOutcome) {
	jsonData, err := json.MarshalIndent(outcome, "", "  ")
	if err != nil {
		slog.Error("Failed to marshal probe outcome to JSON", "error", err)
		return
	}

	slog.Debug("Probe outcome details", "json", string(jsonData))
}

// PrintState prints the shared state projection in JSON format
func PrintState(state *models.StateView) {
	jsonData, err := json.Marshal(state)
	if err != nil {
		slog.Error("Failed to marshal state to JSON", "error", err)
		return
	}

	slog.Debug("Shared state details", "json", string(jsonData))
}
