package models

import "time"

// CallResult is the settlement of one remote call
type CallResult string

const (
	CallSucceeded CallResult = "succeeded"
	CallFailed    CallResult = "failed"
	CallSkipped   CallResult = "skipped"
)

// CallRecord describes one remote call issued by the session probe
type CallRecord struct {
	Method     string     `json:"method"`
	Result     CallResult `json:"result"`
	Value      string     `json:"value,omitempty"`
	Error      string     `json:"error,omitempty"`
	StartedAt  time.Time  `json:"started_at"`
	DurationMS int64      `json:"duration_ms"`
}

// ProbeOutcome is the result of one session probe run
type ProbeOutcome struct {
	// Identification
	ID         int64  `json:"id,omitempty"`
	Generation uint64 `json:"generation"`

	// Contract context
	ContractAddress string `json:"contract_address"`
	ChainID         string `json:"chain_id"`
	Account         string `json:"account,omitempty"`

	// Status result, only set when both calls succeeded
	SessionStatus string `json:"session_status,omitempty"`

	// Calls in the order they were issued
	Calls []CallRecord `json:"calls"`

	// Error of the first failing call
	Error string `json:"error,omitempty"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// Succeeded reports whether every call succeeded
func (o *ProbeOutcome) Succeeded() bool {
	return o.Error == ""
}

// Duration returns the wall time of the run
func (o *ProbeOutcome) Duration() time.Duration {
	return o.FinishedAt.Sub(o.StartedAt)
}
