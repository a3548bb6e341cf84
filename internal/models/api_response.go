package models

// ProbeListResponse is a page of probe outcomes, newest first
type ProbeListResponse struct {
	Probes []*ProbeOutcome `json:"probes"`
	Count  int             `json:"count"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}

// HealthResponse reports process and dependency health
type HealthResponse struct {
	Status          string `json:"status"`
	Service         string `json:"service"`
	Storage         string `json:"storage"`
	ContractPresent bool   `json:"contract_present"`
}

// ErrorResponse represents an API error
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code"`
}
