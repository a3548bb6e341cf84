package models

import "time"

// StateView is the JSON projection of the shared state
type StateView struct {
	ContractPresent bool      `json:"contract_present"`
	ContractAddress string    `json:"contract_address,omitempty"`
	ChainID         string    `json:"chain_id,omitempty"`
	Account         string    `json:"account,omitempty"`
	Generation      uint64    `json:"generation"`
	UpdatedAt       time.Time `json:"updated_at,omitempty"`
}
