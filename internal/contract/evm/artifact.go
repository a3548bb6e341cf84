package evm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// Artifact is the build output of a Truffle compilation: the ABI plus the
// address the contract was deployed at on each network.
type Artifact struct {
	ContractName string                     `json:"contractName"`
	ABI          json.RawMessage            `json:"abi"`
	Networks     map[string]NetworkDeployed `json:"networks"`
}

// NetworkDeployed is the deployment record of one network
type NetworkDeployed struct {
	Address         string `json:"address"`
	TransactionHash string `json:"transactionHash,omitempty"`
}

// LoadArtifact reads an artifact JSON file
func LoadArtifact(path string) (*Artifact, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open artifact: %w", err)
	}
	defer f.Close()

	return ParseArtifact(f)
}

// ParseArtifact decodes an artifact and checks it carries an ABI
func ParseArtifact(r io.Reader) (*Artifact, error) {
	var artifact Artifact
	if err := json.NewDecoder(r).Decode(&artifact); err != nil {
		return nil, fmt.Errorf("failed to decode artifact: %w", err)
	}
	if len(artifact.ABI) == 0 {
		return nil, fmt.Errorf("artifact %q has no abi", artifact.ContractName)
	}
	return &artifact, nil
}

// ParsedABI returns the go-ethereum ABI of the artifact
func (a *Artifact) ParsedABI() (abi.ABI, error) {
	parsed, err := abi.JSON(bytes.NewReader(a.ABI))
	if err != nil {
		return abi.ABI{}, fmt.Errorf("failed to parse abi of %q: %w", a.ContractName, err)
	}
	return parsed, nil
}

// AddressFor returns the deployed address recorded for networkID
func (a *Artifact) AddressFor(networkID string) (common.Address, error) {
	deployed, ok := a.Networks[networkID]
	if !ok {
		return common.Address{}, fmt.Errorf("%q is not deployed on network %s", a.ContractName, networkID)
	}
	if !common.IsHexAddress(deployed.Address) {
		return common.Address{}, fmt.Errorf("invalid address %q for network %s", deployed.Address, networkID)
	}
	return common.HexToAddress(deployed.Address), nil
}
