package contract

import (
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSessionStatus(t *testing.T) {
	status, err := ParseSessionStatus(3)
	require.NoError(t, err)
	assert.Equal(t, VotingSessionStarted, status)
	assert.Equal(t, "VotingSessionStarted", status.String())

	_, err = ParseSessionStatus(6)
	assert.Error(t, err)
	assert.Equal(t, "SessionStatus(9)", SessionStatus(9).String())
}

func TestStatusValue(t *testing.T) {
	tests := []struct {
		name    string
		raw     any
		display string
	}{
		{"uint8", uint8(1), "ProposalsRegistrationStarted"},
		{"uint32", uint32(5), "VotesTallied"},
		{"big int", big.NewInt(0), "RegisteringVoters"},
		{"unknown ordinal", uint64(42), "42"},
		{"huge big int", new(big.Int).Lsh(big.NewInt(1), 80), "1208925819614629174706176"},
		{"string", "open", "open"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.display, StatusValue(tt.raw).Display)
		})
	}
}

func TestCallErrorUnwrap(t *testing.T) {
	err := WrapCall(MethodCurrentSessionStatus, ErrReverted)

	var callErr *CallError
	require.ErrorAs(t, err, &callErr)
	assert.Equal(t, MethodCurrentSessionStatus, callErr.Method)
	assert.True(t, errors.Is(err, ErrReverted))
	assert.Nil(t, WrapCall(MethodCurrentSessionStatus, nil))
}
