package contract

import (
	"fmt"
	"math/big"
)

// SessionStatus is the workflow stage reported by currentSessionStatus
type SessionStatus uint8

const (
	RegisteringVoters SessionStatus = iota
	ProposalsRegistrationStarted
	ProposalsRegistrationEnded
	VotingSessionStarted
	VotingSessionEnded
	VotesTallied
)

var sessionStatusNames = [...]string{
	"RegisteringVoters",
	"ProposalsRegistrationStarted",
	"ProposalsRegistrationEnded",
	"VotingSessionStarted",
	"VotingSessionEnded",
	"VotesTallied",
}

func (s SessionStatus) String() string {
	if int(s) < len(sessionStatusNames) {
		return sessionStatusNames[s]
	}
	return fmt.Sprintf("SessionStatus(%d)", uint8(s))
}

// ParseSessionStatus maps a raw enum ordinal to a SessionStatus
func ParseSessionStatus(raw uint64) (SessionStatus, error) {
	if raw >= uint64(len(sessionStatusNames)) {
		return 0, fmt.Errorf("unknown session status %d", raw)
	}
	return SessionStatus(raw), nil
}

// StatusValue builds the Value for a raw status ordinal.
// Unknown ordinals are kept as-is so the diagnostic output still shows them.
func StatusValue(raw any) Value {
	var ordinal uint64
	switch v := raw.(type) {
	case uint8:
		ordinal = uint64(v)
	case uint32:
		ordinal = uint64(v)
	case uint64:
		ordinal = v
	case *big.Int:
		if !v.IsUint64() {
			return Value{Raw: raw, Display: v.String()}
		}
		ordinal = v.Uint64()
	default:
		return Value{Raw: raw, Display: fmt.Sprint(raw)}
	}

	status, err := ParseSessionStatus(ordinal)
	if err != nil {
		return Value{Raw: ordinal, Display: fmt.Sprint(ordinal)}
	}
	return Value{Raw: ordinal, Display: status.String()}
}
