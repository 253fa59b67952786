package valueobjects

import (
	"fmt"
	"strings"
)

// ParticipantRole is a closed enum parsed once at the persistence boundary.
// Raw role strings from external payloads are matched case-insensitively
// here and nowhere else.
type ParticipantRole string

const (
	RoleOwner       ParticipantRole = "owner"
	RolePartner     ParticipantRole = "partner"
	RoleTrader      ParticipantRole = "trader"
	RoleObserver    ParticipantRole = "observer"
	RoleUnspecified ParticipantRole = "unspecified"
)

var validParticipantRoles = map[ParticipantRole]bool{
	RoleOwner:       true,
	RolePartner:     true,
	RoleTrader:      true,
	RoleObserver:    true,
	RoleUnspecified: true,
}

// quorumRoles is the explicit allowlist of roles whose holders must confirm
// finalization before a multi-party ticket can close. Observers never gain
// veto power.
var quorumRoles = map[ParticipantRole]bool{
	RoleOwner:       true,
	RolePartner:     true,
	RoleTrader:      true,
	RoleUnspecified: true,
}

func (r ParticipantRole) String() string {
	return string(r)
}

func (r ParticipantRole) IsValid() bool {
	return validParticipantRoles[r]
}

func (r ParticipantRole) CountsTowardQuorum() bool {
	return quorumRoles[r]
}

// NewParticipantRole parses a raw role string. Empty strings map to
// RoleUnspecified; anything outside the enum is rejected.
func NewParticipantRole(s string) (ParticipantRole, error) {
	if s == "" {
		return RoleUnspecified, nil
	}
	r := ParticipantRole(strings.ToLower(s))
	if !r.IsValid() {
		return "", fmt.Errorf("invalid participant role: %s", s)
	}
	return r, nil
}
