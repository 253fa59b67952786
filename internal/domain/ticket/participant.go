package ticket

import (
	"fmt"
	"time"

	vo "tradedesk/internal/domain/ticket/valueobjects"
)

// Participant is a user recorded on a ticket. Whether a participant counts
// toward the finalization quorum depends on their role allowlist.
type Participant struct {
	ticketID uint
	userID   uint
	role     vo.ParticipantRole
	joinedAt time.Time
}

func NewParticipant(ticketID, userID uint, role vo.ParticipantRole) (*Participant, error) {
	if ticketID == 0 {
		return nil, fmt.Errorf("ticket ID is required")
	}
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if !role.IsValid() {
		return nil, fmt.Errorf("invalid participant role")
	}

	return &Participant{
		ticketID: ticketID,
		userID:   userID,
		role:     role,
		joinedAt: time.Now().UTC(),
	}, nil
}

func ReconstructParticipant(ticketID, userID uint, role vo.ParticipantRole, joinedAt time.Time) (*Participant, error) {
	if ticketID == 0 {
		return nil, fmt.Errorf("ticket ID is required")
	}
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if !role.IsValid() {
		return nil, fmt.Errorf("invalid participant role")
	}

	return &Participant{
		ticketID: ticketID,
		userID:   userID,
		role:     role,
		joinedAt: joinedAt,
	}, nil
}

func (p *Participant) TicketID() uint {
	return p.ticketID
}

func (p *Participant) UserID() uint {
	return p.userID
}

func (p *Participant) Role() vo.ParticipantRole {
	return p.role
}

func (p *Participant) JoinedAt() time.Time {
	return p.joinedAt
}

func (p *Participant) CountsTowardQuorum() bool {
	return p.role.CountsTowardQuorum()
}
