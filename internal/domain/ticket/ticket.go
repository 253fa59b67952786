// Package ticket holds the ticket aggregate: an open mediation case between
// an owner and zero or more participants, backed by a chat channel.
package ticket

import (
	"fmt"
	"time"

	vo "tradedesk/internal/domain/ticket/valueobjects"
)

type Ticket struct {
	id          uint
	guildID     string
	channelID   string
	ownerID     uint
	ticketType  vo.TicketType
	status      vo.TicketStatus
	middlemanID *uint
	createdAt   time.Time
	updatedAt   time.Time
	closedAt    *time.Time
}

func NewTicket(guildID string, ownerID uint, ticketType vo.TicketType) (*Ticket, error) {
	if guildID == "" {
		return nil, fmt.Errorf("guild ID is required")
	}
	if ownerID == 0 {
		return nil, fmt.Errorf("owner ID is required")
	}
	if !ticketType.IsValid() {
		return nil, fmt.Errorf("invalid ticket type")
	}

	now := time.Now().UTC()

	return &Ticket{
		guildID:    guildID,
		ownerID:    ownerID,
		ticketType: ticketType,
		status:     vo.StatusOpen,
		createdAt:  now,
		updatedAt:  now,
	}, nil
}

func ReconstructTicket(
	id uint,
	guildID string,
	channelID string,
	ownerID uint,
	ticketType vo.TicketType,
	status vo.TicketStatus,
	middlemanID *uint,
	createdAt, updatedAt time.Time,
	closedAt *time.Time,
) (*Ticket, error) {
	if id == 0 {
		return nil, fmt.Errorf("ticket ID cannot be zero")
	}
	if ownerID == 0 {
		return nil, fmt.Errorf("owner ID is required")
	}
	if !ticketType.IsValid() {
		return nil, fmt.Errorf("invalid ticket type")
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid status")
	}

	return &Ticket{
		id:          id,
		guildID:     guildID,
		channelID:   channelID,
		ownerID:     ownerID,
		ticketType:  ticketType,
		status:      status,
		middlemanID: middlemanID,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
		closedAt:    closedAt,
	}, nil
}

func (t *Ticket) ID() uint {
	return t.id
}

func (t *Ticket) GuildID() string {
	return t.guildID
}

func (t *Ticket) ChannelID() string {
	return t.channelID
}

func (t *Ticket) OwnerID() uint {
	return t.ownerID
}

func (t *Ticket) Type() vo.TicketType {
	return t.ticketType
}

func (t *Ticket) Status() vo.TicketStatus {
	return t.status
}

func (t *Ticket) MiddlemanID() *uint {
	return t.middlemanID
}

func (t *Ticket) CreatedAt() time.Time {
	return t.createdAt
}

func (t *Ticket) UpdatedAt() time.Time {
	return t.updatedAt
}

func (t *Ticket) ClosedAt() *time.Time {
	return t.closedAt
}

func (t *Ticket) IsClosed() bool {
	return t.status.IsClosed()
}

func (t *Ticket) SetID(id uint) error {
	if t.id != 0 {
		return fmt.Errorf("ticket ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("ticket ID cannot be zero")
	}
	t.id = id
	return nil
}

// AttachChannel records the chat channel created for this ticket.
func (t *Ticket) AttachChannel(channelID string) error {
	if channelID == "" {
		return fmt.Errorf("channel ID cannot be empty")
	}
	t.channelID = channelID
	t.updatedAt = time.Now().UTC()
	return nil
}

// Claim transitions the ticket to claimed and records the middleman. Only an
// open ticket may be claimed; claim exclusivity itself is enforced by the
// claim aggregate's uniqueness constraint.
func (t *Ticket) Claim(middlemanID uint) error {
	if middlemanID == 0 {
		return fmt.Errorf("middleman ID cannot be zero")
	}
	if !t.status.CanTransitionTo(vo.StatusClaimed) {
		return fmt.Errorf("cannot claim ticket with status %s", t.status)
	}

	t.status = vo.StatusClaimed
	t.middlemanID = &middlemanID
	t.updatedAt = time.Now().UTC()
	return nil
}

// MarkConfirmed transitions the ticket to confirmed once every trade on it
// has been individually confirmed.
func (t *Ticket) MarkConfirmed() error {
	if !t.status.CanTransitionTo(vo.StatusConfirmed) {
		return fmt.Errorf("cannot confirm ticket with status %s", t.status)
	}

	t.status = vo.StatusConfirmed
	t.updatedAt = time.Now().UTC()
	return nil
}

// RevertToClaimed drops a confirmed ticket back to claimed after a party
// edits previously confirmed trade data.
func (t *Ticket) RevertToClaimed() error {
	if !t.status.IsConfirmed() {
		return fmt.Errorf("only confirmed tickets can revert to claimed, status is %s", t.status)
	}

	t.status = vo.StatusClaimed
	t.updatedAt = time.Now().UTC()
	return nil
}

// Close transitions the ticket to its terminal state. Any operation against
// a closed ticket fails.
func (t *Ticket) Close() error {
	if t.status.IsClosed() {
		return fmt.Errorf("ticket closed")
	}
	if !t.status.CanTransitionTo(vo.StatusClosed) {
		return fmt.Errorf("cannot close ticket with status %s", t.status)
	}

	now := time.Now().UTC()
	t.status = vo.StatusClosed
	t.closedAt = &now
	t.updatedAt = now
	return nil
}

// IsClaimedBy reports whether the given middleman currently holds the claim.
func (t *Ticket) IsClaimedBy(middlemanID uint) bool {
	return t.middlemanID != nil && *t.middlemanID == middlemanID
}
