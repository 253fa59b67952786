// Package claim records which single middleman owns a ticket, plus terminal
// close metadata. Claim exclusivity is the system's only point of mutual
// exclusion; the persistence layer's per-ticket uniqueness constraint is the
// authority.
package claim

import (
	"fmt"
	"time"
)

type Claim struct {
	ticketID              uint
	middlemanID           uint
	claimedAt             time.Time
	closedAt              *time.Time
	forcedClose           bool
	panelMessageID        *string
	finalizationMessageID *string
	reviewRequestedAt     *time.Time
}

func NewClaim(ticketID, middlemanID uint) (*Claim, error) {
	if ticketID == 0 {
		return nil, fmt.Errorf("ticket ID is required")
	}
	if middlemanID == 0 {
		return nil, fmt.Errorf("middleman ID is required")
	}

	return &Claim{
		ticketID:    ticketID,
		middlemanID: middlemanID,
		claimedAt:   time.Now().UTC(),
	}, nil
}

func ReconstructClaim(
	ticketID uint,
	middlemanID uint,
	claimedAt time.Time,
	closedAt *time.Time,
	forcedClose bool,
	panelMessageID *string,
	finalizationMessageID *string,
	reviewRequestedAt *time.Time,
) (*Claim, error) {
	if ticketID == 0 {
		return nil, fmt.Errorf("ticket ID is required")
	}
	if middlemanID == 0 {
		return nil, fmt.Errorf("middleman ID is required")
	}

	return &Claim{
		ticketID:              ticketID,
		middlemanID:           middlemanID,
		claimedAt:             claimedAt,
		closedAt:              closedAt,
		forcedClose:           forcedClose,
		panelMessageID:        panelMessageID,
		finalizationMessageID: finalizationMessageID,
		reviewRequestedAt:     reviewRequestedAt,
	}, nil
}

func (c *Claim) TicketID() uint {
	return c.ticketID
}

func (c *Claim) MiddlemanID() uint {
	return c.middlemanID
}

func (c *Claim) ClaimedAt() time.Time {
	return c.claimedAt
}

func (c *Claim) ClosedAt() *time.Time {
	return c.closedAt
}

func (c *Claim) ForcedClose() bool {
	return c.forcedClose
}

func (c *Claim) PanelMessageID() *string {
	return c.panelMessageID
}

func (c *Claim) FinalizationMessageID() *string {
	return c.finalizationMessageID
}

func (c *Claim) ReviewRequestedAt() *time.Time {
	return c.reviewRequestedAt
}

func (c *Claim) IsClosed() bool {
	return c.closedAt != nil
}

// MarkClosed stamps the claim with the terminal close time. Re-closing a
// closed claim is rejected.
func (c *Claim) MarkClosed(forced bool) error {
	if c.closedAt != nil {
		return fmt.Errorf("claim is already closed")
	}

	now := time.Now().UTC()
	c.closedAt = &now
	c.forcedClose = forced
	return nil
}

// MarkReviewRequested records that the review invitation went out after the
// close transaction committed.
func (c *Claim) MarkReviewRequested() {
	now := time.Now().UTC()
	c.reviewRequestedAt = &now
}

func (c *Claim) SetPanelMessageID(id string) {
	c.panelMessageID = &id
}

func (c *Claim) SetFinalizationMessageID(id string) {
	c.finalizationMessageID = &id
}
