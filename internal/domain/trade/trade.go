// Package trade holds one party's declared offer within a ticket and its
// confirmation state machine.
package trade

import (
	"fmt"
	"time"

	vo "tradedesk/internal/domain/trade/valueobjects"
)

const maxItems = 25

type Trade struct {
	id         uint
	ticketID   uint
	userID     uint
	partnerTag string
	partnerID  *string
	status     vo.TradeStatus
	confirmed  bool
	items      []string
	createdAt  time.Time
	updatedAt  time.Time
}

func NewTrade(ticketID, userID uint) (*Trade, error) {
	if ticketID == 0 {
		return nil, fmt.Errorf("ticket ID is required")
	}
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}

	now := time.Now().UTC()

	return &Trade{
		ticketID:  ticketID,
		userID:    userID,
		status:    vo.StatusPending,
		items:     []string{},
		createdAt: now,
		updatedAt: now,
	}, nil
}

func ReconstructTrade(
	id uint,
	ticketID uint,
	userID uint,
	partnerTag string,
	partnerID *string,
	status vo.TradeStatus,
	confirmed bool,
	items []string,
	createdAt, updatedAt time.Time,
) (*Trade, error) {
	if id == 0 {
		return nil, fmt.Errorf("trade ID cannot be zero")
	}
	if ticketID == 0 {
		return nil, fmt.Errorf("ticket ID is required")
	}
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid trade status")
	}

	if items == nil {
		items = []string{}
	}

	return &Trade{
		id:         id,
		ticketID:   ticketID,
		userID:     userID,
		partnerTag: partnerTag,
		partnerID:  partnerID,
		status:     status,
		confirmed:  confirmed,
		items:      items,
		createdAt:  createdAt,
		updatedAt:  updatedAt,
	}, nil
}

func (t *Trade) ID() uint {
	return t.id
}

func (t *Trade) TicketID() uint {
	return t.ticketID
}

func (t *Trade) UserID() uint {
	return t.userID
}

func (t *Trade) PartnerTag() string {
	return t.partnerTag
}

func (t *Trade) PartnerID() *string {
	return t.partnerID
}

func (t *Trade) Status() vo.TradeStatus {
	return t.status
}

func (t *Trade) Confirmed() bool {
	return t.confirmed
}

func (t *Trade) Items() []string {
	itemsCopy := make([]string, len(t.items))
	copy(itemsCopy, t.items)
	return itemsCopy
}

func (t *Trade) CreatedAt() time.Time {
	return t.createdAt
}

func (t *Trade) UpdatedAt() time.Time {
	return t.updatedAt
}

func (t *Trade) SetID(id uint) error {
	if t.id != 0 {
		return fmt.Errorf("trade ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("trade ID cannot be zero")
	}
	t.id = id
	return nil
}

// SetPartnerIdentity records the declared external trading identity.
func (t *Trade) SetPartnerIdentity(tag string, id *string) error {
	if t.status.IsTerminal() {
		return fmt.Errorf("cannot update a %s trade", t.status)
	}
	t.partnerTag = tag
	t.partnerID = id
	t.updatedAt = time.Now().UTC()
	return nil
}

// UpdateItems replaces the declared offer items. Terminal trades reject
// edits; confirmation reset after an edit is the engine's responsibility so
// a stale confirmation can never survive a data change.
func (t *Trade) UpdateItems(items []string) error {
	if t.status.IsTerminal() {
		return fmt.Errorf("cannot update a %s trade", t.status)
	}
	if len(items) > maxItems {
		return fmt.Errorf("trade exceeds maximum of %d items", maxItems)
	}

	t.items = make([]string, len(items))
	copy(t.items, items)
	t.updatedAt = time.Now().UTC()
	return nil
}

// Confirm marks the party's agreement with the declared data. The first
// confirmation activates a pending trade.
func (t *Trade) Confirm() error {
	if t.status.IsTerminal() {
		return fmt.Errorf("cannot confirm a %s trade", t.status)
	}

	if t.status.IsPending() {
		t.status = vo.StatusActive
	}
	t.confirmed = true
	t.updatedAt = time.Now().UTC()
	return nil
}

// ResetConfirmation re-opens the confirmation gate after a data edit. The
// trade always lands back at pending with confirmed=false.
func (t *Trade) ResetConfirmation() error {
	if t.status.IsTerminal() {
		return fmt.Errorf("cannot reset a %s trade", t.status)
	}

	t.status = vo.StatusPending
	t.confirmed = false
	t.updatedAt = time.Now().UTC()
	return nil
}

// Cancel terminally withdraws the trade.
func (t *Trade) Cancel() error {
	if !t.status.CanTransitionTo(vo.StatusCancelled) {
		return fmt.Errorf("cannot cancel a %s trade", t.status)
	}

	t.status = vo.StatusCancelled
	t.updatedAt = time.Now().UTC()
	return nil
}

// CanBeCompleted is re-derived by the close transaction rather than cached:
// only a confirmed, active trade may complete.
func (t *Trade) CanBeCompleted() bool {
	return t.confirmed && t.status.IsActive()
}

// Complete is invoked only by the close transaction.
func (t *Trade) Complete() error {
	if !t.CanBeCompleted() {
		return fmt.Errorf("trade %d is not completable (status=%s confirmed=%t)", t.id, t.status, t.confirmed)
	}

	t.status = vo.StatusCompleted
	t.updatedAt = time.Now().UTC()
	return nil
}
