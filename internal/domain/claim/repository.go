package claim

import (
	"context"
	"errors"
)

// ErrAlreadyClaimed is returned when a claim insert hits the per-ticket
// uniqueness constraint: another middleman got there first.
var ErrAlreadyClaimed = errors.New("ticket is already claimed")

type ClaimRepository interface {
	// Create inserts the claim. A uniqueness violation on ticketID is
	// translated to ErrAlreadyClaimed, never surfaced as an unexpected
	// fault.
	Create(ctx context.Context, claim *Claim) error
	Update(ctx context.Context, claim *Claim) error
	GetByTicketID(ctx context.Context, ticketID uint) (*Claim, error)
}
