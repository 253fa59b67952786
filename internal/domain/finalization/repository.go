package finalization

import "context"

// LedgerRepository is the persisted set of parties who currently confirm
// finalization for a ticket. Add and remove are idempotent set operations;
// completion checks must re-read the set after a write rather than reuse a
// pre-write snapshot.
type LedgerRepository interface {
	// Confirm adds userID to the ticket's confirmed set. Returns false when
	// the user had already confirmed; confirming twice never errors.
	Confirm(ctx context.Context, ticketID, userID uint) (added bool, err error)
	// Revoke removes userID from the confirmed set, reporting whether a
	// removal actually occurred.
	Revoke(ctx context.Context, ticketID, userID uint) (removed bool, err error)
	// List returns the currently confirmed user ids.
	List(ctx context.Context, ticketID uint) ([]uint, error)
	// Clear wipes the ticket's ledger, used when the ticket closes or when
	// trade data is edited after confirmation.
	Clear(ctx context.Context, ticketID uint) error
}
