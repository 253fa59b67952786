package trade

import "context"

type TradeRepository interface {
	// Upsert persists the trade, replacing any existing row for the same
	// (ticketID, userID) pair. One trade per user per ticket is a real
	// uniqueness constraint in the persistence layer.
	Upsert(ctx context.Context, trade *Trade) error
	Update(ctx context.Context, trade *Trade) error
	GetByTicketAndUser(ctx context.Context, ticketID, userID uint) (*Trade, error)
	ListByTicket(ctx context.Context, ticketID uint) ([]*Trade, error)
}
