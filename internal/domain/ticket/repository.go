package ticket

import (
	"context"
)

type TicketRepository interface {
	Save(ctx context.Context, ticket *Ticket) error
	Update(ctx context.Context, ticket *Ticket) error
	GetByID(ctx context.Context, ticketID uint) (*Ticket, error)
	GetByChannelID(ctx context.Context, channelID string) (*Ticket, error)
	// CountOpenByOwner counts non-closed tickets for the open-ticket cap.
	// Called inside the same transaction that creates the ticket so two
	// concurrent opens cannot both pass the cap.
	CountOpenByOwner(ctx context.Context, ownerID uint) (int64, error)
	// Delete removes a ticket row outright. Only used to compensate a
	// ticket whose channel could not be created.
	Delete(ctx context.Context, ticketID uint) error
}

type ParticipantRepository interface {
	Add(ctx context.Context, participant *Participant) error
	ListByTicket(ctx context.Context, ticketID uint) ([]*Participant, error)
	RemoveByTicket(ctx context.Context, ticketID uint) error
}
