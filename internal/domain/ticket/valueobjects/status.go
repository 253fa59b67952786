package valueobjects

import "fmt"

type TicketStatus string

const (
	StatusOpen      TicketStatus = "open"
	StatusClaimed   TicketStatus = "claimed"
	StatusConfirmed TicketStatus = "confirmed"
	StatusClosed    TicketStatus = "closed"
)

var validTicketStatuses = map[TicketStatus]bool{
	StatusOpen:      true,
	StatusClaimed:   true,
	StatusConfirmed: true,
	StatusClosed:    true,
}

// ticketStatusTransitions is the authoritative transition table. A ticket
// moves open -> claimed (middleman claims) -> confirmed (every trade
// confirmed) -> closed (close transaction commits). A claimed ticket may
// close directly when the close preconditions are met before every trade
// confirmation lands.
var ticketStatusTransitions = map[TicketStatus][]TicketStatus{
	StatusOpen: {
		StatusClaimed,
	},
	StatusClaimed: {
		StatusConfirmed,
		StatusClosed,
	},
	StatusConfirmed: {
		StatusClaimed,
		StatusClosed,
	},
	StatusClosed: {},
}

func (ts TicketStatus) String() string {
	return string(ts)
}

func (ts TicketStatus) IsValid() bool {
	return validTicketStatuses[ts]
}

func (ts TicketStatus) CanTransitionTo(newStatus TicketStatus) bool {
	allowedTransitions, ok := ticketStatusTransitions[ts]
	if !ok {
		return false
	}

	for _, allowed := range allowedTransitions {
		if allowed == newStatus {
			return true
		}
	}
	return false
}

func (ts TicketStatus) IsOpen() bool {
	return ts == StatusOpen
}

func (ts TicketStatus) IsClaimed() bool {
	return ts == StatusClaimed
}

func (ts TicketStatus) IsConfirmed() bool {
	return ts == StatusConfirmed
}

func (ts TicketStatus) IsClosed() bool {
	return ts == StatusClosed
}

func NewTicketStatus(s string) (TicketStatus, error) {
	ts := TicketStatus(s)
	if !ts.IsValid() {
		return "", fmt.Errorf("invalid ticket status: %s", s)
	}
	return ts, nil
}
