package valueobjects

import "fmt"

// TicketType is the category of mediation case a ticket represents.
type TicketType string

const (
	TypeTrade    TicketType = "trade"
	TypeExchange TicketType = "exchange"
	TypeOther    TicketType = "other"
)

var validTicketTypes = map[TicketType]bool{
	TypeTrade:    true,
	TypeExchange: true,
	TypeOther:    true,
}

func (tt TicketType) String() string {
	return string(tt)
}

func (tt TicketType) IsValid() bool {
	return validTicketTypes[tt]
}

func NewTicketType(s string) (TicketType, error) {
	tt := TicketType(s)
	if !tt.IsValid() {
		return "", fmt.Errorf("invalid ticket type: %s", s)
	}
	return tt, nil
}
