package valueobjects

import "fmt"

type TradeStatus string

const (
	StatusPending   TradeStatus = "pending"
	StatusActive    TradeStatus = "active"
	StatusCompleted TradeStatus = "completed"
	StatusCancelled TradeStatus = "cancelled"
)

var validTradeStatuses = map[TradeStatus]bool{
	StatusPending:   true,
	StatusActive:    true,
	StatusCompleted: true,
	StatusCancelled: true,
}

// tradeStatusTransitions: pending -> active on first confirmation; only the
// close transaction moves a trade to completed; pending and active trades
// may be cancelled. Completed and cancelled are terminal.
var tradeStatusTransitions = map[TradeStatus][]TradeStatus{
	StatusPending: {
		StatusActive,
		StatusCancelled,
	},
	StatusActive: {
		StatusPending,
		StatusCompleted,
		StatusCancelled,
	},
	StatusCompleted: {},
	StatusCancelled: {},
}

func (ts TradeStatus) String() string {
	return string(ts)
}

func (ts TradeStatus) IsValid() bool {
	return validTradeStatuses[ts]
}

func (ts TradeStatus) CanTransitionTo(newStatus TradeStatus) bool {
	allowedTransitions, ok := tradeStatusTransitions[ts]
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

func (ts TradeStatus) IsPending() bool {
	return ts == StatusPending
}

func (ts TradeStatus) IsActive() bool {
	return ts == StatusActive
}

func (ts TradeStatus) IsCompleted() bool {
	return ts == StatusCompleted
}

func (ts TradeStatus) IsCancelled() bool {
	return ts == StatusCancelled
}

// IsTerminal reports whether no further mutation is permitted.
func (ts TradeStatus) IsTerminal() bool {
	return ts == StatusCompleted || ts == StatusCancelled
}

func NewTradeStatus(s string) (TradeStatus, error) {
	ts := TradeStatus(s)
	if !ts.IsValid() {
		return "", fmt.Errorf("invalid trade status: %s", s)
	}
	return ts, nil
}
