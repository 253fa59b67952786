// Package stats aggregates per-member trade counters. The close transaction
// is the only writer.
package stats

import (
	"context"
	"time"
)

// MemberTradeStats is a per-user aggregate, append-only in effect.
type MemberTradeStats struct {
	UserID          uint
	TradesCompleted int64
	LastTradeAt     *time.Time
	LastPartnerTag  string
}

type StatsRepository interface {
	// IncrementCompleted bumps the middleman's completed-trade counter and
	// stamps the last trade. Runs inside the close transaction so the
	// counter can never drift from the closed tickets it counts.
	IncrementCompleted(ctx context.Context, userID uint, partnerTag string, at time.Time) error
	GetByUser(ctx context.Context, userID uint) (*MemberTradeStats, error)
}
