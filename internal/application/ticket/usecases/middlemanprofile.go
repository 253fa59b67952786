package usecases

import (
	"context"
	"time"

	"tradedesk/internal/domain/review"
	"tradedesk/internal/domain/stats"
	"tradedesk/internal/shared/errors"
)

type MiddlemanProfileQuery struct {
	UserID uint
}

type MiddlemanProfileResult struct {
	UserID          uint       `json:"user_id"`
	TradesCompleted int64      `json:"trades_completed"`
	LastTradeAt     *time.Time `json:"last_trade_at,omitempty"`
	LastPartnerTag  string     `json:"last_partner_tag,omitempty"`
	AverageRating   float64    `json:"average_rating"`
	ReviewCount     int64      `json:"review_count"`
}

// MiddlemanProfileUseCase combines the completed-trade counters with the
// review average into one profile read.
type MiddlemanProfileUseCase struct {
	statsRepo  stats.StatsRepository
	reviewRepo review.ReviewRepository
}

func NewMiddlemanProfileUseCase(statsRepo stats.StatsRepository, reviewRepo review.ReviewRepository) *MiddlemanProfileUseCase {
	return &MiddlemanProfileUseCase{statsRepo: statsRepo, reviewRepo: reviewRepo}
}

func (uc *MiddlemanProfileUseCase) Execute(ctx context.Context, query MiddlemanProfileQuery) (*MiddlemanProfileResult, error) {
	memberStats, err := uc.statsRepo.GetByUser(ctx, query.UserID)
	if err != nil {
		if !errors.IsNotFoundError(err) {
			return nil, err
		}
		// No completed trades yet still renders an empty profile.
		memberStats = &stats.MemberTradeStats{UserID: query.UserID}
	}

	summary, err := uc.reviewRepo.AverageForMiddleman(ctx, query.UserID)
	if err != nil {
		return nil, err
	}

	return &MiddlemanProfileResult{
		UserID:          query.UserID,
		TradesCompleted: memberStats.TradesCompleted,
		LastTradeAt:     memberStats.LastTradeAt,
		LastPartnerTag:  memberStats.LastPartnerTag,
		AverageRating:   summary.Average,
		ReviewCount:     summary.Count,
	}, nil
}
