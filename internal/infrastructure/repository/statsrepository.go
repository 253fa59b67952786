package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tradedesk/internal/domain/stats"
	"tradedesk/internal/infrastructure/persistence/models"
	"tradedesk/internal/shared/db"
	"tradedesk/internal/shared/errors"
)

type StatsRepository struct {
	db *gorm.DB
}

func NewStatsRepository(db *gorm.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// IncrementCompleted upserts the member's counter row. Must run inside the
// close transaction via the context-carried tx.
func (r *StatsRepository) IncrementCompleted(ctx context.Context, userID uint, partnerTag string, at time.Time) error {
	tx := db.GetTxFromContext(ctx, r.db)

	atMillis := at.UnixMilli()
	model := &models.MemberTradeStatsModel{
		UserID:          userID,
		TradesCompleted: 1,
		LastTradeAt:     &atMillis,
		LastPartnerTag:  partnerTag,
	}

	err := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"trades_completed": gorm.Expr("trades_completed + 1"),
			"last_trade_at":    atMillis,
			"last_partner_tag": partnerTag,
		}),
	}).Create(model).Error
	if err != nil {
		return fmt.Errorf("failed to increment trade stats: %w", err)
	}

	return nil
}

func (r *StatsRepository) GetByUser(ctx context.Context, userID uint) (*stats.MemberTradeStats, error) {
	var model models.MemberTradeStatsModel
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.
		Where("user_id = ?", userID).
		First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError(fmt.Sprintf("no trade stats for user %d", userID))
		}
		return nil, fmt.Errorf("failed to find trade stats: %w", err)
	}

	var lastTradeAt *time.Time
	if model.LastTradeAt != nil {
		t := time.UnixMilli(*model.LastTradeAt).UTC()
		lastTradeAt = &t
	}

	return &stats.MemberTradeStats{
		UserID:          model.UserID,
		TradesCompleted: model.TradesCompleted,
		LastTradeAt:     lastTradeAt,
		LastPartnerTag:  model.LastPartnerTag,
	}, nil
}
