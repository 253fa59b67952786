package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tradedesk/internal/domain/trade"
	"tradedesk/internal/infrastructure/persistence/mappers"
	"tradedesk/internal/infrastructure/persistence/models"
	"tradedesk/internal/shared/db"
	"tradedesk/internal/shared/errors"
)

type TradeRepository struct {
	db     *gorm.DB
	mapper mappers.TradeMapper
}

func NewTradeRepository(db *gorm.DB) *TradeRepository {
	return &TradeRepository{
		db:     db,
		mapper: mappers.NewTradeMapper(),
	}
}

// Upsert enforces one trade row per (ticket, user): an existing row is
// updated in place instead of duplicated.
func (r *TradeRepository) Upsert(ctx context.Context, t *trade.Trade) error {
	model := r.mapper.ToModel(t)
	tx := db.GetTxFromContext(ctx, r.db)

	err := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "ticket_id"},
			{Name: "user_id"},
		},
		DoUpdates: clause.AssignmentColumns([]string{"partner_tag", "partner_id", "status", "confirmed", "items", "updated_at"}),
	}).Create(model).Error
	if err != nil {
		return fmt.Errorf("failed to upsert trade: %w", err)
	}

	if t.ID() == 0 && model.ID != 0 {
		if err := t.SetID(model.ID); err != nil {
			return err
		}
	}

	return nil
}

func (r *TradeRepository) Update(ctx context.Context, t *trade.Trade) error {
	model := r.mapper.ToModel(t)
	tx := db.GetTxFromContext(ctx, r.db)

	result := tx.
		Model(&models.TradeModel{}).
		Where("id = ?", model.ID).
		Select("partner_tag", "partner_id", "status", "confirmed", "items", "updated_at").
		Updates(model)

	if result.Error != nil {
		return fmt.Errorf("failed to update trade: %w", result.Error)
	}

	return nil
}

func (r *TradeRepository) GetByTicketAndUser(ctx context.Context, ticketID, userID uint) (*trade.Trade, error) {
	var model models.TradeModel
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.
		Where("ticket_id = ? AND user_id = ?", ticketID, userID).
		First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError(fmt.Sprintf("no trade for user %d on ticket %d", userID, ticketID))
		}
		return nil, fmt.Errorf("failed to find trade: %w", err)
	}

	return r.mapper.ToDomain(&model)
}

func (r *TradeRepository) ListByTicket(ctx context.Context, ticketID uint) ([]*trade.Trade, error) {
	var modelList []models.TradeModel
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.
		Where("ticket_id = ?", ticketID).
		Order("created_at ASC").
		Find(&modelList).Error; err != nil {
		return nil, fmt.Errorf("failed to list trades: %w", err)
	}

	trades := make([]*trade.Trade, 0, len(modelList))
	for i := range modelList {
		t, err := r.mapper.ToDomain(&modelList[i])
		if err != nil {
			return nil, err
		}
		trades = append(trades, t)
	}

	return trades, nil
}
