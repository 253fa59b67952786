package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tradedesk/internal/infrastructure/persistence/models"
	"tradedesk/internal/shared/db"
)

// FinalizationRepository persists the per-ticket set of confirmed parties.
// Confirm and Revoke are idempotent set operations; concurrent confirms from
// two parties cannot lose updates because each row insert stands alone.
type FinalizationRepository struct {
	db *gorm.DB
}

func NewFinalizationRepository(db *gorm.DB) *FinalizationRepository {
	return &FinalizationRepository{db: db}
}

func (r *FinalizationRepository) Confirm(ctx context.Context, ticketID, userID uint) (bool, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	model := &models.FinalizationConfirmationModel{
		TicketID:    ticketID,
		UserID:      userID,
		ConfirmedAt: time.Now().UTC().UnixMilli(),
	}

	result := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "ticket_id"},
			{Name: "user_id"},
		},
		DoNothing: true,
	}).Create(model)

	if result.Error != nil {
		return false, fmt.Errorf("failed to record finalization confirmation: %w", result.Error)
	}

	// RowsAffected is zero when the user had already confirmed.
	return result.RowsAffected > 0, nil
}

func (r *FinalizationRepository) Revoke(ctx context.Context, ticketID, userID uint) (bool, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	result := tx.
		Where("ticket_id = ? AND user_id = ?", ticketID, userID).
		Delete(&models.FinalizationConfirmationModel{})

	if result.Error != nil {
		return false, fmt.Errorf("failed to revoke finalization confirmation: %w", result.Error)
	}

	return result.RowsAffected > 0, nil
}

func (r *FinalizationRepository) List(ctx context.Context, ticketID uint) ([]uint, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	var userIDs []uint
	if err := tx.
		Model(&models.FinalizationConfirmationModel{}).
		Where("ticket_id = ?", ticketID).
		Order("user_id ASC").
		Pluck("user_id", &userIDs).Error; err != nil {
		return nil, fmt.Errorf("failed to list finalization confirmations: %w", err)
	}

	return userIDs, nil
}

func (r *FinalizationRepository) Clear(ctx context.Context, ticketID uint) error {
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.
		Where("ticket_id = ?", ticketID).
		Delete(&models.FinalizationConfirmationModel{}).Error; err != nil {
		return fmt.Errorf("failed to clear finalization ledger: %w", err)
	}

	return nil
}
