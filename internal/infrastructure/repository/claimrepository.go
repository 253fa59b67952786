package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"tradedesk/internal/domain/claim"
	"tradedesk/internal/infrastructure/persistence/mappers"
	"tradedesk/internal/infrastructure/persistence/models"
	"tradedesk/internal/shared/db"
	"tradedesk/internal/shared/errors"
)

type ClaimRepository struct {
	db     *gorm.DB
	mapper mappers.ClaimMapper
}

func NewClaimRepository(db *gorm.DB) *ClaimRepository {
	return &ClaimRepository{
		db:     db,
		mapper: mappers.NewClaimMapper(),
	}
}

// Create inserts the claim. The unique index on ticket_id resolves the race
// between two simultaneous claim attempts; a duplicate-key failure means the
// other middleman won and is reported as claim.ErrAlreadyClaimed.
func (r *ClaimRepository) Create(ctx context.Context, c *claim.Claim) error {
	model := r.mapper.ToModel(c)
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Create(model).Error; err != nil {
		if errors.IsDuplicateError(err) {
			return claim.ErrAlreadyClaimed
		}
		return fmt.Errorf("failed to create claim: %w", err)
	}

	return nil
}

func (r *ClaimRepository) Update(ctx context.Context, c *claim.Claim) error {
	model := r.mapper.ToModel(c)
	tx := db.GetTxFromContext(ctx, r.db)

	result := tx.
		Model(&models.ClaimModel{}).
		Where("ticket_id = ?", model.TicketID).
		Select("closed_at", "forced_close", "panel_message_id", "finalization_message_id", "review_requested_at").
		Updates(model)

	if result.Error != nil {
		return fmt.Errorf("failed to update claim: %w", result.Error)
	}

	return nil
}

func (r *ClaimRepository) GetByTicketID(ctx context.Context, ticketID uint) (*claim.Claim, error) {
	var model models.ClaimModel
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.
		Where("ticket_id = ?", ticketID).
		First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError(fmt.Sprintf("ticket %d is not claimed", ticketID))
		}
		return nil, fmt.Errorf("failed to find claim: %w", err)
	}

	return r.mapper.ToDomain(&model)
}
