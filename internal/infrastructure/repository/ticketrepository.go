package repository

import (
	"fmt"

	"context"

	"gorm.io/gorm"

	"tradedesk/internal/domain/ticket"
	vo "tradedesk/internal/domain/ticket/valueobjects"
	"tradedesk/internal/infrastructure/persistence/mappers"
	"tradedesk/internal/infrastructure/persistence/models"
	"tradedesk/internal/shared/db"
	"tradedesk/internal/shared/errors"
)

type TicketRepository struct {
	db     *gorm.DB
	mapper mappers.TicketMapper
}

func NewTicketRepository(db *gorm.DB) *TicketRepository {
	return &TicketRepository{
		db:     db,
		mapper: mappers.NewTicketMapper(),
	}
}

func (r *TicketRepository) Save(ctx context.Context, t *ticket.Ticket) error {
	model := r.mapper.ToModel(t)
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Create(model).Error; err != nil {
		return fmt.Errorf("failed to save ticket: %w", err)
	}

	if err := t.SetID(model.ID); err != nil {
		return err
	}

	return nil
}

func (r *TicketRepository) Update(ctx context.Context, t *ticket.Ticket) error {
	model := r.mapper.ToModel(t)
	tx := db.GetTxFromContext(ctx, r.db)

	result := tx.
		Model(&models.TicketModel{}).
		Where("id = ?", model.ID).
		Select("channel_id", "status", "middleman_id", "updated_at", "closed_at").
		Updates(model)

	if result.Error != nil {
		return fmt.Errorf("failed to update ticket: %w", result.Error)
	}

	return nil
}

func (r *TicketRepository) GetByID(ctx context.Context, ticketID uint) (*ticket.Ticket, error) {
	var model models.TicketModel
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.First(&model, ticketID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError(fmt.Sprintf("ticket %d not found", ticketID))
		}
		return nil, fmt.Errorf("failed to find ticket: %w", err)
	}

	return r.mapper.ToDomain(&model)
}

func (r *TicketRepository) GetByChannelID(ctx context.Context, channelID string) (*ticket.Ticket, error) {
	var model models.TicketModel
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.
		Where("channel_id = ?", channelID).
		Where("status <> ?", vo.StatusClosed.String()).
		First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("no open ticket for channel", channelID)
		}
		return nil, fmt.Errorf("failed to find ticket by channel: %w", err)
	}

	return r.mapper.ToDomain(&model)
}

func (r *TicketRepository) CountOpenByOwner(ctx context.Context, ownerID uint) (int64, error) {
	var count int64
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.
		Model(&models.TicketModel{}).
		Where("owner_id = ?", ownerID).
		Where("status <> ?", vo.StatusClosed.String()).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count open tickets: %w", err)
	}

	return count, nil
}

func (r *TicketRepository) Delete(ctx context.Context, ticketID uint) error {
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Delete(&models.TicketModel{}, ticketID).Error; err != nil {
		return fmt.Errorf("failed to delete ticket: %w", err)
	}

	return nil
}

type ParticipantRepository struct {
	db     *gorm.DB
	mapper mappers.TicketMapper
}

func NewParticipantRepository(db *gorm.DB) *ParticipantRepository {
	return &ParticipantRepository{
		db:     db,
		mapper: mappers.NewTicketMapper(),
	}
}

func (r *ParticipantRepository) Add(ctx context.Context, p *ticket.Participant) error {
	model := r.mapper.ParticipantToModel(p)
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Create(model).Error; err != nil {
		if errors.IsDuplicateError(err) {
			return errors.NewConflictError("user is already a participant on this ticket")
		}
		return fmt.Errorf("failed to add participant: %w", err)
	}

	return nil
}

func (r *ParticipantRepository) ListByTicket(ctx context.Context, ticketID uint) ([]*ticket.Participant, error) {
	var modelList []models.TicketParticipantModel
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.
		Where("ticket_id = ?", ticketID).
		Order("joined_at ASC").
		Find(&modelList).Error; err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}

	participants := make([]*ticket.Participant, 0, len(modelList))
	for i := range modelList {
		p, err := r.mapper.ParticipantToDomain(&modelList[i])
		if err != nil {
			return nil, err
		}
		participants = append(participants, p)
	}

	return participants, nil
}

func (r *ParticipantRepository) RemoveByTicket(ctx context.Context, ticketID uint) error {
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.
		Where("ticket_id = ?", ticketID).
		Delete(&models.TicketParticipantModel{}).Error; err != nil {
		return fmt.Errorf("failed to remove participants: %w", err)
	}

	return nil
}
