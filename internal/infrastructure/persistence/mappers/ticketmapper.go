package mappers

import (
	"time"

	"tradedesk/internal/domain/ticket"
	vo "tradedesk/internal/domain/ticket/valueobjects"
	"tradedesk/internal/infrastructure/persistence/models"
)

// TicketMapper handles the conversion between Ticket domain entities and persistence models.
type TicketMapper interface {
	ToModel(t *ticket.Ticket) *models.TicketModel
	ToDomain(model *models.TicketModel) (*ticket.Ticket, error)
	ParticipantToModel(p *ticket.Participant) *models.TicketParticipantModel
	ParticipantToDomain(model *models.TicketParticipantModel) (*ticket.Participant, error)
}

type TicketMapperImpl struct{}

func NewTicketMapper() TicketMapper {
	return &TicketMapperImpl{}
}

func (m *TicketMapperImpl) ToModel(t *ticket.Ticket) *models.TicketModel {
	model := &models.TicketModel{
		ID:          t.ID(),
		GuildID:     t.GuildID(),
		ChannelID:   t.ChannelID(),
		OwnerID:     t.OwnerID(),
		Type:        t.Type().String(),
		Status:      t.Status().String(),
		MiddlemanID: t.MiddlemanID(),
		CreatedAt:   t.CreatedAt().UnixMilli(),
		UpdatedAt:   t.UpdatedAt().UnixMilli(),
	}

	if t.ClosedAt() != nil {
		closed := t.ClosedAt().UnixMilli()
		model.ClosedAt = &closed
	}

	return model
}

func (m *TicketMapperImpl) ToDomain(model *models.TicketModel) (*ticket.Ticket, error) {
	ticketType, err := vo.NewTicketType(model.Type)
	if err != nil {
		return nil, err
	}
	status, err := vo.NewTicketStatus(model.Status)
	if err != nil {
		return nil, err
	}

	var closedAt *time.Time
	if model.ClosedAt != nil {
		t := millisToTime(*model.ClosedAt)
		closedAt = &t
	}

	return ticket.ReconstructTicket(
		model.ID,
		model.GuildID,
		model.ChannelID,
		model.OwnerID,
		ticketType,
		status,
		model.MiddlemanID,
		millisToTime(model.CreatedAt),
		millisToTime(model.UpdatedAt),
		closedAt,
	)
}

func (m *TicketMapperImpl) ParticipantToModel(p *ticket.Participant) *models.TicketParticipantModel {
	return &models.TicketParticipantModel{
		TicketID: p.TicketID(),
		UserID:   p.UserID(),
		Role:     p.Role().String(),
		JoinedAt: p.JoinedAt().UnixMilli(),
	}
}

func (m *TicketMapperImpl) ParticipantToDomain(model *models.TicketParticipantModel) (*ticket.Participant, error) {
	// Raw role strings are validated here, at the persistence boundary.
	role, err := vo.NewParticipantRole(model.Role)
	if err != nil {
		return nil, err
	}

	return ticket.ReconstructParticipant(
		model.TicketID,
		model.UserID,
		role,
		millisToTime(model.JoinedAt),
	)
}

func millisToTime(millis int64) time.Time {
	return time.UnixMilli(millis).UTC()
}
