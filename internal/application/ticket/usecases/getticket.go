package usecases

import (
	"context"
	"time"

	"tradedesk/internal/domain/claim"
	"tradedesk/internal/domain/finalization"
	"tradedesk/internal/domain/ticket"
	"tradedesk/internal/domain/trade"
	"tradedesk/internal/shared/errors"
)

type GetTicketQuery struct {
	TicketID uint
}

type TradeDTO struct {
	UserID     uint     `json:"user_id"`
	Items      []string `json:"items"`
	PartnerTag string   `json:"partner_tag,omitempty"`
	Status     string   `json:"status"`
	Confirmed  bool     `json:"confirmed"`
}

type ParticipantDTO struct {
	UserID uint   `json:"user_id"`
	Role   string `json:"role"`
}

type TicketDTO struct {
	ID                 uint             `json:"id"`
	GuildID            string           `json:"guild_id"`
	ChannelID          string           `json:"channel_id,omitempty"`
	OwnerID            uint             `json:"owner_id"`
	Type               string           `json:"type"`
	Status             string           `json:"status"`
	MiddlemanID        *uint            `json:"middleman_id,omitempty"`
	Participants       []ParticipantDTO `json:"participants"`
	Trades             []TradeDTO       `json:"trades"`
	ClosureConfirmedBy []uint           `json:"closure_confirmed_by,omitempty"`
	ClosurePendingFrom []uint           `json:"closure_pending_from,omitempty"`
	ForcedClose        bool             `json:"forced_close,omitempty"`
	CreatedAt          time.Time        `json:"created_at"`
	ClosedAt           *time.Time       `json:"closed_at,omitempty"`
}

// GetTicketUseCase assembles the read model for a single ticket.
type GetTicketUseCase struct {
	ticketRepo      ticket.TicketRepository
	participantRepo ticket.ParticipantRepository
	tradeRepo       trade.TradeRepository
	claimRepo       claim.ClaimRepository
	ledgerRepo      finalization.LedgerRepository
}

func NewGetTicketUseCase(
	ticketRepo ticket.TicketRepository,
	participantRepo ticket.ParticipantRepository,
	tradeRepo trade.TradeRepository,
	claimRepo claim.ClaimRepository,
	ledgerRepo finalization.LedgerRepository,
) *GetTicketUseCase {
	return &GetTicketUseCase{
		ticketRepo:      ticketRepo,
		participantRepo: participantRepo,
		tradeRepo:       tradeRepo,
		claimRepo:       claimRepo,
		ledgerRepo:      ledgerRepo,
	}
}

func (uc *GetTicketUseCase) Execute(ctx context.Context, query GetTicketQuery) (*TicketDTO, error) {
	t, err := uc.ticketRepo.GetByID(ctx, query.TicketID)
	if err != nil {
		return nil, err
	}

	participants, err := uc.participantRepo.ListByTicket(ctx, t.ID())
	if err != nil {
		return nil, errors.NewInternalError("failed to load participants")
	}

	trades, err := uc.tradeRepo.ListByTicket(ctx, t.ID())
	if err != nil {
		return nil, errors.NewInternalError("failed to load trades")
	}

	dto := &TicketDTO{
		ID:          t.ID(),
		GuildID:     t.GuildID(),
		ChannelID:   t.ChannelID(),
		OwnerID:     t.OwnerID(),
		Type:        t.Type().String(),
		Status:      t.Status().String(),
		MiddlemanID: t.MiddlemanID(),
		CreatedAt:   t.CreatedAt(),
		ClosedAt:    t.ClosedAt(),
	}

	for _, p := range participants {
		dto.Participants = append(dto.Participants, ParticipantDTO{
			UserID: p.UserID(),
			Role:   p.Role().String(),
		})
	}
	for _, tr := range trades {
		dto.Trades = append(dto.Trades, TradeDTO{
			UserID:     tr.UserID(),
			Items:      tr.Items(),
			PartnerTag: tr.PartnerTag(),
			Status:     tr.Status().String(),
			Confirmed:  tr.Confirmed(),
		})
	}

	if t.MiddlemanID() != nil {
		if cl, err := uc.claimRepo.GetByTicketID(ctx, t.ID()); err == nil {
			dto.ForcedClose = cl.ForcedClose()
		}
	}

	if !t.IsClosed() && t.MiddlemanID() != nil {
		confirmed, err := uc.ledgerRepo.List(ctx, t.ID())
		if err != nil {
			return nil, errors.NewInternalError("failed to load closure confirmations")
		}
		quorum := finalization.NewQuorum(t.OwnerID(), participants)
		done, pending := quorum.Partition(confirmed)
		dto.ClosureConfirmedBy = done
		dto.ClosurePendingFrom = pending
	}

	return dto, nil
}
