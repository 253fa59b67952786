package usecases

import (
	"context"

	"tradedesk/internal/domain/claim"
	"tradedesk/internal/domain/finalization"
	"tradedesk/internal/domain/ticket"
	"tradedesk/internal/shared/errors"
	"tradedesk/internal/shared/logger"
)

type RevokeFinalizationCommand struct {
	TicketID uint
	UserID   uint
}

type RevokeFinalizationResult struct {
	TicketID uint
	Removed  bool
}

// RevokeFinalizationUseCase withdraws a previously given closure
// confirmation. Revoking without a prior confirmation is a no-op.
type RevokeFinalizationUseCase struct {
	ticketRepo      ticket.TicketRepository
	participantRepo ticket.ParticipantRepository
	claimRepo       claim.ClaimRepository
	ledgerRepo      finalization.LedgerRepository
	chatGateway     ChatGateway
	panelRenderer   PanelRenderer
	logger          logger.Interface
}

func NewRevokeFinalizationUseCase(
	ticketRepo ticket.TicketRepository,
	participantRepo ticket.ParticipantRepository,
	claimRepo claim.ClaimRepository,
	ledgerRepo finalization.LedgerRepository,
	chatGateway ChatGateway,
	panelRenderer PanelRenderer,
	logger logger.Interface,
) *RevokeFinalizationUseCase {
	return &RevokeFinalizationUseCase{
		ticketRepo:      ticketRepo,
		participantRepo: participantRepo,
		claimRepo:       claimRepo,
		ledgerRepo:      ledgerRepo,
		chatGateway:     chatGateway,
		panelRenderer:   panelRenderer,
		logger:          logger,
	}
}

func (uc *RevokeFinalizationUseCase) Execute(ctx context.Context, cmd RevokeFinalizationCommand) (*RevokeFinalizationResult, error) {
	t, err := uc.ticketRepo.GetByID(ctx, cmd.TicketID)
	if err != nil {
		return nil, err
	}
	if t.IsClosed() {
		return nil, errors.NewInvalidStateError("ticket is closed")
	}

	removed, err := uc.ledgerRepo.Revoke(ctx, cmd.TicketID, cmd.UserID)
	if err != nil {
		return nil, errors.NewInternalError("failed to revoke confirmation")
	}

	if removed {
		uc.refreshPanel(ctx, t)
		uc.logger.Infow("closure confirmation revoked", "ticket_id", cmd.TicketID, "user_id", cmd.UserID)
	}

	return &RevokeFinalizationResult{TicketID: t.ID(), Removed: removed}, nil
}

func (uc *RevokeFinalizationUseCase) refreshPanel(ctx context.Context, t *ticket.Ticket) {
	participants, err := uc.participantRepo.ListByTicket(ctx, t.ID())
	if err != nil {
		uc.logger.Warnw("failed to load participants for panel", "ticket_id", t.ID(), "error", err)
		return
	}
	quorum := finalization.NewQuorum(t.OwnerID(), participants)

	confirmed, err := uc.ledgerRepo.List(ctx, t.ID())
	if err != nil {
		uc.logger.Warnw("failed to load confirmations for panel", "ticket_id", t.ID(), "error", err)
		return
	}

	cl, err := uc.claimRepo.GetByTicketID(ctx, t.ID())
	if err != nil {
		uc.logger.Warnw("failed to load claim for panel", "ticket_id", t.ID(), "error", err)
		return
	}
	messageID := ""
	if id := cl.FinalizationMessageID(); id != nil {
		messageID = *id
	}

	view := buildFinalizationView(ctx, uc.chatGateway, t.ID(), quorum.Members(), confirmed, quorum.IsSatisfiedBy(confirmed))
	newID, err := uc.panelRenderer.UpsertFinalizationPanel(ctx, t.ChannelID(), messageID, view)
	if err != nil {
		uc.logger.Warnw("finalization panel update failed", "ticket_id", t.ID(), "error", err)
		return
	}
	if newID != messageID {
		cl.SetFinalizationMessageID(newID)
		if err := uc.claimRepo.Update(ctx, cl); err != nil {
			uc.logger.Warnw("failed to persist finalization message id",
				"ticket_id", t.ID(), "message_id", newID, "error", err)
		}
	}
}
