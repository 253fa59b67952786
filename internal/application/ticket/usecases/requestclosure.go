package usecases

import (
	"context"

	"tradedesk/internal/domain/claim"
	"tradedesk/internal/domain/finalization"
	"tradedesk/internal/domain/ticket"
	"tradedesk/internal/shared/errors"
	"tradedesk/internal/shared/logger"
)

type RequestClosureCommand struct {
	TicketID    uint
	RequesterID uint
}

type RequestClosureResult struct {
	TicketID      uint
	QuorumSize    int
	QuorumMembers []uint
}

// RequestClosureUseCase starts the finalization round. Only the claiming
// middleman may open it, and only once every party has confirmed their
// trade. It posts the finalization panel and remembers its message id on
// the claim so later confirmations edit the same panel.
type RequestClosureUseCase struct {
	ticketRepo      ticket.TicketRepository
	participantRepo ticket.ParticipantRepository
	claimRepo       claim.ClaimRepository
	ledgerRepo      finalization.LedgerRepository
	chatGateway     ChatGateway
	panelRenderer   PanelRenderer
	logger          logger.Interface
}

func NewRequestClosureUseCase(
	ticketRepo ticket.TicketRepository,
	participantRepo ticket.ParticipantRepository,
	claimRepo claim.ClaimRepository,
	ledgerRepo finalization.LedgerRepository,
	chatGateway ChatGateway,
	panelRenderer PanelRenderer,
	logger logger.Interface,
) *RequestClosureUseCase {
	return &RequestClosureUseCase{
		ticketRepo:      ticketRepo,
		participantRepo: participantRepo,
		claimRepo:       claimRepo,
		ledgerRepo:      ledgerRepo,
		chatGateway:     chatGateway,
		panelRenderer:   panelRenderer,
		logger:          logger,
	}
}

func (uc *RequestClosureUseCase) Execute(ctx context.Context, cmd RequestClosureCommand) (*RequestClosureResult, error) {
	t, err := uc.ticketRepo.GetByID(ctx, cmd.TicketID)
	if err != nil {
		return nil, err
	}
	if t.IsClosed() {
		return nil, errors.NewInvalidStateError("ticket is closed")
	}
	if !t.IsClaimedBy(cmd.RequesterID) {
		return nil, errors.NewForbiddenError("only the claiming middleman can request closure")
	}
	if !t.Status().IsConfirmed() {
		return nil, errors.NewInvalidStateError("all parties must confirm their trades before closure")
	}

	cl, err := uc.claimRepo.GetByTicketID(ctx, cmd.TicketID)
	if err != nil {
		return nil, err
	}

	participants, err := uc.participantRepo.ListByTicket(ctx, cmd.TicketID)
	if err != nil {
		return nil, errors.NewInternalError("failed to load participants")
	}
	quorum := finalization.NewQuorum(t.OwnerID(), participants)

	confirmed, err := uc.ledgerRepo.List(ctx, cmd.TicketID)
	if err != nil {
		return nil, errors.NewInternalError("failed to load closure confirmations")
	}

	view := buildFinalizationView(ctx, uc.chatGateway, t.ID(), quorum.Members(), confirmed, quorum.IsSatisfiedBy(confirmed))
	messageID := ""
	if id := cl.FinalizationMessageID(); id != nil {
		messageID = *id
	}
	newID, err := uc.panelRenderer.UpsertFinalizationPanel(ctx, t.ChannelID(), messageID, view)
	if err != nil {
		return nil, errors.NewInternalError("failed to post finalization panel")
	}

	if newID != messageID {
		cl.SetFinalizationMessageID(newID)
		if err := uc.claimRepo.Update(ctx, cl); err != nil {
			uc.logger.Warnw("failed to persist finalization message id",
				"ticket_id", cmd.TicketID, "message_id", newID, "error", err)
		}
	}

	uc.logger.Infow("closure requested",
		"ticket_id", cmd.TicketID,
		"middleman_id", cmd.RequesterID,
		"quorum_size", quorum.Size())

	return &RequestClosureResult{
		TicketID:      t.ID(),
		QuorumSize:    quorum.Size(),
		QuorumMembers: quorum.Members(),
	}, nil
}
