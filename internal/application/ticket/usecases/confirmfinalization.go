package usecases

import (
	"context"

	"tradedesk/internal/domain/claim"
	"tradedesk/internal/domain/finalization"
	"tradedesk/internal/domain/ticket"
	"tradedesk/internal/shared/errors"
	"tradedesk/internal/shared/logger"
)

type ConfirmFinalizationCommand struct {
	TicketID uint
	UserID   uint
}

type ConfirmFinalizationResult struct {
	TicketID         uint
	AlreadyConfirmed bool
	Satisfied        bool
	Pending          []uint
}

// ConfirmFinalizationUseCase records one quorum member's agreement to close.
// Confirming twice is a no-op, never an error. Satisfaction is always judged
// against a fresh read of the ledger taken after the write, so two members
// confirming concurrently cannot both observe an incomplete set.
type ConfirmFinalizationUseCase struct {
	ticketRepo      ticket.TicketRepository
	participantRepo ticket.ParticipantRepository
	claimRepo       claim.ClaimRepository
	ledgerRepo      finalization.LedgerRepository
	chatGateway     ChatGateway
	panelRenderer   PanelRenderer
	logger          logger.Interface
}

func NewConfirmFinalizationUseCase(
	ticketRepo ticket.TicketRepository,
	participantRepo ticket.ParticipantRepository,
	claimRepo claim.ClaimRepository,
	ledgerRepo finalization.LedgerRepository,
	chatGateway ChatGateway,
	panelRenderer PanelRenderer,
	logger logger.Interface,
) *ConfirmFinalizationUseCase {
	return &ConfirmFinalizationUseCase{
		ticketRepo:      ticketRepo,
		participantRepo: participantRepo,
		claimRepo:       claimRepo,
		ledgerRepo:      ledgerRepo,
		chatGateway:     chatGateway,
		panelRenderer:   panelRenderer,
		logger:          logger,
	}
}

func (uc *ConfirmFinalizationUseCase) Execute(ctx context.Context, cmd ConfirmFinalizationCommand) (*ConfirmFinalizationResult, error) {
	t, err := uc.ticketRepo.GetByID(ctx, cmd.TicketID)
	if err != nil {
		return nil, err
	}
	if t.IsClosed() {
		return nil, errors.NewInvalidStateError("ticket is closed")
	}

	participants, err := uc.participantRepo.ListByTicket(ctx, cmd.TicketID)
	if err != nil {
		return nil, errors.NewInternalError("failed to load participants")
	}
	quorum := finalization.NewQuorum(t.OwnerID(), participants)
	if !quorum.Contains(cmd.UserID) {
		return nil, errors.NewForbiddenError("only trade parties can confirm closure")
	}

	added, err := uc.ledgerRepo.Confirm(ctx, cmd.TicketID, cmd.UserID)
	if err != nil {
		return nil, errors.NewInternalError("failed to record confirmation")
	}

	confirmed, err := uc.ledgerRepo.List(ctx, cmd.TicketID)
	if err != nil {
		return nil, errors.NewInternalError("failed to load closure confirmations")
	}
	satisfied := quorum.IsSatisfiedBy(confirmed)
	_, pending := quorum.Partition(confirmed)

	uc.refreshPanel(ctx, t, quorum, confirmed, satisfied)

	// Only the confirmation that completed the set pings the middleman, so
	// repeats and the trailing members do not re-notify.
	if satisfied && added {
		uc.notifyQuorumComplete(ctx, t)
	}

	return &ConfirmFinalizationResult{
		TicketID:         t.ID(),
		AlreadyConfirmed: !added,
		Satisfied:        satisfied,
		Pending:          pending,
	}, nil
}

func (uc *ConfirmFinalizationUseCase) refreshPanel(ctx context.Context, t *ticket.Ticket, quorum finalization.Quorum, confirmed []uint, satisfied bool) {
	cl, err := uc.claimRepo.GetByTicketID(ctx, t.ID())
	if err != nil {
		uc.logger.Warnw("failed to load claim for finalization panel", "ticket_id", t.ID(), "error", err)
		return
	}

	messageID := ""
	if id := cl.FinalizationMessageID(); id != nil {
		messageID = *id
	}

	view := buildFinalizationView(ctx, uc.chatGateway, t.ID(), quorum.Members(), confirmed, satisfied)
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

func (uc *ConfirmFinalizationUseCase) notifyQuorumComplete(ctx context.Context, t *ticket.Ticket) {
	if t.MiddlemanID() == nil {
		return
	}
	name := uc.chatGateway.GetDisplayName(ctx, *t.MiddlemanID())
	content := "Everyone has confirmed closure, " + name + ". You can close the ticket now."
	if _, err := uc.chatGateway.SendMessage(ctx, t.ChannelID(), content, nil); err != nil {
		uc.logger.Warnw("failed to notify middleman of complete quorum", "ticket_id", t.ID(), "error", err)
	}
}
