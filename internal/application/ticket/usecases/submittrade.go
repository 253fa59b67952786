package usecases

import (
	"context"

	"tradedesk/internal/domain/finalization"
	"tradedesk/internal/domain/ticket"
	"tradedesk/internal/domain/trade"
	"tradedesk/internal/shared/db"
	"tradedesk/internal/shared/errors"
	"tradedesk/internal/shared/logger"
)

type SubmitTradeCommand struct {
	TicketID   uint
	UserID     uint
	Items      []string
	PartnerTag string
	PartnerID  *string
}

type SubmitTradeResult struct {
	TicketID          uint
	TradeStatus       string
	ConfirmationReset bool
}

// SubmitTradeUseCase records or edits a party's declared side of the trade.
// Editing after confirmation resets that trade's confirmation, reverts a
// confirmed ticket to claimed, and wipes the finalization ledger, all in
// one transaction. Stale agreement never survives a data change.
type SubmitTradeUseCase struct {
	ticketRepo      ticket.TicketRepository
	participantRepo ticket.ParticipantRepository
	tradeRepo       trade.TradeRepository
	ledgerRepo      finalization.LedgerRepository
	txManager       db.Transactor
	chatGateway     ChatGateway
	panelRenderer   PanelRenderer
	logger          logger.Interface
}

func NewSubmitTradeUseCase(
	ticketRepo ticket.TicketRepository,
	participantRepo ticket.ParticipantRepository,
	tradeRepo trade.TradeRepository,
	ledgerRepo finalization.LedgerRepository,
	txManager db.Transactor,
	chatGateway ChatGateway,
	panelRenderer PanelRenderer,
	logger logger.Interface,
) *SubmitTradeUseCase {
	return &SubmitTradeUseCase{
		ticketRepo:      ticketRepo,
		participantRepo: participantRepo,
		tradeRepo:       tradeRepo,
		ledgerRepo:      ledgerRepo,
		txManager:       txManager,
		chatGateway:     chatGateway,
		panelRenderer:   panelRenderer,
		logger:          logger,
	}
}

func (uc *SubmitTradeUseCase) Execute(ctx context.Context, cmd SubmitTradeCommand) (*SubmitTradeResult, error) {
	var (
		current *ticket.Ticket
		updated *trade.Trade
		reset   bool
	)

	err := uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		t, err := uc.ticketRepo.GetByID(txCtx, cmd.TicketID)
		if err != nil {
			return err
		}
		if t.IsClosed() {
			return errors.NewInvalidStateError("ticket is closed")
		}

		party, err := uc.isParty(txCtx, t, cmd.UserID)
		if err != nil {
			return err
		}
		if !party {
			return errors.NewForbiddenError("only the ticket owner or a participant can submit a trade")
		}

		tr, err := uc.tradeRepo.GetByTicketAndUser(txCtx, cmd.TicketID, cmd.UserID)
		if err != nil {
			if !errors.IsNotFoundError(err) {
				return err
			}
			tr, err = trade.NewTrade(cmd.TicketID, cmd.UserID)
			if err != nil {
				return errors.NewValidationError(err.Error())
			}
		}

		if tr.Confirmed() {
			if err := tr.ResetConfirmation(); err != nil {
				return errors.NewInvalidStateError(err.Error())
			}
			reset = true
		}

		if err := tr.UpdateItems(cmd.Items); err != nil {
			return errors.NewValidationError(err.Error())
		}
		if cmd.PartnerTag != "" {
			if err := tr.SetPartnerIdentity(cmd.PartnerTag, cmd.PartnerID); err != nil {
				return errors.NewValidationError(err.Error())
			}
		}

		if err := uc.tradeRepo.Upsert(txCtx, tr); err != nil {
			return errors.NewInternalError("failed to save trade")
		}

		// A data edit invalidates any agreement recorded since. The ticket
		// drops back to claimed and the closure ledger starts over.
		if reset {
			if err := uc.ledgerRepo.Clear(txCtx, t.ID()); err != nil {
				return errors.NewInternalError("failed to reset closure confirmations")
			}
			if t.Status().IsConfirmed() {
				if err := t.RevertToClaimed(); err != nil {
					return errors.NewInvalidStateError(err.Error())
				}
				if err := uc.ticketRepo.Update(txCtx, t); err != nil {
					return errors.NewInternalError("failed to update ticket")
				}
			}
		}

		current = t
		updated = tr
		return nil
	})
	if err != nil {
		return nil, err
	}

	trades, err := uc.tradeRepo.ListByTicket(ctx, current.ID())
	if err != nil {
		uc.logger.Warnw("failed to load trades for panel", "ticket_id", current.ID(), "error", err)
	}
	if err := uc.panelRenderer.RenderStatusPanel(ctx, buildStatusView(ctx, uc.chatGateway, current, trades, false)); err != nil {
		uc.logger.Warnw("status panel render failed", "ticket_id", current.ID(), "error", err)
	}

	if reset {
		uc.logger.Infow("trade edit reset confirmations",
			"ticket_id", cmd.TicketID, "user_id", cmd.UserID)
	}

	return &SubmitTradeResult{
		TicketID:          current.ID(),
		TradeStatus:       updated.Status().String(),
		ConfirmationReset: reset,
	}, nil
}

func (uc *SubmitTradeUseCase) isParty(ctx context.Context, t *ticket.Ticket, userID uint) (bool, error) {
	if t.OwnerID() == userID {
		return true, nil
	}
	participants, err := uc.participantRepo.ListByTicket(ctx, t.ID())
	if err != nil {
		return false, errors.NewInternalError("failed to load participants")
	}
	for _, p := range participants {
		if p.UserID() == userID {
			return true, nil
		}
	}
	return false, nil
}
