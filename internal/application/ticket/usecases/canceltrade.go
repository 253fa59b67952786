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

type CancelTradeCommand struct {
	TicketID uint
	UserID   uint
}

type CancelTradeResult struct {
	TicketID uint
	Status   string
}

// CancelTradeUseCase terminally withdraws a party's trade. Like a data
// edit, a cancellation invalidates any agreement already recorded, so a
// confirmed ticket reverts to claimed and the closure ledger resets.
type CancelTradeUseCase struct {
	ticketRepo    ticket.TicketRepository
	tradeRepo     trade.TradeRepository
	ledgerRepo    finalization.LedgerRepository
	txManager     db.Transactor
	chatGateway   ChatGateway
	panelRenderer PanelRenderer
	logger        logger.Interface
}

func NewCancelTradeUseCase(
	ticketRepo ticket.TicketRepository,
	tradeRepo trade.TradeRepository,
	ledgerRepo finalization.LedgerRepository,
	txManager db.Transactor,
	chatGateway ChatGateway,
	panelRenderer PanelRenderer,
	logger logger.Interface,
) *CancelTradeUseCase {
	return &CancelTradeUseCase{
		ticketRepo:    ticketRepo,
		tradeRepo:     tradeRepo,
		ledgerRepo:    ledgerRepo,
		txManager:     txManager,
		chatGateway:   chatGateway,
		panelRenderer: panelRenderer,
		logger:        logger,
	}
}

func (uc *CancelTradeUseCase) Execute(ctx context.Context, cmd CancelTradeCommand) (*CancelTradeResult, error) {
	var (
		current   *ticket.Ticket
		cancelled *trade.Trade
	)

	err := uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		t, err := uc.ticketRepo.GetByID(txCtx, cmd.TicketID)
		if err != nil {
			return err
		}
		if t.IsClosed() {
			return errors.NewInvalidStateError("ticket is closed")
		}

		tr, err := uc.tradeRepo.GetByTicketAndUser(txCtx, cmd.TicketID, cmd.UserID)
		if err != nil {
			return err
		}
		if err := tr.Cancel(); err != nil {
			return errors.NewInvalidStateError(err.Error())
		}
		if err := uc.tradeRepo.Update(txCtx, tr); err != nil {
			return errors.NewInternalError("failed to cancel trade")
		}

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

		current = t
		cancelled = tr
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

	uc.logger.Infow("trade cancelled", "ticket_id", cmd.TicketID, "user_id", cmd.UserID)

	return &CancelTradeResult{
		TicketID: current.ID(),
		Status:   cancelled.Status().String(),
	}, nil
}
