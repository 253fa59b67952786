package usecases

import (
	"context"

	"tradedesk/internal/domain/ticket"
	"tradedesk/internal/domain/trade"
	"tradedesk/internal/shared/db"
	"tradedesk/internal/shared/errors"
	"tradedesk/internal/shared/logger"
)

type ConfirmTradeCommand struct {
	TicketID uint
	UserID   uint
}

type ConfirmTradeResult struct {
	TicketID     uint
	AllConfirmed bool
}

// ConfirmTradeUseCase records one party's agreement with the declared trade
// data. When the last outstanding trade confirms, the ticket moves to
// confirmed in the same transaction.
type ConfirmTradeUseCase struct {
	ticketRepo    ticket.TicketRepository
	tradeRepo     trade.TradeRepository
	txManager     db.Transactor
	chatGateway   ChatGateway
	panelRenderer PanelRenderer
	logger        logger.Interface
}

func NewConfirmTradeUseCase(
	ticketRepo ticket.TicketRepository,
	tradeRepo trade.TradeRepository,
	txManager db.Transactor,
	chatGateway ChatGateway,
	panelRenderer PanelRenderer,
	logger logger.Interface,
) *ConfirmTradeUseCase {
	return &ConfirmTradeUseCase{
		ticketRepo:    ticketRepo,
		tradeRepo:     tradeRepo,
		txManager:     txManager,
		chatGateway:   chatGateway,
		panelRenderer: panelRenderer,
		logger:        logger,
	}
}

func (uc *ConfirmTradeUseCase) Execute(ctx context.Context, cmd ConfirmTradeCommand) (*ConfirmTradeResult, error) {
	var (
		current      *ticket.Ticket
		allConfirmed bool
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
			if errors.IsNotFoundError(err) {
				return errors.NewNotFoundError("submit your trade before confirming it")
			}
			return err
		}

		if err := tr.Confirm(); err != nil {
			return errors.NewInvalidStateError(err.Error())
		}
		if err := uc.tradeRepo.Update(txCtx, tr); err != nil {
			return errors.NewInternalError("failed to update trade")
		}

		trades, err := uc.tradeRepo.ListByTicket(txCtx, cmd.TicketID)
		if err != nil {
			return errors.NewInternalError("failed to load trades")
		}
		allConfirmed = everyTradeConfirmed(trades)

		if allConfirmed && t.Status().IsClaimed() {
			if err := t.MarkConfirmed(); err != nil {
				return errors.NewInvalidStateError(err.Error())
			}
			if err := uc.ticketRepo.Update(txCtx, t); err != nil {
				return errors.NewInternalError("failed to update ticket")
			}
		}

		current = t
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

	if allConfirmed {
		uc.notifyMiddleman(ctx, current)
	}

	return &ConfirmTradeResult{TicketID: current.ID(), AllConfirmed: allConfirmed}, nil
}

// everyTradeConfirmed ignores cancelled trades but requires at least one
// live confirmed trade, so an all-cancelled ticket never reads as agreed.
func everyTradeConfirmed(trades []*trade.Trade) bool {
	live := 0
	for _, tr := range trades {
		if tr.Status().IsTerminal() {
			continue
		}
		if !tr.Confirmed() {
			return false
		}
		live++
	}
	return live > 0
}

func (uc *ConfirmTradeUseCase) notifyMiddleman(ctx context.Context, t *ticket.Ticket) {
	if t.MiddlemanID() == nil {
		return
	}
	name := uc.chatGateway.GetDisplayName(ctx, *t.MiddlemanID())
	content := "All parties confirmed their trades, " + name + ". The ticket is ready to be finalized."
	if _, err := uc.chatGateway.SendMessage(ctx, t.ChannelID(), content, nil); err != nil {
		uc.logger.Warnw("failed to notify middleman", "ticket_id", t.ID(), "error", err)
	}
}
