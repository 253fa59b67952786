package usecases

import (
	"context"
	stderrors "errors"

	"tradedesk/internal/domain/claim"
	"tradedesk/internal/domain/ticket"
	"tradedesk/internal/domain/trade"
	"tradedesk/internal/shared/db"
	"tradedesk/internal/shared/errors"
	"tradedesk/internal/shared/logger"
)

type ClaimTicketCommand struct {
	TicketID    uint
	MiddlemanID uint
}

type ClaimTicketResult struct {
	TicketID    uint
	MiddlemanID uint
	Status      string
}

// ClaimTicketUseCase assigns a middleman to an open ticket. The claim
// insert and the ticket status change share one transaction; the claim
// table's per-ticket uniqueness is what makes two racing claims resolve to
// exactly one winner.
type ClaimTicketUseCase struct {
	ticketRepo    ticket.TicketRepository
	claimRepo     claim.ClaimRepository
	tradeRepo     trade.TradeRepository
	txManager     db.Transactor
	chatGateway   ChatGateway
	panelRenderer PanelRenderer
	logger        logger.Interface
}

func NewClaimTicketUseCase(
	ticketRepo ticket.TicketRepository,
	claimRepo claim.ClaimRepository,
	tradeRepo trade.TradeRepository,
	txManager db.Transactor,
	chatGateway ChatGateway,
	panelRenderer PanelRenderer,
	logger logger.Interface,
) *ClaimTicketUseCase {
	return &ClaimTicketUseCase{
		ticketRepo:    ticketRepo,
		claimRepo:     claimRepo,
		tradeRepo:     tradeRepo,
		txManager:     txManager,
		chatGateway:   chatGateway,
		panelRenderer: panelRenderer,
		logger:        logger,
	}
}

func (uc *ClaimTicketUseCase) Execute(ctx context.Context, cmd ClaimTicketCommand) (*ClaimTicketResult, error) {
	var claimed *ticket.Ticket

	err := uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		t, err := uc.ticketRepo.GetByID(txCtx, cmd.TicketID)
		if err != nil {
			return err
		}

		if err := t.Claim(cmd.MiddlemanID); err != nil {
			return errors.NewInvalidStateError(err.Error())
		}

		newClaim, err := claim.NewClaim(t.ID(), cmd.MiddlemanID)
		if err != nil {
			return errors.NewValidationError(err.Error())
		}
		if err := uc.claimRepo.Create(txCtx, newClaim); err != nil {
			if stderrors.Is(err, claim.ErrAlreadyClaimed) {
				return errors.NewConflictError("ticket is already claimed by another middleman")
			}
			return errors.NewInternalError("failed to record claim")
		}

		if err := uc.ticketRepo.Update(txCtx, t); err != nil {
			return errors.NewInternalError("failed to update ticket")
		}

		claimed = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := uc.chatGateway.SetSendPermission(ctx, claimed.ChannelID(), cmd.MiddlemanID, true); err != nil {
		uc.logger.Warnw("failed to grant middleman channel access",
			"ticket_id", claimed.ID(), "middleman_id", cmd.MiddlemanID, "error", err)
	}

	trades, err := uc.tradeRepo.ListByTicket(ctx, claimed.ID())
	if err != nil {
		uc.logger.Warnw("failed to load trades for panel", "ticket_id", claimed.ID(), "error", err)
	}
	if err := uc.panelRenderer.RenderStatusPanel(ctx, buildStatusView(ctx, uc.chatGateway, claimed, trades, false)); err != nil {
		uc.logger.Warnw("status panel render failed", "ticket_id", claimed.ID(), "error", err)
	}

	uc.logger.Infow("ticket claimed", "ticket_id", claimed.ID(), "middleman_id", cmd.MiddlemanID)

	return &ClaimTicketResult{
		TicketID:    claimed.ID(),
		MiddlemanID: cmd.MiddlemanID,
		Status:      claimed.Status().String(),
	}, nil
}
