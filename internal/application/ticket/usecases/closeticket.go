package usecases

import (
	"context"
	stderrors "errors"
	"time"

	"tradedesk/internal/domain/claim"
	"tradedesk/internal/domain/finalization"
	"tradedesk/internal/domain/stats"
	"tradedesk/internal/domain/ticket"
	"tradedesk/internal/domain/trade"
	"tradedesk/internal/shared/db"
	"tradedesk/internal/shared/errors"
	"tradedesk/internal/shared/logger"
)

type CloseTicketCommand struct {
	TicketID    uint
	RequesterID uint
	// Force skips the quorum gate. Reserved for staff cleaning up stuck
	// tickets; ordinary closes always wait for the full quorum.
	Force bool
}

type CloseTicketResult struct {
	TicketID uint
	Closed   bool
	// Deferred reports a close attempt that stopped at the quorum gate.
	// That outcome is an answer, not a failure.
	Deferred bool
	Pending  []uint
	Forced   bool
}

// CloseTicketUseCase runs the close transaction: completing the trades,
// closing the ticket and claim, wiping the finalization ledger, and bumping
// the middleman's stats commit or roll back together. Panel, review
// invitation, and notifications happen only after the commit.
type CloseTicketUseCase struct {
	ticketRepo      ticket.TicketRepository
	participantRepo ticket.ParticipantRepository
	tradeRepo       trade.TradeRepository
	claimRepo       claim.ClaimRepository
	ledgerRepo      finalization.LedgerRepository
	statsRepo       stats.StatsRepository
	txManager       db.Transactor
	chatGateway     ChatGateway
	panelRenderer   PanelRenderer
	logger          logger.Interface
}

func NewCloseTicketUseCase(
	ticketRepo ticket.TicketRepository,
	participantRepo ticket.ParticipantRepository,
	tradeRepo trade.TradeRepository,
	claimRepo claim.ClaimRepository,
	ledgerRepo finalization.LedgerRepository,
	statsRepo stats.StatsRepository,
	txManager db.Transactor,
	chatGateway ChatGateway,
	panelRenderer PanelRenderer,
	logger logger.Interface,
) *CloseTicketUseCase {
	return &CloseTicketUseCase{
		ticketRepo:      ticketRepo,
		participantRepo: participantRepo,
		tradeRepo:       tradeRepo,
		claimRepo:       claimRepo,
		ledgerRepo:      ledgerRepo,
		statsRepo:       statsRepo,
		txManager:       txManager,
		chatGateway:     chatGateway,
		panelRenderer:   panelRenderer,
		logger:          logger,
	}
}

func (uc *CloseTicketUseCase) Execute(ctx context.Context, cmd CloseTicketCommand) (*CloseTicketResult, error) {
	var (
		closed      *ticket.Ticket
		closedClaim *claim.Claim
	)

	err := uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		t, err := uc.ticketRepo.GetByID(txCtx, cmd.TicketID)
		if err != nil {
			return err
		}
		if t.IsClosed() {
			return errors.NewInvalidStateError("ticket is already closed")
		}
		if !t.IsClaimedBy(cmd.RequesterID) {
			return errors.NewForbiddenError("only the claiming middleman can close the ticket")
		}

		if !cmd.Force {
			gate, err := uc.quorumGate(txCtx, t)
			if err != nil {
				return err
			}
			if gate != nil {
				return gate
			}
		}

		trades, err := uc.tradeRepo.ListByTicket(txCtx, cmd.TicketID)
		if err != nil {
			return errors.NewInternalError("failed to load trades")
		}
		partnerTag := firstPartnerTag(trades)
		for _, tr := range trades {
			if tr.Status().IsTerminal() {
				continue
			}
			// Pending trades get a last-chance confirm here so a forced
			// close still completes what both sides already declared.
			if !tr.CanBeCompleted() {
				if err := tr.Confirm(); err != nil {
					return errors.NewInvalidStateError(err.Error())
				}
			}
			if err := tr.Complete(); err != nil {
				return errors.NewInvalidStateError(err.Error())
			}
			if err := uc.tradeRepo.Update(txCtx, tr); err != nil {
				return errors.NewInternalError("failed to complete trade")
			}
		}

		if err := t.Close(); err != nil {
			return errors.NewInvalidStateError(err.Error())
		}
		if err := uc.ticketRepo.Update(txCtx, t); err != nil {
			return errors.NewInternalError("failed to close ticket")
		}

		cl, err := uc.claimRepo.GetByTicketID(txCtx, cmd.TicketID)
		if err != nil {
			return err
		}
		if err := cl.MarkClosed(cmd.Force); err != nil {
			return errors.NewInvalidStateError(err.Error())
		}
		if err := uc.claimRepo.Update(txCtx, cl); err != nil {
			return errors.NewInternalError("failed to close claim")
		}

		if err := uc.ledgerRepo.Clear(txCtx, cmd.TicketID); err != nil {
			return errors.NewInternalError("failed to clear closure confirmations")
		}

		if err := uc.statsRepo.IncrementCompleted(txCtx, cl.MiddlemanID(), partnerTag, time.Now().UTC()); err != nil {
			return errors.NewInternalError("failed to update middleman stats")
		}

		closed = t
		closedClaim = cl
		return nil
	})
	if err != nil {
		var deferred *closeDeferred
		if stderrors.As(err, &deferred) {
			// Show the parties who is still pending before reporting the
			// deferral back to the middleman.
			uc.refreshFinalizationPanel(ctx, deferred.ticket, deferred.quorum, deferred.confirmed)
			return &CloseTicketResult{
				TicketID: cmd.TicketID,
				Deferred: true,
				Pending:  deferred.pending,
			}, nil
		}
		return nil, err
	}

	uc.afterClose(ctx, closed, closedClaim, cmd.Force)

	uc.logger.Infow("ticket closed",
		"ticket_id", closed.ID(),
		"middleman_id", cmd.RequesterID,
		"forced", cmd.Force)

	return &CloseTicketResult{TicketID: closed.ID(), Closed: true, Forced: cmd.Force}, nil
}

// quorumGate returns a closeDeferred when the close must wait for more
// confirmations, nil when the quorum is satisfied.
func (uc *CloseTicketUseCase) quorumGate(ctx context.Context, t *ticket.Ticket) (*closeDeferred, error) {
	participants, err := uc.participantRepo.ListByTicket(ctx, t.ID())
	if err != nil {
		return nil, errors.NewInternalError("failed to load participants")
	}
	quorum := finalization.NewQuorum(t.OwnerID(), participants)

	confirmed, err := uc.ledgerRepo.List(ctx, t.ID())
	if err != nil {
		return nil, errors.NewInternalError("failed to load closure confirmations")
	}

	if quorum.IsSatisfiedBy(confirmed) {
		return nil, nil
	}
	_, pending := quorum.Partition(confirmed)
	return &closeDeferred{
		ticket:    t,
		quorum:    quorum,
		confirmed: confirmed,
		pending:   pending,
	}, nil
}

// refreshFinalizationPanel mirrors the panel upkeep done on each
// confirmation, so a deferred close leaves the pending list visible.
func (uc *CloseTicketUseCase) refreshFinalizationPanel(ctx context.Context, t *ticket.Ticket, quorum finalization.Quorum, confirmed []uint) {
	cl, err := uc.claimRepo.GetByTicketID(ctx, t.ID())
	if err != nil {
		uc.logger.Warnw("failed to load claim for finalization panel", "ticket_id", t.ID(), "error", err)
		return
	}

	messageID := ""
	if id := cl.FinalizationMessageID(); id != nil {
		messageID = *id
	}

	view := buildFinalizationView(ctx, uc.chatGateway, t.ID(), quorum.Members(), confirmed, false)
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

// afterClose handles the best-effort tail: final panel, review invitation,
// and the review-requested stamp. None of it can undo the committed close.
func (uc *CloseTicketUseCase) afterClose(ctx context.Context, t *ticket.Ticket, cl *claim.Claim, forced bool) {
	trades, err := uc.tradeRepo.ListByTicket(ctx, t.ID())
	if err != nil {
		uc.logger.Warnw("failed to load trades for final panel", "ticket_id", t.ID(), "error", err)
	}
	if err := uc.panelRenderer.RenderStatusPanel(ctx, buildStatusView(ctx, uc.chatGateway, t, trades, forced)); err != nil {
		uc.logger.Warnw("final panel render failed", "ticket_id", t.ID(), "error", err)
	}

	ownerName := uc.chatGateway.GetDisplayName(ctx, t.OwnerID())
	invite := "Ticket closed. " + ownerName + ", please leave a review for your middleman."
	if _, err := uc.chatGateway.SendMessage(ctx, t.ChannelID(), invite, nil); err != nil {
		uc.logger.Warnw("review invitation failed", "ticket_id", t.ID(), "error", err)
		return
	}

	cl.MarkReviewRequested()
	if err := uc.claimRepo.Update(ctx, cl); err != nil {
		uc.logger.Warnw("failed to stamp review request", "ticket_id", t.ID(), "error", err)
	}
}

func firstPartnerTag(trades []*trade.Trade) string {
	for _, tr := range trades {
		if tag := tr.PartnerTag(); tag != "" {
			return tag
		}
	}
	return ""
}

// closeDeferred carries the quorum-gate outcome out of the transaction
// callback so the transaction rolls back cleanly without surfacing an error
// to the caller.
type closeDeferred struct {
	ticket    *ticket.Ticket
	quorum    finalization.Quorum
	confirmed []uint
	pending   []uint
}

func (e *closeDeferred) Error() string {
	return "close deferred pending quorum confirmations"
}
