package usecases

import (
	"context"
	"fmt"

	"tradedesk/internal/domain/ticket"
	vo "tradedesk/internal/domain/ticket/valueobjects"
	sharedconfig "tradedesk/internal/shared/config"
	"tradedesk/internal/shared/db"
	"tradedesk/internal/shared/errors"
	"tradedesk/internal/shared/logger"
)

type ParticipantInput struct {
	UserID uint
	Role   string
}

type OpenTicketCommand struct {
	GuildID      string
	OwnerID      uint
	TicketType   string
	Participants []ParticipantInput
}

type OpenTicketResult struct {
	TicketID  uint
	ChannelID string
	Status    string
}

// OpenTicketUseCase creates the ticket, its participant roster, and the
// private channel. The per-owner open cap is checked inside the same
// transaction that inserts the ticket so two concurrent opens cannot both
// squeeze under the cap.
type OpenTicketUseCase struct {
	ticketRepo      ticket.TicketRepository
	participantRepo ticket.ParticipantRepository
	txManager       db.Transactor
	cooldown        CooldownStore
	chatGateway     ChatGateway
	panelRenderer   PanelRenderer
	tradeCfg        sharedconfig.TradeConfig
	logger          logger.Interface
}

func NewOpenTicketUseCase(
	ticketRepo ticket.TicketRepository,
	participantRepo ticket.ParticipantRepository,
	txManager db.Transactor,
	cooldown CooldownStore,
	chatGateway ChatGateway,
	panelRenderer PanelRenderer,
	tradeCfg sharedconfig.TradeConfig,
	logger logger.Interface,
) *OpenTicketUseCase {
	return &OpenTicketUseCase{
		ticketRepo:      ticketRepo,
		participantRepo: participantRepo,
		txManager:       txManager,
		cooldown:        cooldown,
		chatGateway:     chatGateway,
		panelRenderer:   panelRenderer,
		tradeCfg:        tradeCfg,
		logger:          logger,
	}
}

func (uc *OpenTicketUseCase) Execute(ctx context.Context, cmd OpenTicketCommand) (*OpenTicketResult, error) {
	ticketType, err := vo.NewTicketType(cmd.TicketType)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	acquired, err := uc.cooldown.TryAcquire(ctx, cmd.OwnerID)
	if err != nil {
		uc.logger.Warnw("cooldown check failed, allowing open", "owner_id", cmd.OwnerID, "error", err)
	} else if !acquired {
		return nil, errors.NewResourceExhaustedError("you are opening tickets too quickly, try again shortly")
	}

	newTicket, err := ticket.NewTicket(cmd.GuildID, cmd.OwnerID, ticketType)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	participants, err := uc.buildRoster(cmd)
	if err != nil {
		return nil, err
	}

	err = uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		open, err := uc.ticketRepo.CountOpenByOwner(txCtx, cmd.OwnerID)
		if err != nil {
			return errors.NewInternalError("failed to count open tickets")
		}
		if cap := uc.tradeCfg.MaxOpenTicketsPerUser; cap > 0 && open >= int64(cap) {
			return errors.NewResourceExhaustedError(
				fmt.Sprintf("you already have %d open tickets, close one first", open))
		}

		if err := uc.ticketRepo.Save(txCtx, newTicket); err != nil {
			return errors.NewInternalError("failed to create ticket")
		}

		for _, p := range participants {
			entity, err := ticket.NewParticipant(newTicket.ID(), p.UserID, p.role)
			if err != nil {
				return errors.NewValidationError(err.Error())
			}
			if err := uc.participantRepo.Add(txCtx, entity); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		// Free the cooldown slot so a rejected open does not also cost
		// the retry window.
		if relErr := uc.cooldown.Release(ctx, cmd.OwnerID); relErr != nil {
			uc.logger.Warnw("cooldown release failed", "owner_id", cmd.OwnerID, "error", relErr)
		}
		return nil, err
	}

	channelID, err := uc.chatGateway.CreateChannel(ctx,
		cmd.GuildID,
		fmt.Sprintf("ticket-%d", newTicket.ID()),
		memberIDs(participants))
	if err != nil {
		uc.logger.Errorw("channel creation failed after ticket insert",
			"ticket_id", newTicket.ID(), "error", err)
		return nil, uc.discardTicket(ctx, newTicket,
			errors.NewInternalError("failed to create ticket channel"))
	}

	if err := newTicket.AttachChannel(channelID); err != nil {
		return nil, uc.cleanupChannel(ctx, channelID, errors.NewInternalError(err.Error()))
	}
	if err := uc.ticketRepo.Update(ctx, newTicket); err != nil {
		return nil, uc.cleanupChannel(ctx, channelID, errors.NewInternalError("failed to attach channel"))
	}

	if err := uc.panelRenderer.RenderStatusPanel(ctx, buildStatusView(ctx, uc.chatGateway, newTicket, nil, false)); err != nil {
		uc.logger.Warnw("status panel render failed", "ticket_id", newTicket.ID(), "error", err)
	}

	uc.logger.Infow("ticket opened",
		"ticket_id", newTicket.ID(),
		"owner_id", cmd.OwnerID,
		"channel_id", channelID,
		"type", ticketType.String())

	return &OpenTicketResult{
		TicketID:  newTicket.ID(),
		ChannelID: channelID,
		Status:    newTicket.Status().String(),
	}, nil
}

type rosterEntry struct {
	UserID uint
	role   vo.ParticipantRole
}

// buildRoster resolves roles and puts the owner on the roster exactly once.
func (uc *OpenTicketUseCase) buildRoster(cmd OpenTicketCommand) ([]rosterEntry, error) {
	roster := []rosterEntry{{UserID: cmd.OwnerID, role: vo.RoleOwner}}
	seen := map[uint]struct{}{cmd.OwnerID: {}}

	for _, p := range cmd.Participants {
		if _, dup := seen[p.UserID]; dup {
			continue
		}
		role, err := vo.NewParticipantRole(p.Role)
		if err != nil {
			return nil, errors.NewValidationError(err.Error())
		}
		roster = append(roster, rosterEntry{UserID: p.UserID, role: role})
		seen[p.UserID] = struct{}{}
	}

	return roster, nil
}

func memberIDs(roster []rosterEntry) []uint {
	ids := make([]uint, 0, len(roster))
	for _, r := range roster {
		ids = append(ids, r.UserID)
	}
	return ids
}

// discardTicket removes the committed ticket row and its roster when the
// channel could not be created, then gives the cooldown slot back. Without
// this the phantom ticket would keep counting against the owner's open cap.
func (uc *OpenTicketUseCase) discardTicket(ctx context.Context, t *ticket.Ticket, original error) error {
	err := uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := uc.participantRepo.RemoveByTicket(txCtx, t.ID()); err != nil {
			return err
		}
		return uc.ticketRepo.Delete(txCtx, t.ID())
	})
	if err != nil {
		uc.logger.Errorw("compensating ticket delete failed",
			"ticket_id", t.ID(), "error", err)
		return errors.WrapCleanupFailure(original, err)
	}

	if relErr := uc.cooldown.Release(ctx, t.OwnerID()); relErr != nil {
		uc.logger.Warnw("cooldown release failed", "owner_id", t.OwnerID(), "error", relErr)
	}
	return original
}

// cleanupChannel tears down the orphaned channel when a step after channel
// creation fails. A failed teardown is folded into the returned error so
// operators see both faults.
func (uc *OpenTicketUseCase) cleanupChannel(ctx context.Context, channelID string, original error) error {
	if err := uc.chatGateway.DeleteChannel(ctx, channelID); err != nil {
		uc.logger.Errorw("compensating channel delete failed",
			"channel_id", channelID, "error", err)
		return errors.WrapCleanupFailure(original, err)
	}
	return original
}
