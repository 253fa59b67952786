package usecases

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradedesk/internal/application/panel"
	"tradedesk/internal/domain/claim"
	"tradedesk/internal/domain/ticket"
	"tradedesk/internal/domain/trade"
	"tradedesk/internal/shared/errors"
	"tradedesk/internal/shared/logger"
)

type closeFixture struct {
	ticket       *ticket.Ticket
	claim        *claim.Claim
	trades       []*trade.Trade
	confirmedIDs []uint
	panel        *mockPanelRenderer

	ledgerCleared bool
	statsBumped   bool
	statsPartner  string
	reviewInvite  string
}

func (f *closeFixture) useCase(t *testing.T) *CloseTicketUseCase {
	t.Helper()

	ticketRepo := &mockTicketRepo{
		GetByIDFn: func(ctx context.Context, id uint) (*ticket.Ticket, error) { return f.ticket, nil },
		UpdateFn:  func(ctx context.Context, tk *ticket.Ticket) error { return nil },
	}
	participantRepo := &mockParticipantRepo{
		ListByTicketFn: func(ctx context.Context, ticketID uint) ([]*ticket.Participant, error) {
			return quorumParticipants(ticketID), nil
		},
	}
	tradeRepo := &mockTradeRepo{
		ListByTicketFn: func(ctx context.Context, ticketID uint) ([]*trade.Trade, error) {
			return f.trades, nil
		},
		UpdateFn: func(ctx context.Context, tr *trade.Trade) error { return nil },
	}
	claimRepo := &mockClaimRepo{
		GetByTicketIDFn: func(ctx context.Context, ticketID uint) (*claim.Claim, error) { return f.claim, nil },
		UpdateFn:        func(ctx context.Context, cl *claim.Claim) error { return nil },
	}
	ledgerRepo := &mockLedgerRepo{
		ListFn: func(ctx context.Context, ticketID uint) ([]uint, error) { return f.confirmedIDs, nil },
		ClearFn: func(ctx context.Context, ticketID uint) error {
			f.ledgerCleared = true
			return nil
		},
	}
	statsRepo := &mockStatsRepo{
		IncrementCompletedFn: func(ctx context.Context, userID uint, partnerTag string, at time.Time) error {
			f.statsBumped = true
			f.statsPartner = partnerTag
			assert.Equal(t, f.claim.MiddlemanID(), userID)
			return nil
		},
	}
	gateway := &mockChatGateway{
		SendMessageFn: func(ctx context.Context, channelID, content string, attachment []byte) (string, error) {
			f.reviewInvite = content
			return "msg-1", nil
		},
		GetDisplayNameFn: func(ctx context.Context, userID uint) string {
			return fmt.Sprintf("user-%d", userID)
		},
	}

	panelRenderer := f.panel
	if panelRenderer == nil {
		panelRenderer = &mockPanelRenderer{}
	}

	return NewCloseTicketUseCase(ticketRepo, participantRepo, tradeRepo, claimRepo, ledgerRepo,
		statsRepo, &mockTxManager{}, gateway, panelRenderer, logger.NewNop())
}

func TestCloseTicket_DeferredUntilQuorumSatisfied(t *testing.T) {
	var rendered *panel.FinalizationView
	f := &closeFixture{
		ticket:       confirmedTicketFixture(1, 100, 500),
		claim:        claimFixture(1, 500),
		confirmedIDs: []uint{100},
		panel: &mockPanelRenderer{
			UpsertFinalizationPanelFn: func(ctx context.Context, channelID, messageID string, view panel.FinalizationView) (string, error) {
				rendered = &view
				return "fin-1", nil
			},
		},
	}

	result, err := f.useCase(t).Execute(context.Background(), CloseTicketCommand{TicketID: 1, RequesterID: 500})

	require.NoError(t, err)
	assert.True(t, result.Deferred)
	assert.False(t, result.Closed)
	assert.Equal(t, []uint{200}, result.Pending)
	assert.False(t, f.ticket.IsClosed())
	assert.False(t, f.statsBumped)

	// The deferral re-renders the finalization panel so everyone can see
	// who is still pending.
	require.NotNil(t, rendered)
	assert.False(t, rendered.Satisfied)
	require.Len(t, rendered.Members, 2)
	confirmedByName := map[string]bool{}
	for _, m := range rendered.Members {
		confirmedByName[m.UserName] = m.Confirmed
	}
	assert.True(t, confirmedByName["user-100"])
	assert.False(t, confirmedByName["user-200"])
	require.NotNil(t, f.claim.FinalizationMessageID())
	assert.Equal(t, "fin-1", *f.claim.FinalizationMessageID())
}

func TestCloseTicket_QuorumSatisfiedClosesEverything(t *testing.T) {
	tr1 := tradeFixture(1, 100, []string{"sword"}, true)
	tr2 := tradeFixture(1, 200, []string{"coins"}, true)
	require.NoError(t, tr2.SetPartnerIdentity("alice#1", nil))

	f := &closeFixture{
		ticket:       confirmedTicketFixture(1, 100, 500),
		claim:        claimFixture(1, 500),
		trades:       []*trade.Trade{tr1, tr2},
		confirmedIDs: []uint{100, 200},
	}

	result, err := f.useCase(t).Execute(context.Background(), CloseTicketCommand{TicketID: 1, RequesterID: 500})

	require.NoError(t, err)
	assert.True(t, result.Closed)
	assert.False(t, result.Deferred)
	assert.True(t, f.ticket.IsClosed())
	assert.True(t, f.claim.IsClosed())
	assert.False(t, f.claim.ForcedClose())
	assert.Equal(t, "completed", tr1.Status().String())
	assert.Equal(t, "completed", tr2.Status().String())
	assert.True(t, f.ledgerCleared)
	assert.True(t, f.statsBumped)
	assert.Equal(t, "alice#1", f.statsPartner)
	assert.Contains(t, f.reviewInvite, "review")
	assert.NotNil(t, f.claim.ReviewRequestedAt())
}

func TestCloseTicket_ForceSkipsQuorum(t *testing.T) {
	f := &closeFixture{
		ticket:       confirmedTicketFixture(1, 100, 500),
		claim:        claimFixture(1, 500),
		trades:       []*trade.Trade{tradeFixture(1, 100, []string{"sword"}, false)},
		confirmedIDs: nil,
	}

	result, err := f.useCase(t).Execute(context.Background(), CloseTicketCommand{TicketID: 1, RequesterID: 500, Force: true})

	require.NoError(t, err)
	assert.True(t, result.Closed)
	assert.True(t, result.Forced)
	assert.True(t, f.claim.ForcedClose())
	// The pending trade got its last-chance confirmation and completed.
	assert.Equal(t, "completed", f.trades[0].Status().String())
}

func TestCloseTicket_CancelledTradesStayCancelled(t *testing.T) {
	cancelled := tradeFixture(1, 100, []string{"sword"}, false)
	require.NoError(t, cancelled.Cancel())
	live := tradeFixture(1, 200, []string{"coins"}, true)

	f := &closeFixture{
		ticket:       confirmedTicketFixture(1, 100, 500),
		claim:        claimFixture(1, 500),
		trades:       []*trade.Trade{cancelled, live},
		confirmedIDs: []uint{100, 200},
	}

	result, err := f.useCase(t).Execute(context.Background(), CloseTicketCommand{TicketID: 1, RequesterID: 500})

	require.NoError(t, err)
	assert.True(t, result.Closed)
	assert.Equal(t, "cancelled", cancelled.Status().String())
	assert.Equal(t, "completed", live.Status().String())
}

func TestCloseTicket_OnlyMiddleman(t *testing.T) {
	f := &closeFixture{
		ticket: confirmedTicketFixture(1, 100, 500),
		claim:  claimFixture(1, 500),
	}

	_, err := f.useCase(t).Execute(context.Background(), CloseTicketCommand{TicketID: 1, RequesterID: 100})

	appErr := errors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrorTypeForbidden, appErr.Type)
}

func TestCloseTicket_AlreadyClosed(t *testing.T) {
	tk := confirmedTicketFixture(1, 100, 500)
	require.NoError(t, tk.Close())
	f := &closeFixture{ticket: tk, claim: claimFixture(1, 500)}

	_, err := f.useCase(t).Execute(context.Background(), CloseTicketCommand{TicketID: 1, RequesterID: 500})

	assert.True(t, errors.IsInvalidStateError(err))
}
