package usecases

import (
	"context"
	"time"

	"tradedesk/internal/application/panel"
	"tradedesk/internal/domain/claim"
	"tradedesk/internal/domain/review"
	"tradedesk/internal/domain/stats"
	"tradedesk/internal/domain/ticket"
	vo "tradedesk/internal/domain/ticket/valueobjects"
	"tradedesk/internal/domain/trade"
	"tradedesk/internal/shared/errors"
)

type mockTicketRepo struct {
	SaveFn             func(ctx context.Context, t *ticket.Ticket) error
	UpdateFn           func(ctx context.Context, t *ticket.Ticket) error
	GetByIDFn          func(ctx context.Context, ticketID uint) (*ticket.Ticket, error)
	GetByChannelIDFn   func(ctx context.Context, channelID string) (*ticket.Ticket, error)
	CountOpenByOwnerFn func(ctx context.Context, ownerID uint) (int64, error)
	DeleteFn           func(ctx context.Context, ticketID uint) error
}

func (m *mockTicketRepo) Save(ctx context.Context, t *ticket.Ticket) error {
	return m.SaveFn(ctx, t)
}

func (m *mockTicketRepo) Update(ctx context.Context, t *ticket.Ticket) error {
	if m.UpdateFn == nil {
		return nil
	}
	return m.UpdateFn(ctx, t)
}

func (m *mockTicketRepo) GetByID(ctx context.Context, ticketID uint) (*ticket.Ticket, error) {
	return m.GetByIDFn(ctx, ticketID)
}

func (m *mockTicketRepo) GetByChannelID(ctx context.Context, channelID string) (*ticket.Ticket, error) {
	return m.GetByChannelIDFn(ctx, channelID)
}

func (m *mockTicketRepo) CountOpenByOwner(ctx context.Context, ownerID uint) (int64, error) {
	return m.CountOpenByOwnerFn(ctx, ownerID)
}

func (m *mockTicketRepo) Delete(ctx context.Context, ticketID uint) error {
	if m.DeleteFn == nil {
		return nil
	}
	return m.DeleteFn(ctx, ticketID)
}

type mockParticipantRepo struct {
	AddFn            func(ctx context.Context, p *ticket.Participant) error
	ListByTicketFn   func(ctx context.Context, ticketID uint) ([]*ticket.Participant, error)
	RemoveByTicketFn func(ctx context.Context, ticketID uint) error
}

func (m *mockParticipantRepo) Add(ctx context.Context, p *ticket.Participant) error {
	if m.AddFn == nil {
		return nil
	}
	return m.AddFn(ctx, p)
}

func (m *mockParticipantRepo) ListByTicket(ctx context.Context, ticketID uint) ([]*ticket.Participant, error) {
	if m.ListByTicketFn == nil {
		return nil, nil
	}
	return m.ListByTicketFn(ctx, ticketID)
}

func (m *mockParticipantRepo) RemoveByTicket(ctx context.Context, ticketID uint) error {
	if m.RemoveByTicketFn == nil {
		return nil
	}
	return m.RemoveByTicketFn(ctx, ticketID)
}

type mockTradeRepo struct {
	UpsertFn             func(ctx context.Context, tr *trade.Trade) error
	UpdateFn             func(ctx context.Context, tr *trade.Trade) error
	GetByTicketAndUserFn func(ctx context.Context, ticketID, userID uint) (*trade.Trade, error)
	ListByTicketFn       func(ctx context.Context, ticketID uint) ([]*trade.Trade, error)
}

func (m *mockTradeRepo) Upsert(ctx context.Context, tr *trade.Trade) error {
	return m.UpsertFn(ctx, tr)
}

func (m *mockTradeRepo) Update(ctx context.Context, tr *trade.Trade) error {
	if m.UpdateFn == nil {
		return nil
	}
	return m.UpdateFn(ctx, tr)
}

func (m *mockTradeRepo) GetByTicketAndUser(ctx context.Context, ticketID, userID uint) (*trade.Trade, error) {
	return m.GetByTicketAndUserFn(ctx, ticketID, userID)
}

func (m *mockTradeRepo) ListByTicket(ctx context.Context, ticketID uint) ([]*trade.Trade, error) {
	if m.ListByTicketFn == nil {
		return nil, nil
	}
	return m.ListByTicketFn(ctx, ticketID)
}

type mockClaimRepo struct {
	CreateFn        func(ctx context.Context, cl *claim.Claim) error
	UpdateFn        func(ctx context.Context, cl *claim.Claim) error
	GetByTicketIDFn func(ctx context.Context, ticketID uint) (*claim.Claim, error)
}

func (m *mockClaimRepo) Create(ctx context.Context, cl *claim.Claim) error {
	return m.CreateFn(ctx, cl)
}

func (m *mockClaimRepo) Update(ctx context.Context, cl *claim.Claim) error {
	if m.UpdateFn == nil {
		return nil
	}
	return m.UpdateFn(ctx, cl)
}

func (m *mockClaimRepo) GetByTicketID(ctx context.Context, ticketID uint) (*claim.Claim, error) {
	return m.GetByTicketIDFn(ctx, ticketID)
}

type mockLedgerRepo struct {
	ConfirmFn func(ctx context.Context, ticketID, userID uint) (bool, error)
	RevokeFn  func(ctx context.Context, ticketID, userID uint) (bool, error)
	ListFn    func(ctx context.Context, ticketID uint) ([]uint, error)
	ClearFn   func(ctx context.Context, ticketID uint) error
}

func (m *mockLedgerRepo) Confirm(ctx context.Context, ticketID, userID uint) (bool, error) {
	return m.ConfirmFn(ctx, ticketID, userID)
}

func (m *mockLedgerRepo) Revoke(ctx context.Context, ticketID, userID uint) (bool, error) {
	return m.RevokeFn(ctx, ticketID, userID)
}

func (m *mockLedgerRepo) List(ctx context.Context, ticketID uint) ([]uint, error) {
	return m.ListFn(ctx, ticketID)
}

func (m *mockLedgerRepo) Clear(ctx context.Context, ticketID uint) error {
	if m.ClearFn == nil {
		return nil
	}
	return m.ClearFn(ctx, ticketID)
}

type mockReviewRepo struct {
	CreateFn              func(ctx context.Context, rv *review.Review) error
	ListByMiddlemanFn     func(ctx context.Context, middlemanID uint) ([]*review.Review, error)
	AverageForMiddlemanFn func(ctx context.Context, middlemanID uint) (*review.RatingSummary, error)
}

func (m *mockReviewRepo) Create(ctx context.Context, rv *review.Review) error {
	return m.CreateFn(ctx, rv)
}

func (m *mockReviewRepo) ListByMiddleman(ctx context.Context, middlemanID uint) ([]*review.Review, error) {
	return m.ListByMiddlemanFn(ctx, middlemanID)
}

func (m *mockReviewRepo) AverageForMiddleman(ctx context.Context, middlemanID uint) (*review.RatingSummary, error) {
	return m.AverageForMiddlemanFn(ctx, middlemanID)
}

type mockStatsRepo struct {
	IncrementCompletedFn func(ctx context.Context, userID uint, partnerTag string, at time.Time) error
	GetByUserFn          func(ctx context.Context, userID uint) (*stats.MemberTradeStats, error)
}

func (m *mockStatsRepo) IncrementCompleted(ctx context.Context, userID uint, partnerTag string, at time.Time) error {
	if m.IncrementCompletedFn == nil {
		return nil
	}
	return m.IncrementCompletedFn(ctx, userID, partnerTag, at)
}

func (m *mockStatsRepo) GetByUser(ctx context.Context, userID uint) (*stats.MemberTradeStats, error) {
	return m.GetByUserFn(ctx, userID)
}

// mockTxManager runs the callback inline so repository mocks observe the
// same context the use-case passed in.
type mockTxManager struct{}

func (m *mockTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type mockChatGateway struct {
	CreateChannelFn     func(ctx context.Context, guildID, name string, memberIDs []uint) (string, error)
	DeleteChannelFn     func(ctx context.Context, channelID string) error
	SendMessageFn       func(ctx context.Context, channelID, content string, attachment []byte) (string, error)
	SetSendPermissionFn func(ctx context.Context, channelID string, userID uint, allow bool) error
	GetDisplayNameFn    func(ctx context.Context, userID uint) string
}

func (m *mockChatGateway) CreateChannel(ctx context.Context, guildID, name string, memberIDs []uint) (string, error) {
	return m.CreateChannelFn(ctx, guildID, name, memberIDs)
}

func (m *mockChatGateway) DeleteChannel(ctx context.Context, channelID string) error {
	if m.DeleteChannelFn == nil {
		return nil
	}
	return m.DeleteChannelFn(ctx, channelID)
}

func (m *mockChatGateway) SendMessage(ctx context.Context, channelID, content string, attachment []byte) (string, error) {
	if m.SendMessageFn == nil {
		return "msg-1", nil
	}
	return m.SendMessageFn(ctx, channelID, content, attachment)
}

func (m *mockChatGateway) SetSendPermission(ctx context.Context, channelID string, userID uint, allow bool) error {
	if m.SetSendPermissionFn == nil {
		return nil
	}
	return m.SetSendPermissionFn(ctx, channelID, userID, allow)
}

func (m *mockChatGateway) GetDisplayName(ctx context.Context, userID uint) string {
	if m.GetDisplayNameFn == nil {
		return "someone"
	}
	return m.GetDisplayNameFn(ctx, userID)
}

type mockPanelRenderer struct {
	RenderStatusPanelFn       func(ctx context.Context, view panel.StatusView) error
	UpsertFinalizationPanelFn func(ctx context.Context, channelID, messageID string, view panel.FinalizationView) (string, error)
}

func (m *mockPanelRenderer) RenderStatusPanel(ctx context.Context, view panel.StatusView) error {
	if m.RenderStatusPanelFn == nil {
		return nil
	}
	return m.RenderStatusPanelFn(ctx, view)
}

func (m *mockPanelRenderer) UpsertFinalizationPanel(ctx context.Context, channelID, messageID string, view panel.FinalizationView) (string, error) {
	if m.UpsertFinalizationPanelFn == nil {
		return messageID, nil
	}
	return m.UpsertFinalizationPanelFn(ctx, channelID, messageID, view)
}

type mockCooldownStore struct {
	TryAcquireFn func(ctx context.Context, userID uint) (bool, error)
	ReleaseFn    func(ctx context.Context, userID uint) error
}

func (m *mockCooldownStore) TryAcquire(ctx context.Context, userID uint) (bool, error) {
	if m.TryAcquireFn == nil {
		return true, nil
	}
	return m.TryAcquireFn(ctx, userID)
}

func (m *mockCooldownStore) Release(ctx context.Context, userID uint) error {
	if m.ReleaseFn == nil {
		return nil
	}
	return m.ReleaseFn(ctx, userID)
}

// Test fixtures shared by the lifecycle tests.

func openTicketFixture(id uint, ownerID uint) *ticket.Ticket {
	t, err := ticket.NewTicket("guild-1", ownerID, "trade")
	if err != nil {
		panic(err)
	}
	if err := t.SetID(id); err != nil {
		panic(err)
	}
	if err := t.AttachChannel("chan-1"); err != nil {
		panic(err)
	}
	return t
}

func claimedTicketFixture(id, ownerID, middlemanID uint) *ticket.Ticket {
	t := openTicketFixture(id, ownerID)
	if err := t.Claim(middlemanID); err != nil {
		panic(err)
	}
	return t
}

func confirmedTicketFixture(id, ownerID, middlemanID uint) *ticket.Ticket {
	t := claimedTicketFixture(id, ownerID, middlemanID)
	if err := t.MarkConfirmed(); err != nil {
		panic(err)
	}
	return t
}

func participantFixture(ticketID, userID uint, role string) *ticket.Participant {
	p, err := ticket.NewParticipant(ticketID, userID, mustRole(role))
	if err != nil {
		panic(err)
	}
	return p
}

func tradeFixture(ticketID, userID uint, items []string, confirmed bool) *trade.Trade {
	tr, err := trade.NewTrade(ticketID, userID)
	if err != nil {
		panic(err)
	}
	if err := tr.UpdateItems(items); err != nil {
		panic(err)
	}
	if confirmed {
		if err := tr.Confirm(); err != nil {
			panic(err)
		}
	}
	return tr
}

func claimFixture(ticketID, middlemanID uint) *claim.Claim {
	cl, err := claim.NewClaim(ticketID, middlemanID)
	if err != nil {
		panic(err)
	}
	return cl
}

func mustRole(s string) vo.ParticipantRole {
	r, err := vo.NewParticipantRole(s)
	if err != nil {
		panic(err)
	}
	return r
}

func notFoundErr() error {
	return errors.NewNotFoundError("not found")
}
