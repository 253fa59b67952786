package usecases

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradedesk/internal/domain/ticket"
	sharedconfig "tradedesk/internal/shared/config"
	"tradedesk/internal/shared/errors"
	"tradedesk/internal/shared/logger"
)

func newOpenTicketUseCase(
	ticketRepo *mockTicketRepo,
	participantRepo *mockParticipantRepo,
	cooldown *mockCooldownStore,
	gateway *mockChatGateway,
	renderer *mockPanelRenderer,
	cfg sharedconfig.TradeConfig,
) *OpenTicketUseCase {
	return NewOpenTicketUseCase(
		ticketRepo, participantRepo, &mockTxManager{}, cooldown, gateway, renderer, cfg, logger.NewNop())
}

func TestOpenTicket_Success(t *testing.T) {
	var savedRoster []*ticket.Participant
	ticketRepo := &mockTicketRepo{
		CountOpenByOwnerFn: func(ctx context.Context, ownerID uint) (int64, error) { return 0, nil },
		SaveFn: func(ctx context.Context, tk *ticket.Ticket) error {
			return tk.SetID(42)
		},
		UpdateFn: func(ctx context.Context, tk *ticket.Ticket) error { return nil },
	}
	participantRepo := &mockParticipantRepo{
		AddFn: func(ctx context.Context, p *ticket.Participant) error {
			savedRoster = append(savedRoster, p)
			return nil
		},
	}
	var channelMembers []uint
	gateway := &mockChatGateway{
		CreateChannelFn: func(ctx context.Context, guildID, name string, memberIDs []uint) (string, error) {
			channelMembers = memberIDs
			assert.Equal(t, "ticket-42", name)
			return "chan-42", nil
		},
	}

	uc := newOpenTicketUseCase(ticketRepo, participantRepo, &mockCooldownStore{}, gateway, &mockPanelRenderer{},
		sharedconfig.TradeConfig{MaxOpenTicketsPerUser: 3})

	result, err := uc.Execute(context.Background(), OpenTicketCommand{
		GuildID:    "guild-1",
		OwnerID:    100,
		TicketType: "trade",
		Participants: []ParticipantInput{
			{UserID: 200, Role: "partner"},
			{UserID: 300, Role: "observer"},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, uint(42), result.TicketID)
	assert.Equal(t, "chan-42", result.ChannelID)
	assert.Equal(t, "open", result.Status)
	assert.Len(t, savedRoster, 3)
	assert.Equal(t, []uint{100, 200, 300}, channelMembers)
}

func TestOpenTicket_OwnerListedOnceEvenWhenRepeated(t *testing.T) {
	var roster []*ticket.Participant
	ticketRepo := &mockTicketRepo{
		CountOpenByOwnerFn: func(ctx context.Context, ownerID uint) (int64, error) { return 0, nil },
		SaveFn:             func(ctx context.Context, tk *ticket.Ticket) error { return tk.SetID(1) },
	}
	participantRepo := &mockParticipantRepo{
		AddFn: func(ctx context.Context, p *ticket.Participant) error {
			roster = append(roster, p)
			return nil
		},
	}
	gateway := &mockChatGateway{
		CreateChannelFn: func(ctx context.Context, guildID, name string, memberIDs []uint) (string, error) {
			return "chan-1", nil
		},
	}

	uc := newOpenTicketUseCase(ticketRepo, participantRepo, &mockCooldownStore{}, gateway, &mockPanelRenderer{},
		sharedconfig.TradeConfig{})

	_, err := uc.Execute(context.Background(), OpenTicketCommand{
		GuildID:      "guild-1",
		OwnerID:      100,
		TicketType:   "trade",
		Participants: []ParticipantInput{{UserID: 100, Role: "trader"}},
	})

	require.NoError(t, err)
	require.Len(t, roster, 1)
	assert.Equal(t, "owner", roster[0].Role().String())
}

func TestOpenTicket_CooldownBlocks(t *testing.T) {
	cooldown := &mockCooldownStore{
		TryAcquireFn: func(ctx context.Context, userID uint) (bool, error) { return false, nil },
	}

	uc := newOpenTicketUseCase(&mockTicketRepo{}, &mockParticipantRepo{}, cooldown,
		&mockChatGateway{}, &mockPanelRenderer{}, sharedconfig.TradeConfig{})

	_, err := uc.Execute(context.Background(), OpenTicketCommand{
		GuildID: "guild-1", OwnerID: 100, TicketType: "trade",
	})

	assert.True(t, errors.IsResourceExhaustedError(err))
}

func TestOpenTicket_CapReached(t *testing.T) {
	ticketRepo := &mockTicketRepo{
		CountOpenByOwnerFn: func(ctx context.Context, ownerID uint) (int64, error) { return 3, nil },
		SaveFn: func(ctx context.Context, tk *ticket.Ticket) error {
			t.Fatal("must not save past the cap")
			return nil
		},
	}

	released := false
	cooldown := &mockCooldownStore{
		ReleaseFn: func(ctx context.Context, userID uint) error {
			released = true
			return nil
		},
	}

	uc := newOpenTicketUseCase(ticketRepo, &mockParticipantRepo{}, cooldown,
		&mockChatGateway{}, &mockPanelRenderer{}, sharedconfig.TradeConfig{MaxOpenTicketsPerUser: 3})

	_, err := uc.Execute(context.Background(), OpenTicketCommand{
		GuildID: "guild-1", OwnerID: 100, TicketType: "trade",
	})

	assert.True(t, errors.IsResourceExhaustedError(err))
	assert.True(t, released, "rejected open must give the cooldown slot back")
}

func TestOpenTicket_InvalidType(t *testing.T) {
	uc := newOpenTicketUseCase(&mockTicketRepo{}, &mockParticipantRepo{}, &mockCooldownStore{},
		&mockChatGateway{}, &mockPanelRenderer{}, sharedconfig.TradeConfig{})

	_, err := uc.Execute(context.Background(), OpenTicketCommand{
		GuildID: "guild-1", OwnerID: 100, TicketType: "auction",
	})

	assert.True(t, errors.IsValidationError(err))
}

func TestOpenTicket_ChannelFailureDiscardsTicket(t *testing.T) {
	var deletedTicket, removedRoster uint
	ticketRepo := &mockTicketRepo{
		CountOpenByOwnerFn: func(ctx context.Context, ownerID uint) (int64, error) { return 0, nil },
		SaveFn:             func(ctx context.Context, tk *ticket.Ticket) error { return tk.SetID(7) },
		DeleteFn: func(ctx context.Context, ticketID uint) error {
			deletedTicket = ticketID
			return nil
		},
	}
	participantRepo := &mockParticipantRepo{
		RemoveByTicketFn: func(ctx context.Context, ticketID uint) error {
			removedRoster = ticketID
			return nil
		},
	}
	released := false
	cooldown := &mockCooldownStore{
		ReleaseFn: func(ctx context.Context, userID uint) error {
			released = true
			return nil
		},
	}
	gateway := &mockChatGateway{
		CreateChannelFn: func(ctx context.Context, guildID, name string, memberIDs []uint) (string, error) {
			return "", stderrors.New("api down")
		},
	}

	uc := newOpenTicketUseCase(ticketRepo, participantRepo, cooldown,
		gateway, &mockPanelRenderer{}, sharedconfig.TradeConfig{MaxOpenTicketsPerUser: 3})

	_, err := uc.Execute(context.Background(), OpenTicketCommand{
		GuildID: "guild-1", OwnerID: 100, TicketType: "trade",
	})

	require.Error(t, err)
	// The phantom row must not keep counting against the owner's open cap.
	assert.Equal(t, uint(7), deletedTicket)
	assert.Equal(t, uint(7), removedRoster)
	assert.True(t, released, "failed open must give the cooldown slot back")
}

func TestOpenTicket_ChannelFailureDiscardFailureSurfacesBothFaults(t *testing.T) {
	ticketRepo := &mockTicketRepo{
		CountOpenByOwnerFn: func(ctx context.Context, ownerID uint) (int64, error) { return 0, nil },
		SaveFn:             func(ctx context.Context, tk *ticket.Ticket) error { return tk.SetID(7) },
		DeleteFn: func(ctx context.Context, ticketID uint) error {
			return stderrors.New("db down")
		},
	}
	gateway := &mockChatGateway{
		CreateChannelFn: func(ctx context.Context, guildID, name string, memberIDs []uint) (string, error) {
			return "", stderrors.New("api down")
		},
	}

	uc := newOpenTicketUseCase(ticketRepo, &mockParticipantRepo{}, &mockCooldownStore{},
		gateway, &mockPanelRenderer{}, sharedconfig.TradeConfig{})

	_, err := uc.Execute(context.Background(), OpenTicketCommand{
		GuildID: "guild-1", OwnerID: 100, TicketType: "trade",
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "cleanup")
}

func TestOpenTicket_ChannelCleanupOnAttachFailure(t *testing.T) {
	deleted := ""
	ticketRepo := &mockTicketRepo{
		CountOpenByOwnerFn: func(ctx context.Context, ownerID uint) (int64, error) { return 0, nil },
		SaveFn:             func(ctx context.Context, tk *ticket.Ticket) error { return tk.SetID(7) },
		UpdateFn: func(ctx context.Context, tk *ticket.Ticket) error {
			return stderrors.New("db down")
		},
	}
	gateway := &mockChatGateway{
		CreateChannelFn: func(ctx context.Context, guildID, name string, memberIDs []uint) (string, error) {
			return "chan-7", nil
		},
		DeleteChannelFn: func(ctx context.Context, channelID string) error {
			deleted = channelID
			return nil
		},
	}

	uc := newOpenTicketUseCase(ticketRepo, &mockParticipantRepo{}, &mockCooldownStore{},
		gateway, &mockPanelRenderer{}, sharedconfig.TradeConfig{})

	_, err := uc.Execute(context.Background(), OpenTicketCommand{
		GuildID: "guild-1", OwnerID: 100, TicketType: "trade",
	})

	require.Error(t, err)
	assert.Equal(t, "chan-7", deleted)
}

func TestOpenTicket_CleanupFailureSurfacesBothFaults(t *testing.T) {
	ticketRepo := &mockTicketRepo{
		CountOpenByOwnerFn: func(ctx context.Context, ownerID uint) (int64, error) { return 0, nil },
		SaveFn:             func(ctx context.Context, tk *ticket.Ticket) error { return tk.SetID(7) },
		UpdateFn: func(ctx context.Context, tk *ticket.Ticket) error {
			return stderrors.New("db down")
		},
	}
	gateway := &mockChatGateway{
		CreateChannelFn: func(ctx context.Context, guildID, name string, memberIDs []uint) (string, error) {
			return "chan-7", nil
		},
		DeleteChannelFn: func(ctx context.Context, channelID string) error {
			return stderrors.New("api down")
		},
	}

	uc := newOpenTicketUseCase(ticketRepo, &mockParticipantRepo{}, &mockCooldownStore{},
		gateway, &mockPanelRenderer{}, sharedconfig.TradeConfig{})

	_, err := uc.Execute(context.Background(), OpenTicketCommand{
		GuildID: "guild-1", OwnerID: 100, TicketType: "trade",
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "cleanup")
}
