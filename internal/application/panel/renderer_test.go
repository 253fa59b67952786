package panel

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"tradedesk/internal/shared/logger"
)

type mockMessenger struct {
	SendMessageFn func(ctx context.Context, channelID, content string, attachment []byte) (string, error)
	EditMessageFn func(ctx context.Context, channelID, messageID, content string, attachment []byte) error
}

func (m *mockMessenger) SendMessage(ctx context.Context, channelID, content string, attachment []byte) (string, error) {
	return m.SendMessageFn(ctx, channelID, content, attachment)
}

func (m *mockMessenger) EditMessage(ctx context.Context, channelID, messageID, content string, attachment []byte) error {
	return m.EditMessageFn(ctx, channelID, messageID, content, attachment)
}

type mockStore struct {
	GetFn func(ctx context.Context, channelID string) (string, error)
	SetFn func(ctx context.Context, channelID, messageID string) error
}

func (m *mockStore) Get(ctx context.Context, channelID string) (string, error) {
	return m.GetFn(ctx, channelID)
}

func (m *mockStore) Set(ctx context.Context, channelID, messageID string) error {
	return m.SetFn(ctx, channelID, messageID)
}

type mockCards struct {
	RenderCardFn func(ctx context.Context, kind string, view any) ([]byte, error)
}

func (m *mockCards) RenderCard(ctx context.Context, kind string, view any) ([]byte, error) {
	return m.RenderCardFn(ctx, kind, view)
}

func testLogger(t *testing.T) logger.Interface {
	t.Helper()
	return logger.NewNop()
}

func TestRenderStatusPanel_SendsWhenNoTrackedMessage(t *testing.T) {
	var sentChannel, storedID string
	messenger := &mockMessenger{
		SendMessageFn: func(ctx context.Context, channelID, content string, attachment []byte) (string, error) {
			sentChannel = channelID
			return "msg-1", nil
		},
	}
	store := &mockStore{
		GetFn: func(ctx context.Context, channelID string) (string, error) { return "", nil },
		SetFn: func(ctx context.Context, channelID, messageID string) error {
			storedID = messageID
			return nil
		},
	}

	r := NewRenderer(messenger, store, nil, testLogger(t))
	err := r.RenderStatusPanel(context.Background(), StatusView{TicketID: 1, ChannelID: "chan-1", Status: "open"})

	assert.NoError(t, err)
	assert.Equal(t, "chan-1", sentChannel)
	assert.Equal(t, "msg-1", storedID)
}

func TestRenderStatusPanel_EditsTrackedMessage(t *testing.T) {
	edited := false
	sent := false
	messenger := &mockMessenger{
		SendMessageFn: func(ctx context.Context, channelID, content string, attachment []byte) (string, error) {
			sent = true
			return "msg-2", nil
		},
		EditMessageFn: func(ctx context.Context, channelID, messageID, content string, attachment []byte) error {
			edited = true
			assert.Equal(t, "msg-1", messageID)
			return nil
		},
	}
	store := &mockStore{
		GetFn: func(ctx context.Context, channelID string) (string, error) { return "msg-1", nil },
		SetFn: func(ctx context.Context, channelID, messageID string) error {
			t.Fatal("should not re-track when edit succeeds")
			return nil
		},
	}

	r := NewRenderer(messenger, store, nil, testLogger(t))
	err := r.RenderStatusPanel(context.Background(), StatusView{TicketID: 1, ChannelID: "chan-1", Status: "claimed"})

	assert.NoError(t, err)
	assert.True(t, edited)
	assert.False(t, sent)
}

func TestRenderStatusPanel_RecreatesWhenEditFails(t *testing.T) {
	var storedID string
	messenger := &mockMessenger{
		SendMessageFn: func(ctx context.Context, channelID, content string, attachment []byte) (string, error) {
			return "msg-2", nil
		},
		EditMessageFn: func(ctx context.Context, channelID, messageID, content string, attachment []byte) error {
			return errors.New("message not found")
		},
	}
	store := &mockStore{
		GetFn: func(ctx context.Context, channelID string) (string, error) { return "msg-1", nil },
		SetFn: func(ctx context.Context, channelID, messageID string) error {
			storedID = messageID
			return nil
		},
	}

	r := NewRenderer(messenger, store, nil, testLogger(t))
	err := r.RenderStatusPanel(context.Background(), StatusView{TicketID: 1, ChannelID: "chan-1", Status: "claimed"})

	assert.NoError(t, err)
	assert.Equal(t, "msg-2", storedID)
}

func TestRenderStatusPanel_CardFailureFallsBackToText(t *testing.T) {
	var sentContent string
	var sentAttachment []byte
	messenger := &mockMessenger{
		SendMessageFn: func(ctx context.Context, channelID, content string, attachment []byte) (string, error) {
			sentContent = content
			sentAttachment = attachment
			return "msg-1", nil
		},
	}
	store := &mockStore{
		GetFn: func(ctx context.Context, channelID string) (string, error) { return "", nil },
		SetFn: func(ctx context.Context, channelID, messageID string) error { return nil },
	}
	cards := &mockCards{
		RenderCardFn: func(ctx context.Context, kind string, view any) ([]byte, error) {
			return nil, errors.New("card service down")
		},
	}

	r := NewRenderer(messenger, store, cards, testLogger(t))
	err := r.RenderStatusPanel(context.Background(), StatusView{TicketID: 7, ChannelID: "chan-1", Status: "open", OwnerName: "alice"})

	assert.NoError(t, err)
	assert.Nil(t, sentAttachment)
	assert.Contains(t, sentContent, "Ticket #7")
	assert.Contains(t, sentContent, "alice")
}

func TestRenderStatusPanel_CardSuccessUsesCaption(t *testing.T) {
	img := []byte{0x89, 0x50}
	var sentContent string
	var sentAttachment []byte
	messenger := &mockMessenger{
		SendMessageFn: func(ctx context.Context, channelID, content string, attachment []byte) (string, error) {
			sentContent = content
			sentAttachment = attachment
			return "msg-1", nil
		},
	}
	store := &mockStore{
		GetFn: func(ctx context.Context, channelID string) (string, error) { return "", nil },
		SetFn: func(ctx context.Context, channelID, messageID string) error { return nil },
	}
	cards := &mockCards{
		RenderCardFn: func(ctx context.Context, kind string, view any) ([]byte, error) {
			return img, nil
		},
	}

	r := NewRenderer(messenger, store, cards, testLogger(t))
	err := r.RenderStatusPanel(context.Background(), StatusView{TicketID: 7, ChannelID: "chan-1", Status: "open"})

	assert.NoError(t, err)
	assert.Equal(t, img, sentAttachment)
	assert.Equal(t, "Ticket #7 · 🟢 Open", sentContent)
}

func TestUpsertFinalizationPanel_ReturnsNewIDWhenEditFails(t *testing.T) {
	messenger := &mockMessenger{
		SendMessageFn: func(ctx context.Context, channelID, content string, attachment []byte) (string, error) {
			return "fin-2", nil
		},
		EditMessageFn: func(ctx context.Context, channelID, messageID, content string, attachment []byte) error {
			return errors.New("gone")
		},
	}

	r := NewRenderer(messenger, &mockStore{}, nil, testLogger(t))
	id, err := r.UpsertFinalizationPanel(context.Background(), "chan-1", "fin-1", FinalizationView{TicketID: 1})

	assert.NoError(t, err)
	assert.Equal(t, "fin-2", id)
}

func TestUpsertFinalizationPanel_KeepsIDWhenEditSucceeds(t *testing.T) {
	messenger := &mockMessenger{
		EditMessageFn: func(ctx context.Context, channelID, messageID, content string, attachment []byte) error {
			return nil
		},
	}

	r := NewRenderer(messenger, &mockStore{}, nil, testLogger(t))
	id, err := r.UpsertFinalizationPanel(context.Background(), "chan-1", "fin-1", FinalizationView{TicketID: 1})

	assert.NoError(t, err)
	assert.Equal(t, "fin-1", id)
}

func TestFormatFinalizationText_MarksConfirmations(t *testing.T) {
	text := formatFinalizationText(FinalizationView{
		TicketID: 3,
		Members: []FinalizationMember{
			{UserName: "alice", Confirmed: true},
			{UserName: "bob", Confirmed: false},
		},
	})

	assert.Contains(t, text, "✅ alice")
	assert.Contains(t, text, "⏳ bob")
	assert.NotContains(t, text, "All confirmations received")
}
