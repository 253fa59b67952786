// Package panel renders the per-channel status panel and the finalization
// panel. Rendering is an idempotent upsert: each channel has at most one
// live panel message, edited in place when possible and recreated when the
// original message is gone.
package panel

import (
	"context"

	"tradedesk/internal/shared/logger"
)

// ChatMessenger is the slice of the chat gateway the renderer needs.
type ChatMessenger interface {
	SendMessage(ctx context.Context, channelID, content string, attachment []byte) (string, error)
	EditMessage(ctx context.Context, channelID, messageID, content string, attachment []byte) error
}

// MessageStore tracks the live status-panel message id per channel.
type MessageStore interface {
	Get(ctx context.Context, channelID string) (string, error)
	Set(ctx context.Context, channelID, messageID string) error
}

// CardRenderer turns a panel view into an image. Optional; rendering
// failures degrade to plain text.
type CardRenderer interface {
	RenderCard(ctx context.Context, kind string, view any) ([]byte, error)
}

// Renderer owns panel message lifecycle for ticket channels.
type Renderer struct {
	messenger ChatMessenger
	store     MessageStore
	cards     CardRenderer
	logger    logger.Interface
}

func NewRenderer(messenger ChatMessenger, store MessageStore, cards CardRenderer, log logger.Interface) *Renderer {
	return &Renderer{
		messenger: messenger,
		store:     store,
		cards:     cards,
		logger:    log.Named("panel"),
	}
}

// RenderStatusPanel upserts the status panel in the ticket channel. The
// stored message id is tried first; a failed edit means the message was
// deleted or became unreachable, so a fresh one is sent and tracked.
func (r *Renderer) RenderStatusPanel(ctx context.Context, view StatusView) error {
	content := formatStatusText(view)
	attachment := r.renderCard(ctx, "ticket-status", view)
	if attachment != nil {
		// The card carries the full snapshot; the text becomes a caption.
		content = statusCaption(view)
	}

	messageID, err := r.store.Get(ctx, view.ChannelID)
	if err != nil {
		r.logger.Warnw("panel message lookup failed, sending fresh panel",
			"channel_id", view.ChannelID, "error", err)
		messageID = ""
	}

	if messageID != "" {
		if err := r.messenger.EditMessage(ctx, view.ChannelID, messageID, content, attachment); err == nil {
			return nil
		} else {
			r.logger.Debugw("panel edit failed, recreating",
				"channel_id", view.ChannelID, "message_id", messageID, "error", err)
		}
	}

	newID, err := r.messenger.SendMessage(ctx, view.ChannelID, content, attachment)
	if err != nil {
		return err
	}
	if err := r.store.Set(ctx, view.ChannelID, newID); err != nil {
		r.logger.Warnw("failed to track panel message id",
			"channel_id", view.ChannelID, "message_id", newID, "error", err)
	}
	return nil
}

// UpsertFinalizationPanel edits the given finalization panel message or
// sends a new one, returning the id of the live message. The caller
// persists the returned id.
func (r *Renderer) UpsertFinalizationPanel(ctx context.Context, channelID, messageID string, view FinalizationView) (string, error) {
	content := formatFinalizationText(view)

	if messageID != "" {
		if err := r.messenger.EditMessage(ctx, channelID, messageID, content, nil); err == nil {
			return messageID, nil
		} else {
			r.logger.Debugw("finalization panel edit failed, recreating",
				"channel_id", channelID, "message_id", messageID, "error", err)
		}
	}

	return r.messenger.SendMessage(ctx, channelID, content, nil)
}

func (r *Renderer) renderCard(ctx context.Context, kind string, view any) []byte {
	if r.cards == nil {
		return nil
	}
	img, err := r.cards.RenderCard(ctx, kind, view)
	if err != nil {
		r.logger.Debugw("card rendering failed, falling back to text", "kind", kind, "error", err)
		return nil
	}
	return img
}
