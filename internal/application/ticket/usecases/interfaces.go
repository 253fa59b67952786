// Package usecases implements the ticket lifecycle: opening, claiming,
// trade submission and confirmation, closure finalization, the atomic close
// transaction, and reviews. Each use-case is a struct with a single
// Execute method; collaborators are the narrow interfaces declared here.
package usecases

import (
	"context"

	"tradedesk/internal/application/panel"
)

// ChatGateway is the slice of the chat platform the lifecycle needs.
// Everything here except CreateChannel is best effort from the caller's
// point of view: a failed message never rolls back committed state.
type ChatGateway interface {
	CreateChannel(ctx context.Context, guildID, name string, memberIDs []uint) (string, error)
	DeleteChannel(ctx context.Context, channelID string) error
	SendMessage(ctx context.Context, channelID, content string, attachment []byte) (string, error)
	SetSendPermission(ctx context.Context, channelID string, userID uint, allow bool) error
	GetDisplayName(ctx context.Context, userID uint) string
}

// PanelRenderer upserts the status and finalization panels.
type PanelRenderer interface {
	RenderStatusPanel(ctx context.Context, view panel.StatusView) error
	UpsertFinalizationPanel(ctx context.Context, channelID, messageID string, view panel.FinalizationView) (string, error)
}

// CooldownStore rate-limits ticket opening per user. Release frees the slot
// when an open attempt fails after acquisition.
type CooldownStore interface {
	TryAcquire(ctx context.Context, userID uint) (bool, error)
	Release(ctx context.Context, userID uint) error
}
