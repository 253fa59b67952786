// Package cache provides Redis-backed keyed stores for ephemeral engine
// state. These replace process-wide mutable maps so the engine stays
// testable and multiple instances can share state.
package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// PanelMessageStore tracks the single live status-panel message id per
// channel. The renderer edits the stored message in place and overwrites the
// stored id when it has to recreate the panel.
type PanelMessageStore struct {
	client *redis.Client
	prefix string
}

// NewPanelMessageStore creates a store namespaced by prefix
// (e.g. "panel:msg:").
func NewPanelMessageStore(client *redis.Client, prefix string) *PanelMessageStore {
	return &PanelMessageStore{
		client: client,
		prefix: prefix,
	}
}

func (s *PanelMessageStore) key(channelID string) string {
	return s.prefix + channelID
}

// Get returns the tracked message id for the channel, or "" when none is
// stored.
func (s *PanelMessageStore) Get(ctx context.Context, channelID string) (string, error) {
	val, err := s.client.Get(ctx, s.key(channelID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get panel message id: %w", err)
	}
	return val, nil
}

// Set stores the live message id for the channel, replacing any previous id.
func (s *PanelMessageStore) Set(ctx context.Context, channelID, messageID string) error {
	if err := s.client.Set(ctx, s.key(channelID), messageID, 0).Err(); err != nil {
		return fmt.Errorf("failed to set panel message id: %w", err)
	}
	return nil
}

// Delete removes the tracked id, typically when a channel is torn down.
func (s *PanelMessageStore) Delete(ctx context.Context, channelID string) error {
	if err := s.client.Del(ctx, s.key(channelID)).Err(); err != nil {
		return fmt.Errorf("failed to delete panel message id: %w", err)
	}
	return nil
}
