// Package chat implements the chat-platform bot adapter: channel creation,
// message send/edit, permission edits, and display-name lookup. The engine
// only sees the narrow interfaces declared by its consumers; this client
// satisfies all of them.
package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	sharedconfig "tradedesk/internal/shared/config"
	"tradedesk/internal/shared/logger"
)

// ErrMessageNotFound marks an edit against a message that no longer exists,
// letting the panel renderer self-heal by sending a fresh message.
var ErrMessageNotFound = errors.New("message not found")

// permissionGrant names a user to be granted access on a new channel.
type permissionGrant struct {
	UserID    uint `json:"user_id,string"`
	AllowSend bool `json:"allow_send"`
}

type createChannelPayload struct {
	Name   string            `json:"name"`
	Grants []permissionGrant `json:"grants"`
}

// Client speaks the chat platform's bot REST API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	botToken   string
	logger     logger.Interface
}

func NewClient(cfg sharedconfig.ChatConfig, log logger.Interface) *Client {
	timeout := 30 * time.Second
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    cfg.APIBaseURL,
		botToken:   cfg.BotToken,
		logger:     log.Named("chat"),
	}
}

type createChannelResponse struct {
	ID string `json:"id"`
}

// CreateChannel creates a private channel visible to the given members and
// returns its id.
func (c *Client) CreateChannel(ctx context.Context, guildID, name string, memberIDs []uint) (string, error) {
	payload := createChannelPayload{Name: name}
	for _, id := range memberIDs {
		payload.Grants = append(payload.Grants, permissionGrant{UserID: id, AllowSend: true})
	}

	var resp createChannelResponse
	url := fmt.Sprintf("%s/guilds/%s/channels", c.baseURL, guildID)
	if err := c.makeRequest(ctx, http.MethodPost, url, payload, &resp); err != nil {
		return "", fmt.Errorf("failed to create channel: %w", err)
	}
	return resp.ID, nil
}

// DeleteChannel removes a channel, used by compensating cleanup when ticket
// creation fails after the channel exists.
func (c *Client) DeleteChannel(ctx context.Context, channelID string) error {
	url := fmt.Sprintf("%s/channels/%s", c.baseURL, channelID)
	if err := c.makeRequest(ctx, http.MethodDelete, url, nil, nil); err != nil {
		return fmt.Errorf("failed to delete channel: %w", err)
	}
	return nil
}

type messagePayload struct {
	Content    string `json:"content"`
	Attachment []byte `json:"attachment,omitempty"`
}

type messageResponse struct {
	ID string `json:"id"`
}

// SendMessage posts a message to a channel and returns the new message id.
// The attachment is optional.
func (c *Client) SendMessage(ctx context.Context, channelID, content string, attachment []byte) (string, error) {
	var resp messageResponse
	url := fmt.Sprintf("%s/channels/%s/messages", c.baseURL, channelID)
	payload := messagePayload{Content: content, Attachment: attachment}
	if err := c.makeRequest(ctx, http.MethodPost, url, payload, &resp); err != nil {
		return "", fmt.Errorf("failed to send message: %w", err)
	}
	return resp.ID, nil
}

// EditMessage replaces an existing message's content in place.
func (c *Client) EditMessage(ctx context.Context, channelID, messageID, content string, attachment []byte) error {
	url := fmt.Sprintf("%s/channels/%s/messages/%s", c.baseURL, channelID, messageID)
	payload := messagePayload{Content: content, Attachment: attachment}
	if err := c.makeRequest(ctx, http.MethodPatch, url, payload, nil); err != nil {
		return fmt.Errorf("failed to edit message %s: %w", messageID, err)
	}
	return nil
}

type permissionPayload struct {
	AllowSend bool `json:"allow_send"`
}

// SetSendPermission edits a member's send permission on a channel, used to
// give the claiming middleman elevated access.
func (c *Client) SetSendPermission(ctx context.Context, channelID string, userID uint, allow bool) error {
	url := fmt.Sprintf("%s/channels/%s/permissions/%d", c.baseURL, channelID, userID)
	if err := c.makeRequest(ctx, http.MethodPut, url, permissionPayload{AllowSend: allow}, nil); err != nil {
		return fmt.Errorf("failed to set send permission: %w", err)
	}
	return nil
}

type userResponse struct {
	DisplayName string `json:"display_name"`
	Username    string `json:"username"`
}

// GetDisplayName fetches a member's display name. Failures degrade to a
// fallback label and never fail the workflow.
func (c *Client) GetDisplayName(ctx context.Context, userID uint) string {
	var resp userResponse
	url := fmt.Sprintf("%s/users/%d", c.baseURL, userID)
	if err := c.makeRequest(ctx, http.MethodGet, url, nil, &resp); err != nil {
		c.logger.Debugw("display name lookup failed, using fallback", "user_id", userID, "error", err)
		return "user-" + strconv.FormatUint(uint64(userID), 10)
	}
	if resp.DisplayName != "" {
		return resp.DisplayName
	}
	if resp.Username != "" {
		return resp.Username
	}
	return "user-" + strconv.FormatUint(uint64(userID), 10)
}

func (c *Client) makeRequest(ctx context.Context, method, url string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bot "+c.botToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrMessageNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("chat API returned %d: %s", resp.StatusCode, string(data))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}
