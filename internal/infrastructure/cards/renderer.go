// Package cards calls the external card-rendering service that turns a
// status snapshot into an image. Rendering is best effort; callers fall
// back to plain text when it fails.
package cards

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	sharedconfig "tradedesk/internal/shared/config"
)

// Renderer renders panel card images via the card service HTTP API.
type Renderer struct {
	httpClient *http.Client
	baseURL    string
}

func NewRenderer(cfg sharedconfig.ChatConfig) *Renderer {
	timeout := 30 * time.Second
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}

	return &Renderer{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    cfg.CardServiceURL,
	}
}

// RenderCard posts the panel view to the card service and returns the
// rendered image bytes.
func (r *Renderer) RenderCard(ctx context.Context, kind string, view any) ([]byte, error) {
	if r.baseURL == "" {
		return nil, fmt.Errorf("card service not configured")
	}

	data, err := json.Marshal(view)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal card view: %w", err)
	}

	url := fmt.Sprintf("%s/render/%s", r.baseURL, kind)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("card service returned %d", resp.StatusCode)
	}

	img, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read card image: %w", err)
	}

	return img, nil
}
