// Package heartbeat tells an operator status endpoint that the bot is online.
package heartbeat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// Status is the payload posted on startup
type Status struct {
	Name      string    `json:"name"`
	AvatarURL string    `json:"avatarUrl"`
	Timestamp time.Time `json:"timestamp"`
}

// Announce posts status to endpoint. Failures are logged and swallowed.
func Announce(ctx context.Context, httpClient *http.Client, endpoint string, status Status, logger *slog.Logger) {
	if endpoint == "" {
		return
	}
	if err := post(ctx, httpClient, endpoint, status); err != nil {
		logger.DebugContext(ctx, "heartbeat failed", "endpoint", endpoint, "error", err)
		return
	}
	logger.InfoContext(ctx, "heartbeat sent", "endpoint", endpoint)
}

// Go runs Announce in the background
func Go(ctx context.Context, httpClient *http.Client, endpoint string, status Status, logger *slog.Logger) {
	go Announce(ctx, httpClient, endpoint, status, logger)
}

func post(ctx context.Context, httpClient *http.Client, endpoint string, status Status) error {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	body, err := json.Marshal(status)
	if err != nil {
		return fmt.Errorf("failed to marshal status: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send heartbeat: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("heartbeat rejected: status %d", resp.StatusCode)
	}
	return nil
}
