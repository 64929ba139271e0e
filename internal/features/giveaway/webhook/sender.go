// Package webhook delivers the giveaway_ended report to the orchestrator.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"twitch-giveaway-backend/internal/common/signature"
	"twitch-giveaway-backend/internal/features/giveaway/models"
)

// Sender POSTs JSON payloads, signed when a secret is configured.
type Sender struct {
	client *http.Client
	secret string
}

func NewSender(client *http.Client, secret string) *Sender {
	if client == nil {
		client = http.DefaultClient
	}
	return &Sender{client: client, secret: secret}
}

// Send makes one delivery attempt. Any non-2xx answer is an error.
func (s *Sender) Send(ctx context.Context, url string, payload models.EndedPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.secret != "" {
		req.Header.Set(signature.Header, signature.Sign(s.secret, body))
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
