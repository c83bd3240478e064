// Package notify posts board updates to a Discord-compatible webhook.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/doyensec/safeurl"
	"go.uber.org/zap"
)

// Webhook sends content to a configured webhook URL. The URL comes from
// operator config, so requests go through a safeurl client: private,
// loopback, and link-local destinations are refused at the dialer, including
// after DNS resolution.
type Webhook struct {
	url    string
	client *http.Client
	logger *zap.Logger
}

// NewWebhook creates a notifier for the given webhook URL.
func NewWebhook(url string, timeout time.Duration, logger *zap.Logger) *Webhook {
	cfg := safeurl.GetConfigBuilder().
		SetTimeout(timeout).
		SetAllowedSchemes("http", "https").
		SetAllowedPorts(80, 443).
		Build()

	return &Webhook{
		url:    url,
		client: safeurl.Client(cfg).Client,
		logger: logger,
	}
}

// payload is the Discord webhook body; other webhook receivers accept the
// same shape.
type payload struct {
	Content string `json:"content"`
}

// Send posts the content. Errors are returned for logging but callers treat
// notification as fire-and-forget; a failed webhook never fails an insert.
func (w *Webhook) Send(ctx context.Context, content string) error {
	body, err := json.Marshal(payload{Content: content})
	if err != nil {
		return fmt.Errorf("failed to marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}

// NotifyBoard sends the board in the background with its own timeout,
// logging failures instead of surfacing them.
func (w *Webhook) NotifyBoard(content string, timeout time.Duration) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := w.Send(ctx, content); err != nil {
			w.logger.Warn("webhook notification failed", zap.Error(err))
			return
		}
		w.logger.Debug("webhook notification sent")
	}()
}
