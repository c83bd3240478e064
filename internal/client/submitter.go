// Package client implements the wizard's outward-facing collaborators: the
// HTTP submitter that posts records to the splits server and the file cache
// that remembers the username between sessions.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/blaine-t/splits/internal/split"
)

// HTTPSubmitter posts completed records to the split endpoint. Submission is
// fire-and-forget: a 2xx response is success, anything else — including a
// transport error — is failure, and nothing retries.
type HTTPSubmitter struct {
	endpoint string
	client   *http.Client
}

// NewHTTPSubmitter creates a submitter for the given endpoint.
func NewHTTPSubmitter(endpoint string, timeout time.Duration) *HTTPSubmitter {
	return &HTTPSubmitter{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

// Submit posts one record.
func (s *HTTPSubmitter) Submit(ctx context.Context, rec split.Record) error {
	body, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("submission failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		if len(msg) > 0 {
			return fmt.Errorf("server rejected split (status %d): %s", resp.StatusCode, msg)
		}
		return fmt.Errorf("server rejected split (status %d)", resp.StatusCode)
	}
	return nil
}
