package suggest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/lunyk/kindred/internal/models"
)

// Client talks to the external suggestion provider over JSON HTTP. A client
// with no endpoint or no credential is disabled and answers every fetch with
// an empty list. Provider failures never propagate as errors: they are
// logged once per fetch and yield an empty list, so record-activation
// rendering is never blocked.
type Client struct {
	endpoint string
	apiKey   string
	model    string
	http     *http.Client
	logger   *slog.Logger
}

// NewClient creates a suggestion provider client. Pass an empty endpoint or
// apiKey to create a disabled client.
func NewClient(endpoint, apiKey, model string, timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		endpoint: endpoint,
		apiKey:   apiKey,
		model:    model,
		http:     &http.Client{Timeout: timeout},
		logger:   logger,
	}
}

// Enabled reports whether the client is configured to reach a provider.
func (c *Client) Enabled() bool {
	return c != nil && c.endpoint != "" && c.apiKey != ""
}

type providerRequest struct {
	Request
	Model string `json:"model,omitempty"`
}

// Fetch sends the request and returns the provider's suggestions. The
// context cancels an in-flight request (the user may navigate away or
// disable the feature). A disabled client or any provider failure returns
// an empty list.
func (c *Client) Fetch(ctx context.Context, req Request) []models.Suggestion {
	if !c.Enabled() {
		return nil
	}

	body, err := json.Marshal(providerRequest{Request: req, Model: c.model})
	if err != nil {
		c.logger.Warn("suggest: encode request failed", slog.String("error", err.Error()))
		return nil
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		c.logger.Warn("suggest: build request failed", slog.String("error", err.Error()))
		return nil
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.logger.Warn("suggest: provider unreachable", slog.String("error", err.Error()))
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("suggest: provider error", slog.String("status", resp.Status))
		return nil
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		c.logger.Warn("suggest: read response failed", slog.String("error", err.Error()))
		return nil
	}

	var suggestions []models.Suggestion
	if err := json.Unmarshal(data, &suggestions); err != nil {
		c.logger.Warn("suggest: decode response failed", slog.String("error", err.Error()))
		return nil
	}
	return suggestions
}
