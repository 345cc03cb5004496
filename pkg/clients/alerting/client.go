// Package alerting posts engine observability events to an operator webhook.
// It is the sink for failures that are deliberately swallowed (best-effort
// utility derivations) and for the scheduler's daily digests.
package alerting

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Config holds the webhook endpoint options.
type Config struct {
	WebhookURL string
	AuthToken  string
}

// Client is a resty-backed webhook notifier. A nil client or empty webhook
// URL disables alerting without burdening call sites with checks.
type Client struct {
	httpClient *resty.Client
	enabled    bool
	logger     *zap.Logger
}

// NewClient builds an alert client from configuration. An empty webhook URL
// yields a disabled client.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.WebhookURL == "" {
		return &Client{enabled: false, logger: logger}
	}

	restyClient := resty.New()
	restyClient.
		SetBaseURL(cfg.WebhookURL).
		SetHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second)
	if cfg.AuthToken != "" {
		restyClient.SetHeader("Authorization", "Bearer "+cfg.AuthToken)
	}

	return &Client{httpClient: restyClient, enabled: true, logger: logger}
}

// Notify pushes one alert message. Alerting is itself best-effort: delivery
// failures are logged, never returned, so an unreachable webhook cannot take
// down the operation that triggered the alert.
func (c *Client) Notify(ctx context.Context, message string) {
	if c == nil || !c.enabled {
		return
	}

	payload := map[string]any{
		"source":  "farmledger",
		"message": message,
		"sent_at": time.Now().UTC().Format(time.RFC3339),
	}

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(payload).
		Post("")
	if err != nil {
		c.logger.Warn("alert delivery failed", zap.Error(err))
		return
	}
	if resp.StatusCode() >= http.StatusBadRequest {
		c.logger.Warn("alert rejected", zap.String("status", fmt.Sprint(resp.StatusCode())))
	}
}
