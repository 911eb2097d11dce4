package service

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	perr "breachwatch/internal/platform/errors"
	aldomain "breachwatch/internal/services/alerts/domain"
)

// Webhook POSTs alerts as JSON to an external endpoint
type Webhook struct {
	url    string
	client *http.Client
}

// NewWebhook constructs a webhook notifier for url
func NewWebhook(url string) *Webhook {
	return &Webhook{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Name implements domain.Notifier
func (w *Webhook) Name() string { return "webhook" }

type webhookPayload struct {
	Kind         string    `json:"kind"`
	AlertID      int64     `json:"alert_id"`
	IdentifierID int64     `json:"identifier_id"`
	Message      string    `json:"message"`
	CreatedAt    time.Time `json:"created_at"`
}

// Send implements domain.Notifier
func (w *Webhook) Send(ctx context.Context, a aldomain.Alert) error {
	body, err := json.Marshal(webhookPayload{
		Kind:         "breachwatch.alert",
		AlertID:      a.ID,
		IdentifierID: a.IdentifierID,
		Message:      a.Message,
		CreatedAt:    a.CreatedAt,
	})
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnknown, "encode webhook payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeInvalidArgument, "build webhook request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnavailable, "deliver webhook")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return perr.Newf(perr.ErrorCodeUnavailable, "webhook endpoint returned %d", resp.StatusCode)
	}
	return nil
}
