package routing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/foodbook/orderbot/internal/agent/model"
)

// WebhookNotifier POSTs the notification body as JSON to a single URL
// (an n8n or similar workflow webhook). The station travels inside the body.
type WebhookNotifier struct {
	URL    string
	Client *http.Client
}

func NewWebhookNotifier(url string, client *http.Client) *WebhookNotifier {
	if client == nil {
		client = http.DefaultClient
	}
	return &WebhookNotifier{URL: url, Client: client}
}

func (w *WebhookNotifier) Notify(ctx context.Context, n model.Notification) (int, error) {
	if w.URL == "" {
		return 0, fmt.Errorf("webhook url is empty")
	}
	body, err := json.Marshal(n.Body)
	if err != nil {
		return 0, fmt.Errorf("marshal %s payload: %w", n.Kind, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.URL, bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.Client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	return resp.StatusCode, nil
}

var _ model.Notifier = (*WebhookNotifier)(nil)
