package routing

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodbook/orderbot/internal/agent/model"
)

func TestWebhookNotifier_PostsJSON(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		b, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(b, &got)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := NewWebhookNotifier(srv.URL, srv.Client())
	status, err := n.Notify(context.Background(), model.Notification{
		Kind:    model.NotifyOrder,
		Station: "BBQ Chef",
		Body: model.OrderPayload{
			Items:    []model.OrderLineItem{{ItemName: "Chicken Tikka", Category: "BBQ", UnitPrice: 450, Quantity: 2, LineTotal: 900}},
			Total:    900,
			UserName: "John",
			ChefName: "BBQ Chef",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)

	assert.Equal(t, "John", got["user_name"])
	assert.Equal(t, "BBQ Chef", got["chef_name"])
	assert.EqualValues(t, 900, got["total"])
	items := got["items"].([]any)
	require.Len(t, items, 1)
	item := items[0].(map[string]any)
	assert.Equal(t, "Chicken Tikka", item["item"])
	assert.EqualValues(t, 2, item["qty"])
}

func TestWebhookNotifier_ReportsStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	status, err := NewWebhookNotifier(srv.URL, nil).Notify(context.Background(), model.Notification{
		Kind: model.NotifyFallback,
		Body: model.ExchangePayload{Type: model.NotifyFallback},
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadGateway, status)
}

func TestWebhookNotifier_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewWebhookNotifier(url, nil).Notify(context.Background(), model.Notification{Body: struct{}{}})
	assert.Error(t, err)

	_, err = NewWebhookNotifier("", nil).Notify(context.Background(), model.Notification{})
	assert.Error(t, err)
}
