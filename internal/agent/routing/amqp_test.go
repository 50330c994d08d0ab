package routing

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodbook/orderbot/internal/agent/model"
)

type published struct {
	exchange, key string
	msg           amqp.Publishing
}

type fakePublisher struct {
	out []published
	err error
}

func (f *fakePublisher) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	if f.err != nil {
		return f.err
	}
	f.out = append(f.out, published{exchange: exchange, key: key, msg: msg})
	return nil
}

func TestRoutingKey(t *testing.T) {
	assert.Equal(t, "kitchen.dessert_bar_chef", RoutingKey(model.Notification{Kind: model.NotifyOrder, Station: "Dessert Bar  Chef"}))
	assert.Equal(t, "conversation.farewell", RoutingKey(model.Notification{Kind: model.NotifyFarewell}))
}

func TestAMQPNotifier_Publishes(t *testing.T) {
	pub := &fakePublisher{}
	n := NewAMQPNotifier(pub, "orders_topic")

	status, err := n.Notify(context.Background(), model.Notification{
		Kind:    model.NotifyOrder,
		Station: "Pizza Specialist",
		Body:    model.OrderPayload{Total: 500, UserName: "John", ChefName: "Pizza Specialist"},
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusAccepted, status)

	require.Len(t, pub.out, 1)
	assert.Equal(t, "orders_topic", pub.out[0].exchange)
	assert.Equal(t, "kitchen.pizza_specialist", pub.out[0].key)
	assert.Equal(t, amqp.Persistent, pub.out[0].msg.DeliveryMode)
	assert.Equal(t, "application/json", pub.out[0].msg.ContentType)

	var body model.OrderPayload
	require.NoError(t, json.Unmarshal(pub.out[0].msg.Body, &body))
	assert.Equal(t, "John", body.UserName)
}

func TestAMQPNotifier_PublishError(t *testing.T) {
	n := NewAMQPNotifier(&fakePublisher{err: errors.New("channel closed")}, "orders_topic")
	_, err := n.Notify(context.Background(), model.Notification{Kind: model.NotifyFallback, Body: model.ExchangePayload{}})
	assert.EqualError(t, err, "channel closed")
}
