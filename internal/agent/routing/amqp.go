package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/foodbook/orderbot/internal/agent/model"
)

// Publisher is the subset of *amqp.Channel used to publish notifications.
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// AMQPNotifier publishes notifications to a topic exchange. Order payloads go
// to kitchen.<station> so each station can bind its own queue; exchanges go
// to conversation.<type>.
type AMQPNotifier struct {
	pub      Publisher
	exchange string
}

func NewAMQPNotifier(pub Publisher, exchange string) *AMQPNotifier {
	return &AMQPNotifier{pub: pub, exchange: exchange}
}

// RoutingKey returns the topic key a notification is published under.
func RoutingKey(n model.Notification) string {
	if n.Kind == model.NotifyOrder {
		return "kitchen." + slug(n.Station)
	}
	return "conversation." + slug(string(n.Kind))
}

func slug(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), "_")
}

// Notify reports 202 once the broker accepted the publish.
func (a *AMQPNotifier) Notify(ctx context.Context, n model.Notification) (int, error) {
	body, err := json.Marshal(n.Body)
	if err != nil {
		return 0, fmt.Errorf("marshal %s payload: %w", n.Kind, err)
	}
	err = a.pub.PublishWithContext(ctx, a.exchange, RoutingKey(n), false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		ContentType:  "application/json",
		Type:         string(n.Kind),
		Body:         body,
	})
	if err != nil {
		return 0, err
	}
	return http.StatusAccepted, nil
}

var _ model.Notifier = (*AMQPNotifier)(nil)
