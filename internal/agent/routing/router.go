package routing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/foodbook/orderbot/internal/agent/model"
	"github.com/foodbook/orderbot/internal/metrics"
	logx "github.com/foodbook/orderbot/pkg/logger"
)

const DefaultTimeout = 10 * time.Second

var errNoNotifier = errors.New("notification channel not configured")

// Outcome classifies a single notification attempt.
type Outcome string

const (
	OutcomeDelivered Outcome = "delivered"
	OutcomeRejected  Outcome = "rejected"
	OutcomeFailed    Outcome = "failed"
)

// Delivery is the result of notifying one station about its share of an order.
type Delivery struct {
	Station  string
	Items    []model.OrderLineItem
	Subtotal int
	Status   int
	Err      error
}

func (d Delivery) Outcome() Outcome {
	switch {
	case d.Err != nil:
		return OutcomeFailed
	case d.Status >= 200 && d.Status < 300:
		return OutcomeDelivered
	default:
		return OutcomeRejected
	}
}

// Message renders the delivery for the customer. Failures become warnings.
func (d Delivery) Message() string {
	switch d.Outcome() {
	case OutcomeDelivered:
		names := make([]string, len(d.Items))
		for i, it := range d.Items {
			names[i] = it.ItemName
		}
		return fmt.Sprintf("✅ %s: Order received! Preparing %s.", d.Station, strings.Join(names, ", "))
	case OutcomeRejected:
		return fmt.Sprintf("⚠️ Kitchen channel returned %d for %s", d.Status, d.Station)
	default:
		return fmt.Sprintf("⚠️ Could not send to %s: %v", d.Station, d.Err)
	}
}

// Report aggregates the per-station deliveries of one order.
type Report struct {
	Deliveries []Delivery
}

func (r Report) String() string {
	msgs := make([]string, len(r.Deliveries))
	for i, d := range r.Deliveries {
		msgs[i] = d.Message()
	}
	return strings.Join(msgs, "\n\n")
}

// Router fans order items out to kitchen stations and forwards conversation
// exchanges. It never returns errors: every failure ends up in a Report or a log line.
type Router struct {
	notifier model.Notifier
	stations StationTable
	timeout  time.Duration
}

func NewRouter(notifier model.Notifier, stations StationTable, timeout time.Duration) *Router {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Router{notifier: notifier, stations: stations, timeout: timeout}
}

type stationGroup struct {
	station string
	items   []model.OrderLineItem
}

// group buckets items by station, keeping first-seen station order.
func (r *Router) group(items []model.OrderLineItem) []stationGroup {
	var groups []stationGroup
	index := make(map[string]int)
	for _, it := range items {
		st := r.stations.StationFor(it.Category)
		i, ok := index[st]
		if !ok {
			i = len(groups)
			index[st] = i
			groups = append(groups, stationGroup{station: st})
		}
		groups[i].items = append(groups[i].items, it)
	}
	return groups
}

// Route sends one notification per station, sequentially, each bounded by
// the router timeout.
func (r *Router) Route(ctx context.Context, items []model.OrderLineItem, customerName string) Report {
	groups := r.group(items)
	report := Report{Deliveries: make([]Delivery, 0, len(groups))}

	for _, g := range groups {
		subtotal := 0
		for _, it := range g.items {
			subtotal += it.LineTotal
		}
		d := Delivery{Station: g.station, Items: g.items, Subtotal: subtotal}
		d.Status, d.Err = r.send(ctx, model.Notification{
			Kind:    model.NotifyOrder,
			Station: g.station,
			Body: model.OrderPayload{
				Items:    g.items,
				Total:    subtotal,
				UserName: customerName,
				ChefName: g.station,
			},
		})

		outcome := d.Outcome()
		metrics.StationNotifications.WithLabelValues(g.station, string(outcome)).Inc()
		if outcome == OutcomeDelivered {
			logx.Debug().Str("station", g.station).Int("status", d.Status).Int("items", len(g.items)).Msg("station notified")
		} else {
			logx.Warn().Err(d.Err).Str("station", g.station).Int("status", d.Status).Msg("station notification failed")
		}
		report.Deliveries = append(report.Deliveries, d)
	}
	return report
}

// Forward best-effort sends a farewell or fallback exchange. Failures are
// logged and otherwise ignored.
func (r *Router) Forward(ctx context.Context, p model.ExchangePayload) {
	status, err := r.send(ctx, model.Notification{Kind: p.Type, Body: p})
	if err != nil || status < 200 || status >= 300 {
		logx.Warn().Err(err).Int("status", status).Str("type", string(p.Type)).Msg("exchange forward failed")
		return
	}
	logx.Debug().Str("type", string(p.Type)).Msg("exchange forwarded")
}

// send calls the notifier under the router timeout and converts panics into errors.
func (r *Router) send(ctx context.Context, n model.Notification) (status int, err error) {
	if r.notifier == nil {
		return 0, errNoNotifier
	}
	defer func() {
		if p := recover(); p != nil {
			logx.Error().Str("component", "router").Msgf("notifier panic recovered: %v", p)
			status, err = 0, fmt.Errorf("notifier panic: %v", p)
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return r.notifier.Notify(ctx, n)
}
