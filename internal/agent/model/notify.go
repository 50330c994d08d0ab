package model

import "context"

// NotificationKind tells the channel what a payload is about.
type NotificationKind string

const (
	NotifyOrder    NotificationKind = "order"
	NotifyFarewell NotificationKind = "farewell"
	NotifyFallback NotificationKind = "fallback"
)

// OrderPayload is sent once per station per order.
type OrderPayload struct {
	Items    []OrderLineItem `json:"items"`
	Total    int             `json:"total"`
	UserName string          `json:"user_name"`
	ChefName string          `json:"chef_name"`
}

// ExchangePayload forwards a farewell or fallback exchange.
type ExchangePayload struct {
	UserName string           `json:"user_name"`
	Message  string           `json:"message"`
	BotReply string           `json:"bot_reply"`
	Type     NotificationKind `json:"type"`
}

// Notification is one outbound message. Station is empty for exchanges.
type Notification struct {
	Kind    NotificationKind
	Station string
	Body    any
}

// Notifier delivers a notification and reports an HTTP-style status code.
// A non-nil error means the transport failed and the status is meaningless.
type Notifier interface {
	Notify(ctx context.Context, n Notification) (int, error)
}
