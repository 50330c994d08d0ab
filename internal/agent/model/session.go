package model

import (
	"context"
	"errors"
	"iter"
	"time"
)

const (
	// StationMultiple is recorded on every order; items are fanned out per station.
	StationMultiple = "Multiple"
	// OrderStatusSent marks an order whose station notifications were attempted.
	OrderStatusSent = "sent"
)

var ErrSessionNotFound = errors.New("session not found")

// SessionState is the conversation controller state.
type SessionState string

const (
	StateAwaitingName SessionState = "awaiting_name"
	StateActive       SessionState = "active"
)

// Order is one confirmed utterance worth of line items.
type Order struct {
	Items             []OrderLineItem `json:"items"`
	Total             int             `json:"total"`
	StationAssignment string          `json:"chef"`
	Status            string          `json:"status"`
	PlacedAt          time.Time       `json:"placed_at"`
}

// Session is the per-conversation state persisted between turns.
type Session struct {
	ID          string       `json:"id"`
	State       SessionState `json:"state"`
	DisplayName string       `json:"display_name,omitempty"`
	Orders      []Order      `json:"orders"`
	Menu        []MenuItem   `json:"menu"`
	StartedAt   time.Time    `json:"started_at"`
}

// NewSession starts a conversation awaiting the customer's name.
func NewSession(id string, menu []MenuItem, now time.Time) *Session {
	return &Session{
		ID:        id,
		State:     StateAwaitingName,
		Orders:    []Order{},
		Menu:      menu,
		StartedAt: now,
	}
}

// HasName reports whether the display name has been captured.
func (s *Session) HasName() bool {
	return s.State == StateActive
}

// SetName captures the display name exactly once. Empty names are rejected
// and leave the session awaiting a name.
func (s *Session) SetName(name string) bool {
	if s.HasName() || name == "" {
		return false
	}
	s.DisplayName = name
	s.State = StateActive
	return true
}

// RecordOrder appends a new order; earlier orders are never touched.
func (s *Session) RecordOrder(items []OrderLineItem, total int, now time.Time) Order {
	o := Order{
		Items:             append([]OrderLineItem(nil), items...),
		Total:             total,
		StationAssignment: StationMultiple,
		Status:            OrderStatusSent,
		PlacedAt:          now,
	}
	s.Orders = append(s.Orders, o)
	return o
}

// GrandTotal sums every recorded order.
func (s *Session) GrandTotal() int {
	total := 0
	for _, o := range s.Orders {
		total += o.Total
	}
	return total
}

// ListOrders yields orders in recording order, numbered from 1.
// The sequence can be ranged over any number of times.
func (s *Session) ListOrders() iter.Seq2[int, Order] {
	return func(yield func(int, Order) bool) {
		for i, o := range s.Orders {
			if !yield(i+1, o) {
				return
			}
		}
	}
}

type SessionRepository interface {
	// Load returns ErrSessionNotFound (possibly wrapped) for unknown ids.
	Load(ctx context.Context, sessionID string) (*Session, error)

	// Save replaces the stored session and refreshes its expiry.
	Save(ctx context.Context, session *Session) error

	// Delete drops the session.
	Delete(ctx context.Context, sessionID string) error
}
