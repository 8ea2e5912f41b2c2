// Package notify delivers transactional order emails. Delivery is always
// best-effort: callers log the outcome and must never fail a lifecycle
// operation because of it, so Send returns an Outcome the caller is free to
// ignore alongside the diagnostic error.
package notify

import (
	"context"

	"sweetshop/internal/config"
	"sweetshop/internal/domain"
)

type Kind string

const (
	KindOrderCreated       Kind = "order_created"
	KindOrderStatusChanged Kind = "order_status_changed"
)

// Event is an order snapshot plus the recipient it should be announced to.
type Event struct {
	Kind           Kind
	Order          domain.Order
	RecipientEmail string
	RecipientName  string
	NewStatus      string // set for KindOrderStatusChanged
}

type Outcome int

const (
	Skipped Outcome = iota
	Delivered
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Delivered:
		return "delivered"
	case Failed:
		return "failed"
	default:
		return "skipped"
	}
}

type Notifier interface {
	Send(ctx context.Context, ev Event) (Outcome, error)
}

// Nop is used when mail is not configured.
type Nop struct{}

func (Nop) Send(context.Context, Event) (Outcome, error) { return Skipped, nil }

// New picks the SMTP mailer or the nop notifier based on configuration.
func New(cfg config.SMTP) (Notifier, error) {
	if !cfg.Enabled() {
		return Nop{}, nil
	}
	return NewMailer(cfg)
}
