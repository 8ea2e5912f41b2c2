package notify

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"

	"sweetshop/internal/config"
)

// Mailer sends order emails over SMTP.
type Mailer struct {
	client   *mail.Client
	from     string
	fromName string
}

func NewMailer(cfg config.SMTP) (*Mailer, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}
	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}
	return &Mailer{client: client, from: cfg.From, fromName: cfg.FromName}, nil
}

func (m *Mailer) Send(ctx context.Context, ev Event) (Outcome, error) {
	if ev.RecipientEmail == "" {
		return Skipped, nil
	}

	msg := mail.NewMsg()
	if err := msg.FromFormat(m.fromName, m.from); err != nil {
		return Failed, err
	}
	if err := msg.To(ev.RecipientEmail); err != nil {
		return Failed, err
	}

	var subject string
	switch ev.Kind {
	case KindOrderStatusChanged:
		subject = fmt.Sprintf("Order Update - Order #%s", ev.Order.ID)
	default:
		subject = fmt.Sprintf("Order Confirmation - Order #%s", ev.Order.ID)
	}
	msg.Subject(subject)

	body, err := renderBody(ev, m.fromName)
	if err != nil {
		return Failed, err
	}
	msg.SetBodyString(mail.TypeTextHTML, body)

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return Failed, err
	}
	return Delivered, nil
}
