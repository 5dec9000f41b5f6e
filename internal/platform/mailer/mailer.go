package mailer

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/fx"
	"gopkg.in/gomail.v2"

	"github.com/bitforce/ambassador/pkg/config"
)

var ErrDisabled = errors.New("mailer: smtp not configured")

type Message struct {
	To       string
	Subject  string
	HTMLBody string
}

// Sender delivers one email.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Dialer is the subset of *gomail.Dialer used by SMTP.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type SMTP struct {
	from   string
	dialer Dialer
}

func NewSMTP(cfg *config.Config) *SMTP {
	c := cfg.SMTP
	if !c.Enabled() {
		return &SMTP{}
	}
	return &SMTP{from: c.From, dialer: gomail.NewDialer(c.Host, c.Port, c.Username, c.Password)}
}

// NewSMTPWithDialer is used by tests to capture outgoing messages.
func NewSMTPWithDialer(from string, d Dialer) *SMTP {
	return &SMTP{from: from, dialer: d}
}

func (s *SMTP) Enabled() bool { return s != nil && s.dialer != nil }

func (s *SMTP) Send(ctx context.Context, msg Message) error {
	if !s.Enabled() {
		return ErrDisabled
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.HTMLBody)
	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

var Module = fx.Options(
	fx.Provide(
		NewSMTP,
		func(s *SMTP) Sender { return s },
	),
)
