// Package notify delivers outbound messages to trainers.
package notify

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"

	"alcyxob/trainer-desk/internal/config"

	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"
)

// ErrNotConfigured is returned by Sender when no SMTP host is set.
var ErrNotConfigured = errors.New("smtp is not configured")

// Message is a plain-text email.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Mailer sends a single message.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// Sender sends email through an SMTP relay.
type Sender struct {
	cfg config.SMTPConfig
	log *logrus.Logger
}

// NewSender creates a new email sender
func NewSender(cfg config.SMTPConfig, log *logrus.Logger) *Sender {
	return &Sender{cfg: cfg, log: log}
}

// Send delivers msg. The context is only checked before dialing; the email
// package has no context support.
func (s *Sender) Send(ctx context.Context, msg Message) error {
	if s.cfg.Host == "" {
		return ErrNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	e := email.NewEmail()
	e.From = s.cfg.From
	e.To = []string{msg.To}
	e.Subject = msg.Subject
	e.Text = []byte(msg.Body)

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}
	if err := e.Send(addr, auth); err != nil {
		s.log.Errorf("Failed to send email to %s: %v", msg.To, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.log.Infof("Email sent to %s: %s", msg.To, msg.Subject)
	return nil
}

// LogMailer writes messages to the log instead of sending them. Used when
// reminders are enabled without an SMTP relay.
type LogMailer struct {
	Log *logrus.Logger
}

func (m LogMailer) Send(_ context.Context, msg Message) error {
	m.Log.WithFields(logrus.Fields{
		"to":      msg.To,
		"subject": msg.Subject,
	}).Info(msg.Body)
	return nil
}
