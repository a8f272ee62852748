// Package mailer sends plain notification mails over SMTP.
package mailer

import (
	"fmt"

	"choir-attendance/internal/config"

	"gopkg.in/gomail.v2"
)

type Mailer struct {
	from string
	send func(*gomail.Message) error
}

func New(cfg config.MailConfig) *Mailer {
	from := cfg.From
	if from == "" {
		from = cfg.User
	}
	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password)
	return &Mailer{from: from, send: func(m *gomail.Message) error { return dialer.DialAndSend(m) }}
}

// NewWithSender delivers through s instead of dialing SMTP.
func NewWithSender(from string, s gomail.Sender) *Mailer {
	return &Mailer{from: from, send: func(m *gomail.Message) error { return gomail.Send(s, m) }}
}

func (m *Mailer) Send(to []string, subject, body string) error {
	if len(to) == 0 {
		return nil
	}
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)
	if err := m.send(msg); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}
