// SPDX-License-Identifier: MIT

package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"golang.org/x/time/rate"

	"github.com/dinebot/concierge/internal/log"
)

// SMTPConfig holds mail relay settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string // empty disables AUTH
	Password string
	From     string
	// RatePerSecond bounds outbound sends to protect the relay. Zero or
	// negative disables limiting.
	RatePerSecond float64
}

// SMTPSender delivers email through a plain SMTP relay.
type SMTPSender struct {
	cfg     SMTPConfig
	limiter *rate.Limiter
	// sendMail is swappable for tests; defaults to smtp.SendMail.
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTPSender builds a sender for cfg.
func NewSMTPSender(cfg SMTPConfig) *SMTPSender {
	var limiter *rate.Limiter
	if cfg.RatePerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), 1)
	}
	return &SMTPSender{
		cfg:      cfg,
		limiter:  limiter,
		sendMail: smtp.SendMail,
	}
}

// SendEmail delivers one message to address.
func (s *SMTPSender) SendEmail(ctx context.Context, address, subject, body string) error {
	if strings.TrimSpace(address) == "" {
		return fmt.Errorf("recipient address must not be empty")
	}
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limit wait: %w", err)
		}
	}

	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	msg := strings.Join([]string{
		"From: " + s.cfg.From,
		"To: " + address,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=UTF-8",
		"",
		body,
	}, "\r\n")

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	if err := s.sendMail(addr, auth, s.cfg.From, []string{address}, []byte(msg)); err != nil {
		return fmt.Errorf("smtp send via %s: %w", addr, err)
	}

	logger := log.WithComponentFromContext(ctx, "notify")
	logger.Debug().
		Str("event", "notify.email_sent").
		Str(log.FieldChannel, "email").
		Msg("recommendation email delivered")
	return nil
}

var _ interface {
	SendEmail(context.Context, string, string, string) error
} = (*SMTPSender)(nil)
