// SPDX-License-Identifier: MIT

package notify

import (
	"context"
	"errors"
)

// ErrSMSDisabled is returned when the SMS channel is not configured.
var ErrSMSDisabled = errors.New("sms channel disabled")

// Service combines the configured channels behind the Notifier interface.
type Service struct {
	email *SMTPSender
	sms   *SMSGateway // nil when the channel is disabled
}

// NewService wires the channels. sms may be nil.
func NewService(email *SMTPSender, sms *SMSGateway) *Service {
	return &Service{email: email, sms: sms}
}

func (s *Service) SendEmail(ctx context.Context, address, subject, body string) error {
	return s.email.SendEmail(ctx, address, subject, body)
}

func (s *Service) SendSMS(ctx context.Context, phoneNumber, body string) error {
	if s.sms == nil {
		return ErrSMSDisabled
	}
	return s.sms.SendSMS(ctx, phoneNumber, body)
}

var _ Notifier = (*Service)(nil)
