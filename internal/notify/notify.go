// SPDX-License-Identifier: MIT

// Package notify delivers recommendation messages to the user. Email is the
// primary channel; SMS is optional and independently toggleable.
package notify

import "context"

// Subject of every recommendation email.
const Subject = "Your restaurant suggestions are here!"

// Notifier is the notification collaborator.
type Notifier interface {
	SendEmail(ctx context.Context, address, subject, body string) error
	SendSMS(ctx context.Context, phoneNumber, body string) error
}
