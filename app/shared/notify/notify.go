// Package notify defines the outbound notification port. Delivery (mail, SMS)
// is external; the core only composes recipients, subject and body.
package notify

import "context"

// Notifier delivers a message to a set of recipients.
type Notifier interface {
	Send(ctx context.Context, recipients []string, subject, body string) error
}
