// Package notifier defines the fire-and-forget notification channel the core
// dispatches participant messages through. The channel gives no ordering or
// delivery guarantee; callers treat every send as best effort.
package notifier

import "context"

// Contact is a resolved, contactable participant identity.
type Contact struct {
	Name  string
	Email string
}

type Notifier interface {
	Send(ctx context.Context, to Contact, subject, body string) error
}

// Message is the wire shape handed to the delivery side of the channel.
type Message struct {
	To      string `json:"to"`
	Name    string `json:"name"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}
