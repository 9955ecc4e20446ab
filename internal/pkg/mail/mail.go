// Package mail sends plain text email. Callers depend on Mail so tests and
// other providers can replace SMTP.
package mail

import (
	"context"
	"io"
)

// Message is a plain text email.
type Message struct {
	From    string
	To      []string
	Cc      []string
	Subject string
	Body    string
}

// Mail delivers messages.
type Mail interface {
	io.Closer
	Send(ctx context.Context, msg Message) error
}
