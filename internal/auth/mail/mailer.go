// Package mail delivers transactional email such as verification codes.
package mail

import (
	"context"
	"errors"
)

var (
	ErrQueueFull        = errors.New("mail: queue full")
	ErrDispatcherClosed = errors.New("mail: dispatcher closed")
	ErrInvalidMessage   = errors.New("mail: invalid message")
)

// Mailer sends a single message.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// MailerFunc adapts a function to the Mailer interface.
type MailerFunc func(ctx context.Context, msg Message) error

func (f MailerFunc) Send(ctx context.Context, msg Message) error { return f(ctx, msg) }
