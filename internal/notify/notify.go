// Package notify delivers best-effort alerts about new feedback: desktop
// banners, Telegram messages, Gmail emails, or plain log lines.
package notify

import (
	"context"
	"errors"
	"log"
)

// Notifier is satisfied by every channel in this package.
type Notifier interface {
	Notify(ctx context.Context, title, message string) error
}

// Log writes the alert to the process log. It never fails.
type Log struct{}

func (Log) Notify(_ context.Context, title, message string) error {
	log.Printf("📱 Notification: %s - %s", title, message)
	return nil
}

// Multi fans an alert out to every channel and reports all failures together.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, title, message string) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, title, message); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
