package ledger

import (
	"context"
	"time"
)

// Reminder is a rendered payment reminder ready for delivery.
type Reminder struct {
	RunID      string
	CustomerID int
	Name       string
	Email      string
	Province   string
	Text       string
	At         time.Time
}

// Notifier delivers reminders.
type Notifier interface {
	NotifyReminder(ctx context.Context, reminder Reminder) error
}

// NopNotifier drops every reminder.
type NopNotifier struct{}

// NotifyReminder implements Notifier.
func (NopNotifier) NotifyReminder(context.Context, Reminder) error { return nil }
