package notify

import (
	"context"
	"errors"

	ledger "utility-billing/internal/ledger/application"
)

// MultiNotifier dispatches reminders to multiple notifiers.
type MultiNotifier struct {
	notifiers []ledger.Notifier
}

// NewMultiNotifier constructs a MultiNotifier.
func NewMultiNotifier(notifiers ...ledger.Notifier) *MultiNotifier {
	return &MultiNotifier{notifiers: notifiers}
}

// NotifyReminder forwards the reminder to every notifier and joins their errors.
func (m *MultiNotifier) NotifyReminder(ctx context.Context, r ledger.Reminder) error {
	if m == nil {
		return nil
	}
	var errs []error
	for _, notifier := range m.notifiers {
		if notifier == nil {
			continue
		}
		if err := notifier.NotifyReminder(ctx, r); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
