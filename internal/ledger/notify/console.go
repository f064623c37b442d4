package notify

import (
	"context"
	"fmt"
	"io"
	"sync"

	ledger "utility-billing/internal/ledger/application"
)

// ConsoleNotifier prints a one-line receipt per reminder.
type ConsoleNotifier struct {
	mu  sync.Mutex
	out io.Writer
}

// NewConsoleNotifier constructs a ConsoleNotifier writing to out.
func NewConsoleNotifier(out io.Writer) *ConsoleNotifier {
	return &ConsoleNotifier{out: out}
}

// NotifyReminder implements ledger.Notifier.
func (n *ConsoleNotifier) NotifyReminder(_ context.Context, r ledger.Reminder) error {
	if n == nil || n.out == nil {
		return nil
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	_, err := fmt.Fprintf(n.out, "Sent reminder to %s (ID: %d)\n", r.Name, r.CustomerID)
	return err
}
