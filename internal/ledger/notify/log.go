package notify

import (
	"context"

	"go.uber.org/zap"

	ledger "utility-billing/internal/ledger/application"
)

// LogNotifier records reminders in the structured log. Nothing leaves the process.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier constructs a LogNotifier.
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogNotifier{logger: logger}
}

// NotifyReminder implements ledger.Notifier.
func (n *LogNotifier) NotifyReminder(_ context.Context, r ledger.Reminder) error {
	n.logger.Info("payment reminder",
		zap.String("run_id", r.RunID),
		zap.Int("customer_id", r.CustomerID),
		zap.String("email", r.Email),
		zap.String("province", r.Province),
		zap.String("text", r.Text),
	)
	return nil
}
