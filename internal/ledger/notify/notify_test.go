package notify

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	ledger "utility-billing/internal/ledger/application"
)

type failingNotifier struct{}

func (failingNotifier) NotifyReminder(context.Context, ledger.Reminder) error {
	return errors.New("smtp down")
}

var reminder = ledger.Reminder{
	RunID:      "run-1",
	CustomerID: 1001,
	Name:       "John Smith",
	Email:      "jsmith@email.com",
	Province:   "Ontario",
	Text:       "Hi John Smith,",
}

func TestConsoleNotifier(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewConsoleNotifier(&buf).NotifyReminder(context.Background(), reminder))
	assert.Equal(t, "Sent reminder to John Smith (ID: 1001)\n", buf.String())
}

func TestLogNotifier(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	require.NoError(t, NewLogNotifier(zap.New(core)).NotifyReminder(context.Background(), reminder))

	entries := logs.FilterMessage("payment reminder").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, int64(1001), fields["customer_id"])
	assert.Equal(t, "jsmith@email.com", fields["email"])
}

func TestMultiNotifierJoinsErrors(t *testing.T) {
	var buf bytes.Buffer
	multi := NewMultiNotifier(NewConsoleNotifier(&buf), nil, failingNotifier{})

	err := multi.NotifyReminder(context.Background(), reminder)

	assert.EqualError(t, err, "smtp down")
	assert.Contains(t, buf.String(), "John Smith")

	var nilMulti *MultiNotifier
	assert.NoError(t, nilMulti.NotifyReminder(context.Background(), reminder))
}
