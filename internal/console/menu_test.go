package console

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"utility-billing/internal/catalog"
	customers "utility-billing/internal/customers/domain"
	ledger "utility-billing/internal/ledger/application"
	"utility-billing/internal/reporting"
)

type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time { return c.now }

func newDirectory(t *testing.T, clock *fixedClock) *ledger.Directory {
	t.Helper()
	dir, err := ledger.NewDirectory(catalog.Default(), ledger.WithClock(clock))
	require.NoError(t, err)
	for _, p := range []customers.Params{
		{ID: 1001, Name: "John Smith", Province: "Ontario", Email: "jsmith@email.com", Address: "120 Walker Rd, Ontario", Kind: catalog.Solar, Allocated: decimal.NewFromInt(500)},
		{ID: 1002, Name: "Jane Jones", Province: "Quebec", Email: "jjones@email.com", Kind: catalog.CrudeOil, Allocated: decimal.NewFromInt(300)},
	} {
		c, err := customers.NewCustomer(p, customers.WithClock(clock))
		require.NoError(t, err)
		require.NoError(t, dir.AddCustomer(c))
	}
	return dir
}

func runMenu(t *testing.T, dir *ledger.Directory, reportPath, input string) string {
	t.Helper()
	var out bytes.Buffer
	menu, err := NewMenu(dir, reporting.NewWriter(nil), Config{ReportPath: reportPath}, strings.NewReader(input), &out, nil)
	require.NoError(t, err)
	require.NoError(t, menu.Run(context.Background()))
	return out.String()
}

func TestMenuFindAndBilling(t *testing.T) {
	clock := &fixedClock{now: time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)}
	dir := newDirectory(t, clock)
	require.NoError(t, dir.RecordUsage(1001, decimal.NewFromInt(300)))

	out := runMenu(t, dir, filepath.Join(t.TempDir(), "r.txt"), "1\nSmith\nOntario\n4\n1\n1001\n\n0\n")

	assert.Contains(t, out, "===== Energy Provider System =====")
	assert.Contains(t, out, "Found 1 customers:")
	assert.Contains(t, out, "Name: John Smith")
	assert.Contains(t, out, "Current Usage: 300.00 units")
	assert.Contains(t, out, "Billing completed for all customers. (1 bills, $54.00)")
	assert.Contains(t, out, "Bill #1 (2026-10-01): $54.00 - Unpaid - 0 days ago")
	assert.Contains(t, out, "Thanks for using the Energy Provider System!")
}

func TestMenuOverdueRemindersAndStats(t *testing.T) {
	clock := &fixedClock{now: time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)}
	dir := newDirectory(t, clock)
	require.NoError(t, dir.RecordUsage(1002, decimal.NewFromInt(100)))
	_, err := dir.RunBillingCycle(context.Background())
	require.NoError(t, err)
	clock.now = clock.now.Add(31 * 24 * time.Hour)

	out := runMenu(t, dir, filepath.Join(t.TempDir(), "r.txt"), "2\n3\n3\n5\n7\n0\n")

	assert.Contains(t, out, "Found 1 customers with overdue bills:")
	assert.Contains(t, out, "(OVERDUE!)")
	assert.Contains(t, out, "Payment reminders have been sent! (1 sent, 0 failed)")
	assert.Contains(t, out, "Payment reminders have been sent! (0 sent, 0 failed)")
	assert.Contains(t, out, "Total Customers: 2")
	assert.Contains(t, out, "  Crude Oil: $1.25 per unit")
	assert.Contains(t, out, "Customers with overdue bills: 1 (50.0%)")
	assert.Contains(t, out, "Province Statistics:")
	assert.Contains(t, out, "  Quebec:\n    Customers: 1\n    Energy Allocated: 300.00 units\n    Energy Used: 0.00 (0.0%)\n    Unpaid Bills: $125.00\n    Overdue: 1 (100.0%)")
	assert.Contains(t, out, "Oops! Invalid option. Try again.")
}

func TestMenuGeneratesReport(t *testing.T) {
	clock := &fixedClock{now: time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)}
	path := filepath.Join(t.TempDir(), "monthly_report.txt")

	out := runMenu(t, newDirectory(t, clock), path, "6\n0\n")

	assert.Contains(t, out, "Report saved to "+path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "Energy Provider Monthly Report - October 2026"))
}

func TestMenuSurvivesReportFailure(t *testing.T) {
	clock := &fixedClock{now: time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)}
	path := filepath.Join(t.TempDir(), "missing", "monthly_report.txt")

	out := runMenu(t, newDirectory(t, clock), path, "6\n5\n0\n")

	assert.Contains(t, out, "Couldn't save the report")
	assert.Contains(t, out, "Total Customers: 2", "menu keeps running after a failed write")
}

func TestMenuStopsAtEndOfInput(t *testing.T) {
	clock := &fixedClock{now: time.Now()}
	out := runMenu(t, newDirectory(t, clock), filepath.Join(t.TempDir(), "r.txt"), "5\n")
	assert.Contains(t, out, "+++ Energy Provider System Stats +++")
	assert.NotContains(t, out, "Thanks for using")
}

func TestMenuReturnsOnCancelWhileWaitingForInput(t *testing.T) {
	clock := &fixedClock{now: time.Now()}
	in, w := io.Pipe()
	t.Cleanup(func() { _ = w.Close() })

	var out bytes.Buffer
	menu, err := NewMenu(newDirectory(t, clock), reporting.NewWriter(nil), Config{}, in, &out, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- menu.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("menu kept waiting for input after cancel")
	}
}
