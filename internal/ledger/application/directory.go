package ledger

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"utility-billing/internal/catalog"
	customers "utility-billing/internal/customers/domain"
	"utility-billing/internal/observability/metrics"
	"utility-billing/internal/reporting"
	trades "utility-billing/internal/trades/domain"
)

// Directory owns every customer and trade record and runs the billing operations over them.
type Directory struct {
	mu         sync.Mutex
	customers  []*customers.Customer
	byID       map[int]*customers.Customer
	provinces  map[string][]*customers.Customer
	trades     []trades.Record
	catalog    *catalog.Catalog
	notifier   Notifier
	clock      customers.Clock
	logger     *zap.Logger
	systemName string
}

// Option configures a Directory.
type Option func(*Directory)

// WithNotifier sets the reminder delivery channel.
func WithNotifier(notifier Notifier) Option {
	return func(d *Directory) {
		if notifier != nil {
			d.notifier = notifier
		}
	}
}

// WithClock overrides the default clock.
func WithClock(clock customers.Clock) Option {
	return func(d *Directory) {
		if clock != nil {
			d.clock = clock
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(d *Directory) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithSystemName sets the name printed in report titles.
func WithSystemName(name string) Option {
	return func(d *Directory) {
		if strings.TrimSpace(name) != "" {
			d.systemName = name
		}
	}
}

// NewDirectory constructs an empty directory priced by cat.
func NewDirectory(cat *catalog.Catalog, opts ...Option) (*Directory, error) {
	if cat == nil {
		return nil, ErrNilCatalog
	}
	d := &Directory{
		byID:       make(map[int]*customers.Customer),
		provinces:  make(map[string][]*customers.Customer),
		catalog:    cat,
		notifier:   NopNotifier{},
		clock:      customers.SystemClock{},
		logger:     zap.NewNop(),
		systemName: reporting.DefaultSystemName,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d, nil
}

// Catalog returns the price list.
func (d *Directory) Catalog() *catalog.Catalog {
	return d.catalog
}

// Len returns the number of customers.
func (d *Directory) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.customers)
}

// AddCustomer registers c. Customer ids are unique.
func (d *Directory) AddCustomer(c *customers.Customer) error {
	if c == nil {
		return ErrNilCustomer
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.byID[c.ID()]; ok {
		return ErrDuplicateCustomer
	}
	d.customers = append(d.customers, c)
	d.byID[c.ID()] = c
	d.provinces[c.Province()] = append(d.provinces[c.Province()], c)
	return nil
}

// AddTrade appends a trade record.
func (d *Directory) AddTrade(r trades.Record) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.trades = append(d.trades, r)
}

// Trades returns a copy of every trade record in insertion order.
func (d *Directory) Trades() []trades.Record {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]trades.Record, len(d.trades))
	copy(out, d.trades)
	return out
}

// Customer returns a snapshot of the customer with id.
func (d *Directory) Customer(id int) (customers.Snapshot, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	c, ok := d.byID[id]
	if !ok {
		return customers.Snapshot{}, ErrCustomerNotFound
	}
	return c.Snapshot(), nil
}

// RecordUsage adds consumption to a customer's current cycle.
func (d *Directory) RecordUsage(id int, amount decimal.Decimal) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	c, ok := d.byID[id]
	if !ok {
		return ErrCustomerNotFound
	}
	if err := c.RecordUsage(amount); err != nil {
		metrics.IncUsageRejected(usageRejectReason(err))
		d.logger.Info("usage rejected",
			zap.Int("customer_id", id),
			zap.String("amount", amount.String()),
			zap.String("remaining", c.Remaining().String()),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func usageRejectReason(err error) string {
	switch {
	case errors.Is(err, customers.ErrUsageExceedsAllocation):
		return "exceeds_allocation"
	case errors.Is(err, customers.ErrNegativeUsage):
		return "negative"
	default:
		return "unknown"
	}
}

// Pay settles bill billIndex of customer id.
func (d *Directory) Pay(id, billIndex int, amount decimal.Decimal) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	c, ok := d.byID[id]
	if !ok {
		metrics.IncPayment(metrics.ResultError)
		return ErrCustomerNotFound
	}
	if err := c.Pay(billIndex, amount); err != nil {
		metrics.IncPayment(metrics.ResultError)
		d.logger.Info("payment rejected",
			zap.Int("customer_id", id),
			zap.Int("bill_index", billIndex),
			zap.String("amount", amount.String()),
			zap.Error(err),
		)
		return err
	}
	metrics.IncPayment(metrics.ResultSuccess)
	return nil
}

// AddMaintenance appends a maintenance record to customer id.
func (d *Directory) AddMaintenance(id int, description string, cost decimal.Decimal) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	c, ok := d.byID[id]
	if !ok {
		return ErrCustomerNotFound
	}
	return c.AddMaintenance(description, cost)
}

// BillingRun summarizes one billing cycle.
type BillingRun struct {
	RunID   string          `json:"run_id"`
	At      time.Time       `json:"at"`
	Billed  int             `json:"billed"`
	Skipped int             `json:"skipped"`
	Amount  decimal.Decimal `json:"amount"`
}

// RunBillingCycle bills every customer with non-zero usage at the catalog price of their kind.
func (d *Directory) RunBillingCycle(ctx context.Context) (BillingRun, error) {
	start := time.Now()
	d.mu.Lock()
	defer d.mu.Unlock()

	run := BillingRun{RunID: uuid.NewString(), At: d.clock.Now(), Amount: decimal.Zero}
	for _, c := range d.customers {
		if c.Used().IsZero() {
			run.Skipped++
			continue
		}
		rate, err := d.catalog.Price(c.Kind())
		if err != nil {
			metrics.ObserveBillingRun(metrics.ResultError, run.Billed, time.Since(start))
			return run, err
		}
		bill := c.IssueBill(rate)
		run.Billed++
		run.Amount = run.Amount.Add(bill.Amount())
	}
	metrics.ObserveBillingRun(metrics.ResultSuccess, run.Billed, time.Since(start))
	d.logger.Info("billing cycle complete",
		zap.String("run_id", run.RunID),
		zap.Int("billed", run.Billed),
		zap.Int("skipped", run.Skipped),
		zap.String("amount", run.Amount.StringFixed(2)),
	)
	return run, nil
}

// ReminderRun summarizes one reminder pass.
type ReminderRun struct {
	RunID  string    `json:"run_id"`
	At     time.Time `json:"at"`
	Sent   int       `json:"sent"`
	Failed int       `json:"failed"`
}

// RunReminders generates a reminder for each eligible customer and hands it to the notifier.
// A customer whose delivery fails stays latched until their next payment.
func (d *Directory) RunReminders(ctx context.Context) ReminderRun {
	d.mu.Lock()
	defer d.mu.Unlock()

	run := ReminderRun{RunID: uuid.NewString(), At: d.clock.Now()}
	for _, c := range d.customers {
		text, err := c.GenerateReminder()
		if err != nil {
			run.Failed++
			d.logger.Error("reminder render failed", zap.Int("customer_id", c.ID()), zap.Error(err))
			continue
		}
		if text == "" {
			continue
		}
		reminder := Reminder{
			RunID:      run.RunID,
			CustomerID: c.ID(),
			Name:       c.Name(),
			Email:      c.Email(),
			Province:   c.Province(),
			Text:       text,
			At:         run.At,
		}
		if err := d.notifier.NotifyReminder(ctx, reminder); err != nil {
			run.Failed++
			d.logger.Warn("reminder delivery failed", zap.Int("customer_id", c.ID()), zap.Error(err))
			continue
		}
		run.Sent++
	}
	result := metrics.ResultSuccess
	if run.Failed > 0 {
		result = metrics.ResultError
	}
	metrics.ObserveReminderRun(result, run.Sent, run.Failed)
	d.logger.Info("reminder run complete",
		zap.String("run_id", run.RunID),
		zap.Int("sent", run.Sent),
		zap.Int("failed", run.Failed),
	)
	return run
}

// FindCustomers returns customers whose id, name or email contains query, optionally
// restricted to one province. Matching is case-sensitive; empty filters match everything.
func (d *Directory) FindCustomers(query, province string) []customers.Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()

	pool := d.customers
	if province != "" {
		pool = d.provinces[province]
	}
	out := make([]customers.Snapshot, 0)
	for _, c := range pool {
		if matches(c, query) {
			out = append(out, c.Snapshot())
		}
	}
	return out
}

func matches(c *customers.Customer, query string) bool {
	return strings.Contains(strconv.Itoa(c.ID()), query) ||
		strings.Contains(c.Name(), query) ||
		strings.Contains(c.Email(), query)
}

// OverdueCustomers returns every customer with at least one overdue bill.
func (d *Directory) OverdueCustomers() []customers.Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]customers.Snapshot, 0)
	for _, c := range d.customers {
		if c.HasOverdue() {
			out = append(out, c.Snapshot())
		}
	}
	return out
}

// OverdueCount returns the number of customers with an overdue bill.
func (d *Directory) OverdueCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for _, c := range d.customers {
		if c.HasOverdue() {
			n++
		}
	}
	return n
}

// ProvinceStatistics aggregates each province that has customers, in alphabetical order.
func (d *Directory) ProvinceStatistics() []reporting.ProvinceStats {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.provinceStatsLocked()
}

func (d *Directory) provinceStatsLocked() []reporting.ProvinceStats {
	names := make([]string, 0, len(d.provinces))
	for name := range d.provinces {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]reporting.ProvinceStats, 0, len(names))
	for _, name := range names {
		members := d.provinces[name]
		stats := reporting.ProvinceStats{
			Province:  name,
			Customers: len(members),
			Allocated: decimal.Zero,
			Used:      decimal.Zero,
			Unpaid:    decimal.Zero,
		}
		for _, c := range members {
			stats.Allocated = stats.Allocated.Add(c.Allocated())
			stats.Used = stats.Used.Add(c.Used())
			stats.Unpaid = stats.Unpaid.Add(c.TotalOwed())
			if c.HasOverdue() {
				stats.Overdue++
			}
		}
		stats.UsagePct = reporting.Percent(stats.Used, stats.Allocated)
		stats.OverduePct = reporting.PercentOf(stats.Overdue, stats.Customers)
		out = append(out, stats)
	}
	return out
}

// ProvinceCount is the customer count of one province.
type ProvinceCount struct {
	Province  string `json:"province"`
	Customers int    `json:"customers"`
}

// SystemStats is the dashboard view of the directory.
type SystemStats struct {
	TotalCustomers   int             `json:"total_customers"`
	Provinces        []ProvinceCount `json:"provinces"`
	Rates            []catalog.Rate  `json:"rates"`
	OverdueCustomers int             `json:"overdue_customers"`
	OverduePct       decimal.Decimal `json:"overdue_pct"`
	OverdueAmount    decimal.Decimal `json:"overdue_amount"`
	TotalUnpaid      decimal.Decimal `json:"total_unpaid"`
	Trade            trades.Summary  `json:"trade"`
}

// SystemStats returns customer counts, prices, overdue totals and the trade balance.
func (d *Directory) SystemStats() SystemStats {
	d.mu.Lock()
	defer d.mu.Unlock()

	stats := SystemStats{
		TotalCustomers: len(d.customers),
		Rates:          d.catalog.Rates(),
		OverdueAmount:  decimal.Zero,
		TotalUnpaid:    decimal.Zero,
		Trade:          trades.Summarize(d.trades),
	}
	for _, p := range d.provinceStatsLocked() {
		stats.Provinces = append(stats.Provinces, ProvinceCount{Province: p.Province, Customers: p.Customers})
	}
	for _, c := range d.customers {
		owed := c.TotalOwed()
		stats.TotalUnpaid = stats.TotalUnpaid.Add(owed)
		if c.HasOverdue() {
			stats.OverdueCustomers++
			stats.OverdueAmount = stats.OverdueAmount.Add(owed)
		}
	}
	stats.OverduePct = reporting.PercentOf(stats.OverdueCustomers, stats.TotalCustomers)
	return stats
}

// MonthlyReport builds the report for the current month.
func (d *Directory) MonthlyReport() reporting.MonthlyReport {
	start := time.Now()
	d.mu.Lock()
	defer d.mu.Unlock()

	report := reporting.MonthlyReport{
		ID:             uuid.NewString(),
		SystemName:     d.systemName,
		GeneratedAt:    d.clock.Now(),
		TotalCustomers: len(d.customers),
		TotalUnpaid:    decimal.Zero,
		Provinces:      d.provinceStatsLocked(),
		Trade:          trades.Summarize(d.trades),
	}
	for _, p := range report.Provinces {
		report.TotalUnpaid = report.TotalUnpaid.Add(p.Unpaid)
		report.OverdueCount += p.Overdue
	}
	report.OverduePct = reporting.PercentOf(report.OverdueCount, report.TotalCustomers)
	metrics.ObserveReportGenerate(metrics.ResultSuccess, time.Since(start))
	return report
}
