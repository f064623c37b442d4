package customers

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"utility-billing/internal/catalog"
)

// Params holds the externally supplied attributes of a new customer.
type Params struct {
	ID        int             `validate:"gt=0"`
	Name      string          `validate:"required"`
	Province  string          `validate:"required,province"`
	Email     string          `validate:"required,email"`
	Address   string
	Kind      catalog.Kind    `validate:"energykind"`
	Allocated decimal.Decimal `validate:"gt=0"`
}

// MaintenanceEntry is an append-only service record.
type MaintenanceEntry struct {
	At          time.Time       `json:"at"`
	Description string          `json:"description"`
	Cost        decimal.Decimal `json:"cost"`
}

// Customer is the billing aggregate for one account.
type Customer struct {
	id        int
	name      string
	province  string
	email     string
	address   string
	kind      catalog.Kind
	allocated decimal.Decimal
	used      decimal.Decimal

	bills        []Bill
	maintenance  []MaintenanceEntry
	reminderSent bool

	clock    Clock
	reminder *ReminderTemplate
}

// Option configures a customer.
type Option func(*Customer)

// WithClock overrides the default clock.
func WithClock(clock Clock) Option {
	return func(c *Customer) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithReminderTemplate overrides the reminder layout.
func WithReminderTemplate(tpl *ReminderTemplate) Option {
	return func(c *Customer) {
		if tpl != nil {
			c.reminder = tpl
		}
	}
}

// NewCustomer validates params and constructs a customer with no usage and no bills.
func NewCustomer(p Params, opts ...Option) (*Customer, error) {
	p.Name = strings.TrimSpace(p.Name)
	p.Email = strings.TrimSpace(p.Email)
	if err := validateParams(p); err != nil {
		return nil, err
	}
	c := &Customer{
		id:        p.ID,
		name:      p.Name,
		province:  p.Province,
		email:     p.Email,
		address:   p.Address,
		kind:      p.Kind,
		allocated: p.Allocated,
		used:      decimal.Zero,
		clock:     SystemClock{},
		reminder:  defaultReminder,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

func (c *Customer) ID() int                    { return c.id }
func (c *Customer) Name() string               { return c.name }
func (c *Customer) Province() string           { return c.province }
func (c *Customer) Email() string              { return c.email }
func (c *Customer) Address() string            { return c.address }
func (c *Customer) Kind() catalog.Kind         { return c.kind }
func (c *Customer) Allocated() decimal.Decimal { return c.allocated }
func (c *Customer) Used() decimal.Decimal      { return c.used }
func (c *Customer) ReminderSent() bool         { return c.reminderSent }
func (c *Customer) BillCount() int             { return len(c.bills) }

// Remaining returns the allocation still available in the current cycle.
func (c *Customer) Remaining() decimal.Decimal {
	return c.allocated.Sub(c.used)
}

// Bills returns a copy of the bill history, oldest first.
func (c *Customer) Bills() []Bill {
	out := make([]Bill, len(c.bills))
	copy(out, c.bills)
	return out
}

// Maintenance returns a copy of the maintenance log.
func (c *Customer) Maintenance() []MaintenanceEntry {
	out := make([]MaintenanceEntry, len(c.maintenance))
	copy(out, c.maintenance)
	return out
}

// RecordUsage adds consumption to the current cycle. Usage is all-or-nothing.
func (c *Customer) RecordUsage(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return ErrNegativeUsage
	}
	if amount.GreaterThan(c.Remaining()) {
		return ErrUsageExceedsAllocation
	}
	c.used = c.used.Add(amount)
	return nil
}

// IssueBill charges the current usage at rate and starts a new cycle.
func (c *Customer) IssueBill(rate decimal.Decimal) Bill {
	bill := newBill(c.used.Mul(rate), c.clock.Now())
	c.bills = append(c.bills, bill)
	c.used = decimal.Zero
	return bill
}

// ImportBill appends a historical bill without touching current usage.
func (c *Customer) ImportBill(amount decimal.Decimal, issuedAt time.Time, paid bool) error {
	if amount.IsNegative() {
		return ErrNegativeAmount
	}
	if issuedAt.IsZero() {
		return ErrInvalidIssueTime
	}
	bill := newBill(amount, issuedAt)
	if paid {
		bill.paid = true
		bill.paidAt = issuedAt
	}
	c.bills = append(c.bills, bill)
	return nil
}

// Pay settles the bill at index when tendered covers its amount.
// Any successful payment re-arms the reminder.
func (c *Customer) Pay(index int, tendered decimal.Decimal) error {
	if index < 0 || index >= len(c.bills) {
		return ErrBillIndexOutOfRange
	}
	if tendered.IsNegative() {
		return ErrNegativePayment
	}
	bill := &c.bills[index]
	if tendered.LessThan(bill.amount) {
		return ErrInsufficientPayment
	}
	if !bill.paid {
		bill.paid = true
		bill.paidAt = c.clock.Now()
	}
	c.reminderSent = false
	return nil
}

// TotalOwed sums every unpaid bill.
func (c *Customer) TotalOwed() decimal.Decimal {
	total := decimal.Zero
	for _, bill := range c.bills {
		if !bill.paid {
			total = total.Add(bill.amount)
		}
	}
	return total
}

// HasOverdue reports whether any bill is overdue now.
func (c *Customer) HasOverdue() bool {
	now := c.clock.Now()
	for _, bill := range c.bills {
		if bill.IsOverdue(now) {
			return true
		}
	}
	return false
}

// GenerateReminder returns reminder text for overdue bills and latches the reminder.
// It returns an empty string when nothing is overdue or a reminder is already out.
func (c *Customer) GenerateReminder() (string, error) {
	if c.reminderSent {
		return "", nil
	}
	now := c.clock.Now()
	data := ReminderData{
		CustomerID: c.id,
		Name:       c.name,
		Email:      c.email,
		Province:   c.province,
	}
	total := decimal.Zero
	for i, bill := range c.bills {
		if !bill.IsOverdue(now) {
			continue
		}
		data.Bills = append(data.Bills, ReminderLine{
			Number:      i + 1,
			IssuedOn:    bill.issuedAt.Format("2006-01-02"),
			Amount:      bill.amount.StringFixed(2),
			DaysOverdue: bill.DaysOverdue(now),
		})
		total = total.Add(bill.amount)
	}
	if len(data.Bills) == 0 {
		return "", nil
	}
	data.Total = total.StringFixed(2)
	text, err := c.reminder.Render(data)
	if err != nil {
		return "", err
	}
	c.reminderSent = true
	return text, nil
}

// AddMaintenance appends a maintenance record stamped with the current time.
func (c *Customer) AddMaintenance(description string, cost decimal.Decimal) error {
	return c.ImportMaintenance(c.clock.Now(), description, cost)
}

// ImportMaintenance appends a maintenance record with an explicit time.
func (c *Customer) ImportMaintenance(at time.Time, description string, cost decimal.Decimal) error {
	if cost.IsNegative() {
		return ErrNegativeCost
	}
	c.maintenance = append(c.maintenance, MaintenanceEntry{
		At:          at,
		Description: description,
		Cost:        cost,
	})
	return nil
}
