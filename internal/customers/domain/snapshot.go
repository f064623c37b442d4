package customers

import (
	"time"

	"github.com/shopspring/decimal"

	"utility-billing/internal/catalog"
)

// BillView is a read-only projection of a bill.
type BillView struct {
	Index     int             `json:"index"`
	Amount    decimal.Decimal `json:"amount"`
	IssuedAt  time.Time       `json:"issued_at"`
	Paid      bool            `json:"paid"`
	PaidAt    *time.Time      `json:"paid_at,omitempty"`
	DaysSince int             `json:"days_since"`
	Overdue   bool            `json:"overdue"`
}

// Snapshot is a read-only projection of a customer at one instant.
type Snapshot struct {
	ID           int                `json:"id"`
	Name         string             `json:"name"`
	Province     string             `json:"province"`
	Email        string             `json:"email"`
	Address      string             `json:"address"`
	Kind         catalog.Kind       `json:"kind"`
	KindName     string             `json:"kind_name"`
	Allocated    decimal.Decimal    `json:"allocated"`
	Used         decimal.Decimal    `json:"used"`
	Remaining    decimal.Decimal    `json:"remaining"`
	TotalOwed    decimal.Decimal    `json:"total_owed"`
	HasOverdue   bool               `json:"has_overdue"`
	ReminderSent bool               `json:"reminder_sent"`
	Bills        []BillView         `json:"bills"`
	Maintenance  []MaintenanceEntry `json:"maintenance"`
	TakenAt      time.Time          `json:"taken_at"`
}

// Snapshot captures the customer's current state.
func (c *Customer) Snapshot() Snapshot {
	now := c.clock.Now()
	bills := make([]BillView, 0, len(c.bills))
	overdue := false
	for i, bill := range c.bills {
		view := BillView{
			Index:     i,
			Amount:    bill.amount,
			IssuedAt:  bill.issuedAt,
			Paid:      bill.paid,
			DaysSince: bill.DaysSince(now),
			Overdue:   bill.IsOverdue(now),
		}
		if bill.paid {
			paidAt := bill.paidAt
			view.PaidAt = &paidAt
		}
		overdue = overdue || view.Overdue
		bills = append(bills, view)
	}
	return Snapshot{
		ID:           c.id,
		Name:         c.name,
		Province:     c.province,
		Email:        c.email,
		Address:      c.address,
		Kind:         c.kind,
		KindName:     c.kind.String(),
		Allocated:    c.allocated,
		Used:         c.used,
		Remaining:    c.Remaining(),
		TotalOwed:    c.TotalOwed(),
		HasOverdue:   overdue,
		ReminderSent: c.reminderSent,
		Bills:        bills,
		Maintenance:  c.Maintenance(),
		TakenAt:      now,
	}
}
