package customers

import (
	"time"

	"github.com/shopspring/decimal"
)

// OverdueAfterDays is the number of whole days a bill may stay unpaid before it is overdue.
const OverdueAfterDays = 30

const secondsPerDay = 24 * 60 * 60

// Bill is one billing-cycle charge. Amount and issue time are fixed at creation.
type Bill struct {
	amount   decimal.Decimal
	issuedAt time.Time
	paid     bool
	paidAt   time.Time
}

func newBill(amount decimal.Decimal, issuedAt time.Time) Bill {
	return Bill{amount: amount, issuedAt: issuedAt}
}

// Amount returns the charged amount.
func (b Bill) Amount() decimal.Decimal {
	return b.amount
}

// IssuedAt returns when the bill was created.
func (b Bill) IssuedAt() time.Time {
	return b.issuedAt
}

// IsPaid reports whether the bill has been settled.
func (b Bill) IsPaid() bool {
	return b.paid
}

// PaidAt returns the settlement time, if any.
func (b Bill) PaidAt() (time.Time, bool) {
	return b.paidAt, b.paid
}

// DaysSince returns the whole days elapsed from issue to now, rounded down.
func (b Bill) DaysSince(now time.Time) int {
	seconds := int64(now.Sub(b.issuedAt) / time.Second)
	days := seconds / secondsPerDay
	if seconds < 0 && seconds%secondsPerDay != 0 {
		days--
	}
	return int(days)
}

// IsOverdue reports whether the bill is unpaid more than OverdueAfterDays after issue.
func (b Bill) IsOverdue(now time.Time) bool {
	return !b.paid && b.DaysSince(now) > OverdueAfterDays
}

// DaysOverdue returns the days past the overdue threshold, or zero.
func (b Bill) DaysOverdue(now time.Time) int {
	if !b.IsOverdue(now) {
		return 0
	}
	return b.DaysSince(now) - OverdueAfterDays
}
