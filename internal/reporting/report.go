package reporting

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	trades "utility-billing/internal/trades/domain"
)

// DefaultSystemName prefixes report titles when none is configured.
const DefaultSystemName = "Energy Provider"

var hundred = decimal.NewFromInt(100)

// ProvinceStats aggregates the customers of one province.
type ProvinceStats struct {
	Province   string          `json:"province"`
	Customers  int             `json:"customers"`
	Allocated  decimal.Decimal `json:"allocated"`
	Used       decimal.Decimal `json:"used"`
	Unpaid     decimal.Decimal `json:"unpaid"`
	Overdue    int             `json:"overdue"`
	UsagePct   decimal.Decimal `json:"usage_pct"`
	OverduePct decimal.Decimal `json:"overdue_pct"`
}

// MonthlyReport is the system-wide summary for the month of GeneratedAt.
type MonthlyReport struct {
	ID             string          `json:"id"`
	SystemName     string          `json:"system_name"`
	GeneratedAt    time.Time       `json:"generated_at"`
	TotalCustomers int             `json:"total_customers"`
	TotalUnpaid    decimal.Decimal `json:"total_unpaid"`
	OverdueCount   int             `json:"overdue_count"`
	OverduePct     decimal.Decimal `json:"overdue_pct"`
	Provinces      []ProvinceStats `json:"provinces"`
	Trade          trades.Summary  `json:"trade"`
}

// Title returns "<system> Monthly Report - <Month YYYY>".
func (r MonthlyReport) Title() string {
	name := r.SystemName
	if name == "" {
		name = DefaultSystemName
	}
	return fmt.Sprintf("%s Monthly Report - %s", name, r.GeneratedAt.Format("January 2006"))
}

// Percent returns part/whole*100, or zero when whole is zero.
func Percent(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(hundred)
}

// PercentOf is Percent for counts.
func PercentOf(part, whole int) decimal.Decimal {
	return Percent(decimal.NewFromInt(int64(part)), decimal.NewFromInt(int64(whole)))
}
