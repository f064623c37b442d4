package reporting

import (
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
)

func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

func pct(d decimal.Decimal) string {
	return d.StringFixed(1) + "%"
}

// BuildText renders the plain-text monthly report.
func BuildText(r MonthlyReport) []byte {
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n\n", r.Title())

	b.WriteString("Overall Stats:\n")
	fmt.Fprintf(&b, "Total Customers: %d\n", r.TotalCustomers)
	fmt.Fprintf(&b, "Total Unpaid: %s\n", money(r.TotalUnpaid))
	fmt.Fprintf(&b, "Overdue Customers: %d (%s)\n\n", r.OverdueCount, pct(r.OverduePct))

	b.WriteString("Province Breakdown:\n")
	for _, p := range r.Provinces {
		fmt.Fprintf(&b, "%s:\n", p.Province)
		fmt.Fprintf(&b, "  Customers: %d\n", p.Customers)
		fmt.Fprintf(&b, "  Energy Allocated: %s units\n", p.Allocated.StringFixed(2))
		fmt.Fprintf(&b, "  Energy Used: %s (%s)\n", p.Used.StringFixed(2), pct(p.UsagePct))
		fmt.Fprintf(&b, "  Unpaid Bills: %s\n", money(p.Unpaid))
		fmt.Fprintf(&b, "  Overdue: %d (%s)\n\n", p.Overdue, pct(p.OverduePct))
	}

	b.WriteString("Import/Export Summary:\n")
	fmt.Fprintf(&b, "Total Imports: %s\n", money(r.Trade.TotalImports))
	fmt.Fprintf(&b, "Total Exports: %s\n", money(r.Trade.TotalExports))
	fmt.Fprintf(&b, "Net Balance: %s\n\n", money(r.Trade.NetBalance))

	b.WriteString("Imports by Type:\n")
	for _, k := range r.Trade.ImportsByKind {
		fmt.Fprintf(&b, "  %s: %s\n", k.Name, money(k.Value))
	}
	b.WriteString("\nExports by Type:\n")
	for _, k := range r.Trade.ExportsByKind {
		fmt.Fprintf(&b, "  %s: %s\n", k.Name, money(k.Value))
	}

	b.WriteString("\n--- End of Report ---\n")
	return []byte(b.String())
}

// WriteText writes the plain-text report to w.
func WriteText(w io.Writer, r MonthlyReport) error {
	_, err := w.Write(BuildText(r))
	return err
}
