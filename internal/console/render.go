package console

import (
	"fmt"
	"io"

	customers "utility-billing/internal/customers/domain"
	ledger "utility-billing/internal/ledger/application"
	"utility-billing/internal/reporting"
)

func printCustomer(w io.Writer, s customers.Snapshot) {
	fmt.Fprintf(w, "--- Customer Info ---\n")
	fmt.Fprintf(w, "ID: %d\nName: %s\nProvince: %s\nEmail: %s\nAddress: %s\n", s.ID, s.Name, s.Province, s.Email, s.Address)
	fmt.Fprintf(w, "Energy Type: %s\n", s.KindName)
	fmt.Fprintf(w, "Allocation: %s units\n", s.Allocated.StringFixed(2))
	fmt.Fprintf(w, "Current Usage: %s units\n", s.Used.StringFixed(2))
	fmt.Fprintf(w, "Remaining: %s units\n\n", s.Remaining.StringFixed(2))

	if len(s.Bills) == 0 {
		fmt.Fprintln(w, "No bills yet.")
	} else {
		fmt.Fprintln(w, "Payment History:")
		for _, b := range s.Bills {
			status := "Unpaid"
			if b.Paid {
				status = "Paid"
			}
			fmt.Fprintf(w, "  Bill #%d (%s): $%s - %s - %d days ago",
				b.Index+1, b.IssuedAt.Format("2006-01-02"), b.Amount.StringFixed(2), status, b.DaysSince)
			if b.Overdue {
				fmt.Fprint(w, " (OVERDUE!)")
			}
			fmt.Fprintln(w)
		}
	}

	if len(s.Maintenance) > 0 {
		fmt.Fprintln(w, "\nMaintenance Records:")
		for _, m := range s.Maintenance {
			fmt.Fprintf(w, "  %s: %s - Cost: $%s\n", m.At.Format("2006-01-02"), m.Description, m.Cost.StringFixed(2))
		}
	}
	fmt.Fprintln(w)
}

func printStats(w io.Writer, name string, s ledger.SystemStats) {
	fmt.Fprintf(w, "+++ %s System Stats +++\n", name)
	fmt.Fprintf(w, "Total Customers: %d\n\n", s.TotalCustomers)

	fmt.Fprintln(w, "By Province:")
	for _, p := range s.Provinces {
		fmt.Fprintf(w, "  %s: %d customers\n", p.Province, p.Customers)
	}

	fmt.Fprintln(w, "\nEnergy Rates:")
	for _, r := range s.Rates {
		fmt.Fprintf(w, "  %s: $%s per unit\n", r.Name, r.Price.StringFixed(2))
	}

	fmt.Fprintln(w, "\nOverdue Payments:")
	fmt.Fprintf(w, "  Customers with overdue bills: %d (%s%%)\n", s.OverdueCustomers, s.OverduePct.StringFixed(1))
	fmt.Fprintf(w, "  Total overdue amount: $%s\n", s.OverdueAmount.StringFixed(2))
	fmt.Fprintf(w, "  Total unpaid amount: $%s\n", s.TotalUnpaid.StringFixed(2))

	fmt.Fprintln(w, "\nImport/Export:")
	fmt.Fprintf(w, "  Total imports: $%s\n", s.Trade.TotalImports.StringFixed(2))
	fmt.Fprintf(w, "  Total exports: $%s\n", s.Trade.TotalExports.StringFixed(2))
	fmt.Fprintf(w, "  Balance: $%s\n\n", s.Trade.NetBalance.StringFixed(2))
}

func printProvinceStats(w io.Writer, stats []reporting.ProvinceStats) {
	fmt.Fprintln(w, "Province Statistics:")
	for _, p := range stats {
		fmt.Fprintf(w, "  %s:\n", p.Province)
		fmt.Fprintf(w, "    Customers: %d\n", p.Customers)
		fmt.Fprintf(w, "    Energy Allocated: %s units\n", p.Allocated.StringFixed(2))
		fmt.Fprintf(w, "    Energy Used: %s (%s%%)\n", p.Used.StringFixed(2), p.UsagePct.StringFixed(1))
		fmt.Fprintf(w, "    Unpaid Bills: $%s\n", p.Unpaid.StringFixed(2))
		fmt.Fprintf(w, "    Overdue: %d (%s%%)\n", p.Overdue, p.OverduePct.StringFixed(1))
	}
	fmt.Fprintln(w)
}
