package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	ledger "utility-billing/internal/ledger/application"
	"utility-billing/internal/reporting"
)

// ReportWriter persists a monthly report in one or more formats.
type ReportWriter interface {
	WriteAll(ctx context.Context, r reporting.MonthlyReport, path string, formats []reporting.Format) ([]string, error)
}

// Config holds menu settings.
type Config struct {
	SystemName string
	ReportPath string
	Formats    []reporting.Format
}

// Menu is the interactive operator loop.
type Menu struct {
	dir     *ledger.Directory
	reports ReportWriter
	cfg     Config
	in      *bufio.Scanner
	out     io.Writer
	logger  *zap.Logger

	lines   chan string
	scanErr error
}

// NewMenu constructs a Menu reading commands from in and writing to out.
func NewMenu(dir *ledger.Directory, reports ReportWriter, cfg Config, in io.Reader, out io.Writer, logger *zap.Logger) (*Menu, error) {
	if dir == nil {
		return nil, errors.New("console: nil directory")
	}
	if reports == nil {
		return nil, errors.New("console: nil report writer")
	}
	if in == nil || out == nil {
		return nil, errors.New("console: nil input or output")
	}
	if cfg.SystemName == "" {
		cfg.SystemName = reporting.DefaultSystemName
	}
	if cfg.ReportPath == "" {
		cfg.ReportPath = reporting.DefaultPath
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Menu{
		dir:     dir,
		reports: reports,
		cfg:     cfg,
		in:      bufio.NewScanner(in),
		out:     out,
		logger:  logger,
	}, nil
}

// Run loops until the operator exits or input ends. Cancelling ctx returns
// immediately, even while waiting for input.
func (m *Menu) Run(ctx context.Context) error {
	m.lines = make(chan string)
	go m.scan(ctx)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		m.printMenu()
		choice, ok := m.readLine(ctx)
		if !ok {
			if err := ctx.Err(); err != nil {
				return err
			}
			return m.scanErr
		}
		fmt.Fprintln(m.out)

		switch choice {
		case "1":
			m.findCustomers(ctx)
		case "2":
			m.showOverdue()
		case "3":
			run := m.dir.RunReminders(ctx)
			fmt.Fprintf(m.out, "Payment reminders have been sent! (%d sent, %d failed)\n", run.Sent, run.Failed)
		case "4":
			run, err := m.dir.RunBillingCycle(ctx)
			if err != nil {
				fmt.Fprintf(m.out, "Billing failed: %v\n", err)
				continue
			}
			fmt.Fprintf(m.out, "Billing completed for all customers. (%d bills, $%s)\n", run.Billed, run.Amount.StringFixed(2))
		case "5":
			printStats(m.out, m.cfg.SystemName, m.dir.SystemStats())
			printProvinceStats(m.out, m.dir.ProvinceStatistics())
		case "6":
			m.generateReport(ctx)
		case "0":
			fmt.Fprintf(m.out, "Thanks for using the %s System!\n", m.cfg.SystemName)
			return nil
		default:
			fmt.Fprintln(m.out, "Oops! Invalid option. Try again.")
		}
	}
}

func (m *Menu) printMenu() {
	fmt.Fprintf(m.out, "\n===== %s System =====\n", m.cfg.SystemName)
	fmt.Fprintln(m.out, "1. Find customers")
	fmt.Fprintln(m.out, "2. Show overdue customers")
	fmt.Fprintln(m.out, "3. Send payment reminders")
	fmt.Fprintln(m.out, "4. Run billing process")
	fmt.Fprintln(m.out, "5. View system stats")
	fmt.Fprintln(m.out, "6. Generate monthly report")
	fmt.Fprintln(m.out, "0. Exit")
	fmt.Fprint(m.out, "Your choice: ")
}

// scan feeds input lines to m.lines and closes it when input ends.
func (m *Menu) scan(ctx context.Context) {
	defer close(m.lines)
	for m.in.Scan() {
		select {
		case m.lines <- strings.TrimSpace(m.in.Text()):
		case <-ctx.Done():
			return
		}
	}
	m.scanErr = m.in.Err()
}

func (m *Menu) readLine(ctx context.Context) (string, bool) {
	select {
	case line, ok := <-m.lines:
		return line, ok
	case <-ctx.Done():
		return "", false
	}
}

func (m *Menu) findCustomers(ctx context.Context) {
	fmt.Fprint(m.out, "Search (name, ID, or email): ")
	query, _ := m.readLine(ctx)
	fmt.Fprint(m.out, "Filter by province (optional): ")
	province, _ := m.readLine(ctx)
	if ctx.Err() != nil {
		return
	}

	results := m.dir.FindCustomers(query, province)
	fmt.Fprintf(m.out, "\nFound %d customers:\n", len(results))
	for _, s := range results {
		printCustomer(m.out, s)
		fmt.Fprintln(m.out, "-------------------------")
	}
}

func (m *Menu) showOverdue() {
	results := m.dir.OverdueCustomers()
	fmt.Fprintf(m.out, "Found %d customers with overdue bills:\n", len(results))
	for _, s := range results {
		printCustomer(m.out, s)
		fmt.Fprintln(m.out, "-------------------------")
	}
}

func (m *Menu) generateReport(ctx context.Context) {
	report := m.dir.MonthlyReport()
	paths, err := m.reports.WriteAll(ctx, report, m.cfg.ReportPath, m.cfg.Formats)
	for _, p := range paths {
		fmt.Fprintf(m.out, "Report saved to %s\n", p)
	}
	if err != nil {
		m.logger.Warn("monthly report failed", zap.String("report_id", report.ID), zap.Error(err))
		fmt.Fprintf(m.out, "Couldn't save the report: %v\n", err)
	}
}
