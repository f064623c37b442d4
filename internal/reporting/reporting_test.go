package reporting

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"utility-billing/internal/catalog"
	trades "utility-billing/internal/trades/domain"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func sampleReport(t *testing.T) MonthlyReport {
	t.Helper()
	at := time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)
	imp, err := trades.NewRecord(catalog.CrudeOil, dec("1000"), dec("1"), trades.FlowImport, at)
	require.NoError(t, err)
	exp, err := trades.NewRecord(catalog.Solar, dec("500"), dec("1"), trades.FlowExport, at)
	require.NoError(t, err)

	return MonthlyReport{
		ID:             "r-1",
		GeneratedAt:    at,
		TotalCustomers: 3,
		TotalUnpaid:    dec("54"),
		OverdueCount:   1,
		OverduePct:     PercentOf(1, 3),
		Provinces: []ProvinceStats{
			{
				Province:   "Ontario",
				Customers:  2,
				Allocated:  dec("1000"),
				Used:       dec("250"),
				Unpaid:     dec("54"),
				Overdue:    1,
				UsagePct:   Percent(dec("250"), dec("1000")),
				OverduePct: PercentOf(1, 2),
			},
			{
				Province:   "Quebec",
				Customers:  1,
				Allocated:  dec("300"),
				Used:       decimal.Zero,
				Unpaid:     decimal.Zero,
				UsagePct:   Percent(decimal.Zero, dec("300")),
				OverduePct: PercentOf(0, 1),
			},
		},
		Trade: trades.Summarize([]trades.Record{imp, exp}),
	}
}

func TestPercentGuardsZeroDenominator(t *testing.T) {
	assert.True(t, Percent(dec("5"), decimal.Zero).IsZero())
	assert.True(t, PercentOf(0, 0).IsZero())
	assert.Equal(t, "33.3", PercentOf(1, 3).StringFixed(1))
	assert.Equal(t, "25.0", Percent(dec("250"), dec("1000")).StringFixed(1))
}

func TestBuildText(t *testing.T) {
	want := `Energy Provider Monthly Report - October 2026

Overall Stats:
Total Customers: 3
Total Unpaid: $54.00
Overdue Customers: 1 (33.3%)

Province Breakdown:
Ontario:
  Customers: 2
  Energy Allocated: 1000.00 units
  Energy Used: 250.00 (25.0%)
  Unpaid Bills: $54.00
  Overdue: 1 (50.0%)

Quebec:
  Customers: 1
  Energy Allocated: 300.00 units
  Energy Used: 0.00 (0.0%)
  Unpaid Bills: $0.00
  Overdue: 0 (0.0%)

Import/Export Summary:
Total Imports: $1000.00
Total Exports: $500.00
Net Balance: $500.00

Imports by Type:
  Crude Oil: $1000.00

Exports by Type:
  Solar: $500.00

--- End of Report ---
`
	assert.Equal(t, want, string(BuildText(sampleReport(t))))
}

func TestTitleUsesSystemName(t *testing.T) {
	r := MonthlyReport{SystemName: "Prairie Power", GeneratedAt: time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC)}
	assert.Equal(t, "Prairie Power Monthly Report - February 2026", r.Title())
}

func TestEmptyReport(t *testing.T) {
	text := string(BuildText(MonthlyReport{GeneratedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), Trade: trades.Summarize(nil)}))
	assert.Contains(t, text, "Total Customers: 0\n")
	assert.Contains(t, text, "Overdue Customers: 0 (0.0%)\n")
	assert.Contains(t, text, "Net Balance: $0.00\n")
	assert.True(t, strings.HasSuffix(text, "--- End of Report ---\n"))
}

func TestParseFormats(t *testing.T) {
	got, err := ParseFormats([]string{"txt", "PDF", "xlsx", "text"})
	require.NoError(t, err)
	assert.Equal(t, []Format{FormatText, FormatPDF, FormatXLSX}, got)

	_, err = ParseFormats([]string{"docx"})
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestPathFor(t *testing.T) {
	assert.Equal(t, "monthly_report.txt", PathFor("monthly_report.txt", FormatText))
	assert.Equal(t, "out/report.pdf", PathFor("out/report.txt", FormatPDF))
	assert.Equal(t, "report.xlsx", PathFor("report", FormatXLSX))
	assert.Equal(t, "monthly_report.pdf", PathFor("", FormatPDF))
}

func TestWriterWritesText(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "monthly_report.txt")

	err := NewWriter(nil).Write(context.Background(), sampleReport(t), path, FormatText)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "Energy Provider Monthly Report - October 2026\n"))
}

func TestWriterReportsUnwritableDestination(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "monthly_report.txt")

	err := NewWriter(nil).Write(context.Background(), sampleReport(t), path, FormatText)

	var writeErr *WriteError
	require.True(t, errors.As(err, &writeErr))
	assert.Equal(t, path, writeErr.Path)
	assert.Equal(t, FormatText, writeErr.Format)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWriteAllFormats(t *testing.T) {
	base := filepath.Join(t.TempDir(), "monthly_report.txt")

	paths, err := NewWriter(nil).WriteAll(context.Background(), sampleReport(t), base, []Format{FormatText, FormatXLSX, FormatPDF})
	require.NoError(t, err)
	require.Len(t, paths, 3)

	for _, p := range paths {
		info, err := os.Stat(p)
		require.NoError(t, err, p)
		assert.Positive(t, info.Size(), p)
	}

	pdf, err := os.ReadFile(paths[2])
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(pdf), "%PDF"))
	xlsx, err := os.ReadFile(paths[1])
	require.NoError(t, err)
	assert.Equal(t, "PK", string(xlsx[:2]))
}

func TestBuildPDFCarriesTradeBreakdown(t *testing.T) {
	data, err := BuildPDF(sampleReport(t))
	require.NoError(t, err)

	body := string(data)
	assert.True(t, strings.HasPrefix(body, "%PDF"))
	for _, want := range []string{
		"Net Balance: $500.00",
		"Imports by Type",
		"Crude Oil: $1000.00",
		"Exports by Type",
		"Solar: $500.00",
	} {
		assert.Contains(t, body, want)
	}
}
