package reporting

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
)

// BuildPDF renders a minimal PDF of the monthly report.
func BuildPDF(r MonthlyReport) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(false)
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, r.Title())
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Generated: %s", r.GeneratedAt.Format(time.RFC3339)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Total Customers: %d", r.TotalCustomers))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Total Unpaid: %s", money(r.TotalUnpaid)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Overdue Customers: %d (%s)", r.OverdueCount, pct(r.OverduePct)))
	pdf.Ln(8)

	// Province table
	pdf.SetFont("Arial", "B", 9)
	pdf.CellFormat(40, 6, "Province", "1", 0, "C", false, 0, "")
	pdf.CellFormat(20, 6, "Customers", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 6, "Allocated", "1", 0, "C", false, 0, "")
	pdf.CellFormat(35, 6, "Used", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 6, "Unpaid", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 6, "Overdue", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 9)
	for _, p := range r.Provinces {
		pdf.CellFormat(40, 6, p.Province, "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 6, fmt.Sprintf("%d", p.Customers), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, p.Allocated.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 6, fmt.Sprintf("%s (%s)", p.Used.StringFixed(2), pct(p.UsagePct)), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, money(p.Unpaid), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, fmt.Sprintf("%d (%s)", p.Overdue, pct(p.OverduePct)), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	pdf.Ln(6)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Total Imports: %s", money(r.Trade.TotalImports)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Total Exports: %s", money(r.Trade.TotalExports)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Net Balance: %s", money(r.Trade.NetBalance)))
	pdf.Ln(8)

	pdf.SetFont("Arial", "B", 10)
	pdf.Cell(0, 6, "Imports by Type")
	pdf.Ln(6)
	pdf.SetFont("Arial", "", 10)
	for _, k := range r.Trade.ImportsByKind {
		pdf.Cell(0, 6, fmt.Sprintf("%s: %s", k.Name, money(k.Value)))
		pdf.Ln(5)
	}
	pdf.Ln(3)
	pdf.SetFont("Arial", "B", 10)
	pdf.Cell(0, 6, "Exports by Type")
	pdf.Ln(6)
	pdf.SetFont("Arial", "", 10)
	for _, k := range r.Trade.ExportsByKind {
		pdf.Cell(0, 6, fmt.Sprintf("%s: %s", k.Name, money(k.Value)))
		pdf.Ln(5)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildXLSX renders the monthly report as a workbook with summary, provinces and trades sheets.
func BuildXLSX(r MonthlyReport) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	summarySheet := "summary"
	provinceSheet := "provinces"
	tradeSheet := "trades"
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(provinceSheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(tradeSheet); err != nil {
		return nil, err
	}

	_ = f.SetCellValue(summarySheet, "A1", r.Title())
	_ = f.SetCellValue(summarySheet, "A3", "Generated")
	_ = f.SetCellValue(summarySheet, "B3", r.GeneratedAt.Format(time.RFC3339))
	_ = f.SetCellValue(summarySheet, "A4", "Total Customers")
	_ = f.SetCellValue(summarySheet, "B4", r.TotalCustomers)
	_ = f.SetCellValue(summarySheet, "A5", "Total Unpaid")
	_ = f.SetCellValue(summarySheet, "B5", r.TotalUnpaid.InexactFloat64())
	_ = f.SetCellValue(summarySheet, "A6", "Overdue Customers")
	_ = f.SetCellValue(summarySheet, "B6", r.OverdueCount)
	_ = f.SetCellValue(summarySheet, "A7", "Overdue %")
	_ = f.SetCellValue(summarySheet, "B7", r.OverduePct.Round(1).InexactFloat64())

	headers := []string{"Province", "Customers", "Allocated", "Used", "Usage %", "Unpaid", "Overdue", "Overdue %"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(provinceSheet, cell, h)
	}
	for i, p := range r.Provinces {
		row := i + 2
		_ = f.SetCellValue(provinceSheet, fmt.Sprintf("A%d", row), p.Province)
		_ = f.SetCellValue(provinceSheet, fmt.Sprintf("B%d", row), p.Customers)
		_ = f.SetCellValue(provinceSheet, fmt.Sprintf("C%d", row), p.Allocated.InexactFloat64())
		_ = f.SetCellValue(provinceSheet, fmt.Sprintf("D%d", row), p.Used.InexactFloat64())
		_ = f.SetCellValue(provinceSheet, fmt.Sprintf("E%d", row), p.UsagePct.Round(1).InexactFloat64())
		_ = f.SetCellValue(provinceSheet, fmt.Sprintf("F%d", row), p.Unpaid.InexactFloat64())
		_ = f.SetCellValue(provinceSheet, fmt.Sprintf("G%d", row), p.Overdue)
		_ = f.SetCellValue(provinceSheet, fmt.Sprintf("H%d", row), p.OverduePct.Round(1).InexactFloat64())
	}

	_ = f.SetCellValue(tradeSheet, "A1", "Direction")
	_ = f.SetCellValue(tradeSheet, "B1", "Type")
	_ = f.SetCellValue(tradeSheet, "C1", "Value")
	row := 2
	for _, k := range r.Trade.ImportsByKind {
		_ = f.SetCellValue(tradeSheet, fmt.Sprintf("A%d", row), "import")
		_ = f.SetCellValue(tradeSheet, fmt.Sprintf("B%d", row), k.Name)
		_ = f.SetCellValue(tradeSheet, fmt.Sprintf("C%d", row), k.Value.InexactFloat64())
		row++
	}
	for _, k := range r.Trade.ExportsByKind {
		_ = f.SetCellValue(tradeSheet, fmt.Sprintf("A%d", row), "export")
		_ = f.SetCellValue(tradeSheet, fmt.Sprintf("B%d", row), k.Name)
		_ = f.SetCellValue(tradeSheet, fmt.Sprintf("C%d", row), k.Value.InexactFloat64())
		row++
	}
	_ = f.SetCellValue(tradeSheet, fmt.Sprintf("A%d", row+1), "Net Balance")
	_ = f.SetCellValue(tradeSheet, fmt.Sprintf("C%d", row+1), r.Trade.NetBalance.InexactFloat64())

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
