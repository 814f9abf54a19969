// file: internals/features/fees/reports/service/xlsx_export.go
package service

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const reportSheet = "Collection"

var reportHeaders = []string{"SL.No.", "Name", "Roll No.", "Class", "Village", "Monthly Fee", "Status", "Mode", "Amount"}

// ReportFilename: fee-report-March-2024.xlsx
func ReportFilename(r MonthlyReport) string {
	return fmt.Sprintf("fee-report-%s-%d.xlsx", r.Month, r.Year)
}

// WriteXLSX menulis laporan bulanan: satu baris per siswa, lalu blok ringkasan.
func WriteXLSX(w io.Writer, r MonthlyReport) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", reportSheet); err != nil {
		return err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	title := fmt.Sprintf("%s · Fee collection %s %d", r.School.Name, r.Month, r.Year)
	if err := f.SetCellValue(reportSheet, "A1", title); err != nil {
		return err
	}
	_ = f.SetCellStyle(reportSheet, "A1", "A1", bold)

	const headerRow = 3
	for i, h := range reportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, headerRow)
		if err := f.SetCellValue(reportSheet, cell, h); err != nil {
			return err
		}
	}
	first, _ := excelize.CoordinatesToCellName(1, headerRow)
	last, _ := excelize.CoordinatesToCellName(len(reportHeaders), headerRow)
	_ = f.SetCellStyle(reportSheet, first, last, bold)

	for i, row := range r.Rows {
		mode, amount := "", any("")
		if row.Mode != nil {
			mode = string(*row.Mode)
		}
		if row.Amount != nil {
			amount = *row.Amount
		}
		values := []any{i + 1, row.Name, row.StudentCode, row.ClassLabel, row.LocationLabel,
			row.MonthlyFee, string(row.Status), mode, amount}

		cell, _ := excelize.CoordinatesToCellName(1, headerRow+1+i)
		if err := f.SetSheetRow(reportSheet, cell, &values); err != nil {
			return err
		}
	}

	// ringkasan
	sumRow := headerRow + len(r.Rows) + 2
	summary := [][]any{
		{"Total students", r.Stats.Total},
		{"Paid", r.Stats.Paid},
		{"Unpaid", r.Stats.Unpaid},
		{"Online", r.Stats.OnlineCount, r.Stats.OnlineCollection},
		{"Cash", r.Stats.CashCount, r.Stats.CashCollection},
		{"Total collection", r.Stats.TotalCollection},
		{"Pending amount", r.Stats.PendingAmount},
		{"Collection rate (%)", r.Stats.CollectionRate},
	}
	for i, line := range summary {
		cell, _ := excelize.CoordinatesToCellName(1, sumRow+i)
		if err := f.SetSheetRow(reportSheet, cell, &line); err != nil {
			return err
		}
		_ = f.SetCellStyle(reportSheet, cell, cell, bold)
	}

	_ = f.SetColWidth(reportSheet, "A", "A", 8)
	_ = f.SetColWidth(reportSheet, "B", "B", 28)
	_ = f.SetColWidth(reportSheet, "C", "E", 14)
	_ = f.SetColWidth(reportSheet, "F", "I", 12)

	return f.Write(w)
}
