package output

import (
	"fmt"

	"github.com/jptremblay/patrimoine/internal/portfolio"
	"github.com/jptremblay/patrimoine/internal/simulation"
	"github.com/jptremblay/patrimoine/pkg/datetime"
	"github.com/xuri/excelize/v2"
)

const (
	// CashFlowSheet is the name of the cash flow worksheet.
	CashFlowSheet = "Cash Flow"

	// NetWorthSheet is the name of the net worth worksheet.
	NetWorthSheet = "Net Worth"
)

// WriteXlsx exports the snapshot history as a two-sheet workbook: rows are
// dates, columns are entity names, with a trailing Total column.
func WriteXlsx(snapshots []simulation.Snapshot, path string) error {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	if err := writeSheet(f, CashFlowSheet, snapshots, cashFlowOf); err != nil {
		return err
	}
	if err := writeSheet(f, NetWorthSheet, snapshots, netWorthOf); err != nil {
		return err
	}

	// Drop the workbook's default sheet.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to remove default sheet: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to write workbook %s: %w", path, err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, snapshots []simulation.Snapshot, pick func(simulation.Snapshot) portfolio.Breakdown) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}

	names := entityColumns(snapshots, pick)
	header := append(append([]string{"Date"}, names...), "Total")
	for col, title := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return err
		}
	}

	for row, snapshot := range snapshots {
		breakdown := pick(snapshot)
		values := make([]interface{}, 0, len(names)+2)
		values = append(values, datetime.FormatDate(snapshot.Date))
		for _, name := range names {
			values = append(values, breakdown.Entities[name])
		}
		values = append(values, breakdown.Total)

		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return err
			}
		}
	}

	return nil
}
