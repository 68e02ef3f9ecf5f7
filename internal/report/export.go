package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/xuri/excelize/v2"
)

const (
	summarySheet  = "Summary"
	topItemsSheet = "Top Items"
)

// ExportXLSX writes the report as a workbook with a summary sheet and a top
// items sheet.
func ExportXLSX(s Sales, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), summarySheet); err != nil {
		return fmt.Errorf("cannot name summary sheet: %w", err)
	}

	rows := [][]interface{}{
		{"Period", s.Period},
		{"From", s.From.Format("2006-01-02 15:04")},
		{"To", s.To.Format("2006-01-02 15:04")},
		{"Orders", s.OrderCount},
		{"Total sales", s.TotalSales},
		{"Total tax", s.TotalTax},
		{},
		{"Payment method", "Total"},
	}
	for _, k := range sortedKeys(s.PaymentMethods) {
		rows = append(rows, []interface{}{k, s.PaymentMethods[k]})
	}
	rows = append(rows, []interface{}{}, []interface{}{"Dining mode", "Total"})
	for _, k := range sortedKeys(s.DiningModes) {
		rows = append(rows, []interface{}{k, s.DiningModes[k]})
	}

	if err := writeRows(f, summarySheet, rows); err != nil {
		return err
	}

	if _, err := f.NewSheet(topItemsSheet); err != nil {
		return fmt.Errorf("cannot create top items sheet: %w", err)
	}
	items := [][]interface{}{{"Item", "Title", "Quantity", "Revenue"}}
	for _, it := range s.TopItems {
		items = append(items, []interface{}{it.ID, it.Title, it.Quantity, it.Revenue})
	}
	if err := writeRows(f, topItemsSheet, items); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("cannot write workbook: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		for j, value := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("cannot write %s!%s: %w", sheet, cell, err)
			}
		}
	}
	return nil
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
