package shopping

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// XLSXSheet is the sheet name used by WriteXLSX.
const XLSXSheet = "Shopping List"

// FormatText renders the unchecked items as plain text, one block per aisle:
//
//	== Produce ==
//	☐ tomato (2)
//	☐ basil
//
// Aisles with nothing left to buy are omitted. checked may be nil.
func FormatText(list List, checked CheckedState) string {
	var blocks []string
	for _, g := range list.Aisles {
		var b strings.Builder
		for _, it := range g.Items {
			if checked.IsChecked(it.Key) {
				continue
			}
			if b.Len() == 0 {
				fmt.Fprintf(&b, "== %s ==", g.Aisle)
			}
			b.WriteString("\n☐ " + it.Name)
			if it.Quantity != "" {
				b.WriteString(" (" + it.Quantity + ")")
			}
		}
		if b.Len() > 0 {
			blocks = append(blocks, b.String())
		}
	}
	return strings.Join(blocks, "\n\n")
}

// WriteXLSX writes the whole list, checked items included, as a workbook
// with one row per item.
func WriteXLSX(w io.Writer, list List, checked CheckedState) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", XLSXSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	sw, err := f.NewStreamWriter(XLSXSheet)
	if err != nil {
		return fmt.Errorf("failed to create stream writer: %w", err)
	}

	header := []interface{}{"Aisle", "Item", "Quantity", "Recipes", "Checked"}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	row := 2
	for _, g := range list.Aisles {
		for _, it := range g.Items {
			done := "no"
			if checked.IsChecked(it.Key) {
				done = "yes"
			}
			cell, err := excelize.CoordinatesToCellName(1, row)
			if err != nil {
				return err
			}
			values := []interface{}{g.Aisle, it.Name, it.Quantity, strings.Join(it.Recipes, ", "), done}
			if err := sw.SetRow(cell, values); err != nil {
				return fmt.Errorf("failed to write row %d: %w", row, err)
			}
			row++
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("failed to flush sheet: %w", err)
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
