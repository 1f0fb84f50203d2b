package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"albion-flipper/internal/engine"
)

// SheetName is the worksheet the listings are written to.
const SheetName = "Listings"

var xlsxColumns = []struct {
	title string
	width float64
	value func(engine.Listing) any
	money bool
}{
	{"Item", 36, func(l engine.Listing) any { return l.ItemName }, false},
	{"Item ID", 22, func(l engine.Listing) any { return l.ItemID }, false},
	{"Quality", 12, func(l engine.Listing) any { return l.QualityName }, false},
	{"From", 14, func(l engine.Listing) any { return l.FromLocation }, false},
	{"To", 14, func(l engine.Listing) any { return l.ToLocation }, false},
	{"Buy price", 12, func(l engine.Listing) any { return l.BuyPrice }, true},
	{"Buy date", 14, func(l engine.Listing) any { return l.BuyDate }, false},
	{"Sell price", 12, func(l engine.Listing) any { return l.SellPrice }, true},
	{"Sell date", 14, func(l engine.Listing) any { return l.SellDate }, false},
	{"Profit", 12, func(l engine.Listing) any { return l.Profit }, true},
	{"Profit %", 10, func(l engine.Listing) any { return l.ProfitPercent }, false},
	{"Net profit", 12, func(l engine.Listing) any { return l.ItemProfit }, true},
	{"Net profit %", 12, func(l engine.Listing) any { return l.ItemProfitPercent }, false},
	{"Sold per day", 12, func(l engine.Listing) any { return l.SoldPerDay }, false},
}

// WriteXLSX writes listings as a single-sheet workbook with a frozen, filterable header.
func WriteXLSX(w io.Writer, listings []engine.Listing) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("xlsx sheet: %w", err)
	}

	header := make([]any, len(xlsxColumns))
	for i, c := range xlsxColumns {
		header[i] = c.title
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("xlsx header: %w", err)
	}

	for r, l := range listings {
		row := make([]any, len(xlsxColumns))
		for i, c := range xlsxColumns {
			row[i] = c.value(l)
		}
		cell, _ := excelize.CoordinatesToCellName(1, r+2)
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("xlsx row %d: %w", r+2, err)
		}
	}

	if err := styleSheet(f, len(listings)); err != nil {
		return err
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}
	return nil
}

func styleSheet(f *excelize.File, rows int) error {
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("xlsx style: %w", err)
	}
	money, err := f.NewStyle(&excelize.Style{NumFmt: 3}) // #,##0
	if err != nil {
		return fmt.Errorf("xlsx style: %w", err)
	}

	lastCol, _ := excelize.ColumnNumberToName(len(xlsxColumns))
	if err := f.SetCellStyle(SheetName, "A1", lastCol+"1", bold); err != nil {
		return err
	}
	for i, c := range xlsxColumns {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(SheetName, col, col, c.width); err != nil {
			return err
		}
		if c.money && rows > 0 {
			if err := f.SetCellStyle(SheetName, col+"2", fmt.Sprintf("%s%d", col, rows+1), money); err != nil {
				return err
			}
		}
	}

	if err := f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("xlsx panes: %w", err)
	}
	return f.AutoFilter(SheetName, fmt.Sprintf("A1:%s%d", lastCol, rows+1), nil)
}
