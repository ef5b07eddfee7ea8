package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

const (
	defaultSheet  = "Sheet1"
	maxSheetName  = 31
	columnWidth   = 20
	sheetNameBans = `:\/?*[]`
)

type xlsxReporter struct {
	writer io.Writer
}

func (c *xlsxReporter) Handle(report *Report) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := SheetName(report.Title)
	if sheet != defaultSheet {
		if err := f.SetSheetName(defaultSheet, sheet); err != nil {
			return fmt.Errorf("failed to name sheet: %w", err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	wrapStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
	})
	if err != nil {
		return fmt.Errorf("failed to create cell style: %w", err)
	}

	if err := writeRow(f, sheet, 1, report.Labels()); err != nil {
		return err
	}
	if len(report.Columns) > 0 {
		last, err := excelize.CoordinatesToCellName(len(report.Columns), 1)
		if err != nil {
			return fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
			return fmt.Errorf("failed to set header style: %w", err)
		}
		lastCol, err := excelize.ColumnNumberToName(len(report.Columns))
		if err != nil {
			return fmt.Errorf("failed to convert column number: %w", err)
		}
		if err := f.SetColWidth(sheet, "A", lastCol, columnWidth); err != nil {
			return fmt.Errorf("failed to set column width: %w", err)
		}
		if err := f.SetColStyle(sheet, "A:"+lastCol, wrapStyle); err != nil {
			return fmt.Errorf("failed to set column style: %w", err)
		}
	}

	for i, row := range report.Rows {
		if err := writeRow(f, sheet, i+2, report.Values(row)); err != nil {
			return err
		}
	}

	if _, err := f.WriteTo(c.writer); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("failed to convert coordinates: %w", err)
	}
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
	}
	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return fmt.Errorf("failed to write row %d: %w", row, err)
	}
	return nil
}

// SheetName turns a report title into a valid worksheet name.
func SheetName(title string) string {
	name := strings.Map(func(r rune) rune {
		if strings.ContainsRune(sheetNameBans, r) {
			return '-'
		}
		return r
	}, strings.TrimSpace(title))
	if runes := []rune(name); len(runes) > maxSheetName {
		name = string(runes[:maxSheetName])
	}
	if name == "" {
		return defaultSheet
	}
	return name
}
