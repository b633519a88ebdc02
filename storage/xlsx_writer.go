package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

const xlsxSheet = "CostOfLiving"

// XLSXWriter writes the resolved cities to a spreadsheet. Rows are buffered
// in memory and saved on Close.
type XLSXWriter struct {
	path string
	file *excelize.File
	next int
}

// NewXLSXWriter prepares a workbook with a header row.
func NewXLSXWriter(path string) (*XLSXWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("xlsx: create output dir: %w", err)
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", xlsxSheet); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("xlsx: rename sheet: %w", err)
	}
	for i, header := range exportHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(xlsxSheet, cell, header); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("xlsx: write header: %w", err)
		}
	}
	_ = f.SetColWidth(xlsxSheet, "A", "E", 20)

	return &XLSXWriter{path: path, file: f, next: 2}, nil
}

func (x *XLSXWriter) Write(rows []ExportRow) error {
	for _, r := range rows {
		values := []interface{}{r.City, r.Index, r.Year, nil, nil}
		if r.HasCoords {
			values[3], values[4] = r.Latitude, r.Longitude
		}
		cell, _ := excelize.CoordinatesToCellName(1, x.next)
		if err := x.file.SetSheetRow(xlsxSheet, cell, &values); err != nil {
			return fmt.Errorf("xlsx: write row %d: %w", x.next, err)
		}
		x.next++
	}
	return nil
}

// Close saves the workbook to disk.
func (x *XLSXWriter) Close() error {
	defer x.file.Close()
	if err := x.file.SaveAs(x.path); err != nil {
		return fmt.Errorf("xlsx: save %q: %w", x.path, err)
	}
	return nil
}
