package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// CSVWriter writes the resolved cities to a CSV file.
type CSVWriter struct {
	file   *os.File
	writer *csv.Writer
}

// NewCSVWriter creates (or truncates) the CSV file at the given path and
// writes the header row. Intermediate directories are created automatically.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(exportHeader); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("csv: write header: %w", err)
	}
	w.Flush()

	return &CSVWriter{file: f, writer: w}, nil
}

// Write appends one line per row. Coordinates are left blank for cities
// missing from the coordinate table.
func (c *CSVWriter) Write(rows []ExportRow) error {
	for _, r := range rows {
		lat, lon := "", ""
		if r.HasCoords {
			lat = strconv.FormatFloat(r.Latitude, 'f', 4, 64)
			lon = strconv.FormatFloat(r.Longitude, 'f', 4, 64)
		}
		record := []string{
			r.City,
			strconv.FormatFloat(r.Index, 'f', 2, 64),
			strconv.Itoa(r.Year),
			lat,
			lon,
		}
		if err := c.writer.Write(record); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file.
func (c *CSVWriter) Close() error {
	c.writer.Flush()
	return c.file.Close()
}
