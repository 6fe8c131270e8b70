package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/nao1215/backlinkscan/internal/model"
)

// SheetName is the worksheet that holds the export.
const SheetName = "Backlink Report"

// column widths in characters, in ExportHeader order.
var xlsxColumnWidths = []float64{60, 10, 40, 40, 20, 12}

// XLSXWriter exports a run as a spreadsheet: one bold header row followed
// by one row per backlink in submission order. The HTTP Status column holds
// a number when a status was observed and is left empty otherwise.
type XLSXWriter struct {
	baseWriter
}

// NewXLSXWriter creates an XLSXWriter that outputs to the given writer.
func NewXLSXWriter(output io.Writer) *XLSXWriter {
	return &XLSXWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the run as an XLSX workbook.
func (w *XLSXWriter) Write(run *model.Run) (int, error) {
	f, err := buildWorkbook(run)
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = f.Close() //nolint:errcheck // workbook is in memory
	}()

	n, err := f.WriteTo(w.output)
	if err != nil {
		return int(n), fmt.Errorf("failed to write workbook: %w", err)
	}
	return int(n), nil
}

func buildWorkbook(run *model.Run) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]interface{}, len(model.ExportHeader))
	for i, h := range model.ExportHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	lastCol, err := excelize.ColumnNumberToName(len(model.ExportHeader))
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(SheetName, "A1", lastCol+"1", bold); err != nil {
		return nil, fmt.Errorf("failed to style header: %w", err)
	}

	for i, width := range xlsxColumnWidths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(SheetName, col, col, width); err != nil {
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}

	for i, r := range run.Results {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(SheetName, cell, rowCells(r.Row())); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	return f, nil
}

// rowCells converts a row to spreadsheet cells, writing the HTTP status as
// a number.
func rowCells(row model.Row) *[]interface{} {
	values := row.Values()
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	if code, err := strconv.Atoi(row.HTTPStatus); err == nil {
		cells[len(cells)-1] = code
	}
	return &cells
}
