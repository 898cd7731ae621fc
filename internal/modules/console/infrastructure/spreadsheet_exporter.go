package infrastructure

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"adminConsole/internal/modules/console/application/port"
)

const (
	xlsxContentType  = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	defaultSheetName = "Sheet1"
	maxSheetName     = 31
)

// SpreadsheetExporter renders the visible page of a list as an xlsx workbook.
type SpreadsheetExporter struct{}

func NewSpreadsheetExporter() *SpreadsheetExporter {
	return &SpreadsheetExporter{}
}

func (e *SpreadsheetExporter) ContentType() string { return xlsxContentType }

func (e *SpreadsheetExporter) Extension() string { return "xlsx" }

func (e *SpreadsheetExporter) Export(w io.Writer, sheet port.Sheet) error {
	if len(sheet.Rows) == 0 {
		return port.ErrNothingToExport
	}

	f := excelize.NewFile()
	defer f.Close()

	name := sheetName(sheet.Name)
	if err := f.SetSheetName(defaultSheetName, name); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	sw, err := f.NewStreamWriter(name)
	if err != nil {
		return fmt.Errorf("open stream writer: %w", err)
	}

	header := make([]interface{}, len(sheet.Headers))
	for i, label := range sheet.Headers {
		header[i] = excelize.Cell{StyleID: headerStyle, Value: label}
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, row := range sheet.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := make([]interface{}, len(row))
		for j, value := range row {
			values[j] = value
		}
		if err := sw.SetRow(cell, values); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flush sheet: %w", err)
	}
	return f.Write(w)
}

// ExportFilename names the download "<entity>_<YYYY-MM-DD>.<ext>".
func ExportFilename(entity, extension string, at time.Time) string {
	return fmt.Sprintf("%s_%s.%s", strings.TrimSpace(entity), at.Format("2006-01-02"), extension)
}

func sheetName(name string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return -1
		}
		return r
	}, strings.TrimSpace(name))
	if cleaned == "" {
		return defaultSheetName
	}
	if len(cleaned) > maxSheetName {
		cleaned = cleaned[:maxSheetName]
	}
	return cleaned
}

var _ port.Exporter = (*SpreadsheetExporter)(nil)
