package port

import (
	"errors"
	"io"
)

var ErrNothingToExport = errors.New("nothing to export")

// Sheet is a rendered table ready to be written to a spreadsheet.
type Sheet struct {
	Name    string
	Headers []string
	Rows    [][]string
}

// Exporter writes a sheet to w.
type Exporter interface {
	Export(w io.Writer, sheet Sheet) error
	ContentType() string
	Extension() string
}
