package output

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// XLSXSheet is the worksheet name used for exports.
const XLSXSheet = "Largest Files"

// XLSXFormatter writes the export table as an Excel workbook.
type XLSXFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *XLSXFormatter) Format(w *bytes.Buffer, r *Report) (err error) {
	book := excelize.NewFile()
	defer func() {
		if cerr := book.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if err := book.SetSheetName(book.GetSheetName(0), XLSXSheet); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	bold, err := book.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}

	for i, title := range ExportHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := book.SetCellValue(XLSXSheet, cell, title); err != nil {
			return err
		}
	}
	if err := book.SetRowStyle(XLSXSheet, 1, 1, bold); err != nil {
		return err
	}

	for i, file := range r.Files {
		row := i + 2
		values := []any{file.Path, file.Size, file.HumanSize()}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := book.SetCellValue(XLSXSheet, cell, v); err != nil {
				return err
			}
		}
	}

	if err := book.SetColWidth(XLSXSheet, "A", "A", 80); err != nil {
		return err
	}
	if err := book.SetColWidth(XLSXSheet, "B", "C", 20); err != nil {
		return err
	}

	return book.Write(w)
}

func init() {
	Register("xlsx", func() Formatter { return &XLSXFormatter{} })
}

var _ Formatter = (*XLSXFormatter)(nil)
