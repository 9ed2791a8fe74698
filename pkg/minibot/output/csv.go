package output

import (
	"bytes"
	"encoding/csv"
	"strconv"
)

// ExportHeader is the fixed header row of exported tables.
var ExportHeader = []string{"Path", "Size(bytes)", "Size(human-readable)"}

// CSVFormatter writes the export table as RFC 4180 CSV.
type CSVFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *CSVFormatter) Format(w *bytes.Buffer, r *Report) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(ExportHeader); err != nil {
		return err
	}
	for _, file := range r.Files {
		if err := cw.Write([]string{file.Path, strconv.FormatInt(file.Size, 10), file.HumanSize()}); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func init() {
	Register("csv", func() Formatter { return &CSVFormatter{} })
}

var _ Formatter = (*CSVFormatter)(nil)
