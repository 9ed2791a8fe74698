package output

import (
	"bytes"
	"fmt"
	"text/tabwriter"
)

// PlainFormatter writes an aligned, uncoloured table for scripts and pipes.
type PlainFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *PlainFormatter) Format(w *bytes.Buffer, r *Report) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	if _, err := fmt.Fprintln(tw, "NO\tSIZE\tPATH"); err != nil {
		return err
	}
	for i, file := range r.Files {
		if _, err := fmt.Fprintf(tw, "%d\t%s\t%s\n", i+1, file.HumanSize(), file.Path); err != nil {
			return err
		}
	}

	return tw.Flush()
}

func init() {
	Register("plain", func() Formatter { return &PlainFormatter{} })
}

var _ Formatter = (*PlainFormatter)(nil)
