package output

import "bytes"

// PathsFormatter writes one path per line, largest file first.
type PathsFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *PathsFormatter) Format(w *bytes.Buffer, r *Report) error {
	for _, file := range r.Files {
		w.WriteString(file.Path)
		w.WriteByte('\n')
	}
	return nil
}

func init() {
	Register("paths", func() Formatter { return &PathsFormatter{} })
}

var _ Formatter = (*PathsFormatter)(nil)
