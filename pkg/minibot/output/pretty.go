package output

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jamesainslie/minibot/pkg/minibot/types"
)

// PrettyFormatter renders a styled terminal report around the results table.
type PrettyFormatter struct {
	Theme Theme
}

// Format writes the formatted output to the buffer.
func (f *PrettyFormatter) Format(w *bytes.Buffer, r *Report) error {
	theme := f.Theme
	if theme.Primary == "" {
		theme = NewTheme("")
	}

	w.WriteString(f.header(theme, r))
	w.WriteString("\n")

	if len(r.Files) == 0 {
		w.WriteString(theme.Muted.Render("No files found."))
		w.WriteString("\n")
	} else {
		w.WriteString(Table(r.Files, theme))
		w.WriteString("\n")
		w.WriteString(f.footer(theme, r))
		w.WriteString("\n")
	}

	if len(r.Warnings) > 0 {
		w.WriteString(theme.Warning.Bold(true).Render("Warnings:"))
		w.WriteString("\n")
		for _, warning := range r.Warnings {
			w.WriteString(theme.Warning.Render("  " + warning))
			w.WriteString("\n")
		}
	}

	return nil
}

func (f *PrettyFormatter) header(theme Theme, r *Report) string {
	lines := []string{
		theme.Label.Render("Root:") + " " + r.Root,
		fmt.Sprintf("%s %d files in %d directories, %s",
			theme.Label.Render("Scanned:"),
			r.Stats.FilesFound, r.Stats.DirsScanned, FormatElapsed(r.Stats.Elapsed)),
	}

	if r.Suffix != "" {
		lines = append(lines, theme.Label.Render("Filter:")+" *"+r.Suffix)
	}
	if r.Stats.Skipped > 0 {
		lines = append(lines, theme.Muted.Render(fmt.Sprintf("%d entries could not be read", r.Stats.Skipped)))
	}
	if r.Cancelled {
		lines = append(lines, theme.Warning.Bold(true).Render(
			fmt.Sprintf("Scan cancelled after %d of %d directories", r.Stats.DirsScanned, r.Stats.DirsTotal)))
	}

	return theme.Box.Render(strings.Join(lines, "\n"))
}

func (f *PrettyFormatter) footer(theme Theme, r *Report) string {
	return fmt.Sprintf("%s %d  %s %s  %s %s",
		theme.Label.Render("Listed:"), len(r.Files),
		theme.Label.Render("Size:"), theme.Size.Render(types.FormatSize(r.ListedSize())),
		theme.Label.Render("Of total:"), types.FormatSize(r.Stats.TotalSize),
	)
}

// FormatElapsed renders a scan duration, e.g. "350ms", "4.2s", "3m 7s".
func FormatElapsed(d time.Duration) string {
	switch {
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	case d < time.Hour:
		return fmt.Sprintf("%dm %ds", int(d.Minutes()), int(d.Seconds())%60)
	default:
		return fmt.Sprintf("%dh %dm", int(d.Hours()), int(d.Minutes())%60)
	}
}

func init() {
	Register("pretty", func() Formatter { return &PrettyFormatter{} })
}

var _ Formatter = (*PrettyFormatter)(nil)
