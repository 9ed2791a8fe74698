package output

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/jamesainslie/minibot/pkg/minibot/types"
)

// MaxPathWidth is the widest path shown in the results table.
const MaxPathWidth = 80

// TruncatePath shortens path to at most width runes, keeping the end and
// marking the cut with a leading "...".
func TruncatePath(path string, width int) string {
	runes := []rune(path)
	if width <= 3 || len(runes) <= width {
		return path
	}
	return "..." + string(runes[len(runes)-(width-3):])
}

// Table renders files as a numbered, boxed table (No. / Size / File Path).
// Row numbers start at 1 and match the order of files.
func Table(files []types.FileEntry, theme Theme) string {
	rows := make([][]string, len(files))
	for i, f := range files {
		rows[i] = []string{strconv.Itoa(i + 1), f.HumanSize(), TruncatePath(f.Path, MaxPathWidth)}
	}

	cell := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(theme.Border).
		Headers("No.", "Size", "File Path").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return theme.Header
			case col == 0 || col == 1:
				return cell.Align(lipgloss.Right)
			default:
				return cell
			}
		})

	return t.String()
}
