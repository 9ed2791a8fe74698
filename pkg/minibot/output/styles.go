package output

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Fixed palette entries (ANSI 256).
const (
	ColorSuccess = lipgloss.Color("42")
	ColorWarning = lipgloss.Color("214")
	ColorDanger  = lipgloss.Color("196")
	ColorMuted   = lipgloss.Color("245")
)

// DefaultPrimary is used when a configured colour cannot be resolved.
const DefaultPrimary = lipgloss.Color("2")

// namedColors maps terminal colour names to the 16 base ANSI colours. The
// "light" variants also answer to "bright" and the "_ex" suffix used by
// older configuration files.
var namedColors = map[string]lipgloss.Color{
	"black":        "0",
	"red":          "1",
	"green":        "2",
	"yellow":       "3",
	"blue":         "4",
	"magenta":      "5",
	"cyan":         "6",
	"white":        "7",
	"lightblack":   "8",
	"gray":         "8",
	"grey":         "8",
	"lightred":     "9",
	"lightgreen":   "10",
	"lightyellow":  "11",
	"lightblue":    "12",
	"lightmagenta": "13",
	"lightcyan":    "14",
	"lightwhite":   "15",
}

// ResolveColor turns a configured colour into a lipgloss colour. It accepts
// names ("green", "LIGHTCYAN_EX", "bright-red"), hex ("#ff8800") and ANSI
// numbers ("208"). ok is false, and DefaultPrimary returned, for anything else.
func ResolveColor(name string) (c lipgloss.Color, ok bool) {
	s := strings.ToLower(strings.TrimSpace(name))

	if strings.HasPrefix(s, "#") && (len(s) == 4 || len(s) == 7) {
		if _, err := strconv.ParseUint(s[1:], 16, 32); err == nil {
			return lipgloss.Color(s), true
		}
	}

	if n, err := strconv.Atoi(s); err == nil && n >= 0 && n <= 255 {
		return lipgloss.Color(s), true
	}

	s = strings.TrimSuffix(s, "_ex")
	s = strings.NewReplacer("_", "", "-", "", " ", "").Replace(s)
	s = strings.Replace(s, "bright", "light", 1)
	if c, ok := namedColors[s]; ok {
		return c, true
	}

	return DefaultPrimary, false
}

// Theme is the set of styles derived from the configured primary colour.
type Theme struct {
	Primary lipgloss.Color

	Title   lipgloss.Style
	Label   lipgloss.Style
	Muted   lipgloss.Style
	Size    lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Header  lipgloss.Style
	Border  lipgloss.Style
	Box     lipgloss.Style
}

// NewTheme builds a theme around primary (see ResolveColor).
func NewTheme(primary string) Theme {
	c, _ := ResolveColor(primary)

	return Theme{
		Primary: c,
		Title:   lipgloss.NewStyle().Bold(true).Foreground(c),
		Label:   lipgloss.NewStyle().Foreground(ColorMuted),
		Muted:   lipgloss.NewStyle().Foreground(ColorMuted),
		Size:    lipgloss.NewStyle().Foreground(c).Bold(true),
		Success: lipgloss.NewStyle().Foreground(ColorSuccess),
		Warning: lipgloss.NewStyle().Foreground(ColorWarning),
		Error:   lipgloss.NewStyle().Foreground(ColorDanger),
		Header:  lipgloss.NewStyle().Bold(true).Foreground(c).Padding(0, 1),
		Border:  lipgloss.NewStyle().Foreground(c),
		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(c).
			Padding(0, 1),
	}
}
