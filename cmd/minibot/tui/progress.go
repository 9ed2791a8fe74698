// Package tui holds the full-screen pieces of the interactive session.
package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/jamesainslie/minibot/pkg/minibot/logging"
	"github.com/jamesainslie/minibot/pkg/minibot/output"
)

// PollInterval is how often the progress counters are read.
const PollInterval = 100 * time.Millisecond

const (
	defaultBarWidth = 30
	maxBarWidth     = 60
)

// Scan is the part of a running scan the progress view needs.
// *scanner.Handle satisfies it.
type Scan interface {
	Progress() (completed, total int64)
	Done() <-chan struct{}
	Cancel()
}

type tickMsg time.Time

type doneMsg struct{}

// ProgressModel shows a progress bar for a running scan until it finishes.
// Ctrl+C (or Esc) cancels the scan; the view stays up until the workers have
// stopped so the partial result is complete.
type ProgressModel struct {
	scan  Scan
	root  string
	theme output.Theme
	bar   progress.Model
	start time.Time

	completed int64
	total     int64
	cancelled bool
	finished  bool
}

// NewProgressModel creates the view for scan of root.
func NewProgressModel(scan Scan, root string, theme output.Theme) ProgressModel {
	bar := progress.New(
		progress.WithSolidFill(string(theme.Primary)),
		progress.WithoutPercentage(),
		progress.WithWidth(defaultBarWidth),
	)
	bar.EmptyColor = string(output.ColorMuted)

	return ProgressModel{
		scan:  scan,
		root:  root,
		theme: theme,
		bar:   bar,
		start: time.Now(),
	}
}

func tick() tea.Cmd {
	return tea.Tick(PollInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func waitDone(scan Scan) tea.Cmd {
	return func() tea.Msg {
		<-scan.Done()
		return doneMsg{}
	}
}

// Init starts polling.
func (m ProgressModel) Init() tea.Cmd {
	return tea.Batch(tick(), waitDone(m.scan))
}

// Update handles messages for the progress view.
func (m ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if m.finished {
			return m, nil
		}
		m.completed, m.total = m.scan.Progress()
		return m, tick()

	case doneMsg:
		m.completed, m.total = m.scan.Progress()
		m.finished = true
		return m, tea.Quit

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			if !m.cancelled {
				logging.Get("tui").Info("scan cancelled by user", "root", m.root)
				m.cancelled = true
				m.scan.Cancel()
			}
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.bar.Width = max(min(msg.Width-40, maxBarWidth), 10)
		return m, nil
	}

	return m, nil
}

// Percent returns the completed share of directories in [0, 1].
func (m ProgressModel) Percent() float64 {
	if m.total <= 0 {
		return 0
	}
	return min(float64(m.completed)/float64(m.total), 1)
}

// Cancelled reports whether the user stopped the scan.
func (m ProgressModel) Cancelled() bool { return m.cancelled }

// Finished reports whether the scan has ended.
func (m ProgressModel) Finished() bool { return m.finished }

// View renders the progress line.
func (m ProgressModel) View() string {
	var b strings.Builder

	b.WriteString("[")
	b.WriteString(m.bar.ViewAs(m.Percent()))
	b.WriteString("] ")
	fmt.Fprintf(&b, "%.2f%% complete...", m.Percent()*100)

	if m.total > 0 {
		b.WriteString(m.theme.Muted.Render(fmt.Sprintf("  %s/%s dirs",
			humanize.Comma(m.completed), humanize.Comma(m.total))))
	}

	switch {
	case m.finished:
		b.WriteString("\n")
	case m.cancelled:
		b.WriteString(m.theme.Warning.Render("  stopping..."))
	default:
		b.WriteString(m.theme.Muted.Render(fmt.Sprintf("  %s  [Ctrl+C to stop]",
			output.FormatElapsed(time.Since(m.start).Truncate(time.Second)))))
	}

	return b.String()
}

// RunProgress shows the progress view on out until scan ends and reports
// whether the user cancelled it.
func RunProgress(scan Scan, root string, theme output.Theme, out io.Writer) (bool, error) {
	p := tea.NewProgram(NewProgressModel(scan, root, theme), tea.WithOutput(out))

	final, err := p.Run()
	if err != nil {
		scan.Cancel()
		<-scan.Done()
		return false, fmt.Errorf("running progress view: %w", err)
	}

	m, _ := final.(ProgressModel)
	return m.Cancelled(), nil
}
