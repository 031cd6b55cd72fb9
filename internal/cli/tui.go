package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/wikigraph/pkg/layout"
)

// Panel styles
var (
	panelLabelStyle = lipgloss.NewStyle().Foreground(colorGray)
	panelErrorStyle = lipgloss.NewStyle().Foreground(colorRed)
	sparkStyle      = lipgloss.NewStyle().Foreground(colorGreen)
)

const (
	sparkWidth   = 40
	fetchTimeout = 2 * time.Second
)

// =============================================================================
// Stats Source
// =============================================================================

// watchStats is one sample of a running layout. Fields a source cannot
// observe stay zero.
type watchStats struct {
	Nodes      int
	Components int
	Steps      int
	Iteration  int
	Energy     float64
	Lo, Hi     layout.Vec
}

// statsSource samples a running layout.
type statsSource func(ctx context.Context) (watchStats, error)

// =============================================================================
// WatchModel - Live layout statistics
// =============================================================================

type tickMsg time.Time

type statsMsg struct {
	stats watchStats
	err   error
	at    time.Time
}

// WatchModel is the bubbletea model for the live stats view.
type WatchModel struct {
	ctx      context.Context
	title    string
	source   statsSource
	interval time.Duration

	stats    watchStats
	err      error
	rate     float64
	energies []float64
	last     time.Time
	lastStep int
}

// newWatchModel creates a model that samples source every interval.
func newWatchModel(ctx context.Context, title string, source statsSource, interval time.Duration) WatchModel {
	return WatchModel{ctx: ctx, title: title, source: source, interval: interval}
}

func (m WatchModel) Init() tea.Cmd {
	return m.fetch()
}

func (m WatchModel) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m WatchModel) fetch() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(m.ctx, fetchTimeout)
		defer cancel()
		s, err := m.source(ctx)
		return statsMsg{stats: s, err: err, at: time.Now()}
	}
}

func (m WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	case tickMsg:
		return m, m.fetch()
	case statsMsg:
		m.err = msg.err
		if msg.err == nil {
			m.record(msg.stats, msg.at)
		}
		return m, m.tick()
	}
	return m, nil
}

// record stores a sample and updates the step rate and energy history.
func (m *WatchModel) record(s watchStats, at time.Time) {
	if !m.last.IsZero() && s.Steps >= m.lastStep {
		if dt := at.Sub(m.last).Seconds(); dt > 0 {
			m.rate = float64(s.Steps-m.lastStep) / dt
		}
	}
	m.last, m.lastStep = at, s.Steps
	m.stats = s
	if s.Iteration > 0 {
		m.energies = append(m.energies, s.Energy)
		if len(m.energies) > sparkWidth {
			m.energies = m.energies[len(m.energies)-sparkWidth:]
		}
	}
}

func (m WatchModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("q quit"))
	b.WriteString("\n\n")

	s := m.stats
	rows := [][]string{
		{"Nodes", fmt.Sprintf("%d", s.Nodes)},
		{"Components", fmt.Sprintf("%d", s.Components)},
		{"Iteration", fmt.Sprintf("%d", s.Iteration)},
		{"Steps/s", fmt.Sprintf("%.1f", m.rate)},
		{"Energy", fmt.Sprintf("%.4g", s.Energy)},
		{"Extent", fmt.Sprintf("%.0f × %.0f", s.Hi.X-s.Lo.X, s.Hi.Y-s.Lo.Y)},
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if col == 0 {
				return panelLabelStyle
			}
			return StyleNumber
		})
	b.WriteString(t.Render())
	b.WriteString("\n")

	if len(m.energies) > 1 {
		b.WriteString(panelLabelStyle.Render("energy "))
		b.WriteString(sparkStyle.Render(sparkline(m.energies)))
		b.WriteString("\n")
	}
	if m.err != nil {
		b.WriteString(panelErrorStyle.Render(iconError + " " + m.err.Error()))
		b.WriteString("\n")
	}
	return b.String()
}

// =============================================================================
// Helpers
// =============================================================================

var listDimStyle = lipgloss.NewStyle().Foreground(colorDim)

var sparkBars = []rune("▁▂▃▄▅▆▇█")

// sparkline scales values between their minimum and maximum.
func sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	lo, hi := values[0], values[0]
	for _, v := range values {
		lo, hi = min(lo, v), max(hi, v)
	}
	out := make([]rune, len(values))
	for i, v := range values {
		idx := 0
		if hi > lo {
			idx = int((v - lo) / (hi - lo) * float64(len(sparkBars)-1))
		}
		out[i] = sparkBars[idx]
	}
	return string(out)
}
