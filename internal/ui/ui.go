// Package ui provides the terminal viewer using Bubble Tea.
package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-skywindow/internal/astro"
	"github.com/litescript/ls-skywindow/internal/target"
	"github.com/litescript/ls-skywindow/internal/version"
	"github.com/litescript/ls-skywindow/internal/visibility"
)

// Msg types for Bubble Tea
type (
	// TickMsg refreshes interval phases against the clock.
	TickMsg time.Time

	// AnimTickMsg triggers fast animation updates.
	AnimTickMsg time.Time

	// resultsMsg carries a finished computation.
	resultsMsg struct {
		results []visibility.Result
		airmass map[string]visibility.AirmassSeries
		elapsed time.Duration
		err     error
	}
)

// Model is the root Bubble Tea model.
type Model struct {
	orch *visibility.Orchestrator
	req  visibility.Request
	now  func() time.Time

	width    int
	height   int
	ready    bool
	animTick int

	loading bool
	err     error
	elapsed time.Duration

	results     []visibility.Result
	airmass     map[string]visibility.AirmassSeries
	selected    int
	showAirmass bool
}

// New creates the viewer for a validated request.
func New(orch *visibility.Orchestrator, req visibility.Request) Model {
	return Model{
		orch:        orch,
		req:         req,
		now:         time.Now,
		loading:     true,
		showAirmass: true,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		animTickCmd(),
		m.computeCmd(),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "up", "k":
			if m.selected > 0 {
				m.selected--
			}
		case "down", "j":
			if m.selected < len(m.results)-1 {
				m.selected++
			}
		case "a":
			m.showAirmass = !m.showAirmass
		case "r":
			if !m.loading {
				m.loading = true
				return m, m.computeCmd()
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

	case TickMsg:
		return m, tickCmd()

	case AnimTickMsg:
		m.animTick++
		return m, animTickCmd()

	case resultsMsg:
		m.loading = false
		m.err = msg.err
		m.elapsed = msg.elapsed
		if msg.err == nil {
			m.results = msg.results
			m.airmass = msg.airmass
			if m.selected >= len(m.results) {
				m.selected = 0
			}
		}
	}

	return m, nil
}

// Selected returns the id of the highlighted telescope, or "".
func (m Model) Selected() string {
	if m.selected < 0 || m.selected >= len(m.results) {
		return ""
	}
	return m.results[m.selected].Telescope
}

// computeCmd runs the request off the UI goroutine. Airmass is sampled
// from the intervals just computed rather than solving them twice.
func (m Model) computeCmd() tea.Cmd {
	orch, req := m.orch, m.req
	return func() tea.Msg {
		ctx := context.Background()
		began := time.Now()

		results, err := orch.Results(ctx, req)
		if err != nil {
			return resultsMsg{err: err}
		}

		tgt := target.Build(req.Target)
		airmass := make(map[string]visibility.AirmassSeries, len(results))
		for i, r := range results {
			s, err := orch.Engine().Airmass(ctx, req.Telescopes[i], tgt, r.Intervals)
			if err != nil {
				return resultsMsg{err: err}
			}
			if s.Len() > 0 {
				airmass[r.Telescope] = s
			}
		}
		return resultsMsg{results: results, airmass: airmass, elapsed: time.Since(began)}
	}
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	now := m.now()
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	switch {
	case m.err != nil:
		errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#E84A27"))
		b.WriteString(errStyle.Render("  ERROR: " + m.err.Error()))
		b.WriteString("\n")
	case m.loading && m.results == nil:
		b.WriteString("  ")
		b.WriteString(renderShimmerText("Computing visibility...", m.animTick))
		b.WriteString("\n")
	default:
		b.WriteString(RenderTelescopeList(m.results, m.selected))
		b.WriteString("\n\n")
		if m.selected < len(m.results) {
			r := m.results[m.selected]
			b.WriteString(RenderPlanPanel(r, now))
			if m.showAirmass {
				b.WriteString("\n")
				b.WriteString(RenderAirmassSparkline(m.airmass[r.Telescope], m.req.Limits.MaxAirmass, SparklineWidth))
				b.WriteString("\n")
			}
		}
	}

	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m Model) renderHeader() string {
	var b strings.Builder
	b.WriteString("\n  ")

	title := []rune("SKYWINDOW")
	for col, r := range title {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(gradientColor(col, len(title)))).Bold(true)
		b.WriteString(style.Render(string(r)))
	}

	muted := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	b.WriteString(muted.Render(fmt.Sprintf("  v%s", version.Version)))
	b.WriteString("\n")

	kind := "-"
	if m.req.Target != nil {
		kind = string(m.req.Target.Kind())
	}
	summary := fmt.Sprintf("  %s target · %s → %s · airmass ≤ %.2f",
		kind,
		m.req.Start.UTC().Format("2006-01-02 15:04"),
		m.req.End.UTC().Format("2006-01-02 15:04"),
		m.req.Limits.MaxAirmass,
	)
	if epoch, ok := elementsEpoch(m.req.Target); ok {
		summary += " · elements " + epoch.Format("2006-01-02")
	}
	b.WriteString(muted.Render(summary))
	b.WriteString("\n")
	return b.String()
}

// elementsEpoch returns the osculation epoch of orbital targets.
func elementsEpoch(d target.Descriptor) (time.Time, bool) {
	switch d := d.(type) {
	case target.MinorPlanet:
		return astro.MJDToTime(d.EpochOfElements), true
	case target.MajorPlanet:
		return astro.MJDToTime(d.EpochOfElements), true
	case target.Comet:
		return astro.MJDToTime(d.EpochOfElements), true
	}
	return time.Time{}, false
}

func (m Model) renderFooter() string {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#7B2CBF"))

	spinnerFrames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

	var status string
	switch {
	case m.loading:
		status = accentStyle.Render(spinnerFrames[m.animTick%len(spinnerFrames)]) + dimStyle.Render(" computing")
	case m.elapsed > 0:
		status = dimStyle.Render(fmt.Sprintf("computed in %s", m.elapsed.Round(time.Millisecond)))
	}

	help := dimStyle.Render("↑↓/jk: telescope | a: airmass | r: recompute | q: quit")
	if status == "" {
		return "  " + help
	}
	return "  " + status + "  " + dimStyle.Render("|") + "  " + help
}

// gradientColor returns a hex color along the title gradient:
// blue -> purple -> magenta -> pink.
func gradientColor(col, width int) string {
	x := 0.0
	if width > 1 {
		x = float64(col) / float64(width-1)
	}

	var r, g, b float64
	switch {
	case x < 0.33:
		t := x / 0.33
		r, g, b = 59+t*(139-59), 130+t*(92-130), 246
	case x < 0.66:
		t := (x - 0.33) / 0.33
		r, g, b = 139+t*(217-139), 92+t*(70-92), 246+t*(239-246)
	default:
		t := (x - 0.66) / 0.34
		r, g, b = 217+t*(236-217), 70+t*(72-70), 239+t*(153-239)
	}
	return fmt.Sprintf("#%02X%02X%02X", clampByte(r), clampByte(g), clampByte(b))
}

func clampByte(v float64) int {
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	default:
		return int(v)
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(30*time.Second, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func animTickCmd() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return AnimTickMsg(t)
	})
}

// renderShimmerText renders text with a subtle moving shine effect.
func renderShimmerText(text string, tick int) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}

	pos := tick % (len(runes) + 8)

	var result strings.Builder
	for i, r := range runes {
		dist := i - pos + 4
		if dist < 0 {
			dist = -dist
		}

		var r8, g8, b8 int
		switch {
		case dist <= 1:
			r8, g8, b8 = 180, 160, 220
		case dist <= 3:
			r8, g8, b8 = 140, 120, 180
		case dist <= 5:
			r8, g8, b8 = 110, 90, 150
		default:
			r8, g8, b8 = 80, 70, 120
		}

		style := lipgloss.NewStyle().Foreground(lipgloss.Color(fmt.Sprintf("#%02X%02X%02X", r8, g8, b8)))
		result.WriteString(style.Render(string(r)))
	}
	return result.String()
}
