package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-skywindow/internal/intervals"
	"github.com/litescript/ls-skywindow/internal/visibility"
)

// Coverage display colors
const (
	colorVisHigh   = "#7CFC00" // Lawn green - long window
	colorVisMedium = "#FFD700" // Gold - usable window
	colorVisLow    = "#FF6347" // Tomato - short window
	colorVisNone   = "#444444" // Dark gray - never observable
)

// coverageTier buckets a telescope's total observable time.
type coverageTier int

const (
	coverageNone coverageTier = iota
	coverageLow
	coverageMedium
	coverageHigh
)

func tierFor(total time.Duration) coverageTier {
	switch {
	case total >= 4*time.Hour:
		return coverageHigh
	case total >= time.Hour:
		return coverageMedium
	case total > 0:
		return coverageLow
	default:
		return coverageNone
	}
}

// RenderTelescopeList renders one line per telescope with a coverage bar.
// Format:
//
//	▶ lco.coj.1m0a      ████  1:31  (1 interval)
//	  lco.lsc.1m0a      ░░░░  never observable
func RenderTelescopeList(results []visibility.Result, selected int) string {
	if len(results) == 0 {
		return lipgloss.NewStyle().Foreground(lipgloss.Color("60")).Render("  No telescopes")
	}

	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	activeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#9D4EDD")).Bold(true)

	lines := make([]string, 0, len(results))
	for i, r := range results {
		marker, style := "  ", labelStyle
		if i == selected {
			marker, style = "▶ ", activeStyle
		}
		line := marker + style.Render(fmt.Sprintf("%-16s", r.Telescope)) + "  "

		total := intervals.Total(r.Intervals)
		tier := tierFor(total)
		line += lipgloss.NewStyle().Foreground(lipgloss.Color(tierToColor(tier))).Render(tierToBar(tier)) + "  "

		switch {
		case r.Status == visibility.StatusUnsolvable:
			line += dimStyle.Render("position undefined over window")
		case len(r.Intervals) == 0:
			line += dimStyle.Render("never observable")
		default:
			noun := "intervals"
			if len(r.Intervals) == 1 {
				noun = "interval"
			}
			line += labelStyle.Render(visibility.FormatDuration(total)) + dimStyle.Render(fmt.Sprintf("  (%d %s)", len(r.Intervals), noun))
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// tierToBar converts a coverage tier to a 4-character bar.
func tierToBar(tier coverageTier) string {
	switch tier {
	case coverageHigh:
		return "████"
	case coverageMedium:
		return "██░░"
	case coverageLow:
		return "█░░░"
	default:
		return "░░░░"
	}
}

func tierToColor(tier coverageTier) string {
	switch tier {
	case coverageHigh:
		return colorVisHigh
	case coverageMedium:
		return colorVisMedium
	case coverageLow:
		return colorVisLow
	default:
		return colorVisNone
	}
}

// RenderPlanPanel renders one telescope's intervals with their phase
// relative to now, followed by an active/next summary.
func RenderPlanPanel(r visibility.Result, now time.Time) string {
	var b strings.Builder

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	nowStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Bold(true)
	nextStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("229"))

	b.WriteString(headerStyle.Render("INTERVALS · " + r.Telescope))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", 60))
	b.WriteString("\n")

	if len(r.Intervals) == 0 {
		msg := "  -- never observable --"
		if r.Status == visibility.StatusUnsolvable {
			msg = "  -- target position undefined over the window --"
		}
		b.WriteString(dimStyle.Render(msg))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(labelStyle.Render("  START (UTC)          END (UTC)            LENGTH  STATUS"))
	b.WriteString("\n")

	plan := visibility.NewPlan(r.Telescope, r.Intervals, now)
	for _, s := range plan.Slots {
		b.WriteString("  ")
		b.WriteString(valueStyle.Render(s.Start.UTC().Format("2006-01-02 15:04:05")))
		b.WriteString("  ")
		b.WriteString(valueStyle.Render(s.End.UTC().Format("2006-01-02 15:04:05")))
		b.WriteString("  ")
		b.WriteString(valueStyle.Render(fmt.Sprintf("%6s", visibility.FormatDuration(s.Duration()))))
		b.WriteString("  ")

		switch s.Phase {
		case visibility.PhaseNow:
			b.WriteString(nowStyle.Render("NOW"))
		case visibility.PhaseNext:
			b.WriteString(nextStyle.Render("NEXT"))
		case visibility.PhasePast:
			b.WriteString(dimStyle.Render("PAST"))
		default:
			b.WriteString(dimStyle.Render("-"))
		}
		b.WriteString("\n")
	}

	if current := plan.Current(); current != nil {
		b.WriteString(nowStyle.Render("  ▶ Observable now, ends in " + formatCountdown(current.End.Sub(now))))
		b.WriteString("\n")
	}
	if next := plan.Next(); next != nil {
		b.WriteString(nextStyle.Render("  ▷ Next window in " + formatCountdown(next.Start.Sub(now))))
		b.WriteString("\n")
	}

	return b.String()
}

// formatCountdown formats a duration for display.
func formatCountdown(d time.Duration) string {
	if d < 0 {
		return "now"
	}
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	hours := int(d.Hours())
	mins := int(d.Minutes()) % 60
	if mins == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh %dm", hours, mins)
}
