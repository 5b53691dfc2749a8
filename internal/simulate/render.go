package simulate

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/okian/readiness/internal/domain/load"
	"github.com/okian/readiness/internal/domain/model"
)

var (
	primaryColor = lipgloss.Color("#7C3AED")
	mutedColor   = lipgloss.Color("#6B7280")

	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(primaryColor)
	mutedStyle  = lipgloss.NewStyle().Foreground(mutedColor)
	cardStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(mutedColor).
			Padding(0, 1)

	colorStyles = map[model.Color]lipgloss.Style{
		model.Green:  lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")),
		model.Yellow: lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B")),
		model.Red:    lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")),
	}
	severityStyles = map[model.Severity]lipgloss.Style{
		model.Critical: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#EF4444")),
		model.Warn:     lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B")),
		model.OK:       lipgloss.NewStyle().Foreground(mutedColor),
	}
)

const rowFormat = "  %-10s  %-8s  %-6s  %5s  %6s  %s"

// RenderTriage formats the ranked results as a table, one athlete per row.
// profiles labels rows when known.
func RenderTriage(day model.Date, results []model.AlertResult, profiles map[string]Profile) string {
	lines := []string{headerStyle.Render(fmt.Sprintf("── Squad triage %s ──", day))}
	lines = append(lines, headerStyle.Render(fmt.Sprintf(rowFormat, "Athlete", "Severity", "Color", "SDW", "z", "Profile / reasons")))

	if len(results) == 0 {
		lines = append(lines, mutedStyle.Render("  No athletes reported in the baseline window"))
		return strings.Join(lines, "\n")
	}

	for _, r := range results {
		z := "-"
		if r.Z != nil {
			z = fmt.Sprintf("%.2f", *r.Z)
		}
		note := string(profiles[r.UserID])
		if len(r.Reasons) > 0 {
			note = strings.TrimSpace(note + " " + strings.Join(r.Reasons, "; "))
		}
		sev := severityStyles[r.Severity].Render(fmt.Sprintf("%-8s", r.Severity))
		col := colorStyles[r.Color].Render(fmt.Sprintf("%-6s", r.Color))
		lines = append(lines, fmt.Sprintf("  %-10s  %s  %s  %5.2f  %6s  %s",
			shortID(r.UserID), sev, col, r.SDW, z, note))
	}
	return strings.Join(lines, "\n")
}

// RenderLoadChart plots the daily load and its 7-day weighted average.
func RenderLoadChart(athleteID string, points []load.TrendPoint) string {
	title := headerStyle.Render("Daily load (AU) " + shortID(athleteID))
	if len(points) == 0 {
		return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, mutedStyle.Render("No load entries")))
	}
	daily := make([]float64, len(points))
	acute := make([]float64, len(points))
	for i, p := range points {
		daily[i] = p.Load
		acute[i] = p.Acute
	}
	graph := asciigraph.PlotMany([][]float64{daily, acute},
		asciigraph.Height(8),
		asciigraph.Width(60),
		asciigraph.Precision(0),
		asciigraph.SeriesColors(asciigraph.Default, asciigraph.Goldenrod),
		asciigraph.SeriesLegends("daily", "acute"),
	)
	last := points[len(points)-1]
	footer := mutedStyle.Render(fmt.Sprintf("acute %.0f  chronic %.0f  ratio %.2f", last.Acute, last.Chronic, last.Ratio))
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, graph, footer))
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
